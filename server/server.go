// Package server runs the http server which lets players score games of darts.
package server

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/jacobpatterson1549/selene-darts/game"
	"github.com/jacobpatterson1549/selene-darts/game/dart"
	"github.com/jacobpatterson1549/selene-darts/game/player"
	"github.com/jacobpatterson1549/selene-darts/server/auth"
	"github.com/jacobpatterson1549/selene-darts/server/log"
	"github.com/jacobpatterson1549/selene-darts/server/runner"
)

type (
	// Server runs the site.
	Server struct {
		log        log.Logger
		runner     runner.Runner
		HTTPServer *http.Server
		Config
	}

	// Config contains fields which describe the server.
	Config struct {
		// Port is the TCP port for server requests.
		Port int
		// StopDur is the maximum duration the server should take to shutdown gracefully.
		StopDur time.Duration
		// TLSCertFile is the public HTTPS certificate file.  The server uses http if it and the TLSKeyFile are empty.
		TLSCertFile string
		// TLSKeyFile is the private HTTPS key file.
		TLSKeyFile string
	}

	// Parameters contains the interfaces needed to create a new server.
	Parameters struct {
		log.Logger
		Tokenizer
		Accounts
		Games
	}

	// Tokenizer creates and reads tokens from http traffic.
	Tokenizer interface {
		Create(p player.Name, referee bool) (string, error)
		Read(tokenString string) (*auth.Claims, error)
	}

	// Accounts checks the passwords of players.
	Accounts interface {
		Login(p player.Name, password string) (*auth.Account, error)
	}

	// Games runs the games players make requests about.
	Games interface {
		CreateGame(ctx context.Context, p player.Name, targetScore int) (*game.Session, error)
		ListGames(ctx context.Context) ([]game.Session, error)
		JoinGame(ctx context.Context, p player.Name, id game.ID) (*game.Session, error)
		Status(ctx context.Context, p player.Name) (*game.Session, bool, error)
		SubmitThrows(ctx context.Context, p player.Name, slots [dart.TurnSize]string) (*game.Session, error)
		History(ctx context.Context, gameID string) ([]game.Move, error)
		CancelGame(ctx context.Context, id game.ID, declared string) (*game.Session, error)
		RevertGame(ctx context.Context, id game.ID, sequence int) (*game.Session, error)
	}
)

const (
	// HeaderContentType is used to set the document type header on http responses.
	HeaderContentType = "Content-Type"
	// HeaderAcceptEncoding is specified by the browser to tell the server what types of document encoding it can handle.
	HeaderAcceptEncoding = "Accept-Encoding"
	// HeaderContentEncoding is used to tell browsers how the document is encoded.
	HeaderContentEncoding = "Content-Encoding"
	// HeaderAuthorization carries the bearer token of the player.
	HeaderAuthorization = "Authorization"
)

// NewServer creates a Server from the Config.
func (cfg Config) NewServer(p Parameters) (*Server, error) {
	if err := cfg.validate(p); err != nil {
		return nil, fmt.Errorf("creating server: validation: %w", err)
	}
	monitor := runtimeMonitor{
		hasTLS: cfg.hasTLS(),
	}
	s := Server{
		log: p.Logger,
		HTTPServer: &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.Port),
			Handler:      p.handler(monitor),
			ReadTimeout:  60 * time.Second,
			WriteTimeout: 60 * time.Second,
		},
		Config: cfg,
	}
	return &s, nil
}

// validate ensures the configuration and parameters have no errors.
func (cfg Config) validate(p Parameters) error {
	if err := p.validate(); err != nil {
		return err
	}
	switch {
	case cfg.Port <= 0:
		return fmt.Errorf("positive port required")
	case cfg.StopDur <= 0:
		return fmt.Errorf("stop timeout duration required")
	case len(cfg.TLSCertFile) == 0 && len(cfg.TLSKeyFile) != 0,
		len(cfg.TLSCertFile) != 0 && len(cfg.TLSKeyFile) == 0:
		return fmt.Errorf("both tls cert and key files required to use tls")
	}
	return nil
}

// validate ensures that all of the parameters are present.
func (p Parameters) validate() error {
	switch {
	case p.Logger == nil:
		return fmt.Errorf("log required")
	case p.Tokenizer == nil:
		return fmt.Errorf("tokenizer required")
	case p.Accounts == nil:
		return fmt.Errorf("accounts required")
	case p.Games == nil:
		return fmt.Errorf("games required")
	}
	return nil
}

// hasTLS determines if the server should serve https requests.
func (cfg Config) hasTLS() bool {
	return len(cfg.TLSCertFile) != 0
}

// Run the server asynchronously until it receives a shutdown signal.
// Requests use contexts derived from ctx.  When the server stops, the error is added to the returned channel.
func (s *Server) Run(ctx context.Context) <-chan error {
	errC := make(chan error, 1)
	if err := s.runner.Start(); err != nil {
		errC <- fmt.Errorf("running server: %w", err)
		return errC
	}
	s.HTTPServer.BaseContext = func(net.Listener) context.Context {
		return ctx
	}
	go func() {
		if !s.hasTLS() {
			s.log.Printf("starting http server at http://127.0.0.1%v", s.HTTPServer.Addr)
			errC <- s.HTTPServer.ListenAndServe()
			return
		}
		if _, err := tls.LoadX509KeyPair(s.TLSCertFile, s.TLSKeyFile); err != nil {
			errC <- fmt.Errorf("loading tls certificate: %w", err)
			return
		}
		s.log.Printf("starting https server at https://127.0.0.1%v", s.HTTPServer.Addr)
		errC <- s.HTTPServer.ListenAndServeTLS(s.TLSCertFile, s.TLSKeyFile)
	}()
	return errC
}

// Stop asks the server to shutdown and waits for the shutdown to complete.
// An error is returned if the server if the context times out.  Stopping a server that is not running does nothing.
func (s *Server) Stop(ctx context.Context) error {
	if !s.runner.Running() {
		return nil
	}
	defer s.runner.Stop()
	ctx, cancelFunc := context.WithTimeout(ctx, s.StopDur)
	defer cancelFunc()
	if err := s.HTTPServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}
	return nil
}
