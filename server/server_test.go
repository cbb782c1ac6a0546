package server

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/jacobpatterson1549/selene-darts/server/log/logtest"
	"github.com/jacobpatterson1549/selene-darts/server/runner"
)

func TestNewServer(t *testing.T) {
	testLog := logtest.DiscardLogger
	var tokenizer mockTokenizer
	var accounts mockAccounts
	var games mockGames
	newServerTests := []struct {
		Parameters
		Config
		wantOk bool
	}{
		{}, // no log
		{ // no tokenizer
			Parameters: Parameters{
				Logger: testLog,
			},
		},
		{ // no accounts
			Parameters: Parameters{
				Logger:    testLog,
				Tokenizer: tokenizer,
			},
		},
		{ // no games
			Parameters: Parameters{
				Logger:    testLog,
				Tokenizer: tokenizer,
				Accounts:  accounts,
			},
		},
		{ // no port
			Parameters: Parameters{
				Logger:    testLog,
				Tokenizer: tokenizer,
				Accounts:  accounts,
				Games:     games,
			},
			Config: Config{
				StopDur: time.Second,
			},
		},
		{ // no stopDur
			Parameters: Parameters{
				Logger:    testLog,
				Tokenizer: tokenizer,
				Accounts:  accounts,
				Games:     games,
			},
			Config: Config{
				Port: 8000,
			},
		},
		{ // no tls key file
			Parameters: Parameters{
				Logger:    testLog,
				Tokenizer: tokenizer,
				Accounts:  accounts,
				Games:     games,
			},
			Config: Config{
				Port:        8000,
				StopDur:     time.Second,
				TLSCertFile: "cert.pem",
			},
		},
		{ // no tls cert file
			Parameters: Parameters{
				Logger:    testLog,
				Tokenizer: tokenizer,
				Accounts:  accounts,
				Games:     games,
			},
			Config: Config{
				Port:       8000,
				StopDur:    time.Second,
				TLSKeyFile: "key.pem",
			},
		},
		{ // http
			Parameters: Parameters{
				Logger:    testLog,
				Tokenizer: tokenizer,
				Accounts:  accounts,
				Games:     games,
			},
			Config: Config{
				Port:    8000,
				StopDur: time.Second,
			},
			wantOk: true,
		},
		{ // https
			Parameters: Parameters{
				Logger:    testLog,
				Tokenizer: tokenizer,
				Accounts:  accounts,
				Games:     games,
			},
			Config: Config{
				Port:        443,
				StopDur:     time.Second,
				TLSCertFile: "cert.pem",
				TLSKeyFile:  "key.pem",
			},
			wantOk: true,
		},
	}
	for i, test := range newServerTests {
		got, err := test.Config.NewServer(test.Parameters)
		switch {
		case !test.wantOk:
			if err == nil {
				t.Errorf("Test %v: wanted error", i)
			}
		case err != nil:
			t.Errorf("Test %v: unwanted error: %v", i, err)
		case got.HTTPServer == nil, got.HTTPServer.Handler == nil:
			t.Errorf("Test %v: wanted http server with handler", i)
		case got.HTTPServer.Addr != ":8000" && got.HTTPServer.Addr != ":443":
			t.Errorf("Test %v: unwanted address: %v", i, got.HTTPServer.Addr)
		}
	}
}

func TestServerRunBadTLS(t *testing.T) {
	s := Server{
		log:        logtest.DiscardLogger,
		HTTPServer: new(http.Server),
		Config: Config{
			StopDur:     time.Second,
			TLSCertFile: "missing-cert.pem",
			TLSKeyFile:  "missing-key.pem",
		},
	}
	errC := s.Run(context.Background())
	select {
	case err := <-errC:
		if err == nil {
			t.Error("wanted error loading missing tls files")
		}
	case <-time.After(time.Second):
		t.Error("wanted server to stop")
	}
	if err := <-s.Run(context.Background()); !errors.Is(err, runner.ErrAlreadyStarted) {
		t.Errorf("wanted error running server a second time, got %v", err)
	}
}

func TestServerStop(t *testing.T) {
	s := Server{
		HTTPServer: new(http.Server),
		Config: Config{
			StopDur: time.Second,
		},
	}
	if err := s.Stop(context.Background()); err != nil {
		t.Errorf("unwanted error stopping server that was not started: %v", err)
	}
}
