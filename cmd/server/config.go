package main

import (
	"context"
	crypto_rand "crypto/rand"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/jacobpatterson1549/selene-darts/db"
	"github.com/jacobpatterson1549/selene-darts/db/firestore"
	"github.com/jacobpatterson1549/selene-darts/db/memory"
	"github.com/jacobpatterson1549/selene-darts/db/mongo"
	"github.com/jacobpatterson1549/selene-darts/db/sql"
	"github.com/jacobpatterson1549/selene-darts/db/sql/postgres"
	"github.com/jacobpatterson1549/selene-darts/db/sql/sqlite"
	"github.com/jacobpatterson1549/selene-darts/server"
	"github.com/jacobpatterson1549/selene-darts/server/auth"
	"github.com/jacobpatterson1549/selene-darts/server/coordinator"
)

const (
	memoryDriver    = "memory"
	mongoDriver     = "mongo"
	firestoreDriver = "firestore"
)

// databaseDrivers are the kinds of databases games can be stored in.
var databaseDrivers = []string{memoryDriver, postgres.DriverName, sqlite.DriverName, mongoDriver, firestoreDriver}

type (
	// backend stores games until it is closed.
	backend struct {
		db.Backend
		close func(ctx context.Context) error
	}

	// sqlGameBackend is a backend that creates its tables when it is set up.
	sqlGameBackend interface {
		db.Backend
		Setup(ctx context.Context) error
	}
)

// newBackend creates the backend for the database driver, creating its tables or indexes.
func newBackend(ctx context.Context, m mainFlags) (*backend, error) {
	cfg := db.Config{
		QueryPeriod: time.Duration(m.queryPeriodSec) * time.Second,
	}
	switch m.databaseDriver {
	case memoryDriver:
		b := backend{
			Backend: memory.NewBackend(),
			close: func(ctx context.Context) error {
				return nil
			},
		}
		return &b, nil
	case postgres.DriverName, sqlite.DriverName:
		return sqlBackend(ctx, m.databaseDriver, m.databaseURL, cfg)
	case mongoDriver:
		return mongoBackend(ctx, m.databaseURL, cfg)
	case firestoreDriver:
		return firestoreBackend(ctx, m.databaseURL, cfg)
	}
	return nil, fmt.Errorf("unknown database driver %q, wanted one of [%v]", m.databaseDriver, strings.Join(databaseDrivers, ", "))
}

// sqlBackend creates a backend on a SQL database.
func sqlBackend(ctx context.Context, driverName, databaseURL string, cfg db.Config) (*backend, error) {
	if driverName == sqlite.DriverName && len(databaseURL) != 0 {
		databaseURL = sqlite.DatabaseURL(databaseURL)
	}
	dbCfg := sql.DatabaseConfig{
		DriverName:  driverName,
		DatabaseURL: databaseURL,
		QueryPeriod: cfg.QueryPeriod,
	}
	d, err := dbCfg.NewDatabase()
	if err != nil {
		return nil, fmt.Errorf("creating SQL database: %w", err)
	}
	var gb sqlGameBackend
	switch driverName {
	case postgres.DriverName:
		gb, err = postgres.NewGameBackend(d)
	default:
		gb, err = sqlite.NewGameBackend(d)
	}
	if err != nil {
		d.Close()
		return nil, fmt.Errorf("creating %v game backend: %w", driverName, err)
	}
	if err := gb.Setup(ctx); err != nil {
		d.Close()
		return nil, err
	}
	b := backend{
		Backend: gb,
		close: func(ctx context.Context) error {
			return d.Close()
		},
	}
	return &b, nil
}

// mongoBackend creates a backend on a MongoDB database.
func mongoBackend(ctx context.Context, databaseURL string, cfg db.Config) (*backend, error) {
	gb, err := mongo.NewGameBackend(ctx, cfg, databaseURL)
	if err != nil {
		return nil, err
	}
	if err := gb.Setup(ctx); err != nil {
		gb.Close(ctx)
		return nil, err
	}
	b := backend{
		Backend: gb,
		close:   gb.Close,
	}
	return &b, nil
}

// firestoreBackend creates a backend on a Cloud Firestore database.  The database url is the id of the Google Cloud project.
func firestoreBackend(ctx context.Context, projectID string, cfg db.Config) (*backend, error) {
	gb, err := firestore.NewGameBackend(ctx, cfg, projectID)
	if err != nil {
		return nil, err
	}
	b := backend{
		Backend: gb,
		close: func(ctx context.Context) error {
			return gb.Close()
		},
	}
	return &b, nil
}

// newServer creates the server that runs games on the backend.
func newServer(m mainFlags, log *log.Logger, b db.Backend) (*server.Server, error) {
	timeFunc := func() int64 {
		return time.Now().UTC().Unix()
	}
	tokenizerCfg := auth.TokenizerConfig{
		TimeFunc: timeFunc,
		ValidSec: int64(m.tokenValidSec),
	}
	tokenizer, err := tokenizerCfg.NewTokenizer(crypto_rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("creating authentication tokenizer: %w", err)
	}
	accounts, err := readAccounts(m.accountsFile)
	if err != nil {
		return nil, err
	}
	log.Printf("read %v accounts", accounts.Len())
	coordinatorCfg := coordinator.Config{
		Log:     log,
		Backend: b,
	}
	c, err := coordinatorCfg.NewCoordinator()
	if err != nil {
		return nil, err
	}
	cfg := server.Config{
		Port:        m.port,
		StopDur:     time.Second,
		TLSCertFile: m.tlsCertFile,
		TLSKeyFile:  m.tlsKeyFile,
	}
	p := server.Parameters{
		Logger:    log,
		Tokenizer: tokenizer,
		Accounts:  accounts,
		Games:     c,
	}
	return cfg.NewServer(p)
}

// readAccounts reads the players who can log in from the file.
func readAccounts(accountsFile string) (*auth.Accounts, error) {
	if len(accountsFile) == 0 {
		return nil, fmt.Errorf("accounts file required")
	}
	f, err := os.Open(accountsFile)
	if err != nil {
		return nil, fmt.Errorf("trying to open accounts file: %w", err)
	}
	defer f.Close()
	return auth.ReadAccounts(f)
}
