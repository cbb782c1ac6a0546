// Package postgres implements a game backend for Postgres servers using stored functions.
package postgres

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"

	"github.com/jacobpatterson1549/selene-darts/db"
	"github.com/jacobpatterson1549/selene-darts/db/sql"
	"github.com/jacobpatterson1549/selene-darts/game"
	"github.com/jacobpatterson1549/selene-darts/game/player"

	_ "github.com/lib/pq" // register "postgres" database driver from package init() function
)

// DriverName is the name of the database/sql driver for Postgres.
const DriverName = "postgres"

//go:embed setup/*.sql
var setupFS embed.FS

type (
	// GameBackend provides functions to manage games on a Postgres SQL Database.
	GameBackend struct {
		Database
	}

	// Database contains methods to create, read, update, and delete data.
	Database interface {
		// Setup initializes the database by reading the files.
		Setup(ctx context.Context, files []io.Reader) error
		// Query reads a single row from the database without updating it.
		Query(ctx context.Context, q sql.Query, dest ...interface{}) error
		// QueryRows reads many rows from the database without updating it.
		QueryRows(ctx context.Context, q sql.Query, scan func(s sql.Scanner) error) error
		// Exec makes a change to existing data, creating/modifying/removing it.
		Exec(ctx context.Context, queries ...sql.Query) error
	}
)

// NewGameBackend creates a GameBackend on the database.
func NewGameBackend(d Database) (*GameBackend, error) {
	if d == nil {
		return nil, fmt.Errorf("database required")
	}
	gb := GameBackend{
		Database: d,
	}
	return &gb, nil
}

// Setup creates the tables and functions, in the order of their file names.
func (gb *GameBackend) Setup(ctx context.Context) error {
	files, err := setupFiles(setupFS)
	if err != nil {
		return fmt.Errorf("reading setup files: %w", err)
	}
	if err := gb.Database.Setup(ctx, files); err != nil {
		return fmt.Errorf("setting up game backend: %w", err)
	}
	return nil
}

// setupFiles opens the sql files in the file system.
func setupFiles(fsys fs.FS) ([]io.Reader, error) {
	names, err := fs.Glob(fsys, "setup/*.sql")
	if err != nil {
		return nil, err
	}
	files := make([]io.Reader, len(names))
	for i, n := range names {
		f, err := fsys.Open(n)
		if err != nil {
			return nil, fmt.Errorf("opening %v: %w", n, err)
		}
		files[i] = f
	}
	return files, nil
}

// CreateSession adds the session, returning its new id.
func (gb *GameBackend) CreateSession(ctx context.Context, s game.Session) (game.ID, error) {
	args := sql.SessionArgs(s)[1:]
	q := sql.NewQueryFunction("game_create", []string{"id"}, args...)
	var id game.ID
	if err := gb.Database.Query(ctx, q, &id); err != nil {
		return 0, fmt.Errorf("creating game: %w", err)
	}
	return id, nil
}

// ReadSession queries the database for the session by id.
func (gb *GameBackend) ReadSession(ctx context.Context, id game.ID) (*game.Session, error) {
	q := sql.NewQueryFunction("game_read", sql.SessionColumns, int64(id))
	var s game.Session
	if err := gb.Database.Query(ctx, q, sql.SessionDest(&s)...); err != nil {
		return nil, fmt.Errorf("reading game %v: %w", id, notFound(err))
	}
	return &s, nil
}

// Sessions reads all of the sessions.
func (gb *GameBackend) Sessions(ctx context.Context) ([]game.Session, error) {
	q := sql.NewQueryFunction("game_sessions", sql.SessionColumns)
	return gb.sessions(ctx, q)
}

// PlayerSessions reads the sessions of the player.
func (gb *GameBackend) PlayerSessions(ctx context.Context, p player.Name) ([]game.Session, error) {
	q := sql.NewQueryFunction("player_sessions", sql.SessionColumns, string(p))
	return gb.sessions(ctx, q)
}

// ActiveSessions reads the unfinished sessions of the player.
func (gb *GameBackend) ActiveSessions(ctx context.Context, p player.Name) ([]game.Session, error) {
	sessions, err := gb.PlayerSessions(ctx, p)
	if err != nil {
		return nil, err
	}
	return db.Active(sessions), nil
}

// Commit updates the session and copies it into a new move.
func (gb *GameBackend) Commit(ctx context.Context, s game.Session) error {
	queries := []sql.Query{
		sql.NewExecFunction("game_update", sql.SessionArgs(s)...),
		sql.NewExecFunction("game_move_create", int64(s.ID)),
	}
	if err := gb.Database.Exec(ctx, queries...); err != nil {
		return fmt.Errorf("committing game %v: %w", s.ID, err)
	}
	return nil
}

// Move reads a move of the game.
func (gb *GameBackend) Move(ctx context.Context, id game.ID, sequence int) (*game.Move, error) {
	q := sql.NewQueryFunction("game_move_read", sql.MoveColumns, int64(id), sequence)
	return gb.move(ctx, q)
}

// LatestMove reads the move of the game with the largest sequence.
func (gb *GameBackend) LatestMove(ctx context.Context, id game.ID) (*game.Move, error) {
	q := sql.NewQueryFunction("game_move_latest", sql.MoveColumns, int64(id))
	return gb.move(ctx, q)
}

// Moves reads the history of the game.
func (gb *GameBackend) Moves(ctx context.Context, id game.ID) ([]game.Move, error) {
	q := sql.NewQueryFunction("game_moves_read", sql.MoveColumns, int64(id))
	moves := []game.Move{}
	if err := gb.Database.QueryRows(ctx, q, sql.ScanMoves(&moves)); err != nil {
		return nil, fmt.Errorf("reading moves of game %v: %w", id, err)
	}
	return moves, nil
}

// Revert deletes the moves after the move and restores the session to it.
func (gb *GameBackend) Revert(ctx context.Context, m game.Move) error {
	queries := []sql.Query{
		sql.NewExecFunction("game_moves_delete_after", int64(m.ID), m.Sequence),
		sql.NewExecFunction("game_update", sql.SessionArgs(m.Session)...),
	}
	if err := gb.Database.Exec(ctx, queries...); err != nil {
		return fmt.Errorf("reverting game %v to move %v: %w", m.ID, m.Sequence, err)
	}
	return nil
}

func (gb *GameBackend) sessions(ctx context.Context, q sql.Query) ([]game.Session, error) {
	sessions := []game.Session{}
	if err := gb.Database.QueryRows(ctx, q, sql.ScanSessions(&sessions)); err != nil {
		return nil, fmt.Errorf("reading games: %w", err)
	}
	return sessions, nil
}

func (gb *GameBackend) move(ctx context.Context, q sql.Query) (*game.Move, error) {
	var m game.Move
	if err := gb.Database.Query(ctx, q, sql.MoveDest(&m)...); err != nil {
		return nil, fmt.Errorf("reading move: %w", notFound(err))
	}
	return &m, nil
}

// notFound converts missing rows to db.ErrNotFound.
func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return db.ErrNotFound
	}
	return err
}
