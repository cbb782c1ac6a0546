// Package sqlite implements a game backend on a SQLite database file.
package sqlite

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jacobpatterson1549/selene-darts/db"
	"github.com/jacobpatterson1549/selene-darts/db/sql"
	"github.com/jacobpatterson1549/selene-darts/game"
	"github.com/jacobpatterson1549/selene-darts/game/player"

	_ "modernc.org/sqlite" // register "sqlite" database driver from package init() function
)

// DriverName is the name of the database/sql driver for SQLite.
const DriverName = "sqlite"

type (
	// GameBackend provides functions to manage games on a SQLite Database.
	GameBackend struct {
		Database
	}

	// Database contains methods to create, read, update, and delete data.
	Database interface {
		// Query reads a single row from the database.
		Query(ctx context.Context, q sql.Query, dest ...interface{}) error
		// QueryRows reads many rows from the database without updating it.
		QueryRows(ctx context.Context, q sql.Query, scan func(s sql.Scanner) error) error
		// Exec makes a change to existing data, creating/modifying/removing it.
		Exec(ctx context.Context, queries ...sql.Query) error
	}
)

var (
	sessionColumns = strings.Join(sql.SessionColumns, ", ")
	moveColumns    = strings.Join(sql.MoveColumns, ", ")
	setupQueries   = []sql.Query{
		sql.RawQuery(`CREATE TABLE IF NOT EXISTS games
			( id INTEGER PRIMARY KEY AUTOINCREMENT
			, player_one TEXT NOT NULL
			, player_two TEXT NOT NULL DEFAULT ''
			, status INTEGER NOT NULL
			, winner INTEGER NOT NULL DEFAULT 0
			, score_one INTEGER NOT NULL
			, score_two INTEGER NOT NULL
			, turn INTEGER NOT NULL DEFAULT 0
			)`),
		sql.RawQuery(`CREATE INDEX IF NOT EXISTS games_player_one_idx ON games (player_one)`),
		sql.RawQuery(`CREATE INDEX IF NOT EXISTS games_player_two_idx ON games (player_two)`),
		sql.RawQuery(`CREATE TABLE IF NOT EXISTS game_moves
			( id INTEGER NOT NULL REFERENCES games (id) ON DELETE CASCADE
			, move INTEGER NOT NULL
			, player_one TEXT NOT NULL
			, player_two TEXT NOT NULL
			, status INTEGER NOT NULL
			, winner INTEGER NOT NULL
			, score_one INTEGER NOT NULL
			, score_two INTEGER NOT NULL
			, turn INTEGER NOT NULL
			, PRIMARY KEY (id, move)
			)`),
	}
)

// DatabaseURL creates the data source name for the database file.
// Transactions lock the database immediately and wait for other connections to release it.
func DatabaseURL(path string) string {
	return "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)&_txlock=immediate"
}

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

// Setup creates the tables.
func (gb *GameBackend) Setup(ctx context.Context) error {
	if err := gb.Database.Exec(ctx, setupQueries...); err != nil {
		return fmt.Errorf("setting up game backend: %w", err)
	}
	return nil
}

// CreateSession adds the session, returning its new id.
func (gb *GameBackend) CreateSession(ctx context.Context, s game.Session) (game.ID, error) {
	q := sql.NewStatement(`INSERT INTO games (player_one, player_two, status, winner, score_one, score_two, turn)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		RETURNING id`, sql.SessionArgs(s)[1:]...)
	var id game.ID
	if err := gb.Database.Query(ctx, q, &id); err != nil {
		return 0, fmt.Errorf("creating game: %w", err)
	}
	return id, nil
}

// ReadSession queries the database for the session by id.
func (gb *GameBackend) ReadSession(ctx context.Context, id game.ID) (*game.Session, error) {
	q := sql.NewStatement("SELECT "+sessionColumns+" FROM games WHERE id = ?", int64(id))
	var s game.Session
	if err := gb.Database.Query(ctx, q, sql.SessionDest(&s)...); err != nil {
		return nil, fmt.Errorf("reading game %v: %w", id, notFound(err))
	}
	return &s, nil
}

// Sessions reads all of the sessions.
func (gb *GameBackend) Sessions(ctx context.Context) ([]game.Session, error) {
	q := sql.NewStatement("SELECT " + sessionColumns + " FROM games ORDER BY id DESC")
	return gb.sessions(ctx, q)
}

// PlayerSessions reads the sessions of the player.
func (gb *GameBackend) PlayerSessions(ctx context.Context, p player.Name) ([]game.Session, error) {
	q := sql.NewStatement("SELECT "+sessionColumns+" FROM games WHERE player_one = ? OR player_two = ? ORDER BY id DESC", string(p), string(p))
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
		updateSession(s, ""),
		sql.NewSingleRowStatement(`INSERT INTO game_moves (`+moveColumns+`)
			SELECT (SELECT COALESCE(MAX(m.move) + 1, 0) FROM game_moves AS m WHERE m.id = g.id)
				, g.id, g.player_one, g.player_two, g.status, g.winner, g.score_one, g.score_two, g.turn
			FROM games AS g
			WHERE g.id = ?`, int64(s.ID)),
	}
	if err := gb.Database.Exec(ctx, queries...); err != nil {
		return fmt.Errorf("committing game %v: %w", s.ID, err)
	}
	return nil
}

// Move reads a move of the game.
func (gb *GameBackend) Move(ctx context.Context, id game.ID, sequence int) (*game.Move, error) {
	q := sql.NewStatement("SELECT "+moveColumns+" FROM game_moves WHERE id = ? AND move = ?", int64(id), sequence)
	return gb.move(ctx, q)
}

// LatestMove reads the move of the game with the largest sequence.
func (gb *GameBackend) LatestMove(ctx context.Context, id game.ID) (*game.Move, error) {
	q := sql.NewStatement("SELECT "+moveColumns+" FROM game_moves WHERE id = ? ORDER BY move DESC LIMIT 1", int64(id))
	return gb.move(ctx, q)
}

// Moves reads the history of the game.
func (gb *GameBackend) Moves(ctx context.Context, id game.ID) ([]game.Move, error) {
	q := sql.NewStatement("SELECT "+moveColumns+" FROM game_moves WHERE id = ? ORDER BY move ASC", int64(id))
	moves := []game.Move{}
	if err := gb.Database.QueryRows(ctx, q, sql.ScanMoves(&moves)); err != nil {
		return nil, fmt.Errorf("reading moves of game %v: %w", id, err)
	}
	return moves, nil
}

// Revert restores the session to the move and deletes the moves after it.
// The session is only updated if the move exists.
func (gb *GameBackend) Revert(ctx context.Context, m game.Move) error {
	update := updateSession(m.Session, " AND EXISTS (SELECT 1 FROM game_moves WHERE id = ? AND move = ?)", int64(m.ID), m.Sequence)
	queries := []sql.Query{
		update,
		sql.NewStatement("DELETE FROM game_moves WHERE id = ? AND move > ?", int64(m.ID), m.Sequence),
	}
	if err := gb.Database.Exec(ctx, queries...); err != nil {
		return fmt.Errorf("reverting game %v to move %v: %w", m.ID, m.Sequence, err)
	}
	return nil
}

// updateSession creates a statement to save the session.  The condition and its arguments are added to the where clause.
func updateSession(s game.Session, condition string, conditionArgs ...interface{}) sql.Statement {
	args := append(sql.SessionArgs(s)[1:], int64(s.ID))
	args = append(args, conditionArgs...)
	return sql.NewSingleRowStatement(`UPDATE games
		SET player_one = ?, player_two = ?, status = ?, winner = ?, score_one = ?, score_two = ?, turn = ?
		WHERE id = ?`+condition, args...)
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
