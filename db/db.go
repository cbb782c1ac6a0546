// Package db stores games and their histories so they can be retrieved after the server restarts.
package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jacobpatterson1549/selene-darts/game"
	"github.com/jacobpatterson1549/selene-darts/game/player"
)

type (
	// Config contains common properties of backends.
	Config struct {
		// QueryPeriod is the amount of time that any single query can take to execute.
		QueryPeriod time.Duration
	}

	// Backend stores games and the ledger of their moves.
	// Each method is linearizable for the game it accesses.
	Backend interface {
		// CreateSession stores a new session, returning its id.
		CreateSession(ctx context.Context, s game.Session) (game.ID, error)
		// ReadSession gets the session for the id.  ErrNotFound is returned if there is no session for the id.
		ReadSession(ctx context.Context, id game.ID) (*game.Session, error)
		// Sessions gets all sessions, most recently created first.
		Sessions(ctx context.Context) ([]game.Session, error)
		// PlayerSessions gets the sessions the player is in, most recently created first.
		PlayerSessions(ctx context.Context, p player.Name) ([]game.Session, error)
		// ActiveSessions gets the sessions the player is in that are not finished, most recently created first.
		ActiveSessions(ctx context.Context, p player.Name) ([]game.Session, error)
		// Commit saves the session and appends a snapshot of it to the session's ledger as a single unit.
		Commit(ctx context.Context, s game.Session) error
		// Move gets the move at the sequence in the ledger of the game.  ErrNotFound is returned if there is no such move.
		Move(ctx context.Context, id game.ID, sequence int) (*game.Move, error)
		// LatestMove gets the move with the largest sequence in the ledger of the game.  ErrNotFound is returned if the ledger is empty.
		LatestMove(ctx context.Context, id game.ID) (*game.Move, error)
		// Moves gets the ledger of the game, ordered by sequence.
		Moves(ctx context.Context, id game.ID) ([]game.Move, error)
		// Revert replaces the session with the move's snapshot and deletes the moves after it as a single unit.
		Revert(ctx context.Context, m game.Move) error
	}
)

// ErrNotFound is returned when a session or move does not exist.
var ErrNotFound = errors.New("not found")

// Validate ensures the configuration has no errors.
func (cfg Config) Validate() error {
	switch {
	case cfg.QueryPeriod <= 0:
		return fmt.Errorf("positive query period required")
	}
	return nil
}

// Active filters the sessions that are not finished.
func Active(sessions []game.Session) []game.Session {
	active := make([]game.Session, 0, len(sessions))
	for _, s := range sessions {
		if !s.Status.Finished() {
			active = append(active, s)
		}
	}
	return active
}
