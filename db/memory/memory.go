// Package memory implements a backend that keeps games in memory.  Games are lost when the server stops.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/jacobpatterson1549/selene-darts/db"
	"github.com/jacobpatterson1549/selene-darts/game"
	"github.com/jacobpatterson1549/selene-darts/game/ledger"
	"github.com/jacobpatterson1549/selene-darts/game/player"
)

type (
	// Backend stores games in maps.  It is safe for concurrent use.
	Backend struct {
		mu     sync.RWMutex
		games  map[game.ID]*record
		lastID game.ID
	}

	// record is a session and its history.
	record struct {
		session game.Session
		ledger  ledger.Ledger
	}
)

// NewBackend creates an empty backend.
func NewBackend() *Backend {
	b := Backend{
		games: make(map[game.ID]*record),
	}
	return &b
}

// CreateSession stores the session with the next id.
func (b *Backend) CreateSession(ctx context.Context, s game.Session) (game.ID, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lastID++
	s.ID = b.lastID
	b.games[s.ID] = &record{
		session: s,
	}
	return s.ID, nil
}

// ReadSession gets the session for the id.
func (b *Backend) ReadSession(ctx context.Context, id game.ID) (*game.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	r, ok := b.games[id]
	if !ok {
		return nil, fmt.Errorf("reading game %v: %w", id, db.ErrNotFound)
	}
	s := r.session
	return &s, nil
}

// Sessions gets all of the sessions, newest first.
func (b *Backend) Sessions(ctx context.Context) ([]game.Session, error) {
	return b.filter(ctx, func(s game.Session) bool {
		return true
	})
}

// PlayerSessions gets the sessions of the player, newest first.
func (b *Backend) PlayerSessions(ctx context.Context, p player.Name) ([]game.Session, error) {
	return b.filter(ctx, func(s game.Session) bool {
		_, ok := s.Seat(p)
		return ok
	})
}

// ActiveSessions gets the unfinished sessions of the player, newest first.
func (b *Backend) ActiveSessions(ctx context.Context, p player.Name) ([]game.Session, error) {
	sessions, err := b.PlayerSessions(ctx, p)
	if err != nil {
		return nil, err
	}
	return db.Active(sessions), nil
}

// Commit saves the session and adds it to the game's ledger.
func (b *Backend) Commit(ctx context.Context, s game.Session) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	r, ok := b.games[s.ID]
	if !ok {
		return fmt.Errorf("committing game %v: %w", s.ID, db.ErrNotFound)
	}
	r.session = s
	r.ledger.Append(s)
	return nil
}

// Move gets a move of the game.
func (b *Backend) Move(ctx context.Context, id game.ID, sequence int) (*game.Move, error) {
	return b.move(ctx, id, func(l *ledger.Ledger) (game.Move, bool) {
		return l.Get(sequence)
	})
}

// LatestMove gets the last move of the game.
func (b *Backend) LatestMove(ctx context.Context, id game.ID) (*game.Move, error) {
	return b.move(ctx, id, (*ledger.Ledger).Latest)
}

// Moves gets the history of the game.
func (b *Backend) Moves(ctx context.Context, id game.ID) ([]game.Move, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	r, ok := b.games[id]
	if !ok {
		return []game.Move{}, nil
	}
	return r.ledger.Moves(), nil
}

// Revert restores the game to the move, forgetting later moves.
func (b *Backend) Revert(ctx context.Context, m game.Move) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	r, ok := b.games[m.ID]
	if !ok {
		return fmt.Errorf("reverting game %v: %w", m.ID, db.ErrNotFound)
	}
	if _, ok := r.ledger.Get(m.Sequence); !ok {
		return fmt.Errorf("reverting game %v to move %v: %w", m.ID, m.Sequence, db.ErrNotFound)
	}
	r.session = m.Session
	r.ledger.TruncateAfter(m.Sequence)
	return nil
}

// filter gets the sessions that match the filter, newest first.
func (b *Backend) filter(ctx context.Context, keep func(s game.Session) bool) ([]game.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	sessions := make([]game.Session, 0, len(b.games))
	for _, r := range b.games {
		if keep(r.session) {
			sessions = append(sessions, r.session)
		}
	}
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].ID > sessions[j].ID
	})
	return sessions, nil
}

// move finds a move using the get function.
func (b *Backend) move(ctx context.Context, id game.ID, get func(l *ledger.Ledger) (game.Move, bool)) (*game.Move, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	r, ok := b.games[id]
	if !ok {
		return nil, fmt.Errorf("reading move of game %v: %w", id, db.ErrNotFound)
	}
	m, ok := get(&r.ledger)
	if !ok {
		return nil, fmt.Errorf("reading move of game %v: %w", id, db.ErrNotFound)
	}
	return &m, nil
}
