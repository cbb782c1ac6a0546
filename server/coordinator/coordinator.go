// Package coordinator runs the games: it creates and joins them, scores throws, and lets referees cancel and revert them.
package coordinator

import (
	"context"
	"errors"
	"fmt"

	"github.com/jacobpatterson1549/selene-darts/db"
	"github.com/jacobpatterson1549/selene-darts/game"
	"github.com/jacobpatterson1549/selene-darts/game/dart"
	"github.com/jacobpatterson1549/selene-darts/game/player"
	"github.com/jacobpatterson1549/selene-darts/game/score"
	"github.com/jacobpatterson1549/selene-darts/server/log"
)

type (
	// Coordinator changes games so that each change is validated and stored with the game's history.
	// Changes to the same game are made one at a time.  Different games change in parallel.
	Coordinator struct {
		// players guards the check that a player has no unfinished games until the player's new game is stored.
		players keyedMutex[player.Name]
		// games guards each game from being read and changed by different requests at the same time.
		games keyedMutex[game.ID]
		Config
	}

	// Config is used to create a Coordinator.
	Config struct {
		// Log is used to log changes to games and errors storing them.
		Log log.Logger
		// Backend stores the games and their moves.
		Backend db.Backend
	}
)

// NewCoordinator creates a Coordinator from the config.
func (cfg Config) NewCoordinator() (*Coordinator, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("creating game coordinator: validation: %w", err)
	}
	c := Coordinator{
		Config: cfg,
	}
	return &c, nil
}

// validate ensures the configuration has no errors.
func (cfg Config) validate() error {
	switch {
	case cfg.Log == nil:
		return fmt.Errorf("log required")
	case cfg.Backend == nil:
		return fmt.Errorf("backend required")
	}
	return nil
}

// CreateGame creates a game for the player to wait for an opponent in.
func (c *Coordinator) CreateGame(ctx context.Context, p player.Name, targetScore int) (*game.Session, error) {
	s, err := game.NewSession(p, targetScore)
	if err != nil {
		return nil, err
	}
	unlock := c.players.Lock(p)
	defer unlock()
	if err := c.checkNoActiveGame(ctx, p); err != nil {
		return nil, err
	}
	id, err := c.Backend.CreateSession(ctx, *s)
	if err != nil {
		return nil, c.persistenceFailure("creating game", err)
	}
	s.ID = id
	c.Log.Printf("%v created game %v from %v", p, id, targetScore)
	return s, nil
}

// ListGames gets all of the games, most recently created first.
func (c *Coordinator) ListGames(ctx context.Context) ([]game.Session, error) {
	sessions, err := c.Backend.Sessions(ctx)
	if err != nil {
		return nil, c.persistenceFailure("listing games", err)
	}
	if sessions == nil {
		sessions = []game.Session{}
	}
	return sessions, nil
}

// JoinGame adds the player to a game that is waiting for an opponent, recording the first move of the game.
func (c *Coordinator) JoinGame(ctx context.Context, p player.Name, id game.ID) (*game.Session, error) {
	unlockPlayer := c.players.Lock(p)
	defer unlockPlayer()
	unlockGame := c.games.Lock(id)
	defer unlockGame()
	s, err := c.readSession(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.Join(p); err != nil {
		return nil, err
	}
	if err := c.checkNoActiveGame(ctx, p); err != nil {
		return nil, err
	}
	if err := c.commit(ctx, *s); err != nil {
		return nil, err
	}
	c.Log.Printf("%v joined game %v", p, id)
	return s, nil
}

// Status gets the game the player is playing.
// If the player is not playing, the most recent game the player won is returned.
// False is returned if the player has neither.
func (c *Coordinator) Status(ctx context.Context, p player.Name) (*game.Session, bool, error) {
	sessions, err := c.Backend.PlayerSessions(ctx, p)
	if err != nil {
		return nil, false, c.persistenceFailure("reading games of player", err)
	}
	for _, s := range sessions {
		if !s.Status.Finished() {
			return &s, true, nil
		}
	}
	for _, s := range sessions {
		if winner, ok := s.Winner(); ok && winner == p {
			return &s, true, nil
		}
	}
	return nil, false, nil
}

// SubmitThrows scores a turn of the player's game.
// A turn that goes below two before its last dart is rejected without changing the game.
func (c *Coordinator) SubmitThrows(ctx context.Context, p player.Name, slots [dart.TurnSize]string) (*game.Session, error) {
	throws, err := dart.ParseTurn(slots)
	if err != nil {
		return nil, err
	}
	active, err := c.Backend.ActiveSessions(ctx, p)
	switch {
	case err != nil:
		return nil, c.persistenceFailure("reading active game", err)
	case len(active) == 0:
		return nil, game.ErrNoActiveGame
	}
	id := active[0].ID
	unlock := c.games.Lock(id)
	defer unlock()
	s, err := c.readSession(ctx, id)
	if err != nil {
		return nil, err
	}
	seat, ok := s.Seat(p)
	switch {
	case !ok, s.Status.Finished():
		return nil, game.ErrNoActiveGame
	case s.Status.Kind == game.Created:
		return nil, game.ErrGameNotStarted
	case s.Turn != seat:
		return nil, game.ErrNotYourTurn
	}
	remaining := s.Scores[seat]
	o := score.Apply(remaining, throws)
	if o.Kind == score.HardBust {
		return nil, fmt.Errorf("%w: %v would go below 2 from %v before the last dart", game.ErrInvalidThrows, throws, remaining)
	}
	if err := s.ApplyOutcome(o); err != nil {
		return nil, err
	}
	if err := c.commit(ctx, *s); err != nil {
		return nil, err
	}
	c.Log.Printf("%v threw %v in game %v: %v, %v -> %v", p, throws, id, o.Kind, remaining, o.Score)
	return s, nil
}

// History gets the moves of the game, in order.
func (c *Coordinator) History(ctx context.Context, gameID string) ([]game.Move, error) {
	id, err := game.ParseID(gameID)
	if err != nil {
		return nil, err
	}
	moves, err := c.Backend.Moves(ctx, id)
	switch {
	case err != nil:
		return nil, c.persistenceFailure("reading history", err)
	case len(moves) == 0:
		return nil, fmt.Errorf("%w: no moves for game %v", game.ErrGameNotFound, id)
	}
	return moves, nil
}

// CancelGame finishes the game with the outcome a referee declared, recording it as the last move of the game.
func (c *Coordinator) CancelGame(ctx context.Context, id game.ID, declared string) (*game.Session, error) {
	unlock := c.games.Lock(id)
	defer unlock()
	s, err := c.readSession(ctx, id)
	if err != nil {
		return nil, err
	}
	st, err := game.ParseOutcome(declared, *s)
	if err != nil {
		return nil, err
	}
	if err := s.Finish(st); err != nil {
		return nil, err
	}
	if err := c.commit(ctx, *s); err != nil {
		return nil, err
	}
	c.Log.Printf("referee cancelled game %v: %v", id, s.StatusText())
	return s, nil
}

// RevertGame restores the game to an earlier move, forgetting the moves after it.
func (c *Coordinator) RevertGame(ctx context.Context, id game.ID, sequence int) (*game.Session, error) {
	unlock := c.games.Lock(id)
	defer unlock()
	s, err := c.readSession(ctx, id)
	if err != nil {
		return nil, err
	}
	m, err := c.Backend.Move(ctx, id, sequence)
	switch {
	case errors.Is(err, db.ErrNotFound):
		return nil, fmt.Errorf("%w: game %v has no move %v", game.ErrMoveNotFound, id, sequence)
	case err != nil:
		return nil, c.persistenceFailure("reading move", err)
	}
	latest, err := c.Backend.LatestMove(ctx, id)
	switch {
	case err != nil:
		return nil, c.persistenceFailure("reading latest move", err)
	case latest.Sequence == sequence:
		return nil, game.ErrNothingToRevert
	case s.Status.Finished():
		return nil, game.ErrGameAlreadyFinished
	}
	if err := c.Backend.Revert(ctx, *m); err != nil {
		return nil, c.persistenceFailure("reverting game", err)
	}
	c.Log.Printf("referee reverted game %v from move %v to move %v", id, latest.Sequence, sequence)
	return &m.Session, nil
}

// readSession gets the game, returning game.ErrGameNotFound if it does not exist.
func (c *Coordinator) readSession(ctx context.Context, id game.ID) (*game.Session, error) {
	s, err := c.Backend.ReadSession(ctx, id)
	switch {
	case errors.Is(err, db.ErrNotFound):
		return nil, fmt.Errorf("%w: %v", game.ErrGameNotFound, id)
	case err != nil:
		return nil, c.persistenceFailure("reading game", err)
	}
	return s, nil
}

// checkNoActiveGame returns game.ErrUnfinishedGameExists if the player is in a game that is not finished.
func (c *Coordinator) checkNoActiveGame(ctx context.Context, p player.Name) error {
	active, err := c.Backend.ActiveSessions(ctx, p)
	switch {
	case err != nil:
		return c.persistenceFailure("reading active games", err)
	case len(active) != 0:
		return fmt.Errorf("%w: %v is in game %v", game.ErrUnfinishedGameExists, p, active[0].ID)
	}
	return nil
}

// commit stores the game and adds it to the game's history.
func (c *Coordinator) commit(ctx context.Context, s game.Session) error {
	if err := c.Backend.Commit(ctx, s); err != nil {
		return c.persistenceFailure(fmt.Sprintf("committing game %v", s.ID), err)
	}
	return nil
}

// persistenceFailure logs and wraps an error from the backend.
func (c *Coordinator) persistenceFailure(action string, err error) error {
	c.Log.Printf("%v: %v", action, err)
	return fmt.Errorf("%w: %v: %w", game.ErrPersistenceFailure, action, err)
}
