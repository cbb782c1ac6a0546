package coordinator

import (
	"context"

	"github.com/jacobpatterson1549/selene-darts/db"
	"github.com/jacobpatterson1549/selene-darts/game"
	"github.com/jacobpatterson1549/selene-darts/game/player"
)

// mockBackend calls the func fields it has, passing other calls to the embedded Backend.
type mockBackend struct {
	db.Backend
	CreateSessionFunc  func(ctx context.Context, s game.Session) (game.ID, error)
	SessionsFunc       func(ctx context.Context) ([]game.Session, error)
	PlayerSessionsFunc func(ctx context.Context, p player.Name) ([]game.Session, error)
	ActiveSessionsFunc func(ctx context.Context, p player.Name) ([]game.Session, error)
	ReadSessionFunc    func(ctx context.Context, id game.ID) (*game.Session, error)
	CommitFunc         func(ctx context.Context, s game.Session) error
	MovesFunc          func(ctx context.Context, id game.ID) ([]game.Move, error)
	RevertFunc         func(ctx context.Context, m game.Move) error
}

func (m mockBackend) CreateSession(ctx context.Context, s game.Session) (game.ID, error) {
	if m.CreateSessionFunc != nil {
		return m.CreateSessionFunc(ctx, s)
	}
	return m.Backend.CreateSession(ctx, s)
}

func (m mockBackend) Sessions(ctx context.Context) ([]game.Session, error) {
	if m.SessionsFunc != nil {
		return m.SessionsFunc(ctx)
	}
	return m.Backend.Sessions(ctx)
}

func (m mockBackend) PlayerSessions(ctx context.Context, p player.Name) ([]game.Session, error) {
	if m.PlayerSessionsFunc != nil {
		return m.PlayerSessionsFunc(ctx, p)
	}
	return m.Backend.PlayerSessions(ctx, p)
}

func (m mockBackend) ActiveSessions(ctx context.Context, p player.Name) ([]game.Session, error) {
	if m.ActiveSessionsFunc != nil {
		return m.ActiveSessionsFunc(ctx, p)
	}
	return m.Backend.ActiveSessions(ctx, p)
}

func (m mockBackend) ReadSession(ctx context.Context, id game.ID) (*game.Session, error) {
	if m.ReadSessionFunc != nil {
		return m.ReadSessionFunc(ctx, id)
	}
	return m.Backend.ReadSession(ctx, id)
}

func (m mockBackend) Commit(ctx context.Context, s game.Session) error {
	if m.CommitFunc != nil {
		return m.CommitFunc(ctx, s)
	}
	return m.Backend.Commit(ctx, s)
}

func (m mockBackend) Moves(ctx context.Context, id game.ID) ([]game.Move, error) {
	if m.MovesFunc != nil {
		return m.MovesFunc(ctx, id)
	}
	return m.Backend.Moves(ctx, id)
}

func (m mockBackend) Revert(ctx context.Context, mv game.Move) error {
	if m.RevertFunc != nil {
		return m.RevertFunc(ctx, mv)
	}
	return m.Backend.Revert(ctx, mv)
}
