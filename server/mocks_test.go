package server

import (
	"context"

	"github.com/jacobpatterson1549/selene-darts/game"
	"github.com/jacobpatterson1549/selene-darts/game/dart"
	"github.com/jacobpatterson1549/selene-darts/game/player"
	"github.com/jacobpatterson1549/selene-darts/server/auth"
)

type mockTokenizer struct {
	CreateFunc func(p player.Name, referee bool) (string, error)
	ReadFunc   func(tokenString string) (*auth.Claims, error)
}

func (m mockTokenizer) Create(p player.Name, referee bool) (string, error) {
	return m.CreateFunc(p, referee)
}

func (m mockTokenizer) Read(tokenString string) (*auth.Claims, error) {
	return m.ReadFunc(tokenString)
}

type mockAccounts func(p player.Name, password string) (*auth.Account, error)

func (m mockAccounts) Login(p player.Name, password string) (*auth.Account, error) {
	return m(p, password)
}

type mockGames struct {
	CreateGameFunc   func(ctx context.Context, p player.Name, targetScore int) (*game.Session, error)
	ListGamesFunc    func(ctx context.Context) ([]game.Session, error)
	JoinGameFunc     func(ctx context.Context, p player.Name, id game.ID) (*game.Session, error)
	StatusFunc       func(ctx context.Context, p player.Name) (*game.Session, bool, error)
	SubmitThrowsFunc func(ctx context.Context, p player.Name, slots [dart.TurnSize]string) (*game.Session, error)
	HistoryFunc      func(ctx context.Context, gameID string) ([]game.Move, error)
	CancelGameFunc   func(ctx context.Context, id game.ID, declared string) (*game.Session, error)
	RevertGameFunc   func(ctx context.Context, id game.ID, sequence int) (*game.Session, error)
}

func (m mockGames) CreateGame(ctx context.Context, p player.Name, targetScore int) (*game.Session, error) {
	return m.CreateGameFunc(ctx, p, targetScore)
}

func (m mockGames) ListGames(ctx context.Context) ([]game.Session, error) {
	return m.ListGamesFunc(ctx)
}

func (m mockGames) JoinGame(ctx context.Context, p player.Name, id game.ID) (*game.Session, error) {
	return m.JoinGameFunc(ctx, p, id)
}

func (m mockGames) Status(ctx context.Context, p player.Name) (*game.Session, bool, error) {
	return m.StatusFunc(ctx, p)
}

func (m mockGames) SubmitThrows(ctx context.Context, p player.Name, slots [dart.TurnSize]string) (*game.Session, error) {
	return m.SubmitThrowsFunc(ctx, p, slots)
}

func (m mockGames) History(ctx context.Context, gameID string) ([]game.Move, error) {
	return m.HistoryFunc(ctx, gameID)
}

func (m mockGames) CancelGame(ctx context.Context, id game.ID, declared string) (*game.Session, error) {
	return m.CancelGameFunc(ctx, id, declared)
}

func (m mockGames) RevertGame(ctx context.Context, id game.ID, sequence int) (*game.Session, error) {
	return m.RevertGameFunc(ctx, id, sequence)
}
