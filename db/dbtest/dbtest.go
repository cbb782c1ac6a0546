// Package dbtest contains tests that every db.Backend should pass.
package dbtest

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/jacobpatterson1549/selene-darts/db"
	"github.com/jacobpatterson1549/selene-darts/game"
	"github.com/jacobpatterson1549/selene-darts/game/player"
)

// TestBackend runs the backend tests on new backends.
func TestBackend(t *testing.T, newBackend func(t *testing.T) db.Backend) {
	t.Run("create read", func(t *testing.T) {
		testCreateRead(t, newBackend(t))
	})
	t.Run("sessions", func(t *testing.T) {
		testSessions(t, newBackend(t))
	})
	t.Run("commit moves", func(t *testing.T) {
		testCommitMoves(t, newBackend(t))
	})
	t.Run("revert", func(t *testing.T) {
		testRevert(t, newBackend(t))
	})
}

// Session creates a session between the players with the status.  The away player can be empty.
func Session(home, away player.Name, status game.StatusKind) game.Session {
	return game.Session{
		Players: [2]player.Name{home, away},
		Scores:  [2]int{301, 301},
		Status:  game.Status{Kind: status},
		Turn:    game.Home,
	}
}

func testCreateRead(t *testing.T, b db.Backend) {
	ctx := context.Background()
	s := Session("selene", "", game.Created)
	id1, err := b.CreateSession(ctx, s)
	if err != nil {
		t.Fatalf("unwanted error creating session: %v", err)
	}
	id2, err := b.CreateSession(ctx, s)
	if err != nil {
		t.Fatalf("unwanted error creating second session: %v", err)
	}
	if id2 <= id1 {
		t.Errorf("wanted second id (%v) to be larger than first (%v)", id2, id1)
	}
	got, err := b.ReadSession(ctx, id1)
	if err != nil {
		t.Fatalf("unwanted error reading session: %v", err)
	}
	want := s
	want.ID = id1
	if !reflect.DeepEqual(want, *got) {
		t.Errorf("sessions not equal:\nwanted %v\ngot    %v", want, *got)
	}
	if _, err := b.ReadSession(ctx, id2+100); !errors.Is(err, db.ErrNotFound) {
		t.Errorf("wanted %v reading missing session, got %v", db.ErrNotFound, err)
	}
	s.ID = id2 + 100
	if err := b.Commit(ctx, s); err == nil {
		t.Errorf("wanted error committing missing session")
	}
}

func testSessions(t *testing.T, b db.Backend) {
	ctx := context.Background()
	sessions := []game.Session{
		Session("selene", "jacob", game.FinishedNobody),
		Session("alice", "bob", game.Playing),
		Session("selene", "", game.Created),
		Session("carol", "selene", game.FinishedWin),
	}
	for i, s := range sessions {
		id, err := b.CreateSession(ctx, s)
		if err != nil {
			t.Fatalf("unwanted error creating session %v: %v", i, err)
		}
		sessions[i].ID = id
	}
	all, err := b.Sessions(ctx)
	switch {
	case err != nil:
		t.Fatalf("unwanted error reading sessions: %v", err)
	case !reflect.DeepEqual(ids(sessions[3], sessions[2], sessions[1], sessions[0]), ids(all...)):
		t.Errorf("wanted all sessions, newest first: %v", all)
	}
	playerSessions, err := b.PlayerSessions(ctx, "selene")
	switch {
	case err != nil:
		t.Fatalf("unwanted error reading player sessions: %v", err)
	case !reflect.DeepEqual(ids(sessions[3], sessions[2], sessions[0]), ids(playerSessions...)):
		t.Errorf("wanted sessions of selene, newest first: %v", playerSessions)
	}
	activeSessions, err := b.ActiveSessions(ctx, "selene")
	switch {
	case err != nil:
		t.Fatalf("unwanted error reading active sessions: %v", err)
	case !reflect.DeepEqual(ids(sessions[2]), ids(activeSessions...)):
		t.Errorf("wanted active session of selene: %v", activeSessions)
	case !reflect.DeepEqual(sessions[2], activeSessions[0]):
		t.Errorf("active session not equal:\nwanted %v\ngot    %v", sessions[2], activeSessions[0])
	}
	none, err := b.ActiveSessions(ctx, "dave")
	switch {
	case err != nil:
		t.Fatalf("unwanted error reading active sessions: %v", err)
	case len(none) != 0:
		t.Errorf("wanted no sessions for dave, got %v", none)
	}
}

func testCommitMoves(t *testing.T, b db.Backend) {
	ctx := context.Background()
	s := Session("selene", "jacob", game.Started)
	id, err := b.CreateSession(ctx, s)
	if err != nil {
		t.Fatalf("unwanted error creating session: %v", err)
	}
	s.ID = id
	if _, err := b.LatestMove(ctx, id); !errors.Is(err, db.ErrNotFound) {
		t.Errorf("wanted %v for latest move of empty ledger, got %v", db.ErrNotFound, err)
	}
	n := 5
	want := make([]game.Move, 0, n)
	for i := 0; i < n; i++ {
		if i > 0 {
			s.Status = game.Status{Kind: game.Playing}
			s.Scores[s.Turn] -= 20 * i
			s.Turn = s.Turn.Other()
		}
		if err := b.Commit(ctx, s); err != nil {
			t.Fatalf("unwanted error committing move %v: %v", i, err)
		}
		want = append(want, s.Snapshot(i))
	}
	got, err := b.Moves(ctx, id)
	switch {
	case err != nil:
		t.Fatalf("unwanted error reading moves: %v", err)
	case !reflect.DeepEqual(want, got):
		t.Errorf("moves not equal:\nwanted %v\ngot    %v", want, got)
	}
	latest, err := b.LatestMove(ctx, id)
	switch {
	case err != nil:
		t.Errorf("unwanted error reading latest move: %v", err)
	case !reflect.DeepEqual(want[n-1], *latest):
		t.Errorf("latest move not equal:\nwanted %v\ngot    %v", want[n-1], *latest)
	}
	m, err := b.Move(ctx, id, 2)
	switch {
	case err != nil:
		t.Errorf("unwanted error reading move: %v", err)
	case !reflect.DeepEqual(want[2], *m):
		t.Errorf("move not equal:\nwanted %v\ngot    %v", want[2], *m)
	}
	if _, err := b.Move(ctx, id, n); !errors.Is(err, db.ErrNotFound) {
		t.Errorf("wanted %v reading move after the latest, got %v", db.ErrNotFound, err)
	}
	stored, err := b.ReadSession(ctx, id)
	switch {
	case err != nil:
		t.Errorf("unwanted error reading session: %v", err)
	case !reflect.DeepEqual(s, *stored):
		t.Errorf("committed session not stored:\nwanted %v\ngot    %v", s, *stored)
	}
	other, err := b.Moves(ctx, id+100)
	switch {
	case err != nil:
		t.Errorf("unwanted error reading moves of missing game: %v", err)
	case len(other) != 0:
		t.Errorf("wanted no moves for missing game, got %v", other)
	}
}

func testRevert(t *testing.T, b db.Backend) {
	ctx := context.Background()
	s := Session("selene", "jacob", game.Started)
	id, err := b.CreateSession(ctx, s)
	if err != nil {
		t.Fatalf("unwanted error creating session: %v", err)
	}
	s.ID = id
	moves := make([]game.Move, 0, 6)
	for i := 0; i < 6; i++ {
		s.Scores[game.Home] = 301 - i
		if err := b.Commit(ctx, s); err != nil {
			t.Fatalf("unwanted error committing move %v: %v", i, err)
		}
		moves = append(moves, s.Snapshot(i))
	}
	if err := b.Revert(ctx, moves[2]); err != nil {
		t.Fatalf("unwanted error reverting: %v", err)
	}
	got, err := b.ReadSession(ctx, id)
	switch {
	case err != nil:
		t.Fatalf("unwanted error reading reverted session: %v", err)
	case !reflect.DeepEqual(moves[2].Session, *got):
		t.Errorf("reverted session not equal:\nwanted %v\ngot    %v", moves[2].Session, *got)
	}
	history, err := b.Moves(ctx, id)
	switch {
	case err != nil:
		t.Fatalf("unwanted error reading moves: %v", err)
	case !reflect.DeepEqual(moves[:3], history):
		t.Errorf("wanted moves 0-2 after revert:\nwanted %v\ngot    %v", moves[:3], history)
	}
	latest, err := b.LatestMove(ctx, id)
	switch {
	case err != nil:
		t.Fatalf("unwanted error reading latest move: %v", err)
	case latest.Sequence != 2:
		t.Errorf("wanted latest move to be 2, got %v", latest.Sequence)
	}
	if err := b.Commit(ctx, s); err != nil {
		t.Fatalf("unwanted error committing after revert: %v", err)
	}
	latest, err = b.LatestMove(ctx, id)
	switch {
	case err != nil:
		t.Fatalf("unwanted error reading latest move: %v", err)
	case latest.Sequence != 3:
		t.Errorf("wanted commit after revert to be move 3, got %v", latest.Sequence)
	}
}

// ids gets the ids of the sessions.
func ids(sessions ...game.Session) []game.ID {
	ids := make([]game.ID, len(sessions))
	for i, s := range sessions {
		ids[i] = s.ID
	}
	return ids
}
