package firestore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"reflect"
	"testing"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/jacobpatterson1549/selene-darts/db"
	"github.com/jacobpatterson1549/selene-darts/db/dbtest"
	"github.com/jacobpatterson1549/selene-darts/game"
)

var _ db.Backend = new(GameBackend)

// emulatorHostVar is read by the firestore client to connect to a local emulator instead of google cloud.
const emulatorHostVar = "FIRESTORE_EMULATOR_HOST"

// newGameBackend connects to the emulator after deleting the games, moves, and game counter.
func newGameBackend(t *testing.T) db.Backend {
	t.Helper()
	ctx := context.Background()
	cfg := db.Config{
		QueryPeriod: 10 * time.Second,
	}
	gb, err := NewGameBackend(ctx, cfg, "selene-darts-test")
	if err != nil {
		t.Fatalf("creating game backend: %v", err)
	}
	t.Cleanup(func() {
		gb.Close()
	})
	games, err := gb.gamesRef().Documents(ctx).GetAll()
	if err != nil {
		t.Fatalf("reading games: %v", err)
	}
	for _, g := range games {
		moves, err := g.Ref.Collection(movesCollection).Documents(ctx).GetAll()
		if err != nil {
			t.Fatalf("reading moves of game %v: %v", g.Ref.ID, err)
		}
		for _, m := range moves {
			if _, err := m.Ref.Delete(ctx); err != nil {
				t.Fatalf("deleting move %v of game %v: %v", m.Ref.ID, g.Ref.ID, err)
			}
		}
		if _, err := g.Ref.Delete(ctx); err != nil {
			t.Fatalf("deleting game %v: %v", g.Ref.ID, err)
		}
	}
	if _, err := gb.counterDoc().Delete(ctx); err != nil {
		t.Fatalf("deleting game counter: %v", err)
	}
	return gb
}

func TestGameBackend(t *testing.T) {
	if _, ok := os.LookupEnv(emulatorHostVar); !ok {
		t.Skipf("%v not set", emulatorHostVar)
	}
	dbtest.TestBackend(t, newGameBackend)
}

func TestNewGameBackendInvalidConfig(t *testing.T) {
	ctx := context.Background()
	if _, err := NewGameBackend(ctx, db.Config{}, "selene-darts-project"); err == nil {
		t.Errorf("wanted error creating backend without query period")
	}
}

func TestPlayerFilter(t *testing.T) {
	want := firestore.OrFilter{
		Filters: []firestore.EntityFilter{
			firestore.PropertyFilter{Path: "player_one", Operator: "==", Value: "selene"},
			firestore.PropertyFilter{Path: "player_two", Operator: "==", Value: "selene"},
		},
	}
	got := playerFilter("selene")
	if !reflect.DeepEqual(want, got) {
		t.Errorf("filters not equal:\nwanted: %v\ngot:    %v", want, got)
	}
}

func TestSortNewestFirst(t *testing.T) {
	sessions := []game.Session{
		{ID: 3},
		{ID: 10},
		{ID: 1},
		{ID: 7},
	}
	want := []game.Session{
		{ID: 10},
		{ID: 7},
		{ID: 3},
		{ID: 1},
	}
	sortNewestFirst(sessions)
	if !reflect.DeepEqual(want, sessions) {
		t.Errorf("sessions not sorted:\nwanted: %v\ngot:    %v", want, sessions)
	}
}

func TestNotFound(t *testing.T) {
	err := fmt.Errorf("rpc error")
	if got := notFound(nil, err); !errors.Is(got, err) {
		t.Errorf("wanted original error without snapshot, got %v", got)
	}
	missing := new(firestore.DocumentSnapshot)
	if got := notFound(missing, err); !errors.Is(got, db.ErrNotFound) {
		t.Errorf("wanted %v for missing document, got %v", db.ErrNotFound, got)
	}
}
