// Package firestore use a google cloud firestore database.
package firestore

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"cloud.google.com/go/firestore"
	"github.com/jacobpatterson1549/selene-darts/db"
	"github.com/jacobpatterson1549/selene-darts/game"
	"github.com/jacobpatterson1549/selene-darts/game/player"
	"google.golang.org/api/iterator"
)

const (
	gamesCollection    = "games"
	movesCollection    = "moves"
	countersCollection = "counters"
	gamesCounterID     = "games"
	playerOneField     = "player_one"
	playerTwoField     = "player_two"
	moveField          = "move"
	sequenceField      = "seq"
)

// GameBackend is a backend manager for the games collection.  Each game document has a collection of its moves.
type GameBackend struct {
	client *firestore.Client
	db.Config
}

// NewGameBackend creates a backend manager for games.
func NewGameBackend(ctx context.Context, cfg db.Config, projectID string) (*GameBackend, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("creating firestore game backend: validation: %w", err)
	}
	gb := GameBackend{
		Config: cfg,
	}
	client, err := firestore.NewClient(ctx, projectID) // do not timeout context - the client is used by the backend
	if err != nil {
		return nil, fmt.Errorf("creating firestore client: %w", err)
	}
	gb.client = client
	return &gb, nil
}

// Close closes the client.
func (gb *GameBackend) Close() error {
	return gb.client.Close()
}

func (gb *GameBackend) service() *firestore.DocumentRef {
	return gb.client.Collection("services").Doc("selene-darts")
}

func (gb *GameBackend) gamesRef() *firestore.CollectionRef {
	return gb.service().Collection(gamesCollection)
}

func (gb *GameBackend) gameDoc(id game.ID) *firestore.DocumentRef {
	return gb.gamesRef().Doc(id.String())
}

func (gb *GameBackend) movesRef(id game.ID) *firestore.CollectionRef {
	return gb.gameDoc(id).Collection(movesCollection)
}

func (gb *GameBackend) counterDoc() *firestore.DocumentRef {
	return gb.service().Collection(countersCollection).Doc(gamesCounterID)
}

// withTimeoutContext configures the context to timeout when running the function.
func (gb *GameBackend) withTimeoutContext(ctx context.Context, f func(ctx context.Context) error) error {
	ctx, cancelFunc := context.WithTimeout(ctx, gb.QueryPeriod)
	defer cancelFunc()
	return f(ctx)
}

// CreateSession increments the game counter and adds the session with its value in a transaction.
func (gb *GameBackend) CreateSession(ctx context.Context, s game.Session) (game.ID, error) {
	if err := gb.withTimeoutContext(ctx, func(ctx context.Context) error {
		return gb.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
			counterRef := gb.counterDoc()
			var sequence int64
			snapshot, err := tx.Get(counterRef)
			switch {
			case err == nil:
				v, err := snapshot.DataAt(sequenceField)
				if err != nil {
					return err
				}
				n, ok := v.(int64)
				if !ok {
					return fmt.Errorf("game counter is a %T", v)
				}
				sequence = n
			case snapshot == nil || snapshot.Exists():
				return err
			}
			sequence++
			s.ID = game.ID(sequence)
			if err := tx.Set(counterRef, map[string]interface{}{sequenceField: sequence}); err != nil {
				return err
			}
			return tx.Create(gb.gameDoc(s.ID), db.NewSessionDocument(s))
		})
	}); err != nil {
		return 0, fmt.Errorf("creating game: %w", err)
	}
	return s.ID, nil
}

// ReadSession gets the session by id.
func (gb *GameBackend) ReadSession(ctx context.Context, id game.ID) (*game.Session, error) {
	var doc db.SessionDocument
	if err := gb.withTimeoutContext(ctx, func(ctx context.Context) error {
		snapshot, err := gb.gameDoc(id).Get(ctx)
		if err != nil {
			return notFound(snapshot, err)
		}
		return snapshot.DataTo(&doc)
	}); err != nil {
		return nil, fmt.Errorf("reading game %v: %w", id, err)
	}
	s := doc.Session()
	return &s, nil
}

// Sessions gets all of the sessions, newest first.
func (gb *GameBackend) Sessions(ctx context.Context) ([]game.Session, error) {
	q := gb.gamesRef().Query
	return gb.sessions(ctx, q)
}

// PlayerSessions gets the sessions of the player, newest first.
func (gb *GameBackend) PlayerSessions(ctx context.Context, p player.Name) ([]game.Session, error) {
	q := gb.gamesRef().WhereEntity(playerFilter(p))
	return gb.sessions(ctx, q)
}

// ActiveSessions gets the unfinished sessions of the player, newest first.
func (gb *GameBackend) ActiveSessions(ctx context.Context, p player.Name) ([]game.Session, error) {
	sessions, err := gb.PlayerSessions(ctx, p)
	if err != nil {
		return nil, err
	}
	return db.Active(sessions), nil
}

// Commit sets the session and adds a move for it in a transaction.
func (gb *GameBackend) Commit(ctx context.Context, s game.Session) error {
	if err := gb.withTimeoutContext(ctx, func(ctx context.Context) error {
		return gb.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
			gameRef := gb.gameDoc(s.ID)
			if _, err := tx.Get(gameRef); err != nil {
				return err
			}
			latest, err := tx.Documents(latestMoveQuery(gb.movesRef(s.ID))).GetAll()
			if err != nil {
				return err
			}
			sequence := 0
			if len(latest) != 0 {
				var doc db.MoveDocument
				if err := latest[0].DataTo(&doc); err != nil {
					return err
				}
				sequence = doc.Sequence + 1
			}
			m := s.Snapshot(sequence)
			if err := tx.Set(gameRef, db.NewSessionDocument(s)); err != nil {
				return err
			}
			return tx.Create(moveDoc(gb.movesRef(s.ID), sequence), db.NewMoveDocument(m))
		})
	}); err != nil {
		return fmt.Errorf("committing game %v: %w", s.ID, err)
	}
	return nil
}

// Move gets a move of the game.
func (gb *GameBackend) Move(ctx context.Context, id game.ID, sequence int) (*game.Move, error) {
	var doc db.MoveDocument
	if err := gb.withTimeoutContext(ctx, func(ctx context.Context) error {
		snapshot, err := moveDoc(gb.movesRef(id), sequence).Get(ctx)
		if err != nil {
			return notFound(snapshot, err)
		}
		return snapshot.DataTo(&doc)
	}); err != nil {
		return nil, fmt.Errorf("reading move %v of game %v: %w", sequence, id, err)
	}
	m := doc.Move()
	return &m, nil
}

// LatestMove gets the move of the game with the largest sequence.
func (gb *GameBackend) LatestMove(ctx context.Context, id game.ID) (*game.Move, error) {
	var doc db.MoveDocument
	if err := gb.withTimeoutContext(ctx, func(ctx context.Context) error {
		iter := latestMoveQuery(gb.movesRef(id)).Documents(ctx)
		defer iter.Stop()
		snapshot, err := iter.Next()
		switch {
		case err == iterator.Done:
			return db.ErrNotFound
		case err != nil:
			return err
		}
		return snapshot.DataTo(&doc)
	}); err != nil {
		return nil, fmt.Errorf("reading latest move of game %v: %w", id, err)
	}
	m := doc.Move()
	return &m, nil
}

// Moves gets the history of the game, ordered by sequence.
func (gb *GameBackend) Moves(ctx context.Context, id game.ID) ([]game.Move, error) {
	var moves []game.Move
	if err := gb.withTimeoutContext(ctx, func(ctx context.Context) error {
		q := gb.movesRef(id).OrderBy(moveField, firestore.Asc)
		snapshots, err := q.Documents(ctx).GetAll()
		if err != nil {
			return err
		}
		moves = make([]game.Move, len(snapshots))
		for i, snapshot := range snapshots {
			var doc db.MoveDocument
			if err := snapshot.DataTo(&doc); err != nil {
				return err
			}
			moves[i] = doc.Move()
		}
		return nil
	}); err != nil {
		return nil, fmt.Errorf("reading moves of game %v: %w", id, err)
	}
	return moves, nil
}

// Revert sets the session to the move and deletes later moves in a transaction.
func (gb *GameBackend) Revert(ctx context.Context, m game.Move) error {
	if err := gb.withTimeoutContext(ctx, func(ctx context.Context) error {
		return gb.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
			moves := gb.movesRef(m.ID)
			snapshot, err := tx.Get(moveDoc(moves, m.Sequence))
			if err != nil {
				return notFound(snapshot, err)
			}
			gameRef := gb.gameDoc(m.ID)
			if _, err := tx.Get(gameRef); err != nil {
				return err
			}
			later, err := tx.Documents(moves.Where(moveField, ">", m.Sequence)).GetAll()
			if err != nil {
				return err
			}
			if err := tx.Set(gameRef, db.NewSessionDocument(m.Session)); err != nil {
				return err
			}
			for _, snapshot := range later {
				if err := tx.Delete(snapshot.Ref); err != nil {
					return err
				}
			}
			return nil
		})
	}); err != nil {
		return fmt.Errorf("reverting game %v to move %v: %w", m.ID, m.Sequence, err)
	}
	return nil
}

func (gb *GameBackend) sessions(ctx context.Context, q firestore.Query) ([]game.Session, error) {
	var sessions []game.Session
	if err := gb.withTimeoutContext(ctx, func(ctx context.Context) error {
		snapshots, err := q.Documents(ctx).GetAll()
		if err != nil {
			return err
		}
		sessions = make([]game.Session, len(snapshots))
		for i, snapshot := range snapshots {
			var doc db.SessionDocument
			if err := snapshot.DataTo(&doc); err != nil {
				return err
			}
			sessions[i] = doc.Session()
		}
		return nil
	}); err != nil {
		return nil, fmt.Errorf("reading games: %w", err)
	}
	sortNewestFirst(sessions)
	return sessions, nil
}

// playerFilter matches games that the player is in.
func playerFilter(p player.Name) firestore.OrFilter {
	return firestore.OrFilter{
		Filters: []firestore.EntityFilter{
			firestore.PropertyFilter{Path: playerOneField, Operator: "==", Value: string(p)},
			firestore.PropertyFilter{Path: playerTwoField, Operator: "==", Value: string(p)},
		},
	}
}

// latestMoveQuery finds the move with the largest sequence.
func latestMoveQuery(moves *firestore.CollectionRef) firestore.Query {
	return moves.OrderBy(moveField, firestore.Desc).Limit(1)
}

// moveDoc is the document of the move in the collection.
func moveDoc(moves *firestore.CollectionRef, sequence int) *firestore.DocumentRef {
	return moves.Doc(strconv.Itoa(sequence))
}

// sortNewestFirst orders the sessions by decreasing id.
// Games are ordered in memory to avoid requiring composite indexes for player queries.
func sortNewestFirst(sessions []game.Session) {
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].ID > sessions[j].ID
	})
}

// notFound converts the error of a missing document to db.ErrNotFound.
func notFound(snapshot *firestore.DocumentSnapshot, err error) error {
	if snapshot != nil && !snapshot.Exists() {
		return db.ErrNotFound
	}
	return err
}
