// Package mongo implements a game backend for mongodb.
// Commits and reverts use transactions, so the server must be a replica set.
package mongo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jacobpatterson1549/selene-darts/db"
	"github.com/jacobpatterson1549/selene-darts/game"
	"github.com/jacobpatterson1549/selene-darts/game/player"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	databaseName       = "selene-darts-db"
	gamesCollection    = "games"
	movesCollection    = "moves"
	countersCollection = "counters"
	idField            = "_id"
	playerOneField     = "player_one"
	playerTwoField     = "player_two"
	gameIDField        = "game_id"
	moveField          = "move"
	sequenceField      = "seq"
	gamesCounterID     = "games"
	ascending          = 1
	descending         = -1
)

// GameBackend is a backend manager for the games and moves collections.
type GameBackend struct {
	client   *mongo.Client
	games    *mongo.Collection
	moves    *mongo.Collection
	counters *mongo.Collection
	db.Config
}

// NewGameBackend connects to the database to create a backend manager for games.
func NewGameBackend(ctx context.Context, cfg db.Config, databaseURL string) (*GameBackend, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("creating mongo game backend: validation: %w", err)
	}
	clientOptions := options.Client()
	clientOptions.ApplyURI(databaseURL)
	ctx, cancelFunc := context.WithTimeout(ctx, cfg.QueryPeriod)
	defer cancelFunc()
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("connecting to mongodb: %w", err)
	}
	database := client.Database(databaseName)
	gb := GameBackend{
		client:   client,
		games:    database.Collection(gamesCollection),
		moves:    database.Collection(movesCollection),
		counters: database.Collection(countersCollection),
		Config:   cfg,
	}
	return &gb, nil
}

// Setup creates indexes to find games by player and moves by game.
// Moves are unique by their game and sequence.
func (gb *GameBackend) Setup(ctx context.Context) error {
	ctx, cancelFunc := context.WithTimeout(ctx, gb.Config.QueryPeriod)
	defer cancelFunc()
	gameModels := []mongo.IndexModel{
		{Keys: d(e(playerOneField, ascending))},
		{Keys: d(e(playerTwoField, ascending))},
	}
	if _, err := gb.games.Indexes().CreateMany(ctx, gameModels); err != nil {
		return fmt.Errorf("creating player indexes: %w", err)
	}
	moveModel := mongo.IndexModel{
		Keys:    d(e(gameIDField, ascending), e(moveField, ascending)),
		Options: options.Index().SetUnique(true),
	}
	if _, err := gb.moves.Indexes().CreateOne(ctx, moveModel); err != nil {
		return fmt.Errorf("creating unique move index: %w", err)
	}
	return nil
}

// Close disconnects from the database.
func (gb *GameBackend) Close(ctx context.Context) error {
	return gb.client.Disconnect(ctx)
}

// CreateSession adds the session with the next game id.
func (gb *GameBackend) CreateSession(ctx context.Context, s game.Session) (game.ID, error) {
	ctx, cancelFunc := context.WithTimeout(ctx, gb.Config.QueryPeriod)
	defer cancelFunc()
	filter := d(e(idField, gamesCounterID))
	update := d(e("$inc", d(e(sequenceField, 1))))
	updateOptions := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)
	var counter struct {
		Sequence int64 `bson:"seq"`
	}
	if err := gb.counters.FindOneAndUpdate(ctx, filter, update, updateOptions).Decode(&counter); err != nil {
		return 0, fmt.Errorf("incrementing game id: %w", err)
	}
	s.ID = game.ID(counter.Sequence)
	if _, err := gb.games.InsertOne(ctx, db.NewSessionDocument(s)); err != nil {
		return 0, fmt.Errorf("creating game: %w", err)
	}
	return s.ID, nil
}

// ReadSession gets the session by id.
func (gb *GameBackend) ReadSession(ctx context.Context, id game.ID) (*game.Session, error) {
	ctx, cancelFunc := context.WithTimeout(ctx, gb.Config.QueryPeriod)
	defer cancelFunc()
	filter := d(e(idField, int64(id)))
	var doc db.SessionDocument
	if err := gb.games.FindOne(ctx, filter).Decode(&doc); err != nil {
		return nil, fmt.Errorf("reading game %v: %w", id, notFound(err))
	}
	s := doc.Session()
	return &s, nil
}

// Sessions gets all of the sessions, newest first.
func (gb *GameBackend) Sessions(ctx context.Context) ([]game.Session, error) {
	return gb.sessions(ctx, bson.D{})
}

// PlayerSessions gets the sessions of the player, newest first.
func (gb *GameBackend) PlayerSessions(ctx context.Context, p player.Name) ([]game.Session, error) {
	return gb.sessions(ctx, playerFilter(p))
}

// ActiveSessions gets the unfinished sessions of the player, newest first.
func (gb *GameBackend) ActiveSessions(ctx context.Context, p player.Name) ([]game.Session, error) {
	sessions, err := gb.PlayerSessions(ctx, p)
	if err != nil {
		return nil, err
	}
	return db.Active(sessions), nil
}

// Commit replaces the session and adds a move for it in a transaction.
func (gb *GameBackend) Commit(ctx context.Context, s game.Session) error {
	if err := gb.withTransaction(ctx, func(ctx mongo.SessionContext) error {
		if err := gb.replaceSession(ctx, s); err != nil {
			return err
		}
		sequence := 0
		latest, err := gb.latestMove(ctx, s.ID)
		switch {
		case err == nil:
			sequence = latest.Sequence + 1
		case !errors.Is(err, db.ErrNotFound):
			return err
		}
		m := s.Snapshot(sequence)
		if _, err := gb.moves.InsertOne(ctx, db.NewMoveDocument(m)); err != nil {
			return fmt.Errorf("creating move %v: %w", sequence, err)
		}
		return nil
	}); err != nil {
		return fmt.Errorf("committing game %v: %w", s.ID, err)
	}
	return nil
}

// Move gets a move of the game.
func (gb *GameBackend) Move(ctx context.Context, id game.ID, sequence int) (*game.Move, error) {
	ctx, cancelFunc := context.WithTimeout(ctx, gb.Config.QueryPeriod)
	defer cancelFunc()
	filter := moveFilter(id, sequence)
	var doc db.MoveDocument
	if err := gb.moves.FindOne(ctx, filter).Decode(&doc); err != nil {
		return nil, fmt.Errorf("reading move %v of game %v: %w", sequence, id, notFound(err))
	}
	m := doc.Move()
	return &m, nil
}

// LatestMove gets the move of the game with the largest sequence.
func (gb *GameBackend) LatestMove(ctx context.Context, id game.ID) (*game.Move, error) {
	ctx, cancelFunc := context.WithTimeout(ctx, gb.Config.QueryPeriod)
	defer cancelFunc()
	return gb.latestMove(ctx, id)
}

// Moves gets the history of the game, ordered by sequence.
func (gb *GameBackend) Moves(ctx context.Context, id game.ID) ([]game.Move, error) {
	ctx, cancelFunc := context.WithTimeout(ctx, gb.Config.QueryPeriod)
	defer cancelFunc()
	filter := d(e(gameIDField, int64(id)))
	findOptions := options.Find().SetSort(d(e(moveField, ascending)))
	cursor, err := gb.moves.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, fmt.Errorf("finding moves of game %v: %w", id, err)
	}
	var docs []db.MoveDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("reading moves of game %v: %w", id, err)
	}
	moves := make([]game.Move, len(docs))
	for i, doc := range docs {
		moves[i] = doc.Move()
	}
	return moves, nil
}

// Revert replaces the session with the move and deletes later moves in a transaction.
func (gb *GameBackend) Revert(ctx context.Context, m game.Move) error {
	if err := gb.withTransaction(ctx, func(ctx mongo.SessionContext) error {
		n, err := gb.moves.CountDocuments(ctx, moveFilter(m.ID, m.Sequence))
		switch {
		case err != nil:
			return fmt.Errorf("checking move exists: %w", err)
		case n != 1:
			return fmt.Errorf("move %v: %w", m.Sequence, db.ErrNotFound)
		}
		if err := gb.replaceSession(ctx, m.Session); err != nil {
			return err
		}
		if _, err := gb.moves.DeleteMany(ctx, laterMovesFilter(m)); err != nil {
			return fmt.Errorf("deleting later moves: %w", err)
		}
		return nil
	}); err != nil {
		return fmt.Errorf("reverting game %v to move %v: %w", m.ID, m.Sequence, err)
	}
	return nil
}

// withTransaction runs the function in a transaction that is aborted if the function returns an error.
func (gb *GameBackend) withTransaction(ctx context.Context, f func(ctx mongo.SessionContext) error) error {
	ctx, cancelFunc := context.WithTimeout(ctx, gb.Config.QueryPeriod)
	defer cancelFunc()
	session, err := gb.client.StartSession()
	if err != nil {
		return fmt.Errorf("starting session: %w", err)
	}
	defer session.EndSession(ctx)
	_, err = session.WithTransaction(ctx, func(ctx mongo.SessionContext) (interface{}, error) {
		return nil, f(ctx)
	})
	return err
}

// replaceSession overwrites the stored session with the same id.
func (gb *GameBackend) replaceSession(ctx context.Context, s game.Session) error {
	filter := d(e(idField, int64(s.ID)))
	result, err := gb.games.ReplaceOne(ctx, filter, db.NewSessionDocument(s))
	switch {
	case err != nil:
		return fmt.Errorf("replacing game: %w", err)
	case result.MatchedCount != 1:
		return fmt.Errorf("replacing game: %w", db.ErrNotFound)
	}
	return nil
}

func (gb *GameBackend) latestMove(ctx context.Context, id game.ID) (*game.Move, error) {
	filter := d(e(gameIDField, int64(id)))
	findOptions := options.FindOne().SetSort(d(e(moveField, descending)))
	var doc db.MoveDocument
	if err := gb.moves.FindOne(ctx, filter, findOptions).Decode(&doc); err != nil {
		return nil, fmt.Errorf("reading latest move of game %v: %w", id, notFound(err))
	}
	m := doc.Move()
	return &m, nil
}

func (gb *GameBackend) sessions(ctx context.Context, filter bson.D) ([]game.Session, error) {
	ctx, cancelFunc := context.WithTimeout(ctx, gb.Config.QueryPeriod)
	defer cancelFunc()
	findOptions := options.Find().SetSort(d(e(idField, descending)))
	cursor, err := gb.games.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, fmt.Errorf("finding games: %w", err)
	}
	var docs []db.SessionDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("reading games: %w", err)
	}
	sessions := make([]game.Session, len(docs))
	for i, doc := range docs {
		sessions[i] = doc.Session()
	}
	return sessions, nil
}

// playerFilter matches games that the player is in.
func playerFilter(p player.Name) bson.D {
	return d(e("$or", bson.A{
		d(e(playerOneField, string(p))),
		d(e(playerTwoField, string(p))),
	}))
}

// moveFilter matches the move of the game.
func moveFilter(id game.ID, sequence int) bson.D {
	return d(e(gameIDField, int64(id)), e(moveField, sequence))
}

// laterMovesFilter matches the moves of the game after the move.
func laterMovesFilter(m game.Move) bson.D {
	return d(e(gameIDField, int64(m.ID)), e(moveField, d(e("$gt", m.Sequence))))
}

// notFound converts missing documents to db.ErrNotFound.
func notFound(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return db.ErrNotFound
	}
	return err
}

// d is a helper function to create bson.D elements.
func d(e ...bson.E) bson.D {
	return bson.D(e)
}

// e is a helper function to create bson.E elements.
func e(key string, value interface{}) bson.E {
	return bson.E{Key: key, Value: value}
}
