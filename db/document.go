package db

import (
	"github.com/jacobpatterson1549/selene-darts/game"
	"github.com/jacobpatterson1549/selene-darts/game/player"
)

type (
	// SessionDocument is a session stored in a document database.
	SessionDocument struct {
		ID        int64  `bson:"_id" firestore:"id"`
		PlayerOne string `bson:"player_one" firestore:"player_one"`
		PlayerTwo string `bson:"player_two" firestore:"player_two"`
		Status    int    `bson:"status" firestore:"status"`
		Winner    int    `bson:"winner" firestore:"winner"`
		ScoreOne  int    `bson:"score_one" firestore:"score_one"`
		ScoreTwo  int    `bson:"score_two" firestore:"score_two"`
		Turn      int    `bson:"turn" firestore:"turn"`
	}

	// MoveDocument is a move stored in a document database.
	MoveDocument struct {
		GameID   int64           `bson:"game_id" firestore:"game_id"`
		Sequence int             `bson:"move" firestore:"move"`
		Session  SessionDocument `bson:"session" firestore:"session"`
	}
)

// NewSessionDocument creates a document for the session.
func NewSessionDocument(s game.Session) SessionDocument {
	return SessionDocument{
		ID:        int64(s.ID),
		PlayerOne: string(s.Players[game.Home]),
		PlayerTwo: string(s.Players[game.Away]),
		Status:    int(s.Status.Kind),
		Winner:    int(s.Status.Winner),
		ScoreOne:  s.Scores[game.Home],
		ScoreTwo:  s.Scores[game.Away],
		Turn:      int(s.Turn),
	}
}

// NewMoveDocument creates a document for the move.
func NewMoveDocument(m game.Move) MoveDocument {
	return MoveDocument{
		GameID:   int64(m.ID),
		Sequence: m.Sequence,
		Session:  NewSessionDocument(m.Session),
	}
}

// Session converts the document to a session.
func (d SessionDocument) Session() game.Session {
	return game.Session{
		ID:      game.ID(d.ID),
		Players: [2]player.Name{player.Name(d.PlayerOne), player.Name(d.PlayerTwo)},
		Scores:  [2]int{d.ScoreOne, d.ScoreTwo},
		Status: game.Status{
			Kind:   game.StatusKind(d.Status),
			Winner: game.Seat(d.Winner),
		},
		Turn: game.Seat(d.Turn),
	}
}

// Move converts the document to a move.
func (d MoveDocument) Move() game.Move {
	s := d.Session.Session()
	s.ID = game.ID(d.GameID)
	return s.Snapshot(d.Sequence)
}
