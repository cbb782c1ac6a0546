package sql

import (
	"github.com/jacobpatterson1549/selene-darts/game"
)

// SessionColumns are the columns of stored sessions, in the order of SessionArgs and SessionDest.
var SessionColumns = []string{
	"id",
	"player_one",
	"player_two",
	"status",
	"winner",
	"score_one",
	"score_two",
	"turn",
}

// MoveColumns are the columns of stored moves, in the order of MoveDest.
var MoveColumns = []string{
	"move",
	"id",
	"player_one",
	"player_two",
	"status",
	"winner",
	"score_one",
	"score_two",
	"turn",
}

// SessionArgs are the query arguments for the columns of the session.
func SessionArgs(s game.Session) []interface{} {
	return []interface{}{
		int64(s.ID),
		string(s.Players[game.Home]),
		string(s.Players[game.Away]),
		int(s.Status.Kind),
		int(s.Status.Winner),
		s.Scores[game.Home],
		s.Scores[game.Away],
		int(s.Turn),
	}
}

// SessionDest are the scan destinations for the columns of the session.
func SessionDest(s *game.Session) []interface{} {
	return []interface{}{
		&s.ID,
		&s.Players[game.Home],
		&s.Players[game.Away],
		&s.Status.Kind,
		&s.Status.Winner,
		&s.Scores[game.Home],
		&s.Scores[game.Away],
		&s.Turn,
	}
}

// MoveDest are the scan destinations for the columns of the move.
func MoveDest(m *game.Move) []interface{} {
	return append([]interface{}{&m.Sequence}, SessionDest(&m.Session)...)
}

// ScanSessions creates a scan function that appends each row to the sessions.
func ScanSessions(sessions *[]game.Session) func(s Scanner) error {
	return func(s Scanner) error {
		var gs game.Session
		if err := s.Scan(SessionDest(&gs)...); err != nil {
			return err
		}
		*sessions = append(*sessions, gs)
		return nil
	}
}

// ScanMoves creates a scan function that appends each row to the moves.
func ScanMoves(moves *[]game.Move) func(s Scanner) error {
	return func(s Scanner) error {
		var m game.Move
		if err := s.Scan(MoveDest(&m)...); err != nil {
			return err
		}
		*moves = append(*moves, m)
		return nil
	}
}
