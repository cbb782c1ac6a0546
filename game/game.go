// Package game contains the state of a darts match between two players and the rules to change it.
package game

import (
	"fmt"
	"strconv"

	"github.com/jacobpatterson1549/selene-darts/game/player"
	"github.com/jacobpatterson1549/selene-darts/game/score"
)

type (
	// ID is the id of a game.
	ID int64

	// Seat is the place of a player in a game.
	Seat int

	// Session is one darts match.
	Session struct {
		// ID is assigned when the session is first stored.
		ID ID
		// Players are the names of the players, indexed by seat.  The Away player is empty until someone joins.
		Players [2]player.Name
		// Scores are the points the players have remaining, indexed by seat.
		Scores [2]int
		// Status is the progress of the game.
		Status Status
		// Turn is the seat of the player who throws next.
		Turn Seat
	}

	// Move is a snapshot of a session in the history of the game.
	Move struct {
		// Sequence is the position of the move in the history, starting at zero.
		Sequence int
		// Session is a copy of the game at the time of the move.  Its ID is the game the move is for.
		Session
	}
)

const (
	// Home is the seat of the player who created the game.
	Home Seat = iota
	// Away is the seat of the player who joined the game.
	Away
)

// targetScores are the points a game can be played from.
var targetScores = []int{101, 301, 501}

// ValidTargetScore determines if a game can be played from the target score.
func ValidTargetScore(targetScore int) bool {
	for _, s := range targetScores {
		if targetScore == s {
			return true
		}
	}
	return false
}

// ParseID converts the text to a game id.
func ParseID(s string) (ID, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id < 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidGameID, s)
	}
	return ID(id), nil
}

// String returns the id as a decimal number.
func (id ID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// Other is the opposite seat.
func (s Seat) Other() Seat {
	return 1 - s
}

// String returns the display value for the seat.
func (s Seat) String() string {
	switch s {
	case Home:
		return "home"
	case Away:
		return "away"
	}
	return "?"
}

// NewSession creates a game for the player that waits for an opponent.
func NewSession(p player.Name, targetScore int) (*Session, error) {
	if !ValidTargetScore(targetScore) {
		return nil, fmt.Errorf("%w: %v, wanted one of %v", ErrInvalidTargetScore, targetScore, targetScores)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	s := Session{
		Players: [2]player.Name{Home: p},
		Scores:  [2]int{targetScore, targetScore},
		Status:  Status{Kind: Created},
		Turn:    Home,
	}
	return &s, nil
}

// Seat finds the seat of the player in the game.
func (s Session) Seat(p player.Name) (Seat, bool) {
	switch {
	case len(p) == 0:
		return 0, false
	case s.Players[Home] == p:
		return Home, true
	case s.Players[Away] == p:
		return Away, true
	}
	return 0, false
}

// TurnPlayer is the name of the player who throws next.
func (s Session) TurnPlayer() player.Name {
	return s.Players[s.Turn]
}

// Winner is the name of the player who won the game, if any.
func (s Session) Winner() (player.Name, bool) {
	if s.Status.Kind != FinishedWin {
		return "", false
	}
	return s.Players[s.Status.Winner], true
}

// StatusText is the display value of the game's status.
func (s Session) StatusText() string {
	return s.Status.Text(s.Players)
}

// Join seats the player as the opponent of the game's creator, starting the game.
func (s *Session) Join(p player.Name) error {
	switch {
	case s.Players[Home] == p:
		return ErrCannotJoinOwnGame
	case s.Status.Kind != Created:
		return ErrGameNotJoinable
	}
	if err := p.Validate(); err != nil {
		return err
	}
	s.Players[Away] = p
	s.Status = Status{Kind: Started}
	return nil
}

// ApplyOutcome records the scored turn of the player whose turn it is.
// The turn passes to the other player unless the turn was a checkout.
func (s *Session) ApplyOutcome(o score.Outcome) error {
	switch {
	case s.Status.Finished():
		return ErrGameAlreadyFinished
	case s.Status.Kind == Created:
		return ErrGameNotStarted
	case o.Kind == score.HardBust:
		return ErrInvalidThrows
	case o.Score < 0:
		return fmt.Errorf("%w: negative score %v", ErrInvalidThrows, o.Score)
	}
	s.Scores[s.Turn] = o.Score
	if o.Kind == score.Checkout {
		s.Status = Status{Kind: FinishedWin, Winner: s.Turn}
		return nil
	}
	s.Status = Status{Kind: Playing}
	s.Turn = s.Turn.Other()
	return nil
}

// Finish ends the game with the terminal status.
func (s *Session) Finish(st Status) error {
	switch {
	case s.Status.Finished():
		return ErrGameAlreadyFinished
	case !st.Finished():
		return fmt.Errorf("%w: %v is not a finished status", ErrInvalidWinner, st.Kind)
	case st.Kind == FinishedWin && len(s.Players[st.Winner]) == 0:
		return fmt.Errorf("%w: no %v player", ErrInvalidWinner, st.Winner)
	}
	s.Status = st
	return nil
}

// Snapshot creates a move of the session at the sequence.
func (s Session) Snapshot(sequence int) Move {
	return Move{
		Sequence: sequence,
		Session:  s,
	}
}
