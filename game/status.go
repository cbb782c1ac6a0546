package game

import (
	"fmt"
	"strings"

	"github.com/jacobpatterson1549/selene-darts/game/player"
)

type (
	// StatusKind is the state of the game.
	StatusKind int

	// Status is the state of the game and the winner of finished games.
	Status struct {
		// Kind is the state of the game.
		Kind StatusKind
		// Winner is the seat of the winning player.  It is only significant when the Kind is FinishedWin.
		Winner Seat
	}
)

const (
	_ StatusKind = iota
	// Created is the status of a game that is waiting for a second player to join.
	Created
	// Started is the status of a game that has two players, but no darts have been thrown.
	Started
	// Playing is the status of a game that has had turns scored.
	Playing
	// FinishedWin is the status of a game that a player has won.
	FinishedWin
	// FinishedNobody is the status of a game that was cancelled without a winner.
	FinishedNobody
)

// NobodyWins is the display value of games that were finished without a winner.
// Its first word is used by referees to declare that nobody won.
const NobodyWins = "Nobody wins!"

// nobody is the first word of NobodyWins.
const nobody = "Nobody"

// String returns the display value for the status kind.
func (k StatusKind) String() string {
	switch k {
	case Created:
		return "created"
	case Started:
		return "started"
	case Playing:
		return "playing"
	case FinishedWin:
		return "won"
	case FinishedNobody:
		return "nobody won"
	}
	return "?"
}

// Valid determines if the kind is a known status.
func (k StatusKind) Valid() bool {
	return k >= Created && k <= FinishedNobody
}

// Finished determines if the status is terminal.
func (s Status) Finished() bool {
	switch s.Kind {
	case FinishedWin, FinishedNobody:
		return true
	}
	return false
}

// Text is the display value of the status, naming the winner from the players.
func (s Status) Text(players [2]player.Name) string {
	switch s.Kind {
	case FinishedWin:
		return fmt.Sprintf("%v wins!", players[s.Winner])
	case FinishedNobody:
		return NobodyWins
	}
	return s.Kind.String()
}

// ParseOutcome reads the outcome a referee declared for the game.
// The first word of the declaration is either the name of a player or "Nobody", such as "selene wins!" or "Nobody wins!".
func ParseOutcome(declared string, s Session) (Status, error) {
	fields := strings.Fields(declared)
	if len(fields) == 0 {
		return Status{}, fmt.Errorf("%w: empty outcome", ErrInvalidWinner)
	}
	name := fields[0]
	if name == nobody {
		return Status{Kind: FinishedNobody}, nil
	}
	seat, ok := s.Seat(player.Name(name))
	if !ok {
		return Status{}, fmt.Errorf("%w: %q is not playing game %v", ErrInvalidWinner, name, s.ID)
	}
	return Status{Kind: FinishedWin, Winner: seat}, nil
}
