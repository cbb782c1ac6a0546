// Package ledger keeps the append-only history of a game's moves.
package ledger

import "github.com/jacobpatterson1549/selene-darts/game"

// Ledger is the history of one game.  Sequences are contiguous, starting at zero.
// It is not safe for concurrent use.
type Ledger struct {
	moves []game.Move
}

// Append records a snapshot of the session as the next move, returning its sequence.
func (l *Ledger) Append(s game.Session) int {
	sequence := len(l.moves)
	l.moves = append(l.moves, s.Snapshot(sequence))
	return sequence
}

// Get retrieves the move at the sequence.
func (l *Ledger) Get(sequence int) (game.Move, bool) {
	if sequence < 0 || sequence >= len(l.moves) {
		return game.Move{}, false
	}
	return l.moves[sequence], true
}

// Latest retrieves the most recent move.
func (l *Ledger) Latest() (game.Move, bool) {
	return l.Get(len(l.moves) - 1)
}

// TruncateAfter permanently removes the moves after the sequence.
func (l *Ledger) TruncateAfter(sequence int) {
	switch {
	case sequence < -1:
		sequence = -1
	case sequence >= len(l.moves):
		return
	}
	clear(l.moves[sequence+1:])
	l.moves = l.moves[:sequence+1]
}

// Moves copies the history, ordered by sequence.
func (l *Ledger) Moves() []game.Move {
	moves := make([]game.Move, len(l.moves))
	copy(moves, l.moves)
	return moves
}

// Len is the number of moves in the ledger.
func (l *Ledger) Len() int {
	return len(l.moves)
}
