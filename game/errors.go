package game

import "github.com/jacobpatterson1549/selene-darts/game/dart"

// Error is a request error.  No game state is changed when one is returned.
type Error string

// Error returns the string of the error.
func (e Error) Error() string {
	return string(e)
}

const (
	// ErrInvalidTargetScore is returned when a game is created with a score that is not 101, 301, or 501.
	ErrInvalidTargetScore Error = "invalid target score"
	// ErrInvalidThrowFormat is returned when the notation of a turn is not valid.
	ErrInvalidThrowFormat = dart.ErrInvalidFormat
	// ErrInvalidThrows is returned when a turn cannot be scored, such as going below two before the last dart.
	ErrInvalidThrows Error = "invalid throws"
	// ErrUnfinishedGameExists is returned when a player tries to be in two games that are not finished.
	ErrUnfinishedGameExists Error = "player has an unfinished game"
	// ErrGameNotFound is returned when there is no game for an id.
	ErrGameNotFound Error = "game not found"
	// ErrGameNotJoinable is returned when a player tries to join a game that is not waiting for a player.
	ErrGameNotJoinable Error = "game cannot be joined"
	// ErrCannotJoinOwnGame is returned when a player tries to join the game they created.
	ErrCannotJoinOwnGame Error = "cannot join own game"
	// ErrGameNotStarted is returned when a player throws in a game that does not have an opponent.
	ErrGameNotStarted Error = "game has not started"
	// ErrNoActiveGame is returned when a player throws but is not in a game that is not finished.
	ErrNoActiveGame Error = "no active game"
	// ErrNotYourTurn is returned when a player throws when it is the other player's turn.
	ErrNotYourTurn Error = "not your turn"
	// ErrInvalidGameID is returned when a game id is not a non-negative number.
	ErrInvalidGameID Error = "invalid game id"
	// ErrMoveNotFound is returned when the history of a game does not have a move for a sequence.
	ErrMoveNotFound Error = "move not found"
	// ErrNothingToRevert is returned when a game is reverted to its latest move.
	ErrNothingToRevert Error = "nothing to revert"
	// ErrGameAlreadyFinished is returned when a finished game is changed.
	ErrGameAlreadyFinished Error = "game already finished"
	// ErrInvalidWinner is returned when a referee declares an outcome for someone who is not playing the game.
	ErrInvalidWinner Error = "invalid winner"
	// ErrPersistenceFailure is returned when the game could not be read or stored.
	// The cause is also wrapped.
	ErrPersistenceFailure Error = "persistence failure"
)
