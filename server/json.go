package server

import (
	"github.com/jacobpatterson1549/selene-darts/game"
	"github.com/jacobpatterson1549/selene-darts/game/dart"
	"github.com/jacobpatterson1549/selene-darts/game/player"
)

type (
	// gameJSON is the state of a game sent to players.
	gameJSON struct {
		ID              game.ID     `json:"gameId"`
		PlayerOne       player.Name `json:"playerOne"`
		PlayerTwo       player.Name `json:"playerTwo"`
		Status          string      `json:"gameStatus"`
		PlayerOneScores int         `json:"playerOneScores"`
		PlayerTwoScores int         `json:"playerTwoScores"`
		// Turn is the name of the player who throws next.
		Turn player.Name `json:"turn"`
	}

	// moveJSON is a game in its history.
	moveJSON struct {
		gameJSON
		Move int `json:"move"`
	}

	// resultJSON describes why a request failed.
	resultJSON struct {
		Result string `json:"result"`
	}

	loginRequest struct {
		Name     player.Name `json:"name"`
		Password string      `json:"password"`
	}

	loginResponse struct {
		Token string `json:"token"`
	}

	createGameRequest struct {
		TargetScore int `json:"targetScore"`
	}

	// throwsRequest are the slots of a turn.  Each is dart.None or "multiplier:sector".
	throwsRequest struct {
		First  string `json:"first"`
		Second string `json:"second"`
		Third  string `json:"third"`
	}

	cancelGameRequest struct {
		GameID game.ID `json:"gameId"`
		// Status starts with the name of the winner or "Nobody".
		Status string `json:"status"`
	}

	revertGameRequest struct {
		GameID game.ID `json:"gameId"`
		Move   int     `json:"move"`
	}
)

func newGameJSON(s game.Session) gameJSON {
	return gameJSON{
		ID:              s.ID,
		PlayerOne:       s.Players[game.Home],
		PlayerTwo:       s.Players[game.Away],
		Status:          s.StatusText(),
		PlayerOneScores: s.Scores[game.Home],
		PlayerTwoScores: s.Scores[game.Away],
		Turn:            s.TurnPlayer(),
	}
}

func newGamesJSON(sessions []game.Session) []gameJSON {
	games := make([]gameJSON, len(sessions))
	for i, s := range sessions {
		games[i] = newGameJSON(s)
	}
	return games
}

func newMovesJSON(moves []game.Move) []moveJSON {
	history := make([]moveJSON, len(moves))
	for i, m := range moves {
		history[i] = moveJSON{
			gameJSON: newGameJSON(m.Session),
			Move:     m.Sequence,
		}
	}
	return history
}

// slots are the turn slots in the order they were thrown.
func (req throwsRequest) slots() [dart.TurnSize]string {
	return [dart.TurnSize]string{req.First, req.Second, req.Third}
}
