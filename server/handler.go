package server

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/jacobpatterson1549/selene-darts/game"
	"github.com/jacobpatterson1549/selene-darts/game/dart"
	"github.com/jacobpatterson1549/selene-darts/server/auth"
	"github.com/jacobpatterson1549/selene-darts/server/log"
)

type contextKey int

const claimsContextKey contextKey = iota + 1

// maxRequestBytes is the largest request body that is read.
const maxRequestBytes = 1 << 12

// handler creates the handler for all endpoints.
func (p Parameters) handler(monitor http.Handler) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("POST /api/login", loginHandler(p.Accounts, p.Tokenizer, p.Logger))
	mux.Handle("POST /api/game/create", p.playerHandler(createGameHandler(p.Games, p.Logger)))
	mux.Handle("GET /api/game/list", p.playerHandler(listGamesHandler(p.Games, p.Logger)))
	mux.Handle("GET /api/game/join/{gameId}", p.playerHandler(joinGameHandler(p.Games, p.Logger)))
	mux.Handle("GET /api/game/status", p.playerHandler(statusHandler(p.Games, p.Logger)))
	mux.Handle("POST /api/game/throws", p.playerHandler(submitThrowsHandler(p.Games, p.Logger)))
	mux.Handle("GET /api/history/{gameId}", p.playerHandler(historyHandler(p.Games, p.Logger)))
	mux.Handle("PUT /api/game/cancel", p.refereeHandler(cancelGameHandler(p.Games, p.Logger)))
	mux.Handle("PUT /api/game/revert", p.refereeHandler(revertGameHandler(p.Games, p.Logger)))
	mux.Handle("GET /monitor", monitor)
	return gzipHandler(mux)
}

// playerHandler checks the token of the request before running the child handler.
func (p Parameters) playerHandler(h http.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authorization := r.Header.Get(HeaderAuthorization)
		claims, err := readClaims(authorization, p.Tokenizer)
		if err != nil {
			p.Logger.Printf("reading token: %v", err)
			writeResult(w, http.StatusUnauthorized, "login required")
			return
		}
		ctx := context.WithValue(r.Context(), claimsContextKey, claims)
		h.ServeHTTP(w, r.WithContext(ctx))
	}
}

// refereeHandler ensures the token of the request is for a referee before running the child handler.
func (p Parameters) refereeHandler(h http.Handler) http.HandlerFunc {
	return p.playerHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := requestClaims(r)
		if !claims.Referee {
			p.Logger.Printf("%v is not a referee", claims.Player())
			writeResult(w, http.StatusForbidden, "referee required")
			return
		}
		h.ServeHTTP(w, r)
	}))
}

// readClaims retrieves the claims of the bearer token in the authorization header.
func readClaims(authorization string, tokenizer Tokenizer) (*auth.Claims, error) {
	tokenString, ok := strings.CutPrefix(authorization, "Bearer ")
	if !ok {
		return nil, fmt.Errorf("invalid authorization header: %q", authorization)
	}
	claims, err := tokenizer.Read(tokenString)
	if err != nil {
		return nil, fmt.Errorf("reading token info: %w", err)
	}
	if err := claims.Player().Validate(); err != nil {
		return nil, fmt.Errorf("reading token player: %w", err)
	}
	return claims, nil
}

// requestClaims gets the claims the playerHandler added to the request.
func requestClaims(r *http.Request) *auth.Claims {
	return r.Context().Value(claimsContextKey).(*auth.Claims)
}

// loginHandler writes a token for the player if the password is correct.
func loginHandler(accounts Accounts, tokenizer Tokenizer, log log.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if !readJSON(w, r, &req) {
			return
		}
		acc, err := accounts.Login(req.Name, req.Password)
		switch {
		case errors.Is(err, auth.ErrIncorrectLogin):
			log.Printf("login failure for %q", req.Name)
			writeResult(w, http.StatusUnauthorized, err.Error())
			return
		case err != nil:
			writeInternalError(err, log, w)
			return
		}
		token, err := tokenizer.Create(acc.Name, acc.Referee)
		if err != nil {
			err = fmt.Errorf("creating token: %w", err)
			writeInternalError(err, log, w)
			return
		}
		writeJSON(w, http.StatusOK, loginResponse{Token: token}, log)
	}
}

// createGameHandler creates a game for the player.
func createGameHandler(games Games, log log.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createGameRequest
		if !readJSON(w, r, &req) {
			return
		}
		p := requestClaims(r).Player()
		s, err := games.CreateGame(r.Context(), p, req.TargetScore)
		writeSession(w, s, err, log)
	}
}

// listGamesHandler writes all of the games.
func listGamesHandler(games Games, log log.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessions, err := games.ListGames(r.Context())
		if err != nil {
			writeError(w, err, log)
			return
		}
		writeJSON(w, http.StatusOK, newGamesJSON(sessions), log)
	}
}

// joinGameHandler adds the player to the game in the path.
func joinGameHandler(games Games, log log.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := game.ParseID(r.PathValue("gameId"))
		if err != nil {
			writeError(w, err, log)
			return
		}
		p := requestClaims(r).Player()
		s, err := games.JoinGame(r.Context(), p, id)
		writeSession(w, s, err, log)
	}
}

// statusHandler writes the game the player is in or won most recently.
func statusHandler(games Games, log log.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p := requestClaims(r).Player()
		s, ok, err := games.Status(r.Context(), p)
		switch {
		case err != nil:
			writeError(w, err, log)
		case !ok:
			writeJSON(w, http.StatusNotFound, struct{}{}, log)
		default:
			writeJSON(w, http.StatusOK, newGameJSON(*s), log)
		}
	}
}

// submitThrowsHandler scores a turn of the player's game.
func submitThrowsHandler(games Games, log log.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req throwsRequest
		if !readJSON(w, r, &req) {
			return
		}
		p := requestClaims(r).Player()
		s, err := games.SubmitThrows(r.Context(), p, req.slots())
		writeSession(w, s, err, log)
	}
}

// historyHandler writes the moves of the game in the path.
func historyHandler(games Games, log log.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		moves, err := games.History(r.Context(), r.PathValue("gameId"))
		if err != nil {
			writeError(w, err, log)
			return
		}
		writeJSON(w, http.StatusOK, newMovesJSON(moves), log)
	}
}

// cancelGameHandler finishes a game with the outcome the referee declared.
func cancelGameHandler(games Games, log log.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req cancelGameRequest
		if !readJSON(w, r, &req) {
			return
		}
		s, err := games.CancelGame(r.Context(), req.GameID, req.Status)
		if err == nil {
			log.Printf("%v cancelled game %v", requestClaims(r).Player(), req.GameID)
		}
		writeSession(w, s, err, log)
	}
}

// revertGameHandler restores a game to the move the referee chose.
func revertGameHandler(games Games, log log.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req revertGameRequest
		if !readJSON(w, r, &req) {
			return
		}
		s, err := games.RevertGame(r.Context(), req.GameID, req.Move)
		if err == nil {
			log.Printf("%v reverted game %v to move %v", requestClaims(r).Player(), req.GameID, req.Move)
		}
		writeSession(w, s, err, log)
	}
}

// readJSON decodes the request body into the value, writing a bad request if it cannot.
func readJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	body := http.MaxBytesReader(w, r.Body, maxRequestBytes)
	d := json.NewDecoder(body)
	d.DisallowUnknownFields()
	if err := d.Decode(v); err != nil {
		writeResult(w, http.StatusBadRequest, fmt.Sprintf("invalid request: %v", err))
		return false
	}
	return true
}

// writeSession writes the game, or the error if there is one.
func writeSession(w http.ResponseWriter, s *game.Session, err error, log log.Logger) {
	if err != nil {
		writeError(w, err, log)
		return
	}
	writeJSON(w, http.StatusOK, newGameJSON(*s), log)
}

// writeJSON writes the value as the response body.
func writeJSON(w http.ResponseWriter, statusCode int, v interface{}, log log.Logger) {
	w.Header().Set(HeaderContentType, "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("writing json response: %v", err)
	}
}

// writeResult writes the message as the result of the request.
func writeResult(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set(HeaderContentType, "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(resultJSON{Result: message})
}

// writeError writes the error with the status code of its kind.
func writeError(w http.ResponseWriter, err error, log log.Logger) {
	statusCode := errorStatusCode(err)
	if statusCode == http.StatusInternalServerError {
		writeInternalError(err, log, w)
		return
	}
	writeResult(w, statusCode, err.Error())
}

// errorStatusCode is the http status code for the kind of error.
func errorStatusCode(err error) int {
	var gameErr game.Error
	var dartErr dart.Error
	switch {
	case errors.Is(err, game.ErrPersistenceFailure):
		return http.StatusInternalServerError
	case errors.Is(err, game.ErrGameNotFound),
		errors.Is(err, game.ErrMoveNotFound),
		errors.Is(err, game.ErrNoActiveGame):
		return http.StatusNotFound
	case errors.As(err, &gameErr),
		errors.As(err, &dartErr):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// writeInternalError logs and writes the error as an internal server error (500).
func writeInternalError(err error, log log.Logger, w http.ResponseWriter) {
	log.Printf("server error: %v", err)
	writeResult(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
}

// gzipHandler compresses responses if the request accepts it.
func gzipHandler(h http.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.Header.Get(HeaderAcceptEncoding), "gzip") {
			w2 := gzip.NewWriter(w)
			defer w2.Close()
			w = wrappedResponseWriter{
				Writer:         w2,
				ResponseWriter: w,
			}
			w.Header().Add(HeaderContentEncoding, "gzip")
		}
		h.ServeHTTP(w, r)
	}
}

// wrappedResponseWriter wraps response writing with another writer.
type wrappedResponseWriter struct {
	io.Writer
	http.ResponseWriter
}

// Write delegates the write to the wrapped writer.
func (wrw wrappedResponseWriter) Write(p []byte) (n int, err error) {
	return wrw.Writer.Write(p)
}
