// Package auth contains code to ensure players are authorized to use the server after they have logged in.
package auth

import (
	"fmt"
	"io"
	"time"

	jwt "github.com/golang-jwt/jwt/v4"
	"github.com/jacobpatterson1549/selene-darts/game/player"
)

type (
	// Tokenizer creates and reads tokens from http traffic.
	Tokenizer struct {
		method jwt.SigningMethod
		key    interface{}
		TokenizerConfig
	}

	// TokenizerConfig contains fields which describe a Tokenizer.
	TokenizerConfig struct {
		// TimeFunc is a function which should supply the current time since the unix epoch.
		// Used to set the the length of time the token is valid
		TimeFunc func() int64
		// ValidSec is the length of time the token is valid from the issuing time, in seconds
		ValidSec int64
	}

	// Claims are the properties of the player in a token.
	Claims struct {
		// Referee is set when the player can revert games.
		Referee bool `json:"referee,omitempty"`
		// player name stored in Subject ("sub") field
		jwt.RegisteredClaims
	}
)

// NewTokenizer creates a Tokenizer that uses the random number generator to generate tokens.
func (cfg TokenizerConfig) NewTokenizer(keyReader io.Reader) (*Tokenizer, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("creating tokenizer: validation: %w", err)
	}
	key := make([]byte, 64)
	if _, err := io.ReadFull(keyReader, key); err != nil {
		return nil, fmt.Errorf("generating Tokenizer key: %w", err)
	}
	t := Tokenizer{
		method:          jwt.SigningMethodHS256,
		key:             key,
		TokenizerConfig: cfg,
	}
	return &t, nil
}

// validate ensures the configuration has no errors.
func (cfg TokenizerConfig) validate() error {
	switch {
	case cfg.TimeFunc == nil:
		return fmt.Errorf("time func required")
	case cfg.ValidSec <= 0:
		return fmt.Errorf("positive valid seconds required")
	}
	return nil
}

// Create converts an account to a token string.
func (t Tokenizer) Create(p player.Name, referee bool) (string, error) {
	now := t.TimeFunc()
	expiresAt := now + t.ValidSec
	claims := Claims{
		Referee: referee,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   string(p),
			NotBefore: jwt.NewNumericDate(time.Unix(now, 0)),
			ExpiresAt: jwt.NewNumericDate(time.Unix(expiresAt, 0)),
		},
	}
	token := jwt.NewWithClaims(t.method, claims)
	return token.SignedString(t.key)
}

// Read extracts the claims from the token string.
func (t Tokenizer) Read(tokenString string) (*Claims, error) {
	var claims Claims
	if _, err := jwt.ParseWithClaims(tokenString, &claims, t.keyFunc); err != nil {
		return nil, err
	}
	return &claims, nil
}

// Player is the name of the player who the claims are for.
func (c Claims) Player() player.Name {
	return player.Name(c.Subject)
}

// keyFunc ensures the key type (method) of the token is correct before returning the key.
func (t Tokenizer) keyFunc(token *jwt.Token) (interface{}, error) {
	if token.Method != t.method {
		return nil, fmt.Errorf("incorrect authorization signing method")
	}
	return t.key, nil
}
