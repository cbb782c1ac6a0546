package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

type (
	// PasswordConfig describes how account passwords are hashed.
	PasswordConfig struct {
		// Cost is the bcrypt work factor.  The default cost is used if it is zero.
		Cost int
	}

	// PasswordHandler hashes and checks account passwords.
	PasswordHandler struct {
		cost int
	}
)

// maxPasswordLength is the number of bytes bcrypt can hash.
const maxPasswordLength = 72

// NewPasswordHandler creates a password handler that hashes with the cost.
func (cfg PasswordConfig) NewPasswordHandler() (*PasswordHandler, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("creating password handler: validation: %w", err)
	}
	ph := cfg.handler()
	return &ph, nil
}

// validate ensures the cost can be used by bcrypt.
func (cfg PasswordConfig) validate() error {
	switch {
	case cfg.Cost == 0:
		return nil
	case cfg.Cost < bcrypt.MinCost, cfg.Cost > bcrypt.MaxCost:
		return fmt.Errorf("cost must be between %v and %v, got %v", bcrypt.MinCost, bcrypt.MaxCost, cfg.Cost)
	}
	return nil
}

func (cfg PasswordConfig) handler() PasswordHandler {
	cost := cfg.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return PasswordHandler{
		cost: cost,
	}
}

// Hash computes the hash of the password.
func (ph PasswordHandler) Hash(password string) ([]byte, error) {
	switch {
	case len(password) == 0:
		return nil, fmt.Errorf("password required")
	case len(password) > maxPasswordLength:
		return nil, fmt.Errorf("password must be no more than %v bytes long", maxPasswordLength)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), ph.cost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}
	return hash, nil
}

// IsCorrect determines if the hashed password matches the password.
func (PasswordHandler) IsCorrect(hashedPassword []byte, password string) (bool, error) {
	err := bcrypt.CompareHashAndPassword(hashedPassword, []byte(password))
	switch {
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	case err != nil:
		return false, err
	}
	return true, nil
}
