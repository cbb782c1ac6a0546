package auth

import (
	"errors"
	"fmt"
	"io"

	"github.com/jacobpatterson1549/selene-darts/game/player"
	"gopkg.in/yaml.v3"
)

type (
	// Account is a player who can log in.
	Account struct {
		Name         player.Name `yaml:"name"`
		PasswordHash string      `yaml:"password_hash"`
		// Referee is set for players who can revert games.
		Referee bool `yaml:"referee"`
	}

	// Accounts are the players who can log in.
	Accounts struct {
		byName          map[player.Name]Account
		passwordHandler PasswordHandler
	}

	// accountsFile is the layout of the accounts yaml file.
	accountsFile struct {
		Accounts []Account `yaml:"accounts"`
	}
)

// ErrIncorrectLogin is returned when the name or password of a player is not correct.
var ErrIncorrectLogin = errors.New("incorrect name/password")

// ReadAccounts decodes the yaml accounts in the reader.
//
//	accounts:
//	  - name: selene
//	    password_hash: $2a$10$...
//	    referee: true
func ReadAccounts(r io.Reader) (*Accounts, error) {
	var f accountsFile
	if err := yaml.NewDecoder(r).Decode(&f); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decoding accounts: %w", err)
	}
	a := Accounts{
		byName:          make(map[player.Name]Account, len(f.Accounts)),
		passwordHandler: PasswordConfig{}.handler(),
	}
	for i, acc := range f.Accounts {
		if err := acc.validate(); err != nil {
			return nil, fmt.Errorf("account %v: %w", i, err)
		}
		if _, ok := a.byName[acc.Name]; ok {
			return nil, fmt.Errorf("account %v: duplicate name %q", i, acc.Name)
		}
		a.byName[acc.Name] = acc
	}
	return &a, nil
}

// validate ensures the account has no errors.
func (acc Account) validate() error {
	if err := acc.Name.Validate(); err != nil {
		return err
	}
	if len(acc.PasswordHash) == 0 {
		return fmt.Errorf("password hash required for %v", acc.Name)
	}
	return nil
}

// Login gets the account if the password is correct.
func (a Accounts) Login(p player.Name, password string) (*Account, error) {
	acc, ok := a.byName[p]
	if !ok {
		return nil, ErrIncorrectLogin
	}
	ok, err := a.passwordHandler.IsCorrect([]byte(acc.PasswordHash), password)
	switch {
	case err != nil:
		return nil, fmt.Errorf("checking password of %v: %w", p, err)
	case !ok:
		return nil, ErrIncorrectLogin
	}
	return &acc, nil
}

// Len is the number of accounts.
func (a Accounts) Len() int {
	return len(a.byName)
}
