// Package player contains the identity of the people who throw darts.
package player

import (
	"fmt"
	"strings"
	"unicode"
)

// Name uniquely identifies a player.  It is resolved from the authentication layer.
type Name string

// maxLength is the most runes a name can have.
const maxLength = 32

// Validate returns an error if the name cannot identify a player.
func (n Name) Validate() error {
	switch {
	case len(n) == 0:
		return fmt.Errorf("player name required")
	case len([]rune(n)) > maxLength:
		return fmt.Errorf("player name must be no more than %d characters long", maxLength)
	case strings.ContainsFunc(string(n), unicode.IsSpace):
		return fmt.Errorf("player name must not contain whitespace")
	}
	return nil
}

// String returns the name as a string.
func (n Name) String() string {
	return string(n)
}
