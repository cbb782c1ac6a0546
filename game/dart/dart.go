// Package dart decodes and validates the notation of thrown darts.
package dart

import (
	"fmt"
	"strconv"
	"strings"
)

type (
	// Throw is a single dart that hit the board.
	Throw struct {
		// Multiplier is 1 for a single, 2 for a double, and 3 for a triple.
		Multiplier int
		// Sector is the number of the wedge that was hit, or Bullseye.
		Sector int
	}

	// Error is a problem with the notation of a dart.
	Error string
)

const (
	// None marks a turn slot where no dart was thrown.
	None = "none"
	// Bullseye is the sector of the center of the board.  It has no triple.
	Bullseye = 25
	// Double is the multiplier that is required to check out.
	Double = 2
	// TurnSize is the number of slots in each turn.
	TurnSize = 3
	// ErrInvalidFormat is returned when a slot is not a known throw or the None marker.
	ErrInvalidFormat Error = "invalid throw format"
	// separator splits the multiplier from the sector.
	separator = ":"
)

// Error returns the string of the error.
func (e Error) Error() string {
	return string(e)
}

// Points is the value of the throw.
func (t Throw) Points() int {
	return t.Sector * t.Multiplier
}

// String returns the throw in "multiplier:sector" notation.
func (t Throw) String() string {
	return strconv.Itoa(t.Multiplier) + separator + strconv.Itoa(t.Sector)
}

// Validate returns ErrInvalidFormat if the board does not have the sector and multiplier combination.
func (t Throw) Validate() error {
	switch {
	case t.Sector == Bullseye && (t.Multiplier == 1 || t.Multiplier == 2):
		return nil
	case t.Sector < 1, t.Sector > 20, t.Multiplier < 1, t.Multiplier > 3:
		return fmt.Errorf("%w: %v", ErrInvalidFormat, t)
	}
	return nil
}

// Parse decodes a turn slot.  The slot is either None or "multiplier:sector".
// The boolean result is false for None.
func Parse(slot string) (Throw, bool, error) {
	var t Throw
	if slot == None {
		return t, false, nil
	}
	m, s, ok := strings.Cut(slot, separator)
	if !ok {
		return t, false, fmt.Errorf("%w: %q", ErrInvalidFormat, slot)
	}
	var err error
	if t.Multiplier, err = parseNumber(m); err != nil {
		return t, false, fmt.Errorf("%w: multiplier of %q", ErrInvalidFormat, slot)
	}
	if t.Sector, err = parseNumber(s); err != nil {
		return t, false, fmt.Errorf("%w: sector of %q", ErrInvalidFormat, slot)
	}
	if err := t.Validate(); err != nil {
		return t, false, err
	}
	return t, true, nil
}

// ParseTurn decodes the slots of a turn into the throws, dropping None slots but keeping the order of the others.
// A turn without any darts is invalid.
func ParseTurn(slots [TurnSize]string) ([]Throw, error) {
	throws := make([]Throw, 0, len(slots))
	for i, slot := range slots {
		t, ok, err := Parse(slot)
		if err != nil {
			return nil, fmt.Errorf("dart %d: %w", i+1, err)
		}
		if ok {
			throws = append(throws, t)
		}
	}
	if len(throws) == 0 {
		return nil, fmt.Errorf("%w: no darts thrown", ErrInvalidFormat)
	}
	return throws, nil
}

// parseNumber parses an unsigned, one or two digit number without a leading zero.
func parseNumber(s string) (int, error) {
	switch {
	case len(s) == 0, len(s) > 2:
		return 0, fmt.Errorf("wanted one or two digits")
	case len(s) == 2 && s[0] == '0':
		return 0, fmt.Errorf("leading zero")
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("not a digit: %q", r)
		}
	}
	return strconv.Atoi(s)
}
