// Package score applies a turn of darts to the score a player has remaining.
package score

import "github.com/jacobpatterson1549/selene-darts/game/dart"

type (
	// Kind classifies the effect of a turn.
	Kind int

	// Outcome is the result of applying a turn to a remaining score.
	Outcome struct {
		// Kind is the classification of the turn.
		Kind Kind
		// Score is the score the player has remaining after the turn.
		// It is the score from before the turn for any kind of bust.
		Score int
	}
)

const (
	_ Kind = iota
	// Normal is a turn that reduces the remaining score.
	Normal
	// SoftBust is a turn that reaches zero without finishing on a double.  The score is restored.
	SoftBust
	// Bust is a turn whose last dart lands on one or goes below zero.  The score is not changed.
	Bust
	// HardBust is a turn where the score reaches one or less before the last dart.  The whole turn is rejected.
	HardBust
	// Checkout is a turn that reaches exactly zero with a double.  The player wins.
	Checkout
)

// String returns the display value for the kind.
func (k Kind) String() string {
	switch k {
	case Normal:
		return "normal"
	case SoftBust:
		return "soft bust"
	case Bust:
		return "bust"
	case HardBust:
		return "hard bust"
	case Checkout:
		return "checkout"
	}
	return "?"
}

// Apply scores the ordered throws of a turn against the remaining score.
func Apply(remaining int, throws []dart.Throw) Outcome {
	running := remaining
	for i, t := range throws {
		running -= t.Points()
		if running <= 1 && i != len(throws)-1 {
			return Outcome{Kind: HardBust, Score: remaining}
		}
	}
	switch {
	case len(throws) == 0:
		return Outcome{Kind: Bust, Score: remaining}
	case running == 0 && throws[len(throws)-1].Multiplier == dart.Double:
		return Outcome{Kind: Checkout, Score: 0}
	case running == 0:
		return Outcome{Kind: SoftBust, Score: remaining}
	case running < 0, running == 1:
		return Outcome{Kind: Bust, Score: remaining}
	}
	return Outcome{Kind: Normal, Score: running}
}

// Busted determines if the turn forfeited its points.
func (o Outcome) Busted() bool {
	switch o.Kind {
	case SoftBust, Bust, HardBust:
		return true
	}
	return false
}
