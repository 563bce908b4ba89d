package game

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"
)

// Strategy selects how a guess is summarized. The set is closed; the zero
// value is not a valid strategy.
type Strategy uint8

const (
	Standard Strategy = iota + 1
	PositionCount
	PerPosition
	ExactOnly
)

var strategyNames = map[Strategy]string{
	Standard:      "standard",
	PositionCount: "position_count",
	PerPosition:   "per_position",
	ExactOnly:     "exact_only",
}

// Strategies lists every strategy in menu order.
func Strategies() []Strategy {
	return []Strategy{Standard, PositionCount, PerPosition, ExactOnly}
}

func (s Strategy) Valid() bool {
	_, ok := strategyNames[s]
	return ok
}

func (s Strategy) String() string {
	if name, ok := strategyNames[s]; ok {
		return name
	}
	return fmt.Sprintf("strategy(%d)", uint8(s))
}

// ParseStrategy accepts the names produced by String. A few aliases from the
// classic rule sets are accepted too.
func ParseStrategy(name string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "standard", "default":
		return Standard, nil
	case "position_count", "classic", "black_white":
		return PositionCount, nil
	case "per_position", "higher_lower":
		return PerPosition, nil
	case "exact_only", "perfect":
		return ExactOnly, nil
	}
	return 0, invalid("strategy", "unknown strategy %q", name)
}

func (s Strategy) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, invalid("strategy", "unknown strategy %d", uint8(s))
	}
	return []byte(s.String()), nil
}

func (s *Strategy) UnmarshalText(b []byte) error {
	v, err := ParseStrategy(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// Score computes the feedback for guess against secret. Both codes must come
// from NewCode with the same length; this is not re-checked.
func (s Strategy) Score(secret, guess Code) Feedback {
	switch s {
	case Standard:
		exact, color := matchCounts(secret, guess)
		return StandardFeedback{ExactMatches: exact, TotalMatches: exact + color}
	case PositionCount:
		exact, color := matchCounts(secret, guess)
		return PositionCountFeedback{WellPlaced: exact, Misplaced: color}
	case PerPosition:
		return PerPositionFeedback{signs: positionSigns(secret, guess)}
	case ExactOnly:
		exact, _ := matchCounts(secret, guess)
		return ExactOnlyFeedback{WellPlaced: exact}
	}
	panic("game: score with " + s.String())
}

// Feedback is the result of scoring one guess. Its concrete type is fixed by
// the Strategy of the game that produced it.
type Feedback interface {
	Strategy() Strategy
	String() string
}

type StandardFeedback struct {
	ExactMatches int `json:"exactMatches"`
	TotalMatches int `json:"totalMatches"`
}

func (StandardFeedback) Strategy() Strategy { return Standard }

func (f StandardFeedback) String() string {
	return fmt.Sprintf("%d correct numbers, %d correctly placed", f.TotalMatches, f.ExactMatches)
}

type PositionCountFeedback struct {
	WellPlaced int `json:"wellPlaced"`
	Misplaced  int `json:"misplaced"`
}

func (PositionCountFeedback) Strategy() Strategy { return PositionCount }

func (f PositionCountFeedback) String() string {
	return fmt.Sprintf("%d correctly placed, %d misplaced", f.WellPlaced, f.Misplaced)
}

// PerPositionFeedback holds one sign per position: +1 guess higher than the
// secret, -1 lower, 0 equal.
type PerPositionFeedback struct {
	signs []int
}

// NewPerPositionFeedback copies signs.
func NewPerPositionFeedback(signs []int) PerPositionFeedback {
	return PerPositionFeedback{signs: slices.Clone(signs)}
}

func (PerPositionFeedback) Strategy() Strategy { return PerPosition }

// Signs returns a copy.
func (f PerPositionFeedback) Signs() []int { return slices.Clone(f.signs) }

func (f PerPositionFeedback) String() string {
	var b strings.Builder
	b.WriteString("> ")
	for _, s := range f.signs {
		switch {
		case s > 0:
			b.WriteString("+ ")
		case s < 0:
			b.WriteString("- ")
		default:
			b.WriteString("= ")
		}
	}
	return b.String()
}

func (f PerPositionFeedback) MarshalJSON() ([]byte, error) {
	signs := f.signs
	if signs == nil {
		signs = []int{}
	}
	return json.Marshal(struct {
		Signs []int `json:"signs"`
	}{signs})
}

type ExactOnlyFeedback struct {
	WellPlaced int `json:"wellPlaced"`
}

func (ExactOnlyFeedback) Strategy() Strategy { return ExactOnly }

func (f ExactOnlyFeedback) String() string {
	return fmt.Sprintf("%d correctly placed", f.WellPlaced)
}
