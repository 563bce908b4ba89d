package game

import (
	"slices"
	"strconv"
	"strings"
)

// Code is an immutable sequence of symbols in [0, numColors).
// Both the secret and every guess are Codes.
type Code struct {
	values []int
}

// NewCode validates raw against the configured length and alphabet and
// returns a Code that owns a private copy of it.
func NewCode(raw []int, codeLength, numColors int) (Code, error) {
	if raw == nil {
		return Code{}, invalid("code", "missing")
	}
	if len(raw) != codeLength {
		return Code{}, invalid("code", "length %d, want %d", len(raw), codeLength)
	}
	for i, v := range raw {
		if v < 0 || v >= numColors {
			return Code{}, invalid("code", "symbol %d at position %d outside [0,%d)", v, i, numColors)
		}
	}
	return Code{values: slices.Clone(raw)}, nil
}

// Values returns a copy of the symbols.
func (c Code) Values() []int { return slices.Clone(c.values) }

func (c Code) Len() int { return len(c.values) }

func (c Code) At(i int) int { return c.values[i] }

func (c Code) Equal(o Code) bool { return slices.Equal(c.values, o.values) }

func (c Code) IsZero() bool { return c.values == nil }

func (c Code) String() string {
	parts := make([]string, len(c.values))
	for i, v := range c.values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, " ")
}
