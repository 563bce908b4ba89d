package game

import (
	"context"
	"math/rand/v2"
	"slices"
	"strings"
)

// CodeSupplier produces the raw secret once. The result is validated by the
// Builder, so a supplier may return malformed data; it is reported as a
// SupplyError rather than accepted.
type CodeSupplier interface {
	Supply(ctx context.Context) ([]int, error)
}

// SupplierFunc adapts a function to CodeSupplier.
type SupplierFunc func(ctx context.Context) ([]int, error)

func (f SupplierFunc) Supply(ctx context.Context) ([]int, error) { return f(ctx) }

// SupplierFactory builds a supplier for a given code shape. The remote
// random source is plugged into the Builder this way.
type SupplierFactory func(codeLength, numColors int) CodeSupplier

// SecretSource names where the secret comes from.
type SecretSource string

const (
	SourceRemote  SecretSource = "remote"
	SourceLocal   SecretSource = "local"
	SourceLiteral SecretSource = "literal"
	SourceCustom  SecretSource = "custom"
)

func (s SecretSource) Generated() bool { return s == SourceRemote || s == SourceLocal }

func ParseSecretSource(name string) (SecretSource, error) {
	switch src := SecretSource(strings.ToLower(strings.TrimSpace(name))); src {
	case SourceRemote, SourceLocal, SourceLiteral:
		return src, nil
	}
	return "", invalid("source", "unknown secret source %q", name)
}

// LiteralSupplier always returns a copy of values.
func LiteralSupplier(values []int) CodeSupplier {
	values = slices.Clone(values)
	return SupplierFunc(func(context.Context) ([]int, error) {
		return slices.Clone(values), nil
	})
}

// LocalSupplier draws every symbol uniformly from [0, numColors) using rng,
// or the package-level generator when rng is nil.
func LocalSupplier(codeLength, numColors int, rng *rand.Rand) CodeSupplier {
	intN := rand.IntN
	if rng != nil {
		intN = rng.IntN
	}
	return SupplierFunc(func(ctx context.Context) ([]int, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out := make([]int, codeLength)
		for i := range out {
			out[i] = intN(numColors)
		}
		return out, nil
	})
}
