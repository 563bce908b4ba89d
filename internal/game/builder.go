package game

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"
)

const (
	DefaultCodeLength    = 4
	DefaultNumColors     = 8
	DefaultMaxAttempts   = 10
	DefaultSupplyTimeout = 2 * time.Second
)

// Settings is the plain form of a game configuration, as read from env, a
// request body or command-line flags. Zero fields mean "keep the default".
type Settings struct {
	CodeLength  int
	NumColors   int
	MaxAttempts int
	Strategy    Strategy
	Source      SecretSource
	Secret      []int
}

// Builder accumulates a configuration and produces a Game. Setters validate
// their argument immediately; the first failures are kept and returned by
// Err and Build, so a chain of calls needs only one check at the end.
type Builder struct {
	codeLength  int
	numColors   int
	maxAttempts int
	strategy    Strategy

	source    SecretSource
	sourceSet bool
	secret    []int
	supplier  CodeSupplier
	remote    SupplierFactory
	timeout   time.Duration

	errs []error
}

func NewBuilder() *Builder {
	return &Builder{
		codeLength:  DefaultCodeLength,
		numColors:   DefaultNumColors,
		maxAttempts: DefaultMaxAttempts,
		strategy:    Standard,
		source:      SourceRemote,
		timeout:     DefaultSupplyTimeout,
	}
}

func (b *Builder) fail(err error) *Builder {
	b.errs = append(b.errs, err)
	return b
}

func (b *Builder) CodeLength(n int) *Builder {
	if n < 1 {
		return b.fail(invalid("codeLength", "%d, must be at least 1", n))
	}
	b.codeLength = n
	return b
}

func (b *Builder) NumColors(n int) *Builder {
	if n < 2 {
		return b.fail(invalid("numColors", "%d, must be at least 2", n))
	}
	b.numColors = n
	return b
}

func (b *Builder) MaxAttempts(n int) *Builder {
	if n < 1 {
		return b.fail(invalid("maxAttempts", "%d, must be at least 1", n))
	}
	b.maxAttempts = n
	return b
}

func (b *Builder) Strategy(s Strategy) *Builder {
	if !s.Valid() {
		return b.fail(invalid("strategy", "unset or unknown (%d)", uint8(s)))
	}
	b.strategy = s
	return b
}

// Source selects a generated secret. Combining a generated source with a
// literal secret is rejected whichever is set first.
func (b *Builder) Source(src SecretSource) *Builder {
	switch src {
	case SourceRemote, SourceLocal:
		if b.secret != nil {
			return b.fail(invalid("source", "%s source conflicts with a literal secret code", src))
		}
		if b.supplier != nil {
			return b.fail(invalid("source", "%s source conflicts with a custom supplier", src))
		}
	case SourceLiteral:
		if b.secret == nil {
			// SecretCode is expected to follow.
			b.sourceSet = true
			b.source = src
			return b
		}
	default:
		return b.fail(invalid("source", "unknown secret source %q", src))
	}
	b.source = src
	b.sourceSet = true
	return b
}

// SecretCode fixes the secret to raw and the code length to len(raw).
func (b *Builder) SecretCode(raw []int) *Builder {
	if raw == nil {
		return b.fail(invalid("secret", "missing"))
	}
	if len(raw) == 0 {
		return b.fail(invalid("secret", "empty code"))
	}
	if b.sourceSet && b.source.Generated() {
		return b.fail(invalid("secret", "literal secret code conflicts with %s source", b.source))
	}
	if b.supplier != nil {
		return b.fail(invalid("secret", "literal secret code conflicts with a custom supplier"))
	}
	b.secret = slices.Clone(raw)
	b.source = SourceLiteral
	b.sourceSet = true
	b.codeLength = len(raw)
	return b
}

// Supplier installs a caller-provided secret source.
func (b *Builder) Supplier(s CodeSupplier) *Builder {
	if s == nil {
		return b.fail(invalid("supplier", "missing"))
	}
	if b.secret != nil {
		return b.fail(invalid("supplier", "custom supplier conflicts with a literal secret code"))
	}
	b.supplier = s
	b.source = SourceCustom
	b.sourceSet = true
	return b
}

// RemoteSupplier registers how SourceRemote secrets are fetched.
func (b *Builder) RemoteSupplier(f SupplierFactory) *Builder {
	if f == nil {
		return b.fail(invalid("remote", "missing supplier factory"))
	}
	b.remote = f
	return b
}

// SupplyTimeout bounds the supplier call made by Build.
func (b *Builder) SupplyTimeout(d time.Duration) *Builder {
	if d <= 0 {
		return b.fail(invalid("supplyTimeout", "%s, must be positive", d))
	}
	b.timeout = d
	return b
}

// Apply copies the non-zero fields of s onto b through the validating setters.
// A CodeLength that disagrees with the length of Secret is rejected.
func (b *Builder) Apply(s Settings) *Builder {
	if s.Secret != nil && s.CodeLength != 0 && s.CodeLength != len(s.Secret) {
		b.fail(invalid("codeLength", "%d, but the secret code has %d symbols", s.CodeLength, len(s.Secret)))
	}
	if s.CodeLength != 0 {
		b.CodeLength(s.CodeLength)
	}
	if s.NumColors != 0 {
		b.NumColors(s.NumColors)
	}
	if s.MaxAttempts != 0 {
		b.MaxAttempts(s.MaxAttempts)
	}
	if s.Strategy != 0 {
		b.Strategy(s.Strategy)
	}
	if s.Source != "" {
		b.Source(s.Source)
	}
	if s.Secret != nil {
		b.SecretCode(s.Secret)
	}
	return b
}

func (b *Builder) Err() error { return errors.Join(b.errs...) }

// Build resolves the secret exactly once and returns a Game in the
// InProgress state. Configuration errors are ValidationErrors; a failing
// supplier, including one that times out or returns a malformed code, is a
// SupplyError. There is no fallback to another source.
func (b *Builder) Build(ctx context.Context) (*Game, error) {
	if err := b.Err(); err != nil {
		return nil, err
	}
	if b.codeLength < 1 || b.numColors < 2 || b.maxAttempts < 1 || !b.strategy.Valid() {
		return nil, invalid("builder", "incomplete configuration, start from NewBuilder")
	}

	var supplier CodeSupplier
	switch b.source {
	case SourceLiteral:
		if b.secret == nil {
			return nil, invalid("secret", "literal source selected without a secret code")
		}
		if _, err := NewCode(b.secret, b.codeLength, b.numColors); err != nil {
			return nil, err
		}
		supplier = LiteralSupplier(b.secret)
	case SourceLocal:
		supplier = LocalSupplier(b.codeLength, b.numColors, nil)
	case SourceRemote:
		if b.remote == nil {
			return nil, invalid("source", "remote source selected but not configured")
		}
		supplier = b.remote(b.codeLength, b.numColors)
	case SourceCustom:
		supplier = b.supplier
	default:
		return nil, invalid("source", "no secret source configured")
	}

	raw, err := b.supply(ctx, supplier)
	if err != nil {
		return nil, &SupplyError{Source: b.source, Err: err}
	}
	secret, err := NewCode(raw, b.codeLength, b.numColors)
	if err != nil {
		return nil, &SupplyError{Source: b.source, Err: err}
	}

	return &Game{
		codeLength:  b.codeLength,
		numColors:   b.numColors,
		maxAttempts: b.maxAttempts,
		strategy:    b.strategy,
		secret:      secret,
	}, nil
}

func (b *Builder) supply(ctx context.Context, s CodeSupplier) ([]int, error) {
	timeout := b.timeout
	if timeout <= 0 {
		timeout = DefaultSupplyTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type result struct {
		raw []int
		err error
	}
	ch := make(chan result, 1)
	go func() {
		raw, err := s.Supply(ctx)
		ch <- result{raw, err}
	}()

	select {
	case r := <-ch:
		if r.err != nil && errors.Is(r.err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %w", ErrSupplyTimeout, r.err)
		}
		return r.raw, r.err
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w after %s", ErrSupplyTimeout, timeout)
		}
		return nil, ctx.Err()
	}
}
