package network

import (
	"context"
	"errors"
	"fmt"

	"github.com/katalvlaran/fbctest/model"
)

// Sentinel errors for network expansion.
var (
	// ErrNilNetwork is returned if a nil network is passed.
	ErrNilNetwork = errors.New("network: network is nil")

	// ErrUnknownSeed is returned when a seed names no metabolite.
	ErrUnknownSeed = errors.New("network: seed metabolite not found")

	// ErrOptionViolation is returned when an invalid Option is supplied.
	ErrOptionViolation = errors.New("network: invalid option supplied")
)

// Option configures Reach via functional arguments.
// If an Option is invalid (e.g. negative depth), it will be recorded
// internally and surfaced as ErrOptionViolation when Reach is invoked.
type Option func(*Options)

// Options holds parameters and callbacks to customize the expansion.
type Options struct {
	// Ctx allows cancellation and deadlines.
	Ctx context.Context

	// Seeds are metabolites available at depth 0 in addition to the medium.
	Seeds []string

	// OnEnqueue is called when a node is enqueued, before visiting.
	OnEnqueue func(n Node, depth int)

	// OnVisit is called the first time a node is visited. If it returns an
	// error, the expansion aborts and propagates that error.
	OnVisit func(n Node, depth int) error

	// MaxDepth, if > 0, stops exploring beyond this depth.
	// A value of 0 explicitly disables any depth limit.
	MaxDepth int

	// FilterReaction can exclude reactions; excluded reactions never fire.
	FilterReaction func(r *model.Reaction) bool

	// internal error recorded during option parsing
	err error
}

// DefaultOptions returns Options with:
//   - Context.Background()
//   - no extra seeds
//   - no depth limit (MaxDepth == 0)
//   - every reaction allowed
//   - no-op hooks.
func DefaultOptions() Options {
	return Options{
		Ctx:            context.Background(),
		OnEnqueue:      func(Node, int) {},
		OnVisit:        func(Node, int) error { return nil },
		FilterReaction: func(*model.Reaction) bool { return true },
	}
}

// WithContext sets a custom context for cancellation.
func WithContext(ctx context.Context) Option {
	return func(o *Options) {
		if ctx != nil {
			o.Ctx = ctx
		}
	}
}

// WithSeeds makes metabolites available from the start, e.g. cofactors
// that the medium alone cannot bootstrap.
func WithSeeds(mids ...string) Option {
	return func(o *Options) {
		o.Seeds = append(o.Seeds, mids...)
	}
}

// WithOnEnqueue registers a callback to run on enqueue.
func WithOnEnqueue(fn func(n Node, depth int)) Option {
	return func(o *Options) {
		if fn != nil {
			o.OnEnqueue = fn
		}
	}
}

// WithOnVisit registers a callback to run on visit; returning an error
// from this callback stops the expansion.
func WithOnVisit(fn func(n Node, depth int) error) Option {
	return func(o *Options) {
		if fn != nil {
			o.OnVisit = fn
		}
	}
}

// WithMaxDepth stops the expansion at the given depth (inclusive).
//
//	d > 0: limit to depth d
//	d == 0: explicit no depth limit
//	d < 0: invalid option → ErrOptionViolation
func WithMaxDepth(d int) Option {
	return func(o *Options) {
		if d < 0 {
			o.err = fmt.Errorf("%w: MaxDepth cannot be negative (%d)", ErrOptionViolation, d)
			return
		}
		o.MaxDepth = d
	}
}

// WithFilterReaction skips reactions for which fn returns false.
func WithFilterReaction(fn func(r *model.Reaction) bool) Option {
	return func(o *Options) {
		if fn != nil {
			o.FilterReaction = fn
		}
	}
}
