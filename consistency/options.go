package consistency

import (
	"errors"
	"fmt"
	"math"

	"github.com/katalvlaran/fbctest/model"
)

// Sentinel errors.
var (
	// ErrNilNetwork is returned when a nil network is checked.
	ErrNilNetwork = errors.New("consistency: nil network")

	// ErrNilOptimizer is returned when no optimizer is supplied.
	ErrNilOptimizer = errors.New("consistency: nil optimizer")

	// ErrInconclusive is returned when a solve hit its deadline, so the
	// check can give neither answer.
	ErrInconclusive = errors.New("consistency: solve did not finish")

	// ErrOptionViolation is returned when an invalid Option is supplied.
	ErrOptionViolation = errors.New("consistency: invalid option supplied")
)

// DefaultThreshold is the flux above which a dissipation reaction counts
// as carrying an energy-generating cycle.
const DefaultThreshold = 1e-6

// DefaultExemptSBO lists reaction SBO terms exempt from mass balance:
// biomass, exchange, sink and demand.
var DefaultExemptSBO = []string{model.SBOBiomass, model.SBOExchange, model.SBOSink, model.SBODemand}

// Options holds check parameters. Fields are set through Option values.
type Options struct {
	ExemptReactions  map[string]bool
	ExemptSBO        []string
	IgnoredReactions map[string]bool
	Threshold        float64
	Dissipations     []Dissipation

	// internal error recorded during option parsing
	err error
}

// Option configures a check.
type Option func(*Options)

// DefaultOptions returns the defaults: SBO-based exemptions, threshold
// 1e-6 and the BiGG-named dissipation reactions.
func DefaultOptions() Options {
	return Options{
		ExemptReactions:  map[string]bool{},
		ExemptSBO:        append([]string(nil), DefaultExemptSBO...),
		IgnoredReactions: map[string]bool{},
		Threshold:        DefaultThreshold,
		Dissipations:     DefaultDissipations(),
	}
}

func buildOptions(opts []Option) (Options, error) {
	o := DefaultOptions()
	for _, fn := range opts {
		fn(&o)
	}

	return o, o.err
}

// WithExemptReactions exempts reactions from mass balance by ID.
func WithExemptReactions(ids ...string) Option {
	return func(o *Options) {
		for _, id := range ids {
			o.ExemptReactions[id] = true
		}
	}
}

// WithExemptSBO replaces the exempt SBO terms.
func WithExemptSBO(terms ...string) Option {
	return func(o *Options) { o.ExemptSBO = append([]string(nil), terms...) }
}

// WithIgnoredReactions leaves reactions untouched when the system is closed
// for energy-cycle detection.
func WithIgnoredReactions(ids ...string) Option {
	return func(o *Options) {
		for _, id := range ids {
			o.IgnoredReactions[id] = true
		}
	}
}

// WithThreshold sets the cycle threshold (finite, > 0).
func WithThreshold(t float64) Option {
	return func(o *Options) {
		if !(t > 0) || math.IsInf(t, 0) {
			o.err = fmt.Errorf("%w: threshold must be finite and positive (%g)", ErrOptionViolation, t)
			return
		}
		o.Threshold = t
	}
}

// WithDissipations replaces the tested dissipation reactions.
func WithDissipations(ds ...Dissipation) Option {
	return func(o *Options) { o.Dissipations = append([]Dissipation(nil), ds...) }
}

// exempt reports whether r is excluded from mass-balance checks.
func (o *Options) exempt(r *model.Reaction) bool {
	return o.ExemptReactions[r.ID] ||
		model.IsBoundary(r) ||
		model.IsBiomass(r) ||
		model.HasSBO(r.Annotations, o.ExemptSBO...)
}
