// Package features is a small capability bag gating which constructs the
// generator is allowed to produce, mirroring the reference implementation's
// FeatureSet checks scattered through its kind/type pickers.
package features

import "typegen/internal/xrand"

// Set enumerates the optional capabilities the generator may draw on.
// Shared-everything and exception handling affect which basic heap types
// and shareability values are reachable; multivalue affects signature/tuple
// arity; SIMD affects whether v128 fields are reachable.
type Set struct {
	SharedEverything  bool
	ExceptionHandling bool
	Multivalue        bool
	SIMD              bool
}

// All returns a Set with every capability enabled.
func All() Set {
	return Set{SharedEverything: true, ExceptionHandling: true, Multivalue: true, SIMD: true}
}

// Option pairs a candidate value with the feature flag gating it. A nil Gate
// means the option is always available.
type Option[T any] struct {
	Value T
	Gate  func(Set) bool
}

// Always wraps v as an Option with no gating feature.
func Always[T any](v T) Option[T] { return Option[T]{Value: v} }

// Gated wraps v as an Option available only when gate(s) holds.
func Gated[T any](v T, gate func(Set) bool) Option[T] { return Option[T]{Value: v, Gate: gate} }

// Pick filters opts down to those enabled by s and returns a uniformly
// random survivor. It panics if no option survives, matching xrand.Pick's
// contract that an empty candidate set is a planning bug.
func Pick[T any](s *xrand.Source, set Set, opts []Option[T]) T {
	candidates := make([]T, 0, len(opts))
	for _, o := range opts {
		if o.Gate == nil || o.Gate(set) {
			candidates = append(candidates, o.Value)
		}
	}
	return xrand.Pick(s, candidates)
}
