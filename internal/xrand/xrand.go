// Package xrand wraps a seeded math/rand source with the small set of
// primitives the generator needs: weighted coin flips, bounded draws, and
// uniform picks, matching the conventions of the reference implementation's
// random-number helpers (oneIn/upTo/upToSquared/pick).
package xrand

import "math/rand"

// Source is a seeded source of the generator's random decisions.
type Source struct {
	r *rand.Rand
}

// New returns a Source seeded deterministically from seed.
func New(seed int64) *Source {
	return &Source{r: rand.New(rand.NewSource(seed))}
}

// OneIn reports true with probability 1/k. OneIn(0) always returns true,
// matching the reference implementation's convention that a zero denominator
// means "unconditionally".
func (s *Source) OneIn(k uint32) bool {
	if k == 0 {
		return true
	}
	return s.r.Uint32()%k == 0
}

// UpTo returns a value in [0, k). UpTo(0) returns 0.
func (s *Source) UpTo(k uint32) uint32 {
	if k == 0 {
		return 0
	}
	return s.r.Uint32() % k
}

// UpToSquared returns a value in [0, k), biased toward small results by
// drawing two independent upTo(k) values and keeping the smaller. The
// generator uses it for signature parameter counts, favoring short
// signatures without excluding the upper end entirely.
func (s *Source) UpToSquared(k uint32) uint32 {
	if k == 0 {
		return 0
	}
	a := s.UpTo(k)
	b := s.UpTo(k)
	if a < b {
		return a
	}
	return b
}

// Pick returns a uniformly chosen element of list. It panics if list is
// empty, since every call site is expected to have already checked for a
// nonempty candidate set (an empty candidate set is a planning bug, not a
// runtime condition to recover from).
func Pick[T any](s *Source, list []T) T {
	return list[s.UpTo(uint32(len(list)))]
}

// Bool returns a fair random boolean.
func (s *Source) Bool() bool { return s.OneIn(2) }
