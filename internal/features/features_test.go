package features

import (
	"testing"

	"typegen/internal/xrand"
)

func TestAllEnablesEverything(t *testing.T) {
	s := All()
	if !s.SharedEverything || !s.ExceptionHandling || !s.Multivalue || !s.SIMD {
		t.Fatalf("All() = %+v, want every field true", s)
	}
}

func TestAlwaysHasNoGate(t *testing.T) {
	opt := Always(5)
	if opt.Gate != nil {
		t.Fatal("Always() should not set a Gate")
	}
}

func TestGatedFiltersByFeature(t *testing.T) {
	rnd := xrand.New(1)
	opts := []Option[string]{
		Always("base"),
		Gated("simd-only", func(s Set) bool { return s.SIMD }),
	}

	without := Set{}
	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		seen[Pick(rnd, without, opts)] = true
	}
	if seen["simd-only"] {
		t.Fatal("Pick selected a gated option whose feature was disabled")
	}
	if !seen["base"] {
		t.Fatal("Pick never selected the only available option")
	}
}

func TestPickCanSelectGatedOptionWhenEnabled(t *testing.T) {
	rnd := xrand.New(1)
	opts := []Option[string]{
		Gated("simd-only", func(s Set) bool { return s.SIMD }),
	}
	withSIMD := Set{SIMD: true}
	if got := Pick(rnd, withSIMD, opts); got != "simd-only" {
		t.Fatalf("Pick() = %q, want simd-only", got)
	}
}
