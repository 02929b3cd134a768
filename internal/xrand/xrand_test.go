package xrand

import "testing"

func TestOneInZeroAlwaysTrue(t *testing.T) {
	s := New(1)
	for i := 0; i < 100; i++ {
		if !s.OneIn(0) {
			t.Fatal("OneIn(0) must always return true")
		}
	}
}

func TestUpToZeroReturnsZero(t *testing.T) {
	s := New(1)
	if got := s.UpTo(0); got != 0 {
		t.Fatalf("UpTo(0) = %d, want 0", got)
	}
	if got := s.UpToSquared(0); got != 0 {
		t.Fatalf("UpToSquared(0) = %d, want 0", got)
	}
}

func TestUpToBounds(t *testing.T) {
	s := New(42)
	for i := 0; i < 1000; i++ {
		got := s.UpTo(7)
		if got >= 7 {
			t.Fatalf("UpTo(7) = %d, out of range", got)
		}
	}
}

func TestUpToSquaredBounds(t *testing.T) {
	s := New(42)
	for i := 0; i < 1000; i++ {
		got := s.UpToSquared(5)
		if got >= 5 {
			t.Fatalf("UpToSquared(5) = %d, out of range", got)
		}
	}
}

func TestPickReturnsMember(t *testing.T) {
	s := New(7)
	list := []string{"a", "b", "c"}
	for i := 0; i < 50; i++ {
		got := Pick(s, list)
		found := false
		for _, v := range list {
			if v == got {
				found = true
			}
		}
		if !found {
			t.Fatalf("Pick() = %q, not in %v", got, list)
		}
	}
}

func TestDeterministicForSameSeed(t *testing.T) {
	a := New(99)
	b := New(99)
	for i := 0; i < 20; i++ {
		if a.UpTo(1000) != b.UpTo(1000) {
			t.Fatal("two Sources seeded identically diverged")
		}
	}
}

func TestBoolIsFair(t *testing.T) {
	s := New(3)
	trues := 0
	const n = 2000
	for i := 0; i < n; i++ {
		if s.Bool() {
			trues++
		}
	}
	if trues < n/4 || trues > 3*n/4 {
		t.Fatalf("Bool() looks biased: %d/%d true", trues, n)
	}
}
