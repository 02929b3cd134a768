package generator

import (
	"testing"

	"typegen/internal/features"
	"typegen/internal/heaptype"
	"typegen/internal/testkit"
	"typegen/internal/xrand"
)

func generateForTest(t *testing.T, seed int64, n int) Result {
	t.Helper()
	result, err := Generate(xrand.New(seed), features.All(), DefaultParams(), n)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	return result
}

func TestGenerateProducesRequestedCount(t *testing.T) {
	for _, n := range []int{1, 5, 32, 100} {
		result := generateForTest(t, 1, n)
		if len(result.Types) != n {
			t.Fatalf("Generate(n=%d) returned %d types", n, len(result.Types))
		}
		if len(result.SubtypeIndices) != n {
			t.Fatalf("Generate(n=%d) SubtypeIndices has %d entries", n, len(result.SubtypeIndices))
		}
	}
}

func TestGenerateSatisfiesStructuralInvariants(t *testing.T) {
	for seed := int64(1); seed <= 20; seed++ {
		result := generateForTest(t, seed, 40)
		if err := testkit.CheckGenerateInvariants(result.Types); err != nil {
			t.Fatalf("seed %d: %v", seed, err)
		}
	}
}

func TestSubtypeIndicesAreReflexive(t *testing.T) {
	for seed := int64(1); seed <= 20; seed++ {
		result := generateForTest(t, seed, 30)
		if err := testkit.CheckSubtypeIndicesReflexive(result.SubtypeIndices); err != nil {
			t.Fatalf("seed %d: %v", seed, err)
		}
	}
}

func TestGenerateIsDeterministicForSameSeed(t *testing.T) {
	a := generateForTest(t, 123, 16)
	b := generateForTest(t, 123, 16)
	if len(a.Types) != len(b.Types) {
		t.Fatal("same seed produced different type counts")
	}
	for i := range a.Types {
		if a.Types[i].GetKind() != b.Types[i].GetKind() {
			t.Fatalf("slot %d kind diverged between identical-seed runs", i)
		}
		if a.Types[i].Share() != b.Types[i].Share() {
			t.Fatalf("slot %d shareability diverged between identical-seed runs", i)
		}
	}
}

func TestGenerateWithSingleType(t *testing.T) {
	result := generateForTest(t, 7, 1)
	if len(result.Types) != 1 {
		t.Fatalf("n=1 returned %d types", len(result.Types))
	}
	if len(result.SubtypeIndices[0]) != 1 || result.SubtypeIndices[0][0] != 0 {
		t.Fatalf("n=1 SubtypeIndices[0] = %v, want [0]", result.SubtypeIndices[0])
	}
}

func TestGenerateRespectsDisabledFeatures(t *testing.T) {
	noFeatures := features.Set{}
	result, err := Generate(xrand.New(5), noFeatures, DefaultParams(), 40)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	for i, ty := range result.Types {
		if ty.Share() != heaptype.Unshared {
			t.Fatalf("slot %d is shared with SharedEverything disabled", i)
		}
		for _, child := range ty.TypeChildren() {
			if child.IsBasic() && child.Numeric == heaptype.V128 {
				t.Fatalf("slot %d used v128 with SIMD disabled", i)
			}
		}
	}
}
