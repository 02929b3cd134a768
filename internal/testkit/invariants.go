// Package testkit collects reusable invariant checks shared by the generator
// and graphcache package tests and the CLI's generate, check and batch
// commands, in the same spirit as
// the teacher toolchain's span-invariant checker: one assertion function per
// structural property, returning a descriptive error instead of failing a
// specific *testing.T so callers can wrap it with t.Fatal/t.Error as they see
// fit.
package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"typegen/internal/heaptype"
)

// CheckGenerateInvariants validates a freshly generated batch of heap types
// against the structural properties every generator output must satisfy:
// every declared supertype is visible and kind/shareability-stable, every
// recursion group is a contiguous partition, and every reachable child is
// visible from the type that references it.
func CheckGenerateInvariants(types []heaptype.HeapType) error {
	n, err := safecast.Conv[int32](len(types))
	if err != nil {
		return fmt.Errorf("testkit: type count overflow: %w", err)
	}

	for i, t := range types {
		if t.IsBasic() {
			return fmt.Errorf("testkit: slot %d is basic; generator output must be all constructed types", i)
		}
		idx, err := safecast.Conv[int32](i)
		if err != nil {
			return fmt.Errorf("testkit: index overflow at %d: %w", i, err)
		}

		if t.Def.RecGroupStart < 0 || t.Def.RecGroupEnd > n || t.Def.RecGroupStart >= t.Def.RecGroupEnd {
			return fmt.Errorf("testkit: slot %d has malformed recursion group [%d, %d)", i, t.Def.RecGroupStart, t.Def.RecGroupEnd)
		}
		if idx < t.Def.RecGroupStart || idx >= t.Def.RecGroupEnd {
			return fmt.Errorf("testkit: slot %d is outside its own recursion group [%d, %d)", i, t.Def.RecGroupStart, t.Def.RecGroupEnd)
		}
		for j := t.Def.RecGroupStart; j < t.Def.RecGroupEnd; j++ {
			other := types[j]
			if other.IsBasic() || other.Def.RecGroupStart != t.Def.RecGroupStart || other.Def.RecGroupEnd != t.Def.RecGroupEnd {
				return fmt.Errorf("testkit: recursion group [%d, %d) of slot %d is not a contiguous partition", t.Def.RecGroupStart, t.Def.RecGroupEnd, i)
			}
		}

		if super, ok := t.GetDeclaredSuperType(); ok {
			if super.Def.Index >= idx {
				return fmt.Errorf("testkit: slot %d declares supertype at %d, not visible", i, super.Def.Index)
			}
			if super.GetKind() != t.GetKind() {
				return fmt.Errorf("testkit: slot %d (%s) has supertype of kind %s", i, t.GetKind(), super.GetKind())
			}
			if super.Share() != t.Share() {
				return fmt.Errorf("testkit: slot %d has supertype with different shareability", i)
			}
		}

		for _, child := range t.TypeChildren() {
			if err := checkChildVisible(child, t.Def.RecGroupEnd); err != nil {
				return fmt.Errorf("testkit: slot %d: %w", i, err)
			}
		}
	}
	return nil
}

func checkChildVisible(t heaptype.Type, recGroupEnd int32) error {
	switch t.Kind {
	case heaptype.KindRef:
		if t.Ref.Heap.IsBasic() {
			return nil
		}
		if t.Ref.Heap.Def.Index >= recGroupEnd {
			return fmt.Errorf("references slot %d, not yet visible (group ends at %d)", t.Ref.Heap.Def.Index, recGroupEnd)
		}
		return nil
	case heaptype.KindTuple:
		for _, elem := range t.Tuple {
			if err := checkChildVisible(elem, recGroupEnd); err != nil {
				return err
			}
		}
	}
	return nil
}

// CheckInhabitableInvariants validates that every non-signature type in
// types is inhabitable: no non-nullable reference to a bottom or extern
// type, and no cycle formed purely of non-nullable references.
func CheckInhabitableInvariants(types []heaptype.HeapType) error {
	visited := make(map[heaptype.HeapType]bool)
	visiting := make(map[heaptype.HeapType]bool)
	for _, t := range types {
		if err := checkTypeInhabitable(t, visited, visiting); err != nil {
			return err
		}
	}
	return nil
}

func checkTypeInhabitable(h heaptype.HeapType, visited, visiting map[heaptype.HeapType]bool) error {
	if h.IsBasic() || h.IsSignature() || visited[h] {
		return nil
	}
	if visiting[h] {
		return fmt.Errorf("testkit: non-nullable reference cycle through %s", h.GetKind())
	}
	visiting[h] = true
	for i, child := range h.TypeChildren() {
		if child.IsRef() && !child.Ref.IsNullable() {
			heap := child.Ref.Heap
			if heap.IsBottom() {
				return fmt.Errorf("testkit: %s field %d is a non-nullable reference to bottom type %s", h.GetKind(), i, heap.Basic)
			}
			if heap.IsExtern() {
				return fmt.Errorf("testkit: %s field %d is a non-nullable externref", h.GetKind(), i)
			}
			if err := checkTypeInhabitable(heap, visited, visiting); err != nil {
				return err
			}
		}
	}
	delete(visiting, h)
	visited[h] = true
	return nil
}

// CheckSubtypeIndicesReflexive checks property 1 of the generator's
// contract: every type's subtype-index list contains itself.
func CheckSubtypeIndicesReflexive(subtypeIndices [][]int32) error {
	for i, subs := range subtypeIndices {
		found := false
		for _, s := range subs {
			if int(s) == i {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("testkit: slot %d's subtype-index list does not contain itself", i)
		}
	}
	return nil
}
