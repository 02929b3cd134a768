package inhabit

import "typegen/internal/heaptype"

// MakeInhabitable returns a copy of types in which every uninhabitable
// struct/array type has been repaired by making a sufficient (not
// necessarily minimal) set of references nullable, preserving the order and
// count of the input and the validity of every subtyping relationship among
// them. Basic types pass through unchanged; every copy of a duplicated
// constructed type maps to the same rebuilt entry. Signatures are never
// uninhabitable and are only ever touched to update references they hold to
// repaired types.
func MakeInhabitable(types []heaptype.HeapType) ([]heaptype.HeapType, error) {
	if len(types) == 0 {
		return nil, nil
	}

	// Deduplicate constructed types (basics pass through at the end) so the
	// builder below only has to reason about each distinct type once.
	dedupIndex := make([]int, len(types))
	seen := make(map[heaptype.HeapType]int, len(types))
	var deduplicated []heaptype.HeapType
	for i, t := range types {
		if t.IsBasic() {
			dedupIndex[i] = -1
			continue
		}
		if idx, ok := seen[t]; ok {
			dedupIndex[i] = idx
			continue
		}
		idx := len(deduplicated)
		seen[t] = idx
		deduplicated = append(deduplicated, t)
		dedupIndex[i] = idx
	}

	in := newInhabitator(deduplicated)
	in.markBottomRefsNullable()
	in.markExternRefsNullable()
	in.breakNonNullableCycles()
	rebuilt, err := in.build()
	if err != nil {
		return nil, err
	}

	result := make([]heaptype.HeapType, len(types))
	for i, t := range types {
		if dedupIndex[i] < 0 {
			result[i] = t
			continue
		}
		result[i] = rebuilt[dedupIndex[i]]
	}
	return result, nil
}

// GetInhabitable returns the subset of types that are already inhabitable,
// preserving their relative order.
func GetInhabitable(types []heaptype.HeapType) []heaptype.HeapType {
	visited := make(map[heaptype.HeapType]bool)
	visiting := make(map[heaptype.HeapType]bool)
	var out []heaptype.HeapType
	for _, t := range types {
		if !isHeapUninhabitable(t, visited, visiting) {
			out = append(out, t)
		}
	}
	return out
}

// isTypeUninhabitable answers whether t denotes a non-nullable reference to
// an unconstructable heap type: either a bottom/externref directly, or a
// struct/array reachable only through a cycle of non-nullable references.
func isTypeUninhabitable(t heaptype.Type, visited, visiting map[heaptype.HeapType]bool) bool {
	if !t.IsRef() || t.Ref.IsNullable() {
		return false
	}
	heap := t.Ref.Heap
	if heap.IsBottom() || heap.IsExtern() {
		return true
	}
	return isHeapUninhabitable(heap, visited, visiting)
}

func isHeapUninhabitable(h heaptype.HeapType, visited, visiting map[heaptype.HeapType]bool) bool {
	if h.IsBasic() || h.IsSignature() {
		return false
	}
	if visited[h] {
		return false
	}
	if visiting[h] {
		return true
	}
	visiting[h] = true
	for _, child := range h.TypeChildren() {
		if isTypeUninhabitable(child, visited, visiting) {
			return true
		}
	}
	delete(visiting, h)
	visited[h] = true
	return false
}
