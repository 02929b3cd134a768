// Package inhabit implements the inhabitability repair engine: detecting and
// fixing the two root causes of an uninhabitable type graph (non-nullable
// references to a bottom type, and cycles formed entirely of non-nullable
// references), by making references nullable, together with whichever
// related fields must follow to preserve valid subtyping. The set of edits
// is sufficient, not necessarily minimal.
package inhabit

import (
	"typegen/internal/heaptype"
)

// FieldPos uniquely identifies a field: a heap type plus the index of one of
// its FieldCount() positions.
type FieldPos struct {
	Type heaptype.HeapType
	Idx  int
}

// Variance describes how a field's type may change between a heap type and
// its subtypes: an Invariant field must keep exactly the same type, while a
// Covariant field may narrow to a subtype.
type Variance uint8

const (
	Invariant Variance = iota
	Covariant
)

// subtypeIndex answers "who are the immediate/known subtypes of this heap
// type" without needing the generator's own bookkeeping, by scanning the
// input types once. It mirrors SubTypes in the reference implementation.
type subtypeIndex struct {
	subtypesOf map[heaptype.HeapType][]heaptype.HeapType
}

func buildSubtypeIndex(types []heaptype.HeapType) *subtypeIndex {
	idx := &subtypeIndex{subtypesOf: make(map[heaptype.HeapType][]heaptype.HeapType)}
	for _, t := range types {
		if super, ok := t.GetDeclaredSuperType(); ok {
			idx.subtypesOf[super] = append(idx.subtypesOf[super], t)
		}
	}
	return idx
}

// iterSubTypes calls fn for every known subtype of t, including t itself,
// following the declared-subtype edges transitively.
func (s *subtypeIndex) iterSubTypes(t heaptype.HeapType, fn func(heaptype.HeapType)) {
	fn(t)
	for _, sub := range s.subtypesOf[t] {
		s.iterSubTypes(sub, fn)
	}
}

// inhabitator carries the state of one repair pass over a deduplicated,
// basic-type-free slice of heap types.
type inhabitator struct {
	types     []heaptype.HeapType
	nullables map[FieldPos]bool
	subtypes  *subtypeIndex
}

func newInhabitator(types []heaptype.HeapType) *inhabitator {
	return &inhabitator{
		types:     types,
		nullables: make(map[FieldPos]bool),
		subtypes:  buildSubtypeIndex(types),
	}
}

// getVariance reports the variance of the field at pos. It is only valid for
// struct/array fields; signatures never reach this path because both marking
// passes skip them (function references are always instantiable).
func getVariance(pos FieldPos) Variance {
	field, ok := heaptype.GetField(pos.Type, pos.Idx)
	if !ok {
		return Covariant
	}
	if field.Mutable == heaptype.Mutable {
		return Invariant
	}
	return Covariant
}

// markNullable records that the field at pos must become nullable, and
// propagates that requirement to whichever related types are needed to keep
// subtyping valid: supertypes for a covariant field, or the full subtype
// fan-out from the topmost type that declares the field for an invariant
// one.
func (in *inhabitator) markNullable(pos FieldPos) {
	in.nullables[pos] = true

	switch getVariance(pos) {
	case Covariant:
		curr := pos.Type
		for {
			super, ok := curr.GetDeclaredSuperType()
			if !ok {
				break
			}
			in.nullables[FieldPos{Type: super, Idx: pos.Idx}] = true
			curr = super
		}
	case Invariant:
		curr := pos.Type
		if curr.GetKind() == heaptype.ArrayKind {
			for {
				super, ok := curr.GetDeclaredSuperType()
				if !ok {
					break
				}
				curr = super
			}
		} else {
			for {
				super, ok := curr.GetDeclaredSuperType()
				if !ok || heaptype.StructWidth(super) <= pos.Idx {
					break
				}
				curr = super
			}
		}
		idx := pos.Idx
		in.subtypes.iterSubTypes(curr, func(t heaptype.HeapType) {
			in.nullables[FieldPos{Type: t, Idx: idx}] = true
		})
	}
}

// markBottomRefsNullable makes every non-nullable reference to a bottom type
// nullable: such a reference can never be constructed.
func (in *inhabitator) markBottomRefsNullable() {
	for _, t := range in.types {
		if t.IsSignature() {
			continue
		}
		for i, child := range t.TypeChildren() {
			if child.IsRef() && !child.Ref.IsNullable() && child.Ref.Heap.IsBottom() {
				in.markNullable(FieldPos{Type: t, Idx: i})
			}
		}
	}
}

// markExternRefsNullable makes every non-nullable externref nullable, since
// callers of this package have no way to instantiate one directly.
func (in *inhabitator) markExternRefsNullable() {
	for _, t := range in.types {
		if t.IsSignature() {
			continue
		}
		for i, child := range t.TypeChildren() {
			if child.IsRef() && !child.Ref.IsNullable() && child.Ref.Heap.IsExtern() {
				in.markNullable(FieldPos{Type: t, Idx: i})
			}
		}
	}
}
