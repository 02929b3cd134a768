// Package heapbuilder implements the Builder Interface from spec.md §1/§6: a
// slot-based construction API that lets a caller reserve N provisional heap
// types, wire recursion groups and subtype edges between them, assign bodies,
// and finalize the whole batch atomically. It is the one place that
// validates spec.md §3's nominal/structural invariants.
package heapbuilder

import (
	"fmt"

	"typegen/internal/heaptype"
)

// Builder accumulates slots for a batch of mutually-recursive heap types.
// Slots are allocated up front as *heaptype.Def with empty bodies, so a
// HeapType pointing at a not-yet-populated slot can be handed out as a
// provisional child reference (TempRefType) before Build is called.
type Builder struct {
	defs     []*heaptype.Def
	external map[*heaptype.Def]bool
}

// New reserves n empty slots, each initially its own one-member recursion
// group with no declared supertype, open for further subtyping.
func New(n int) *Builder {
	b := &Builder{defs: make([]*heaptype.Def, n), external: make(map[*heaptype.Def]bool)}
	for i := range b.defs {
		b.defs[i] = &heaptype.Def{
			Index:         int32(i),
			Open:          true,
			RecGroupStart: int32(i),
			RecGroupEnd:   int32(i + 1),
		}
	}
	return b
}

// Size returns the number of slots reserved.
func (b *Builder) Size() int { return len(b.defs) }

// At returns a HeapType handle for slot i, valid as a provisional or final
// reference regardless of whether its body has been assigned yet.
func (b *Builder) At(i int) heaptype.HeapType { return heaptype.MakeConstructed(b.defs[i]) }

// CreateRecGroup marks the contiguous slots [start, start+size) as one
// recursion group, per spec.md §3's requirement that rec-groups partition a
// contiguous range of the collection.
func (b *Builder) CreateRecGroup(start, size int) {
	end := int32(start + size)
	for i := start; i < start+size; i++ {
		b.defs[i].RecGroupStart = int32(start)
		b.defs[i].RecGroupEnd = end
	}
}

// SubTypeOf declares that slot i is a direct subtype of slot super. super
// must precede i in the collection (spec.md §3's supertype-visibility rule);
// Build rejects violations.
func (b *Builder) SubTypeOf(i, super int) { b.defs[i].Supertype = b.defs[super] }

// SubTypeOfExternal declares that slot i is a direct subtype of super, a
// constructed type finalized outside this batch (already validated by
// whichever Builder produced it). Use this instead of SubTypeOf when super
// isn't one of this batch's own slots, e.g. when rebuilding a deduplicated
// subset of a larger collection whose supertype links reach outside it. A
// non-constructed super (basic/bottom) is not a valid supertype and is
// ignored.
func (b *Builder) SubTypeOfExternal(i int, super heaptype.HeapType) {
	if super.Kind != heaptype.HeapConstructed {
		return
	}
	b.defs[i].Supertype = super.Def
	b.external[super.Def] = true
}

// SetOpen marks whether slot i permits further subtypes.
func (b *Builder) SetOpen(i int, open bool) { b.defs[i].Open = open }

// SetShared sets slot i's shareability.
func (b *Builder) SetShared(i int, s heaptype.Shareability) { b.defs[i].Share = s }

// SetSignature assigns a signature body to slot i.
func (b *Builder) SetSignature(i int, sig heaptype.Signature) {
	b.defs[i].Kind = heaptype.SignatureKind
	b.defs[i].Signature = sig
}

// SetStruct assigns a struct body to slot i.
func (b *Builder) SetStruct(i int, st heaptype.StructType) {
	b.defs[i].Kind = heaptype.StructKind
	b.defs[i].Struct = st
}

// SetArray assigns an array body to slot i.
func (b *Builder) SetArray(i int, arr heaptype.ArrayType) {
	b.defs[i].Kind = heaptype.ArrayKind
	b.defs[i].Array = arr
}

// TempRefType builds a Ref Type to h, forcing Nullable when h denotes
// (possibly shared) exn: exnref has no non-nullable form (spec.md §3).
func (b *Builder) TempRefType(h heaptype.HeapType, null heaptype.Nullability) heaptype.Type {
	if h.IsExn() {
		null = heaptype.Nullable
	}
	return heaptype.MakeRef(h, null)
}

// TempTupleType builds a Tuple Type from list.
func (b *Builder) TempTupleType(list heaptype.Tuple) heaptype.Type {
	return heaptype.MakeTuple(list)
}

// Build finalizes the batch, validating every slot against spec.md §3, and
// returns the resulting HeapTypes in slot order. A validation failure is
// treated as fatal by callers (spec.md §7): it indicates a bug in the caller
// that assembled the slots, not a transient or user-correctable condition.
func (b *Builder) Build() ([]heaptype.HeapType, error) {
	for i, d := range b.defs {
		if err := b.validateRecGroup(i, d); err != nil {
			return nil, err
		}
		if err := b.validateSupertype(i, d); err != nil {
			return nil, err
		}
		if err := b.validateChildren(i, d); err != nil {
			return nil, err
		}
	}
	out := make([]heaptype.HeapType, len(b.defs))
	for i, d := range b.defs {
		out[i] = heaptype.MakeConstructed(d)
	}
	return out, nil
}

func (b *Builder) validateRecGroup(i int, d *heaptype.Def) error {
	if d.RecGroupStart < 0 || d.RecGroupEnd > int32(len(b.defs)) || d.RecGroupStart >= d.RecGroupEnd {
		return fmt.Errorf("heapbuilder: slot %d has malformed recursion group [%d, %d)", i, d.RecGroupStart, d.RecGroupEnd)
	}
	for j := int(d.RecGroupStart); j < int(d.RecGroupEnd); j++ {
		other := b.defs[j]
		if other.RecGroupStart != d.RecGroupStart || other.RecGroupEnd != d.RecGroupEnd {
			return fmt.Errorf("heapbuilder: recursion group containing slot %d is not contiguous/partitioned", i)
		}
	}
	return nil
}

func (b *Builder) validateSupertype(i int, d *heaptype.Def) error {
	if d.Supertype == nil {
		return nil
	}
	super := d.Supertype
	if super.Kind != d.Kind {
		return fmt.Errorf("heapbuilder: slot %d (%s) declares supertype of kind %s: kind is not stable", i, d.Kind, super.Kind)
	}
	if super.Share != d.Share {
		return fmt.Errorf("heapbuilder: slot %d declares supertype with different shareability: shareability is not stable", i)
	}
	if b.external[super] {
		// super was finalized by a different Builder; its Index/Open fields
		// aren't comparable against this batch's own slot indices.
		return nil
	}
	if super.Index >= d.Index {
		return fmt.Errorf("heapbuilder: slot %d declares supertype at index %d, which is not visible (must precede it)", i, super.Index)
	}
	if !super.Open {
		return fmt.Errorf("heapbuilder: slot %d declares supertype at index %d, which is not open", i, super.Index)
	}
	return nil
}

// validateChildren checks that every constructed type reachable from d's
// body is visible: either it precedes d's recursion group entirely, or it is
// a member of the same recursion group (forward references within a group
// are how mutual recursion is expressed).
func (b *Builder) validateChildren(i int, d *heaptype.Def) error {
	for _, t := range heaptype.MakeConstructed(d).TypeChildren() {
		if err := b.validateTypeVisible(i, d, t); err != nil {
			return err
		}
	}
	return nil
}

func (b *Builder) validateTypeVisible(i int, d *heaptype.Def, t heaptype.Type) error {
	switch t.Kind {
	case heaptype.KindRef:
		return b.validateHeapVisible(i, d, t.Ref.Heap)
	case heaptype.KindTuple:
		for _, elem := range t.Tuple {
			if err := b.validateTypeVisible(i, d, elem); err != nil {
				return err
			}
		}
	}
	return nil
}

func (b *Builder) validateHeapVisible(i int, d *heaptype.Def, h heaptype.HeapType) error {
	if h.Kind != heaptype.HeapConstructed {
		return nil
	}
	child := h.Def
	if child.Index >= d.RecGroupEnd {
		return fmt.Errorf("heapbuilder: slot %d references slot %d, which is not yet visible", i, child.Index)
	}
	return nil
}
