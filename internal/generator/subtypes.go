package generator

import "typegen/internal/heaptype"

// getKindCandidates collects the already-planned types of the given kind and
// shareability that are visible (defined no later than the end of the
// current recursion group).
func (g *impl) getKindCandidates(k kind, share heaptype.Shareability) []heaptype.HeapType {
	end := int(g.recGroupEnds[g.index])
	var out []heaptype.HeapType
	for i := 0; i < end; i++ {
		if g.typeKinds[i] == k && g.b.At(i).Share() == share {
			out = append(out, g.b.At(i))
		}
	}
	return out
}

func (g *impl) pickKind(k kind, share heaptype.Shareability) (heaptype.HeapType, bool) {
	candidates := g.getKindCandidates(k, share)
	if len(candidates) == 0 {
		return heaptype.HeapType{}, false
	}
	return candidates[g.rand.UpTo(uint32(len(candidates)))], true
}

func basic(b heaptype.Basic, share heaptype.Shareability) heaptype.HeapType {
	return heaptype.MakeBasic(b, share)
}

func (g *impl) pickSubFunc(share heaptype.Shareability) heaptype.HeapType {
	choice := g.rand.UpTo(8)
	switch choice {
	case 0:
		return basic(heaptype.Func, share)
	case 1:
		return basic(heaptype.NoFunc, share)
	default:
		if t, ok := g.pickKind(sigKind, share); ok {
			return t
		}
		if choice%2 == 1 {
			return basic(heaptype.Func, share)
		}
		return basic(heaptype.NoFunc, share)
	}
}

func (g *impl) pickSubStruct(share heaptype.Shareability) heaptype.HeapType {
	choice := g.rand.UpTo(8)
	switch choice {
	case 0:
		return basic(heaptype.Struct, share)
	case 1:
		return basic(heaptype.None, share)
	default:
		if t, ok := g.pickKind(structKind, share); ok {
			return t
		}
		if choice%2 == 1 {
			return basic(heaptype.Struct, share)
		}
		return basic(heaptype.None, share)
	}
}

func (g *impl) pickSubArray(share heaptype.Shareability) heaptype.HeapType {
	choice := g.rand.UpTo(8)
	switch choice {
	case 0:
		return basic(heaptype.Array, share)
	case 1:
		return basic(heaptype.None, share)
	default:
		if t, ok := g.pickKind(arrayKind, share); ok {
			return t
		}
		if choice%2 == 1 {
			return basic(heaptype.Array, share)
		}
		return basic(heaptype.None, share)
	}
}

func (g *impl) pickSubEq(share heaptype.Shareability) heaptype.HeapType {
	choice := g.rand.UpTo(16)
	switch choice {
	case 0:
		return basic(heaptype.Eq, share)
	case 1:
		return basic(heaptype.Array, share)
	case 2:
		return basic(heaptype.Struct, share)
	case 3:
		return basic(heaptype.None, share)
	default:
		candidates := g.getKindCandidates(structKind, share)
		candidates = append(candidates, g.getKindCandidates(arrayKind, share)...)
		if len(candidates) > 0 {
			return candidates[g.rand.UpTo(uint32(len(candidates)))]
		}
		switch choice >> 2 {
		case 0:
			return basic(heaptype.Eq, share)
		case 1:
			return basic(heaptype.Array, share)
		case 2:
			return basic(heaptype.Struct, share)
		default:
			return basic(heaptype.None, share)
		}
	}
}

func (g *impl) pickSubAny(share heaptype.Shareability) heaptype.HeapType {
	switch g.rand.UpTo(8) {
	case 0:
		return basic(heaptype.Any, share)
	case 1:
		return basic(heaptype.None, share)
	default:
		return g.pickSubEq(share)
	}
}

// pickSubHeapType picks a subtype of type: if type is a planned constructed
// type, one of its recorded (visible) subtypes or, rarely, its bottom; if
// basic, one of its canonical subtypes.
func (g *impl) pickSubHeapType(t heaptype.HeapType) heaptype.HeapType {
	share := t.Share()
	if idx, ok := g.typeIndexOf[t]; ok {
		end := g.recGroupEnds[g.index]
		var candidates []heaptype.HeapType
		for _, i := range g.subtypeIndices[idx] {
			if i < end {
				candidates = append(candidates, g.b.At(int(i)))
			}
		}
		if g.rand.OneIn(uint32(len(candidates) * 8)) {
			if g.typeKinds[idx] == sigKind {
				return basic(heaptype.NoFunc, share)
			}
			return basic(heaptype.None, share)
		}
		return candidates[g.rand.UpTo(uint32(len(candidates)))]
	}

	if g.rand.OneIn(8) {
		return t.Bottom()
	}
	switch t.Basic.Basic {
	case heaptype.Func:
		return g.pickSubFunc(share)
	case heaptype.Any:
		return g.pickSubAny(share)
	case heaptype.Eq:
		return g.pickSubEq(share)
	case heaptype.I31:
		return basic(heaptype.I31, share)
	case heaptype.Struct:
		return g.pickSubStruct(share)
	case heaptype.Array:
		return g.pickSubArray(share)
	default:
		// ext, exn, string, and the bottoms have no further subtypes.
		return t
	}
}

// pickSuperHeapType picks a supertype of type: its declared supertype chain
// plus the canonical basic chain above its kind, for a planned type; the
// canonical basic chain above it, for a basic type.
func (g *impl) pickSuperHeapType(t heaptype.HeapType) heaptype.HeapType {
	share := t.Share()
	if idx, ok := g.typeIndexOf[t]; ok {
		var candidates []heaptype.HeapType
		for curr := idx; curr >= 0; curr = g.supertypeIndex[curr] {
			candidates = append(candidates, g.b.At(int(curr)))
		}
		switch g.typeKinds[idx] {
		case structKind:
			candidates = append(candidates, basic(heaptype.Struct, share), basic(heaptype.Eq, share), basic(heaptype.Any, share))
		case arrayKind:
			candidates = append(candidates, basic(heaptype.Array, share), basic(heaptype.Eq, share), basic(heaptype.Any, share))
		case sigKind:
			candidates = append(candidates, basic(heaptype.Func, share))
		}
		return candidates[g.rand.UpTo(uint32(len(candidates)))]
	}

	candidates := []heaptype.HeapType{t}
	switch t.Basic.Basic {
	case heaptype.Eq:
		candidates = append(candidates, basic(heaptype.Any, share))
	case heaptype.I31, heaptype.Struct, heaptype.Array:
		candidates = append(candidates, basic(heaptype.Eq, share), basic(heaptype.Any, share))
	case heaptype.String:
		candidates = append(candidates, basic(heaptype.Ext, share))
	case heaptype.None:
		return g.pickSubAny(share)
	case heaptype.NoFunc:
		return g.pickSubFunc(share)
	case heaptype.NoExt:
		candidates = append(candidates, basic(heaptype.Ext, share))
	case heaptype.NoExn:
		candidates = append(candidates, basic(heaptype.Exn, share))
	}
	return candidates[g.rand.UpTo(uint32(len(candidates)))]
}

// ref is an unbuilt (HeapType, Nullability) pair, used internally while
// generating sub/supertypes of reference types before a Type is materialized
// through the builder.
type ref struct {
	heap heaptype.HeapType
	null heaptype.Nullability
}

func (g *impl) generateSubRef(super ref) ref {
	if super.heap.IsExn() {
		// No non-nullable exnref, and no subtypes to consider.
		return super
	}
	null := heaptype.NonNullable
	if super.null == heaptype.Nullable && g.rand.OneIn(2) {
		null = heaptype.Nullable
	}
	return ref{heap: g.pickSubHeapType(super.heap), null: null}
}

func (g *impl) generateSuperRef(sub ref) ref {
	null := heaptype.Nullable
	if sub.null != heaptype.Nullable && !g.rand.OneIn(2) {
		null = heaptype.NonNullable
	}
	return ref{heap: g.pickSuperHeapType(sub.heap), null: null}
}

func (g *impl) generateSubtype(t heaptype.Type) heaptype.Type {
	switch {
	case t.IsTuple():
		out := make(heaptype.Tuple, len(t.Tuple))
		for i, elem := range t.Tuple {
			out[i] = g.generateSubtype(elem)
		}
		return g.b.TempTupleType(out)
	case t.IsRef():
		r := g.generateSubRef(ref{heap: t.Ref.Heap, null: t.Ref.Null})
		return g.b.TempRefType(r.heap, r.null)
	default:
		return t
	}
}

func (g *impl) generateSupertype(t heaptype.Type) heaptype.Type {
	switch {
	case t.IsTuple():
		out := make(heaptype.Tuple, len(t.Tuple))
		for i, elem := range t.Tuple {
			out[i] = g.generateSupertype(elem)
		}
		return g.b.TempTupleType(out)
	case t.IsRef():
		r := g.generateSuperRef(ref{heap: t.Ref.Heap, null: t.Ref.Null})
		return g.b.TempRefType(r.heap, r.null)
	default:
		return t
	}
}

func (g *impl) generateSubtypeList(list heaptype.Tuple) heaptype.Tuple {
	out := make(heaptype.Tuple, len(list))
	for i, t := range list {
		out[i] = g.generateSubtype(t)
	}
	return out
}

func (g *impl) generateSupertypeList(list heaptype.Tuple) heaptype.Tuple {
	out := make(heaptype.Tuple, len(list))
	for i, t := range list {
		out[i] = g.generateSupertype(t)
	}
	return out
}

// generateSubSignature produces a subtype signature: contravariant in
// params, covariant in results.
func (g *impl) generateSubSignature(super heaptype.Signature) heaptype.Signature {
	return heaptype.Signature{
		Params:  g.generateSupertypeList(super.Params),
		Results: g.generateSubtypeList(super.Results),
	}
}

func (g *impl) generateSubField(super heaptype.Field) heaptype.Field {
	if super.Mutable == heaptype.Mutable || super.IsPacked() {
		// Only immutable, unpacked fields support subtyping.
		return super
	}
	return heaptype.Field{Type: g.generateSubtype(super.Type), Mutable: heaptype.Immutable}
}

func (g *impl) generateSubStruct(super heaptype.StructType, share heaptype.Shareability) heaptype.StructType {
	fields := make([]heaptype.Field, 0, len(super.Fields))
	// Depth subtyping.
	for _, f := range super.Fields {
		fields = append(fields, g.generateSubField(f))
	}
	// Width subtyping.
	extra := int(g.rand.UpTo(g.params.MaxStructSize + 1 - uint32(len(fields))))
	for i := 0; i < extra; i++ {
		fields = append(fields, g.generateField(share))
	}
	return heaptype.StructType{Fields: fields}
}

func (g *impl) generateSubArray(super heaptype.ArrayType) heaptype.ArrayType {
	return heaptype.ArrayType{Element: g.generateSubField(super.Element)}
}
