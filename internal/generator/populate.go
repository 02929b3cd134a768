package generator

import "typegen/internal/heaptype"

// populate fills in every slot's body, in slot order, consistent with the
// kind/shareability/supertype decisions made during planning.
func (g *impl) populate() {
	n := g.b.Size()
	for g.index = 0; int(g.index) < n; g.index++ {
		i := int(g.index)
		// A type with no nontrivial subtypes may be marked final.
		g.b.SetOpen(i, len(g.subtypeIndices[i]) > 1 || g.rand.OneIn(2))

		k := g.typeKinds[i]
		share := g.b.At(i).Share()

		if g.supertypeIndex[i] < 0 {
			switch k {
			case sigKind:
				g.b.SetSignature(i, g.generateSignature())
			case structKind:
				g.b.SetStruct(i, g.generateStruct(share))
			case arrayKind:
				g.b.SetArray(i, g.generateArray(share))
			}
			continue
		}

		super := g.b.At(int(g.supertypeIndex[i]))
		switch super.GetKind() {
		case heaptype.SignatureKind:
			g.b.SetSignature(i, g.generateSubSignature(super.GetSignature()))
		case heaptype.StructKind:
			g.b.SetStruct(i, g.generateSubStruct(super.GetStruct(), share))
		case heaptype.ArrayKind:
			g.b.SetArray(i, g.generateSubArray(super.GetArray()))
		}
	}
}

// generateBasicHeapType picks one of the predeclared abstract types,
// favoring non-bottom types and respecting exception-handling/shared-
// everything gating.
func (g *impl) generateBasicHeapType(share heaptype.Shareability) heaptype.BasicHeapType {
	if g.rand.OneIn(16) {
		bottoms := []heaptype.Basic{heaptype.NoExt, heaptype.NoFunc, heaptype.None}
		b := bottoms[g.rand.UpTo(uint32(len(bottoms)))]
		return heaptype.BasicHeapType{Basic: b, Share: share}
	}

	options := []heaptype.Basic{
		heaptype.Func,
		heaptype.Ext,
		heaptype.Any,
		heaptype.Eq,
		heaptype.I31,
		heaptype.Struct,
		heaptype.Array,
	}
	if g.features.ExceptionHandling && share == heaptype.Unshared {
		options = append(options, heaptype.Exn)
	}
	b := options[g.rand.UpTo(uint32(len(options)))]
	if share == heaptype.Unshared && g.features.SharedEverything && b != heaptype.Exn && g.rand.OneIn(2) {
		share = heaptype.Shared
	}
	return heaptype.BasicHeapType{Basic: b, Share: share}
}

// generateBasicType picks a numeric type, gating v128 on SIMD.
func (g *impl) generateBasicType() heaptype.Type {
	options := []heaptype.Numeric{heaptype.I32, heaptype.I64, heaptype.F32, heaptype.F64}
	if g.features.SIMD {
		options = append(options, heaptype.V128)
	}
	n := options[g.rand.UpTo(uint32(len(options)))]
	return heaptype.MakeNumeric(n)
}

// generateHeapType picks a basic type or a reference to some already-planned
// type visible from the slot currently being populated.
func (g *impl) generateHeapType(share heaptype.Shareability) heaptype.HeapType {
	if g.rand.OneIn(4) {
		return heaptype.HeapType{Kind: heaptype.HeapBasic, Basic: g.generateBasicHeapType(share)}
	}
	end := int(g.recGroupEnds[g.index])
	if share == heaptype.Shared {
		var eligible []int
		for i := 0; i < end; i++ {
			if g.b.At(i).Share() == heaptype.Shared {
				eligible = append(eligible, i)
			}
		}
		if len(eligible) == 0 {
			return heaptype.HeapType{Kind: heaptype.HeapBasic, Basic: g.generateBasicHeapType(share)}
		}
		return g.b.At(eligible[g.rand.UpTo(uint32(len(eligible)))])
	}
	return g.b.At(int(g.rand.UpTo(uint32(end))))
}

func (g *impl) generateRefType(share heaptype.Shareability) heaptype.Type {
	h := g.generateHeapType(share)
	null := heaptype.Nullable
	if !h.IsExn() && !g.rand.OneIn(2) {
		null = heaptype.NonNullable
	}
	return g.b.TempRefType(h, null)
}

func (g *impl) generateSingleType(share heaptype.Shareability) heaptype.Type {
	if g.rand.UpTo(2) == 0 {
		return g.generateBasicType()
	}
	return g.generateRefType(share)
}

func (g *impl) generateTupleType(share heaptype.Shareability) heaptype.Type {
	n := 2 + int(g.rand.UpTo(g.params.MaxTupleSize-1))
	elems := make(heaptype.Tuple, n)
	for i := range elems {
		elems[i] = g.generateSingleType(share)
	}
	return g.b.TempTupleType(elems)
}

// generateReturnType returns a signature's flat result list: empty (no
// results), a single type, or (when multivalue is enabled) several.
func (g *impl) generateReturnType() heaptype.Tuple {
	switch {
	case g.rand.OneIn(6):
		return heaptype.Tuple{}
	case g.features.Multivalue && g.rand.OneIn(5):
		return g.generateTupleType(heaptype.Unshared).Tuple
	default:
		return heaptype.Tuple{g.generateSingleType(heaptype.Unshared)}
	}
}

func (g *impl) generateSignature() heaptype.Signature {
	n := int(g.rand.UpToSquared(g.params.MaxParams))
	params := make(heaptype.Tuple, n)
	for i := range params {
		params[i] = g.generateSingleType(heaptype.Unshared)
	}
	return heaptype.Signature{Params: params, Results: g.generateReturnType()}
}

func (g *impl) generateField(share heaptype.Shareability) heaptype.Field {
	mutable := heaptype.Immutable
	if g.rand.OneIn(2) {
		mutable = heaptype.Mutable
	}
	if g.rand.OneIn(6) {
		packed := heaptype.I8
		if g.rand.OneIn(2) {
			packed = heaptype.I16
		}
		return heaptype.Field{Packed: packed, Mutable: mutable}
	}
	return heaptype.Field{Type: g.generateSingleType(share), Mutable: mutable}
}

func (g *impl) generateStruct(share heaptype.Shareability) heaptype.StructType {
	n := int(g.rand.UpTo(g.params.MaxStructSize + 1))
	fields := make([]heaptype.Field, n)
	for i := range fields {
		fields[i] = g.generateField(share)
	}
	return heaptype.StructType{Fields: fields}
}

func (g *impl) generateArray(share heaptype.Shareability) heaptype.ArrayType {
	return heaptype.ArrayType{Element: g.generateField(share)}
}
