package inhabit

import (
	"typegen/internal/heapbuilder"
	"typegen/internal/heaptype"
)

// build rebuilds in.types through a fresh Builder, copying every field
// across unchanged except where markNullable recorded that it must become
// nullable, and re-establishing rec groups, supertypes, and openness exactly
// as they were.
func (in *inhabitator) build() ([]heaptype.HeapType, error) {
	n := len(in.types)
	indexOf := make(map[heaptype.HeapType]int, n)
	for i, t := range in.types {
		indexOf[t] = i
	}
	b := heapbuilder.New(n)

	updateType := func(pos FieldPos, t heaptype.Type) heaptype.Type {
		if !t.IsRef() {
			return t
		}
		heap := t.Ref.Heap
		null := t.Ref.Null
		if idx, ok := indexOf[heap]; ok {
			heap = b.At(idx)
		}
		if in.nullables[pos] {
			null = heaptype.Nullable
		}
		return b.TempRefType(heap, null)
	}

	for i, t := range in.types {
		switch t.GetKind() {
		case heaptype.SignatureKind:
			sig := t.GetSignature()
			j := 0
			params := make(heaptype.Tuple, len(sig.Params))
			for k, p := range sig.Params {
				params[k] = updateType(FieldPos{Type: t, Idx: j}, p)
				j++
			}
			results := make(heaptype.Tuple, len(sig.Results))
			for k, r := range sig.Results {
				results[k] = updateType(FieldPos{Type: t, Idx: j}, r)
				j++
			}
			b.SetSignature(i, heaptype.Signature{Params: params, Results: results})
		case heaptype.StructKind:
			st := t.GetStruct()
			fields := make([]heaptype.Field, len(st.Fields))
			for j, f := range st.Fields {
				if !f.IsPacked() {
					f.Type = updateType(FieldPos{Type: t, Idx: j}, f.Type)
				}
				fields[j] = f
			}
			b.SetStruct(i, heaptype.StructType{Fields: fields})
		case heaptype.ArrayKind:
			arr := t.GetArray()
			el := arr.Element
			if !el.IsPacked() {
				el.Type = updateType(FieldPos{Type: t, Idx: 0}, el.Type)
			}
			b.SetArray(i, heaptype.ArrayType{Element: el})
		}
	}

	for start := 0; start < n; {
		size := in.types[start].RecGroupSize()
		if size < 1 {
			size = 1
		}
		if start+size > n {
			size = n - start
		}
		b.CreateRecGroup(start, size)
		start += size
	}

	for i, t := range in.types {
		if super, ok := t.GetDeclaredSuperType(); ok {
			if sidx, ok := indexOf[super]; ok {
				b.SubTypeOf(i, sidx)
			} else {
				// super didn't survive deduplication into this batch (it lives
				// outside the set being repaired); preserve the link rather
				// than silently dropping it.
				b.SubTypeOfExternal(i, super)
			}
		}
		b.SetOpen(i, t.IsOpen())
		b.SetShared(i, t.Share())
	}

	return b.Build()
}
