// Package graphcache caches generated heap-type graphs on disk, keyed by the
// parameters that produced them, so `typegen generate` can skip
// re-generating a configuration it has already built. Adapted
// from the teacher toolchain's on-disk module cache (dcache.go): same atomic
// temp-file-then-rename writes, the same XDG cache directory resolution, and
// msgpack for the on-disk format.
package graphcache

import (
	"typegen/internal/features"
	"typegen/internal/generator"
	"typegen/internal/heaptype"
)

// schemaVersion is bumped whenever Snapshot's shape changes incompatibly.
const schemaVersion uint16 = 1

// Snapshot is the flattened, msgpack-serializable form of a generator.Result:
// plain indices stand in for the pointer-identity HeapType/Def graph so the
// structure survives a round trip through disk.
type Snapshot struct {
	Schema         uint16
	Seed           int64
	N              int
	Features       featuresDesc
	Sizes          sizesDesc
	Types          []typeDesc
	SubtypeIndices [][]int32
}

type featuresDesc struct {
	SharedEverything  bool
	ExceptionHandling bool
	Multivalue        bool
	SIMD              bool
}

type sizesDesc struct {
	MaxTupleSize  uint32
	MaxParams     uint32
	MaxStructSize uint32
}

// typeDesc flattens one heaptype.HeapType. Basic is true for predeclared
// types, in which case only BasicKind/Share are meaningful; otherwise Share
// and the remaining fields describe a constructed type's body, with child
// references expressed as indices into Snapshot.Types.
type typeDesc struct {
	Basic     bool
	BasicKind uint8
	Share     uint8

	Kind          uint8
	Open          bool
	Supertype     int32 // -1 means no declared supertype
	RecGroupStart int32
	RecGroupEnd   int32

	Fields  []fieldDesc // struct fields, or a single array element
	Params  []typeRefDesc
	Results []typeRefDesc
}

type fieldDesc struct {
	Packed  uint8
	Mutable uint8
	Type    typeRefDesc
}

// typeRefDesc flattens a heaptype.Type: a numeric, a nested tuple, or a
// reference (to either a constructed type by index or a basic type inline).
type typeRefDesc struct {
	Kind    uint8
	Numeric uint8
	Tuple   []typeRefDesc

	RefConstructed bool
	RefIndex       int32
	RefBasicKind   uint8
	RefShare       uint8
	RefNull        uint8
}

// ToSnapshot flattens a generator result for a given configuration into a
// Snapshot suitable for disk storage.
func ToSnapshot(seed int64, fset features.Set, params generator.Params, result generator.Result) Snapshot {
	indexOf := make(map[heaptype.HeapType]int32, len(result.Types))
	for i, t := range result.Types {
		indexOf[t] = int32(i)
	}

	types := make([]typeDesc, len(result.Types))
	for i, t := range result.Types {
		types[i] = toTypeDesc(t, indexOf)
	}

	return Snapshot{
		Schema: schemaVersion,
		Seed:   seed,
		N:      len(result.Types),
		Features: featuresDesc{
			SharedEverything:  fset.SharedEverything,
			ExceptionHandling: fset.ExceptionHandling,
			Multivalue:        fset.Multivalue,
			SIMD:              fset.SIMD,
		},
		Sizes: sizesDesc{
			MaxTupleSize:  params.MaxTupleSize,
			MaxParams:     params.MaxParams,
			MaxStructSize: params.MaxStructSize,
		},
		Types:          types,
		SubtypeIndices: result.SubtypeIndices,
	}
}

func toTypeDesc(t heaptype.HeapType, indexOf map[heaptype.HeapType]int32) typeDesc {
	if t.IsBasic() {
		return typeDesc{Basic: true, BasicKind: uint8(t.Basic.Basic), Share: uint8(t.Basic.Share)}
	}

	d := typeDesc{
		Share:         uint8(t.Def.Share),
		Kind:          uint8(t.GetKind()),
		Open:          t.IsOpen(),
		Supertype:     -1,
		RecGroupStart: t.Def.RecGroupStart,
		RecGroupEnd:   t.Def.RecGroupEnd,
	}
	if super, ok := t.GetDeclaredSuperType(); ok {
		d.Supertype = indexOf[super]
	}
	switch t.GetKind() {
	case heaptype.StructKind:
		st := t.GetStruct()
		d.Fields = make([]fieldDesc, len(st.Fields))
		for i, f := range st.Fields {
			d.Fields[i] = toFieldDesc(f, indexOf)
		}
	case heaptype.ArrayKind:
		d.Fields = []fieldDesc{toFieldDesc(t.GetArray().Element, indexOf)}
	case heaptype.SignatureKind:
		sig := t.GetSignature()
		d.Params = toTypeRefList(sig.Params, indexOf)
		d.Results = toTypeRefList(sig.Results, indexOf)
	}
	return d
}

func toFieldDesc(f heaptype.Field, indexOf map[heaptype.HeapType]int32) fieldDesc {
	return fieldDesc{Packed: uint8(f.Packed), Mutable: uint8(f.Mutable), Type: toTypeRef(f.Type, indexOf)}
}

func toTypeRefList(list heaptype.Tuple, indexOf map[heaptype.HeapType]int32) []typeRefDesc {
	out := make([]typeRefDesc, len(list))
	for i, t := range list {
		out[i] = toTypeRef(t, indexOf)
	}
	return out
}

func toTypeRef(t heaptype.Type, indexOf map[heaptype.HeapType]int32) typeRefDesc {
	switch t.Kind {
	case heaptype.KindNumeric:
		return typeRefDesc{Kind: uint8(t.Kind), Numeric: uint8(t.Numeric)}
	case heaptype.KindTuple:
		return typeRefDesc{Kind: uint8(t.Kind), Tuple: toTypeRefList(t.Tuple, indexOf)}
	case heaptype.KindRef:
		r := typeRefDesc{Kind: uint8(t.Kind), RefNull: uint8(t.Ref.Null)}
		if t.Ref.Heap.IsBasic() {
			r.RefBasicKind = uint8(t.Ref.Heap.Basic.Basic)
			r.RefShare = uint8(t.Ref.Heap.Basic.Share)
		} else {
			r.RefConstructed = true
			r.RefIndex = indexOf[t.Ref.Heap]
		}
		return r
	default:
		return typeRefDesc{}
	}
}

// FromSnapshot rebuilds the HeapType graph described by s.
func FromSnapshot(s Snapshot) ([]heaptype.HeapType, error) {
	b := newDefBuilder(len(s.Types))
	for i, d := range s.Types {
		b.populate(i, d)
	}
	return b.finish()
}
