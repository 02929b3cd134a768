package graphcache

import (
	"typegen/internal/heapbuilder"
	"typegen/internal/heaptype"
)

// defBuilder rebuilds a heapbuilder.Builder from flattened typeDescs. All
// slots exist before any body is populated, so forward references by index
// resolve immediately regardless of visit order.
type defBuilder struct {
	b *heapbuilder.Builder
}

func newDefBuilder(n int) *defBuilder {
	return &defBuilder{b: heapbuilder.New(n)}
}

func (db *defBuilder) heapAt(i int32) heaptype.HeapType { return db.b.At(int(i)) }

func (db *defBuilder) populate(i int, d typeDesc) {
	if d.Basic {
		// Basic slots never appear in a generator.Result (only as field/ref
		// targets); Snapshot.Types only ever holds constructed types, one per
		// generator slot. Nothing to populate.
		return
	}

	db.b.SetShared(i, heaptype.Shareability(d.Share))
	db.b.SetOpen(i, d.Open)
	db.b.CreateRecGroup(int(d.RecGroupStart), int(d.RecGroupEnd-d.RecGroupStart))
	if d.Supertype >= 0 {
		db.b.SubTypeOf(i, int(d.Supertype))
	}

	switch heaptype.HeapTypeKind(d.Kind) {
	case heaptype.StructKind:
		fields := make([]heaptype.Field, len(d.Fields))
		for j, fd := range d.Fields {
			fields[j] = db.fromFieldDesc(fd)
		}
		db.b.SetStruct(i, heaptype.StructType{Fields: fields})
	case heaptype.ArrayKind:
		db.b.SetArray(i, heaptype.ArrayType{Element: db.fromFieldDesc(d.Fields[0])})
	case heaptype.SignatureKind:
		db.b.SetSignature(i, heaptype.Signature{
			Params:  db.fromTypeRefList(d.Params),
			Results: db.fromTypeRefList(d.Results),
		})
	}
}

func (db *defBuilder) fromFieldDesc(fd fieldDesc) heaptype.Field {
	f := heaptype.Field{Packed: heaptype.PackedStorage(fd.Packed), Mutable: heaptype.Mutability(fd.Mutable)}
	if !f.IsPacked() {
		f.Type = db.fromTypeRef(fd.Type)
	}
	return f
}

func (db *defBuilder) fromTypeRefList(list []typeRefDesc) heaptype.Tuple {
	out := make(heaptype.Tuple, len(list))
	for i, r := range list {
		out[i] = db.fromTypeRef(r)
	}
	return out
}

func (db *defBuilder) fromTypeRef(r typeRefDesc) heaptype.Type {
	switch heaptype.TypeKind(r.Kind) {
	case heaptype.KindNumeric:
		return heaptype.MakeNumeric(heaptype.Numeric(r.Numeric))
	case heaptype.KindTuple:
		return heaptype.MakeTuple(db.fromTypeRefList(r.Tuple))
	case heaptype.KindRef:
		var heap heaptype.HeapType
		if r.RefConstructed {
			heap = db.heapAt(r.RefIndex)
		} else {
			heap = heaptype.MakeBasic(heaptype.Basic(r.RefBasicKind), heaptype.Shareability(r.RefShare))
		}
		return db.b.TempRefType(heap, heaptype.Nullability(r.RefNull))
	default:
		return heaptype.Type{}
	}
}

func (db *defBuilder) finish() ([]heaptype.HeapType, error) {
	return db.b.Build()
}
