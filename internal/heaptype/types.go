package heaptype

// HeapKind tags whether a HeapType is one of the predeclared basics or a
// user-defined constructed type living at some index in the owning
// collection (the Generator's plan arrays, or a Builder's slots).
type HeapKind uint8

const (
	HeapBasic HeapKind = iota
	HeapConstructed
)

// Def is the immutable definition backing a constructed (non-basic) heap
// type once a Builder finalizes it. Builders allocate Defs up front so that
// a HeapType pointing at Def can be handed out as a provisional child
// reference before the body fields below are populated (spec.md's
// "temporary-reference factory"); by the time callers observe a finalized
// collection, every reachable Def is fully populated.
type Def struct {
	// Index is this type's position in the collection it was built in.
	Index int32

	Kind  HeapTypeKind
	Share Shareability
	Open  bool

	// Supertype is the declared supertype, or nil for a root type.
	Supertype *Def

	// RecGroupStart/RecGroupEnd bound the contiguous recursion group this
	// type belongs to within its collection.
	RecGroupStart int32
	RecGroupEnd   int32

	Signature Signature
	Struct    StructType
	Array     ArrayType
}

// HeapType is either a BasicHeapType or a pointer to a constructed type's
// Def. It is intentionally a flat, comparable struct (usable as a map key)
// rather than an interface, matching the "small enum, not a class
// hierarchy" guidance for sum-typed kinds; pointer identity gives
// constructed HeapTypes the same equality semantics as an interned handle.
type HeapType struct {
	Kind  HeapKind
	Basic BasicHeapType
	Def   *Def
}

// MakeBasic constructs a HeapType from a predeclared abstract type.
func MakeBasic(b Basic, share Shareability) HeapType {
	return HeapType{Kind: HeapBasic, Basic: BasicHeapType{Basic: b, Share: share}}
}

// MakeConstructed constructs a HeapType pointing at def.
func MakeConstructed(def *Def) HeapType {
	return HeapType{Kind: HeapConstructed, Def: def}
}

// IsBasic reports whether h denotes a predeclared abstract type.
func (h HeapType) IsBasic() bool { return h.Kind == HeapBasic }

// IsBottom reports whether h is one of the predeclared bottom types.
func (h HeapType) IsBottom() bool { return h.Kind == HeapBasic && h.Basic.Basic.IsBottom() }

// IsExtern reports whether h denotes (possibly shared) ext.
func (h HeapType) IsExtern() bool { return h.Kind == HeapBasic && h.Basic.Basic == Ext }

// IsExn reports whether h denotes (possibly shared) exn.
func (h HeapType) IsExn() bool { return h.Kind == HeapBasic && h.Basic.Basic == Exn }

// IsSignature reports whether h is a constructed signature type.
func (h HeapType) IsSignature() bool { return h.Kind == HeapConstructed && h.Def.Kind == SignatureKind }

// Share returns the shareability of h, basic or constructed.
func (h HeapType) Share() Shareability {
	if h.Kind == HeapBasic {
		return h.Basic.Share
	}
	return h.Def.Share
}

// Bottom returns the bottom HeapType of h's top type, preserving h's
// shareability. For a constructed type this dispatches on its kind.
func (h HeapType) Bottom() HeapType {
	if h.Kind == HeapBasic {
		return MakeBasic(h.Basic.Basic.Bottom(), h.Basic.Share)
	}
	switch h.Def.Kind {
	case SignatureKind:
		return MakeBasic(NoFunc, h.Def.Share)
	default:
		return MakeBasic(None, h.Def.Share)
	}
}

// GetDeclaredSuperType returns h's declared supertype and whether it has
// one. Basic types and roots have none.
func (h HeapType) GetDeclaredSuperType() (HeapType, bool) {
	if h.Kind != HeapConstructed || h.Def.Supertype == nil {
		return HeapType{}, false
	}
	return MakeConstructed(h.Def.Supertype), true
}

// IsOpen reports whether h (a constructed type) permits further subtypes.
func (h HeapType) IsOpen() bool { return h.Kind == HeapConstructed && h.Def.Open }

// RecGroupSize returns the number of members in h's recursion group.
func (h HeapType) RecGroupSize() int {
	if h.Kind != HeapConstructed {
		return 0
	}
	return int(h.Def.RecGroupEnd - h.Def.RecGroupStart)
}

// HeapTypeKind is the top-level kind of a constructed (non-basic) heap type,
// chosen during planning before the body exists (spec.md §4.1.1). It is a
// tagged variant used for both planning and dispatch.
type HeapTypeKind uint8

const (
	SignatureKind HeapTypeKind = iota
	StructKind
	ArrayKind
)

func (k HeapTypeKind) String() string {
	switch k {
	case SignatureKind:
		return "signature"
	case StructKind:
		return "struct"
	case ArrayKind:
		return "array"
	default:
		return "invalid"
	}
}

// Mutability of a struct/array field.
type Mutability uint8

const (
	Immutable Mutability = iota
	Mutable
)

// PackedStorage distinguishes packed integer field storage (valid only as
// field storage, never as a standalone Type) from ordinary typed storage.
type PackedStorage uint8

const (
	NotPacked PackedStorage = iota
	I8
	I16
)

// Field is a struct/array element: either packed integer storage or a full
// Type, plus mutability.
type Field struct {
	Packed  PackedStorage
	Type    Type
	Mutable Mutability
}

// IsPacked reports whether the field uses packed storage.
func (f Field) IsPacked() bool { return f.Packed != NotPacked }

// StructType is an ordered list of fields.
type StructType struct {
	Fields []Field
}

// ArrayType holds exactly one field, the element.
type ArrayType struct {
	Element Field
}

// Signature is a function type: a tuple of parameter types and zero, one, or
// many result types.
type Signature struct {
	Params  Tuple
	Results Tuple
}

// Numeric enumerates the basic numeric value types.
type Numeric uint8

const (
	I32 Numeric = iota
	I64
	F32
	F64
	V128
)

func (n Numeric) String() string {
	switch n {
	case I32:
		return "i32"
	case I64:
		return "i64"
	case F32:
		return "f32"
	case F64:
		return "f64"
	case V128:
		return "v128"
	default:
		return "invalid"
	}
}

// Nullability of a Ref.
type Nullability uint8

const (
	NonNullable Nullability = iota
	Nullable
)

// Ref is a reference to a heap type, nullable or not.
type Ref struct {
	Heap HeapType
	Null Nullability
}

// IsNullable reports whether r admits the null value.
func (r Ref) IsNullable() bool { return r.Null == Nullable }

// TypeKind tags the three concrete forms a value Type can take.
type TypeKind uint8

const (
	KindNumeric TypeKind = iota
	KindTuple
	KindRef
)

// Tuple is an ordered list of value Types. Per spec.md §3 a standalone Tuple
// Type carries at least two elements; Signature results reuse this same
// slice type for the 0/1/many case instead, since the signature's result
// list is not itself subject to the "Tuple" ADT's arity constraint.
type Tuple []Type

// Type is a basic numeric, a Tuple, or a Ref, mirroring spec.md §3's sum
// type. An optional exactness tag would ride alongside a Ref unchanged; this
// core does not interpret it and so does not model it explicitly.
type Type struct {
	Kind    TypeKind
	Numeric Numeric
	Tuple   Tuple
	Ref     Ref
}

// MakeNumeric builds a basic numeric Type.
func MakeNumeric(n Numeric) Type { return Type{Kind: KindNumeric, Numeric: n} }

// MakeTuple builds a Tuple Type.
func MakeTuple(elems Tuple) Type { return Type{Kind: KindTuple, Tuple: elems} }

// MakeRef builds a Ref Type.
func MakeRef(heap HeapType, null Nullability) Type {
	return Type{Kind: KindRef, Ref: Ref{Heap: heap, Null: null}}
}

// IsRef reports whether t is a reference type.
func (t Type) IsRef() bool { return t.Kind == KindRef }

// IsTuple reports whether t is a tuple type.
func (t Type) IsTuple() bool { return t.Kind == KindTuple }

// IsBasic reports whether t is a basic numeric type.
func (t Type) IsBasic() bool { return t.Kind == KindNumeric }
