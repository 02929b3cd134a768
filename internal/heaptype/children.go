package heaptype

// GetKind returns the top-level kind of a constructed heap type.
func (h HeapType) GetKind() HeapTypeKind { return h.Def.Kind }

// GetSignature returns the Signature body of a constructed signature type.
func (h HeapType) GetSignature() Signature { return h.Def.Signature }

// GetStruct returns the Struct body of a constructed struct type.
func (h HeapType) GetStruct() StructType { return h.Def.Struct }

// GetArray returns the Array body of a constructed array type.
func (h HeapType) GetArray() ArrayType { return h.Def.Array }

// FieldCount returns the number of FieldPos-addressable positions in h, per
// spec.md §4.2: struct field count, 1 for an array, and params+results for a
// signature. Basic types have none.
func (h HeapType) FieldCount() int {
	if h.Kind != HeapConstructed {
		return 0
	}
	switch h.Def.Kind {
	case StructKind:
		return len(h.Def.Struct.Fields)
	case ArrayKind:
		return 1
	case SignatureKind:
		return len(h.Def.Signature.Params) + len(h.Def.Signature.Results)
	default:
		return 0
	}
}

// FieldAt returns the Field at position idx for a struct or array type. It
// is not meaningful for signatures, whose positions are plain Types (see
// TypeChildAt); callers should check GetKind first.
func (h HeapType) FieldAt(idx int) Field {
	switch h.Def.Kind {
	case StructKind:
		return h.Def.Struct.Fields[idx]
	case ArrayKind:
		return h.Def.Array.Element
	default:
		return Field{}
	}
}

// TypeChildren returns, in FieldPos order, the value Types referenced
// directly by h's body: struct/array field types (packed fields contribute
// their own zero Type, matching the C++ source's GCTypeUtils::getField
// returning a storage description rather than a full Type), followed for a
// signature by its params then its results.
func (h HeapType) TypeChildren() []Type {
	if h.Kind != HeapConstructed {
		return nil
	}
	switch h.Def.Kind {
	case StructKind:
		out := make([]Type, len(h.Def.Struct.Fields))
		for i, f := range h.Def.Struct.Fields {
			if !f.IsPacked() {
				out[i] = f.Type
			}
		}
		return out
	case ArrayKind:
		if h.Def.Array.Element.IsPacked() {
			return []Type{{}}
		}
		return []Type{h.Def.Array.Element.Type}
	case SignatureKind:
		out := make([]Type, 0, len(h.Def.Signature.Params)+len(h.Def.Signature.Results))
		out = append(out, h.Def.Signature.Params...)
		out = append(out, h.Def.Signature.Results...)
		return out
	default:
		return nil
	}
}
