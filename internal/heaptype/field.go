package heaptype

// GetField returns the Field at FieldPos (heap, idx) for a struct or array
// type, mirroring GCTypeUtils::getField in the reference implementation.
// Signatures have no Field-addressable positions; ok is false for them.
func GetField(heap HeapType, idx int) (Field, bool) {
	if heap.Kind != HeapConstructed {
		return Field{}, false
	}
	switch heap.Def.Kind {
	case StructKind:
		if idx < 0 || idx >= len(heap.Def.Struct.Fields) {
			return Field{}, false
		}
		return heap.Def.Struct.Fields[idx], true
	case ArrayKind:
		if idx != 0 {
			return Field{}, false
		}
		return heap.Def.Array.Element, true
	default:
		return Field{}, false
	}
}

// StructWidth reports the number of fields in heap if it is a struct, else 0.
func StructWidth(heap HeapType) int {
	if heap.Kind != HeapConstructed || heap.Def.Kind != StructKind {
		return 0
	}
	return len(heap.Def.Struct.Fields)
}
