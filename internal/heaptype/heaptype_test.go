package heaptype

import "testing"

func TestBasicBottom(t *testing.T) {
	cases := []struct {
		basic Basic
		want  Basic
	}{
		{Func, NoFunc},
		{NoFunc, NoFunc},
		{Ext, NoExt},
		{Exn, NoExn},
		{Any, None},
		{Eq, None},
		{Struct, None},
		{Array, None},
		{I31, None},
	}
	for _, c := range cases {
		if got := c.basic.Bottom(); got != c.want {
			t.Errorf("%s.Bottom() = %s, want %s", c.basic, got, c.want)
		}
	}
}

func TestBasicIsBottom(t *testing.T) {
	for _, b := range []Basic{None, NoFunc, NoExt, NoExn} {
		if !b.IsBottom() {
			t.Errorf("%s.IsBottom() = false, want true", b)
		}
	}
	for _, b := range []Basic{Any, Eq, Func, Ext, Exn, Struct, Array, I31, String} {
		if b.IsBottom() {
			t.Errorf("%s.IsBottom() = true, want false", b)
		}
	}
}

func TestHeapTypeIsBasicAndBottom(t *testing.T) {
	h := MakeBasic(None, Unshared)
	if !h.IsBasic() {
		t.Error("MakeBasic result is not IsBasic")
	}
	if !h.IsBottom() {
		t.Error("none is not IsBottom")
	}
	if h.IsExtern() || h.IsExn() {
		t.Error("none misclassified as extern/exn")
	}
}

func TestHeapTypeShareAndBottomPropagation(t *testing.T) {
	h := MakeBasic(Func, Shared)
	if h.Share() != Shared {
		t.Fatalf("Share() = %s, want shared", h.Share())
	}
	bot := h.Bottom()
	if bot.Basic.Basic != NoFunc || bot.Basic.Share != Shared {
		t.Fatalf("Bottom() = %v, want shared nofunc", bot)
	}
}

func TestStructTypeChildrenAndFieldCount(t *testing.T) {
	def := &Def{Index: 0, Kind: StructKind, Struct: StructType{Fields: []Field{
		{Type: MakeNumeric(I32), Mutable: Immutable},
		{Packed: I8, Mutable: Mutable},
	}}}
	h := MakeConstructed(def)

	if got := h.FieldCount(); got != 2 {
		t.Fatalf("FieldCount() = %d, want 2", got)
	}
	children := h.TypeChildren()
	if len(children) != 2 {
		t.Fatalf("TypeChildren() returned %d entries, want 2", len(children))
	}
	if !children[0].IsBasic() {
		t.Error("field 0 should report as a basic numeric type")
	}
	// A packed field contributes a zero Type, not the packed storage kind.
	if children[1].Kind != KindNumeric || children[1].Numeric != 0 {
		t.Error("packed field should contribute the zero Type value")
	}
}

func TestArrayTypeChildren(t *testing.T) {
	elemDef := &Def{Index: 0, Kind: StructKind}
	def := &Def{Index: 1, Kind: ArrayKind, Array: ArrayType{Element: Field{
		Type: MakeRef(MakeConstructed(elemDef), Nullable),
	}}}
	h := MakeConstructed(def)

	if h.FieldCount() != 1 {
		t.Fatalf("array FieldCount() = %d, want 1", h.FieldCount())
	}
	children := h.TypeChildren()
	if len(children) != 1 || !children[0].IsRef() {
		t.Fatalf("array TypeChildren() = %v, want one ref", children)
	}
}

func TestSignatureTypeChildrenOrder(t *testing.T) {
	def := &Def{Index: 0, Kind: SignatureKind, Signature: Signature{
		Params:  Tuple{MakeNumeric(I32), MakeNumeric(I64)},
		Results: Tuple{MakeNumeric(F32)},
	}}
	h := MakeConstructed(def)

	children := h.TypeChildren()
	if len(children) != 3 {
		t.Fatalf("signature TypeChildren() len = %d, want 3", len(children))
	}
	if children[0].Numeric != I32 || children[1].Numeric != I64 || children[2].Numeric != F32 {
		t.Fatalf("signature TypeChildren() out of order: %v", children)
	}
}

func TestGetFieldAndStructWidth(t *testing.T) {
	def := &Def{Index: 0, Kind: StructKind, Struct: StructType{Fields: []Field{
		{Type: MakeNumeric(I32)},
		{Type: MakeNumeric(I64)},
	}}}
	h := MakeConstructed(def)

	if StructWidth(h) != 2 {
		t.Fatalf("StructWidth() = %d, want 2", StructWidth(h))
	}
	f, ok := GetField(h, 1)
	if !ok || f.Type.Numeric != I64 {
		t.Fatalf("GetField(1) = %v, %v; want i64, true", f, ok)
	}
	if _, ok := GetField(h, 5); ok {
		t.Error("GetField out of range should report false")
	}

	sigDef := &Def{Index: 1, Kind: SignatureKind}
	if _, ok := GetField(MakeConstructed(sigDef), 0); ok {
		t.Error("signatures have no Field-addressable positions")
	}
}

func TestGetDeclaredSuperType(t *testing.T) {
	super := &Def{Index: 0, Kind: StructKind}
	sub := &Def{Index: 1, Kind: StructKind, Supertype: super}

	if _, ok := MakeConstructed(super).GetDeclaredSuperType(); ok {
		t.Error("root type should have no declared supertype")
	}
	got, ok := MakeConstructed(sub).GetDeclaredSuperType()
	if !ok || got.Def != super {
		t.Fatalf("GetDeclaredSuperType() = %v, %v; want super, true", got, ok)
	}
}
