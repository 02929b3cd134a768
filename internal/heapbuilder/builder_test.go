package heapbuilder

import (
	"testing"

	"typegen/internal/heaptype"
)

func TestBuildSimpleStruct(t *testing.T) {
	b := New(1)
	b.SetStruct(0, heaptype.StructType{Fields: []heaptype.Field{
		{Type: heaptype.MakeNumeric(heaptype.I32)},
	}})
	b.SetOpen(0, true)

	types, err := b.Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if len(types) != 1 {
		t.Fatalf("Build() returned %d types, want 1", len(types))
	}
	if types[0].GetKind() != heaptype.StructKind {
		t.Fatalf("built type kind = %s, want struct", types[0].GetKind())
	}
}

func TestForwardReferenceWithinRecGroup(t *testing.T) {
	b := New(2)
	b.CreateRecGroup(0, 2)
	// Slot 0 references slot 1, which is defined later but in the same
	// recursion group, so it is visible.
	b.SetStruct(0, heaptype.StructType{Fields: []heaptype.Field{
		{Type: b.TempRefType(b.At(1), heaptype.Nullable)},
	}})
	b.SetStruct(1, heaptype.StructType{})

	if _, err := b.Build(); err != nil {
		t.Fatalf("Build() error = %v, want forward ref within rec group to succeed", err)
	}
}

func TestReferenceOutsideRecGroupRejected(t *testing.T) {
	b := New(2)
	// Each slot its own one-member group (the default), so slot 0
	// referencing slot 1 is not yet visible.
	b.SetStruct(0, heaptype.StructType{Fields: []heaptype.Field{
		{Type: b.TempRefType(b.At(1), heaptype.Nullable)},
	}})
	b.SetStruct(1, heaptype.StructType{})

	if _, err := b.Build(); err == nil {
		t.Fatal("Build() should reject a reference to a not-yet-visible slot")
	}
}

func TestSubtypeMustPrecedeAndMatchKind(t *testing.T) {
	b := New(2)
	b.SetStruct(0, heaptype.StructType{})
	b.SetArray(1, heaptype.ArrayType{Element: heaptype.Field{Type: heaptype.MakeNumeric(heaptype.I32)}})
	b.SubTypeOf(1, 0)
	b.SetOpen(0, true)

	if _, err := b.Build(); err == nil {
		t.Fatal("Build() should reject a supertype of a different kind")
	}

	later := New(2)
	later.SetStruct(0, heaptype.StructType{})
	later.SetStruct(1, heaptype.StructType{})
	later.SubTypeOf(0, 1)
	if _, err := later.Build(); err == nil {
		t.Fatal("Build() should reject a supertype that does not precede its subtype")
	}
}

func TestSubtypeOfClosedSupertypeRejected(t *testing.T) {
	b := New(2)
	b.SetStruct(0, heaptype.StructType{})
	b.SetOpen(0, false)
	b.SetStruct(1, heaptype.StructType{})
	b.SubTypeOf(1, 0)

	if _, err := b.Build(); err == nil {
		t.Fatal("Build() should reject a subtype of a non-open supertype")
	}
}

func TestMalformedRecGroupRejected(t *testing.T) {
	b := New(2)
	b.SetStruct(0, heaptype.StructType{})
	b.SetStruct(1, heaptype.StructType{})
	// Manually break the invariant CreateRecGroup would otherwise maintain.
	b.defs[0].RecGroupEnd = 5

	if _, err := b.Build(); err == nil {
		t.Fatal("Build() should reject an out-of-bounds recursion group")
	}
}

func TestTempRefTypeForcesNullableForExn(t *testing.T) {
	b := New(0)
	exn := heaptype.MakeBasic(heaptype.Exn, heaptype.Unshared)
	ref := b.TempRefType(exn, heaptype.NonNullable)
	if !ref.Ref.IsNullable() {
		t.Fatal("TempRefType should force exnref to nullable")
	}
}
