package inhabit

import (
	"testing"

	"typegen/internal/heaptype"
)

func TestMakeInhabitableFixesNonNullableBottomRef(t *testing.T) {
	def := &heaptype.Def{Index: 0, Kind: heaptype.StructKind, Open: true}
	def.Struct = heaptype.StructType{Fields: []heaptype.Field{
		{Type: heaptype.MakeRef(heaptype.MakeBasic(heaptype.None, heaptype.Unshared), heaptype.NonNullable)},
	}}
	h := heaptype.MakeConstructed(def)

	repaired, err := MakeInhabitable([]heaptype.HeapType{h})
	if err != nil {
		t.Fatalf("MakeInhabitable() error = %v", err)
	}
	fields := repaired[0].GetStruct().Fields
	if !fields[0].Type.Ref.IsNullable() {
		t.Fatal("non-nullable ref to bottom type should have been made nullable")
	}
}

func TestMakeInhabitableFixesNonNullableExternRef(t *testing.T) {
	def := &heaptype.Def{Index: 0, Kind: heaptype.StructKind, Open: true}
	def.Struct = heaptype.StructType{Fields: []heaptype.Field{
		{Type: heaptype.MakeRef(heaptype.MakeBasic(heaptype.Ext, heaptype.Unshared), heaptype.NonNullable)},
	}}
	h := heaptype.MakeConstructed(def)

	repaired, err := MakeInhabitable([]heaptype.HeapType{h})
	if err != nil {
		t.Fatalf("MakeInhabitable() error = %v", err)
	}
	if !repaired[0].GetStruct().Fields[0].Type.Ref.IsNullable() {
		t.Fatal("non-nullable externref should have been made nullable")
	}
}

func TestMakeInhabitableBreaksSelfCycle(t *testing.T) {
	def := &heaptype.Def{Index: 0, Kind: heaptype.StructKind, Open: true}
	self := heaptype.MakeConstructed(def)
	def.Struct = heaptype.StructType{Fields: []heaptype.Field{
		{Type: heaptype.MakeRef(self, heaptype.NonNullable)},
	}}

	repaired, err := MakeInhabitable([]heaptype.HeapType{self})
	if err != nil {
		t.Fatalf("MakeInhabitable() error = %v", err)
	}
	if !repaired[0].GetStruct().Fields[0].Type.Ref.IsNullable() {
		t.Fatal("self-referential non-nullable field should have been broken by nullability")
	}
}

func TestMakeInhabitableBreaksTwoCycle(t *testing.T) {
	defA := &heaptype.Def{Index: 0, Kind: heaptype.StructKind, Open: true, RecGroupStart: 0, RecGroupEnd: 2}
	defB := &heaptype.Def{Index: 1, Kind: heaptype.StructKind, Open: true, RecGroupStart: 0, RecGroupEnd: 2}
	a := heaptype.MakeConstructed(defA)
	b := heaptype.MakeConstructed(defB)
	defA.Struct = heaptype.StructType{Fields: []heaptype.Field{
		{Type: heaptype.MakeRef(b, heaptype.NonNullable)},
	}}
	defB.Struct = heaptype.StructType{Fields: []heaptype.Field{
		{Type: heaptype.MakeRef(a, heaptype.NonNullable)},
	}}

	repaired, err := MakeInhabitable([]heaptype.HeapType{a, b})
	if err != nil {
		t.Fatalf("MakeInhabitable() error = %v", err)
	}
	nullableCount := 0
	for _, t := range repaired {
		if t.GetStruct().Fields[0].Type.Ref.IsNullable() {
			nullableCount++
		}
	}
	if nullableCount == 0 {
		t.Fatal("two-cycle should have had at least one edge broken by nullability")
	}
}

func TestGetInhabitablePreservesOrderAndExcludesBad(t *testing.T) {
	good := &heaptype.Def{Index: 0, Kind: heaptype.StructKind, Open: true}
	good.Struct = heaptype.StructType{Fields: []heaptype.Field{
		{Type: heaptype.MakeNumeric(heaptype.I32)},
	}}

	bad := &heaptype.Def{Index: 1, Kind: heaptype.StructKind, Open: true}
	bad.Struct = heaptype.StructType{Fields: []heaptype.Field{
		{Type: heaptype.MakeRef(heaptype.MakeBasic(heaptype.None, heaptype.Unshared), heaptype.NonNullable)},
	}}

	types := []heaptype.HeapType{heaptype.MakeConstructed(good), heaptype.MakeConstructed(bad)}
	inhabitable := GetInhabitable(types)
	if len(inhabitable) != 1 || inhabitable[0].Def != good {
		t.Fatalf("GetInhabitable() = %v, want only the good type", inhabitable)
	}
}

func TestMakeInhabitableOnEmptyInput(t *testing.T) {
	repaired, err := MakeInhabitable(nil)
	if err != nil || repaired != nil {
		t.Fatalf("MakeInhabitable(nil) = %v, %v; want nil, nil", repaired, err)
	}
}

func TestMakeInhabitablePreservesBasicTypesUnchanged(t *testing.T) {
	basic := heaptype.MakeBasic(heaptype.I31, heaptype.Unshared)
	repaired, err := MakeInhabitable([]heaptype.HeapType{basic})
	if err != nil {
		t.Fatalf("MakeInhabitable() error = %v", err)
	}
	if repaired[0] != basic {
		t.Fatalf("basic type should pass through unchanged, got %v", repaired[0])
	}
}
