// Package heaptype defines the structural and nominal type model shared by
// the generator and the inhabitator: basic abstract types, struct/array/
// signature bodies, fields, and the reference types that point at them.
package heaptype

import "fmt"

// Shareability marks whether a heap type may be shared across agents.
type Shareability uint8

const (
	Unshared Shareability = iota
	Shared
)

func (s Shareability) String() string {
	if s == Shared {
		return "shared"
	}
	return "unshared"
}

// Basic enumerates the predeclared abstract heap types forming the lattice
// described in spec.md §3. Continuation kinds (cont/nocont) are absent.
// String is a member of the lattice, but the generator never picks it.
type Basic uint8

const (
	BasicInvalid Basic = iota
	Any
	Eq
	Func
	Ext
	Exn
	Struct
	Array
	I31
	String
	None
	NoFunc
	NoExt
	NoExn
)

func (b Basic) String() string {
	switch b {
	case Any:
		return "any"
	case Eq:
		return "eq"
	case Func:
		return "func"
	case Ext:
		return "ext"
	case Exn:
		return "exn"
	case Struct:
		return "struct"
	case Array:
		return "array"
	case I31:
		return "i31"
	case String:
		return "string"
	case None:
		return "none"
	case NoFunc:
		return "nofunc"
	case NoExt:
		return "noext"
	case NoExn:
		return "noexn"
	default:
		return fmt.Sprintf("Basic(%d)", uint8(b))
	}
}

// IsBottom reports whether b is one of the bottom abstract types.
func (b Basic) IsBottom() bool {
	switch b {
	case None, NoFunc, NoExt, NoExn:
		return true
	default:
		return false
	}
}

// Bottom returns the bottom type of the top type that b belongs to. It is
// only meaningful for Func, Struct, Array, Any, Ext, and Exn (and is the
// identity for bottoms themselves).
func (b Basic) Bottom() Basic {
	switch b {
	case Func, NoFunc:
		return NoFunc
	case Ext, NoExt:
		return NoExt
	case Exn, NoExn:
		return NoExn
	case None, Any, Eq, Struct, Array, I31:
		return None
	default:
		return None
	}
}

// BasicHeapType pairs a basic abstract type with its shareability.
type BasicHeapType struct {
	Basic Basic
	Share Shareability
}

func (b BasicHeapType) String() string {
	if b.Share == Shared {
		return "shared " + b.Basic.String()
	}
	return b.Basic.String()
}

// Bottom returns the bottom basic heap type sharing b's shareability.
func (b BasicHeapType) Bottom() BasicHeapType {
	return BasicHeapType{Basic: b.Basic.Bottom(), Share: b.Share}
}
