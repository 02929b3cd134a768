// Package generator implements the constrained random heap-type graph
// generator: a planning pass that commits to each type's top-level kind,
// shareability, and nominal position before any body exists, followed by a
// population pass that fills in signatures, structs, and arrays consistent
// with the plan.
package generator

import (
	"typegen/internal/features"
	"typegen/internal/heapbuilder"
	"typegen/internal/heaptype"
	"typegen/internal/xrand"
)

// Params bounds the shapes the generator may produce.
type Params struct {
	// MaxTupleSize bounds a standalone Tuple's arity; must be >= 2.
	MaxTupleSize uint32
	// MaxParams bounds a signature's parameter count; must be >= 0.
	MaxParams uint32
	// MaxStructSize bounds a struct's field count; must be >= 0.
	MaxStructSize uint32
}

// DefaultParams mirrors the reference implementation's FuzzParams defaults.
func DefaultParams() Params {
	return Params{MaxTupleSize: 6, MaxParams: 6, MaxStructSize: 6}
}

// Result is the generator's output: the built heap types in slot order, and
// for each type the indices of its (possibly transitive-through-self)
// subtypes, index 0 of which is always the type itself.
type Result struct {
	Types          []heaptype.HeapType
	SubtypeIndices [][]int32
}

type kind uint8

const (
	sigKind kind = iota
	structKind
	arrayKind
)

// impl carries the planning state threaded through every phase, mirroring
// HeapTypeGeneratorImpl's fields in the reference implementation.
type impl struct {
	b        *heapbuilder.Builder
	rand     *xrand.Source
	features features.Set
	params   Params

	subtypeIndices [][]int32
	supertypeIndex []int32 // -1 means no supertype
	typeKinds      []kind
	recGroupEnds   []int32
	typeIndexOf    map[heaptype.HeapType]int32

	index int32
}

// Generate builds n heap types with the given random source, feature set,
// and size parameters, planning their kinds and nominal structure first and
// then populating their bodies.
func Generate(rand *xrand.Source, fset features.Set, params Params, n int) (Result, error) {
	g := &impl{
		b:              heapbuilder.New(n),
		rand:           rand,
		features:       fset,
		params:         params,
		subtypeIndices: make([][]int32, n),
		supertypeIndex: make([]int32, n),
		typeKinds:      make([]kind, 0, n),
		recGroupEnds:   make([]int32, 0, n),
		typeIndexOf:    make(map[heaptype.HeapType]int32, n),
	}
	for i := range g.supertypeIndex {
		g.supertypeIndex[i] = -1
	}

	g.plan()
	g.populate()

	types, err := g.b.Build()
	if err != nil {
		return Result{}, err
	}
	return Result{Types: types, SubtypeIndices: g.subtypeIndices}, nil
}
