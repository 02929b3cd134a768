package generator

import "typegen/internal/heaptype"

// plan chooses the subtype relationships and top-level kinds/shareability of
// every slot before any body is constructed, mirroring
// HeapTypeGeneratorImpl's constructor in the reference implementation: start
// with some number of root types, then make the rest subtypes of types
// already planned, grouping contiguous runs into recursion groups.
func (g *impl) plan() {
	n := g.b.Size()

	// The number of root types to generate before adding subtypes.
	numRoots := 1 + int(g.rand.UpTo(uint32(n)))

	// The mean expected size of a recursion group.
	expectedGroupSize := 1 + int(g.rand.UpTo(uint32(n)))

	for i := 0; i < n; {
		i += g.planGroup(i, numRoots, expectedGroupSize)
	}
}

func (g *impl) planGroup(start, numRoots, expectedGroupSize int) int {
	n := g.b.Size()
	maxSize := n - start
	size := 1
	for size < maxSize {
		if g.rand.OneIn(uint32(expectedGroupSize)) {
			break
		}
		size++
	}
	g.b.CreateRecGroup(start, size)

	end := start + size
	for i := start; i < end; i++ {
		g.recGroupEnds = append(g.recGroupEnds, int32(end))
		g.planType(i, numRoots)
	}
	return size
}

func (g *impl) planType(i, numRoots int) {
	g.typeIndexOf[g.b.At(i)] = int32(i)
	// Everything is a subtype of itself.
	g.subtypeIndices[i] = append(g.subtypeIndices[i], int32(i))

	if i < numRoots || g.rand.OneIn(2) {
		// A root type with no supertype: choose a kind and shareability.
		g.typeKinds = append(g.typeKinds, g.generateHeapTypeKind())
		share := heaptype.Unshared
		if g.features.SharedEverything && !g.rand.OneIn(2) {
			share = heaptype.Shared
		}
		g.b.SetShared(i, share)
		return
	}

	// A subtype: pick a previously planned type as the direct supertype.
	super := int(g.rand.UpTo(uint32(i)))
	g.b.SubTypeOf(i, super)
	g.b.SetShared(i, g.b.At(super).Share())
	g.supertypeIndex[i] = int32(super)
	g.subtypeIndices[super] = append(g.subtypeIndices[super], int32(i))
	g.typeKinds = append(g.typeKinds, g.typeKinds[super])
}

func (g *impl) generateHeapTypeKind() kind {
	switch g.rand.UpTo(3) {
	case 0:
		return sigKind
	case 1:
		return structKind
	default:
		return arrayKind
	}
}
