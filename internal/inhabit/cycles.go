package inhabit

import "typegen/internal/heaptype"

// frame is one level of the explicit DFS stack used by breakNonNullableCycles:
// the type being visited, its children in FieldPos order, and how far
// through them the search has progressed.
type frame struct {
	heap     heaptype.HeapType
	children []heaptype.Type
	idx      int
}

// breakNonNullableCycles finds cycles formed entirely of non-nullable,
// non-function references and breaks each one by marking its closing edge
// nullable. It uses an explicit, insertion-ordered stack rather than
// recursion so the "is this type on the current path" check is a plain map
// lookup instead of a linear scan.
func (in *inhabitator) breakNonNullableCycles() {
	visited := make(map[heaptype.HeapType]bool)
	onPath := make(map[heaptype.HeapType]bool)
	var stack []frame

	for _, root := range in.types {
		if visited[root] {
			continue
		}
		stack = append(stack, frame{heap: root, children: root.TypeChildren()})
		onPath[root] = true

		for len(stack) > 0 {
			top := &stack[len(stack)-1]

			for top.idx < len(top.children) {
				child := top.children[top.idx]
				if !child.IsRef() || child.Ref.IsNullable() {
					top.idx++
					continue
				}
				if in.nullables[FieldPos{Type: top.heap, Idx: top.idx}] {
					top.idx++
					continue
				}
				childHeap := child.Ref.Heap
				if visited[childHeap] || childHeap.IsSignature() {
					top.idx++
					continue
				}
				if onPath[childHeap] {
					in.markNullable(FieldPos{Type: top.heap, Idx: top.idx})
					top.idx++
					continue
				}
				break
			}

			if top.idx == len(top.children) {
				visited[top.heap] = true
				delete(onPath, top.heap)
				stack = stack[:len(stack)-1]
				continue
			}

			next := top.children[top.idx].Ref.Heap
			top.idx++
			stack = append(stack, frame{heap: next, children: next.TypeChildren()})
			onPath[next] = true
		}
	}
}
