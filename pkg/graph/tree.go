package graph

import "slices"

// WalkContext is the position of one node occurrence in a [TreeView] walk.
type WalkContext struct {
	Depth int
	// Parent is nil for the root.
	Parent *PackageNode
	// Path is the ancestor chain from the root, excluding the node itself.
	Path []PackageNode
	// IsCycle is set when the node already appears in Path. Such an
	// occurrence is not expanded.
	IsCycle      bool
	Index        int
	SiblingCount int
}

// IsLast reports whether the node is the last of its siblings.
func (c WalkContext) IsLast() bool { return c.Index == c.SiblingCount-1 }

// Ancestors returns the ids in Path.
func (c WalkContext) Ancestors() []PackageID {
	ids := make([]PackageID, len(c.Path))
	for i, n := range c.Path {
		ids[i] = n.ID
	}
	return ids
}

// TreeView presents a graph as the tree a human reads: shared dependencies
// appear under every parent that depends on them.
type TreeView struct {
	g *DependencyGraph
}

// NewTreeView returns a tree view over g.
func NewTreeView(g *DependencyGraph) *TreeView {
	return &TreeView{g: g}
}

// Walk visits every node occurrence in pre-order, starting at the root.
// The walk is path-scoped: there is no global visited set, and expansion
// stops only at a node that repeats within its own ancestor chain.
func (v *TreeView) Walk(visit func(PackageNode, WalkContext)) {
	root := v.g.Root()
	v.walk(root, nil, nil, 0, 1, visit)
}

func (v *TreeView) walk(n PackageNode, parent *PackageNode, path []PackageNode, index, siblings int, visit func(PackageNode, WalkContext)) {
	cycle := slices.ContainsFunc(path, func(a PackageNode) bool { return a.ID == n.ID })
	visit(n, WalkContext{
		Depth:        len(path),
		Parent:       parent,
		Path:         path,
		IsCycle:      cycle,
		Index:        index,
		SiblingCount: siblings,
	})
	if cycle {
		return
	}

	children := v.g.edges[n.ID]
	childPath := append(slices.Clip(path), n)
	for i, id := range children {
		v.walk(v.g.nodes[id], &childPath[len(childPath)-1], childPath, i, len(children), visit)
	}
}
