package graph

import "slices"

// EdgeKind classifies an edge reported by [DependencyGraph.TraverseEdgesFrom].
type EdgeKind string

const (
	// EdgeNormal is an edge whose target is not on the active DFS stack.
	// The target may have been visited already.
	EdgeNormal EdgeKind = "edge"
	// EdgeCycle is a back edge into a node on the active DFS stack.
	EdgeCycle EdgeKind = "cycle"
)

// EdgeEvent describes one edge seen during traversal. For cycle events Path
// is the DFS stack from the start node followed by the repeated target.
type EdgeEvent struct {
	Kind EdgeKind
	From PackageID
	To   PackageID
	Path []PackageID
}

// TraverseEdgesFrom walks the graph depth-first from start and calls visit
// for every edge reachable from it. Each node is expanded at most once, so the
// walk is linear in the number of reachable edges.
func (g *DependencyGraph) TraverseEdgesFrom(start PackageID, visit func(EdgeEvent)) error {
	if _, err := g.Node(start); err != nil {
		return err
	}
	t := traversal{
		g:       g,
		visit:   visit,
		visited: make(map[PackageID]bool),
		onStack: make(map[PackageID]bool),
	}
	t.dfs(start)
	return nil
}

// HasCycle reports whether any cycle is reachable from the root.
func (g *DependencyGraph) HasCycle() bool {
	found := false
	_ = g.TraverseEdgesFrom(g.root, func(e EdgeEvent) {
		if e.Kind == EdgeCycle {
			found = true
		}
	})
	return found
}

// Cycles returns the path of every back edge reachable from the root.
func (g *DependencyGraph) Cycles() [][]PackageID {
	var out [][]PackageID
	_ = g.TraverseEdgesFrom(g.root, func(e EdgeEvent) {
		if e.Kind == EdgeCycle {
			out = append(out, e.Path)
		}
	})
	return out
}

type traversal struct {
	g       *DependencyGraph
	visit   func(EdgeEvent)
	visited map[PackageID]bool
	onStack map[PackageID]bool
	stack   []PackageID
}

func (t *traversal) dfs(id PackageID) {
	t.visited[id] = true
	t.onStack[id] = true
	t.stack = append(t.stack, id)

	for _, to := range t.g.edges[id] {
		if t.onStack[to] {
			path := append(slices.Clone(t.stack), to)
			t.visit(EdgeEvent{Kind: EdgeCycle, From: id, To: to, Path: path})
			continue
		}
		t.visit(EdgeEvent{Kind: EdgeNormal, From: id, To: to})
		if !t.visited[to] {
			t.dfs(to)
		}
	}

	t.stack = t.stack[:len(t.stack)-1]
	t.onStack[id] = false
}
