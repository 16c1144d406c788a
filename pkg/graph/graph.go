package graph

import (
	"slices"

	apperrors "github.com/matzehuels/deplint/pkg/errors"
)

// DependencyGraph is an append-only directed graph of packages.
// It is not safe for concurrent mutation; once construction finishes it may
// be read from any number of goroutines.
type DependencyGraph struct {
	root  PackageID
	nodes map[PackageID]PackageNode
	order []PackageID
	edges map[PackageID][]PackageID
	// edgeSet dedups edges without scanning adjacency lists.
	edgeSet   map[[2]PackageID]struct{}
	edgeCount int
}

// New creates a graph containing only root.
func New(root PackageNode) *DependencyGraph {
	g := &DependencyGraph{
		root:    root.ID,
		nodes:   make(map[PackageID]PackageNode),
		edges:   make(map[PackageID][]PackageID),
		edgeSet: make(map[[2]PackageID]struct{}),
	}
	g.AddNode(root)
	return g
}

// RootID returns the id of the root node.
func (g *DependencyGraph) RootID() PackageID { return g.root }

// Root returns the root node.
func (g *DependencyGraph) Root() PackageNode { return g.nodes[g.root] }

// AddNode inserts n unless a node with the same id is already present.
// It reports whether n was inserted. Existing nodes are never replaced.
func (g *DependencyGraph) AddNode(n PackageNode) bool {
	if _, ok := g.nodes[n.ID]; ok {
		return false
	}
	g.nodes[n.ID] = n
	g.order = append(g.order, n.ID)
	return true
}

// HasNode reports whether id is in the graph.
func (g *DependencyGraph) HasNode(id PackageID) bool {
	_, ok := g.nodes[id]
	return ok
}

// Node returns the node for id, or a NODE_NOT_FOUND error.
func (g *DependencyGraph) Node(id PackageID) (PackageNode, error) {
	n, ok := g.nodes[id]
	if !ok {
		return PackageNode{}, apperrors.New(apperrors.ErrCodeNodeNotFound, "node %s not found", id)
	}
	return n, nil
}

// AddEdge records a dependency from one node on another. Both endpoints must
// already exist. Adding an existing edge is a no-op; self-loops are allowed.
func (g *DependencyGraph) AddEdge(from, to PackageID) error {
	if !g.HasNode(from) {
		return apperrors.New(apperrors.ErrCodeNodeNotFound, "edge source %s not found", from)
	}
	if !g.HasNode(to) {
		return apperrors.New(apperrors.ErrCodeNodeNotFound, "edge target %s not found", to)
	}
	key := [2]PackageID{from, to}
	if _, ok := g.edgeSet[key]; ok {
		return nil
	}
	g.edgeSet[key] = struct{}{}
	g.edges[from] = append(g.edges[from], to)
	g.edgeCount++
	return nil
}

// HasEdge reports whether the edge from → to exists.
func (g *DependencyGraph) HasEdge(from, to PackageID) bool {
	_, ok := g.edgeSet[[2]PackageID{from, to}]
	return ok
}

// Dependencies returns the direct dependencies of id in the order their
// edges were added. The returned slice is a copy.
func (g *DependencyGraph) Dependencies(id PackageID) []PackageID {
	return slices.Clone(g.edges[id])
}

// Nodes returns every node in insertion order; the root is first.
func (g *DependencyGraph) Nodes() []PackageNode {
	out := make([]PackageNode, len(g.order))
	for i, id := range g.order {
		out[i] = g.nodes[id]
	}
	return out
}

// NodeCount returns the number of nodes.
func (g *DependencyGraph) NodeCount() int { return len(g.order) }

// EdgeCount returns the number of distinct edges.
func (g *DependencyGraph) EdgeCount() int { return g.edgeCount }
