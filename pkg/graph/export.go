package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// Graph is the JSON form of a [DependencyGraph].
type Graph struct {
	Root  PackageID `json:"root"`
	Nodes []Node    `json:"nodes"`
	Edges []Edge    `json:"edges"`
}

// Node is the JSON form of a [PackageNode]. Meta carries per-node
// annotations when the caller supplies them.
type Node struct {
	ID      PackageID      `json:"id"`
	Name    string         `json:"name"`
	Version string         `json:"version"`
	Source  Source         `json:"source"`
	Meta    map[string]any `json:"meta,omitempty"`
}

// Edge is a directed dependency edge.
type Edge struct {
	From PackageID `json:"from"`
	To   PackageID `json:"to"`
}

// Export converts g to its serializable form. meta, if non-nil, supplies the
// Meta map for each node.
func Export(g *DependencyGraph, meta func(PackageID) map[string]any) Graph {
	out := Graph{
		Root:  g.root,
		Nodes: make([]Node, 0, g.NodeCount()),
		Edges: make([]Edge, 0, g.EdgeCount()),
	}
	for _, id := range g.order {
		n := g.nodes[id]
		node := Node{ID: n.ID, Name: n.Name, Version: n.Version, Source: n.Source}
		if meta != nil {
			node.Meta = meta(id)
		}
		out.Nodes = append(out.Nodes, node)
		for _, to := range g.edges[id] {
			out.Edges = append(out.Edges, Edge{From: id, To: to})
		}
	}
	return out
}

// MarshalGraph converts g to indented JSON bytes.
func MarshalGraph(g *DependencyGraph) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteGraph(g, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteGraph writes g as indented JSON to w.
func WriteGraph(g *DependencyGraph, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(Export(g, nil)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}
