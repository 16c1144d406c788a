// Package graph provides the append-only dependency graph built for one
// analysis session, and the two read views over it.
//
// # Store
//
// [DependencyGraph] keeps [PackageNode] values keyed by [PackageID] and an
// adjacency list of outgoing edges. Nodes and edges are never removed or
// replaced; insertion order is preserved so every view is deterministic.
// An edge may only be added once both endpoints exist, and the root node
// exists from construction.
//
// # Views
//
// The two views deliberately disagree about shared and cyclic nodes:
//
//   - [DependencyGraph.TraverseEdgesFrom] is a depth-first edge enumeration
//     with a global visited set. Every node is expanded at most once and an
//     edge back into the active DFS stack is reported as [EdgeCycle].
//   - [TreeView.Walk] is a positional pre-order walk for rendering. A node
//     reachable through two parents is visited once per path; only a node
//     that repeats inside its own ancestor chain is flagged and not expanded.
//
// # Serialization
//
// [MarshalGraph] and [WriteGraph] export the node-link JSON form:
//
//	{
//	  "root": "app@1.0.0",
//	  "nodes": [{"id": "app@1.0.0", "name": "app", "version": "1.0.0", "source": "registry"}],
//	  "edges": [{"from": "app@1.0.0", "to": "lib@2.1.0"}]
//	}
package graph
