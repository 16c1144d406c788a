// Package report renders finished analysis sessions.
//
//   - [Tree]: an indented text tree per session, one line per occurrence
//   - [DOT]: a Graphviz node-link diagram, as DOT source or SVG
//   - [JSON]: session metadata, graph and annotations
//
// All reporters implement [pipeline.Reporter] and write every session they
// receive, in order.
package report
