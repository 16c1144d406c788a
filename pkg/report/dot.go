package report

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/deplint/pkg/graph"
	"github.com/matzehuels/deplint/pkg/session"
)

// Output formats of [DOT].
const (
	FormatDOT = "dot"
	FormatSVG = "svg"
)

// DOT writes a node-link diagram of each session graph.
type DOT struct {
	w      io.Writer
	format string
}

// NewDOT returns a diagram reporter. format is [FormatDOT] or [FormatSVG].
func NewDOT(w io.Writer, format string) (*DOT, error) {
	switch format {
	case FormatDOT, FormatSVG:
	default:
		return nil, fmt.Errorf("unsupported diagram format %q (want dot or svg)", format)
	}
	return &DOT{w: w, format: format}, nil
}

func (d *DOT) Name() string { return "dot" }

// Report implements [pipeline.Reporter].
func (d *DOT) Report(ctx context.Context, sessions []*session.AnalysisSession) error {
	for _, s := range sessions {
		g, err := s.Graph()
		if err != nil {
			return err
		}
		src := ToDOT(g)
		if d.format == FormatDOT {
			if _, err := io.WriteString(d.w, src); err != nil {
				return err
			}
			continue
		}
		svg, err := RenderSVG(ctx, src)
		if err != nil {
			return err
		}
		if _, err := d.w.Write(svg); err != nil {
			return err
		}
	}
	return nil
}

// ToDOT converts g to Graphviz DOT. External nodes are dashed and back
// edges found by the edge traversal are drawn red.
func ToDOT(g *graph.DependencyGraph) string {
	back := make(map[[2]graph.PackageID]bool)
	_ = g.TraverseEdgesFrom(g.RootID(), func(e graph.EdgeEvent) {
		if e.Kind == graph.EdgeCycle {
			back[[2]graph.PackageID{e.From, e.To}] = true
		}
	})

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, n := range g.Nodes() {
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(nodeAttrs(g, n), ", "))
	}

	buf.WriteString("\n")
	for _, n := range g.Nodes() {
		for _, to := range g.Dependencies(n.ID) {
			if back[[2]graph.PackageID{n.ID, to}] {
				fmt.Fprintf(&buf, "  %q -> %q [color=red, constraint=false];\n", n.ID, to)
				continue
			}
			fmt.Fprintf(&buf, "  %q -> %q;\n", n.ID, to)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeAttrs(g *graph.DependencyGraph, n graph.PackageNode) []string {
	attrs := []string{fmt.Sprintf("label=%q", n.Name+"\n"+n.Version)}
	switch {
	case n.ID == g.RootID():
		attrs = append(attrs, "penwidth=2")
	case n.IsExternal():
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey")
	}
	return attrs
}

// RenderSVG renders DOT source to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-sized root element so the SVG
// scales to its container.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}
	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}
	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
