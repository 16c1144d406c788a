package report

import (
	"context"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/deplint/pkg/graph"
	"github.com/matzehuels/deplint/pkg/session"
)

const (
	branchMid  = "├─ "
	branchLast = "└─ "
	indentMid  = "│  "
	indentLast = "   "
)

// Tree prints each session graph as a tree. Shared dependencies appear under
// every parent; a dependency that repeats within its own ancestor chain is
// printed once more with a cycle marker and not expanded.
type Tree struct {
	w io.Writer
	// Annotations appends each node's session annotations to its line.
	Annotations bool

	marker lipgloss.Style
	dim    lipgloss.Style
}

// NewTree returns a tree reporter writing to w.
func NewTree(w io.Writer) *Tree {
	r := lipgloss.NewRenderer(w)
	return &Tree{
		w:      w,
		marker: r.NewStyle().Foreground(lipgloss.Color("3")),
		dim:    r.NewStyle().Faint(true),
	}
}

func (t *Tree) Name() string { return "tree" }

// Report implements [pipeline.Reporter].
func (t *Tree) Report(_ context.Context, sessions []*session.AnalysisSession) error {
	for _, s := range sessions {
		g, err := s.Graph()
		if err != nil {
			return err
		}
		if err := t.write(s, g); err != nil {
			return err
		}
	}
	return nil
}

func (t *Tree) write(s *session.AnalysisSession, g *graph.DependencyGraph) error {
	if _, err := fmt.Fprintf(t.w, "\n%s\n", t.line(s, g, g.Root())); err != nil {
		return err
	}

	var prefixes []string
	var werr error
	graph.NewTreeView(g).Walk(func(n graph.PackageNode, c graph.WalkContext) {
		if c.Depth == 0 || werr != nil {
			return
		}
		branch := branchMid
		if c.IsLast() {
			branch = branchLast
		}
		prefix := strings.Join(prefixes[:c.Depth-1], "")

		if c.IsCycle {
			_, werr = fmt.Fprintf(t.w, "%s%s%s %s\n", prefix, branch, t.label(n), t.marker.Render("↩︎ (cycle)"))
			return
		}
		_, werr = fmt.Fprintf(t.w, "%s%s%s\n", prefix, branch, t.line(s, g, n))

		indent := indentMid
		if c.IsLast() {
			indent = indentLast
		}
		if len(prefixes) < c.Depth {
			prefixes = append(prefixes, indent)
		} else {
			prefixes[c.Depth-1] = indent
		}
	})
	return werr
}

// line is the label plus the dependency count for registry nodes.
func (t *Tree) line(s *session.AnalysisSession, g *graph.DependencyGraph, n graph.PackageNode) string {
	out := t.label(n)
	if !n.IsExternal() {
		out += fmt.Sprintf(" (%d deps)", len(g.Dependencies(n.ID)))
	}
	if t.Annotations {
		if ann := s.AllAnnotations(n.ID); len(ann) > 0 {
			parts := make([]string, 0, len(ann))
			for _, k := range slices.Sorted(maps.Keys(ann)) {
				parts = append(parts, fmt.Sprintf("%s=%v", k, ann[k]))
			}
			out += " " + t.dim.Render("{"+strings.Join(parts, " ")+"}")
		}
	}
	return out
}

func (t *Tree) label(n graph.PackageNode) string {
	if n.IsExternal() {
		return n.Label() + " " + t.marker.Render("[external]")
	}
	return n.Label()
}
