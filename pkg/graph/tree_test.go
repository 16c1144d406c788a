package graph

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type visit struct {
	id      string
	depth   int
	path    string
	cycle   bool
	index   int
	sibling int
}

func walkAll(g *DependencyGraph) []visit {
	var out []visit
	NewTreeView(g).Walk(func(n PackageNode, c WalkContext) {
		out = append(out, visit{
			id:      n.ID,
			depth:   c.Depth,
			path:    strings.Join(c.Ancestors(), ">"),
			cycle:   c.IsCycle,
			index:   c.Index,
			sibling: c.SiblingCount,
		})
	})
	return out
}

func TestWalkRepeatsSharedDependencies(t *testing.T) {
	g := build(t, "root",
		[2]string{"root", "a"}, [2]string{"root", "b"},
		[2]string{"a", "c"}, [2]string{"b", "c"},
		[2]string{"c", "d"},
	)

	assert.Equal(t, []visit{
		{"root", 0, "", false, 0, 1},
		{"a", 1, "root", false, 0, 2},
		{"c", 2, "root>a", false, 0, 1},
		{"d", 3, "root>a>c", false, 0, 1},
		{"b", 1, "root", false, 1, 2},
		{"c", 2, "root>b", false, 0, 1},
		{"d", 3, "root>b>c", false, 0, 1},
	}, walkAll(g))
}

func TestWalkStopsAtCycle(t *testing.T) {
	g := build(t, "root", [2]string{"root", "a"}, [2]string{"a", "b"}, [2]string{"b", "a"})

	assert.Equal(t, []visit{
		{"root", 0, "", false, 0, 1},
		{"a", 1, "root", false, 0, 1},
		{"b", 2, "root>a", false, 0, 1},
		{"a", 3, "root>a>b", true, 0, 1},
	}, walkAll(g))
}

func TestWalkParent(t *testing.T) {
	g := build(t, "root", [2]string{"root", "a"})
	var parents []string
	NewTreeView(g).Walk(func(n PackageNode, c WalkContext) {
		if c.Parent == nil {
			parents = append(parents, "")
			return
		}
		parents = append(parents, c.Parent.ID)
	})
	assert.Equal(t, []string{"", "root"}, parents)
}

func TestWalkIsLast(t *testing.T) {
	assert.True(t, WalkContext{Index: 1, SiblingCount: 2}.IsLast())
	assert.False(t, WalkContext{Index: 0, SiblingCount: 2}.IsLast())
}
