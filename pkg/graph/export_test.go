package graph

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteGraph(t *testing.T) {
	g := New(PackageNode{ID: "app@1.0.0", Name: "app", Version: "1.0.0", Source: SourceRegistry})
	g.AddNode(PackageNode{ID: "lib@git+https://x/lib.git", Name: "lib", Version: "git+https://x/lib.git", Source: SourceExternal})
	require.NoError(t, g.AddEdge("app@1.0.0", "lib@git+https://x/lib.git"))

	var buf bytes.Buffer
	require.NoError(t, WriteGraph(g, &buf))

	assert.JSONEq(t, `{
		"root": "app@1.0.0",
		"nodes": [
			{"id": "app@1.0.0", "name": "app", "version": "1.0.0", "source": "registry"},
			{"id": "lib@git+https://x/lib.git", "name": "lib", "version": "git+https://x/lib.git", "source": "external"}
		],
		"edges": [{"from": "app@1.0.0", "to": "lib@git+https://x/lib.git"}]
	}`, buf.String())
}

func TestExportMeta(t *testing.T) {
	g := New(node("root"))
	out := Export(g, func(id PackageID) map[string]any {
		return map[string]any{"deps.count": 0}
	})
	require.Len(t, out.Nodes, 1)
	assert.Equal(t, 0, out.Nodes[0].Meta["deps.count"])
}
