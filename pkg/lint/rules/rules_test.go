package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/deplint/pkg/deps"
	"github.com/matzehuels/deplint/pkg/graph"
	"github.com/matzehuels/deplint/pkg/lint"
)

func registryNode(m *deps.Manifest) graph.PackageNode {
	return graph.PackageNode{
		ID: graph.NewID(m.Name, m.Version), Name: m.Name, Version: m.Version,
		Source: graph.SourceRegistry, Manifest: m,
	}
}

func externalNode(name, spec string) graph.PackageNode {
	return graph.PackageNode{
		ID: graph.NewID(name, spec), Name: name, Version: spec,
		Source: graph.SourceExternal, Manifest: &deps.Manifest{Name: name, Version: spec},
	}
}

func messages(r *lint.Result) []string {
	if r == nil {
		return nil
	}
	return r.Messages
}

func TestRegistry(t *testing.T) {
	assert.Equal(t,
		[]string{"banned", "deprecated", "license", "max-deps", "no-external", "no-prerelease"},
		Registry().IDs())
}

func TestMaxDeps(t *testing.T) {
	m := &deps.Manifest{
		Name: "big", Version: "1.0.0",
		Dependencies:    map[string]string{"a": "1", "b": "1", "c": "1"},
		DevDependencies: map[string]string{"x": "1"},
	}
	n := registryNode(m)

	assert.Nil(t, MaxDeps{}.Check(n, lint.Options{}))
	assert.Equal(t, []string{"3 dependencies exceed the maximum of 2"}, messages(MaxDeps{}.Check(n, lint.Options{"max": int64(2)})))
	assert.Nil(t, MaxDeps{}.Check(n, lint.Options{"max": 0.0, "kind": "peer"}))

	v, ok := MaxDeps{}.Annotate(n, lint.Options{"kind": "dev"})
	require.True(t, ok)
	assert.Equal(t, 1, v)

	_, ok = MaxDeps{}.Annotate(externalNode("e", "file:../e"), nil)
	assert.False(t, ok)
}

func TestNoExternal(t *testing.T) {
	assert.Nil(t, NoExternal{}.Check(registryNode(&deps.Manifest{Name: "a", Version: "1.0.0"}), nil))
	assert.Equal(t,
		[]string{"resolved outside the registry from github:acme/e"},
		messages(NoExternal{}.Check(externalNode("e", "github:acme/e"), nil)))
}

func TestBanned(t *testing.T) {
	n := registryNode(&deps.Manifest{Name: "request", Version: "2.88.2"})
	assert.Nil(t, Banned{}.Check(n, lint.Options{}))
	assert.NotNil(t, Banned{}.Check(n, lint.Options{"packages": []any{"left-pad", "request"}}))
	assert.NotNil(t, Banned{}.Check(n, lint.Options{"packages": "request"}))
}

func TestDeprecated(t *testing.T) {
	assert.Nil(t, Deprecated{}.Check(registryNode(&deps.Manifest{Name: "a", Version: "1.0.0"}), nil))
	assert.Equal(t, []string{"use b"},
		messages(Deprecated{}.Check(registryNode(&deps.Manifest{Name: "a", Version: "1.0.0", Deprecated: "use b"}), nil)))
}

func TestNoPrerelease(t *testing.T) {
	assert.Nil(t, NoPrerelease{}.Check(registryNode(&deps.Manifest{Name: "a", Version: "1.0.0"}), nil))
	assert.NotNil(t, NoPrerelease{}.Check(registryNode(&deps.Manifest{Name: "a", Version: "2.0.0-rc.1"}), nil))
	assert.Nil(t, NoPrerelease{}.Check(externalNode("e", "git+https://x/e.git#v1.0.0-beta"), nil))
}

func TestLicense(t *testing.T) {
	mit := registryNode(&deps.Manifest{Name: "a", Version: "1.0.0", License: "MIT"})
	gpl := registryNode(&deps.Manifest{Name: "b", Version: "1.0.0", License: "GPL-3.0"})
	none := registryNode(&deps.Manifest{Name: "c", Version: "1.0.0"})
	allow := lint.Options{"allow": []any{"mit", "Apache-2.0"}}

	assert.Nil(t, License{}.Check(gpl, nil), "no allow list")
	assert.Nil(t, License{}.Check(mit, allow))
	assert.Equal(t, []string{"license GPL-3.0 is not allowed"}, messages(License{}.Check(gpl, allow)))
	assert.Equal(t, []string{"no license declared"}, messages(License{}.Check(none, allow)))

	v, ok := License{}.Annotate(mit, nil)
	require.True(t, ok)
	assert.Equal(t, "MIT", v)
}
