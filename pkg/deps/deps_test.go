package deps

import (
	"context"
	"fmt"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/matzehuels/deplint/pkg/errors"
	"github.com/matzehuels/deplint/pkg/graph"
)

// fakeRegistry serves packuments from memory and counts fetches per name.
type fakeRegistry struct {
	packuments map[string]*Packument
	fetches    map[string]int
}

func newFakeRegistry() *fakeRegistry {
	return &fakeRegistry{packuments: map[string]*Packument{}, fetches: map[string]int{}}
}

// publish adds a version; the latest dist-tag follows the last call.
func (f *fakeRegistry) publish(m *Manifest) {
	p, ok := f.packuments[m.Name]
	if !ok {
		p = &Packument{Name: m.Name, DistTags: map[string]string{}, Versions: map[string]*Manifest{}}
		f.packuments[m.Name] = p
	}
	p.Versions[m.Version] = m
	p.DistTags["latest"] = m.Version
}

func (f *fakeRegistry) FetchPackument(_ context.Context, name string) (*Packument, error) {
	f.fetches[name]++
	p, ok := f.packuments[name]
	if !ok {
		return nil, apperrors.New(apperrors.ErrCodeRegistry, "GET %s: status 404", name)
	}
	return p, nil
}

// chainFixture: root → dep1 → dep2 at runtime, root → devDep1 → devDep2 in dev.
func chainFixture() *fakeRegistry {
	r := newFakeRegistry()
	r.publish(&Manifest{
		Name: "root", Version: "1.0.0",
		Dependencies:    map[string]string{"dep1": "^1.0.0"},
		DevDependencies: map[string]string{"devDep1": "^1.0.0"},
	})
	r.publish(&Manifest{Name: "dep1", Version: "1.0.0", Dependencies: map[string]string{"dep2": "^1.0.0"}})
	r.publish(&Manifest{Name: "dep2", Version: "1.0.0"})
	r.publish(&Manifest{Name: "devDep1", Version: "1.0.0", DevDependencies: map[string]string{"devDep2": "^1.0.0"}})
	r.publish(&Manifest{Name: "devDep2", Version: "1.0.0"})
	return r
}

func nodeIDs(g *graph.DependencyGraph) []string {
	var ids []string
	for _, n := range g.Nodes() {
		ids = append(ids, n.ID)
	}
	sort.Strings(ids)
	return ids
}

func buildGraph(t *testing.T, r *fakeRegistry, target, rng string, opts Options) *graph.DependencyGraph {
	t.Helper()
	g, err := NewGraphBuilder(NewManifestResolver(r)).Build(context.Background(), target, rng, opts)
	require.NoError(t, err)
	return g
}

func TestBuildDepthAndKind(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		want []string
	}{
		{"unlimited", Options{MaxDepth: Unlimited}, []string{"dep1@1.0.0", "dep2@1.0.0", "root@1.0.0"}},
		{"depth 1", Options{MaxDepth: 1}, []string{"dep1@1.0.0", "root@1.0.0"}},
		{"depth 0", Options{MaxDepth: 0}, []string{"root@1.0.0"}},
		{"dev kind", Options{MaxDepth: Unlimited, Kind: KindDevDependencies}, []string{"devDep1@1.0.0", "devDep2@1.0.0", "root@1.0.0"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := buildGraph(t, chainFixture(), "root", "^1.0.0", tt.opts)
			assert.Equal(t, tt.want, nodeIDs(g))
			assert.True(t, g.HasNode(g.RootID()))
			_, err := g.Node(g.RootID())
			assert.NoError(t, err)
		})
	}
}

func TestBuildDepthBound(t *testing.T) {
	// A chain pkg0 → pkg1 → ... → pkg5.
	r := newFakeRegistry()
	for i := range 6 {
		m := &Manifest{Name: fmt.Sprintf("pkg%d", i), Version: "1.0.0"}
		if i < 5 {
			m.Dependencies = map[string]string{fmt.Sprintf("pkg%d", i+1): "1.0.0"}
		}
		r.publish(m)
	}

	for d := range 6 {
		g := buildGraph(t, r, "pkg0", "latest", Options{MaxDepth: d})
		assert.Equal(t, d+1, g.NodeCount(), "maxDepth=%d", d)
	}
}

func TestBuildDedupsByResolvedVersion(t *testing.T) {
	r := newFakeRegistry()
	r.publish(&Manifest{Name: "shared", Version: "1.4.0"})
	r.publish(&Manifest{Name: "a", Version: "1.0.0", Dependencies: map[string]string{"shared": "^1.0.0"}})
	r.publish(&Manifest{Name: "b", Version: "1.0.0", Dependencies: map[string]string{"shared": "~1.4.0"}})
	r.publish(&Manifest{Name: "app", Version: "1.0.0", Dependencies: map[string]string{"a": "1", "b": "1"}})

	g := buildGraph(t, r, "app", "", Options{MaxDepth: Unlimited})

	assert.Equal(t, []string{"a@1.0.0", "app@1.0.0", "b@1.0.0", "shared@1.4.0"}, nodeIDs(g))
	assert.True(t, g.HasEdge("a@1.0.0", "shared@1.4.0"))
	assert.True(t, g.HasEdge("b@1.0.0", "shared@1.4.0"))
	assert.Equal(t, 1, r.fetches["shared"], "packument fetched once per name")
}

func TestBuildCycleTerminates(t *testing.T) {
	r := newFakeRegistry()
	r.publish(&Manifest{Name: "a", Version: "1.0.0", Dependencies: map[string]string{"b": "*"}})
	r.publish(&Manifest{Name: "b", Version: "1.0.0", Dependencies: map[string]string{"a": "*"}})

	g := buildGraph(t, r, "a", "latest", Options{MaxDepth: Unlimited})

	assert.Equal(t, 2, g.NodeCount())
	assert.True(t, g.HasEdge("b@1.0.0", "a@1.0.0"))
	assert.True(t, g.HasCycle())
}

func TestBuildExternalDependencies(t *testing.T) {
	r := newFakeRegistry()
	r.publish(&Manifest{Name: "app", Version: "1.0.0", Dependencies: map[string]string{
		"from-git":  "git+https://github.com/acme/from-git.git",
		"from-gh":   "github:acme/from-gh",
		"from-file": "file:../local",
		"from-ws":   "workspace:*",
		"from-url":  "https://example.com/pkg.tgz",
	}})

	g := buildGraph(t, r, "app", "latest", Options{MaxDepth: Unlimited})

	require.Equal(t, 6, g.NodeCount())
	for _, n := range g.Nodes()[1:] {
		assert.Equal(t, graph.SourceExternal, n.Source, n.ID)
		assert.Equal(t, n.Name+"@"+n.Version, n.ID)
		assert.Empty(t, ManifestOf(n.Manifest).Dependencies)
		assert.Zero(t, r.fetches[n.Name], "external %s must not hit the registry", n.Name)
	}
	n, err := g.Node("from-file@file:../local")
	require.NoError(t, err)
	assert.Equal(t, "file:../local", n.Version)
}

func TestBuildPropagatesResolutionErrors(t *testing.T) {
	r := newFakeRegistry()
	r.publish(&Manifest{Name: "app", Version: "1.0.0", Dependencies: map[string]string{"ghost": "^1.0.0", "old": "^2.0.0"}})
	r.publish(&Manifest{Name: "old", Version: "1.0.0"})

	_, err := NewGraphBuilder(NewManifestResolver(r)).Build(context.Background(), "app", "latest", Options{MaxDepth: Unlimited})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeRegistry))

	delete(r.packuments["app"].Versions["1.0.0"].Dependencies, "ghost")
	_, err = NewGraphBuilder(NewManifestResolver(r)).Build(context.Background(), "app", "latest", Options{MaxDepth: Unlimited})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeVersionResolution))
}

func TestBuildHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := chainFixture()
	root, err := NewManifestResolver(r).Resolve(context.Background(), "root", "1.0.0")
	require.NoError(t, err)

	_, err = NewGraphBuilder(NewManifestResolver(r)).BuildFrom(ctx, registryNode("root", root), Options{MaxDepth: Unlimited})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBuildLogsProgress(t *testing.T) {
	var lines []string
	buildGraph(t, chainFixture(), "root", "1.0.0", Options{
		MaxDepth: Unlimited,
		Logger:   func(f string, a ...any) { lines = append(lines, fmt.Sprintf(f, a...)) },
	})
	assert.Equal(t, []string{"resolving dep1@^1.0.0", "resolving dep2@^1.0.0"}, lines)
}

func TestParseDependencyKind(t *testing.T) {
	tests := []struct {
		in   string
		want DependencyKind
		err  bool
	}{
		{"", KindDependencies, false},
		{"dev", KindDevDependencies, false},
		{"devDependencies", KindDevDependencies, false},
		{"peer", KindPeerDependencies, false},
		{"optionalDependencies", KindOptionalDependencies, false},
		{"bundled", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDependencyKind(tt.in)
			if tt.err {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSelectSortsByName(t *testing.T) {
	m := &Manifest{PeerDependencies: map[string]string{"zod": "^3", "ajv": "^8"}}
	assert.Equal(t, []Dependency{{"ajv", "^8"}, {"zod", "^3"}}, KindPeerDependencies.Select(m))
	assert.Empty(t, KindDependencies.Select(m))
	assert.Empty(t, KindDependencies.Select(nil))
}

func TestIsExternal(t *testing.T) {
	for _, rng := range []string{
		"git://github.com/a/b.git", "git+ssh://git@github.com/a/b.git", "github:a/b",
		"gitlab:a/b", "bitbucket:a/b", "file:../x", "link:../x", "workspace:^",
		"http://x/y.tgz", "https://x/y.tgz",
	} {
		assert.True(t, IsExternal(rng), rng)
	}
	for _, rng := range []string{"^1.0.0", "latest", "1.x", ">=2 <3", "*", ""} {
		assert.False(t, IsExternal(rng), rng)
	}
}
