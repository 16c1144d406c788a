package deps

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/matzehuels/deplint/pkg/errors"
)

func packument(tags map[string]string, versions ...string) *Packument {
	p := &Packument{Name: "pkg", DistTags: tags, Versions: map[string]*Manifest{}}
	for _, v := range versions {
		p.Versions[v] = &Manifest{Name: "pkg", Version: v}
	}
	return p
}

func TestResolveVersion(t *testing.T) {
	p := packument(
		map[string]string{"latest": "1.2.0", "next": "2.0.0-beta.2"},
		"0.9.0", "1.0.0", "1.1.0", "1.2.0", "1.10.3", "2.0.0-beta.1", "2.0.0-beta.2", "not-semver",
	)

	tests := []struct {
		rng  string
		want string
	}{
		{"latest", "1.2.0"},
		{"next", "2.0.0-beta.2"},
		{"", "1.2.0"},
		{"^1.0.0", "1.10.3"},
		{"~1.1.0", "1.1.0"},
		{"1.0.0", "1.0.0"},
		{">=0.9.0 <1.1.0", "1.0.0"},
		{"1.x", "1.10.3"},
		{"*", "1.10.3"},
		{"^0.9.0 || ^1.1.0", "1.10.3"},
		{">=2.0.0-beta.1", "2.0.0-beta.2"},
	}

	for _, tt := range tests {
		t.Run(tt.rng, func(t *testing.T) {
			got, err := ResolveVersion(p, tt.rng)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveVersionPrereleases(t *testing.T) {
	tests := []struct {
		name     string
		versions []string
		rng      string
		want     string
	}{
		{"caret stays on tagged core", []string{"1.0.0-beta.2", "1.1.0-alpha.1"}, "^1.0.0-beta.1", "1.0.0-beta.2"},
		{"lower bound skips other cores", []string{"1.0.0", "1.2.0-rc.1"}, ">=1.0.0-beta.1", "1.0.0"},
		{"release range skips prereleases", []string{"1.0.0", "1.1.0-rc.1"}, "^1.0.0", "1.0.0"},
		{"any alternative may carry the tag", []string{"1.0.0", "2.0.0-rc.1"}, "^1.0.0 || ^2.0.0-rc.0", "2.0.0-rc.1"},
		{"exact prerelease", []string{"1.0.0-beta.1", "1.0.0-beta.2"}, "=1.0.0-beta.1", "1.0.0-beta.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveVersion(packument(nil, tt.versions...), tt.rng)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveVersionFailures(t *testing.T) {
	p := packument(map[string]string{"latest": "1.0.0"}, "1.0.0")

	for _, rng := range []string{"^2.0.0", "beta", "not a range!"} {
		t.Run(rng, func(t *testing.T) {
			_, err := ResolveVersion(p, rng)
			require.Error(t, err)
			assert.True(t, apperrors.Is(err, apperrors.ErrCodeVersionResolution))
		})
	}
}

func TestResolverCachesPerName(t *testing.T) {
	r := newFakeRegistry()
	r.publish(&Manifest{Name: "lib", Version: "1.0.0"})
	r.publish(&Manifest{Name: "lib", Version: "2.0.0"})

	res := NewManifestResolver(r)
	ctx := context.Background()

	m1, err := res.Resolve(ctx, "lib", "^1.0.0")
	require.NoError(t, err)
	m2, err := res.Resolve(ctx, "lib", "^2.0.0")
	require.NoError(t, err)
	m3, err := res.Resolve(ctx, "lib", "1.0.0")
	require.NoError(t, err)

	assert.Equal(t, "1.0.0", m1.Version)
	assert.Equal(t, "2.0.0", m2.Version)
	assert.Same(t, m1, m3)
	assert.Equal(t, 1, r.fetches["lib"])
	assert.Equal(t, 1, res.Fetched())

	// A fresh resolver starts with an empty cache.
	_, err = NewManifestResolver(r).Resolve(ctx, "lib", "latest")
	require.NoError(t, err)
	assert.Equal(t, 2, r.fetches["lib"])
}

func TestResolverDanglingDistTag(t *testing.T) {
	r := newFakeRegistry()
	r.packuments["x"] = &Packument{Name: "x", DistTags: map[string]string{"latest": "9.9.9"}, Versions: map[string]*Manifest{}}

	_, err := NewManifestResolver(r).Resolve(context.Background(), "x", "latest")
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeVersionResolution))
}
