package deps

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/Masterminds/semver/v3"

	apperrors "github.com/matzehuels/deplint/pkg/errors"
	"github.com/matzehuels/deplint/pkg/observability"
)

// DefaultTag is used when a range is empty.
const DefaultTag = "latest"

// Fetcher retrieves the packument for a package name.
type Fetcher interface {
	FetchPackument(ctx context.Context, name string) (*Packument, error)
}

// ManifestResolver resolves (name, range) pairs to manifests. Packuments
// are fetched once per name and kept for the resolver's lifetime, so
// resolving the same name with different ranges costs one request.
//
// A ManifestResolver is not safe for concurrent use.
type ManifestResolver struct {
	fetcher Fetcher
	cache   map[string]*Packument
}

// NewManifestResolver returns a resolver with an empty cache.
func NewManifestResolver(f Fetcher) *ManifestResolver {
	return &ManifestResolver{fetcher: f, cache: make(map[string]*Packument)}
}

// Resolve returns the manifest of name selected by rng. Fetch failures are
// returned as is (REGISTRY_ERROR from the npm client); a range nothing
// satisfies fails with VERSION_RESOLUTION.
func (r *ManifestResolver) Resolve(ctx context.Context, name, rng string) (*Manifest, error) {
	p, err := r.packument(ctx, name)
	if err != nil {
		return nil, err
	}
	version, err := ResolveVersion(p, rng)
	if err != nil {
		return nil, err
	}
	m, ok := p.Versions[version]
	if !ok || m == nil {
		return nil, apperrors.New(apperrors.ErrCodeVersionResolution,
			"%s: dist-tag points at unpublished version %s", name, version)
	}
	return m, nil
}

// Fetched returns the number of distinct packuments fetched so far.
func (r *ManifestResolver) Fetched() int { return len(r.cache) }

func (r *ManifestResolver) packument(ctx context.Context, name string) (*Packument, error) {
	hooks := observability.ManifestCache()
	if p, ok := r.cache[name]; ok {
		hooks.OnCacheHit(ctx, name)
		return p, nil
	}
	hooks.OnCacheMiss(ctx, name)

	p, err := r.fetcher.FetchPackument(ctx, name)
	if err != nil {
		return nil, err
	}
	r.cache[name] = p
	return p, nil
}

// ResolveVersion picks the version of p that rng selects. A range naming a
// dist-tag selects the tag's version. Otherwise rng is a semver range and
// the highest published version satisfying it wins. Prereleases only match
// ranges that mention a prerelease of the same version core.
func ResolveVersion(p *Packument, rng string) (string, error) {
	rng = strings.TrimSpace(rng)
	if rng == "" {
		rng = DefaultTag
	}
	if v, ok := p.DistTags[rng]; ok {
		return v, nil
	}

	c, err := semver.NewConstraint(rng)
	if err != nil {
		return "", apperrors.Wrap(apperrors.ErrCodeVersionResolution, err,
			"%s: invalid range %q", p.Name, rng)
	}

	cores := prereleaseCores(rng)

	var best *semver.Version
	var bestRaw string
	for raw := range p.Versions {
		v, err := semver.StrictNewVersion(raw)
		if err != nil || !c.Check(v) {
			continue
		}
		if v.Prerelease() != "" && !cores[versionCore(v)] {
			continue
		}
		// Build metadata does not order versions; break ties on the raw string.
		if best == nil || v.GreaterThan(best) || (v.Equal(best) && raw > bestRaw) {
			best, bestRaw = v, raw
		}
	}
	if best == nil {
		return "", apperrors.New(apperrors.ErrCodeVersionResolution,
			"no version of %s satisfies %q", p.Name, rng)
	}
	return bestRaw, nil
}

// prereleaseCores returns the major.minor.patch of every comparator in rng
// that carries a prerelease tag. A prerelease version only satisfies rng
// when its core is one of them.
func prereleaseCores(rng string) map[string]bool {
	cores := make(map[string]bool)
	tokens := strings.FieldsFunc(rng, func(r rune) bool {
		return unicode.IsSpace(r) || r == ',' || r == '|'
	})
	for _, tok := range tokens {
		v, err := semver.NewVersion(strings.TrimLeft(tok, "^~<>=v"))
		if err != nil || v.Prerelease() == "" {
			continue
		}
		cores[versionCore(v)] = true
	}
	return cores
}

func versionCore(v *semver.Version) string {
	return fmt.Sprintf("%d.%d.%d", v.Major(), v.Minor(), v.Patch())
}
