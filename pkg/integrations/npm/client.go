package npm

import (
	"context"
	"errors"
	"strings"

	"github.com/matzehuels/deplint/pkg/deps"
	apperrors "github.com/matzehuels/deplint/pkg/errors"
	"github.com/matzehuels/deplint/pkg/httputil"
	"github.com/matzehuels/deplint/pkg/integrations"
)

// DefaultRegistry is the public npm registry.
const DefaultRegistry = "https://registry.npmjs.org"

// Client fetches packuments from an npm-compatible registry.
type Client struct {
	*integrations.Client
	baseURL string
}

// NewClient returns a client for the registry at baseURL (DefaultRegistry
// when empty). attempts bounds tries per request.
func NewClient(t httputil.Transport, baseURL string, attempts int) *Client {
	if baseURL == "" {
		baseURL = DefaultRegistry
	}
	return &Client{
		Client:  integrations.NewClient(t, map[string]string{"Accept": "application/json"}, attempts),
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// BaseURL returns the registry base URL.
func (c *Client) BaseURL() string { return c.baseURL }

// FetchPackument implements [deps.Fetcher]. Every failure, including a
// malformed body, is reported as REGISTRY_ERROR.
func (c *Client) FetchPackument(ctx context.Context, name string) (*deps.Packument, error) {
	var data registryResponse
	if err := c.Get(ctx, c.PackageURL(name), &data); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		if errors.Is(err, integrations.ErrNotFound) {
			return nil, apperrors.Wrap(apperrors.ErrCodeRegistry, err, "npm package %s not found", name)
		}
		return nil, apperrors.Wrap(apperrors.ErrCodeRegistry, err, "fetch npm package %s", name)
	}
	return data.packument(name), nil
}

// PackageURL returns the metadata URL for name.
func (c *Client) PackageURL(name string) string {
	return c.baseURL + "/" + EscapeName(name)
}

// EscapeName encodes the slash of a scoped name the way the registry expects.
func EscapeName(name string) string {
	if strings.HasPrefix(name, "@") {
		return strings.Replace(name, "/", "%2f", 1)
	}
	return name
}

type registryResponse struct {
	Name     string                    `json:"name"`
	DistTags map[string]string         `json:"dist-tags"`
	Versions map[string]versionDetails `json:"versions"`
}

type versionDetails struct {
	Name                 string            `json:"name"`
	Version              string            `json:"version"`
	Description          string            `json:"description"`
	License              any               `json:"license"`
	Deprecated           any               `json:"deprecated"`
	Dependencies         map[string]string `json:"dependencies"`
	DevDependencies      map[string]string `json:"devDependencies"`
	PeerDependencies     map[string]string `json:"peerDependencies"`
	OptionalDependencies map[string]string `json:"optionalDependencies"`
}

func (r registryResponse) packument(requested string) *deps.Packument {
	p := &deps.Packument{
		Name:     r.Name,
		DistTags: r.DistTags,
		Versions: make(map[string]*deps.Manifest, len(r.Versions)),
	}
	if p.Name == "" {
		p.Name = requested
	}
	if p.DistTags == nil {
		p.DistTags = map[string]string{}
	}
	for v, d := range r.Versions {
		m := &deps.Manifest{
			Name:                 d.Name,
			Version:              d.Version,
			Description:          d.Description,
			License:              extractField(d.License, "type"),
			Deprecated:           deprecation(d.Deprecated),
			Dependencies:         d.Dependencies,
			DevDependencies:      d.DevDependencies,
			PeerDependencies:     d.PeerDependencies,
			OptionalDependencies: d.OptionalDependencies,
		}
		if m.Name == "" {
			m.Name = p.Name
		}
		if m.Version == "" {
			m.Version = v
		}
		p.Versions[v] = m
	}
	return p
}

func extractField(v any, field string) string {
	switch val := v.(type) {
	case string:
		return val
	case map[string]any:
		if s, ok := val[field].(string); ok {
			return s
		}
	}
	return ""
}

// deprecation normalizes the deprecated field, which old publishes set to
// a bare true instead of a message.
func deprecation(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case bool:
		if val {
			return "deprecated"
		}
	}
	return ""
}
