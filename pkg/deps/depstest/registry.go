// Package depstest provides an in-memory registry for tests.
package depstest

import (
	"context"
	"sync"

	"github.com/matzehuels/deplint/pkg/deps"
	apperrors "github.com/matzehuels/deplint/pkg/errors"
)

// Registry is an in-memory [deps.Fetcher]. Unknown names fail with
// REGISTRY_ERROR, like a 404 from the real registry.
type Registry struct {
	mu         sync.Mutex
	packuments map[string]*deps.Packument
	fetches    map[string]int
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{packuments: map[string]*deps.Packument{}, fetches: map[string]int{}}
}

// Publish adds a version and points the latest dist-tag at it.
func (r *Registry) Publish(m *deps.Manifest) *Registry {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.packuments[m.Name]
	if !ok {
		p = &deps.Packument{Name: m.Name, DistTags: map[string]string{}, Versions: map[string]*deps.Manifest{}}
		r.packuments[m.Name] = p
	}
	p.Versions[m.Version] = m
	p.DistTags["latest"] = m.Version
	return r
}

// Fetches returns how often name was fetched.
func (r *Registry) Fetches(name string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.fetches[name]
}

// FetchPackument implements [deps.Fetcher].
func (r *Registry) FetchPackument(_ context.Context, name string) (*deps.Packument, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fetches[name]++
	p, ok := r.packuments[name]
	if !ok {
		return nil, apperrors.New(apperrors.ErrCodeRegistry, "npm package %s not found", name)
	}
	return p, nil
}

// Chain returns the fixture root@1.0.0 → dep1@1.0.0 → dep2@1.0.0, with a
// dev chain root → devDep1 → devDep2.
func Chain() *Registry {
	return New().
		Publish(&deps.Manifest{
			Name: "root", Version: "1.0.0",
			Dependencies:    map[string]string{"dep1": "^1.0.0"},
			DevDependencies: map[string]string{"devDep1": "^1.0.0"},
		}).
		Publish(&deps.Manifest{Name: "dep1", Version: "1.0.0", Dependencies: map[string]string{"dep2": "^1.0.0"}}).
		Publish(&deps.Manifest{Name: "dep2", Version: "1.0.0"}).
		Publish(&deps.Manifest{Name: "devDep1", Version: "1.0.0", DevDependencies: map[string]string{"devDep2": "^1.0.0"}}).
		Publish(&deps.Manifest{Name: "devDep2", Version: "1.0.0"})
}
