package deps

import (
	"fmt"
	"slices"
	"strings"
)

// Manifest is one published version of a package.
type Manifest struct {
	Name                 string            `json:"name"`
	Version              string            `json:"version"`
	Description          string            `json:"description,omitempty"`
	License              string            `json:"license,omitempty"`
	Deprecated           string            `json:"deprecated,omitempty"`
	Dependencies         map[string]string `json:"dependencies,omitempty"`
	DevDependencies      map[string]string `json:"devDependencies,omitempty"`
	PeerDependencies     map[string]string `json:"peerDependencies,omitempty"`
	OptionalDependencies map[string]string `json:"optionalDependencies,omitempty"`
}

// Packument is the full registry document for a package name: every
// published version plus the dist-tags.
type Packument struct {
	Name     string
	DistTags map[string]string
	Versions map[string]*Manifest
}

// Dependency is a single entry of a manifest dependency field.
type Dependency struct {
	Name  string
	Range string
}

// DependencyKind selects the manifest field a graph is expanded along.
type DependencyKind string

const (
	KindDependencies         DependencyKind = "dependencies"
	KindDevDependencies      DependencyKind = "devDependencies"
	KindPeerDependencies     DependencyKind = "peerDependencies"
	KindOptionalDependencies DependencyKind = "optionalDependencies"
)

var kindAliases = map[string]DependencyKind{
	"":         KindDependencies,
	"prod":     KindDependencies,
	"dev":      KindDevDependencies,
	"peer":     KindPeerDependencies,
	"optional": KindOptionalDependencies,
}

// Kinds lists the recognized dependency kinds.
var Kinds = []DependencyKind{
	KindDependencies, KindDevDependencies, KindPeerDependencies, KindOptionalDependencies,
}

// ParseDependencyKind accepts a manifest field name or one of the short
// aliases prod, dev, peer, optional. The empty string means dependencies.
func ParseDependencyKind(s string) (DependencyKind, error) {
	if k, ok := kindAliases[strings.ToLower(s)]; ok {
		return k, nil
	}
	if k := DependencyKind(s); slices.Contains(Kinds, k) {
		return k, nil
	}
	return "", fmt.Errorf("unknown dependency kind %q (want one of %v)", s, Kinds)
}

// Field returns the dependency map k selects from m.
func (k DependencyKind) Field(m *Manifest) map[string]string {
	if m == nil {
		return nil
	}
	switch k {
	case KindDevDependencies:
		return m.DevDependencies
	case KindPeerDependencies:
		return m.PeerDependencies
	case KindOptionalDependencies:
		return m.OptionalDependencies
	default:
		return m.Dependencies
	}
}

// Select returns the dependencies of m for kind k, sorted by name.
func (k DependencyKind) Select(m *Manifest) []Dependency {
	field := k.Field(m)
	out := make([]Dependency, 0, len(field))
	for name, rng := range field {
		out = append(out, Dependency{Name: name, Range: rng})
	}
	slices.SortFunc(out, func(a, b Dependency) int { return strings.Compare(a.Name, b.Name) })
	return out
}

// ManifestOf returns the manifest stored on a graph node built by this
// package, or nil.
func ManifestOf(manifest any) *Manifest {
	m, _ := manifest.(*Manifest)
	return m
}
