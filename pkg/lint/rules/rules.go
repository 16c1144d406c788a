// Package rules contains the built-in lint rules.
//
//	max-deps       too many direct dependencies        options: max (20), kind
//	no-external    git/file/url dependencies            -
//	banned         named packages                       options: packages
//	deprecated     versions marked deprecated           -
//	no-prerelease  prerelease versions                  -
//	license        licenses outside an allow list       options: allow
package rules

import (
	"fmt"
	"slices"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/matzehuels/deplint/pkg/deps"
	"github.com/matzehuels/deplint/pkg/graph"
	"github.com/matzehuels/deplint/pkg/lint"
)

// Registry returns a registry holding every built-in rule.
func Registry() *lint.Registry {
	return lint.NewRegistry(
		MaxDeps{},
		NoExternal{},
		Banned{},
		Deprecated{},
		NoPrerelease{},
		License{},
	)
}

// MaxDeps flags registry packages with more than "max" direct dependencies
// of the manifest field named by "kind". It annotates every registry node
// with its count.
type MaxDeps struct{}

func (MaxDeps) ID() string { return "max-deps" }

func (r MaxDeps) Check(n graph.PackageNode, opts lint.Options) *lint.Result {
	count, ok := r.Annotate(n, opts)
	if !ok {
		return nil
	}
	limit := opts.Int("max", 20)
	if c := count.(int); c > limit {
		return lint.Flag(fmt.Sprintf("%d dependencies exceed the maximum of %d", c, limit))
	}
	return nil
}

func (MaxDeps) Annotate(n graph.PackageNode, opts lint.Options) (any, bool) {
	m := deps.ManifestOf(n.Manifest)
	if n.IsExternal() || m == nil {
		return nil, false
	}
	kind, err := deps.ParseDependencyKind(opts.String("kind", ""))
	if err != nil {
		kind = deps.KindDependencies
	}
	return len(kind.Field(m)), true
}

// NoExternal flags dependencies that bypass the registry.
type NoExternal struct{}

func (NoExternal) ID() string { return "no-external" }

func (NoExternal) Check(n graph.PackageNode, _ lint.Options) *lint.Result {
	if !n.IsExternal() {
		return nil
	}
	return lint.Flag(fmt.Sprintf("resolved outside the registry from %s", n.Version))
}

// Banned flags packages whose name is listed in "packages".
type Banned struct{}

func (Banned) ID() string { return "banned" }

func (Banned) Check(n graph.PackageNode, opts lint.Options) *lint.Result {
	if slices.Contains(opts.Strings("packages"), n.Name) {
		return lint.Flag(fmt.Sprintf("%s is banned", n.Name))
	}
	return nil
}

// Deprecated flags versions the registry marks deprecated.
type Deprecated struct{}

func (Deprecated) ID() string { return "deprecated" }

func (Deprecated) Check(n graph.PackageNode, _ lint.Options) *lint.Result {
	m := deps.ManifestOf(n.Manifest)
	if m == nil || m.Deprecated == "" {
		return nil
	}
	return lint.Flag(m.Deprecated)
}

// NoPrerelease flags registry packages resolved to a prerelease version.
type NoPrerelease struct{}

func (NoPrerelease) ID() string { return "no-prerelease" }

func (NoPrerelease) Check(n graph.PackageNode, _ lint.Options) *lint.Result {
	if n.IsExternal() {
		return nil
	}
	v, err := semver.NewVersion(n.Version)
	if err != nil || v.Prerelease() == "" {
		return nil
	}
	return lint.Flag(fmt.Sprintf("prerelease version %s", n.Version))
}

// License flags registry packages whose license is not in "allow". With no
// allow list every license passes. The license is annotated on every node.
type License struct{}

func (License) ID() string { return "license" }

func (r License) Check(n graph.PackageNode, opts lint.Options) *lint.Result {
	allow := opts.Strings("allow")
	if len(allow) == 0 || n.IsExternal() {
		return nil
	}
	v, ok := r.Annotate(n, opts)
	if !ok {
		return nil
	}
	license := v.(string)
	if license == "" {
		return lint.Flag("no license declared")
	}
	if slices.ContainsFunc(allow, func(a string) bool { return strings.EqualFold(a, license) }) {
		return nil
	}
	return lint.Flag(fmt.Sprintf("license %s is not allowed", license))
}

func (License) Annotate(n graph.PackageNode, _ lint.Options) (any, bool) {
	m := deps.ManifestOf(n.Manifest)
	if m == nil {
		return nil, false
	}
	return m.License, true
}
