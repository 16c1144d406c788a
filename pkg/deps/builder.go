package deps

import (
	"context"
	"fmt"

	"github.com/matzehuels/deplint/pkg/graph"
)

// Unlimited disables the depth limit.
const Unlimited = -1

// Options configures a graph build.
type Options struct {
	// MaxDepth bounds expansion: 0 keeps only the root, 1 adds its direct
	// dependencies, and so on. Negative means unlimited.
	MaxDepth int
	// Kind selects the manifest field to expand. Empty means dependencies.
	Kind DependencyKind
	// Logger receives progress lines (optional).
	Logger func(string, ...any)
}

// WithDefaults returns a copy of Options with zero values replaced by defaults.
func (o Options) WithDefaults() Options {
	opts := o
	if opts.Kind == "" {
		opts.Kind = KindDependencies
	}
	if opts.Logger == nil {
		opts.Logger = func(string, ...any) {}
	}
	return opts
}

// GraphBuilder expands manifests into dependency graphs.
type GraphBuilder struct {
	resolver *ManifestResolver
}

// NewGraphBuilder returns a builder that resolves through r.
func NewGraphBuilder(r *ManifestResolver) *GraphBuilder {
	return &GraphBuilder{resolver: r}
}

// Build resolves target@rng and expands it. Any resolution error aborts the
// build and no graph is returned.
func (b *GraphBuilder) Build(ctx context.Context, target, rng string, opts Options) (*graph.DependencyGraph, error) {
	root, err := b.resolver.Resolve(ctx, target, rng)
	if err != nil {
		return nil, fmt.Errorf("resolve %s@%s: %w", target, rng, err)
	}
	return b.BuildFrom(ctx, registryNode(target, root), opts)
}

// BuildFrom expands an already-resolved root node, such as one read from a
// local package.json. The root's Manifest must be a *Manifest.
func (b *GraphBuilder) BuildFrom(ctx context.Context, root graph.PackageNode, opts Options) (*graph.DependencyGraph, error) {
	opts = opts.WithDefaults()
	g := graph.New(root)
	c := &crawl{ctx: ctx, opts: opts, resolver: b.resolver, g: g}
	if err := c.expand(root.ID, ManifestOf(root.Manifest), 0); err != nil {
		return nil, err
	}
	return g, nil
}

type crawl struct {
	ctx      context.Context
	opts     Options
	resolver *ManifestResolver
	g        *graph.DependencyGraph
}

func (c *crawl) expand(parent graph.PackageID, m *Manifest, depth int) error {
	if c.opts.MaxDepth >= 0 && depth >= c.opts.MaxDepth {
		return nil
	}

	for _, dep := range c.opts.Kind.Select(m) {
		if err := c.ctx.Err(); err != nil {
			return err
		}

		if IsExternal(dep.Range) {
			n := externalNode(dep)
			c.g.AddNode(n)
			if err := c.g.AddEdge(parent, n.ID); err != nil {
				return err
			}
			continue
		}

		c.opts.Logger("resolving %s@%s", dep.Name, dep.Range)
		dm, err := c.resolver.Resolve(c.ctx, dep.Name, dep.Range)
		if err != nil {
			return fmt.Errorf("resolve %s@%s (required by %s): %w", dep.Name, dep.Range, parent, err)
		}

		n := registryNode(dep.Name, dm)
		if !c.g.AddNode(n) {
			if err := c.g.AddEdge(parent, n.ID); err != nil {
				return err
			}
			continue
		}
		if err := c.g.AddEdge(parent, n.ID); err != nil {
			return err
		}
		if err := c.expand(n.ID, dm, depth+1); err != nil {
			return err
		}
	}
	return nil
}

func registryNode(name string, m *Manifest) graph.PackageNode {
	return graph.PackageNode{
		ID:       graph.NewID(name, m.Version),
		Name:     name,
		Version:  m.Version,
		Source:   graph.SourceRegistry,
		Manifest: m,
	}
}

func externalNode(dep Dependency) graph.PackageNode {
	return graph.PackageNode{
		ID:       graph.NewID(dep.Name, dep.Range),
		Name:     dep.Name,
		Version:  dep.Range,
		Source:   graph.SourceExternal,
		Manifest: &Manifest{Name: dep.Name, Version: dep.Range},
	}
}
