// Package deps turns a package name and version range into a
// [graph.DependencyGraph] by querying the npm registry.
//
// # Overview
//
// Resolution has two layers:
//
//  1. [ManifestResolver] fetches the full metadata document (packument) for
//     a package name at most once per instance and picks the manifest
//     matching a range: a dist-tag first, otherwise the highest published
//     version satisfying the range.
//  2. [GraphBuilder] expands a root manifest depth-first. Registry
//     dependencies are resolved and recursed into; non-registry specifiers
//     (git, file, link, workspace, tarball URLs) become external leaves.
//
// A resolver must not outlive one analysis run. Create a fresh one per run so
// that runs never observe each other's registry responses:
//
//	b := deps.NewGraphBuilder(deps.NewManifestResolver(npmClient))
//	g, err := b.Build(ctx, "express", "^4.18.0", deps.Options{
//	    MaxDepth: deps.Unlimited,
//	    Kind:     deps.KindDependencies,
//	})
//
// # Dependency Kinds
//
// [DependencyKind] selects which manifest field is expanded: dependencies,
// devDependencies, peerDependencies or optionalDependencies. Entries are
// expanded in name order.
package deps
