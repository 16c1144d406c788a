package graph

// PackageID identifies a node within one graph: "name@version" for registry
// packages, "name@range" for external ones.
type PackageID = string

// Source records where a node's manifest came from.
type Source string

const (
	SourceRegistry Source = "registry"
	SourceExternal Source = "external"
)

// PackageNode is one package in the graph. Nodes are values and are never
// modified after they are added.
type PackageNode struct {
	ID      PackageID
	Name    string
	Version string // resolved version, or the raw specifier for external nodes
	Source  Source

	// Manifest is the registry manifest the node was built from, or a stub
	// with no dependencies for external nodes. The graph does not inspect it.
	Manifest any
}

// NewID returns the canonical id for a package name and version.
func NewID(name, version string) PackageID {
	return name + "@" + version
}

// IsExternal reports whether the node stands for a non-registry dependency.
func (n PackageNode) IsExternal() bool { return n.Source == SourceExternal }

// Label is the human-readable "name@version" form.
func (n PackageNode) Label() string { return n.Name + "@" + n.Version }
