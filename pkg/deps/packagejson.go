package deps

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/matzehuels/deplint/pkg/graph"
)

// LocalVersion stands in for the version of a package.json without one.
const LocalVersion = "0.0.0-local"

// ReadPackageJSON reads a local package.json and returns a root node for
// [GraphBuilder.BuildFrom]. The node's id uses the file's name and version.
func ReadPackageJSON(path string) (graph.PackageNode, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return graph.PackageNode{}, err
	}

	var pkg packageFile
	if err := json.Unmarshal(data, &pkg); err != nil {
		return graph.PackageNode{}, fmt.Errorf("parse %s: %w", path, err)
	}
	if pkg.Name == "" {
		pkg.Name = "package.json"
	}
	if pkg.Version == "" {
		pkg.Version = LocalVersion
	}

	m := &Manifest{
		Name:                 pkg.Name,
		Version:              pkg.Version,
		Description:          pkg.Description,
		Dependencies:         pkg.Dependencies,
		DevDependencies:      pkg.DevDependencies,
		PeerDependencies:     pkg.PeerDependencies,
		OptionalDependencies: pkg.OptionalDependencies,
	}
	return graph.PackageNode{
		ID:       graph.NewID(m.Name, m.Version),
		Name:     m.Name,
		Version:  m.Version,
		Source:   graph.SourceRegistry,
		Manifest: m,
	}, nil
}

type packageFile struct {
	Name                 string            `json:"name"`
	Version              string            `json:"version"`
	Description          string            `json:"description"`
	Dependencies         map[string]string `json:"dependencies"`
	DevDependencies      map[string]string `json:"devDependencies"`
	PeerDependencies     map[string]string `json:"peerDependencies"`
	OptionalDependencies map[string]string `json:"optionalDependencies"`
}
