package lint

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	apperrors "github.com/matzehuels/deplint/pkg/errors"
)

// DefaultConfigFiles are looked up, in order, when no config path is given.
var DefaultConfigFiles = []string{".deplint.toml", ".deplint.yaml", ".deplint.yml"}

// File is the on-disk lint configuration.
//
//	registry = "https://registry.npmjs.org"
//	depth = 5
//	kind = "dependencies"
//
//	[[rules]]
//	rule = "max-deps"
//	severity = "error"
//	[rules.options]
//	max = 20
type File struct {
	Registry string     `toml:"registry" yaml:"registry"`
	Depth    *int       `toml:"depth" yaml:"depth"`
	Kind     string     `toml:"kind" yaml:"kind"`
	Rules    []RuleSpec `toml:"rules" yaml:"rules"`
}

// RuleSpec is one rule entry of a [File] before its rule id is looked up.
type RuleSpec struct {
	Rule     string         `toml:"rule" yaml:"rule" json:"rule"`
	Severity string         `toml:"severity" yaml:"severity" json:"severity"`
	Options  map[string]any `toml:"options" yaml:"options" json:"options,omitempty"`
}

// LoadFile reads a config file, choosing the decoder by extension.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseFile(filepath.Ext(path), data)
}

// ParseFile decodes a config document. ext is ".toml", ".yaml" or ".yml".
func ParseFile(ext string, data []byte) (*File, error) {
	var f File
	switch strings.ToLower(ext) {
	case ".toml":
		if _, err := toml.NewDecoder(bytes.NewReader(data)).Decode(&f); err != nil {
			return nil, apperrors.Wrap(apperrors.ErrCodeInvalidConfig, err, "decode toml")
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, apperrors.Wrap(apperrors.ErrCodeInvalidConfig, err, "decode yaml")
		}
	default:
		return nil, apperrors.New(apperrors.ErrCodeInvalidConfig, "unsupported config format %q", ext)
	}
	return &f, nil
}

// FindFile returns the first default config file present in dir, or "".
func FindFile(dir string) string {
	for _, name := range DefaultConfigFiles {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err == nil {
			return p
		} else if !errors.Is(err, fs.ErrNotExist) {
			return p
		}
	}
	return ""
}

// Resolve turns specs into rule configs. Unknown rule ids and severities fail
// with INVALID_CONFIG.
func Resolve(specs []RuleSpec, reg *Registry) ([]RuleConfig, error) {
	configs := make([]RuleConfig, 0, len(specs))
	for i, spec := range specs {
		rule, ok := reg.Lookup(spec.Rule)
		if !ok {
			return nil, apperrors.New(apperrors.ErrCodeInvalidConfig,
				"rules[%d]: unknown rule %q (available: %s)", i, spec.Rule, strings.Join(reg.IDs(), ", "))
		}
		sev, err := ParseSeverity(spec.Severity)
		if err != nil {
			return nil, fmt.Errorf("rules[%d] %s: %w", i, spec.Rule, err)
		}
		configs = append(configs, RuleConfig{Rule: rule, Severity: sev, Options: Options(spec.Options)})
	}
	return configs, nil
}
