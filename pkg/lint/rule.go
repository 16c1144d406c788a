package lint

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	apperrors "github.com/matzehuels/deplint/pkg/errors"
	"github.com/matzehuels/deplint/pkg/graph"
)

// Rule checks a single node.
type Rule interface {
	ID() string
	// Check returns nil when the node passes.
	Check(node graph.PackageNode, opts Options) *Result
}

// Annotator is implemented by rules that also record a per-node value
// during the annotate phase. ok=false stores nothing.
type Annotator interface {
	Annotate(node graph.PackageNode, opts Options) (value any, ok bool)
}

// Result is a failed check.
type Result struct {
	Messages []string
}

// Flag returns a failed check with optional messages.
func Flag(messages ...string) *Result {
	return &Result{Messages: messages}
}

// Message joins the result's messages with newlines.
func (r *Result) Message() string {
	return strings.Join(r.Messages, "\n")
}

// RuleFunc adapts a check function to [Rule].
type RuleFunc struct {
	Name string
	Fn   func(node graph.PackageNode, opts Options) *Result
}

func (r RuleFunc) ID() string { return r.Name }

func (r RuleFunc) Check(node graph.PackageNode, opts Options) *Result {
	return r.Fn(node, opts)
}

// Registry maps rule ids to rules.
type Registry struct {
	rules map[string]Rule
}

// NewRegistry returns a registry holding rules.
func NewRegistry(rules ...Rule) *Registry {
	r := &Registry{rules: make(map[string]Rule, len(rules))}
	for _, rule := range rules {
		r.Register(rule)
	}
	return r
}

// Register adds rule, replacing any rule with the same id.
func (r *Registry) Register(rule Rule) {
	r.rules[rule.ID()] = rule
}

// Lookup returns the rule with the given id.
func (r *Registry) Lookup(id string) (Rule, bool) {
	rule, ok := r.rules[id]
	return rule, ok
}

// IDs returns the registered rule ids in sorted order.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.rules))
	for id := range r.rules {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Options are rule-specific settings decoded from a config file.
type Options map[string]any

// Int returns an integer option. TOML decodes integers as int64 and JSON
// as float64; both are accepted.
func (o Options) Int(key string, def int) int {
	switch v := o[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return def
}

// Bool returns a boolean option.
func (o Options) Bool(key string, def bool) bool {
	if v, ok := o[key].(bool); ok {
		return v
	}
	return def
}

// String returns a string option.
func (o Options) String(key, def string) string {
	if v, ok := o[key].(string); ok {
		return v
	}
	return def
}

// Strings returns a string list option. A single string is a one-element list.
func (o Options) Strings(key string) []string {
	switch v := o[key].(type) {
	case string:
		return []string{v}
	case []string:
		return slices.Clone(v)
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			out = append(out, fmt.Sprint(item))
		}
		return out
	}
	return nil
}

// Severity is the level a finding is reported at.
type Severity string

const (
	SeverityWarn  Severity = "warn"
	SeverityError Severity = "error"
)

// Severities lists the recognized severities.
var Severities = []Severity{SeverityWarn, SeverityError}

// ParseSeverity validates s. "warning" is accepted as warn.
func ParseSeverity(s string) (Severity, error) {
	switch strings.ToLower(s) {
	case "warn", "warning":
		return SeverityWarn, nil
	case "error":
		return SeverityError, nil
	}
	return "", apperrors.New(apperrors.ErrCodeInvalidConfig, "unknown severity %q (want warn or error)", s)
}

// RuleConfig binds a rule to a severity and options.
type RuleConfig struct {
	Rule     Rule
	Severity Severity
	Options  Options
}

// AnnotationKey is the session annotation key a rule's annotations use.
func AnnotationKey(ruleID string) string { return "lint." + ruleID }
