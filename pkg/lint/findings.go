package lint

import (
	"errors"

	"github.com/matzehuels/deplint/pkg/graph"
	"github.com/matzehuels/deplint/pkg/session"
)

// ErrFindings is returned by callers that turn error-severity findings into
// a failed exit.
var ErrFindings = errors.New("lint found errors")

// Finding is one rule failure on one node.
type Finding struct {
	RuleID   string   `json:"rule"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message,omitempty"`
}

// Findings is the aggregated result of a lint run.
type Findings struct {
	ByNode   map[graph.PackageID][]Finding `json:"findings"`
	Warnings int                           `json:"warnings"`
	Errors   int                           `json:"errors"`
}

// Total returns the number of findings.
func (f *Findings) Total() int { return f.Warnings + f.Errors }

// Collect checks every node of each session against its positionally
// paired config. Pairs beyond the shorter of the two lists are ignored.
func Collect(sessions []*session.AnalysisSession, configs []RuleConfig) (*Findings, error) {
	out := &Findings{ByNode: make(map[graph.PackageID][]Finding)}

	for i, s := range sessions {
		if i >= len(configs) {
			break
		}
		c := configs[i]
		g, err := s.Graph()
		if err != nil {
			return nil, err
		}
		for _, n := range g.Nodes() {
			res := c.Rule.Check(n, c.Options)
			if res == nil {
				continue
			}
			out.ByNode[n.ID] = append(out.ByNode[n.ID], Finding{
				RuleID:   c.Rule.ID(),
				Severity: c.Severity,
				Message:  res.Message(),
			})
			if c.Severity == SeverityError {
				out.Errors++
			} else {
				out.Warnings++
			}
		}
	}
	return out, nil
}
