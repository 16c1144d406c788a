package lint

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/deplint/pkg/graph"
	"github.com/matzehuels/deplint/pkg/pipeline"
	"github.com/matzehuels/deplint/pkg/session"
)

const pathDivider = " → "

// Reporter prints findings grouped by tree position.
type Reporter struct {
	w       io.Writer
	configs []RuleConfig
	logger  pipeline.Logger
	styles  styles

	last *Findings
}

type styles struct {
	ancestor lipgloss.Style
	target   lipgloss.Style
	warn     lipgloss.Style
	err      lipgloss.Style
}

// NewReporter returns a reporter for sessions created from configs, in the
// same order. Colors follow the capabilities of w.
func NewReporter(w io.Writer, configs []RuleConfig, logger pipeline.Logger) *Reporter {
	if logger == nil {
		logger = pipeline.NopLogger{}
	}
	r := lipgloss.NewRenderer(w)
	return &Reporter{
		w:       w,
		configs: configs,
		logger:  logger,
		styles: styles{
			ancestor: r.NewStyle().Foreground(lipgloss.Color("8")),
			target:   r.NewStyle().Foreground(lipgloss.Color("6")),
			warn:     r.NewStyle().Foreground(lipgloss.Color("3")),
			err:      r.NewStyle().Foreground(lipgloss.Color("1")),
		},
	}
}

func (r *Reporter) Name() string { return "lint" }

// Findings returns the result of the last Report call, or nil.
func (r *Reporter) Findings() *Findings { return r.last }

// Report implements [pipeline.Reporter].
func (r *Reporter) Report(_ context.Context, sessions []*session.AnalysisSession) error {
	if len(sessions) != len(r.configs) {
		r.logger.Warn(fmt.Sprintf("[Warning] Length mismatch: %d sessions vs %d ruleConfigs.", len(sessions), len(r.configs)))
	}

	f, err := Collect(sessions, r.configs)
	if err != nil {
		return err
	}
	r.last = f

	if len(sessions) > 0 {
		g, err := sessions[0].Graph()
		if err != nil {
			return err
		}
		r.printGrouped(g, f)
	}

	_, err = fmt.Fprintf(r.w, "Found %s and %s.\n",
		r.styles.warn.Render(fmt.Sprintf("%d warning(s)", f.Warnings)),
		r.styles.err.Render(fmt.Sprintf("%d error(s)", f.Errors)))
	return err
}

func (r *Reporter) printGrouped(g *graph.DependencyGraph, f *Findings) {
	graph.NewTreeView(g).Walk(func(n graph.PackageNode, c graph.WalkContext) {
		findings := f.ByNode[n.ID]
		if len(findings) == 0 {
			return
		}

		parts := make([]string, 0, len(c.Path)+1)
		for _, a := range c.Path {
			parts = append(parts, r.styles.ancestor.Render(a.Name))
		}
		parts = append(parts, r.styles.target.Render(n.Label()))
		fmt.Fprintln(r.w, strings.Join(parts, pathDivider))

		for _, fd := range findings {
			label := r.severityStyle(fd.Severity).Render(severityLabel(fd.Severity))
			if fd.Message != "" {
				fmt.Fprintf(r.w, "  %s %s — %s\n", label, fd.RuleID, fd.Message)
			} else {
				fmt.Fprintf(r.w, "  %s %s\n", label, fd.RuleID)
			}
		}
		fmt.Fprintln(r.w)
	})
}

func (r *Reporter) severityStyle(s Severity) lipgloss.Style {
	if s == SeverityError {
		return r.styles.err
	}
	return r.styles.warn
}

var labelWidth = func() int {
	w := 0
	for _, s := range Severities {
		w = max(w, len("["+string(s)+"]"))
	}
	return w
}()

func severityLabel(s Severity) string {
	label := "[" + string(s) + "]"
	return label + strings.Repeat(" ", labelWidth-len(label))
}
