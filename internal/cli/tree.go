package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/deplint/pkg/pipeline"
	"github.com/matzehuels/deplint/pkg/report"
	"github.com/matzehuels/deplint/pkg/session"
)

const (
	formatText = "text"
	formatJSON = "json"
)

// treeOpts holds the command-line flags for the tree command.
type treeOpts struct {
	target   targetOpts
	format   string // text, json, dot or svg
	output   string // output file (stdout if empty)
	annotate bool   // show annotations next to each package
}

func (c *CLI) treeCommand() *cobra.Command {
	opts := treeOpts{format: formatText}

	cmd := &cobra.Command{
		Use:   "tree [package] [range]",
		Short: "Print the dependency tree of a package",
		Long: `Resolve a package against the registry and print its dependency tree.

The range defaults to the "latest" dist-tag. Shared dependencies are shown
under every package that depends on them; a dependency that leads back to
one of its own ancestors is marked as a cycle and not expanded again.`,
		Example: `  deplint tree express
  deplint tree react ^18.0.0 --depth 2
  deplint tree --manifest package.json --kind dev
  deplint tree express --format svg -o express.svg`,
		Args:              cobra.MaximumNArgs(2),
		ValidArgsFunction: c.completeTarget,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runTree(cmd, args, opts)
		},
	}

	opts.target.register(cmd)
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: text (default), json, dot, svg")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().BoolVar(&opts.annotate, "annotate", false, "annotate each package with its dependency count")
	registerFormatCompletion(cmd, treeFormats)

	return cmd
}

func (c *CLI) runTree(cmd *cobra.Command, args []string, opts treeOpts) error {
	ctx := cmd.Context()

	t, err := opts.target.resolve(cmd, args, nil)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if opts.output != "" {
		f, err := os.Create(opts.output)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}
	rep, err := newTreeReporter(out, opts.format, opts.annotate)
	if err != nil {
		return err
	}

	fetcher := c.newFetcher(c.registryURL(""))
	logger := newProgressLogger(ctx, c.Logger, cmd.ErrOrStderr(), c.Interactive)

	var gp *pipeline.GraphProcessor
	if t.Local != nil {
		gp = pipeline.NewLocalGraphProcessor(fetcher, *t.Local, logger)
	} else {
		gp = pipeline.NewGraphProcessor(fetcher, logger)
	}
	procs := []session.Processor{gp}
	if opts.annotate {
		procs = append(procs, pipeline.CountAnnotator{})
	}
	s := session.New(session.Meta{
		Target:         t.Name,
		Requested:      t.Requested,
		Depth:          t.Depth,
		DependencyKind: t.Kind,
	}, procs...)

	prog := newProgress(c.Logger)
	if err := pipeline.NewEngine(logger, rep).Run(ctx, []*session.AnalysisSession{s}); err != nil {
		return err
	}

	g, err := s.Graph()
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Resolved %s", s.Meta().Label()))
	if opts.output != "" {
		stderr := cmd.ErrOrStderr()
		printStats(stderr, g.NodeCount(), g.EdgeCount(), g.HasCycle())
		printFile(stderr, opts.output)
	}
	return nil
}

func newTreeReporter(w io.Writer, format string, annotate bool) (pipeline.Reporter, error) {
	switch format {
	case formatText, "":
		t := report.NewTree(w)
		t.Annotations = annotate
		return t, nil
	case formatJSON:
		return report.NewJSON(w), nil
	default:
		d, err := report.NewDOT(w, format)
		if err != nil {
			return nil, err
		}
		return d, nil
	}
}
