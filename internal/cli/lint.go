package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	apperrors "github.com/matzehuels/deplint/pkg/errors"
	"github.com/matzehuels/deplint/pkg/lint"
	"github.com/matzehuels/deplint/pkg/lint/rules"
	"github.com/matzehuels/deplint/pkg/pipeline"
)

// lintOpts holds the command-line flags for the lint command.
type lintOpts struct {
	target targetOpts
	config string // config file (default: first of lint.DefaultConfigFiles)
	format string // text or json
}

func (c *CLI) lintCommand() *cobra.Command {
	opts := lintOpts{format: formatText}

	cmd := &cobra.Command{
		Use:   "lint [package] [range]",
		Short: "Check every package in the dependency tree against lint rules",
		Long: `Resolve a package and check every package in its dependency tree against
the rules of a config file (.deplint.toml, .deplint.yaml or .deplint.yml in
the working directory unless --config is given).

Findings are grouped by their position in the tree. The command exits with
status 1 when at least one finding has severity "error".

Available rules: ` + strings.Join(rules.Registry().IDs(), ", "),
		Example: `  deplint lint express
  deplint lint --manifest package.json --config ci/deplint.yaml`,
		Args:              cobra.MaximumNArgs(2),
		ValidArgsFunction: c.completeTarget,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLint(cmd, args, opts)
		},
	}

	opts.target.register(cmd)
	cmd.Flags().StringVarP(&opts.config, "config", "c", "", "lint config file")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: text (default), json")
	_ = cmd.MarkFlagFilename("config", "toml", "yaml", "yml")
	registerFormatCompletion(cmd, lintFormats)

	return cmd
}

func (c *CLI) runLint(cmd *cobra.Command, args []string, opts lintOpts) error {
	ctx := cmd.Context()

	if !slices.Contains(lintFormats, opts.format) {
		return apperrors.New(apperrors.ErrCodeInvalidInput, "unsupported format %q (want text or json)", opts.format)
	}

	path := opts.config
	if path == "" {
		if path = lint.FindFile("."); path == "" {
			return apperrors.New(apperrors.ErrCodeInvalidConfig,
				"no lint config found (looked for %s)", strings.Join(lint.DefaultConfigFiles, ", "))
		}
	}
	file, err := lint.LoadFile(path)
	if err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	configs, err := lint.Resolve(file.Rules, rules.Registry())
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if len(configs) == 0 {
		return apperrors.New(apperrors.ErrCodeInvalidConfig, "%s: no rules configured", path)
	}
	c.Logger.Debug("Loaded lint config", "path", path, "rules", len(configs))

	t, err := opts.target.resolve(cmd, args, file)
	if err != nil {
		return err
	}

	fetcher := c.newFetcher(c.registryURL(file.Registry))
	logger := newProgressLogger(ctx, c.Logger, cmd.ErrOrStderr(), c.Interactive)
	sessions := lint.NewSessionFactory(fetcher, logger).CreateSessions(t, configs)

	var text io.Writer = cmd.OutOrStdout()
	if opts.format == formatJSON {
		text = io.Discard
	}
	rep := lint.NewReporter(text, configs, logger)

	prog := newProgress(c.Logger)
	if err := pipeline.NewEngine(logger, rep).Run(ctx, sessions); err != nil {
		return err
	}
	findings := rep.Findings()
	prog.done(fmt.Sprintf("Checked %s against %d rule(s), %d finding(s)",
		sessions[0].Meta().Label(), len(configs), findings.Total()))

	if opts.format == formatJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(findings); err != nil {
			return err
		}
	}
	if findings.Errors > 0 {
		return lint.ErrFindings
	}
	return nil
}
