package cli

import (
	"context"
	"slices"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/spf13/cobra"

	"github.com/matzehuels/deplint/pkg/deps"
	"github.com/matzehuels/deplint/pkg/report"
)

var (
	treeFormats = []string{formatText, formatJSON, report.FormatDOT, report.FormatSVG}
	lintFormats = []string{formatText, formatJSON}
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for deplint.

Besides commands and flags, completions offer dependency kinds, output
formats, and the dist-tags and versions the registry publishes for the
package named on the command line.

  $ source <(deplint completion bash)
  $ deplint completion zsh > "${fpath[1]}/_deplint"
  $ deplint completion fish | source
  PS> deplint completion powershell | Out-String | Invoke-Expression`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}

	return cmd
}

// completeTarget completes the [package] [range] arguments of tree and lint.
// The range is completed from the package's dist-tags, then its versions
// newest first. Package names are not completed.
func (c *CLI) completeTarget(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) != 1 || cmd.Flags().Changed("manifest") {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	p, err := c.newFetcher(c.registryURL("")).FetchPackument(ctx, args[0])
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp | cobra.ShellCompDirectiveError
	}
	return rangeCandidates(p, toComplete), cobra.ShellCompDirectiveNoFileComp | cobra.ShellCompDirectiveKeepOrder
}

func rangeCandidates(p *deps.Packument, prefix string) []string {
	var out []string

	tags := make([]string, 0, len(p.DistTags))
	for tag := range p.DistTags {
		tags = append(tags, tag)
	}
	slices.Sort(tags)
	for _, tag := range tags {
		if strings.HasPrefix(tag, prefix) {
			out = append(out, tag+"\t"+p.DistTags[tag])
		}
	}

	versions := make([]*semver.Version, 0, len(p.Versions))
	for raw := range p.Versions {
		if v, err := semver.StrictNewVersion(raw); err == nil && strings.HasPrefix(raw, prefix) {
			versions = append(versions, v)
		}
	}
	slices.SortFunc(versions, func(a, b *semver.Version) int { return b.Compare(a) })
	for _, v := range versions {
		out = append(out, v.Original())
	}
	return out
}

func completeKinds(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	out := make([]string, len(deps.Kinds))
	for i, k := range deps.Kinds {
		out[i] = string(k)
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}

func registerFormatCompletion(cmd *cobra.Command, formats []string) {
	_ = cmd.RegisterFlagCompletionFunc("format", cobra.FixedCompletions(formats, cobra.ShellCompDirectiveNoFileComp))
}
