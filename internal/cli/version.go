package cli

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/matzehuels/deplint/pkg/buildinfo"
)

func (c *CLI) versionCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info := buildinfo.Current()
			out := cmd.OutOrStdout()
			if asJSON {
				return json.NewEncoder(out).Encode(info)
			}
			printKeyValue(out, "version", info.Version)
			printKeyValue(out, "commit", info.Commit)
			printKeyValue(out, "built", info.Date)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")

	return cmd
}
