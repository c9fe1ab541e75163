package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/teranos/actorgen/errors"
	"github.com/teranos/actorgen/version"
)

func newVersionCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show actorgen version information",
		Long:  `Display version, build time, commit hash, and platform information for the actorgen binary.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			info := version.Get()

			if jsonOutput {
				output, err := json.MarshalIndent(info, "", "  ")
				if err != nil {
					return errors.Wrap(err, "failed to format version as JSON")
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(output))
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), info.String())
			return nil
		},
	}

	cmd.Flags().BoolVarP(&jsonOutput, "json", "j", false, "Output version info as JSON")
	return cmd
}
