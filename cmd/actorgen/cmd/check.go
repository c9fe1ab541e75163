package cmd

import (
	"github.com/spf13/cobra"

	"github.com/teranos/actorgen/errors"
)

func newCheckCmd(a *app) *cobra.Command {
	var flags genFlags

	cmd := &cobra.Command{
		Use:   "check [files|packages]",
		Short: "Check that generated files are up to date",
		Long: `Regenerate in memory and compare with the files on disk.

The generator version line of the header is ignored, so upgrading actorgen
alone does not make files stale.

Exit codes:
  0 - Generated files are up to date
  1 - Files are missing or out of date, or sources have diagnostics

Examples:
  actorgen check ./...`,
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := a.run(cmd.Context(), &flags, args)
			if err != nil {
				return err
			}
			if err := reportDiagnostics(cmd.ErrOrStderr(), report); err != nil {
				return err
			}

			stale, err := report.Stale()
			if err != nil {
				return err
			}
			if len(stale) == 0 {
				success(cmd.OutOrStdout(), "generated files are up to date")
				return nil
			}

			for _, s := range stale {
				failure(cmd.OutOrStdout(), "%s (%s)", relPath(a.dir, s.Output), s.Reason)
			}
			return errors.WithHint(
				errors.Wrapf(errors.ErrStale, "%d %s", len(stale), plural(len(stale), "file", "files")),
				"run 'actorgen generate' and commit the result")
		},
	}

	flags.register(cmd)
	return cmd
}
