package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/teranos/actorgen/driver"
	"github.com/teranos/actorgen/logger"
	"github.com/teranos/actorgen/version"
)

// genFlags are shared by generate, check and watch
type genFlags struct {
	shape string
	tags  []string
}

func (f *genFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.shape, "shape", "", "Output shape: native or future (default: from config, then build tags)")
	cmd.Flags().StringSliceVar(&f.tags, "tags", nil, "Build tags; the future tag among them selects the future shape")
}

// run resolves the shape and generates in memory
func (a *app) run(ctx context.Context, flags *genFlags, patterns []string) (*driver.Report, error) {
	shape, source, err := a.cfg.ResolveShape(flags.shape, flags.tags)
	if err != nil {
		return nil, err
	}
	logger.Debugw("Resolved shape",
		logger.FieldShape, shape,
		"source", source)

	return driver.Run(ctx, driver.Options{
		Config:      a.cfg,
		Dir:         a.dir,
		Shape:       shape,
		ShapeSource: source,
		Tags:        flags.tags,
		Version:     version.Get().Version,
	}, patterns...)
}

func newGenerateCmd(a *app) *cobra.Command {
	var flags genFlags
	var stdout bool

	cmd := &cobra.Command{
		Use:   "generate [files|packages]",
		Short: "Generate actor implementations",
		Long: `Generate <file>_gen.go for every file declaring //actor:gen types.

Arguments ending in .go name files; anything else is a package pattern.
With no arguments the package in the current directory is used.

All diagnostics are reported before anything is written; if there is any,
no file is written and the exit status is non-zero.

Examples:
  actorgen generate                      # Current package
  actorgen generate ./...                # Every package in the module
  actorgen generate counter_actor.go     # One file
  actorgen generate --shape future ./... # Future shape
  //go:generate go run github.com/teranos/actorgen/cmd/actorgen generate counter_actor.go`,
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := a.run(cmd.Context(), &flags, args)
			if err != nil {
				return err
			}
			if err := reportDiagnostics(cmd.ErrOrStderr(), report); err != nil {
				return err
			}

			if stdout {
				for _, f := range report.Files {
					if f.HasOutput() {
						fmt.Fprint(cmd.OutOrStdout(), string(f.Result.Source))
					}
				}
				return nil
			}

			written, err := report.Write()
			if err != nil {
				return err
			}
			for _, path := range written {
				success(cmd.OutOrStdout(), "%s", relPath(a.dir, path))
			}
			if len(written) == 0 {
				success(cmd.OutOrStdout(), "generated files are up to date (%d %s)",
					len(report.Actors()), plural(len(report.Actors()), "actor", "actors"))
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&stdout, "stdout", false, "Print generated source instead of writing files")
	return cmd
}
