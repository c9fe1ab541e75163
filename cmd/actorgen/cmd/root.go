// Package cmd implements the actorgen command line.
package cmd

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/actorgen/config"
	"github.com/teranos/actorgen/errors"
	"github.com/teranos/actorgen/logger"
)

// app holds state shared by all commands of one invocation
type app struct {
	cfg       *config.Config
	dir       string
	verbosity int
	logJSON   bool
	noColor   bool
}

// NewRootCmd builds the actorgen command tree
func NewRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "actorgen",
		Short: "Generate actor implementations from //actor:gen directives",
		Long: `actorgen generates actor boilerplate from annotated Go types.

An annotated type names its message, state and optional argument types:

  //actor:gen msg=Op, state=int32
  //actor:prestart 0, nil
  //actor:handle { *state++; return nil }
  type Counter struct{}

actorgen writes <file>_gen.go with OnStart and HandleMsg built from the
bodies, plus PreStart/Handle implementing actor.Actor (or actor.FutureActor
with --shape future) and a compile-time assertion.

Examples:
  actorgen generate ./...          # Generate for every package
  actorgen check ./...             # Fail if generated files are stale (CI)
  actorgen watch .                 # Regenerate on save
  actorgen list --format json ./...`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if a.noColor {
				pterm.DisableColor()
			}

			cfg, err := config.Load(a.dir)
			if err != nil {
				return err
			}
			a.cfg = cfg

			if err := logger.Initialize(a.logJSON || cfg.Log.JSON, a.verbosity); err != nil {
				return errors.Wrap(err, "failed to initialize logger")
			}
			if cfg.Path != "" {
				logger.Debugw("Using config file", logger.FieldFile, cfg.Path)
			}
			return nil
		},
	}

	root.PersistentFlags().CountVarP(&a.verbosity, "verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv, -vvv)")
	root.PersistentFlags().BoolVar(&a.logJSON, "log-json", false, "Write logs as JSON lines")
	root.PersistentFlags().BoolVar(&a.noColor, "no-color", false, "Disable coloured output")
	root.PersistentFlags().StringVarP(&a.dir, "dir", "C", "", "Run as if started in this directory")

	root.AddCommand(
		newGenerateCmd(a),
		newCheckCmd(a),
		newWatchCmd(a),
		newListCmd(a),
		newConfigCmd(a),
		newVersionCmd(),
	)
	return root
}
