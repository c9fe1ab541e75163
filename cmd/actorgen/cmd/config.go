package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/teranos/actorgen/config"
	"github.com/teranos/actorgen/errors"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or initialise actorgen configuration",
		Long: `Configuration is read from, in increasing precedence:

  1. built-in defaults
  2. <user config dir>/actorgen/actorgen.toml
  3. actorgen.toml in the working directory or the nearest parent
  4. ACTORGEN_* environment variables (ACTORGEN_SHAPE, ACTORGEN_WATCH_DEBOUNCE_MS)
  5. command-line flags`,
	}

	var format string
	show := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := config.Marshal(a.cfg, format)
			if err != nil {
				return err
			}
			if a.cfg.Path != "" {
				fmt.Fprintf(cmd.ErrOrStderr(), "# from %s\n", a.cfg.Path)
			}
			fmt.Fprint(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
	show.Flags().StringVarP(&format, "format", "f", config.FormatTOML, "Output format: toml, json or yaml")

	var force, user bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default actorgen.toml",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := filepath.Join(a.dir, config.FileName)
			if user {
				path = config.UserConfigPath()
				if path == "" {
					return errors.New("cannot determine the user config directory")
				}
			}
			if err := config.WriteDefault(path, force); err != nil {
				return err
			}
			success(cmd.OutOrStdout(), "wrote %s", path)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")
	initCmd.Flags().BoolVar(&user, "user", false, "Write the per-user config instead of the project one")

	cmd.AddCommand(show, initCmd)
	return cmd
}
