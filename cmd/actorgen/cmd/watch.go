package cmd

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/teranos/actorgen/logger"
	"github.com/teranos/actorgen/watch"
)

func newWatchCmd(a *app) *cobra.Command {
	var flags genFlags

	cmd := &cobra.Command{
		Use:   "watch [dirs]",
		Short: "Regenerate when sources change",
		Long: `Generate once, then regenerate changed files on every save.

Changes are debounced (watch.debounce_ms, default 300). Diagnostics are
printed and watching continues.

Examples:
  actorgen watch                 # Current directory
  actorgen watch ./internal/actors ./examples/counter`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				args = []string{"."}
			}
			for i, dir := range args {
				if a.dir != "" && !filepath.IsAbs(dir) {
					args[i] = filepath.Join(a.dir, dir)
				}
			}
			dirs, err := watch.Dirs(args)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			regenerate := func(ctx context.Context, patterns []string) error {
				report, err := a.run(ctx, &flags, patterns)
				if err != nil {
					return err
				}
				if err := reportDiagnostics(cmd.ErrOrStderr(), report); err != nil {
					return err
				}
				written, err := report.Write()
				for _, path := range written {
					success(cmd.OutOrStdout(), "%s", relPath(a.dir, path))
				}
				return err
			}

			for _, dir := range dirs {
				files := goFiles(dir)
				if len(files) == 0 {
					continue
				}
				if err := regenerate(ctx, files); err != nil {
					logger.Warnw("Initial generation failed", logger.FieldFile, dir, logger.FieldError, err)
				}
			}

			suffix := a.cfg.OutputSuffix + ".go"
			w, err := watch.New(dirs, time.Duration(a.cfg.Watch.DebounceMS)*time.Millisecond, func(path string) bool {
				return strings.HasSuffix(path, suffix)
			})
			if err != nil {
				return err
			}

			logger.Infow("Watching for changes",
				logger.FieldCount, len(dirs),
				"dirs", dirs)
			return w.Run(ctx, func(ctx context.Context, changed []string) error {
				var existing []string
				for _, path := range changed {
					if _, err := os.Stat(path); err == nil {
						existing = append(existing, path)
					}
				}
				if len(existing) == 0 {
					return nil
				}
				return regenerate(ctx, existing)
			})
		},
	}

	flags.register(cmd)
	return cmd
}

// goFiles lists the Go files of dir by name, so a directory is generated
// file by file without needing a module around it
func goFiles(dir string) []string {
	matches, _ := filepath.Glob(filepath.Join(dir, "*.go"))
	return matches
}
