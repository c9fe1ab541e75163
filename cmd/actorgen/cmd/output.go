package cmd

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/pterm/pterm"

	"github.com/teranos/actorgen/diag"
	"github.com/teranos/actorgen/driver"
	"github.com/teranos/actorgen/errors"
)

// reportDiagnostics prints every diagnostic of the run with a caret snippet
// and returns an error summarising them, or nil when there are none
func reportDiagnostics(w io.Writer, report *driver.Report) error {
	diags := report.Diagnostics()
	if len(diags) == 0 {
		return nil
	}

	for _, d := range diags {
		fmt.Fprintln(w, diag.Render(d, report.Source(d.Pos.Filename), pterm.PrintColor))
	}
	return errors.Newf("%d %s, nothing written", len(diags), plural(len(diags), "diagnostic", "diagnostics"))
}

func success(w io.Writer, format string, args ...interface{}) {
	fmt.Fprintf(w, "%s %s\n", pterm.LightGreen("✓"), fmt.Sprintf(format, args...))
}

func failure(w io.Writer, format string, args ...interface{}) {
	fmt.Fprintf(w, "%s %s\n", pterm.Red("✗"), fmt.Sprintf(format, args...))
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// relPath shortens path relative to dir for display
func relPath(dir, path string) string {
	if dir == "" {
		dir = "."
	}
	base, err := filepath.Abs(dir)
	if err != nil {
		return path
	}
	rel, err := filepath.Rel(base, path)
	if err != nil || len(rel) > len(path) {
		return path
	}
	return rel
}
