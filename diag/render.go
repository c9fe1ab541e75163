package diag

import (
	"fmt"
	"strings"

	"github.com/pterm/pterm"
)

// Render formats d with a caret snippet of src (the full file the diagnostic
// points into). One line of context is shown before the offending line.
// When color is false the output is plain text suitable for logs.
//
//	counter.go:5:22: duplicate `msg` argument
//	   4 | //
//	   5 | //actor:gen msg=Op, msg=Other, state=int32
//	     |                     ^
func Render(d *Diagnostic, src []byte, color bool) string {
	header := d.Error()
	if color {
		header = pterm.Red(header)
	}

	lines := strings.Split(string(src), "\n")
	line := d.Pos.Line
	if len(src) == 0 || line < 1 || line > len(lines) {
		return header
	}

	col := d.Pos.Column
	if col < 1 {
		col = 1
	}

	width := len(fmt.Sprint(line))
	var sb strings.Builder
	sb.WriteString(header)
	sb.WriteString("\n")

	gutter := func(n int) string {
		g := fmt.Sprintf("%*d | ", width+2, n)
		if color {
			return pterm.Gray(g)
		}
		return g
	}

	if line > 1 {
		sb.WriteString(gutter(line - 1))
		sb.WriteString(lines[line-2])
		sb.WriteString("\n")
	}
	sb.WriteString(gutter(line))
	sb.WriteString(lines[line-1])
	sb.WriteString("\n")

	// Keep tabs in the caret padding so it lines up under tab-indented code
	target := lines[line-1]
	var pad strings.Builder
	for i := 0; i < col-1 && i < len(target); i++ {
		if target[i] == '\t' {
			pad.WriteByte('\t')
		} else {
			pad.WriteByte(' ')
		}
	}
	caret := "^"
	if color {
		caret = pterm.LightRed(caret)
	}
	sb.WriteString(strings.Repeat(" ", width+2))
	sb.WriteString(" | ")
	sb.WriteString(pad.String())
	sb.WriteString(caret)

	return sb.String()
}
