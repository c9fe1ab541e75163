// Package diag carries located diagnostics for actorgen.
//
// Every authoring mistake the generator can detect (malformed directive
// arguments, missing keys, bodies that do not parse, Go syntax errors in the
// annotated file) is reported as a *Diagnostic attached to the exact source
// position, in the familiar file:line:col form used by the Go toolchain.
// Diagnostics wrap one of the sentinel classes from the errors package, so
// errors.Is(err, errors.ErrSyntax) works on them.
package diag

import (
	"fmt"
	"go/token"
	"sort"
	"strings"

	"github.com/teranos/actorgen/errors"
)

// Kind classifies a diagnostic
type Kind string

const (
	KindSyntax      Kind = "syntax"      // Malformed directive arguments or body
	KindValidation  Kind = "validation"  // Missing/duplicate keys, misplaced carriers
	KindDeclaration Kind = "declaration" // Go syntax errors in the annotated file
)

// Diagnostic is a single located generator error.
type Diagnostic struct {
	Kind Kind
	Pos  token.Position
	Msg  string
}

// New creates a diagnostic
func New(kind Kind, pos token.Position, msg string) *Diagnostic {
	return &Diagnostic{Kind: kind, Pos: pos, Msg: msg}
}

// Errorf creates a diagnostic with a formatted message
func Errorf(kind Kind, pos token.Position, format string, args ...interface{}) *Diagnostic {
	return New(kind, pos, fmt.Sprintf(format, args...))
}

// Error implements error in the file:line:col: message form
func (d *Diagnostic) Error() string {
	if !d.Pos.IsValid() && d.Pos.Filename == "" {
		return d.Msg
	}
	return d.Pos.String() + ": " + d.Msg
}

// Unwrap returns the sentinel class so errors.Is can classify the diagnostic
func (d *Diagnostic) Unwrap() error {
	switch d.Kind {
	case KindSyntax:
		return errors.ErrSyntax
	case KindValidation:
		return errors.ErrValidation
	case KindDeclaration:
		return errors.ErrDeclaration
	}
	return nil
}

// List is an ordered collection of diagnostics.
// A non-empty List is itself an error.
type List []*Diagnostic

// Add appends err to the list. Diagnostics and nested lists are flattened;
// any other error is recorded as a position-less declaration diagnostic.
func (l *List) Add(err error) {
	if err == nil {
		return
	}
	switch e := err.(type) {
	case *Diagnostic:
		*l = append(*l, e)
	case List:
		*l = append(*l, e...)
	default:
		if found := Collect(err); len(found) > 0 {
			*l = append(*l, found...)
			return
		}
		*l = append(*l, New(KindDeclaration, token.Position{}, err.Error()))
	}
}

// Sort orders diagnostics by file, line and column
func (l List) Sort() {
	sort.SliceStable(l, func(i, j int) bool {
		a, b := l[i].Pos, l[j].Pos
		if a.Filename != b.Filename {
			return a.Filename < b.Filename
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Column < b.Column
	})
}

// Error joins all messages, one per line
func (l List) Error() string {
	switch len(l) {
	case 0:
		return "no errors"
	case 1:
		return l[0].Error()
	}
	lines := make([]string, len(l))
	for i, d := range l {
		lines[i] = d.Error()
	}
	return strings.Join(lines, "\n")
}

// Unwrap exposes the individual diagnostics to errors.Is/As
func (l List) Unwrap() []error {
	errs := make([]error, len(l))
	for i, d := range l {
		errs[i] = d
	}
	return errs
}

// Is reports whether any diagnostic in the list matches target
func (l List) Is(target error) bool {
	for _, d := range l {
		if errors.Is(d, target) {
			return true
		}
	}
	return false
}

// Err returns nil for an empty list and the list otherwise
func (l List) Err() error {
	if len(l) == 0 {
		return nil
	}
	return l
}

// Collect extracts every diagnostic reachable from err, following
// single-cause wrapping. Returns nil when err carries no diagnostics.
func Collect(err error) List {
	for err != nil {
		switch e := err.(type) {
		case *Diagnostic:
			return List{e}
		case List:
			return e
		}
		err = errors.Unwrap(err)
	}
	return nil
}
