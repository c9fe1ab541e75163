// Package source finds //actor: directives in Go files.
//
// Scan is purely syntactic: it parses one file, locates every type annotated
// with //actor:gen and the body carriers that belong to it, and records the
// source spans the later stages need. It does not interpret directive
// arguments or bodies.
package source

import (
	"go/ast"
	"go/token"

	"github.com/teranos/actorgen/diag"
)

// DirectivePrefix starts every actorgen directive comment
const DirectivePrefix = "//actor:"

// Directive names
const (
	NameGen      = "gen"
	NamePreStart = "prestart"
	NameHandle   = "handle"
)

// Hook identifies which generated method a body carrier feeds
type Hook string

const (
	HookPreStart Hook = NamePreStart
	HookHandle   Hook = NameHandle
)

// CarrierKind tells where a body came from
type CarrierKind int

const (
	// CarrierComment is a body written inline after the directive in the type's doc
	CarrierComment CarrierKind = iota
	// CarrierStub is the body of a method stub in a template file
	CarrierStub
)

func (k CarrierKind) String() string {
	if k == CarrierStub {
		return "stub"
	}
	return "comment"
}

// Carrier is one //actor:prestart or //actor:handle body
type Carrier struct {
	Hook Hook
	Kind CarrierKind
	Pos  token.Position // Position of the directive comment
	Body diag.Span

	// Recv is the stub's receiver name; empty for comment carriers
	// or stubs with a blank receiver
	Recv string

	// Func is the method stub (CarrierStub only)
	Func *ast.FuncDecl
}

// Actor is a type declaration annotated with //actor:gen
type Actor struct {
	Name string
	Spec *ast.TypeSpec
	Decl *ast.GenDecl

	// Pos is the position of the //actor:gen comment
	Pos token.Position

	// Args is the directive argument text after "//actor:gen"
	Args diag.Span

	PreStart *Carrier
	Handle   *Carrier
}

// Carrier returns the carrier for hook, or nil
func (a *Actor) Carrier(hook Hook) *Carrier {
	if hook == HookPreStart {
		return a.PreStart
	}
	return a.Handle
}

// File is a scanned Go file
type File struct {
	Filename string
	Src      []byte
	Fset     *token.FileSet
	AST      *ast.File

	// Template is set for files constrained to the template build tag
	Template bool

	// Generated is set for files carrying a "Code generated ... DO NOT EDIT." header
	Generated bool

	Actors []*Actor
}

// Text returns the source between two positions of the file
func (f *File) Text(from, to token.Pos) string {
	tf := f.Fset.File(from)
	if tf == nil {
		return ""
	}
	return string(f.Src[tf.Offset(from):tf.Offset(to)])
}
