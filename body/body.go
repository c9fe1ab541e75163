// Package body normalizes the method bodies supplied through //actor:prestart
// and //actor:handle carriers.
//
// A carrier accepts either a block or a bare expression list:
//
//	//actor:prestart 0, nil
//	//actor:handle { *state++; return nil }
//
// Normalize always produces a block. An expression list is promoted to a
// block that returns it, which is how a tail expression reads in Go.
package body

import (
	"go/ast"
	"go/parser"
	"go/scanner"
	"go/token"
	"strings"

	"github.com/teranos/actorgen/diag"
)

// Form records which alternative produced a Body
type Form int

const (
	FormBlock Form = iota // The carrier was a block
	FormExpr              // The carrier was an expression list, promoted to a return
)

func (f Form) String() string {
	if f == FormExpr {
		return "expression"
	}
	return "block"
}

// Body is a normalized method body.
type Body struct {
	Form Form

	// Block is the parsed block. Positions refer to a private file set and
	// are only meaningful relative to each other.
	Block *ast.BlockStmt

	// Source is the block as it is emitted, braces included. Blocks keep the
	// user's text from "{" to "}" verbatim and drop anything after the closing
	// brace; promoted expressions read "{\n\treturn <expr>\n}".
	Source string
}

const (
	blockPrefix = "package p\nfunc _() "
	exprPrefix  = "package p\nfunc _() {\n\treturn "
	exprSuffix  = "\n}"
)

// Normalize parses span.Text as a block, falling back to an expression list.
// When neither alternative parses it returns a syntax diagnostic located at
// the first error of the alternative the text looks like: the block when it
// starts with "{", the expression otherwise.
func Normalize(span diag.Span) (*Body, error) {
	src := strings.TrimSpace(span.Text)
	lead := len(span.Text) - len(strings.TrimLeft(span.Text, " \t\r\n"))
	if src == "" {
		return nil, diag.New(diag.KindSyntax, span.At(lead), "expected block or expression")
	}

	block, text, blockErr := parseBlock(src)
	if blockErr == nil {
		return &Body{Form: FormBlock, Block: block, Source: text}, nil
	}

	block, exprErr := parseExprList(src)
	if exprErr == nil {
		return &Body{
			Form:   FormExpr,
			Block:  block,
			Source: "{\n\treturn " + src + "\n}",
		}, nil
	}

	failed := exprErr
	if strings.HasPrefix(src, "{") {
		failed = blockErr
	}
	return nil, diag.Errorf(diag.KindSyntax, span.At(lead+failed.off), "expected block or expression: %s", failed.msg)
}

// parseFailure is a parser error with its offset into the carrier text
type parseFailure struct {
	off int
	msg string
}

// parseBlock accepts exactly one block and nothing after it except comments
// and semicolons. It returns the block's own text, braces included.
func parseBlock(src string) (*ast.BlockStmt, string, *parseFailure) {
	fset, f, err := parseWrapped(blockPrefix, src, "")
	if err != nil {
		return nil, "", err
	}
	if len(f.Decls) != 1 {
		return nil, "", trailing(fset, f, blockPrefix, "unexpected declaration after block")
	}
	fn, ok := f.Decls[0].(*ast.FuncDecl)
	if !ok || fn.Body == nil {
		return nil, "", &parseFailure{msg: "expected block"}
	}
	start := fset.Position(fn.Body.Lbrace).Offset - len(blockPrefix)
	end := fset.Position(fn.Body.Rbrace).Offset - len(blockPrefix) + 1
	return fn.Body, src[start:end], nil
}

// parseExprList accepts one or more comma-separated expressions
func parseExprList(src string) (*ast.BlockStmt, *parseFailure) {
	fset, f, err := parseWrapped(exprPrefix, src, exprSuffix)
	if err != nil {
		return nil, err
	}
	if len(f.Decls) != 1 {
		return nil, trailing(fset, f, exprPrefix, "unexpected declaration after expression")
	}
	fn, ok := f.Decls[0].(*ast.FuncDecl)
	if !ok || fn.Body == nil || len(fn.Body.List) != 1 {
		return nil, &parseFailure{msg: "expected a single expression list"}
	}
	ret, ok := fn.Body.List[0].(*ast.ReturnStmt)
	if !ok || len(ret.Results) == 0 {
		return nil, &parseFailure{msg: "expected expression"}
	}
	return fn.Body, nil
}

// trailing reports the second declaration of f, which the carrier text smuggled in
func trailing(fset *token.FileSet, f *ast.File, prefix, msg string) *parseFailure {
	off := fset.Position(f.Decls[1].Pos()).Offset - len(prefix)
	if off < 0 {
		off = 0
	}
	return &parseFailure{off: off, msg: msg}
}

// parseWrapped parses prefix+src+suffix as a file and maps the first error
// back to an offset within src
func parseWrapped(prefix, src, suffix string) (*token.FileSet, *ast.File, *parseFailure) {
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, "", prefix+src+suffix, parser.SkipObjectResolution)
	if err == nil {
		return fset, f, nil
	}

	failure := &parseFailure{msg: err.Error()}
	if list, ok := err.(scanner.ErrorList); ok && len(list) > 0 {
		failure.msg = list[0].Msg
		failure.off = list[0].Pos.Offset - len(prefix)
	}
	if failure.off < 0 {
		failure.off = 0
	}
	if failure.off > len(src) {
		failure.off = len(src)
	}
	return nil, nil, failure
}
