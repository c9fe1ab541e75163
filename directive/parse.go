package directive

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/scanner"
	"go/token"
	"strings"

	"github.com/teranos/actorgen/diag"
)

// lexeme is one token of the argument text
type lexeme struct {
	tok token.Token
	lit string
	off int // byte offset into the argument text
}

func (l lexeme) describe() string {
	if l.lit != "" {
		return fmt.Sprintf("%q", l.lit)
	}
	return fmt.Sprintf("%q", l.tok.String())
}

// Parse parses the argument list of an //actor:gen directive.
//
// at is the position of the directive itself; args is the text after the
// directive name with its file position. The grammar is
//
//	arguments = [ item { "," item } [ "," ] ] .
//	item      = ( "msg" | "state" | "args" ) "=" Type .
//
// Commas nested inside brackets, parentheses or braces belong to the type.
// A key given twice is rejected at the second occurrence.
func Parse(at token.Position, args diag.Span) (*RawArguments, error) {
	toks, err := lex(args)
	if err != nil {
		return nil, err
	}

	raw := NewRawArguments(at)
	for i := 0; i < len(toks); {
		t := toks[i]
		key, ok := lookupKey(t.lit)
		if t.tok != token.IDENT || !ok {
			return nil, syntaxErr(args, t.off, "expected one of `msg`, `state`, `args`, found %s", t.describe())
		}
		keyPos := args.At(t.off)
		i++

		if i >= len(toks) || toks[i].tok != token.ASSIGN {
			return nil, syntaxErr(args, offsetAt(toks, i, args), "expected `=` after `%s`", key)
		}
		i++

		start := i
		depth := 0
		for i < len(toks) {
			switch toks[i].tok {
			case token.LPAREN, token.LBRACK, token.LBRACE:
				depth++
			case token.RPAREN, token.RBRACK, token.RBRACE:
				depth--
			}
			if depth == 0 && toks[i].tok == token.COMMA {
				break
			}
			i++
		}
		if start == i {
			return nil, syntaxErr(args, offsetAt(toks, start, args), "expected type after `%s=`", key)
		}

		end := len(args.Text)
		if i < len(toks) {
			end = toks[i].off
		}
		value, err := parseType(args.Sub(toks[start].off, end))
		if err != nil {
			return nil, err
		}

		if err := raw.add(Item{Key: key, KeyPos: keyPos, Value: value}); err != nil {
			return nil, err
		}

		// Skip the separating comma; a trailing comma ends the list
		if i < len(toks) {
			i++
		}
	}

	return raw, nil
}

// add stores item, rejecting a key that was already supplied
func (r *RawArguments) add(item Item) error {
	slot := r.slot(item.Key)
	if *slot != nil {
		return diag.Errorf(diag.KindValidation, item.KeyPos, "duplicate `%s` argument", item.Key)
	}
	value := item.Value
	*slot = &value
	return nil
}

// lex tokenizes the argument text, dropping automatic semicolons
func lex(args diag.Span) ([]lexeme, error) {
	fset := token.NewFileSet()
	file := fset.AddFile("", -1, len(args.Text))

	var firstErr error
	var s scanner.Scanner
	s.Init(file, []byte(args.Text), func(pos token.Position, msg string) {
		if firstErr == nil {
			firstErr = diag.New(diag.KindSyntax, args.At(pos.Offset), msg)
		}
	}, 0)

	var toks []lexeme
	for {
		pos, tok, lit := s.Scan()
		if tok == token.EOF {
			break
		}
		if tok == token.SEMICOLON && lit == "\n" {
			continue
		}
		toks = append(toks, lexeme{tok: tok, lit: lit, off: file.Offset(pos)})
	}
	if firstErr != nil {
		return nil, firstErr
	}
	return toks, nil
}

// parseType parses span as a Go type expression
func parseType(span diag.Span) (TypeExpr, error) {
	src := strings.TrimRight(span.Text, " \t\r\n")
	expr, err := parser.ParseExpr(src)
	if err != nil {
		off := 0
		msg := err.Error()
		if list, ok := err.(scanner.ErrorList); ok && len(list) > 0 {
			off = list[0].Pos.Offset
			msg = list[0].Msg
		}
		return TypeExpr{}, syntaxErr(span, off, "invalid type %q: %s", src, msg)
	}
	if !IsTypeExpr(expr) {
		return TypeExpr{}, syntaxErr(span, 0, "expected type, found %q", src)
	}
	return TypeExpr{Src: src, Expr: expr, Pos: span.Start}, nil
}

// IsTypeExpr reports whether e has the shape of a Go type: a (qualified)
// name, a composite type literal, or a generic instantiation of either.
func IsTypeExpr(e ast.Expr) bool {
	switch t := e.(type) {
	case *ast.Ident:
		switch t.Name {
		case "nil", "true", "false", "iota", "_":
			return false
		}
		return true
	case *ast.SelectorExpr:
		_, ok := t.X.(*ast.Ident)
		return ok
	case *ast.StarExpr:
		return IsTypeExpr(t.X)
	case *ast.ParenExpr:
		return IsTypeExpr(t.X)
	case *ast.ArrayType:
		return IsTypeExpr(t.Elt)
	case *ast.MapType:
		return IsTypeExpr(t.Key) && IsTypeExpr(t.Value)
	case *ast.ChanType:
		return IsTypeExpr(t.Value)
	case *ast.FuncType, *ast.InterfaceType, *ast.StructType:
		return true
	case *ast.IndexExpr:
		return IsTypeExpr(t.X) && IsTypeExpr(t.Index)
	case *ast.IndexListExpr:
		if !IsTypeExpr(t.X) {
			return false
		}
		for _, idx := range t.Indices {
			if !IsTypeExpr(idx) {
				return false
			}
		}
		return true
	}
	return false
}

// offsetAt returns the offset of toks[i], or the end of the text past the last token
func offsetAt(toks []lexeme, i int, args diag.Span) int {
	if i < len(toks) {
		return toks[i].off
	}
	return len(strings.TrimRight(args.Text, " \t\r\n"))
}

func syntaxErr(span diag.Span, off int, format string, a ...interface{}) *diag.Diagnostic {
	return diag.Errorf(diag.KindSyntax, span.At(off), format, a...)
}
