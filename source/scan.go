package source

import (
	"go/ast"
	"go/build/constraint"
	"go/parser"
	"go/scanner"
	"go/token"
	"strings"
	"unicode"

	"github.com/teranos/actorgen/diag"
)

// Scan parses src and collects its actors.
//
// Go syntax errors come back as declaration diagnostics; misplaced,
// duplicated or unknown directives as validation or syntax diagnostics.
// All diagnostics of the file are reported together, sorted by position.
// Generated files are parsed but not scanned.
func Scan(filename string, src []byte, templateTag string) (*File, error) {
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, filename, src, parser.ParseComments|parser.SkipObjectResolution)
	if err != nil {
		return nil, declarationErrors(err)
	}

	file := &File{
		Filename: filename,
		Src:      src,
		Fset:     fset,
		AST:      f,
	}
	if ast.IsGenerated(f) {
		file.Generated = true
		return file, nil
	}
	file.Template = IsTemplate(f, templateTag)

	s := &fileScanner{
		file:    file,
		handled: make(map[*ast.Comment]bool),
		actors:  make(map[string]*Actor),
	}
	s.scanTypes()
	s.scanStubs()
	s.scanStray()

	if len(s.errs) > 0 {
		s.errs.Sort()
		return nil, s.errs
	}
	return file, nil
}

// IsTemplate reports whether f is only built when tag is set
func IsTemplate(f *ast.File, tag string) bool {
	for _, group := range f.Comments {
		if group.Pos() >= f.Package {
			break
		}
		for _, c := range group.List {
			if !constraint.IsGoBuild(c.Text) {
				continue
			}
			expr, err := constraint.Parse(c.Text)
			if err != nil {
				return false
			}
			with := expr.Eval(func(string) bool { return true })
			without := expr.Eval(func(t string) bool { return t != tag })
			return with && !without
		}
	}
	return false
}

// directive is one //actor: comment split into name and argument text
type directive struct {
	comment *ast.Comment
	name    string
	pos     token.Position
	rest    diag.Span
}

type fileScanner struct {
	file    *File
	handled map[*ast.Comment]bool
	actors  map[string]*Actor
	errs    diag.List
}

func (s *fileScanner) errorf(kind diag.Kind, pos token.Position, format string, args ...interface{}) {
	s.errs.Add(diag.Errorf(kind, pos, format, args...))
}

// directives extracts the //actor: comments of a doc group and marks them handled
func (s *fileScanner) directives(doc *ast.CommentGroup) []directive {
	if doc == nil {
		return nil
	}
	var out []directive
	for _, c := range doc.List {
		d, ok := s.parseDirective(c)
		if !ok {
			continue
		}
		s.handled[c] = true
		out = append(out, d)
	}
	return out
}

func (s *fileScanner) parseDirective(c *ast.Comment) (directive, bool) {
	if !strings.HasPrefix(c.Text, DirectivePrefix) {
		return directive{}, false
	}
	text := c.Text
	end := len(DirectivePrefix)
	for end < len(text) && !unicode.IsSpace(rune(text[end])) {
		end++
	}
	start := end
	for start < len(text) && unicode.IsSpace(rune(text[start])) {
		start++
	}

	pos := s.file.Fset.Position(c.Slash)
	return directive{
		comment: c,
		name:    text[len(DirectivePrefix):end],
		pos:     pos,
		rest:    diag.Span{Start: pos, Text: text}.Sub(start, len(text)),
	}, true
}

// scanTypes finds annotated type declarations and their comment carriers
func (s *fileScanner) scanTypes() {
	for _, decl := range s.file.AST.Decls {
		gd, ok := decl.(*ast.GenDecl)
		if !ok || gd.Tok != token.TYPE {
			continue
		}
		for _, spec := range gd.Specs {
			ts := spec.(*ast.TypeSpec)
			doc := ts.Doc
			if doc == nil && !gd.Lparen.IsValid() {
				doc = gd.Doc
			}
			s.scanType(gd, ts, s.directives(doc))
		}
	}
}

func (s *fileScanner) scanType(gd *ast.GenDecl, ts *ast.TypeSpec, dirs []directive) {
	var act *Actor
	for _, d := range dirs {
		if d.name != NameGen {
			continue
		}
		if act != nil {
			s.errorf(diag.KindValidation, d.pos, "duplicate `//actor:gen` directive on %s", ts.Name.Name)
			continue
		}
		act = &Actor{
			Name: ts.Name.Name,
			Spec: ts,
			Decl: gd,
			Pos:  d.pos,
			Args: d.rest,
		}
	}

	if act != nil {
		s.actors[act.Name] = act
		s.file.Actors = append(s.file.Actors, act)
	}

	for _, d := range dirs {
		switch d.name {
		case NameGen:
		case NamePreStart, NameHandle:
			if act == nil {
				s.errorf(diag.KindValidation, d.pos, "`//actor:%s` on %s requires `//actor:gen` on the same type", d.name, ts.Name.Name)
				continue
			}
			s.attach(act, &Carrier{
				Hook: Hook(d.name),
				Kind: CarrierComment,
				Pos:  d.pos,
				Body: d.rest,
			})
		default:
			s.errorf(diag.KindSyntax, d.pos, "unknown directive `//actor:%s`", d.name)
		}
	}
}

// scanStubs finds method stubs whose body is a carrier
func (s *fileScanner) scanStubs() {
	for _, decl := range s.file.AST.Decls {
		fn, ok := decl.(*ast.FuncDecl)
		if !ok {
			continue
		}
		var carrier *Carrier
		for _, d := range s.directives(fn.Doc) {
			switch d.name {
			case NamePreStart, NameHandle:
				if carrier != nil {
					s.errorf(diag.KindValidation, d.pos, "method %s carries more than one body directive", fn.Name.Name)
					continue
				}
				carrier = s.stub(fn, d)
			case NameGen:
				s.errorf(diag.KindValidation, d.pos, "`//actor:gen` must annotate a type declaration")
			default:
				s.errorf(diag.KindSyntax, d.pos, "unknown directive `//actor:%s`", d.name)
			}
		}
	}
}

// stub validates a method stub carrier and attaches it to its actor
func (s *fileScanner) stub(fn *ast.FuncDecl, d directive) *Carrier {
	carrier := &Carrier{
		Hook: Hook(d.name),
		Kind: CarrierStub,
		Pos:  d.pos,
		Func: fn,
	}

	if !s.file.Template {
		s.errorf(diag.KindValidation, d.pos, "`//actor:%s` on a method stub is only allowed in a template file", d.name)
		return carrier
	}
	if strings.TrimSpace(d.rest.Text) != "" {
		s.errorf(diag.KindSyntax, d.rest.Start, "unexpected text after `//actor:%s` on a method stub", d.name)
		return carrier
	}
	if fn.Recv == nil || len(fn.Recv.List) == 0 {
		s.errorf(diag.KindValidation, d.pos, "`//actor:%s` stub %s must be a method of an `//actor:gen` type", d.name, fn.Name.Name)
		return carrier
	}
	act := s.actors[ReceiverType(fn.Recv.List[0].Type)]
	if act == nil {
		s.errorf(diag.KindValidation, d.pos, "`//actor:%s` stub %s must be a method of an `//actor:gen` type", d.name, fn.Name.Name)
		return carrier
	}
	if params := ReceiverTypeParams(fn.Recv.List[0].Type); params != nil {
		if want := typeParamNames(act.Spec.TypeParams); !sameTypeParams(params, want) {
			got := make([]string, len(params))
			for i, p := range params {
				got[i] = p.Name
			}
			s.errorf(diag.KindValidation, s.file.Fset.Position(params[0].Pos()),
				"`//actor:%s` stub %s receiver type parameters [%s] must match the declaration [%s]",
				d.name, fn.Name.Name, strings.Join(got, ", "), strings.Join(want, ", "))
			return carrier
		}
	}
	if fn.Type.Params.NumFields() > 0 || fn.Type.Results.NumFields() > 0 {
		s.errorf(diag.KindValidation, s.file.Fset.Position(fn.Type.Params.Pos()), "`//actor:%s` stub %s must have no parameters or results", d.name, fn.Name.Name)
		return carrier
	}
	if fn.Body == nil {
		s.errorf(diag.KindValidation, d.pos, "`//actor:%s` stub %s has no body", d.name, fn.Name.Name)
		return carrier
	}

	if names := fn.Recv.List[0].Names; len(names) > 0 && names[0].Name != "_" {
		carrier.Recv = names[0].Name
	}
	carrier.Body = diag.Span{
		Start: s.file.Fset.Position(fn.Body.Lbrace),
		Text:  s.file.Text(fn.Body.Lbrace, fn.Body.Rbrace+1),
	}
	s.attach(act, carrier)
	return carrier
}

func (s *fileScanner) attach(act *Actor, c *Carrier) {
	slot := &act.Handle
	if c.Hook == HookPreStart {
		slot = &act.PreStart
	}
	if *slot != nil {
		s.errorf(diag.KindValidation, c.Pos, "duplicate `//actor:%s` body for %s", c.Hook, act.Name)
		return
	}
	*slot = c
}

// scanStray reports directives that are not attached to a type or method
func (s *fileScanner) scanStray() {
	for _, group := range s.file.AST.Comments {
		for _, c := range group.List {
			if s.handled[c] {
				continue
			}
			d, ok := s.parseDirective(c)
			if !ok {
				continue
			}
			switch d.name {
			case NameGen, NamePreStart, NameHandle:
				s.errorf(diag.KindValidation, d.pos, "`//actor:%s` must be attached to a type or method declaration", d.name)
			default:
				s.errorf(diag.KindSyntax, d.pos, "unknown directive `//actor:%s`", d.name)
			}
		}
	}
}

// ReceiverType returns the base type name of a method receiver expression
func ReceiverType(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.Ident:
		return t.Name
	case *ast.StarExpr:
		return ReceiverType(t.X)
	case *ast.ParenExpr:
		return ReceiverType(t.X)
	case *ast.IndexExpr:
		return ReceiverType(t.X)
	case *ast.IndexListExpr:
		return ReceiverType(t.X)
	}
	return ""
}

// ReceiverTypeParams returns the type parameter names of a generic method
// receiver such as *Box[T], or nil when the receiver has none
func ReceiverTypeParams(expr ast.Expr) []*ast.Ident {
	var indices []ast.Expr
	switch t := expr.(type) {
	case *ast.StarExpr:
		return ReceiverTypeParams(t.X)
	case *ast.ParenExpr:
		return ReceiverTypeParams(t.X)
	case *ast.IndexExpr:
		indices = []ast.Expr{t.Index}
	case *ast.IndexListExpr:
		indices = t.Indices
	default:
		return nil
	}
	names := make([]*ast.Ident, 0, len(indices))
	for _, x := range indices {
		id, ok := x.(*ast.Ident)
		if !ok {
			return nil
		}
		names = append(names, id)
	}
	return names
}

func typeParamNames(fields *ast.FieldList) []string {
	var names []string
	if fields == nil {
		return names
	}
	for _, f := range fields.List {
		for _, n := range f.Names {
			names = append(names, n.Name)
		}
	}
	return names
}

// sameTypeParams reports whether a stub receiver names the type parameters
// the way the declaration does. Generated methods reuse the declaration's
// names, so a stub body must see the same ones. A blank name matches any.
func sameTypeParams(got []*ast.Ident, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	for i, id := range got {
		if id.Name != "_" && id.Name != want[i] {
			return false
		}
	}
	return true
}

// declarationErrors converts Go parser errors into declaration diagnostics
func declarationErrors(err error) error {
	list, ok := err.(scanner.ErrorList)
	if !ok {
		return diag.New(diag.KindDeclaration, token.Position{}, err.Error())
	}
	var errs diag.List
	for _, e := range list {
		errs.Add(diag.New(diag.KindDeclaration, e.Pos, e.Msg))
	}
	return errs
}
