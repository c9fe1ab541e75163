// Package gen turns annotated actor declarations into generated Go source.
//
// Generate is the whole pipeline for one file: scan the directives, parse
// and validate the //actor:gen arguments, normalize the bodies, render the
// lifecycle and handler methods, expand the interface implementation and
// assemble the output file. It is a pure function of its inputs; nothing is
// cached between calls.
//
// The output shape is chosen once per call through Options.Shape. Native
// output implements actor.Actor with blocking methods; future output
// implements actor.FutureActor with methods returning *actor.Future.
package gen

import (
	"fmt"
	"go/ast"
	"go/token"
	"path"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/tools/imports"

	"github.com/teranos/actorgen/body"
	"github.com/teranos/actorgen/diag"
	"github.com/teranos/actorgen/directive"
	"github.com/teranos/actorgen/errors"
	"github.com/teranos/actorgen/source"
)

// Defaults for Options
const (
	DefaultRuntimeImport = "github.com/teranos/actorgen/actor"
	DefaultTemplateTag   = "actorgen"
	DefaultSuffix        = "_gen"
)

// HeaderLine starts every generated file
const HeaderLine = "// Code generated by actorgen. DO NOT EDIT."

// GeneratorLinePrefix starts the header line carrying the generator version.
// It is the only line allowed to differ between runs of different builds.
const GeneratorLinePrefix = "// Generator: "

// ShapeLinePrefix starts the header line recording the output shape
const ShapeLinePrefix = "// Shape: "

// Options control Generate
type Options struct {
	Shape         Shape
	RuntimeImport string // Import path of the runtime package
	TemplateTag   string // Build tag marking template files
	Version       string // Generator version written to the header
}

func (o Options) withDefaults() Options {
	if o.Shape == "" {
		o.Shape = ShapeNative
	}
	if o.RuntimeImport == "" {
		o.RuntimeImport = DefaultRuntimeImport
	}
	if o.TemplateTag == "" {
		o.TemplateTag = DefaultTemplateTag
	}
	if o.Version == "" {
		o.Version = "dev"
	}
	return o
}

// ActorInfo describes one generated actor
type ActorInfo struct {
	Name     string `json:"name" yaml:"name"`
	Msg      string `json:"msg" yaml:"msg"`
	State    string `json:"state" yaml:"state"`
	Args     string `json:"args" yaml:"args"`
	File     string `json:"file" yaml:"file"`
	Line     int    `json:"line" yaml:"line"`
	PreStart string `json:"prestart,omitempty" yaml:"prestart,omitempty"` // Carrier kind, empty when hand-written
	Handle   string `json:"handle,omitempty" yaml:"handle,omitempty"`
	Generic  bool   `json:"generic,omitempty" yaml:"generic,omitempty"`
}

// Result is the outcome of generating one file
type Result struct {
	Package  string
	Template bool
	Shape    Shape
	Actors   []ActorInfo

	// Source is the formatted generated file; nil when the input declares no actors
	Source []byte
}

// Generate runs the pipeline over one Go file.
//
// Every diagnostic of the file is collected; if there is at least one,
// Generate returns them as a diag.List and no output.
func Generate(filename string, src []byte, opts Options) (*Result, error) {
	opts = opts.withDefaults()
	strategy, err := StrategyFor(opts.Shape)
	if err != nil {
		return nil, err
	}

	file, err := source.Scan(filename, src, opts.TemplateTag)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Package:  file.AST.Name.Name,
		Template: file.Template,
		Shape:    strategy.Shape(),
	}
	if file.Generated || len(file.Actors) == 0 {
		return res, nil
	}

	a := &assembler{
		file:     file,
		opts:     opts,
		strategy: strategy,
		used:     make(map[string]bool),
	}
	code := a.code()
	if len(a.errs) > 0 {
		a.errs.Sort()
		return nil, a.errs
	}
	res.Actors = a.infos

	out, err := imports.Process(OutputName(filename, DefaultSuffix), a.render(code), &imports.Options{
		Comments:   true,
		TabIndent:  true,
		TabWidth:   8,
		FormatOnly: true,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to format generated code for %s", filename)
	}
	res.Source = out
	return res, nil
}

// OutputName returns the generated file name for filename:
// counter.go → counter_gen.go, counter_test.go → counter_gen_test.go
func OutputName(filename, suffix string) string {
	if strings.HasSuffix(filename, "_test.go") {
		return strings.TrimSuffix(filename, "_test.go") + suffix + "_test.go"
	}
	return strings.TrimSuffix(filename, ".go") + suffix + ".go"
}

type assembler struct {
	file     *source.File
	opts     Options
	strategy Strategy

	errs  diag.List
	infos []ActorInfo

	// used holds package names referenced by emitted bodies and types
	used map[string]bool
}

// code renders the declarations of the output in source order
func (a *assembler) code() string {
	byDecl := make(map[*ast.GenDecl][]*source.Actor)
	for _, act := range a.file.Actors {
		byDecl[act.Decl] = append(byDecl[act.Decl], act)
	}

	var chunks []string
	for _, decl := range a.file.AST.Decls {
		switch d := decl.(type) {
		case *ast.GenDecl:
			if d.Tok == token.IMPORT {
				continue
			}
			actors := byDecl[d]
			if len(actors) == 0 {
				if a.file.Template {
					chunks = append(chunks, carried(a.file, d))
				}
				continue
			}
			for i, act := range actors {
				declText := ""
				if i == 0 && a.file.Template {
					declText = carried(a.file, d)
				}
				if out := a.actor(act, declText); out != "" {
					chunks = append(chunks, out)
				}
			}
		case *ast.FuncDecl:
			if a.file.Template && !isStub(a.file, d) {
				chunks = append(chunks, carried(a.file, d))
			}
		}
	}
	return strings.Join(chunks, "\n\n")
}

// actor runs parse, validate, normalize and expand for one actor
func (a *assembler) actor(act *source.Actor, decl string) string {
	raw, err := directive.Parse(act.Pos, act.Args)
	if err != nil {
		a.errs.Add(err)
		return ""
	}
	args, err := directive.Validate(raw)
	if err != nil {
		a.errs.Add(err)
		return ""
	}
	sig := NewSignature(a.file, act, args)

	var methods []string
	bodies := map[source.Hook]func(Strategy, Signature, *body.Body) string{
		source.HookPreStart: Lifecycle,
		source.HookHandle:   Handler,
	}
	for _, hook := range []source.Hook{source.HookPreStart, source.HookHandle} {
		c := act.Carrier(hook)
		if c == nil {
			continue
		}
		b, err := body.Normalize(c.Body)
		if err != nil {
			a.errs.Add(err)
			continue
		}
		a.collectPackages(b.Block)
		methods = append(methods, bodies[hook](a.strategy, sig.WithRecv(c.Recv), b))
	}
	for _, t := range []directive.TypeExpr{args.Msg(), args.State(), args.Args()} {
		a.collectPackages(t.Expr)
	}
	if tp := act.Spec.TypeParams; tp != nil {
		a.collectPackages(tp)
	}

	info := ActorInfo{
		Name:    act.Name,
		Msg:     sig.Msg,
		State:   sig.State,
		Args:    sig.Args,
		File:    filepath.Base(a.file.Filename),
		Line:    act.Pos.Line,
		Generic: sig.TypeParams != "",
	}
	if act.PreStart != nil {
		info.PreStart = act.PreStart.Kind.String()
	}
	if act.Handle != nil {
		info.Handle = act.Handle.Kind.String()
	}
	a.infos = append(a.infos, info)

	return Expand(a.strategy, sig, decl) + "\n" + strings.Join(methods, "\n")
}

// collectPackages records the qualifiers of selector expressions in n
func (a *assembler) collectPackages(n ast.Node) {
	if n == nil {
		return
	}
	ast.Inspect(n, func(n ast.Node) bool {
		if sel, ok := n.(*ast.SelectorExpr); ok {
			if id, ok := sel.X.(*ast.Ident); ok {
				a.used[id.Name] = true
			}
		}
		return true
	})
}

// render assembles the file around code
func (a *assembler) render(code string) []byte {
	var sb strings.Builder

	sb.WriteString(HeaderLine + "\n")
	sb.WriteString(fmt.Sprintf("// Source: %s\n", filepath.Base(a.file.Filename)))
	sb.WriteString(ShapeLinePrefix + a.strategy.Shape().String() + "\n")
	sb.WriteString(GeneratorLinePrefix + "actorgen " + a.opts.Version + "\n\n")

	if a.file.Template {
		sb.WriteString(fmt.Sprintf("//go:build !%s\n\n", a.opts.TemplateTag))
	}

	sb.WriteString(fmt.Sprintf("package %s\n\n", a.file.AST.Name.Name))

	sb.WriteString("import (\n")
	for _, spec := range a.imports() {
		sb.WriteString("\t" + spec + "\n")
	}
	sb.WriteString(")\n\n")

	sb.WriteString(code)
	sb.WriteString("\n")
	return []byte(sb.String())
}

// imports returns the import specs of the generated file.
// Templates keep all their imports since their declarations move into the
// output. Ordinary files only contribute imports the emitted code refers to.
func (a *assembler) imports() []string {
	seen := map[string]bool{"context": true, a.opts.RuntimeImport: true}
	specs := []string{strconv.Quote("context"), a.runtimeSpec()}

	var extra []string
	for _, imp := range a.file.AST.Imports {
		p, err := strconv.Unquote(imp.Path.Value)
		if err != nil || seen[p] {
			continue
		}
		name := ImportName(imp)
		if !a.file.Template && (name == "_" || name == "." || !a.used[name]) {
			continue
		}
		seen[p] = true
		if imp.Name != nil {
			extra = append(extra, imp.Name.Name+" "+imp.Path.Value)
		} else {
			extra = append(extra, imp.Path.Value)
		}
	}
	sort.Strings(extra)
	return append(specs, extra...)
}

func (a *assembler) runtimeSpec() string {
	quoted := strconv.Quote(a.opts.RuntimeImport)
	if path.Base(a.opts.RuntimeImport) == runtimePkg {
		return quoted
	}
	return runtimePkg + " " + quoted
}

// ImportName returns the name an import is referred to by: its explicit
// name, or the package name guessed from its path.
func ImportName(imp *ast.ImportSpec) string {
	if imp.Name != nil {
		return imp.Name.Name
	}
	p, err := strconv.Unquote(imp.Path.Value)
	if err != nil {
		return ""
	}
	return guessPackageName(p)
}

// guessPackageName applies the usual naming conventions:
// ".../v3" is named after its parent, "go-" prefixes and "-go" suffixes are dropped
func guessPackageName(importPath string) string {
	base := path.Base(importPath)
	if len(base) > 1 && base[0] == 'v' && strings.Trim(base[1:], "0123456789") == "" {
		if parent := path.Dir(importPath); parent != "." {
			base = path.Base(parent)
		}
	}
	base = strings.TrimPrefix(base, "go-")
	base = strings.TrimSuffix(base, "-go")
	base = strings.TrimSuffix(base, ".go")
	if i := strings.IndexAny(base, ".-"); i > 0 {
		base = base[:i]
	}
	return base
}

// isStub reports whether fn is a method stub carrier, which never reaches the output
func isStub(file *source.File, fn *ast.FuncDecl) bool {
	for _, act := range file.Actors {
		for _, c := range []*source.Carrier{act.PreStart, act.Handle} {
			if c != nil && c.Func == fn {
				return true
			}
		}
	}
	return false
}

// carried returns the source of decl with its //actor: and //go:generate
// directives removed
func carried(file *source.File, decl ast.Decl) string {
	var doc *ast.CommentGroup
	switch d := decl.(type) {
	case *ast.GenDecl:
		doc = d.Doc
	case *ast.FuncDecl:
		doc = d.Doc
	}

	var sb strings.Builder
	if doc != nil {
		lines := make([]string, 0, len(doc.List))
		for _, c := range doc.List {
			if strings.HasPrefix(c.Text, source.DirectivePrefix) || strings.HasPrefix(c.Text, "//go:generate") {
				continue
			}
			lines = append(lines, c.Text)
		}
		// Drop the "//" separator that preceded the directives
		for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "//" {
			lines = lines[:len(lines)-1]
		}
		for _, l := range lines {
			sb.WriteString(l + "\n")
		}
	}
	sb.WriteString(stripDirectives(file, decl.Pos(), decl.End()))
	return sb.String()
}

// stripDirectives returns the source in [from, to) without the lines of
// //actor: comments inside it (docs of grouped type specs)
func stripDirectives(file *source.File, from, to token.Pos) string {
	text := file.Text(from, to)
	base := file.Fset.Position(from).Offset

	type cut struct{ start, end int }
	var cuts []cut
	for _, group := range file.AST.Comments {
		if group.End() <= from || group.Pos() >= to {
			continue
		}
		for _, c := range group.List {
			if !strings.HasPrefix(c.Text, source.DirectivePrefix) {
				continue
			}
			start := file.Fset.Position(c.Slash).Offset - base
			end := start + len(c.Text)
			for start > 0 && (text[start-1] == ' ' || text[start-1] == '\t') {
				start--
			}
			if end < len(text) && text[end] == '\n' {
				end++
			}
			cuts = append(cuts, cut{start, end})
		}
	}
	if len(cuts) == 0 {
		return text
	}

	var sb strings.Builder
	last := 0
	for _, c := range cuts {
		sb.WriteString(text[last:c.start])
		last = c.end
	}
	sb.WriteString(text[last:])
	return sb.String()
}
