package source

import (
	"go/ast"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/actorgen/diag"
	"github.com/teranos/actorgen/errors"
)

const tag = "actorgen"

func scan(t *testing.T, src string) (*File, diag.List) {
	t.Helper()
	f, err := Scan("counter.go", []byte(src), tag)
	if err != nil {
		ds := diag.Collect(err)
		require.NotEmpty(t, ds, "unexpected error: %v", err)
		return nil, ds
	}
	return f, nil
}

func TestScanCommentCarriers(t *testing.T) {
	src := `package counter

// Counter counts.
//
//actor:gen msg=Op, state=int32
//actor:prestart 0, nil
//actor:handle { *state++; return nil }
type Counter struct{}
`
	f, errs := scan(t, src)
	require.Empty(t, errs)
	require.Len(t, f.Actors, 1)
	assert.False(t, f.Template)

	a := f.Actors[0]
	assert.Equal(t, "Counter", a.Name)
	assert.Equal(t, "msg=Op, state=int32", a.Args.Text)
	assert.Equal(t, 5, a.Pos.Line)
	assert.Equal(t, 13, a.Args.Start.Column)

	require.NotNil(t, a.PreStart)
	assert.Equal(t, CarrierComment, a.PreStart.Kind)
	assert.Equal(t, "0, nil", a.PreStart.Body.Text)
	assert.Equal(t, 18, a.PreStart.Body.Start.Column)

	require.NotNil(t, a.Handle)
	assert.Equal(t, "{ *state++; return nil }", a.Handle.Body.Text)
	assert.Same(t, a.Handle, a.Carrier(HookHandle))
}

func TestScanStubCarriers(t *testing.T) {
	src := `//go:build actorgen

package counter

//actor:gen msg=Op, state=int32
type Counter struct{}

//actor:prestart
func (c *Counter) Start() {
	return 0, nil
}

//actor:handle
func (cnt *Counter) Receive() {
	*state++
	return nil
}
`
	f, errs := scan(t, src)
	require.Empty(t, errs)
	assert.True(t, f.Template)
	require.Len(t, f.Actors, 1)

	a := f.Actors[0]
	require.NotNil(t, a.PreStart)
	assert.Equal(t, CarrierStub, a.PreStart.Kind)
	assert.Equal(t, "c", a.PreStart.Recv)
	assert.Equal(t, "{\n\treturn 0, nil\n}", a.PreStart.Body.Text)
	assert.Equal(t, 9, a.PreStart.Body.Start.Line)

	require.NotNil(t, a.Handle)
	assert.Equal(t, "cnt", a.Handle.Recv)
	assert.Equal(t, "Receive", a.Handle.Func.Name.Name)
}

func TestScanGroupedAndGenericTypes(t *testing.T) {
	src := `package box

type (
	// Box holds a value.
	//actor:gen msg=T, state=T
	Box[T any] struct{ v T }

	Plain struct{}
)
`
	f, errs := scan(t, src)
	require.Empty(t, errs)
	require.Len(t, f.Actors, 1)
	assert.Equal(t, "Box", f.Actors[0].Name)
	assert.NotNil(t, f.Actors[0].Spec.TypeParams)
}

func TestScanGeneratedFileSkipped(t *testing.T) {
	src := `// Code generated by actorgen. DO NOT EDIT.

package counter

//actor:gen msg=Op, state=int32
type Counter struct{}
`
	f, errs := scan(t, src)
	require.Empty(t, errs)
	assert.True(t, f.Generated)
	assert.Empty(t, f.Actors)
}

func TestScanDiagnostics(t *testing.T) {
	tests := []struct {
		name string
		src  string
		kind diag.Kind
		want string
		line int
	}{
		{
			name: "duplicate gen",
			src:  "package p\n\n//actor:gen msg=A, state=B\n//actor:gen msg=A, state=B\ntype T struct{}\n",
			kind: diag.KindValidation,
			want: "duplicate `//actor:gen` directive on T",
			line: 4,
		},
		{
			name: "carrier without gen",
			src:  "package p\n\n//actor:handle nil\ntype T struct{}\n",
			kind: diag.KindValidation,
			want: "requires `//actor:gen`",
			line: 3,
		},
		{
			name: "duplicate hook",
			src:  "package p\n\n//actor:gen msg=A, state=B\n//actor:handle nil\n//actor:handle nil\ntype T struct{}\n",
			kind: diag.KindValidation,
			want: "duplicate `//actor:handle` body for T",
			line: 5,
		},
		{
			name: "unknown directive",
			src:  "package p\n\n//actor:gen msg=A, state=B\n//actor:stop nil\ntype T struct{}\n",
			kind: diag.KindSyntax,
			want: "unknown directive `//actor:stop`",
			line: 4,
		},
		{
			name: "gen on a variable",
			src:  "package p\n\n//actor:gen msg=A, state=B\nvar v int\n",
			kind: diag.KindValidation,
			want: "must be attached to a type or method declaration",
			line: 3,
		},
		{
			name: "gen on a function",
			src:  "package p\n\n//actor:gen msg=A, state=B\nfunc f() {}\n",
			kind: diag.KindValidation,
			want: "must annotate a type declaration",
			line: 3,
		},
		{
			name: "stub outside template",
			src:  "package p\n\n//actor:gen msg=A, state=B\ntype T struct{}\n\n//actor:handle\nfunc (t *T) H() { return nil }\n",
			kind: diag.KindValidation,
			want: "only allowed in a template file",
			line: 6,
		},
		{
			name: "stub on unannotated type",
			src:  "//go:build actorgen\n\npackage p\n\ntype T struct{}\n\n//actor:handle\nfunc (t *T) H() { return nil }\n",
			kind: diag.KindValidation,
			want: "must be a method of an `//actor:gen` type",
			line: 7,
		},
		{
			name: "stub with parameters",
			src:  "//go:build actorgen\n\npackage p\n\n//actor:gen msg=A, state=B\ntype T struct{}\n\n//actor:handle\nfunc (t *T) H(x int) { return nil }\n",
			kind: diag.KindValidation,
			want: "must have no parameters or results",
			line: 9,
		},
		{
			name: "stub renames receiver type parameters",
			src:  "//go:build actorgen\n\npackage p\n\n//actor:gen msg=T, state=[]T\ntype Box[T any] struct{}\n\n//actor:handle\nfunc (b *Box[U]) H() { var u U; _ = u; return nil }\n",
			kind: diag.KindValidation,
			want: "receiver type parameters [U] must match the declaration [T]",
			line: 9,
		},
		{
			name: "stub with trailing text",
			src:  "//go:build actorgen\n\npackage p\n\n//actor:gen msg=A, state=B\ntype T struct{}\n\n//actor:handle nil\nfunc (t *T) H() { return nil }\n",
			kind: diag.KindSyntax,
			want: "unexpected text after `//actor:handle`",
			line: 8,
		},
		{
			name: "go syntax error",
			src:  "package p\n\ntype T struct{\n",
			kind: diag.KindDeclaration,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, errs := scan(t, tt.src)
			require.NotEmpty(t, errs)

			d := errs[0]
			assert.Equal(t, tt.kind, d.Kind)
			assert.Contains(t, d.Msg, tt.want)
			if tt.line > 0 {
				assert.Equal(t, tt.line, d.Pos.Line)
			}
			assert.Equal(t, "counter.go", d.Pos.Filename)
		})
	}
}

func TestScanStubReceiverTypeParams(t *testing.T) {
	for _, recv := range []string{"*Box[K, V]", "*Box[_, V]", "Box[K, V]"} {
		t.Run(recv, func(t *testing.T) {
			src := "//go:build actorgen\n\npackage p\n\n//actor:gen msg=K, state=map[K]V\ntype Box[K comparable, V any] struct{}\n\n//actor:handle\nfunc (b " + recv + ") H() { return nil }\n"
			f, errs := scan(t, src)
			require.Empty(t, errs)
			require.Len(t, f.Actors, 1)
			assert.NotNil(t, f.Actors[0].Handle)
		})
	}
}

func TestScanReportsAllDiagnostics(t *testing.T) {
	src := "package p\n\n//actor:bogus\ntype A struct{}\n\n//actor:gen msg=A, state=B\nvar v int\n"
	_, err := Scan("p.go", []byte(src), tag)
	require.Error(t, err)
	assert.True(t, errors.IsDiagnostic(err))

	ds := diag.Collect(err)
	require.Len(t, ds, 2)
	assert.Equal(t, 3, ds[0].Pos.Line)
	assert.Equal(t, 6, ds[1].Pos.Line)
	assert.True(t, strings.HasPrefix(ds[0].Error(), "p.go:3:1: "))
}

func TestIsTemplate(t *testing.T) {
	tests := []struct {
		header string
		want   bool
	}{
		{"//go:build actorgen", true},
		{"//go:build actorgen && linux", true},
		{"//go:build !actorgen", false},
		{"//go:build linux", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			f, err := Scan("x.go", []byte(tt.header+"\n\npackage p\n"), tag)
			require.NoError(t, err)
			assert.Equal(t, tt.want, f.Template)
		})
	}
}

func TestReceiverType(t *testing.T) {
	f, err := Scan("x.go", []byte("package p\n\nfunc (b *Box[K, V]) M() {}\nfunc (c Counter) N() {}\nfunc (Pair) O() {}\n"), tag)
	require.NoError(t, err)

	var got []string
	for _, decl := range f.AST.Decls {
		fn := decl.(*ast.FuncDecl)
		got = append(got, ReceiverType(fn.Recv.List[0].Type))
	}
	assert.Equal(t, []string{"Box", "Counter", "Pair"}, got)
}
