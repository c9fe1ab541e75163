package gen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/actorgen/body"
	"github.com/teranos/actorgen/diag"
)

func TestParseShape(t *testing.T) {
	tests := []struct {
		in   string
		want Shape
		ok   bool
	}{
		{"native", ShapeNative, true},
		{"future", ShapeFuture, true},
		{" Future ", ShapeFuture, true},
		{"async", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseShape(tt.in)
			if !tt.ok {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRecordedShape(t *testing.T) {
	res := generate(t, "counter.go", counterSrc, ShapeFuture)
	shape, ok := RecordedShape(res.Source)
	require.True(t, ok)
	assert.Equal(t, ShapeFuture, shape)

	tests := map[string]string{
		"not generated": "package p\n\n// Shape: future\n",
		"no shape line": HeaderLine + "\n\npackage p\n",
		"unknown shape": HeaderLine + "\n// Shape: promise\n\npackage p\n",
		"after package": HeaderLine + "\n\npackage p\n\n// Shape: future\n",
		"empty":         "",
	}
	for name, src := range tests {
		t.Run(name, func(t *testing.T) {
			_, ok := RecordedShape([]byte(src))
			assert.False(t, ok)
		})
	}
}

func TestStrategyFor(t *testing.T) {
	for _, shape := range Shapes {
		s, err := StrategyFor(shape)
		require.NoError(t, err)
		assert.Equal(t, shape, s.Shape())
	}

	s, err := StrategyFor("")
	require.NoError(t, err)
	assert.Equal(t, ShapeNative, s.Shape())

	_, err = StrategyFor("other")
	assert.Error(t, err)
}

var counterSig = Signature{
	Type:  "Counter",
	Recv:  "c",
	Msg:   "Op",
	State: "int32",
	Args:  "actor.Unit",
}

func normalized(t *testing.T, text string) *body.Body {
	t.Helper()
	b, err := body.Normalize(diag.Span{Text: text})
	require.NoError(t, err)
	return b
}

func TestLifecycle(t *testing.T) {
	b := normalized(t, "0, nil")

	native := Lifecycle(nativeStrategy{}, counterSig, b)
	assert.Equal(t,
		"// OnStart computes the initial state of Counter.\n"+
			"func (c *Counter) OnStart(ctx context.Context, myself actor.Ref[Op], args actor.Unit) (int32, error) {\n\treturn 0, nil\n}\n",
		native)

	future := Lifecycle(futureStrategy{}, counterSig, b)
	assert.Equal(t,
		"// OnStart computes the initial state of Counter.\n"+
			"func (c *Counter) OnStart(ctx context.Context, myself actor.Ref[Op], args actor.Unit) *actor.Future[int32] {\n"+
			"\treturn actor.Async(ctx, func(ctx context.Context) (int32, error) {\n\treturn 0, nil\n})\n}\n",
		future)
}

func TestHandler(t *testing.T) {
	b := normalized(t, "{ *state++; return nil }")

	native := Handler(nativeStrategy{}, counterSig, b)
	assert.Contains(t, native, "func (c *Counter) HandleMsg(ctx context.Context, myself actor.Ref[Op], msg Op, state *int32) error { *state++; return nil }")

	future := Handler(futureStrategy{}, counterSig, b)
	assert.Contains(t, future, "*actor.Future[actor.Unit] {\n\treturn actor.AsyncErr(ctx, func(ctx context.Context) error { *state++; return nil })\n}")
}

func TestExpand(t *testing.T) {
	out := Expand(nativeStrategy{}, counterSig, "type Counter struct{}")

	assert.Contains(t, out, "type Counter struct{}\n\n// PreStart implements actor.Actor.\n")
	assert.Contains(t, out, "return c.OnStart(ctx, myself, args)")
	assert.Contains(t, out, "return c.HandleMsg(ctx, myself, msg, state)")
	assert.Contains(t, out, "var _ actor.Actor[Op, int32, actor.Unit] = (*Counter)(nil)\n")

	noDecl := Expand(futureStrategy{}, counterSig, "")
	assert.Contains(t, noDecl, "// PreStart implements actor.FutureActor.\n")
	assert.NotContains(t, noDecl, "type Counter")
}

func TestDefaultReceiver(t *testing.T) {
	assert.Equal(t, "c", defaultReceiver("Counter"))
	assert.Equal(t, "p", defaultReceiver("pingActor"))
	assert.Equal(t, "é", defaultReceiver("Écho"))
	assert.Equal(t, "recv", defaultReceiver("_hidden"))
}
