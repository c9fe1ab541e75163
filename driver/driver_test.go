package driver

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/actorgen/config"
	"github.com/teranos/actorgen/errors"
	"github.com/teranos/actorgen/gen"
)

const counterSrc = `package counter

type Op int

const (
	Inc Op = iota
	Dec
)

//actor:gen msg=Op, state=int32
//actor:prestart 0, nil
//actor:handle { if msg == Inc { *state++ } else { *state-- }; return nil }
type Counter struct{}
`

const plainSrc = `package counter

// Limit has no actors
const Limit = 10
`

const brokenSrc = `package counter

//actor:gen msg=Op
//actor:handle { return nil }
type Broken struct{}

//actor:gen msg=Op, msg=int, state=int
type Twice struct{}
`

func writeSources(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, src := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(src), 0644))
	}
	return dir
}

func run(t *testing.T, dir string, version string, files ...string) *Report {
	t.Helper()
	report, err := Run(context.Background(), Options{
		Dir:     dir,
		Shape:   gen.ShapeNative,
		Version: version,
	}, files...)
	require.NoError(t, err)
	return report
}

func TestRunAndWrite(t *testing.T) {
	dir := writeSources(t, map[string]string{
		"counter.go": counterSrc,
		"limit.go":   plainSrc,
	})

	report := run(t, dir, "test", "counter.go", "limit.go")
	require.Len(t, report.Files, 2)
	assert.Empty(t, report.Diagnostics())

	actors := report.Actors()
	require.Len(t, actors, 1)
	assert.Equal(t, "Counter", actors[0].Name)
	assert.Equal(t, "Op", actors[0].Msg)
	assert.Equal(t, "int32", actors[0].State)

	written, err := report.Write()
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "counter_gen.go")}, written)

	out, err := os.ReadFile(filepath.Join(dir, "counter_gen.go"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(out), gen.HeaderLine))
	assert.Contains(t, string(out), "func (c *Counter) OnStart(")

	_, err = os.Stat(filepath.Join(dir, "limit_gen.go"))
	assert.True(t, os.IsNotExist(err), "files without actors produce no output")

	// A second identical run writes nothing
	written, err = run(t, dir, "test", "counter.go", "limit.go").Write()
	require.NoError(t, err)
	assert.Empty(t, written)
}

func TestRunCollectsDiagnostics(t *testing.T) {
	dir := writeSources(t, map[string]string{
		"counter.go": counterSrc,
		"broken.go":  brokenSrc,
	})

	report := run(t, dir, "test", "counter.go", "broken.go")
	diags := report.Diagnostics()
	require.Len(t, diags, 2)
	assert.Contains(t, diags[0].Msg, "missing `state=...`")
	assert.Contains(t, diags[1].Msg, "duplicate `msg` argument")
	assert.True(t, errors.IsValidationError(diags))
	assert.Equal(t, []byte(brokenSrc), report.Source(diags[0].Pos.Filename))

	written, err := report.Write()
	require.Error(t, err)
	assert.Empty(t, written)
	_, err = os.Stat(filepath.Join(dir, "counter_gen.go"))
	assert.True(t, os.IsNotExist(err), "nothing is written while any file has diagnostics")
}

func TestRunCancelled(t *testing.T) {
	dir := writeSources(t, map[string]string{"counter.go": counterSrc})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, Options{Dir: dir}, "counter.go")
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestRunMissingFile(t *testing.T) {
	_, err := Run(context.Background(), Options{Dir: t.TempDir()}, "missing.go")
	require.Error(t, err)
	assert.False(t, errors.IsDiagnostic(err))
}

func TestStale(t *testing.T) {
	dir := writeSources(t, map[string]string{"counter.go": counterSrc})
	output := filepath.Join(dir, "counter_gen.go")

	stale, err := run(t, dir, "v1", "counter.go").Stale()
	require.NoError(t, err)
	require.Len(t, stale, 1)
	assert.Equal(t, StaleMissing, stale[0].Reason)
	assert.Equal(t, output, stale[0].Output)

	_, err = run(t, dir, "v1", "counter.go").Write()
	require.NoError(t, err)

	// A different generator version alone is not staleness
	stale, err = run(t, dir, "v2", "counter.go").Stale()
	require.NoError(t, err)
	assert.Empty(t, stale)

	// Editing the source is
	edited := strings.Replace(counterSrc, "//actor:prestart 0, nil", "//actor:prestart 5, nil", 1)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "counter.go"), []byte(edited), 0644))
	stale, err = run(t, dir, "v1", "counter.go").Stale()
	require.NoError(t, err)
	require.Len(t, stale, 1)
	assert.Equal(t, StaleModified, stale[0].Reason)
}

func TestRunKeepsRecordedShape(t *testing.T) {
	dir := writeSources(t, map[string]string{"counter.go": counterSrc})

	report, err := Run(context.Background(), Options{Dir: dir, Shape: gen.ShapeFuture}, "counter.go")
	require.NoError(t, err)
	_, err = report.Write()
	require.NoError(t, err)

	report, err = Run(context.Background(), Options{
		Dir:         dir,
		Shape:       gen.ShapeNative,
		ShapeSource: config.SourceDefault,
	}, "counter.go")
	require.NoError(t, err)
	require.Len(t, report.Files, 1)
	assert.Equal(t, gen.ShapeFuture, report.Files[0].Result.Shape)

	stale, err := report.Stale()
	require.NoError(t, err)
	assert.Empty(t, stale)

	// A chosen shape applies to every file
	report, err = Run(context.Background(), Options{
		Dir:         dir,
		Shape:       gen.ShapeNative,
		ShapeSource: config.SourceFlag,
	}, "counter.go")
	require.NoError(t, err)
	assert.Equal(t, gen.ShapeNative, report.Files[0].Result.Shape)
}

// The counter example mixes a native and a future template in one package
func TestExamplePackageIsNotStale(t *testing.T) {
	report, err := Run(context.Background(), Options{
		Dir:         filepath.Join("..", "examples", "counter"),
		Shape:       gen.ShapeNative,
		ShapeSource: config.SourceDefault,
	}, ".")
	require.NoError(t, err)
	assert.Empty(t, report.Diagnostics())

	shapes := make(map[string]gen.Shape)
	for _, f := range report.Files {
		if f.HasOutput() {
			shapes[filepath.Base(f.Output)] = f.Result.Shape
		}
	}
	assert.Equal(t, map[string]gen.Shape{
		"counter_actor_gen.go":        gen.ShapeNative,
		"future_counter_actor_gen.go": gen.ShapeFuture,
	}, shapes)

	stale, err := report.Stale()
	require.NoError(t, err)
	assert.Empty(t, stale)
}

func TestDiffers(t *testing.T) {
	a := []byte(gen.HeaderLine + "\n// Generator: actorgen v1\n\npackage p\n")
	b := []byte(gen.HeaderLine + "\n// Generator: actorgen v2\n\npackage p\n")
	c := []byte(gen.HeaderLine + "\n// Generator: actorgen v1\n\npackage q\n")

	assert.False(t, Differs(a, a))
	assert.False(t, Differs(a, b))
	assert.True(t, Differs(a, c))
	assert.True(t, Differs(a, nil))
}
