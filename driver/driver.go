// Package driver runs the generator over packages on disk.
//
// The gen package works on one file in memory; driver resolves patterns,
// reads files, collects results and diagnostics across a whole run, and
// writes or compares the generated files. The CLI commands are thin
// wrappers around Run, Report.Write and Report.Stale.
package driver

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/teranos/actorgen/config"
	"github.com/teranos/actorgen/diag"
	"github.com/teranos/actorgen/errors"
	"github.com/teranos/actorgen/gen"
	"github.com/teranos/actorgen/logger"
	"github.com/teranos/actorgen/source"
)

// Options control a run
type Options struct {
	Config  *config.Config
	Dir     string    // Working directory for pattern resolution
	Shape   gen.Shape // Resolved output shape
	Tags    []string  // Extra build tags for package loading
	Version string    // Generator version written to headers

	// ShapeSource is where Shape came from. When it is config.SourceDefault,
	// a file whose generated output already records a shape keeps that
	// shape, so packages mixing native and future outputs regenerate
	// unchanged. Any other value applies Shape to every file.
	ShapeSource config.ShapeSource
}

// FileResult is the outcome for one input file
type FileResult struct {
	Input  string
	Output string // Path of the generated file
	Src    []byte // Input source, kept for diagnostic snippets
	Result *gen.Result
	Diags  diag.List
}

// HasOutput reports whether the file produced generated source
func (f *FileResult) HasOutput() bool {
	return f.Result != nil && f.Result.Source != nil
}

// Report collects the results of a run
type Report struct {
	Files []*FileResult
}

// Run generates every file matched by patterns. Generated sources are kept
// in memory; call Write to store them.
//
// Diagnostics do not abort the run: every file is processed so all
// authoring mistakes are reported at once. Operational failures (loading,
// reading) do.
func Run(ctx context.Context, opts Options, patterns ...string) (*Report, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	start := time.Now()

	pkgs, err := source.Load(source.LoadConfig{
		Dir:         opts.Dir,
		TemplateTag: cfg.TemplateTag,
		Tags:        opts.Tags,
		MinGo:       cfg.MinGo,
	}, patterns...)
	if err != nil {
		return nil, err
	}

	genOpts := gen.Options{
		Shape:         opts.Shape,
		RuntimeImport: cfg.RuntimeImport,
		TemplateTag:   cfg.TemplateTag,
		Version:       opts.Version,
	}

	report := &Report{}
	for _, pkg := range pkgs {
		for _, path := range pkg.Files {
			if err := ctx.Err(); err != nil {
				return nil, errors.Wrap(err, "generation cancelled")
			}
			fr, err := runFile(path, cfg.OutputSuffix, genOpts, opts.ShapeSource == config.SourceDefault)
			if err != nil {
				return nil, err
			}
			report.Files = append(report.Files, fr)
		}
	}

	logger.Debugw("Generation run complete",
		logger.FieldCount, len(report.Files),
		logger.FieldShape, opts.Shape,
		logger.FieldDurationMS, time.Since(start).Milliseconds())
	return report, nil
}

func runFile(path, suffix string, opts gen.Options, keepRecorded bool) (*FileResult, error) {
	src, err := source.ReadFile(path)
	if err != nil {
		return nil, err
	}

	fr := &FileResult{
		Input:  path,
		Output: gen.OutputName(path, suffix),
		Src:    src,
	}
	if keepRecorded {
		if existing, err := os.ReadFile(fr.Output); err == nil {
			if shape, ok := gen.RecordedShape(existing); ok && shape != opts.Shape {
				logger.Debugw("Keeping recorded shape",
					logger.FieldFile, path,
					logger.FieldShape, shape)
				opts.Shape = shape
			}
		}
	}
	res, err := gen.Generate(path, src, opts)
	if err != nil {
		diags := diag.Collect(err)
		if diags == nil {
			return nil, err
		}
		fr.Diags = diags
		return fr, nil
	}
	fr.Result = res
	for _, info := range res.Actors {
		logger.Debugw("Generated actor",
			logger.FieldFile, path,
			logger.FieldActor, info.Name,
			logger.FieldMessage, info.Msg,
			logger.FieldState, info.State,
			logger.FieldShape, res.Shape)
		logBody(info.Name, source.HookPreStart, info.PreStart)
		logBody(info.Name, source.HookHandle, info.Handle)
	}
	return fr, nil
}

func logBody(actor string, hook source.Hook, carrier string) {
	if carrier == "" {
		return
	}
	logger.Debugw("Normalized body",
		logger.FieldActor, actor,
		logger.FieldHook, hook,
		"carrier", carrier)
}

// Diagnostics returns every diagnostic of the run in file order
func (r *Report) Diagnostics() diag.List {
	var all diag.List
	for _, f := range r.Files {
		all = append(all, f.Diags...)
	}
	all.Sort()
	return all
}

// Actors returns every actor found by the run
func (r *Report) Actors() []gen.ActorInfo {
	var actors []gen.ActorInfo
	for _, f := range r.Files {
		if f.Result != nil {
			actors = append(actors, f.Result.Actors...)
		}
	}
	return actors
}

// Source returns the input source of a file in the run, for diagnostic snippets
func (r *Report) Source(filename string) []byte {
	for _, f := range r.Files {
		if f.Input == filename {
			return f.Src
		}
	}
	return nil
}

// Write stores every generated file whose content changed and returns the
// paths written. Nothing is written while the run has diagnostics.
func (r *Report) Write() ([]string, error) {
	if diags := r.Diagnostics(); len(diags) > 0 {
		return nil, diags
	}

	var written []string
	for _, f := range r.Files {
		if !f.HasOutput() {
			continue
		}
		existing, err := os.ReadFile(f.Output)
		if err == nil && bytes.Equal(existing, f.Result.Source) {
			continue
		}
		if err := writeFile(f.Output, f.Result.Source); err != nil {
			return written, err
		}
		logger.Infow("Generated",
			logger.FieldFile, f.Input,
			logger.FieldOutput, f.Output,
			logger.FieldCount, len(f.Result.Actors))
		written = append(written, f.Output)
	}
	return written, nil
}

// writeFile writes through a temp file in the same directory and renames,
// so a build running concurrently never sees a truncated file
func writeFile(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".actorgen-*.tmp")
	if err != nil {
		return errors.Wrapf(err, "failed to create temp file for %s", path)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Wrapf(err, "failed to write %s", path)
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrapf(err, "failed to write %s", path)
	}
	if err := os.Chmod(tmp.Name(), config.DefaultFilePermissions); err != nil {
		return errors.Wrapf(err, "failed to set permissions on %s", path)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return errors.Wrapf(err, "failed to rename generated file to %s", path)
	}
	return nil
}
