package config

import (
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/teranos/actorgen/errors"
	"github.com/teranos/actorgen/gen"
)

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if c.Shape != "" {
		if _, err := gen.ParseShape(c.Shape); err != nil {
			return errors.Wrap(err, "shape")
		}
	}

	if c.OutputSuffix == "" {
		return errors.New("output_suffix cannot be empty (generated files would overwrite their sources)")
	}
	if strings.ContainsAny(c.OutputSuffix, `/\`) || strings.HasSuffix(c.OutputSuffix, ".go") {
		return errors.Newf("output_suffix must be a plain file name suffix without \".go\", got %q", c.OutputSuffix)
	}
	if strings.HasSuffix(c.OutputSuffix, "_test") {
		return errors.Newf("output_suffix %q would turn generated files into test files", c.OutputSuffix)
	}

	if !isBuildTag(c.TemplateTag) {
		return errors.Newf("template_tag must be a valid build tag, got %q", c.TemplateTag)
	}
	if !isBuildTag(c.FutureTag) {
		return errors.Newf("future_tag must be a valid build tag, got %q", c.FutureTag)
	}
	if c.TemplateTag == c.FutureTag {
		return errors.Newf("template_tag and future_tag must differ, both are %q", c.TemplateTag)
	}

	if c.RuntimeImport == "" {
		return errors.New("runtime_import cannot be empty")
	}

	if _, err := semver.NewVersion(c.MinGo); err != nil {
		return errors.Wrapf(err, "min_go must be a Go version such as 1.18, got %q", c.MinGo)
	}

	if c.Watch.DebounceMS < 0 {
		return errors.Newf("watch.debounce_ms must be >= 0, got %d", c.Watch.DebounceMS)
	}

	return nil
}

// isBuildTag reports whether tag is usable in a //go:build line
func isBuildTag(tag string) bool {
	if tag == "" {
		return false
	}
	for _, r := range tag {
		if !(r == '_' || r == '.' || r >= '0' && r <= '9' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z') {
			return false
		}
	}
	return true
}
