package source

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Masterminds/semver/v3"
	"golang.org/x/tools/go/packages"

	"github.com/teranos/actorgen/errors"
	"github.com/teranos/actorgen/logger"
)

// MinGoVersion is the oldest module go directive that can compile
// generated code (type parameters)
const MinGoVersion = "1.18"

// Package is a set of Go files that share a directory
type Package struct {
	Path      string // Import path, empty for files named on the command line
	Name      string
	Dir       string
	GoVersion string // go directive of the enclosing module, if known
	Files     []string
}

// LoadConfig controls Load
type LoadConfig struct {
	Dir         string   // Working directory for pattern resolution
	TemplateTag string   // Build tag that enables template files
	Tags        []string // Extra build tags
	MinGo       string   // Minimum module go version; MinGoVersion when empty
}

// Load resolves patterns into packages.
//
// Arguments ending in ".go" name files directly and are grouped by
// directory; anything else is a package pattern resolved with
// golang.org/x/tools/go/packages with the template tag enabled, so template
// files are included. With no patterns the package in Dir is loaded.
func Load(cfg LoadConfig, patterns ...string) ([]*Package, error) {
	var files, pkgPatterns []string
	for _, p := range patterns {
		if strings.HasSuffix(p, ".go") {
			files = append(files, p)
		} else {
			pkgPatterns = append(pkgPatterns, p)
		}
	}
	if len(patterns) == 0 {
		pkgPatterns = []string{"."}
	}

	var result []*Package
	if len(files) > 0 {
		result = append(result, groupFiles(cfg.Dir, files)...)
	}
	if len(pkgPatterns) > 0 {
		pkgs, err := loadPatterns(cfg, pkgPatterns)
		if err != nil {
			return nil, err
		}
		result = append(result, pkgs...)
	}
	return result, nil
}

func loadPatterns(cfg LoadConfig, patterns []string) ([]*Package, error) {
	tags := append([]string{cfg.TemplateTag}, cfg.Tags...)
	pcfg := &packages.Config{
		Mode:       packages.NeedName | packages.NeedFiles | packages.NeedModule,
		Dir:        cfg.Dir,
		BuildFlags: []string{"-tags=" + strings.Join(tags, ",")},
	}

	pkgs, err := packages.Load(pcfg, patterns...)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load packages %s", strings.Join(patterns, " "))
	}
	if len(pkgs) == 0 {
		return nil, errors.Newf("no packages found for %s", strings.Join(patterns, " "))
	}

	minGo := cfg.MinGo
	if minGo == "" {
		minGo = MinGoVersion
	}

	var result []*Package
	for _, pkg := range pkgs {
		if len(pkg.Errors) > 0 {
			return nil, errors.Newf("package %s: %v", pkg.PkgPath, pkg.Errors[0])
		}

		p := &Package{
			Path:  pkg.PkgPath,
			Name:  pkg.Name,
			Files: append([]string(nil), pkg.GoFiles...),
		}
		if len(p.Files) > 0 {
			p.Dir = filepath.Dir(p.Files[0])
		}
		if pkg.Module != nil {
			p.GoVersion = pkg.Module.GoVersion
			if err := CheckGoVersion(p.GoVersion, minGo); err != nil {
				return nil, errors.Wrapf(err, "module %s", pkg.Module.Path)
			}
		}
		sort.Strings(p.Files)

		logger.Debugw("Loaded package",
			logger.FieldPackage, p.Path,
			logger.FieldCount, len(p.Files))
		result = append(result, p)
	}
	return result, nil
}

// groupFiles turns explicit file arguments into one package per directory
func groupFiles(dir string, files []string) []*Package {
	byDir := make(map[string]*Package)
	var order []string
	for _, f := range files {
		if !filepath.IsAbs(f) && dir != "" {
			f = filepath.Join(dir, f)
		}
		d := filepath.Dir(f)
		p, ok := byDir[d]
		if !ok {
			p = &Package{Dir: d}
			byDir[d] = p
			order = append(order, d)
		}
		p.Files = append(p.Files, f)
	}

	result := make([]*Package, 0, len(order))
	for _, d := range order {
		sort.Strings(byDir[d].Files)
		result = append(result, byDir[d])
	}
	return result
}

// CheckGoVersion reports whether a module go directive satisfies >= min.
// An empty version (no go directive) is accepted.
func CheckGoVersion(version, min string) error {
	if version == "" {
		return nil
	}
	v, err := semver.NewVersion(version)
	if err != nil {
		return errors.Wrapf(err, "invalid go version %q", version)
	}
	c, err := semver.NewConstraint(">= " + min)
	if err != nil {
		return errors.Wrapf(err, "invalid minimum go version %q", min)
	}
	if !c.Check(v) {
		return errors.WithHintf(
			errors.Newf("go %s is too old for generated actors (need >= %s)", version, min),
			"raise the go directive in go.mod to %s or later", min)
	}
	return nil
}

// ReadFile reads a Go file for scanning
func ReadFile(path string) ([]byte, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", path)
	}
	return src, nil
}
