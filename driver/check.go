package driver

import (
	"bufio"
	"bytes"
	"os"
	"strings"

	"github.com/teranos/actorgen/errors"
	"github.com/teranos/actorgen/gen"
)

// Staleness describes why a generated file is out of date
type Staleness string

const (
	StaleMissing  Staleness = "missing"
	StaleModified Staleness = "modified"
)

// StaleFile is a generated file that does not match its source
type StaleFile struct {
	Input  string
	Output string
	Reason Staleness
}

// Stale compares every generated file of the run with the file on disk,
// ignoring the generator version line. Returns the files that differ.
func (r *Report) Stale() ([]StaleFile, error) {
	if diags := r.Diagnostics(); len(diags) > 0 {
		return nil, diags
	}

	var stale []StaleFile
	for _, f := range r.Files {
		if !f.HasOutput() {
			continue
		}
		existing, err := os.ReadFile(f.Output)
		if os.IsNotExist(err) {
			stale = append(stale, StaleFile{Input: f.Input, Output: f.Output, Reason: StaleMissing})
			continue
		}
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read %s", f.Output)
		}
		if Differs(existing, f.Result.Source) {
			stale = append(stale, StaleFile{Input: f.Input, Output: f.Output, Reason: StaleModified})
		}
	}
	return stale, nil
}

// Differs reports whether two generated files differ in anything but the
// generator version line, which changes with every build of actorgen.
func Differs(a, b []byte) bool {
	if bytes.Equal(a, b) {
		return false
	}
	fa, okA := filterMetadataLines(a)
	fb, okB := filterMetadataLines(b)
	if !okA || !okB {
		return true
	}
	return fa != fb
}

// filterMetadataLines removes generator version lines from content.
// ok is false if the content could not be scanned; callers treat that as a difference.
func filterMetadataLines(content []byte) (filtered string, ok bool) {
	var result strings.Builder
	scanner := bufio.NewScanner(bytes.NewReader(content))

	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(strings.TrimSpace(line), gen.GeneratorLinePrefix) {
			continue
		}
		result.WriteString(line)
		result.WriteString("\n")
	}

	if err := scanner.Err(); err != nil {
		return "", false
	}
	return result.String(), true
}
