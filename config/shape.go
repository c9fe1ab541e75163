package config

import (
	"os"
	"strings"

	shellquote "github.com/kballard/go-shellquote"

	"github.com/teranos/actorgen/errors"
	"github.com/teranos/actorgen/gen"
)

// ShapeSource records where a resolved shape came from
type ShapeSource string

const (
	SourceFlag     ShapeSource = "flag"
	SourceConfig   ShapeSource = "config"
	SourceBuildTag ShapeSource = "build tags"
	SourceDefault  ShapeSource = "default"
)

// ResolveShape picks the output shape: an explicit flag wins, then the
// configured shape, then the future tag among buildTags or the -tags flag
// inside GOFLAGS, and finally the native shape.
func (c *Config) ResolveShape(flag string, buildTags []string) (gen.Shape, ShapeSource, error) {
	if flag != "" {
		shape, err := gen.ParseShape(flag)
		return shape, SourceFlag, err
	}
	if c.Shape != "" {
		shape, err := gen.ParseShape(c.Shape)
		return shape, SourceConfig, err
	}

	goflags, err := GoflagsTags(os.Getenv("GOFLAGS"))
	if err != nil {
		return "", "", err
	}
	for _, tag := range append(append([]string(nil), buildTags...), goflags...) {
		if tag == c.FutureTag {
			return gen.ShapeFuture, SourceBuildTag, nil
		}
	}
	return gen.ShapeNative, SourceDefault, nil
}

// GoflagsTags extracts build tags from a GOFLAGS value.
// Both "-tags=a,b" and "-tags a,b" forms are recognised; the last one wins,
// as it does for the go command.
func GoflagsTags(goflags string) ([]string, error) {
	words, err := shellquote.Split(goflags)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse GOFLAGS %q", goflags)
	}

	var tags []string
	for i := 0; i < len(words); i++ {
		word := strings.TrimPrefix(words[i], "-")
		switch {
		case strings.HasPrefix(word, "-tags="):
			tags = SplitTags(strings.TrimPrefix(word, "-tags="))
		case strings.HasPrefix(word, "tags="):
			tags = SplitTags(strings.TrimPrefix(word, "tags="))
		case (word == "tags" || word == "-tags") && i+1 < len(words):
			i++
			tags = SplitTags(words[i])
		}
	}
	return tags, nil
}

// SplitTags splits a comma or space separated tag list
func SplitTags(list string) []string {
	return strings.FieldsFunc(list, func(r rune) bool {
		return r == ',' || r == ' '
	})
}
