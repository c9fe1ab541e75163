package gen

import (
	"fmt"
	"strings"

	"github.com/teranos/actorgen/errors"
)

// Shape selects how asynchrony is expressed in generated methods
type Shape string

const (
	// ShapeNative generates blocking methods returning (State, error) and error
	ShapeNative Shape = "native"
	// ShapeFuture generates methods returning *actor.Future values
	ShapeFuture Shape = "future"
)

// Shapes lists the supported shapes
var Shapes = []Shape{ShapeNative, ShapeFuture}

func (s Shape) String() string { return string(s) }

// ParseShape parses a shape name
func ParseShape(name string) (Shape, error) {
	switch Shape(strings.ToLower(strings.TrimSpace(name))) {
	case ShapeNative:
		return ShapeNative, nil
	case ShapeFuture:
		return ShapeFuture, nil
	}
	return "", errors.WithHint(
		errors.Newf("unknown shape %q", name),
		"valid shapes are native and future")
}

// RecordedShape returns the shape named by the header of a generated file.
// ok is false when src is not generated by actorgen or records no valid shape.
func RecordedShape(src []byte) (shape Shape, ok bool) {
	lines := strings.Split(string(src), "\n")
	if len(lines) == 0 || strings.TrimSpace(lines[0]) != HeaderLine {
		return "", false
	}
	for _, line := range lines[1:] {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "package ") {
			break
		}
		if rest, found := strings.CutPrefix(line, ShapeLinePrefix); found {
			s, err := ParseShape(rest)
			if err != nil {
				return "", false
			}
			return s, true
		}
	}
	return "", false
}

// Strategy renders the shape-specific parts of generated code.
// Exactly one strategy is used per generated file.
type Strategy interface {
	// Shape returns the shape this strategy renders
	Shape() Shape

	// Interface returns the runtime interface name the actor satisfies
	Interface() string

	// StartResult returns the result list of OnStart and PreStart
	StartResult(sig Signature) string

	// HandleResult returns the result list of HandleMsg and Handle
	HandleResult(sig Signature) string

	// StartBody wraps a normalized initializer block into the OnStart body
	StartBody(sig Signature, block string) string

	// HandleBody wraps a normalized handler block into the HandleMsg body
	HandleBody(sig Signature, block string) string
}

// StrategyFor returns the strategy for shape
func StrategyFor(shape Shape) (Strategy, error) {
	switch shape {
	case ShapeNative, "":
		return nativeStrategy{}, nil
	case ShapeFuture:
		return futureStrategy{}, nil
	}
	return nil, errors.Newf("unknown shape %q", shape)
}

// nativeStrategy emits the body as the method body itself
type nativeStrategy struct{}

func (nativeStrategy) Shape() Shape      { return ShapeNative }
func (nativeStrategy) Interface() string { return "Actor" }

func (nativeStrategy) StartResult(sig Signature) string {
	return fmt.Sprintf("(%s, error)", sig.State)
}

func (nativeStrategy) HandleResult(Signature) string { return "error" }

func (nativeStrategy) StartBody(_ Signature, block string) string  { return block }
func (nativeStrategy) HandleBody(_ Signature, block string) string { return block }

// futureStrategy runs the body inside actor.Async and returns the future
type futureStrategy struct{}

func (futureStrategy) Shape() Shape      { return ShapeFuture }
func (futureStrategy) Interface() string { return "FutureActor" }

func (futureStrategy) StartResult(sig Signature) string {
	return fmt.Sprintf("*%s.Future[%s]", runtimePkg, sig.State)
}

func (futureStrategy) HandleResult(Signature) string {
	return fmt.Sprintf("*%s.Future[%s.Unit]", runtimePkg, runtimePkg)
}

func (futureStrategy) StartBody(sig Signature, block string) string {
	return fmt.Sprintf("{\n\treturn %s.Async(ctx, func(ctx context.Context) (%s, error) %s)\n}",
		runtimePkg, sig.State, block)
}

func (futureStrategy) HandleBody(_ Signature, block string) string {
	return fmt.Sprintf("{\n\treturn %s.AsyncErr(ctx, func(ctx context.Context) error %s)\n}",
		runtimePkg, block)
}
