package gen

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/teranos/actorgen/directive"
	"github.com/teranos/actorgen/source"
)

// runtimePkg is the name generated code uses for the runtime package
const runtimePkg = "actor"

// Signature is everything the generators need to know about one actor
type Signature struct {
	Type       string // Type name
	TypeParams string // Type parameter list as declared, e.g. "[K comparable, V any]"
	TypeArgs   string // Type parameter names, e.g. "[K, V]"
	Recv       string // Receiver name

	Msg   string
	State string
	Args  string
}

// NewSignature combines a validated directive with its declaration
func NewSignature(file *source.File, a *source.Actor, args *directive.ValidatedArguments) Signature {
	sig := Signature{
		Type:  a.Name,
		Recv:  defaultReceiver(a.Name),
		Msg:   args.Msg().Src,
		State: args.State().Src,
		Args:  args.Args().Src,
	}

	if tp := a.Spec.TypeParams; tp != nil && len(tp.List) > 0 {
		sig.TypeParams = file.Text(tp.Opening, tp.Closing+1)
		var names []string
		for _, field := range tp.List {
			for _, n := range field.Names {
				names = append(names, n.Name)
			}
		}
		sig.TypeArgs = "[" + strings.Join(names, ", ") + "]"
	}

	// A stub's receiver name is what its body refers to; prefer it for
	// the delegating methods too
	for _, c := range []*source.Carrier{a.PreStart, a.Handle} {
		if c != nil && c.Recv != "" {
			sig.Recv = c.Recv
			break
		}
	}
	return sig
}

// WithRecv returns sig with a different receiver name
func (s Signature) WithRecv(name string) Signature {
	if name != "" {
		s.Recv = name
	}
	return s
}

// Receiver renders the receiver clause without parentheses
func (s Signature) Receiver() string {
	return fmt.Sprintf("%s *%s%s", s.Recv, s.Type, s.TypeArgs)
}

// StartParams renders the parameter list shared by OnStart and PreStart
func (s Signature) StartParams() string {
	return fmt.Sprintf("ctx context.Context, myself %s.Ref[%s], args %s", runtimePkg, s.Msg, s.Args)
}

// HandleParams renders the parameter list shared by HandleMsg and Handle
func (s Signature) HandleParams() string {
	return fmt.Sprintf("ctx context.Context, myself %s.Ref[%s], msg %s, state *%s", runtimePkg, s.Msg, s.Msg, s.State)
}

// defaultReceiver derives a receiver name from the type name: Counter → c
func defaultReceiver(typeName string) string {
	r, _ := utf8.DecodeRuneInString(typeName)
	if !unicode.IsLetter(r) {
		return "recv"
	}
	return string(unicode.ToLower(r))
}
