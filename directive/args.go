// Package directive parses and validates the arguments of the //actor:gen
// directive.
//
// The directive names the three types an actor is parameterised over:
//
//	//actor:gen msg=Op, state=int32, args=Config
//
// Parsing (Parse) turns the argument text into a mutable RawArguments
// accumulator and reports syntax errors; validation (Validate) enforces the
// required keys, applies the default for args and freezes the result into
// ValidatedArguments. Only a ValidatedArguments value is accepted by the
// expander, so a partially validated record can never reach code generation.
package directive

import (
	"go/ast"
	"go/token"
)

// DefaultArgs is the args type used when the directive omits args=
const DefaultArgs = "actor.Unit"

// Key is one of the three recognised directive keys
type Key int

const (
	KeyMsg Key = iota
	KeyState
	KeyArgs
)

var keyNames = [...]string{
	KeyMsg:   "msg",
	KeyState: "state",
	KeyArgs:  "args",
}

func (k Key) String() string {
	if k < 0 || int(k) >= len(keyNames) {
		return "unknown"
	}
	return keyNames[k]
}

// lookupKey maps an identifier to its Key
func lookupKey(name string) (Key, bool) {
	for k, n := range keyNames {
		if n == name {
			return Key(k), true
		}
	}
	return 0, false
}

// TypeExpr is a type expression exactly as the user wrote it
type TypeExpr struct {
	Src  string         // Verbatim source text, used in generated code
	Expr ast.Expr       // Parsed form
	Pos  token.Position // Position of the first character
}

func (t TypeExpr) String() string { return t.Src }

// Item is one parsed key=type pair
type Item struct {
	Key    Key
	KeyPos token.Position // Position of this occurrence's key, for duplicate diagnostics
	Value  TypeExpr
}

// RawArguments accumulates parsed items before validation.
// A nil field means the key was not supplied.
type RawArguments struct {
	Msg   *TypeExpr
	State *TypeExpr
	Args  *TypeExpr
	Pos   token.Position // Position of the whole directive
}

// NewRawArguments returns an empty accumulator for a directive at pos
func NewRawArguments(pos token.Position) *RawArguments {
	return &RawArguments{Pos: pos}
}

// slot returns the field that holds key
func (r *RawArguments) slot(key Key) **TypeExpr {
	switch key {
	case KeyMsg:
		return &r.Msg
	case KeyState:
		return &r.State
	default:
		return &r.Args
	}
}

// ValidatedArguments is the immutable result of Validate
type ValidatedArguments struct {
	msg   TypeExpr
	state TypeExpr
	args  TypeExpr
	pos   token.Position
}

// Msg returns the message type
func (v *ValidatedArguments) Msg() TypeExpr { return v.msg }

// State returns the state type
func (v *ValidatedArguments) State() TypeExpr { return v.state }

// Args returns the construction-argument type (DefaultArgs when omitted)
func (v *ValidatedArguments) Args() TypeExpr { return v.args }

// Pos returns the position of the directive
func (v *ValidatedArguments) Pos() token.Position { return v.pos }
