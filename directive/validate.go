package directive

import (
	"go/ast"

	"github.com/teranos/actorgen/diag"
)

// Validate checks that raw names both required types and freezes it.
//
// msg and state are required; each missing key produces its own diagnostic
// at the directive position, so a directive missing both reports both.
// args defaults to DefaultArgs.
func Validate(raw *RawArguments) (*ValidatedArguments, error) {
	var errs diag.List
	if raw.Msg == nil {
		errs.Add(diag.New(diag.KindValidation, raw.Pos, "missing `msg=...`"))
	}
	if raw.State == nil {
		errs.Add(diag.New(diag.KindValidation, raw.Pos, "missing `state=...`"))
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}

	args := TypeExpr{
		Src:  DefaultArgs,
		Expr: &ast.SelectorExpr{X: ast.NewIdent("actor"), Sel: ast.NewIdent("Unit")},
		Pos:  raw.Pos,
	}
	if raw.Args != nil {
		args = *raw.Args
	}

	return &ValidatedArguments{
		msg:   *raw.Msg,
		state: *raw.State,
		args:  args,
		pos:   raw.Pos,
	}, nil
}
