package gen

import (
	"fmt"
	"strings"
)

// Expand renders the interface implementation of one actor: the
// declaration (when non-empty), PreStart and Handle delegating to OnStart
// and HandleMsg, and a compile-time assertion against the runtime interface.
//
// Expand performs no validation. Both delegates have the same text in both
// shapes; only the result types come from the strategy.
func Expand(s Strategy, sig Signature, decl string) string {
	var sb strings.Builder

	if decl != "" {
		sb.WriteString(decl)
		sb.WriteString("\n\n")
	}

	iface := fmt.Sprintf("%s.%s[%s, %s, %s]", runtimePkg, s.Interface(), sig.Msg, sig.State, sig.Args)

	sb.WriteString(fmt.Sprintf("// PreStart implements %s.%s.\n", runtimePkg, s.Interface()))
	sb.WriteString(fmt.Sprintf("func (%s) PreStart(%s) %s {\n\treturn %s.%s(ctx, myself, args)\n}\n\n",
		sig.Receiver(), sig.StartParams(), s.StartResult(sig), sig.Recv, LifecycleMethod))

	sb.WriteString(fmt.Sprintf("// Handle implements %s.%s.\n", runtimePkg, s.Interface()))
	sb.WriteString(fmt.Sprintf("func (%s) Handle(%s) %s {\n\treturn %s.%s(ctx, myself, msg, state)\n}\n\n",
		sig.Receiver(), sig.HandleParams(), s.HandleResult(sig), sig.Recv, HandlerMethod))

	if sig.TypeParams == "" {
		sb.WriteString(fmt.Sprintf("var _ %s = (*%s)(nil)\n", iface, sig.Type))
	} else {
		// Generic types can only be asserted inside a generic scope
		sb.WriteString(fmt.Sprintf("func assert%sActor%s() {\n\tvar _ %s = (*%s%s)(nil)\n}\n",
			sig.Type, sig.TypeParams, iface, sig.Type, sig.TypeArgs))
	}

	return sb.String()
}
