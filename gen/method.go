package gen

import (
	"fmt"
	"strings"

	"github.com/teranos/actorgen/body"
)

// Method names of the generated lifecycle and handler methods. PreStart and
// Handle delegate to them, so hand-written methods with these names work too.
const (
	LifecycleMethod = "OnStart"
	HandlerMethod   = "HandleMsg"
)

// Lifecycle renders OnStart from a normalized //actor:prestart body
func Lifecycle(s Strategy, sig Signature, b *body.Body) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("// %s computes the initial state of %s.\n", LifecycleMethod, sig.Type))
	sb.WriteString(fmt.Sprintf("func (%s) %s(%s) %s %s\n",
		sig.Receiver(), LifecycleMethod, sig.StartParams(), s.StartResult(sig),
		s.StartBody(sig, b.Source)))
	return sb.String()
}

// Handler renders HandleMsg from a normalized //actor:handle body
func Handler(s Strategy, sig Signature, b *body.Body) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("// %s handles one message, updating *state in place.\n", HandlerMethod))
	sb.WriteString(fmt.Sprintf("func (%s) %s(%s) %s %s\n",
		sig.Receiver(), HandlerMethod, sig.HandleParams(), s.HandleResult(sig),
		s.HandleBody(sig, b.Source)))
	return sb.String()
}
