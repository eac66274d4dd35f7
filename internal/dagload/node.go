// Package dagload is the expression-tree builder front end the spec
// names as an external collaborator (§6: "construct the Node/DAG"):
// a programmatic constructor API plus a minimal Lua-scriptable wrapper
// around it, grounded on the teacher's embedding of gopher-lua as a
// scripting host for its coprocessor (per SPEC_FULL's DOMAIN STACK
// entry for github.com/yuin/gopher-lua).
package dagload

import "github.com/fidgetcore/fidgetcore/internal/tape"

// exprNode is the concrete tape.Node implementation every constructor
// in builder.go returns. Identity, not value, is what the compiler keys
// on (spec §6: Compile indexes nodes by interface identity), so two
// structurally identical calls to, say, Const never alias.
type exprNode struct {
	op  tape.SourceOpcode
	val float64
	lhs *exprNode
	rhs *exprNode
}

func (n *exprNode) SourceOp() tape.SourceOpcode { return n.op }
func (n *exprNode) ConstValue() float64         { return n.val }

func (n *exprNode) Operands() (lhs, rhs tape.Node) {
	if n.lhs == nil && n.rhs == nil {
		return nil, nil
	}
	if n.rhs == nil {
		return n.lhs, nil
	}
	return n.lhs, n.rhs
}
