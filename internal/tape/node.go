package tape

// Node is the contract an upstream expression-tree DAG must satisfy
// (spec §6): each node exposes an opcode, an optional constant value,
// and up to two operand references. Compile walks a caller-supplied
// topological ordering of Nodes; it never reorders or re-derives the
// DAG itself - that is the front end's job.
type Node interface {
	// SourceOp returns the node's opcode, which may be outside the
	// tape package's supported Opcode set (spec §6 unsupported list).
	SourceOp() SourceOpcode
	// ConstValue is only read when SourceOp() == SrcConst.
	ConstValue() float64
	// Operands returns the node's LHS and RHS operand nodes (nil when
	// absent - terminals and SrcConst have neither, unary ops have
	// only LHS).
	Operands() (lhs, rhs Node)
}
