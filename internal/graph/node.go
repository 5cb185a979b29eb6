// Package graph provides the symbolic computation graph.
//
// A Graph describes computations without executing them: building an
// Add node records that two tensors should be added, it does not add
// them. Execution happens when a session runs the graph. This split
// lets the same graph run many times with different placeholder feeds,
// and lets Gradients extend a graph with the nodes that compute its
// derivatives.
package graph

import (
	"fmt"

	"github.com/chalk-ml/chalk/internal/tensor"
)

// OpKind identifies the operation a node performs.
type OpKind int

// Graph node kinds. The *Grad kinds are emitted by Gradients and are
// not part of the public builder API.
const (
	OpConst OpKind = iota
	OpVariable
	OpPlaceholder
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpMatMul
	OpReshape
	OpTranspose
	OpMulScalar
	OpAddScalar
	OpReLU
	OpReduceSum
	OpReduceMean
	OpReduceGrad  // reduce a gradient to the runtime shape of a reference node
	OpSpreadGrad  // spread a scalar gradient over the runtime shape of a reference node
	OpReshapeGrad // reshape a gradient to the runtime shape of a reference node
	OpReLUGrad    // mask a gradient by the sign of the forward input
	OpAssign
	OpAssignSub
	OpGroup
)

// String returns the lowercase op name used in auto-generated node names.
func (k OpKind) String() string {
	switch k {
	case OpConst:
		return "const"
	case OpVariable:
		return "variable"
	case OpPlaceholder:
		return "placeholder"
	case OpAdd:
		return "add"
	case OpSub:
		return "sub"
	case OpMul:
		return "mul"
	case OpDiv:
		return "div"
	case OpMatMul:
		return "matmul"
	case OpReshape:
		return "reshape"
	case OpTranspose:
		return "transpose"
	case OpMulScalar:
		return "mul_scalar"
	case OpAddScalar:
		return "add_scalar"
	case OpReLU:
		return "relu"
	case OpReduceSum:
		return "reduce_sum"
	case OpReduceMean:
		return "reduce_mean"
	case OpReduceGrad:
		return "reduce_grad"
	case OpSpreadGrad:
		return "spread_grad"
	case OpReshapeGrad:
		return "reshape_grad"
	case OpReLUGrad:
		return "relu_grad"
	case OpAssign:
		return "assign"
	case OpAssignSub:
		return "assign_sub"
	case OpGroup:
		return "group"
	default:
		return "unknown"
	}
}

// Node is a single operation in a computation graph.
// Nodes are immutable once built; their values live in sessions.
type Node struct {
	graph  *Graph
	id     int
	name   string
	kind   OpKind
	inputs []*Node

	// Static metadata. Shape dimensions may be -1 for placeholders with
	// deferred dimensions; they resolve when the session runs.
	shape tensor.Shape
	dtype tensor.DataType

	// Kind-specific attributes.
	value  *tensor.RawTensor // OpConst value, OpVariable initializer
	scalar float64           // OpMulScalar, OpAddScalar
	axes   []int             // OpTranspose

	// OpReduceGrad, OpSpreadGrad, OpReshapeGrad match the runtime shape
	// of this node instead of a static shape.
	ref *Node
}

// Graph returns the graph the node belongs to.
func (n *Node) Graph() *Graph {
	return n.graph
}

// Name returns the node's unique name within its graph.
func (n *Node) Name() string {
	return n.name
}

// Kind returns the node's operation kind.
func (n *Node) Kind() OpKind {
	return n.kind
}

// Shape returns the node's static shape.
// Dimensions of -1 are unknown until the session feeds the graph.
func (n *Node) Shape() tensor.Shape {
	return n.shape
}

// DType returns the node's data type.
func (n *Node) DType() tensor.DataType {
	return n.dtype
}

// Inputs returns the node's input nodes.
func (n *Node) Inputs() []*Node {
	return n.inputs
}

// Value returns the stored tensor for constants and variable
// initializers, nil for every other kind.
func (n *Node) Value() *tensor.RawTensor {
	return n.value
}

// Scalar returns the attached scalar for scalar ops.
func (n *Node) Scalar() float64 {
	return n.scalar
}

// Axes returns the permutation for transpose nodes.
func (n *Node) Axes() []int {
	return n.axes
}

// Ref returns the runtime shape reference for gradient helper nodes.
func (n *Node) Ref() *Node {
	return n.ref
}

// String formats the node as "name = op(input, ...) shape dtype".
func (n *Node) String() string {
	if len(n.inputs) == 0 {
		return fmt.Sprintf("%s = %s%v %s", n.name, n.kind, n.shape, n.dtype)
	}
	args := ""
	for i, in := range n.inputs {
		if i > 0 {
			args += ", "
		}
		args += in.name
	}
	return fmt.Sprintf("%s = %s(%s)%v %s", n.name, n.kind, args, n.shape, n.dtype)
}
