package graph

import (
	"fmt"

	"github.com/chalk-ml/chalk/internal/tensor"
)

// Gradients builds the gradient subgraph of loss with respect to wrt
// and returns one gradient node per wrt entry, in order.
//
// The returned nodes are ordinary graph nodes: fetching them evaluates
// the chain rule backwards from loss. Nodes a wrt entry does not
// influence produce a nil gradient, mirroring the convention that a
// disconnected gradient is "no gradient" rather than zero.
func Gradients(loss *Node, wrt []*Node) []*Node {
	if !loss.dtype.IsFloat() {
		panic(fmt.Sprintf("gradients: loss %q must be float, got %s", loss.name, loss.dtype))
	}
	if len(loss.shape) != 0 {
		panic(fmt.Sprintf("gradients: loss %q must be scalar, got shape %v", loss.name, loss.shape))
	}

	g := loss.graph

	// Seed: dL/dL = 1.
	seed, err := tensor.NewRaw(tensor.Shape{}, loss.dtype, tensor.CPU)
	if err != nil {
		panic(fmt.Sprintf("gradients: %v", err))
	}
	writeOne(seed)

	grads := make(map[*Node]*Node)
	grads[loss] = g.Const(autoName(OpConst), seed)

	// Walk the forward graph in reverse dependency order, pushing each
	// node's gradient to its inputs. Multiple consumers accumulate by
	// addition.
	order := TopoSort([]*Node{loss})
	for i := len(order) - 1; i >= 0; i-- {
		n := order[i]
		grad, ok := grads[n]
		if !ok {
			continue
		}

		for idx, input := range n.inputs {
			contribution := inputGradient(g, n, grad, idx)
			if contribution == nil {
				continue
			}
			if existing, ok := grads[input]; ok {
				grads[input] = g.Add(existing, contribution)
			} else {
				grads[input] = contribution
			}
		}
	}

	result := make([]*Node, len(wrt))
	for i, w := range wrt {
		result[i] = grads[w]
	}
	return result
}

// inputGradient builds the gradient node flowing from n to its idx-th
// input. The rules follow standard reverse-mode calculus; broadcasting
// in the forward pass is undone by reducing the gradient to the runtime
// shape of the input.
func inputGradient(g *Graph, n, grad *Node, idx int) *Node {
	a := n.inputs[0]
	var b *Node
	if len(n.inputs) > 1 {
		b = n.inputs[1]
	}

	switch n.kind {
	case OpAdd:
		// d(a+b)/da = 1, d(a+b)/db = 1
		return g.reduceGrad(grad, n.inputs[idx])

	case OpSub:
		// d(a-b)/da = 1, d(a-b)/db = -1
		if idx == 0 {
			return g.reduceGrad(grad, a)
		}
		return g.reduceGrad(g.MulScalar(grad, -1), b)

	case OpMul:
		// d(a*b)/da = b, d(a*b)/db = a
		if idx == 0 {
			return g.reduceGrad(g.Mul(grad, b), a)
		}
		return g.reduceGrad(g.Mul(grad, a), b)

	case OpDiv:
		// d(a/b)/da = 1/b, d(a/b)/db = -a/b²
		if idx == 0 {
			return g.reduceGrad(g.Div(grad, b), a)
		}
		quotient := g.Div(g.Mul(grad, a), g.Mul(b, b))
		return g.reduceGrad(g.MulScalar(quotient, -1), b)

	case OpMatMul:
		// d(A@B)/dA = grad @ Bᵀ, d(A@B)/dB = Aᵀ @ grad
		if idx == 0 {
			return g.MatMul(grad, g.Transpose(b))
		}
		return g.MatMul(g.Transpose(a), grad)

	case OpReshape:
		return g.reshapeGrad(grad, a)

	case OpTranspose:
		return g.Transpose(grad, inversePermutation(n.axes)...)

	case OpMulScalar:
		return g.MulScalar(grad, n.scalar)

	case OpAddScalar:
		return grad

	case OpReLU:
		// d(relu(x))/dx = 1 where x > 0, else 0
		return g.reluGrad(grad, a)

	case OpReduceSum:
		return g.spreadGrad(grad, a, false)

	case OpReduceMean:
		return g.spreadGrad(grad, a, true)

	case OpConst, OpVariable, OpPlaceholder:
		return nil

	case OpReduceGrad, OpSpreadGrad, OpReshapeGrad, OpReLUGrad:
		panic(fmt.Sprintf("gradients: cannot differentiate through gradient node %q", n.name))

	case OpAssign, OpAssignSub, OpGroup:
		panic(fmt.Sprintf("gradients: cannot differentiate through update node %q", n.name))

	default:
		panic(fmt.Sprintf("gradients: no rule for %s node %q", n.kind, n.name))
	}
}

func inversePermutation(axes []int) []int {
	inverse := make([]int, len(axes))
	for i, ax := range axes {
		inverse[ax] = i
	}
	return inverse
}

func writeOne(t *tensor.RawTensor) {
	switch t.DType() {
	case tensor.Float32:
		t.AsFloat32()[0] = 1
	case tensor.Float64:
		t.AsFloat64()[0] = 1
	default:
		panic(fmt.Sprintf("gradients: unsupported dtype %s", t.DType()))
	}
}
