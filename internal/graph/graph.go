package graph

import (
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/chalk-ml/chalk/internal/tensor"
)

// Graph is a collection of nodes forming a computation graph.
// Builders panic on structural errors (shape mismatches, duplicate
// names); a graph that builds is a graph that can run.
type Graph struct {
	mu     sync.Mutex
	nodes  []*Node
	byName map[string]*Node
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		byName: make(map[string]*Node),
	}
}

// Nodes returns all nodes in insertion order.
func (g *Graph) Nodes() []*Node {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]*Node(nil), g.nodes...)
}

// Lookup returns the node with the given name, or nil.
func (g *Graph) Lookup(name string) *Node {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.byName[name]
}

// Variables returns all variable nodes in insertion order.
func (g *Graph) Variables() []*Node {
	g.mu.Lock()
	defer g.mu.Unlock()
	var vars []*Node
	for _, n := range g.nodes {
		if n.kind == OpVariable {
			vars = append(vars, n)
		}
	}
	return vars
}

func (g *Graph) add(n *Node) *Node {
	g.mu.Lock()
	defer g.mu.Unlock()

	if n.name == "" {
		n.name = autoName(n.kind)
	}
	if _, exists := g.byName[n.name]; exists {
		panic(fmt.Sprintf("graph: duplicate node name %q", n.name))
	}

	n.graph = g
	n.id = len(g.nodes)
	g.nodes = append(g.nodes, n)
	g.byName[n.name] = n
	return n
}

// autoName generates a unique node name like "add_1a2b3c4d".
func autoName(kind OpKind) string {
	return kind.String() + "_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

// Const adds a constant node holding a fixed tensor value.
func (g *Graph) Const(name string, value *tensor.RawTensor) *Node {
	return g.add(&Node{
		name:  name,
		kind:  OpConst,
		shape: value.Shape().Clone(),
		dtype: value.DType(),
		value: value,
	})
}

// Variable adds a trainable variable node.
// The initializer provides shape, dtype and the value InitVariables
// loads into the session; the graph itself never mutates it.
func (g *Graph) Variable(name string, initializer *tensor.RawTensor) *Node {
	return g.add(&Node{
		name:  name,
		kind:  OpVariable,
		shape: initializer.Shape().Clone(),
		dtype: initializer.DType(),
		value: initializer,
	})
}

// Placeholder adds an input node that must be fed at run time.
// Shape dimensions may be -1 for dimensions resolved per run, such as
// the batch dimension.
func (g *Graph) Placeholder(name string, dtype tensor.DataType, shape tensor.Shape) *Node {
	for i, dim := range shape {
		if dim <= 0 && dim != -1 {
			panic(fmt.Sprintf("placeholder %q: invalid dimension %d at index %d", name, dim, i))
		}
	}
	return g.add(&Node{
		name:  name,
		kind:  OpPlaceholder,
		shape: shape.Clone(),
		dtype: dtype,
	})
}

// Add builds an element-wise addition node with broadcasting.
func (g *Graph) Add(a, b *Node) *Node {
	return g.binary(OpAdd, a, b)
}

// Sub builds an element-wise subtraction node with broadcasting.
func (g *Graph) Sub(a, b *Node) *Node {
	return g.binary(OpSub, a, b)
}

// Mul builds an element-wise multiplication node with broadcasting.
func (g *Graph) Mul(a, b *Node) *Node {
	return g.binary(OpMul, a, b)
}

// Div builds an element-wise division node with broadcasting.
func (g *Graph) Div(a, b *Node) *Node {
	return g.binary(OpDiv, a, b)
}

func (g *Graph) binary(kind OpKind, a, b *Node) *Node {
	if a.dtype != b.dtype {
		panic(fmt.Sprintf("%s: dtype mismatch %s vs %s", kind, a.dtype, b.dtype))
	}
	shape, err := broadcastDeferred(a.shape, b.shape)
	if err != nil {
		panic(fmt.Sprintf("%s: %v", kind, err))
	}
	return g.add(&Node{
		kind:   kind,
		inputs: []*Node{a, b},
		shape:  shape,
		dtype:  a.dtype,
	})
}

// MatMul builds a matrix multiplication node: (M, K) @ (K, N) -> (M, N).
func (g *Graph) MatMul(a, b *Node) *Node {
	if a.dtype != b.dtype {
		panic(fmt.Sprintf("matmul: dtype mismatch %s vs %s", a.dtype, b.dtype))
	}
	if len(a.shape) != 2 || len(b.shape) != 2 {
		panic(fmt.Sprintf("matmul: requires 2D nodes, got %v and %v", a.shape, b.shape))
	}
	k, kAlt := a.shape[1], b.shape[0]
	if k != kAlt && k != -1 && kAlt != -1 {
		panic(fmt.Sprintf("matmul: shape mismatch %v @ %v", a.shape, b.shape))
	}
	return g.add(&Node{
		kind:   OpMatMul,
		inputs: []*Node{a, b},
		shape:  tensor.Shape{a.shape[0], b.shape[1]},
		dtype:  a.dtype,
	})
}

// Reshape builds a node that reshapes its input.
// A single -1 dimension is inferred, at run time when the input shape
// is deferred.
func (g *Graph) Reshape(x *Node, shape tensor.Shape) *Node {
	inferred := 0
	for i, dim := range shape {
		if dim == -1 {
			inferred++
		} else if dim <= 0 {
			panic(fmt.Sprintf("reshape: invalid dimension %d at index %d", dim, i))
		}
	}
	if inferred > 1 {
		panic(fmt.Sprintf("reshape: at most one -1 dimension allowed, got %v", shape))
	}
	newShape := shape.Clone()
	if !hasDeferred(x.shape) {
		// Static input: resolve -1 and catch element-count mismatches
		// at construction instead of run time.
		newShape = tensor.ResolveReshape(x.shape, shape)
	}
	return g.add(&Node{
		kind:   OpReshape,
		inputs: []*Node{x},
		shape:  newShape,
		dtype:  x.dtype,
	})
}

func hasDeferred(s tensor.Shape) bool {
	for _, dim := range s {
		if dim == -1 {
			return true
		}
	}
	return false
}

// Transpose builds a node that permutes the input's dimensions.
// With no axes given, all dimensions are reversed.
func (g *Graph) Transpose(x *Node, axes ...int) *Node {
	ndim := len(x.shape)
	if len(axes) == 0 {
		axes = make([]int, ndim)
		for i := range axes {
			axes[i] = ndim - 1 - i
		}
	}
	if len(axes) != ndim {
		panic(fmt.Sprintf("transpose: axes length %d != ndim %d", len(axes), ndim))
	}
	newShape := make(tensor.Shape, ndim)
	for i, ax := range axes {
		if ax < 0 || ax >= ndim {
			panic(fmt.Sprintf("transpose: invalid axis %d for %dD node", ax, ndim))
		}
		newShape[i] = x.shape[ax]
	}
	return g.add(&Node{
		kind:   OpTranspose,
		inputs: []*Node{x},
		shape:  newShape,
		dtype:  x.dtype,
		axes:   append([]int(nil), axes...),
	})
}

// MulScalar builds a node multiplying every element by a scalar.
func (g *Graph) MulScalar(x *Node, scalar float64) *Node {
	return g.add(&Node{
		kind:   OpMulScalar,
		inputs: []*Node{x},
		shape:  x.shape.Clone(),
		dtype:  x.dtype,
		scalar: scalar,
	})
}

// AddScalar builds a node adding a scalar to every element.
func (g *Graph) AddScalar(x *Node, scalar float64) *Node {
	return g.add(&Node{
		kind:   OpAddScalar,
		inputs: []*Node{x},
		shape:  x.shape.Clone(),
		dtype:  x.dtype,
		scalar: scalar,
	})
}

// ReLU builds a node applying max(0, x) element-wise.
func (g *Graph) ReLU(x *Node) *Node {
	return g.add(&Node{
		kind:   OpReLU,
		inputs: []*Node{x},
		shape:  x.shape.Clone(),
		dtype:  x.dtype,
	})
}

// Square builds x * x.
func (g *Graph) Square(x *Node) *Node {
	return g.Mul(x, x)
}

// ReduceSum builds a node reducing the input to its scalar total.
func (g *Graph) ReduceSum(x *Node) *Node {
	return g.add(&Node{
		kind:   OpReduceSum,
		inputs: []*Node{x},
		shape:  tensor.Shape{},
		dtype:  x.dtype,
	})
}

// ReduceMean builds a node reducing the input to its scalar mean.
func (g *Graph) ReduceMean(x *Node) *Node {
	if !x.dtype.IsFloat() {
		panic(fmt.Sprintf("reduce_mean: requires float dtype, got %s", x.dtype))
	}
	return g.add(&Node{
		kind:   OpReduceMean,
		inputs: []*Node{x},
		shape:  tensor.Shape{},
		dtype:  x.dtype,
	})
}

// Assign builds a node that stores value into the variable when run.
// The node's output is the stored value.
func (g *Graph) Assign(variable, value *Node) *Node {
	if variable.kind != OpVariable {
		panic(fmt.Sprintf("assign: target %q is not a variable", variable.name))
	}
	if variable.dtype != value.dtype {
		panic(fmt.Sprintf("assign: dtype mismatch %s vs %s", variable.dtype, value.dtype))
	}
	return g.add(&Node{
		kind:   OpAssign,
		inputs: []*Node{variable, value},
		shape:  variable.shape.Clone(),
		dtype:  variable.dtype,
	})
}

// AssignSub builds a node that subtracts delta from the variable when
// run. Gradient descent updates are AssignSub(v, lr * grad).
func (g *Graph) AssignSub(variable, delta *Node) *Node {
	if variable.kind != OpVariable {
		panic(fmt.Sprintf("assign_sub: target %q is not a variable", variable.name))
	}
	if variable.dtype != delta.dtype {
		panic(fmt.Sprintf("assign_sub: dtype mismatch %s vs %s", variable.dtype, delta.dtype))
	}
	return g.add(&Node{
		kind:   OpAssignSub,
		inputs: []*Node{variable, delta},
		shape:  variable.shape.Clone(),
		dtype:  variable.dtype,
	})
}

// Group builds a node that runs all dependencies and returns no value.
// Fetching a group node executes every update it depends on.
func (g *Graph) Group(name string, deps ...*Node) *Node {
	if len(deps) == 0 {
		panic("group: requires at least one dependency")
	}
	return g.add(&Node{
		name:   name,
		kind:   OpGroup,
		inputs: append([]*Node(nil), deps...),
		shape:  tensor.Shape{},
		dtype:  deps[0].dtype,
	})
}

// reduceGrad, spreadGrad, reshapeGrad and reluGrad are internal
// builders used by Gradients. Their output shapes follow the
// reference node at run time.

func (g *Graph) reduceGrad(grad, ref *Node) *Node {
	return g.add(&Node{
		kind:   OpReduceGrad,
		inputs: []*Node{grad},
		shape:  ref.shape.Clone(),
		dtype:  grad.dtype,
		ref:    ref,
	})
}

func (g *Graph) spreadGrad(grad, ref *Node, mean bool) *Node {
	scalar := 0.0
	if mean {
		scalar = 1.0
	}
	return g.add(&Node{
		kind:   OpSpreadGrad,
		inputs: []*Node{grad},
		shape:  ref.shape.Clone(),
		dtype:  grad.dtype,
		ref:    ref,
		scalar: scalar,
	})
}

func (g *Graph) reshapeGrad(grad, ref *Node) *Node {
	return g.add(&Node{
		kind:   OpReshapeGrad,
		inputs: []*Node{grad},
		shape:  ref.shape.Clone(),
		dtype:  grad.dtype,
		ref:    ref,
	})
}

func (g *Graph) reluGrad(grad, forwardInput *Node) *Node {
	return g.add(&Node{
		kind:   OpReLUGrad,
		inputs: []*Node{grad, forwardInput},
		shape:  forwardInput.shape.Clone(),
		dtype:  grad.dtype,
	})
}

// broadcastDeferred applies NumPy broadcasting rules to shapes that may
// contain -1 dimensions. An unknown dimension is compatible with
// anything and stays unknown unless the other side pins it.
func broadcastDeferred(a, b tensor.Shape) (tensor.Shape, error) {
	maxLen := max(len(a), len(b))
	result := make(tensor.Shape, maxLen)

	for i := 0; i < maxLen; i++ {
		aDim, bDim := 1, 1
		if idx := len(a) - 1 - i; idx >= 0 {
			aDim = a[idx]
		}
		if idx := len(b) - 1 - i; idx >= 0 {
			bDim = b[idx]
		}

		out := maxLen - 1 - i
		switch {
		case aDim == bDim:
			result[out] = aDim
		case aDim == 1:
			result[out] = bDim
		case bDim == 1:
			result[out] = aDim
		case aDim == -1:
			result[out] = bDim
		case bDim == -1:
			result[out] = aDim
		default:
			return nil, fmt.Errorf("shapes not compatible for broadcasting: %v vs %v", a, b)
		}
	}

	return result, nil
}

// TopoSort returns the ancestors of the given nodes in dependency
// order: every node appears after all of its inputs.
func TopoSort(fetches []*Node) []*Node {
	var order []*Node
	visited := make(map[*Node]bool)

	var visit func(n *Node)
	visit = func(n *Node) {
		if visited[n] {
			return
		}
		visited[n] = true
		for _, in := range n.inputs {
			visit(in)
		}
		if n.ref != nil {
			visit(n.ref)
		}
		order = append(order, n)
	}

	for _, f := range fetches {
		visit(f)
	}
	return order
}
