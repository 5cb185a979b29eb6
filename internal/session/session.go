// Package session executes computation graphs.
//
// A Session binds a graph to a backend and owns all mutable state: the
// graph describes computations, the session holds variable values and
// runs the graph. Several sessions can execute the same graph with
// independent variable state.
package session

import (
	"errors"
	"fmt"

	"github.com/chalk-ml/chalk/internal/graph"
	"github.com/chalk-ml/chalk/internal/tensor"
)

// Run errors. Callers match them with errors.Is.
var (
	// ErrMissingFeed is returned when a placeholder reachable from the
	// fetches has no entry in the feed map.
	ErrMissingFeed = errors.New("placeholder was not fed")

	// ErrUninitialized is returned when a variable is read before
	// InitVariables was called.
	ErrUninitialized = errors.New("variable was not initialized")

	// ErrBadFeed is returned when a fed tensor does not match the
	// placeholder's declared dtype or shape.
	ErrBadFeed = errors.New("feed does not match placeholder")
)

// Feeds maps placeholder nodes to the tensors that fill them for one run.
type Feeds map[*graph.Node]*tensor.RawTensor

// Session executes a graph on a backend.
type Session struct {
	graph   *graph.Graph
	backend tensor.Backend

	// Variable state, keyed by variable node. Values are deep copies of
	// the initializers so the graph stays immutable.
	vars map[*graph.Node]*tensor.RawTensor
}

// New creates a session for the given graph and backend.
// Variables are not initialized until InitVariables is called.
func New(g *graph.Graph, backend tensor.Backend) *Session {
	return &Session{
		graph:   g,
		backend: backend,
		vars:    make(map[*graph.Node]*tensor.RawTensor),
	}
}

// Backend returns the backend the session executes on.
func (s *Session) Backend() tensor.Backend {
	return s.backend
}

// InitVariables loads every variable's initializer into the session.
// Calling it again resets all variables to their initial values.
func (s *Session) InitVariables() {
	for _, v := range s.graph.Variables() {
		s.vars[v] = v.Value().DeepClone()
	}
}

// VariableValue returns the session's current value for a variable.
func (s *Session) VariableValue(v *graph.Node) (*tensor.RawTensor, error) {
	if v.Kind() != graph.OpVariable {
		return nil, fmt.Errorf("session: %q is not a variable", v.Name())
	}
	value, ok := s.vars[v]
	if !ok {
		return nil, fmt.Errorf("session: %q: %w", v.Name(), ErrUninitialized)
	}
	return value, nil
}

// Close drops all variable state. The session must not be used after.
func (s *Session) Close() {
	s.vars = nil
}

// Run evaluates the fetches and returns their values in order.
//
// Only nodes reachable from the fetches execute. Every placeholder in
// that subgraph must appear in feeds, and every variable must be
// initialized. Fetching an update node (assign, group) applies the
// update to the session's variable state; group fetches return nil.
func (s *Session) Run(feeds Feeds, fetches ...*graph.Node) ([]*tensor.RawTensor, error) {
	order := graph.TopoSort(fetches)

	// Guard every tensor entering the evaluation against the backends'
	// inplace fast path. Constants, feeds and variable state must
	// survive the run; intermediates may feed several consumers.
	var guards []func()
	defer func() {
		for _, release := range guards {
			release()
		}
	}()
	guard := func(raw *tensor.RawTensor) *tensor.RawTensor {
		guards = append(guards, raw.ForceNonUnique())
		return raw
	}

	values := make(map[*graph.Node]*tensor.RawTensor, len(order))

	for _, n := range order {
		switch n.Kind() {
		case graph.OpConst:
			values[n] = guard(n.Value())

		case graph.OpVariable:
			state, ok := s.vars[n]
			if !ok {
				return nil, fmt.Errorf("session: variable %q: %w", n.Name(), ErrUninitialized)
			}
			values[n] = guard(state)

		case graph.OpPlaceholder:
			fed, ok := feeds[n]
			if !ok {
				return nil, fmt.Errorf("session: placeholder %q: %w", n.Name(), ErrMissingFeed)
			}
			if err := checkFeed(n, fed); err != nil {
				return nil, err
			}
			values[n] = guard(fed)

		case graph.OpAssign:
			updated := values[n.Inputs()[1]].DeepClone()
			s.vars[n.Inputs()[0]] = updated
			values[n] = guard(updated)

		case graph.OpAssignSub:
			variable, delta := n.Inputs()[0], n.Inputs()[1]
			updated := s.backend.Sub(values[variable], values[delta])
			s.vars[variable] = updated
			values[n] = guard(updated)

		case graph.OpGroup:
			// Dependencies already ran; a group has no value.
			values[n] = nil

		default:
			values[n] = guard(s.eval(n, values))
		}
	}

	results := make([]*tensor.RawTensor, len(fetches))
	for i, f := range fetches {
		if values[f] == nil {
			continue
		}
		results[i] = values[f].DeepClone()
	}
	return results, nil
}

// eval computes a single non-state node from its input values.
func (s *Session) eval(n *graph.Node, values map[*graph.Node]*tensor.RawTensor) *tensor.RawTensor {
	in := func(i int) *tensor.RawTensor {
		return values[n.Inputs()[i]]
	}

	switch n.Kind() {
	case graph.OpAdd:
		return s.backend.Add(in(0), in(1))
	case graph.OpSub:
		return s.backend.Sub(in(0), in(1))
	case graph.OpMul:
		return s.backend.Mul(in(0), in(1))
	case graph.OpDiv:
		return s.backend.Div(in(0), in(1))
	case graph.OpMatMul:
		return s.backend.MatMul(in(0), in(1))
	case graph.OpReshape:
		resolved := tensor.ResolveReshape(in(0).Shape(), n.Shape())
		return s.backend.Reshape(in(0), resolved)
	case graph.OpTranspose:
		return s.backend.Transpose(in(0), n.Axes()...)
	case graph.OpMulScalar:
		return s.backend.MulScalar(in(0), n.Scalar())
	case graph.OpAddScalar:
		return s.backend.AddScalar(in(0), n.Scalar())
	case graph.OpReLU:
		return s.backend.ReLU(in(0))
	case graph.OpReduceSum:
		return s.backend.Sum(in(0))
	case graph.OpReduceMean:
		return s.backend.Mean(in(0))
	case graph.OpReduceGrad:
		return reduceToShape(in(0), values[n.Ref()].Shape(), s.backend)
	case graph.OpSpreadGrad:
		return spreadScalar(in(0), values[n.Ref()].Shape(), n.Scalar() != 0)
	case graph.OpReshapeGrad:
		return s.backend.Reshape(in(0), values[n.Ref()].Shape())
	case graph.OpReLUGrad:
		return reluMask(in(0), in(1))
	default:
		panic(fmt.Sprintf("session: cannot evaluate %s node %q", n.Kind(), n.Name()))
	}
}

// checkFeed validates a fed tensor against the placeholder's declared
// dtype and shape. Dimensions declared -1 accept any size.
func checkFeed(n *graph.Node, fed *tensor.RawTensor) error {
	if fed.DType() != n.DType() {
		return fmt.Errorf("session: placeholder %q expects %s, got %s: %w",
			n.Name(), n.DType(), fed.DType(), ErrBadFeed)
	}
	declared := n.Shape()
	actual := fed.Shape()
	if len(declared) != len(actual) {
		return fmt.Errorf("session: placeholder %q expects shape %v, got %v: %w",
			n.Name(), declared, actual, ErrBadFeed)
	}
	for i, dim := range declared {
		if dim != -1 && dim != actual[i] {
			return fmt.Errorf("session: placeholder %q expects shape %v, got %v: %w",
				n.Name(), declared, actual, ErrBadFeed)
		}
	}
	return nil
}
