// Copyright 2026 The Chalk Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package graph provides the public API for computation graphs.
//
// A graph describes computations symbolically; nothing executes until a
// session runs it. Gradients extends a graph with the nodes that
// compute its derivatives.
//
// Example:
//
//	g := graph.New()
//	x := g.Placeholder("x", tensor.Float32, tensor.Shape{-1, 3})
//	w := g.Variable("w", weights)
//	y := g.MatMul(x, w)
package graph

import (
	"github.com/chalk-ml/chalk/internal/graph"
)

// Node is a single operation in a computation graph.
type Node = graph.Node

// OpKind identifies the operation a node performs.
type OpKind = graph.OpKind

// Leaf node kinds.
const (
	OpConst       OpKind = graph.OpConst
	OpVariable    OpKind = graph.OpVariable
	OpPlaceholder OpKind = graph.OpPlaceholder
)

// Graph is a collection of nodes forming a computation graph.
type Graph = graph.Graph

// New creates an empty graph.
func New() *Graph {
	return graph.New()
}

// Gradients builds the gradient subgraph of a scalar loss with respect
// to wrt and returns one gradient node per wrt entry, in order. Entries
// the loss does not depend on get a nil gradient.
func Gradients(loss *Node, wrt []*Node) []*Node {
	return graph.Gradients(loss, wrt)
}

// TopoSort returns the ancestors of the given nodes in dependency
// order: every node appears after all of its inputs.
func TopoSort(fetches []*Node) []*Node {
	return graph.TopoSort(fetches)
}
