// Package optim builds training update operations into computation graphs.
//
// Optimizers here do not touch tensors directly. Minimize takes a scalar
// loss node, derives gradients for the graph's variables, and emits the
// update nodes that apply them. Running the returned train operation in a
// session performs one optimization step.
//
// Example usage:
//
//	sgd := optim.NewGradientDescent(optim.GradientDescentConfig{LR: 0.01})
//	train := sgd.Minimize(loss)
//
//	sess := session.New(g, cpu.New())
//	sess.InitVariables()
//	for step := 0; step < steps; step++ {
//	    sess.Run(feeds, train)
//	}
package optim

import "github.com/chalk-ml/chalk/internal/graph"

// Optimizer turns a scalar loss node into a train operation.
type Optimizer interface {
	// Minimize builds gradient and update nodes for every variable the
	// loss depends on and returns a group node that applies them all.
	Minimize(loss *graph.Node) *graph.Node
}
