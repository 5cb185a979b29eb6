package optim

import (
	"fmt"

	"github.com/chalk-ml/chalk/internal/graph"
	"github.com/chalk-ml/chalk/internal/tensor"
)

// GradientDescent implements stochastic gradient descent, optionally
// with momentum.
//
// Update rule without momentum:
//
//	param -= lr * gradient
//
// Update rule with momentum:
//
//	velocity = momentum * velocity + gradient
//	param -= lr * velocity
//
// With momentum, Minimize adds one velocity variable per trainable
// variable to the graph. InitVariables must run after Minimize so the
// velocities start at zero.
type GradientDescent struct {
	lr       float64
	momentum float64
}

// GradientDescentConfig holds configuration for GradientDescent.
type GradientDescentConfig struct {
	LR       float64 // Learning rate (default: 0.01)
	Momentum float64 // Momentum factor (default: 0, range: [0, 1))
}

// NewGradientDescent creates a gradient descent optimizer.
func NewGradientDescent(config GradientDescentConfig) *GradientDescent {
	if config.LR == 0 {
		config.LR = 0.01
	}
	if config.Momentum < 0 || config.Momentum >= 1 {
		panic(fmt.Sprintf("optim: momentum must be in [0, 1), got %v", config.Momentum))
	}
	return &GradientDescent{lr: config.LR, momentum: config.Momentum}
}

// LR returns the learning rate.
func (gd *GradientDescent) LR() float64 {
	return gd.lr
}

// Minimize builds one update node per variable the loss depends on and
// groups them into a single train operation. Variables the loss does
// not reach are left untouched.
func (gd *GradientDescent) Minimize(loss *graph.Node) *graph.Node {
	g := loss.Graph()
	vars := g.Variables()
	grads := graph.Gradients(loss, vars)

	var updates []*graph.Node
	for i, v := range vars {
		grad := grads[i]
		if grad == nil {
			continue
		}

		step := grad
		if gd.momentum > 0 {
			velocity := g.Variable(v.Name()+"/velocity", zerosLike(v))
			step = g.Assign(velocity, g.Add(g.MulScalar(velocity, gd.momentum), grad))
		}
		updates = append(updates, g.AssignSub(v, g.MulScalar(step, gd.lr)))
	}
	if len(updates) == 0 {
		panic(fmt.Sprintf("optim: loss %q depends on no variables", loss.Name()))
	}

	return g.Group("", updates...)
}

func zerosLike(v *graph.Node) *tensor.RawTensor {
	raw, err := tensor.NewRaw(v.Shape(), v.DType(), tensor.CPU)
	if err != nil {
		panic(fmt.Sprintf("optim: velocity for %q: %v", v.Name(), err))
	}
	return raw
}
