// Copyright 2026 The Chalk Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package optim provides the public API for training optimizers.
//
// Optimizers build update operations into a graph: Minimize turns a
// scalar loss node into a train op that a session runs once per step.
//
// Example:
//
//	sgd := optim.NewGradientDescent(optim.GradientDescentConfig{LR: 0.01})
//	train := sgd.Minimize(loss)
//	sess.Run(feeds, train)
package optim

import (
	"github.com/chalk-ml/chalk/internal/optim"
)

// Optimizer turns a scalar loss node into a train operation.
type Optimizer = optim.Optimizer

// GradientDescent implements stochastic gradient descent, optionally
// with momentum.
type GradientDescent = optim.GradientDescent

// GradientDescentConfig holds configuration for GradientDescent.
type GradientDescentConfig = optim.GradientDescentConfig

// NewGradientDescent creates a gradient descent optimizer. A zero
// learning rate defaults to 0.01.
func NewGradientDescent(config GradientDescentConfig) *GradientDescent {
	return optim.NewGradientDescent(config)
}
