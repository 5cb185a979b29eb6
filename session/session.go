// Copyright 2026 The Chalk Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package session provides the public API for executing graphs.
//
// A session binds a graph to a backend and owns variable state; the
// same graph can run in several sessions with independent state.
//
// Example:
//
//	sess := session.New(g, cpu.New())
//	sess.InitVariables()
//	results, err := sess.Run(session.Feeds{x: batch}, loss, trainOp)
package session

import (
	"github.com/chalk-ml/chalk/internal/graph"
	"github.com/chalk-ml/chalk/internal/session"
	"github.com/chalk-ml/chalk/internal/tensor"
)

// Run errors, matched with errors.Is.
var (
	// ErrMissingFeed is returned when a placeholder reachable from the
	// fetches has no entry in the feed map.
	ErrMissingFeed = session.ErrMissingFeed

	// ErrUninitialized is returned when a variable is read before
	// InitVariables was called.
	ErrUninitialized = session.ErrUninitialized

	// ErrBadFeed is returned when a fed tensor does not match the
	// placeholder's declared dtype or shape.
	ErrBadFeed = session.ErrBadFeed
)

// Feeds maps placeholder nodes to the tensors that fill them for one run.
type Feeds = session.Feeds

// Session executes a graph on a backend.
type Session = session.Session

// New creates a session for the given graph and backend.
// Variables are not initialized until InitVariables is called.
func New(g *graph.Graph, backend tensor.Backend) *Session {
	return session.New(g, backend)
}
