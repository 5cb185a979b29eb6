package lesson

import (
	"io"

	"github.com/chalk-ml/chalk/internal/display"
	"github.com/chalk-ml/chalk/internal/graph"
	"github.com/chalk-ml/chalk/internal/session"
	"github.com/chalk-ml/chalk/internal/tensor"
)

func runVariables(w io.Writer, backend tensor.Backend) error {
	heading(w, "Variables: state that training updates")

	say(w, "Constants never change and placeholders are fed from outside.")
	say(w, "Variables are the third kind of leaf: tensors the graph itself")
	say(w, "updates, which is what training is. Their values live in the")
	say(w, "session, not the graph, so two sessions never share state.")
	say(w, "")

	g := graph.New()
	counter := g.Variable("counter", mustRaw([]float32{0}, tensor.Shape{1}))
	step := g.Const("step", mustRaw([]float32{-1}, tensor.Shape{1}))
	increment := g.AssignSub(counter, step)

	sess := session.New(g, backend)
	defer sess.Close()

	say(w, "Reading a variable before initialization is an error:")
	if _, err := sess.Run(nil, counter); err != nil {
		say(w, "  %v", err)
	}
	say(w, "")

	say(w, "InitVariables loads every initializer into the session:")
	sess.InitVariables()
	results, err := sess.Run(nil, counter)
	if err != nil {
		return err
	}
	say(w, "counter = %s", display.Format(results[0]))
	say(w, "")

	say(w, "Running an update op three times:")
	for i := 0; i < 3; i++ {
		if _, err := sess.Run(nil, increment); err != nil {
			return err
		}
		value, err := sess.VariableValue(counter)
		if err != nil {
			return err
		}
		say(w, "counter = %s", display.Format(value))
	}
	say(w, "")

	say(w, "A second session over the same graph starts fresh:")
	sess2 := session.New(g, backend)
	defer sess2.Close()
	sess2.InitVariables()
	value, err := sess2.VariableValue(counter)
	if err != nil {
		return err
	}
	say(w, "counter = %s", display.Format(value))

	return nil
}
