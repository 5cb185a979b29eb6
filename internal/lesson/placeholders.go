package lesson

import (
	"io"

	"github.com/chalk-ml/chalk/internal/display"
	"github.com/chalk-ml/chalk/internal/graph"
	"github.com/chalk-ml/chalk/internal/session"
	"github.com/chalk-ml/chalk/internal/tensor"
)

func runPlaceholders(w io.Writer, backend tensor.Backend) error {
	heading(w, "Placeholders: inputs fed at run time")

	say(w, "A placeholder declares a tensor that will arrive later. The graph")
	say(w, "knows its dtype and shape; the value is fed per Run call. A -1")
	say(w, "dimension stays open, which is how one graph handles any batch size.")
	say(w, "")

	g := graph.New()
	x := g.Placeholder("x", tensor.Float32, tensor.Shape{-1, 2})
	weights := g.Const("weights", mustRaw([]float32{1, -1}, tensor.Shape{2, 1}))
	y := g.MatMul(x, weights)

	sess := session.New(g, backend)
	defer sess.Close()

	say(w, "Feeding a batch of three rows:")
	batch := mustRaw([]float32{1, 2, 3, 4, 5, 6}, tensor.Shape{3, 2})
	results, err := sess.Run(session.Feeds{x: batch}, y)
	if err != nil {
		return err
	}
	say(w, "x @ weights:\n%s\n", display.Format(results[0]))

	say(w, "The same graph accepts a single row:")
	single := mustRaw([]float32{10, 3}, tensor.Shape{1, 2})
	results, err = sess.Run(session.Feeds{x: single}, y)
	if err != nil {
		return err
	}
	say(w, "x @ weights:\n%s\n", display.Format(results[0]))

	say(w, "Forgetting the feed is an error, not a silent default:")
	if _, err := sess.Run(nil, y); err != nil {
		say(w, "  %v", err)
	}

	return nil
}
