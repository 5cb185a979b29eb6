package lesson

import (
	"io"

	"github.com/chalk-ml/chalk/internal/display"
	"github.com/chalk-ml/chalk/internal/graph"
	"github.com/chalk-ml/chalk/internal/session"
	"github.com/chalk-ml/chalk/internal/tensor"
)

func runSession(w io.Writer, backend tensor.Backend) error {
	heading(w, "Sessions: where graphs execute")

	say(w, "A session binds a graph to a backend and evaluates fetches on")
	say(w, "demand. Only the nodes a fetch depends on actually run.")
	say(w, "")

	g := graph.New()
	a := g.Const("a", mustRaw([]float32{1, 2, 3, 4}, tensor.Shape{2, 2}))
	b := g.Const("b", mustRaw([]float32{5, 6, 7, 8}, tensor.Shape{2, 2}))

	sum := g.Add(a, b)
	product := g.MatMul(a, b)
	scaled := g.MulScalar(sum, 10)

	sess := session.New(g, backend)
	defer sess.Close()

	results, err := sess.Run(nil, sum, product, scaled)
	if err != nil {
		return err
	}

	say(w, "One Run call can fetch several nodes:")
	say(w, "a + b:\n%s\n", display.Format(results[0]))
	say(w, "a @ b:\n%s\n", display.Format(results[1]))
	say(w, "(a + b) * 10:\n%s\n", display.Format(results[2]))

	say(w, "Intermediate results are shared: a + b ran once even though two")
	say(w, "fetches depend on it.")

	return nil
}
