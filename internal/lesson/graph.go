package lesson

import (
	"io"

	"github.com/chalk-ml/chalk/internal/graph"
	"github.com/chalk-ml/chalk/internal/tensor"
)

func runGraph(w io.Writer, backend tensor.Backend) error {
	heading(w, "Graphs: describing computation without running it")

	say(w, "Nothing in this lesson computes a number. A graph only records")
	say(w, "what should happen: each builder call adds a node that remembers")
	say(w, "its operation, its inputs, and the shape of its future result.")
	say(w, "")

	g := graph.New()
	x := g.Const("x", mustRaw([]float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3}))
	weights := g.Const("weights", mustRaw([]float32{1, 0, 0, 1, 1, 1}, tensor.Shape{3, 2}))

	product := g.MatMul(x, weights)
	flat := g.Reshape(product, tensor.Shape{4})
	activated := g.ReLU(flat)

	say(w, "Built nodes:")
	for _, n := range []*graph.Node{x, weights, product, flat, activated} {
		say(w, "  %s", n)
	}
	say(w, "")

	say(w, "Shapes were inferred at build time: (2, 3) @ (3, 2) gives %v,", product.Shape())
	say(w, "reshaped to %v. Shape mismatches fail here, before anything runs.", flat.Shape())
	say(w, "")
	say(w, "To turn these descriptions into numbers, a session has to run")
	say(w, "the graph. That is the next lesson.")

	return nil
}
