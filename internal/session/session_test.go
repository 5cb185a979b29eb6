package session

import (
	"errors"
	"math"
	"testing"

	"github.com/chalk-ml/chalk/internal/backend/cpu"
	"github.com/chalk-ml/chalk/internal/graph"
	"github.com/chalk-ml/chalk/internal/tensor"
)

func rawOf(t *testing.T, data []float32, shape tensor.Shape) *tensor.RawTensor {
	t.Helper()
	raw, err := tensor.NewRaw(shape, tensor.Float32, tensor.CPU)
	if err != nil {
		t.Fatalf("NewRaw failed: %v", err)
	}
	copy(raw.AsFloat32(), data)
	return raw
}

func assertFloats(t *testing.T, got *tensor.RawTensor, want []float32) {
	t.Helper()
	if got == nil {
		t.Fatal("result is nil")
	}
	data := got.AsFloat32()
	if len(data) != len(want) {
		t.Fatalf("length = %d, want %d", len(data), len(want))
	}
	for i, w := range want {
		if math.Abs(float64(data[i]-w)) > 1e-5 {
			t.Errorf("data[%d] = %v, want %v", i, data[i], w)
		}
	}
}

func TestRun_Constant(t *testing.T) {
	g := graph.New()
	c := g.Const("c", rawOf(t, []float32{1, 2, 3}, tensor.Shape{3}))

	sess := New(g, cpu.New())
	results, err := sess.Run(nil, c)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	assertFloats(t, results[0], []float32{1, 2, 3})
}

func TestRun_Arithmetic(t *testing.T) {
	g := graph.New()
	a := g.Const("a", rawOf(t, []float32{1, 2, 3, 4}, tensor.Shape{2, 2}))
	b := g.Const("b", rawOf(t, []float32{5, 6, 7, 8}, tensor.Shape{2, 2}))

	sum := g.Add(a, b)
	prod := g.MatMul(a, b)

	sess := New(g, cpu.New())
	results, err := sess.Run(nil, sum, prod)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	assertFloats(t, results[0], []float32{6, 8, 10, 12})
	assertFloats(t, results[1], []float32{19, 22, 43, 50})
}

func TestRun_ConstantsSurviveRuns(t *testing.T) {
	g := graph.New()
	a := g.Const("a", rawOf(t, []float32{1, 2}, tensor.Shape{2}))
	b := g.Const("b", rawOf(t, []float32{10, 20}, tensor.Shape{2}))
	sum := g.Add(a, b)

	sess := New(g, cpu.New())
	for i := 0; i < 3; i++ {
		results, err := sess.Run(nil, sum)
		if err != nil {
			t.Fatalf("Run %d failed: %v", i, err)
		}
		// Inplace reuse of a's buffer would make this grow each run.
		assertFloats(t, results[0], []float32{11, 22})
	}
}

func TestRun_Placeholder(t *testing.T) {
	g := graph.New()
	x := g.Placeholder("x", tensor.Float32, tensor.Shape{-1, 2})
	doubled := g.MulScalar(x, 2)

	sess := New(g, cpu.New())
	results, err := sess.Run(Feeds{x: rawOf(t, []float32{1, 2, 3, 4}, tensor.Shape{2, 2})}, doubled)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	assertFloats(t, results[0], []float32{2, 4, 6, 8})

	// Same graph, different batch size.
	results, err = sess.Run(Feeds{x: rawOf(t, []float32{5, 6}, tensor.Shape{1, 2})}, doubled)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	assertFloats(t, results[0], []float32{10, 12})
}

func TestRun_MissingFeed(t *testing.T) {
	g := graph.New()
	x := g.Placeholder("x", tensor.Float32, tensor.Shape{2})
	y := g.MulScalar(x, 2)

	sess := New(g, cpu.New())
	_, err := sess.Run(nil, y)
	if !errors.Is(err, ErrMissingFeed) {
		t.Errorf("err = %v, want ErrMissingFeed", err)
	}
}

func TestRun_BadFeed(t *testing.T) {
	g := graph.New()
	x := g.Placeholder("x", tensor.Float32, tensor.Shape{2, 3})
	y := g.MulScalar(x, 2)

	sess := New(g, cpu.New())
	_, err := sess.Run(Feeds{x: rawOf(t, []float32{1, 2}, tensor.Shape{2})}, y)
	if !errors.Is(err, ErrBadFeed) {
		t.Errorf("err = %v, want ErrBadFeed", err)
	}
}

func TestRun_BadFeedDType(t *testing.T) {
	g := graph.New()
	x := g.Placeholder("x", tensor.Float32, tensor.Shape{2})
	y := g.MulScalar(x, 2)

	fed, err := tensor.NewRaw(tensor.Shape{2}, tensor.Float64, tensor.CPU)
	if err != nil {
		t.Fatalf("NewRaw failed: %v", err)
	}
	copy(fed.AsFloat64(), []float64{1, 2})

	sess := New(g, cpu.New())
	_, err = sess.Run(Feeds{x: fed}, y)
	if !errors.Is(err, ErrBadFeed) {
		t.Errorf("err = %v, want ErrBadFeed", err)
	}
}

func TestRun_UninitializedVariable(t *testing.T) {
	g := graph.New()
	v := g.Variable("v", rawOf(t, []float32{1, 2}, tensor.Shape{2}))
	y := g.MulScalar(v, 2)

	sess := New(g, cpu.New())
	_, err := sess.Run(nil, y)
	if !errors.Is(err, ErrUninitialized) {
		t.Errorf("err = %v, want ErrUninitialized", err)
	}
}

func TestRun_InitVariables(t *testing.T) {
	g := graph.New()
	v := g.Variable("v", rawOf(t, []float32{1, 2}, tensor.Shape{2}))
	y := g.MulScalar(v, 3)

	sess := New(g, cpu.New())
	sess.InitVariables()

	results, err := sess.Run(nil, y)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	assertFloats(t, results[0], []float32{3, 6})
}

func TestRun_AssignUpdatesSessionNotGraph(t *testing.T) {
	g := graph.New()
	init := rawOf(t, []float32{1}, tensor.Shape{1})
	v := g.Variable("v", init)
	assign := g.Assign(v, g.Const("ten", rawOf(t, []float32{10}, tensor.Shape{1})))

	sess := New(g, cpu.New())
	sess.InitVariables()

	if _, err := sess.Run(nil, assign); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	value, err := sess.VariableValue(v)
	if err != nil {
		t.Fatalf("VariableValue failed: %v", err)
	}
	assertFloats(t, value, []float32{10})

	// The graph's initializer is untouched.
	if init.AsFloat32()[0] != 1 {
		t.Errorf("initializer modified: %v", init.AsFloat32()[0])
	}

	// A second session starts fresh from the initializer.
	sess2 := New(g, cpu.New())
	sess2.InitVariables()
	value2, _ := sess2.VariableValue(v)
	assertFloats(t, value2, []float32{1})
}

func TestRun_AssignSub(t *testing.T) {
	g := graph.New()
	v := g.Variable("v", rawOf(t, []float32{10, 20}, tensor.Shape{2}))
	delta := g.Const("delta", rawOf(t, []float32{1, 2}, tensor.Shape{2}))
	update := g.AssignSub(v, delta)

	sess := New(g, cpu.New())
	sess.InitVariables()

	for i := 0; i < 3; i++ {
		if _, err := sess.Run(nil, update); err != nil {
			t.Fatalf("Run failed: %v", err)
		}
	}

	value, _ := sess.VariableValue(v)
	assertFloats(t, value, []float32{7, 14})
}

func TestRun_GroupFetchesNil(t *testing.T) {
	g := graph.New()
	v := g.Variable("v", rawOf(t, []float32{5}, tensor.Shape{1}))
	update := g.AssignSub(v, g.Const("one", rawOf(t, []float32{1}, tensor.Shape{1})))
	train := g.Group("train", update)

	sess := New(g, cpu.New())
	sess.InitVariables()

	results, err := sess.Run(nil, train)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if results[0] != nil {
		t.Error("group fetch should return nil")
	}

	value, _ := sess.VariableValue(v)
	assertFloats(t, value, []float32{4})
}

func TestRun_Gradients_Square(t *testing.T) {
	// y = mean(x²), dy/dx = 2x/N
	g := graph.New()
	x := g.Variable("x", rawOf(t, []float32{1, 2, 3, 4}, tensor.Shape{4}))
	loss := g.ReduceMean(g.Square(x))
	grads := graph.Gradients(loss, []*graph.Node{x})

	sess := New(g, cpu.New())
	sess.InitVariables()

	results, err := sess.Run(nil, grads[0])
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	assertFloats(t, results[0], []float32{0.5, 1, 1.5, 2})
}

func TestRun_Gradients_MatMulBias(t *testing.T) {
	// pred = x @ w + bias over a batch of 2, loss = mean((pred - y)²).
	g := graph.New()
	w := g.Variable("w", rawOf(t, []float32{1, 1}, tensor.Shape{2, 1}))
	bias := g.Variable("bias", rawOf(t, []float32{0}, tensor.Shape{1}))
	x := g.Placeholder("x", tensor.Float32, tensor.Shape{-1, 2})
	y := g.Placeholder("y", tensor.Float32, tensor.Shape{-1, 1})

	pred := g.Add(g.MatMul(x, w), bias)
	diff := g.Sub(pred, y)
	loss := g.ReduceMean(g.Square(diff))

	grads := graph.Gradients(loss, []*graph.Node{w, bias})

	sess := New(g, cpu.New())
	sess.InitVariables()

	feeds := Feeds{
		x: rawOf(t, []float32{1, 0, 0, 1}, tensor.Shape{2, 2}),
		y: rawOf(t, []float32{3, 5}, tensor.Shape{2, 1}),
	}
	results, err := sess.Run(feeds, grads[0], grads[1])
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	// pred = [1, 1], diff = [-2, -4], dloss/dpred = diff
	// grad_w = xᵀ @ dloss/dpred = [-2, -4], grad_bias = sum = -6
	assertFloats(t, results[0], []float32{-2, -4})
	assertFloats(t, results[1], []float32{-6})
}

func TestRun_GradientDescentConverges(t *testing.T) {
	// Fit w to y = 2x on four points by hand-built SGD updates.
	g := graph.New()
	w := g.Variable("w", rawOf(t, []float32{0}, tensor.Shape{1, 1}))
	x := g.Placeholder("x", tensor.Float32, tensor.Shape{-1, 1})
	y := g.Placeholder("y", tensor.Float32, tensor.Shape{-1, 1})

	pred := g.MatMul(x, w)
	loss := g.ReduceMean(g.Square(g.Sub(pred, y)))

	grads := graph.Gradients(loss, []*graph.Node{w})
	update := g.AssignSub(w, g.MulScalar(grads[0], 0.05))
	train := g.Group("train", update)

	sess := New(g, cpu.New())
	sess.InitVariables()

	feeds := Feeds{
		x: rawOf(t, []float32{1, 2, 3, 4}, tensor.Shape{4, 1}),
		y: rawOf(t, []float32{2, 4, 6, 8}, tensor.Shape{4, 1}),
	}

	var prev float32 = math.MaxFloat32
	for step := 0; step < 100; step++ {
		results, err := sess.Run(feeds, loss, train)
		if err != nil {
			t.Fatalf("step %d: %v", step, err)
		}
		current := results[0].AsFloat32()[0]
		if current > prev+1e-6 {
			t.Fatalf("step %d: loss increased from %v to %v", step, prev, current)
		}
		prev = current
	}

	value, _ := sess.VariableValue(w)
	if math.Abs(float64(value.AsFloat32()[0]-2)) > 0.01 {
		t.Errorf("w = %v, want near 2", value.AsFloat32()[0])
	}
}
