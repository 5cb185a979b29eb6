package display

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/chalk-ml/chalk/internal/tensor"
)

func float32Raw(t *testing.T, data []float32, shape tensor.Shape) *tensor.RawTensor {
	t.Helper()
	raw, err := tensor.NewRaw(shape, tensor.Float32, tensor.CPU)
	if err != nil {
		t.Fatalf("NewRaw failed: %v", err)
	}
	copy(raw.AsFloat32(), data)
	return raw
}

func assertGolden(t *testing.T, name, rendered string) {
	t.Helper()
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, []byte(rendered))
}

func TestFormat_Scalar(t *testing.T) {
	raw := float32Raw(t, []float32{3.5}, tensor.Shape{})
	assertGolden(t, "scalar", Format(raw))
}

func TestFormat_Vector(t *testing.T) {
	raw := float32Raw(t, []float32{1, 2.5, -3}, tensor.Shape{3})
	assertGolden(t, "vector", Format(raw))
}

func TestFormat_Matrix(t *testing.T) {
	raw := float32Raw(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
	assertGolden(t, "matrix", Format(raw))
}

func TestFormat_Cube(t *testing.T) {
	raw := float32Raw(t, []float32{1, 2, 3, 4, 5, 6, 7, 8}, tensor.Shape{2, 2, 2})
	assertGolden(t, "cube", Format(raw))
}

func TestFormat_Ints(t *testing.T) {
	raw, err := tensor.NewRaw(tensor.Shape{3}, tensor.Int32, tensor.CPU)
	if err != nil {
		t.Fatalf("NewRaw failed: %v", err)
	}
	copy(raw.AsInt32(), []int32{1, 2, 3})
	assertGolden(t, "ints", Format(raw))
}

func TestFormatWith_Precision(t *testing.T) {
	raw := float32Raw(t, []float32{1.5}, tensor.Shape{1})
	if got := FormatWith(raw, 1); got != "[1.5]" {
		t.Errorf("FormatWith(1) = %q, want %q", got, "[1.5]")
	}
	if got := FormatWith(raw, 2); got != "[1.50]" {
		t.Errorf("FormatWith(2) = %q, want %q", got, "[1.50]")
	}
}

func TestSummary(t *testing.T) {
	raw := float32Raw(t, make([]float32, 6), tensor.Shape{2, 3})
	want := "float32(2, 3) on CPU"
	if got := Summary(raw); got != want {
		t.Errorf("Summary = %q, want %q", got, want)
	}
}
