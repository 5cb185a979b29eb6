package tensor

import (
	"math"
	"math/rand"
	"testing"
)

func TestZeros(t *testing.T) {
	backend := NewMockBackend()

	tensor := Zeros[float32](Shape{3, 4}, backend)
	for i, v := range tensor.Data() {
		if v != 0 {
			t.Errorf("Zeros[%d] = %v, want 0", i, v)
		}
	}
}

func TestOnes(t *testing.T) {
	backend := NewMockBackend()

	tensor := Ones[float64](Shape{2, 2}, backend)
	for i, v := range tensor.Data() {
		if v != 1 {
			t.Errorf("Ones[%d] = %v, want 1", i, v)
		}
	}
}

func TestFull(t *testing.T) {
	backend := NewMockBackend()

	tensor := Full[float32](Shape{5}, 3.14, backend)
	for i, v := range tensor.Data() {
		if v != 3.14 {
			t.Errorf("Full[%d] = %v, want 3.14", i, v)
		}
	}
}

func TestArange(t *testing.T) {
	backend := NewMockBackend()

	tensor := Arange[int32](0, 5, backend)
	if !tensor.Shape().Equal(Shape{5}) {
		t.Fatalf("Arange shape = %v, want (5)", tensor.Shape())
	}
	for i, v := range tensor.Data() {
		if v != int32(i) {
			t.Errorf("Arange[%d] = %v, want %d", i, v, i)
		}
	}
}

func TestEye(t *testing.T) {
	backend := NewMockBackend()

	tensor := Eye[float32](3, backend)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			want := float32(0)
			if i == j {
				want = 1
			}
			if got := tensor.At(i, j); got != want {
				t.Errorf("Eye At(%d, %d) = %v, want %v", i, j, got, want)
			}
		}
	}
}

func TestRandn_Deterministic(t *testing.T) {
	backend := NewMockBackend()

	a := Randn[float32](Shape{10}, rand.New(rand.NewSource(42)), backend)
	b := Randn[float32](Shape{10}, rand.New(rand.NewSource(42)), backend)

	for i := range a.Data() {
		if a.Data()[i] != b.Data()[i] {
			t.Fatalf("same seed produced different values at %d: %v vs %v", i, a.Data()[i], b.Data()[i])
		}
	}
}

func TestRandn_Distribution(t *testing.T) {
	backend := NewMockBackend()
	rng := rand.New(rand.NewSource(1))

	tensor := Randn[float64](Shape{10000}, rng, backend)

	sum := 0.0
	for _, v := range tensor.Data() {
		sum += v
	}
	mean := sum / float64(tensor.NumElements())

	// Sample mean of 10k standard normal draws should be close to 0.
	if math.Abs(mean) > 0.1 {
		t.Errorf("sample mean = %v, want near 0", mean)
	}
}

func TestRand_Range(t *testing.T) {
	backend := NewMockBackend()
	rng := rand.New(rand.NewSource(7))

	tensor := Rand[float32](Shape{100}, rng, backend)
	for i, v := range tensor.Data() {
		if v < 0 || v >= 1 {
			t.Errorf("Rand[%d] = %v, want in [0, 1)", i, v)
		}
	}
}
