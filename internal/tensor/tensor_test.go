package tensor

import (
	"strings"
	"testing"
)

func TestFromSlice(t *testing.T) {
	backend := NewMockBackend()

	tensor, err := FromSlice([]float32{1, 2, 3, 4, 5, 6}, Shape{2, 3}, backend)
	if err != nil {
		t.Fatalf("FromSlice failed: %v", err)
	}

	if !tensor.Shape().Equal(Shape{2, 3}) {
		t.Errorf("Shape = %v, want (2, 3)", tensor.Shape())
	}
	if tensor.DType() != Float32 {
		t.Errorf("DType = %v, want float32", tensor.DType())
	}
	if got := tensor.At(1, 2); got != 6 {
		t.Errorf("At(1, 2) = %v, want 6", got)
	}
}

func TestFromSlice_WrongLength(t *testing.T) {
	backend := NewMockBackend()

	_, err := FromSlice([]float32{1, 2, 3}, Shape{2, 3}, backend)
	if err == nil {
		t.Fatal("expected error for mismatched data length")
	}
}

func TestTensor_AtSet(t *testing.T) {
	backend := NewMockBackend()

	tensor := Zeros[float32](Shape{3, 4}, backend)
	tensor.Set(42, 1, 2)

	if got := tensor.At(1, 2); got != 42 {
		t.Errorf("At(1, 2) = %v, want 42", got)
	}
	if got := tensor.At(0, 0); got != 0 {
		t.Errorf("At(0, 0) = %v, want 0", got)
	}
}

func TestTensor_At_OutOfBounds(t *testing.T) {
	backend := NewMockBackend()
	tensor := Zeros[float32](Shape{3, 4}, backend)

	defer func() {
		if recover() == nil {
			t.Error("expected panic for out-of-bounds index")
		}
	}()
	tensor.At(3, 0)
}

func TestTensor_Item(t *testing.T) {
	backend := NewMockBackend()

	tensor, err := FromSlice([]float32{3.5}, Shape{1}, backend)
	if err != nil {
		t.Fatalf("FromSlice failed: %v", err)
	}
	if got := tensor.Item(); got != 3.5 {
		t.Errorf("Item() = %v, want 3.5", got)
	}
}

func TestTensor_Item_NonScalar(t *testing.T) {
	backend := NewMockBackend()
	tensor := Zeros[float32](Shape{2, 2}, backend)

	defer func() {
		if recover() == nil {
			t.Error("expected panic for non-scalar Item()")
		}
	}()
	tensor.Item()
}

func TestTensor_Clone_SharesBuffer(t *testing.T) {
	backend := NewMockBackend()

	tensor := Zeros[float32](Shape{2, 2}, backend)
	clone := tensor.Clone()

	if tensor.Raw().IsUnique() {
		t.Error("original should not be unique after Clone")
	}
	if clone.Raw().IsUnique() {
		t.Error("clone should not be unique")
	}

	clone.Raw().Release()
	if !tensor.Raw().IsUnique() {
		t.Error("original should be unique after clone released")
	}
}

func TestTensor_String(t *testing.T) {
	backend := NewMockBackend()
	tensor := Zeros[float32](Shape{2, 3}, backend)

	s := tensor.String()
	if !strings.Contains(s, "float32") || !strings.Contains(s, "(2, 3)") {
		t.Errorf("String() = %q, want dtype and shape included", s)
	}
}

func TestRawTensor_DeepClone(t *testing.T) {
	backend := NewMockBackend()

	tensor, err := FromSlice([]float32{1, 2, 3, 4}, Shape{2, 2}, backend)
	if err != nil {
		t.Fatalf("FromSlice failed: %v", err)
	}

	deep := New[float32, *MockBackend](tensor.Raw().DeepClone(), backend)
	deep.Set(99, 0, 0)

	if got := tensor.At(0, 0); got != 1 {
		t.Errorf("original modified through deep clone: At(0, 0) = %v, want 1", got)
	}
	if got := deep.At(0, 0); got != 99 {
		t.Errorf("deep clone At(0, 0) = %v, want 99", got)
	}
}

func TestRawTensor_ForceNonUnique(t *testing.T) {
	backend := NewMockBackend()
	tensor := Zeros[float32](Shape{2}, backend)

	restore := tensor.Raw().ForceNonUnique()
	if tensor.Raw().IsUnique() {
		t.Error("tensor should not be unique while forced")
	}
	restore()
	if !tensor.Raw().IsUnique() {
		t.Error("tensor should be unique after restore")
	}
}

func TestTensor_Ops(t *testing.T) {
	backend := NewMockBackend()

	a, _ := FromSlice([]float32{1, 2, 3, 4}, Shape{2, 2}, backend)
	b, _ := FromSlice([]float32{5, 6, 7, 8}, Shape{2, 2}, backend)

	sum := a.Add(b)
	wantSum := []float32{6, 8, 10, 12}
	for i, w := range wantSum {
		if got := sum.Data()[i]; got != w {
			t.Errorf("Add[%d] = %v, want %v", i, got, w)
		}
	}

	prod := a.MatMul(b)
	// [1 2; 3 4] @ [5 6; 7 8] = [19 22; 43 50]
	wantProd := []float32{19, 22, 43, 50}
	for i, w := range wantProd {
		if got := prod.Data()[i]; got != w {
			t.Errorf("MatMul[%d] = %v, want %v", i, got, w)
		}
	}
}

func TestTensor_Broadcasting(t *testing.T) {
	backend := NewMockBackend()

	a, _ := FromSlice([]float32{1, 2, 3, 4, 5, 6}, Shape{2, 3}, backend)
	bias, _ := FromSlice([]float32{10, 20, 30}, Shape{3}, backend)

	sum := a.Add(bias)
	if !sum.Shape().Equal(Shape{2, 3}) {
		t.Fatalf("broadcast shape = %v, want (2, 3)", sum.Shape())
	}

	want := []float32{11, 22, 33, 14, 25, 36}
	for i, w := range want {
		if got := sum.Data()[i]; got != w {
			t.Errorf("broadcast Add[%d] = %v, want %v", i, got, w)
		}
	}
}

func TestTensor_Reshape(t *testing.T) {
	backend := NewMockBackend()

	tensor, _ := FromSlice([]float32{1, 2, 3, 4, 5, 6}, Shape{6}, backend)
	reshaped := tensor.Reshape(2, -1)

	if !reshaped.Shape().Equal(Shape{2, 3}) {
		t.Errorf("Reshape(2, -1) shape = %v, want (2, 3)", reshaped.Shape())
	}
	if got := reshaped.At(1, 0); got != 4 {
		t.Errorf("reshaped At(1, 0) = %v, want 4", got)
	}
}

func TestTensor_Transpose(t *testing.T) {
	backend := NewMockBackend()

	tensor, _ := FromSlice([]float32{1, 2, 3, 4, 5, 6}, Shape{2, 3}, backend)
	tr := tensor.T()

	if !tr.Shape().Equal(Shape{3, 2}) {
		t.Fatalf("T() shape = %v, want (3, 2)", tr.Shape())
	}
	if got := tr.At(2, 1); got != 6 {
		t.Errorf("T() At(2, 1) = %v, want 6", got)
	}
}

func TestTensor_Reductions(t *testing.T) {
	backend := NewMockBackend()

	tensor, _ := FromSlice([]float32{1, 2, 3, 4}, Shape{2, 2}, backend)

	if got := tensor.Sum().Item(); got != 10 {
		t.Errorf("Sum() = %v, want 10", got)
	}
	if got := tensor.Mean().Item(); got != 2.5 {
		t.Errorf("Mean() = %v, want 2.5", got)
	}
}
