package tensor

import "testing"

func TestShape_NumElements(t *testing.T) {
	tests := []struct {
		shape Shape
		want  int
	}{
		{Shape{}, 1},
		{Shape{5}, 5},
		{Shape{2, 3}, 6},
		{Shape{2, 3, 4}, 24},
	}

	for _, tt := range tests {
		if got := tt.shape.NumElements(); got != tt.want {
			t.Errorf("NumElements(%v) = %d, want %d", tt.shape, got, tt.want)
		}
	}
}

func TestShape_Validate(t *testing.T) {
	if err := (Shape{2, 3}).Validate(); err != nil {
		t.Errorf("Validate({2,3}) = %v, want nil", err)
	}
	if err := (Shape{2, 0}).Validate(); err == nil {
		t.Error("Validate({2,0}) = nil, want error")
	}
	if err := (Shape{-1}).Validate(); err == nil {
		t.Error("Validate({-1}) = nil, want error")
	}
}

func TestShape_ComputeStrides(t *testing.T) {
	strides := Shape{2, 3, 4}.ComputeStrides()
	want := []int{12, 4, 1}
	for i, s := range want {
		if strides[i] != s {
			t.Errorf("strides[%d] = %d, want %d", i, strides[i], s)
		}
	}
}

func TestShape_String(t *testing.T) {
	if got := (Shape{}).String(); got != "()" {
		t.Errorf("scalar shape = %q, want ()", got)
	}
	if got := (Shape{2, 3}).String(); got != "(2, 3)" {
		t.Errorf("shape = %q, want (2, 3)", got)
	}
}

func TestBroadcastShapes(t *testing.T) {
	tests := []struct {
		a, b, want Shape
		needs      bool
		wantErr    bool
	}{
		{Shape{3, 1}, Shape{3, 5}, Shape{3, 5}, true, false},
		{Shape{1, 5}, Shape{3, 5}, Shape{3, 5}, true, false},
		{Shape{3, 5}, Shape{3, 5}, Shape{3, 5}, false, false},
		{Shape{5}, Shape{3, 5}, Shape{3, 5}, true, false},
		{Shape{3, 4}, Shape{3, 5}, nil, false, true},
	}

	for _, tt := range tests {
		got, needs, err := BroadcastShapes(tt.a, tt.b)
		if tt.wantErr {
			if err == nil {
				t.Errorf("BroadcastShapes(%v, %v) expected error", tt.a, tt.b)
			}
			continue
		}
		if err != nil {
			t.Errorf("BroadcastShapes(%v, %v) error: %v", tt.a, tt.b, err)
			continue
		}
		if !got.Equal(tt.want) || needs != tt.needs {
			t.Errorf("BroadcastShapes(%v, %v) = %v/%v, want %v/%v", tt.a, tt.b, got, needs, tt.want, tt.needs)
		}
	}
}

func TestResolveReshape(t *testing.T) {
	got := ResolveReshape(Shape{12}, Shape{3, 4})
	if !got.Equal(Shape{3, 4}) {
		t.Errorf("ResolveReshape = %v, want (3, 4)", got)
	}

	got = ResolveReshape(Shape{12}, Shape{3, -1})
	if !got.Equal(Shape{3, 4}) {
		t.Errorf("ResolveReshape with -1 = %v, want (3, 4)", got)
	}

	got = ResolveReshape(Shape{2, 6}, Shape{-1})
	if !got.Equal(Shape{12}) {
		t.Errorf("ResolveReshape flatten = %v, want (12)", got)
	}
}

func TestResolveReshape_Incompatible(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for incompatible reshape")
		}
	}()
	ResolveReshape(Shape{12}, Shape{5, 5})
}
