package linalg

import (
	"math"
	"testing"
)

func buildMatrix(rows [][]float64) *Matrix {
	m := NewMatrix(len(rows), len(rows[0]))
	for i, row := range rows {
		for j, v := range row {
			m.Set(i, j, v)
		}
	}
	return m
}

func TestSolve(t *testing.T) {
	tests := []struct {
		name    string
		a       [][]float64
		b       []float64
		want    []float64 // nil to skip exact comparison
		maxResi float64   // acceptable MaxAbsResidual
	}{
		{
			name:    "Identity",
			a:       [][]float64{{1, 0}, {0, 1}},
			b:       []float64{3, -7},
			want:    []float64{3, -7},
			maxResi: 1e-9,
		},
		{
			name: "Square",
			a: [][]float64{
				{2, 1, -1},
				{-3, -1, 2},
				{-2, 1, 2},
			},
			b:       []float64{8, -11, -3},
			want:    []float64{2, 3, -1},
			maxResi: 1e-9,
		},
		{
			name: "RequiresPivoting",
			a: [][]float64{
				{0, 1},
				{1, 0},
			},
			b:       []float64{5, 9},
			want:    []float64{9, 5},
			maxResi: 1e-9,
		},
		{
			name: "OverdeterminedConsistent",
			a: [][]float64{
				{1, 0},
				{0, 1},
				{1, 1},
			},
			b:       []float64{1, 2, 3},
			want:    []float64{1, 2},
			maxResi: 1e-9,
		},
		{
			name: "UnderdeterminedFreeVariableZero",
			a: [][]float64{
				{1, 0, 0},
				{0, 1, 0},
			},
			b:       []float64{4, 5},
			want:    []float64{4, 5, 0},
			maxResi: 1e-9,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := buildMatrix(tt.a)
			x, err := Solve(a, tt.b)
			if err != nil {
				t.Fatalf("Solve: %v", err)
			}
			if tt.want != nil {
				for i, w := range tt.want {
					if math.Abs(x[i]-w) > 1e-9 {
						t.Errorf("x[%d] = %v, want %v", i, x[i], w)
					}
				}
			}
			if r := MaxAbsResidual(a, x, tt.b); r > tt.maxResi {
				t.Errorf("MaxAbsResidual = %v, want <= %v", r, tt.maxResi)
			}
		})
	}
}

func TestSolveInconsistentLeavesResidual(t *testing.T) {
	// x = 1 and x = 2 cannot both hold; the solver still returns a vector,
	// and the contradiction must be visible in the residual.
	a := buildMatrix([][]float64{{1}, {1}})
	b := []float64{1, 2}

	x, err := Solve(a, b)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if r := MaxAbsResidual(a, x, b); r < 0.5 {
		t.Errorf("MaxAbsResidual = %v, expected a visible contradiction", r)
	}
}

func TestSolveEmpty(t *testing.T) {
	if _, err := Solve(NewMatrix(0, 0), nil); err == nil {
		t.Fatal("expected error for empty system")
	}
}

func TestMatrixAddAccumulates(t *testing.T) {
	m := NewMatrix(1, 2)
	m.Add(0, 0, 0.5)
	m.Add(0, 0, 0.25)
	if got := m.At(0, 0); got != 0.75 {
		t.Errorf("At(0,0) = %v, want 0.75", got)
	}
}

func TestAbsSum(t *testing.T) {
	if got := AbsSum([]float64{-1, 2, -3}); got != 6 {
		t.Errorf("AbsSum = %v, want 6", got)
	}
}
