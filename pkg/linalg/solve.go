package linalg

import (
	"errors"
	"fmt"
	"math"
)

// pivotEps is the magnitude below which a pivot candidate is treated as zero.
const pivotEps = 1e-12

// ErrEmptySystem is returned by Solve for a system with no rows or columns.
var ErrEmptySystem = errors.New("linalg: empty system")

// Solve finds x such that a·x = b using Gaussian elimination with full
// pivoting. The system may be rectangular: free variables (columns beyond
// the numerical rank) are set to zero, and rows beyond the rank are ignored.
//
// Solve does not verify that the returned x actually satisfies all rows; an
// inconsistent system still produces a vector. Callers must check
// [MaxAbsResidual] against a tolerance to detect contradictions.
func Solve(a *Matrix, b []float64) ([]float64, error) {
	m, n := a.Rows(), a.Cols()
	if m == 0 || n == 0 {
		return nil, ErrEmptySystem
	}
	if len(b) != m {
		return nil, fmt.Errorf("linalg: constants length %d does not match %d rows", len(b), m)
	}

	work := a.Clone()
	rhs := make([]float64, m)
	copy(rhs, b)

	// perm[j] is the original column occupying working column j.
	perm := make([]int, n)
	for j := range perm {
		perm[j] = j
	}

	limit := m
	if n < limit {
		limit = n
	}

	rank := 0
	for k := 0; k < limit; k++ {
		// Full pivot: largest magnitude in the remaining submatrix.
		pi, pj, pmax := k, k, 0.0
		for i := k; i < m; i++ {
			for j := k; j < n; j++ {
				if v := math.Abs(work.At(i, j)); v > pmax {
					pi, pj, pmax = i, j, v
				}
			}
		}
		if pmax < pivotEps {
			break
		}

		swapRows(work, rhs, k, pi)
		swapCols(work, perm, k, pj)

		pivot := work.At(k, k)
		for i := k + 1; i < m; i++ {
			factor := work.At(i, k) / pivot
			if factor == 0 {
				continue
			}
			work.Set(i, k, 0)
			for j := k + 1; j < n; j++ {
				work.Set(i, j, work.At(i, j)-factor*work.At(k, j))
			}
			rhs[i] -= factor * rhs[k]
		}
		rank++
	}

	// Back substitution over the pivoted columns; free variables stay zero.
	solved := make([]float64, n)
	for k := rank - 1; k >= 0; k-- {
		sum := rhs[k]
		for j := k + 1; j < n; j++ {
			sum -= work.At(k, j) * solved[j]
		}
		solved[k] = sum / work.At(k, k)
	}

	// Undo the column permutation.
	x := make([]float64, n)
	for j, orig := range perm {
		x[orig] = solved[j]
	}
	return x, nil
}

// Residual returns a·x − b.
func Residual(a *Matrix, x, b []float64) []float64 {
	prod := a.MulVec(x)
	out := make([]float64, len(prod))
	for i := range prod {
		out[i] = prod[i] - b[i]
	}
	return out
}

// MaxAbsResidual returns the largest absolute entry of a·x − b.
func MaxAbsResidual(a *Matrix, x, b []float64) float64 {
	var maxAbs float64
	for _, r := range Residual(a, x, b) {
		if v := math.Abs(r); v > maxAbs {
			maxAbs = v
		}
	}
	return maxAbs
}

// AbsSum returns Σ|vᵢ|.
func AbsSum(v []float64) float64 {
	var sum float64
	for _, x := range v {
		sum += math.Abs(x)
	}
	return sum
}

func swapRows(m *Matrix, rhs []float64, a, b int) {
	if a == b {
		return
	}
	for j := 0; j < m.Cols(); j++ {
		va, vb := m.At(a, j), m.At(b, j)
		m.Set(a, j, vb)
		m.Set(b, j, va)
	}
	rhs[a], rhs[b] = rhs[b], rhs[a]
}

func swapCols(m *Matrix, perm []int, a, b int) {
	if a == b {
		return
	}
	for i := 0; i < m.Rows(); i++ {
		va, vb := m.At(i, a), m.At(i, b)
		m.Set(i, a, vb)
		m.Set(i, b, va)
	}
	perm[a], perm[b] = perm[b], perm[a]
}
