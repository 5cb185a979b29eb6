package cpu

import (
	"fmt"
	"sync"

	"github.com/chalk-ml/chalk/internal/tensor"
)

// Rows per goroutine below this product of M*N*K stay single-threaded.
const matmulParallelThreshold = 64 * 64 * 64

// MatMul performs matrix multiplication.
// For 2D tensors: (M, K) @ (K, N) -> (M, N).
// Large products split rows across worker goroutines sized from the
// detected physical core count.
func (cpu *CPUBackend) MatMul(a, b *tensor.RawTensor) *tensor.RawTensor {
	aShape := a.Shape()
	bShape := b.Shape()

	if len(aShape) != 2 || len(bShape) != 2 {
		panic(fmt.Sprintf("matmul: only 2D tensors supported, got %dD and %dD", len(aShape), len(bShape)))
	}

	m, k := aShape[0], aShape[1]
	kAlt, n := bShape[0], bShape[1]

	if k != kAlt {
		panic(fmt.Sprintf("matmul: shape mismatch [%d,%d] @ [%d,%d]", m, k, kAlt, n))
	}

	result := cpu.newResult("matmul", tensor.Shape{m, n}, a.DType())

	switch a.DType() {
	case tensor.Float32:
		matmulKernel(result.AsFloat32(), a.AsFloat32(), b.AsFloat32(), m, k, n)
	case tensor.Float64:
		matmulKernel(result.AsFloat64(), a.AsFloat64(), b.AsFloat64(), m, k, n)
	case tensor.Int32:
		matmulKernel(result.AsInt32(), a.AsInt32(), b.AsInt32(), m, k, n)
	case tensor.Int64:
		matmulKernel(result.AsInt64(), a.AsInt64(), b.AsInt64(), m, k, n)
	default:
		panic(fmt.Sprintf("matmul: unsupported dtype %s", a.DType()))
	}

	return result
}

// matmulKernel computes C[i,j] = sum_k A[i,k] * B[k,j].
func matmulKernel[T number](c, a, b []T, m, k, n int) {
	if m*n*k < matmulParallelThreshold {
		matmulRows(c, a, b, 0, m, k, n)
		return
	}

	workers := workerCount()
	if workers > m {
		workers = m
	}

	var wg sync.WaitGroup
	rowsPerWorker := (m + workers - 1) / workers
	for start := 0; start < m; start += rowsPerWorker {
		end := start + rowsPerWorker
		if end > m {
			end = m
		}
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			matmulRows(c, a, b, lo, hi, k, n)
		}(start, end)
	}
	wg.Wait()
}

func matmulRows[T number](c, a, b []T, rowStart, rowEnd, k, n int) {
	for i := rowStart; i < rowEnd; i++ {
		for j := 0; j < n; j++ {
			var sum T
			for kIdx := 0; kIdx < k; kIdx++ {
				sum += a[i*k+kIdx] * b[kIdx*n+j]
			}
			c[i*n+j] = sum
		}
	}
}
