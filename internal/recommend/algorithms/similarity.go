// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package algorithms

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// SimilarityMatrix is a dense, symmetric n x n matrix stored row-major.
// Entries are in [0, 1]. It is read-only after construction.
type SimilarityMatrix struct {
	N    int
	Data []float64
}

// At returns sim(i, j).
func (m *SimilarityMatrix) At(i, j int) float64 {
	return m.Data[i*m.N+j]
}

// Row returns the similarity row of i. The slice aliases the matrix and must
// not be modified.
func (m *SimilarityMatrix) Row(i int) []float64 {
	return m.Data[i*m.N : (i+1)*m.N]
}

// Validate checks the matrix shape.
func (m *SimilarityMatrix) Validate() error {
	if m.N < 0 || len(m.Data) != m.N*m.N {
		return fmt.Errorf("similarity matrix: %d entries for dimension %d", len(m.Data), m.N)
	}
	return nil
}

// SimilarityConfig configures ComputeSimilarity.
type SimilarityConfig struct {
	// Workers is the number of goroutines. 0 means runtime.NumCPU().
	Workers int

	// BatchSize is the number of rows handed to a worker at a time.
	BatchSize int

	// ProgressInterval throttles progress logging. 0 means one second.
	ProgressInterval time.Duration

	// Logger receives progress events. The zero value discards them.
	Logger zerolog.Logger
}

type posting struct {
	row   int
	value float64
}

// ComputeSimilarity computes cosine similarity between every pair of rows:
//
//	sim(i, j) = dot(i, j) / (|i| * |j|)
//
// with sim = 0 when either row is all zero. Only the upper triangle is
// computed and then mirrored, so the result is exactly symmetric. Dot products
// are accumulated through an inverted column index, touching only pairs that
// share at least one term.
func ComputeSimilarity(ctx context.Context, fm *FeatureMatrix, cfg SimilarityConfig) (*SimilarityMatrix, error) {
	n := len(fm.Rows)
	out := &SimilarityMatrix{N: n, Data: make([]float64, n*n)}
	if n == 0 {
		return out, nil
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	batch := cfg.BatchSize
	if batch <= 0 {
		batch = 64
	}
	interval := cfg.ProgressInterval
	if interval <= 0 {
		interval = time.Second
	}

	norms := make([]float64, n)
	postings := make([][]posting, fm.Columns)
	for i, row := range fm.Rows {
		norms[i] = row.Norm()
		for k, col := range row.Indices {
			postings[col] = append(postings[col], posting{row: i, value: row.Values[k]})
		}
	}

	var (
		done     atomic.Int64
		progress = rate.Sometimes{Interval: interval}
		work     = make(chan [2]int)
		wg       sync.WaitGroup
	)

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			acc := make([]float64, n)
			touched := make([]int, 0, 64)
			for span := range work {
				for i := span[0]; i < span[1]; i++ {
					touched = fillRow(out, fm.Rows[i], i, norms, postings, acc, touched[:0])
				}
				rows := done.Add(int64(span[1] - span[0]))
				progress.Do(func() {
					cfg.Logger.Info().
						Int64("rows_done", rows).
						Int("rows_total", n).
						Msg("Computing similarity matrix")
				})
			}
		}()
	}

	var err error
dispatch:
	for start := 0; start < n; start += batch {
		if err = ctx.Err(); err != nil {
			break
		}
		end := min(start+batch, n)
		select {
		case work <- [2]int{start, end}:
		case <-ctx.Done():
			err = ctx.Err()
			break dispatch
		}
	}
	close(work)
	wg.Wait()

	if err != nil {
		return nil, err
	}
	return out, nil
}

// fillRow writes sim(i, j) and sim(j, i) for every j >= i. Workers own
// disjoint rows i, so the cells they write never overlap.
func fillRow(out *SimilarityMatrix, row SparseVector, i int, norms []float64,
	postings [][]posting, acc []float64, touched []int) []int {
	n := out.N
	if norms[i] == 0 {
		return touched
	}
	out.Data[i*n+i] = 1

	for k, col := range row.Indices {
		v := row.Values[k]
		for _, p := range postings[col] {
			if p.row <= i {
				continue
			}
			if acc[p.row] == 0 {
				touched = append(touched, p.row)
			}
			acc[p.row] += v * p.value
		}
	}

	for _, j := range touched {
		sim := clamp01(acc[j] / (norms[i] * norms[j]))
		out.Data[i*n+j] = sim
		out.Data[j*n+i] = sim
		acc[j] = 0
	}
	return touched
}

func clamp01(x float64) float64 {
	switch {
	case x < 0:
		return 0
	case x > 1:
		return 1
	default:
		return x
	}
}
