package datastructure

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDoubleBucketQueueOrdering(t *testing.T) {
	costs := []float64{5.5, 1.2, 9.9, 0.1, 3.3, 3.4, 7.0}
	q := NewDoubleBucketQueue(16, 1.0, func(i Index) float64 { return costs[i] })
	for i := range costs {
		q.Add(Index(i), costs[i])
	}

	popped := make([]float64, 0, len(costs))
	for {
		idx, ok := q.Pop()
		if !ok {
			break
		}
		popped = append(popped, costs[idx])
	}

	expected := append([]float64(nil), costs...)
	sort.Float64s(expected)
	require.Equal(t, expected, popped)
}

func TestDoubleBucketQueueDecreaseKey(t *testing.T) {
	costs := []float64{8.0, 6.0, 4.0}
	q := NewDoubleBucketQueue(16, 1.0, func(i Index) float64 { return costs[i] })
	for i := range costs {
		q.Add(Index(i), costs[i])
	}

	// reweight label 0 below everything else
	old := costs[0]
	costs[0] = 1.0
	q.DecreaseCost(0, 1.0, old)

	idx, ok := q.Pop()
	require.True(t, ok)
	require.Equal(t, Index(0), idx)
}

func TestDoubleBucketQueueOverflow(t *testing.T) {
	// a tiny fine range forces most labels through the overflow bucket
	costs := make([]float64, 200)
	rng := rand.New(rand.NewSource(42))
	for i := range costs {
		costs[i] = rng.Float64() * 500
	}
	q := NewDoubleBucketQueue(4, 1.0, func(i Index) float64 { return costs[i] })
	for i := range costs {
		q.Add(Index(i), costs[i])
	}

	// ordering is exact across buckets; within one bucket labels may come
	// out in insertion order, so allow one bucket width of slack
	last := -1.0
	count := 0
	for {
		idx, ok := q.Pop()
		if !ok {
			break
		}
		require.GreaterOrEqual(t, costs[idx], last-1.0)
		if costs[idx] > last {
			last = costs[idx]
		}
		count++
	}
	require.Equal(t, len(costs), count)
}

func TestDoubleBucketQueueFIFOWithinBucket(t *testing.T) {
	costs := []float64{2.5, 2.5, 2.5}
	q := NewDoubleBucketQueue(16, 1.0, func(i Index) float64 { return costs[i] })
	for i := range costs {
		q.Add(Index(i), costs[i])
	}
	for want := 0; want < 3; want++ {
		idx, ok := q.Pop()
		require.True(t, ok)
		require.Equal(t, Index(want), idx)
	}
}
