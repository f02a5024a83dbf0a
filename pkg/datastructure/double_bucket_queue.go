package datastructure

import "math"

// DoubleBucketQueue is a two-level bucket priority queue keyed by cost. A
// range of fine buckets of width bucketSize covers the active cost
// window; anything beyond the window falls into a single coarse overflow
// bucket that is redistributed when the fine range drains. Push, pop-min and
// decrease-key are near O(1) for the bounded-range keys produced by edge
// relaxation.
type DoubleBucketQueue struct {
	bucketSize  float64
	bucketCount int

	currentCost   float64
	maxCost       float64
	currentBucket int

	buckets  [][]Index
	overflow []Index

	size int

	// labelCost resolves the current sort cost of a queued label, needed
	// when the overflow bucket is redistributed.
	labelCost func(Index) float64
}

func NewDoubleBucketQueue(bucketCount int, bucketSize float64,
	labelCost func(Index) float64) *DoubleBucketQueue {
	if bucketSize <= 0 {
		bucketSize = 1.0
	}
	if bucketCount <= 0 {
		bucketCount = 1024
	}
	q := &DoubleBucketQueue{
		bucketSize:  bucketSize,
		bucketCount: bucketCount,
		buckets:     make([][]Index, bucketCount),
		overflow:    make([]Index, 0),
		labelCost:   labelCost,
	}
	q.currentCost = 0
	q.maxCost = float64(bucketCount) * bucketSize
	return q
}

func (q *DoubleBucketQueue) Size() int {
	return q.size
}

func (q *DoubleBucketQueue) Empty() bool {
	return q.size == 0
}

func (q *DoubleBucketQueue) bucketIndex(cost float64) int {
	idx := int((cost - q.currentCost) / q.bucketSize)
	if idx < q.currentBucket {
		// rounding can place a cost just below the active bucket
		idx = q.currentBucket
	}
	return idx
}

// Add push a label index with the given sort cost.
func (q *DoubleBucketQueue) Add(label Index, cost float64) {
	if cost < q.maxCost {
		idx := q.bucketIndex(cost)
		q.buckets[idx] = append(q.buckets[idx], label)
	} else {
		q.overflow = append(q.overflow, label)
	}
	q.size++
}

// DecreaseCost reweight a queued label in place: remove it from the bucket
// holding its old cost and reinsert with the new, lower cost.
func (q *DoubleBucketQueue) DecreaseCost(label Index, newCost, oldCost float64) {
	if oldCost < q.maxCost {
		idx := q.bucketIndex(oldCost)
		q.removeFromBucket(idx, label)
	} else {
		q.removeFromOverflow(label)
	}
	q.size--
	q.Add(label, newCost)
}

func (q *DoubleBucketQueue) removeFromBucket(idx int, label Index) {
	b := q.buckets[idx]
	for i, l := range b {
		if l == label {
			q.buckets[idx] = append(b[:i], b[i+1:]...)
			return
		}
	}
}

func (q *DoubleBucketQueue) removeFromOverflow(label Index) {
	for i, l := range q.overflow {
		if l == label {
			q.overflow = append(q.overflow[:i], q.overflow[i+1:]...)
			return
		}
	}
}

// Pop return the label with the lowest cost. Labels within one fine bucket
// come out in insertion order.
func (q *DoubleBucketQueue) Pop() (Index, bool) {
	if q.size == 0 {
		return INVALID_INDEX, false
	}
	for {
		for q.currentBucket < q.bucketCount {
			b := q.buckets[q.currentBucket]
			if len(b) > 0 {
				label := b[0]
				q.buckets[q.currentBucket] = b[1:]
				q.size--
				return label, true
			}
			q.currentBucket++
		}

		if len(q.overflow) == 0 {
			return INVALID_INDEX, false
		}
		q.redistributeOverflow()
	}
}

// redistributeOverflow re-center the fine range on the cheapest overflow
// label and move every overflow label that now fits into the fine buckets.
func (q *DoubleBucketQueue) redistributeOverflow() {
	minCost := math.Inf(1)
	for _, l := range q.overflow {
		if c := q.labelCost(l); c < minCost {
			minCost = c
		}
	}

	q.currentCost = math.Floor(minCost/q.bucketSize) * q.bucketSize
	q.maxCost = q.currentCost + float64(q.bucketCount)*q.bucketSize
	q.currentBucket = 0

	remaining := q.overflow[:0]
	for _, l := range q.overflow {
		c := q.labelCost(l)
		if c < q.maxCost {
			idx := q.bucketIndex(c)
			q.buckets[idx] = append(q.buckets[idx], l)
		} else {
			remaining = append(remaining, l)
		}
	}
	q.overflow = remaining
}

func (q *DoubleBucketQueue) Clear() {
	for i := range q.buckets {
		q.buckets[i] = nil
	}
	q.overflow = q.overflow[:0]
	q.currentBucket = 0
	q.currentCost = 0
	q.maxCost = float64(q.bucketCount) * q.bucketSize
	q.size = 0
}
