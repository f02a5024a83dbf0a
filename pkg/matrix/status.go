package matrix

import (
	"github.com/lintang-b-s/tilematrix/pkg"
	"github.com/lintang-b-s/tilematrix/pkg/datastructure"
)

// locationStatus per-location bookkeeping: the iterations the location may
// still spend after its last pair met, and the opposing-side indices whose
// pair with this location has not yet been settled. threshold == 0 means the
// search contributes no further work.
type locationStatus struct {
	threshold int
	remaining map[int]struct{}
}

func newLocationStatus(threshold int, opposingCount int, opposingValid func(int) bool) locationStatus {
	remaining := make(map[int]struct{}, opposingCount)
	for i := 0; i < opposingCount; i++ {
		if opposingValid(i) {
			remaining[i] = struct{}{}
		}
	}
	return locationStatus{threshold: threshold, remaining: remaining}
}

// bestCandidate best connection found so far for one (source, target) pair.
// The first meeting arms the threshold; strictly cheaper meetings may replace
// the candidate until the threshold decays to zero.
type bestCandidate struct {
	found     bool
	edgeId    datastructure.GraphId
	oppEdgeId datastructure.GraphId
	cost      datastructure.Cost
	distance  float64
	threshold int

	// encoded polyline of the recosted path, when shape was requested
	shape string
}

func newBestCandidate() bestCandidate {
	return bestCandidate{
		edgeId:    datastructure.INVALID_GRAPH_ID,
		oppEdgeId: datastructure.INVALID_GRAPH_ID,
		cost:      datastructure.NewCost(pkg.INF_WEIGHT, pkg.INF_WEIGHT),
	}
}

func (b *bestCandidate) update(edgeId, oppEdgeId datastructure.GraphId,
	cost datastructure.Cost, distance float64) {
	b.edgeId = edgeId
	b.oppEdgeId = oppEdgeId
	b.cost = cost
	b.distance = distance
}
