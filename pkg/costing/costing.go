package costing

import (
	"github.com/lintang-b-s/tilematrix/pkg"
	"github.com/lintang-b-s/tilematrix/pkg/datastructure"
	"github.com/lintang-b-s/tilematrix/pkg/graph"
)

// SpeedFunc returns a speed multiplier for an edge at the given second of the
// day, modelling time-of-day effects such as recurring congestion. A factor
// of 0.5 halves the speed, doubling the traversal cost.
type SpeedFunc func(edge *graph.DirectedEdge, secondsOfDay float64) float64

// DynamicCost evaluates per-mode edge and transition costs. Timestamps are
// unix epoch seconds; a negative timestamp means time-independent costing.
type DynamicCost interface {
	Allowed(edge *graph.DirectedEdge, pred *datastructure.BDEdgeLabel,
		tile *graph.Tile, timestamp int64) bool
	AllowedReverse(edge *graph.DirectedEdge, pred *datastructure.BDEdgeLabel,
		tile *graph.Tile, timestamp int64) bool

	EdgeCost(edge *graph.DirectedEdge, tile *graph.Tile, timestamp int64) datastructure.Cost
	EdgeCostReverse(edge *graph.DirectedEdge, tile *graph.Tile, timestamp int64) datastructure.Cost

	TransitionCost(node *graph.NodeInfo, edge *graph.DirectedEdge,
		pred *datastructure.BDEdgeLabel) datastructure.Cost
	TransitionCostReverse(node *graph.NodeInfo, edge *graph.DirectedEdge,
		pred *datastructure.BDEdgeLabel) datastructure.Cost

	AccessMode() uint32
	HierarchyLimits() []datastructure.HierarchyLimits
	UnitSize() float64
	TravelMode() pkg.TravelMode
}

// default per-level expansion caps. the highway level is never capped; lower
// classes stop expanding far away from the location.
func defaultHierarchyLimits() []datastructure.HierarchyLimits {
	return []datastructure.HierarchyLimits{
		datastructure.NewHierarchyLimits(^uint32(0), 0),
		datastructure.NewHierarchyLimits(400000, 400000),
		datastructure.NewHierarchyLimits(200000, 150000),
	}
}

// baseCost shared pieces of the concrete costings.
type baseCost struct {
	accessMode uint32
	mode       pkg.TravelMode
	unitSize   float64
	speedFunc  SpeedFunc
}

func (b *baseCost) AccessMode() uint32 {
	return b.accessMode
}

func (b *baseCost) TravelMode() pkg.TravelMode {
	return b.mode
}

func (b *baseCost) UnitSize() float64 {
	return b.unitSize
}

func (b *baseCost) HierarchyLimits() []datastructure.HierarchyLimits {
	return defaultHierarchyLimits()
}

func (b *baseCost) speedFactor(edge *graph.DirectedEdge, timestamp int64) float64 {
	if b.speedFunc == nil || timestamp < 0 {
		return 1.0
	}
	secondsOfDay := float64(timestamp % pkg.SECONDS_PER_DAY)
	factor := b.speedFunc(edge, secondsOfDay)
	if factor <= 0 {
		return 1.0
	}
	return factor
}

// secondsAtSpeed traversal time of a length (meter) at speed (km/h).
func secondsAtSpeed(length, speedKmh float64) float64 {
	if speedKmh <= 0 {
		return pkg.INF_WEIGHT
	}
	return length / (speedKmh / 3.6)
}

func (b *baseCost) allowedAccess(edge *graph.DirectedEdge) bool {
	return edge.ForwardAccess()&b.accessMode != 0
}

func (b *baseCost) TransitionCost(node *graph.NodeInfo, edge *graph.DirectedEdge,
	pred *datastructure.BDEdgeLabel) datastructure.Cost {
	return datastructure.Cost{}
}

func (b *baseCost) TransitionCostReverse(node *graph.NodeInfo, edge *graph.DirectedEdge,
	pred *datastructure.BDEdgeLabel) datastructure.Cost {
	return datastructure.Cost{}
}
