package costing

import (
	"math"

	"github.com/lintang-b-s/tilematrix/pkg"
	"github.com/lintang-b-s/tilematrix/pkg/datastructure"
	"github.com/lintang-b-s/tilematrix/pkg/graph"
)

const defaultCyclingSpeedKmh = 16.0

// BicycleCost cycling costing: the rider's speed is the cycling speed capped
// by the edge speed.
type BicycleCost struct {
	baseCost
	cyclingSpeedKmh float64
}

func NewBicycleCost(opts ...Option) *BicycleCost {
	c := &BicycleCost{
		baseCost: baseCost{
			accessMode: pkg.BICYCLE_ACCESS,
			mode:       pkg.TRAVEL_MODE_BICYCLE,
			unitSize:   1.0,
		},
		cyclingSpeedKmh: defaultCyclingSpeedKmh,
	}
	for _, opt := range opts {
		opt(&c.baseCost)
	}
	return c
}

func (c *BicycleCost) Allowed(edge *graph.DirectedEdge, pred *datastructure.BDEdgeLabel,
	tile *graph.Tile, timestamp int64) bool {
	return c.allowedAccess(edge)
}

func (c *BicycleCost) AllowedReverse(edge *graph.DirectedEdge, pred *datastructure.BDEdgeLabel,
	tile *graph.Tile, timestamp int64) bool {
	return c.allowedAccess(edge)
}

func (c *BicycleCost) EdgeCost(edge *graph.DirectedEdge, tile *graph.Tile,
	timestamp int64) datastructure.Cost {
	speed := math.Min(c.cyclingSpeedKmh, edge.Speed()) * c.speedFactor(edge, timestamp)
	secs := secondsAtSpeed(edge.Length(), speed)
	return datastructure.NewCost(secs, secs)
}

func (c *BicycleCost) EdgeCostReverse(edge *graph.DirectedEdge, tile *graph.Tile,
	timestamp int64) datastructure.Cost {
	return c.EdgeCost(edge, tile, timestamp)
}
