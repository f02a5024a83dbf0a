package costing

import (
	"github.com/lintang-b-s/tilematrix/pkg"
	"github.com/lintang-b-s/tilematrix/pkg/datastructure"
	"github.com/lintang-b-s/tilematrix/pkg/graph"
)

const defaultWalkingSpeedKmh = 5.1

// PedestrianCost walking costing at a constant walking speed.
type PedestrianCost struct {
	baseCost
	walkingSpeedKmh float64
}

func NewPedestrianCost(opts ...Option) *PedestrianCost {
	c := &PedestrianCost{
		baseCost: baseCost{
			accessMode: pkg.PEDESTRIAN_ACCESS,
			mode:       pkg.TRAVEL_MODE_PEDESTRIAN,
			unitSize:   2.0,
		},
		walkingSpeedKmh: defaultWalkingSpeedKmh,
	}
	for _, opt := range opts {
		opt(&c.baseCost)
	}
	return c
}

func (c *PedestrianCost) Allowed(edge *graph.DirectedEdge, pred *datastructure.BDEdgeLabel,
	tile *graph.Tile, timestamp int64) bool {
	return c.allowedAccess(edge)
}

func (c *PedestrianCost) AllowedReverse(edge *graph.DirectedEdge, pred *datastructure.BDEdgeLabel,
	tile *graph.Tile, timestamp int64) bool {
	return c.allowedAccess(edge)
}

func (c *PedestrianCost) EdgeCost(edge *graph.DirectedEdge, tile *graph.Tile,
	timestamp int64) datastructure.Cost {
	secs := secondsAtSpeed(edge.Length(), c.walkingSpeedKmh*c.speedFactor(edge, timestamp))
	return datastructure.NewCost(secs, secs)
}

func (c *PedestrianCost) EdgeCostReverse(edge *graph.DirectedEdge, tile *graph.Tile,
	timestamp int64) datastructure.Cost {
	return c.EdgeCost(edge, tile, timestamp)
}
