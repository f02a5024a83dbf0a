package costing

import (
	"github.com/lintang-b-s/tilematrix/pkg"
	"github.com/lintang-b-s/tilematrix/pkg/datastructure"
	"github.com/lintang-b-s/tilematrix/pkg/graph"
)

// AutoCost drive-time costing. The objective equals the traversal time at the
// edge speed, optionally modulated by a time-of-day speed function.
type AutoCost struct {
	baseCost
}

func NewAutoCost(opts ...Option) *AutoCost {
	c := &AutoCost{
		baseCost: baseCost{
			accessMode: pkg.AUTO_ACCESS,
			mode:       pkg.TRAVEL_MODE_AUTO,
			unitSize:   1.0,
		},
	}
	for _, opt := range opts {
		opt(&c.baseCost)
	}
	return c
}

func (c *AutoCost) Allowed(edge *graph.DirectedEdge, pred *datastructure.BDEdgeLabel,
	tile *graph.Tile, timestamp int64) bool {
	return c.allowedAccess(edge)
}

func (c *AutoCost) AllowedReverse(edge *graph.DirectedEdge, pred *datastructure.BDEdgeLabel,
	tile *graph.Tile, timestamp int64) bool {
	return c.allowedAccess(edge)
}

func (c *AutoCost) EdgeCost(edge *graph.DirectedEdge, tile *graph.Tile,
	timestamp int64) datastructure.Cost {
	secs := secondsAtSpeed(edge.Length(), edge.Speed()*c.speedFactor(edge, timestamp))
	return datastructure.NewCost(secs, secs)
}

func (c *AutoCost) EdgeCostReverse(edge *graph.DirectedEdge, tile *graph.Tile,
	timestamp int64) datastructure.Cost {
	return c.EdgeCost(edge, tile, timestamp)
}
