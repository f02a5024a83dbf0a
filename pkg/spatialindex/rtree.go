package spatialindex

import (
	"math"
	"sort"

	"github.com/lintang-b-s/tilematrix/pkg/datastructure"
	"github.com/lintang-b-s/tilematrix/pkg/geo"
	"github.com/lintang-b-s/tilematrix/pkg/graph"
	"github.com/tidwall/rtree"
	"go.uber.org/zap"
)

// edgeRef one indexed directed edge with its segment endpoints, enough to
// compute a projection without touching the tile again.
type edgeRef struct {
	edgeId   datastructure.GraphId
	from, to geo.Coordinate
}

func (er edgeRef) EdgeId() datastructure.GraphId {
	return er.edgeId
}

// Rtree spatial index over the directed edges of a tile set, used to find
// the candidate edges of a location before seeding a matrix query.
type Rtree struct {
	tr *rtree.RTreeG[edgeRef]
}

func NewRtree() *Rtree {
	var tr rtree.RTreeG[edgeRef]
	return &Rtree{tr: &tr}
}

// Build index every directed edge of the tile set, each leaf padded by
// boundingBoxRadius (km).
func (rt *Rtree) Build(source graph.TileSource, boundingBoxRadius float64, log *zap.Logger) error {
	log.Info("Building R-tree spatial index...")

	count := 0
	for _, key := range source.TileKeys() {
		id := datastructure.GraphId(key)
		tile, err := source.Tile(id.Level(), id.Tile())
		if err != nil {
			return err
		}
		for i := 0; i < tile.EdgeCount(); i++ {
			edge, err := tile.DirectedEdge(uint32(i))
			if err != nil {
				return err
			}
			shape := edge.Shape()
			if len(shape) < 2 {
				continue
			}
			from := shape[0]
			to := shape[len(shape)-1]

			lowerFromLat, lowerFromLon := geo.GetDestinationPoint(from.Lat, from.Lon, 225, boundingBoxRadius)
			upperFromLat, upperFromLon := geo.GetDestinationPoint(from.Lat, from.Lon, 45, boundingBoxRadius)
			lowerToLat, lowerToLon := geo.GetDestinationPoint(to.Lat, to.Lon, 225, boundingBoxRadius)
			upperToLat, upperToLon := geo.GetDestinationPoint(to.Lat, to.Lon, 45, boundingBoxRadius)

			minLat := math.Min(lowerFromLat, lowerToLat)
			minLon := math.Min(lowerFromLon, lowerToLon)
			maxLat := math.Max(upperFromLat, upperToLat)
			maxLon := math.Max(upperFromLon, upperToLon)

			rt.tr.Insert([2]float64{minLon, minLat}, [2]float64{maxLon, maxLat},
				edgeRef{edgeId: tile.EdgeId(uint32(i)), from: from, to: to})
			count++
		}
	}

	log.Info("R-tree spatial index built.", zap.Int("edges", count))
	return nil
}

// NearbyEdges candidate edges within searchRadius (km) of a point, nearest
// first, at most maxCandidates. percent_along is the projection of the point
// onto each edge.
func (rt *Rtree) NearbyEdges(lat, lon, searchRadius float64, maxCandidates int) []datastructure.CandidateEdge {
	minLat, minLon := geo.GetDestinationPoint(lat, lon, 225, searchRadius)
	maxLat, maxLon := geo.GetDestinationPoint(lat, lon, 45, searchRadius)

	snap := geo.NewCoordinate(lat, lon)
	candidates := make([]datastructure.CandidateEdge, 0)

	rt.tr.Search([2]float64{minLon, minLat}, [2]float64{maxLon, maxLat},
		func(min, max [2]float64, ref edgeRef) bool {
			dist := geo.PointLinePerpendicularDistance(ref.from, ref.to, snap)
			if dist > searchRadius*1000 {
				return true
			}
			percent := geo.ProjectPercentAlong(ref.from, ref.to, snap)
			candidates = append(candidates,
				datastructure.NewCandidateEdge(ref.edgeId, percent, dist))
			return true
		})

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].DistToEdge() < candidates[j].DistToEdge()
	})
	if maxCandidates > 0 && len(candidates) > maxCandidates {
		candidates = candidates[:maxCandidates]
	}
	return candidates
}
