package matrix

import (
	"fmt"

	"github.com/lintang-b-s/tilematrix/pkg/datastructure"
	"github.com/lintang-b-s/tilematrix/pkg/geo"
	"github.com/lintang-b-s/tilematrix/pkg/util"
)

// pathEdge one driven edge of a reconstructed meeting path, with the fraction
// of the edge actually traversed (partial at the first and last edge).
type pathEdge struct {
	edgeId   datastructure.GraphId
	fraction float64
}

/*
recostPaths the initial expansion costs every edge with a snapshot taken at
the departure time, an approximation whenever edge costs vary with time of
day. After the matrix is determined, reconstruct the meeting path of every
found pair and re-evaluate each edge with the true timestamp at traversal,
replacing the connection cost.
*/
func (cm *CostMatrix) recostPaths() error {
	for s := 0; s < cm.sourceCount; s++ {
		for t := 0; t < cm.targetCount; t++ {
			bc := &cm.bestConnection[s*cm.targetCount+t]
			if !bc.found {
				continue
			}

			path, err := cm.reconstructPath(s, t, bc)
			if err != nil {
				return err
			}
			if len(path) == 0 {
				continue
			}

			depart := cm.sourceLocations[s].DateTime()
			elapsed := datastructure.Cost{}
			shape := make([]geo.Coordinate, 0)

			for _, pe := range path {
				edge, tile, err := cm.reader.DirectedEdge(pe.edgeId)
				if err != nil {
					return err
				}
				ts := depart + int64(elapsed.Secs)
				edgeCost := cm.costing.EdgeCost(edge, tile, ts)
				if !edgeCost.Valid() {
					return util.WrapErrorf(fmt.Errorf("edge %d", uint64(pe.edgeId)),
						util.ErrCostingError, "recosting returned an invalid cost")
				}
				elapsed = elapsed.Add(edgeCost.Scale(pe.fraction))

				if cm.cfg.IncludeShape {
					for i, c := range edge.Shape() {
						if i == 0 && len(shape) > 0 {
							continue
						}
						shape = append(shape, c)
					}
				}
			}

			bc.cost = elapsed
			if cm.cfg.IncludeShape {
				bc.shape = geo.PolylineFromCoords(shape)
			}
		}
	}
	return nil
}

// reconstructPath walk the forward predecessor chain from the meeting edge
// back to the source seed, then the reverse predecessor chain from the
// opposing edge back to the target seed. The reverse chain's first label
// covers the shared meeting edge and is skipped; each further reverse label
// contributes its driven (opposing) edge.
func (cm *CostMatrix) reconstructPath(s, t int, bc *bestCandidate) ([]pathEdge, error) {
	fwdStatus := cm.sourceEdgeStatus[s].Get(bc.edgeId)
	if fwdStatus.Set() == datastructure.UNREACHED {
		return nil, util.WrapErrorf(fmt.Errorf("edge %d", uint64(bc.edgeId)),
			util.ErrGraphUnavailable, "meeting edge missing from the forward tree")
	}

	forward := make([]pathEdge, 0)
	labels := cm.sourceEdgeLabels[s]
	idx := fwdStatus.LabelIdx()
	for {
		lbl := &labels[idx]
		fraction := 1.0
		if lbl.IsSeed() {
			fraction = 1.0 - lbl.PercentAlong()
		}
		forward = append(forward, pathEdge{edgeId: lbl.EdgeId(), fraction: fraction})
		if lbl.IsSeed() {
			break
		}
		idx = lbl.PredIdx()
	}
	path := util.ReverseG(forward)

	revStatus := cm.targetEdgeStatus[t].Get(bc.oppEdgeId)
	if revStatus.Set() == datastructure.UNREACHED {
		return nil, util.WrapErrorf(fmt.Errorf("edge %d", uint64(bc.oppEdgeId)),
			util.ErrGraphUnavailable, "meeting edge missing from the reverse tree")
	}

	revLabels := cm.targetEdgeLabels[t]
	rev := &revLabels[revStatus.LabelIdx()]
	if rev.IsSeed() {
		// the target sits on the meeting edge itself: trim the unused tail
		// of the final edge
		last := &path[len(path)-1]
		last.fraction -= 1.0 - rev.PercentAlong()
		if last.fraction < 0 {
			last.fraction = 0
		}
		return path, nil
	}

	idx = rev.PredIdx()
	for {
		lbl := &revLabels[idx]
		fraction := 1.0
		if lbl.IsSeed() {
			fraction = lbl.PercentAlong()
		}
		path = append(path, pathEdge{edgeId: lbl.OppEdgeId(), fraction: fraction})
		if lbl.IsSeed() {
			break
		}
		idx = lbl.PredIdx()
	}

	return path, nil
}
