package matrix

import (
	"fmt"

	"github.com/lintang-b-s/tilematrix/pkg/datastructure"
	"github.com/lintang-b-s/tilematrix/pkg/util"
)

// setSources push one initial label per candidate edge of every source. The
// initial cost is the edge cost scaled by the remaining fraction of the edge
// beyond the source point.
func (cm *CostMatrix) setSources(sources []datastructure.MatrixLocation) error {
	for s, location := range sources {
		ts := cm.sourceTimestamp(s)
		for _, candidate := range location.Edges() {
			edge, tile, err := cm.reader.DirectedEdge(candidate.EdgeId())
			if err != nil {
				return err
			}
			if !cm.costing.Allowed(edge, nil, tile, ts) {
				continue
			}

			oppId, err := cm.reader.OpposingEdgeId(candidate.EdgeId())
			if err != nil {
				return err
			}

			edgeCost := cm.costing.EdgeCost(edge, tile, ts)
			if !edgeCost.Valid() {
				return util.WrapErrorf(fmt.Errorf("edge %d", uint64(candidate.EdgeId())),
					util.ErrCostingError, "costing returned an invalid seed cost")
			}

			remainder := 1.0 - candidate.PercentAlong()
			cost := edgeCost.Scale(remainder)
			dist := edge.Length() * remainder

			labelIdx := datastructure.Index(len(cm.sourceEdgeLabels[s]))
			cm.sourceEdgeLabels[s] = append(cm.sourceEdgeLabels[s],
				datastructure.NewSeedLabel(candidate.EdgeId(), oppId, cost, dist,
					edge.HierarchyLevel(), edge.NotThru(), edge.Deadend(),
					candidate.PercentAlong()))
			if err := cm.countLabel(); err != nil {
				return err
			}
			cm.sourceAdjacency[s].Add(labelIdx, cost.Cost)
			cm.sourceEdgeStatus[s].SetTemporary(candidate.EdgeId(), labelIdx)
		}
	}
	return nil
}

// setTargets seed the reverse searches with the opposing orientation of every
// candidate edge, the initial cost scaled by the fraction of the edge before
// the target point. Seeds are registered in the reverse index immediately so
// a forward settle can connect to a target before its seed is settled.
func (cm *CostMatrix) setTargets(targets []datastructure.MatrixLocation) error {
	for t, location := range targets {
		ts := cm.targetTimestamp(t)
		for _, candidate := range location.Edges() {
			edge, tile, err := cm.reader.DirectedEdge(candidate.EdgeId())
			if err != nil {
				return err
			}
			if !cm.costing.AllowedReverse(edge, nil, tile, ts) {
				continue
			}

			oppId, err := cm.reader.OpposingEdgeId(candidate.EdgeId())
			if err != nil {
				return err
			}
			if !oppId.IsValid() {
				// an edge without a twin cannot anchor a reverse tree
				continue
			}

			edgeCost := cm.costing.EdgeCostReverse(edge, tile, ts)
			if !edgeCost.Valid() {
				return util.WrapErrorf(fmt.Errorf("edge %d", uint64(candidate.EdgeId())),
					util.ErrCostingError, "costing returned an invalid seed cost")
			}

			cost := edgeCost.Scale(candidate.PercentAlong())
			dist := edge.Length() * candidate.PercentAlong()

			labelIdx := datastructure.Index(len(cm.targetEdgeLabels[t]))
			cm.targetEdgeLabels[t] = append(cm.targetEdgeLabels[t],
				datastructure.NewSeedLabel(oppId, candidate.EdgeId(), cost, dist,
					edge.HierarchyLevel(), edge.NotThru(), edge.Deadend(),
					candidate.PercentAlong()))
			if err := cm.countLabel(); err != nil {
				return err
			}
			cm.targetAdjacency[t].Add(labelIdx, cost.Cost)
			cm.targetEdgeStatus[t].SetTemporary(oppId, labelIdx)
			cm.targets.insert(oppId, t, labelIdx)
		}
	}
	return nil
}
