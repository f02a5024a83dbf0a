package matrix

import (
	"context"
	"fmt"

	"github.com/lintang-b-s/tilematrix/pkg"
	"github.com/lintang-b-s/tilematrix/pkg/costing"
	"github.com/lintang-b-s/tilematrix/pkg/datastructure"
	"github.com/lintang-b-s/tilematrix/pkg/util"
	"go.uber.org/zap"
)

/*
CostMatrix computes the S x T matrix of best-cost paths (cost, time,
distance) between every source and target with one coordinated bidirectional
search instead of S*T independent queries, following:

Sebastian Knopp, "Efficient Computation of Many-to-Many Shortest Paths".
https://i11www.iti.uni-karlsruhe.de/_media/teaching/theses/files/da-sknopp-06.pdf

Forward searches rooted at every source and reverse searches rooted at every
target share work by meeting in the middle: every edge settled by a forward
search is checked against the reverse index of edges the targets reached.

The engine is single-threaded cooperative within one query; all per-location
state is allocated at initialization and released before the next query.
*/
type CostMatrix struct {
	log *zap.Logger
	cfg Config

	reader  GraphReader
	costing costing.DynamicCost

	sourceCount      int
	targetCount      int
	remainingSources int
	remainingTargets int

	currentCostThreshold float64

	hasTime   bool
	invariant bool

	sourceLocations []datastructure.MatrixLocation
	targetLocations []datastructure.MatrixLocation

	sourceStatus []locationStatus
	targetStatus []locationStatus

	sourceHierarchyLimits [][]datastructure.HierarchyLimits
	sourceAdjacency       []*datastructure.DoubleBucketQueue
	sourceEdgeLabels      [][]datastructure.BDEdgeLabel
	sourceEdgeStatus      []*datastructure.EdgeStatus

	targetHierarchyLimits [][]datastructure.HierarchyLimits
	targetAdjacency       []*datastructure.DoubleBucketQueue
	targetEdgeLabels      [][]datastructure.BDEdgeLabel
	targetEdgeStatus      []*datastructure.EdgeStatus

	bestConnection []bestCandidate

	// reverse index: edge id -> targets whose reverse tree reached it
	targets *targetMap

	totalLabels  int
	totalSettles int
}

func NewCostMatrix(reader GraphReader, cost costing.DynamicCost, cfg Config,
	log *zap.Logger) *CostMatrix {
	return &CostMatrix{
		log:     log,
		cfg:     cfg,
		reader:  reader,
		costing: cost,
	}
}

// LabelCount total labels created by the last query, across every
// per-location search.
func (cm *CostMatrix) LabelCount() int {
	return cm.totalLabels
}

// SettledCount total settled edges of the last query.
func (cm *CostMatrix) SettledCount() int {
	return cm.totalSettles
}

// SourceToTarget run the many-to-many search and build the result matrix.
// Recoverable conditions (no candidate edges, no path within thresholds,
// cancellation) become not-found cells; only contract violations return an
// error.
func (cm *CostMatrix) SourceToTarget(ctx context.Context,
	sources, targets []datastructure.MatrixLocation,
	maxMatrixDistance float64, hasTime, invariant bool) (*datastructure.MatrixResult, error) {

	cm.hasTime = hasTime
	cm.invariant = invariant
	cm.currentCostThreshold = cm.costThreshold(maxMatrixDistance)

	if err := cm.initialize(sources, targets); err != nil {
		cm.clear()
		return nil, err
	}

	cm.log.Debug("matrix search initialized",
		zap.Int("sources", cm.remainingSources),
		zap.Int("targets", cm.remainingTargets),
		zap.Float64("cost_threshold", cm.currentCostThreshold))

	cancelled := false
	for cm.remainingSources > 0 || cm.remainingTargets > 0 {
		if util.StopConcurrentOperation(ctx) {
			cancelled = true
			break
		}

		for s := 0; s < cm.sourceCount; s++ {
			if cm.sourceStatus[s].threshold > 0 {
				if err := cm.forwardSearch(s); err != nil {
					cm.clear()
					return nil, err
				}
			}
		}
		for t := 0; t < cm.targetCount; t++ {
			if cm.targetStatus[t].threshold > 0 {
				if err := cm.backwardSearch(t); err != nil {
					cm.clear()
					return nil, err
				}
			}
		}
	}

	if !cancelled && cm.hasTime && !cm.invariant {
		if err := cm.recostPaths(); err != nil {
			cm.clear()
			return nil, err
		}
	}

	result := cm.buildResult(cancelled)
	cm.clear()
	return result, nil
}

// costThreshold derive the pop cost ceiling from the maximum arc-length
// distance of the current mode.
func (cm *CostMatrix) costThreshold(maxMatrixDistance float64) float64 {
	switch cm.costing.TravelMode() {
	case pkg.TRAVEL_MODE_BICYCLE:
		return maxMatrixDistance / cm.cfg.CostThresholdBicycleDivisor
	case pkg.TRAVEL_MODE_PEDESTRIAN:
		return maxMatrixDistance / cm.cfg.CostThresholdPedestrianDivisor
	default:
		return maxMatrixDistance / cm.cfg.CostThresholdAutoDivisor
	}
}

func (cm *CostMatrix) initialize(sources, targets []datastructure.MatrixLocation) error {
	cm.sourceLocations = sources
	cm.targetLocations = targets
	cm.sourceCount = len(sources)
	cm.targetCount = len(targets)
	cm.totalLabels = 0
	cm.totalSettles = 0

	cm.sourceStatus = make([]locationStatus, 0, cm.sourceCount)
	cm.targetStatus = make([]locationStatus, 0, cm.targetCount)

	cm.sourceHierarchyLimits = make([][]datastructure.HierarchyLimits, cm.sourceCount)
	cm.sourceAdjacency = make([]*datastructure.DoubleBucketQueue, cm.sourceCount)
	cm.sourceEdgeLabels = make([][]datastructure.BDEdgeLabel, cm.sourceCount)
	cm.sourceEdgeStatus = make([]*datastructure.EdgeStatus, cm.sourceCount)

	cm.targetHierarchyLimits = make([][]datastructure.HierarchyLimits, cm.targetCount)
	cm.targetAdjacency = make([]*datastructure.DoubleBucketQueue, cm.targetCount)
	cm.targetEdgeLabels = make([][]datastructure.BDEdgeLabel, cm.targetCount)
	cm.targetEdgeStatus = make([]*datastructure.EdgeStatus, cm.targetCount)

	cm.bestConnection = make([]bestCandidate, cm.sourceCount*cm.targetCount)
	for i := range cm.bestConnection {
		cm.bestConnection[i] = newBestCandidate()
	}

	cm.targets = newTargetMap()

	limits := cm.costing.HierarchyLimits()
	bucketSize := cm.costing.UnitSize()

	for i := 0; i < cm.sourceCount; i++ {
		cm.sourceHierarchyLimits[i] = append([]datastructure.HierarchyLimits(nil), limits...)
		cm.sourceEdgeLabels[i] = make([]datastructure.BDEdgeLabel, 0, cm.cfg.MaxReservedLabelsCount)
		cm.sourceEdgeStatus[i] = datastructure.NewEdgeStatus()
		idx := i
		cm.sourceAdjacency[i] = datastructure.NewDoubleBucketQueue(BUCKET_COUNT, bucketSize,
			func(l datastructure.Index) float64 {
				return cm.sourceEdgeLabels[idx][l].SortCost()
			})
	}
	for i := 0; i < cm.targetCount; i++ {
		cm.targetHierarchyLimits[i] = append([]datastructure.HierarchyLimits(nil), limits...)
		cm.targetEdgeLabels[i] = make([]datastructure.BDEdgeLabel, 0, cm.cfg.MaxReservedLabelsCount)
		cm.targetEdgeStatus[i] = datastructure.NewEdgeStatus()
		idx := i
		cm.targetAdjacency[i] = datastructure.NewDoubleBucketQueue(BUCKET_COUNT, bucketSize,
			func(l datastructure.Index) float64 {
				return cm.targetEdgeLabels[idx][l].SortCost()
			})
	}

	if err := cm.setSources(sources); err != nil {
		return err
	}
	if err := cm.setTargets(targets); err != nil {
		return err
	}

	sourceSeeded := func(i int) bool { return len(cm.sourceEdgeLabels[i]) > 0 }
	targetSeeded := func(i int) bool { return len(cm.targetEdgeLabels[i]) > 0 }

	cm.remainingSources = 0
	cm.remainingTargets = 0
	for i := 0; i < cm.sourceCount; i++ {
		threshold := 0
		if sourceSeeded(i) {
			threshold = UNBOUNDED_THRESHOLD
			cm.remainingSources++
		}
		cm.sourceStatus = append(cm.sourceStatus,
			newLocationStatus(threshold, cm.targetCount, targetSeeded))
	}
	for i := 0; i < cm.targetCount; i++ {
		threshold := 0
		if targetSeeded(i) {
			threshold = UNBOUNDED_THRESHOLD
			cm.remainingTargets++
		}
		cm.targetStatus = append(cm.targetStatus,
			newLocationStatus(threshold, cm.sourceCount, sourceSeeded))
	}

	return nil
}

// forwardSearch advance the forward search of one source by one settled edge.
func (cm *CostMatrix) forwardSearch(s int) error {
	predIdx, ok := cm.sourceAdjacency[s].Pop()
	if !ok {
		cm.terminateSource(s)
		return nil
	}
	pred := cm.sourceEdgeLabels[s][predIdx]
	if pred.Cost().Cost > cm.currentCostThreshold {
		cm.terminateSource(s)
		return nil
	}

	cm.sourceEdgeStatus[s].SetPermanent(pred.EdgeId())
	cm.totalSettles++

	updated, err := cm.checkForwardConnections(s, &pred)
	if err != nil {
		return err
	}

	if err := cm.expandForward(s, &pred, predIdx); err != nil {
		return err
	}

	// per-pair thresholds decay with every forward iteration of the source
	for t := 0; t < cm.targetCount; t++ {
		bc := &cm.bestConnection[s*cm.targetCount+t]
		if bc.found && bc.threshold > 0 {
			bc.threshold--
		}
	}

	st := &cm.sourceStatus[s]
	if !updated && len(st.remaining) == 0 && st.threshold > 0 {
		st.threshold--
		if st.threshold == 0 {
			cm.remainingSources--
		}
	}
	return nil
}

// backwardSearch advance the reverse search of one target by one settled
// edge, recording the settled edge in the reverse index. Backward steps do
// not check for connections: forward settles are the single meeting point, so
// every pair is detected exactly once.
func (cm *CostMatrix) backwardSearch(t int) error {
	predIdx, ok := cm.targetAdjacency[t].Pop()
	if !ok {
		cm.terminateTarget(t)
		return nil
	}
	pred := cm.targetEdgeLabels[t][predIdx]
	if pred.Cost().Cost > cm.currentCostThreshold {
		cm.terminateTarget(t)
		return nil
	}

	cm.targetEdgeStatus[t].SetPermanent(pred.EdgeId())
	cm.totalSettles++

	// seeds were inserted into the reverse index at initialization
	if !pred.IsSeed() {
		cm.targets.insert(pred.EdgeId(), t, predIdx)
	}

	if err := cm.expandReverse(t, &pred, predIdx); err != nil {
		return err
	}

	st := &cm.targetStatus[t]
	if len(st.remaining) == 0 && st.threshold > 0 {
		st.threshold--
		if st.threshold == 0 {
			cm.remainingTargets--
		}
	}
	return nil
}

func (cm *CostMatrix) terminateSource(s int) {
	st := &cm.sourceStatus[s]
	if st.threshold > 0 {
		st.threshold = 0
		cm.remainingSources--
	}
}

func (cm *CostMatrix) terminateTarget(t int) {
	st := &cm.targetStatus[t]
	if st.threshold > 0 {
		st.threshold = 0
		cm.remainingTargets--
	}
}

/*
checkForwardConnections look up the opposing edge of the settled forward edge
in the reverse index. The forward label and the reverse label cover the same
physical edge, so the combined cost takes the reverse label's predecessor
(the path beyond the shared edge) plus the turn cost recorded on the reverse
label. A reverse seed covers only part of its edge; the unused remainder of
the shared edge is subtracted instead.
*/
func (cm *CostMatrix) checkForwardConnections(s int, pred *datastructure.BDEdgeLabel) (bool, error) {
	entries := cm.targets.lookup(pred.OppEdgeId())
	if len(entries) == 0 {
		return false, nil
	}

	updated := false
	for _, entry := range entries {
		t := entry.target
		bc := &cm.bestConnection[s*cm.targetCount+t]
		if bc.found && bc.threshold == 0 {
			// pair is finalized
			continue
		}

		rev := &cm.targetEdgeLabels[t][entry.labelIdx]

		var c datastructure.Cost
		var d float64
		if rev.IsSeed() {
			// the target lies on the shared edge itself
			if pred.IsSeed() && rev.PercentAlong() < pred.PercentAlong() {
				// target point is behind the source point; the pair can
				// only connect around a loop through other edges
				continue
			}
			edge, tile, err := cm.reader.DirectedEdge(pred.EdgeId())
			if err != nil {
				return updated, err
			}
			full := cm.costing.EdgeCost(edge, tile, cm.sourceTimestamp(s))
			if !full.Valid() {
				return updated, util.WrapErrorf(
					fmt.Errorf("edge cost of %d", uint64(pred.EdgeId())),
					util.ErrCostingError, "costing returned an invalid edge cost")
			}
			remainder := 1.0 - rev.PercentAlong()
			c = pred.Cost().Sub(full.Scale(remainder))
			d = pred.Distance() - edge.Length()*remainder
			if c.Cost < 0 {
				c = datastructure.Cost{}
			}
			if d < 0 {
				d = 0
			}
		} else {
			revPred := &cm.targetEdgeLabels[t][rev.PredIdx()]
			c = pred.Cost().Add(revPred.Cost()).Add(rev.TransitionCost())
			d = pred.Distance() + revPred.Distance()
		}

		if cm.updateBestConnection(s, t, pred.EdgeId(), pred.OppEdgeId(), c, d) {
			updated = true
		}
	}
	return updated, nil
}

// updateBestConnection record a meeting for a pair. The first meeting arms
// the per-pair threshold; afterwards only strictly cheaper meetings are
// accepted, until the threshold decays and the pair is finalized.
func (cm *CostMatrix) updateBestConnection(s, t int, edgeId, oppEdgeId datastructure.GraphId,
	c datastructure.Cost, d float64) bool {
	bc := &cm.bestConnection[s*cm.targetCount+t]
	if bc.found {
		if bc.threshold == 0 || c.Cost >= bc.cost.Cost {
			return false
		}
		bc.update(edgeId, oppEdgeId, c, d)
		return true
	}

	bc.found = true
	bc.threshold = cm.cfg.PairMeetingThreshold
	bc.update(edgeId, oppEdgeId, c, d)
	cm.updateStatus(s, t)
	return true
}

// updateStatus remove the pair from both remaining sets once it has met. A
// location whose remaining set empties keeps a few more iterations to improve
// its connections, then stops.
func (cm *CostMatrix) updateStatus(s, t int) {
	srem := cm.sourceStatus[s].remaining
	if _, ok := srem[t]; ok {
		delete(srem, t)
		if len(srem) == 0 && cm.sourceStatus[s].threshold > cm.cfg.PairMeetingThreshold {
			cm.sourceStatus[s].threshold = cm.cfg.PairMeetingThreshold
		}
	}
	trem := cm.targetStatus[t].remaining
	if _, ok := trem[s]; ok {
		delete(trem, s)
		if len(trem) == 0 && cm.targetStatus[t].threshold > cm.cfg.PairMeetingThreshold {
			cm.targetStatus[t].threshold = cm.cfg.PairMeetingThreshold
		}
	}
}

// expandForward relax every outgoing edge at the end node of the settled
// forward edge.
func (cm *CostMatrix) expandForward(s int, pred *datastructure.BDEdgeLabel,
	predIdx datastructure.Index) error {
	edge, _, err := cm.reader.DirectedEdge(pred.EdgeId())
	if err != nil {
		return err
	}
	node, tile, err := cm.reader.NodeInfo(edge.EndNode())
	if err != nil {
		return err
	}

	ts := cm.sourceTimestamp(s)
	adj := cm.sourceAdjacency[s]
	status := cm.sourceEdgeStatus[s]

	for i := uint32(0); i < node.EdgeCount(); i++ {
		idx := node.EdgeIndex() + i
		e, err := tile.DirectedEdge(idx)
		if err != nil {
			return util.WrapErrorf(err, util.ErrGraphUnavailable, "edge range of node")
		}
		eid := tile.EdgeId(idx)

		if eid == pred.OppEdgeId() {
			// no immediate U-turn back onto the opposing edge
			continue
		}
		es := status.Get(eid)
		if es.Set() == datastructure.PERMANENT {
			continue
		}
		if e.NotThru() && !pred.NotThru() {
			continue
		}
		if !cm.costing.Allowed(e, pred, tile, ts) {
			continue
		}

		level := e.HierarchyLevel()
		hl := &cm.sourceHierarchyLimits[s][level]
		if hl.StopExpanding(pred.Distance()) {
			continue
		}

		edgeCost := cm.costing.EdgeCost(e, tile, ts)
		transCost := cm.costing.TransitionCost(node, e, pred)
		if !edgeCost.Valid() || !transCost.Valid() {
			return util.WrapErrorf(fmt.Errorf("edge %d", uint64(eid)),
				util.ErrCostingError, "costing returned an invalid cost")
		}

		newCost := pred.Cost().Add(edgeCost).Add(transCost)
		newDist := pred.Distance() + e.Length()

		if es.Set() == datastructure.TEMPORARY {
			lbl := &cm.sourceEdgeLabels[s][es.LabelIdx()]
			if improves(newCost, newDist, lbl) {
				adj.DecreaseCost(es.LabelIdx(), newCost.Cost, lbl.SortCost())
				lbl.Update(predIdx, newCost, newDist, transCost)
			}
			continue
		}

		oppId, err := cm.reader.OpposingEdgeId(eid)
		if err != nil {
			return err
		}

		labelIdx := datastructure.Index(len(cm.sourceEdgeLabels[s]))
		cm.sourceEdgeLabels[s] = append(cm.sourceEdgeLabels[s],
			datastructure.NewBDEdgeLabel(predIdx, eid, oppId, newCost, newDist,
				level, e.NotThru() || pred.NotThru(), e.Deadend(), transCost))
		if err := cm.countLabel(); err != nil {
			return err
		}
		hl.Increment()
		adj.Add(labelIdx, newCost.Cost)
		status.SetTemporary(eid, labelIdx)
	}
	return nil
}

// expandReverse relax at the end node of the settled reverse edge. The
// reverse tree follows directed edges structurally; the driven edge is the
// opposing twin, which carries the access check and the cost.
func (cm *CostMatrix) expandReverse(t int, pred *datastructure.BDEdgeLabel,
	predIdx datastructure.Index) error {
	edge, _, err := cm.reader.DirectedEdge(pred.EdgeId())
	if err != nil {
		return err
	}
	node, tile, err := cm.reader.NodeInfo(edge.EndNode())
	if err != nil {
		return err
	}

	ts := cm.targetTimestamp(t)
	adj := cm.targetAdjacency[t]
	status := cm.targetEdgeStatus[t]

	for i := uint32(0); i < node.EdgeCount(); i++ {
		idx := node.EdgeIndex() + i
		_, err := tile.DirectedEdge(idx)
		if err != nil {
			return util.WrapErrorf(err, util.ErrGraphUnavailable, "edge range of node")
		}
		eid := tile.EdgeId(idx)

		if eid == pred.OppEdgeId() {
			continue
		}
		es := status.Get(eid)
		if es.Set() == datastructure.PERMANENT {
			continue
		}

		oppId, err := cm.reader.OpposingEdgeId(eid)
		if err != nil {
			return err
		}
		if !oppId.IsValid() {
			// without a twin there is no drivable direction toward the target
			continue
		}
		oppEdge, oppTile, err := cm.reader.DirectedEdge(oppId)
		if err != nil {
			return err
		}

		if oppEdge.NotThru() && !pred.NotThru() {
			continue
		}
		if !cm.costing.AllowedReverse(oppEdge, pred, oppTile, ts) {
			continue
		}

		level := oppEdge.HierarchyLevel()
		hl := &cm.targetHierarchyLimits[t][level]
		if hl.StopExpanding(pred.Distance()) {
			continue
		}

		edgeCost := cm.costing.EdgeCostReverse(oppEdge, oppTile, ts)
		transCost := cm.costing.TransitionCostReverse(node, oppEdge, pred)
		if !edgeCost.Valid() || !transCost.Valid() {
			return util.WrapErrorf(fmt.Errorf("edge %d", uint64(oppId)),
				util.ErrCostingError, "costing returned an invalid cost")
		}

		newCost := pred.Cost().Add(edgeCost).Add(transCost)
		newDist := pred.Distance() + oppEdge.Length()

		if es.Set() == datastructure.TEMPORARY {
			lbl := &cm.targetEdgeLabels[t][es.LabelIdx()]
			if improves(newCost, newDist, lbl) {
				adj.DecreaseCost(es.LabelIdx(), newCost.Cost, lbl.SortCost())
				lbl.Update(predIdx, newCost, newDist, transCost)
			}
			continue
		}

		labelIdx := datastructure.Index(len(cm.targetEdgeLabels[t]))
		cm.targetEdgeLabels[t] = append(cm.targetEdgeLabels[t],
			datastructure.NewBDEdgeLabel(predIdx, eid, oppId, newCost, newDist,
				level, oppEdge.NotThru() || pred.NotThru(), oppEdge.Deadend(), transCost))
		if err := cm.countLabel(); err != nil {
			return err
		}
		hl.Increment()
		adj.Add(labelIdx, newCost.Cost)
		status.SetTemporary(eid, labelIdx)
	}
	return nil
}

// improves cost tie-breaks go to the shorter accumulated distance.
func improves(c datastructure.Cost, dist float64, lbl *datastructure.BDEdgeLabel) bool {
	if c.Cost < lbl.Cost().Cost {
		return true
	}
	return c.Cost == lbl.Cost().Cost && dist < lbl.Distance()
}

func (cm *CostMatrix) countLabel() error {
	cm.totalLabels++
	if cm.totalLabels > cm.cfg.MaxLabelsHardCap {
		return util.WrapErrorf(fmt.Errorf("%d labels", cm.totalLabels),
			util.ErrResourceExhaustion, "label count exceeds the configured cap")
	}
	return nil
}

func (cm *CostMatrix) sourceTimestamp(s int) int64 {
	if !cm.hasTime {
		return -1
	}
	return cm.sourceLocations[s].DateTime()
}

func (cm *CostMatrix) targetTimestamp(t int) int64 {
	if !cm.hasTime {
		return -1
	}
	return cm.targetLocations[t].DateTime()
}

// buildResult write the matrix cells. Not-found pairs follow the convention
// cost = 0, distance = 0, found = false.
func (cm *CostMatrix) buildResult(cancelled bool) *datastructure.MatrixResult {
	result := &datastructure.MatrixResult{
		Cells:       make([]datastructure.MatrixCell, cm.sourceCount*cm.targetCount),
		SourceCount: cm.sourceCount,
		TargetCount: cm.targetCount,
		Cancelled:   cancelled,
	}

	for s := 0; s < cm.sourceCount; s++ {
		depart := cm.sourceLocations[s].DateTime()
		for t := 0; t < cm.targetCount; t++ {
			idx := s*cm.targetCount + t
			bc := &cm.bestConnection[idx]
			cell := &result.Cells[idx]
			if !bc.found {
				continue
			}
			cell.Found = true
			cell.Time = bc.cost.Secs
			cell.Cost = bc.cost.Cost
			cell.Distance = bc.distance
			cell.Shape = bc.shape
			if cm.hasTime {
				cell.DateTime = depart
				cell.BeginTime = depart
				cell.EndTime = depart + int64(bc.cost.Secs)
			}
		}
	}
	return result
}

// clear release all per-location state generated during matrix construction.
func (cm *CostMatrix) clear() {
	cm.sourceLocations = nil
	cm.targetLocations = nil
	cm.sourceStatus = nil
	cm.targetStatus = nil
	cm.sourceHierarchyLimits = nil
	cm.sourceAdjacency = nil
	cm.sourceEdgeLabels = nil
	cm.sourceEdgeStatus = nil
	cm.targetHierarchyLimits = nil
	cm.targetAdjacency = nil
	cm.targetEdgeLabels = nil
	cm.targetEdgeStatus = nil
	cm.targets = nil
	cm.bestConnection = nil
}
