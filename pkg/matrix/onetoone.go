package matrix

import (
	"math"

	"github.com/lintang-b-s/tilematrix/pkg"
	"github.com/lintang-b-s/tilematrix/pkg/costing"
	"github.com/lintang-b-s/tilematrix/pkg/datastructure"
)

// OneToOne is an independent one-to-one bidirectional Dijkstra over the same
// reader and costing. The service uses it for single-pair requests; the test
// suite uses it as the optimality oracle for the matrix engine.
type OneToOne struct {
	reader  GraphReader
	costing costing.DynamicCost
}

type OneToOneResult struct {
	Cost     datastructure.Cost
	Distance float64
	Found    bool
	Labels   int
}

func NewOneToOne(reader GraphReader, cost costing.DynamicCost) *OneToOne {
	return &OneToOne{reader: reader, costing: cost}
}

type oneToOneSide struct {
	labels []datastructure.BDEdgeLabel
	status *datastructure.EdgeStatus
	queue  *datastructure.MinHeap[datastructure.Index]
	nodes  map[datastructure.Index]*datastructure.PriorityQueueNode[datastructure.Index]
}

func newOneToOneSide() *oneToOneSide {
	return &oneToOneSide{
		labels: make([]datastructure.BDEdgeLabel, 0),
		status: datastructure.NewEdgeStatus(),
		queue:  datastructure.NewFourAryHeap[datastructure.Index](),
		nodes:  make(map[datastructure.Index]*datastructure.PriorityQueueNode[datastructure.Index]),
	}
}

func (side *oneToOneSide) push(label datastructure.BDEdgeLabel, key datastructure.GraphId) datastructure.Index {
	idx := datastructure.Index(len(side.labels))
	side.labels = append(side.labels, label)
	node := datastructure.NewPriorityQueueNode(label.SortCost(), idx)
	side.nodes[idx] = node
	side.queue.Insert(node)
	side.status.SetTemporary(key, idx)
	return idx
}

func (side *oneToOneSide) decrease(idx datastructure.Index, rank float64) {
	if node, ok := side.nodes[idx]; ok {
		_ = side.queue.DecreaseKey(node, rank)
	}
}

// Search find the best connection between one source and one target.
func (o *OneToOne) Search(source, target datastructure.MatrixLocation,
	maxMatrixDistance float64) (OneToOneResult, error) {

	fwd := newOneToOneSide()
	rev := newOneToOneSide()

	best := datastructure.NewCost(pkg.INF_WEIGHT, pkg.INF_WEIGHT)
	bestDist := 0.0
	found := false

	// seed forward side
	for _, candidate := range source.Edges() {
		edge, tile, err := o.reader.DirectedEdge(candidate.EdgeId())
		if err != nil {
			return OneToOneResult{}, err
		}
		if !o.costing.Allowed(edge, nil, tile, -1) {
			continue
		}
		oppId, err := o.reader.OpposingEdgeId(candidate.EdgeId())
		if err != nil {
			return OneToOneResult{}, err
		}
		remainder := 1.0 - candidate.PercentAlong()
		cost := o.costing.EdgeCost(edge, tile, -1).Scale(remainder)
		fwd.push(datastructure.NewSeedLabel(candidate.EdgeId(), oppId, cost,
			edge.Length()*remainder, edge.HierarchyLevel(), edge.NotThru(),
			edge.Deadend(), candidate.PercentAlong()), candidate.EdgeId())
	}

	// seed reverse side with the opposing orientation
	for _, candidate := range target.Edges() {
		edge, tile, err := o.reader.DirectedEdge(candidate.EdgeId())
		if err != nil {
			return OneToOneResult{}, err
		}
		if !o.costing.AllowedReverse(edge, nil, tile, -1) {
			continue
		}
		oppId, err := o.reader.OpposingEdgeId(candidate.EdgeId())
		if err != nil {
			return OneToOneResult{}, err
		}
		if !oppId.IsValid() {
			continue
		}
		cost := o.costing.EdgeCostReverse(edge, tile, -1).Scale(candidate.PercentAlong())
		rev.push(datastructure.NewSeedLabel(oppId, candidate.EdgeId(), cost,
			edge.Length()*candidate.PercentAlong(), edge.HierarchyLevel(),
			edge.NotThru(), edge.Deadend(), candidate.PercentAlong()), oppId)
	}

	costCeiling := maxMatrixDistance / COST_THRESHOLD_AUTO_DIVISOR
	if o.costing.TravelMode() == pkg.TRAVEL_MODE_PEDESTRIAN {
		costCeiling = maxMatrixDistance / COST_THRESHOLD_PEDESTRIAN_DIVISOR
	} else if o.costing.TravelMode() == pkg.TRAVEL_MODE_BICYCLE {
		costCeiling = maxMatrixDistance / COST_THRESHOLD_BICYCLE_DIVISOR
	}

	// alternate sides by minimum key; stop when the frontier sum exceeds the
	// tentative best connection
	for !fwd.queue.IsEmpty() || !rev.queue.IsEmpty() {
		if fwd.queue.GetMinrank()+rev.queue.GetMinrank() > best.Cost && found {
			break
		}
		if math.Min(fwd.queue.GetMinrank(), rev.queue.GetMinrank()) > costCeiling {
			break
		}

		if fwd.queue.GetMinrank() <= rev.queue.GetMinrank() {
			if done := o.forwardStep(fwd, rev, &best, &bestDist, &found); done {
				break
			}
		} else {
			if done := o.reverseStep(rev); done {
				break
			}
		}
	}

	if !found {
		return OneToOneResult{Labels: len(fwd.labels) + len(rev.labels)}, nil
	}
	return OneToOneResult{
		Cost:     best,
		Distance: bestDist,
		Found:    true,
		Labels:   len(fwd.labels) + len(rev.labels),
	}, nil
}

func (o *OneToOne) forwardStep(fwd, rev *oneToOneSide, best *datastructure.Cost,
	bestDist *float64, found *bool) bool {
	qn, err := fwd.queue.ExtractMin()
	if err != nil {
		return true
	}
	predIdx := qn.GetItem()
	pred := fwd.labels[predIdx]
	fwd.status.SetPermanent(pred.EdgeId())

	// meet check against the reverse tree
	revInfo := rev.status.Get(pred.OppEdgeId())
	if revInfo.Set() != datastructure.UNREACHED {
		revLabel := &rev.labels[revInfo.LabelIdx()]
		var c datastructure.Cost
		var d float64
		valid := true
		if revLabel.IsSeed() {
			if pred.IsSeed() && revLabel.PercentAlong() < pred.PercentAlong() {
				valid = false
			} else {
				edge, tile, err := o.reader.DirectedEdge(pred.EdgeId())
				if err != nil {
					return true
				}
				full := o.costing.EdgeCost(edge, tile, -1)
				remainder := 1.0 - revLabel.PercentAlong()
				c = pred.Cost().Sub(full.Scale(remainder))
				d = pred.Distance() - edge.Length()*remainder
				if c.Cost < 0 {
					c = datastructure.Cost{}
					d = 0
				}
			}
		} else {
			revPred := &rev.labels[revLabel.PredIdx()]
			c = pred.Cost().Add(revPred.Cost()).Add(revLabel.TransitionCost())
			d = pred.Distance() + revPred.Distance()
		}
		if valid && c.Cost < best.Cost {
			*best = c
			*bestDist = d
			*found = true
		}
	}

	// expansion
	edge, _, err := o.reader.DirectedEdge(pred.EdgeId())
	if err != nil {
		return true
	}
	node, tile, err := o.reader.NodeInfo(edge.EndNode())
	if err != nil {
		return true
	}
	for i := uint32(0); i < node.EdgeCount(); i++ {
		idx := node.EdgeIndex() + i
		e, err := tile.DirectedEdge(idx)
		if err != nil {
			continue
		}
		eid := tile.EdgeId(idx)
		if eid == pred.OppEdgeId() {
			continue
		}
		info := fwd.status.Get(eid)
		if info.Set() == datastructure.PERMANENT {
			continue
		}
		if !o.costing.Allowed(e, &pred, tile, -1) {
			continue
		}
		newCost := pred.Cost().
			Add(o.costing.EdgeCost(e, tile, -1)).
			Add(o.costing.TransitionCost(node, e, &pred))
		newDist := pred.Distance() + e.Length()
		if info.Set() == datastructure.TEMPORARY {
			lbl := &fwd.labels[info.LabelIdx()]
			if improves(newCost, newDist, lbl) {
				lbl.Update(predIdx, newCost, newDist, datastructure.Cost{})
				fwd.decrease(info.LabelIdx(), newCost.Cost)
			}
			continue
		}
		oppId, err := o.reader.OpposingEdgeId(eid)
		if err != nil {
			continue
		}
		fwd.push(datastructure.NewBDEdgeLabel(predIdx, eid, oppId, newCost, newDist,
			e.HierarchyLevel(), e.NotThru(), e.Deadend(), datastructure.Cost{}), eid)
	}
	return false
}

func (o *OneToOne) reverseStep(rev *oneToOneSide) bool {
	qn, err := rev.queue.ExtractMin()
	if err != nil {
		return true
	}
	predIdx := qn.GetItem()
	pred := rev.labels[predIdx]
	rev.status.SetPermanent(pred.EdgeId())

	edge, _, err := o.reader.DirectedEdge(pred.EdgeId())
	if err != nil {
		return true
	}
	node, tile, err := o.reader.NodeInfo(edge.EndNode())
	if err != nil {
		return true
	}
	for i := uint32(0); i < node.EdgeCount(); i++ {
		idx := node.EdgeIndex() + i
		eid := tile.EdgeId(idx)
		if eid == pred.OppEdgeId() {
			continue
		}
		info := rev.status.Get(eid)
		if info.Set() == datastructure.PERMANENT {
			continue
		}
		oppId, err := o.reader.OpposingEdgeId(eid)
		if err != nil || !oppId.IsValid() {
			continue
		}
		oppEdge, oppTile, err := o.reader.DirectedEdge(oppId)
		if err != nil {
			continue
		}
		if !o.costing.AllowedReverse(oppEdge, &pred, oppTile, -1) {
			continue
		}
		newCost := pred.Cost().
			Add(o.costing.EdgeCostReverse(oppEdge, oppTile, -1)).
			Add(o.costing.TransitionCostReverse(node, oppEdge, &pred))
		newDist := pred.Distance() + oppEdge.Length()
		if info.Set() == datastructure.TEMPORARY {
			lbl := &rev.labels[info.LabelIdx()]
			if improves(newCost, newDist, lbl) {
				lbl.Update(predIdx, newCost, newDist, datastructure.Cost{})
				rev.decrease(info.LabelIdx(), newCost.Cost)
			}
			continue
		}
		rev.push(datastructure.NewBDEdgeLabel(predIdx, eid, oppId, newCost, newDist,
			oppEdge.HierarchyLevel(), oppEdge.NotThru(), oppEdge.Deadend(),
			datastructure.Cost{}), eid)
	}
	return false
}
