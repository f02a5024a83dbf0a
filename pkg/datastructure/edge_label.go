package datastructure

// BDEdgeLabel is one settled or frontier record of a bidirectional search.
// Labels are append-only within one per-location search; their index in the
// label buffer is stable and used as the predecessor pointer.
type BDEdgeLabel struct {
	predIdx   Index
	edgeId    GraphId
	oppEdgeId GraphId

	cost     Cost
	sortCost float64
	distance float64

	level   uint8
	notThru bool
	deadend bool

	// transition cost snapshot taken when the label was created, consumed
	// when the meeting path is later reconstructed.
	transitionCost Cost

	// position of the location along its snapped candidate edge, as a
	// fraction of the edge length. a reverse seed sits on the opposing edge
	// but still records the fraction along the candidate edge. only
	// meaningful on seed labels (predIdx == INVALID_INDEX).
	percentAlong float64
}

func NewBDEdgeLabel(predIdx Index, edgeId, oppEdgeId GraphId, cost Cost,
	distance float64, level uint8, notThru, deadend bool,
	transitionCost Cost) BDEdgeLabel {
	return BDEdgeLabel{
		predIdx:        predIdx,
		edgeId:         edgeId,
		oppEdgeId:      oppEdgeId,
		cost:           cost,
		sortCost:       cost.Cost,
		distance:       distance,
		level:          level,
		notThru:        notThru,
		deadend:        deadend,
		transitionCost: transitionCost,
	}
}

// NewSeedLabel label pushed at initialization for a candidate edge of a
// location, with the partial-edge fraction recorded.
func NewSeedLabel(edgeId, oppEdgeId GraphId, cost Cost, distance float64,
	level uint8, notThru, deadend bool, percentAlong float64) BDEdgeLabel {
	l := NewBDEdgeLabel(INVALID_INDEX, edgeId, oppEdgeId, cost, distance,
		level, notThru, deadend, Cost{})
	l.percentAlong = percentAlong
	return l
}

func (l *BDEdgeLabel) PredIdx() Index       { return l.predIdx }
func (l *BDEdgeLabel) EdgeId() GraphId      { return l.edgeId }
func (l *BDEdgeLabel) OppEdgeId() GraphId   { return l.oppEdgeId }
func (l *BDEdgeLabel) Cost() Cost           { return l.cost }
func (l *BDEdgeLabel) SortCost() float64    { return l.sortCost }
func (l *BDEdgeLabel) Distance() float64    { return l.distance }
func (l *BDEdgeLabel) Level() uint8         { return l.level }
func (l *BDEdgeLabel) NotThru() bool        { return l.notThru }
func (l *BDEdgeLabel) Deadend() bool        { return l.deadend }
func (l *BDEdgeLabel) TransitionCost() Cost { return l.transitionCost }
func (l *BDEdgeLabel) PercentAlong() float64 {
	return l.percentAlong
}

func (l *BDEdgeLabel) IsSeed() bool {
	return l.predIdx == INVALID_INDEX
}

// Update relax the label in place when a cheaper path to the same edge is
// found. The label keeps its buffer index, so edge status entries stay valid.
func (l *BDEdgeLabel) Update(predIdx Index, cost Cost, distance float64,
	transitionCost Cost) {
	l.predIdx = predIdx
	l.cost = cost
	l.sortCost = cost.Cost
	l.distance = distance
	l.transitionCost = transitionCost
}
