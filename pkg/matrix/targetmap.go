package matrix

import (
	"github.com/lintang-b-s/tilematrix/pkg/datastructure"
)

// targetEdgeEntry one target whose reverse tree reached an edge, with the
// label index inside that target's buffer.
type targetEdgeEntry struct {
	target   int
	labelIdx datastructure.Index
}

// targetMap is the reverse index joining the forward and reverse trees: for
// every reverse seed edge and every edge settled by any backward search, the
// targets that reached it.
// Append-only within one query; its layout is encapsulated behind the engine.
type targetMap struct {
	m map[datastructure.GraphId][]targetEdgeEntry
}

func newTargetMap() *targetMap {
	return &targetMap{m: make(map[datastructure.GraphId][]targetEdgeEntry)}
}

func (tm *targetMap) insert(edge datastructure.GraphId, target int, labelIdx datastructure.Index) {
	tm.m[edge] = append(tm.m[edge], targetEdgeEntry{target: target, labelIdx: labelIdx})
}

func (tm *targetMap) lookup(edge datastructure.GraphId) []targetEdgeEntry {
	return tm.m[edge]
}

func (tm *targetMap) size() int {
	return len(tm.m)
}
