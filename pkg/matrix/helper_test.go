package matrix

import (
	"testing"

	"github.com/lintang-b-s/tilematrix/pkg"
	"github.com/lintang-b-s/tilematrix/pkg/datastructure"
	"github.com/lintang-b-s/tilematrix/pkg/graph"
	"go.uber.org/zap"
)

// testNet builds small in-memory graphs for the engine tests and keeps track
// of which directed edges leave and enter every node.
type testNet struct {
	b      *graph.TileSetBuilder
	reader *graph.Reader

	out map[int][]int // node handle -> edge handles leaving it
	in  map[int][]int // node handle -> edge handles entering it
}

func newTestNet() *testNet {
	return &testNet{
		b:   graph.NewTileSetBuilder(graph.DefaultTileSizeDeg),
		out: make(map[int][]int),
		in:  make(map[int][]int),
	}
}

func (n *testNet) addNode(lat, lon float64) int {
	return n.b.AddNode(lat, lon)
}

// addSeg register a two-way segment; the forward handle drives u->v, its twin
// drives v->u.
func (n *testNet) addSeg(u, v int, lengthM, speedKmh float64) int {
	h := n.b.AddEdge(u, v, graph.EdgeSpec{
		Length:   lengthM,
		SpeedKmh: speedKmh,
		Class:    pkg.TERTIARY,
	})
	n.out[u] = append(n.out[u], h)
	n.in[v] = append(n.in[v], h)
	n.out[v] = append(n.out[v], h+1)
	n.in[u] = append(n.in[u], h+1)
	return h
}

func (n *testNet) build(t *testing.T) {
	t.Helper()
	source, err := n.b.Build()
	if err != nil {
		t.Fatalf("building tile set: %v", err)
	}
	reader, err := graph.NewReader(source, 16, zap.NewNop())
	if err != nil {
		t.Fatalf("building reader: %v", err)
	}
	n.reader = reader
}

// sourceLoc location at a node: one candidate per outgoing edge, at its start.
func (n *testNet) sourceLoc(node int, dateTime int64) datastructure.MatrixLocation {
	edges := make([]datastructure.CandidateEdge, 0, len(n.out[node]))
	for _, h := range n.out[node] {
		edges = append(edges, datastructure.NewCandidateEdge(n.b.EdgeId(h), 0, 0))
	}
	return datastructure.NewMatrixLocation(0, 0, dateTime, edges)
}

// targetLoc location at a node: one candidate per incoming edge, at its end.
func (n *testNet) targetLoc(node int, dateTime int64) datastructure.MatrixLocation {
	edges := make([]datastructure.CandidateEdge, 0, len(n.in[node]))
	for _, h := range n.in[node] {
		edges = append(edges, datastructure.NewCandidateEdge(n.b.EdgeId(h), 1.0, 0))
	}
	return datastructure.NewMatrixLocation(0, 0, dateTime, edges)
}

// midEdgeLoc location partway along one segment, snapping both directions.
func (n *testNet) midEdgeLoc(seg int, percent float64) datastructure.MatrixLocation {
	edges := []datastructure.CandidateEdge{
		datastructure.NewCandidateEdge(n.b.EdgeId(seg), percent, 0),
		datastructure.NewCandidateEdge(n.b.EdgeId(seg+1), 1.0-percent, 0),
	}
	return datastructure.NewMatrixLocation(0, 0, 0, edges)
}

// unit-cost segment: one second of travel at the given length
const (
	unitLength = 1000.0
	unitSpeed  = 3600.0 // km/h, 1000 m/s
)

func (n *testNet) addUnitSeg(u, v int) int {
	return n.addSeg(u, v, unitLength, unitSpeed)
}

// grid lay out a rows x cols lattice of unit segments, returning node handles
// in row-major order.
func (n *testNet) grid(rows, cols int) [][]int {
	nodes := make([][]int, rows)
	for r := 0; r < rows; r++ {
		nodes[r] = make([]int, cols)
		for c := 0; c < cols; c++ {
			nodes[r][c] = n.addNode(0.001*float64(r), 0.001*float64(c))
		}
	}
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			if c+1 < cols {
				n.addUnitSeg(nodes[r][c], nodes[r][c+1])
			}
			if r+1 < rows {
				n.addUnitSeg(nodes[r][c], nodes[r+1][c])
			}
		}
	}
	return nodes
}
