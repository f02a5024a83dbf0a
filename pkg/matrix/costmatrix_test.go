package matrix

import (
	"context"
	"testing"

	"github.com/lintang-b-s/tilematrix/pkg"
	"github.com/lintang-b-s/tilematrix/pkg/costing"
	"github.com/lintang-b-s/tilematrix/pkg/datastructure"
	"github.com/lintang-b-s/tilematrix/pkg/graph"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testMaxDistance = 400000.0

func newTestEngine(net *testNet, cfg Config) *CostMatrix {
	return NewCostMatrix(net.reader, costing.NewAutoCost(), cfg, zap.NewNop())
}

func TestSelfPair(t *testing.T) {
	net := newTestNet()
	a := net.addNode(0, 0)
	b := net.addNode(0, 0.01)
	seg := net.addUnitSeg(a, b)
	net.build(t)

	loc := net.midEdgeLoc(seg, 0.5)

	engine := newTestEngine(net, DefaultConfig())
	result, err := engine.SourceToTarget(context.Background(),
		[]datastructure.MatrixLocation{loc}, []datastructure.MatrixLocation{loc},
		testMaxDistance, false, false)
	require.NoError(t, err)

	cell := result.Cell(0, 0)
	require.True(t, cell.Found)
	require.Equal(t, 0.0, cell.Cost)
	require.Equal(t, 0.0, cell.Time)
	require.Equal(t, 0.0, cell.Distance)
}

func TestDisconnected(t *testing.T) {
	net := newTestNet()
	a := net.addNode(0, 0)
	b := net.addNode(0, 0.01)
	c := net.addNode(0.05, 0)
	d := net.addNode(0.05, 0.01)
	net.addUnitSeg(a, b)
	net.addUnitSeg(c, d)
	net.build(t)

	engine := newTestEngine(net, DefaultConfig())
	result, err := engine.SourceToTarget(context.Background(),
		[]datastructure.MatrixLocation{net.sourceLoc(a, 0)},
		[]datastructure.MatrixLocation{net.targetLoc(c, 0)},
		testMaxDistance, false, false)
	require.NoError(t, err)

	cell := result.Cell(0, 0)
	require.False(t, cell.Found)
	require.Equal(t, 0.0, cell.Cost)
	require.Equal(t, 0.0, cell.Distance)
}

func TestTwoSourceTwoTargetSquare(t *testing.T) {
	net := newTestNet()
	nw := net.addNode(0.001, 0)
	ne := net.addNode(0.001, 0.001)
	sw := net.addNode(0, 0)
	se := net.addNode(0, 0.001)
	net.addUnitSeg(nw, ne)
	net.addUnitSeg(nw, sw)
	net.addUnitSeg(ne, se)
	net.addUnitSeg(sw, se)
	net.build(t)

	sources := []datastructure.MatrixLocation{net.sourceLoc(nw, 0), net.sourceLoc(ne, 0)}
	targets := []datastructure.MatrixLocation{net.targetLoc(sw, 0), net.targetLoc(se, 0)}

	engine := newTestEngine(net, DefaultConfig())
	result, err := engine.SourceToTarget(context.Background(), sources, targets,
		testMaxDistance, false, false)
	require.NoError(t, err)

	expected := [][]float64{{1, 2}, {2, 1}}
	for s := 0; s < 2; s++ {
		for tt := 0; tt < 2; tt++ {
			cell := result.Cell(s, tt)
			require.True(t, cell.Found, "pair (%d,%d)", s, tt)
			require.InDelta(t, expected[s][tt], cell.Cost, 1e-9, "pair (%d,%d)", s, tt)
			require.InDelta(t, expected[s][tt]*unitLength, cell.Distance, 1e-9)
		}
	}

	// four per-location searches over eight directed edges: no edge may be
	// settled twice within one search
	require.LessOrEqual(t, engine.SettledCount(), 4*8)
}

func TestThresholdCutoff(t *testing.T) {
	net := newTestNet()
	nodes := make([]int, 11)
	for i := range nodes {
		nodes[i] = net.addNode(0, 0.001*float64(i))
	}
	for i := 0; i+1 < len(nodes); i++ {
		net.addUnitSeg(nodes[i], nodes[i+1])
	}
	net.build(t)

	engine := newTestEngine(net, DefaultConfig())
	// a 56 m cap derives a one second cost ceiling, far below the ten
	// second path
	result, err := engine.SourceToTarget(context.Background(),
		[]datastructure.MatrixLocation{net.sourceLoc(nodes[0], 0)},
		[]datastructure.MatrixLocation{net.targetLoc(nodes[10], 0)},
		56.0, false, false)
	require.NoError(t, err)

	require.False(t, result.Cell(0, 0).Found)
	require.Less(t, engine.SettledCount(), 16, "pops must stay bounded by the cost ceiling")
}

func TestCancellation(t *testing.T) {
	net := newTestNet()
	net.grid(4, 4)
	net.build(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	engine := newTestEngine(net, DefaultConfig())
	result, err := engine.SourceToTarget(ctx,
		[]datastructure.MatrixLocation{net.sourceLoc(0, 0)},
		[]datastructure.MatrixLocation{net.targetLoc(1, 0)},
		testMaxDistance, false, false)
	require.NoError(t, err)
	require.True(t, result.Cancelled)
}

func TestInvalidLocationRow(t *testing.T) {
	net := newTestNet()
	a := net.addNode(0, 0)
	b := net.addNode(0, 0.001)
	net.addUnitSeg(a, b)
	net.build(t)

	noCandidates := datastructure.NewMatrixLocation(10, 10, 0, nil)

	engine := newTestEngine(net, DefaultConfig())
	result, err := engine.SourceToTarget(context.Background(),
		[]datastructure.MatrixLocation{noCandidates, net.sourceLoc(a, 0)},
		[]datastructure.MatrixLocation{net.targetLoc(b, 0)},
		testMaxDistance, false, false)
	require.NoError(t, err)

	require.False(t, result.Cell(0, 0).Found)
	require.True(t, result.Cell(1, 0).Found)
}

func TestTimeVariantRecosting(t *testing.T) {
	// three edges of fifty seconds each; speed halves from second 100 of the
	// day, so the last edge doubles when recosted with real timestamps
	net := newTestNet()
	nodes := make([]int, 4)
	for i := range nodes {
		nodes[i] = net.addNode(0, 0.001*float64(i))
	}
	for i := 0; i+1 < len(nodes); i++ {
		net.addSeg(nodes[i], nodes[i+1], 500, 36) // 10 m/s -> 50 s
	}
	net.build(t)

	cost := costing.NewAutoCost(costing.WithSpeedFunc(
		func(edge *graph.DirectedEdge, secondsOfDay float64) float64 {
			if secondsOfDay >= 100 {
				return 0.5
			}
			return 1.0
		}))

	depart := int64(pkg.SECONDS_PER_DAY) // midnight, second zero of the day
	sources := []datastructure.MatrixLocation{net.sourceLoc(nodes[0], depart)}
	targets := []datastructure.MatrixLocation{net.targetLoc(nodes[3], depart)}

	engine := NewCostMatrix(net.reader, cost, DefaultConfig(), zap.NewNop())
	result, err := engine.SourceToTarget(context.Background(), sources, targets,
		testMaxDistance, true, false)
	require.NoError(t, err)

	cell := result.Cell(0, 0)
	require.True(t, cell.Found)
	// 50 + 50 + 100: the third edge starts at second 100 at half speed
	require.InDelta(t, 200.0, cell.Time, 1e-9)
	require.Equal(t, depart, cell.BeginTime)
	require.Equal(t, depart+200, cell.EndTime)

	// with invariant time the snapshot costs are kept
	engine = NewCostMatrix(net.reader, cost, DefaultConfig(), zap.NewNop())
	result, err = engine.SourceToTarget(context.Background(), sources, targets,
		testMaxDistance, true, true)
	require.NoError(t, err)
	require.InDelta(t, 150.0, result.Cell(0, 0).Time, 1e-9)
}

// exhaustiveConfig raise the pair meeting threshold so searches keep running
// after the first meeting, guaranteeing globally optimal connections on the
// small test graphs.
func exhaustiveConfig() Config {
	cfg := DefaultConfig()
	cfg.PairMeetingThreshold = 5000
	return cfg
}

func TestOptimalityAgainstOneToOne(t *testing.T) {
	net := newTestNet()
	nodes := net.grid(5, 5)
	// vary the texture with a few slower cross streets
	net.addSeg(nodes[0][0], nodes[1][1], 1000, 1800) // 2 s diagonal
	net.addSeg(nodes[3][3], nodes[4][4], 1000, 1800)
	net.build(t)

	sources := make([]datastructure.MatrixLocation, 0, 5)
	targets := make([]datastructure.MatrixLocation, 0, 5)
	for c := 0; c < 5; c++ {
		sources = append(sources, net.sourceLoc(nodes[0][c], 0))
		targets = append(targets, net.targetLoc(nodes[4][c], 0))
	}

	engine := newTestEngine(net, exhaustiveConfig())
	result, err := engine.SourceToTarget(context.Background(), sources, targets,
		testMaxDistance, false, false)
	require.NoError(t, err)

	oracle := NewOneToOne(net.reader, costing.NewAutoCost())
	for s := range sources {
		for tt := range targets {
			single, err := oracle.Search(sources[s], targets[tt], testMaxDistance)
			require.NoError(t, err)
			cell := result.Cell(s, tt)
			require.Equal(t, single.Found, cell.Found, "pair (%d,%d)", s, tt)
			if single.Found {
				require.InDelta(t, single.Cost.Cost, cell.Cost, 1e-9, "pair (%d,%d)", s, tt)
			}
		}
	}
}

func TestManyToManyReuse(t *testing.T) {
	net := newTestNet()
	nodes := net.grid(10, 10)
	net.build(t)

	sources := make([]datastructure.MatrixLocation, 0, 10)
	targets := make([]datastructure.MatrixLocation, 0, 10)
	for c := 0; c < 10; c++ {
		sources = append(sources, net.sourceLoc(nodes[0][c], 0))
		targets = append(targets, net.targetLoc(nodes[9][c], 0))
	}

	engine := newTestEngine(net, DefaultConfig())
	result, err := engine.SourceToTarget(context.Background(), sources, targets,
		testMaxDistance, false, false)
	require.NoError(t, err)
	for s := 0; s < 10; s++ {
		for tt := 0; tt < 10; tt++ {
			require.True(t, result.Cell(s, tt).Found)
		}
	}
	matrixLabels := engine.LabelCount()

	oracle := NewOneToOne(net.reader, costing.NewAutoCost())
	independentLabels := 0
	for s := range sources {
		for tt := range targets {
			single, err := oracle.Search(sources[s], targets[tt], testMaxDistance)
			require.NoError(t, err)
			require.True(t, single.Found)
			independentLabels += single.Labels
		}
	}

	require.Less(t, matrixLabels, independentLabels,
		"the shared search must expand less than the independent pair queries")
}

func TestIdempotence(t *testing.T) {
	net := newTestNet()
	nodes := net.grid(4, 4)
	net.build(t)

	sources := []datastructure.MatrixLocation{net.sourceLoc(nodes[0][0], 0), net.sourceLoc(nodes[0][3], 0)}
	targets := []datastructure.MatrixLocation{net.targetLoc(nodes[3][0], 0), net.targetLoc(nodes[3][3], 0)}

	run := func() *datastructure.MatrixResult {
		engine := newTestEngine(net, DefaultConfig())
		result, err := engine.SourceToTarget(context.Background(), sources, targets,
			testMaxDistance, false, false)
		require.NoError(t, err)
		return result
	}

	first := run()
	second := run()
	require.Equal(t, first.Cells, second.Cells)
}

func TestMonotonicityInMaxDistance(t *testing.T) {
	net := newTestNet()
	nodes := net.grid(4, 4)
	net.build(t)

	sources := []datastructure.MatrixLocation{net.sourceLoc(nodes[0][0], 0)}
	targets := []datastructure.MatrixLocation{net.targetLoc(nodes[3][3], 0)}

	run := func(maxDistance float64) *datastructure.MatrixCell {
		engine := newTestEngine(net, DefaultConfig())
		result, err := engine.SourceToTarget(context.Background(), sources, targets,
			maxDistance, false, false)
		require.NoError(t, err)
		return result.Cell(0, 0)
	}

	small := run(1000.0)
	large := run(testMaxDistance)
	require.True(t, large.Found)
	if small.Found {
		require.GreaterOrEqual(t, small.Cost, large.Cost)
	}
}
