package costing

import (
	"testing"

	"github.com/lintang-b-s/tilematrix/pkg"
	"github.com/lintang-b-s/tilematrix/pkg/datastructure"
	"github.com/lintang-b-s/tilematrix/pkg/graph"
	"github.com/stretchr/testify/require"
)

func testEdge(lengthM, speedKmh float64, access uint32) *graph.DirectedEdge {
	e := graph.NewDirectedEdge(datastructure.NewGraphId(0, 0, 0), lengthM, speedKmh,
		pkg.TERTIARY, access, access, false, false, 0, nil)
	return &e
}

func TestAutoEdgeCost(t *testing.T) {
	c := NewAutoCost()
	e := testEdge(1000, 36, pkg.ALL_ACCESS) // 10 m/s

	cost := c.EdgeCost(e, nil, -1)
	require.InDelta(t, 100.0, cost.Secs, 1e-9)
	require.InDelta(t, 100.0, cost.Cost, 1e-9)
	require.True(t, cost.Valid())

	require.Equal(t, cost, c.EdgeCostReverse(e, nil, -1))
}

func TestAutoAccess(t *testing.T) {
	c := NewAutoCost()
	require.True(t, c.Allowed(testEdge(100, 30, pkg.ALL_ACCESS), nil, nil, -1))
	require.False(t, c.Allowed(testEdge(100, 30, pkg.PEDESTRIAN_ACCESS), nil, nil, -1))
}

func TestSpeedFuncOnlyAppliesWithTime(t *testing.T) {
	c := NewAutoCost(WithSpeedFunc(func(_ *graph.DirectedEdge, secondsOfDay float64) float64 {
		if secondsOfDay >= 100 {
			return 0.5
		}
		return 1.0
	}))
	e := testEdge(1000, 36, pkg.ALL_ACCESS)

	require.InDelta(t, 100.0, c.EdgeCost(e, nil, -1).Secs, 1e-9)
	require.InDelta(t, 100.0, c.EdgeCost(e, nil, 50).Secs, 1e-9)
	require.InDelta(t, 200.0, c.EdgeCost(e, nil, 150).Secs, 1e-9)
	// the second of the day wraps at midnight
	require.InDelta(t, 100.0, c.EdgeCost(e, nil, int64(pkg.SECONDS_PER_DAY)).Secs, 1e-9)
}

func TestModeFromName(t *testing.T) {
	testCases := []struct {
		name    string
		mode    pkg.TravelMode
		wantErr bool
	}{
		{name: "", mode: pkg.TRAVEL_MODE_AUTO},
		{name: "auto", mode: pkg.TRAVEL_MODE_AUTO},
		{name: "bicycle", mode: pkg.TRAVEL_MODE_BICYCLE},
		{name: "pedestrian", mode: pkg.TRAVEL_MODE_PEDESTRIAN},
		{name: "hovercraft", wantErr: true},
	}
	for _, tt := range testCases {
		mode, err := ModeFromName(tt.name)
		if tt.wantErr {
			require.Error(t, err)
			continue
		}
		require.NoError(t, err)
		require.Equal(t, tt.mode, mode)
	}
}

func TestBicycleCapsEdgeSpeed(t *testing.T) {
	c := NewBicycleCost()
	fast := testEdge(1000, 100, pkg.ALL_ACCESS)
	slow := testEdge(1000, 10, pkg.ALL_ACCESS)

	// capped at the cycling speed on fast roads
	require.InDelta(t, 1000/(defaultCyclingSpeedKmh/3.6), c.EdgeCost(fast, nil, -1).Secs, 1e-9)
	// the edge speed wins when it is slower
	require.InDelta(t, 1000/(10.0/3.6), c.EdgeCost(slow, nil, -1).Secs, 1e-9)
}

func TestHierarchyLimitsIndependentCopies(t *testing.T) {
	c := NewAutoCost()
	a := c.HierarchyLimits()
	b := c.HierarchyLimits()
	a[2].Increment()
	require.Equal(t, uint32(0), b[2].Expansions())
	require.Len(t, a, pkg.NUM_HIERARCHY_LEVELS)
}
