package spatialindex

import (
	"testing"

	"github.com/lintang-b-s/tilematrix/pkg"
	"github.com/lintang-b-s/tilematrix/pkg/graph"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNearbyEdges(t *testing.T) {
	b := graph.NewTileSetBuilder(graph.DefaultTileSizeDeg)
	// an east-west street and a parallel street ~1.1 km to the north
	a := b.AddNode(0, 0)
	c := b.AddNode(0, 0.02)
	d := b.AddNode(0.01, 0)
	e := b.AddNode(0.01, 0.02)
	near := b.AddEdge(a, c, graph.EdgeSpec{Class: pkg.RESIDENTIAL})
	far := b.AddEdge(d, e, graph.EdgeSpec{Class: pkg.RESIDENTIAL})

	source, err := b.Build()
	require.NoError(t, err)

	rt := NewRtree()
	require.NoError(t, rt.Build(source, 0.05, zap.NewNop()))

	// snap halfway along the southern street, slightly off to the side
	candidates := rt.NearbyEdges(0.0001, 0.01, 0.3, 4)
	require.NotEmpty(t, candidates)

	nearId := b.EdgeId(near)
	farId := b.EdgeId(far)
	foundNear := false
	for _, cand := range candidates {
		if cand.EdgeId() == nearId {
			foundNear = true
			require.InDelta(t, 0.5, cand.PercentAlong(), 0.01)
		}
		require.NotEqual(t, farId, cand.EdgeId())
	}
	require.True(t, foundNear)

	// nothing within reach of a point far away
	require.Empty(t, rt.NearbyEdges(5, 5, 0.3, 4))
}
