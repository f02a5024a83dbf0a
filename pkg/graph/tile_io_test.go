package graph

import (
	"testing"

	"github.com/lintang-b-s/tilematrix/pkg"
	"github.com/lintang-b-s/tilematrix/pkg/datastructure"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestTileSetWriteRead(t *testing.T) {
	b := NewTileSetBuilder(DefaultTileSizeDeg)
	a := b.AddNode(0, 0)
	c := b.AddNode(0, 0.001)
	d := b.AddNode(0.001, 0.001)
	b.AddEdge(a, c, EdgeSpec{Length: 120, SpeedKmh: 30, Class: pkg.RESIDENTIAL})
	b.AddEdge(c, d, EdgeSpec{Length: 80, SpeedKmh: 50, Class: pkg.TERTIARY, OneWay: true})

	source, err := b.Build()
	require.NoError(t, err)

	dir := t.TempDir()
	for _, key := range source.TileKeys() {
		id := datastructure.GraphId(key)
		tile, err := source.Tile(id.Level(), id.Tile())
		require.NoError(t, err)
		require.NoError(t, WriteTile(dir, tile))
	}

	disk := NewDirTileSource(dir)
	require.Equal(t, len(source.TileKeys()), len(disk.TileKeys()))

	reader, err := NewReader(disk, 8, zap.NewNop())
	require.NoError(t, err)

	for _, key := range source.TileKeys() {
		id := datastructure.GraphId(key)
		memTile, err := source.Tile(id.Level(), id.Tile())
		require.NoError(t, err)
		diskTile, err := reader.GetTile(memTile.Level(), memTile.Id())
		require.NoError(t, err)

		require.Equal(t, memTile.NodeCount(), diskTile.NodeCount())
		require.Equal(t, memTile.EdgeCount(), diskTile.EdgeCount())
		for i := 0; i < memTile.EdgeCount(); i++ {
			me, err := memTile.DirectedEdge(uint32(i))
			require.NoError(t, err)
			de, err := diskTile.DirectedEdge(uint32(i))
			require.NoError(t, err)
			require.Equal(t, me.EndNode(), de.EndNode())
			require.Equal(t, me.Length(), de.Length())
			require.Equal(t, me.Speed(), de.Speed())
			require.Equal(t, me.Classification(), de.Classification())
			require.Equal(t, me.ForwardAccess(), de.ForwardAccess())
			require.Equal(t, me.OppIndex(), de.OppIndex())
			require.Equal(t, me.Shape(), de.Shape())
		}
	}
}

func TestOpposingEdgeResolution(t *testing.T) {
	b := NewTileSetBuilder(DefaultTileSizeDeg)
	u := b.AddNode(0, 0)
	v := b.AddNode(0, 0.001)
	h := b.AddEdge(u, v, EdgeSpec{Length: 100, SpeedKmh: 30, Class: pkg.RESIDENTIAL})

	source, err := b.Build()
	require.NoError(t, err)
	reader, err := NewReader(source, 8, zap.NewNop())
	require.NoError(t, err)

	fwd := b.EdgeId(h)
	twin := b.EdgeId(h + 1)

	opp, err := reader.OpposingEdgeId(fwd)
	require.NoError(t, err)
	require.Equal(t, twin, opp)

	back, err := reader.OpposingEdgeId(opp)
	require.NoError(t, err)
	require.Equal(t, fwd, back)
}
