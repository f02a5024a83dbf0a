package datastructure

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGraphIdPacking(t *testing.T) {
	testCases := []struct {
		name  string
		level uint8
		tile  uint32
		index uint32
	}{
		{name: "zero", level: 0, tile: 0, index: 0},
		{name: "local tile", level: 2, tile: 1036800, index: 421},
		{name: "max tile bits", level: 1, tile: (1 << 22) - 1, index: 99},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			id := NewGraphId(tt.level, tt.tile, tt.index)
			require.Equal(t, tt.level, id.Level())
			require.Equal(t, tt.tile, id.Tile())
			require.Equal(t, tt.index, id.Id())
			require.True(t, id.IsValid())
		})
	}
}

func TestGraphIdTileKey(t *testing.T) {
	a := NewGraphId(2, 77, 0)
	b := NewGraphId(2, 77, 12345)
	require.Equal(t, a.TileKey(), b.TileKey())
	require.Equal(t, TileKeyOf(2, 77), a.TileKey())
	require.NotEqual(t, TileKeyOf(1, 77), a.TileKey())

	require.False(t, INVALID_GRAPH_ID.IsValid())
}
