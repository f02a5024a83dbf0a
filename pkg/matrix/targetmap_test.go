package matrix

import (
	"testing"

	"github.com/lintang-b-s/tilematrix/pkg/datastructure"
	"github.com/stretchr/testify/require"
)

func TestTargetMapLookup(t *testing.T) {
	tm := newTargetMap()
	e1 := datastructure.NewGraphId(0, 1, 7)
	e2 := datastructure.NewGraphId(0, 1, 8)

	require.Empty(t, tm.lookup(e1))

	tm.insert(e1, 0, 10)
	tm.insert(e1, 3, 22)
	tm.insert(e2, 1, 4)

	entries := tm.lookup(e1)
	require.Len(t, entries, 2)
	require.Equal(t, 0, entries[0].target)
	require.Equal(t, datastructure.Index(10), entries[0].labelIdx)
	require.Equal(t, 3, entries[1].target)

	require.Len(t, tm.lookup(e2), 1)
	require.Equal(t, 2, tm.size())
}
