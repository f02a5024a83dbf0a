package matrix

import (
	"github.com/lintang-b-s/tilematrix/pkg/datastructure"
	"github.com/lintang-b-s/tilematrix/pkg/graph"
)

// GraphReader is the tile lookup surface the engine consumes. Tiles are
// immutable snapshots; only the reader may block, when fetching a tile from
// backing storage.
type GraphReader interface {
	GetTile(level uint8, id uint32) (*graph.Tile, error)
	DirectedEdge(id datastructure.GraphId) (*graph.DirectedEdge, *graph.Tile, error)
	NodeInfo(id datastructure.GraphId) (*graph.NodeInfo, *graph.Tile, error)
	OpposingEdgeId(id datastructure.GraphId) (datastructure.GraphId, error)
}
