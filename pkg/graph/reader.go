package graph

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/lintang-b-s/tilematrix/pkg/datastructure"
	"github.com/lintang-b-s/tilematrix/pkg/util"
	"go.uber.org/zap"
)

// TileSource provides tiles from backing storage. The call may block; the
// engine treats it as an opaque synchronous fetch.
type TileSource interface {
	Tile(level uint8, id uint32) (*Tile, error)
	// TileKeys enumerates every tile of the set, used to build spatial
	// indexes over the whole graph.
	TileKeys() []uint64
}

// Reader resolves directed edges, nodes and opposing twins against the tiled
// graph, keeping recently used tiles in an LRU cache shared across queries.
type Reader struct {
	source TileSource
	cache  *lru.Cache[uint64, *Tile]
	log    *zap.Logger
}

func NewReader(source TileSource, cacheSize int, log *zap.Logger) (*Reader, error) {
	if cacheSize <= 0 {
		cacheSize = 256
	}
	cache, err := lru.New[uint64, *Tile](cacheSize)
	if err != nil {
		return nil, err
	}
	return &Reader{source: source, cache: cache, log: log}, nil
}

func (r *Reader) Source() TileSource {
	return r.source
}

// GetTile fetch a tile by level and id. A failed fetch is fatal to the
// running query.
func (r *Reader) GetTile(level uint8, id uint32) (*Tile, error) {
	key := datastructure.TileKeyOf(level, id)
	if tile, ok := r.cache.Get(key); ok {
		return tile, nil
	}

	tile, err := r.source.Tile(level, id)
	if err != nil {
		return nil, util.WrapErrorf(err, util.ErrGraphUnavailable,
			"fetching tile %d/%d", level, id)
	}
	r.cache.Add(key, tile)
	return tile, nil
}

func (r *Reader) tileForId(id datastructure.GraphId) (*Tile, error) {
	return r.GetTile(id.Level(), id.Tile())
}

// DirectedEdge resolve a directed edge and the tile holding it.
func (r *Reader) DirectedEdge(id datastructure.GraphId) (*DirectedEdge, *Tile, error) {
	tile, err := r.tileForId(id)
	if err != nil {
		return nil, nil, err
	}
	edge, err := tile.DirectedEdge(id.Id())
	if err != nil {
		return nil, nil, util.WrapErrorf(err, util.ErrGraphUnavailable,
			"resolving edge %d", uint64(id))
	}
	return edge, tile, nil
}

// NodeInfo resolve a node and the tile holding it.
func (r *Reader) NodeInfo(id datastructure.GraphId) (*NodeInfo, *Tile, error) {
	tile, err := r.tileForId(id)
	if err != nil {
		return nil, nil, err
	}
	node, err := tile.Node(id.Id())
	if err != nil {
		return nil, nil, util.WrapErrorf(err, util.ErrGraphUnavailable,
			"resolving node %d", uint64(id))
	}
	return node, tile, nil
}

// OpposingEdgeId resolve the reverse-direction twin of a directed edge. The
// twin lives in the edge list of the end node, at the stored opposing index.
func (r *Reader) OpposingEdgeId(id datastructure.GraphId) (datastructure.GraphId, error) {
	edge, _, err := r.DirectedEdge(id)
	if err != nil {
		return datastructure.INVALID_GRAPH_ID, err
	}
	if !edge.HasOpposing() {
		return datastructure.INVALID_GRAPH_ID, nil
	}

	endNode := edge.EndNode()
	node, endTile, err := r.NodeInfo(endNode)
	if err != nil {
		return datastructure.INVALID_GRAPH_ID, err
	}
	if edge.OppIndex() >= node.EdgeCount() {
		return datastructure.INVALID_GRAPH_ID, util.WrapErrorf(
			fmt.Errorf("opposing index %d exceeds edge count %d", edge.OppIndex(), node.EdgeCount()),
			util.ErrGraphUnavailable, "resolving opposing edge of %d", uint64(id))
	}
	return endTile.EdgeId(node.EdgeIndex() + edge.OppIndex()), nil
}

// MemTileSource in-memory tile set, used by the builder before writing and by
// tests.
type MemTileSource struct {
	tiles map[uint64]*Tile
}

func NewMemTileSource() *MemTileSource {
	return &MemTileSource{tiles: make(map[uint64]*Tile)}
}

func (m *MemTileSource) Put(tile *Tile) {
	m.tiles[datastructure.TileKeyOf(tile.Level(), tile.Id())] = tile
}

func (m *MemTileSource) Tile(level uint8, id uint32) (*Tile, error) {
	tile, ok := m.tiles[datastructure.TileKeyOf(level, id)]
	if !ok {
		return nil, fmt.Errorf("tile %d/%d not in tile set", level, id)
	}
	return tile, nil
}

func (m *MemTileSource) TileKeys() []uint64 {
	keys := make([]uint64, 0, len(m.tiles))
	for k := range m.tiles {
		keys = append(keys, k)
	}
	return keys
}
