package graph

import (
	"fmt"
	"math"

	"github.com/lintang-b-s/tilematrix/pkg"
	"github.com/lintang-b-s/tilematrix/pkg/datastructure"
	"github.com/lintang-b-s/tilematrix/pkg/geo"
)

// DefaultTileSizeDeg edge length of a tile cell in degrees.
const DefaultTileSizeDeg = 0.25

// TileIdOf grid tile id of a coordinate for the given cell size.
func TileIdOf(lat, lon, tileSizeDeg float64) uint32 {
	cols := uint32(math.Ceil(360.0 / tileSizeDeg))
	col := uint32(math.Floor((lon + 180.0) / tileSizeDeg))
	row := uint32(math.Floor((lat + 90.0) / tileSizeDeg))
	return row*cols + col
}

// EdgeSpec attributes of one road segment handed to the builder. A zero
// Length is replaced with the haversine length of the segment. A zero Access
// means all modes.
type EdgeSpec struct {
	Length   float64
	SpeedKmh float64
	Class    pkg.RoadClass
	OneWay   bool
	NotThru  bool
	Access   uint32
}

type builderNode struct {
	lat, lon float64
	tileId   uint32
	// assigned during Build
	graphId datastructure.GraphId
	edges   []int // indices into TileSetBuilder.edges, outgoing
}

type builderEdge struct {
	from, to int
	spec     EdgeSpec
	twin     int
	// assigned during Build
	indexInNode uint32
}

// TileSetBuilder assembles an in-memory tile set from nodes and segments.
// Every segment becomes a pair of opposing directed edges; a one-way keeps
// the twin with no forward access so opposing lookups stay total.
type TileSetBuilder struct {
	tileSizeDeg float64
	level       uint8

	nodes []builderNode
	edges []builderEdge
}

func NewTileSetBuilder(tileSizeDeg float64) *TileSetBuilder {
	if tileSizeDeg <= 0 {
		tileSizeDeg = DefaultTileSizeDeg
	}
	return &TileSetBuilder{tileSizeDeg: tileSizeDeg, level: 0}
}

// AddNode register a node, returning its builder handle.
func (b *TileSetBuilder) AddNode(lat, lon float64) int {
	b.nodes = append(b.nodes, builderNode{
		lat:    lat,
		lon:    lon,
		tileId: TileIdOf(lat, lon, b.tileSizeDeg),
	})
	return len(b.nodes) - 1
}

// AddEdge register a segment between two node handles. Returns the handle of
// the forward directed edge.
func (b *TileSetBuilder) AddEdge(from, to int, spec EdgeSpec) int {
	if spec.Access == 0 {
		spec.Access = pkg.ALL_ACCESS
	}
	if spec.Length == 0 {
		spec.Length = geo.CalculateHaversineDistance(
			b.nodes[from].lat, b.nodes[from].lon,
			b.nodes[to].lat, b.nodes[to].lon) * 1000.0
	}
	if spec.SpeedKmh == 0 {
		spec.SpeedKmh = spec.Class.DefaultSpeedKmh()
	}

	fwd := len(b.edges)
	twin := fwd + 1

	b.edges = append(b.edges, builderEdge{from: from, to: to, spec: spec, twin: twin})

	twinSpec := spec
	b.edges = append(b.edges, builderEdge{from: to, to: from, spec: twinSpec, twin: fwd})

	b.nodes[from].edges = append(b.nodes[from].edges, fwd)
	b.nodes[to].edges = append(b.nodes[to].edges, twin)

	return fwd
}

// Build lay the registered nodes and edges out into immutable tiles.
func (b *TileSetBuilder) Build() (*MemTileSource, error) {
	// group nodes per tile in insertion order
	tileNodes := make(map[uint32][]int)
	tileOrder := make([]uint32, 0)
	for i := range b.nodes {
		tid := b.nodes[i].tileId
		if _, ok := tileNodes[tid]; !ok {
			tileOrder = append(tileOrder, tid)
		}
		tileNodes[tid] = append(tileNodes[tid], i)
	}

	// assign node ids and per-node edge ordinals
	for _, tid := range tileOrder {
		for idx, n := range tileNodes[tid] {
			b.nodes[n].graphId = datastructure.NewGraphId(b.level, tid, uint32(idx))
		}
	}
	for i := range b.nodes {
		for ord, e := range b.nodes[i].edges {
			b.edges[e].indexInNode = uint32(ord)
		}
	}

	source := NewMemTileSource()
	for _, tid := range tileOrder {
		nodes := make([]NodeInfo, 0, len(tileNodes[tid]))
		edges := make([]DirectedEdge, 0)

		for _, n := range tileNodes[tid] {
			bn := &b.nodes[n]
			edgeIndex := uint32(len(edges))
			for _, e := range bn.edges {
				be := &b.edges[e]
				access := be.spec.Access
				forwardAccess := access
				reverseAccess := access
				// a one-way segment keeps forward access only on the
				// direction it was registered with
				if be.spec.OneWay {
					if isTwinOfRegistered(b, e) {
						forwardAccess = 0
					} else {
						reverseAccess = 0
					}
				}

				toNode := &b.nodes[be.to]
				deadend := len(toNode.edges) == 1

				shape := []geo.Coordinate{
					geo.NewCoordinate(bn.lat, bn.lon),
					geo.NewCoordinate(toNode.lat, toNode.lon),
				}

				edges = append(edges, NewDirectedEdge(
					toNode.graphId,
					be.spec.Length,
					be.spec.SpeedKmh,
					be.spec.Class,
					forwardAccess,
					reverseAccess,
					be.spec.NotThru,
					deadend,
					b.edges[be.twin].indexInNode,
					shape,
				))
			}
			nodes = append(nodes, NewNodeInfo(bn.lat, bn.lon, edgeIndex, uint32(len(bn.edges))))
		}

		source.Put(NewTile(b.level, tid, nodes, edges))
	}

	if len(tileOrder) == 0 {
		return nil, fmt.Errorf("tile set builder has no nodes")
	}
	return source, nil
}

// NodeId graph id of a node handle, valid after Build.
func (b *TileSetBuilder) NodeId(handle int) datastructure.GraphId {
	return b.nodes[handle].graphId
}

// EdgeId graph id of an edge handle, valid after Build.
func (b *TileSetBuilder) EdgeId(handle int) datastructure.GraphId {
	be := &b.edges[handle]
	from := &b.nodes[be.from]
	tile := from.tileId
	// ordinal of the edge within the tile: edges of preceding nodes of the
	// same tile plus the ordinal within its node
	base := uint32(0)
	for _, n := range nodesOfTileBefore(b, tile, be.from) {
		base += uint32(len(b.nodes[n].edges))
	}
	return datastructure.NewGraphId(b.level, tile, base+be.indexInNode)
}

func nodesOfTileBefore(b *TileSetBuilder, tile uint32, node int) []int {
	before := make([]int, 0)
	for i := range b.nodes {
		if b.nodes[i].tileId != tile {
			continue
		}
		if i == node {
			break
		}
		before = append(before, i)
	}
	return before
}

// registered direction twins are appended in pairs: the even handle is the
// direction AddEdge was called with.
func isTwinOfRegistered(b *TileSetBuilder, e int) bool {
	return e%2 == 1
}
