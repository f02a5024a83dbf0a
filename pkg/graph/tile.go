package graph

import (
	"fmt"

	"github.com/lintang-b-s/tilematrix/pkg"
	"github.com/lintang-b-s/tilematrix/pkg/datastructure"
	"github.com/lintang-b-s/tilematrix/pkg/geo"
)

// DirectedEdge is one directed edge of a tile. Every drivable segment is
// stored as a pair of opposing directed edges; the opposing twin is reached
// through the end node's edge list at OppIndex.
type DirectedEdge struct {
	endNode datastructure.GraphId

	length float64 // meter
	speed  float64 // km/h

	classification pkg.RoadClass
	forwardAccess  uint32
	reverseAccess  uint32

	notThru bool
	deadend bool

	oppIndex uint32

	shape []geo.Coordinate
}

func NewDirectedEdge(endNode datastructure.GraphId, length, speed float64,
	classification pkg.RoadClass, forwardAccess, reverseAccess uint32,
	notThru, deadend bool, oppIndex uint32, shape []geo.Coordinate) DirectedEdge {
	return DirectedEdge{
		endNode:        endNode,
		length:         length,
		speed:          speed,
		classification: classification,
		forwardAccess:  forwardAccess,
		reverseAccess:  reverseAccess,
		notThru:        notThru,
		deadend:        deadend,
		oppIndex:       oppIndex,
		shape:          shape,
	}
}

func (e *DirectedEdge) EndNode() datastructure.GraphId {
	return e.endNode
}

func (e *DirectedEdge) Length() float64 {
	return e.length
}

func (e *DirectedEdge) Speed() float64 {
	return e.speed
}

func (e *DirectedEdge) Classification() pkg.RoadClass {
	return e.classification
}

// HierarchyLevel level of the edge in the three-level road hierarchy.
func (e *DirectedEdge) HierarchyLevel() uint8 {
	return e.classification.HierarchyLevel()
}

func (e *DirectedEdge) ForwardAccess() uint32 {
	return e.forwardAccess
}

func (e *DirectedEdge) ReverseAccess() uint32 {
	return e.reverseAccess
}

func (e *DirectedEdge) NotThru() bool {
	return e.notThru
}

func (e *DirectedEdge) Deadend() bool {
	return e.deadend
}

func (e *DirectedEdge) OppIndex() uint32 {
	return e.oppIndex
}

func (e *DirectedEdge) HasOpposing() bool {
	return e.oppIndex != ^uint32(0)
}

func (e *DirectedEdge) Shape() []geo.Coordinate {
	return e.shape
}

// NodeInfo is one graph node (intersection) of a tile. Its outgoing directed
// edges are the contiguous range [edgeIndex, edgeIndex+edgeCount) of the
// tile's edge array.
type NodeInfo struct {
	lat, lon  float64
	edgeIndex uint32
	edgeCount uint32
}

func NewNodeInfo(lat, lon float64, edgeIndex, edgeCount uint32) NodeInfo {
	return NodeInfo{lat: lat, lon: lon, edgeIndex: edgeIndex, edgeCount: edgeCount}
}

func (n *NodeInfo) Lat() float64 {
	return n.lat
}

func (n *NodeInfo) Lon() float64 {
	return n.lon
}

func (n *NodeInfo) EdgeIndex() uint32 {
	return n.edgeIndex
}

func (n *NodeInfo) EdgeCount() uint32 {
	return n.edgeCount
}

// Tile is one immutable storage unit of the partitioned road graph. The
// engine never mutates tile contents.
type Tile struct {
	id    uint32
	level uint8

	nodes []NodeInfo
	edges []DirectedEdge
}

func NewTile(level uint8, id uint32, nodes []NodeInfo, edges []DirectedEdge) *Tile {
	return &Tile{id: id, level: level, nodes: nodes, edges: edges}
}

func (t *Tile) Id() uint32 {
	return t.id
}

func (t *Tile) Level() uint8 {
	return t.level
}

func (t *Tile) NodeCount() int {
	return len(t.nodes)
}

func (t *Tile) EdgeCount() int {
	return len(t.edges)
}

func (t *Tile) Node(idx uint32) (*NodeInfo, error) {
	if int(idx) >= len(t.nodes) {
		return nil, fmt.Errorf("node index %d out of range in tile %d/%d", idx, t.level, t.id)
	}
	return &t.nodes[idx], nil
}

func (t *Tile) DirectedEdge(idx uint32) (*DirectedEdge, error) {
	if int(idx) >= len(t.edges) {
		return nil, fmt.Errorf("edge index %d out of range in tile %d/%d", idx, t.level, t.id)
	}
	return &t.edges[idx], nil
}

// EdgeId builds the GraphId of the idx-th directed edge of this tile.
func (t *Tile) EdgeId(idx uint32) datastructure.GraphId {
	return datastructure.NewGraphId(t.level, t.id, idx)
}

// NodeId builds the GraphId of the idx-th node of this tile.
func (t *Tile) NodeId(idx uint32) datastructure.GraphId {
	return datastructure.NewGraphId(t.level, t.id, idx)
}
