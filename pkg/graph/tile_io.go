package graph

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/dsnet/compress/bzip2"
	"github.com/lintang-b-s/tilematrix/pkg"
	"github.com/lintang-b-s/tilematrix/pkg/datastructure"
	"github.com/lintang-b-s/tilematrix/pkg/geo"
)

const tileMagic = uint32(0x544d5431) // "TMT1"

// TileFileName file name of a tile within the tile set directory.
func TileFileName(level uint8, id uint32) string {
	return fmt.Sprintf("%d_%d.tile", level, id)
}

// WriteTile serialize one tile, bzip2 compressed, to the tile set directory.
func WriteTile(dir string, tile *Tile) error {
	f, err := os.Create(filepath.Join(dir, TileFileName(tile.Level(), tile.Id())))
	if err != nil {
		return err
	}
	defer f.Close()

	bz, err := bzip2.NewWriter(f, &bzip2.WriterConfig{})
	if err != nil {
		return err
	}
	defer bz.Close()

	w := bufio.NewWriter(bz)
	defer w.Flush()

	writeU32 := func(v uint32) error { return binary.Write(w, binary.LittleEndian, v) }
	writeU64 := func(v uint64) error { return binary.Write(w, binary.LittleEndian, v) }
	writeF64 := func(v float64) error { return binary.Write(w, binary.LittleEndian, math.Float64bits(v)) }

	if err := writeU32(tileMagic); err != nil {
		return err
	}
	if err := w.WriteByte(tile.Level()); err != nil {
		return err
	}
	if err := writeU32(tile.Id()); err != nil {
		return err
	}
	if err := writeU32(uint32(tile.NodeCount())); err != nil {
		return err
	}
	if err := writeU32(uint32(tile.EdgeCount())); err != nil {
		return err
	}

	for i := 0; i < tile.NodeCount(); i++ {
		n := &tile.nodes[i]
		if err := writeF64(n.lat); err != nil {
			return err
		}
		if err := writeF64(n.lon); err != nil {
			return err
		}
		if err := writeU32(n.edgeIndex); err != nil {
			return err
		}
		if err := writeU32(n.edgeCount); err != nil {
			return err
		}
	}

	for i := 0; i < tile.EdgeCount(); i++ {
		e := &tile.edges[i]
		if err := writeU64(uint64(e.endNode)); err != nil {
			return err
		}
		if err := writeF64(e.length); err != nil {
			return err
		}
		if err := writeF64(e.speed); err != nil {
			return err
		}
		flags := uint8(0)
		if e.notThru {
			flags |= 1
		}
		if e.deadend {
			flags |= 2
		}
		if err := w.WriteByte(uint8(e.classification)); err != nil {
			return err
		}
		if err := w.WriteByte(flags); err != nil {
			return err
		}
		if err := writeU32(e.forwardAccess); err != nil {
			return err
		}
		if err := writeU32(e.reverseAccess); err != nil {
			return err
		}
		if err := writeU32(e.oppIndex); err != nil {
			return err
		}
		if err := writeU32(uint32(len(e.shape))); err != nil {
			return err
		}
		for _, c := range e.shape {
			if err := writeF64(c.Lat); err != nil {
				return err
			}
			if err := writeF64(c.Lon); err != nil {
				return err
			}
		}
	}

	return nil
}

// ReadTile deserialize one tile file.
func ReadTile(path string) (*Tile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	bz, err := bzip2.NewReader(f, nil)
	if err != nil {
		return nil, err
	}
	defer bz.Close()

	r := bufio.NewReader(bz)

	readU32 := func() (uint32, error) {
		var v uint32
		err := binary.Read(r, binary.LittleEndian, &v)
		return v, err
	}
	readU64 := func() (uint64, error) {
		var v uint64
		err := binary.Read(r, binary.LittleEndian, &v)
		return v, err
	}
	readF64 := func() (float64, error) {
		var v uint64
		err := binary.Read(r, binary.LittleEndian, &v)
		return math.Float64frombits(v), err
	}

	magic, err := readU32()
	if err != nil {
		return nil, err
	}
	if magic != tileMagic {
		return nil, fmt.Errorf("%s is not a tile file", path)
	}

	level, err := r.ReadByte()
	if err != nil {
		return nil, err
	}
	id, err := readU32()
	if err != nil {
		return nil, err
	}
	nodeCount, err := readU32()
	if err != nil {
		return nil, err
	}
	edgeCount, err := readU32()
	if err != nil {
		return nil, err
	}

	nodes := make([]NodeInfo, nodeCount)
	for i := range nodes {
		lat, err := readF64()
		if err != nil {
			return nil, err
		}
		lon, err := readF64()
		if err != nil {
			return nil, err
		}
		edgeIndex, err := readU32()
		if err != nil {
			return nil, err
		}
		ec, err := readU32()
		if err != nil {
			return nil, err
		}
		nodes[i] = NewNodeInfo(lat, lon, edgeIndex, ec)
	}

	edges := make([]DirectedEdge, edgeCount)
	for i := range edges {
		endNode, err := readU64()
		if err != nil {
			return nil, err
		}
		length, err := readF64()
		if err != nil {
			return nil, err
		}
		speed, err := readF64()
		if err != nil {
			return nil, err
		}
		classification, err := r.ReadByte()
		if err != nil {
			return nil, err
		}
		flags, err := r.ReadByte()
		if err != nil {
			return nil, err
		}
		forwardAccess, err := readU32()
		if err != nil {
			return nil, err
		}
		reverseAccess, err := readU32()
		if err != nil {
			return nil, err
		}
		oppIndex, err := readU32()
		if err != nil {
			return nil, err
		}
		shapeCount, err := readU32()
		if err != nil {
			return nil, err
		}
		shape := make([]geo.Coordinate, shapeCount)
		for j := range shape {
			lat, err := readF64()
			if err != nil {
				return nil, err
			}
			lon, err := readF64()
			if err != nil {
				return nil, err
			}
			shape[j] = geo.NewCoordinate(lat, lon)
		}

		edges[i] = NewDirectedEdge(datastructure.GraphId(endNode), length, speed,
			pkg.RoadClass(classification), forwardAccess, reverseAccess,
			flags&1 != 0, flags&2 != 0, oppIndex, shape)
	}

	return NewTile(level, id, nodes, edges), nil
}

// DirTileSource reads tiles lazily from a tile set directory written by the
// builder.
type DirTileSource struct {
	dir string
}

func NewDirTileSource(dir string) *DirTileSource {
	return &DirTileSource{dir: dir}
}

func (d *DirTileSource) Tile(level uint8, id uint32) (*Tile, error) {
	return ReadTile(filepath.Join(d.dir, TileFileName(level, id)))
}

func (d *DirTileSource) TileKeys() []uint64 {
	entries, err := os.ReadDir(d.dir)
	if err != nil {
		return nil
	}
	keys := make([]uint64, 0, len(entries))
	for _, entry := range entries {
		var level uint8
		var id uint32
		if _, err := fmt.Sscanf(entry.Name(), "%d_%d.tile", &level, &id); err == nil {
			keys = append(keys, datastructure.TileKeyOf(level, id))
		}
	}
	return keys
}
