package osmparser

import (
	"context"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/lintang-b-s/tilematrix/pkg"
	"github.com/lintang-b-s/tilematrix/pkg/graph"
	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
	"go.uber.org/zap"
	"golang.org/x/exp/slices"
)

type wayInfo struct {
	nodes    []int64
	class    pkg.RoadClass
	access   uint32
	speedKmh float64
	oneWay   bool
}

// Parser turns an OSM pbf extract into a routable tile set.
type Parser struct {
	log *zap.Logger
}

func NewParser(log *zap.Logger) *Parser {
	return &Parser{log: log}
}

// Parse scan the extract twice: ways first to learn which nodes are routable,
// then nodes for their coordinates. Every way segment between consecutive
// nodes becomes a pair of opposing directed edges.
func (p *Parser) Parse(ctx context.Context, pbfPath string, tileSizeDeg float64) (*graph.MemTileSource, *graph.TileSetBuilder, error) {
	ways, neededNodes, err := p.scanWays(ctx, pbfPath)
	if err != nil {
		return nil, nil, err
	}
	p.log.Info("scanned routable ways", zap.Int("ways", len(ways)))

	coords, err := p.scanNodes(ctx, pbfPath, neededNodes)
	if err != nil {
		return nil, nil, err
	}
	p.log.Info("scanned way nodes", zap.Int("nodes", len(coords)))

	builder := graph.NewTileSetBuilder(tileSizeDeg)
	handles := make(map[int64]int, len(coords))

	for _, way := range ways {
		for i := 0; i+1 < len(way.nodes); i++ {
			from, fromOk := coords[way.nodes[i]]
			to, toOk := coords[way.nodes[i+1]]
			if !fromOk || !toOk {
				continue
			}

			fromHandle, ok := handles[way.nodes[i]]
			if !ok {
				fromHandle = builder.AddNode(from[0], from[1])
				handles[way.nodes[i]] = fromHandle
			}
			toHandle, ok := handles[way.nodes[i+1]]
			if !ok {
				toHandle = builder.AddNode(to[0], to[1])
				handles[way.nodes[i+1]] = toHandle
			}

			builder.AddEdge(fromHandle, toHandle, graph.EdgeSpec{
				SpeedKmh: way.speedKmh,
				Class:    way.class,
				OneWay:   way.oneWay,
				Access:   way.access,
			})
		}
	}

	source, err := builder.Build()
	if err != nil {
		return nil, nil, err
	}
	return source, builder, nil
}

func (p *Parser) scanWays(ctx context.Context, pbfPath string) ([]wayInfo, map[int64]struct{}, error) {
	f, err := os.Open(pbfPath)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	scanner := osmpbf.New(ctx, f, runtime.GOMAXPROCS(-1))
	defer scanner.Close()
	scanner.SkipNodes = true
	scanner.SkipRelations = true

	ways := make([]wayInfo, 0)
	needed := make(map[int64]struct{})

	for scanner.Scan() {
		way, ok := scanner.Object().(*osm.Way)
		if !ok {
			continue
		}
		info, routable := classifyWay(way)
		if !routable {
			continue
		}
		for _, wn := range way.Nodes {
			info.nodes = append(info.nodes, int64(wn.ID))
			needed[int64(wn.ID)] = struct{}{}
		}
		if len(info.nodes) >= 2 {
			ways = append(ways, info)
		}
	}
	return ways, needed, scanner.Err()
}

func (p *Parser) scanNodes(ctx context.Context, pbfPath string,
	needed map[int64]struct{}) (map[int64][2]float64, error) {
	f, err := os.Open(pbfPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	scanner := osmpbf.New(ctx, f, runtime.GOMAXPROCS(-1))
	defer scanner.Close()
	scanner.SkipWays = true
	scanner.SkipRelations = true

	coords := make(map[int64][2]float64, len(needed))
	for scanner.Scan() {
		node, ok := scanner.Object().(*osm.Node)
		if !ok {
			continue
		}
		if _, want := needed[int64(node.ID)]; !want {
			continue
		}
		coords[int64(node.ID)] = [2]float64{node.Lat, node.Lon}
	}
	return coords, scanner.Err()
}

func classifyWay(way *osm.Way) (wayInfo, bool) {
	highway := way.Tags.Find("highway")
	if highway == "" {
		return wayInfo{}, false
	}

	var info wayInfo
	switch highway {
	case "cycleway":
		info.class = pkg.SERVICE_OTHER
		info.access = pkg.BICYCLE_ACCESS | pkg.PEDESTRIAN_ACCESS
	case "footway", "path", "pedestrian", "steps":
		info.class = pkg.SERVICE_OTHER
		info.access = pkg.PEDESTRIAN_ACCESS
	default:
		class, ok := pkg.GetRoadClass(highway)
		if !ok {
			return wayInfo{}, false
		}
		info.class = class
		if class == pkg.MOTORWAY || class == pkg.TRUNK {
			info.access = pkg.AUTO_ACCESS
		} else {
			info.access = pkg.ALL_ACCESS
		}
	}

	info.speedKmh = parseMaxspeed(way.Tags.Find("maxspeed"), info.class)
	info.oneWay = isOneWay(way, info.class)
	return info, true
}

func parseMaxspeed(tag string, class pkg.RoadClass) float64 {
	if tag == "" {
		return class.DefaultSpeedKmh()
	}
	fields := strings.Fields(tag)
	speed, err := strconv.ParseFloat(fields[0], 64)
	if err != nil || speed <= 0 {
		return class.DefaultSpeedKmh()
	}
	if slices.Contains(fields, "mph") {
		speed *= 1.609344
	}
	return speed
}

func isOneWay(way *osm.Way, class pkg.RoadClass) bool {
	switch way.Tags.Find("oneway") {
	case "yes", "1", "true":
		return true
	case "no", "0", "false":
		return false
	}
	// motorways and roundabouts are one way unless tagged otherwise
	return class == pkg.MOTORWAY || way.Tags.Find("junction") == "roundabout"
}
