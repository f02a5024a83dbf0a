package main

import (
	"context"
	"flag"
	"os"
	"runtime"

	"github.com/lintang-b-s/tilematrix/pkg/concurrent"
	"github.com/lintang-b-s/tilematrix/pkg/datastructure"
	"github.com/lintang-b-s/tilematrix/pkg/graph"
	"github.com/lintang-b-s/tilematrix/pkg/logger"
	"github.com/lintang-b-s/tilematrix/pkg/osmparser"
	"go.uber.org/zap"
	"golang.org/x/exp/slices"
)

var (
	pbfPath     = flag.String("pbf", "./data/map.osm.pbf", "input OSM pbf extract")
	outDir      = flag.String("out", "./data/tiles", "output tile set directory")
	tileSizeDeg = flag.Float64("tile_size", graph.DefaultTileSizeDeg, "tile cell size in degrees")
)

func main() {
	flag.Parse()
	logger, err := logger.New()
	if err != nil {
		panic(err)
	}

	parser := osmparser.NewParser(logger)
	source, _, err := parser.Parse(context.Background(), *pbfPath, *tileSizeDeg)
	if err != nil {
		logger.Fatal("parsing pbf", zap.Error(err))
	}

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		logger.Fatal("creating output directory", zap.Error(err))
	}

	keys := source.TileKeys()
	slices.Sort(keys)
	logger.Info("writing tile set", zap.Int("tiles", len(keys)), zap.String("dir", *outDir))

	// one encode job per tile
	pool := concurrent.NewWorkerPool[uint64, error](runtime.GOMAXPROCS(-1), len(keys))
	for _, key := range keys {
		pool.AddJob(key)
	}
	pool.Close()
	pool.Start(func(key uint64) error {
		id := datastructure.GraphId(key)
		tile, err := source.Tile(id.Level(), id.Tile())
		if err != nil {
			return err
		}
		return graph.WriteTile(*outDir, tile)
	})
	pool.Wait()

	for err := range pool.CollectResults() {
		if err != nil {
			logger.Fatal("writing tile", zap.Error(err))
		}
	}

	logger.Info("tile set written")
}
