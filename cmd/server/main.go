package main

import (
	"context"
	"flag"

	"github.com/lintang-b-s/tilematrix/pkg/graph"
	"github.com/lintang-b-s/tilematrix/pkg/http"
	"github.com/lintang-b-s/tilematrix/pkg/http/usecases"
	"github.com/lintang-b-s/tilematrix/pkg/logger"
	"github.com/lintang-b-s/tilematrix/pkg/matrix"
	"github.com/lintang-b-s/tilematrix/pkg/spatialindex"
	"github.com/lintang-b-s/tilematrix/pkg/util"
	"go.uber.org/zap"
)

var (
	tileDir               = flag.String("tile_dir", "./data/tiles", "directory of the graph tile set")
	configDir             = flag.String("config_dir", "./data", "directory holding config.yaml")
	tileCacheSize         = flag.Int("tile_cache_size", 512, "tiles kept in the reader cache")
	searchRadius          = flag.Float64("search_radius", 0.3, "location snapping radius in km")
	maxCandidates         = flag.Int("max_candidates", 4, "candidate edges per location")
	leafBoundingBoxRadius = flag.Float64("leaf_bounding_box_radius", 0.05, "leaf node (r-tree) bounding box radius in km")
	useRateLimit          = flag.Bool("rate_limit", false, "enable per-client rate limiting")
)

func main() {
	flag.Parse()
	logger, err := logger.New()
	if err != nil {
		panic(err)
	}

	if err := util.ReadConfig(*configDir); err != nil {
		logger.Warn("running with default config", zap.Error(err))
	}

	source := graph.NewDirTileSource(*tileDir)
	reader, err := graph.NewReader(source, *tileCacheSize, logger)
	if err != nil {
		panic(err)
	}

	rtree := spatialindex.NewRtree()
	if err := rtree.Build(source, *leafBoundingBoxRadius, logger); err != nil {
		panic(err)
	}

	matrixService := usecases.NewMatrixService(logger, reader, rtree,
		*searchRadius, *maxCandidates, matrix.ConfigFromViper())

	api := http.NewServer(logger)

	ctx, cancel := context.WithCancel(context.Background())
	if _, err := api.Use(ctx, logger, *useRateLimit, matrixService); err != nil {
		panic(err)
	}

	signal := http.GracefulShutdown()
	logger.Info("Tilematrix server stopped", zap.String("signal", signal.String()))
	cancel()
}
