package usecases

import (
	"context"

	"github.com/lintang-b-s/tilematrix/pkg"
	"github.com/lintang-b-s/tilematrix/pkg/costing"
	"github.com/lintang-b-s/tilematrix/pkg/datastructure"
	"github.com/lintang-b-s/tilematrix/pkg/matrix"
	"github.com/lintang-b-s/tilematrix/pkg/util"
	"go.uber.org/zap"
)

// default arc-length caps per mode (meter) when the request does not set one
const (
	defaultMaxDistanceAuto       = 400000.0
	defaultMaxDistanceBicycle    = 200000.0
	defaultMaxDistancePedestrian = 200000.0
)

type MatrixService struct {
	log            *zap.Logger
	reader         matrix.GraphReader
	spatialIndex   SpatialIndex
	searchRadiusKm float64
	maxCandidates  int
	cfg            matrix.Config
}

func NewMatrixService(log *zap.Logger, reader matrix.GraphReader,
	spatialIndex SpatialIndex, searchRadiusKm float64, maxCandidates int,
	cfg matrix.Config) *MatrixService {
	return &MatrixService{
		log:            log,
		reader:         reader,
		spatialIndex:   spatialIndex,
		searchRadiusKm: searchRadiusKm,
		maxCandidates:  maxCandidates,
		cfg:            cfg,
	}
}

// Matrix snap the request locations onto the graph and run the many-to-many
// engine. A location with no nearby edges produces an all-not-found row or
// column rather than an error. One engine instance serves one query; running
// queries in parallel is the caller's concern.
func (ms *MatrixService) Matrix(ctx context.Context, params MatrixParams) (*MatrixView, error) {
	mode, err := costing.ModeFromName(params.Costing)
	if err != nil {
		return nil, util.WrapErrorf(err, util.ErrBadParamInput, "parsing costing")
	}
	cost, err := costing.NewCosting(mode)
	if err != nil {
		return nil, util.WrapErrorf(err, util.ErrBadParamInput, "building costing")
	}

	maxDistance := params.MaxMatrixDistance
	if maxDistance <= 0 {
		switch mode {
		case pkg.TRAVEL_MODE_BICYCLE:
			maxDistance = defaultMaxDistanceBicycle
		case pkg.TRAVEL_MODE_PEDESTRIAN:
			maxDistance = defaultMaxDistancePedestrian
		default:
			maxDistance = defaultMaxDistanceAuto
		}
	}

	hasTime := false
	snap := func(loc LocationParam) datastructure.MatrixLocation {
		if loc.DateTime > 0 {
			hasTime = true
		}
		candidates := ms.spatialIndex.NearbyEdges(loc.Lat, loc.Lon,
			ms.searchRadiusKm, ms.maxCandidates)
		return datastructure.NewMatrixLocation(loc.Lat, loc.Lon, loc.DateTime, candidates)
	}

	sources := make([]datastructure.MatrixLocation, 0, len(params.Sources))
	for _, s := range params.Sources {
		sources = append(sources, snap(s))
	}
	targets := make([]datastructure.MatrixLocation, 0, len(params.Targets))
	for _, t := range params.Targets {
		targets = append(targets, snap(t))
	}

	// a single static pair goes through the plain one-to-one search
	if len(sources) == 1 && len(targets) == 1 && !hasTime && !params.Shape {
		return ms.oneToOne(cost, sources[0], targets[0], maxDistance)
	}

	cfg := ms.cfg
	cfg.IncludeShape = params.Shape

	engine := matrix.NewCostMatrix(ms.reader, cost, cfg, ms.log)
	result, err := engine.SourceToTarget(ctx, sources, targets, maxDistance,
		hasTime, params.Invariant)
	if err != nil {
		return nil, err
	}

	view := &MatrixView{Cancelled: result.Cancelled}
	for s := 0; s < result.SourceCount; s++ {
		for t := 0; t < result.TargetCount; t++ {
			cell := result.Cell(s, t)
			view.Cells = append(view.Cells, MatrixCellView{
				FromIndex: s,
				ToIndex:   t,
				Time:      cell.Time,
				Cost:      cell.Cost,
				Distance:  cell.Distance,
				Found:     cell.Found,
				BeginTime: cell.BeginTime,
				EndTime:   cell.EndTime,
				DateTime:  cell.DateTime,
				Shape:     cell.Shape,
			})
		}
	}
	return view, nil
}

func (ms *MatrixService) oneToOne(cost costing.DynamicCost,
	source, target datastructure.MatrixLocation, maxDistance float64) (*MatrixView, error) {
	search := matrix.NewOneToOne(ms.reader, cost)
	result, err := search.Search(source, target, maxDistance)
	if err != nil {
		return nil, err
	}
	cell := MatrixCellView{FromIndex: 0, ToIndex: 0, Found: result.Found}
	if result.Found {
		cell.Time = result.Cost.Secs
		cell.Cost = result.Cost.Cost
		cell.Distance = result.Distance
	}
	return &MatrixView{Cells: []MatrixCellView{cell}}, nil
}
