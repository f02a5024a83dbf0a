package usecases

import (
	"github.com/lintang-b-s/tilematrix/pkg/datastructure"
)

type SpatialIndex interface {
	NearbyEdges(lat, lon, searchRadius float64, maxCandidates int) []datastructure.CandidateEdge
}

type LocationParam struct {
	Lat      float64
	Lon      float64
	DateTime int64
}

type MatrixParams struct {
	Sources           []LocationParam
	Targets           []LocationParam
	Costing           string
	MaxMatrixDistance float64
	Shape             bool
	Invariant         bool
}

type MatrixCellView struct {
	FromIndex int
	ToIndex   int
	Time      float64
	Cost      float64
	Distance  float64
	Found     bool
	BeginTime int64
	EndTime   int64
	DateTime  int64
	Shape     string
}

type MatrixView struct {
	Cells     []MatrixCellView
	Cancelled bool
}
