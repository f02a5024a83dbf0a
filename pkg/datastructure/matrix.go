package datastructure

// CandidateEdge is one partial edge a location snapped onto.
type CandidateEdge struct {
	edgeId       GraphId
	percentAlong float64
	distToEdge   float64
}

func NewCandidateEdge(edgeId GraphId, percentAlong, distToEdge float64) CandidateEdge {
	return CandidateEdge{
		edgeId:       edgeId,
		percentAlong: percentAlong,
		distToEdge:   distToEdge,
	}
}

func (c CandidateEdge) EdgeId() GraphId {
	return c.edgeId
}

func (c CandidateEdge) PercentAlong() float64 {
	return c.percentAlong
}

func (c CandidateEdge) DistToEdge() float64 {
	return c.distToEdge
}

// MatrixLocation is one source or target of a matrix query: its coordinate,
// an optional local departure/arrival time (unix epoch seconds, 0 = none) and
// the candidate edges it snapped onto. A location with no candidates yields
// an all-not-found row or column.
type MatrixLocation struct {
	lat, lon float64
	dateTime int64
	edges    []CandidateEdge
}

func NewMatrixLocation(lat, lon float64, dateTime int64, edges []CandidateEdge) MatrixLocation {
	return MatrixLocation{
		lat:      lat,
		lon:      lon,
		dateTime: dateTime,
		edges:    edges,
	}
}

func (m MatrixLocation) Lat() float64 {
	return m.lat
}

func (m MatrixLocation) Lon() float64 {
	return m.lon
}

func (m MatrixLocation) DateTime() int64 {
	return m.dateTime
}

func (m MatrixLocation) Edges() []CandidateEdge {
	return m.edges
}

// MatrixCell is the result of one (source, target) pair. The not-found
// convention is cost = 0, distance = 0, found = false.
type MatrixCell struct {
	Time     float64 `json:"time"`
	Cost     float64 `json:"cost"`
	Distance float64 `json:"distance"`
	Found    bool    `json:"found"`

	BeginTime int64  `json:"begin_time,omitempty"`
	EndTime   int64  `json:"end_time,omitempty"`
	DateTime  int64  `json:"date_time,omitempty"`
	Shape     string `json:"shape,omitempty"`
}

// MatrixResult holds the S x T cells in row-major order.
type MatrixResult struct {
	Cells       []MatrixCell
	SourceCount int
	TargetCount int
	Cancelled   bool
}

func (m *MatrixResult) Cell(source, target int) *MatrixCell {
	return &m.Cells[source*m.TargetCount+target]
}
