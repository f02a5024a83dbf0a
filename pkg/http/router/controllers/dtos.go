package controllers

type matrixLocationRequest struct {
	Lat      float64 `json:"lat" validate:"required,min=-90,max=90"`
	Lon      float64 `json:"lon" validate:"required,min=-180,max=180"`
	DateTime int64   `json:"date_time,omitempty" validate:"omitempty,min=0"`
}

type matrixRequest struct {
	Sources           []matrixLocationRequest `json:"sources" validate:"required,min=1,dive"`
	Targets           []matrixLocationRequest `json:"targets" validate:"required,min=1,dive"`
	Costing           string                  `json:"costing" validate:"omitempty,oneof=auto bicycle pedestrian"`
	MaxMatrixDistance float64                 `json:"max_matrix_distance,omitempty" validate:"omitempty,min=0"`
	Shape             bool                    `json:"shape,omitempty"`
	Invariant         bool                    `json:"invariant,omitempty"`
}

type matrixCellResponse struct {
	FromIndex int     `json:"from_index"`
	ToIndex   int     `json:"to_index"`
	Time      float64 `json:"time"`
	Cost      float64 `json:"cost"`
	Distance  float64 `json:"distance"`
	Found     bool    `json:"found"`
	BeginTime int64   `json:"begin_time,omitempty"`
	EndTime   int64   `json:"end_time,omitempty"`
	DateTime  int64   `json:"date_time,omitempty"`
	Shape     string  `json:"shape,omitempty"`
}

type matrixResponse struct {
	Cells     []matrixCellResponse `json:"cells"`
	Cancelled bool                 `json:"cancelled,omitempty"`
}

type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}
