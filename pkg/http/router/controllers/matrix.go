package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/julienschmidt/httprouter"
	routerhelper "github.com/lintang-b-s/tilematrix/pkg/http/router/routerhelper"
	"github.com/lintang-b-s/tilematrix/pkg/http/usecases"
	"go.uber.org/zap"
)

type matrixAPI struct {
	matrixService MatrixService
	log           *zap.Logger
}

func New(matrixService MatrixService, log *zap.Logger) *matrixAPI {
	return &matrixAPI{
		matrixService: matrixService,
		log:           log,
	}
}

func (api *matrixAPI) Routes(group *routerhelper.RouteGroup) {
	group.POST("/matrix", api.matrix)
}

// matrix godoc
//
//	@Summary	compute the cost/time/distance matrix between sources and targets
//	@Accept		json
//	@Produce	json
//	@Router		/matrix [post]
func (api *matrixAPI) matrix(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	var request matrixRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		api.BadRequestResponse(w, r, fmt.Errorf("decoding request body: %w", err))
		return
	}

	validate := validator.New()
	if err := validate.Struct(request); err != nil {
		english := en.New()
		uni := ut.New(english, english)
		trans, _ := uni.GetTranslator("en")
		_ = enTranslations.RegisterDefaultTranslations(validate, trans)
		vv := translateError(err, trans)
		vvString := []string{}
		for _, v := range vv {
			vvString = append(vvString, v.Error())
		}
		api.BadRequestResponse(w, r, fmt.Errorf("validation error: %v", vvString))
		return
	}

	params := usecases.MatrixParams{
		Costing:           request.Costing,
		MaxMatrixDistance: request.MaxMatrixDistance,
		Shape:             request.Shape,
		Invariant:         request.Invariant,
	}
	for _, s := range request.Sources {
		params.Sources = append(params.Sources,
			usecases.LocationParam{Lat: s.Lat, Lon: s.Lon, DateTime: s.DateTime})
	}
	for _, t := range request.Targets {
		params.Targets = append(params.Targets,
			usecases.LocationParam{Lat: t.Lat, Lon: t.Lon, DateTime: t.DateTime})
	}

	view, err := api.matrixService.Matrix(r.Context(), params)
	if err != nil {
		api.getStatusCode(w, r, err)
		return
	}

	response := matrixResponse{Cancelled: view.Cancelled}
	for _, cell := range view.Cells {
		response.Cells = append(response.Cells, matrixCellResponse{
			FromIndex: cell.FromIndex,
			ToIndex:   cell.ToIndex,
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

	if err := api.writeJSON(w, http.StatusOK, envelope{"data": response}, nil); err != nil {
		api.ServerErrorResponse(w, r, err)
	}
}
