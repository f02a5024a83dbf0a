package controllers

import (
	"context"

	"github.com/lintang-b-s/tilematrix/pkg/http/usecases"
)

type MatrixService interface {
	Matrix(ctx context.Context, params usecases.MatrixParams) (*usecases.MatrixView, error)
}
