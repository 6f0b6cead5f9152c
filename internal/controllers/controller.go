package controllers

import (
	"strconv"

	"github.com/labstack/echo/v4"

	apperrors "catering-system/pkg/errors"
)

// parseIDParam читает числовой path-параметр.
func parseIDParam(ctx echo.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(ctx.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, apperrors.NewBadRequestError("Некорректный идентификатор в пути запроса", err)
	}
	return id, nil
}
