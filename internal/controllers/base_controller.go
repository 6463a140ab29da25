package controllers

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/fiich/fiich-server/internal/logics"
	"github.com/fiich/fiich-server/internal/middlewares"
)

var validate = validator.New()

// bindAndValidate binds the request body into dst and runs struct validation.
func bindAndValidate(c echo.Context, dst interface{}) error {
	if err := c.Bind(dst); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(dst); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

// identityFromContext builds the access identity of an authenticated request.
func identityFromContext(c echo.Context) (logics.Identity, error) {
	userID, err := middlewares.GetUserID(c)
	if err != nil {
		return logics.Identity{}, err
	}
	return logics.Identity{UserID: userID}, nil
}

// parseUUIDParam parses a uuid path parameter, replying 400 on failure.
func parseUUIDParam(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return id, nil
}
