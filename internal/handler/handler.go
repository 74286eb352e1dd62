package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"gamehub/internal/errors"
)

// MessageResponse is a plain acknowledgement.
type MessageResponse struct {
	Message string `json:"message"`
}

// respondError maps a service error to an HTTP error, keeping the cause for
// the error handler's log line.
func respondError(err error) error {
	httpErr := errors.MapErrorToHTTP(err)
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse()).SetInternal(err)
}

func badRequest(message string) error {
	return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
		Error: message,
		Code:  "INVALID_REQUEST",
	})
}

// bind decodes and validates a request body.
func bind(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return badRequest("invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return respondError(err)
	}
	return nil
}

// paramID parses a positive numeric path parameter.
func paramID(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, badRequest("invalid " + name)
	}
	return uint(id), nil
}
