package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

// APIResponse wraps error payloads. Successful /api responses are written bare.
type APIResponse struct {
	Status  int         `json:"status" example:"404"`
	Message string      `json:"message" example:"Not Found"`
	Data    interface{} `json:"data,omitempty"`
}

// ValidationError describes one rejected request field.
type ValidationError struct {
	Code    string                 `json:"code,omitempty" example:"ERR_SLUG"`
	Field   string                 `json:"field,omitempty" example:"domain"`
	Message string                 `json:"message,omitempty" example:"domain must be a lowercase category slug"`
	Params  map[string]interface{} `json:"params,omitempty"`
}

func envelope(c echo.Context, status int, data interface{}) error {
	return c.JSON(status, APIResponse{Status: status, Message: http.StatusText(status), Data: data})
}

// BadRequestResponse writes the output of ReadAndValidateRequest as a 400.
func BadRequestResponse(c echo.Context, errs interface{}) error {
	return envelope(c, http.StatusBadRequest, errs)
}

// AppErrorResponse writes err with its own status. Anything that is not an
// AppError becomes an opaque 500.
func AppErrorResponse(c echo.Context, err error) error {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		appErr = InternalErrorf("something went wrong")
	}
	return envelope(c, appErr.Status, []*AppError{appErr})
}
