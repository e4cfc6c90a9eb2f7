package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	apperrors "custcrm/internal/errors"
)

// respondError converts a service error into the HTTP error the router renders.
func respondError(err error) error {
	httpErr := apperrors.MapErrorToHTTP(err)
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse()).SetInternal(err)
}

// parseID reads the numeric :id path parameter. Anything else is a 404, the
// same as an unknown route.
func parseID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, echo.NewHTTPError(http.StatusNotFound, apperrors.ErrorResponse{
			Error: "not found",
			Code:  "NOT_FOUND",
		})
	}
	return uint(id), nil
}

// bindForm binds and validates a form submission.
func bindForm(c echo.Context, form interface{}) error {
	if err := c.Bind(form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrorResponse{
			Error: "invalid request body",
			Code:  "INVALID_REQUEST",
		})
	}
	if err := c.Validate(form); err != nil {
		return respondError(err)
	}
	return nil
}

// readUpload returns the contents of a multipart file field. A missing field
// yields a nil slice and no error.
func readUpload(c echo.Context, field string, limit int64) ([]byte, string, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, "", nil
		}
		return nil, "", respondError(apperrors.NewValidationError(field, "the submitted file could not be read"))
	}

	f, err := fh.Open()
	if err != nil {
		return nil, "", respondError(apperrors.NewValidationError(field, "the submitted file could not be read"))
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, limit+1))
	if err != nil {
		return nil, "", respondError(apperrors.NewValidationError(field, "the submitted file could not be read"))
	}
	if int64(len(data)) > limit {
		return nil, "", respondError(apperrors.NewValidationError(field, "the submitted file is too large"))
	}
	if len(data) == 0 {
		return nil, "", respondError(apperrors.NewValidationError(field, "the submitted file is empty"))
	}
	return data, fh.Filename, nil
}
