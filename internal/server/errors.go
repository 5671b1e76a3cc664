package server

import (
	"errors"
	"net/http"

	"github.com/jonathan/cv-screener/internal/screening"
)

// HTTPStatus returns the appropriate HTTP status code for an error.
// Validation failures map to 400 so their exact messages reach the client;
// model call failures are upstream faults and map to 502.
func HTTPStatus(err error) int {
	var nonPDF *screening.NonPDFError
	var modelErr *screening.ModelCallError
	switch {
	case errors.Is(err, screening.ErrNoFiles), errors.Is(err, screening.ErrNoQualities):
		return http.StatusBadRequest
	case errors.As(err, &nonPDF):
		return http.StatusBadRequest
	case errors.As(err, &modelErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
