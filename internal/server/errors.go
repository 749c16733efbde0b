package server

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/KaramelBytes/sheetlens/internal/analysis"
	"github.com/KaramelBytes/sheetlens/internal/parser"
	"github.com/KaramelBytes/sheetlens/internal/session"
)

var clientErrors = []error{
	analysis.ErrInvalidColumn,
	analysis.ErrUnknownAnalysis,
	analysis.ErrDuplicateColumn,
	analysis.ErrRaggedRow,
	parser.ErrUnsupportedFileType,
	parser.ErrNoHeader,
}

// Fail maps a domain error to its HTTP status. Anything unrecognised is a 500.
func (c *CustomContext) Fail(err error, msg string) error {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he
	}
	if errors.Is(err, session.ErrSessionNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	for _, target := range clientErrors {
		if errors.Is(err, target) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
	}
	return c.InternalError(err, msg)
}
