// Package handler contains the HTTP layer: thin echo handlers that
// bind requests, call the service layer and translate domain errors to
// status codes.  No business rules live here.
package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-reservation/internal/repository"
	"github.com/iliyamo/hotel-reservation/internal/service"
)

// dateLayout is the wire format for date-only fields.
const dateLayout = "2006-01-02"

// getUserID extracts the user_id claim from echo.Context as uint64.
// JWT numeric claims arrive as float64 after JSON decoding.
func getUserID(c echo.Context) (uint64, error) {
	switch t := c.Get("user_id").(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// getRole extracts the role claim from echo.Context.
func getRole(c echo.Context) string {
	if role, ok := c.Get("role").(string); ok {
		return role
	}
	return ""
}

// pathID parses a numeric path parameter; zero is invalid.
func pathID(c echo.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}

// parseDate parses a date-only request field in its own location.
func parseDate(s string) (time.Time, error) {
	return time.Parse(dateLayout, s)
}

// respondError maps domain errors to HTTP responses.  Structured
// errors carry their detail into the body: unavailable or short dates
// are listed so the client can adjust the stay, and an insufficient
// balance reports how much was missing.
func respondError(c echo.Context, err error) error {
	var vErr *service.ValidationError
	if errors.As(err, &vErr) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": vErr.Reason})
	}
	var unavailErr *repository.UnavailableDatesError
	if errors.As(err, &unavailErr) {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "some dates are unavailable",
			"dates": formatDateList(unavailErr.Dates),
		})
	}
	var unitsErr *repository.InsufficientUnitsError
	if errors.As(err, &unitsErr) {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error":     "not enough units on some dates",
			"requested": unitsErr.Requested,
			"dates":     formatDateList(unitsErr.Dates),
		})
	}
	var balErr *repository.InsufficientBalanceError
	if errors.As(err, &balErr) {
		return c.JSON(http.StatusPaymentRequired, echo.Map{
			"error":     "insufficient balance",
			"available": balErr.Available.StringFixed(2),
			"requested": balErr.Requested.StringFixed(2),
		})
	}
	switch {
	case repository.IsNotFound(err):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	case errors.Is(err, repository.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	case errors.Is(err, service.ErrAlreadyCancelled):
		return c.JSON(http.StatusConflict, echo.Map{"error": "booking already cancelled"})
	case errors.Is(err, service.ErrInvalidStateTransition):
		return c.JSON(http.StatusConflict, echo.Map{"error": "invalid state transition"})
	case errors.Is(err, repository.ErrAlreadyProcessed):
		return c.JSON(http.StatusConflict, echo.Map{"error": "transaction already processed"})
	case errors.Is(err, repository.ErrConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": "conflict, please retry"})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}

func formatDateList(dates []time.Time) []string {
	out := make([]string, 0, len(dates))
	for _, d := range dates {
		out = append(out, d.Format(dateLayout))
	}
	return out
}
