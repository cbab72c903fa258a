package handle

import (
	"encoding/json"
	"errors"
	"net/http"

	"mealdesk/internal/order/app/core"
)

type errorResponse struct {
	Error string `json:"error"`
}

func jsonResponse(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func jsonError(w http.ResponseWriter, status int, err error) {
	jsonResponse(w, status, errorResponse{Error: err.Error()})
}

// statusFor maps the engine's error kinds to HTTP statuses so every rejection
// stays distinguishable to clients.
func statusFor(err error) int {
	var notFound *core.NotFoundError
	var windowClosed *core.OrderWindowClosedError
	var noCapacity *core.InsufficientCapacityError

	switch {
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.Is(err, core.ErrDuplicateOrder),
		errors.Is(err, core.ErrCannotCancelDelivered),
		errors.Is(err, core.ErrOrderAlreadyCancelled):
		return http.StatusConflict
	case errors.As(err, &windowClosed),
		errors.As(err, &noCapacity),
		errors.Is(err, core.ErrMealUnavailable),
		errors.Is(err, core.ErrPastOrderDate),
		errors.Is(err, core.ErrBudgetExceeded),
		errors.Is(err, core.ErrOrderLimitExceeded):
		return http.StatusUnprocessableEntity
	case errors.Is(err, core.ErrInvalidQuantity),
		errors.Is(err, core.ErrInvalidStatus):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrDBConn),
		errors.Is(err, core.ErrTxConflict):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
