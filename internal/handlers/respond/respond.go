// Package respond writes JSON replies and maps domain errors to HTTP statuses.
package respond

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"smartswiggy/internal/catalog"
	"smartswiggy/internal/group"
	"smartswiggy/internal/pricing"
	serviceerrors "smartswiggy/internal/service"
	"smartswiggy/internal/slot"
	"smartswiggy/internal/split"
	"smartswiggy/pkg/lib/logger/sl"

	"github.com/go-playground/validator/v10"
)

const StatusClientClosedRequest = 499

// ErrBadRequest marks malformed input: unparsable ids, bodies or query values.
var ErrBadRequest = errors.New("bad request")

var validate = validator.New()

type errorBody struct {
	Error string `json:"error"`
}

// Decode reads a JSON body into v and validates its struct tags.
func Decode(r *http.Request, v any) error {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return fmt.Errorf("%w: cannot read request body", ErrBadRequest)
	}
	defer r.Body.Close()

	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("%w: cannot unmarshal request body", ErrBadRequest)
	}

	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("%w: %s", ErrBadRequest, err)
	}

	return nil
}

func JSON(w http.ResponseWriter, log *slog.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Failed to respond user", sl.Err(err))
	}
}

func Status(err error) int {
	switch {
	case errors.Is(err, serviceerrors.ErrContextCanceled):
		return StatusClientClosedRequest
	case errors.Is(err, serviceerrors.ErrDeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, ErrBadRequest),
		errors.Is(err, group.ErrEmptyName),
		errors.Is(err, catalog.ErrUnknownCategory),
		errors.Is(err, catalog.ErrUnknownCuisine),
		errors.Is(err, slot.ErrInvalidSlot):
		return http.StatusBadRequest
	case errors.Is(err, serviceerrors.ErrNotFound),
		errors.Is(err, group.ErrMemberNotFound),
		errors.Is(err, catalog.ErrRestaurantNotFound),
		errors.Is(err, catalog.ErrMenuItemNotFound),
		errors.Is(err, slot.ErrSlotNotFound):
		return http.StatusNotFound
	case errors.Is(err, group.ErrInvalidTransition),
		errors.Is(err, group.ErrHostRemoval),
		errors.Is(err, group.ErrLastMember),
		errors.Is(err, slot.ErrSlotUnavailable):
		return http.StatusConflict
	case errors.Is(err, split.ErrInvalidPolicy),
		errors.Is(err, split.ErrInvalidGroupState),
		errors.Is(err, pricing.ErrInvalidQuantity):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// Error logs err and writes it with the status it maps to. Internal failures
// are reported without detail.
func Error(w http.ResponseWriter, log *slog.Logger, err error) {
	status := Status(err)

	msg := err.Error()
	switch status {
	case http.StatusInternalServerError:
		log.Error("Request failed", sl.Err(err))
		msg = http.StatusText(status)
	case StatusClientClosedRequest:
		log.Warn("Context canceled", sl.Err(err))
		msg = "Context canceled"
	case http.StatusGatewayTimeout:
		log.Warn("Deadline exceeded", sl.Err(err))
		msg = "Deadline exceeded"
	default:
		log.Warn("Request rejected", slog.Int("status", status), sl.Err(err))
	}

	JSON(w, log, status, errorBody{Error: msg})
}
