package slothandler

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"smartswiggy/internal/handlers/respond"
	"smartswiggy/internal/slot"
)

type Planner interface {
	Schedule() slot.Schedule
	Toggle(id int) (slot.Schedule, error)
	Remove(id int) (slot.Schedule, error)
	Confirm(id int) (slot.Schedule, error)
	Add(sl slot.Slot) (slot.Slot, error)
}

type scheduleResponse struct {
	slot.Schedule
	Free        []slot.Slot `json:"free"`
	Recommended *slot.Slot  `json:"recommended,omitempty"`
}

type Handler struct {
	log     *slog.Logger
	planner Planner
}

func New(log *slog.Logger, planner Planner) *Handler {
	return &Handler{
		log:     log,
		planner: planner,
	}
}

// GET /slots
func (h *Handler) ListSlots(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.slot.ListSlots"
	h.replySchedule(w, h.log.With("op", op), h.planner.Schedule())
}

// POST /slots
func (h *Handler) AddSlot(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.slot.AddSlot"
	log := h.log.With("op", op)

	var sl slot.Slot
	if err := respond.Decode(r, &sl); err != nil {
		respond.Error(w, log, err)
		return
	}

	added, err := h.planner.Add(sl)
	if err != nil {
		respond.Error(w, log, err)
		return
	}

	respond.JSON(w, log, http.StatusCreated, added)
}

// DELETE /slots/{slotId}
func (h *Handler) RemoveSlot(w http.ResponseWriter, r *http.Request, sslotId string) {
	const op = "handlers.slot.RemoveSlot"
	h.apply(w, h.log.With("op", op), sslotId, h.planner.Remove)
}

// POST /slots/{slotId}/toggle
func (h *Handler) ToggleSlot(w http.ResponseWriter, r *http.Request, sslotId string) {
	const op = "handlers.slot.ToggleSlot"
	h.apply(w, h.log.With("op", op), sslotId, h.planner.Toggle)
}

// POST /slots/{slotId}/confirm
func (h *Handler) ConfirmSlot(w http.ResponseWriter, r *http.Request, sslotId string) {
	const op = "handlers.slot.ConfirmSlot"
	h.apply(w, h.log.With("op", op), sslotId, h.planner.Confirm)
}

func (h *Handler) apply(w http.ResponseWriter, log *slog.Logger, sslotId string, fn func(int) (slot.Schedule, error)) {
	id, err := strconv.Atoi(sslotId)
	if err != nil {
		respond.Error(w, log, fmt.Errorf("%w: slotId must be int", respond.ErrBadRequest))
		return
	}

	s, err := fn(id)
	if err != nil {
		respond.Error(w, log, err)
		return
	}

	h.replySchedule(w, log, s)
}

func (h *Handler) replySchedule(w http.ResponseWriter, log *slog.Logger, s slot.Schedule) {
	resp := scheduleResponse{Schedule: s, Free: s.Free()}
	if rec, ok := s.Recommended(); ok {
		resp.Recommended = &rec
	}
	respond.JSON(w, log, http.StatusOK, resp)
}
