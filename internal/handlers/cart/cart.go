package carthandler

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"smartswiggy/internal/handlers/respond"
	"smartswiggy/internal/models"
)

type CartService interface {
	CreateCart(ctx context.Context) (models.PricedCart, error)
	SetQuantity(ctx context.Context, cartId int, line models.LineItem) (models.PricedCart, error)
	RemoveFromCart(ctx context.Context, cartId int, itemId int) error
	ViewCart(ctx context.Context, cartId int) (models.PricedCart, error)
}

type Handler struct {
	log     *slog.Logger
	service CartService
}

func New(log *slog.Logger, service CartService) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// POST /carts
func (h *Handler) CreateCart(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.cart.CreateCart"
	log := h.log.With("op", op)

	cart, err := h.service.CreateCart(r.Context())
	if err != nil {
		respond.Error(w, log, err)
		return
	}

	respond.JSON(w, log, http.StatusCreated, cart)
}

// GET /carts/{cartId}
func (h *Handler) ViewCart(w http.ResponseWriter, r *http.Request, scartId string) {
	const op = "handlers.cart.ViewCart"
	log := h.log.With("op", op)

	cartId, err := parseId("cartId", scartId)
	if err != nil {
		respond.Error(w, log, err)
		return
	}

	cart, err := h.service.ViewCart(r.Context(), cartId)
	if err != nil {
		respond.Error(w, log, err)
		return
	}

	respond.JSON(w, log, http.StatusOK, cart)
}

// PUT /carts/{cartId}/items
func (h *Handler) SetQuantity(w http.ResponseWriter, r *http.Request, scartId string) {
	const op = "handlers.cart.SetQuantity"
	log := h.log.With("op", op)

	cartId, err := parseId("cartId", scartId)
	if err != nil {
		respond.Error(w, log, err)
		return
	}

	var line models.LineItem
	if err := respond.Decode(r, &line); err != nil {
		respond.Error(w, log, err)
		return
	}

	cart, err := h.service.SetQuantity(r.Context(), cartId, line)
	if err != nil {
		respond.Error(w, log, err)
		return
	}

	respond.JSON(w, log, http.StatusOK, cart)
}

// DELETE /carts/{cartId}/items/{itemId}
func (h *Handler) RemoveFromCart(w http.ResponseWriter, r *http.Request, scartId, sitemId string) {
	const op = "handlers.cart.RemoveFromCart"
	log := h.log.With("op", op)

	cartId, err := parseId("cartId", scartId)
	if err != nil {
		respond.Error(w, log, err)
		return
	}

	itemId, err := parseId("itemId", sitemId)
	if err != nil {
		respond.Error(w, log, err)
		return
	}

	if err := h.service.RemoveFromCart(r.Context(), cartId, itemId); err != nil {
		respond.Error(w, log, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func parseId(name, s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive int", respond.ErrBadRequest, name)
	}
	return id, nil
}
