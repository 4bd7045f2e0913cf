package grouphandler

import (
	"context"
	"log/slog"
	"net/http"

	"smartswiggy/internal/handlers/respond"
	"smartswiggy/internal/models"
	"smartswiggy/internal/split"

	"github.com/shopspring/decimal"
)

type GroupService interface {
	CreateGroup(ctx context.Context, name, hostName string) (models.Group, error)
	JoinGroup(ctx context.Context, code, name string) (models.Group, models.Member, error)
	GetGroup(ctx context.Context, groupId string) (models.Group, error)
	AddMember(ctx context.Context, groupId, name string) (models.Group, models.Member, error)
	RenameMember(ctx context.Context, groupId, memberId, name string) (models.Group, error)
	RemoveMember(ctx context.Context, groupId, memberId string) (models.Group, error)
	SetMemberItem(ctx context.Context, groupId, memberId string, line models.LineItem) (models.Group, error)
	BeginSplit(ctx context.Context, groupId string) (models.Group, error)
	BackToActive(ctx context.Context, groupId string) (models.Group, error)
	ComputeSplit(ctx context.Context, groupId string, policy split.Policy, overrides map[string]decimal.Decimal) (split.Result, error)
	SendPaymentRequests(ctx context.Context, groupId string, policy split.Policy, overrides map[string]decimal.Decimal) (models.Group, error)
	CancelPaymentRequests(ctx context.Context, groupId string) (models.Group, error)
	AcknowledgePayment(ctx context.Context, groupId, memberId string) (models.Group, error)
}

type createGroupRequest struct {
	Name     string `json:"name"`
	HostName string `json:"host_name" validate:"required"`
}

type joinGroupRequest struct {
	Code string `json:"code" validate:"required"`
	Name string `json:"name"`
}

type memberRequest struct {
	Name string `json:"name"`
}

type renameRequest struct {
	Name string `json:"name" validate:"required"`
}

type splitRequest struct {
	Policy    string                     `json:"policy" validate:"required"`
	Overrides map[string]decimal.Decimal `json:"overrides"`
}

type memberResponse struct {
	Group  models.Group  `json:"group"`
	Member models.Member `json:"member"`
}

type Handler struct {
	log     *slog.Logger
	service GroupService
}

func New(log *slog.Logger, service GroupService) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// POST /groups
func (h *Handler) CreateGroup(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.group.CreateGroup"
	log := h.log.With("op", op)

	var req createGroupRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, log, err)
		return
	}

	g, err := h.service.CreateGroup(r.Context(), req.Name, req.HostName)
	if err != nil {
		respond.Error(w, log, err)
		return
	}

	respond.JSON(w, log, http.StatusCreated, g)
}

// POST /groups/join
func (h *Handler) JoinGroup(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.group.JoinGroup"
	log := h.log.With("op", op)

	var req joinGroupRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, log, err)
		return
	}

	g, m, err := h.service.JoinGroup(r.Context(), req.Code, req.Name)
	if err != nil {
		respond.Error(w, log, err)
		return
	}

	respond.JSON(w, log, http.StatusOK, memberResponse{Group: g, Member: m})
}

// GET /groups/{groupId}
func (h *Handler) GetGroup(w http.ResponseWriter, r *http.Request, groupId string) {
	const op = "handlers.group.GetGroup"
	log := h.log.With("op", op, "group_id", groupId)

	g, err := h.service.GetGroup(r.Context(), groupId)
	if err != nil {
		respond.Error(w, log, err)
		return
	}

	respond.JSON(w, log, http.StatusOK, g)
}

// POST /groups/{groupId}/members
func (h *Handler) AddMember(w http.ResponseWriter, r *http.Request, groupId string) {
	const op = "handlers.group.AddMember"
	log := h.log.With("op", op, "group_id", groupId)

	var req memberRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, log, err)
		return
	}

	g, m, err := h.service.AddMember(r.Context(), groupId, req.Name)
	if err != nil {
		respond.Error(w, log, err)
		return
	}

	respond.JSON(w, log, http.StatusCreated, memberResponse{Group: g, Member: m})
}

// PATCH /groups/{groupId}/members/{memberId}
func (h *Handler) RenameMember(w http.ResponseWriter, r *http.Request, groupId, memberId string) {
	const op = "handlers.group.RenameMember"
	log := h.log.With("op", op, "group_id", groupId, "member_id", memberId)

	var req renameRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, log, err)
		return
	}

	h.reply(w, r, log, func(ctx context.Context) (models.Group, error) {
		return h.service.RenameMember(ctx, groupId, memberId, req.Name)
	})
}

// DELETE /groups/{groupId}/members/{memberId}
func (h *Handler) RemoveMember(w http.ResponseWriter, r *http.Request, groupId, memberId string) {
	const op = "handlers.group.RemoveMember"
	log := h.log.With("op", op, "group_id", groupId, "member_id", memberId)

	h.reply(w, r, log, func(ctx context.Context) (models.Group, error) {
		return h.service.RemoveMember(ctx, groupId, memberId)
	})
}

// PUT /groups/{groupId}/members/{memberId}/items
func (h *Handler) SetMemberItem(w http.ResponseWriter, r *http.Request, groupId, memberId string) {
	const op = "handlers.group.SetMemberItem"
	log := h.log.With("op", op, "group_id", groupId, "member_id", memberId)

	var line models.LineItem
	if err := respond.Decode(r, &line); err != nil {
		respond.Error(w, log, err)
		return
	}

	h.reply(w, r, log, func(ctx context.Context) (models.Group, error) {
		return h.service.SetMemberItem(ctx, groupId, memberId, line)
	})
}

// POST /groups/{groupId}/split
func (h *Handler) BeginSplit(w http.ResponseWriter, r *http.Request, groupId string) {
	const op = "handlers.group.BeginSplit"
	log := h.log.With("op", op, "group_id", groupId)

	h.reply(w, r, log, func(ctx context.Context) (models.Group, error) {
		return h.service.BeginSplit(ctx, groupId)
	})
}

// DELETE /groups/{groupId}/split
func (h *Handler) BackToActive(w http.ResponseWriter, r *http.Request, groupId string) {
	const op = "handlers.group.BackToActive"
	log := h.log.With("op", op, "group_id", groupId)

	h.reply(w, r, log, func(ctx context.Context) (models.Group, error) {
		return h.service.BackToActive(ctx, groupId)
	})
}

// POST /groups/{groupId}/split/compute
func (h *Handler) ComputeSplit(w http.ResponseWriter, r *http.Request, groupId string) {
	const op = "handlers.group.ComputeSplit"
	log := h.log.With("op", op, "group_id", groupId)

	policy, overrides, err := decodeSplit(r)
	if err != nil {
		respond.Error(w, log, err)
		return
	}

	res, err := h.service.ComputeSplit(r.Context(), groupId, policy, overrides)
	if err != nil {
		respond.Error(w, log, err)
		return
	}

	respond.JSON(w, log, http.StatusOK, res)
}

// POST /groups/{groupId}/payment-requests
func (h *Handler) SendPaymentRequests(w http.ResponseWriter, r *http.Request, groupId string) {
	const op = "handlers.group.SendPaymentRequests"
	log := h.log.With("op", op, "group_id", groupId)

	policy, overrides, err := decodeSplit(r)
	if err != nil {
		respond.Error(w, log, err)
		return
	}

	g, err := h.service.SendPaymentRequests(r.Context(), groupId, policy, overrides)
	if err != nil {
		respond.Error(w, log, err)
		return
	}

	respond.JSON(w, log, http.StatusAccepted, g)
}

// DELETE /groups/{groupId}/payment-requests
func (h *Handler) CancelPaymentRequests(w http.ResponseWriter, r *http.Request, groupId string) {
	const op = "handlers.group.CancelPaymentRequests"
	log := h.log.With("op", op, "group_id", groupId)

	h.reply(w, r, log, func(ctx context.Context) (models.Group, error) {
		return h.service.CancelPaymentRequests(ctx, groupId)
	})
}

// POST /groups/{groupId}/members/{memberId}/payment
func (h *Handler) AcknowledgePayment(w http.ResponseWriter, r *http.Request, groupId, memberId string) {
	const op = "handlers.group.AcknowledgePayment"
	log := h.log.With("op", op, "group_id", groupId, "member_id", memberId)

	h.reply(w, r, log, func(ctx context.Context) (models.Group, error) {
		return h.service.AcknowledgePayment(ctx, groupId, memberId)
	})
}

func (h *Handler) reply(w http.ResponseWriter, r *http.Request, log *slog.Logger, call func(ctx context.Context) (models.Group, error)) {
	g, err := call(r.Context())
	if err != nil {
		respond.Error(w, log, err)
		return
	}
	respond.JSON(w, log, http.StatusOK, g)
}

func decodeSplit(r *http.Request) (split.Policy, map[string]decimal.Decimal, error) {
	var req splitRequest
	if err := respond.Decode(r, &req); err != nil {
		return "", nil, err
	}

	policy, err := split.ParsePolicy(req.Policy)
	if err != nil {
		return "", nil, err
	}

	return policy, req.Overrides, nil
}
