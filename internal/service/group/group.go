package groupservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	databaseerrors "smartswiggy/internal/database"
	"smartswiggy/internal/group"
	"smartswiggy/internal/models"
	"smartswiggy/internal/paymentrequest"
	"smartswiggy/internal/pricing"
	serviceerrors "smartswiggy/internal/service"
	"smartswiggy/internal/split"
	"smartswiggy/pkg/lib/logger/sl"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const createAttempts = 3

type GroupStorage interface {
	CreateGroup(ctx context.Context, g models.Group) error
	GetGroup(ctx context.Context, id string) (models.Group, error)
	GetGroupByCode(ctx context.Context, code string) (models.Group, error)
	SaveGroup(ctx context.Context, g models.Group) error
}

type Dispatcher interface {
	Dispatch(ctx context.Context, reqs []paymentrequest.Request, onSent func(paymentrequest.Request, paymentrequest.Progress) error) error
}

type Metrics interface {
	SplitComputed(policy string)
	PaymentRequest(result string)
}

// Menu prices a line from the catalog.
type Menu interface {
	Resolve(line models.LineItem) (models.LineItem, error)
}

type dispatch struct {
	cancel context.CancelFunc
}

type GroupService struct {
	log        *slog.Logger
	storage    GroupStorage
	dispatcher Dispatcher
	rules      pricing.Rules
	metrics    Metrics
	menu       Menu
	now        func() time.Time

	// mu serializes read-modify-write cycles on stored groups.
	mu       sync.Mutex
	inflight map[string]*dispatch
	wg       sync.WaitGroup
	baseCtx  context.Context
	stop     context.CancelFunc
}

// New builds the group service. metrics may be nil.
func New(log *slog.Logger, storage GroupStorage, dispatcher Dispatcher, rules pricing.Rules, metrics Metrics) *GroupService {
	ctx, stop := context.WithCancel(context.Background())
	return &GroupService{
		log:        log,
		storage:    storage,
		dispatcher: dispatcher,
		rules:      rules,
		metrics:    metrics,
		now:        time.Now,
		inflight:   make(map[string]*dispatch),
		baseCtx:    ctx,
		stop:       stop,
	}
}

// Close stops every running payment dispatch and waits for it to exit.
func (s *GroupService) Close() {
	s.stop()
	s.wg.Wait()
}

// CreateGroup opens a group hosted by hostName and publishes its join code.
func (s *GroupService) CreateGroup(ctx context.Context, name, hostName string) (models.Group, error) {
	const op = "service.group.CreateGroup"
	log := s.log.With("op", op)

	select {
	case <-ctx.Done():
		log.Warn("Context is over", sl.Err(ctx.Err()))
		return models.Group{}, fmt.Errorf("%s: %w", op, serviceerrors.Translate(ctx.Err()))
	default:
	}

	for attempt := 1; ; attempt++ {
		g, err := group.New(uuid.NewString(), group.NewCode(), name, uuid.NewString(), hostName, s.now().UTC())
		if err != nil {
			log.Warn("Rejected group", sl.Err(err))
			return models.Group{}, fmt.Errorf("%s: %w", op, err)
		}
		if g, err = group.Activate(g); err != nil {
			return models.Group{}, fmt.Errorf("%s: %w", op, err)
		}

		err = s.storage.CreateGroup(ctx, g)
		if err == nil {
			log.Info("Group created", slog.String("group_id", g.Id), slog.String("code", g.Code))
			return g, nil
		}
		if errors.Is(err, databaseerrors.ErrConflict) && attempt < createAttempts {
			log.Debug("Join code taken, retrying", slog.Int("attempt", attempt))
			continue
		}
		return models.Group{}, fail(log, op, "Failed to create group", err)
	}
}

// JoinGroup adds a member to the group published under code.
func (s *GroupService) JoinGroup(ctx context.Context, code, name string) (models.Group, models.Member, error) {
	const op = "service.group.JoinGroup"
	log := s.log.With("op", op, "code", code)

	select {
	case <-ctx.Done():
		log.Warn("Context is over", sl.Err(ctx.Err()))
		return models.Group{}, models.Member{}, fmt.Errorf("%s: %w", op, serviceerrors.Translate(ctx.Err()))
	default:
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	g, err := s.storage.GetGroupByCode(ctx, group.NormalizeCode(code))
	if err != nil {
		return models.Group{}, models.Member{}, fail(log, op, "Failed to find group", err)
	}

	g, member, err := group.AddMember(g, uuid.NewString(), name)
	if err != nil {
		log.Warn("Rejected join", sl.Err(err))
		return models.Group{}, models.Member{}, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.storage.SaveGroup(ctx, g); err != nil {
		return models.Group{}, models.Member{}, fail(log, op, "Failed to save group", err)
	}

	return g, member, nil
}

func (s *GroupService) GetGroup(ctx context.Context, groupId string) (models.Group, error) {
	const op = "service.group.GetGroup"
	log := s.log.With("op", op, "group_id", groupId)

	select {
	case <-ctx.Done():
		log.Warn("Context is over", sl.Err(ctx.Err()))
		return models.Group{}, fmt.Errorf("%s: %w", op, serviceerrors.Translate(ctx.Err()))
	default:
	}

	g, err := s.storage.GetGroup(ctx, groupId)
	if err != nil {
		return models.Group{}, fail(log, op, "Failed to get group", err)
	}

	return g, nil
}

func (s *GroupService) AddMember(ctx context.Context, groupId, name string) (models.Group, models.Member, error) {
	var added models.Member
	g, err := s.mutate(ctx, "service.group.AddMember", groupId, func(g models.Group) (models.Group, error) {
		next, m, err := group.AddMember(g, uuid.NewString(), name)
		added = m
		return next, err
	})
	if err != nil {
		return models.Group{}, models.Member{}, err
	}
	return g, added, nil
}

func (s *GroupService) RenameMember(ctx context.Context, groupId, memberId, name string) (models.Group, error) {
	return s.mutate(ctx, "service.group.RenameMember", groupId, func(g models.Group) (models.Group, error) {
		return group.RenameMember(g, memberId, name)
	})
}

func (s *GroupService) RemoveMember(ctx context.Context, groupId, memberId string) (models.Group, error) {
	return s.mutate(ctx, "service.group.RemoveMember", groupId, func(g models.Group) (models.Group, error) {
		return group.RemoveMember(g, memberId)
	})
}

// WithMenu makes SetMemberItem take names and prices from menu instead of the
// request.
func (s *GroupService) WithMenu(menu Menu) *GroupService {
	s.menu = menu
	return s
}

func (s *GroupService) SetMemberItem(ctx context.Context, groupId, memberId string, line models.LineItem) (models.Group, error) {
	const op = "service.group.SetMemberItem"

	if s.menu != nil && line.Quantity > 0 {
		resolved, err := s.menu.Resolve(line)
		if err != nil {
			s.log.With("op", op, "group_id", groupId).Warn("Item is not on the menu", sl.Err(err))
			return models.Group{}, fmt.Errorf("%s: %w", op, err)
		}
		line = resolved
	}

	return s.mutate(ctx, op, groupId, func(g models.Group) (models.Group, error) {
		return group.SetMemberItem(g, memberId, line)
	})
}

func (s *GroupService) BeginSplit(ctx context.Context, groupId string) (models.Group, error) {
	return s.mutate(ctx, "service.group.BeginSplit", groupId, group.BeginSplit)
}

func (s *GroupService) BackToActive(ctx context.Context, groupId string) (models.Group, error) {
	return s.mutate(ctx, "service.group.BackToActive", groupId, group.BackToActive)
}

// ComputeSplit previews the payables. It does not change the group.
func (s *GroupService) ComputeSplit(ctx context.Context, groupId string, policy split.Policy, overrides map[string]decimal.Decimal) (split.Result, error) {
	const op = "service.group.ComputeSplit"
	log := s.log.With("op", op, "group_id", groupId, "policy", string(policy))

	select {
	case <-ctx.Done():
		log.Warn("Context is over", sl.Err(ctx.Err()))
		return split.Result{}, fmt.Errorf("%s: %w", op, serviceerrors.Translate(ctx.Err()))
	default:
	}

	g, err := s.storage.GetGroup(ctx, groupId)
	if err != nil {
		return split.Result{}, fail(log, op, "Failed to get group", err)
	}

	res, err := s.split(g, policy, overrides)
	if err != nil {
		log.Warn("Split rejected", sl.Err(err))
		return split.Result{}, fmt.Errorf("%s: %w", op, err)
	}

	return res, nil
}

// SendPaymentRequests starts notifying every member of their share. Progress
// is persisted as requests go out; the call itself returns immediately.
func (s *GroupService) SendPaymentRequests(ctx context.Context, groupId string, policy split.Policy, overrides map[string]decimal.Decimal) (models.Group, error) {
	const op = "service.group.SendPaymentRequests"
	log := s.log.With("op", op, "group_id", groupId)

	select {
	case <-ctx.Done():
		log.Warn("Context is over", sl.Err(ctx.Err()))
		return models.Group{}, fmt.Errorf("%s: %w", op, serviceerrors.Translate(ctx.Err()))
	default:
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	g, err := s.storage.GetGroup(ctx, groupId)
	if err != nil {
		return models.Group{}, fail(log, op, "Failed to get group", err)
	}

	res, err := s.split(g, policy, overrides)
	if err != nil {
		log.Warn("Split rejected", sl.Err(err))
		return models.Group{}, fmt.Errorf("%s: %w", op, err)
	}

	next, err := group.StartRequests(g)
	if err != nil {
		log.Warn("Rejected transition", sl.Err(err))
		return models.Group{}, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.storage.SaveGroup(ctx, next); err != nil {
		return models.Group{}, fail(log, op, "Failed to save group", err)
	}

	reqs := make([]paymentrequest.Request, len(next.Members))
	for i, m := range next.Members {
		reqs[i] = paymentrequest.Request{
			GroupId:     next.Id,
			MemberId:    m.Id,
			DisplayName: m.DisplayName,
			Amount:      res.Payables[i].Payable,
		}
	}

	dctx, cancel := context.WithCancel(s.baseCtx)
	d := &dispatch{cancel: cancel}
	if prev, ok := s.inflight[groupId]; ok {
		prev.cancel()
	}
	s.inflight[groupId] = d

	s.wg.Add(1)
	go s.run(dctx, d, groupId, reqs)

	log.Info("Payment requests started", slog.Int("total", len(reqs)))
	return next, nil
}

func (s *GroupService) run(ctx context.Context, d *dispatch, groupId string, reqs []paymentrequest.Request) {
	const op = "service.group.run"
	log := s.log.With("op", op, "group_id", groupId)

	defer s.wg.Done()
	defer func() {
		s.mu.Lock()
		if s.inflight[groupId] == d {
			delete(s.inflight, groupId)
		}
		s.mu.Unlock()
		d.cancel()
	}()

	err := s.dispatcher.Dispatch(ctx, reqs, func(paymentrequest.Request, paymentrequest.Progress) error {
		s.record("sent")
		_, err := s.mutate(context.Background(), op, groupId, group.MarkRequestSent)
		return err
	})

	switch {
	case err == nil:
		log.Info("Payment requests delivered", slog.Int("total", len(reqs)))
	case errors.Is(err, context.Canceled), errors.Is(err, group.ErrInvalidTransition):
		s.record("cancelled")
		log.Info("Payment requests stopped")
		if s.baseCtx.Err() == nil {
			return
		}
		// Shutting down: leave no group stuck in sending.
		if _, cerr := s.mutate(context.Background(), op, groupId, group.CancelRequests); cerr != nil && !errors.Is(cerr, group.ErrInvalidTransition) {
			log.Warn("Failed to mark requests cancelled", sl.Err(cerr))
		}
	default:
		s.record("failed")
		log.Error("Payment requests failed", sl.Err(err))
		if _, cerr := s.mutate(context.Background(), op, groupId, group.CancelRequests); cerr != nil {
			log.Warn("Failed to mark requests cancelled", sl.Err(cerr))
		}
	}
}

// CancelPaymentRequests stops an in-flight dispatch. Members already notified
// stay notified.
func (s *GroupService) CancelPaymentRequests(ctx context.Context, groupId string) (models.Group, error) {
	const op = "service.group.CancelPaymentRequests"
	log := s.log.With("op", op, "group_id", groupId)

	select {
	case <-ctx.Done():
		log.Warn("Context is over", sl.Err(ctx.Err()))
		return models.Group{}, fmt.Errorf("%s: %w", op, serviceerrors.Translate(ctx.Err()))
	default:
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	g, err := s.apply(ctx, log, op, groupId, group.CancelRequests)
	if err != nil {
		return models.Group{}, err
	}

	if d, ok := s.inflight[groupId]; ok {
		d.cancel()
	}

	return g, nil
}

func (s *GroupService) AcknowledgePayment(ctx context.Context, groupId, memberId string) (models.Group, error) {
	return s.mutate(ctx, "service.group.AcknowledgePayment", groupId, func(g models.Group) (models.Group, error) {
		return group.AcknowledgePayment(g, memberId)
	})
}

func (s *GroupService) split(g models.Group, policy split.Policy, overrides map[string]decimal.Decimal) (split.Result, error) {
	res, err := split.Compute(g.Members, s.rules.DeliveryFee, s.rules.TaxRate, policy, overrides)
	if err != nil {
		return split.Result{}, err
	}
	if s.metrics != nil {
		s.metrics.SplitComputed(string(policy))
	}
	return res, nil
}

func (s *GroupService) record(result string) {
	if s.metrics != nil {
		s.metrics.PaymentRequest(result)
	}
}

// mutate loads a group, applies fn and stores the result under the service lock.
func (s *GroupService) mutate(ctx context.Context, op, groupId string, fn func(models.Group) (models.Group, error)) (models.Group, error) {
	log := s.log.With("op", op, "group_id", groupId)

	select {
	case <-ctx.Done():
		log.Warn("Context is over", sl.Err(ctx.Err()))
		return models.Group{}, fmt.Errorf("%s: %w", op, serviceerrors.Translate(ctx.Err()))
	default:
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.apply(ctx, log, op, groupId, fn)
}

func (s *GroupService) apply(ctx context.Context, log *slog.Logger, op, groupId string, fn func(models.Group) (models.Group, error)) (models.Group, error) {
	g, err := s.storage.GetGroup(ctx, groupId)
	if err != nil {
		return models.Group{}, fail(log, op, "Failed to get group", err)
	}

	next, err := fn(g)
	if err != nil {
		log.Warn("Rejected change", sl.Err(err))
		return models.Group{}, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.storage.SaveGroup(ctx, next); err != nil {
		return models.Group{}, fail(log, op, "Failed to save group", err)
	}

	return next, nil
}

func fail(log *slog.Logger, op, msg string, err error) error {
	if serviceerrors.Expected(err) {
		log.Warn(msg, sl.Err(err))
	} else {
		log.Error(msg, sl.Err(err))
	}
	return fmt.Errorf("%s: %w", op, serviceerrors.Translate(err))
}
