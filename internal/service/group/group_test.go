package groupservice_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"smartswiggy/internal/catalog"
	databaseerrors "smartswiggy/internal/database"
	"smartswiggy/internal/database/memory"
	"smartswiggy/internal/group"
	"smartswiggy/internal/models"
	"smartswiggy/internal/paymentrequest"
	"smartswiggy/internal/pricing"
	serviceerrors "smartswiggy/internal/service"
	groupservice "smartswiggy/internal/service/group"
	"smartswiggy/internal/service/group/mocks"
	"smartswiggy/internal/split"
	"smartswiggy/pkg/lib/logger/slogdiscard"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newService(t *testing.T, storage groupservice.GroupStorage, interval time.Duration) *groupservice.GroupService {
	log := slogdiscard.NewDiscardLogger()
	dispatcher := paymentrequest.New(log, paymentrequest.NewLogNotifier(log), interval)
	svc := groupservice.New(log, storage, dispatcher, pricing.DefaultRules(), nil)
	t.Cleanup(svc.Close)
	return svc
}

func newMemoryService(t *testing.T, interval time.Duration) *groupservice.GroupService {
	return newService(t, memory.New(slogdiscard.NewDiscardLogger()), interval)
}

// seedGroup builds the three member group used across the split examples.
func seedGroup(t *testing.T, svc *groupservice.GroupService) models.Group {
	ctx := context.Background()

	g, err := svc.CreateGroup(ctx, "Friday lunch", "You")
	require.NoError(t, err)

	g, _, err = svc.JoinGroup(ctx, strings.ToLower(g.Code), "Rahul")
	require.NoError(t, err)
	g, _, err = svc.JoinGroup(ctx, g.Code, "Priya")
	require.NoError(t, err)

	prices := []models.Money{400, 299, 298}
	for i, m := range g.Members {
		g, err = svc.SetMemberItem(ctx, g.Id, m.Id, models.LineItem{Id: i + 1, Name: "Dish", UnitPrice: prices[i], Quantity: 1})
		require.NoError(t, err)
	}

	return g
}

func payables(res split.Result) []string {
	out := make([]string, len(res.Payables))
	for i, p := range res.Payables {
		out[i] = p.Payable.StringFixed(2)
	}
	return out
}

func TestCreateGroup(t *testing.T) {
	svc := newMemoryService(t, time.Millisecond)

	g, err := svc.CreateGroup(context.Background(), "Friday lunch", "You")
	require.NoError(t, err)

	assert.Equal(t, models.GroupActive, g.State)
	assert.Len(t, g.Code, group.CodeLength)
	assert.Equal(t, strings.ToUpper(g.Code), g.Code)
	host, ok := g.Host()
	require.True(t, ok)
	assert.Equal(t, "You", host.DisplayName)

	stored, err := svc.GetGroup(context.Background(), g.Id)
	require.NoError(t, err)
	assert.Equal(t, g.Id, stored.Id)
}

func TestCreateGroup_EmptyHostName(t *testing.T) {
	svc := newMemoryService(t, time.Millisecond)

	_, err := svc.CreateGroup(context.Background(), "Friday lunch", "  ")
	assert.ErrorIs(t, err, group.ErrEmptyName)
}

func TestCreateGroup_RetriesTakenCode(t *testing.T) {
	storage := new(mocks.Storage)
	storage.On("CreateGroup", mock.Anything, mock.Anything).Return(databaseerrors.ErrConflict).Once()
	storage.On("CreateGroup", mock.Anything, mock.Anything).Return(nil).Once()

	svc := newService(t, storage, time.Millisecond)
	_, err := svc.CreateGroup(context.Background(), "", "You")

	assert.NoError(t, err)
	storage.AssertExpectations(t)
}

func TestCreateGroup_GivesUpOnConflict(t *testing.T) {
	storage := new(mocks.Storage)
	storage.On("CreateGroup", mock.Anything, mock.Anything).Return(databaseerrors.ErrConflict).Times(3)

	svc := newService(t, storage, time.Millisecond)
	_, err := svc.CreateGroup(context.Background(), "", "You")

	assert.ErrorIs(t, err, databaseerrors.ErrConflict)
	storage.AssertExpectations(t)
}

func TestJoinGroup(t *testing.T) {
	svc := newMemoryService(t, time.Millisecond)
	g, err := svc.CreateGroup(context.Background(), "", "You")
	require.NoError(t, err)

	t.Run("Unnamed guest", func(t *testing.T) {
		joined, m, err := svc.JoinGroup(context.Background(), " "+strings.ToLower(g.Code)+" ", "")
		require.NoError(t, err)
		assert.Equal(t, "Guest 2", m.DisplayName)
		assert.Len(t, joined.Members, 2)
	})

	t.Run("Unknown code", func(t *testing.T) {
		_, _, err := svc.JoinGroup(context.Background(), "ZZZZZZ", "Rahul")
		assert.ErrorIs(t, err, serviceerrors.ErrNotFound)
	})
}

func TestRoster(t *testing.T) {
	ctx := context.Background()
	svc := newMemoryService(t, time.Millisecond)

	g, err := svc.CreateGroup(ctx, "", "You")
	require.NoError(t, err)
	host, _ := g.Host()

	g, rahul, err := svc.AddMember(ctx, g.Id, "Rahul")
	require.NoError(t, err)

	g, err = svc.RenameMember(ctx, g.Id, rahul.Id, "Rahul K")
	require.NoError(t, err)
	assert.Equal(t, "Rahul K", g.Members[1].DisplayName)

	_, err = svc.RemoveMember(ctx, g.Id, host.Id)
	assert.ErrorIs(t, err, group.ErrHostRemoval)

	_, err = svc.RemoveMember(ctx, g.Id, "nobody")
	assert.ErrorIs(t, err, group.ErrMemberNotFound)

	g, err = svc.RemoveMember(ctx, g.Id, rahul.Id)
	require.NoError(t, err)
	assert.Len(t, g.Members, 1)
}

func TestSetMemberItem(t *testing.T) {
	ctx := context.Background()
	svc := newMemoryService(t, time.Millisecond)

	g, err := svc.CreateGroup(ctx, "", "You")
	require.NoError(t, err)
	host, _ := g.Host()
	line := models.LineItem{Id: 1, Name: "Margherita", UnitPrice: 299, Quantity: 2}

	g, err = svc.SetMemberItem(ctx, g.Id, host.Id, line)
	require.NoError(t, err)
	assert.Equal(t, []models.LineItem{line}, g.Members[0].Items)

	line.Quantity = -1
	_, err = svc.SetMemberItem(ctx, g.Id, host.Id, line)
	assert.ErrorIs(t, err, pricing.ErrInvalidQuantity)

	line.Quantity = 0
	g, err = svc.SetMemberItem(ctx, g.Id, host.Id, line)
	require.NoError(t, err)
	assert.Empty(t, g.Members[0].Items)
}

func TestSetMemberItem_PricesFromMenu(t *testing.T) {
	ctx := context.Background()
	svc := newMemoryService(t, time.Millisecond).WithMenu(catalog.Default())

	g, err := svc.CreateGroup(ctx, "", "You")
	require.NoError(t, err)
	host, _ := g.Host()

	g, err = svc.SetMemberItem(ctx, g.Id, host.Id, models.LineItem{Id: 3, Name: "Veggie", UnitPrice: 5, Quantity: 1})
	require.NoError(t, err)
	assert.Equal(t, []models.LineItem{{Id: 3, Name: "Veggie Supreme Pizza", UnitPrice: 329, Quantity: 1}}, g.Members[0].Items)

	_, err = svc.SetMemberItem(ctx, g.Id, host.Id, models.LineItem{Id: 404, Name: "Ghost", UnitPrice: 5, Quantity: 1})
	assert.ErrorIs(t, err, catalog.ErrMenuItemNotFound)

	g, err = svc.SetMemberItem(ctx, g.Id, host.Id, models.LineItem{Id: 3, Quantity: 0})
	require.NoError(t, err)
	assert.Empty(t, g.Members[0].Items)
}

func TestComputeSplit(t *testing.T) {
	svc := newMemoryService(t, time.Millisecond)
	g := seedGroup(t, svc)

	tests := []struct {
		name      string
		policy    split.Policy
		overrides map[string]decimal.Decimal
		want      []string
		errType   error
	}{
		{name: "Equal", policy: split.PolicyEqual, want: []string{"362.33", "362.33", "362.34"}},
		{name: "By item", policy: split.PolicyByItem, want: []string{"430.00", "329.00", "328.00"}},
		{
			name:      "Custom",
			policy:    split.PolicyCustom,
			overrides: map[string]decimal.Decimal{g.Members[0].Id: decimal.NewFromInt(500)},
			want:      []string{"500.00", "362.33", "362.34"},
		},
		{name: "Unknown policy", policy: split.Policy("weighted"), errType: split.ErrInvalidPolicy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := svc.ComputeSplit(context.Background(), g.Id, tt.policy, tt.overrides)
			if tt.errType != nil {
				assert.ErrorIs(t, err, tt.errType)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, models.Money(1087), res.GrandTotal)
			assert.Equal(t, tt.want, payables(res))
		})
	}
}

func TestComputeSplit_RecordsMetric(t *testing.T) {
	storage := new(mocks.Storage)
	storage.On("GetGroup", mock.Anything, "g1").Return(models.Group{
		Id:      "g1",
		Members: []models.Member{{Id: "m1", IsHost: true}},
	}, nil)
	metrics := new(mocks.Metrics)
	metrics.On("SplitComputed", "equal").Once()

	log := slogdiscard.NewDiscardLogger()
	svc := groupservice.New(log, storage, paymentrequest.New(log, paymentrequest.NewLogNotifier(log), time.Millisecond), pricing.DefaultRules(), metrics)
	t.Cleanup(svc.Close)

	res, err := svc.ComputeSplit(context.Background(), "g1", split.PolicyEqual, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"40.00"}, payables(res))
	metrics.AssertExpectations(t)
}

func TestPaymentRequests_SettleGroup(t *testing.T) {
	ctx := context.Background()
	svc := newMemoryService(t, time.Millisecond)
	g := seedGroup(t, svc)

	_, err := svc.SendPaymentRequests(ctx, g.Id, split.PolicyEqual, nil)
	assert.ErrorIs(t, err, group.ErrInvalidTransition)

	_, err = svc.BeginSplit(ctx, g.Id)
	require.NoError(t, err)

	started, err := svc.SendPaymentRequests(ctx, g.Id, split.PolicyByItem, nil)
	require.NoError(t, err)
	assert.Equal(t, models.RequestsSending, started.Requests.State)
	assert.Equal(t, 3, started.Requests.Total)

	assert.Eventually(t, func() bool {
		cur, err := svc.GetGroup(ctx, g.Id)
		return err == nil && cur.Requests.State == models.RequestsSent && cur.Requests.Sent == 3
	}, time.Second, 5*time.Millisecond)

	var cur models.Group
	for _, m := range g.Members {
		cur, err = svc.AcknowledgePayment(ctx, g.Id, m.Id)
		require.NoError(t, err)
	}
	assert.Equal(t, models.GroupSettled, cur.State)

	_, _, err = svc.AddMember(ctx, g.Id, "Late")
	assert.ErrorIs(t, err, group.ErrInvalidTransition)
}

func TestPaymentRequests_Cancel(t *testing.T) {
	ctx := context.Background()
	svc := newMemoryService(t, time.Hour)
	g := seedGroup(t, svc)

	_, err := svc.BeginSplit(ctx, g.Id)
	require.NoError(t, err)
	_, err = svc.SendPaymentRequests(ctx, g.Id, split.PolicyEqual, nil)
	require.NoError(t, err)

	_, err = svc.BackToActive(ctx, g.Id)
	assert.ErrorIs(t, err, group.ErrInvalidTransition)

	cancelled, err := svc.CancelPaymentRequests(ctx, g.Id)
	require.NoError(t, err)
	assert.Equal(t, models.RequestsCancelled, cancelled.Requests.State)
	assert.LessOrEqual(t, cancelled.Requests.Sent, 1)

	_, err = svc.CancelPaymentRequests(ctx, g.Id)
	assert.ErrorIs(t, err, group.ErrInvalidTransition)

	back, err := svc.BackToActive(ctx, g.Id)
	require.NoError(t, err)
	assert.Equal(t, models.GroupActive, back.State)
	assert.Equal(t, models.RequestsIdle, back.Requests.State)
}

func TestClose_StopsDispatch(t *testing.T) {
	ctx := context.Background()
	storage := memory.New(slogdiscard.NewDiscardLogger())
	log := slogdiscard.NewDiscardLogger()
	svc := groupservice.New(log, storage, paymentrequest.New(log, paymentrequest.NewLogNotifier(log), time.Hour), pricing.DefaultRules(), nil)

	g := seedGroup(t, svc)
	_, err := svc.BeginSplit(ctx, g.Id)
	require.NoError(t, err)
	_, err = svc.SendPaymentRequests(ctx, g.Id, split.PolicyEqual, nil)
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		svc.Close()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Close did not return")
	}

	stored, err := storage.GetGroup(ctx, g.Id)
	require.NoError(t, err)
	assert.Equal(t, models.RequestsCancelled, stored.Requests.State)
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		storageErr error
		want       error
	}{
		{name: "Not found", storageErr: databaseerrors.ErrNotFound, want: serviceerrors.ErrNotFound},
		{name: "Canceled", storageErr: context.Canceled, want: serviceerrors.ErrContextCanceled},
		{name: "Deadline", storageErr: context.DeadlineExceeded, want: serviceerrors.ErrDeadlineExceeded},
		{name: "Other", storageErr: errors.New("connection reset")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storage := new(mocks.Storage)
			storage.On("GetGroup", mock.Anything, "g1").Return(models.Group{}, tt.storageErr)
			svc := newService(t, storage, time.Millisecond)

			_, err := svc.RenameMember(context.Background(), "g1", "m1", "Rahul")
			if tt.want != nil {
				assert.ErrorIs(t, err, tt.want)
			} else {
				assert.ErrorIs(t, err, tt.storageErr)
			}
			storage.AssertNotCalled(t, "SaveGroup", mock.Anything, mock.Anything)
		})
	}
}

func TestContextCanceledBeforeCall(t *testing.T) {
	storage := new(mocks.Storage)
	svc := newService(t, storage, time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.GetGroup(ctx, "g1")
	assert.ErrorIs(t, err, serviceerrors.ErrContextCanceled)
	_, err = svc.BeginSplit(ctx, "g1")
	assert.ErrorIs(t, err, serviceerrors.ErrContextCanceled)
	_, _, err = svc.JoinGroup(ctx, "ABC123", "Rahul")
	assert.ErrorIs(t, err, serviceerrors.ErrContextCanceled)

	storage.AssertExpectations(t)
}
