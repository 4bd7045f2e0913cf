package cartservice_test

import (
	"context"
	"errors"
	"slices"
	"sync"
	"testing"
	"time"

	"smartswiggy/internal/catalog"
	databaseerrors "smartswiggy/internal/database"
	"smartswiggy/internal/database/memory"
	"smartswiggy/internal/models"
	"smartswiggy/internal/pricing"
	serviceerrors "smartswiggy/internal/service"
	cartservice "smartswiggy/internal/service/cart"
	"smartswiggy/internal/service/cart/mocks"
	"smartswiggy/pkg/lib/logger/slogdiscard"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	biryani = models.LineItem{Id: 1, Name: "Chicken Biryani", Restaurant: "Biryani Blues", UnitPrice: 280, Quantity: 1}
	tikka   = models.LineItem{Id: 2, Name: "Paneer Tikka", Restaurant: "Biryani Blues", UnitPrice: 320, Quantity: 1}
)

func newTestService(storage *mocks.Storage) *cartservice.CartApiService {
	logger := slogdiscard.NewDiscardLogger()
	return cartservice.New(logger, storage, pricing.DefaultRules(), nil)
}

func canceledCtx() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	return ctx
}

func expiredCtx(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), time.Millisecond*10)
	t.Cleanup(cancel)
	time.Sleep(time.Millisecond * 15)
	return ctx
}

func TestContextOver(t *testing.T) {
	calls := map[string]func(ctx context.Context, svc *cartservice.CartApiService) error{
		"CreateCart": func(ctx context.Context, svc *cartservice.CartApiService) error {
			_, err := svc.CreateCart(ctx)
			return err
		},
		"SetQuantity": func(ctx context.Context, svc *cartservice.CartApiService) error {
			_, err := svc.SetQuantity(ctx, 1, biryani)
			return err
		},
		"RemoveFromCart": func(ctx context.Context, svc *cartservice.CartApiService) error {
			return svc.RemoveFromCart(ctx, 1, 1)
		},
		"ViewCart": func(ctx context.Context, svc *cartservice.CartApiService) error {
			_, err := svc.ViewCart(ctx, 1)
			return err
		},
	}

	for name, call := range calls {
		t.Run(name+" canceled", func(t *testing.T) {
			mockStorage := new(mocks.Storage)
			err := call(canceledCtx(), newTestService(mockStorage))
			assert.ErrorIs(t, err, serviceerrors.ErrContextCanceled)
			mockStorage.AssertExpectations(t)
		})

		t.Run(name+" deadline exceeded", func(t *testing.T) {
			mockStorage := new(mocks.Storage)
			err := call(expiredCtx(t), newTestService(mockStorage))
			assert.ErrorIs(t, err, serviceerrors.ErrDeadlineExceeded)
			mockStorage.AssertExpectations(t)
		})
	}
}

func TestCreateCart(t *testing.T) {
	tests := []struct {
		name       string
		mockReturn func(*mocks.Storage)
		want       models.PricedCart
		wantErr    bool
	}{
		{
			name: "Success",
			mockReturn: func(s *mocks.Storage) {
				s.On("CreateCart", mock.Anything).Return(models.Cart{Id: 7}, nil)
			},
			want: models.PricedCart{
				Cart:      models.Cart{Id: 7, Items: []models.LineItem{}},
				Breakdown: models.PricingBreakdown{DeliveryFee: 40, Total: 40},
			},
		},
		{
			name: "Storage failure",
			mockReturn: func(s *mocks.Storage) {
				s.On("CreateCart", mock.Anything).Return(models.Cart{}, errors.New("db down"))
			},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockStorage := new(mocks.Storage)
			tt.mockReturn(mockStorage)
			svc := newTestService(mockStorage)

			got, err := svc.CreateCart(context.Background())
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
			mockStorage.AssertExpectations(t)
		})
	}
}

func TestSetQuantity(t *testing.T) {
	tests := []struct {
		name       string
		line       models.LineItem
		mockReturn func(*mocks.Storage)
		wantItems  []models.LineItem
		wantTotal  models.Money
		errType    error
	}{
		{
			name: "Adds new line",
			line: tikka,
			mockReturn: func(s *mocks.Storage) {
				s.On("ViewCart", mock.Anything, 1).Return(models.Cart{Id: 1, Items: []models.LineItem{biryani}}, nil)
				s.On("SaveItem", mock.Anything, 1, tikka).Return(nil)
			},
			wantItems: []models.LineItem{biryani, tikka},
			wantTotal: 670,
		},
		{
			name: "Updates quantity",
			line: models.LineItem{Id: 1, Name: "Chicken Biryani", Restaurant: "Biryani Blues", UnitPrice: 280, Quantity: 3},
			mockReturn: func(s *mocks.Storage) {
				s.On("ViewCart", mock.Anything, 1).Return(models.Cart{Id: 1, Items: []models.LineItem{biryani}}, nil)
				s.On("SaveItem", mock.Anything, 1, mock.MatchedBy(func(it models.LineItem) bool { return it.Quantity == 3 })).Return(nil)
			},
			wantItems: []models.LineItem{{Id: 1, Name: "Chicken Biryani", Restaurant: "Biryani Blues", UnitPrice: 280, Quantity: 3}},
			wantTotal: 922,
		},
		{
			name: "Zero removes line",
			line: models.LineItem{Id: 2, Name: "Paneer Tikka", Quantity: 0},
			mockReturn: func(s *mocks.Storage) {
				s.On("ViewCart", mock.Anything, 1).Return(models.Cart{Id: 1, Items: []models.LineItem{biryani, tikka}}, nil)
				s.On("RemoveFromCart", mock.Anything, 1, 2).Return(nil)
			},
			wantItems: []models.LineItem{biryani},
			wantTotal: 334,
		},
		{
			name:       "Negative quantity",
			line:       models.LineItem{Id: 2, Name: "Paneer Tikka", Quantity: -1},
			mockReturn: func(s *mocks.Storage) {},
			errType:    pricing.ErrInvalidQuantity,
		},
		{
			name: "Cart not found",
			line: biryani,
			mockReturn: func(s *mocks.Storage) {
				s.On("ViewCart", mock.Anything, 1).Return(models.Cart{}, databaseerrors.ErrNotFound)
			},
			errType: serviceerrors.ErrNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockStorage := new(mocks.Storage)
			tt.mockReturn(mockStorage)
			svc := newTestService(mockStorage)

			got, err := svc.SetQuantity(context.Background(), 1, tt.line)
			if tt.errType != nil {
				assert.ErrorIs(t, err, tt.errType)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantItems, got.Cart.Items)
				assert.Equal(t, tt.wantTotal, got.Breakdown.Total)
			}
			mockStorage.AssertExpectations(t)
		})
	}
}

func TestRemoveFromCart(t *testing.T) {
	tests := []struct {
		name       string
		mockReturn func(*mocks.Storage)
		errType    error
	}{
		{
			name: "Success",
			mockReturn: func(s *mocks.Storage) {
				s.On("RemoveFromCart", mock.Anything, 1, 1).Return(nil)
			},
		},
		{
			name: "NotFound error",
			mockReturn: func(s *mocks.Storage) {
				s.On("RemoveFromCart", mock.Anything, 1, 1).Return(databaseerrors.ErrNotFound)
			},
			errType: serviceerrors.ErrNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockStorage := new(mocks.Storage)
			tt.mockReturn(mockStorage)
			svc := newTestService(mockStorage)

			err := svc.RemoveFromCart(context.Background(), 1, 1)
			if tt.errType != nil {
				assert.ErrorIs(t, err, tt.errType)
			} else {
				assert.NoError(t, err)
			}
			mockStorage.AssertExpectations(t)
		})
	}
}

func TestViewCart(t *testing.T) {
	tests := []struct {
		name       string
		mockReturn func(*mocks.Storage)
		want       models.PricedCart
		errType    error
	}{
		{
			name: "Success",
			mockReturn: func(s *mocks.Storage) {
				s.On("ViewCart", mock.Anything, 1).Return(models.Cart{Id: 1, Items: []models.LineItem{biryani, tikka}}, nil)
			},
			want: models.PricedCart{
				Cart:      models.Cart{Id: 1, Items: []models.LineItem{biryani, tikka}},
				Breakdown: models.PricingBreakdown{Subtotal: 600, DeliveryFee: 40, Tax: 30, Total: 670},
			},
		},
		{
			name: "NotFound error",
			mockReturn: func(s *mocks.Storage) {
				s.On("ViewCart", mock.Anything, 1).Return(models.Cart{}, databaseerrors.ErrNotFound)
			},
			errType: serviceerrors.ErrNotFound,
		},
		{
			name: "Storage deadline",
			mockReturn: func(s *mocks.Storage) {
				s.On("ViewCart", mock.Anything, 1).Return(models.Cart{}, context.DeadlineExceeded)
			},
			errType: serviceerrors.ErrDeadlineExceeded,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockStorage := new(mocks.Storage)
			tt.mockReturn(mockStorage)
			svc := newTestService(mockStorage)

			got, err := svc.ViewCart(context.Background(), 1)
			if tt.errType != nil {
				assert.ErrorIs(t, err, tt.errType)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
			mockStorage.AssertExpectations(t)
		})
	}
}

func TestViewCart_RecordsMetric(t *testing.T) {
	mockStorage := new(mocks.Storage)
	mockStorage.On("ViewCart", mock.Anything, 1).Return(models.Cart{Id: 1}, nil)
	metrics := new(mocks.Metrics)
	metrics.On("CartPriced").Once()

	svc := cartservice.New(slogdiscard.NewDiscardLogger(), mockStorage, pricing.DefaultRules(), metrics)
	_, err := svc.ViewCart(context.Background(), 1)

	assert.NoError(t, err)
	metrics.AssertExpectations(t)
}

func TestSetQuantity_PricesFromMenu(t *testing.T) {
	menu := catalog.Default()
	resolved := models.LineItem{Id: 21, Name: "Chicken Biryani", Restaurant: "Biryani Blues", UnitPrice: 280, Quantity: 2}

	mockStorage := new(mocks.Storage)
	mockStorage.On("ViewCart", mock.Anything, 1).Return(models.Cart{Id: 1}, nil)
	mockStorage.On("SaveItem", mock.Anything, 1, resolved).Return(nil)
	svc := newTestService(mockStorage).WithMenu(menu)

	got, err := svc.SetQuantity(context.Background(), 1, models.LineItem{Id: 21, Name: "Free Biryani", Restaurant: "Biryani Blues", UnitPrice: 1, Quantity: 2})
	require.NoError(t, err)
	assert.Equal(t, []models.LineItem{resolved}, got.Cart.Items)
	assert.Equal(t, models.Money(628), got.Breakdown.Total)
	mockStorage.AssertExpectations(t)

	_, err = svc.SetQuantity(context.Background(), 1, models.LineItem{Id: 500, Name: "Mystery", UnitPrice: 10, Quantity: 1})
	assert.ErrorIs(t, err, catalog.ErrMenuItemNotFound)
	mockStorage.AssertNumberOfCalls(t, "SaveItem", 1)
}

func TestSetQuantity_ConcurrentUpdates(t *testing.T) {
	log := slogdiscard.NewDiscardLogger()
	svc := cartservice.New(log, memory.New(log), pricing.DefaultRules(), nil)

	cart, err := svc.CreateCart(context.Background())
	require.NoError(t, err)

	const n = 20
	sizes := make(chan int, n)
	var wg sync.WaitGroup
	for i := 1; i <= n; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			got, err := svc.SetQuantity(context.Background(), cart.Cart.Id, models.LineItem{Id: id, Name: "Item", UnitPrice: 10, Quantity: 1})
			assert.NoError(t, err)
			sizes <- len(got.Cart.Items)
		}(i)
	}
	wg.Wait()
	close(sizes)

	// Each update sees every update stored before it.
	seen := make([]int, 0, n)
	for s := range sizes {
		seen = append(seen, s)
	}
	slices.Sort(seen)
	for i, s := range seen {
		assert.Equal(t, i+1, s)
	}

	final, err := svc.ViewCart(context.Background(), cart.Cart.Id)
	require.NoError(t, err)
	assert.Len(t, final.Cart.Items, n)
}
