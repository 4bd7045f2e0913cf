package mocks

import (
	"context"

	"smartswiggy/internal/models"

	"github.com/stretchr/testify/mock"
)

type Service struct {
	mock.Mock
}

func (m *Service) CreateCart(ctx context.Context) (models.PricedCart, error) {
	args := m.Called(ctx)
	return args.Get(0).(models.PricedCart), args.Error(1)
}

func (m *Service) SetQuantity(ctx context.Context, cartId int, line models.LineItem) (models.PricedCart, error) {
	args := m.Called(ctx, cartId, line)
	return args.Get(0).(models.PricedCart), args.Error(1)
}

func (m *Service) RemoveFromCart(ctx context.Context, cartId int, itemId int) error {
	args := m.Called(ctx, cartId, itemId)
	return args.Error(0)
}

func (m *Service) ViewCart(ctx context.Context, cartId int) (models.PricedCart, error) {
	args := m.Called(ctx, cartId)
	return args.Get(0).(models.PricedCart), args.Error(1)
}
