package mocks

import (
	"context"

	"smartswiggy/internal/models"

	"github.com/stretchr/testify/mock"
)

type Storage struct {
	mock.Mock
}

func (m *Storage) CreateGroup(ctx context.Context, g models.Group) error {
	args := m.Called(ctx, g)
	return args.Error(0)
}

func (m *Storage) GetGroup(ctx context.Context, id string) (models.Group, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.Group), args.Error(1)
}

func (m *Storage) GetGroupByCode(ctx context.Context, code string) (models.Group, error) {
	args := m.Called(ctx, code)
	return args.Get(0).(models.Group), args.Error(1)
}

func (m *Storage) SaveGroup(ctx context.Context, g models.Group) error {
	args := m.Called(ctx, g)
	return args.Error(0)
}

type Metrics struct {
	mock.Mock
}

func (m *Metrics) SplitComputed(policy string) {
	m.Called(policy)
}

func (m *Metrics) PaymentRequest(result string) {
	m.Called(result)
}
