package mocks

import (
	"context"

	"smartswiggy/internal/models"
	"smartswiggy/internal/split"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

type Service struct {
	mock.Mock
}

func (m *Service) CreateGroup(ctx context.Context, name, hostName string) (models.Group, error) {
	args := m.Called(ctx, name, hostName)
	return args.Get(0).(models.Group), args.Error(1)
}

func (m *Service) JoinGroup(ctx context.Context, code, name string) (models.Group, models.Member, error) {
	args := m.Called(ctx, code, name)
	return args.Get(0).(models.Group), args.Get(1).(models.Member), args.Error(2)
}

func (m *Service) GetGroup(ctx context.Context, groupId string) (models.Group, error) {
	args := m.Called(ctx, groupId)
	return args.Get(0).(models.Group), args.Error(1)
}

func (m *Service) AddMember(ctx context.Context, groupId, name string) (models.Group, models.Member, error) {
	args := m.Called(ctx, groupId, name)
	return args.Get(0).(models.Group), args.Get(1).(models.Member), args.Error(2)
}

func (m *Service) RenameMember(ctx context.Context, groupId, memberId, name string) (models.Group, error) {
	args := m.Called(ctx, groupId, memberId, name)
	return args.Get(0).(models.Group), args.Error(1)
}

func (m *Service) RemoveMember(ctx context.Context, groupId, memberId string) (models.Group, error) {
	args := m.Called(ctx, groupId, memberId)
	return args.Get(0).(models.Group), args.Error(1)
}

func (m *Service) SetMemberItem(ctx context.Context, groupId, memberId string, line models.LineItem) (models.Group, error) {
	args := m.Called(ctx, groupId, memberId, line)
	return args.Get(0).(models.Group), args.Error(1)
}

func (m *Service) BeginSplit(ctx context.Context, groupId string) (models.Group, error) {
	args := m.Called(ctx, groupId)
	return args.Get(0).(models.Group), args.Error(1)
}

func (m *Service) BackToActive(ctx context.Context, groupId string) (models.Group, error) {
	args := m.Called(ctx, groupId)
	return args.Get(0).(models.Group), args.Error(1)
}

func (m *Service) ComputeSplit(ctx context.Context, groupId string, policy split.Policy, overrides map[string]decimal.Decimal) (split.Result, error) {
	args := m.Called(ctx, groupId, policy, overrides)
	return args.Get(0).(split.Result), args.Error(1)
}

func (m *Service) SendPaymentRequests(ctx context.Context, groupId string, policy split.Policy, overrides map[string]decimal.Decimal) (models.Group, error) {
	args := m.Called(ctx, groupId, policy, overrides)
	return args.Get(0).(models.Group), args.Error(1)
}

func (m *Service) CancelPaymentRequests(ctx context.Context, groupId string) (models.Group, error) {
	args := m.Called(ctx, groupId)
	return args.Get(0).(models.Group), args.Error(1)
}

func (m *Service) AcknowledgePayment(ctx context.Context, groupId, memberId string) (models.Group, error) {
	args := m.Called(ctx, groupId, memberId)
	return args.Get(0).(models.Group), args.Error(1)
}
