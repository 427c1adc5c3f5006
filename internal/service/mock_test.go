package service_test

import (
	"context"
	"time"

	"timeTracker/internal/models/item"
	"timeTracker/internal/models/timer"
	"timeTracker/internal/service"

	"github.com/stretchr/testify/mock"
)

// MockRepository - мок репозитория
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) HealthCheck(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockRepository) CreateItem(ctx context.Context, it *item.Item) error {
	args := m.Called(ctx, it)
	return args.Error(0)
}

func (m *MockRepository) GetItem(ctx context.Context, id int64) (*item.Item, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*item.Item), args.Error(1)
}

func (m *MockRepository) UpdateItem(ctx context.Context, it *item.Item) error {
	args := m.Called(ctx, it)
	return args.Error(0)
}

func (m *MockRepository) TimerRows(ctx context.Context, ownerID int64) ([]timer.Row, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]timer.Row), args.Error(1)
}

func (m *MockRepository) Associations(ctx context.Context, ownerID int64, itemIDs []int64) (map[int64]item.Associations, error) {
	args := m.Called(ctx, ownerID, itemIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int64]item.Associations), args.Error(1)
}

func (m *MockRepository) CreateTag(ctx context.Context, tag *item.Tag) error {
	args := m.Called(ctx, tag)
	return args.Error(0)
}

func (m *MockRepository) ListTags(ctx context.Context, ownerID int64) ([]item.Tag, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]item.Tag), args.Error(1)
}

func (m *MockRepository) CreateList(ctx context.Context, list *item.List) error {
	args := m.Called(ctx, list)
	return args.Error(0)
}

func (m *MockRepository) ListLists(ctx context.Context, ownerID int64) ([]item.List, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]item.List), args.Error(1)
}

func (m *MockRepository) AttachTags(ctx context.Context, itemID int64, tagIDs []int64) error {
	args := m.Called(ctx, itemID, tagIDs)
	return args.Error(0)
}

func (m *MockRepository) AttachLists(ctx context.Context, itemID int64, listIDs []int64) error {
	args := m.Called(ctx, itemID, listIDs)
	return args.Error(0)
}

func (m *MockRepository) RunningTimer(ctx context.Context, itemID int64) (*timer.Timer, error) {
	args := m.Called(ctx, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*timer.Timer), args.Error(1)
}

func (m *MockRepository) StartTimer(ctx context.Context, t *timer.Timer) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockRepository) StopTimer(ctx context.Context, timerID int64, stop time.Time) error {
	args := m.Called(ctx, timerID, stop)
	return args.Error(0)
}

func (m *MockRepository) RunningSince(ctx context.Context, before time.Time, limit int) ([]*timer.Timer, error) {
	args := m.Called(ctx, before, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*timer.Timer), args.Error(1)
}

var _ service.Repository = (*MockRepository)(nil)
