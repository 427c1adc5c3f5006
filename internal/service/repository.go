package service

import (
	"context"
	"time"

	"timeTracker/internal/models/item"
	"timeTracker/internal/models/timer"
)

type ItemRepository interface {
	HealthCheck(context.Context) error
	CreateItem(context.Context, *item.Item) error
	GetItem(context.Context, int64) (*item.Item, error)
	UpdateItem(context.Context, *item.Item) error
	TimerRows(ctx context.Context, ownerID int64) ([]timer.Row, error)
	Associations(ctx context.Context, ownerID int64, itemIDs []int64) (map[int64]item.Associations, error)
	CreateTag(context.Context, *item.Tag) error
	ListTags(ctx context.Context, ownerID int64) ([]item.Tag, error)
	CreateList(context.Context, *item.List) error
	ListLists(ctx context.Context, ownerID int64) ([]item.List, error)
	AttachTags(ctx context.Context, itemID int64, tagIDs []int64) error
	AttachLists(ctx context.Context, itemID int64, listIDs []int64) error
}

type TimerRepository interface {
	RunningTimer(ctx context.Context, itemID int64) (*timer.Timer, error)
	StartTimer(context.Context, *timer.Timer) error
	StopTimer(ctx context.Context, timerID int64, stop time.Time) error
	RunningSince(ctx context.Context, before time.Time, limit int) ([]*timer.Timer, error)
}

type Repository interface {
	ItemRepository
	TimerRepository
}
