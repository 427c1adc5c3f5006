package handlers

import (
	"context"

	"timeTracker/internal/models/item"
	"timeTracker/internal/models/timer"
)

type Service interface {
	HealthCheck(context.Context) error
	ListItems(ctx context.Context, ownerID int64) ([]item.View, error)
	CreateItem(ctx context.Context, ownerID int64, text string, tagIDs, listIDs []int64) (*item.Item, error)
	GetItem(ctx context.Context, ownerID, id int64) (*item.Item, error)
	UpdateItem(ctx context.Context, ownerID, id int64, options ...item.ItemOption) (*item.Item, error)
	ToggleItem(ctx context.Context, ownerID, id int64) (*item.Item, error)
	ArchiveItem(ctx context.Context, ownerID, id int64) error
	StartTimer(ctx context.Context, ownerID, itemID int64) (*timer.Timer, error)
	StopTimer(ctx context.Context, ownerID, itemID int64) (*timer.Timer, error)
	CreateTag(ctx context.Context, ownerID int64, text, color string) (*item.Tag, error)
	ListTags(ctx context.Context, ownerID int64) ([]item.Tag, error)
	CreateList(ctx context.Context, ownerID int64, name string) (*item.List, error)
	ListLists(ctx context.Context, ownerID int64) ([]item.List, error)
}
