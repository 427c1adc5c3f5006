package dto

import (
	"time"

	"timeTracker/internal/models/item"
	"timeTracker/internal/models/timer"
)

type CreateItemRequest struct {
	Text    string  `json:"text"`
	TagIDs  []int64 `json:"tag_ids,omitempty"`
	ListIDs []int64 `json:"list_ids,omitempty"`
}

type UpdateItemRequest struct {
	Text   *string `json:"text,omitempty"`
	Status *string `json:"status,omitempty"`
}

type CreateTagRequest struct {
	Text  string `json:"text"`
	Color string `json:"color"`
}

type CreateListRequest struct {
	Name string `json:"name"`
}

type ItemResponse struct {
	ID        int64      `json:"id"`
	Text      string     `json:"text"`
	Status    string     `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
	Version   int        `json:"version"`
}

// ViewResponse: задача со сводным таймером.
// start уже сдвинут на длительность прошлых сессий.
type ViewResponse struct {
	ID             int64       `json:"id"`
	Text           string      `json:"text"`
	Status         string      `json:"status"`
	Start          *time.Time  `json:"start,omitempty"`
	Stop           *time.Time  `json:"stop,omitempty"`
	Running        bool        `json:"running"`
	ElapsedSeconds int64       `json:"elapsed_seconds"`
	Tags           []item.Tag  `json:"tags"`
	Lists          []item.List `json:"lists"`
}

type TimerResponse struct {
	ID     int64      `json:"id"`
	ItemID int64      `json:"item_id"`
	Start  time.Time  `json:"start"`
	Stop   *time.Time `json:"stop,omitempty"`
}

func FromItem(it *item.Item) ItemResponse {
	return ItemResponse{
		ID:        it.ID,
		Text:      it.Text,
		Status:    it.Status.String(),
		CreatedAt: it.CreatedAt,
		UpdatedAt: it.UpdatedAt,
		Version:   it.Version,
	}
}

func FromView(v item.View, now time.Time) ViewResponse {
	tags := v.Tags
	if tags == nil {
		tags = []item.Tag{}
	}
	lists := v.Lists
	if lists == nil {
		lists = []item.List{}
	}
	return ViewResponse{
		ID:             v.ID,
		Text:           v.Text,
		Status:         v.Status.String(),
		Start:          v.Start,
		Stop:           v.Stop,
		Running:        v.Running(),
		ElapsedSeconds: int64(v.Elapsed(now) / time.Second),
		Tags:           tags,
		Lists:          lists,
	}
}

func FromViewList(views []item.View, now time.Time) []ViewResponse {
	result := make([]ViewResponse, len(views))
	for i, v := range views {
		result[i] = FromView(v, now)
	}
	return result
}

func FromTimer(t *timer.Timer) TimerResponse {
	return TimerResponse{
		ID:     t.ID,
		ItemID: t.ItemID,
		Start:  t.Start,
		Stop:   t.Stop,
	}
}
