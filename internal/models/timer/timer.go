package timer

import (
	"time"

	"timeTracker/internal/models/item"
)

type Timer struct {
	ID     int64      `json:"id" db:"id"`
	ItemID int64      `json:"item_id" db:"item_id"`
	UserID int64      `json:"user_id" db:"user_id"`
	Start  time.Time  `json:"start" db:"start"`
	Stop   *time.Time `json:"stop,omitempty" db:"stop"`
}

func (t Timer) Running() bool {
	return t.Stop == nil
}

// Row is one line of the items ⟕ timers projection: either WithTimer or WithoutTimer.
type Row interface {
	ItemFields() item.Item
	isRow()
}

type WithTimer struct {
	Item  item.Item
	Timer Timer
}

// WithoutTimer stands for an item that has no timers at all.
type WithoutTimer struct {
	Item item.Item
}

func (r WithTimer) ItemFields() item.Item    { return r.Item }
func (r WithoutTimer) ItemFields() item.Item { return r.Item }

func (WithTimer) isRow()    {}
func (WithoutTimer) isRow() {}

// TimerID returns the timer id of a row, or 0 for rows without a timer.
func TimerID(r Row) int64 {
	if wt, ok := r.(WithTimer); ok {
		return wt.Timer.ID
	}
	return 0
}
