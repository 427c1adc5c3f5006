// Package aggregate collapses the timer history of each item into one virtual timer.
//
// An item may have many start/stop sessions. The view layer only knows how to
// show a single timer, so the start of the most recent session is moved back by
// the sum of all earlier completed sessions. Stop-Start (or now-Start while it
// runs) then equals the total time worked on the item.
package aggregate

import (
	"fmt"
	"sort"
	"time"

	"timeTracker/internal/models/item"
	"timeTracker/internal/models/timer"
)

// noTimerKey is the reserved index key for rows of items without timers.
const noTimerKey int64 = 0

// TimerDiff returns the completed duration of t in whole seconds.
// A running timer counts as 0; the live part is added by whoever renders it.
// A stop before start is clamped to 0.
func TimerDiff(t timer.Timer) int64 {
	if t.Stop == nil {
		return 0
	}
	secs := int64(t.Stop.Sub(t.Start) / time.Second)
	if secs < 0 {
		return 0
	}
	return secs
}

// TimerDiffIndex maps every timer id in rows to its completed seconds.
// Rows without a timer share the key 0, mapped to 0.
func TimerDiffIndex(rows []timer.Row) map[int64]int64 {
	index := make(map[int64]int64, len(rows))
	for _, r := range rows {
		switch r := r.(type) {
		case timer.WithTimer:
			index[r.Timer.ID] = TimerDiff(r.Timer)
		case timer.WithoutTimer:
			index[noTimerKey] = 0
		}
	}
	return index
}

// ItemTimerIndex maps every item id in rows to its timer ids, in row order.
// Items without timers get an empty sequence.
func ItemTimerIndex(rows []timer.Row) map[int64][]int64 {
	index := make(map[int64][]int64)
	for _, r := range rows {
		id := r.ItemFields().ID
		ids, ok := index[id]
		if !ok {
			ids = []int64{}
		}
		if wt, ok := r.(timer.WithTimer); ok {
			ids = append(ids, wt.Timer.ID)
		}
		index[id] = ids
	}
	return index
}

// Aggregate returns one view per item, newest item first. Tags and Lists are left
// empty; see service.Enrich.
//
// Rows are sorted by timer id before use, so the last row of an item always
// carries its most recent timer. The input slice is not modified.
func Aggregate(rows []timer.Row) []item.View {
	sorted := make([]timer.Row, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		return timer.TimerID(sorted[i]) < timer.TimerID(sorted[j])
	})

	diffs := TimerDiffIndex(sorted)
	timers := ItemTimerIndex(sorted)

	last := make(map[int64]timer.Row, len(timers))
	for _, r := range sorted {
		last[r.ItemFields().ID] = r
	}

	views := make([]item.View, 0, len(last))
	for itemID, r := range last {
		prior := priorSeconds(timers[itemID], diffs)
		views = append(views, toView(r, prior))
	}

	sort.Slice(views, func(i, j int) bool {
		return views[i].ID > views[j].ID
	})
	return views
}

// priorSeconds sums every timer of the sequence except the last one.
func priorSeconds(ids []int64, diffs map[int64]int64) int64 {
	if len(ids) == 0 {
		return 0
	}
	var sum int64
	for _, id := range ids[:len(ids)-1] {
		secs, ok := diffs[id]
		if !ok {
			panic(fmt.Sprintf("aggregate: timer %d missing from diff index", id))
		}
		sum += secs
	}
	return sum
}

func toView(r timer.Row, prior int64) item.View {
	it := r.ItemFields()
	v := item.View{
		ID:      it.ID,
		Text:    it.Text,
		Status:  it.Status,
		OwnerID: it.OwnerID,
	}

	wt, ok := r.(timer.WithTimer)
	if !ok {
		return v
	}

	start := wt.Timer.Start.Add(-time.Duration(prior) * time.Second)
	v.Start = &start
	if wt.Timer.Stop != nil {
		stop := *wt.Timer.Stop
		v.Stop = &stop
	}
	return v
}
