package inmemory

import (
	"context"
	"time"

	"timeTracker/internal/models/timer"
	repo "timeTracker/internal/repository"
)

func copyTimer(t *timer.Timer) timer.Timer {
	c := *t
	if t.Stop != nil {
		stop := *t.Stop
		c.Stop = &stop
	}
	return c
}

// RunningTimer возвращает последний незавершённый таймер задачи
func (s *Storage) RunningTimer(ctx context.Context, itemID int64) (*timer.Timer, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	for i := len(s.timerIDs) - 1; i >= 0; i-- {
		t := s.timers[s.timerIDs[i]]
		if t.ItemID == itemID && t.Running() {
			c := copyTimer(t)
			return &c, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (s *Storage) StartTimer(ctx context.Context, timerToStart *timer.Timer) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, ok := s.items[timerToStart.ItemID]; !ok {
		return repo.ErrNotFound
	}

	timerToStart.ID = s.nextID()
	stored := copyTimer(timerToStart)
	s.timers[stored.ID] = &stored
	s.timerIDs = append(s.timerIDs, stored.ID)
	return nil
}

func (s *Storage) StopTimer(ctx context.Context, timerID int64, stop time.Time) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	t, ok := s.timers[timerID]
	if !ok || !t.Running() {
		return repo.ErrNotFound
	}
	t.Stop = &stop
	return nil
}

func (s *Storage) RunningSince(ctx context.Context, before time.Time, limit int) ([]*timer.Timer, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	res := []*timer.Timer{}
	for _, id := range s.timerIDs {
		if len(res) >= limit {
			break
		}
		t := s.timers[id]
		if t.Running() && t.Start.Before(before) {
			c := copyTimer(t)
			res = append(res, &c)
		}
	}
	return res, nil
}
