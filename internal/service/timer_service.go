package service

import (
	"context"
	"errors"
	"fmt"

	"timeTracker/internal/logger"
	"timeTracker/internal/models/item"
	"timeTracker/internal/models/timer"
	rep "timeTracker/internal/repository"

	"go.uber.org/zap"
)

// StartTimer запускает новый таймер. Уже идущий таймер задачи сначала
// останавливается, так что незавершённый таймер у задачи всегда один.
func (s *ItemService) StartTimer(ctx context.Context, ownerID, itemID int64) (*timer.Timer, error) {
	it, err := s.getActive(ctx, ownerID, itemID)
	if err != nil {
		return nil, err
	}

	if _, err := s.stopRunning(ctx, itemID); err != nil {
		return nil, err
	}

	t := &timer.Timer{
		ItemID: itemID,
		UserID: ownerID,
		Start:  s.now(),
	}
	if err := s.repo.StartTimer(ctx, t); err != nil {
		if errors.Is(err, rep.ErrNotFound) {
			return nil, NewNotFound(ResourceItem, itemID)
		}
		return nil, fmt.Errorf("запуск таймера: %w", err)
	}

	if it.Status != item.StatusStarted {
		it.Status = item.StatusStarted
		if err := s.save(ctx, it); err != nil {
			return nil, err
		}
	}

	logger.Info("Service: Таймер запущен", zap.Int64("item_id", itemID), zap.Int64("timer_id", t.ID))
	return t, nil
}

func (s *ItemService) StopTimer(ctx context.Context, ownerID, itemID int64) (*timer.Timer, error) {
	if _, err := s.GetItem(ctx, ownerID, itemID); err != nil {
		return nil, err
	}

	t, err := s.stopRunning(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, NewBusinessError(CodeTimerNotRunning, "у задачи нет запущенного таймера", ToDetail("item_id", itemID))
	}
	return t, nil
}

// stopRunning останавливает идущий таймер задачи, если он есть; nil: таймера не было
func (s *ItemService) stopRunning(ctx context.Context, itemID int64) (*timer.Timer, error) {
	t, err := s.repo.RunningTimer(ctx, itemID)
	if err != nil {
		if errors.Is(err, rep.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("получение таймера: %w", err)
	}

	stop := s.now()
	if stop.Before(t.Start) {
		return nil, NewValidationError("stop", "остановка раньше запуска")
	}

	if err := s.repo.StopTimer(ctx, t.ID, stop); err != nil {
		if errors.Is(err, rep.ErrNotFound) {
			return nil, NewBusinessError(CodeTimerNotRunning, "таймер уже остановлен", ToDetail("timer_id", t.ID))
		}
		return nil, fmt.Errorf("остановка таймера: %w", err)
	}
	t.Stop = &stop

	logger.Info("Service: Таймер остановлен",
		zap.Int64("item_id", itemID),
		zap.Int64("timer_id", t.ID),
		zap.Duration("duration", stop.Sub(t.Start)))
	return t, nil
}
