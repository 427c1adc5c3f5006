package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"timeTracker/internal/logger"
	"timeTracker/internal/models/timer"
	repo "timeTracker/internal/repository"

	sq "github.com/Masterminds/squirrel"
	"go.uber.org/zap"
)

var timerColumns = []string{"id", "item_id", "user_id", "start", "stop"}

func (s *Storage) RunningTimer(ctx context.Context, itemID int64) (*timer.Timer, error) {
	start := time.Now()
	defer s.observe("running_timer", start)

	query, args, err := psql.Select(timerColumns...).From("timers").
		Where(sq.Eq{"item_id": itemID, "stop": nil}).
		OrderBy("id DESC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("построение запроса: %w", err)
	}

	t := &timer.Timer{}
	if err := s.db.GetContext(ctx, t, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repo.ErrNotFound
		}
		logger.Error("Repository: Не удалось получить таймер", err, zap.Int64("item_id", itemID))
		return nil, fmt.Errorf("получение таймера: %w", err)
	}
	return t, nil
}

func (s *Storage) StartTimer(ctx context.Context, timerToStart *timer.Timer) error {
	start := time.Now()
	defer s.observe("start_timer", start)

	query, args, err := psql.Insert("timers").
		Columns("item_id", "user_id", "start").
		Values(timerToStart.ItemID, timerToStart.UserID, timerToStart.Start).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("построение запроса: %w", err)
	}

	if err := s.db.QueryRowxContext(ctx, query, args...).Scan(&timerToStart.ID); err != nil {
		if notFound(err) {
			return repo.ErrNotFound
		}
		logger.Error("Repository: Не удалось запустить таймер", err, zap.Int64("item_id", timerToStart.ItemID))
		return fmt.Errorf("запуск таймера: %w", err)
	}
	return nil
}

func (s *Storage) StopTimer(ctx context.Context, timerID int64, stop time.Time) error {
	start := time.Now()
	defer s.observe("stop_timer", start)

	query, args, err := psql.Update("timers").
		Set("stop", stop).
		Where(sq.Eq{"id": timerID, "stop": nil}).
		ToSql()
	if err != nil {
		return fmt.Errorf("построение запроса: %w", err)
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		logger.Error("Repository: Не удалось остановить таймер", err, zap.Int64("timer_id", timerID))
		return fmt.Errorf("остановка таймера: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("остановка таймера: %w", err)
	}
	if n == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// RunningSince возвращает незавершённые таймеры, запущенные раньше before
func (s *Storage) RunningSince(ctx context.Context, before time.Time, limit int) ([]*timer.Timer, error) {
	start := time.Now()
	defer s.observe("running_since", start)

	query, args, err := psql.Select(timerColumns...).From("timers").
		Where(sq.Eq{"stop": nil}).
		Where(sq.Lt{"start": before}).
		OrderBy("id ASC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("построение запроса: %w", err)
	}

	timers := []*timer.Timer{}
	if err := s.db.SelectContext(ctx, &timers, query, args...); err != nil {
		logger.Error("Repository: Не удалось получить таймеры", err)
		return nil, fmt.Errorf("получение таймеров: %w", err)
	}
	return timers, nil
}
