package worker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"timeTracker/internal/logger"
	repo "timeTracker/internal/repository"
	"timeTracker/internal/service"

	"go.uber.org/zap"
)

// StaleTimerWorker останавливает таймеры, забытые запущенными.
// Таймер, идущий дольше maxRunning, закрывается моментом start+maxRunning.
type StaleTimerWorker struct {
	repo       service.TimerRepository
	interval   time.Duration
	maxRunning time.Duration
	batchSize  int
	now        func() time.Time
}

func NewStaleTimerWorker(timers service.TimerRepository, interval, maxRunning *time.Duration, batchSize *int) *StaleTimerWorker {
	intervalToSet := 5 * time.Minute
	if interval != nil {
		intervalToSet = *interval
	}

	maxToSet := 12 * time.Hour
	if maxRunning != nil {
		maxToSet = *maxRunning
	}

	batchToSet := 100
	if batchSize != nil {
		batchToSet = *batchSize
	}

	return &StaleTimerWorker{
		repo:       timers,
		interval:   intervalToSet,
		maxRunning: maxToSet,
		batchSize:  batchToSet,
		now:        time.Now,
	}
}

func (w *StaleTimerWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			logger.Info("Worker: Фоновая проверка зависших таймеров", zap.Time("started_at", w.now()))
			if _, err := w.Check(ctx); err != nil {
				logger.Warn("Worker: ошибка проверки таймеров", zap.Error(err))
			}
		case <-ctx.Done():
			logger.Info("Worker: Фоновая проверка останавливается")
			return
		}
	}
}

// Check проходит одну пачку таймеров и возвращает число остановленных
func (w *StaleTimerWorker) Check(ctx context.Context) (int, error) {
	start := time.Now()

	timers, err := w.repo.RunningSince(ctx, w.now().Add(-w.maxRunning), w.batchSize)
	if err != nil {
		return 0, fmt.Errorf("получение запущенных таймеров: %w", err)
	}

	stopped := 0
	for _, t := range timers {
		stopAt := t.Start.Add(w.maxRunning)
		if err := w.repo.StopTimer(ctx, t.ID, stopAt); err != nil {
			// таймер мог остановить пользователь между выборкой и обновлением
			if errors.Is(err, repo.ErrNotFound) {
				continue
			}
			logger.Warn("Worker: Ошибка остановки таймера", zap.Int64("timer_id", t.ID), zap.Error(err))
			continue
		}
		stopped++
	}

	logger.Info("Worker: Завершение проверки таймеров",
		zap.Duration("ms", time.Since(start)),
		zap.Int("checked", len(timers)),
		zap.Int("stopped", stopped),
	)
	return stopped, nil
}
