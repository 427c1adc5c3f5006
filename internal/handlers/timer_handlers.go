package handlers

import (
	"net/http"
	"time"

	"timeTracker/internal/handlers/dto"
	"timeTracker/internal/logger"

	"go.uber.org/zap"
)

func (h *ItemHandler) StartTimer(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}
	id, ok := itemID(w, r)
	if !ok {
		return
	}

	t, err := h.Service.StartTimer(r.Context(), owner, id)
	if err != nil {
		handleServiceError(w, r, err, "start_timer")
		return
	}

	logger.Info("HTTP_OUT: Таймер запущен",
		zap.Int64("item_id", id),
		zap.Int64("timer_id", t.ID),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusCreated))

	responseWithBody(w, http.StatusCreated, dto.FromTimer(t))
}

func (h *ItemHandler) StopTimer(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}
	id, ok := itemID(w, r)
	if !ok {
		return
	}

	t, err := h.Service.StopTimer(r.Context(), owner, id)
	if err != nil {
		handleServiceError(w, r, err, "stop_timer")
		return
	}

	logger.Info("HTTP_OUT: Таймер остановлен",
		zap.Int64("item_id", id),
		zap.Int64("timer_id", t.ID),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithBody(w, http.StatusOK, dto.FromTimer(t))
}
