package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"timeTracker/internal/handlers/dto"
	"timeTracker/internal/logger"
	"timeTracker/internal/models/item"

	"go.uber.org/zap"
)

type ItemHandler struct {
	Service Service
	Now     func() time.Time
}

func NewItemHandler(svc Service) ItemHandler {
	return ItemHandler{
		Service: svc,
		Now:     time.Now,
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if !requireJSON(w, r) {
		return false
	}
	defer r.Body.Close()

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		logger.Warn("HTTP: ошибка чтения JSON",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusBadRequest, "неверное тело запроса: "+err.Error())
		return false
	}
	return true
}

func (h *ItemHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP: Health check")

	healthCheck(w, h.Service.HealthCheck(r.Context()))
}

func (h *ItemHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}

	views, err := h.Service.ListItems(r.Context(), owner)
	if err != nil {
		handleServiceError(w, r, err, "list_items")
		return
	}

	logger.Info("HTTP_OUT: Задачи получены",
		zap.Int("count", len(views)),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithBody(w, http.StatusOK, dto.FromViewList(views, h.Now()))
}

func (h *ItemHandler) PostItem(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}

	var request dto.CreateItemRequest
	if !decodeJSON(w, r, &request) {
		return
	}

	if request.Text == "" {
		logger.Warn("HTTP: Ошибка валидации",
			zap.String("field", "text"),
			zap.String("error", "empty_field"),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusBadRequest, "текст задачи не может быть пустым")
		return
	}

	it, err := h.Service.CreateItem(r.Context(), owner, request.Text, request.TagIDs, request.ListIDs)
	if err != nil {
		handleServiceError(w, r, err, "create_item")
		return
	}

	logger.Info("HTTP_OUT: Задача создана",
		zap.Int64("item_id", it.ID),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusCreated))

	responseWithBody(w, http.StatusCreated, dto.FromItem(it))
}

func (h *ItemHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}
	id, ok := itemID(w, r)
	if !ok {
		return
	}

	it, err := h.Service.GetItem(r.Context(), owner, id)
	if err != nil {
		handleServiceError(w, r, err, "get_item")
		return
	}
	responseWithBody(w, http.StatusOK, dto.FromItem(it))
}

func (h *ItemHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}
	id, ok := itemID(w, r)
	if !ok {
		return
	}

	var request dto.UpdateItemRequest
	if !decodeJSON(w, r, &request) {
		return
	}

	var options []item.ItemOption
	if request.Text != nil {
		options = append(options, item.WithText(*request.Text))
	}
	if request.Status != nil {
		status, ok := item.ParseStatus(*request.Status)
		if !ok || status == item.StatusArchived {
			logger.Warn("HTTP: Ошибка валидации",
				zap.String("field", "status"),
				zap.String("error", "wrong_value"),
				zap.String("client_ip", r.RemoteAddr))
			responseWithError(w, http.StatusBadRequest, "неверный статус: "+*request.Status)
			return
		}
		options = append(options, item.WithStatus(status))
	}

	it, err := h.Service.UpdateItem(r.Context(), owner, id, options...)
	if err != nil {
		handleServiceError(w, r, err, "update_item")
		return
	}

	logger.Info("HTTP_OUT: Задача обновлена",
		zap.Int64("item_id", id),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithBody(w, http.StatusOK, dto.FromItem(it))
}

func (h *ItemHandler) ToggleItem(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}
	id, ok := itemID(w, r)
	if !ok {
		return
	}

	it, err := h.Service.ToggleItem(r.Context(), owner, id)
	if err != nil {
		handleServiceError(w, r, err, "toggle_item")
		return
	}
	responseWithBody(w, http.StatusOK, dto.FromItem(it))
}

func (h *ItemHandler) ArchiveItem(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}
	id, ok := itemID(w, r)
	if !ok {
		return
	}

	if err := h.Service.ArchiveItem(r.Context(), owner, id); err != nil {
		handleServiceError(w, r, err, "archive_item")
		return
	}

	logger.Info("HTTP_OUT: Задача в архиве",
		zap.Int64("item_id", id),
		zap.Int("http_status", http.StatusNoContent))

	responseWithBody(w, http.StatusNoContent, nil)
}
