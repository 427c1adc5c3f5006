package handlers

import (
	"errors"
	"mime"
	"net/http"
	"strconv"

	"timeTracker/internal/logger"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const UserHeader = "X-User-ID"

var errBadID = errors.New("id должен быть положительным числом")

func checkContentType(r *http.Request, target string) bool {
	contentType := r.Header.Get("Content-Type")
	if contentType == "" {
		return false
	}

	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}

	return mediaType == target
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, errBadID
	}
	return id, nil
}

// requireJSON пишет ответ 415 и возвращает false, если тело не JSON
func requireJSON(w http.ResponseWriter, r *http.Request) bool {
	if checkContentType(r, "application/json") {
		return true
	}
	logger.Warn("HTTP: Неверный тип контента",
		zap.String("expected", "application/json"),
		zap.String("received", r.Header.Get("Content-Type")),
		zap.String("client_ip", r.RemoteAddr))
	responseWithError(w, http.StatusUnsupportedMediaType, "Content-Type должен быть application/json")
	return false
}

func ownerID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := parseID(r.Header.Get(UserHeader))
	if err != nil {
		logger.Warn("HTTP: Не удалось получить пользователя",
			zap.String("header", UserHeader),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusUnauthorized, "заголовок "+UserHeader+" обязателен")
		return 0, false
	}
	return id, true
}

func itemID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		logger.Warn("HTTP: Не удалось получить id",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusBadRequest, "не удалось получить id: "+err.Error())
		return 0, false
	}
	return id, true
}
