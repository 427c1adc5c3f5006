package app_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"timeTracker/internal/app"
	"timeTracker/internal/config"
	"timeTracker/internal/handlers/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.Server.Host = "127.0.0.1"
	cfg.Server.Port = "0"
	cfg.Server.RateLimit = 0
	cfg.Worker.Interval = 10 * time.Millisecond
	return cfg
}

func call(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-User-ID", "1")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

// TestApp_ItemFlow тестирует сквозной сценарий поверх in-memory хранилища
func TestApp_ItemFlow(t *testing.T) {
	a := app.New(testConfig(t))
	require.NoError(t, a.Init(context.Background()))
	defer a.Close()
	h := a.Handler()

	w := call(t, h, "POST", "/tags", `{"text": "work"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var tag struct{ ID int64 }
	require.NoError(t, json.NewDecoder(w.Body).Decode(&tag))

	w = call(t, h, "POST", "/items", `{"text": "report", "tag_ids": [`+jsonInt(tag.ID)+`]}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var created dto.ItemResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&created))
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = call(t, h, "POST", "/items/"+jsonInt(created.ID)+"/timer/start", "")
	require.Equal(t, http.StatusCreated, w.Code)

	w = call(t, h, "GET", "/items", "")
	require.Equal(t, http.StatusOK, w.Code)
	var views []dto.ViewResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&views))
	require.Len(t, views, 1)
	assert.True(t, views[0].Running)
	assert.Equal(t, "started", views[0].Status)
	require.Len(t, views[0].Tags, 1)
	assert.Equal(t, "work", views[0].Tags[0].Text)

	w = call(t, h, "POST", "/items/"+jsonInt(created.ID)+"/timer/stop", "")
	require.Equal(t, http.StatusOK, w.Code)
	w = call(t, h, "POST", "/items/"+jsonInt(created.ID)+"/timer/stop", "")
	assert.Equal(t, http.StatusConflict, w.Code)

	w = call(t, h, "DELETE", "/items/"+jsonInt(created.ID), "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = call(t, h, "POST", "/items/"+jsonInt(created.ID)+"/toggle", "")
	assert.Equal(t, http.StatusGone, w.Code)

	w = call(t, h, "GET", "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

// TestApp_Run тестирует остановку приложения по отмене контекста
func TestApp_Run(t *testing.T) {
	a := app.New(testConfig(t))
	require.NoError(t, a.Init(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- a.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("приложение не остановилось")
	}
}

// TestOpenRepository_Unknown тестирует неизвестный тип хранилища
func TestOpenRepository_Unknown(t *testing.T) {
	cfg := testConfig(t)
	cfg.Repository.Type = "redis"
	_, _, err := app.OpenRepository(context.Background(), cfg, false)
	assert.Error(t, err)
}

func jsonInt(v int64) string {
	b, _ := json.Marshal(v)
	return string(b)
}
