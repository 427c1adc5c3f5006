package service_test

import (
	"context"
	"testing"
	"time"

	"timeTracker/internal/models/item"
	"timeTracker/internal/models/timer"
	"timeTracker/internal/repository/item/inmemory"
	"timeTracker/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type clock struct {
	now time.Time
}

func (c *clock) Now() time.Time { return c.now }

func (c *clock) Advance(d time.Duration) { c.now = c.now.Add(d) }

// archiveAfterRows архивирует задачу сразу после чтения строк таймеров
type archiveAfterRows struct {
	*inmemory.Storage
	archive func()
}

func (r *archiveAfterRows) TimerRows(ctx context.Context, ownerID int64) ([]timer.Row, error) {
	rows, err := r.Storage.TimerRows(ctx, ownerID)
	if r.archive != nil {
		r.archive()
		r.archive = nil
	}
	return rows, err
}

func newFlowService() (*service.ItemService, *clock) {
	c := &clock{now: t0}
	return service.NewItemService(inmemory.NewStorage()).WithClock(c.Now), c
}

// TestItemService_TimerFlow тестирует накопление времени по нескольким сессиям
func TestItemService_TimerFlow(t *testing.T) {
	ctx := context.Background()
	svc, c := newFlowService()

	it, err := svc.CreateItem(ctx, 1, "write report", nil, nil)
	require.NoError(t, err)

	_, err = svc.StartTimer(ctx, 1, it.ID)
	require.NoError(t, err)
	c.Advance(10 * time.Second)
	stopped, err := svc.StopTimer(ctx, 1, it.ID)
	require.NoError(t, err)
	require.NotNil(t, stopped.Stop)

	c.Advance(10 * time.Second)
	_, err = svc.StartTimer(ctx, 1, it.ID)
	require.NoError(t, err)
	c.Advance(5 * time.Second)

	views, err := svc.ListItems(ctx, 1)
	require.NoError(t, err)
	require.Len(t, views, 1)

	v := views[0]
	assert.Equal(t, item.StatusStarted, v.Status)
	assert.True(t, v.Running())
	assert.Equal(t, t0.Add(10*time.Second), *v.Start)
	assert.Equal(t, 15*time.Second, v.Elapsed(c.Now()))
}

// TestItemService_StartTimer_StopsRunning тестирует остановку идущего таймера перед запуском нового
func TestItemService_StartTimer_StopsRunning(t *testing.T) {
	ctx := context.Background()
	svc, c := newFlowService()

	it, err := svc.CreateItem(ctx, 1, "task", nil, nil)
	require.NoError(t, err)

	firstTimer, err := svc.StartTimer(ctx, 1, it.ID)
	require.NoError(t, err)
	c.Advance(3 * time.Second)
	_, err = svc.StartTimer(ctx, 1, it.ID)
	require.NoError(t, err)
	c.Advance(2 * time.Second)

	views, err := svc.ListItems(ctx, 1)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, 5*time.Second, views[0].Elapsed(c.Now()))

	// первый таймер остановлен, второй stop вернёт именно второй
	last, err := svc.StopTimer(ctx, 1, it.ID)
	require.NoError(t, err)
	assert.NotEqual(t, firstTimer.ID, last.ID)

	_, err = svc.StopTimer(ctx, 1, it.ID)
	requireCode(t, err, service.CodeTimerNotRunning)
}

// TestItemService_StopTimer_BeforeStart тестирует отказ при остановке раньше запуска
func TestItemService_StopTimer_BeforeStart(t *testing.T) {
	ctx := context.Background()
	svc, c := newFlowService()

	it, err := svc.CreateItem(ctx, 1, "task", nil, nil)
	require.NoError(t, err)
	_, err = svc.StartTimer(ctx, 1, it.ID)
	require.NoError(t, err)

	c.Advance(-time.Minute)
	_, err = svc.StopTimer(ctx, 1, it.ID)
	requireCode(t, err, service.CodeValidation)
}

// TestItemService_CreateItem_Associations тестирует привязку тегов и списков при создании
func TestItemService_CreateItem_Associations(t *testing.T) {
	ctx := context.Background()
	svc, _ := newFlowService()

	work, err := svc.CreateTag(ctx, 1, "work", "#ff0000")
	require.NoError(t, err)
	home, err := svc.CreateTag(ctx, 1, "home", "")
	require.NoError(t, err)
	inbox, err := svc.CreateList(ctx, 1, "inbox")
	require.NoError(t, err)
	foreign, err := svc.CreateTag(ctx, 2, "foreign", "")
	require.NoError(t, err)

	_, err = svc.CreateItem(ctx, 1, "bad", []int64{foreign.ID}, nil)
	requireCode(t, err, service.CodeNotFound)

	_, err = svc.CreateItem(ctx, 1, "bad", nil, []int64{999})
	requireCode(t, err, service.CodeNotFound)

	it, err := svc.CreateItem(ctx, 1, "good", []int64{work.ID, home.ID}, []int64{inbox.ID})
	require.NoError(t, err)

	views, err := svc.ListItems(ctx, 1)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, it.ID, views[0].ID)
	assert.Equal(t, []item.Tag{*home, *work}, views[0].Tags)
	assert.Equal(t, []item.List{*inbox}, views[0].Lists)

	_, err = svc.CreateTag(ctx, 1, "work", "")
	requireCode(t, err, service.CodeAlreadyExists)

	_, err = svc.CreateList(ctx, 1, " ")
	requireCode(t, err, service.CodeValidation)
}

// TestItemService_ToggleAndArchive тестирует переключение статуса и архивирование
func TestItemService_ToggleAndArchive(t *testing.T) {
	ctx := context.Background()
	svc, c := newFlowService()

	it, err := svc.CreateItem(ctx, 1, "task", nil, nil)
	require.NoError(t, err)
	_, err = svc.StartTimer(ctx, 1, it.ID)
	require.NoError(t, err)
	c.Advance(time.Minute)

	done, err := svc.ToggleItem(ctx, 1, it.ID)
	require.NoError(t, err)
	assert.Equal(t, item.StatusDone, done.Status)

	views, err := svc.ListItems(ctx, 1)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.False(t, views[0].Running())
	assert.Equal(t, time.Minute, views[0].Elapsed(c.Now().Add(time.Hour)))

	reopened, err := svc.ToggleItem(ctx, 1, it.ID)
	require.NoError(t, err)
	assert.Equal(t, item.StatusOpen, reopened.Status)

	_, err = svc.ToggleItem(ctx, 2, it.ID)
	requireCode(t, err, service.CodeNotFound)

	require.NoError(t, svc.ArchiveItem(ctx, 1, it.ID))

	_, err = svc.UpdateItem(ctx, 1, it.ID, item.WithText("edit"))
	requireCode(t, err, service.CodeItemArchived)
	_, err = svc.StartTimer(ctx, 1, it.ID)
	requireCode(t, err, service.CodeItemArchived)

	views, err = svc.ListItems(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, views)
}

// TestItemService_UpdateItem_Status тестирует смену статуса через обновление задачи
func TestItemService_UpdateItem_Status(t *testing.T) {
	ctx := context.Background()
	svc, c := newFlowService()

	it, err := svc.CreateItem(ctx, 1, "task", nil, nil)
	require.NoError(t, err)

	_, err = svc.UpdateItem(ctx, 1, it.ID, item.WithStatus(item.StatusStarted))
	requireCode(t, err, service.CodeValidation)

	_, err = svc.StartTimer(ctx, 1, it.ID)
	require.NoError(t, err)
	c.Advance(30 * time.Second)

	done, err := svc.UpdateItem(ctx, 1, it.ID, item.WithStatus(item.StatusDone))
	require.NoError(t, err)
	assert.Equal(t, item.StatusDone, done.Status)

	_, err = svc.StopTimer(ctx, 1, it.ID)
	requireCode(t, err, service.CodeTimerNotRunning)

	views, err := svc.ListItems(ctx, 1)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.False(t, views[0].Running())
	assert.Equal(t, 30*time.Second, views[0].Elapsed(c.Now().Add(time.Hour)))
}

// TestItemService_ListItems_ArchivedConcurrently тестирует архивирование задачи между чтениями списка
func TestItemService_ListItems_ArchivedConcurrently(t *testing.T) {
	ctx := context.Background()
	repo := &archiveAfterRows{Storage: inmemory.NewStorage()}
	svc := service.NewItemService(repo)

	work, err := svc.CreateTag(ctx, 1, "work", "")
	require.NoError(t, err)
	it, err := svc.CreateItem(ctx, 1, "task", []int64{work.ID}, nil)
	require.NoError(t, err)

	repo.archive = func() {
		require.NoError(t, svc.ArchiveItem(ctx, 1, it.ID))
	}

	views, err := svc.ListItems(ctx, 1)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, it.ID, views[0].ID)
	assert.Equal(t, []item.Tag{*work}, views[0].Tags)

	views, err = svc.ListItems(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, views)
}

// TestItemService_OwnersIsolated тестирует, что владельцы видят только свои задачи
func TestItemService_OwnersIsolated(t *testing.T) {
	ctx := context.Background()
	svc, _ := newFlowService()

	mine, err := svc.CreateItem(ctx, 1, "mine", nil, nil)
	require.NoError(t, err)
	_, err = svc.CreateItem(ctx, 2, "theirs", nil, nil)
	require.NoError(t, err)

	views, err := svc.ListItems(ctx, 1)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, mine.ID, views[0].ID)

	_, err = svc.StartTimer(ctx, 2, mine.ID)
	requireCode(t, err, service.CodeNotFound)

	_, err = svc.CreateItem(ctx, 1, "  ", nil, nil)
	requireCode(t, err, service.CodeValidation)
}
