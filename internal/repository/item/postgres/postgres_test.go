package postgres_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"timeTracker/internal/aggregate"
	"timeTracker/internal/config"
	"timeTracker/internal/models/item"
	"timeTracker/internal/models/timer"
	"timeTracker/internal/repository"
	"timeTracker/internal/repository/item/postgres"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const owner int64 = 7

// PostgresTestSuite для интеграционных тестов с PostgreSQL
type PostgresTestSuite struct {
	suite.Suite
	container  testcontainers.Container
	storage    *postgres.Storage
	ctx        context.Context
	connString string
}

// SetupSuite запускается один раз перед всеми тестами
func (s *PostgresTestSuite) SetupSuite() {
	testcontainers.SkipIfProviderIsNotHealthy(s.T())
	s.ctx = context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:15-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "testdb",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(s.ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(s.T(), err)
	s.container = container

	host, err := container.Host(s.ctx)
	require.NoError(s.T(), err)

	port, err := container.MappedPort(s.ctx, "5432")
	require.NoError(s.T(), err)

	s.connString = fmt.Sprintf("postgres://test:test@%s:%s/testdb?sslmode=disable", host, port.Port())

	s.storage, err = postgres.New(s.ctx, config.DatabaseConfig{URL: s.connString, MaxConnections: 4})
	require.NoError(s.T(), err)

	require.NoError(s.T(), s.storage.Migrate(s.ctx))
}

// TearDownSuite очищает после всех тестов
func (s *PostgresTestSuite) TearDownSuite() {
	if s.storage != nil {
		s.storage.Close()
	}
	if s.container != nil {
		_ = s.container.Terminate(s.ctx)
	}
}

// SetupTest очищает таблицы перед каждым тестом
func (s *PostgresTestSuite) SetupTest() {
	conn, err := pgx.Connect(s.ctx, s.connString)
	require.NoError(s.T(), err)
	defer conn.Close(s.ctx)

	_, err = conn.Exec(s.ctx, `TRUNCATE item_lists, item_tags, lists, tags, timers, items RESTART IDENTITY`)
	require.NoError(s.T(), err)
}

// TestPostgresTestSuite запускает suite
func TestPostgresTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("Пропускаем интеграционные тесты в коротком режиме")
	}
	suite.Run(t, new(PostgresTestSuite))
}

func (s *PostgresTestSuite) createItem(text string) *item.Item {
	it := &item.Item{Text: text, Status: item.StatusOpen, OwnerID: owner}
	require.NoError(s.T(), s.storage.CreateItem(s.ctx, it))
	return it
}

func (s *PostgresTestSuite) TestStorage_HealthCheck() {
	assert.NoError(s.T(), s.storage.HealthCheck(s.ctx))
}

// TestStorage_ItemLifecycle тестирует создание, получение и обновление задачи
func (s *PostgresTestSuite) TestStorage_ItemLifecycle() {
	it := s.createItem("Write report")
	assert.NotZero(s.T(), it.ID)
	assert.False(s.T(), it.CreatedAt.IsZero())
	assert.Equal(s.T(), 1, it.Version)

	got, err := s.storage.GetItem(s.ctx, it.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "Write report", got.Text)
	assert.Nil(s.T(), got.UpdatedAt)

	got.Text = "Write final report"
	got.Status = item.StatusDone
	require.NoError(s.T(), s.storage.UpdateItem(s.ctx, got))
	assert.Equal(s.T(), 2, got.Version)
	assert.NotNil(s.T(), got.UpdatedAt)

	// старая версия
	it.Text = "stale"
	assert.ErrorIs(s.T(), s.storage.UpdateItem(s.ctx, it), repository.ErrVersionConflict)

	_, err = s.storage.GetItem(s.ctx, 424242)
	assert.ErrorIs(s.T(), err, repository.ErrNotFound)
}

// TestStorage_TimerRowsAggregate тестирует полный путь строки -> агрегация
func (s *PostgresTestSuite) TestStorage_TimerRowsAggregate() {
	t0 := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	empty := s.createItem("no timers")
	it := s.createItem("two sessions")
	archived := s.createItem("archived")

	first := &timer.Timer{ItemID: it.ID, UserID: owner, Start: t0}
	require.NoError(s.T(), s.storage.StartTimer(s.ctx, first))
	require.NoError(s.T(), s.storage.StopTimer(s.ctx, first.ID, t0.Add(6*time.Second)))

	second := &timer.Timer{ItemID: it.ID, UserID: owner, Start: t0.Add(10 * time.Second)}
	require.NoError(s.T(), s.storage.StartTimer(s.ctx, second))
	require.NoError(s.T(), s.storage.StopTimer(s.ctx, second.ID, t0.Add(15*time.Second)))

	archived.Status = item.StatusArchived
	require.NoError(s.T(), s.storage.UpdateItem(s.ctx, archived))

	rows, err := s.storage.TimerRows(s.ctx, owner)
	require.NoError(s.T(), err)
	require.Len(s.T(), rows, 3)
	_, isPlaceholder := rows[0].(timer.WithoutTimer)
	assert.True(s.T(), isPlaceholder)

	views := aggregate.Aggregate(rows)
	require.Len(s.T(), views, 2)

	assert.Equal(s.T(), it.ID, views[0].ID)
	require.NotNil(s.T(), views[0].Start)
	require.NotNil(s.T(), views[0].Stop)
	assert.True(s.T(), t0.Add(4*time.Second).Equal(*views[0].Start))
	assert.True(s.T(), t0.Add(15*time.Second).Equal(*views[0].Stop))

	assert.Equal(s.T(), empty.ID, views[1].ID)
	assert.Nil(s.T(), views[1].Start)
	assert.Nil(s.T(), views[1].Stop)
}

// TestStorage_Timers тестирует запуск и остановку таймеров
func (s *PostgresTestSuite) TestStorage_Timers() {
	it := s.createItem("timed")
	started := time.Now().Add(-2 * time.Hour).UTC().Truncate(time.Microsecond)

	_, err := s.storage.RunningTimer(s.ctx, it.ID)
	assert.ErrorIs(s.T(), err, repository.ErrNotFound)

	tm := &timer.Timer{ItemID: it.ID, UserID: owner, Start: started}
	require.NoError(s.T(), s.storage.StartTimer(s.ctx, tm))

	running, err := s.storage.RunningTimer(s.ctx, it.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), tm.ID, running.ID)
	assert.True(s.T(), started.Equal(running.Start))
	assert.Nil(s.T(), running.Stop)

	stale, err := s.storage.RunningSince(s.ctx, time.Now().Add(-time.Hour), 10)
	require.NoError(s.T(), err)
	require.Len(s.T(), stale, 1)

	require.NoError(s.T(), s.storage.StopTimer(s.ctx, tm.ID, started.Add(time.Minute)))
	assert.ErrorIs(s.T(), s.storage.StopTimer(s.ctx, tm.ID, started.Add(time.Hour)), repository.ErrNotFound)

	err = s.storage.StartTimer(s.ctx, &timer.Timer{ItemID: 999999, UserID: owner, Start: started})
	assert.ErrorIs(s.T(), err, repository.ErrNotFound)
}

// TestStorage_Associations тестирует теги и списки
func (s *PostgresTestSuite) TestStorage_Associations() {
	it := s.createItem("tagged")
	bare := s.createItem("bare")

	work := &item.Tag{OwnerID: owner, Text: "work", Color: "#f00"}
	home := &item.Tag{OwnerID: owner, Text: "home", Color: "#0f0"}
	require.NoError(s.T(), s.storage.CreateTag(s.ctx, work))
	require.NoError(s.T(), s.storage.CreateTag(s.ctx, home))
	assert.ErrorIs(s.T(), s.storage.CreateTag(s.ctx, &item.Tag{OwnerID: owner, Text: "work"}), repository.ErrAlreadyExists)

	inbox := &item.List{OwnerID: owner, Name: "inbox"}
	require.NoError(s.T(), s.storage.CreateList(s.ctx, inbox))

	require.NoError(s.T(), s.storage.AttachTags(s.ctx, it.ID, []int64{work.ID, home.ID}))
	require.NoError(s.T(), s.storage.AttachTags(s.ctx, it.ID, []int64{work.ID}))
	require.NoError(s.T(), s.storage.AttachLists(s.ctx, it.ID, []int64{inbox.ID}))
	assert.ErrorIs(s.T(), s.storage.AttachLists(s.ctx, it.ID, []int64{123456}), repository.ErrNotFound)

	bare.Status = item.StatusArchived
	require.NoError(s.T(), s.storage.UpdateItem(s.ctx, bare))

	assoc, err := s.storage.Associations(s.ctx, owner, []int64{it.ID, bare.ID})
	require.NoError(s.T(), err)
	require.Len(s.T(), assoc, 2)
	assert.Equal(s.T(), []item.Tag{*home, *work}, assoc[it.ID].Tags)
	assert.Equal(s.T(), []item.List{*inbox}, assoc[it.ID].Lists)
	assert.Empty(s.T(), assoc[bare.ID].Tags)
	assert.Empty(s.T(), assoc[bare.ID].Lists)

	assoc, err = s.storage.Associations(s.ctx, owner+1, []int64{it.ID})
	require.NoError(s.T(), err)
	assert.Empty(s.T(), assoc)

	tags, err := s.storage.ListTags(s.ctx, owner)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), []item.Tag{*home, *work}, tags)

	lists, err := s.storage.ListLists(s.ctx, owner)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), []item.List{*inbox}, lists)
}
