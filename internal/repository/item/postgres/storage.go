package postgres

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"timeTracker/internal/config"
	"timeTracker/internal/logger"

	sq "github.com/Masterminds/squirrel"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const defaultSlowQuery = 100 * time.Millisecond

// коды ошибок postgres
const (
	foreignKeyViolation = "23503"
	uniqueViolation     = "23505"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type Storage struct {
	pool      *pgxpool.Pool
	db        *sqlx.DB
	url       string
	slowQuery time.Duration
}

func New(ctx context.Context, cfg config.DatabaseConfig) (*Storage, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		logger.Error("Repository: Ошибка загрузки конфига", err)
		return nil, fmt.Errorf("загрузка конфига: %w", err)
	}

	if cfg.MaxConnections > 0 {
		poolConfig.MaxConns = cfg.MaxConnections
	}
	if cfg.MinConnections > 0 {
		poolConfig.MinConns = cfg.MinConnections
	}
	if cfg.IdleTimeout > 0 {
		poolConfig.MaxConnIdleTime = cfg.IdleTimeout
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		logger.Error("Repository: Ошибка создания пула", err)
		return nil, fmt.Errorf("создание пула: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		logger.Error("Repository: Неудачная проверка ping", err)
		return nil, fmt.Errorf("проверка соединения ping: %w", err)
	}

	s := NewWithDB(sqlx.NewDb(stdlib.OpenDBFromPool(pool), "pgx"))
	s.pool = pool
	s.url = cfg.URL
	if cfg.SlowQuery > 0 {
		s.slowQuery = cfg.SlowQuery
	}

	logger.Info("Repository: Успешное создание подключения к PostgreSQL")
	return s, nil
}

// NewWithDB оборачивает уже открытое соединение, пул и миграции при этом недоступны.
func NewWithDB(db *sqlx.DB) *Storage {
	return &Storage{db: db, slowQuery: defaultSlowQuery}
}

func (s *Storage) Close() {
	if err := s.db.Close(); err != nil {
		logger.Warn("Repository: Ошибка закрытия соединения", zap.Error(err))
	}
	if s.pool != nil {
		s.pool.Close()
	}
	logger.Info("Repository: Закрытие всех соединений PostgreSQL")
}

func (s *Storage) HealthCheck(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		logger.Error("Repository: Неудачная проверка ping", err)
		return fmt.Errorf("проверка соединения ping: %w", err)
	}
	logger.Info("Repository: Соединение стабильно")
	return nil
}

func (s *Storage) observe(op string, start time.Time) {
	if elapsed := time.Since(start); elapsed > s.slowQuery {
		logger.Warn("Repository: Медленный запрос", zap.String("op", op), zap.Duration("ms", elapsed))
	}
}

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

func notFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows) || pgCode(err) == foreignKeyViolation
}

func (s *Storage) migrator() (*migrate.Migrate, error) {
	if s.url == "" {
		return nil, errors.New("миграции требуют URL базы данных")
	}

	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("источник миграций: %w", err)
	}

	url := s.url
	for _, scheme := range []string{"postgres://", "postgresql://"} {
		if strings.HasPrefix(url, scheme) {
			url = "pgx5://" + strings.TrimPrefix(url, scheme)
			break
		}
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, url)
	if err != nil {
		return nil, fmt.Errorf("инициализация миграций: %w", err)
	}
	return m, nil
}

func (s *Storage) Migrate(ctx context.Context) error {
	logger.Info("Попытка миграций")

	m, err := s.migrator()
	if err != nil {
		logger.Error("Repository: Ошибка миграций", err)
		return err
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		logger.Error("Repository: Ошибка применения миграций", err)
		return fmt.Errorf("применение миграций: %w", err)
	}

	logger.Info("Миграции применены")
	return nil
}

func (s *Storage) Down(ctx context.Context) error {
	logger.Info("Откат миграций")

	m, err := s.migrator()
	if err != nil {
		logger.Error("Repository: Ошибка миграций", err)
		return err
	}
	defer m.Close()

	if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		logger.Error("Repository: Ошибка отката миграций", err)
		return fmt.Errorf("откат миграций: %w", err)
	}

	logger.Info("Миграции откачены")
	return nil
}
