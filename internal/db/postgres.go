package db

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/golang-migrate/migrate/v4"
	pgmigrate "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/ignatzorin/barter-backend/internal/logger"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Postgres: подключение к базе и построитель запросов с плейсхолдерами $N.
type Postgres struct {
	DB      *sqlx.DB
	Builder squirrel.StatementBuilderType
}

// NewPostgres создаёт подключение к PostgreSQL с заданным DSN.
func NewPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	conn, err := sqlx.ConnectContext(ctx, "postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: не удалось подключиться: %w", err)
	}

	conn.SetMaxOpenConns(100)
	conn.SetMaxIdleConns(25)
	conn.SetConnMaxLifetime(5 * time.Minute)

	return Wrap(conn), nil
}

// Wrap оборачивает готовое подключение.
func Wrap(conn *sqlx.DB) *Postgres {
	return &Postgres{
		DB:      conn,
		Builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (p *Postgres) PingContext(ctx context.Context) error {
	return p.DB.PingContext(ctx)
}

func (p *Postgres) Close() error {
	if p == nil || p.DB == nil {
		return nil
	}
	return p.DB.Close()
}

// RunMigrations применяет встроенные миграции. Уже применённые пропускаются.
func (p *Postgres) RunMigrations() error {
	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("postgres: не удалось открыть миграции: %w", err)
	}

	driver, err := pgmigrate.WithInstance(p.DB.DB, &pgmigrate.Config{})
	if err != nil {
		return fmt.Errorf("postgres: не удалось создать драйвер миграций: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return fmt.Errorf("postgres: не удалось инициализировать миграции: %w", err)
	}

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			logger.Log.Info("postgres: схема актуальна")
			return nil
		}
		return fmt.Errorf("postgres: не удалось применить миграции: %w", err)
	}

	version, _, _ := m.Version()
	logger.Log.WithField("version", version).Info("postgres: миграции применены")
	return nil
}

// WithTransaction выполняет fn в транзакции: ошибка или паника откатывают её.
func (p *Postgres) WithTransaction(ctx context.Context, fn func(*sqlx.Tx) error) error {
	tx, err := p.DB.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if r := recover(); r != nil {
			_ = tx.Rollback()
			panic(r)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("tx error: %w, rollback error: %v", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
