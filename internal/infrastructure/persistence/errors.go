package persistence

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/ignatzorin/barter-backend/internal/db"
	"github.com/ignatzorin/barter-backend/internal/pkg/apperror"
)

const pqUniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation
}

// wrapWrite переводит нарушение уникальности в Conflict, остальное в ошибку БД.
func wrapWrite(err error, conflictMsg, dbMsg string) error {
	if isUniqueViolation(err) {
		return apperror.Wrap(err, apperror.ErrCodeConflict, conflictMsg)
	}
	return apperror.Wrap(err, apperror.ErrCodeDatabaseError, dbMsg)
}

// wrapRead переводит sql.ErrNoRows в notFound.
func wrapRead(err error, notFound *apperror.AppError, dbMsg string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return notFound
	}
	return apperror.Wrap(err, apperror.ErrCodeDatabaseError, dbMsg)
}

// execAffected выполняет запрос и возвращает число затронутых строк.
func execAffected(ctx context.Context, exec squirrel.ExecerContext, q squirrel.Sqlizer) (int64, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return 0, err
	}
	res, err := exec.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// exists проверяет наличие строки по id. Нужен, чтобы отличить
// «нет такой записи» от «условие обновления не выполнено».
func exists(ctx context.Context, pg *db.Postgres, table string, id interface{}) (bool, error) {
	query, args, err := pg.Builder.
		Select("1").
		Prefix("SELECT EXISTS (").
		From(table).
		Where(squirrel.Eq{"id": id}).
		Suffix(")").
		ToSql()
	if err != nil {
		return false, err
	}
	var found bool
	if err := pg.DB.GetContext(ctx, &found, query, args...); err != nil {
		return false, err
	}
	return found, nil
}
