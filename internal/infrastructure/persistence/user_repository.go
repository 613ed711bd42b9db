package persistence

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/ignatzorin/barter-backend/internal/db"
	"github.com/ignatzorin/barter-backend/internal/domain/entity"
	"github.com/ignatzorin/barter-backend/internal/pkg/apperror"
)

const userConflictMsg = "пользователь с таким email или username уже существует"

type UserRepository struct {
	pg *db.Postgres
}

func NewUserRepository(pg *db.Postgres) *UserRepository {
	return &UserRepository{pg: pg}
}

func (r *UserRepository) Create(ctx context.Context, user *entity.User) error {
	query, args, err := r.pg.Builder.
		Insert("users").
		Columns("id", "username", "email", "password_hash", "role", "skills", "barter_skills", "created_at", "updated_at").
		Values(
			user.ID, user.Username, user.Email, user.PasswordHash, string(user.Role),
			pq.Array(user.Skills.Strings()), pq.Array(user.BarterSkills.Strings()),
			user.CreatedAt, user.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось построить запрос")
	}

	if _, err := r.pg.DB.ExecContext(ctx, query, args...); err != nil {
		return wrapWrite(err, userConflictMsg, "не удалось создать пользователя")
	}
	return nil
}

// Update сохраняет профиль. Роль и пароль не меняются.
func (r *UserRepository) Update(ctx context.Context, user *entity.User) error {
	affected, err := execAffected(ctx, r.pg.DB, r.pg.Builder.
		Update("users").
		Set("username", user.Username).
		Set("email", user.Email).
		Set("skills", pq.Array(user.Skills.Strings())).
		Set("barter_skills", pq.Array(user.BarterSkills.Strings())).
		Set("updated_at", user.UpdatedAt).
		Where(squirrel.Eq{"id": user.ID}))
	if err != nil {
		return wrapWrite(err, userConflictMsg, "не удалось обновить пользователя")
	}
	if affected == 0 {
		return apperror.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	return r.findOne(ctx, squirrel.Eq{"u.id": id})
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.findOne(ctx, squirrel.Eq{"u.email": email})
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	return r.findOne(ctx, squirrel.Eq{"u.username": username})
}

func (r *UserRepository) findOne(ctx context.Context, where squirrel.Sqlizer) (*entity.User, error) {
	query, args, err := r.pg.Builder.
		Select(userColumns...).
		From("users u").
		Where(where).
		ToSql()
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось построить запрос")
	}

	var row userRow
	if err := r.pg.DB.GetContext(ctx, &row, query, args...); err != nil {
		return nil, wrapRead(err, apperror.ErrUserNotFound, "не удалось получить пользователя")
	}
	return row.toEntity(), nil
}
