package persistence

import (
	"context"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/ignatzorin/barter-backend/internal/db"
	"github.com/ignatzorin/barter-backend/internal/domain/entity"
	"github.com/ignatzorin/barter-backend/internal/domain/repository"
	"github.com/ignatzorin/barter-backend/internal/domain/valueobject"
	"github.com/ignatzorin/barter-backend/internal/pkg/apperror"
)

type ProjectRepository struct {
	pg *db.Postgres
}

func NewProjectRepository(pg *db.Postgres) *ProjectRepository {
	return &ProjectRepository{pg: pg}
}

func (r *ProjectRepository) Create(ctx context.Context, project *entity.Project) error {
	query, args, err := r.pg.Builder.
		Insert("projects").
		Columns("id", "client_id", "title", "description", "preferred_payment_method", "skills_required", "status", "created_at", "updated_at").
		Values(
			project.ID, project.ClientID, project.Title, project.Description,
			string(project.PreferredPaymentMethod), pq.Array(project.SkillsRequired.Strings()),
			string(project.Status), project.CreatedAt, project.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось построить запрос")
	}

	if _, err := r.pg.DB.ExecContext(ctx, query, args...); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось создать проект")
	}
	return nil
}

func (r *ProjectRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Project, error) {
	query, args, err := r.pg.Builder.
		Select(projectColumns...).
		From("projects p").
		Where(squirrel.Eq{"p.id": id}).
		ToSql()
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось построить запрос")
	}

	var row projectRow
	if err := r.pg.DB.GetContext(ctx, &row, query, args...); err != nil {
		return nil, wrapRead(err, apperror.ErrProjectNotFound, "не удалось получить проект")
	}
	return row.toEntity(), nil
}

func (r *ProjectRepository) FindByIDWithClient(ctx context.Context, id uuid.UUID) (*entity.ProjectWithClient, error) {
	query, args, err := r.withClient().Where(squirrel.Eq{"p.id": id}).ToSql()
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось построить запрос")
	}

	var row projectWithClientRow
	if err := r.pg.DB.GetContext(ctx, &row, query, args...); err != nil {
		return nil, wrapRead(err, apperror.ErrProjectNotFound, "не удалось получить проект")
	}
	return row.toEntity(), nil
}

func (r *ProjectRepository) ListOpen(ctx context.Context, filter repository.ProjectFilter) ([]*entity.ProjectWithClient, error) {
	q := r.withClient().
		Where(squirrel.Eq{"p.status": string(valueobject.ProjectStatusOpen)}).
		OrderBy("p.created_at ASC", "p.id ASC")

	if filter.Skill != "" {
		q = q.Where("EXISTS (SELECT 1 FROM unnest(p.skills_required) AS s WHERE lower(s) = lower(?))", filter.Skill)
	}
	if filter.PaymentMethod != "" {
		q = q.Where(squirrel.Eq{"p.preferred_payment_method": string(filter.PaymentMethod)})
	}

	return r.list(ctx, q)
}

func (r *ProjectRepository) ListByClient(ctx context.Context, clientID uuid.UUID) ([]*entity.ProjectWithClient, error) {
	return r.list(ctx, r.withClient().
		Where(squirrel.Eq{"p.client_id": clientID}).
		OrderBy("p.created_at DESC", "p.id DESC"))
}

func (r *ProjectRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to valueobject.ProjectStatus) error {
	affected, err := execAffected(ctx, r.pg.DB, r.pg.Builder.
		Update("projects").
		Set("status", string(to)).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": id, "status": string(from)}))
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось обновить статус проекта")
	}
	if affected == 0 {
		return r.missOrConflict(ctx, id, "статус проекта уже изменился")
	}
	return nil
}

// DeleteIfOpen удаляет проект только в статусе open. Заявки удаляются каскадом.
func (r *ProjectRepository) DeleteIfOpen(ctx context.Context, id uuid.UUID) error {
	affected, err := execAffected(ctx, r.pg.DB, r.pg.Builder.
		Delete("projects").
		Where(squirrel.Eq{"id": id, "status": string(valueobject.ProjectStatusOpen)}))
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось удалить проект")
	}
	if affected == 0 {
		return r.missOrConflict(ctx, id, "удалить можно только открытый проект")
	}
	return nil
}

func (r *ProjectRepository) withClient() squirrel.SelectBuilder {
	columns := append(nested("project", projectColumns), nested("client", userSummaryColumns)...)
	return r.pg.Builder.
		Select(columns...).
		From("projects p").
		Join("users u ON u.id = p.client_id")
}

func (r *ProjectRepository) list(ctx context.Context, q squirrel.SelectBuilder) ([]*entity.ProjectWithClient, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось построить запрос")
	}

	var rows []projectWithClientRow
	if err := r.pg.DB.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить проекты")
	}

	result := make([]*entity.ProjectWithClient, 0, len(rows))
	for _, row := range rows {
		result = append(result, row.toEntity())
	}
	return result, nil
}

func (r *ProjectRepository) missOrConflict(ctx context.Context, id uuid.UUID, conflictMsg string) error {
	found, err := exists(ctx, r.pg, "projects", id)
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить проект")
	}
	if !found {
		return apperror.ErrProjectNotFound
	}
	return apperror.New(apperror.ErrCodeConflict, conflictMsg)
}
