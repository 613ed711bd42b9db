package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/ignatzorin/barter-backend/internal/db"
	"github.com/ignatzorin/barter-backend/internal/domain/entity"
	"github.com/ignatzorin/barter-backend/internal/domain/valueobject"
	"github.com/ignatzorin/barter-backend/internal/pkg/apperror"
)

const (
	bidDuplicateMsg    = "вы уже откликнулись на этот проект"
	bidNotPendingMsg   = "заявка уже обработана"
	projectNotOpenMsg  = "проект уже не принимает заявки"
	bidAcceptFailedMsg = "не удалось принять заявку"
)

type BidRepository struct {
	pg *db.Postgres
}

func NewBidRepository(pg *db.Postgres) *BidRepository {
	return &BidRepository{pg: pg}
}

func (r *BidRepository) Create(ctx context.Context, bid *entity.Bid) error {
	query, args, err := r.pg.Builder.
		Insert("bids").
		Columns("id", "project_id", "freelancer_id", "proposal_text", "barter_offer", "payment_offer", "status", "created_at", "updated_at").
		Values(
			bid.ID, bid.ProjectID, bid.FreelancerID, bid.ProposalText,
			pq.Array(bid.BarterOffer.Strings()), bid.PaymentAmount(),
			string(bid.Status), bid.CreatedAt, bid.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось построить запрос")
	}

	if _, err := r.pg.DB.ExecContext(ctx, query, args...); err != nil {
		return wrapWrite(err, bidDuplicateMsg, "не удалось создать заявку")
	}
	return nil
}

func (r *BidRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Bid, error) {
	return r.findOne(ctx, squirrel.Eq{"b.id": id})
}

func (r *BidRepository) FindByProjectAndFreelancer(ctx context.Context, projectID, freelancerID uuid.UUID) (*entity.Bid, error) {
	return r.findOne(ctx, squirrel.Eq{"b.project_id": projectID, "b.freelancer_id": freelancerID})
}

func (r *BidRepository) findOne(ctx context.Context, where squirrel.Sqlizer) (*entity.Bid, error) {
	query, args, err := r.pg.Builder.
		Select(bidColumns...).
		From("bids b").
		Where(where).
		ToSql()
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось построить запрос")
	}

	var row bidRow
	if err := r.pg.DB.GetContext(ctx, &row, query, args...); err != nil {
		return nil, wrapRead(err, apperror.ErrBidNotFound, "не удалось получить заявку")
	}
	return row.toEntity(), nil
}

func (r *BidRepository) FindByIDWithDetails(ctx context.Context, id uuid.UUID) (*entity.BidWithDetails, error) {
	columns := append(nested("bid", bidColumns), nested("project", projectColumns)...)
	columns = append(columns, nested("freelancer", userSummaryColumns)...)

	query, args, err := r.pg.Builder.
		Select(columns...).
		From("bids b").
		Join("projects p ON p.id = b.project_id").
		Join("users u ON u.id = b.freelancer_id").
		Where(squirrel.Eq{"b.id": id}).
		ToSql()
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось построить запрос")
	}

	var row bidDetailsRow
	if err := r.pg.DB.GetContext(ctx, &row, query, args...); err != nil {
		return nil, wrapRead(err, apperror.ErrBidNotFound, "не удалось получить заявку")
	}
	return &entity.BidWithDetails{
		Bid:        row.Bid.toEntity(),
		Project:    row.Project.toEntity(),
		Freelancer: row.Freelancer.toSummary(),
	}, nil
}

func (r *BidRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]*entity.BidWithFreelancer, error) {
	query, args, err := r.pg.Builder.
		Select(append(nested("bid", bidColumns), nested("freelancer", userSummaryColumns)...)...).
		From("bids b").
		Join("users u ON u.id = b.freelancer_id").
		Where(squirrel.Eq{"b.project_id": projectID}).
		OrderBy("b.created_at ASC", "b.id ASC").
		ToSql()
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось построить запрос")
	}

	var rows []bidWithFreelancerRow
	if err := r.pg.DB.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить заявки")
	}

	result := make([]*entity.BidWithFreelancer, 0, len(rows))
	for _, row := range rows {
		result = append(result, &entity.BidWithFreelancer{
			Bid:        row.Bid.toEntity(),
			Freelancer: row.Freelancer.toSummary(),
		})
	}
	return result, nil
}

func (r *BidRepository) ListByFreelancer(ctx context.Context, freelancerID uuid.UUID) ([]*entity.BidWithProject, error) {
	columns := append(nested("bid", bidColumns), nested("project", projectColumns)...)
	columns = append(columns, nested("client", userSummaryColumns)...)

	query, args, err := r.pg.Builder.
		Select(columns...).
		From("bids b").
		Join("projects p ON p.id = b.project_id").
		Join("users u ON u.id = p.client_id").
		Where(squirrel.Eq{"b.freelancer_id": freelancerID}).
		OrderBy("b.created_at DESC", "b.id DESC").
		ToSql()
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось построить запрос")
	}

	var rows []bidWithProjectRow
	if err := r.pg.DB.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить заявки")
	}

	result := make([]*entity.BidWithProject, 0, len(rows))
	for _, row := range rows {
		result = append(result, &entity.BidWithProject{
			Bid:     row.Bid.toEntity(),
			Project: row.Project.toEntity(),
			Client:  row.Client.toSummary(),
		})
	}
	return result, nil
}

// Accept выполняет каскад принятия в одной транзакции. Строка проекта
// блокируется FOR UPDATE, поэтому из нескольких одновременных принятий
// проходит одно, остальные получают Conflict без изменений в базе.
func (r *BidRepository) Accept(ctx context.Context, bidID, projectID uuid.UUID) ([]*entity.Bid, error) {
	var rejected []*entity.Bid

	err := r.pg.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		if err := r.lockOpenProject(ctx, tx, projectID); err != nil {
			return err
		}

		now := time.Now()

		affected, err := execAffected(ctx, tx, r.pg.Builder.
			Update("bids").
			Set("status", string(valueobject.BidStatusAccepted)).
			Set("updated_at", now).
			Where(squirrel.Eq{
				"id":         bidID,
				"project_id": projectID,
				"status":     string(valueobject.BidStatusPending),
			}))
		if err != nil {
			return wrapWrite(err, projectNotOpenMsg, bidAcceptFailedMsg)
		}
		if affected == 0 {
			return apperror.New(apperror.ErrCodeConflict, bidNotPendingMsg)
		}

		query, args, err := r.pg.Builder.
			Update("bids").
			Set("status", string(valueobject.BidStatusRejected)).
			Set("updated_at", now).
			Where(squirrel.Eq{"project_id": projectID, "status": string(valueobject.BidStatusPending)}).
			Where(squirrel.NotEq{"id": bidID}).
			Suffix("RETURNING id, project_id, freelancer_id, proposal_text, barter_offer, payment_offer, status, created_at, updated_at").
			ToSql()
		if err != nil {
			return err
		}
		var rows []bidRow
		if err := tx.SelectContext(ctx, &rows, query, args...); err != nil {
			return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось отклонить остальные заявки")
		}
		rejected = toBidEntities(rows)

		_, err = execAffected(ctx, tx, r.pg.Builder.
			Update("projects").
			Set("status", string(valueobject.ProjectStatusInProgress)).
			Set("updated_at", now).
			Where(squirrel.Eq{"id": projectID}))
		if err != nil {
			return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось обновить статус проекта")
		}
		return nil
	})
	if err != nil {
		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			return nil, err
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, bidAcceptFailedMsg)
	}

	return rejected, nil
}

func (r *BidRepository) lockOpenProject(ctx context.Context, tx *sqlx.Tx, projectID uuid.UUID) error {
	query, args, err := r.pg.Builder.
		Select("status").
		From("projects").
		Where(squirrel.Eq{"id": projectID}).
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return err
	}

	var status string
	if err := tx.GetContext(ctx, &status, query, args...); err != nil {
		return wrapRead(err, apperror.ErrProjectNotFound, "не удалось получить проект")
	}
	if valueobject.ProjectStatus(status) != valueobject.ProjectStatusOpen {
		return apperror.New(apperror.ErrCodeConflict, projectNotOpenMsg)
	}
	return nil
}

// Reject отклоняет заявку, только пока она в статусе pending.
func (r *BidRepository) Reject(ctx context.Context, bidID uuid.UUID) error {
	affected, err := execAffected(ctx, r.pg.DB, r.pg.Builder.
		Update("bids").
		Set("status", string(valueobject.BidStatusRejected)).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": bidID, "status": string(valueobject.BidStatusPending)}))
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось отклонить заявку")
	}
	if affected == 0 {
		found, err := exists(ctx, r.pg, "bids", bidID)
		if err != nil {
			return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить заявку")
		}
		if !found {
			return apperror.ErrBidNotFound
		}
		return apperror.New(apperror.ErrCodeConflict, bidNotPendingMsg)
	}
	return nil
}
