package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/ignatzorin/barter-backend/internal/domain/entity"
)

type BidRepository interface {
	// Create возвращает Conflict, если у фрилансера уже есть заявка на проект.
	Create(ctx context.Context, bid *entity.Bid) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Bid, error)
	FindByProjectAndFreelancer(ctx context.Context, projectID, freelancerID uuid.UUID) (*entity.Bid, error)
	FindByIDWithDetails(ctx context.Context, id uuid.UUID) (*entity.BidWithDetails, error)
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]*entity.BidWithFreelancer, error)
	ListByFreelancer(ctx context.Context, freelancerID uuid.UUID) ([]*entity.BidWithProject, error)

	// Accept в одной транзакции блокирует открытый проект, принимает заявку,
	// отклоняет остальные ожидающие заявки и переводит проект в работу.
	// Возвращает отклонённые заявки. Conflict, если проект уже не открыт
	// или заявка уже не ожидает решения.
	Accept(ctx context.Context, bidID, projectID uuid.UUID) ([]*entity.Bid, error)
	// Reject отклоняет заявку, только если она ещё ожидает решения. Иначе Conflict.
	Reject(ctx context.Context, bidID uuid.UUID) error
}
