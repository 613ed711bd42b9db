package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/ignatzorin/barter-backend/internal/domain/entity"
	"github.com/ignatzorin/barter-backend/internal/domain/valueobject"
)

type ProjectRepository interface {
	Create(ctx context.Context, project *entity.Project) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Project, error)
	FindByIDWithClient(ctx context.Context, id uuid.UUID) (*entity.ProjectWithClient, error)
	ListOpen(ctx context.Context, filter ProjectFilter) ([]*entity.ProjectWithClient, error)
	ListByClient(ctx context.Context, clientID uuid.UUID) ([]*entity.ProjectWithClient, error)

	// UpdateStatus меняет статус, только если текущий равен from. Иначе Conflict.
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to valueobject.ProjectStatus) error
	// DeleteIfOpen удаляет проект вместе с заявками, только пока он открыт. Иначе Conflict.
	DeleteIfOpen(ctx context.Context, id uuid.UUID) error
}

type ProjectFilter struct {
	Skill         string
	PaymentMethod valueobject.PaymentMethod
}
