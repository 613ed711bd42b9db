package project

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/ignatzorin/barter-backend/internal/domain/entity"
	"github.com/ignatzorin/barter-backend/internal/domain/repository"
	"github.com/ignatzorin/barter-backend/internal/domain/valueobject"
)

type ListFilter struct {
	Skill         string
	PaymentMethod string
}

type ListProjectsUseCase struct {
	projectRepo repository.ProjectRepository
}

func NewListProjectsUseCase(projectRepo repository.ProjectRepository) *ListProjectsUseCase {
	return &ListProjectsUseCase{projectRepo: projectRepo}
}

// ListOpen возвращает открытые проекты в порядке создания.
func (uc *ListProjectsUseCase) ListOpen(ctx context.Context, filter ListFilter) ([]*entity.ProjectWithClient, error) {
	repoFilter := repository.ProjectFilter{
		Skill: strings.TrimSpace(filter.Skill),
	}

	if filter.PaymentMethod != "" {
		method, err := valueobject.NewPaymentMethod(filter.PaymentMethod)
		if err != nil {
			return nil, err
		}
		repoFilter.PaymentMethod = method
	}

	return uc.projectRepo.ListOpen(ctx, repoFilter)
}

// ListMine возвращает все проекты заказчика, новые первыми.
func (uc *ListProjectsUseCase) ListMine(ctx context.Context, clientID uuid.UUID) ([]*entity.ProjectWithClient, error) {
	return uc.projectRepo.ListByClient(ctx, clientID)
}
