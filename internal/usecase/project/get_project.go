package project

import (
	"context"

	"github.com/google/uuid"
	"github.com/ignatzorin/barter-backend/internal/domain/entity"
	"github.com/ignatzorin/barter-backend/internal/domain/repository"
)

type GetProjectUseCase struct {
	projectRepo repository.ProjectRepository
}

func NewGetProjectUseCase(projectRepo repository.ProjectRepository) *GetProjectUseCase {
	return &GetProjectUseCase{projectRepo: projectRepo}
}

func (uc *GetProjectUseCase) Execute(ctx context.Context, id uuid.UUID) (*entity.ProjectWithClient, error) {
	return uc.projectRepo.FindByIDWithClient(ctx, id)
}
