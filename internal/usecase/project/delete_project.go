package project

import (
	"context"

	"github.com/google/uuid"
	"github.com/ignatzorin/barter-backend/internal/domain/repository"
	"github.com/ignatzorin/barter-backend/internal/pkg/apperror"
)

type DeleteProjectUseCase struct {
	projectRepo repository.ProjectRepository
}

func NewDeleteProjectUseCase(projectRepo repository.ProjectRepository) *DeleteProjectUseCase {
	return &DeleteProjectUseCase{projectRepo: projectRepo}
}

func (uc *DeleteProjectUseCase) Execute(ctx context.Context, projectID, requesterID uuid.UUID) error {
	project, err := uc.projectRepo.FindByID(ctx, projectID)
	if err != nil {
		return err
	}

	if !project.IsOwnedBy(requesterID) {
		return apperror.ErrForbidden
	}

	if err := project.CanBeDeleted(); err != nil {
		return err
	}

	// Удаление условное: если заявку успели принять, хранилище вернёт Conflict.
	return uc.projectRepo.DeleteIfOpen(ctx, project.ID)
}
