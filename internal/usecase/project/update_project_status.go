package project

import (
	"context"

	"github.com/google/uuid"
	"github.com/ignatzorin/barter-backend/internal/domain/entity"
	"github.com/ignatzorin/barter-backend/internal/domain/repository"
	"github.com/ignatzorin/barter-backend/internal/domain/valueobject"
	"github.com/ignatzorin/barter-backend/internal/pkg/apperror"
)

type UpdateProjectStatusUseCase struct {
	projectRepo repository.ProjectRepository
}

func NewUpdateProjectStatusUseCase(projectRepo repository.ProjectRepository) *UpdateProjectStatusUseCase {
	return &UpdateProjectStatusUseCase{projectRepo: projectRepo}
}

// Execute применяет ручную смену статуса владельцем. В работу проект
// переводит только принятие заявки, поэтому вручную доступно лишь завершение.
func (uc *UpdateProjectStatusUseCase) Execute(ctx context.Context, projectID, requesterID uuid.UUID, newStatus string) (*entity.ProjectWithClient, error) {
	project, err := uc.projectRepo.FindByID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	if !project.IsOwnedBy(requesterID) {
		return nil, apperror.ErrForbidden
	}

	status, err := valueobject.NewProjectStatus(newStatus)
	if err != nil {
		return nil, err
	}

	from := project.Status
	if err := project.ChangeStatus(status); err != nil {
		return nil, err
	}

	if err := uc.projectRepo.UpdateStatus(ctx, project.ID, from, status); err != nil {
		return nil, err
	}

	return uc.projectRepo.FindByIDWithClient(ctx, project.ID)
}
