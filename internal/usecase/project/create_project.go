package project

import (
	"context"

	"github.com/google/uuid"
	"github.com/ignatzorin/barter-backend/internal/domain/entity"
	"github.com/ignatzorin/barter-backend/internal/domain/repository"
	"github.com/ignatzorin/barter-backend/internal/validation"
)

type CreateProjectInput struct {
	ClientID               uuid.UUID
	Title                  string
	Description            string
	PreferredPaymentMethod string
	SkillsRequired         []string
}

type CreateProjectUseCase struct {
	projectRepo repository.ProjectRepository
}

func NewCreateProjectUseCase(projectRepo repository.ProjectRepository) *CreateProjectUseCase {
	return &CreateProjectUseCase{projectRepo: projectRepo}
}

func (uc *CreateProjectUseCase) Execute(ctx context.Context, input CreateProjectInput) (*entity.Project, error) {
	if err := validation.Check(
		validation.ValidateProject(input.Title, input.Description),
		validation.ValidateSkills("skillsRequired", input.SkillsRequired),
	); err != nil {
		return nil, err
	}

	project, err := entity.NewProject(
		input.ClientID,
		input.Title,
		input.Description,
		input.PreferredPaymentMethod,
		input.SkillsRequired,
	)
	if err != nil {
		return nil, err
	}

	if err := uc.projectRepo.Create(ctx, project); err != nil {
		return nil, err
	}

	return project, nil
}
