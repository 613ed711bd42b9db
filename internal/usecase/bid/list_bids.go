package bid

import (
	"context"

	"github.com/google/uuid"
	"github.com/ignatzorin/barter-backend/internal/domain/entity"
	"github.com/ignatzorin/barter-backend/internal/domain/repository"
	"github.com/ignatzorin/barter-backend/internal/pkg/apperror"
)

type ListProjectBidsUseCase struct {
	bidRepo     repository.BidRepository
	projectRepo repository.ProjectRepository
}

func NewListProjectBidsUseCase(bidRepo repository.BidRepository, projectRepo repository.ProjectRepository) *ListProjectBidsUseCase {
	return &ListProjectBidsUseCase{
		bidRepo:     bidRepo,
		projectRepo: projectRepo,
	}
}

// Execute возвращает заявки проекта. Смотреть их может только владелец.
func (uc *ListProjectBidsUseCase) Execute(ctx context.Context, projectID, requesterID uuid.UUID) ([]*entity.BidWithFreelancer, error) {
	project, err := uc.projectRepo.FindByID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	if !project.IsOwnedBy(requesterID) {
		return nil, apperror.ErrForbidden
	}

	return uc.bidRepo.ListByProject(ctx, projectID)
}

type ListMyBidsUseCase struct {
	bidRepo repository.BidRepository
}

func NewListMyBidsUseCase(bidRepo repository.BidRepository) *ListMyBidsUseCase {
	return &ListMyBidsUseCase{bidRepo: bidRepo}
}

// Execute возвращает заявки фрилансера, новые первыми.
func (uc *ListMyBidsUseCase) Execute(ctx context.Context, freelancerID uuid.UUID) ([]*entity.BidWithProject, error) {
	return uc.bidRepo.ListByFreelancer(ctx, freelancerID)
}
