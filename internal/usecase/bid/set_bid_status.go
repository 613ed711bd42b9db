package bid

import (
	"context"

	"github.com/google/uuid"
	"github.com/ignatzorin/barter-backend/internal/domain/entity"
	"github.com/ignatzorin/barter-backend/internal/domain/repository"
	"github.com/ignatzorin/barter-backend/internal/domain/valueobject"
	"github.com/ignatzorin/barter-backend/internal/logger"
	"github.com/ignatzorin/barter-backend/internal/pkg/apperror"
)

type SetBidStatusUseCase struct {
	bidRepo     repository.BidRepository
	projectRepo repository.ProjectRepository
	notifier    Notifier
}

func NewSetBidStatusUseCase(bidRepo repository.BidRepository, projectRepo repository.ProjectRepository, notifier Notifier) *SetBidStatusUseCase {
	return &SetBidStatusUseCase{
		bidRepo:     bidRepo,
		projectRepo: projectRepo,
		notifier:    notifier,
	}
}

func (uc *SetBidStatusUseCase) Execute(ctx context.Context, bidID, requesterID uuid.UUID, newStatus string) (*entity.BidWithDetails, error) {
	decision, err := valueobject.NewBidDecision(newStatus)
	if err != nil {
		return nil, err
	}

	bid, err := uc.bidRepo.FindByID(ctx, bidID)
	if err != nil {
		return nil, err
	}

	project, err := uc.projectRepo.FindByID(ctx, bid.ProjectID)
	if err != nil {
		return nil, err
	}

	if !project.IsOwnedBy(requesterID) {
		return nil, apperror.ErrForbidden
	}

	switch decision {
	case valueobject.BidStatusAccepted:
		if err := uc.accept(ctx, bid, project); err != nil {
			return nil, err
		}

	case valueobject.BidStatusRejected:
		if err := bid.Reject(); err != nil {
			return nil, err
		}
		if err := uc.bidRepo.Reject(ctx, bid.ID); err != nil {
			return nil, err
		}
		notify(uc.notifier, bid.FreelancerID, EventBidUpdated, bid)
	}

	return uc.bidRepo.FindByIDWithDetails(ctx, bid.ID)
}

// accept проверяет переходы на сущностях, а атомарность каскада обеспечивает хранилище.
func (uc *SetBidStatusUseCase) accept(ctx context.Context, bid *entity.Bid, project *entity.Project) error {
	if err := bid.Accept(); err != nil {
		return err
	}
	if err := project.StartWork(); err != nil {
		return err
	}

	rejected, err := uc.bidRepo.Accept(ctx, bid.ID, project.ID)
	if err != nil {
		return err
	}

	logger.Log.WithFields(map[string]interface{}{
		"project_id":    project.ID,
		"bid_id":        bid.ID,
		"freelancer_id": bid.FreelancerID,
		"rejected":      len(rejected),
	}).Info("bid: заявка принята, проект переведён в работу")

	notify(uc.notifier, bid.FreelancerID, EventBidUpdated, bid)
	for _, sibling := range rejected {
		notify(uc.notifier, sibling.FreelancerID, EventBidUpdated, sibling)
	}
	return nil
}
