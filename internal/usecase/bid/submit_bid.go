package bid

import (
	"context"

	"github.com/google/uuid"
	"github.com/ignatzorin/barter-backend/internal/domain/entity"
	"github.com/ignatzorin/barter-backend/internal/domain/repository"
	"github.com/ignatzorin/barter-backend/internal/pkg/apperror"
	"github.com/ignatzorin/barter-backend/internal/validation"
)

type SubmitBidInput struct {
	ProjectID    uuid.UUID
	FreelancerID uuid.UUID
	ProposalText string
	BarterOffer  []string
	PaymentOffer *float64
}

type SubmitBidUseCase struct {
	bidRepo     repository.BidRepository
	projectRepo repository.ProjectRepository
	notifier    Notifier
}

func NewSubmitBidUseCase(bidRepo repository.BidRepository, projectRepo repository.ProjectRepository, notifier Notifier) *SubmitBidUseCase {
	return &SubmitBidUseCase{
		bidRepo:     bidRepo,
		projectRepo: projectRepo,
		notifier:    notifier,
	}
}

func (uc *SubmitBidUseCase) Execute(ctx context.Context, input SubmitBidInput) (*entity.Bid, error) {
	project, err := uc.projectRepo.FindByID(ctx, input.ProjectID)
	if err != nil {
		return nil, err
	}

	if project.IsOwnedBy(input.FreelancerID) {
		return nil, apperror.New(apperror.ErrCodeForbidden, "нельзя откликнуться на собственный проект")
	}

	if !project.IsOpen() {
		return nil, apperror.New(apperror.ErrCodeConflict, "проект уже не принимает заявки")
	}

	existing, err := uc.bidRepo.FindByProjectAndFreelancer(ctx, input.ProjectID, input.FreelancerID)
	if err == nil && existing != nil {
		return nil, apperror.New(apperror.ErrCodeConflict, "вы уже откликнулись на этот проект")
	}
	if err != nil && !apperror.IsNotFound(err) {
		return nil, err
	}

	if err := validation.Check(
		validation.ValidateProposal(input.ProposalText),
		validation.ValidateSkills("barterOffer", input.BarterOffer),
	); err != nil {
		return nil, err
	}

	bid, err := entity.NewBid(
		input.ProjectID,
		input.FreelancerID,
		input.ProposalText,
		input.BarterOffer,
		input.PaymentOffer,
	)
	if err != nil {
		return nil, err
	}

	// Гонку двух одновременных откликов ловит уникальный индекс: Create вернёт Conflict.
	if err := uc.bidRepo.Create(ctx, bid); err != nil {
		return nil, err
	}

	notify(uc.notifier, project.ClientID, EventBidNew, bid)

	return bid, nil
}
