package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ignatzorin/barter-backend/internal/domain/valueobject"
	"github.com/ignatzorin/barter-backend/internal/pkg/apperror"
)

type Bid struct {
	ID           uuid.UUID
	ProjectID    uuid.UUID
	FreelancerID uuid.UUID
	ProposalText string
	BarterOffer  valueobject.SkillSet
	PaymentOffer *valueobject.Money
	Status       valueobject.BidStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func NewBid(projectID, freelancerID uuid.UUID, proposalText string, barterOffer []string, paymentOffer *float64) (*Bid, error) {
	payment, err := valueobject.NewPaymentOffer(paymentOffer)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	return &Bid{
		ID:           uuid.New(),
		ProjectID:    projectID,
		FreelancerID: freelancerID,
		ProposalText: strings.TrimSpace(proposalText),
		BarterOffer:  valueobject.NewSkillSet(barterOffer),
		PaymentOffer: payment,
		Status:       valueobject.BidStatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

func (b *Bid) Accept() error {
	if b.Status != valueobject.BidStatusPending {
		return apperror.New(apperror.ErrCodeConflict, "можно принять только ожидающую заявку")
	}
	b.Status = valueobject.BidStatusAccepted
	b.UpdatedAt = time.Now()
	return nil
}

func (b *Bid) Reject() error {
	if b.Status != valueobject.BidStatusPending {
		return apperror.New(apperror.ErrCodeConflict, "можно отклонить только ожидающую заявку")
	}
	b.Status = valueobject.BidStatusRejected
	b.UpdatedAt = time.Now()
	return nil
}

func (b *Bid) IsPending() bool {
	return b.Status == valueobject.BidStatusPending
}

// PaymentAmount возвращает nil, если денежная часть не предложена.
func (b *Bid) PaymentAmount() *float64 {
	if b.PaymentOffer == nil {
		return nil
	}
	amount := b.PaymentOffer.Amount
	return &amount
}
