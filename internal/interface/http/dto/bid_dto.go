package dto

import (
	"github.com/google/uuid"

	"github.com/ignatzorin/barter-backend/internal/domain/entity"
	"github.com/ignatzorin/barter-backend/internal/usecase/bid"
)

type CreateBidRequest struct {
	ProjectID    string   `json:"projectId" binding:"required,uuid"`
	ProposalText string   `json:"proposalText" binding:"max=5000"`
	BarterOffer  []string `json:"barterOffer" binding:"omitempty,max=50,dive,max=50"`
	PaymentOffer *float64 `json:"paymentOffer"`
}

type UpdateBidStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// ProjectSummaryResponse: проект внутри заявки.
type ProjectSummaryResponse struct {
	ID                     uuid.UUID       `json:"id"`
	Title                  string          `json:"title"`
	Description            string          `json:"description"`
	Status                 string          `json:"status"`
	PreferredPaymentMethod string          `json:"preferredPaymentMethod"`
	Client                 *PersonResponse `json:"client,omitempty"`
}

type BidResponse struct {
	ID           uuid.UUID               `json:"id"`
	ProjectID    uuid.UUID               `json:"projectId"`
	FreelancerID uuid.UUID               `json:"freelancerId"`
	Project      *ProjectSummaryResponse `json:"project,omitempty"`
	Freelancer   *PersonResponse         `json:"freelancer,omitempty"`
	ProposalText string                  `json:"proposalText"`
	BarterOffer  []string                `json:"barterOffer"`
	PaymentOffer *float64                `json:"paymentOffer"`
	Status       string                  `json:"status"`
	CreatedAt    string                  `json:"createdAt"`
	UpdatedAt    string                  `json:"updatedAt"`
}

func (r CreateBidRequest) ToInput(freelancerID uuid.UUID) bid.SubmitBidInput {
	projectID, _ := uuid.Parse(r.ProjectID)
	return bid.SubmitBidInput{
		ProjectID:    projectID,
		FreelancerID: freelancerID,
		ProposalText: r.ProposalText,
		BarterOffer:  r.BarterOffer,
		PaymentOffer: r.PaymentOffer,
	}
}

func ToBidResponse(b *entity.Bid) BidResponse {
	return BidResponse{
		ID:           b.ID,
		ProjectID:    b.ProjectID,
		FreelancerID: b.FreelancerID,
		ProposalText: b.ProposalText,
		BarterOffer:  b.BarterOffer.Strings(),
		PaymentOffer: b.PaymentAmount(),
		Status:       string(b.Status),
		CreatedAt:    formatTime(b.CreatedAt),
		UpdatedAt:    formatTime(b.UpdatedAt),
	}
}

func ToBidWithFreelancerResponses(bids []*entity.BidWithFreelancer) []BidResponse {
	responses := make([]BidResponse, 0, len(bids))
	for _, b := range bids {
		resp := ToBidResponse(b.Bid)
		resp.Freelancer = &PersonResponse{
			ID:           b.Freelancer.ID,
			Username:     b.Freelancer.Username,
			Email:        b.Freelancer.Email,
			Skills:       b.Freelancer.Skills.Strings(),
			BarterSkills: b.Freelancer.BarterSkills.Strings(),
		}
		responses = append(responses, resp)
	}
	return responses
}

func ToBidWithProjectResponses(bids []*entity.BidWithProject) []BidResponse {
	responses := make([]BidResponse, 0, len(bids))
	for _, b := range bids {
		resp := ToBidResponse(b.Bid)
		summary := toProjectSummary(b.Project)
		summary.Client = &PersonResponse{ID: b.Client.ID, Username: b.Client.Username}
		resp.Project = summary
		responses = append(responses, resp)
	}
	return responses
}

func ToBidWithDetailsResponse(b *entity.BidWithDetails) BidResponse {
	resp := ToBidResponse(b.Bid)
	resp.Project = toProjectSummary(b.Project)
	resp.Freelancer = &PersonResponse{
		ID:       b.Freelancer.ID,
		Username: b.Freelancer.Username,
		Email:    b.Freelancer.Email,
	}
	return resp
}

func toProjectSummary(p *entity.Project) *ProjectSummaryResponse {
	if p == nil {
		return nil
	}
	return &ProjectSummaryResponse{
		ID:                     p.ID,
		Title:                  p.Title,
		Description:            p.Description,
		Status:                 string(p.Status),
		PreferredPaymentMethod: string(p.PreferredPaymentMethod),
	}
}
