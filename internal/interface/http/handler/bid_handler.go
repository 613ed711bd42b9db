package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/barter-backend/internal/interface/http/dto"
	"github.com/ignatzorin/barter-backend/internal/interface/http/response"
	"github.com/ignatzorin/barter-backend/internal/usecase/bid"
)

type BidHandler struct {
	submitBidUC       *bid.SubmitBidUseCase
	listProjectBidsUC *bid.ListProjectBidsUseCase
	listMyBidsUC      *bid.ListMyBidsUseCase
	setBidStatusUC    *bid.SetBidStatusUseCase
}

func NewBidHandler(
	submitBidUC *bid.SubmitBidUseCase,
	listProjectBidsUC *bid.ListProjectBidsUseCase,
	listMyBidsUC *bid.ListMyBidsUseCase,
	setBidStatusUC *bid.SetBidStatusUseCase,
) *BidHandler {
	return &BidHandler{
		submitBidUC:       submitBidUC,
		listProjectBidsUC: listProjectBidsUC,
		listMyBidsUC:      listMyBidsUC,
		setBidStatusUC:    setBidStatusUC,
	}
}

// SubmitBid обрабатывает POST /api/bids.
func (h *BidHandler) SubmitBid(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req dto.CreateBidRequest
	if !bindJSON(c, &req) {
		return
	}

	created, err := h.submitBidUC.Execute(c.Request.Context(), req.ToInput(userID))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.ToBidResponse(created))
}

// ListProjectBids доступен только владельцу проекта.
func (h *BidHandler) ListProjectBids(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	projectID, ok := parseIDParam(c, "projectId", "некорректный ID проекта")
	if !ok {
		return
	}

	bids, err := h.listProjectBidsUC.Execute(c.Request.Context(), projectID, userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToBidWithFreelancerResponses(bids))
}

func (h *BidHandler) ListMyBids(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	bids, err := h.listMyBidsUC.Execute(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToBidWithProjectResponses(bids))
}

// UpdateBidStatus принимает или отклоняет заявку. Принятие отклоняет
// остальные заявки и переводит проект в работу.
func (h *BidHandler) UpdateBidStatus(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	bidID, ok := parseIDParam(c, "id", "некорректный ID заявки")
	if !ok {
		return
	}

	var req dto.UpdateBidStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	updated, err := h.setBidStatusUC.Execute(c.Request.Context(), bidID, userID, req.Status)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToBidWithDetailsResponse(updated))
}
