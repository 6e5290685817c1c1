package handlers

import (
	"context"
	"net/http"

	"marketplace-project/backend/middleware"
	"marketplace-project/backend/models"
	"marketplace-project/backend/services"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type BidHandler struct {
	bidService *services.BidService
}

func NewBidHandler(bidService *services.BidService) *BidHandler {
	return &BidHandler{bidService: bidService}
}

type placeBidRequest struct {
	TaskID        string       `json:"taskId" validate:"required"`
	Amount        models.Money `json:"bidAmount" validate:"required"`
	Message       string       `json:"message"`
	EstimatedTime string       `json:"estimatedTime"`
}

func (h *BidHandler) PlaceBid(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromRequest(r)
	if !ok {
		writeError(w, models.NewSecurityError("invalid token"))
		return
	}

	var req placeBidRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, err)
		return
	}

	taskID, err := primitive.ObjectIDFromHex(req.TaskID)
	if err != nil {
		writeError(w, models.NewValidationError("invalid task ID format"))
		return
	}

	bid, err := h.bidService.PlaceBid(r.Context(), userID, services.PlaceBidInput{
		TaskID:        taskID,
		Amount:        req.Amount,
		Message:       req.Message,
		EstimatedTime: req.EstimatedTime,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, bid)
}

func (h *BidHandler) GetBidsForTask(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromRequest(r)
	if !ok {
		writeError(w, models.NewSecurityError("invalid token"))
		return
	}
	taskID, err := primitive.ObjectIDFromHex(mux.Vars(r)["taskId"])
	if err != nil {
		writeError(w, models.NewValidationError("invalid task ID format"))
		return
	}

	bids, err := h.bidService.GetBidsForTask(r.Context(), taskID, userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bids)
}

func (h *BidHandler) GetMyBids(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromRequest(r)
	if !ok {
		writeError(w, models.NewSecurityError("invalid token"))
		return
	}

	bids, err := h.bidService.GetMyBids(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bids)
}

func (h *BidHandler) AcceptBid(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, h.bidService.AcceptBid)
}

func (h *BidHandler) RejectBid(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, h.bidService.RejectBid)
}

func (h *BidHandler) decide(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, bidID, actorID primitive.ObjectID) (*models.Bid, error)) {
	userID, ok := middleware.UserIDFromRequest(r)
	if !ok {
		writeError(w, models.NewSecurityError("invalid token"))
		return
	}
	bidID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, models.NewValidationError("invalid bid ID format"))
		return
	}

	bid, err := fn(r.Context(), bidID, userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bid)
}

func (h *BidHandler) DeleteBid(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromRequest(r)
	if !ok {
		writeError(w, models.NewSecurityError("invalid token"))
		return
	}
	bidID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, models.NewValidationError("invalid bid ID format"))
		return
	}

	if err := h.bidService.WithdrawBid(r.Context(), bidID, userID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "bid withdrawn successfully"})
}
