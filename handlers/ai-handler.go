package handlers

import (
	"net/http"

	"marketplace-project/backend/middleware"
	"marketplace-project/backend/models"
	"marketplace-project/backend/services"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AIHandler struct {
	aiService *services.AIService
}

func NewAIHandler(aiService *services.AIService) *AIHandler {
	return &AIHandler{aiService: aiService}
}

func (h *AIHandler) RankBids(w http.ResponseWriter, r *http.Request) {
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

	ranked, err := h.aiService.RankBids(r.Context(), taskID, userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"rankings": ranked})
}
