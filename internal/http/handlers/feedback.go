package handlers

import (
	"net/http"

	"busbooking/internal/domain/models"

	"github.com/gin-gonic/gin"
)

type feedbackRequest struct {
	UserID   Intish `json:"userId"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Rating   Intish `json:"rating"`
	Comments string `json:"comments"`
}

// POST /api/feedback
func (h *Handler) SubmitFeedback(c *gin.Context) {
	var req feedbackRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	userID, err := bookingUser(c, req.UserID.Int64())
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	f := models.Feedback{
		UserID:   userID,
		Name:     req.Name,
		Email:    req.Email,
		Rating:   int(req.Rating.Int64()),
		Comments: req.Comments,
	}

	id, err := h.Feedback.Submit(c.Request.Context(), f)
	if err != nil {
		h.fail(c, "feedback", "submit", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Feedback submitted successfully", "id": id})
}
