package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Debanjan110d/DevQnA/internal/content"
	"github.com/Debanjan110d/DevQnA/internal/middleware"
	"github.com/Debanjan110d/DevQnA/internal/models"
)

type AnswerHandler struct {
	answers *content.Answers
	logger  *zap.Logger
}

func NewAnswerHandler(answers *content.Answers, logger *zap.Logger) *AnswerHandler {
	return &AnswerHandler{answers: answers, logger: logger}
}

// CreateAnswer handles POST /api/answer
func (h *AnswerHandler) CreateAnswer(c *gin.Context) {
	var input models.CreateAnswerRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !sameCaller(c, input.AuthorID) {
		return
	}

	answer, err := h.answers.Create(c.Request.Context(), input.QuestionID, input.Content, input.AuthorID)
	if err != nil {
		respondError(c, h.logger, err, "Error creating answer")
		return
	}

	c.JSON(http.StatusCreated, answer)
}

// DeleteAnswer handles DELETE /api/answer
func (h *AnswerHandler) DeleteAnswer(c *gin.Context) {
	var input models.DeleteAnswerRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !sameCaller(c, input.AuthorID) {
		return
	}

	ctx := c.Request.Context()
	if userID, ok := middleware.UserID(c); ok {
		answer, err := h.answers.Get(ctx, input.AnswerID)
		if err != nil {
			respondError(c, h.logger, err, "Error deleting answer")
			return
		}
		if answer.AuthorID != "" && answer.AuthorID != userID {
			c.JSON(http.StatusForbidden, gin.H{"error": "You can only delete your own answers"})
			return
		}
	}

	if err := h.answers.Delete(ctx, input.AnswerID, input.AuthorID); err != nil {
		respondError(c, h.logger, err, "Error deleting answer")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Answer deleted successfully"})
}

// UpdateAnswer handles PUT /api/answers/:id (PROTECTED)
func (h *AnswerHandler) UpdateAnswer(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var input models.UpdateAnswerRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	answer, err := h.answers.Update(c.Request.Context(), c.Param("id"), input.Content, userID)
	if err != nil {
		respondError(c, h.logger, err, "Error updating answer")
		return
	}

	c.JSON(http.StatusOK, answer)
}
