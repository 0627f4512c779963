package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Debanjan110d/DevQnA/internal/content"
	"github.com/Debanjan110d/DevQnA/internal/models"
)

type CommentHandler struct {
	comments *content.Comments
	logger   *zap.Logger
}

func NewCommentHandler(comments *content.Comments, logger *zap.Logger) *CommentHandler {
	return &CommentHandler{comments: comments, logger: logger}
}

// GetComments handles GET /api/comments?type=&typeId=
func (h *CommentHandler) GetComments(c *gin.Context) {
	typeID := c.Query("typeId")
	if typeID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "typeId is required"})
		return
	}

	list, err := h.comments.List(c.Request.Context(), models.ContentType(c.Query("type")), typeID, pageFromQuery(c))
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch comments")
		return
	}

	c.JSON(http.StatusOK, list)
}

// CreateComment adds a comment to a question or answer (PROTECTED)
func (h *CommentHandler) CreateComment(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var input models.CreateCommentRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	comment := &models.Comment{
		Content:  input.Content,
		AuthorID: userID,
		Type:     input.Type,
		TypeID:   input.TypeID,
	}
	if err := h.comments.Create(c.Request.Context(), comment); err != nil {
		respondError(c, h.logger, err, "Failed to create comment")
		return
	}

	c.JSON(http.StatusCreated, comment)
}

// DeleteComment removes a comment (PROTECTED, author only)
func (h *CommentHandler) DeleteComment(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	if err := h.comments.Delete(c.Request.Context(), c.Param("commentId"), userID); err != nil {
		respondError(c, h.logger, err, "Failed to delete comment")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Comment deleted successfully"})
}
