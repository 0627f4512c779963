package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Debanjan110d/DevQnA/internal/middleware"
	"github.com/Debanjan110d/DevQnA/internal/models"
	"github.com/Debanjan110d/DevQnA/internal/voting"
)

type VoteHandler struct {
	votes  *voting.Reconciler
	logger *zap.Logger
}

func NewVoteHandler(votes *voting.Reconciler, logger *zap.Logger) *VoteHandler {
	return &VoteHandler{votes: votes, logger: logger}
}

// CastVote handles POST /api/vote. Casting the same vote twice retracts it and
// casting the opposite vote flips it.
func (h *VoteHandler) CastVote(c *gin.Context) {
	var input models.VoteRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !sameCaller(c, input.VotedByID) {
		return
	}

	score, err := h.votes.Cast(c.Request.Context(), voting.Intent{
		VotedByID:  input.VotedByID,
		VoteStatus: input.VoteStatus,
		Type:       input.Type,
		TypeID:     input.TypeID,
	})
	if err != nil {
		respondError(c, h.logger, err, "Error voting")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"document":   nil,
			"voteResult": score,
		},
	})
}

// GetVote handles GET /api/vote?type=&typeId=[&votedById=]
func (h *VoteHandler) GetVote(c *gin.Context) {
	typ := models.ContentType(c.Query("type"))
	typeID := c.Query("typeId")
	if !typ.Valid() || typeID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "type and typeId are required"})
		return
	}

	voterID := c.Query("votedById")
	if voterID == "" {
		voterID, _ = middleware.UserID(c)
	}

	ctx := c.Request.Context()
	score, err := h.votes.Score(ctx, typ, typeID)
	if err != nil {
		respondError(c, h.logger, err, "Error fetching votes")
		return
	}
	status, err := h.votes.Status(ctx, typ, typeID, voterID)
	if err != nil {
		respondError(c, h.logger, err, "Error fetching votes")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"voteResult": score,
			"voteStatus": status,
		},
	})
}
