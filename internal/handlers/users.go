package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/Debanjan110d/DevQnA/internal/models"
	"github.com/Debanjan110d/DevQnA/internal/store"
)

const recentLimit = 10

type UserHandler struct {
	store  Store
	prefs  PrefsEditor
	logger *zap.Logger
}

func NewUserHandler(s Store, prefs PrefsEditor, logger *zap.Logger) *UserHandler {
	return &UserHandler{store: s, prefs: prefs, logger: logger}
}

func newPrefs(p models.Prefs) datatypes.JSONType[models.Prefs] {
	return datatypes.NewJSONType(p)
}

// profileFor returns the stored profile of userID or, when there is none, one
// assembled from the account and its prefs.
func (h *UserHandler) profileFor(ctx context.Context, userID string) (*models.UserProfile, error) {
	profile, err := h.store.FindProfile(ctx, userID)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	account, err := h.store.GetAccount(ctx, userID)
	if err != nil {
		return nil, err
	}
	prefs := account.Prefs.Data()
	return &models.UserProfile{
		UserID:     account.ID,
		Name:       account.Name,
		Email:      account.Email,
		Avatar:     prefs.Avatar,
		Reputation: prefs.Reputation,
		CreatedAt:  account.CreatedAt,
	}, nil
}

// GetUserProfile returns a user's profile with their latest questions and
// answers
func (h *UserHandler) GetUserProfile(c *gin.Context) {
	ctx := c.Request.Context()
	userID := c.Param("id")

	profile, err := h.profileFor(ctx, userID)
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch user")
		return
	}

	recent := store.Page{Limit: recentLimit}
	questions, err := h.store.ListQuestions(ctx, store.QuestionQuery{AuthorID: userID, Page: recent})
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch user")
		return
	}
	answers, err := h.store.ListAnswers(ctx, store.AnswerQuery{AuthorID: userID, Page: recent})
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch user")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":      profile,
		"questions": questions,
		"answers":   answers,
	})
}

// UpdateUserProfile edits name, bio and avatar of the caller's own profile.
// The avatar is mirrored into the account prefs.
func (h *UserHandler) UpdateUserProfile(c *gin.Context) {
	userID := c.Param("id")

	authUserID, ok := requireUser(c)
	if !ok {
		return
	}
	if authUserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only update your own profile"})
		return
	}

	var input models.UpdateProfileRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	profile, err := h.profileFor(ctx, userID)
	if err != nil {
		respondError(c, h.logger, err, "Failed to update profile")
		return
	}
	if profile.ID == "" {
		if err := h.store.CreateProfile(ctx, profile); err != nil {
			respondError(c, h.logger, err, "Failed to update profile")
			return
		}
	}

	updated, err := h.store.UpdateProfile(ctx, profile.ID, store.ProfileUpdate{
		Name:   input.Name,
		Bio:    input.Bio,
		Avatar: input.Avatar,
	})
	if err != nil {
		respondError(c, h.logger, err, "Failed to update profile")
		return
	}

	if input.Avatar != nil {
		h.mirrorAvatar(ctx, userID, *input.Avatar)
	}

	c.JSON(http.StatusOK, updated)
}

func (h *UserHandler) mirrorAvatar(ctx context.Context, userID, avatar string) {
	if err := h.prefs.SetAvatar(ctx, userID, avatar); err != nil {
		h.logger.Warn("Failed to mirror avatar into prefs",
			zap.String("userId", userID),
			zap.Error(err))
	}
}
