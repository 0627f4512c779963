package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/Debanjan110d/DevQnA/internal/models"
	"github.com/Debanjan110d/DevQnA/internal/store"
)

type AuthHandler struct {
	store  Store
	tokens TokenSigner
	logger *zap.Logger
}

func NewAuthHandler(s Store, tokens TokenSigner, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{store: s, tokens: tokens, logger: logger}
}

func accountJSON(a *models.Account) gin.H {
	return gin.H{
		"$id":        a.ID,
		"name":       a.Name,
		"email":      a.Email,
		"prefs":      a.Prefs.Data(),
		"$createdAt": a.CreatedAt,
	}
}

// Register handles user registration. The account starts with zero
// reputation and gets a matching public profile.
func (h *AuthHandler) Register(c *gin.Context) {
	var input models.RegisterRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	ctx := c.Request.Context()
	account := &models.Account{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: string(hashedPassword),
	}
	account.Prefs = newPrefs(models.Prefs{Reputation: 0, Avatar: input.Avatar})

	if err := h.store.CreateAccount(ctx, account); err != nil {
		if errors.Is(err, store.ErrConflict) {
			c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
			return
		}
		respondError(c, h.logger, err, "Failed to create user")
		return
	}

	profile := &models.UserProfile{
		UserID: account.ID,
		Name:   account.Name,
		Email:  account.Email,
		Avatar: input.Avatar,
	}
	if err := h.store.CreateProfile(ctx, profile); err != nil {
		h.logger.Warn("Failed to create user profile",
			zap.String("userId", account.ID),
			zap.Error(err))
	}

	token, err := h.tokens.Sign(account.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User registered successfully",
		"token":   token,
		"user":    accountJSON(account),
	})
}

// Login handles user login
func (h *AuthHandler) Login(c *gin.Context) {
	var input models.LoginRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	account, err := h.store.FindAccountByEmail(c.Request.Context(), input.Email)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}
	if err != nil {
		respondError(c, h.logger, err, "Failed to log in")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(input.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	token, err := h.tokens.Sign(account.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"token":   token,
		"user":    accountJSON(account),
	})
}

// GetMe returns the current authenticated user
func (h *AuthHandler) GetMe(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	account, err := h.store.GetAccount(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch user")
		return
	}

	c.JSON(http.StatusOK, accountJSON(account))
}
