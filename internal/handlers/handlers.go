package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Debanjan110d/DevQnA/internal/content"
	"github.com/Debanjan110d/DevQnA/internal/middleware"
	"github.com/Debanjan110d/DevQnA/internal/models"
	"github.com/Debanjan110d/DevQnA/internal/store"
	"github.com/Debanjan110d/DevQnA/internal/voting"
)

// Store is the slice of the document store the HTTP layer reads directly.
// Mutations with side effects go through the content and voting services.
type Store interface {
	CreateAccount(ctx context.Context, a *models.Account) error
	GetAccount(ctx context.Context, id string) (*models.Account, error)
	FindAccountByEmail(ctx context.Context, email string) (*models.Account, error)

	CreateProfile(ctx context.Context, p *models.UserProfile) error
	FindProfile(ctx context.Context, userID string) (*models.UserProfile, error)
	UpdateProfile(ctx context.Context, id string, upd store.ProfileUpdate) (*models.UserProfile, error)

	ListQuestions(ctx context.Context, q store.QuestionQuery) (store.List[models.Question], error)
	ListAnswers(ctx context.Context, q store.AnswerQuery) (store.List[models.Answer], error)

	GetBucket(ctx context.Context, id string) (*models.Bucket, error)
	CreateFile(ctx context.Context, f *models.File) error
	GetFile(ctx context.Context, bucketID, fileID string) (*models.File, error)
	FileURL(bucketID, fileID string) string
}

type TokenSigner interface {
	Sign(userID string) (string, error)
}

// PrefsEditor rewrites fields of an account's prefs without racing reputation
// updates to the same document.
type PrefsEditor interface {
	SetAvatar(ctx context.Context, userID, avatar string) error
}

// Services is everything the handlers are built from.
type Services struct {
	Store     Store
	Questions *content.Questions
	Answers   *content.Answers
	Comments  *content.Comments
	Votes     *voting.Reconciler
	Prefs     PrefsEditor
	Tokens    TokenSigner
	Objects   ObjectStore
	Logger    *zap.Logger
}

// Handler combines all handler types
type Handler struct {
	Auth     *AuthHandler
	Question *QuestionHandler
	Answer   *AnswerHandler
	Vote     *VoteHandler
	Comment  *CommentHandler
	User     *UserHandler
	Storage  *StorageHandler
}

// NewHandler creates a unified handler with all sub-handlers
func NewHandler(s Services) *Handler {
	logger := s.Logger.Named("handlers")
	return &Handler{
		Auth:     NewAuthHandler(s.Store, s.Tokens, logger),
		Question: NewQuestionHandler(s.Questions, s.Answers, s.Votes, s.Store, logger),
		Answer:   NewAnswerHandler(s.Answers, logger),
		Vote:     NewVoteHandler(s.Votes, logger),
		Comment:  NewCommentHandler(s.Comments, logger),
		User:     NewUserHandler(s.Store, s.Prefs, logger),
		Storage:  NewStorageHandler(s.Store, s.Objects, logger),
	}
}

// respondError writes err as {"error": message}. Store errors carry their own
// status and message; anything else is a 500 with the fallback message.
func respondError(c *gin.Context, logger *zap.Logger, err error, fallback string) {
	status := store.StatusCode(err)
	if status >= http.StatusInternalServerError {
		logger.Error(fallback, zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(status, gin.H{"error": fallback})
		return
	}
	c.JSON(status, gin.H{"error": store.Message(err, fallback)})
}

// sameCaller rejects a request whose body names a different user than the
// bearer token. Anonymous requests pass.
func sameCaller(c *gin.Context, bodyUserID string) bool {
	userID, ok := middleware.UserID(c)
	if !ok || bodyUserID == "" || userID == bodyUserID {
		return true
	}
	c.JSON(http.StatusForbidden, gin.H{"error": "Token does not match the user in the request"})
	return false
}

func requireUser(c *gin.Context) (string, bool) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
	}
	return userID, ok
}

func pageFromQuery(c *gin.Context) store.Page {
	limit, _ := strconv.Atoi(c.Query("limit"))
	offset, _ := strconv.Atoi(c.Query("offset"))
	return store.Page{Limit: limit, Offset: offset}
}
