package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Debanjan110d/DevQnA/internal/content"
	"github.com/Debanjan110d/DevQnA/internal/models"
	"github.com/Debanjan110d/DevQnA/internal/store"
	"github.com/Debanjan110d/DevQnA/internal/voting"
)

type QuestionHandler struct {
	questions *content.Questions
	answers   *content.Answers
	votes     *voting.Reconciler
	store     Store
	logger    *zap.Logger
}

func NewQuestionHandler(questions *content.Questions, answers *content.Answers, votes *voting.Reconciler, s Store, logger *zap.Logger) *QuestionHandler {
	return &QuestionHandler{
		questions: questions,
		answers:   answers,
		votes:     votes,
		store:     s,
		logger:    logger,
	}
}

type questionView struct {
	models.Question
	VoteResult    int    `json:"voteResult"`
	AttachmentURL string `json:"attachmentUrl,omitempty"`
}

type answerView struct {
	models.Answer
	VoteResult int `json:"voteResult"`
}

func (h *QuestionHandler) viewQuestion(ctx context.Context, q models.Question) (questionView, error) {
	score, err := h.votes.Score(ctx, models.TypeQuestion, q.ID)
	if err != nil {
		return questionView{}, err
	}
	v := questionView{Question: q, VoteResult: score}
	if q.AttachmentID != "" {
		v.AttachmentURL = h.store.FileURL(models.QuestionAttachmentBucket, q.AttachmentID)
	}
	return v, nil
}

// GetQuestions handles GET /api/questions?author=&tag=&search=&limit=&offset=
func (h *QuestionHandler) GetQuestions(c *gin.Context) {
	ctx := c.Request.Context()
	list, err := h.questions.List(ctx, store.QuestionQuery{
		AuthorID: c.Query("author"),
		Tag:      c.Query("tag"),
		Search:   c.Query("search"),
		Page:     pageFromQuery(c),
	})
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch questions")
		return
	}

	views := make([]questionView, 0, len(list.Documents))
	for _, q := range list.Documents {
		v, err := h.viewQuestion(ctx, q)
		if err != nil {
			respondError(c, h.logger, err, "Failed to fetch questions")
			return
		}
		views = append(views, v)
	}

	c.JSON(http.StatusOK, gin.H{"documents": views, "total": list.Total})
}

// GetQuestion returns a single question with its net score
func (h *QuestionHandler) GetQuestion(c *gin.Context) {
	ctx := c.Request.Context()
	q, err := h.questions.Get(ctx, c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch question")
		return
	}

	v, err := h.viewQuestion(ctx, *q)
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch question")
		return
	}

	c.JSON(http.StatusOK, v)
}

// CreateQuestion creates a new question (PROTECTED - requires authentication)
func (h *QuestionHandler) CreateQuestion(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var input models.CreateQuestionRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	if input.AttachmentID != "" {
		if _, err := h.store.GetFile(ctx, models.QuestionAttachmentBucket, input.AttachmentID); err != nil {
			respondError(c, h.logger, err, "Failed to create question")
			return
		}
	}

	q := &models.Question{
		Title:        input.Title,
		Content:      input.Content,
		AuthorID:     userID,
		Tags:         input.Tags,
		AttachmentID: input.AttachmentID,
	}
	if err := h.questions.Create(ctx, q); err != nil {
		respondError(c, h.logger, err, "Failed to create question")
		return
	}

	c.JSON(http.StatusCreated, q)
}

// UpdateQuestion edits title, content and tags (PROTECTED, author only)
func (h *QuestionHandler) UpdateQuestion(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var input models.UpdateQuestionRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	q, err := h.questions.Update(c.Request.Context(), c.Param("id"), userID, store.QuestionUpdate{
		Title:   input.Title,
		Content: input.Content,
		Tags:    input.Tags,
	})
	if err != nil {
		respondError(c, h.logger, err, "Failed to update question")
		return
	}

	c.JSON(http.StatusOK, q)
}

// DeleteQuestion removes a question (PROTECTED, author only)
func (h *QuestionHandler) DeleteQuestion(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	if err := h.questions.Delete(c.Request.Context(), c.Param("id"), userID); err != nil {
		respondError(c, h.logger, err, "Failed to delete question")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Question deleted successfully"})
}

// GetAnswers lists the answers of a question with their net scores
func (h *QuestionHandler) GetAnswers(c *gin.Context) {
	ctx := c.Request.Context()
	questionID := c.Param("id")
	if _, err := h.questions.Get(ctx, questionID); err != nil {
		respondError(c, h.logger, err, "Failed to fetch answers")
		return
	}

	list, err := h.answers.List(ctx, store.AnswerQuery{QuestionID: questionID, Page: pageFromQuery(c)})
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch answers")
		return
	}

	views := make([]answerView, 0, len(list.Documents))
	for _, a := range list.Documents {
		score, err := h.votes.Score(ctx, models.TypeAnswer, a.ID)
		if err != nil {
			respondError(c, h.logger, err, "Failed to fetch answers")
			return
		}
		views = append(views, answerView{Answer: a, VoteResult: score})
	}

	c.JSON(http.StatusOK, gin.H{"documents": views, "total": list.Total})
}
