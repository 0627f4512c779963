package models

import "time"

// MinAnswerLength is the minimum number of characters an answer must have.
const MinAnswerLength = 20

type Answer struct {
	ID         string    `gorm:"primaryKey;size:36" json:"$id" validate:"required"`
	Content    string    `gorm:"size:10000;not null" json:"content" validate:"required,max=10000"`
	AuthorID   string    `gorm:"size:50;not null" json:"authorId" validate:"required"`
	QuestionID string    `gorm:"size:50;not null" json:"questionId" validate:"required"`
	CreatedAt  time.Time `json:"$createdAt"`
	UpdatedAt  time.Time `json:"$updatedAt"`
}

type CreateAnswerRequest struct {
	QuestionID string `json:"questionId" binding:"required"`
	Content    string `json:"content" binding:"required,min=20,max=10000"`
	AuthorID   string `json:"authorId" binding:"required"`
}

// DeleteAnswerRequest identifies the answer to remove. AuthorID is only a
// fallback for answers whose stored author is empty.
type DeleteAnswerRequest struct {
	AnswerID string `json:"answerId" binding:"required"`
	AuthorID string `json:"authorId"`
}

type UpdateAnswerRequest struct {
	Content string `json:"content" binding:"required,min=20,max=10000"`
}
