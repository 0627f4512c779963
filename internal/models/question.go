package models

import (
	"time"

	"github.com/lib/pq"
)

// Question is a user-submitted question. Content is markdown.
type Question struct {
	ID           string         `gorm:"primaryKey;size:36" json:"$id" validate:"required"`
	Title        string         `gorm:"size:200;not null" json:"title" validate:"required,max=200"`
	Content      string         `gorm:"size:5000;not null" json:"content" validate:"required,max=5000"`
	AuthorID     string         `gorm:"size:64;not null" json:"authorId" validate:"required"`
	Tags         pq.StringArray `gorm:"type:text[]" json:"tags" validate:"dive,max=100"`
	AttachmentID string         `gorm:"size:64" json:"attachmentId,omitempty"`
	CreatedAt    time.Time      `json:"$createdAt"`
	UpdatedAt    time.Time      `json:"$updatedAt"`
}

type CreateQuestionRequest struct {
	Title        string   `json:"title" binding:"required,max=200"`
	Content      string   `json:"content" binding:"required,max=5000"`
	Tags         []string `json:"tags"`
	AttachmentID string   `json:"attachmentId"`
}

// UpdateQuestionRequest carries the editable fields. Nil means unchanged.
type UpdateQuestionRequest struct {
	Title   *string  `json:"title" binding:"omitempty,max=200"`
	Content *string  `json:"content" binding:"omitempty,max=5000"`
	Tags    []string `json:"tags"`
}
