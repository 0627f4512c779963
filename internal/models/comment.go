package models

import "time"

type Comment struct {
	ID        string      `gorm:"primaryKey;size:36" json:"$id" validate:"required"`
	Content   string      `gorm:"size:10000;not null" json:"content" validate:"required,max=10000"`
	AuthorID  string      `gorm:"size:50;not null" json:"authorId" validate:"required"`
	TypeID    string      `gorm:"size:50;not null" json:"typeId" validate:"required"`
	Type      ContentType `gorm:"size:50;not null" json:"type" validate:"required,oneof=question answer"`
	CreatedAt time.Time   `json:"$createdAt"`
	UpdatedAt time.Time   `json:"$updatedAt"`
}

type CreateCommentRequest struct {
	Content string      `json:"content" binding:"required,max=10000"`
	Type    ContentType `json:"type" binding:"required,oneof=question answer"`
	TypeID  string      `json:"typeId" binding:"required"`
}
