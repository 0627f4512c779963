package models

import (
	"time"

	"gorm.io/datatypes"
)

// Prefs is the per-account preference blob. Reputation here is the
// authoritative copy; UserProfile.Reputation mirrors it.
type Prefs struct {
	Reputation int    `json:"reputation"`
	Avatar     string `json:"avatar,omitempty"`
}

// Account is an authentication identity.
type Account struct {
	ID           string                   `gorm:"primaryKey;size:36" json:"$id" validate:"required"`
	Name         string                   `gorm:"size:128;not null" json:"name" validate:"required,max=128"`
	Email        string                   `gorm:"size:255;uniqueIndex;not null" json:"email" validate:"required,email"`
	PasswordHash string                   `gorm:"not null" json:"-"`
	Prefs        datatypes.JSONType[Prefs] `json:"prefs"`
	CreatedAt    time.Time                `json:"$createdAt"`
	UpdatedAt    time.Time                `json:"$updatedAt"`
}

// UserProfile is the denormalized public profile of an account. It may be
// missing for some authors.
type UserProfile struct {
	ID         string    `gorm:"primaryKey;size:36" json:"$id" validate:"required"`
	UserID     string    `gorm:"size:255;not null" json:"userId" validate:"required"`
	Name       string    `gorm:"size:255;not null" json:"name" validate:"required"`
	Email      string    `gorm:"size:255;not null" json:"email" validate:"required"`
	Avatar     string    `gorm:"size:2000" json:"avatar"`
	Reputation int       `gorm:"default:0" json:"reputation"`
	Bio        string    `gorm:"size:1000" json:"bio"`
	CreatedAt  time.Time `json:"$createdAt"`
	UpdatedAt  time.Time `json:"$updatedAt"`
}

func (UserProfile) TableName() string {
	return "users"
}

type RegisterRequest struct {
	Name     string `json:"name" binding:"required,max=128"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Avatar   string `json:"avatar"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type UpdateProfileRequest struct {
	Name   *string `json:"name" binding:"omitempty,max=255"`
	Bio    *string `json:"bio" binding:"omitempty,max=1000"`
	Avatar *string `json:"avatar" binding:"omitempty,max=2000"`
}
