package models

import "time"

// ContentType names the kind of item a vote or comment is attached to.
type ContentType string

const (
	TypeQuestion ContentType = "question"
	TypeAnswer   ContentType = "answer"
)

func (t ContentType) Valid() bool {
	return t == TypeQuestion || t == TypeAnswer
}

type VoteStatus string

const (
	Upvoted   VoteStatus = "upvoted"
	Downvoted VoteStatus = "downvoted"
)

func (s VoteStatus) Valid() bool {
	return s == Upvoted || s == Downvoted
}

// Sign is the reputation contribution of a single vote in this direction.
func (s VoteStatus) Sign() int {
	if s == Upvoted {
		return 1
	}
	return -1
}

// Vote records one voter's opinion of a question or answer. At most one vote
// exists per (Type, TypeID, VotedByID).
type Vote struct {
	ID         string      `gorm:"primaryKey;size:36" json:"$id" validate:"required"`
	Type       ContentType `gorm:"size:50;not null" json:"type" validate:"required,oneof=question answer"`
	TypeID     string      `gorm:"size:50;not null" json:"typeId" validate:"required"`
	VotedByID  string      `gorm:"size:50;not null" json:"votedById" validate:"required"`
	VoteStatus VoteStatus  `gorm:"size:50;not null" json:"voteStatus" validate:"required,oneof=upvoted downvoted"`
	CreatedAt  time.Time   `json:"$createdAt"`
	UpdatedAt  time.Time   `json:"$updatedAt"`
}

type VoteRequest struct {
	VotedByID  string      `json:"votedByID" binding:"required"`
	VoteStatus VoteStatus  `json:"voteStatus" binding:"required,oneof=upvoted downvoted"`
	Type       ContentType `json:"type" binding:"required,oneof=question answer"`
	TypeID     string      `json:"typeId" binding:"required"`
}
