package models

import (
	"time"

	"github.com/lib/pq"
)

// QuestionAttachmentBucket holds images attached to questions.
const QuestionAttachmentBucket = "question-attachment"

type Bucket struct {
	ID                string         `gorm:"primaryKey;size:64" json:"$id" validate:"required"`
	Name              string         `gorm:"size:128;not null" json:"name" validate:"required"`
	AllowedExtensions pq.StringArray `gorm:"type:text[]" json:"allowedFileExtensions"`
	MaximumFileSize   int64          `json:"maximumFileSize"`
	CreatedAt         time.Time      `json:"$createdAt"`
}

// Allows reports whether ext (without the leading dot) may be stored. An empty
// allow list accepts everything.
func (b *Bucket) Allows(ext string) bool {
	if len(b.AllowedExtensions) == 0 {
		return true
	}
	for _, e := range b.AllowedExtensions {
		if e == ext {
			return true
		}
	}
	return false
}

type File struct {
	ID           string    `gorm:"primaryKey;size:36" json:"$id" validate:"required"`
	BucketID     string    `gorm:"size:64;not null" json:"bucketId" validate:"required"`
	Name         string    `gorm:"size:255;not null" json:"name" validate:"required"`
	MimeType     string    `gorm:"size:128" json:"mimeType"`
	SizeOriginal int64     `json:"sizeOriginal"`
	CreatedAt    time.Time `json:"$createdAt"`
}
