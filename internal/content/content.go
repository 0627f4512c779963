// Package content holds the create, edit and delete flows for questions,
// answers and comments, including the reputation side effects they carry.
package content

import (
	"context"
	"strings"

	"github.com/Debanjan110d/DevQnA/internal/store"
)

type Ledger interface {
	ApplyDelta(ctx context.Context, authorID string, delta int)
}

// Policy is the reputation awarded for authoring content. Creating grants the
// delta and deleting takes it back.
type Policy struct {
	AnswerDelta   int
	QuestionDelta int
}

// DefaultPolicy rewards answers and leaves questions neutral.
func DefaultPolicy() Policy {
	return Policy{AnswerDelta: 1, QuestionDelta: 0}
}

func requireAuthor(ownerID, editorID, what string) error {
	if editorID == "" || ownerID != editorID {
		return store.Forbidden("only the author can modify this " + what)
	}
	return nil
}

func required(fields map[string]string) error {
	var missing []string
	for _, name := range []string{"questionId", "answerId", "content", "authorId", "title", "type", "typeId"} {
		if v, ok := fields[name]; ok && strings.TrimSpace(v) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return store.Invalid("missing " + strings.Join(missing, ", "))
	}
	return nil
}
