package catalog

import (
	"strings"

	"github.com/google/uuid"
	"github.com/servicehub/admin/internal/domain/shared"
)

// QuestionType is the kind of answer a briefing question expects
type QuestionType string

const (
	QuestionTypeText    QuestionType = "text"
	QuestionTypeNumber  QuestionType = "number"
	QuestionTypeBoolean QuestionType = "boolean"
	QuestionTypeSelect  QuestionType = "select"
)

// IsValid reports whether the type is known
func (q QuestionType) IsValid() bool {
	switch q {
	case QuestionTypeText, QuestionTypeNumber, QuestionTypeBoolean, QuestionTypeSelect:
		return true
	}
	return false
}

// Question is asked to the client when the product is ordered
type Question struct {
	ID        uuid.UUID
	Text      string
	Type      QuestionType
	Required  bool
	Options   []string
	SortOrder int
}

// NewQuestion validates and builds a question. Select questions need two distinct options.
func NewQuestion(text string, qType QuestionType, required bool, options []string) (*Question, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, shared.NewDomainError("INVALID_QUESTION", "Question text cannot be empty")
	}
	if qType == "" {
		qType = QuestionTypeText
	}
	if !qType.IsValid() {
		return nil, shared.NewDomainError("INVALID_QUESTION", "Unknown question type: "+string(qType))
	}

	cleaned := make([]string, 0, len(options))
	seen := make(map[string]struct{}, len(options))
	for _, o := range options {
		o = strings.TrimSpace(o)
		if o == "" {
			continue
		}
		key := strings.ToLower(o)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		cleaned = append(cleaned, o)
	}

	if qType == QuestionTypeSelect && len(cleaned) < 2 {
		return nil, shared.NewDomainError("INVALID_QUESTION", "Select questions need at least two distinct options")
	}
	if qType != QuestionTypeSelect && len(cleaned) > 0 {
		return nil, shared.NewDomainError("INVALID_QUESTION", "Only select questions can have options")
	}

	return &Question{
		ID:       uuid.New(),
		Text:     text,
		Type:     qType,
		Required: required,
		Options:  cleaned,
	}, nil
}
