package models

import (
	"encoding/json"
	"strings"
	"time"

	"gorm.io/datatypes"
)

// Review captures one reviewer's critique of one resume. Records are
// write-once: the submission workflow creates them and nothing in this
// service mutates or deletes them afterwards. The composite unique index
// is the authoritative guard against duplicate submissions racing past
// the application-level pre-check.
type Review struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	ReviewerID     string         `gorm:"size:64;not null;uniqueIndex:idx_reviews_reviewer_resume" json:"reviewer_id"`
	ReviewedUserID string         `gorm:"size:64;not null;index" json:"reviewed_user_id"`
	ResumeID       string         `gorm:"size:64;not null;uniqueIndex:idx_reviews_reviewer_resume" json:"resume_id"`
	Score          int            `gorm:"not null" json:"score"`
	Feedback       string         `gorm:"type:text;not null" json:"feedback"`
	Flags          datatypes.JSON `gorm:"type:json" json:"-"`
	CreatedAt      time.Time      `json:"created_at"`
}

const (
	// ReviewMinScore is the lowest rating a reviewer can give.
	ReviewMinScore = 1
	// ReviewMaxScore is the highest rating a reviewer can give.
	ReviewMaxScore = 5
	// ReviewMinFeedbackLen is the minimum trimmed feedback length in runes.
	ReviewMinFeedbackLen = 10
	// ReviewMaxFeedbackLen is the maximum trimmed feedback length in runes.
	ReviewMaxFeedbackLen = 2000
)

// reviewFlagVocabulary is the closed set of critique tags a review may carry.
var reviewFlagVocabulary = map[string]struct{}{
	"weak verbs":          {},
	"missing metrics":     {},
	"typos":               {},
	"poor formatting":     {},
	"vague bullet points": {},
	"missing keywords":    {},
	"inconsistent tenses": {},
	"too long":            {},
}

// KnownReviewFlag reports whether the tag belongs to the closed vocabulary.
func KnownReviewFlag(flag string) bool {
	_, ok := reviewFlagVocabulary[flag]
	return ok
}

// NormalizeReviewFlags lowercases, trims and deduplicates the provided tags,
// preserving first-seen order. The second return value is the first tag that
// is not part of the vocabulary, or empty when all tags are known.
func NormalizeReviewFlags(flags []string) ([]string, string) {
	normalized := make([]string, 0, len(flags))
	seen := make(map[string]struct{}, len(flags))

	for _, flag := range flags {
		cleaned := strings.ToLower(strings.TrimSpace(flag))
		if cleaned == "" {
			continue
		}
		if !KnownReviewFlag(cleaned) {
			return nil, flag
		}
		if _, dup := seen[cleaned]; dup {
			continue
		}
		seen[cleaned] = struct{}{}
		normalized = append(normalized, cleaned)
	}

	return normalized, ""
}

// SetFlags serializes the tag list into the JSON storage column.
func (r *Review) SetFlags(flags []string) {
	data, err := json.Marshal(flags)
	if err != nil {
		r.Flags = datatypes.JSON([]byte("[]"))
		return
	}
	r.Flags = datatypes.JSON(data)
}

// FlagList deserializes the stored tags into a Go slice.
func (r Review) FlagList() []string {
	if len(r.Flags) == 0 {
		return nil
	}

	var flags []string
	if err := json.Unmarshal(r.Flags, &flags); err != nil {
		return nil
	}

	return flags
}
