package models

import "time"

// Generation outcome status values.
const (
	GenerationStatusSucceeded = "succeeded"
	GenerationStatusFailed    = "failed"
)

// Generation error categories, derived from provider error messages.
const (
	GenErrQuota      = "quota"
	GenErrTimeout    = "timeout"
	GenErrValidation = "validation"
	GenErrQuality    = "quality-rejection"
	GenErrProvider   = "provider"
	GenErrGeneration = "generation"
	GenErrUnknown    = "unknown"
)

// GenerationRecord is one decision-tracking row for a puzzle generation
// operation. Writes are fire-and-forget; losing one never affects the
// serving path.
type GenerationRecord struct {
	ID               int64
	Day              string
	Provider         string
	Model            string
	Status           string
	ErrorCategory    string // empty on success
	QualityScore     int
	UniquenessScore  int
	PromptTokens     int
	CompletionTokens int
	DurationMS       int64
	Steps            []GenerationStep
	CreatedAt        time.Time
}

// GenerationStep is one intermediate step of the generation chain.
type GenerationStep struct {
	Name       string `json:"name"`
	DurationMS int64  `json:"durationMs"`
	Detail     string `json:"detail,omitempty"`
}
