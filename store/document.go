// Package store persists documents in Postgres and serves the ranked
// full-text lookups the retrieval layer depends on.
package store

import (
	"time"

	"github.com/google/uuid"
)

// Document statuses. Only completed documents are eligible for retrieval.
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

type Section struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type TimelineEvent struct {
	Date  string `json:"date"`
	Event string `json:"event"`
}

type Entities struct {
	People        []string `json:"people"`
	Organizations []string `json:"organizations"`
	Dates         []string `json:"dates"`
	Amounts       []string `json:"amounts"`
	Locations     []string `json:"locations"`
}

// Analysis holds the structured fields the analyzer derives from raw text.
type Analysis struct {
	DocType           string          `json:"doc_type"`
	Summary           string          `json:"summary"`
	Sections          []Section       `json:"sections"`
	KeyPoints         []string        `json:"key_points"`
	QuestionsAnswered []string        `json:"questions_answered"`
	Conclusions       []string        `json:"conclusions"`
	Entities          Entities        `json:"entities"`
	Relationships     []string        `json:"relationships"`
	Timeline          []TimelineEvent `json:"timeline"`
}

type Document struct {
	ID           uuid.UUID
	UserID       uuid.UUID
	Filename     string
	FileType     string
	FileSize     int64
	Status       string
	Analysis     Analysis
	RawText      string
	ErrorMessage string
	CreatedAt    time.Time
}
