package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/fabfab/documind/store"
)

type documentSummary struct {
	ID        uuid.UUID `json:"id"`
	Filename  string    `json:"filename"`
	FileType  string    `json:"file_type"`
	FileSize  int64     `json:"file_size"`
	Status    string    `json:"status"`
	DocType   string    `json:"doc_type,omitempty"`
	Summary   string    `json:"summary,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type documentDetail struct {
	documentSummary
	Sections          []store.Section       `json:"sections"`
	KeyPoints         []string              `json:"key_points"`
	QuestionsAnswered []string              `json:"questions_answered"`
	Conclusions       []string              `json:"conclusions"`
	Entities          store.Entities        `json:"entities"`
	Relationships     []string              `json:"relationships"`
	Timeline          []store.TimelineEvent `json:"timeline"`
	RawText           string                `json:"raw_text"`
	ErrorMessage      string                `json:"error_message,omitempty"`
}

func summarizeDocument(doc *store.Document) documentSummary {
	return documentSummary{
		ID:        doc.ID,
		Filename:  doc.Filename,
		FileType:  doc.FileType,
		FileSize:  doc.FileSize,
		Status:    doc.Status,
		DocType:   doc.Analysis.DocType,
		Summary:   doc.Analysis.Summary,
		CreatedAt: doc.CreatedAt,
	}
}

func detailDocument(doc *store.Document) documentDetail {
	return documentDetail{
		documentSummary:   summarizeDocument(doc),
		Sections:          doc.Analysis.Sections,
		KeyPoints:         doc.Analysis.KeyPoints,
		QuestionsAnswered: doc.Analysis.QuestionsAnswered,
		Conclusions:       doc.Analysis.Conclusions,
		Entities:          doc.Analysis.Entities,
		Relationships:     doc.Analysis.Relationships,
		Timeline:          doc.Analysis.Timeline,
		RawText:           doc.RawText,
		ErrorMessage:      doc.ErrorMessage,
	}
}
