package ingestion

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fabfab/documind/analysis"
	"github.com/fabfab/documind/provider"
	"github.com/fabfab/documind/store"
)

type stubStore struct {
	inserted      *store.Document
	statuses      []string
	failedMessage string
	savedAnalysis *store.Analysis
	refreshedDoc  *store.Document
}

func (s *stubStore) Insert(_ context.Context, doc *store.Document) error {
	s.inserted = doc
	return nil
}

func (s *stubStore) UpdateStatus(_ context.Context, _ uuid.UUID, status string) error {
	s.statuses = append(s.statuses, status)
	return nil
}

func (s *stubStore) MarkFailed(_ context.Context, _ uuid.UUID, message string) error {
	s.statuses = append(s.statuses, store.StatusFailed)
	s.failedMessage = message
	return nil
}

func (s *stubStore) SaveAnalysis(_ context.Context, _ uuid.UUID, result *store.Analysis) error {
	s.statuses = append(s.statuses, store.StatusCompleted)
	s.savedAnalysis = result
	return nil
}

func (s *stubStore) RefreshSearchIndex(_ context.Context, doc *store.Document) {
	s.refreshedDoc = doc
}

type stubLLM struct {
	response string
	err      error
}

func (s *stubLLM) Complete(context.Context, []provider.Message) (string, error) {
	return s.response, s.err
}

func newTestService(st *stubStore, llm provider.Client) *Service {
	return NewService(st, analysis.NewAnalyzer(llm), zerolog.Nop())
}

func TestUploadRecordsPendingDocument(t *testing.T) {
	st := &stubStore{}
	svc := newTestService(st, &stubLLM{})

	doc, err := svc.Upload(context.Background(), uuid.New(), "notes.txt", "text/plain", []byte("hello there"))
	require.NoError(t, err)

	assert.Equal(t, store.StatusPending, doc.Status)
	assert.Equal(t, "txt", doc.FileType)
	assert.Equal(t, "hello there", doc.RawText)
	assert.Same(t, doc, st.inserted)
	assert.Empty(t, st.failedMessage)
}

func TestUploadExtractionFailureMarksFailed(t *testing.T) {
	st := &stubStore{}
	svc := newTestService(st, &stubLLM{})

	doc, err := svc.Upload(context.Background(), uuid.New(), "photo.png", "image/png", []byte{0x89, 0x50})
	require.NoError(t, err)

	assert.Equal(t, store.StatusFailed, doc.Status)
	assert.NotEmpty(t, doc.ErrorMessage)
	assert.Equal(t, doc.ErrorMessage, st.failedMessage)
	assert.NotNil(t, st.inserted)
}

func TestProcessCompletesDocument(t *testing.T) {
	st := &stubStore{}
	svc := newTestService(st, &stubLLM{response: `{"doc_type":"notes","summary":"meeting notes"}`})
	doc := &store.Document{ID: uuid.New(), Filename: "notes.txt", RawText: "hello", Status: store.StatusPending}

	err := svc.Process(context.Background(), doc)
	require.NoError(t, err)

	assert.Equal(t, []string{store.StatusProcessing, store.StatusCompleted}, st.statuses)
	require.NotNil(t, st.savedAnalysis)
	assert.Equal(t, "meeting notes", st.savedAnalysis.Summary)
	assert.Equal(t, store.StatusCompleted, doc.Status)
	assert.Equal(t, "meeting notes", doc.Analysis.Summary)
	assert.Same(t, doc, st.refreshedDoc)
}

func TestProcessAnalysisFailureMarksFailed(t *testing.T) {
	st := &stubStore{}
	svc := newTestService(st, &stubLLM{err: &provider.Error{Reason: provider.ReasonTimeout, Message: "slow"}})
	doc := &store.Document{ID: uuid.New(), Filename: "notes.txt", RawText: "hello", Status: store.StatusPending}

	err := svc.Process(context.Background(), doc)
	require.Error(t, err)

	assert.Equal(t, []string{store.StatusProcessing, store.StatusFailed}, st.statuses)
	assert.NotEmpty(t, st.failedMessage)
	assert.Nil(t, st.savedAnalysis)
	assert.Nil(t, st.refreshedDoc)
}
