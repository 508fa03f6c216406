// Package api exposes the HTTP surface: document upload and management plus
// the question-answering endpoint.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/fabfab/documind/auth"
	"github.com/fabfab/documind/qa"
	"github.com/fabfab/documind/store"
)

const maxUploadBytes = 32 << 20

// Answerer is the QA core as the API consumes it.
type Answerer interface {
	Answer(ctx context.Context, req qa.Request) (qa.Response, error)
}

// Ingestor accepts uploads and processes pending documents.
type Ingestor interface {
	Upload(ctx context.Context, userID uuid.UUID, filename, contentType string, data []byte) (*store.Document, error)
	Process(ctx context.Context, doc *store.Document) error
}

// DocumentStore is the slice of the store the document endpoints need.
type DocumentStore interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]store.Document, error)
	Find(ctx context.Context, userID, docID uuid.UUID) (*store.Document, error)
	Delete(ctx context.Context, userID, docID uuid.UUID) (bool, error)
}

type Server struct {
	answerer Answerer
	ingestor Ingestor
	docs     DocumentStore
	authn    auth.Authenticator
	logger   zerolog.Logger
	handler  http.Handler
}

type messageResponse struct {
	Message string `json:"message"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type qaRequest struct {
	Question   string     `json:"question"`
	DocumentID *uuid.UUID `json:"document_id"`
	Messages   []qa.Turn  `json:"messages"`
	Summary    string     `json:"summary"`
}

func New(answerer Answerer, ingestor Ingestor, docs DocumentStore, authn auth.Authenticator, logger zerolog.Logger) *Server {
	s := &Server{
		answerer: answerer,
		ingestor: ingestor,
		docs:     docs,
		authn:    authn,
		logger:   logger,
	}
	s.handler = s.routes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/v1/qa", s.handleQA)
	mux.HandleFunc("/v1/documents", s.handleDocuments)
	mux.HandleFunc("/v1/documents/", s.handleDocumentByID)
	return mux
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.methodNotAllowed(w, http.MethodGet)
		return
	}
	s.writeJSON(w, http.StatusOK, messageResponse{Message: "ok"})
}

func (s *Server) handleQA(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.methodNotAllowed(w, http.MethodPost)
		return
	}

	userID, ok := s.authenticate(w, r)
	if !ok {
		return
	}

	var req qaRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("decode request: %w", err))
		return
	}

	if strings.TrimSpace(req.Question) == "" {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("question is required"))
		return
	}

	var scope qa.Scope = qa.AllDocuments{}
	if req.DocumentID != nil {
		scope = qa.SingleDocument{DocumentID: *req.DocumentID}
	}

	resp, err := s.answerer.Answer(r.Context(), qa.Request{
		UserID:   userID,
		Question: req.Question,
		Scope:    scope,
		Turns:    req.Messages,
		Summary:  req.Summary,
	})
	if err != nil {
		s.writeError(w, http.StatusBadGateway, err)
		return
	}

	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDocuments(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listDocuments(w, r)
	case http.MethodPost:
		s.uploadDocument(w, r)
	default:
		s.methodNotAllowed(w, "GET, POST")
	}
}

func (s *Server) listDocuments(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.authenticate(w, r)
	if !ok {
		return
	}

	docs, err := s.docs.ListByUser(r.Context(), userID)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	views := make([]documentSummary, len(docs))
	for i := range docs {
		views[i] = summarizeDocument(&docs[i])
	}
	s.writeJSON(w, http.StatusOK, views)
}

func (s *Server) uploadDocument(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.authenticate(w, r)
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("parse upload: %w", err))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("file is required: %w", err))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("read upload: %w", err))
		return
	}

	doc, err := s.ingestor.Upload(r.Context(), userID, header.Filename, header.Header.Get("Content-Type"), data)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	if doc.Status == store.StatusPending {
		// Analysis runs past the request lifetime; Process applies its own
		// timeout.
		go func(doc store.Document) {
			if err := s.ingestor.Process(context.Background(), &doc); err != nil {
				s.logger.Error().Err(err).Stringer("document_id", doc.ID).Msg("background processing failed")
			}
		}(*doc)
	}

	s.writeJSON(w, http.StatusCreated, summarizeDocument(doc))
}

func (s *Server) handleDocumentByID(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.authenticate(w, r)
	if !ok {
		return
	}

	idPart := strings.TrimPrefix(r.URL.Path, "/v1/documents/")
	docID, err := uuid.Parse(idPart)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid document id"))
		return
	}

	switch r.Method {
	case http.MethodGet:
		doc, err := s.docs.Find(r.Context(), userID, docID)
		if err != nil {
			s.writeError(w, http.StatusInternalServerError, err)
			return
		}
		if doc == nil {
			s.writeError(w, http.StatusNotFound, fmt.Errorf("document not found"))
			return
		}
		s.writeJSON(w, http.StatusOK, detailDocument(doc))

	case http.MethodDelete:
		deleted, err := s.docs.Delete(r.Context(), userID, docID)
		if err != nil {
			s.writeError(w, http.StatusInternalServerError, err)
			return
		}
		if !deleted {
			s.writeError(w, http.StatusNotFound, fmt.Errorf("document not found"))
			return
		}
		s.writeJSON(w, http.StatusOK, messageResponse{Message: "document deleted"})

	default:
		s.methodNotAllowed(w, "GET, DELETE")
	}
}

// authenticate resolves the bearer token to a user id, writing a 401 and
// returning false when it cannot.
func (s *Server) authenticate(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	header := r.Header.Get("Authorization")
	token := strings.TrimPrefix(header, "Bearer ")
	if token == header {
		token = ""
	}

	userID, err := s.authn.UserForToken(r.Context(), token)
	if err != nil {
		s.writeError(w, http.StatusUnauthorized, fmt.Errorf("authentication required"))
		return uuid.Nil, false
	}
	return userID, true
}

func (s *Server) methodNotAllowed(w http.ResponseWriter, allowed string) {
	w.Header().Set("Allow", allowed)
	s.writeError(w, http.StatusMethodNotAllowed, fmt.Errorf("method not allowed, use %s", allowed))
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error().Err(err).Msg("encode response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	s.logger.Error().Int("status", status).Err(err).Msg("api error")
	s.writeJSON(w, status, errorResponse{Error: err.Error()})
}

func decodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return nil
	}
	defer r.Body.Close()

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if err == io.EOF {
			return nil
		}
		return err
	}

	if dec.More() {
		return fmt.Errorf("request body must contain a single JSON object")
	}

	return nil
}
