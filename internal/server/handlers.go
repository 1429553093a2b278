package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/internship-assistant/internal/content"
	"github.com/jonathan/internship-assistant/internal/db"
	"github.com/jonathan/internship-assistant/internal/fetch"
	"github.com/jonathan/internship-assistant/internal/parsing"
	"github.com/jonathan/internship-assistant/internal/schemas"
	"github.com/jonathan/internship-assistant/internal/search"
	"github.com/jonathan/internship-assistant/internal/types"
)

// JobInput is a job posting submitted for extraction or scoring. Description may be HTML.
type JobInput struct {
	Title       string `json:"title"`
	Company     string `json:"company,omitempty"`
	Description string `json:"description"`
}

func (j JobInput) posting() types.RawPosting {
	return types.RawPosting{
		Title:       j.Title,
		Company:     j.Company,
		Description: fetch.CleanDescription(j.Description),
	}
}

// ScoreRequest scores one resume against one job.
type ScoreRequest struct {
	Resume json.RawMessage `json:"resume"`
	Job    JobInput        `json:"job"`
	// Market overrides the estimated competition and the default normal timing.
	Market types.MarketContext `json:"market"`
}

// SearchRequest runs a search batch. Without queries they are generated from the resume.
type SearchRequest struct {
	Resume  json.RawMessage `json:"resume"`
	Queries json.RawMessage `json:"queries,omitempty"`
}

// DraftRequest drafts an email or cover letter for one posting.
type DraftRequest struct {
	Resume     json.RawMessage  `json:"resume"`
	Posting    types.RawPosting `json:"posting"`
	Additional string           `json:"additional,omitempty"`
}

// ---------------------------------------------------------------------
// Analysis
// ---------------------------------------------------------------------

func (s *Server) handleAnalyzeResume(w http.ResponseWriter, r *http.Request) {
	var raw json.RawMessage
	if err := decodeJSON(w, r, &raw); err != nil {
		s.fail(w, r, err)
		return
	}
	record, err := s.parseResume(raw)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, parsing.AnalyzeResume(record))
}

func (s *Server) handleExtractJob(w http.ResponseWriter, r *http.Request) {
	var job JobInput
	if err := decodeJSON(w, r, &job); err != nil {
		s.fail(w, r, err)
		return
	}
	p := job.posting()
	s.jsonResponse(w, http.StatusOK, parsing.ExtractJobRequirements(p.Description, p.Title))
}

func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	var req ScoreRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	if err := validator.New().Struct(&req.Market); err != nil {
		s.fail(w, r, err)
		return
	}
	record, err := s.parseResume(req.Resume)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if req.Job.Title == "" && req.Job.Description == "" {
		s.fail(w, r, &ErrValidation{Field: "job", Message: "title or description is required"})
		return
	}

	scored := search.ScorePostingInMarket(parsing.AnalyzeResume(record), "", req.Job.posting(), req.Market)
	s.jsonResponse(w, http.StatusOK, scored)
}

// ---------------------------------------------------------------------
// Search
// ---------------------------------------------------------------------

func (s *Server) handleQueries(w http.ResponseWriter, r *http.Request) {
	var raw json.RawMessage
	if err := decodeJSON(w, r, &raw); err != nil {
		s.fail(w, r, err)
		return
	}
	record, err := s.parseResume(raw)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, search.GenerateQueries(parsing.AnalyzeResume(record)))
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	if s.deps.Searcher == nil {
		s.fail(w, r, &ErrUnavailable{Feature: "posting source"})
		return
	}
	userID, err := s.userID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var req SearchRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	record, err := s.parseResume(req.Resume)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	profile := parsing.AnalyzeResume(record)

	specs, err := parseSpecs(req.Queries)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if len(specs) == 0 {
		specs = search.GenerateQueries(profile)
	}

	result, err := s.deps.Searcher.Run(r.Context(), userID, profile, specs)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, result)
}

// ---------------------------------------------------------------------
// Saved internships
// ---------------------------------------------------------------------

func (s *Server) handleListInternships(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.storeRequest(w, r)
	if !ok {
		return
	}
	list, err := s.deps.Store.ListInternships(r.Context(), userID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if list == nil {
		list = []types.Internship{}
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"internships": list,
		"count":       len(list),
	})
}

func (s *Server) handleGetInternship(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.storeRequest(w, r)
	if !ok {
		return
	}
	id, err := pathID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	in, err := s.deps.Store.GetInternship(r.Context(), userID, id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if in == nil {
		s.fail(w, r, db.ErrNotFound)
		return
	}
	s.jsonResponse(w, http.StatusOK, in)
}

func (s *Server) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.storeRequest(w, r)
	if !ok {
		return
	}
	id, err := pathID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var req types.UpdateStatusRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		s.fail(w, r, err)
		return
	}

	updated, err := s.deps.Store.UpdateInternshipStatus(r.Context(), userID, id, req.Status)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if !updated {
		s.fail(w, r, db.ErrNotFound)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"id": id.String(), "status": req.Status})
}

func (s *Server) handleDeleteInternship(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.storeRequest(w, r)
	if !ok {
		return
	}
	id, err := pathID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	deleted, err := s.deps.Store.DeleteInternship(r.Context(), userID, id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if !deleted {
		s.fail(w, r, db.ErrNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---------------------------------------------------------------------
// Content
// ---------------------------------------------------------------------

func (s *Server) handleDraft(w http.ResponseWriter, r *http.Request) {
	kind, ok := content.ParseKind(r.PathValue("kind"))
	if !ok {
		s.fail(w, r, &ErrValidation{Field: "kind", Message: "must be email or cover_letter"})
		return
	}
	if s.deps.Drafter == nil {
		s.fail(w, r, &ErrUnavailable{Feature: "content drafting"})
		return
	}
	var req DraftRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	record, err := s.parseResume(req.Resume)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if req.Posting.Title == "" || req.Posting.Company == "" {
		s.fail(w, r, &ErrValidation{Field: "posting", Message: "title and company are required"})
		return
	}
	req.Posting.Description = fetch.CleanDescription(req.Posting.Description)

	draft := s.deps.Drafter.Draft(r.Context(), kind, content.Request{
		Resume:     record,
		Posting:    req.Posting,
		Additional: req.Additional,
	})
	s.jsonResponse(w, http.StatusOK, draft)
}

// ---------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------

// storeRequest resolves the user of a saved-internship route, writing the error response itself.
func (s *Server) storeRequest(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	if s.deps.Store == nil {
		s.fail(w, r, &ErrUnavailable{Feature: "storage"})
		return uuid.Nil, false
	}
	userID, err := s.userID(r)
	if err != nil {
		s.fail(w, r, err)
		return uuid.Nil, false
	}
	return userID, true
}

func (s *Server) userID(r *http.Request) (uuid.UUID, error) {
	header := r.Header.Get(UserHeader)
	if header == "" {
		if s.deps.UserID == uuid.Nil {
			return uuid.Nil, &ErrValidation{Field: UserHeader, Message: "is required"}
		}
		return s.deps.UserID, nil
	}
	id, err := uuid.Parse(header)
	if err != nil {
		return uuid.Nil, &ErrValidation{Field: UserHeader, Message: "must be a UUID"}
	}
	return id, nil
}

func pathID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		return uuid.Nil, &ErrValidation{Field: "id", Message: "must be a UUID"}
	}
	return id, nil
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return err
		}
		return &ErrValidation{Field: "body", Message: "invalid JSON: " + err.Error()}
	}
	return nil
}

func isNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

// parseResume decodes a resume record. Schema violations are logged, not rejected: malformed
// fields decode as absent and only a payload that is not an object fails.
func (s *Server) parseResume(raw json.RawMessage) (types.ResumeRecord, error) {
	if isNull(raw) {
		return types.ResumeRecord{}, &ErrValidation{Field: "resume", Message: "is required"}
	}
	if err := schemas.ValidateResumeRecord(raw); err != nil {
		s.logger.Warn("resume does not match the schema, decoding leniently", zap.Error(err))
	}
	record, err := types.ParseResumeRecord(raw)
	if err != nil {
		return types.ResumeRecord{}, &ErrValidation{Field: "resume", Message: err.Error()}
	}
	return record, nil
}

func parseSpecs(raw json.RawMessage) ([]types.SearchSpec, error) {
	if isNull(raw) {
		return nil, nil
	}
	if err := schemas.ValidateSearchSpecs(raw); err != nil {
		return nil, err
	}
	var specs []types.SearchSpec
	if err := json.Unmarshal(raw, &specs); err != nil {
		return nil, &ErrValidation{Field: "queries", Message: err.Error()}
	}
	return specs, nil
}
