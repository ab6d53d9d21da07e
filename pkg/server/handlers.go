package server

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"palette-hq/scout/pkg/classifier"
	"palette-hq/scout/pkg/design"
	"palette-hq/scout/pkg/history"
	"palette-hq/scout/pkg/ruleset"
)

// MaxVariations caps the variations of one mockup request.
const MaxVariations = 5

// TextRequest is the body of /v1/analyze and /v1/report.
type TextRequest struct {
	Text    string `json:"text"`
	Channel string `json:"channel,omitempty"`
	Author  string `json:"author,omitempty"`
}

// AnalyzeResponse is returned by /v1/analyze.
type AnalyzeResponse struct {
	Analysis classifier.MessageAnalysis `json:"analysis"`
	RecordID string                     `json:"record_id,omitempty"`
}

// ReportResponse is returned by /v1/report.
type ReportResponse struct {
	Report   string                     `json:"report"`
	Analysis classifier.MessageAnalysis `json:"analysis"`
}

// BriefRequest is the body of /v1/brief. The text is always analyzed on
// the server.
type BriefRequest struct {
	Text    string `json:"text"`
	Channel string `json:"channel,omitempty"`
	Author  string `json:"author,omitempty"`
}

// BriefResponse is returned by /v1/brief.
type BriefResponse struct {
	Brief    string                     `json:"brief"`
	Analysis classifier.MessageAnalysis `json:"analysis"`
	RecordID string                     `json:"record_id,omitempty"`
}

// MockupRequest is the body of /v1/mockup. Variations > 0 asks for that many
// random variations instead of one design built from Options.
type MockupRequest struct {
	Brief      string         `json:"brief"`
	Category   string         `json:"category,omitempty"`
	Options    design.Options `json:"options"`
	Variations int            `json:"variations,omitempty"`
}

// MockupResponse is returned by /v1/mockup.
type MockupResponse struct {
	Designs []*design.Design `json:"designs"`
}

// ImageRequest is the JSON form of /v1/images/analyze.
type ImageRequest struct {
	Data     string `json:"data"` // base64
	MIMEType string `json:"mime_type,omitempty"`
}

// ImageResponse is returned by /v1/images/analyze.
type ImageResponse struct {
	Analysis string `json:"analysis"`
}

// HistoryResponse is returned by /v1/history.
type HistoryResponse struct {
	Records []*history.Record `json:"records"`
	Total   int64             `json:"total"`
	Limit   int               `json:"limit"`
	Offset  int               `json:"offset"`
}

// HealthResponse is returned by /health.
type HealthResponse struct {
	Status    string         `json:"status"`
	Rules     ruleset.Status `json:"rules"`
	Generator bool           `json:"generator"`
	History   bool           `json:"history"`
}

func (s *Server) readText(w http.ResponseWriter, r *http.Request) (TextRequest, bool) {
	var req TextRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, ErrTypeInvalidRequest, "invalid JSON body: "+err.Error())
		return req, false
	}
	return req, true
}

func (s *Server) analyze(text string) classifier.MessageAnalysis {
	a := s.deps.Rules.Analyze(text)
	s.deps.Metrics.RecordAnalysis(a)
	return a
}

func (s *Server) record(r *history.Record) string {
	if s.deps.Recorder == nil {
		return ""
	}
	id, err := s.deps.Recorder.Record(r)
	if err != nil {
		s.logger.Warn("failed to record history", "error", err)
		return ""
	}
	return id
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	req, ok := s.readText(w, r)
	if !ok {
		return
	}

	a := s.analyze(req.Text)
	rec := history.NewRecord(a, history.SourceAPI)
	rec.Channel = req.Channel
	rec.Author = req.Author

	writeJSON(w, http.StatusOK, AnalyzeResponse{Analysis: a, RecordID: s.record(rec)})
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	req, ok := s.readText(w, r)
	if !ok {
		return
	}
	a := s.analyze(req.Text)
	writeJSON(w, http.StatusOK, ReportResponse{Report: classifier.Report(a), Analysis: a})
}

func (s *Server) handleBrief(w http.ResponseWriter, r *http.Request) {
	if s.deps.Generator == nil {
		writeError(w, http.StatusServiceUnavailable, ErrTypeUnavailable, "brief generation is not configured (no Gemini API key)")
		return
	}

	var req BriefRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, ErrTypeInvalidRequest, "invalid JSON body: "+err.Error())
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeError(w, http.StatusBadRequest, ErrTypeInvalidRequest, "text is required")
		return
	}

	a := s.analyze(req.Text)

	rec := history.NewRecord(a, history.SourceAPI)
	rec.Channel = req.Channel
	rec.Author = req.Author

	brief, err := s.deps.Generator.GenerateBrief(r.Context(), req.Text, &a)
	if err != nil {
		rec.Status = history.StatusFailed
		rec.Error = err.Error()
		s.record(rec)
		writeGenerationError(w, err)
		return
	}

	rec.Brief = brief
	rec.Status = history.StatusBriefed
	writeJSON(w, http.StatusOK, BriefResponse{Brief: brief, Analysis: a, RecordID: s.record(rec)})
}

func (s *Server) handleMockup(w http.ResponseWriter, r *http.Request) {
	if s.deps.Designs == nil {
		writeError(w, http.StatusServiceUnavailable, ErrTypeUnavailable, "design generation is not configured")
		return
	}

	var req MockupRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, ErrTypeInvalidRequest, "invalid JSON body: "+err.Error())
		return
	}
	if strings.TrimSpace(req.Brief) == "" {
		writeError(w, http.StatusBadRequest, ErrTypeInvalidRequest, "brief is required")
		return
	}
	if req.Variations < 0 || req.Variations > MaxVariations {
		writeError(w, http.StatusBadRequest, ErrTypeInvalidRequest,
			fmt.Sprintf("variations must be between 0 and %d", MaxVariations))
		return
	}

	if req.Variations > 0 {
		designs := s.deps.Designs.GenerateVariations(r.Context(), req.Brief, req.Category, req.Variations)
		if len(designs) == 0 {
			err := r.Context().Err()
			if err == nil {
				err = errors.New("no variations were generated")
			}
			writeGenerationError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, MockupResponse{Designs: designs})
		return
	}

	d, err := s.deps.Designs.GenerateMockup(r.Context(), req.Brief, req.Category, req.Options)
	if err != nil {
		writeGenerationError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MockupResponse{Designs: []*design.Design{d}})
}

func (s *Server) handleListDesigns(w http.ResponseWriter, r *http.Request) {
	if s.deps.Designs == nil {
		writeJSON(w, http.StatusOK, MockupResponse{Designs: []*design.Design{}})
		return
	}
	designs := s.deps.Designs.History()
	if designs == nil {
		designs = []*design.Design{}
	}
	writeJSON(w, http.StatusOK, MockupResponse{Designs: designs})
}

func (s *Server) handleExportDesign(w http.ResponseWriter, r *http.Request) {
	if s.deps.Designs == nil {
		writeError(w, http.StatusNotFound, ErrTypeNotFound, "design not found")
		return
	}
	export, err := s.deps.Designs.ExportSpecs(r.PathValue("id"))
	if errors.Is(err, design.ErrDesignNotFound) {
		writeError(w, http.StatusNotFound, ErrTypeNotFound, err.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, ErrTypeServer, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, export)
}

// handleImageAnalyze accepts either a multipart upload in the "image" field
// or a JSON body with base64 data.
func (s *Server) handleImageAnalyze(w http.ResponseWriter, r *http.Request) {
	if s.deps.Generator == nil {
		writeError(w, http.StatusServiceUnavailable, ErrTypeUnavailable, "image analysis is not configured (no Gemini API key)")
		return
	}

	data, mimeType, err := readImage(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrTypeInvalidRequest, err.Error())
		return
	}

	text, err := s.deps.Generator.AnalyzeReferenceImage(r.Context(), data, mimeType)
	if err != nil {
		writeGenerationError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ImageResponse{Analysis: text})
}

func readImage(r *http.Request) ([]byte, string, error) {
	var (
		data     []byte
		mimeType string
	)

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		file, header, err := r.FormFile("image")
		if err != nil {
			return nil, "", fmt.Errorf("image file is required: %w", err)
		}
		defer file.Close()
		if data, err = io.ReadAll(file); err != nil {
			return nil, "", fmt.Errorf("read image: %w", err)
		}
		mimeType = header.Header.Get("Content-Type")
	} else {
		var req ImageRequest
		if err := decodeJSON(r, &req); err != nil {
			return nil, "", fmt.Errorf("invalid JSON body: %w", err)
		}
		decoded, err := base64.StdEncoding.DecodeString(req.Data)
		if err != nil {
			return nil, "", fmt.Errorf("data is not valid base64: %w", err)
		}
		data, mimeType = decoded, req.MIMEType
	}

	if len(data) == 0 {
		return nil, "", errors.New("image is empty")
	}
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = http.DetectContentType(data)
	}
	if !strings.HasPrefix(mimeType, "image/") {
		return nil, "", fmt.Errorf("unsupported content type %q", mimeType)
	}
	return data, mimeType, nil
}

func (s *Server) handleHistoryList(w http.ResponseWriter, r *http.Request) {
	if s.deps.History == nil {
		writeError(w, http.StatusServiceUnavailable, ErrTypeUnavailable, "history is disabled")
		return
	}

	q, err := s.parseQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrTypeInvalidRequest, err.Error())
		return
	}

	records, err := s.deps.History.Query(r.Context(), q)
	if err != nil {
		s.logger.Error("history query failed", "error", err)
		writeError(w, http.StatusInternalServerError, ErrTypeServer, "history query failed")
		return
	}
	total, err := s.deps.History.Count(r.Context(), q)
	if err != nil {
		s.logger.Error("history count failed", "error", err)
		writeError(w, http.StatusInternalServerError, ErrTypeServer, "history query failed")
		return
	}

	writeJSON(w, http.StatusOK, HistoryResponse{Records: records, Total: total, Limit: q.Limit, Offset: q.Offset})
}

func (s *Server) handleHistoryGet(w http.ResponseWriter, r *http.Request) {
	if s.deps.History == nil {
		writeError(w, http.StatusServiceUnavailable, ErrTypeUnavailable, "history is disabled")
		return
	}

	rec, err := s.deps.History.Get(r.Context(), r.PathValue("id"))
	if errors.Is(err, history.ErrNotFound) {
		writeError(w, http.StatusNotFound, ErrTypeNotFound, "history record not found")
		return
	}
	if err != nil {
		s.logger.Error("history get failed", "error", err)
		writeError(w, http.StatusInternalServerError, ErrTypeServer, "history lookup failed")
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// parseQuery reads history filters from the URL. Times are RFC 3339.
func (s *Server) parseQuery(r *http.Request) (*history.Query, error) {
	v := r.URL.Query()
	q := &history.Query{
		Channel:  v.Get("channel"),
		Category: v.Get("category"),
		Source:   v.Get("source"),
		Status:   v.Get("status"),
		Limit:    s.deps.Query.DefaultLimit,
	}

	parseTime := func(name string) (*time.Time, error) {
		raw := v.Get(name)
		if raw == "" {
			return nil, nil
		}
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return nil, fmt.Errorf("%s must be an RFC 3339 time", name)
		}
		return &t, nil
	}
	var err error
	if q.StartTime, err = parseTime("since"); err != nil {
		return nil, err
	}
	if q.EndTime, err = parseTime("until"); err != nil {
		return nil, err
	}

	if raw := v.Get("requests_only"); raw != "" {
		if q.DesignRequestsOnly, err = strconv.ParseBool(raw); err != nil {
			return nil, errors.New("requests_only must be a boolean")
		}
	}
	if raw := v.Get("min_confidence"); raw != "" {
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil || f < 0 || f > 1 {
			return nil, errors.New("min_confidence must be a number between 0 and 1")
		}
		q.MinConfidence = &f
	}
	if raw := v.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return nil, errors.New("limit must be a positive integer")
		}
		q.Limit = min(n, s.deps.Query.MaxLimit)
	}
	if raw := v.Get("offset"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return nil, errors.New("offset must be a non-negative integer")
		}
		q.Offset = n
	}
	if v.Get("order") == "asc" {
		q.Ascending = true
	}
	return q, nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := s.deps.Rules.Status()
	resp := HealthResponse{
		Status:    "ok",
		Rules:     status,
		Generator: s.deps.Generator != nil,
		History:   s.deps.History != nil,
	}
	if status.LastError != "" {
		resp.Status = "degraded"
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	report := s.checker.Check(r.Context())
	code := http.StatusOK
	if !report.Healthy() {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, report)
}
