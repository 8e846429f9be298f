// Package chi exposes the admin API over HTTP.
package chi

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/harborline/siftgate/internal/domain"
	chatuc "github.com/harborline/siftgate/internal/usecase/chat"
	healthuc "github.com/harborline/siftgate/internal/usecase/health"
	ingestuc "github.com/harborline/siftgate/internal/usecase/ingest"
	searchuc "github.com/harborline/siftgate/internal/usecase/search"
	speechuc "github.com/harborline/siftgate/internal/usecase/speech"
	tableuc "github.com/harborline/siftgate/internal/usecase/table"
	"github.com/harborline/siftgate/internal/version"
)

const (
	defaultSearchLimit = 10
	defaultHybridAlpha = 0.5

	// Chat defaults applied when the request omits them.
	defaultChatMaxTokens   = 500
	defaultChatTemperature = 0.7

	// maxTranscribeBytes bounds uploaded audio (multipart and base64 alike).
	maxTranscribeBytes = 25 << 20
)

// audioContentTypes maps synthesis formats to response content types.
var audioContentTypes = map[string]string{
	"mp3":  "audio/mpeg",
	"opus": "audio/opus",
	"aac":  "audio/aac",
	"flac": "audio/flac",
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server wires the usecase services into HTTP handlers.
type Server struct {
	tables        *tableuc.Service
	search        *searchuc.Service
	ingest        *ingestuc.Service
	chat          *chatuc.Service
	speech        *speechuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	tables *tableuc.Service,
	search *searchuc.Service,
	ingest *ingestuc.Service,
	chat *chatuc.Service,
	speech *speechuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		tables: tables,
		search: search,
		ingest: ingest,
		chat:   chat,
		speech: speech,
		health: health,
		logger: logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrTableNotFound, http.StatusNotFound, "table_not_found"),
		sentinelHandler(domain.ErrInvalidArgument, http.StatusBadRequest, "validation_failed"),
		sentinelHandler(domain.ErrVectorDimMismatch, http.StatusBadRequest, "vector_dim_mismatch"),
		sentinelHandler(domain.ErrEmbeddingProviderError, http.StatusBadGateway, "embedding_provider_error"),
		sentinelHandler(domain.ErrChatProviderError, http.StatusBadGateway, "chat_provider_error"),
		sentinelHandler(domain.ErrSpeechProviderError, http.StatusBadGateway, "speech_provider_error"),
		sentinelHandler(domain.ErrProviderNotConfigured, http.StatusServiceUnavailable, "provider_not_configured"),
	}
	return s
}

// Routes registers all handlers on the router.
func (s *Server) Routes(r chi.Router) {
	r.Get("/", s.handleRoot)
	r.Get("/health", s.handleHealth)
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	r.Get("/tables", s.handleListTables)
	r.Post("/tables", s.handleCreateTable)

	r.Post("/search", s.handleSearch)
	r.Post("/hybrid-search", s.handleHybridSearch)
	r.Post("/insert", s.handleInsert)
	r.Post("/delete", s.handleDelete)

	r.Post("/chat", s.handleChat)
	r.Post("/agent", s.handleAgent)

	r.Post("/tts", s.handleTTS)
	r.Post("/tts/base64", s.handleTTSBase64)
	r.Post("/transcribe", s.handleTranscribe)
	r.Post("/transcribe/base64", s.handleTranscribeBase64)
}

// handleRoot handles GET /: service summary with component status.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	writeJSON(w, http.StatusOK, map[string]any{
		"service":    "siftgate",
		"version":    version.Version,
		"status":     report.Status,
		"components": report.Checks,
	})
}

// handleHealth handles GET /health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, map[string]any{
		"status": report.Status,
		"checks": report.Checks,
	})
}

// handleListTables handles GET /tables.
func (s *Server) handleListTables(w http.ResponseWriter, r *http.Request) {
	names, err := s.tables.List(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	if names == nil {
		names = []string{}
	}

	writeJSON(w, http.StatusOK, listTablesResponse{Status: "success", Tables: names})
}

// handleCreateTable handles POST /tables.
func (s *Server) handleCreateTable(w http.ResponseWriter, r *http.Request) {
	var req createTableRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "Invalid request body: "+err.Error())
		return
	}
	if req.Table == "" {
		writeError(w, http.StatusBadRequest, "validation_failed", "table is required")
		return
	}

	created, err := s.tables.Create(r.Context(), req.Table)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, createTableResponse{Status: "success", Table: req.Table, Created: created})
}

// handleSearch handles POST /search: pure vector similarity.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeSearchRequest(w, r)
	if !ok {
		return
	}

	results, err := s.search.VectorOnly(r.Context(), req.Table, req.Query, derefInt(req.Limit, defaultSearchLimit))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, searchResponse{
		Status:  "success",
		Table:   req.Table,
		Results: results,
		Count:   len(results),
	})
}

// handleHybridSearch handles POST /hybrid-search: fused vector + keyword.
func (s *Server) handleHybridSearch(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeSearchRequest(w, r)
	if !ok {
		return
	}

	alpha := defaultHybridAlpha
	if req.Alpha != nil {
		alpha = *req.Alpha
	}

	results, err := s.search.Search(r.Context(), req.Table, req.Query,
		derefInt(req.Limit, defaultSearchLimit), alpha)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, searchResponse{
		Status:  "success",
		Table:   req.Table,
		Results: results,
		Count:   len(results),
	})
}

func (s *Server) decodeSearchRequest(w http.ResponseWriter, r *http.Request) (searchRequest, bool) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "Invalid request body: "+err.Error())
		return searchRequest{}, false
	}
	if req.Table == "" {
		writeError(w, http.StatusBadRequest, "validation_failed", "table is required")
		return searchRequest{}, false
	}
	if req.Query == "" {
		writeError(w, http.StatusBadRequest, "validation_failed", "query is required")
		return searchRequest{}, false
	}
	return req, true
}

// handleInsert handles POST /insert.
func (s *Server) handleInsert(w http.ResponseWriter, r *http.Request) {
	var req insertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "Invalid request body: "+err.Error())
		return
	}
	if req.Table == "" {
		writeError(w, http.StatusBadRequest, "validation_failed", "table is required")
		return
	}
	if len(req.Documents) == 0 {
		writeError(w, http.StatusBadRequest, "validation_failed", "documents are required")
		return
	}

	count, err := s.ingest.Ingest(r.Context(), req.Table, req.Documents)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, insertResponse{Status: "success", Table: req.Table, InsertedCount: count})
}

// handleDelete handles POST /delete.
func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	var req deleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "Invalid request body: "+err.Error())
		return
	}
	if req.Table == "" {
		writeError(w, http.StatusBadRequest, "validation_failed", "table is required")
		return
	}
	if len(req.IDs) == 0 {
		writeError(w, http.StatusBadRequest, "validation_failed", "ids are required")
		return
	}

	count, err := s.ingest.DeleteByIDs(r.Context(), req.Table, req.IDs)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, deleteResponse{Status: "success", Table: req.Table, DeletedCount: count})
}

// handleChat handles POST /chat.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "Invalid request body: "+err.Error())
		return
	}

	opts := domain.ChatOptions{
		Model:       req.Model,
		MaxTokens:   derefInt(req.MaxTokens, defaultChatMaxTokens),
		Temperature: defaultChatTemperature,
	}
	if req.Temperature != nil {
		opts.Temperature = *req.Temperature
	}

	text, err := s.chat.Complete(r.Context(), req.Messages, opts)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	model := req.Model
	if model == "" {
		model = s.chat.DefaultModel()
	}
	writeJSON(w, http.StatusOK, chatResponse{Status: "success", Model: model, Response: text})
}

// handleAgent handles POST /agent.
func (s *Server) handleAgent(w http.ResponseWriter, r *http.Request) {
	var req agentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "Invalid request body: "+err.Error())
		return
	}
	if req.AgentType == "" {
		writeError(w, http.StatusBadRequest, "validation_failed", "agent_type is required")
		return
	}

	text, err := s.chat.RunAgent(r.Context(), req.AgentType, req.Message, req.Context, req.Model)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	model := req.Model
	if model == "" {
		model = s.chat.DefaultModel()
	}
	writeJSON(w, http.StatusOK, agentResponse{
		Status:    "success",
		AgentType: req.AgentType,
		Model:     model,
		Response:  text,
	})
}

// handleTTS handles POST /tts: synthesized audio streamed as the body.
func (s *Server) handleTTS(w http.ResponseWriter, r *http.Request) {
	req, audio, ok := s.synthesize(w, r)
	if !ok {
		return
	}

	contentType := audioContentTypes[req.Format]
	if contentType == "" {
		contentType = "audio/mpeg"
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=speech.%s", req.Format))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(audio)
}

// handleTTSBase64 handles POST /tts/base64: same synthesis, base64 JSON body.
func (s *Server) handleTTSBase64(w http.ResponseWriter, r *http.Request) {
	req, audio, ok := s.synthesize(w, r)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, ttsBase64Response{
		Status:      "success",
		Format:      req.Format,
		Voice:       req.Voice,
		AudioBase64: base64.StdEncoding.EncodeToString(audio),
	})
}

// synthesize decodes a TTS request and runs it. The returned request carries
// the defaults the service applied so response metadata matches the audio.
func (s *Server) synthesize(w http.ResponseWriter, r *http.Request) (domain.SpeechRequest, []byte, bool) {
	var req ttsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "Invalid request body: "+err.Error())
		return domain.SpeechRequest{}, nil, false
	}

	speechReq := domain.SpeechRequest{
		Text:   req.Text,
		Voice:  req.Voice,
		Model:  req.Model,
		Speed:  req.Speed,
		Format: req.Format,
	}
	if speechReq.Voice == "" {
		speechReq.Voice = "alloy"
	}
	if speechReq.Format == "" {
		speechReq.Format = "mp3"
	}

	audio, err := s.speech.Synthesize(r.Context(), speechReq)
	if err != nil {
		s.handleDomainError(w, err)
		return domain.SpeechRequest{}, nil, false
	}
	return speechReq, audio, true
}

// handleTranscribe handles POST /transcribe: multipart audio upload.
func (s *Server) handleTranscribe(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxTranscribeBytes); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "Invalid multipart body: "+err.Error())
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", "file is required")
		return
	}
	defer file.Close()

	text, err := s.speech.Transcribe(r.Context(), header.Filename, file, r.FormValue("language"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, transcribeResponse{
		Status:   "success",
		Text:     text,
		Filename: header.Filename,
	})
}

// handleTranscribeBase64 handles POST /transcribe/base64.
func (s *Server) handleTranscribeBase64(w http.ResponseWriter, r *http.Request) {
	var req transcribeBase64Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "Invalid request body: "+err.Error())
		return
	}
	if req.AudioBase64 == "" {
		writeError(w, http.StatusBadRequest, "validation_failed", "audio_base64 is required")
		return
	}

	audio, err := base64.StdEncoding.DecodeString(req.AudioBase64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", "audio_base64 is not valid base64")
		return
	}
	if len(audio) > maxTranscribeBytes {
		writeError(w, http.StatusBadRequest, "validation_failed", "audio exceeds size limit")
		return
	}

	text, err := s.speech.Transcribe(r.Context(), req.Filename, bytes.NewReader(audio), req.Language)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, transcribeResponse{Status: "success", Text: text, Filename: req.Filename})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrTableNotFound,
		domain.ErrTableAlreadyExists,
		domain.ErrInvalidArgument,
		domain.ErrVectorDimMismatch,
		domain.ErrEmbeddingProviderError,
		domain.ErrChatProviderError,
		domain.ErrSpeechProviderError,
		domain.ErrProviderNotConfigured,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
}

func derefInt(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}
