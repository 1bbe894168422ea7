package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/dbgasm/pkg/buildinfo"
	"github.com/matzehuels/dbgasm/pkg/errors"
	"github.com/matzehuels/dbgasm/pkg/observability"
	"github.com/matzehuels/dbgasm/pkg/pipeline"
	"github.com/matzehuels/dbgasm/pkg/seq"
)

// assembleRequest is the body of POST /api/v1/assemble.
// K 0 selects the default k-mer length.
type assembleRequest struct {
	FASTA     string   `json:"fasta" validate:"required"`
	K         int      `json:"k" validate:"min=0,max=1024"`
	LineWidth *int     `json:"line_width" validate:"omitempty,min=0"`
	Formats   []string `json:"formats" validate:"max=4,dive,required"`
	Refresh   bool     `json:"refresh"`
}

type contigResponse struct {
	Name     string `json:"name"`
	Sequence string `json:"sequence"`
	Length   int    `json:"length"`
}

type assembleResponse struct {
	RunID     string            `json:"run_id"`
	CacheHit  bool              `json:"cache_hit"`
	Contigs   []contigResponse  `json:"contigs"`
	Stats     pipeline.Stats    `json:"stats"`
	Artifacts map[string]string `json:"artifacts"`
}

type errorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

func (s *Server) assemble(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)

	var req assembleRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			s.respondError(w, r, http.StatusRequestEntityTooLarge, errors.New(errors.ErrCodeInvalidInput, "request body exceeds %d bytes", s.cfg.MaxBodyBytes))
			return
		}
		s.respondError(w, r, http.StatusBadRequest, errors.New(errors.ErrCodeInvalidInput, "invalid request body: %v", err))
		return
	}

	if err := validateRequest(req); err != nil {
		s.respondError(w, r, http.StatusBadRequest, err)
		return
	}

	reads, err := seq.Read(strings.NewReader(req.FASTA))
	if err != nil {
		s.respondError(w, r, http.StatusBadRequest, errors.New(errors.ErrCodeInvalidInput, "invalid FASTA: %v", err))
		return
	}
	if len(reads) == 0 {
		s.respondError(w, r, http.StatusBadRequest, errors.New(errors.ErrCodeInvalidInput, "no reads in request"))
		return
	}

	opts := pipeline.Options{
		Input:     "request:" + middleware.GetReqID(r.Context()),
		Reads:     reads,
		K:         req.K,
		LineWidth: pipeline.DefaultLineWidth,
		Formats:   req.Formats,
		Refresh:   req.Refresh,
	}
	if req.LineWidth != nil {
		opts.LineWidth = *req.LineWidth
	}

	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.respondError(w, r, statusFor(err), err)
		return
	}

	resp := assembleResponse{
		RunID:     result.RunID,
		CacheHit:  result.CacheHit,
		Contigs:   make([]contigResponse, len(result.Contigs)),
		Stats:     result.Stats,
		Artifacts: make(map[string]string, len(result.Artifacts)),
	}
	for i, c := range result.Contigs {
		resp.Contigs[i] = contigResponse{Name: c.Name, Sequence: c.Bases(), Length: c.Len()}
	}
	for format, data := range result.Artifacts {
		resp.Artifacts[format] = string(data)
	}
	respondJSON(w, http.StatusOK, resp)
}

// statusFor maps error codes to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.IsInvalid(err):
		return http.StatusBadRequest
	case errors.Is(err, errors.ErrCodeNotFound), errors.Is(err, errors.ErrCodeFileNotFound):
		return http.StatusNotFound
	case stderrors.Is(err, context.Canceled):
		return 499
	case stderrors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) respondError(w http.ResponseWriter, r *http.Request, status int, err error) {
	observability.HTTP().OnError(r.Context(), r.Method, r.URL.Path, err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "err", err)
	}

	resp := errorResponse{
		Error:     errors.UserMessage(err),
		Code:      string(errors.GetCode(err)),
		RequestID: middleware.GetReqID(r.Context()),
	}
	if status >= http.StatusInternalServerError {
		resp.Error = "internal error"
	}
	respondJSON(w, status, resp)
}
