package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/medflow/idscan-service/internal/docprocessing/domain"
	"github.com/medflow/idscan-service/internal/docprocessing/service"
	"github.com/medflow/idscan-service/pkg/errors"
	"github.com/medflow/idscan-service/pkg/httputil"
	"github.com/medflow/idscan-service/pkg/logger"
	"github.com/medflow/idscan-service/pkg/permissions"
)

// DefaultMaxBodyBytes bounds request bodies when no limit is configured.
const DefaultMaxBodyBytes = 64 << 10

// ExtractRequest is the body of the extract and parse endpoints. Payload is the text
// decoded from the PDF417 barcode or magnetic stripe.
type ExtractRequest struct {
	DocumentType     string `json:"document_type" validate:"required,oneof=drivers_license id_card"`
	Payload          string `json:"payload" validate:"required"`
	ConsentTimestamp string `json:"consent_timestamp" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
}

// Handler handles HTTP requests for document extraction
type Handler struct {
	service      *service.Service
	log          *logger.Logger
	maxBodyBytes int64
	checkPerms   bool
}

// Option configures a Handler.
type Option func(*Handler)

// WithPermissionChecks makes every route require document permissions from the
// caller's token.
func WithPermissionChecks() Option {
	return func(h *Handler) { h.checkPerms = true }
}

// NewHandler creates a new document extraction handler. maxBodyBytes <= 0 uses
// DefaultMaxBodyBytes.
func NewHandler(svc *service.Service, log *logger.Logger, maxBodyBytes int64, opts ...Option) *Handler {
	if maxBodyBytes <= 0 {
		maxBodyBytes = DefaultMaxBodyBytes
	}
	h := &Handler{
		service:      svc,
		log:          log,
		maxBodyBytes: maxBodyBytes,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Routes mounts the document endpoints on r.
func (h *Handler) Routes(r chi.Router) {
	r.Route("/documents", func(r chi.Router) {
		r.With(h.requires(permissions.DocumentsScan)).Post("/extract", h.Extract)
		r.With(h.requires(permissions.DocumentsScan, permissions.DocumentsRead)).Get("/extract/{jobId}", h.GetResult)
		r.With(h.requires(permissions.DocumentsScan)).Post("/parse", h.Parse)
	})
}

func (h *Handler) requires(anyOf ...string) func(http.Handler) http.Handler {
	if !h.checkPerms {
		return func(next http.Handler) http.Handler { return next }
	}
	return httputil.RequirePermission(anyOf...)
}

// Extract handles POST /documents/extract. It starts an asynchronous job and answers
// 202 with the job to poll.
func (h *Handler) Extract(w http.ResponseWriter, r *http.Request) {
	req, consent, err := h.decode(w, r)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	job, err := h.service.StartExtraction(r.Context(), []byte(req.Payload), domain.DocumentType(req.DocumentType), consent, httputil.GetUserID(r.Context()))
	if err != nil {
		h.log.Error().Err(err).Str("request_id", httputil.GetRequestID(r.Context())).Msg("extraction failed to start")
		httputil.Error(w, err)
		return
	}

	httputil.Accepted(w, job)
}

// Parse handles POST /documents/parse. It extracts synchronously and answers 422
// when the payload is not a license.
func (h *Handler) Parse(w http.ResponseWriter, r *http.Request) {
	req, consent, err := h.decode(w, r)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	job, err := h.service.ParseNow(r.Context(), []byte(req.Payload), domain.DocumentType(req.DocumentType), consent, httputil.GetUserID(r.Context()))
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, job)
}

// GetResult handles GET /documents/extract/{jobId}
func (h *Handler) GetResult(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobId")
	if jobID == "" {
		httputil.Error(w, errors.BadRequest("missing jobId parameter"))
		return
	}

	job, err := h.service.GetJob(r.Context(), jobID)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, job)
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request) (*ExtractRequest, time.Time, error) {
	var req ExtractRequest
	if err := httputil.DecodeJSON(w, r, &req, h.maxBodyBytes); err != nil {
		return nil, time.Time{}, err
	}
	if err := httputil.Validate(req); err != nil {
		return nil, time.Time{}, err
	}
	consent, err := time.Parse(time.RFC3339, req.ConsentTimestamp)
	if err != nil {
		return nil, time.Time{}, errors.Validation(map[string]string{
			"consent_timestamp": "must be an RFC3339 timestamp",
		})
	}
	if consent.After(time.Now().Add(time.Minute)) {
		return nil, time.Time{}, errors.Validation(map[string]string{
			"consent_timestamp": "must not be in the future",
		})
	}
	return &req, consent, nil
}
