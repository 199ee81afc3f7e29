package rest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/heartmarshall/casedata-runtime/internal/domain"
	"github.com/heartmarshall/casedata-runtime/internal/service/caseevent"
)

// IdempotencyKeyHeader carries the caller-supplied submission key.
const IdempotencyKeyHeader = "Idempotency-Key"

const maxRequestBody = 10 << 20

// caseService defines the minimal interface needed by CaseHandler.
type caseService interface {
	SubmitEvent(ctx context.Context, input caseevent.SubmitEventInput) (*caseevent.SubmitResult, error)
	GetCase(ctx context.Context, reference int64) (*domain.CaseView, error)
	GetCases(ctx context.Context, input caseevent.GetCasesInput) ([]domain.CaseView, error)
	ListHistory(ctx context.Context, reference int64) ([]domain.AuditEvent, error)
	GetHistoryEvent(ctx context.Context, reference, auditID int64) (*domain.AuditEvent, error)
	UpdateSupplementaryData(ctx context.Context, input caseevent.UpdateSupplementaryDataInput) (domain.Document, error)
}

// CaseHandler serves case REST endpoints.
type CaseHandler struct {
	svc caseService
	log *slog.Logger
}

// NewCaseHandler creates a CaseHandler.
func NewCaseHandler(svc caseService, logger *slog.Logger) *CaseHandler {
	return &CaseHandler{svc: svc, log: logger.With("handler", "cases")}
}

// Register mounts the case routes on r.
func (h *CaseHandler) Register(r chi.Router) {
	r.Route("/cases", func(r chi.Router) {
		r.Get("/", h.GetCases)
		r.Get("/{reference}", h.GetCase)
		r.Post("/{reference}/events", h.SubmitEvent)
		r.Get("/{reference}/history", h.ListHistory)
		r.Get("/{reference}/history/{eventID}", h.GetHistoryEvent)
		r.Post("/{reference}/supplementary-data", h.UpdateSupplementaryData)
	})
}

// SubmitEvent handles POST /cases/{reference}/events.
func (h *CaseHandler) SubmitEvent(w http.ResponseWriter, r *http.Request) {
	reference, ok := pathInt(w, r, "reference")
	if !ok {
		return
	}

	var key uuid.UUID
	if raw := r.Header.Get(IdempotencyKeyHeader); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid "+IdempotencyKeyHeader+" header")
			return
		}
		key = parsed
	}

	var req submitEventRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	res, err := h.svc.SubmitEvent(r.Context(), caseevent.SubmitEventInput{
		IdempotencyKey:         key,
		Reference:              reference,
		CaseTypeID:             req.CaseTypeID,
		EventID:                req.EventID,
		ExpectedVersion:        req.ExpectedVersion,
		Data:                   req.Data,
		State:                  req.State,
		SecurityClassification: domain.SecurityClassification(req.SecurityClassification),
		Summary:                req.Summary,
		Description:            req.Description,
	})
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toSubmitResponse(res))
}

// UpdateSupplementaryData handles POST /cases/{reference}/supplementary-data.
func (h *CaseHandler) UpdateSupplementaryData(w http.ResponseWriter, r *http.Request) {
	reference, ok := pathInt(w, r, "reference")
	if !ok {
		return
	}

	var req supplementaryDataRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody))
	dec.UseNumber()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	data, err := h.svc.UpdateSupplementaryData(r.Context(), caseevent.UpdateSupplementaryDataInput{
		Reference: reference,
		Updates:   req.Updates,
	})
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, supplementaryDataResponse{SupplementaryData: data})
}

// GetCase handles GET /cases/{reference}.
func (h *CaseHandler) GetCase(w http.ResponseWriter, r *http.Request) {
	reference, ok := pathInt(w, r, "reference")
	if !ok {
		return
	}

	view, err := h.svc.GetCase(r.Context(), reference)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toCaseResponse(*view))
}

// GetCases handles GET /cases?refs=1,2,3.
func (h *CaseHandler) GetCases(w http.ResponseWriter, r *http.Request) {
	var refs []int64
	for _, raw := range strings.Split(r.URL.Query().Get("refs"), ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		ref, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid case reference "+strconv.Quote(raw))
			return
		}
		refs = append(refs, ref)
	}

	views, err := h.svc.GetCases(r.Context(), caseevent.GetCasesInput{References: refs})
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	out := make([]caseResponse, 0, len(views))
	for _, v := range views {
		out = append(out, toCaseResponse(v))
	}
	writeJSON(w, http.StatusOK, out)
}

// ListHistory handles GET /cases/{reference}/history.
func (h *CaseHandler) ListHistory(w http.ResponseWriter, r *http.Request) {
	reference, ok := pathInt(w, r, "reference")
	if !ok {
		return
	}

	events, err := h.svc.ListHistory(r.Context(), reference)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	out := make([]historyEventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, toHistoryEventResponse(e))
	}
	writeJSON(w, http.StatusOK, out)
}

// GetHistoryEvent handles GET /cases/{reference}/history/{eventID}.
func (h *CaseHandler) GetHistoryEvent(w http.ResponseWriter, r *http.Request) {
	reference, ok := pathInt(w, r, "reference")
	if !ok {
		return
	}
	auditID, ok := pathInt(w, r, "eventID")
	if !ok {
		return
	}

	ev, err := h.svc.GetHistoryEvent(r.Context(), reference, auditID)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toHistoryEventResponse(*ev))
}

func (h *CaseHandler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		rejected *domain.CallbackRejectedError
		invalid  *domain.ValidationError
	)
	switch {
	case errors.As(err, &rejected):
		writeJSON(w, http.StatusUnprocessableEntity, rejectedResponse{
			Errors:   nonNil(rejected.Errors),
			Warnings: nonNil(rejected.Warnings),
		})
	case errors.As(err, &invalid):
		resp := errorResponse{Error: "validation error"}
		for _, fe := range invalid.Errors {
			resp.Fields = append(resp.Fields, fieldResponse{Field: fe.Field, Message: fe.Message})
		}
		writeJSON(w, http.StatusBadRequest, resp)
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, domain.ErrVersionConflict):
		writeError(w, http.StatusConflict, "case has been updated concurrently, reload and retry")
	case errors.Is(err, domain.ErrConflict):
		writeError(w, http.StatusConflict, "conflict")
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	default:
		h.log.ErrorContext(r.Context(), "internal error", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func pathInt(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	raw := chi.URLParam(r, name)
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v <= 0 {
		writeError(w, http.StatusBadRequest, "invalid "+name+" "+strconv.Quote(raw))
		return 0, false
	}
	return v, true
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
