package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/DevNation593/beauty-saas-backend-sub001/internal/cqrs"
	"github.com/DevNation593/beauty-saas-backend-sub001/internal/domain"
	"github.com/DevNation593/beauty-saas-backend-sub001/internal/pkg/logger"
	"github.com/DevNation593/beauty-saas-backend-sub001/internal/service/campaigns"
	"github.com/DevNation593/beauty-saas-backend-sub001/internal/service/dashboards"
	"github.com/DevNation593/beauty-saas-backend-sub001/internal/service/reports"
	"github.com/DevNation593/beauty-saas-backend-sub001/internal/service/tenants"
)

func respondJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}

// respondError translates a domain or service error into an HTTP status.
// Internal errors are logged in full and reported to the client with a
// generic message so database details never leak.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	code := statusFor(err)
	msg := err.Error()
	if code >= http.StatusInternalServerError {
		logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", msg)
		msg = "internal server error"
	}
	respondJSON(w, code, map[string]string{"error": msg})
}

func statusFor(err error) int {
	switch {
	case domain.IsValidation(err):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUnresolvedTenant):
		return http.StatusUnauthorized
	case errors.Is(err, tenants.ErrNotFound),
		errors.Is(err, campaigns.ErrNotFound),
		errors.Is(err, reports.ErrNotFound),
		errors.Is(err, dashboards.ErrNotFound):
		return http.StatusNotFound
	case domain.IsInvariant(err),
		errors.Is(err, tenants.ErrSlugTaken),
		errors.Is(err, campaigns.ErrStaleState),
		errors.Is(err, reports.ErrStaleState),
		errors.Is(err, reports.ErrNoPayload):
		return http.StatusConflict
	case errors.Is(err, cqrs.ErrNotRegistered):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// decode reads a JSON request body into dst. An empty body is allowed so
// bodiless transition posts (launch, pause, ...) decode to the zero value.
func decode(r *http.Request, dst any) error {
	err := json.NewDecoder(r.Body).Decode(dst)
	if err != nil && !errors.Is(err, io.EOF) {
		return domain.ValidationError{Field: "body", Reason: "malformed JSON"}
	}
	return nil
}
