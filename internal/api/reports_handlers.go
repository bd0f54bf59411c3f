package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/DevNation593/beauty-saas-backend-sub001/internal/domain"
	"github.com/DevNation593/beauty-saas-backend-sub001/internal/service/reports"
)

// Report endpoints, tenant-scoped.

// HandleRequestReport creates a pending report.
//
//	POST /api/reports
func (h *Handlers) HandleRequestReport(w http.ResponseWriter, r *http.Request) {
	var cmd reports.RequestReport
	if err := decode(r, &cmd); err != nil {
		respondError(w, r, err)
		return
	}
	h.dispatch(w, r, cmd, http.StatusCreated)
}

// HandleGetReport fetches one report.
//
//	GET /api/reports/{reportID}
func (h *Handlers) HandleGetReport(w http.ResponseWriter, r *http.Request) {
	h.ask(w, r, reports.GetReport{ReportID: chi.URLParam(r, "reportID")})
}

// HandleListReports pages through the tenant's reports.
//
//	GET /api/reports?type=&status=&page=&limit=
func (h *Handlers) HandleListReports(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	h.ask(w, r, reports.ListReports{
		Filter: reports.ListFilter{
			Type:   q.Get("type"),
			Status: q.Get("status"),
		},
		Page: pageFrom(r),
	})
}

// HandleGenerateReport runs one generation pass synchronously.
//
//	POST /api/reports/{reportID}/generate
func (h *Handlers) HandleGenerateReport(w http.ResponseWriter, r *http.Request) {
	h.dispatch(w, r, reports.GenerateReport{ReportID: chi.URLParam(r, "reportID")}, http.StatusOK)
}

// HandleSetReportSchedule replaces or clears the recurring schedule.
//
//	PUT /api/reports/{reportID}/schedule
func (h *Handlers) HandleSetReportSchedule(w http.ResponseWriter, r *http.Request) {
	var cmd reports.SetReportSchedule
	if err := decode(r, &cmd); err != nil {
		respondError(w, r, err)
		return
	}
	cmd.ReportID = chi.URLParam(r, "reportID")
	h.dispatch(w, r, cmd, http.StatusOK)
}

// HandleDeleteReport removes a report and severs its payload reference.
//
//	DELETE /api/reports/{reportID}
func (h *Handlers) HandleDeleteReport(w http.ResponseWriter, r *http.Request) {
	h.dispatch(w, r, reports.DeleteReport{ReportID: chi.URLParam(r, "reportID")}, http.StatusOK)
}

// HandleReportPayload streams the stored payload of a completed report with
// a content type matching its format.
//
//	GET /api/reports/{reportID}/payload
func (h *Handlers) HandleReportPayload(w http.ResponseWriter, r *http.Request) {
	res, err := h.bus.Ask(r.Context(), reports.GetReportPayload{ReportID: chi.URLParam(r, "reportID")})
	if err != nil {
		respondError(w, r, err)
		return
	}
	payload, ok := res.(reports.Payload)
	if !ok {
		respondError(w, r, domain.ValidationError{Field: "payload", Reason: "unexpected answer type"})
		return
	}
	switch payload.Format {
	case domain.FormatCSV:
		w.Header().Set("Content-Type", "text/csv")
	default:
		w.Header().Set("Content-Type", "application/json")
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(payload.Data)
}
