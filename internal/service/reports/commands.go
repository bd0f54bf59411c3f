package reports

import "github.com/DevNation593/beauty-saas-backend-sub001/internal/domain"

// Command names.
const (
	CmdRequestReport     = "reports.request"
	CmdGenerateReport    = "reports.generate"
	CmdSetReportSchedule = "reports.set_schedule"
	CmdDeleteReport      = "reports.delete"
)

// RequestReport creates a PENDING report for the current tenant.
type RequestReport struct {
	Type     domain.ReportType      `json:"type"`
	Filters  domain.ReportFilters   `json:"filters"`
	Format   domain.ReportFormat    `json:"format"`
	Schedule *domain.ReportSchedule `json:"schedule,omitempty"`
}

func (RequestReport) CommandName() string { return CmdRequestReport }

// GenerateReport runs one generation pass synchronously: data is gathered,
// encoded in the requested format, stored, and the report marked COMPLETED
// or FAILED.
type GenerateReport struct {
	ReportID string `json:"report_id"`
}

func (GenerateReport) CommandName() string { return CmdGenerateReport }

// SetReportSchedule replaces or clears the recurring schedule.
type SetReportSchedule struct {
	ReportID string                 `json:"report_id"`
	Schedule *domain.ReportSchedule `json:"schedule"`
}

func (SetReportSchedule) CommandName() string { return CmdSetReportSchedule }

// DeleteReport removes a report request and severs its payload reference.
type DeleteReport struct {
	ReportID string `json:"report_id"`
}

func (DeleteReport) CommandName() string { return CmdDeleteReport }
