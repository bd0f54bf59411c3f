package reports

import "github.com/DevNation593/beauty-saas-backend-sub001/internal/domain"

// Query names.
const (
	QryGetReport     = "reports.get"
	QryListReports   = "reports.list"
	QryReportPayload = "reports.payload"
)

// GetReport fetches one report.
type GetReport struct {
	ReportID string `json:"report_id"`
}

func (GetReport) QueryName() string { return QryGetReport }

// ListReports pages through the tenant's reports.
type ListReports struct {
	Filter ListFilter         `json:"filter"`
	Page   domain.PageRequest `json:"page"`
}

func (ListReports) QueryName() string { return QryListReports }

// GetReportPayload fetches the stored payload of a COMPLETED report.
type GetReportPayload struct {
	ReportID string `json:"report_id"`
}

func (GetReportPayload) QueryName() string { return QryReportPayload }

// Payload is the answer to GetReportPayload.
type Payload struct {
	Format domain.ReportFormat `json:"format"`
	Data   []byte              `json:"data"`
}
