package campaigns

import "github.com/DevNation593/beauty-saas-backend-sub001/internal/domain"

// Query names.
const (
	QryGetCampaign     = "campaigns.get"
	QryListCampaigns   = "campaigns.list"
	QryPreviewMessage  = "campaigns.preview_message"
	QryCampaignMetrics = "campaigns.metrics"
)

// GetCampaign fetches one campaign.
type GetCampaign struct {
	CampaignID string `json:"campaign_id"`
}

func (GetCampaign) QueryName() string { return QryGetCampaign }

// ListCampaigns pages through the tenant's campaigns.
type ListCampaigns struct {
	Filter ListFilter         `json:"filter"`
	Page   domain.PageRequest `json:"page"`
}

func (ListCampaigns) QueryName() string { return QryListCampaigns }

// PreviewMessage renders the campaign template against sample recipient
// attributes without sending anything.
type PreviewMessage struct {
	CampaignID string         `json:"campaign_id"`
	Recipient  map[string]any `json:"recipient"`
}

func (PreviewMessage) QueryName() string { return QryPreviewMessage }

// GetCampaignMetrics returns the current counters for one campaign.
type GetCampaignMetrics struct {
	CampaignID string `json:"campaign_id"`
}

func (GetCampaignMetrics) QueryName() string { return QryCampaignMetrics }
