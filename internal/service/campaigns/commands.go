package campaigns

import (
	"time"

	"github.com/DevNation593/beauty-saas-backend-sub001/internal/domain"
)

// Command names.
const (
	CmdCreateCampaign        = "campaigns.create"
	CmdUpdateCampaignDetails = "campaigns.update_details"
	CmdUpdateCampaignSegment = "campaigns.update_segment"
	CmdScheduleCampaign      = "campaigns.schedule"
	CmdLaunchCampaign        = "campaigns.launch"
	CmdPauseCampaign         = "campaigns.pause"
	CmdResumeCampaign        = "campaigns.resume"
	CmdCompleteCampaign      = "campaigns.complete"
	CmdCancelCampaign        = "campaigns.cancel"
	CmdDeleteCampaign        = "campaigns.delete"
	CmdRecordCampaignMetrics = "campaigns.record_metrics"
)

// CreateCampaign creates a DRAFT campaign for the current tenant.
type CreateCampaign struct {
	Name     string                 `json:"name"`
	Type     domain.CampaignType    `json:"type"`
	Channel  domain.Channel         `json:"channel"`
	Segment  domain.Segment         `json:"segment"`
	Template domain.MessageTemplate `json:"template"`
}

func (CreateCampaign) CommandName() string { return CmdCreateCampaign }

// UpdateCampaignDetails edits name and/or template of a DRAFT campaign.
// Nil fields are left unchanged.
type UpdateCampaignDetails struct {
	CampaignID string                  `json:"campaign_id"`
	Name       *string                 `json:"name,omitempty"`
	Template   *domain.MessageTemplate `json:"template,omitempty"`
}

func (UpdateCampaignDetails) CommandName() string { return CmdUpdateCampaignDetails }

// UpdateCampaignSegment replaces the target segment of a DRAFT campaign.
type UpdateCampaignSegment struct {
	CampaignID string         `json:"campaign_id"`
	Segment    domain.Segment `json:"segment"`
}

func (UpdateCampaignSegment) CommandName() string { return CmdUpdateCampaignSegment }

// ScheduleCampaign books a future send time.
type ScheduleCampaign struct {
	CampaignID string    `json:"campaign_id"`
	At         time.Time `json:"at"`
}

func (ScheduleCampaign) CommandName() string { return CmdScheduleCampaign }

// LaunchCampaign starts sending now. The audience is resolved at launch time
// and its size recorded on the campaign.
type LaunchCampaign struct {
	CampaignID string `json:"campaign_id"`
}

func (LaunchCampaign) CommandName() string { return CmdLaunchCampaign }

// PauseCampaign suspends an in-flight send.
type PauseCampaign struct {
	CampaignID string `json:"campaign_id"`
}

func (PauseCampaign) CommandName() string { return CmdPauseCampaign }

// ResumeCampaign continues a paused send.
type ResumeCampaign struct {
	CampaignID string `json:"campaign_id"`
}

func (ResumeCampaign) CommandName() string { return CmdResumeCampaign }

// CompleteCampaign finishes a send.
type CompleteCampaign struct {
	CampaignID string `json:"campaign_id"`
}

func (CompleteCampaign) CommandName() string { return CmdCompleteCampaign }

// CancelCampaign aborts from any non-terminal state.
type CancelCampaign struct {
	CampaignID string `json:"campaign_id"`
}

func (CancelCampaign) CommandName() string { return CmdCancelCampaign }

// DeleteCampaign removes a DRAFT campaign.
type DeleteCampaign struct {
	CampaignID string `json:"campaign_id"`
}

func (DeleteCampaign) CommandName() string { return CmdDeleteCampaign }

// RecordCampaignMetrics applies delivery counter deltas reported by the
// sending pipeline.
type RecordCampaignMetrics struct {
	CampaignID string                 `json:"campaign_id"`
	Delta      domain.CampaignMetrics `json:"delta"`
}

func (RecordCampaignMetrics) CommandName() string { return CmdRecordCampaignMetrics }
