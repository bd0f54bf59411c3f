package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/DevNation593/beauty-saas-backend-sub001/internal/service/campaigns"
)

// Campaign endpoints. All are tenant-scoped: the resolver middleware must
// have attached a tenant context before these run.

// HandleCreateCampaign creates a draft campaign.
//
//	POST /api/campaigns
func (h *Handlers) HandleCreateCampaign(w http.ResponseWriter, r *http.Request) {
	var cmd campaigns.CreateCampaign
	if err := decode(r, &cmd); err != nil {
		respondError(w, r, err)
		return
	}
	h.dispatch(w, r, cmd, http.StatusCreated)
}

// HandleGetCampaign fetches one campaign.
//
//	GET /api/campaigns/{campaignID}
func (h *Handlers) HandleGetCampaign(w http.ResponseWriter, r *http.Request) {
	h.ask(w, r, campaigns.GetCampaign{CampaignID: chi.URLParam(r, "campaignID")})
}

// HandleListCampaigns pages through the tenant's campaigns.
//
//	GET /api/campaigns?status=&type=&channel=&search=&page=&limit=
func (h *Handlers) HandleListCampaigns(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	h.ask(w, r, campaigns.ListCampaigns{
		Filter: campaigns.ListFilter{
			Status:  q.Get("status"),
			Type:    q.Get("type"),
			Channel: q.Get("channel"),
			Search:  q.Get("search"),
		},
		Page: pageFrom(r),
	})
}

// HandleUpdateCampaignDetails edits name and/or template of a draft.
//
//	PUT /api/campaigns/{campaignID}
func (h *Handlers) HandleUpdateCampaignDetails(w http.ResponseWriter, r *http.Request) {
	var cmd campaigns.UpdateCampaignDetails
	if err := decode(r, &cmd); err != nil {
		respondError(w, r, err)
		return
	}
	cmd.CampaignID = chi.URLParam(r, "campaignID")
	h.dispatch(w, r, cmd, http.StatusOK)
}

// HandleUpdateCampaignSegment replaces the target segment of a draft.
//
//	PUT /api/campaigns/{campaignID}/segment
func (h *Handlers) HandleUpdateCampaignSegment(w http.ResponseWriter, r *http.Request) {
	var cmd campaigns.UpdateCampaignSegment
	if err := decode(r, &cmd); err != nil {
		respondError(w, r, err)
		return
	}
	cmd.CampaignID = chi.URLParam(r, "campaignID")
	h.dispatch(w, r, cmd, http.StatusOK)
}

// HandleScheduleCampaign books a future send time.
//
//	POST /api/campaigns/{campaignID}/schedule
func (h *Handlers) HandleScheduleCampaign(w http.ResponseWriter, r *http.Request) {
	var cmd campaigns.ScheduleCampaign
	if err := decode(r, &cmd); err != nil {
		respondError(w, r, err)
		return
	}
	cmd.CampaignID = chi.URLParam(r, "campaignID")
	h.dispatch(w, r, cmd, http.StatusOK)
}

// HandleLaunchCampaign starts sending now.
//
//	POST /api/campaigns/{campaignID}/launch
func (h *Handlers) HandleLaunchCampaign(w http.ResponseWriter, r *http.Request) {
	h.dispatch(w, r, campaigns.LaunchCampaign{CampaignID: chi.URLParam(r, "campaignID")}, http.StatusOK)
}

// HandlePauseCampaign suspends an in-flight send.
//
//	POST /api/campaigns/{campaignID}/pause
func (h *Handlers) HandlePauseCampaign(w http.ResponseWriter, r *http.Request) {
	h.dispatch(w, r, campaigns.PauseCampaign{CampaignID: chi.URLParam(r, "campaignID")}, http.StatusOK)
}

// HandleResumeCampaign continues a paused send.
//
//	POST /api/campaigns/{campaignID}/resume
func (h *Handlers) HandleResumeCampaign(w http.ResponseWriter, r *http.Request) {
	h.dispatch(w, r, campaigns.ResumeCampaign{CampaignID: chi.URLParam(r, "campaignID")}, http.StatusOK)
}

// HandleCompleteCampaign finishes a send.
//
//	POST /api/campaigns/{campaignID}/complete
func (h *Handlers) HandleCompleteCampaign(w http.ResponseWriter, r *http.Request) {
	h.dispatch(w, r, campaigns.CompleteCampaign{CampaignID: chi.URLParam(r, "campaignID")}, http.StatusOK)
}

// HandleCancelCampaign aborts from any non-terminal state.
//
//	POST /api/campaigns/{campaignID}/cancel
func (h *Handlers) HandleCancelCampaign(w http.ResponseWriter, r *http.Request) {
	h.dispatch(w, r, campaigns.CancelCampaign{CampaignID: chi.URLParam(r, "campaignID")}, http.StatusOK)
}

// HandleDeleteCampaign removes a draft campaign.
//
//	DELETE /api/campaigns/{campaignID}
func (h *Handlers) HandleDeleteCampaign(w http.ResponseWriter, r *http.Request) {
	h.dispatch(w, r, campaigns.DeleteCampaign{CampaignID: chi.URLParam(r, "campaignID")}, http.StatusOK)
}

// HandleRecordCampaignMetrics applies delivery counter deltas.
//
//	POST /api/campaigns/{campaignID}/metrics
func (h *Handlers) HandleRecordCampaignMetrics(w http.ResponseWriter, r *http.Request) {
	var cmd campaigns.RecordCampaignMetrics
	if err := decode(r, &cmd); err != nil {
		respondError(w, r, err)
		return
	}
	cmd.CampaignID = chi.URLParam(r, "campaignID")
	h.dispatch(w, r, cmd, http.StatusOK)
}

// HandleCampaignMetrics returns the current counters.
//
//	GET /api/campaigns/{campaignID}/metrics
func (h *Handlers) HandleCampaignMetrics(w http.ResponseWriter, r *http.Request) {
	h.ask(w, r, campaigns.GetCampaignMetrics{CampaignID: chi.URLParam(r, "campaignID")})
}

// HandlePreviewMessage renders the campaign template against sample
// recipient attributes without sending anything.
//
//	POST /api/campaigns/{campaignID}/preview
func (h *Handlers) HandlePreviewMessage(w http.ResponseWriter, r *http.Request) {
	var q campaigns.PreviewMessage
	if err := decode(r, &q); err != nil {
		respondError(w, r, err)
		return
	}
	q.CampaignID = chi.URLParam(r, "campaignID")
	h.ask(w, r, q)
}
