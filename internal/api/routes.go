package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/DevNation593/beauty-saas-backend-sub001/internal/tenant"
)

// SetupRoutes builds the full route tree. The tenant-scoped groups demand
// that resolution succeeded; admin routes name their tenant explicitly and
// never depend on resolution.
func SetupRoutes(h *Handlers, hc *HealthChecker, resolver *tenant.Resolver, allowedOrigins []string) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)

	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"http://localhost:5173", "http://localhost:8080"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Tenant-ID"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check (no tenant required)
	r.Get("/health", hc.HandleHealth)

	// Platform administration
	r.Route("/admin", func(r chi.Router) {
		r.Route("/tenants", func(r chi.Router) {
			r.Post("/", h.HandleProvisionTenant)
			r.Get("/", h.HandleListTenants)
			r.Get("/slug/{slug}", h.HandleGetTenantBySlug)
			r.Route("/{tenantID}", func(r chi.Router) {
				r.Get("/", h.HandleGetTenant)
				r.Post("/status", h.HandleChangeTenantStatus)
				r.Post("/plan", h.HandleChangeTenantPlan)
				r.Post("/trial/extend", h.HandleExtendTenantTrial)
				r.Put("/profile", h.HandleUpdateTenantProfile)
				r.Put("/features", h.HandleSetTenantFeature)
				r.Put("/settings", h.HandleUpdateTenantSettings)
				r.Put("/limits", h.HandleSetTenantLimits)
			})
		})
	})

	// Tenant-scoped API. Mounted twice: /api resolves the tenant from the
	// X-Tenant-ID header or the request subdomain, /t/{tenant} carries the
	// slug in the path for clients behind shared hosts.
	tenantScoped := func(r chi.Router) {
		if resolver != nil {
			r.Use(resolver.Middleware)
		}
		r.Use(tenant.RequireTenant)

		r.Route("/campaigns", func(r chi.Router) {
			r.Post("/", h.HandleCreateCampaign)
			r.Get("/", h.HandleListCampaigns)
			r.Route("/{campaignID}", func(r chi.Router) {
				r.Get("/", h.HandleGetCampaign)
				r.Put("/", h.HandleUpdateCampaignDetails)
				r.Delete("/", h.HandleDeleteCampaign)
				r.Put("/segment", h.HandleUpdateCampaignSegment)
				r.Post("/schedule", h.HandleScheduleCampaign)
				r.Post("/launch", h.HandleLaunchCampaign)
				r.Post("/pause", h.HandlePauseCampaign)
				r.Post("/resume", h.HandleResumeCampaign)
				r.Post("/complete", h.HandleCompleteCampaign)
				r.Post("/cancel", h.HandleCancelCampaign)
				r.Post("/metrics", h.HandleRecordCampaignMetrics)
				r.Get("/metrics", h.HandleCampaignMetrics)
				r.Post("/preview", h.HandlePreviewMessage)
			})
		})

		r.Route("/reports", func(r chi.Router) {
			r.Post("/", h.HandleRequestReport)
			r.Get("/", h.HandleListReports)
			r.Route("/{reportID}", func(r chi.Router) {
				r.Get("/", h.HandleGetReport)
				r.Delete("/", h.HandleDeleteReport)
				r.Post("/generate", h.HandleGenerateReport)
				r.Put("/schedule", h.HandleSetReportSchedule)
				r.Get("/payload", h.HandleReportPayload)
			})
		})

		r.Route("/dashboards", func(r chi.Router) {
			r.Post("/", h.HandleCreateDashboard)
			r.Get("/", h.HandleListDashboards)
			r.Route("/{dashboardID}", func(r chi.Router) {
				r.Get("/", h.HandleGetDashboard)
				r.Put("/", h.HandleRenameDashboard)
				r.Delete("/", h.HandleDeleteDashboard)
				r.Post("/widgets", h.HandleAddWidget)
				r.Post("/widgets/reorder", h.HandleReorderWidgets)
				r.Put("/widgets/{widgetID}", h.HandleUpdateWidget)
				r.Delete("/widgets/{widgetID}", h.HandleRemoveWidget)
			})
		})
	}

	r.Route("/api", tenantScoped)
	r.Route("/t/{tenant}", tenantScoped)

	return r
}
