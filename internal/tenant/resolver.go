package tenant

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/DevNation593/beauty-saas-backend-sub001/internal/pkg/logger"
)

// DefaultHeader is the explicit tenant-identifier header checked first.
const DefaultHeader = "X-Tenant-ID"

// reservedSubdomains never resolve to a tenant.
var reservedSubdomains = map[string]bool{
	"www": true, "api": true, "admin": true, "app": true,
}

// Directory looks tenants up by slug. Only tenants with status ACTIVE are
// visible through this path; any other status is indistinguishable from
// absent. Implemented by the postgres tenant repository.
type Directory interface {
	FindActiveBySlug(ctx context.Context, slug string) (*Context, error)
}

// Resolver derives a tenant slug from an inbound request and loads the
// tenant through the Directory, consulting a cache first. Resolution misses
// are not errors: they leave the context absent and let downstream
// authorization decide.
type Resolver struct {
	dir        Directory
	cache      Cache
	header     string
	baseDomain string
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithHeader overrides the tenant-identifier header name.
func WithHeader(name string) Option {
	return func(r *Resolver) { r.header = name }
}

// WithCache adds a resolution cache in front of the directory.
func WithCache(c Cache) Option {
	return func(r *Resolver) { r.cache = c }
}

// NewResolver creates a resolver. baseDomain ("example.com") enables
// subdomain extraction; empty disables it.
func NewResolver(dir Directory, baseDomain string, opts ...Option) *Resolver {
	r := &Resolver{
		dir:        dir,
		header:     DefaultHeader,
		baseDomain: strings.ToLower(baseDomain),
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Resolve derives the tenant for a request. Strategy, first match wins:
// explicit header, origin subdomain (minus reserved names), then the
// "tenant" path segment. Returns (nil, nil) when no signal matches or the
// slug is unknown/not ACTIVE; an error only on infrastructure failure.
func (r *Resolver) Resolve(req *http.Request) (*Context, error) {
	slug := r.slugFrom(req)
	if slug == "" {
		return nil, nil
	}
	return r.lookup(req.Context(), slug)
}

func (r *Resolver) slugFrom(req *http.Request) string {
	if s := strings.TrimSpace(req.Header.Get(r.header)); s != "" {
		return strings.ToLower(s)
	}
	if s := r.subdomain(req.Host); s != "" {
		return s
	}
	if s := chi.URLParam(req, "tenant"); s != "" {
		return strings.ToLower(s)
	}
	return ""
}

// subdomain extracts the first label under the configured base domain.
// "glow-studio.example.com" → "glow-studio"; reserved labels are skipped.
func (r *Resolver) subdomain(host string) string {
	if r.baseDomain == "" || host == "" {
		return ""
	}
	host = strings.ToLower(host)
	if i := strings.IndexByte(host, ':'); i >= 0 {
		host = host[:i]
	}
	suffix := "." + r.baseDomain
	if !strings.HasSuffix(host, suffix) {
		return ""
	}
	sub := strings.TrimSuffix(host, suffix)
	// only a single label counts; "a.b.example.com" is not a tenant signal
	if sub == "" || strings.Contains(sub, ".") {
		return ""
	}
	if reservedSubdomains[sub] {
		return ""
	}
	return sub
}

func (r *Resolver) lookup(ctx context.Context, slug string) (*Context, error) {
	if r.cache != nil {
		if tc, ok, err := r.cache.Get(ctx, slug); err != nil {
			// cache trouble degrades to a direct lookup
			logger.Warn("tenant cache read failed", "slug", slug, "error", err.Error())
		} else if ok {
			return tc, nil
		}
	}

	tc, err := r.dir.FindActiveBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if tc == nil {
		return nil, nil
	}
	if r.cache != nil {
		if err := r.cache.Set(ctx, slug, tc); err != nil {
			logger.Warn("tenant cache write failed", "slug", slug, "error", err.Error())
		}
	}
	return tc, nil
}

// Middleware resolves the tenant for every request and, when resolution
// succeeds, attaches the context. Requests without a resolvable tenant pass
// through untouched; RequireTenant decides what that means per route group.
func (r *Resolver) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		tc, err := r.Resolve(req)
		if err != nil {
			logger.Error("tenant resolution failed", "error", err.Error())
			// infrastructure failure: proceed unresolved rather than 500 here
			next.ServeHTTP(w, req)
			return
		}
		if tc != nil {
			req = req.WithContext(With(req.Context(), tc))
		}
		next.ServeHTTP(w, req)
	})
}

// RequireTenant rejects requests that reached a tenant-scoped route group
// without a resolved tenant.
func RequireTenant(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if _, ok := FromContext(req.Context()); !ok {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error":"tenant could not be resolved"}`))
			return
		}
		next.ServeHTTP(w, req)
	})
}
