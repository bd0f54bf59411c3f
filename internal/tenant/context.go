// Package tenant resolves which tenant an inbound request belongs to and
// carries that resolution through the request's context. Every tenant-scoped
// handler reads the resolved context; nothing in the process holds a global
// "current tenant".
package tenant

import (
	"context"

	"github.com/DevNation593/beauty-saas-backend-sub001/internal/domain"
)

// Plan is the denormalized plan snapshot carried with a resolution so
// handlers never need a second lookup per request.
type Plan struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Modules  []string `json:"modules"`
	Features []string `json:"features"`
}

// HasModule reports whether the plan enables a module.
func (p Plan) HasModule(name string) bool {
	for _, m := range p.Modules {
		if m == name {
			return true
		}
	}
	return false
}

// HasFeature reports whether the plan enables a feature flag.
func (p Plan) HasFeature(name string) bool {
	for _, f := range p.Features {
		if f == name {
			return true
		}
	}
	return false
}

// Context identifies the tenant a request was resolved to. It is
// request-scoped: built once per request by the Resolver and never reused
// across requests.
type Context struct {
	TenantID string `json:"tenant_id"`
	Slug     string `json:"slug"`
	Name     string `json:"name"`
	Plan     Plan   `json:"plan"`
}

type ctxKey struct{}

// With attaches a resolved tenant context to ctx.
func With(ctx context.Context, tc *Context) context.Context {
	return context.WithValue(ctx, ctxKey{}, tc)
}

// FromContext returns the resolved tenant context, if any.
func FromContext(ctx context.Context) (*Context, bool) {
	tc, ok := ctx.Value(ctxKey{}).(*Context)
	return tc, ok && tc != nil
}

// Require returns the resolved tenant context or ErrUnresolvedTenant.
// Tenant-scoped handlers call this first.
func Require(ctx context.Context) (*Context, error) {
	tc, ok := FromContext(ctx)
	if !ok {
		return nil, domain.ErrUnresolvedTenant
	}
	return tc, nil
}
