// Package dashboards implements per-tenant dashboard and widget layout
// management. Handlers run inside a resolved tenant scope.
package dashboards
