// Package campaigns implements campaign lifecycle management.
//
// Every handler runs inside a resolved tenant scope: the tenant id comes
// from request context, never from the command payload, so a caller can
// only ever touch its own campaigns.
//
// Repository implementations live in repository/postgres/.
package campaigns
