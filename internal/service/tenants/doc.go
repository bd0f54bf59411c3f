// Package tenants implements tenant account lifecycle management.
//
// This is the one service that operates outside tenant scope: its callers are
// platform operators provisioning and administering accounts, so commands
// carry an explicit tenant id instead of reading one from request context.
//
// Repository implementations live in repository/postgres/.
package tenants
