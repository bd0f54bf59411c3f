// Package reports implements report requests, generation runs, and
// recurring schedules.
//
// The service never computes business figures itself: a Generator
// collaborator supplies the tabular data and this package handles lifecycle,
// encoding, and payload storage. Handlers run inside a resolved tenant scope
// except for the scheduler sweep, which spans tenants.
package reports
