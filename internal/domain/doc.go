// Package domain defines the core business types for the beauty SaaS platform.
//
// Types in this package are the aggregates of the system: they own their
// invariants, their lifecycle state machines, and the domain events they
// queue on state change. They are the shared language between the transport
// adapter, command/query handlers, and repositories.
//
// Rules for this package:
//   - No imports from other internal/ packages
//   - No *sql.DB, no http.Request, no context.Context in struct fields
//   - Aggregates never read the wall clock; time-dependent mutators take an
//     explicit now argument supplied by the caller's Clock
//   - JSON/DB tags are allowed (they're metadata, not behavior)
//   - Constants and enums belong here
package domain
