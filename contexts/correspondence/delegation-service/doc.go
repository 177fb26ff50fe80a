// Package delegation implements assistant assignments and correspondence-
// scoped delegation of workflow authority inside chancery.
//
// Layering:
// - domain: assignment/delegation entities, invariants, errors
// - application: commands/queries/workers using explicit ports
// - ports: stable boundaries for persistence, locking, and events
// - adapters: concrete HTTP, memory, and postgres implementations
// - transport: module-private DTOs for HTTP contracts
//
// Boundary notes:
// - The single-active-delegation invariant is enforced here, not in storage:
//   creation runs under the shared per-correspondence critical section and
//   atomically revokes any prior active delegation.
// - The workflow engine calls Complete when a delegated action concludes.
package delegation
