// Package profile implements the permission profile resolver inside chancery.
//
// Layering:
// - domain: grade tier enumeration, capability profile, pure resolver rules
// - application: queries using explicit ports
// - ports: stable boundary to the external organization directory
// - adapters: concrete HTTP and in-memory directory implementations
// - transport: module-private DTOs for HTTP contracts
//
// Boundary notes:
// - The resolver is deterministic and side-effect free; every authorization
//   check re-derives the profile from grade/role, never from client input.
// - Directory reads are external and eventually consistent; tolerate stale data.
package profile
