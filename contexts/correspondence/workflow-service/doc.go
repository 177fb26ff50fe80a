// Package workflow owns the correspondence aggregate: registration, the
// append-only minute log, the status state machine, and manual archival.
// Every mutation of one correspondence runs under a per-aggregate keyed lock
// so step numbers and the current approver are always computed from a
// consistent prior state.
package workflow
