// Package notifications dispatches user-facing notifications projected from
// workflow and delegation events. Delivery is at-least-once: an immediate
// push through the in-process hub plus the persisted store polled by
// clients; consumers deduplicate by notification id.
package notifications
