package domain

import "time"

// Audit event types written by the billing engine. One event per meaningful
// branch taken during an approval.
const (
	EventProrationDeferred = "proration_deferred"
	EventBackBilling       = "back_billing"
	EventContractError     = "contract_error"
)

// Event is an append-only audit log entry. The engine never updates or
// deletes events; failed writes are collected, not retried.
type Event struct {
	EventID     string    `json:"eventId"`
	ParentID    string    `json:"parentId"`
	ParentType  string    `json:"parentType"`
	User        string    `json:"user"`
	Description string    `json:"description"`
	Comment     string    `json:"comment,omitempty"`
	TypeValue   string    `json:"typeValue"`
	CreatedAt   time.Time `json:"createdAt"`
}
