// Package queue publishes and consumes best-effort audit events over
// RabbitMQ. A broker outage never affects request handling: publish
// failures are logged and dropped.
package queue

import "time"

// Audit event types emitted by the handlers.
const (
	EventUserSignedUp  = "user.signed_up"
	EventUserLoggedIn  = "user.logged_in"
	EventUserLoggedOut = "user.logged_out"
	EventTaskCreated   = "task.created"
	EventTaskDeleted   = "task.deleted"
)

// auditQueueName is the durable queue audit events flow through.
const auditQueueName = "audit.events"

// AuditEvent records who did what and when. TaskID is zero for
// auth-related events.
type AuditEvent struct {
	Type   string    `json:"type"`
	UserID uint64    `json:"userId"`
	Email  string    `json:"email,omitempty"`
	TaskID uint64    `json:"taskId,omitempty"`
	At     time.Time `json:"at"`
}
