// Package queue defines message payloads exchanged over the message broker.
package queue

// StatusChangedQueue is the durable queue carrying job lifecycle events.
const StatusChangedQueue = "job.status.changed"

// JobStatusChangedEvent is published after a status transition commits
// (job creation publishes one with a null from_status, mirroring the
// ledger).  It carries enough for downstream consumers to notify or log
// without querying the primary database.  Publishing is best effort: a
// broker outage never fails the request that triggered the event.
type JobStatusChangedEvent struct {
	JobID         string  `json:"job_id"`
	JobIdentifier string  `json:"job_identifier"`
	GarageID      string  `json:"garage_id"`
	FromStatus    *string `json:"from_status"`
	ToStatus      string  `json:"to_status"`
	Note          *string `json:"note,omitempty"`
	OccurredAt    string  `json:"occurred_at"`
}
