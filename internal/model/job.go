package model

import "time"

// Job is a repair job owned by exactly one garage.  Its Status column is
// denormalized state: the authoritative record is the job_status_history
// ledger, and Status always equals the to_status of the most recent ledger
// entry.  Jobs are soft-deleted via DeletedAt and excluded from all reads.
type Job struct {
	ID                    string     // jobs.id
	JobIdentifier         string     // jobs.job_identifier
	GarageID              string     // jobs.garage_id
	VehicleID             string     // jobs.vehicle_id
	CustomerPhone         string     // jobs.customer_phone
	CustomerName          *string    // jobs.customer_name (nullable)
	Complaint             *string    // jobs.complaint (nullable)
	EstimatedDeliveryDate *string    // jobs.estimated_delivery_date (nullable)
	EstimatedTime         *string    // jobs.estimated_time (nullable)
	Status                string     // jobs.status
	Remarks               *string    // jobs.remarks (nullable)
	DeletedAt             *time.Time // jobs.deleted_at (nullable)
	CreatedAt             time.Time  // jobs.created_at
	UpdatedAt             time.Time  // jobs.updated_at
}

// StatusCreated is the fixed initial status written by job creation and
// recorded as the first ledger entry's to_status.
const StatusCreated = "CREATED"

// JobPart is a billable part charged against a job.  Parts are mutated
// independently of the job row; every update or delete must match both the
// part id and the job id so a part can never be touched through another
// job's context.
type JobPart struct {
	ID         string    // job_parts.id
	JobID      string    // job_parts.job_id
	Name       string    // job_parts.name
	Quantity   int32     // job_parts.quantity (defaults to 1)
	UnitPrice  float64   // job_parts.unit_price
	TaxPercent *float64  // job_parts.tax_percent (nullable)
	CreatedAt  time.Time // job_parts.created_at
}

// JobStatusHistory is one immutable entry in the append-only status
// ledger.  FromStatus is null only for the creation entry; for every later
// entry it equals the previous entry's ToStatus.  Entries are ordered by
// CreatedAt ascending.
type JobStatusHistory struct {
	ID         string    // job_status_history.id
	JobID      string    // job_status_history.job_id
	FromStatus *string   // job_status_history.from_status (null on creation)
	ToStatus   string    // job_status_history.to_status
	Note       *string   // job_status_history.note (nullable)
	CreatedAt  time.Time // job_status_history.created_at
}
