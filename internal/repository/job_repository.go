package repository

import (
	"context"
	"database/sql"

	"github.com/garagex/garagex/internal/model"
)

// JobRepo provides access to the jobs table.  The job row itself is only
// written in two places: the creation insert and the status/remarks update
// performed by a transition.  Everything else about a job lives in the
// job_parts and job_status_history tables.
type JobRepo struct {
	db *sql.DB
}

// NewJobRepo returns a new JobRepo bound to the given database.
func NewJobRepo(db *sql.DB) *JobRepo { return &JobRepo{db: db} }

// DB exposes the underlying handle so handlers can begin transactions that
// span several repositories.
func (r *JobRepo) DB() *sql.DB { return r.db }

// CreateTx inserts a job row within the provided transaction.  The caller
// supplies the generated id and job identifier; the status must be the
// fixed initial status, and the matching ledger entry is appended
// separately by the caller inside the same transaction.
func (r *JobRepo) CreateTx(ctx context.Context, tx *sql.Tx, job model.Job) error {
	const q = `INSERT INTO jobs (
	               id, job_identifier, garage_id, vehicle_id, customer_phone, customer_name,
	               complaint, estimated_delivery_date, estimated_time, status
	           ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := tx.ExecContext(ctx, q,
		job.ID, job.JobIdentifier, job.GarageID, job.VehicleID, job.CustomerPhone, job.CustomerName,
		job.Complaint, job.EstimatedDeliveryDate, job.EstimatedTime, job.Status,
	)
	return err
}

// LockedJob is the slice of the job row read under the transition lock.
// JobIdentifier and GarageID ride along for the post-commit event so the
// transition needs no second lookup.
type LockedJob struct {
	Status        string
	JobIdentifier string
	GarageID      string
}

// LockForUpdateTx reads a job with the row locked for the remainder of
// the transaction.  The lock serializes concurrent transitions on the
// same job: the second caller blocks here until the first commits, so the
// from_status it reads already includes the first transition.
// Soft-deleted jobs resolve to ErrJobNotFound.
func (r *JobRepo) LockForUpdateTx(ctx context.Context, tx *sql.Tx, jobID string) (LockedJob, error) {
	const q = `SELECT status, job_identifier, garage_id FROM jobs
	           WHERE id = ? AND deleted_at IS NULL FOR UPDATE`
	var lj LockedJob
	err := tx.QueryRowContext(ctx, q, jobID).Scan(&lj.Status, &lj.JobIdentifier, &lj.GarageID)
	if err == sql.ErrNoRows {
		return LockedJob{}, ErrJobNotFound
	}
	if err != nil {
		return LockedJob{}, err
	}
	return lj, nil
}

// UpdateStatusTx moves the job's denormalized status column and merges
// remarks.  Remarks are COALESCEd so a transition without remarks keeps
// the previous value.  Callers must hold the row lock taken by
// LockForUpdateTx.
func (r *JobRepo) UpdateStatusTx(ctx context.Context, tx *sql.Tx, jobID, toStatus string, remarks *string) error {
	const q = `UPDATE jobs
	           SET status = ?, remarks = COALESCE(?, remarks), updated_at = UTC_TIMESTAMP()
	           WHERE id = ? AND deleted_at IS NULL`
	_, err := tx.ExecContext(ctx, q, toStatus, remarks, jobID)
	return err
}

// JobListItem is the slim row returned for the garage dashboard listing.
type JobListItem struct {
	JobID                 string  `json:"job_id"`
	VehicleNumber         *string `json:"vehicle_number"`
	OwnerName             *string `json:"owner_name"`
	EstimatedDeliveryDate *string `json:"estimated_delivery_date"`
	EstimatedTime         *string `json:"estimated_time"`
	Status                string  `json:"status"`
}

// ListForGarageUser returns all live jobs of the garage the given user
// belongs to, newest first.  Vehicle and customer columns are joined in so
// the dashboard needs no follow-up queries.  The user filter matches
// GarageIDTx: a deactivated or soft-deleted user resolves to no garage and
// gets an empty list.
func (r *JobRepo) ListForGarageUser(ctx context.Context, userID string) ([]JobListItem, error) {
	const q = `SELECT j.id, v.vehicle_number, c.name, j.estimated_delivery_date, j.estimated_time, j.status
	           FROM jobs j
	           LEFT JOIN vehicles v ON v.id = j.vehicle_id
	           LEFT JOIN customers c ON c.id = v.customer_id
	           WHERE j.garage_id = (
	               SELECT gu.garage_id FROM garage_users gu
	               WHERE gu.id = ? AND gu.is_active = 1 AND gu.deleted_at IS NULL
	           )
	             AND j.deleted_at IS NULL
	           ORDER BY j.created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := make([]JobListItem, 0)
	for rows.Next() {
		var it JobListItem
		var vehicleNumber, ownerName, estDate, estTime sql.NullString
		if err := rows.Scan(&it.JobID, &vehicleNumber, &ownerName, &estDate, &estTime, &it.Status); err != nil {
			return nil, err
		}
		it.VehicleNumber = nullableString(vehicleNumber)
		it.OwnerName = nullableString(ownerName)
		it.EstimatedDeliveryDate = nullableString(estDate)
		it.EstimatedTime = nullableString(estTime)
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// JobHeader is the job-level slice of the details view; parts and history
// are loaded by their own repositories.
type JobHeader struct {
	JobID         string  `json:"job_id"`
	Status        string  `json:"status"`
	Remarks       *string `json:"remarks"`
	VehicleNumber *string `json:"vehicle_number"`
	VehicleMake   *string `json:"vehicle_make"`
	VehicleModel  *string `json:"vehicle_model"`
	OwnerName     *string `json:"owner_name"`
}

// GetHeader loads job, vehicle and customer display fields for a live job.
// Absent or soft-deleted jobs resolve to ErrJobNotFound.
func (r *JobRepo) GetHeader(ctx context.Context, jobID string) (JobHeader, error) {
	const q = `SELECT j.id, j.status, j.remarks, v.vehicle_number, v.make, v.model, c.name
	           FROM jobs j
	           LEFT JOIN vehicles v ON v.id = j.vehicle_id
	           LEFT JOIN customers c ON c.id = v.customer_id
	           WHERE j.id = ? AND j.deleted_at IS NULL`
	var h JobHeader
	var remarks, vehicleNumber, vmake, vmodel, ownerName sql.NullString
	err := r.db.QueryRowContext(ctx, q, jobID).Scan(
		&h.JobID, &h.Status, &remarks, &vehicleNumber, &vmake, &vmodel, &ownerName,
	)
	if err == sql.ErrNoRows {
		return JobHeader{}, ErrJobNotFound
	}
	if err != nil {
		return JobHeader{}, err
	}
	h.Remarks = nullableString(remarks)
	h.VehicleNumber = nullableString(vehicleNumber)
	h.VehicleMake = nullableString(vmake)
	h.VehicleModel = nullableString(vmodel)
	h.OwnerName = nullableString(ownerName)
	return h, nil
}
