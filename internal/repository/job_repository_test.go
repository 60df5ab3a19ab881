package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLockForUpdateTakesRowLock(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT status, job_identifier, garage_id FROM jobs\s+WHERE id = \? AND deleted_at IS NULL FOR UPDATE`).
		WithArgs("job-1").
		WillReturnRows(sqlmock.NewRows([]string{"status", "job_identifier", "garage_id"}).
			AddRow("CREATED", "JOB-abc", "garage-1"))
	mock.ExpectRollback()

	tx, err := db.Begin()
	require.NoError(t, err)
	defer tx.Rollback()

	repo := NewJobRepo(db)
	locked, err := repo.LockForUpdateTx(context.Background(), tx, "job-1")
	require.NoError(t, err)
	assert.Equal(t, "CREATED", locked.Status)
	assert.Equal(t, "JOB-abc", locked.JobIdentifier)
	assert.Equal(t, "garage-1", locked.GarageID)
}

func TestLockForUpdateUnknownJob(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"status", "job_identifier", "garage_id"}))
	mock.ExpectRollback()

	tx, err := db.Begin()
	require.NoError(t, err)
	defer tx.Rollback()

	repo := NewJobRepo(db)
	_, err = repo.LockForUpdateTx(context.Background(), tx, "missing")
	assert.ErrorIs(t, err, ErrJobNotFound)
}

func TestUpdateStatusMergesRemarks(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE jobs\s+SET status = \?, remarks = COALESCE\(\?, remarks\)`).
		WithArgs("IN_PROGRESS", (*string)(nil), "job-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectRollback()

	tx, err := db.Begin()
	require.NoError(t, err)
	defer tx.Rollback()

	repo := NewJobRepo(db)
	require.NoError(t, repo.UpdateStatusTx(context.Background(), tx, "job-1", "IN_PROGRESS", nil))
	require.NoError(t, tx.Rollback())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListForGarageUserExcludesInactiveUsers(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	// The user subquery carries the same active/live filter as job
	// creation, so a deactivated user resolves to no garage and an empty
	// list rather than the garage's jobs.
	mock.ExpectQuery(`SELECT gu\.garage_id FROM garage_users gu\s+WHERE gu\.id = \? AND gu\.is_active = 1 AND gu\.deleted_at IS NULL`).
		WithArgs("deactivated-user").
		WillReturnRows(sqlmock.NewRows([]string{"id", "vehicle_number", "name", "estimated_delivery_date", "estimated_time", "status"}))

	repo := NewJobRepo(db)
	items, err := repo.ListForGarageUser(context.Background(), "deactivated-user")
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListForGarageUserNewestFirst(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`FROM jobs j\s+LEFT JOIN vehicles v`).
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "vehicle_number", "name", "estimated_delivery_date", "estimated_time", "status"}).
			AddRow("job-2", "KA02CD5678", "Ravi", nil, nil, "CREATED").
			AddRow("job-1", "KA01AB1234", nil, "2026-09-10", "2 days", "IN_PROGRESS"))

	repo := NewJobRepo(db)
	items, err := repo.ListForGarageUser(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "job-2", items[0].JobID)
	assert.Nil(t, items[1].OwnerName)
	require.NotNil(t, items[1].EstimatedDeliveryDate)
	assert.Equal(t, "2026-09-10", *items[1].EstimatedDeliveryDate)
}
