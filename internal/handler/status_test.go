package handler

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/garagex/garagex/internal/repository"
)

func buildStatusHandler(t *testing.T) (*StatusHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	h := NewStatusHandler(
		repository.NewJobRepo(db),
		repository.NewStatusHistoryRepo(db),
		nil,
	)
	return h, mock
}

func TestUpdateStatusAppendsLedgerEntry(t *testing.T) {
	h, mock := buildStatusHandler(t)

	now := time.Now().UTC()
	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").
		WithArgs(testJobID).
		WillReturnRows(sqlmock.NewRows([]string{"status", "job_identifier", "garage_id"}).
			AddRow("CREATED", "JOB-abc", "garage-1"))
	mock.ExpectExec("UPDATE jobs").
		WithArgs("IN_PROGRESS", "started teardown", testJobID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO job_status_history").
		WithArgs(sqlmock.AnyArg(), testJobID, "CREATED", "IN_PROGRESS", "mechanic assigned").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("FROM job_status_history").
		WithArgs(testJobID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "job_id", "from_status", "to_status", "note", "created_at"}).
			AddRow("hist-1", testJobID, nil, "CREATED", "Job created", now.Add(-time.Hour)).
			AddRow("hist-2", testJobID, "CREATED", "IN_PROGRESS", "mechanic assigned", now))
	mock.ExpectCommit()

	body := `{"to_status":"IN_PROGRESS","note":"mechanic assigned","remarks":"started teardown"}`
	c, rec := jsonCtx(t, http.MethodPost, "/api/garage/jobs/"+testJobID+"/status", body)
	c.SetParamNames("job_id")
	c.SetParamValues(testJobID)

	require.NoError(t, h.UpdateStatus(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		StatusHistory []struct {
			FromStatus *string `json:"from_status"`
			ToStatus   string  `json:"to_status"`
		} `json:"status_history"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.StatusHistory, 2)

	// The chain holds: each from_status equals the previous to_status.
	assert.Nil(t, resp.StatusHistory[0].FromStatus)
	require.NotNil(t, resp.StatusHistory[1].FromStatus)
	assert.Equal(t, resp.StatusHistory[0].ToStatus, *resp.StatusHistory[1].FromStatus)
	assert.Equal(t, "IN_PROGRESS", resp.StatusHistory[1].ToStatus)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatusUnknownJob(t *testing.T) {
	h, mock := buildStatusHandler(t)

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").
		WithArgs(testJobID).
		WillReturnRows(sqlmock.NewRows([]string{"status", "job_identifier", "garage_id"}))
	mock.ExpectRollback()

	c, rec := jsonCtx(t, http.MethodPost, "/api/garage/jobs/"+testJobID+"/status", `{"to_status":"DONE"}`)
	c.SetParamNames("job_id")
	c.SetParamValues(testJobID)

	require.NoError(t, h.UpdateStatus(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatusRequiresToStatus(t *testing.T) {
	h, _ := buildStatusHandler(t)

	c, rec := jsonCtx(t, http.MethodPost, "/api/garage/jobs/"+testJobID+"/status", `{"note":"no target"}`)
	c.SetParamNames("job_id")
	c.SetParamValues(testJobID)

	require.NoError(t, h.UpdateStatus(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
