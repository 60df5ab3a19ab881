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

func buildPartHandler(t *testing.T) (*PartHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	h := NewPartHandler(repository.NewPartRepo(db), repository.NewJobRepo(db))
	return h, mock
}

func TestAddPartsReturnsFullList(t *testing.T) {
	h, mock := buildPartHandler(t)

	now := time.Now().UTC()
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO job_parts").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectQuery("FROM job_parts").
		WithArgs(testJobID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "job_id", "name", "quantity", "unit_price", "tax_percent", "created_at"}).
			AddRow("p1", testJobID, "Brake pad", int32(1), 450.0, nil, now).
			AddRow("p2", testJobID, "Engine oil", int32(4), 120.5, 18.0, now))
	mock.ExpectCommit()

	body := `{"parts":[{"name":"Brake pad","unit_price":450},{"name":"Engine oil","quantity":4,"unit_price":120.5,"tax_percent":18}]}`
	c, rec := jsonCtx(t, http.MethodPost, "/api/garage/jobs/"+testJobID+"/parts", body)
	c.SetParamNames("job_id")
	c.SetParamValues(testJobID)

	require.NoError(t, h.AddParts(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp, 2)
	assert.Equal(t, "Brake pad", resp[0]["name"])
	assert.Equal(t, float64(1), resp[0]["quantity"])
	assert.Nil(t, resp[0]["tax_percent"])
	assert.Equal(t, float64(4), resp[1]["quantity"])

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddPartsRejectsEmptyAndUnnamed(t *testing.T) {
	h, _ := buildPartHandler(t)

	c, rec := jsonCtx(t, http.MethodPost, "/api/garage/jobs/"+testJobID+"/parts", `{"parts":[]}`)
	c.SetParamNames("job_id")
	c.SetParamValues(testJobID)
	require.NoError(t, h.AddParts(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	c, rec = jsonCtx(t, http.MethodPost, "/api/garage/jobs/"+testJobID+"/parts", `{"parts":[{"unit_price":10}]}`)
	c.SetParamNames("job_id")
	c.SetParamValues(testJobID)
	require.NoError(t, h.AddParts(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdatePartWrongJob(t *testing.T) {
	h, mock := buildPartHandler(t)

	mock.ExpectExec("UPDATE job_parts").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("FROM job_parts").
		WithArgs(testPartID, testJobID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "job_id", "name", "quantity", "unit_price", "tax_percent", "created_at"}))

	c, rec := jsonCtx(t, http.MethodPost, "/api/garage/jobs/"+testJobID+"/parts/"+testPartID, `{"quantity":2}`)
	c.SetParamNames("job_id", "part_id")
	c.SetParamValues(testJobID, testPartID)

	require.NoError(t, h.UpdatePart(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdatePartPatchesFields(t *testing.T) {
	h, mock := buildPartHandler(t)

	now := time.Now().UTC()
	qty := int32(3)
	mock.ExpectExec("UPDATE job_parts").
		WithArgs((*string)(nil), &qty, (*float64)(nil), (*float64)(nil), testPartID, testJobID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("FROM job_parts").
		WithArgs(testPartID, testJobID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "job_id", "name", "quantity", "unit_price", "tax_percent", "created_at"}).
			AddRow(testPartID, testJobID, "Brake pad", int32(3), 450.0, nil, now))

	c, rec := jsonCtx(t, http.MethodPost, "/api/garage/jobs/"+testJobID+"/parts/"+testPartID, `{"quantity":3}`)
	c.SetParamNames("job_id", "part_id")
	c.SetParamValues(testJobID, testPartID)

	require.NoError(t, h.UpdatePart(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, float64(3), resp["quantity"])
	assert.Equal(t, "Brake pad", resp["name"])
}

func TestRemovePartReturnsRemaining(t *testing.T) {
	h, mock := buildPartHandler(t)

	now := time.Now().UTC()
	mock.ExpectExec("DELETE FROM job_parts").
		WithArgs(testPartID, testJobID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("FROM job_parts").
		WithArgs(testJobID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "job_id", "name", "quantity", "unit_price", "tax_percent", "created_at"}).
			AddRow("p2", testJobID, "Engine oil", int32(4), 120.5, nil, now))

	c, rec := jsonCtx(t, http.MethodDelete, "/api/garage/jobs/"+testJobID+"/parts/"+testPartID, "")
	c.SetParamNames("job_id", "part_id")
	c.SetParamValues(testJobID, testPartID)

	require.NoError(t, h.RemovePart(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp, 1)
	assert.Equal(t, "Engine oil", resp[0]["name"])
}

func TestRemovePartUnknownPair(t *testing.T) {
	h, mock := buildPartHandler(t)

	mock.ExpectExec("DELETE FROM job_parts").
		WithArgs(testPartID, testJobID).
		WillReturnResult(sqlmock.NewResult(0, 0))

	c, rec := jsonCtx(t, http.MethodDelete, "/api/garage/jobs/"+testJobID+"/parts/"+testPartID, "")
	c.SetParamNames("job_id", "part_id")
	c.SetParamValues(testJobID, testPartID)

	require.NoError(t, h.RemovePart(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
