package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGarageIDExcludesInactiveUsers(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT garage_id FROM garage_users\s+WHERE id = \? AND is_active = 1 AND deleted_at IS NULL`).
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"garage_id"}))
	mock.ExpectRollback()

	tx, err := db.Begin()
	require.NoError(t, err)
	defer tx.Rollback()

	repo := NewGarageUserRepo(db)
	_, err = repo.GarageIDTx(context.Background(), tx, "user-1")
	assert.ErrorIs(t, err, ErrGarageUserNotFound)
}

func TestCreateGarageUserDuplicateUsername(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO garage_users").
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})
	mock.ExpectRollback()

	tx, err := db.Begin()
	require.NoError(t, err)
	defer tx.Rollback()

	repo := NewGarageUserRepo(db)
	_, err = repo.CreateTx(context.Background(), tx, "garage-1", "admin-1", "hash", "GARAGE_ADMIN")
	assert.ErrorIs(t, err, ErrConflict)
}
