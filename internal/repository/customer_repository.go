package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/garagex/garagex/internal/model"
)

// CustomerRepo provides access to the customers table.  Customers are
// keyed naturally by phone number; the only write path is the upsert-merge
// used during job creation.
type CustomerRepo struct {
	db *sql.DB
}

// NewCustomerRepo returns a new CustomerRepo bound to the given database.
func NewCustomerRepo(db *sql.DB) *CustomerRepo { return &CustomerRepo{db: db} }

// UpsertTx resolves a customer by phone inside the caller's transaction.
// If the phone is new a row is inserted; on conflict only the name is
// merged, and a null name never overwrites a stored one.  The merge is a
// single atomic statement so concurrent creations for the same phone
// cannot race a check-then-write.  The returned customer reflects the
// state after the merge; Name is the merged value, not the request input.
func (r *CustomerRepo) UpsertTx(ctx context.Context, tx *sql.Tx, phone string, name *string) (model.Customer, error) {
	const ins = `INSERT INTO customers (id, phone, name)
	             VALUES (?, ?, ?)
	             ON DUPLICATE KEY UPDATE
	                 name = COALESCE(VALUES(name), name),
	                 updated_at = UTC_TIMESTAMP()`
	if _, err := tx.ExecContext(ctx, ins, uuid.NewString(), phone, name); err != nil {
		return model.Customer{}, err
	}
	// Read back the surviving row: on conflict the generated id above was
	// discarded and the existing id must be returned.
	const sel = `SELECT id, name FROM customers WHERE phone = ?`
	cust := model.Customer{Phone: phone}
	var storedName sql.NullString
	if err := tx.QueryRowContext(ctx, sel, phone).Scan(&cust.ID, &storedName); err != nil {
		return model.Customer{}, err
	}
	if storedName.Valid {
		n := storedName.String
		cust.Name = &n
	}
	return cust, nil
}
