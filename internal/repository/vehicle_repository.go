package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/garagex/garagex/internal/model"
)

// VehicleRepo provides access to the vehicles table.  Vehicles are keyed
// naturally by (customer_id, vehicle_number) and share the customers'
// upsert-merge discipline for make and model.
type VehicleRepo struct {
	db *sql.DB
}

// NewVehicleRepo returns a new VehicleRepo bound to the given database.
func NewVehicleRepo(db *sql.DB) *VehicleRepo { return &VehicleRepo{db: db} }

// UpsertTx resolves a vehicle by (customer_id, vehicle_number) inside the
// caller's transaction.  Make and model merge like the customer name:
// non-null input replaces the stored value, null input leaves it intact.
// Running inside the job-creation transaction keeps a failed job from
// leaving an orphaned vehicle behind.
func (r *VehicleRepo) UpsertTx(ctx context.Context, tx *sql.Tx, customerID, vehicleNumber string, make, vmodel *string) (model.Vehicle, error) {
	const ins = `INSERT INTO vehicles (id, customer_id, vehicle_number, make, model)
	             VALUES (?, ?, ?, ?, ?)
	             ON DUPLICATE KEY UPDATE
	                 make  = COALESCE(VALUES(make), make),
	                 model = COALESCE(VALUES(model), model),
	                 updated_at = UTC_TIMESTAMP()`
	if _, err := tx.ExecContext(ctx, ins, uuid.NewString(), customerID, vehicleNumber, make, vmodel); err != nil {
		return model.Vehicle{}, err
	}
	const sel = `SELECT id, vehicle_number FROM vehicles WHERE customer_id = ? AND vehicle_number = ?`
	veh := model.Vehicle{CustomerID: customerID}
	if err := tx.QueryRowContext(ctx, sel, customerID, vehicleNumber).Scan(&veh.ID, &veh.VehicleNumber); err != nil {
		return model.Vehicle{}, err
	}
	return veh, nil
}
