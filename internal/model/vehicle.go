package model

import "time"

// Vehicle belongs to a customer and is unique per
// (customer_id, vehicle_number).  Make and model follow the same merge
// rule as the customer name: a non-null value replaces the stored one,
// null leaves it alone.
type Vehicle struct {
	ID            string    // vehicles.id
	CustomerID    string    // vehicles.customer_id
	VehicleNumber string    // vehicles.vehicle_number
	Make          *string   // vehicles.make (nullable)
	Model         *string   // vehicles.model (nullable)
	CreatedAt     time.Time // vehicles.created_at
	UpdatedAt     time.Time // vehicles.updated_at
}
