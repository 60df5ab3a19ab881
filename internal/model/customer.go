package model

import "time"

// Customer is a vehicle owner identified by phone number.  Customers are
// created implicitly the first time a job references their phone and are
// only ever updated through the upsert-merge in the repository layer: a
// name supplied later fills or replaces the stored one, a missing name
// never erases it.
type Customer struct {
	ID        string    // customers.id
	Phone     string    // customers.phone
	Name      *string   // customers.name (nullable)
	CreatedAt time.Time // customers.created_at
	UpdatedAt time.Time // customers.updated_at
}
