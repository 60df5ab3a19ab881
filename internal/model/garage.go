package model

import "time"

// Garage is a tenant in the directory managed by the admin surface.
// Metadata is an opaque JSON object stored and returned as-is; no schema
// is imposed on it.
type Garage struct {
	ID        string         `json:"id"`                 // garages.id
	Name      string         `json:"name"`               // garages.name
	Address   *string        `json:"address"`            // garages.address (nullable)
	Phone     *string        `json:"phone"`              // garages.phone (nullable)
	Email     *string        `json:"email"`              // garages.email (nullable)
	Metadata  map[string]any `json:"metadata,omitempty"` // garages.metadata (JSON, nullable)
	CreatedAt time.Time      `json:"created_at"`         // garages.created_at
	UpdatedAt *time.Time     `json:"updated_at"`         // garages.updated_at (nullable)
}
