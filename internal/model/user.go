package model

// GarageUser is a staff account scoped to a single garage.  Every
// job-creation caller resolves to exactly one garage through this mapping;
// inactive or soft-deleted users cannot log in or create jobs.
type GarageUser struct {
	ID           string  // garage_users.id
	GarageID     string  // garage_users.garage_id
	Username     *string // garage_users.username (nullable)
	PasswordHash *string // garage_users.password_hash (nullable)
	DisplayName  *string // garage_users.display_name (nullable)
	Phone        *string // garage_users.phone (nullable)
	Email        *string // garage_users.email (nullable)
	Role         string  // garage_users.role
	IsActive     bool    // garage_users.is_active
}

// SystemUser is a platform administrator account with access to the
// garage directory.
type SystemUser struct {
	ID           string  // system_users.id
	Username     string  // system_users.username
	PasswordHash *string // system_users.password_hash (nullable)
	DisplayName  *string // system_users.display_name (nullable)
	Phone        *string // system_users.phone (nullable)
	Email        *string // system_users.email (nullable)
	IsActive     bool    // system_users.is_active
}

// Roles carried in the JWT role claim.
const (
	RoleAdmin       = "ADMIN"
	RoleGarageAdmin = "GARAGE_ADMIN"
	RoleMechanic    = "MECHANIC"
)
