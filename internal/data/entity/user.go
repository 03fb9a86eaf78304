package entity

import "time"

type UserRole string

const (
	RoleAdmin      UserRole = "admin"
	RoleSuperAdmin UserRole = "superadmin"
)

type User struct {
	Base
	Name         string     `db:"name"`
	Email        string     `db:"email"`
	PasswordHash string     `db:"password"`
	Role         UserRole   `db:"role"`
	GoogleID     *string    `db:"google_id"`
	LastLogin    *time.Time `db:"last_login"`
}
