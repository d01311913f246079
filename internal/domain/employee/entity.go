package employee

import "time"

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleEmployee Role = "employee"
	RoleTrainer  Role = "trainer"
)

type Employee struct {
	ID             string
	OrganizationID string
	FullName       string
	Department     *string
	Role           Role
	Active         bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
