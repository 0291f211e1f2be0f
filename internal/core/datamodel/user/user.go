package user

import "time"

const (
	StatusPending = "pending"
	StatusActive  = "active"
)

type User struct {
	ID           string     `gorm:"primaryKey"`
	Email        string     `gorm:"column:email;uniqueIndex;not null"`
	FullName     string     `gorm:"column:full_name;not null"`
	PasswordHash string     `gorm:"column:password_hash;not null"`
	Status       string     `gorm:"column:status;not null;default:pending"`
	LastLogin    *time.Time `gorm:"column:last_login"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
}

type Role struct {
	ID          int64     `gorm:"primaryKey"`
	Name        string    `gorm:"column:name;uniqueIndex;not null"`
	Description string    `gorm:"column:description"`
	CreatedAt   time.Time `gorm:"column:created_at"`
}

type Application struct {
	ID        int64     `gorm:"primaryKey"`
	Name      string    `gorm:"column:name;uniqueIndex;not null"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

// Permission holds one row per (role, application) pair; the unique index
// keeps a role from carrying conflicting grants for the same application.
type Permission struct {
	ID            int64 `gorm:"primaryKey"`
	RoleID        int64 `gorm:"column:role_id;not null;uniqueIndex:idx_role_application"`
	ApplicationID int64 `gorm:"column:application_id;not null;uniqueIndex:idx_role_application"`
	CanView       bool  `gorm:"column:can_view;not null;default:false"`
	CanCreate     bool  `gorm:"column:can_create;not null;default:false"`
	CanEdit       bool  `gorm:"column:can_edit;not null;default:false"`
	CanDelete     bool  `gorm:"column:can_delete;not null;default:false"`
}

type UserRole struct {
	ID     int64  `gorm:"primaryKey"`
	UserID string `gorm:"column:user_id;not null;uniqueIndex:idx_user_role"`
	RoleID int64  `gorm:"column:role_id;not null;uniqueIndex:idx_user_role"`
}

func (UserRole) TableName() string {
	return "user_roles"
}
