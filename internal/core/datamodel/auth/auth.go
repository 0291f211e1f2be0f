package auth

import "time"

// OneTimeCode is keyed by email: at most one live code per address. A new
// request overwrites the previous row, which invalidates any unredeemed code.
type OneTimeCode struct {
	Email     string    `gorm:"primaryKey;column:email"`
	Code      string    `gorm:"column:code;not null"`
	ExpiresAt time.Time `gorm:"column:expires_at;not null"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (OneTimeCode) TableName() string {
	return "one_time_codes"
}

// Live reports whether the code can still be redeemed at the given instant.
// Expired rows are treated as nonexistent even before cleanup.
func (c OneTimeCode) Live(now time.Time) bool {
	return c.ExpiresAt.After(now)
}
