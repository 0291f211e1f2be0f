package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeOTPGenerated  = "otp.generated"
	EventTypeUserActivated = "user.activated"
	EventTypeUserLoggedIn  = "user.logged_in"
)

type OTPGeneratedEvent struct {
	BaseEvent
	Email     string    `json:"email"`
	Code      string    `json:"code"`
	ExpiresAt time.Time `json:"expires_at"`
}

func NewOTPGeneratedEvent(email, code string, expiresAt time.Time) *OTPGeneratedEvent {
	return &OTPGeneratedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeOTPGenerated,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"email":      email,
				"expires_at": expiresAt,
			},
		},
		Email:     email,
		Code:      code,
		ExpiresAt: expiresAt,
	}
}

type UserActivatedEvent struct {
	BaseEvent
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

func NewUserActivatedEvent(userID, email string) *UserActivatedEvent {
	return &UserActivatedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeUserActivated,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"user_id": userID,
				"email":   email,
			},
		},
		UserID: userID,
		Email:  email,
	}
}

type UserLoggedInEvent struct {
	BaseEvent
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Method string `json:"method"`
}

func NewUserLoggedInEvent(userID, email, method string) *UserLoggedInEvent {
	return &UserLoggedInEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeUserLoggedIn,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"user_id": userID,
				"email":   email,
				"method":  method,
			},
		},
		UserID: userID,
		Email:  email,
		Method: method,
	}
}
