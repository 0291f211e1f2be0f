package auth

import (
	"context"
	"crypto/rand"
	"log/slog"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/frahmantamala/workforce-portal/internal"
	authDatamodel "github.com/frahmantamala/workforce-portal/internal/core/datamodel/auth"
	userDatamodel "github.com/frahmantamala/workforce-portal/internal/core/datamodel/user"
	"github.com/frahmantamala/workforce-portal/internal/core/events"
)

// DefaultRoleName is attached to every user created without explicit roles.
const DefaultRoleName = "Employee"

type Service struct {
	repo       RepositoryAPI
	tokenGen   TokenGeneratorAPI
	bus        *events.EventBus
	logger     *slog.Logger
	otpExpiry  time.Duration
	bcryptCost int

	// overridable in tests
	generateCode func() (string, error)
	now          func() time.Time
}

func NewService(repo RepositoryAPI, tokenGen TokenGeneratorAPI, bus *events.EventBus, logger *slog.Logger, cfg internal.OTPConfig, bcryptCost int) *Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		repo:         repo,
		tokenGen:     tokenGen,
		bus:          bus,
		logger:       logger,
		otpExpiry:    time.Duration(cfg.ExpiryMinutes) * time.Minute,
		bcryptCost:   bcryptCost,
		generateCode: GenerateOTPCode,
		now:          time.Now,
	}
}

// RequestCode ensures a user row exists for the address, then issues a fresh
// one-time code. Re-requesting always overwrites the previous row, so stale
// codes cannot be stockpiled. The code leaves the process only by mail.
func (s *Service) RequestCode(dto SendOTPDTO) error {
	if err := dto.Validate(); err != nil {
		return err
	}

	email := NormalizeEmail(dto.Email)

	if _, err := s.resolveOrCreateByEmail(email, "", userDatamodel.StatusPending); err != nil {
		return err
	}

	code, err := s.generateCode()
	if err != nil {
		return internal.NewInternalError("failed to generate code", err)
	}

	expiresAt := s.now().Add(s.otpExpiry)
	otp := &authDatamodel.OneTimeCode{
		Email:     email,
		Code:      code,
		ExpiresAt: expiresAt,
	}
	if err := s.repo.UpsertOneTimeCode(otp); err != nil {
		return internal.NewInternalError("failed to store code", err)
	}

	// Synchronous publish: the mailer handler runs in-line so a delivery
	// failure surfaces on this request instead of vanishing.
	if err := s.bus.PublishSync(context.Background(), events.NewOTPGeneratedEvent(email, code, expiresAt)); err != nil {
		return internal.NewInternalError("failed to deliver code", err)
	}

	s.logger.Info("otp issued", "email", email, "expires_at", expiresAt)
	return nil
}

// VerifyCode redeems a one-time code. The conditional delete is the atomic
// commit point: of two concurrent attempts with the same valid code, exactly
// one observes a deleted row and wins; the other gets InvalidOrExpiredCode.
func (s *Service) VerifyCode(dto VerifyOTPDTO) (*User, string, error) {
	if err := dto.Validate(); err != nil {
		return nil, "", err
	}

	email := NormalizeEmail(dto.Email)
	loginAt := s.now()

	consumed, err := s.repo.ConsumeOneTimeCode(email, dto.OTP, loginAt)
	if err != nil {
		return nil, "", internal.NewInternalError("failed to consume code", err)
	}
	if !consumed {
		return nil, "", internal.ErrInvalidOrExpiredOTP
	}

	record, err := s.repo.GetUserByEmail(email)
	if err != nil {
		return nil, "", internal.NewInternalError("failed to load user", err)
	}

	if record.Status == userDatamodel.StatusPending {
		if err := s.repo.ActivateUser(record.ID, loginAt); err != nil {
			return nil, "", internal.NewInternalError("failed to activate user", err)
		}
		s.bus.Publish(context.Background(), events.NewUserActivatedEvent(record.ID, record.Email))
	} else {
		if err := s.repo.UpdateLastLogin(record.ID, loginAt); err != nil {
			return nil, "", internal.NewInternalError("failed to update last login", err)
		}
	}

	user, token, err := s.finishLogin(record, "otp")
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// SocialLogin upserts an identity from provider-relayed profile data. The
// provider token is not verified server-side; the upstream provider is
// trusted to have checked the address.
func (s *Service) SocialLogin(dto SocialLoginDTO) (*User, string, error) {
	if err := dto.Validate(); err != nil {
		return nil, "", err
	}

	email := NormalizeEmail(dto.UserData.Email)

	record, err := s.resolveOrCreateByEmail(email, dto.UserData.Name, userDatamodel.StatusActive)
	if err != nil {
		return nil, "", err
	}

	if err := s.repo.UpdateLastLogin(record.ID, s.now()); err != nil {
		return nil, "", internal.NewInternalError("failed to update last login", err)
	}

	user, token, err := s.finishLogin(record, dto.Provider)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *Service) ValidateAccessToken(tokenString string) (*Claims, error) {
	return s.tokenGen.ValidateToken(tokenString)
}

// GetUserWithRoles reloads the identity and its current role set from the
// store, so revoked roles take effect without waiting for token expiry.
func (s *Service) GetUserWithRoles(userID string) (*User, error) {
	record, err := s.repo.GetUserByID(userID)
	if err != nil {
		return nil, internal.ErrUserNotFound
	}

	roles, err := s.repo.GetUserRoles(record.ID)
	if err != nil {
		return nil, internal.NewInternalError("failed to load roles", err)
	}

	return &User{
		ID:       record.ID,
		Email:    record.Email,
		FullName: record.FullName,
		Roles:    roles,
	}, nil
}

// resolveOrCreateByEmail is the idempotent lookup-or-insert both login paths
// share. New users get a placeholder password hash (the field is never null
// and never used for OTP or social login) and the default role.
func (s *Service) resolveOrCreateByEmail(email, fullName, status string) (*userDatamodel.User, error) {
	record, err := s.repo.GetUserByEmail(email)
	if err == nil {
		return record, nil
	}
	if appErr, ok := internal.IsAppError(err); !ok || appErr.Type != internal.ErrorTypeNotFound {
		return nil, internal.NewInternalError("failed to look up user", err)
	}

	placeholder, err := bcrypt.GenerateFromPassword([]byte(uuid.NewString()), s.bcryptCost)
	if err != nil {
		return nil, internal.NewInternalError("failed to hash placeholder password", err)
	}

	if fullName == "" {
		fullName = email
	}

	record = &userDatamodel.User{
		ID:           uuid.NewString(),
		Email:        email,
		FullName:     fullName,
		PasswordHash: string(placeholder),
		Status:       status,
		CreatedAt:    s.now(),
	}
	if err := s.repo.CreateUser(record, []string{DefaultRoleName}); err != nil {
		return nil, internal.NewInternalError("failed to create user", err)
	}

	s.logger.Info("user created", "user_id", record.ID, "email", email, "status", status)
	return record, nil
}

func (s *Service) finishLogin(record *userDatamodel.User, method string) (*User, string, error) {
	roles, err := s.repo.GetUserRoles(record.ID)
	if err != nil {
		return nil, "", internal.NewInternalError("failed to load roles", err)
	}

	user := &User{
		ID:       record.ID,
		Email:    record.Email,
		FullName: record.FullName,
		Roles:    roles,
	}

	token, err := s.tokenGen.GenerateToken(user)
	if err != nil {
		return nil, "", internal.NewInternalError("failed to sign token", err)
	}

	s.bus.Publish(context.Background(), events.NewUserLoggedInEvent(user.ID, user.Email, method))
	s.logger.Info("login succeeded", "user_id", user.ID, "method", method)

	return user, token, nil
}

// NormalizeEmail lowercases the address: email is a case-insensitive
// identity key everywhere in the credential store.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// GenerateOTPCode draws a uniform random 6-digit numeric code.
func GenerateOTPCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return big.NewInt(n.Int64() + 100000).String(), nil
}
