package user

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/frahmantamala/workforce-portal/internal"
	"github.com/frahmantamala/workforce-portal/internal/auth"
	userDatamodel "github.com/frahmantamala/workforce-portal/internal/core/datamodel/user"
)

type RepositoryAPI interface {
	List() ([]*userDatamodel.User, error)
	GetByID(id string) (*userDatamodel.User, error)
	EmailExists(email string) (bool, error)
	Create(u *userDatamodel.User, roleIDs []int64) error
	Update(u *userDatamodel.User, roleIDs []int64) error
	Delete(id string) error
	GetRoles(userID string) ([]string, error)
}

type Service struct {
	repo       RepositoryAPI
	logger     *slog.Logger
	bcryptCost int
}

func NewService(repo RepositoryAPI, logger *slog.Logger, bcryptCost int) *Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		repo:       repo,
		logger:     logger,
		bcryptCost: bcryptCost,
	}
}

func (s *Service) List() ([]*User, error) {
	records, err := s.repo.List()
	if err != nil {
		return nil, internal.NewInternalError("failed to list users", err)
	}

	users := make([]*User, 0, len(records))
	for _, record := range records {
		roles, err := s.repo.GetRoles(record.ID)
		if err != nil {
			return nil, internal.NewInternalError("failed to load roles", err)
		}
		users = append(users, FromDataModelWithRoles(record, roles))
	}
	return users, nil
}

func (s *Service) GetByID(id string) (*User, error) {
	record, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	roles, err := s.repo.GetRoles(record.ID)
	if err != nil {
		return nil, internal.NewInternalError("failed to load roles", err)
	}
	return FromDataModelWithRoles(record, roles), nil
}

// Create provisions an account from the admin surface. Accounts made here
// are active immediately; when no roles are given the default role applies.
func (s *Service) Create(dto CreateUserDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	email := auth.NormalizeEmail(dto.Email)

	taken, err := s.repo.EmailExists(email)
	if err != nil {
		return nil, internal.NewInternalError("failed to check email", err)
	}
	if taken {
		return nil, internal.ErrEmailTaken
	}

	password := uuid.NewString()
	if dto.Password != nil && *dto.Password != "" {
		password = *dto.Password
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, internal.NewInternalError("failed to hash password", err)
	}

	record := &userDatamodel.User{
		ID:           uuid.NewString(),
		Email:        email,
		FullName:     dto.FullName,
		PasswordHash: string(hash),
		Status:       userDatamodel.StatusActive,
		CreatedAt:    time.Now(),
	}

	if err := s.repo.Create(record, dto.RoleIDs); err != nil {
		return nil, internal.NewInternalError("failed to create user", err)
	}

	s.logger.Info("user created by admin", "user_id", record.ID, "email", email)
	return s.GetByID(record.ID)
}

// Update edits profile fields and, when role ids are supplied, replaces the
// user's role links as one unit.
func (s *Service) Update(id string, dto UpdateUserDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	record, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	record.FullName = dto.FullName
	if dto.Status != "" {
		record.Status = dto.Status
	}

	if err := s.repo.Update(record, dto.RoleIDs); err != nil {
		return nil, internal.NewInternalError("failed to update user", err)
	}

	s.logger.Info("user updated", "user_id", id)
	return s.GetByID(id)
}

func (s *Service) Delete(id string) error {
	if _, err := s.repo.GetByID(id); err != nil {
		return err
	}

	if err := s.repo.Delete(id); err != nil {
		return internal.NewInternalError("failed to delete user", err)
	}

	s.logger.Info("user deleted", "user_id", id)
	return nil
}
