package role

import (
	"log/slog"
	"time"

	"github.com/frahmantamala/workforce-portal/internal"
	userDatamodel "github.com/frahmantamala/workforce-portal/internal/core/datamodel/user"
)

type RepositoryAPI interface {
	List() ([]*userDatamodel.Role, error)
	GetByID(id int64) (*userDatamodel.Role, error)
	NameExists(name string, excludeID int64) (bool, error)
	GetGrants(roleID int64) ([]PermissionGrant, error)
	Create(record *userDatamodel.Role, perms []userDatamodel.Permission) error
	Update(record *userDatamodel.Role, perms []userDatamodel.Permission) error
	Delete(id int64) error
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (s *Service) List() ([]*Role, error) {
	records, err := s.repo.List()
	if err != nil {
		return nil, internal.NewInternalError("failed to list roles", err)
	}

	roles := make([]*Role, 0, len(records))
	for _, record := range records {
		grants, err := s.repo.GetGrants(record.ID)
		if err != nil {
			return nil, internal.NewInternalError("failed to load permissions", err)
		}
		roles = append(roles, FromDataModel(record, grants))
	}
	return roles, nil
}

func (s *Service) GetByID(id int64) (*Role, error) {
	record, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	grants, err := s.repo.GetGrants(id)
	if err != nil {
		return nil, internal.NewInternalError("failed to load permissions", err)
	}
	return FromDataModel(record, grants), nil
}

func (s *Service) Create(dto CreateRoleDTO) (*Role, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	taken, err := s.repo.NameExists(dto.Name, 0)
	if err != nil {
		return nil, internal.NewInternalError("failed to check role name", err)
	}
	if taken {
		return nil, internal.ErrRoleNameTaken
	}

	record := &userDatamodel.Role{
		Name:        dto.Name,
		Description: dto.Description,
		CreatedAt:   time.Now(),
	}

	if err := s.repo.Create(record, grantsToDataModels(0, dto.Permissions)); err != nil {
		return nil, internal.NewInternalError("failed to create role", err)
	}

	s.logger.Info("role created", "role_id", record.ID, "name", record.Name)
	return s.GetByID(record.ID)
}

// Update replaces the role's permission set wholesale. The repository wraps
// delete-and-insert in one transaction: a failure midway leaves the prior
// permission set intact.
func (s *Service) Update(id int64, dto UpdateRoleDTO) (*Role, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	record, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	taken, err := s.repo.NameExists(dto.Name, id)
	if err != nil {
		return nil, internal.NewInternalError("failed to check role name", err)
	}
	if taken {
		return nil, internal.ErrRoleNameTaken
	}

	record.Name = dto.Name
	record.Description = dto.Description

	if err := s.repo.Update(record, grantsToDataModels(id, dto.Permissions)); err != nil {
		return nil, internal.NewInternalError("failed to update role", err)
	}

	s.logger.Info("role updated", "role_id", id)
	return s.GetByID(id)
}

func (s *Service) Delete(id int64) error {
	if _, err := s.repo.GetByID(id); err != nil {
		return err
	}

	if err := s.repo.Delete(id); err != nil {
		return internal.NewInternalError("failed to delete role", err)
	}

	s.logger.Info("role deleted", "role_id", id)
	return nil
}

func grantsToDataModels(roleID int64, grants []PermissionGrantDTO) []userDatamodel.Permission {
	perms := make([]userDatamodel.Permission, 0, len(grants))
	for _, g := range grants {
		perms = append(perms, g.toGrant().ToDataModel(roleID))
	}
	return perms
}
