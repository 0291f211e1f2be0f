package auth

import (
	"log/slog"

	"github.com/frahmantamala/workforce-portal/internal"
	userDatamodel "github.com/frahmantamala/workforce-portal/internal/core/datamodel/user"
)

type Action string

const (
	ActionView   Action = "view"
	ActionCreate Action = "create"
	ActionEdit   Action = "edit"
	ActionDelete Action = "delete"
)

// EffectivePermission is the OR-combination of permission flags across all of
// a user's roles for one application.
type EffectivePermission struct {
	CanView   bool `json:"can_view"`
	CanCreate bool `json:"can_create"`
	CanEdit   bool `json:"can_edit"`
	CanDelete bool `json:"can_delete"`
}

func (p *EffectivePermission) Merge(row userDatamodel.Permission) {
	p.CanView = p.CanView || row.CanView
	p.CanCreate = p.CanCreate || row.CanCreate
	p.CanEdit = p.CanEdit || row.CanEdit
	p.CanDelete = p.CanDelete || row.CanDelete
}

func (p EffectivePermission) Allows(action Action) bool {
	switch action {
	case ActionView:
		return p.CanView
	case ActionCreate:
		return p.CanCreate
	case ActionEdit:
		return p.CanEdit
	case ActionDelete:
		return p.CanDelete
	}
	return false
}

// PermissionRepositoryAPI returns the permission rows granted to a user's
// roles for one named application.
type PermissionRepositoryAPI interface {
	GetUserPermissionRows(userID, applicationName string) ([]userDatamodel.Permission, error)
}

type PermissionChecker struct {
	repo   PermissionRepositoryAPI
	logger *slog.Logger
}

func NewPermissionChecker(repo PermissionRepositoryAPI, logger *slog.Logger) *PermissionChecker {
	return &PermissionChecker{
		repo:   repo,
		logger: logger,
	}
}

// GetEffectivePermission folds the user's permission rows for the application
// with logical OR per flag. No rows (unknown application included) yields
// all-false rather than an error, so denial never leaks existence.
func (c *PermissionChecker) GetEffectivePermission(userID, applicationName string) (EffectivePermission, error) {
	rows, err := c.repo.GetUserPermissionRows(userID, applicationName)
	if err != nil {
		return EffectivePermission{}, internal.NewInternalError("failed to load permissions", err)
	}

	var effective EffectivePermission
	for _, row := range rows {
		effective.Merge(row)
	}
	return effective, nil
}

func (c *PermissionChecker) Authorize(userID, applicationName string, action Action) (bool, error) {
	effective, err := c.GetEffectivePermission(userID, applicationName)
	if err != nil {
		return false, err
	}
	return effective.Allows(action), nil
}
