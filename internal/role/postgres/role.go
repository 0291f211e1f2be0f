package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/frahmantamala/workforce-portal/internal"
	userDatamodel "github.com/frahmantamala/workforce-portal/internal/core/datamodel/user"
	"github.com/frahmantamala/workforce-portal/internal/role"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) List() ([]*userDatamodel.Role, error) {
	var roles []*userDatamodel.Role
	err := r.db.Order("name").Find(&roles).Error
	return roles, err
}

func (r *Repository) GetByID(id int64) (*userDatamodel.Role, error) {
	var record userDatamodel.Role
	err := r.db.Where("id = ?", id).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrRoleNotFound
		}
		return nil, err
	}
	return &record, nil
}

func (r *Repository) NameExists(name string, excludeID int64) (bool, error) {
	var count int64
	q := r.db.Model(&userDatamodel.Role{}).Where("name = ?", name)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	err := q.Count(&count).Error
	return count > 0, err
}

func (r *Repository) GetGrants(roleID int64) ([]role.PermissionGrant, error) {
	var grants []role.PermissionGrant
	err := r.db.Model(&userDatamodel.Permission{}).
		Select("permissions.application_id, applications.name AS application_name, permissions.can_view, permissions.can_create, permissions.can_edit, permissions.can_delete").
		Joins("JOIN applications ON applications.id = permissions.application_id").
		Where("permissions.role_id = ?", roleID).
		Order("applications.name").
		Scan(&grants).Error
	return grants, err
}

func (r *Repository) Create(record *userDatamodel.Role, perms []userDatamodel.Permission) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(record).Error; err != nil {
			return err
		}
		return insertPermissions(tx, record.ID, perms)
	})
}

// Update swaps the role's permission rows inside one transaction. If the
// insert fails after the delete, the rollback restores the prior set.
func (r *Repository) Update(record *userDatamodel.Role, perms []userDatamodel.Permission) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(record).Error; err != nil {
			return err
		}
		if err := tx.Where("role_id = ?", record.ID).Delete(&userDatamodel.Permission{}).Error; err != nil {
			return err
		}
		return insertPermissions(tx, record.ID, perms)
	})
}

func (r *Repository) Delete(id int64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("role_id = ?", id).Delete(&userDatamodel.Permission{}).Error; err != nil {
			return err
		}
		if err := tx.Where("role_id = ?", id).Delete(&userDatamodel.UserRole{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&userDatamodel.Role{}).Error
	})
}

func insertPermissions(tx *gorm.DB, roleID int64, perms []userDatamodel.Permission) error {
	for i := range perms {
		perms[i].ID = 0
		perms[i].RoleID = roleID
		if err := tx.Create(&perms[i]).Error; err != nil {
			return err
		}
	}
	return nil
}
