package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/frahmantamala/workforce-portal/internal"
	userDatamodel "github.com/frahmantamala/workforce-portal/internal/core/datamodel/user"
)

const defaultRoleName = "Employee"

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) List() ([]*userDatamodel.User, error) {
	var users []*userDatamodel.User
	err := r.db.Order("created_at").Find(&users).Error
	return users, err
}

func (r *Repository) GetByID(id string) (*userDatamodel.User, error) {
	var u userDatamodel.User
	err := r.db.Where("id = ?", id).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *Repository) EmailExists(email string) (bool, error) {
	var count int64
	err := r.db.Model(&userDatamodel.User{}).
		Where("lower(email) = lower(?)", email).
		Count(&count).Error
	return count > 0, err
}

// Create inserts the user plus role links in one transaction. With no
// explicit roles the default role is linked, so every user has at least one.
func (r *Repository) Create(u *userDatamodel.User, roleIDs []int64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(u).Error; err != nil {
			return err
		}
		return replaceRoleLinks(tx, u.ID, roleIDs)
	})
}

// Update saves profile fields and, when role ids are given, swaps the role
// link set in the same transaction.
func (r *Repository) Update(u *userDatamodel.User, roleIDs []int64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(u).Error; err != nil {
			return err
		}
		if roleIDs == nil {
			return nil
		}
		if err := tx.Where("user_id = ?", u.ID).Delete(&userDatamodel.UserRole{}).Error; err != nil {
			return err
		}
		return replaceRoleLinks(tx, u.ID, roleIDs)
	})
}

func (r *Repository) Delete(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&userDatamodel.UserRole{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&userDatamodel.User{}).Error
	})
}

func (r *Repository) GetRoles(userID string) ([]string, error) {
	var roles []string
	err := r.db.Model(&userDatamodel.Role{}).
		Joins("JOIN user_roles ON user_roles.role_id = roles.id").
		Where("user_roles.user_id = ?", userID).
		Order("roles.name").
		Pluck("roles.name", &roles).Error
	return roles, err
}

func replaceRoleLinks(tx *gorm.DB, userID string, roleIDs []int64) error {
	if len(roleIDs) == 0 {
		var role userDatamodel.Role
		if err := tx.Where("name = ?", defaultRoleName).First(&role).Error; err != nil {
			return err
		}
		roleIDs = []int64{role.ID}
	}

	for _, roleID := range roleIDs {
		var role userDatamodel.Role
		if err := tx.Where("id = ?", roleID).First(&role).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return internal.ErrRoleNotFound
			}
			return err
		}
		link := userDatamodel.UserRole{UserID: userID, RoleID: roleID}
		if err := tx.Create(&link).Error; err != nil {
			return err
		}
	}
	return nil
}
