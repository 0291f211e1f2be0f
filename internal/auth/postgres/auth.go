package postgres

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/frahmantamala/workforce-portal/internal"
	authDatamodel "github.com/frahmantamala/workforce-portal/internal/core/datamodel/auth"
	userDatamodel "github.com/frahmantamala/workforce-portal/internal/core/datamodel/user"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db: db,
	}
}

func (r *Repository) GetUserByEmail(email string) (*userDatamodel.User, error) {
	var u userDatamodel.User
	err := r.db.Where("lower(email) = lower(?)", email).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *Repository) GetUserByID(userID string) (*userDatamodel.User, error) {
	var u userDatamodel.User
	err := r.db.Where("id = ?", userID).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// CreateUser inserts the user and its role links in one transaction, so no
// user ever exists without a role.
func (r *Repository) CreateUser(u *userDatamodel.User, roleNames []string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(u).Error; err != nil {
			return err
		}

		for _, name := range roleNames {
			var role userDatamodel.Role
			if err := tx.Where("name = ?", name).First(&role).Error; err != nil {
				return err
			}
			link := userDatamodel.UserRole{UserID: u.ID, RoleID: role.ID}
			if err := tx.Create(&link).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// UpsertOneTimeCode overwrites any previous row for the email. The primary
// key on email is what enforces "at most one live code per address".
func (r *Repository) UpsertOneTimeCode(code *authDatamodel.OneTimeCode) error {
	code.CreatedAt = time.Now()
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoUpdates: clause.AssignmentColumns([]string{"code", "expires_at", "created_at"}),
	}).Create(code).Error
}

// ConsumeOneTimeCode is the single-use commit point: a conditional delete
// matching email, code and liveness. Two racing verifications can only have
// one winner; the loser sees zero rows affected.
func (r *Repository) ConsumeOneTimeCode(email, code string, now time.Time) (bool, error) {
	res := r.db.
		Where("lower(email) = lower(?) AND code = ? AND expires_at > ?", email, code, now).
		Delete(&authDatamodel.OneTimeCode{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// ActivateUser performs the one-time pending→active transition and stamps
// the login in the same update.
func (r *Repository) ActivateUser(userID string, loginAt time.Time) error {
	return r.db.Model(&userDatamodel.User{}).
		Where("id = ? AND status = ?", userID, userDatamodel.StatusPending).
		Updates(map[string]interface{}{
			"status":     userDatamodel.StatusActive,
			"last_login": loginAt,
		}).Error
}

func (r *Repository) UpdateLastLogin(userID string, loginAt time.Time) error {
	return r.db.Model(&userDatamodel.User{}).
		Where("id = ?", userID).
		Update("last_login", loginAt).Error
}

func (r *Repository) GetUserRoles(userID string) ([]string, error) {
	var roles []string
	err := r.db.Model(&userDatamodel.Role{}).
		Joins("JOIN user_roles ON user_roles.role_id = roles.id").
		Where("user_roles.user_id = ?", userID).
		Order("roles.name").
		Pluck("roles.name", &roles).Error
	if err != nil {
		return nil, err
	}
	return roles, nil
}

// GetUserPermissionRows returns the permission rows reachable from the user's
// roles for one application. No rows means no access; callers fold the rest.
func (r *Repository) GetUserPermissionRows(userID, applicationName string) ([]userDatamodel.Permission, error) {
	var rows []userDatamodel.Permission
	err := r.db.Model(&userDatamodel.Permission{}).
		Joins("JOIN user_roles ON user_roles.role_id = permissions.role_id").
		Joins("JOIN applications ON applications.id = permissions.application_id").
		Where("user_roles.user_id = ? AND applications.name = ?", userID, applicationName).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
