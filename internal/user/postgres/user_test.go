package postgres_test

import (
	"testing"

	userDatamodel "github.com/frahmantamala/workforce-portal/internal/core/datamodel/user"
	userPostgres "github.com/frahmantamala/workforce-portal/internal/user/postgres"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/frahmantamala/workforce-portal/internal"
)

func TestUserPostgres(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "User Postgres Suite")
}

var _ = Describe("User PostgreSQL Repository", func() {
	var (
		db         *gorm.DB
		repo       *userPostgres.Repository
		employeeID int64
		adminID    int64
	)

	newUser := func(id, email string) *userDatamodel.User {
		return &userDatamodel.User{
			ID:           id,
			Email:        email,
			FullName:     "Test User",
			PasswordHash: "hash",
			Status:       userDatamodel.StatusActive,
		}
	}

	BeforeEach(func() {
		var err error
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(
			&userDatamodel.User{},
			&userDatamodel.Role{},
			&userDatamodel.UserRole{},
		)
		Expect(err).NotTo(HaveOccurred())

		employee := userDatamodel.Role{Name: "Employee"}
		Expect(db.Create(&employee).Error).NotTo(HaveOccurred())
		employeeID = employee.ID

		admin := userDatamodel.Role{Name: "Administrator"}
		Expect(db.Create(&admin).Error).NotTo(HaveOccurred())
		adminID = admin.ID

		repo = userPostgres.NewRepository(db)
	})

	Describe("Create", func() {
		It("should link the default role when none are given", func() {
			Expect(repo.Create(newUser("u1", "user@example.com"), nil)).NotTo(HaveOccurred())

			roles, err := repo.GetRoles("u1")
			Expect(err).NotTo(HaveOccurred())
			Expect(roles).To(Equal([]string{"Employee"}))
		})

		It("should link the given roles", func() {
			Expect(repo.Create(newUser("u1", "user@example.com"), []int64{employeeID, adminID})).NotTo(HaveOccurred())

			roles, err := repo.GetRoles("u1")
			Expect(err).NotTo(HaveOccurred())
			Expect(roles).To(Equal([]string{"Administrator", "Employee"}))
		})

		It("should roll back the user when a role id is unknown", func() {
			err := repo.Create(newUser("u1", "user@example.com"), []int64{9999})
			Expect(err).To(MatchError(internal.ErrRoleNotFound))

			_, err = repo.GetByID("u1")
			Expect(err).To(MatchError(internal.ErrUserNotFound))
		})
	})

	Describe("EmailExists", func() {
		It("should match regardless of casing", func() {
			Expect(repo.Create(newUser("u1", "user@example.com"), nil)).NotTo(HaveOccurred())

			exists, err := repo.EmailExists("USER@Example.COM")
			Expect(err).NotTo(HaveOccurred())
			Expect(exists).To(BeTrue())

			exists, err = repo.EmailExists("other@example.com")
			Expect(err).NotTo(HaveOccurred())
			Expect(exists).To(BeFalse())
		})
	})

	Describe("Update", func() {
		BeforeEach(func() {
			Expect(repo.Create(newUser("u1", "user@example.com"), []int64{employeeID})).NotTo(HaveOccurred())
		})

		It("should replace the role link set when ids are given", func() {
			u, err := repo.GetByID("u1")
			Expect(err).NotTo(HaveOccurred())

			Expect(repo.Update(u, []int64{adminID})).NotTo(HaveOccurred())

			roles, err := repo.GetRoles("u1")
			Expect(err).NotTo(HaveOccurred())
			Expect(roles).To(Equal([]string{"Administrator"}))
		})

		It("should keep existing links when ids are nil", func() {
			u, err := repo.GetByID("u1")
			Expect(err).NotTo(HaveOccurred())
			u.FullName = "Renamed"

			Expect(repo.Update(u, nil)).NotTo(HaveOccurred())

			roles, err := repo.GetRoles("u1")
			Expect(err).NotTo(HaveOccurred())
			Expect(roles).To(Equal([]string{"Employee"}))

			stored, err := repo.GetByID("u1")
			Expect(err).NotTo(HaveOccurred())
			Expect(stored.FullName).To(Equal("Renamed"))
		})

		It("should keep the previous links when a new role id is unknown", func() {
			u, err := repo.GetByID("u1")
			Expect(err).NotTo(HaveOccurred())

			Expect(repo.Update(u, []int64{9999})).To(MatchError(internal.ErrRoleNotFound))

			roles, err := repo.GetRoles("u1")
			Expect(err).NotTo(HaveOccurred())
			Expect(roles).To(Equal([]string{"Employee"}))
		})
	})

	Describe("Delete", func() {
		It("should remove the user and its role links", func() {
			Expect(repo.Create(newUser("u1", "user@example.com"), []int64{employeeID})).NotTo(HaveOccurred())

			Expect(repo.Delete("u1")).NotTo(HaveOccurred())

			_, err := repo.GetByID("u1")
			Expect(err).To(MatchError(internal.ErrUserNotFound))

			var count int64
			Expect(db.Model(&userDatamodel.UserRole{}).Where("user_id = ?", "u1").Count(&count).Error).NotTo(HaveOccurred())
			Expect(count).To(BeZero())
		})
	})
})
