package user

import (
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"

	"github.com/frahmantamala/workforce-portal/internal"
	userDatamodel "github.com/frahmantamala/workforce-portal/internal/core/datamodel/user"
)

func TestUser(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "User Module Suite")
}

type mockUserRepository struct {
	users map[string]*userDatamodel.User
	roles map[string][]int64

	roleNames map[int64]string
	deleted   []string
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{
		users:     make(map[string]*userDatamodel.User),
		roles:     make(map[string][]int64),
		roleNames: map[int64]string{1: "Employee", 2: "Administrator"},
	}
}

func (m *mockUserRepository) List() ([]*userDatamodel.User, error) {
	users := make([]*userDatamodel.User, 0, len(m.users))
	for _, u := range m.users {
		users = append(users, u)
	}
	return users, nil
}

func (m *mockUserRepository) GetByID(id string) (*userDatamodel.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, internal.ErrUserNotFound
}

func (m *mockUserRepository) EmailExists(email string) (bool, error) {
	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockUserRepository) Create(u *userDatamodel.User, roleIDs []int64) error {
	if len(roleIDs) == 0 {
		roleIDs = []int64{1}
	}
	m.users[u.ID] = u
	m.roles[u.ID] = roleIDs
	return nil
}

func (m *mockUserRepository) Update(u *userDatamodel.User, roleIDs []int64) error {
	m.users[u.ID] = u
	if roleIDs != nil {
		m.roles[u.ID] = roleIDs
	}
	return nil
}

func (m *mockUserRepository) Delete(id string) error {
	delete(m.users, id)
	delete(m.roles, id)
	m.deleted = append(m.deleted, id)
	return nil
}

func (m *mockUserRepository) GetRoles(userID string) ([]string, error) {
	names := make([]string, 0, len(m.roles[userID]))
	for _, id := range m.roles[userID] {
		names = append(names, m.roleNames[id])
	}
	return names, nil
}

var _ = ginkgo.Describe("UserService", func() {
	var (
		service  *Service
		mockRepo *mockUserRepository
	)

	ginkgo.BeforeEach(func() {
		mockRepo = newMockUserRepository()
		service = NewService(mockRepo, slog.New(slog.NewTextHandler(io.Discard, nil)), 4)
	})

	ginkgo.Describe("Create", func() {
		ginkgo.It("should create an active user with a hashed password", func() {
			password := "chosen-password"
			created, err := service.Create(CreateUserDTO{
				Email:    "New@Example.com",
				FullName: "New User",
				Password: &password,
			})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(created.Email).To(gomega.Equal("new@example.com"))
			gomega.Expect(created.Status).To(gomega.Equal(userDatamodel.StatusActive))

			stored := mockRepo.users[created.ID]
			gomega.Expect(bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte(password))).To(gomega.Succeed())
		})

		ginkgo.It("should fall back to the default role when none are given", func() {
			created, err := service.Create(CreateUserDTO{Email: "new@example.com", FullName: "New User"})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(created.Roles).To(gomega.Equal([]string{"Employee"}))
		})

		ginkgo.It("should reject a taken address regardless of casing", func() {
			_, err := service.Create(CreateUserDTO{Email: "user@example.com", FullName: "First"})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			_, err = service.Create(CreateUserDTO{Email: "USER@example.com", FullName: "Second"})
			gomega.Expect(err).To(gomega.MatchError(internal.ErrEmailTaken))
		})

		ginkgo.It("should reject a missing full name", func() {
			_, err := service.Create(CreateUserDTO{Email: "user@example.com"})

			gomega.Expect(err).To(gomega.HaveOccurred())
			appErr, ok := internal.IsAppError(err)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(appErr.Type).To(gomega.Equal(internal.ErrorTypeValidation))
		})
	})

	ginkgo.Describe("Update", func() {
		var existingID string

		ginkgo.BeforeEach(func() {
			created, err := service.Create(CreateUserDTO{Email: "user@example.com", FullName: "Before"})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			existingID = created.ID
		})

		ginkgo.It("should update profile fields", func() {
			updated, err := service.Update(existingID, UpdateUserDTO{FullName: "After", Status: userDatamodel.StatusPending})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(updated.FullName).To(gomega.Equal("After"))
			gomega.Expect(updated.Status).To(gomega.Equal(userDatamodel.StatusPending))
		})

		ginkgo.It("should replace roles when ids are supplied", func() {
			updated, err := service.Update(existingID, UpdateUserDTO{FullName: "After", RoleIDs: []int64{2}})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(updated.Roles).To(gomega.Equal([]string{"Administrator"}))
		})

		ginkgo.It("should keep roles when none are supplied", func() {
			updated, err := service.Update(existingID, UpdateUserDTO{FullName: "After"})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(updated.Roles).To(gomega.Equal([]string{"Employee"}))
		})

		ginkgo.It("should reject an unknown status", func() {
			_, err := service.Update(existingID, UpdateUserDTO{FullName: "After", Status: "disabled"})

			gomega.Expect(err).To(gomega.HaveOccurred())
			appErr, ok := internal.IsAppError(err)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(appErr.Type).To(gomega.Equal(internal.ErrorTypeValidation))
		})

		ginkgo.It("should return not found for an unknown user", func() {
			_, err := service.Update("missing", UpdateUserDTO{FullName: "After"})

			gomega.Expect(err).To(gomega.MatchError(internal.ErrUserNotFound))
		})
	})

	ginkgo.Describe("Delete", func() {
		ginkgo.It("should delete an existing user", func() {
			created, err := service.Create(CreateUserDTO{Email: "user@example.com", FullName: "User"})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			gomega.Expect(service.Delete(created.ID)).To(gomega.Succeed())
			gomega.Expect(mockRepo.deleted).To(gomega.ContainElement(created.ID))
		})

		ginkgo.It("should return not found for an unknown user", func() {
			err := service.Delete("missing")

			gomega.Expect(err).To(gomega.MatchError(internal.ErrUserNotFound))
		})
	})
})
