package auth

import (
	"errors"
	"io"
	"log/slog"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	"github.com/frahmantamala/workforce-portal/internal"
	userDatamodel "github.com/frahmantamala/workforce-portal/internal/core/datamodel/user"
)

type mockPermissionRepository struct {
	rows        map[string][]userDatamodel.Permission // userID -> rows for the queried application
	returnError error
}

func (m *mockPermissionRepository) GetUserPermissionRows(userID, applicationName string) ([]userDatamodel.Permission, error) {
	if m.returnError != nil {
		return nil, m.returnError
	}
	return m.rows[userID], nil
}

var _ = ginkgo.Describe("PermissionChecker", func() {
	var (
		checker  *PermissionChecker
		mockRepo *mockPermissionRepository
	)

	ginkgo.BeforeEach(func() {
		mockRepo = &mockPermissionRepository{rows: make(map[string][]userDatamodel.Permission)}
		checker = NewPermissionChecker(mockRepo, slog.New(slog.NewTextHandler(io.Discard, nil)))
	})

	ginkgo.Describe("GetEffectivePermission", func() {
		ginkgo.It("should OR-combine flags across roles", func() {
			mockRepo.rows["u1"] = []userDatamodel.Permission{
				{CanView: true},
				{CanCreate: true, CanEdit: true},
			}

			effective, err := checker.GetEffectivePermission("u1", "User Management")

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(effective).To(gomega.Equal(EffectivePermission{
				CanView:   true,
				CanCreate: true,
				CanEdit:   true,
				CanDelete: false,
			}))
		})

		ginkgo.It("should deny everything when no rows exist", func() {
			effective, err := checker.GetEffectivePermission("unknown", "User Management")

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(effective).To(gomega.Equal(EffectivePermission{}))
		})

		ginkgo.It("should wrap store failures", func() {
			mockRepo.returnError = errors.New("connection reset")

			_, err := checker.GetEffectivePermission("u1", "User Management")

			gomega.Expect(err).To(gomega.HaveOccurred())
			appErr, ok := internal.IsAppError(err)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(appErr.Type).To(gomega.Equal(internal.ErrorTypeInternal))
		})
	})

	ginkgo.Describe("Authorize", func() {
		ginkgo.It("should grant only the actions a view-only role carries", func() {
			mockRepo.rows["viewer"] = []userDatamodel.Permission{{CanView: true}}

			allowed, err := checker.Authorize("viewer", "User Management", ActionView)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(allowed).To(gomega.BeTrue())

			for _, action := range []Action{ActionCreate, ActionEdit, ActionDelete} {
				allowed, err = checker.Authorize("viewer", "User Management", action)
				gomega.Expect(err).ToNot(gomega.HaveOccurred())
				gomega.Expect(allowed).To(gomega.BeFalse())
			}
		})

		ginkgo.It("should deny an unknown action", func() {
			mockRepo.rows["u1"] = []userDatamodel.Permission{
				{CanView: true, CanCreate: true, CanEdit: true, CanDelete: true},
			}

			allowed, err := checker.Authorize("u1", "User Management", Action("export"))

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(allowed).To(gomega.BeFalse())
		})
	})
})
