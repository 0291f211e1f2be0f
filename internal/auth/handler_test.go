package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	"github.com/frahmantamala/workforce-portal/internal"
	userDatamodel "github.com/frahmantamala/workforce-portal/internal/core/datamodel/user"
)

type mockAuthService struct {
	tokenGen *JWTTokenGenerator
	users    map[string]*User

	requestCodeErr error
	verifyUser     *User
	verifyToken    string
	verifyErr      error
}

func (m *mockAuthService) RequestCode(dto SendOTPDTO) error {
	if err := dto.Validate(); err != nil {
		return err
	}
	return m.requestCodeErr
}

func (m *mockAuthService) VerifyCode(dto VerifyOTPDTO) (*User, string, error) {
	if m.verifyErr != nil {
		return nil, "", m.verifyErr
	}
	return m.verifyUser, m.verifyToken, nil
}

func (m *mockAuthService) SocialLogin(dto SocialLoginDTO) (*User, string, error) {
	if m.verifyErr != nil {
		return nil, "", m.verifyErr
	}
	return m.verifyUser, m.verifyToken, nil
}

func (m *mockAuthService) ValidateAccessToken(tokenString string) (*Claims, error) {
	return m.tokenGen.ValidateToken(tokenString)
}

func (m *mockAuthService) GetUserWithRoles(userID string) (*User, error) {
	if u, ok := m.users[userID]; ok {
		return u, nil
	}
	return nil, internal.ErrUserNotFound
}

type errorEnvelope struct {
	Error struct {
		Type    string `json:"type"`
		Code    string `json:"code"`
		Message string `json:"message"`
		Status  int    `json:"status"`
	} `json:"error"`
}

var _ = ginkgo.Describe("Auth HTTP gates", func() {
	var (
		handler  *Handler
		mockSvc  *mockAuthService
		tokenGen *JWTTokenGenerator
		nextHit  bool
		next     http.Handler
	)

	ginkgo.BeforeEach(func() {
		tokenGen = NewJWTTokenGenerator("test-secret-at-least-32-characters!!", 15*time.Minute)
		mockSvc = &mockAuthService{
			tokenGen: tokenGen,
			users: map[string]*User{
				"u1": {ID: "u1", Email: "user@example.com", Roles: []string{"Employee"}},
			},
		}
		handler = NewHandler(mockSvc)

		nextHit = false
		next = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			nextHit = true
			w.WriteHeader(http.StatusOK)
		})
	})

	decodeError := func(rec *httptest.ResponseRecorder) errorEnvelope {
		var env errorEnvelope
		gomega.Expect(json.Unmarshal(rec.Body.Bytes(), &env)).To(gomega.Succeed())
		return env
	}

	ginkgo.Describe("AuthMiddleware", func() {
		ginkgo.It("should answer 401 NO_TOKEN without an Authorization header", func() {
			req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
			rec := httptest.NewRecorder()

			handler.AuthMiddleware(next).ServeHTTP(rec, req)

			gomega.Expect(nextHit).To(gomega.BeFalse())
			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusUnauthorized))
			env := decodeError(rec)
			gomega.Expect(env.Error.Code).To(gomega.Equal("NO_TOKEN"))
			gomega.Expect(env.Error.Status).To(gomega.Equal(http.StatusUnauthorized))
			gomega.Expect(env.Error.Message).ToNot(gomega.BeEmpty())
		})

		ginkgo.It("should answer 401 INVALID_TOKEN for a garbage token", func() {
			req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
			req.Header.Set("Authorization", "Bearer not.a.token")
			rec := httptest.NewRecorder()

			handler.AuthMiddleware(next).ServeHTTP(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusUnauthorized))
			gomega.Expect(decodeError(rec).Error.Code).To(gomega.Equal("INVALID_TOKEN"))
		})

		ginkgo.It("should answer 401 TOKEN_EXPIRED for an expired token", func() {
			expiredGen := NewJWTTokenGenerator("test-secret-at-least-32-characters!!", -time.Minute)
			token, err := expiredGen.GenerateToken(&User{ID: "u1"})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			rec := httptest.NewRecorder()

			handler.AuthMiddleware(next).ServeHTTP(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusUnauthorized))
			gomega.Expect(decodeError(rec).Error.Code).To(gomega.Equal("TOKEN_EXPIRED"))
		})

		ginkgo.It("should attach the identity and pass through for a valid token", func() {
			token, err := tokenGen.GenerateToken(&User{ID: "u1", Email: "user@example.com"})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			var seen *User
			inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen, _ = UserFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			rec := httptest.NewRecorder()

			handler.AuthMiddleware(inner).ServeHTTP(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
			gomega.Expect(seen).ToNot(gomega.BeNil())
			gomega.Expect(seen.ID).To(gomega.Equal("u1"))
			gomega.Expect(seen.Roles).To(gomega.Equal([]string{"Employee"}))
		})

		ginkgo.It("should reject a valid token for a deleted user", func() {
			token, err := tokenGen.GenerateToken(&User{ID: "gone"})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			rec := httptest.NewRecorder()

			handler.AuthMiddleware(next).ServeHTTP(rec, req)

			gomega.Expect(nextHit).To(gomega.BeFalse())
			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusUnauthorized))
		})
	})

	ginkgo.Describe("RBAC Require", func() {
		var (
			rbac     *RBACAuthorization
			permRepo *mockPermissionRepository
		)

		ginkgo.BeforeEach(func() {
			permRepo = &mockPermissionRepository{rows: nil}
			checker := NewPermissionChecker(permRepo, handler.Logger)
			rbac = NewRBACAuthorization(checker, handler.Logger)
		})

		request := func(user *User) *httptest.ResponseRecorder {
			req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
			if user != nil {
				req = req.WithContext(ContextWithUser(req.Context(), user))
			}
			rec := httptest.NewRecorder()
			rbac.Require("User Management", ActionView)(next).ServeHTTP(rec, req)
			return rec
		}

		ginkgo.It("should answer 401 when no identity is attached", func() {
			rec := request(nil)

			gomega.Expect(nextHit).To(gomega.BeFalse())
			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusUnauthorized))
		})

		ginkgo.It("should answer 403 INSUFFICIENT_PERMISSION when the grant is missing", func() {
			rec := request(&User{ID: "u1", Roles: []string{"Employee"}})

			gomega.Expect(nextHit).To(gomega.BeFalse())
			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusForbidden))
			env := decodeError(rec)
			gomega.Expect(env.Error.Code).To(gomega.Equal("INSUFFICIENT_PERMISSION"))
			gomega.Expect(env.Error.Status).To(gomega.Equal(http.StatusForbidden))
		})

		ginkgo.It("should pass through when the action is granted", func() {
			permRepo.rows = map[string][]userDatamodel.Permission{"u1": {{CanView: true}}}

			rec := request(&User{ID: "u1", Roles: []string{"Employee"}})

			gomega.Expect(nextHit).To(gomega.BeTrue())
			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
		})
	})

	ginkgo.Describe("SendOTP", func() {
		ginkgo.It("should answer 400 with the error envelope for a bad address", func() {
			body := strings.NewReader(`{"email":"nope"}`)
			req := httptest.NewRequest(http.MethodPost, "/api/auth/otp/send", body)
			rec := httptest.NewRecorder()

			handler.SendOTP(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusBadRequest))
			env := decodeError(rec)
			gomega.Expect(env.Error.Status).To(gomega.Equal(http.StatusBadRequest))
		})

		ginkgo.It("should answer 200 with a message and never echo the code", func() {
			body := strings.NewReader(`{"email":"user@example.com"}`)
			req := httptest.NewRequest(http.MethodPost, "/api/auth/otp/send", body)
			rec := httptest.NewRecorder()

			handler.SendOTP(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
			var resp map[string]interface{}
			gomega.Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(gomega.Succeed())
			gomega.Expect(resp["status"]).To(gomega.Equal("success"))
			gomega.Expect(resp).ToNot(gomega.HaveKey("data"))
		})
	})
})
