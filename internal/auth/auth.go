package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/frahmantamala/workforce-portal/internal"
	authDatamodel "github.com/frahmantamala/workforce-portal/internal/core/datamodel/auth"
	userDatamodel "github.com/frahmantamala/workforce-portal/internal/core/datamodel/user"
)

// User is the identity attached to a request after the authentication gate:
// who the caller is and which roles the token carried.
type User struct {
	ID       string   `json:"id"`
	Email    string   `json:"email"`
	FullName string   `json:"full_name"`
	Roles    []string `json:"roles"`
}

func (u *User) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// ServiceAPI is the surface the HTTP layer depends on.
type ServiceAPI interface {
	RequestCode(dto SendOTPDTO) error
	VerifyCode(dto VerifyOTPDTO) (*User, string, error)
	SocialLogin(dto SocialLoginDTO) (*User, string, error)
	ValidateAccessToken(tokenString string) (*Claims, error)
	GetUserWithRoles(userID string) (*User, error)
}

// RepositoryAPI is the credential-store surface the auth service depends on.
type RepositoryAPI interface {
	GetUserByEmail(email string) (*userDatamodel.User, error)
	GetUserByID(userID string) (*userDatamodel.User, error)
	CreateUser(u *userDatamodel.User, roleNames []string) error
	UpsertOneTimeCode(code *authDatamodel.OneTimeCode) error
	ConsumeOneTimeCode(email, code string, now time.Time) (bool, error)
	ActivateUser(userID string, loginAt time.Time) error
	UpdateLastLogin(userID string, loginAt time.Time) error
	GetUserRoles(userID string) ([]string, error)
}

type TokenGeneratorAPI interface {
	GenerateToken(user *User) (string, error)
	ValidateToken(tokenString string) (*Claims, error)
}

// Claims are the self-contained proof carried by every bearer token: identity
// plus the role set minted at login time.
type Claims struct {
	UserID   string   `json:"user_id"`
	Email    string   `json:"email"`
	FullName string   `json:"full_name"`
	Roles    []string `json:"roles"`
	jwt.RegisteredClaims
}

type JWTTokenGenerator struct {
	Secret   []byte
	TokenTTL time.Duration
}

func NewJWTTokenGenerator(secret string, ttl time.Duration) *JWTTokenGenerator {
	return &JWTTokenGenerator{
		Secret:   []byte(secret),
		TokenTTL: ttl,
	}
}

// GenerateToken mints a signed bearer credential embedding identity and role
// claims. There is no refresh mechanism; callers re-authenticate after expiry.
func (j *JWTTokenGenerator) GenerateToken(user *User) (string, error) {
	now := time.Now()

	claims := &Claims{
		UserID:   user.ID,
		Email:    user.Email,
		FullName: user.FullName,
		Roles:    user.Roles,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(j.TokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			Subject:   user.ID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(j.Secret)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// ValidateToken parses and verifies a bearer token, distinguishing expiry
// from every other failure so the gate can answer 401 with the right code.
func (j *JWTTokenGenerator) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return j.Secret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, internal.ErrTokenExpired
		}
		return nil, internal.ErrInvalidToken
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, internal.ErrInvalidToken
}

func UserFromContext(ctx context.Context) (*User, bool) {
	u, ok := ctx.Value(internal.ContextUserKey).(*User)
	return u, ok
}

func ContextWithUser(ctx context.Context, u *User) context.Context {
	return context.WithValue(ctx, internal.ContextUserKey, u)
}
