package service

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"kbapi/internal/config"
	"kbapi/internal/model"
	"kbapi/internal/repository"
)

// CapabilityAdmin gates the restricted management endpoints.
const CapabilityAdmin = "admin"

// LoginResult is returned on successful authentication.
type LoginResult struct {
	Token    string
	Identity string
	Role     string
}

// AuthService verifies credentials, issues bearer tokens, and enforces the
// capability allow-list. Tokens are re-validated statelessly on every
// request; no server-side session state exists.
type AuthService interface {
	// Authenticate checks a login/password pair against the stored bcrypt
	// hash and issues a signed token. Unknown logins and wrong passwords
	// both yield ErrInvalidCredentials.
	Authenticate(ctx context.Context, login, password string) (*LoginResult, error)

	// VerifyToken parses and validates a bearer token.
	VerifyToken(token string) (*model.Claims, error)

	// Authorize checks the caller against the allow-list for a capability.
	Authorize(claims *model.Claims, capability string) error
}

type authService struct {
	accounts    repository.AccountRepository
	secret      []byte
	tokenTTL    time.Duration
	adminLogins map[string]struct{}
}

func NewAuthService(accounts repository.AccountRepository, cfg config.AuthConfig) AuthService {
	admins := make(map[string]struct{}, len(cfg.AdminLogins))
	for _, l := range cfg.AdminLogins {
		admins[l] = struct{}{}
	}
	return &authService{
		accounts:    accounts,
		secret:      []byte(cfg.JWTSecret),
		tokenTTL:    time.Duration(cfg.TokenTTLMin) * time.Minute,
		adminLogins: admins,
	}
}

func (s *authService) Authenticate(ctx context.Context, login, password string) (*LoginResult, error) {
	acc, err := s.accounts.FindByLogin(ctx, login)
	if err != nil {
		// Unknown login and wrong password collapse into one error shape.
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(acc.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	now := time.Now()
	claims := &model.Claims{
		Role: acc.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   acc.Login,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, err
	}

	return &LoginResult{Token: token, Identity: acc.Login, Role: acc.Role}, nil
}

func (s *authService) VerifyToken(tokenString string) (*model.Claims, error) {
	claims := &model.Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{"HS256"}),
	)
	if err != nil || !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidCredentials
	}
	return claims, nil
}

func (s *authService) Authorize(claims *model.Claims, capability string) error {
	if capability != CapabilityAdmin {
		return ErrForbidden
	}
	if claims.Role == CapabilityAdmin {
		return nil
	}
	if _, ok := s.adminLogins[claims.Subject]; ok {
		return nil
	}
	return ErrForbidden
}
