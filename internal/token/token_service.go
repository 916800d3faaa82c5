package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	tokenerrors "hrflow/internal/token/errors"
)

const (
	ClaimEmployeeID = "employeeId"
	ClaimRole       = "role"
	ClaimEmail      = "emailId"

	RoleEmployee = "EMPLOYEE"
	RoleManager  = "MANAGER"
)

// CredentialKind selects the TTL policy for an issued token. Every service
// shares one signing key and one wire format; only the lifetime differs
// between an interactive session and a scheduler/service credential.
type CredentialKind int

const (
	CredentialSession CredentialKind = iota
	CredentialService
)

type Config struct {
	Secret     []byte
	SessionTTL time.Duration
	ServiceTTL time.Duration
}

//go:generate mockgen -source=token_service.go -destination=mock/token_service_mock.go -package=mock
type Service interface {
	Issue(employeeID, role, email string, kind CredentialKind) (string, error)
	Validate(token string) bool
	Extract(token, claim string) (string, error)
}

type service struct {
	cfg    Config
	logger *zap.Logger
}

func NewService(cfg Config, logger ...*zap.Logger) Service {
	l := zap.L().Named("token.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("token.service")
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = time.Hour
	}
	if cfg.ServiceTTL <= 0 {
		cfg.ServiceTTL = 30 * 24 * time.Hour
	}
	return &service{cfg: cfg, logger: l}
}

func (s *service) Issue(employeeID, role, email string, kind CredentialKind) (string, error) {
	ttl := s.cfg.SessionTTL
	if kind == CredentialService {
		ttl = s.cfg.ServiceTTL
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":           email,
		ClaimEmployeeID: employeeID,
		ClaimRole:       role,
		ClaimEmail:      email,
		"iat":           now.Unix(),
		"exp":           now.Add(ttl).Unix(),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.cfg.Secret)
	if err != nil {
		s.logger.Error("token signing failed", zap.Error(err))
		return "", tokenerrors.ErrSigningFailed
	}
	return signed, nil
}

// Validate fails closed: any parse, signature, or expiry problem yields false.
func (s *service) Validate(tokenString string) bool {
	_, err := s.parse(tokenString)
	return err == nil
}

func (s *service) Extract(tokenString, claim string) (string, error) {
	claims, err := s.parse(tokenString)
	if err != nil {
		return "", err
	}
	if claim == "sub" {
		if sub, ok := claims["sub"].(string); ok {
			return sub, nil
		}
		return "", tokenerrors.ErrClaimNotFound
	}
	value, ok := claims[claim].(string)
	if !ok || value == "" {
		return "", tokenerrors.ErrClaimNotFound
	}
	return value, nil
}

func (s *service) parse(tokenString string) (jwt.MapClaims, error) {
	parsed, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, tokenerrors.ErrMalformedToken
		}
		return s.cfg.Secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, tokenerrors.ErrTokenExpired
		}
		return nil, tokenerrors.ErrMalformedToken
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || !parsed.Valid {
		return nil, tokenerrors.ErrMalformedToken
	}
	return claims, nil
}
