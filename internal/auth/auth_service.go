package auth

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	autherrors "hrflow/internal/auth/errors"
	"hrflow/internal/token"
)

//go:generate mockgen -source=auth_service.go -destination=mock/auth_service_mock.go -package=mock
type Service interface {
	Login(ctx context.Context, req LoginRequest) (AuthResponse, error)
	Register(ctx context.Context, req RegisterRequest) (AuthResponse, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	tokens token.Service
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, tokens token.Service, logger ...*zap.Logger) Service {
	l := zap.L().Named("auth.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("auth.service")
	}
	return &service{db: db, repo: repo, tokens: tokens, logger: l}
}

// Login never distinguishes a wrong password from an unknown email.
func (s *service) Login(ctx context.Context, req LoginRequest) (AuthResponse, error) {
	user, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		return AuthResponse{}, autherrors.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return AuthResponse{}, autherrors.ErrInvalidCredentials
	}

	accessToken, err := s.tokens.Issue(user.EmployeeID.String(), user.Role, user.Email, token.CredentialSession)
	if err != nil {
		return AuthResponse{}, err
	}

	s.logger.Info("login succeeded",
		zap.String("employee_id", user.EmployeeID.String()),
		zap.String("role", user.Role),
	)
	return AuthResponse{
		AccessToken: accessToken,
		EmployeeID:  user.EmployeeID.String(),
		Email:       user.Email,
		Role:        user.Role,
	}, nil
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (AuthResponse, error) {
	if req.Role != token.RoleEmployee && req.Role != token.RoleManager {
		return AuthResponse{}, autherrors.ErrInvalidRole
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return AuthResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return AuthResponse{}, err
	}
	defer tx.Rollback()

	user := &User{
		ID:           uuid.New(),
		EmployeeID:   uuid.MustParse(req.EmployeeID),
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         req.Role,
	}
	if err := s.repo.WithTx(tx).Create(ctx, user); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return AuthResponse{}, autherrors.ErrEmailTaken
		}
		s.logger.Error("register persist failed", zap.Error(err))
		return AuthResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return AuthResponse{}, err
	}

	s.logger.Info("user registered",
		zap.String("employee_id", req.EmployeeID),
		zap.String("role", req.Role),
	)
	return AuthResponse{
		EmployeeID: user.EmployeeID.String(),
		Email:      user.Email,
		Role:       user.Role,
	}, nil
}
