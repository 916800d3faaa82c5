package auth_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"hrflow/internal/auth"
	autherrors "hrflow/internal/auth/errors"
	"hrflow/internal/token"
)

type fakeAuthRepository struct {
	withTxFn      func(tx *sql.Tx) auth.Repository
	createFn      func(ctx context.Context, u *auth.User) error
	findByEmailFn func(ctx context.Context, email string) (*auth.User, error)
}

func (f *fakeAuthRepository) WithTx(tx *sql.Tx) auth.Repository {
	if f.withTxFn != nil {
		return f.withTxFn(tx)
	}
	return f
}

func (f *fakeAuthRepository) Create(ctx context.Context, u *auth.User) error {
	if f.createFn != nil {
		return f.createFn(ctx, u)
	}
	return nil
}

func (f *fakeAuthRepository) FindByEmail(ctx context.Context, email string) (*auth.User, error) {
	if f.findByEmailFn != nil {
		return f.findByEmailFn(ctx, email)
	}
	return nil, gorm.ErrRecordNotFound
}

type authServiceDeps struct {
	db      *sql.DB
	sqlMock sqlmock.Sqlmock
	service auth.Service
	repo    *fakeAuthRepository
	tokens  token.Service
}

func setupAuthServiceTest(t *testing.T) *authServiceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)

	repo := &fakeAuthRepository{}
	tokens := token.NewService(token.Config{
		Secret:     []byte("test-secret"),
		SessionTTL: time.Hour,
	})
	svc := auth.NewService(db, repo, tokens)

	return &authServiceDeps{db: db, sqlMock: sqlMock, service: svc, repo: repo, tokens: tokens}
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	employeeID := uuid.New()
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret-pass"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}

	storedUser := func() *auth.User {
		return &auth.User{
			ID:           uuid.New(),
			EmployeeID:   employeeID,
			Email:        "jo@example.com",
			PasswordHash: string(hash),
			Role:         token.RoleEmployee,
		}
	}

	t.Run("success issues token with identity claims", func(t *testing.T) {
		deps := setupAuthServiceTest(t)
		defer deps.db.Close()

		deps.repo.findByEmailFn = func(ctx context.Context, email string) (*auth.User, error) {
			assert.Equal(t, "jo@example.com", email)
			return storedUser(), nil
		}

		resp, err := deps.service.Login(ctx, auth.LoginRequest{
			Email:    "jo@example.com",
			Password: "s3cret-pass",
		})

		assert.NoError(t, err)
		assert.NotEmpty(t, resp.AccessToken)
		assert.Equal(t, employeeID.String(), resp.EmployeeID)

		claimedID, err := deps.tokens.Extract(resp.AccessToken, token.ClaimEmployeeID)
		assert.NoError(t, err)
		assert.Equal(t, employeeID.String(), claimedID)

		role, err := deps.tokens.Extract(resp.AccessToken, token.ClaimRole)
		assert.NoError(t, err)
		assert.Equal(t, token.RoleEmployee, role)
	})

	t.Run("negative wrong password", func(t *testing.T) {
		deps := setupAuthServiceTest(t)
		defer deps.db.Close()

		deps.repo.findByEmailFn = func(ctx context.Context, email string) (*auth.User, error) {
			return storedUser(), nil
		}

		_, err := deps.service.Login(ctx, auth.LoginRequest{
			Email:    "jo@example.com",
			Password: "wrong-pass",
		})
		assert.ErrorIs(t, err, autherrors.ErrInvalidCredentials)
	})

	t.Run("negative unknown email maps to the same error", func(t *testing.T) {
		deps := setupAuthServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.Login(ctx, auth.LoginRequest{
			Email:    "nobody@example.com",
			Password: "s3cret-pass",
		})
		assert.ErrorIs(t, err, autherrors.ErrInvalidCredentials)
	})
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()
	employeeID := uuid.New().String()

	req := auth.RegisterRequest{
		EmployeeID: employeeID,
		Email:      "new@example.com",
		Password:   "s3cret-pass",
		Role:       token.RoleEmployee,
	}

	t.Run("success stores a bcrypt hash", func(t *testing.T) {
		deps := setupAuthServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		var created *auth.User
		deps.repo.createFn = func(ctx context.Context, u *auth.User) error {
			created = u
			return nil
		}

		resp, err := deps.service.Register(ctx, req)

		assert.NoError(t, err)
		assert.Equal(t, employeeID, resp.EmployeeID)
		assert.Empty(t, resp.AccessToken)
		assert.NotNil(t, created)
		assert.NotEqual(t, "s3cret-pass", created.PasswordHash)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.PasswordHash), []byte("s3cret-pass")))
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative duplicate email", func(t *testing.T) {
		deps := setupAuthServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		deps.repo.createFn = func(ctx context.Context, u *auth.User) error {
			return &pgconn.PgError{Code: "23505"}
		}

		_, err := deps.service.Register(ctx, req)
		assert.ErrorIs(t, err, autherrors.ErrEmailTaken)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative invalid role", func(t *testing.T) {
		deps := setupAuthServiceTest(t)
		defer deps.db.Close()

		bad := req
		bad.Role = "ADMIN"
		_, err := deps.service.Register(ctx, bad)
		assert.ErrorIs(t, err, autherrors.ErrInvalidRole)
	})
}
