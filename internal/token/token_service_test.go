package token_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"hrflow/internal/token"
	tokenerrors "hrflow/internal/token/errors"
)

func newTestService(sessionTTL time.Duration) token.Service {
	return token.NewService(token.Config{
		Secret:     []byte("test-secret"),
		SessionTTL: sessionTTL,
	})
}

func TestTokenService_IssueAndExtract(t *testing.T) {
	svc := newTestService(time.Hour)

	t.Run("success", func(t *testing.T) {
		signed, err := svc.Issue("emp-123", token.RoleEmployee, "jo@example.com", token.CredentialSession)
		assert.NoError(t, err)
		assert.NotEmpty(t, signed)

		employeeID, err := svc.Extract(signed, token.ClaimEmployeeID)
		assert.NoError(t, err)
		assert.Equal(t, "emp-123", employeeID)

		role, err := svc.Extract(signed, token.ClaimRole)
		assert.NoError(t, err)
		assert.Equal(t, token.RoleEmployee, role)

		email, err := svc.Extract(signed, token.ClaimEmail)
		assert.NoError(t, err)
		assert.Equal(t, "jo@example.com", email)

		sub, err := svc.Extract(signed, "sub")
		assert.NoError(t, err)
		assert.Equal(t, "jo@example.com", sub)
	})

	t.Run("negative missing claim", func(t *testing.T) {
		signed, err := svc.Issue("emp-123", token.RoleEmployee, "jo@example.com", token.CredentialSession)
		assert.NoError(t, err)

		_, err = svc.Extract(signed, "no_such_claim")
		assert.ErrorIs(t, err, tokenerrors.ErrClaimNotFound)
	})

	t.Run("negative malformed token", func(t *testing.T) {
		_, err := svc.Extract("not.a.token", token.ClaimEmployeeID)
		assert.ErrorIs(t, err, tokenerrors.ErrMalformedToken)
	})
}

func TestTokenService_Validate(t *testing.T) {
	svc := newTestService(time.Hour)

	t.Run("success", func(t *testing.T) {
		signed, err := svc.Issue("emp-1", token.RoleManager, "m@example.com", token.CredentialSession)
		assert.NoError(t, err)
		assert.True(t, svc.Validate(signed))
	})

	t.Run("negative expired fails closed", func(t *testing.T) {
		expiring := newTestService(-time.Minute)
		signed, err := expiring.Issue("emp-1", token.RoleEmployee, "e@example.com", token.CredentialSession)
		assert.NoError(t, err)
		assert.False(t, expiring.Validate(signed))
	})

	t.Run("negative wrong key fails closed", func(t *testing.T) {
		other := token.NewService(token.Config{Secret: []byte("other-secret")})
		signed, err := other.Issue("emp-1", token.RoleEmployee, "e@example.com", token.CredentialSession)
		assert.NoError(t, err)
		assert.False(t, svc.Validate(signed))
	})

	t.Run("negative garbage fails closed", func(t *testing.T) {
		assert.False(t, svc.Validate("garbage"))
		assert.False(t, svc.Validate(""))
	})
}

func TestTokenService_ServiceCredentialOutlivesSession(t *testing.T) {
	svc := token.NewService(token.Config{
		Secret:     []byte("test-secret"),
		SessionTTL: time.Second,
		ServiceTTL: 24 * time.Hour,
	})

	signed, err := svc.Issue("scheduler", token.RoleManager, "scheduler@hrflow.local", token.CredentialService)
	assert.NoError(t, err)
	assert.True(t, svc.Validate(signed))
}
