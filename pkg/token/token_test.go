package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T, ttl time.Duration) *Service {
	t.Helper()
	svc, err := New(Config{Secret: "test-secret", Issuer: "taskforge-test", TTL: ttl})
	require.NoError(t, err)
	return svc
}

func TestIssueVerifyRoundTrip(t *testing.T) {
	svc := newTestService(t, time.Hour)

	signed, err := svc.Issue("user-123")
	require.NoError(t, err)

	subject, err := svc.Verify(signed)
	require.NoError(t, err)
	assert.Equal(t, "user-123", subject)
}

func TestVerifyExpired(t *testing.T) {
	svc := newTestService(t, -time.Minute)

	signed, err := svc.Issue("user-123")
	require.NoError(t, err)

	_, err = svc.Verify(signed)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestVerifyMalformed(t *testing.T) {
	svc := newTestService(t, time.Hour)

	for name, tokenString := range map[string]string{
		"garbage":       "not.a.token",
		"empty":         "",
		"truncated_sig": mustIssue(t, svc, "user-123")[:20],
	} {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Verify(tokenString)
			assert.ErrorIs(t, err, ErrTokenMalformed)
		})
	}
}

func TestVerifyWrongSecret(t *testing.T) {
	svc := newTestService(t, time.Hour)
	other, err := New(Config{Secret: "different-secret"})
	require.NoError(t, err)

	signed := mustIssue(t, svc, "user-123")

	_, err = other.Verify(signed)
	assert.ErrorIs(t, err, ErrTokenMalformed)
}

func TestNewRequiresSecret(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err)
}

func TestDefaultTTLIsThirtyDays(t *testing.T) {
	svc, err := New(Config{Secret: "s"})
	require.NoError(t, err)
	assert.Equal(t, 30*24*time.Hour, svc.TTL())
}

func mustIssue(t *testing.T, svc *Service, subject string) string {
	t.Helper()
	signed, err := svc.Issue(subject)
	require.NoError(t, err)
	return signed
}
