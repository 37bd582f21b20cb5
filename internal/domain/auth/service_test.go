package auth

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	apperrors "github.com/yanqian/legal-assistant/pkg/errors"
)

func TestService_IssueAndValidate(t *testing.T) {
	t.Parallel()
	svc := NewService(Config{Secret: "test-secret", TokenTTL: time.Hour}, newTestLogger())

	token, err := svc.Issue(context.Background(), "  paralegal-team ")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(context.Background(), token)
	require.NoError(t, err)
	require.Equal(t, "paralegal-team", claims.Subject)
	require.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt, time.Minute)
}

func TestService_ValidateRejects(t *testing.T) {
	t.Parallel()
	issuer := NewService(Config{Secret: "test-secret"}, newTestLogger())
	valid, err := issuer.Issue(context.Background(), "ops")
	require.NoError(t, err)

	expired := NewService(Config{Secret: "test-secret", TokenTTL: time.Minute}, newTestLogger()).(*service)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	stale, err := expired.Issue(context.Background(), "ops")
	require.NoError(t, err)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer:  defaultIssuer,
		Subject: "ops",
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	tests := []struct {
		name   string
		secret string
		token  string
	}{
		{name: "garbage", secret: "test-secret", token: "not-a-token"},
		{name: "wrong secret", secret: "other-secret", token: valid},
		{name: "expired", secret: "test-secret", token: stale},
		{name: "missing expiry", secret: "test-secret", token: noExpiry},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc := NewService(Config{Secret: tt.secret}, newTestLogger())
			_, err := svc.ValidateToken(context.Background(), tt.token)
			require.Error(t, err)
			require.True(t, apperrors.IsCode(err, CodeInvalidToken))
		})
	}
}

func TestService_RequiresSecret(t *testing.T) {
	t.Parallel()
	svc := NewService(Config{}, newTestLogger())

	_, err := svc.Issue(context.Background(), "ops")
	require.True(t, apperrors.IsCode(err, CodeAuth))

	_, err = svc.ValidateToken(context.Background(), "anything")
	require.True(t, apperrors.IsCode(err, CodeAuth))

	_, err = NewService(Config{Secret: "s"}, newTestLogger()).Issue(context.Background(), " ")
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
