package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	apperrors "github.com/yanqian/legal-assistant/pkg/errors"
)

const (
	CodeInvalidToken = "invalid_token"
	CodeAuth         = "auth_error"

	defaultTokenTTL = 24 * time.Hour
	defaultIssuer   = "legal-assistant"
)

// Service issues and validates HS256 bearer tokens for API callers.
type Service interface {
	Issue(ctx context.Context, subject string) (string, error)
	ValidateToken(ctx context.Context, token string) (Claims, error)
}

type service struct {
	cfg    Config
	logger *slog.Logger
	now    func() time.Time
}

// NewService is a wire provider for the auth domain.
func NewService(cfg Config, logger *slog.Logger) Service {
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = defaultTokenTTL
	}
	if cfg.Issuer == "" {
		cfg.Issuer = defaultIssuer
	}
	return &service{cfg: cfg, logger: logger.With("component", "auth.service"), now: time.Now}
}

func (s *service) Issue(_ context.Context, subject string) (string, error) {
	subject = strings.TrimSpace(subject)
	if subject == "" {
		return "", apperrors.Wrap(apperrors.CodeInvalidInput, "subject cannot be empty", nil)
	}
	if s.cfg.Secret == "" {
		return "", apperrors.Wrap(CodeAuth, "auth secret not configured", nil)
	}
	now := s.now()
	claims := jwt.RegisteredClaims{
		Issuer:    s.cfg.Issuer,
		Subject:   subject,
		ID:        newTokenID(now),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.TokenTTL)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return "", apperrors.Wrap(CodeAuth, "failed to sign token", err)
	}
	s.logger.Info("token issued", "subject", subject, "expiresAt", claims.ExpiresAt.Time)
	return signed, nil
}

func (s *service) ValidateToken(_ context.Context, token string) (Claims, error) {
	if s.cfg.Secret == "" {
		return Claims{}, apperrors.Wrap(CodeAuth, "auth secret not configured", nil)
	}
	parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %s", t.Method.Alg())
		}
		return []byte(s.cfg.Secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.cfg.Issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return Claims{}, apperrors.Wrap(CodeInvalidToken, "token validation failed", err)
	}
	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || !parsed.Valid {
		return Claims{}, apperrors.Wrap(CodeInvalidToken, "token invalid", nil)
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return Claims{}, apperrors.Wrap(CodeInvalidToken, "token missing subject", nil)
	}
	return Claims{Subject: claims.Subject, ExpiresAt: claims.ExpiresAt.Time}, nil
}

func newTokenID(now time.Time) string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return strconv.FormatInt(now.UnixNano(), 10)
	}
	return hex.EncodeToString(buf)
}
