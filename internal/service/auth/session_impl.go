package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/taskdesk/internal/config"
	"github.com/phrazzld/taskdesk/internal/domain"
	"github.com/phrazzld/taskdesk/internal/platform/logger"
)

const minSecretLength = 32

// hmacSessionService implements SessionService with HMAC-SHA256 signed JWTs.
type hmacSessionService struct {
	signingKey []byte
	lifetime   time.Duration
	timeFunc   func() time.Time // Injectable for testing
	clockSkew  time.Duration
}

// sessionClaims is the JWT payload.
type sessionClaims struct {
	UserID uuid.UUID `json:"uid"`
	Role   string    `json:"role"`
	Name   string    `json:"name"`
	jwt.RegisteredClaims
}

var _ SessionService = (*hmacSessionService)(nil)

// NewSessionService creates a SessionService from the auth configuration.
func NewSessionService(cfg config.AuthConfig) (SessionService, error) {
	if len(cfg.SessionSecret) < minSecretLength {
		return nil, fmt.Errorf("session secret must be at least %d characters", minSecretLength)
	}
	if cfg.SessionLifetimeMinutes <= 0 {
		return nil, fmt.Errorf("session lifetime must be positive")
	}

	return newSessionService(
		cfg.SessionSecret,
		time.Duration(cfg.SessionLifetimeMinutes)*time.Minute,
		time.Now,
	), nil
}

func newSessionService(secret string, lifetime time.Duration, now func() time.Time) *hmacSessionService {
	return &hmacSessionService{
		signingKey: []byte(secret),
		lifetime:   lifetime,
		timeFunc:   now,
		clockSkew:  time.Minute,
	}
}

// IssueSession implements SessionService.
func (s *hmacSessionService) IssueSession(ctx context.Context, user *domain.User) (Session, error) {
	log := logger.FromContext(ctx)

	if user == nil || user.ID == uuid.Nil {
		return Session{}, fmt.Errorf("cannot issue session: %w", domain.ErrInvalidID)
	}
	if !user.Role.Valid() {
		return Session{}, fmt.Errorf("cannot issue session: %w", domain.ErrInvalidRole)
	}

	now := s.timeFunc()
	expiresAt := now.Add(s.lifetime)
	claims := sessionClaims{
		UserID: user.ID,
		Role:   user.Role.String(),
		Name:   user.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        uuid.New().String(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.signingKey)
	if err != nil {
		log.Error("failed to sign session token",
			slog.String("error", err.Error()),
			slog.String("user_id", user.ID.String()))
		return Session{}, fmt.Errorf("failed to sign session token: %w", err)
	}

	return Session{Token: signed, ExpiresAt: expiresAt}, nil
}

// ValidateSession implements SessionService.
func (s *hmacSessionService) ValidateSession(ctx context.Context, tokenString string) (*domain.Identity, error) {
	log := logger.FromContext(ctx)

	if tokenString == "" {
		return nil, ErrMissingToken
	}

	now := s.timeFunc()
	token, err := jwt.ParseWithClaims(
		tokenString,
		&sessionClaims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return s.signingKey, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithLeeway(s.clockSkew),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			log.Debug("session validation failed: token expired")
			return nil, ErrExpiredToken
		case errors.Is(err, jwt.ErrTokenNotValidYet):
			log.Debug("session validation failed: token not yet valid")
			return nil, ErrTokenNotYetValid
		default:
			log.Debug("session validation failed",
				slog.String("error_type", fmt.Sprintf("%T", err)))
			return nil, ErrInvalidToken
		}
	}

	claims, ok := token.Claims.(*sessionClaims)
	if !ok || !token.Valid || claims.UserID == uuid.Nil {
		log.Debug("session validation failed: invalid claims")
		return nil, ErrInvalidToken
	}

	role, err := domain.ParseRole(claims.Role)
	if err != nil {
		log.Debug("session validation failed: unknown role", slog.String("role", claims.Role))
		return nil, ErrInvalidToken
	}

	return &domain.Identity{UserID: claims.UserID, Role: role, Name: claims.Name}, nil
}
