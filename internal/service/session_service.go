package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/qcom/passguard/internal/config"
	"github.com/qcom/passguard/internal/metrics"
	"github.com/qcom/passguard/internal/models"
	"github.com/qcom/passguard/internal/repository"
	"github.com/sirupsen/logrus"
)

const tokenTypeSession = "session"

var ErrInvalidSessionToken = errors.New("invalid session token")

type Claims struct {
	Type string `json:"type"`
	jwt.RegisteredClaims
}

// SessionService creates sessions and issues the bearer tokens that name
// them. The token carries only the session ID; state lives in the store.
type SessionService struct {
	store     repository.SessionStore
	secretKey []byte
	expiry    time.Duration
	metrics   *metrics.Metrics
	logger    *logrus.Logger
	now       func() time.Time
}

func NewSessionService(store repository.SessionStore, cfg *config.SessionConfig, m *metrics.Metrics, logger *logrus.Logger) (*SessionService, error) {
	secretKey := []byte(cfg.SecretKey)
	if len(secretKey) < 32 {
		return nil, fmt.Errorf("secret key must be at least 32 bytes")
	}

	return &SessionService{
		store:     store,
		secretKey: secretKey,
		expiry:    cfg.Expiry,
		metrics:   m,
		logger:    logger,
		now:       time.Now,
	}, nil
}

func (s *SessionService) Create(ctx context.Context) (*models.SessionToken, error) {
	now := s.now()
	sessionID := uuid.New().String()

	state := &models.SessionState{
		SessionID: sessionID,
		Status:    models.OTPStatusNoChallenge,
		CreatedAt: now,
		ExpiresAt: now.Add(s.expiry),
	}
	if err := s.store.Save(ctx, state); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	claims := &Claims{
		Type: tokenTypeSession,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sessionID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(state.ExpiresAt),
			ID:        uuid.New().String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secretKey)
	if err != nil {
		s.logger.WithError(err).Error("Failed to sign session token")
		return nil, fmt.Errorf("failed to sign session token: %w", err)
	}

	s.metrics.SessionsCreated.Inc()
	s.logger.WithField("session_id", sessionID).Info("Session created")

	return &models.SessionToken{
		SessionID: sessionID,
		Token:     signed,
		TokenType: "Bearer",
		ExpiresIn: int64(s.expiry.Seconds()),
	}, nil
}

// VerifyToken returns the session ID named by a valid token.
func (s *SessionService) VerifyToken(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secretKey, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidSessionToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Type != tokenTypeSession || claims.Subject == "" {
		return "", ErrInvalidSessionToken
	}

	return claims.Subject, nil
}

func (s *SessionService) End(ctx context.Context, sessionID string) error {
	if err := s.store.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to end session: %w", err)
	}
	s.logger.WithField("session_id", sessionID).Info("Session ended")
	return nil
}
