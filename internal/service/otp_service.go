package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/qcom/passguard/internal/metrics"
	"github.com/qcom/passguard/internal/models"
	"github.com/qcom/passguard/internal/otp"
	"github.com/qcom/passguard/internal/repository"
	"github.com/sirupsen/logrus"
)

var (
	ErrNoChallenge = errors.New("no OTP challenge is pending")
	ErrNoRecipient = errors.New("no recipient address")
)

// OTPService runs the verifier against the state stored for a session.
type OTPService struct {
	store            repository.SessionStore
	verifier         *otp.Verifier
	defaultRecipient string
	metrics          *metrics.Metrics
	logger           *logrus.Logger
}

func NewOTPService(store repository.SessionStore, verifier *otp.Verifier, defaultRecipient string, m *metrics.Metrics, logger *logrus.Logger) *OTPService {
	return &OTPService{
		store:            store,
		verifier:         verifier,
		defaultRecipient: defaultRecipient,
		metrics:          m,
		logger:           logger,
	}
}

// SendOTP issues a new code for the session and emails it to email, or to
// the configured recipient when email is empty. It reports whether delivery
// succeeded; a failed delivery still leaves the new code pending.
func (s *OTPService) SendOTP(ctx context.Context, sessionID, email string) (bool, error) {
	if email == "" {
		email = s.defaultRecipient
	}
	if email == "" {
		return false, ErrNoRecipient
	}

	session, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return false, err
	}

	next, code, err := s.verifier.Issue(stateOf(session), email)
	if err != nil {
		s.logger.WithError(err).Error("Failed to create OTP challenge")
		return false, err
	}

	// The challenge must be stored before the code is sent.
	apply(session, next)
	if err := s.store.Save(ctx, session); err != nil {
		return false, fmt.Errorf("failed to store OTP challenge: %w", err)
	}

	res := s.verifier.Deliver(ctx, email, code)

	log := s.logger.WithFields(logrus.Fields{
		"session_id":   sessionID,
		"challenge_id": next.Challenge.ID,
	})
	if !res.Sent {
		s.metrics.OTPSends.WithLabelValues(metrics.ResultFailure).Inc()
		log.WithError(res.Err).Warn("Failed to deliver OTP")
		return false, nil
	}

	s.metrics.OTPSends.WithLabelValues(metrics.ResultSuccess).Inc()
	log.Info("OTP sent")
	return true, nil
}

// VerifyOTP checks code against the pending challenge. ErrNoChallenge is
// returned when nothing is pending, including after a successful verify.
func (s *OTPService) VerifyOTP(ctx context.Context, sessionID, code string) (bool, error) {
	session, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return false, err
	}

	current := stateOf(session)
	if !current.HasChallenge() {
		return false, ErrNoChallenge
	}

	next, ok := s.verifier.Verify(current, code)

	log := s.logger.WithFields(logrus.Fields{
		"session_id":   sessionID,
		"challenge_id": current.Challenge.ID,
	})

	switch {
	case ok:
		s.metrics.OTPVerifications.WithLabelValues(metrics.ResultSuccess).Inc()
		log.Info("OTP verified")
	case !next.HasChallenge():
		s.metrics.OTPVerifications.WithLabelValues(metrics.ResultExpired).Inc()
		log.Info("OTP expired")
	default:
		s.metrics.OTPVerifications.WithLabelValues(metrics.ResultFailure).Inc()
		log.Debug("OTP mismatch")
		return false, nil
	}

	apply(session, next)
	if err := s.store.Save(ctx, session); err != nil {
		return false, fmt.Errorf("failed to update session: %w", err)
	}

	return ok, nil
}

func (s *OTPService) Status(ctx context.Context, sessionID string) (models.OTPStatus, error) {
	session, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return "", err
	}
	return session.Status, nil
}

func stateOf(session *models.SessionState) otp.State {
	return otp.State{Status: session.Status, Challenge: session.Challenge}
}

func apply(session *models.SessionState, state otp.State) {
	session.Status = state.Status
	session.Challenge = state.Challenge
}
