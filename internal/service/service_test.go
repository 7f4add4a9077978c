package service

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/qcom/passguard/internal/config"
	"github.com/qcom/passguard/internal/metrics"
	"github.com/qcom/passguard/internal/otp"
	"github.com/qcom/passguard/internal/repository"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "0123456789abcdef0123456789abcdef"

type captureSender struct {
	to    []string
	codes []string
	err   error
}

func (s *captureSender) Send(_ context.Context, to, code string) error {
	s.to = append(s.to, to)
	s.codes = append(s.codes, code)
	return s.err
}

func (s *captureSender) last() string {
	return s.codes[len(s.codes)-1]
}

type fixture struct {
	store    *repository.MemorySessionStore
	sender   *captureSender
	metrics  *metrics.Metrics
	sessions *SessionService
	otp      *OTPService
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newFixture(t *testing.T, opts ...otp.Option) *fixture {
	t.Helper()

	logger := quietLogger()
	store := repository.NewMemorySessionStore()
	sender := &captureSender{}
	m := metrics.New(prometheus.NewRegistry())

	sessions, err := NewSessionService(store, &config.SessionConfig{SecretKey: testSecret, Expiry: time.Hour}, m, logger)
	require.NoError(t, err)

	verifier := otp.NewVerifier(sender, otp.NewBcryptHasher(bcrypt.MinCost), opts...)

	return &fixture{
		store:    store,
		sender:   sender,
		metrics:  m,
		sessions: sessions,
		otp:      NewOTPService(store, verifier, "owner@example.com", m, logger),
	}
}

func (f *fixture) newSession(t *testing.T) string {
	t.Helper()
	tok, err := f.sessions.Create(context.Background())
	require.NoError(t, err)
	return tok.SessionID
}
