package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/qcom/passguard/internal/config"
	"github.com/qcom/passguard/internal/metrics"
	"github.com/qcom/passguard/internal/middleware"
	"github.com/qcom/passguard/internal/models"
	"github.com/qcom/passguard/internal/otp"
	"github.com/qcom/passguard/internal/repository"
	"github.com/qcom/passguard/internal/service"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type stubSender struct {
	to   string
	code string
	err  error
}

func (s *stubSender) Send(_ context.Context, to, code string) error {
	s.to = to
	s.code = code
	return s.err
}

type testServer struct {
	router *mux.Router
	sender *stubSender
}

func newTestServer(t *testing.T, defaultRecipient string) *testServer {
	t.Helper()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	store := repository.NewMemorySessionStore()
	sender := &stubSender{}

	sessions, err := service.NewSessionService(store, &config.SessionConfig{
		SecretKey: "0123456789abcdef0123456789abcdef",
		Expiry:    time.Hour,
	}, m, logger)
	require.NoError(t, err)

	verifier := otp.NewVerifier(sender, otp.NewBcryptHasher(bcrypt.MinCost))

	rt := &Router{
		Sessions:          NewSessionHandlers(sessions, logger),
		Passwords:         NewPasswordHandlers(service.NewPasswordService(m, logger), logger),
		OTP:               NewOTPHandlers(service.NewOTPService(store, verifier, defaultRecipient, m, logger), logger),
		SessionMiddleware: middleware.NewSessionMiddleware(sessions, logger),
		Metrics:           promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
	}

	return &testServer{router: rt.Build(logger), sender: sender}
}

func (s *testServer) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) newSession(t *testing.T) string {
	t.Helper()
	rec := s.do(http.MethodPost, "/api/v1/sessions", "", nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	var tok models.SessionToken
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&tok))
	assert.Equal(t, "Bearer", tok.TokenType)
	require.NotEmpty(t, tok.Token)
	return tok.Token
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorDetail {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp.Error
}

func TestHealth(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, "")

	rec := s.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestPreflight(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, "")

	rec := s.do(http.MethodOptions, "/api/v1/otp/send", "", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestEvaluate(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, "")

	rec := s.do(http.MethodPost, "/api/v1/password/evaluate", "", map[string]string{"password": "Tr0ub4dor&3xyzQ!"})
	require.Equal(t, http.StatusOK, rec.Code)

	var res models.StrengthResult
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&res))
	assert.Equal(t, 5, res.Score)
	assert.Equal(t, models.RatingStrong, res.Rating)

	rec = s.do(http.MethodPost, "/api/v1/password/evaluate", "", map[string]string{"password": ""})
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&res))
	assert.Equal(t, models.RatingWeak, res.Rating)

	rec = s.do(http.MethodPost, "/api/v1/password/evaluate", "", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_REQUEST", decodeError(t, rec).Code)
}

func TestGenerate(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, "")

	tests := []struct {
		name   string
		body   interface{}
		status int
		length int
	}{
		{name: "default", body: nil, status: http.StatusOK, length: 16},
		{name: "explicit", body: map[string]int{"length": 40}, status: http.StatusOK, length: 40},
		{name: "zero", body: map[string]int{"length": 0}, status: http.StatusBadRequest},
		{name: "too long", body: map[string]int{"length": 5000}, status: http.StatusBadRequest},
		{name: "unknown field", body: map[string]int{"size": 3}, status: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(http.MethodPost, "/api/v1/password/generate", "", tt.body)
			require.Equal(t, tt.status, rec.Code)
			if tt.status != http.StatusOK {
				return
			}
			var resp GenerateResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
			assert.Equal(t, tt.length, resp.Length)
			assert.Len(t, []rune(resp.Password), tt.length)
		})
	}
}

func TestOTPRequiresSession(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, "")

	rec := s.do(http.MethodPost, "/api/v1/otp/send", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "UNAUTHORIZED", decodeError(t, rec).Code)

	rec = s.do(http.MethodPost, "/api/v1/otp/send", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestOTPFlow(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, "owner@example.com")
	token := s.newSession(t)

	rec := s.do(http.MethodPost, "/api/v1/otp/verify", token, map[string]string{"code": "123456"})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "NO_CHALLENGE", decodeError(t, rec).Code)

	rec = s.do(http.MethodPost, "/api/v1/otp/send", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var sendResp SendOTPResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&sendResp))
	assert.True(t, sendResp.Sent)
	assert.Equal(t, "owner@example.com", s.sender.to)

	rec = s.do(http.MethodGet, "/api/v1/otp/status", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var status OTPStatusResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&status))
	assert.Equal(t, models.OTPStatusPending, status.Status)

	wrong := "000000"
	if s.sender.code == wrong {
		wrong = "111111"
	}
	rec = s.do(http.MethodPost, "/api/v1/otp/verify", token, map[string]string{"code": wrong})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "INVALID_OTP", decodeError(t, rec).Code)

	rec = s.do(http.MethodPost, "/api/v1/otp/verify", token, map[string]string{"code": "12ab"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodPost, "/api/v1/otp/verify", token, map[string]string{"code": s.sender.code})
	require.Equal(t, http.StatusOK, rec.Code)
	var verifyResp VerifyOTPResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&verifyResp))
	assert.True(t, verifyResp.Verified)

	rec = s.do(http.MethodDelete, "/api/v1/sessions", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(http.MethodGet, "/api/v1/otp/status", token, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "SESSION_NOT_FOUND", decodeError(t, rec).Code)
}

func TestOTPSendExplicitRecipient(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, "")
	token := s.newSession(t)

	rec := s.do(http.MethodPost, "/api/v1/otp/send", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "NO_RECIPIENT", decodeError(t, rec).Code)

	rec = s.do(http.MethodPost, "/api/v1/otp/send", token, map[string]string{"email": "not-an-email"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodPost, "/api/v1/otp/send", token, map[string]string{"email": "user@example.com"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user@example.com", s.sender.to)
}

func TestOTPSendDeliveryFailure(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, "owner@example.com")
	s.sender.err = errors.New("connection refused")
	token := s.newSession(t)

	rec := s.do(http.MethodPost, "/api/v1/otp/send", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp SendOTPResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.False(t, resp.Sent)
}

func TestMetricsEndpoint(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, "")
	s.newSession(t)

	rec := s.do(http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "passguard_sessions_created_total 1")
}
