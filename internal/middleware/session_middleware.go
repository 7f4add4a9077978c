package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/qcom/passguard/internal/service"
	"github.com/sirupsen/logrus"
)

type contextKey string

const sessionIDKey contextKey = "session_id"

type SessionMiddleware struct {
	sessionService *service.SessionService
	logger         *logrus.Logger
}

func NewSessionMiddleware(sessionService *service.SessionService, logger *logrus.Logger) *SessionMiddleware {
	return &SessionMiddleware{
		sessionService: sessionService,
		logger:         logger,
	}
}

// RequireSession rejects requests without a valid bearer session token and
// stores the session ID in the request context.
func (m *SessionMiddleware) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			m.respondUnauthorized(w, "Missing authorization header")
			return
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			m.respondUnauthorized(w, "Invalid authorization header format")
			return
		}

		sessionID, err := m.sessionService.VerifyToken(parts[1])
		if err != nil {
			m.logger.WithError(err).Debug("Session token verification failed")
			m.respondUnauthorized(w, "Invalid or expired session token")
			return
		}

		next.ServeHTTP(w, r.WithContext(WithSessionID(r.Context(), sessionID)))
	})
}

func WithSessionID(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, sessionIDKey, sessionID)
}

func SessionIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(sessionIDKey).(string)
	return id, ok && id != ""
}

func (m *SessionMiddleware) respondUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"error":{"code":"UNAUTHORIZED","message":"` + message + `"}}`))
}
