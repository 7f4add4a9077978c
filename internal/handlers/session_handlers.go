package handlers

import (
	"net/http"

	"github.com/qcom/passguard/internal/middleware"
	"github.com/qcom/passguard/internal/service"
	"github.com/sirupsen/logrus"
)

type SessionHandlers struct {
	sessionService *service.SessionService
	logger         *logrus.Logger
}

func NewSessionHandlers(sessionService *service.SessionService, logger *logrus.Logger) *SessionHandlers {
	return &SessionHandlers{
		sessionService: sessionService,
		logger:         logger,
	}
}

func (h *SessionHandlers) Create(w http.ResponseWriter, r *http.Request) {
	token, err := h.sessionService.Create(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to create session")
		respondWithError(w, http.StatusInternalServerError, "SESSION_CREATION_FAILED", "Failed to create session")
		return
	}

	respondWithJSON(w, http.StatusCreated, token)
}

func (h *SessionHandlers) End(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := middleware.SessionIDFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Missing session")
		return
	}

	if err := h.sessionService.End(r.Context(), sessionID); err != nil {
		h.logger.WithError(err).Error("Failed to end session")
		respondWithError(w, http.StatusInternalServerError, "SESSION_END_FAILED", "Failed to end session")
		return
	}

	respondWithJSON(w, http.StatusOK, MessageResponse{Message: "Session ended"})
}
