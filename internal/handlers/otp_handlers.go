package handlers

import (
	"errors"
	"net/http"

	"github.com/qcom/passguard/internal/middleware"
	"github.com/qcom/passguard/internal/models"
	"github.com/qcom/passguard/internal/repository"
	"github.com/qcom/passguard/internal/service"
	"github.com/sirupsen/logrus"
)

type OTPHandlers struct {
	otpService *service.OTPService
	logger     *logrus.Logger
}

func NewOTPHandlers(otpService *service.OTPService, logger *logrus.Logger) *OTPHandlers {
	return &OTPHandlers{
		otpService: otpService,
		logger:     logger,
	}
}

type SendOTPRequest struct {
	Email string `json:"email" validate:"omitempty,email"`
}

type SendOTPResponse struct {
	Sent    bool   `json:"sent"`
	Message string `json:"message"`
}

type VerifyOTPRequest struct {
	Code string `json:"code" validate:"required,len=6,numeric"`
}

type VerifyOTPResponse struct {
	Verified bool `json:"verified"`
}

type OTPStatusResponse struct {
	Status models.OTPStatus `json:"status"`
}

func (h *OTPHandlers) Send(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := middleware.SessionIDFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Missing session")
		return
	}

	var req SendOTPRequest
	if err := decodeRequest(r, &req, true); err != nil {
		respondWithError(w, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	sent, err := h.otpService.SendOTP(r.Context(), sessionID, req.Email)
	if err != nil {
		h.respondWithServiceError(w, err, "OTP_SEND_FAILED", "Failed to send OTP")
		return
	}

	resp := SendOTPResponse{Sent: sent, Message: "OTP sent successfully"}
	if !sent {
		resp.Message = "Failed to deliver OTP; request a new one to retry"
	}
	respondWithJSON(w, http.StatusOK, resp)
}

func (h *OTPHandlers) Verify(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := middleware.SessionIDFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Missing session")
		return
	}

	var req VerifyOTPRequest
	if err := decodeRequest(r, &req, false); err != nil {
		respondWithError(w, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	valid, err := h.otpService.VerifyOTP(r.Context(), sessionID, req.Code)
	if err != nil {
		h.respondWithServiceError(w, err, "OTP_VERIFICATION_FAILED", "Failed to verify OTP")
		return
	}
	if !valid {
		respondWithError(w, http.StatusUnauthorized, "INVALID_OTP", "Invalid or expired OTP")
		return
	}

	respondWithJSON(w, http.StatusOK, VerifyOTPResponse{Verified: true})
}

func (h *OTPHandlers) Status(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := middleware.SessionIDFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Missing session")
		return
	}

	status, err := h.otpService.Status(r.Context(), sessionID)
	if err != nil {
		h.respondWithServiceError(w, err, "OTP_STATUS_FAILED", "Failed to read OTP status")
		return
	}

	respondWithJSON(w, http.StatusOK, OTPStatusResponse{Status: status})
}

func (h *OTPHandlers) respondWithServiceError(w http.ResponseWriter, err error, code, message string) {
	switch {
	case errors.Is(err, repository.ErrSessionNotFound):
		respondWithError(w, http.StatusUnauthorized, "SESSION_NOT_FOUND", "Session has ended or expired")
	case errors.Is(err, service.ErrNoRecipient):
		respondWithError(w, http.StatusBadRequest, "NO_RECIPIENT", "No email address given and none configured")
	case errors.Is(err, service.ErrNoChallenge):
		respondWithError(w, http.StatusConflict, "NO_CHALLENGE", "No OTP has been requested")
	default:
		h.logger.WithError(err).Error(message)
		respondWithError(w, http.StatusInternalServerError, code, message)
	}
}
