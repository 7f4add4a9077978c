package handlers

import (
	"net/http"

	"github.com/qcom/passguard/internal/password"
	"github.com/qcom/passguard/internal/service"
	"github.com/sirupsen/logrus"
)

type PasswordHandlers struct {
	passwordService *service.PasswordService
	logger          *logrus.Logger
}

func NewPasswordHandlers(passwordService *service.PasswordService, logger *logrus.Logger) *PasswordHandlers {
	return &PasswordHandlers{
		passwordService: passwordService,
		logger:          logger,
	}
}

type EvaluateRequest struct {
	Password *string `json:"password" validate:"required"`
}

type GenerateRequest struct {
	Length *int `json:"length" validate:"omitempty,min=1,max=1024"`
}

type GenerateResponse struct {
	Password string `json:"password"`
	Length   int    `json:"length"`
}

// Evaluate accepts any string, including the empty one.
func (h *PasswordHandlers) Evaluate(w http.ResponseWriter, r *http.Request) {
	var req EvaluateRequest
	if err := decodeRequest(r, &req, false); err != nil {
		respondWithError(w, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, h.passwordService.Evaluate(*req.Password))
}

func (h *PasswordHandlers) Generate(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := decodeRequest(r, &req, true); err != nil {
		respondWithError(w, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	length := password.DefaultLength
	if req.Length != nil {
		length = *req.Length
	}

	pw, err := h.passwordService.Generate(length)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "INVALID_LENGTH", err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, GenerateResponse{
		Password: pw,
		Length:   length,
	})
}
