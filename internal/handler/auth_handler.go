package handler

import (
	"errors"
	"net/http"

	"tablekart/internal/auth"
	"tablekart/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// AuthHandler handles the password recovery landing.
type AuthHandler struct {
	verifier *auth.Verifier
	logger   zerolog.Logger
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(verifier *auth.Verifier, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		verifier: verifier,
		logger:   logger.With().Str("handler", "auth").Logger(),
	}
}

type recoveryRequest struct {
	Fragment string `json:"fragment" validate:"required,max=8192"`
}

type recoveryResponse struct {
	UserID           uuid.UUID `json:"userId"`
	Email            string    `json:"email"`
	AccessToken      string    `json:"accessToken"`
	RefreshToken     string    `json:"refreshToken,omitempty"`
	ExpiresInSeconds int       `json:"expiresIn"`
}

// Recovery handles POST /api/auth/recovery. It validates the fragment of a
// password-reset link and returns the session it carries.
func (h *AuthHandler) Recovery(w http.ResponseWriter, r *http.Request) {
	var req recoveryRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	link, err := h.verifier.ParseRecoveryFragment(req.Fragment)
	if err != nil {
		if errors.Is(err, auth.ErrNotRecovery) {
			writeError(w, http.StatusBadRequest, model.ErrCodeValidation, "Not a password recovery link", h.logger)
			return
		}
		message := "Invalid or expired recovery link"
		if errors.Is(err, auth.ErrExpiredToken) {
			message = "Recovery link has expired"
		}
		writeError(w, http.StatusUnauthorized, model.ErrCodeUnauthorised, message, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, recoveryResponse{
		UserID:           link.Principal.UserID,
		Email:            link.Principal.Email,
		AccessToken:      link.AccessToken,
		RefreshToken:     link.RefreshToken,
		ExpiresInSeconds: int(link.ExpiresIn.Seconds()),
	})
}
