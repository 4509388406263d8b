package handler

import (
	"context"
	"net/http"

	"github.com/icemedialab/varta/internal/dto"
)

type apiKeyVault interface {
	SetAPIKey(ctx context.Context, apiKey string) error
	ClearAPIKey(ctx context.Context) error
}

// CredentialHandler stores the alternate Gemini API key used once the
// configured key runs out of quota.
type CredentialHandler struct {
	BaseHandler
	vault apiKeyVault
}

func NewCredentialHandler(base BaseHandler, vault apiKeyVault) *CredentialHandler {
	return &CredentialHandler{BaseHandler: base, vault: vault}
}

func (h *CredentialHandler) Set(w http.ResponseWriter, r *http.Request) {
	var req dto.CredentialRequest
	if err := h.readJSON(w, r, &req); err != nil {
		h.badRequestResponse(w, r, err)
		return
	}
	if err := dto.Validate(req); err != nil {
		h.domainErrorResponse(w, r, err)
		return
	}

	if err := h.vault.SetAPIKey(r.Context(), req.APIKey); err != nil {
		h.domainErrorResponse(w, r, err)
		return
	}
	h.Logger.Info("alternate API key stored")
	w.WriteHeader(http.StatusNoContent)
}

func (h *CredentialHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.vault.ClearAPIKey(r.Context()); err != nil {
		h.domainErrorResponse(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
