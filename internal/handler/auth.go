package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/icemedialab/varta/internal/dashboard"
	"github.com/icemedialab/varta/internal/dto"
	"github.com/icemedialab/varta/internal/model"
	"github.com/icemedialab/varta/internal/store"
)

type authenticator interface {
	Register(ctx context.Context, req dto.RegisterRequest) (*model.User, error)
	Login(ctx context.Context, email string) (*model.User, error)
	Logout(ctx context.Context) error
	Restore(ctx context.Context) (*model.User, error)
	Snapshot() dashboard.State
}

// AuthHandler handles registration and the workspace session.
type AuthHandler struct {
	BaseHandler
	dash authenticator
}

func NewAuthHandler(base BaseHandler, dash authenticator) *AuthHandler {
	return &AuthHandler{BaseHandler: base, dash: dash}
}

// Register creates an employee record and signs it in.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := h.readJSON(w, r, &req); err != nil {
		h.badRequestResponse(w, r, err)
		return
	}

	user, err := h.dash.Register(r.Context(), req)
	if err != nil {
		h.domainErrorResponse(w, r, err)
		return
	}

	if err := h.writeJSON(w, http.StatusCreated, envelope{"user": user}, nil); err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := h.readJSON(w, r, &req); err != nil {
		h.badRequestResponse(w, r, err)
		return
	}
	if err := dto.Validate(req); err != nil {
		h.domainErrorResponse(w, r, err)
		return
	}

	user, err := h.dash.Login(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			h.errorResponse(w, r, http.StatusNotFound, dashboard.MsgEmailNotFound)
			return
		}
		h.domainErrorResponse(w, r, err)
		return
	}

	if err := h.writeJSON(w, http.StatusOK, envelope{"user": user}, nil); err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.dash.Logout(r.Context()); err != nil {
		h.serverErrorResponse(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Session returns the dashboard state of the signed-in user.
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	if _, err := h.dash.Restore(r.Context()); err != nil {
		h.domainErrorResponse(w, r, err)
		return
	}

	if err := h.writeJSON(w, http.StatusOK, envelope{"state": h.dash.Snapshot()}, nil); err != nil {
		h.serverErrorResponse(w, r, err)
	}
}
