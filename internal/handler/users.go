package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/icemedialab/varta/internal/dashboard"
	"github.com/icemedialab/varta/internal/dto"
	appmw "github.com/icemedialab/varta/internal/middleware"
	"github.com/icemedialab/varta/internal/model"
	"github.com/icemedialab/varta/internal/store"
)

type navigator interface {
	ShowHome() error
	ShowProfile() error
	ShowDirectory(ctx context.Context) ([]model.User, error)
	ShowEmployee(ctx context.Context, email string) (*model.User, error)
	UpdateProfile(ctx context.Context, req dto.ProfileRequest) (*model.User, error)
	Snapshot() dashboard.State
}

// UsersHandler serves the directory, employee profiles and the signed-in
// user's own profile.
type UsersHandler struct {
	BaseHandler
	dash navigator
}

func NewUsersHandler(base BaseHandler, dash navigator) *UsersHandler {
	return &UsersHandler{BaseHandler: base, dash: dash}
}

// List returns the employee directory.
func (h *UsersHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.dash.ShowDirectory(r.Context())
	if err != nil {
		h.domainErrorResponse(w, r, err)
		return
	}
	if users == nil {
		users = []model.User{}
	}

	if err := h.writeJSON(w, http.StatusOK, envelope{"users": users}, nil); err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

// Get opens another employee's profile.
func (h *UsersHandler) Get(w http.ResponseWriter, r *http.Request) {
	employee, err := h.dash.ShowEmployee(r.Context(), chi.URLParam(r, "email"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			h.errorResponse(w, r, http.StatusNotFound, dashboard.MsgEmployeeNotFound)
			return
		}
		h.domainErrorResponse(w, r, err)
		return
	}

	if err := h.writeJSON(w, http.StatusOK, envelope{"user": employee}, nil); err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

func (h *UsersHandler) Profile(w http.ResponseWriter, r *http.Request) {
	if err := h.dash.ShowProfile(); err != nil {
		h.domainErrorResponse(w, r, err)
		return
	}

	user := appmw.UserFromContext(r.Context())
	if err := h.writeJSON(w, http.StatusOK, envelope{"user": user}, nil); err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

func (h *UsersHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req dto.ProfileRequest
	if err := h.readJSON(w, r, &req); err != nil {
		h.badRequestResponse(w, r, err)
		return
	}

	user, err := h.dash.UpdateProfile(r.Context(), req)
	if err != nil {
		h.domainErrorResponse(w, r, err)
		return
	}

	if err := h.writeJSON(w, http.StatusOK, envelope{"user": user}, nil); err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

// SetView switches the dashboard screen and returns the new state.
func (h *UsersHandler) SetView(w http.ResponseWriter, r *http.Request) {
	var req dto.ViewRequest
	if err := h.readJSON(w, r, &req); err != nil {
		h.badRequestResponse(w, r, err)
		return
	}
	if err := dto.Validate(req); err != nil {
		h.domainErrorResponse(w, r, err)
		return
	}

	var err error
	switch dashboard.View(req.View) {
	case dashboard.ViewHome:
		err = h.dash.ShowHome()
	case dashboard.ViewProfile:
		err = h.dash.ShowProfile()
	case dashboard.ViewDirectory:
		_, err = h.dash.ShowDirectory(r.Context())
	case dashboard.ViewEmployeeProfile:
		if req.Email == "" {
			h.errorResponse(w, r, http.StatusUnprocessableEntity, map[string]string{"email": "is required"})
			return
		}
		_, err = h.dash.ShowEmployee(r.Context(), req.Email)
	}
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			h.errorResponse(w, r, http.StatusNotFound, dashboard.MsgEmployeeNotFound)
			return
		}
		h.domainErrorResponse(w, r, err)
		return
	}

	if err := h.writeJSON(w, http.StatusOK, envelope{"state": h.dash.Snapshot()}, nil); err != nil {
		h.serverErrorResponse(w, r, err)
	}
}
