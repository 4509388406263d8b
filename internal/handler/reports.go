package handler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/icemedialab/varta/internal/dashboard"
	appmw "github.com/icemedialab/varta/internal/middleware"
	"github.com/icemedialab/varta/internal/model"
	"github.com/icemedialab/varta/internal/report"
	"github.com/icemedialab/varta/internal/store"
)

type reportGenerator interface {
	Generate(ctx context.Context, q model.Query) (*model.Report, error)
	OpenReport(id string) (*model.Report, error)
	ClearReport()
	Snapshot() dashboard.State
}

type reportFinder interface {
	FindReport(ctx context.Context, email, id string) (*model.Report, error)
}

type ReportsHandler struct {
	BaseHandler
	dash    reportGenerator
	reports reportFinder
}

func NewReportsHandler(base BaseHandler, dash reportGenerator, reports reportFinder) *ReportsHandler {
	return &ReportsHandler{BaseHandler: base, dash: dash, reports: reports}
}

// Generate runs a new intelligence request for the signed-in user.
func (h *ReportsHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var q model.Query
	if err := h.readJSON(w, r, &q); err != nil {
		h.badRequestResponse(w, r, err)
		return
	}

	rep, err := h.dash.Generate(r.Context(), q)
	if err != nil {
		h.domainErrorResponse(w, r, err)
		return
	}

	headers := http.Header{"Location": []string{"/api/reports/" + rep.ID}}
	if err := h.writeJSON(w, http.StatusCreated, envelope{"report": rep}, headers); err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

// List returns the signed-in user's history, newest first.
func (h *ReportsHandler) List(w http.ResponseWriter, r *http.Request) {
	reports := appmw.UserFromContext(r.Context()).Reports
	if reports == nil {
		reports = []model.Report{}
	}

	if err := h.writeJSON(w, http.StatusOK, envelope{"reports": reports}, nil); err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

func (h *ReportsHandler) Get(w http.ResponseWriter, r *http.Request) {
	rep, ok := h.lookup(w, r)
	if !ok {
		return
	}
	if err := h.writeJSON(w, http.StatusOK, envelope{"report": rep}, nil); err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

// Open displays a report from history on the home screen.
func (h *ReportsHandler) Open(w http.ResponseWriter, r *http.Request) {
	rep, err := h.dash.OpenReport(chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			h.errorResponse(w, r, http.StatusNotFound, dashboard.MsgReportNotFound)
			return
		}
		h.domainErrorResponse(w, r, err)
		return
	}

	if err := h.writeJSON(w, http.StatusOK, envelope{"report": rep, "state": h.dash.Snapshot()}, nil); err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

// Markdown downloads a report as a Markdown document.
func (h *ReportsHandler) Markdown(w http.ResponseWriter, r *http.Request) {
	rep, ok := h.lookup(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := report.WriteMarkdown(&buf, rep); err != nil {
		h.serverErrorResponse(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="varta-%s.md"`, rep.ID))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// Clear drops the displayed report so a new strategy can be started.
func (h *ReportsHandler) Clear(w http.ResponseWriter, r *http.Request) {
	h.dash.ClearReport()

	if err := h.writeJSON(w, http.StatusOK, envelope{"state": h.dash.Snapshot()}, nil); err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

func (h *ReportsHandler) lookup(w http.ResponseWriter, r *http.Request) (*model.Report, bool) {
	user := appmw.UserFromContext(r.Context())
	rep, err := h.reports.FindReport(r.Context(), user.Email, chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			h.errorResponse(w, r, http.StatusNotFound, dashboard.MsgReportNotFound)
		} else {
			h.serverErrorResponse(w, r, err)
		}
		return nil, false
	}
	return rep, true
}
