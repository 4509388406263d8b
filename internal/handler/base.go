package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/icemedialab/varta/internal/dashboard"
	"github.com/icemedialab/varta/internal/dto"
	"github.com/icemedialab/varta/internal/intel"
	"github.com/icemedialab/varta/internal/store"
)

// maxBodyBytes caps request bodies. It fits a query carrying the maximum
// 20000 runes of pasted ad copy.
const maxBodyBytes = 128 << 10

// envelope is the top-level shape of every JSON response.
type envelope map[string]any

// BaseHandler carries the response helpers shared by every handler in this
// package.
type BaseHandler struct {
	Logger *slog.Logger
}

func (h *BaseHandler) logError(r *http.Request, err error) {
	h.Logger.Error(err.Error(), "method", r.Method, "uri", r.URL.RequestURI())
}

// errorResponse writes {"error": message}. message is a string or, for
// validation failures, a field map.
func (h *BaseHandler) errorResponse(w http.ResponseWriter, r *http.Request, status int, message any) {
	if err := h.writeJSON(w, status, envelope{"error": message}, nil); err != nil {
		h.logError(r, err)
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func (h *BaseHandler) serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	h.logError(r, err)
	h.errorResponse(w, r, http.StatusInternalServerError,
		"the server encountered a problem and could not process your request")
}

func (h *BaseHandler) badRequestResponse(w http.ResponseWriter, r *http.Request, err error) {
	h.errorResponse(w, r, http.StatusBadRequest, err.Error())
}

// domainErrorResponse maps errors coming out of the dashboard and its
// collaborators onto status codes. Anything unrecognised is a 500.
func (h *BaseHandler) domainErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	var verr *dto.ValidationError
	switch {
	case errors.As(err, &verr):
		h.errorResponse(w, r, http.StatusUnprocessableEntity, verr.Fields)
	case errors.Is(err, store.ErrNoSession):
		h.errorResponse(w, r, http.StatusUnauthorized, dashboard.MsgNoSession)
	case errors.Is(err, store.ErrDuplicateEmail):
		h.errorResponse(w, r, http.StatusConflict, dashboard.MsgEmailRegistered)
	case errors.Is(err, dashboard.ErrBusy):
		h.errorResponse(w, r, http.StatusConflict, dashboard.MsgBusy)
	case errors.Is(err, store.ErrVaultDisabled):
		h.errorResponse(w, r, http.StatusServiceUnavailable, store.ErrVaultDisabled.Error())
	case errors.Is(err, intel.ErrMissingAPIKey):
		h.Logger.Warn("generate called without an API key")
		h.errorResponse(w, r, http.StatusServiceUnavailable, intel.ErrMissingAPIKey.Error())
	case errors.Is(err, intel.ErrQuotaExhausted):
		h.errorResponse(w, r, http.StatusTooManyRequests, dashboard.MsgQuotaExhausted)
	case errors.Is(err, intel.ErrInvalidFormat), errors.Is(err, intel.ErrEmptyResponse), errors.Is(err, intel.ErrUpstream):
		h.errorResponse(w, r, http.StatusBadGateway, dashboard.UserMessage(err))
	default:
		h.serverErrorResponse(w, r, err)
	}
}

func (h *BaseHandler) writeJSON(w http.ResponseWriter, status int, data any, headers http.Header) error {
	for k, v := range headers {
		for _, value := range v {
			w.Header().Add(k, value)
		}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

// readJSON decodes exactly one JSON object into dst, rejecting unknown
// fields and bodies over maxBodyBytes. Errors are safe to show to clients.
func (h *BaseHandler) readJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		return describeBodyError(err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.New("body must only contain a single JSON value")
	}
	return nil
}

func describeBodyError(err error) error {
	var (
		syntaxErr   *json.SyntaxError
		typeErr     *json.UnmarshalTypeError
		maxBytesErr *http.MaxBytesError
		invalidErr  *json.InvalidUnmarshalError
	)
	switch {
	case errors.As(err, &syntaxErr):
		return fmt.Errorf("body contains badly-formed JSON (at character %d)", syntaxErr.Offset)
	case errors.Is(err, io.ErrUnexpectedEOF):
		return errors.New("body contains badly-formed JSON")
	case errors.As(err, &typeErr) && typeErr.Field != "":
		return fmt.Errorf("body contains incorrect JSON type for field %q", typeErr.Field)
	case errors.As(err, &typeErr):
		return fmt.Errorf("body contains incorrect JSON type (at character %d)", typeErr.Offset)
	case errors.Is(err, io.EOF):
		return errors.New("body must not be empty")
	case errors.As(err, &maxBytesErr):
		return fmt.Errorf("body must not be larger than %d bytes", maxBytesErr.Limit)
	case errors.As(err, &invalidErr):
		panic(err)
	case strings.HasPrefix(err.Error(), "json: unknown field "):
		return fmt.Errorf("body contains unknown field %s", strings.TrimPrefix(err.Error(), "json: unknown field "))
	default:
		return err
	}
}
