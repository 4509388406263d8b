package dashboard

import (
	"errors"

	"github.com/icemedialab/varta/internal/intel"
	"github.com/icemedialab/varta/internal/store"
)

const (
	MsgEmailNotFound    = "Email not found. Please register as a new employee."
	MsgEmailRegistered  = "Email already registered."
	MsgGenerateFailed   = "Failed to generate intelligence report. Please check your network and try again."
	MsgInvalidFormat    = "The AI returned an invalid data format. Please try again."
	MsgQuotaExhausted   = "API quota exhausted. Provide an alternate API key to continue."
	MsgNoSession        = "Please sign in to continue."
	MsgBusy             = "A report is already being generated."
	MsgReportNotFound   = "Report not found."
	MsgEmployeeNotFound = "Employee not found."
)

// UserMessage maps an error onto the text shown to the user.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, store.ErrDuplicateEmail):
		return MsgEmailRegistered
	case errors.Is(err, store.ErrNoSession):
		return MsgNoSession
	case errors.Is(err, ErrBusy):
		return MsgBusy
	case errors.Is(err, intel.ErrQuotaExhausted):
		return MsgQuotaExhausted
	case errors.Is(err, intel.ErrInvalidFormat), errors.Is(err, intel.ErrEmptyResponse):
		return MsgInvalidFormat
	default:
		return MsgGenerateFailed
	}
}
