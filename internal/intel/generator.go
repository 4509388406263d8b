// Package intel produces ad intelligence documents from the Gemini API.
package intel

import (
	"context"

	"github.com/icemedialab/varta/internal/model"
)

// Generator turns a query into a report document.
type Generator interface {
	Generate(ctx context.Context, q model.Query) (*model.Document, error)
}

// KeySource supplies an API key that takes precedence over the configured
// one. An empty key means "not set".
type KeySource interface {
	APIKey(ctx context.Context) (string, error)
}
