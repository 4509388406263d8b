package store

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/icemedialab/varta/internal/crypto"
	"github.com/icemedialab/varta/internal/storage"
)

// ErrVaultDisabled is returned when no vault secret is configured.
var ErrVaultDisabled = errors.New("credential vault is not configured")

type credential struct {
	APIKey    string    `json:"apiKey"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CredentialStore keeps the alternate Gemini API key, encrypted at rest.
// A nil crypter disables the vault.
type CredentialStore struct {
	backend storage.Backend
	crypter *crypto.Crypter
}

func NewCredentialStore(backend storage.Backend, crypter *crypto.Crypter) *CredentialStore {
	return &CredentialStore{backend: backend, crypter: crypter}
}

// Enabled reports whether a vault secret is configured.
func (s *CredentialStore) Enabled() bool {
	return s.crypter != nil
}

// APIKey returns the stored alternate key, or "" when none is set or the
// vault is disabled.
func (s *CredentialStore) APIKey(ctx context.Context) (string, error) {
	if s.crypter == nil {
		return "", nil
	}

	data, err := s.backend.Get(ctx, storage.KeyCredential)
	if errors.Is(err, storage.ErrNoEntry) {
		return "", nil
	}
	if err != nil {
		return "", err
	}

	plaintext, err := s.crypter.Decrypt(data)
	if err != nil {
		slog.Error("vault: decryption failed", "err", err)
		return "", err
	}
	var c credential
	if err := json.Unmarshal(plaintext, &c); err != nil {
		return "", err
	}
	return c.APIKey, nil
}

// SetAPIKey encrypts and persists the alternate key.
func (s *CredentialStore) SetAPIKey(ctx context.Context, apiKey string) error {
	if s.crypter == nil {
		return ErrVaultDisabled
	}
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return errors.New("api key must not be empty")
	}

	raw, err := json.Marshal(credential{APIKey: apiKey, UpdatedAt: time.Now().UTC()})
	if err != nil {
		return err
	}
	ciphertext, err := s.crypter.Encrypt(raw)
	if err != nil {
		return err
	}
	return s.backend.Set(ctx, storage.KeyCredential, ciphertext)
}

// ClearAPIKey removes the alternate key.
func (s *CredentialStore) ClearAPIKey(ctx context.Context) error {
	return s.backend.Delete(ctx, storage.KeyCredential)
}
