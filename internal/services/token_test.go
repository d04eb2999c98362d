package services

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mailstudio/internal/apperrors"
	"mailstudio/internal/models"
)

func newTestTokenService(t *testing.T, primary, secondary string) *TokenService {
	t.Helper()
	return NewTokenService(filepath.Join(t.TempDir(), "admin_tokens.json"), "sha256", primary, secondary)
}

func TestHashTokenDeterministic(t *testing.T) {
	a := HashToken("secret", "sha256")
	b := HashToken("secret", "sha256")
	assert.Equal(t, a, b)
	assert.True(t, strings.HasPrefix(a, "sha256:"))

	other := HashToken("different", "sha256")
	assert.NotEqual(t, a, other)
}

func TestHashTokenAlgorithmPrefix(t *testing.T) {
	assert.True(t, strings.HasPrefix(HashToken("s", "sha512"), "sha512:"))
	assert.True(t, strings.HasPrefix(HashToken("s", "sha1"), "sha1:"))
	assert.True(t, strings.HasPrefix(HashToken("s", "sha3-256"), "sha3-256:"))
	// Unknown algorithm falls back to the default digest.
	assert.Equal(t, strings.TrimPrefix(HashToken("s", "sha256"), "sha256:"),
		strings.TrimPrefix(HashToken("s", "unknown"), "unknown:"))
}

func TestGenerateTokenShape(t *testing.T) {
	tok, err := GenerateToken()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(tok, "tok_"))
	assert.Len(t, tok, 4+48)

	other, err := GenerateToken()
	require.NoError(t, err)
	assert.NotEqual(t, tok, other)
}

func TestSyncEnvTokensSeedsAndIsIdempotent(t *testing.T) {
	svc := newTestTokenService(t, "primary-secret", "secondary-secret")
	require.NoError(t, svc.SyncEnvTokens())
	require.NoError(t, svc.SyncEnvTokens())

	store, err := svc.Load()
	require.NoError(t, err)
	require.Len(t, store.Tokens, 2)
	assert.Equal(t, "seed_primary", store.Tokens[0].ID)
	assert.Equal(t, models.RoleAdmin, store.Tokens[0].Role)
	assert.Equal(t, models.SourceEnv, store.Tokens[0].Source)
	assert.Equal(t, "seed_secondary", store.Tokens[1].ID)
}

func TestAuthenticateNotConfigured(t *testing.T) {
	svc := newTestTokenService(t, "", "")
	_, err := svc.Authenticate("anything")
	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, http.StatusInternalServerError, appErr.Code)
}

func TestAuthenticateMatchUpdatesLastUsed(t *testing.T) {
	svc := newTestTokenService(t, "primary-secret", "")
	require.NoError(t, svc.SyncEnvTokens())

	entry, err := svc.Authenticate("primary-secret")
	require.NoError(t, err)
	assert.Equal(t, "seed_primary", entry.ID)
	require.NotNil(t, entry.LastUsedAt)

	// Persisted, not just in-memory.
	store, err := svc.Load()
	require.NoError(t, err)
	require.NotNil(t, store.Tokens[0].LastUsedAt)
}

func TestAuthenticateRejectsUnknownSecret(t *testing.T) {
	svc := newTestTokenService(t, "primary-secret", "")
	require.NoError(t, svc.SyncEnvTokens())

	_, err := svc.Authenticate("wrong-secret")
	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, http.StatusUnauthorized, appErr.Code)
}

func TestLegacyPlaintextMigration(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "admin_tokens.json")
	raw := `{"tokens":[{"id":"old_1","token":"legacy-secret","role":"admin","label":"Old","source":"generated","createdAt":"2023-01-01T00:00:00Z","lastUsedAt":null}],"updatedAt":null}`
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))

	svc := NewTokenService(path, "sha256", "", "")
	store, err := svc.Load()
	require.NoError(t, err)
	require.Len(t, store.Tokens, 1)
	entry := store.Tokens[0]
	assert.Equal(t, HashToken("legacy-secret", "sha256"), entry.Hash)
	assert.True(t, entry.Legacy)
	assert.Equal(t, "legacy-secret", entry.Token, "plaintext retained for reveal")

	// Migration was persisted.
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var onDisk models.TokenStore
	require.NoError(t, json.Unmarshal(data, &onDisk))
	assert.Equal(t, entry.Hash, onDisk.Tokens[0].Hash)

	// The migrated entry still authenticates.
	got, err := svc.Authenticate("legacy-secret")
	require.NoError(t, err)
	assert.Equal(t, "old_1", got.ID)
}

func TestCreateListReveal(t *testing.T) {
	svc := newTestTokenService(t, "primary-secret", "")
	require.NoError(t, svc.SyncEnvTokens())

	entry, plain, err := svc.Create(models.RoleRead, "CI reader")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(plain, "tok_"))
	assert.Equal(t, models.SourceGenerated, entry.Source)
	assert.Empty(t, entry.Token, "plaintext is never stored for generated tokens")

	metas, err := svc.List()
	require.NoError(t, err)
	require.Len(t, metas, 2)
	assert.Equal(t, models.RoleRead, metas[1].Role)

	// Generated tokens are hash-only, so reveal is rejected.
	_, err = svc.Reveal(entry.ID)
	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, http.StatusBadRequest, appErr.Code)

	got, err := svc.Authenticate(plain)
	require.NoError(t, err)
	assert.Equal(t, entry.ID, got.ID)
}

func TestCreateRejectsInvalidRole(t *testing.T) {
	svc := newTestTokenService(t, "primary-secret", "")
	require.NoError(t, svc.SyncEnvTokens())
	_, _, err := svc.Create("superuser", "")
	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, http.StatusBadRequest, appErr.Code)
}

func TestRotateGeneratedToken(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "admin_tokens.json")
	raw := `{"tokens":[{"id":"old_1","token":"legacy-secret","role":"admin","source":"generated","createdAt":"2023-01-01T00:00:00Z","lastUsedAt":"2023-06-01T00:00:00Z"}],"updatedAt":null}`
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))
	svc := NewTokenService(path, "sha256", "", "")

	entry, plain, oldEndsWith, err := svc.Rotate("old_1")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(plain, "tok_"))
	assert.Equal(t, "secret", oldEndsWith)
	assert.Empty(t, entry.Token)
	assert.False(t, entry.Legacy)
	assert.Nil(t, entry.LastUsedAt)

	// Old secret no longer works, new one does.
	_, err = svc.Authenticate("legacy-secret")
	require.Error(t, err)
	got, err := svc.Authenticate(plain)
	require.NoError(t, err)
	assert.Equal(t, "old_1", got.ID)

	// After rotation the plaintext is gone, so reveal fails.
	_, err = svc.Reveal("old_1")
	require.Error(t, err)
}

func TestEnvTokensRejectRotateAndDelete(t *testing.T) {
	svc := newTestTokenService(t, "primary-secret", "")
	require.NoError(t, svc.SyncEnvTokens())

	_, _, _, err := svc.Rotate("seed_primary")
	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, http.StatusBadRequest, appErr.Code)

	err = svc.Delete("seed_primary")
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, http.StatusBadRequest, appErr.Code)
}

func TestDeleteGeneratedToken(t *testing.T) {
	svc := newTestTokenService(t, "primary-secret", "")
	require.NoError(t, svc.SyncEnvTokens())
	entry, plain, err := svc.Create(models.RoleAdmin, "temp")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(entry.ID))
	_, err = svc.Authenticate(plain)
	require.Error(t, err)

	err = svc.Delete(entry.ID)
	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, http.StatusNotFound, appErr.Code)
}
