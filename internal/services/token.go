package services

import (
	"crypto/rand"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"hash"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/crypto/sha3"

	"mailstudio/internal/apperrors"
	"mailstudio/internal/logger"
	"mailstudio/internal/models"
	"mailstudio/internal/storage"
)

// DefaultHashAlgo is used when no algorithm is configured or the configured
// one is unknown.
const DefaultHashAlgo = "sha256"

// TokenService manages the admin credential store: a single JSON object file
// holding hashed token entries, rewritten wholesale via atomic replace.
type TokenService struct {
	path      string
	algo      string
	primary   string // env-configured shared secrets, may be empty
	secondary string
}

// NewTokenService creates a TokenService over the store file at path. primary
// and secondary are the environment-configured shared secrets; empty means
// not configured.
func NewTokenService(path, algo, primary, secondary string) *TokenService {
	if algo == "" {
		algo = DefaultHashAlgo
	}
	return &TokenService{path: path, algo: algo, primary: primary, secondary: secondary}
}

func newDigest(algo string) hash.Hash {
	switch algo {
	case "sha512":
		return sha512.New()
	case "sha1":
		return sha1.New()
	case "sha3-256":
		return sha3.New256()
	default:
		return sha256.New()
	}
}

// HashToken returns "<algo>:<hex digest>" of the secret. The prefix
// disambiguates algorithms so stored hashes survive a future migration.
func HashToken(secret, algo string) string {
	if algo == "" {
		algo = DefaultHashAlgo
	}
	h := newDigest(algo)
	h.Write([]byte(secret))
	return algo + ":" + hex.EncodeToString(h.Sum(nil))
}

// GenerateToken produces a high-entropy secret with a recognizable prefix.
// The value is shown exactly once at creation or rotation time.
func GenerateToken() (string, error) {
	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return "tok_" + hex.EncodeToString(buf), nil
}

func constantTimeEquals(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

func (s *TokenService) hash(secret string) string {
	return HashToken(secret, s.algo)
}

// Configured reports whether any credential source exists: a store file on
// disk or an environment-configured secret.
func (s *TokenService) Configured() bool {
	if s.primary != "" || s.secondary != "" {
		return true
	}
	_, err := os.Stat(s.path)
	return err == nil
}

// Load reads the store, migrating any legacy plaintext-only entry in place:
// the hash is computed, the legacy flag set and the plaintext retained so the
// secret stays revealable until the entry is rotated or deleted.
func (s *TokenService) Load() (*models.TokenStore, error) {
	store := &models.TokenStore{Tokens: []*models.TokenEntry{}}
	data, err := os.ReadFile(s.path)
	if err == nil {
		if err := json.Unmarshal(data, store); err != nil {
			return nil, fmt.Errorf("failed to parse token store: %w", err)
		}
	}
	if store.Tokens == nil {
		store.Tokens = []*models.TokenEntry{}
	}

	changed := false
	for _, t := range store.Tokens {
		if t.Hash == "" && t.Token != "" {
			t.Hash = s.hash(t.Token)
			t.Legacy = true
			changed = true
		}
	}
	if changed {
		if err := s.save(store); err != nil {
			return nil, err
		}
	}
	return store, nil
}

func (s *TokenService) save(store *models.TokenStore) error {
	now := time.Now().UTC()
	store.UpdatedAt = &now
	data, err := json.MarshalIndent(store, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode token store: %w", err)
	}
	return storage.AtomicWrite(s.path, data)
}

// SyncEnvTokens ensures entries exist for the environment-configured secrets.
// Seeding is idempotent: an entry whose hash already matches is left alone.
func (s *TokenService) SyncEnvTokens() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create data dir: %w", err)
	}
	store, err := s.Load()
	if err != nil {
		return err
	}
	existing := make(map[string]struct{}, len(store.Tokens))
	for _, t := range store.Tokens {
		existing[t.Hash] = struct{}{}
	}
	now := time.Now().UTC()
	seed := func(id, label, secret string) {
		h := s.hash(secret)
		if _, ok := existing[h]; ok {
			return
		}
		store.Tokens = append(store.Tokens, &models.TokenEntry{
			ID:        id,
			Hash:      h,
			Role:      models.RoleAdmin,
			Label:     label,
			Source:    models.SourceEnv,
			CreatedAt: now,
		})
		existing[h] = struct{}{}
	}
	if s.primary != "" {
		seed("seed_primary", "Primary (env)", s.primary)
	}
	if s.secondary != "" {
		seed("seed_secondary", "Secondary (env)", s.secondary)
	}
	return s.save(store)
}

// Authenticate resolves a presented secret to its entry. The comparison is
// constant-time over the algorithm-prefixed hashes; unmigrated legacy entries
// additionally match on retained plaintext. On success the entry's lastUsedAt
// is updated best-effort: a persistence failure is logged, never surfaced.
func (s *TokenService) Authenticate(raw string) (*models.TokenEntry, error) {
	if !s.Configured() {
		return nil, apperrors.NotConfigured("ADMIN_TOKEN not configured on server")
	}
	store, err := s.Load()
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	inHash := s.hash(raw)
	var match *models.TokenEntry
	for _, t := range store.Tokens {
		if (t.Hash != "" && constantTimeEquals(t.Hash, inHash)) ||
			(t.Token != "" && constantTimeEquals(t.Token, raw)) {
			match = t
			break
		}
	}
	if match == nil {
		return nil, apperrors.Unauthorized("Unauthorized")
	}
	now := time.Now().UTC()
	match.LastUsedAt = &now
	if err := s.save(store); err != nil {
		logger.Warn("failed to persist lastUsedAt", "tokenId", match.ID, "error", err)
	}
	return match, nil
}

// List returns sanitized metadata for every entry.
func (s *TokenService) List() ([]models.TokenMeta, error) {
	store, err := s.Load()
	if err != nil {
		return nil, err
	}
	metas := make([]models.TokenMeta, 0, len(store.Tokens))
	for _, t := range store.Tokens {
		metas = append(metas, t.Meta())
	}
	return metas, nil
}

// Create generates a new token entry. The plaintext is returned once and only
// its hash is stored.
func (s *TokenService) Create(role, label string) (*models.TokenEntry, string, error) {
	if role != models.RoleAdmin && role != models.RoleRead {
		return nil, "", apperrors.Validation("invalid role")
	}
	store, err := s.Load()
	if err != nil {
		return nil, "", err
	}
	plain, err := GenerateToken()
	if err != nil {
		return nil, "", err
	}
	entry := &models.TokenEntry{
		ID:        models.GenID("tok"),
		Hash:      s.hash(plain),
		Role:      role,
		Label:     label,
		Source:    models.SourceGenerated,
		CreatedAt: time.Now().UTC(),
	}
	store.Tokens = append(store.Tokens, entry)
	if err := s.save(store); err != nil {
		return nil, "", err
	}
	return entry, plain, nil
}

// Reveal returns the entry when it still retains plaintext (legacy only).
func (s *TokenService) Reveal(id string) (*models.TokenEntry, error) {
	store, err := s.Load()
	if err != nil {
		return nil, err
	}
	entry := findToken(store, id)
	if entry == nil {
		return nil, apperrors.NotFound("not found")
	}
	if entry.Token == "" {
		return nil, apperrors.Validation("unrevealable")
	}
	return entry, nil
}

// Rotate replaces the entry's secret with a fresh one, dropping any retained
// plaintext. Env-sourced entries cannot be rotated through the API. Returns
// the new plaintext and, when the old plaintext was still known, its last six
// characters as a handle for operators.
func (s *TokenService) Rotate(id string) (*models.TokenEntry, string, string, error) {
	store, err := s.Load()
	if err != nil {
		return nil, "", "", err
	}
	entry := findToken(store, id)
	if entry == nil {
		return nil, "", "", apperrors.NotFound("not found")
	}
	if entry.Source == models.SourceEnv {
		return nil, "", "", apperrors.Validation("cannot rotate env token (change env var instead)")
	}
	plain, err := GenerateToken()
	if err != nil {
		return nil, "", "", err
	}
	oldEndsWith := ""
	if n := len(entry.Token); n >= 6 {
		oldEndsWith = entry.Token[n-6:]
	}
	entry.Hash = s.hash(plain)
	entry.Token = ""
	entry.Legacy = false
	entry.LastUsedAt = nil
	if err := s.save(store); err != nil {
		return nil, "", "", err
	}
	return entry, plain, oldEndsWith, nil
}

// Delete removes a generated entry. Env-sourced entries cannot be deleted
// through the API.
func (s *TokenService) Delete(id string) error {
	store, err := s.Load()
	if err != nil {
		return err
	}
	for i, t := range store.Tokens {
		if t.ID == id {
			if t.Source == models.SourceEnv {
				return apperrors.Validation("cannot delete env token")
			}
			store.Tokens = append(store.Tokens[:i], store.Tokens[i+1:]...)
			return s.save(store)
		}
	}
	return apperrors.NotFound("not found")
}

func findToken(store *models.TokenStore, id string) *models.TokenEntry {
	for _, t := range store.Tokens {
		if t.ID == id {
			return t
		}
	}
	return nil
}
