package models

import "time"

// Token roles.
const (
	RoleAdmin = "admin"
	RoleRead  = "read"
)

// Token sources.
const (
	SourceEnv       = "env"
	SourceGenerated = "generated"
)

// TokenEntry is a stored admin credential. Hash is an algorithm-prefixed
// digest ("sha256:<hex>") of the secret. Entries with Source == "env" are
// immutable through the API; they change only via environment configuration
// and a restart. Token holds retained plaintext for not-yet-rotated legacy
// entries only, kept so the secret can still be revealed.
type TokenEntry struct {
	ID         string     `json:"id"`
	Hash       string     `json:"hash,omitempty"`
	Role       string     `json:"role"`
	Label      string     `json:"label,omitempty"`
	Source     string     `json:"source"`
	CreatedAt  time.Time  `json:"createdAt"`
	LastUsedAt *time.Time `json:"lastUsedAt"`
	Legacy     bool       `json:"legacy,omitempty"`
	Token      string     `json:"token,omitempty"`
}

// TokenStore is the on-disk shape of the credential file.
type TokenStore struct {
	Tokens    []*TokenEntry `json:"tokens"`
	UpdatedAt *time.Time    `json:"updatedAt"`
}

// TokenMeta is the sanitized listing shape: no hash, no plaintext.
type TokenMeta struct {
	ID         string     `json:"id"`
	Role       string     `json:"role"`
	Label      string     `json:"label,omitempty"`
	Source     string     `json:"source"`
	CreatedAt  time.Time  `json:"createdAt"`
	LastUsedAt *time.Time `json:"lastUsedAt"`
	Legacy     bool       `json:"legacy"`
}

// Meta returns the sanitized view of the entry.
func (t *TokenEntry) Meta() TokenMeta {
	return TokenMeta{
		ID:         t.ID,
		Role:       t.Role,
		Label:      t.Label,
		Source:     t.Source,
		CreatedAt:  t.CreatedAt,
		LastUsedAt: t.LastUsedAt,
		Legacy:     t.Legacy,
	}
}
