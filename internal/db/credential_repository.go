package db

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tiebago/tieba/internal/logging"
)

// credentialSlot is the single row holding the session token pair. One
// login per database; switching accounts replaces the slot.
const credentialSlot = "default"

// CredentialRepository persists the JWT token pair and a stable device id.
// Tokens are cached in memory so the transport can read them per request
// without hitting the database.
type CredentialRepository struct {
	db *DB

	mu       sync.RWMutex
	access   string
	refresh  string
	deviceID string
}

// NewCredentialRepository loads (or creates) the credential slot.
func NewCredentialRepository(db *DB) (*CredentialRepository, error) {
	r := &CredentialRepository{db: db}

	row := db.conn.QueryRow(`SELECT device_id, access_token, refresh_token FROM credentials WHERE slot = ?`, credentialSlot)
	err := row.Scan(&r.deviceID, &r.access, &r.refresh)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		r.deviceID = uuid.New().String()
		if _, err := db.conn.Exec(
			`INSERT INTO credentials (slot, device_id, access_token, refresh_token, updated_at) VALUES (?, ?, '', '', ?)`,
			credentialSlot, r.deviceID, time.Now().UTC().Format(time.RFC3339),
		); err != nil {
			return nil, fmt.Errorf("failed to create credential slot: %w", err)
		}
	case err != nil:
		return nil, fmt.Errorf("failed to load credentials: %w", err)
	}

	return r, nil
}

// DeviceID returns the stable per-installation identifier.
func (r *CredentialRepository) DeviceID() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.deviceID
}

// SetTokens stores a new token pair.
func (r *CredentialRepository) SetTokens(access, refresh string) error {
	r.mu.Lock()
	r.access = access
	r.refresh = refresh
	r.mu.Unlock()

	_, err := r.db.conn.Exec(
		`UPDATE credentials SET access_token = ?, refresh_token = ?, updated_at = ? WHERE slot = ?`,
		access, refresh, time.Now().UTC().Format(time.RFC3339), credentialSlot,
	)
	if err != nil {
		return fmt.Errorf("failed to persist tokens: %w", err)
	}
	return nil
}

// Token returns the access token, empty when logged out.
func (r *CredentialRepository) Token() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.access
}

// RefreshToken returns the refresh token, empty when logged out.
func (r *CredentialRepository) RefreshToken() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.refresh
}

// Clear drops both tokens, ending the session. Must not fail; a
// persistence error only logs.
func (r *CredentialRepository) Clear() {
	r.mu.Lock()
	r.access = ""
	r.refresh = ""
	r.mu.Unlock()

	_, err := r.db.conn.Exec(
		`UPDATE credentials SET access_token = '', refresh_token = '', updated_at = ? WHERE slot = ?`,
		time.Now().UTC().Format(time.RFC3339), credentialSlot,
	)
	if err != nil {
		log := logging.Component("db")
		log.Warn().Err(err).Msg("clearing stored credentials")
	}
}

// ExpireToken drops only the access token, keeping the refresh token so
// the session can be renewed. Invoked by the transport on a 401, so it
// must not fail; a persistence error only logs.
func (r *CredentialRepository) ExpireToken() {
	r.mu.Lock()
	r.access = ""
	r.mu.Unlock()

	_, err := r.db.conn.Exec(
		`UPDATE credentials SET access_token = '', updated_at = ? WHERE slot = ?`,
		time.Now().UTC().Format(time.RFC3339), credentialSlot,
	)
	if err != nil {
		log := logging.Component("db")
		log.Warn().Err(err).Msg("expiring access token")
	}
}
