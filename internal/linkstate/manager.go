package linkstate

import (
	"fmt"
	"regexp"
	"sync"
)

// settings keys under which the credential is persisted
const (
	tokenKey    = "link_token"
	usernameKey = "link_username"
)

var codePattern = regexp.MustCompile(`^[A-Za-z0-9]{8}$`)

// ValidCode reports whether code has the 8-character alphanumeric link-code
// format. Checked locally before any network call.
func ValidCode(code string) bool {
	return codePattern.MatchString(code)
}

// Settings is the key/value persistence the manager stores credentials in
// (satisfied by persist.Gateway)
type Settings interface {
	GetSetting(key string) (value string, ok bool, err error)
	SetSetting(key, value string) error
	DeleteSetting(key string) error
}

// Manager holds the account-link credential: loaded once from settings,
// cached in memory, written through on change.
type Manager struct {
	settings Settings

	mu       sync.RWMutex
	token    string
	username string
}

// Load creates a manager and reads any persisted credential
func Load(settings Settings) (*Manager, error) {
	m := &Manager{settings: settings}

	token, ok, err := settings.GetSetting(tokenKey)
	if err != nil {
		return nil, fmt.Errorf("failed to load link credential: %w", err)
	}
	if ok {
		m.token = token
		if username, ok, err := settings.GetSetting(usernameKey); err == nil && ok {
			m.username = username
		}
	}
	return m, nil
}

// Linked reports whether a credential is present
func (m *Manager) Linked() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token != ""
}

// Token returns the bearer credential; ok is false when not linked
func (m *Manager) Token() (token string, ok bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token, m.token != ""
}

// Username returns the linked account name, if known
func (m *Manager) Username() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.username
}

// Link stores a freshly issued credential
func (m *Manager) Link(token, username string) error {
	if err := m.settings.SetSetting(tokenKey, token); err != nil {
		return err
	}
	if err := m.settings.SetSetting(usernameKey, username); err != nil {
		return err
	}

	m.mu.Lock()
	m.token = token
	m.username = username
	m.mu.Unlock()
	return nil
}

// Unlink discards the credential
func (m *Manager) Unlink() error {
	if err := m.settings.DeleteSetting(tokenKey); err != nil {
		return err
	}
	if err := m.settings.DeleteSetting(usernameKey); err != nil {
		return err
	}

	m.mu.Lock()
	m.token = ""
	m.username = ""
	m.mu.Unlock()
	return nil
}
