package fileconv

import (
	"os"
	"sync"
)

// CredentialKey names the reasoning service API key in a CredentialStore.
const CredentialKey = "api_key"

// CredentialStore looks up opaque secrets by key.
type CredentialStore interface {
	// Lookup returns the value for key; ok is false when it is not set.
	Lookup(key string) (value string, ok bool, err error)
}

// EnvCredentials resolves keys from environment variables, trying each
// variable listed for a key in order.
type EnvCredentials map[string][]string

// DefaultCredentials reads the API key from FILECONV_API_KEY, then GEMINI_API_KEY.
func DefaultCredentials() EnvCredentials {
	return EnvCredentials{CredentialKey: {"FILECONV_API_KEY", "GEMINI_API_KEY"}}
}

func (e EnvCredentials) Lookup(key string) (string, bool, error) {
	for _, name := range e[key] {
		if v := os.Getenv(name); v != "" {
			return v, true, nil
		}
	}
	return "", false, nil
}

// MapCredentials is an in-memory CredentialStore.
type MapCredentials struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMapCredentials returns a store holding a copy of values.
func NewMapCredentials(values map[string]string) *MapCredentials {
	m := &MapCredentials{values: make(map[string]string, len(values))}
	for k, v := range values {
		m.values[k] = v
	}
	return m
}

func (m *MapCredentials) Lookup(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok && v != "", nil
}

// Set stores value under key. An empty value clears it.
func (m *MapCredentials) Set(key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if value == "" {
		delete(m.values, key)
		return
	}
	m.values[key] = value
}

// ChainCredentials tries each store in order and returns the first hit.
type ChainCredentials []CredentialStore

func (c ChainCredentials) Lookup(key string) (string, bool, error) {
	for _, s := range c {
		if s == nil {
			continue
		}
		v, ok, err := s.Lookup(key)
		if err != nil {
			return "", false, err
		}
		if ok {
			return v, true, nil
		}
	}
	return "", false, nil
}
