package gateway

import (
	"strings"
	"sync"
)

// KeyStore holds the API key selected for video generation in this session.
// It doubles as the credential capability the outfit engine checks before
// starting a video.
type KeyStore struct {
	mu                 sync.RWMutex
	key                string
	selectionRequested bool
}

func NewKeyStore(initial string) *KeyStore {
	return &KeyStore{key: strings.TrimSpace(initial)}
}

func (k *KeyStore) HasUsableCredential() bool {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return k.key != ""
}

// PromptCredentialSelection drops the current key and flags that the user
// needs to pick a new one.
func (k *KeyStore) PromptCredentialSelection() {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.key = ""
	k.selectionRequested = true
}

// Select stores key as the session credential.
func (k *KeyStore) Select(key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return ErrEmptyKey
	}
	k.mu.Lock()
	defer k.mu.Unlock()
	k.key = key
	k.selectionRequested = false
	return nil
}

func (k *KeyStore) SelectionRequested() bool {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return k.selectionRequested
}

func (k *KeyStore) APIKey() (string, error) {
	k.mu.RLock()
	defer k.mu.RUnlock()
	if k.key == "" {
		return "", ErrNoCredential
	}
	return k.key, nil
}
