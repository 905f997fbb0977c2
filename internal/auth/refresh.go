package auth

import (
	"encoding/json"
	"log"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
)

const refreshTokenFile = "refresh_tokens.json"

const refreshTokenTTL = 7 * 24 * time.Hour

type refreshEntry struct {
	Username  string    `json:"username"`
	ExpiresAt time.Time `json:"expires_at"`
}

var (
	refreshTokenStore = map[string]refreshEntry{}
	loaded            bool
	mu                sync.Mutex
)

// NewRefreshToken issues a refresh token for the user and persists the
// store.
func NewRefreshToken(username string) string {
	mu.Lock()
	defer mu.Unlock()

	ensureLoaded()
	token := uuid.NewString()
	refreshTokenStore[token] = refreshEntry{
		Username:  username,
		ExpiresAt: time.Now().Add(refreshTokenTTL),
	}
	if err := saveRefreshTokens(); err != nil {
		log.Printf("failed to save refresh tokens: %v", err)
	}
	return token
}

// UsernameForToken resolves a refresh token to its user. Expired or
// unknown tokens report false.
func UsernameForToken(token string) (string, bool) {
	mu.Lock()
	defer mu.Unlock()

	ensureLoaded()
	entry, ok := refreshTokenStore[token]
	if !ok || time.Now().After(entry.ExpiresAt) {
		return "", false
	}
	return entry.Username, true
}

// StartRefreshTokenCleaner drops expired tokens on the given interval.
func StartRefreshTokenCleaner(interval time.Duration) {
	for {
		time.Sleep(interval)
		mu.Lock()
		ensureLoaded()
		now := time.Now()
		changed := false
		for token, entry := range refreshTokenStore {
			if now.After(entry.ExpiresAt) {
				delete(refreshTokenStore, token)
				changed = true
			}
		}
		if changed {
			if err := saveRefreshTokens(); err != nil {
				log.Printf("failed to save refresh tokens: %v", err)
			}
		}
		mu.Unlock()
	}
}

func ensureLoaded() {
	if loaded {
		return
	}
	loaded = true
	data, err := os.ReadFile(refreshTokenFile)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("error loading refresh token file: %v", err)
		}
		return
	}
	if err := json.Unmarshal(data, &refreshTokenStore); err != nil {
		log.Printf("error parsing refresh token file: %v", err)
		refreshTokenStore = map[string]refreshEntry{}
	}
}

func saveRefreshTokens() error {
	data, err := json.MarshalIndent(refreshTokenStore, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(refreshTokenFile, data, 0600)
}
