package api

import (
	"sync"
	"time"

	"ride-admin/internal/board/core/ports"
	"ride-admin/internal/mylogger"

	"github.com/golang-jwt/jwt"
)

// TokenCache holds the admin bearer credential, persisted through the prefs
// repo so a restart does not force a fresh login. The board holds no signing
// key, so expiry is read from the unverified claims only to decide whether
// the token is still worth presenting.
type TokenCache struct {
	mu    sync.RWMutex
	token string
	prefs ports.IPrefsRepo
	mylog mylogger.Logger
}

func NewTokenCache(prefs ports.IPrefsRepo, mylog mylogger.Logger) *TokenCache {
	tc := &TokenCache{prefs: prefs, mylog: mylog}

	cached, err := prefs.CachedToken()
	if err != nil {
		mylog.Action("token_cache_load_failed").Warn("starting without cached token", "error", err.Error())
		return tc
	}
	if cached != "" && tokenUsable(cached) {
		tc.token = cached
	}
	return tc
}

// Token returns the current credential, empty when none is usable.
func (tc *TokenCache) Token() string {
	tc.mu.RLock()
	defer tc.mu.RUnlock()

	return tc.token
}

// Set stores a fresh credential and persists it.
func (tc *TokenCache) Set(token string) {
	tc.mu.Lock()
	tc.token = token
	tc.mu.Unlock()

	if err := tc.prefs.SaveToken(token); err != nil {
		tc.mylog.Action("token_cache_save_failed").Warn("token not persisted", "error", err.Error())
	}
}

// Usable reports whether a credential is present and not expired.
func (tc *TokenCache) Usable() bool {
	return tokenUsable(tc.Token())
}

func tokenUsable(token string) bool {
	if token == "" {
		return false
	}

	claims := jwt.MapClaims{}
	if _, _, err := new(jwt.Parser).ParseUnverified(token, claims); err != nil {
		// Opaque (non-JWT) credentials are passed through as-is; the
		// server is the authority on their validity.
		return true
	}

	exp, ok := claims["exp"].(float64)
	if !ok {
		return true
	}
	return time.Now().UTC().Before(time.Unix(int64(exp), 0).UTC())
}
