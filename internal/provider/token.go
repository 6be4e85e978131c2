package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// tokenRefreshMargin refreshes tokens this long before they expire, so a
// token handed out is always valid for the request that follows.
const tokenRefreshMargin = 60 * time.Second

// TokenCache owns the OAuth client-credentials token for a live API.
// It refreshes before expiry under a single writer; concurrent readers
// block only while a refresh is in flight. Injected into the live
// provider — there is no package-level token state.
type TokenCache struct {
	tokenURL string
	key      string
	secret   string
	client   *http.Client

	mu      sync.Mutex
	token   string
	expires time.Time
	now     func() time.Time // overridable in tests
}

// NewTokenCache creates a token cache for the given token endpoint.
func NewTokenCache(tokenURL, key, secret string, client *http.Client) *TokenCache {
	return &TokenCache{
		tokenURL: tokenURL,
		key:      key,
		secret:   secret,
		client:   client,
		now:      time.Now,
	}
}

// Token returns a valid access token, refreshing it when it is within the
// refresh margin of expiry.
func (t *TokenCache) Token(ctx context.Context) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.token != "" && t.now().Add(tokenRefreshMargin).Before(t.expires) {
		return t.token, nil
	}
	return t.refreshLocked(ctx)
}

func (t *TokenCache) refreshLocked(ctx context.Context) (string, error) {
	form := url.Values{
		"grant_type":    {"client_credentials"},
		"client_id":     {t.key},
		"client_secret": {t.secret},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := t.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("token request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("token request: status %d", resp.StatusCode)
	}

	var body struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("token decode: %w", err)
	}
	if body.AccessToken == "" {
		return "", fmt.Errorf("token response missing access_token")
	}
	if body.ExpiresIn <= 0 {
		body.ExpiresIn = 1799
	}

	t.token = body.AccessToken
	t.expires = t.now().Add(time.Duration(body.ExpiresIn) * time.Second)
	return t.token, nil
}
