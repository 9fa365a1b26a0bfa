// Backend account client.
//
// The CLI talks to its own backend the same way the web frontend does:
// session token in the Authorization header, JSON bodies both ways. The
// backend holds the encrypted provider tokens, so every transfer starts
// here.
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/vkdrive/vkdrive/internal/models"
	"github.com/vkdrive/vkdrive/internal/shared"
)

// AccountClient implements [CredentialSource] against the vkdrive backend.
type AccountClient struct {
	baseURL    string
	store      SessionStore
	httpClient *http.Client
}

// NewAccountClient creates a backend client rooted at baseURL.
func NewAccountClient(baseURL string, store SessionStore, client *http.Client) *AccountClient {
	if client == nil {
		client = http.DefaultClient
	}
	return &AccountClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		store:      store,
		httpClient: client,
	}
}

type loginResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Login authenticates with email and password and persists the returned
// session token for subsequent calls.
func (c *AccountClient) Login(ctx context.Context, email, password string) (*models.User, error) {
	payload := map[string]string{"email": email, "password": password}

	var result loginResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", payload, &result, false); err != nil {
		var status *StatusError
		if ok := errors.As(err, &status); ok {
			switch status.Code {
			case http.StatusUnauthorized:
				return nil, shared.ErrInvalidCredentials
			case http.StatusForbidden:
				return nil, shared.ErrAccountDisabled
			}
		}
		return nil, err
	}
	if result.Token == "" {
		return nil, fmt.Errorf("%w: login response missing token", shared.ErrProvider)
	}

	if err := c.store.Save(result.Token); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}
	return result.User, nil
}

// Logout invalidates the backend session and clears the local token. A
// missing local session is not an error.
func (c *AccountClient) Logout(ctx context.Context) error {
	if _, err := c.store.Token(); err != nil {
		return c.store.Clear()
	}

	// Best effort; the local token is cleared regardless.
	_ = c.do(ctx, http.MethodPost, "/api/auth/logout", nil, nil, true)
	return c.store.Clear()
}

// Me retrieves the authenticated user's profile.
func (c *AccountClient) Me(ctx context.Context) (*models.User, error) {
	var result struct {
		User *models.User `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, &result, true); err != nil {
		return nil, err
	}
	return result.User, nil
}

// Tokens retrieves the user's decrypted provider tokens from the backend.
func (c *AccountClient) Tokens(ctx context.Context) (models.TokenPair, error) {
	var pair models.TokenPair
	if err := c.do(ctx, http.MethodGet, "/api/auth/tokens", nil, &pair, true); err != nil {
		return models.TokenPair{}, err
	}
	return pair, nil
}

// SaveTokens stores the user's provider tokens on the backend, which
// encrypts them at rest.
func (c *AccountClient) SaveTokens(ctx context.Context, pair models.TokenPair) error {
	return c.do(ctx, http.MethodPost, "/api/auth/tokens", pair, nil, true)
}

// ProviderToken resolves a single provider's token, mapping an absent value
// to [shared.ErrCredentialMissing].
func (c *AccountClient) ProviderToken(ctx context.Context, provider Provider) (string, error) {
	pair, err := c.Tokens(ctx)
	if err != nil {
		return "", err
	}

	var token string
	switch provider {
	case ProviderVK:
		token = pair.VK
	case ProviderDisk:
		token = pair.Yandex
	default:
		return "", fmt.Errorf("%w: unknown provider %q", shared.ErrInvalidArgument, provider)
	}

	if token == "" {
		return "", fmt.Errorf("%w: %s token not configured", shared.ErrCredentialMissing, provider)
	}
	return token, nil
}

// do performs one backend request. Authenticated requests that come back
// 401 clear the stored session and report [shared.ErrSessionExpired].
func (c *AccountClient) do(ctx context.Context, method, endpoint string, payload, result any, authenticated bool) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if authenticated {
		token, err := c.store.Token()
		if err != nil {
			return err
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrTransport, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if authenticated && resp.StatusCode == http.StatusUnauthorized {
		_ = c.store.Clear()
		return shared.ErrSessionExpired
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(data))}
	}

	if result != nil {
		if err := json.Unmarshal(data, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}
