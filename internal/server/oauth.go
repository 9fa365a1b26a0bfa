package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"golang.org/x/oauth2"
)

// OAuthResult contains the result of a provider authorization flow.
type OAuthResult struct {
	AccessToken string
	err         error
}

func (o *OAuthResult) Error() error {
	return o.err
}

// OAuthHandler captures provider access tokens during CLI authorization.
// Implements the Handler interface for registration with a Router.
//
// VK issues tokens via the implicit flow, so the token arrives in the URL
// fragment and never reaches the server directly; the handler serves a
// small page that bounces the fragment into query parameters. Yandex uses
// the authorization code flow, which is exchanged server side.
type OAuthHandler struct {
	config      *oauth2.Config
	state       string
	resultChan  chan OAuthResult
	once        sync.Once
	callbackHit bool
	mu          sync.Mutex
}

// NewOAuthHandler creates a new OAuth handler with the given OAuth2 config and state token.
// The state token should be cryptographically random for CSRF protection.
func NewOAuthHandler(config *oauth2.Config, state string) *OAuthHandler {
	return &OAuthHandler{
		config:     config,
		state:      state,
		resultChan: make(chan OAuthResult, 1),
	}
}

// Routes returns the HTTP routes this handler serves.
func (h *OAuthHandler) Routes() []string {
	return []string{"/callback"}
}

// AuthURL returns the provider authorization URL for the given flow.
// Implicit requests response_type=token, which VK requires.
func (h *OAuthHandler) AuthURL(implicit bool) string {
	if implicit {
		return h.config.AuthCodeURL(h.state, oauth2.SetAuthURLParam("response_type", "token"))
	}
	return h.config.AuthCodeURL(h.state)
}

// ServeHTTP handles the OAuth callback request.
func (h *OAuthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	// Implicit flow lands here with an empty query; the fragment only
	// exists in the browser.
	if q.Get("access_token") == "" && q.Get("code") == "" && q.Get("error") == "" {
		h.serveBouncePage(w)
		return
	}

	h.mu.Lock()
	if h.callbackHit {
		h.mu.Unlock()
		http.Error(w, "Callback already processed", http.StatusBadRequest)
		return
	}
	h.callbackHit = true
	h.mu.Unlock()

	if state := q.Get("state"); state != "" && state != h.state {
		err := fmt.Errorf("invalid state parameter")
		h.Send(OAuthResult{err: err})
		http.Error(w, "Invalid state parameter", http.StatusBadRequest)
		return
	}

	if errParam := q.Get("error"); errParam != "" {
		err := fmt.Errorf("authorization failed: %s - %s", errParam, q.Get("error_description"))
		h.Send(OAuthResult{err: err})
		http.Error(w, "Authorization failed", http.StatusBadRequest)
		return
	}

	if token := q.Get("access_token"); token != "" {
		h.Send(OAuthResult{AccessToken: token})
		h.serveSuccessPage(w)
		return
	}

	token, err := h.config.Exchange(context.Background(), q.Get("code"))
	if err != nil {
		h.Send(OAuthResult{err: fmt.Errorf("token exchange failed: %w", err)})
		http.Error(w, "Token exchange failed", http.StatusInternalServerError)
		return
	}

	h.Send(OAuthResult{AccessToken: token.AccessToken})
	h.serveSuccessPage(w)
}

// Send sends the OAuth result through the channel (only once).
func (h *OAuthHandler) Send(result OAuthResult) {
	h.once.Do(func() {
		h.resultChan <- result
		close(h.resultChan)
	})
}

// Result returns the result channel for receiving OAuth flow completion.
//
// Channel will receive exactly one result and then be closed.
func (h *OAuthHandler) Result() <-chan OAuthResult {
	return h.resultChan
}

// serveBouncePage moves the URL fragment into query parameters so the
// server can read the implicit flow token.
func (h *OAuthHandler) serveBouncePage(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/html")
	fmt.Fprint(w, `
<!DOCTYPE html>
<html>
<head><title>Authorizing...</title></head>
<body>
<p>Completing authorization...</p>
<script>
  if (window.location.hash.length > 1) {
    window.location.replace("/callback?" + window.location.hash.substring(1));
  } else {
    document.body.textContent = "Authorization response missing token.";
  }
</script>
</body>
</html>
`)
}

func (h *OAuthHandler) serveSuccessPage(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/html")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, `
<!DOCTYPE html>
<html>
<head>
    <title>Authorization Successful</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
               display: flex; align-items: center; justify-content: center; height: 100vh;
               margin: 0; background: #f5f5f5; }
        .container { text-align: center; background: white; padding: 2rem;
                     border-radius: 8px; box-shadow: 0 2px 4px rgba(0,0,0,0.1); }
        h1 { color: #0077FF; margin: 0 0 1rem 0; }
        p { color: #666; margin: 0; }
    </style>
</head>
<body>
    <div class="container">
        <h1>✓ Authorization Successful</h1>
        <p>You can close this window and return to the terminal.</p>
    </div>
</body>
</html>
`)
}
