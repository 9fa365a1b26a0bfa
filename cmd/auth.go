package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/urfave/cli/v3"
	"github.com/vkdrive/vkdrive/internal/server"
	"github.com/vkdrive/vkdrive/internal/shared"
	"golang.org/x/oauth2"
)

// AuthLogin authenticates against the backend and stores the session token locally.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	email := cmd.String("email")
	password := cmd.String("password")

	r.logger.Info("logging in", "email", email)

	user, err := r.account.Login(ctx, email, password)
	if err != nil {
		if errors.Is(err, shared.ErrInvalidCredentials) {
			return fmt.Errorf("%w: check your email and password", err)
		}
		return err
	}

	r.writePlain("✓ Logged in as %s %s (%s)\n", user.FirstName, user.LastName, user.Email)
	return nil
}

// AuthLogout revokes the backend session and clears the local one.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	if err := r.account.Logout(ctx); err != nil {
		return err
	}
	r.writePlain("✓ Logged out\n")
	return nil
}

// AuthStatus shows the current account and which provider tokens are stored.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	user, err := r.account.Me(ctx)
	if err != nil {
		if errors.Is(err, shared.ErrNotAuthenticated) || errors.Is(err, shared.ErrSessionExpired) {
			r.writePlain("✗ Not logged in\n")
			return nil
		}
		return err
	}

	r.writePlain("✓ Logged in as %s %s (%s)\n", user.FirstName, user.LastName, user.Email)
	r.writePlain("Role: %s\n", user.Role)

	tokens, err := r.account.Tokens(ctx)
	if err != nil {
		return err
	}

	if tokens.VK != "" {
		r.writePlain("VK: ✓ Connected\n")
	} else {
		r.writePlain("VK: ✗ Not connected (run 'vkdrive auth connect vk')\n")
	}
	if tokens.Yandex != "" {
		r.writePlain("Yandex.Disk: ✓ Connected\n")
	} else {
		r.writePlain("Yandex.Disk: ✗ Not connected (run 'vkdrive auth connect yandex')\n")
	}

	return nil
}

// AuthConnect runs the OAuth flow for a provider and stores the token on the backend.
func (r *Runner) AuthConnect(ctx context.Context, cmd *cli.Command) error {
	provider := cmd.StringArg("provider")
	pasted := cmd.String("redirect-url")

	var oauthConfig *oauth2.Config
	var implicit bool

	switch provider {
	case "vk":
		// VK grants client-side tokens through the implicit flow, so the
		// token arrives in the redirect's URL fragment rather than as a code.
		implicit = true
		oauthConfig = &oauth2.Config{
			ClientID:    r.config.Providers.VK.ClientID,
			RedirectURL: r.config.Providers.VK.RedirectURI,
			Scopes:      []string{"photos"},
			Endpoint: oauth2.Endpoint{
				AuthURL:  "https://oauth.vk.com/authorize",
				TokenURL: "https://oauth.vk.com/access_token",
			},
		}
	case "yandex", "disk":
		provider = "yandex"
		oauthConfig = &oauth2.Config{
			ClientID:    r.config.Providers.Disk.ClientID,
			RedirectURL: r.config.Providers.Disk.RedirectURI,
			Scopes:      []string{"cloud_api:disk.app_folder"},
			Endpoint: oauth2.Endpoint{
				AuthURL:  "https://oauth.yandex.ru/authorize",
				TokenURL: "https://oauth.yandex.ru/token",
			},
		}
	default:
		return fmt.Errorf("%w: unknown provider %q (must be 'vk' or 'yandex')", shared.ErrInvalidArgument, provider)
	}

	if oauthConfig.ClientID == "" {
		return fmt.Errorf("%w: providers.%s.client_id must be set in config.toml", shared.ErrInvalidConfig, provider)
	}

	var accessToken string
	var err error

	if pasted != "" {
		accessToken, err = shared.ParseAccessTokenFromURL(pasted)
		if err != nil {
			return fmt.Errorf("failed to parse redirect URL: %w", err)
		}
	} else {
		accessToken, err = r.doOAuth(oauthConfig, provider, implicit)
		if err != nil {
			return err
		}
	}

	tokens, err := r.account.Tokens(ctx)
	if err != nil {
		return err
	}

	switch provider {
	case "vk":
		tokens.VK = accessToken
	case "yandex":
		tokens.Yandex = accessToken
	}

	if err := r.account.SaveTokens(ctx, tokens); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}

	r.writePlainln("✓ Authorization successful")
	r.writePlain("✓ %s token saved\n", provider)

	return nil
}

// doOAuth executes the OAuth authorization flow with a local HTTP server.
func (r *Runner) doOAuth(oauthConfig *oauth2.Config, provider string, implicit bool) (string, error) {
	state := shared.GenerateID()

	oauthHandler := server.NewOAuthHandler(oauthConfig, state)
	router := server.NewBasicRouter()
	router.Handler(oauthHandler)

	serverAddr, err := callbackAddr(oauthConfig.RedirectURL)
	if err != nil {
		return "", err
	}

	httpServer := &http.Server{
		Addr:    serverAddr,
		Handler: router,
	}

	serverErrors := make(chan error, 1)
	go func() {
		r.logger.Infof("starting OAuth callback server for %s at %v", provider, serverAddr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()

	time.Sleep(100 * time.Millisecond)

	authURL := oauthHandler.AuthURL(implicit)

	r.writePlain("→ Opening browser for %s authorization...\n", provider)
	if err := shared.OpenBrowser(authURL); err != nil {
		r.logger.Warnf("failed to open browser automatically %v", err)
		r.writePlainln("⚠ Could not open browser automatically.")
		r.writePlain("Please open this URL in your browser:\n%s\n\n", authURL)
	}

	r.writePlain("→ Waiting for authorization (2 minute timeout)...\n")

	timeout := time.NewTimer(2 * time.Minute)
	defer timeout.Stop()

	var result server.OAuthResult

	select {
	case result = <-oauthHandler.Result():
		// Got result from callback
	case err := <-serverErrors:
		return "", fmt.Errorf("server error: %w", err)
	case <-timeout.C:
		return "", fmt.Errorf("authorization timed out after 2 minutes")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		r.logger.Warn("error shutting down server", "error", err)
	}

	if result.Error() != nil {
		return "", fmt.Errorf("authorization failed: %w", result.Error())
	}

	if result.AccessToken == "" {
		return "", fmt.Errorf("no token received")
	}

	return result.AccessToken, nil
}

// callbackAddr derives the listen address for the OAuth callback server from
// the configured redirect URI.
func callbackAddr(redirectURL string) (string, error) {
	parsed, err := url.Parse(redirectURL)
	if err != nil || parsed.Host == "" {
		return "", fmt.Errorf("%w: invalid redirect_uri %q", shared.ErrInvalidConfig, redirectURL)
	}

	host := parsed.Host
	if parsed.Port() == "" {
		host += ":80"
	}
	return host, nil
}
