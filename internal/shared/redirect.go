// Utilities for extracting access tokens from OAuth redirect URLs.
package shared

import (
	"fmt"
	"net/url"
	"strings"
)

// ParseAccessTokenFromURL extracts an access_token from a pasted OAuth
// redirect URL. VK's implicit flow returns the token in the URL fragment
// (#access_token=...), Yandex can return it either in the fragment or the
// query string, so both locations are checked.
func ParseAccessTokenFromURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("%w: redirect URL", ErrMissingArgument)
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("failed to parse redirect URL: %w", err)
	}

	if u.Fragment != "" {
		values, err := url.ParseQuery(u.Fragment)
		if err == nil {
			if token := values.Get("access_token"); token != "" {
				return token, nil
			}
		}
	}

	if token := u.Query().Get("access_token"); token != "" {
		return token, nil
	}

	return "", fmt.Errorf("%w: no access_token in redirect URL", ErrInvalidArgument)
}
