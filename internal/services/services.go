// package services implements HTTP clients for the photo transfer providers
//
// VK (photo source), Yandex.Disk (upload target) and the vkdrive backend
// (credential storage).
package services

import (
	"context"
	"fmt"
)

// Provider identifies an external service a user connects to vkdrive.
type Provider string

const (
	ProviderVK   Provider = "vk"
	ProviderDisk Provider = "yandex"
)

// CredentialSource resolves an access token for a provider.
//
// Implemented by [AccountClient], which fetches tokens from the backend
// using the stored CLI session.
type CredentialSource interface {
	ProviderToken(ctx context.Context, provider Provider) (string, error)
}

// SessionStore persists the CLI's backend session token between runs.
type SessionStore interface {
	Token() (string, error)
	Save(token string) error
	Clear() error
}

// Photo represents a single photo from the source album with all size
// variants the provider returned.
type Photo struct {
	ID    int64       `json:"id"`
	Sizes []PhotoSize `json:"sizes"`
}

// PhotoSize is one rendition of a photo.
type PhotoSize struct {
	Type string `json:"type"`
	URL  string `json:"url"`
}

// sizeOrder ranks VK size types from smallest to largest. When picking the
// best rendition the last matching entry wins.
var sizeOrder = []string{"s", "m", "x", "o", "p", "q", "r", "y", "z", "w"}

// LargestSize returns the URL of the highest resolution rendition of a
// photo, or "" when the photo has no usable sizes.
func LargestSize(photo Photo) string {
	best := ""
	rank := -1
	for _, size := range photo.Sizes {
		for i, t := range sizeOrder {
			if size.Type == t && i > rank {
				rank = i
				best = size.URL
			}
		}
	}
	if best == "" && len(photo.Sizes) > 0 {
		return photo.Sizes[len(photo.Sizes)-1].URL
	}
	return best
}

// StatusError reports a non-2xx response from a provider API. Callers can
// branch on Code with [errors.As] to classify failures.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("unexpected status %d: %s", e.Code, e.Body)
	}
	return fmt.Sprintf("unexpected status %d", e.Code)
}
