// VK API client.
//
// VK serves photos.get as JSONP, so responses arrive wrapped in a callback
// invocation that has to be stripped before decoding. Request/response
// shapes based on https://dev.vk.com/method/photos.get
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/vkdrive/vkdrive/internal/shared"
	"golang.org/x/time/rate"
)

const (
	vkBaseURL    = "https://api.vk.com/method"
	vkAPIVersion = "5.199"

	// VK throttles anonymous API keys at 3 requests per second.
	vkRequestsPerSecond = 3
)

type vkError struct {
	Code    int    `json:"error_code"`
	Message string `json:"error_msg"`
}

type vkPhotosResponse struct {
	Response *struct {
		Count int     `json:"count"`
		Items []Photo `json:"items"`
	} `json:"response"`
	Error *vkError `json:"error"`
}

// VKService fetches profile photos from the VK API.
type VKService struct {
	baseURL    string
	version    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewVKService creates a VK client with the default endpoint and rate limit.
func NewVKService() *VKService {
	return &VKService{
		baseURL:    vkBaseURL,
		version:    vkAPIVersion,
		httpClient: http.DefaultClient,
		limiter:    rate.NewLimiter(vkRequestsPerSecond, 1),
	}
}

// NewVKServiceWithConfig creates a VK client against a custom endpoint,
// used by the server proxy and tests.
func NewVKServiceWithConfig(baseURL, version string, client *http.Client) *VKService {
	if baseURL == "" {
		baseURL = vkBaseURL
	}
	if version == "" {
		version = vkAPIVersion
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &VKService{
		baseURL:    baseURL,
		version:    version,
		httpClient: client,
		limiter:    rate.NewLimiter(vkRequestsPerSecond, 1),
	}
}

func (s *VKService) Name() string { return "VK" }

// ListPhotos retrieves all profile album photos for the given owner.
//
// The access token travels as a query parameter because VK's JSONP endpoint
// ignores Authorization headers.
func (s *VKService) ListPhotos(ctx context.Context, ownerID, accessToken string) ([]Photo, error) {
	if accessToken == "" {
		return nil, fmt.Errorf("%w: vk access token", shared.ErrCredentialMissing)
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	callback := jsonpCallback()

	params := url.Values{}
	params.Set("owner_id", ownerID)
	params.Set("album_id", "profile")
	params.Set("access_token", accessToken)
	params.Set("v", s.version)
	params.Set("callback", callback)

	endpoint := fmt.Sprintf("%s/photos.get?%s", s.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrTransport, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	payload, err := stripJSONP(string(body), callback)
	if err != nil {
		return nil, err
	}

	var parsed vkPhotosResponse
	if err := json.Unmarshal([]byte(payload), &parsed); err != nil {
		return nil, fmt.Errorf("failed to decode photos response: %w", err)
	}

	if parsed.Error != nil {
		return nil, fmt.Errorf("%w: vk error %d: %s", shared.ErrProvider, parsed.Error.Code, parsed.Error.Message)
	}
	if parsed.Response == nil {
		return nil, fmt.Errorf("%w: vk response missing payload", shared.ErrProvider)
	}

	return parsed.Response.Items, nil
}

// MaxResURLs maps each photo to its highest resolution URL, skipping photos
// without any usable rendition.
func MaxResURLs(photos []Photo) []string {
	urls := make([]string, 0, len(photos))
	for _, photo := range photos {
		if u := LargestSize(photo); u != "" {
			urls = append(urls, u)
		}
	}
	return urls
}

// jsonpCallback generates a unique callback identifier for one request so
// concurrent calls can't observe each other's payloads.
func jsonpCallback() string {
	return "cb_" + strings.ReplaceAll(uuid.New().String(), "-", "")
}

// stripJSONP unwraps `callback({...});` down to the JSON payload.
func stripJSONP(body, callback string) (string, error) {
	trimmed := strings.TrimSpace(body)
	trimmed = strings.TrimSuffix(trimmed, ";")

	if !strings.HasPrefix(trimmed, callback+"(") || !strings.HasSuffix(trimmed, ")") {
		// Some deployments answer plain JSON when the callback parameter
		// is dropped by an intermediary.
		if strings.HasPrefix(trimmed, "{") {
			return trimmed, nil
		}
		return "", fmt.Errorf("%w: malformed jsonp response", shared.ErrProvider)
	}

	inner := strings.TrimPrefix(trimmed, callback+"(")
	inner = strings.TrimSuffix(inner, ")")
	return inner, nil
}
