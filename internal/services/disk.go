// Yandex.Disk REST client.
//
// Endpoint shapes based on https://yandex.ru/dev/disk-api/doc/en/reference/
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/vkdrive/vkdrive/internal/shared"
)

const diskBaseURL = "https://cloud-api.yandex.net/v1/disk"

// DiskResource is a single file entry inside the transfer folder.
type DiskResource struct {
	Name     string `json:"name"`
	Path     string `json:"path"`
	Size     int64  `json:"size"`
	MimeType string `json:"mime_type"`
	Created  string `json:"created"`
}

type diskListing struct {
	Embedded struct {
		Items []DiskResource `json:"items"`
	} `json:"_embedded"`
}

type diskHref struct {
	Href string `json:"href"`
}

// DiskService uploads and manages files in a single Yandex.Disk folder.
type DiskService struct {
	baseURL    string
	folder     string
	token      string
	httpClient *http.Client
}

// NewDiskService creates a Disk client for the given OAuth token and target
// folder name.
func NewDiskService(token, folder string) *DiskService {
	return NewDiskServiceWithConfig(diskBaseURL, token, folder, nil)
}

// NewDiskServiceWithConfig creates a Disk client against a custom endpoint,
// used by tests.
func NewDiskServiceWithConfig(baseURL, token, folder string, client *http.Client) *DiskService {
	if baseURL == "" {
		baseURL = diskBaseURL
	}
	if folder == "" {
		folder = "VKDrive"
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &DiskService{
		baseURL:    baseURL,
		folder:     folder,
		token:      token,
		httpClient: client,
	}
}

func (s *DiskService) Name() string { return "Yandex.Disk" }

// Folder returns the target folder name.
func (s *DiskService) Folder() string { return s.folder }

func (s *DiskService) do(ctx context.Context, method, endpoint string, result any) error {
	if s.token == "" {
		return fmt.Errorf("%w: disk access token", shared.ErrCredentialMissing)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "OAuth "+s.token)
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrTransport, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	if result != nil {
		if err := json.Unmarshal(body, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

// EnsureFolder makes sure the transfer folder exists. Any failed existence
// check, whether a 404, another status or a transport error, falls through
// to creation so a flaky check can't block a transfer; the PUT's answer is
// authoritative, with 409 meaning the folder already exists.
func (s *DiskService) EnsureFolder(ctx context.Context) error {
	path := url.QueryEscape(s.folder)

	err := s.do(ctx, http.MethodGet, "/resources?path="+path, nil)
	if err == nil {
		return nil
	}

	var status *StatusError
	createErr := s.do(ctx, http.MethodPut, "/resources?path="+path, nil)
	if createErr == nil {
		return nil
	}
	if ok := errors.As(createErr, &status); ok && status.Code == http.StatusConflict {
		return nil
	}
	return fmt.Errorf("failed to create folder: %w", createErr)
}

// UploadURL fetches a one-time upload href for a file inside the folder.
func (s *DiskService) UploadURL(ctx context.Context, name string) (string, error) {
	path := url.QueryEscape(s.folder + "/" + name)

	var href diskHref
	if err := s.do(ctx, http.MethodGet, "/resources/upload?path="+path+"&overwrite=true", &href); err != nil {
		return "", fmt.Errorf("failed to get upload url: %w", err)
	}
	if href.Href == "" {
		return "", fmt.Errorf("%w: upload response missing href", shared.ErrProvider)
	}
	return href.Href, nil
}

// UploadFromURL downloads a photo from its source URL and streams the bytes
// into the Disk folder. The stored filename gets an image extension derived
// from the source response's Content-Type when the name has none.
func (s *DiskService) UploadFromURL(ctx context.Context, name, sourceURL string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sourceURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create source request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: fetch source: %v", shared.ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StatusError{Code: resp.StatusCode, Body: "source fetch failed"}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read source: %w", err)
	}

	filename := EnsureImageExtension(name, resp.Header.Get("Content-Type"))

	href, err := s.UploadURL(ctx, filename)
	if err != nil {
		return err
	}

	put, err := http.NewRequestWithContext(ctx, http.MethodPut, href, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to create upload request: %w", err)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "" {
		put.Header.Set("Content-Type", ct)
	}

	uploadResp, err := s.httpClient.Do(put)
	if err != nil {
		return fmt.Errorf("%w: upload: %v", shared.ErrTransport, err)
	}
	defer uploadResp.Body.Close()

	if uploadResp.StatusCode < 200 || uploadResp.StatusCode >= 300 {
		body, _ := io.ReadAll(uploadResp.Body)
		return &StatusError{Code: uploadResp.StatusCode, Body: strings.TrimSpace(string(body))}
	}
	return nil
}

// ListUploaded returns the image files currently in the folder, up to 100
// entries. A missing folder is an empty listing, not an error.
func (s *DiskService) ListUploaded(ctx context.Context) ([]DiskResource, error) {
	path := url.QueryEscape(s.folder)

	var listing diskListing
	err := s.do(ctx, http.MethodGet, "/resources?path="+path+"&limit=100", &listing)
	if err != nil {
		var status *StatusError
		if errors.As(err, &status) && status.Code == http.StatusNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list folder: %w", err)
	}

	var images []DiskResource
	for _, item := range listing.Embedded.Items {
		if strings.HasPrefix(item.MimeType, "image/") {
			images = append(images, item)
		}
	}
	return images, nil
}

// Remove permanently deletes a file from the folder.
func (s *DiskService) Remove(ctx context.Context, name string) error {
	path := url.QueryEscape(s.folder + "/" + name)

	err := s.do(ctx, http.MethodDelete, "/resources?path="+path+"&permanently=true", nil)
	if err != nil {
		return fmt.Errorf("failed to remove %s: %w", name, err)
	}
	return nil
}

// DownloadURL fetches a temporary download href for a file in the folder.
func (s *DiskService) DownloadURL(ctx context.Context, name string) (string, error) {
	path := url.QueryEscape(s.folder + "/" + name)

	var href diskHref
	if err := s.do(ctx, http.MethodGet, "/resources/download?path="+path, &href); err != nil {
		return "", fmt.Errorf("failed to get download url: %w", err)
	}
	return href.Href, nil
}

// EnsureImageExtension appends an image extension when the filename lacks
// one. Existing .jpg/.jpeg/.png extensions are kept with their original
// casing; otherwise the extension comes from the content type, defaulting
// to .jpg.
func EnsureImageExtension(name, contentType string) string {
	lower := strings.ToLower(name)
	for _, ext := range []string{".jpg", ".jpeg", ".png"} {
		if strings.HasSuffix(lower, ext) {
			return name
		}
	}

	switch strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0])) {
	case "image/jpeg":
		return name + ".jpg"
	case "image/png":
		return name + ".png"
	default:
		return name + ".jpg"
	}
}
