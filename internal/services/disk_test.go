package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/vkdrive/vkdrive/internal/shared"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func TestEnsureFolder(t *testing.T) {
	t.Run("Already Exists", func(t *testing.T) {
		var creates int
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodPut {
				creates++
			}
			fmt.Fprint(w, `{"name":"VKDrive","type":"dir"}`)
		}))
		defer server.Close()

		svc := NewDiskServiceWithConfig(server.URL, "tok", "VKDrive", server.Client())
		if err := svc.EnsureFolder(context.Background()); err != nil {
			t.Fatalf("EnsureFolder failed: %v", err)
		}
		if creates != 0 {
			t.Errorf("expected no create for existing folder, got %d", creates)
		}
	})

	t.Run("Creates On 404", func(t *testing.T) {
		var creates int
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet:
				w.WriteHeader(http.StatusNotFound)
			case http.MethodPut:
				creates++
				if r.URL.Query().Get("path") != "Photos" {
					t.Errorf("unexpected create path %q", r.URL.Query().Get("path"))
				}
				w.WriteHeader(http.StatusCreated)
			}
		}))
		defer server.Close()

		svc := NewDiskServiceWithConfig(server.URL, "tok", "Photos", server.Client())
		if err := svc.EnsureFolder(context.Background()); err != nil {
			t.Fatalf("EnsureFolder failed: %v", err)
		}
		if creates != 1 {
			t.Errorf("expected 1 create, got %d", creates)
		}
	})

	t.Run("Tolerates 409", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet:
				w.WriteHeader(http.StatusNotFound)
			case http.MethodPut:
				w.WriteHeader(http.StatusConflict)
			}
		}))
		defer server.Close()

		svc := NewDiskServiceWithConfig(server.URL, "tok", "Photos", server.Client())
		if err := svc.EnsureFolder(context.Background()); err != nil {
			t.Errorf("expected 409 tolerated, got %v", err)
		}
	})

	t.Run("Creates When Check Fails In Transport", func(t *testing.T) {
		var creates int
		client := &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
			if r.Method == http.MethodGet {
				return nil, errors.New("connection reset")
			}
			creates++
			return &http.Response{
				StatusCode: http.StatusCreated,
				Body:       io.NopCloser(strings.NewReader("")),
			}, nil
		})}

		svc := NewDiskServiceWithConfig("http://disk.test", "tok", "Photos", client)
		if err := svc.EnsureFolder(context.Background()); err != nil {
			t.Fatalf("expected fallback create, got %v", err)
		}
		if creates != 1 {
			t.Errorf("expected 1 create, got %d", creates)
		}
	})

	t.Run("Creates When Check Returns Server Error", func(t *testing.T) {
		var creates int
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet:
				w.WriteHeader(http.StatusInternalServerError)
			case http.MethodPut:
				creates++
				w.WriteHeader(http.StatusCreated)
			}
		}))
		defer server.Close()

		svc := NewDiskServiceWithConfig(server.URL, "tok", "Photos", server.Client())
		if err := svc.EnsureFolder(context.Background()); err != nil {
			t.Fatalf("expected fallback create after failed check, got %v", err)
		}
		if creates != 1 {
			t.Errorf("expected 1 create, got %d", creates)
		}
	})

	t.Run("Propagates Create Failure", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet:
				w.WriteHeader(http.StatusNotFound)
			case http.MethodPut:
				w.WriteHeader(http.StatusForbidden)
			}
		}))
		defer server.Close()

		svc := NewDiskServiceWithConfig(server.URL, "tok", "Photos", server.Client())
		err := svc.EnsureFolder(context.Background())

		var status *StatusError
		if !errors.As(err, &status) || status.Code != http.StatusForbidden {
			t.Errorf("expected StatusError 403, got %v", err)
		}
	})
}

func TestUploadFromURL(t *testing.T) {
	t.Run("Streams Source To Upload Href", func(t *testing.T) {
		var uploaded []byte
		var uploadPath string

		mux := http.NewServeMux()
		server := httptest.NewServer(mux)
		defer server.Close()

		mux.HandleFunc("/source/photo", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "image/png")
			w.Write([]byte("png-bytes"))
		})
		mux.HandleFunc("/resources/upload", func(w http.ResponseWriter, r *http.Request) {
			uploadPath = r.URL.Query().Get("path")
			if r.URL.Query().Get("overwrite") != "true" {
				t.Error("expected overwrite=true")
			}
			fmt.Fprintf(w, `{"href":"%s/put-here"}`, server.URL)
		})
		mux.HandleFunc("/put-here", func(w http.ResponseWriter, r *http.Request) {
			uploaded, _ = io.ReadAll(r.Body)
			w.WriteHeader(http.StatusCreated)
		})

		svc := NewDiskServiceWithConfig(server.URL, "tok", "Photos", server.Client())
		err := svc.UploadFromURL(context.Background(), "photo_42", server.URL+"/source/photo")
		if err != nil {
			t.Fatalf("UploadFromURL failed: %v", err)
		}

		if string(uploaded) != "png-bytes" {
			t.Errorf("unexpected upload body: %q", uploaded)
		}
		if uploadPath != "Photos/photo_42.png" {
			t.Errorf("expected png extension from content type, got %q", uploadPath)
		}
	})

	t.Run("Source Fetch Failure", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		svc := NewDiskServiceWithConfig(server.URL, "tok", "Photos", server.Client())
		err := svc.UploadFromURL(context.Background(), "photo_1", server.URL+"/gone")

		var status *StatusError
		if !errors.As(err, &status) || status.Code != http.StatusNotFound {
			t.Errorf("expected StatusError 404, got %v", err)
		}
	})
}

func TestListUploaded(t *testing.T) {
	t.Run("Filters Images", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Query().Get("limit") != "100" {
				t.Errorf("expected limit=100, got %q", r.URL.Query().Get("limit"))
			}
			fmt.Fprint(w, `{"_embedded":{"items":[
				{"name":"a.jpg","mime_type":"image/jpeg","size":10},
				{"name":"notes.txt","mime_type":"text/plain","size":5},
				{"name":"b.png","mime_type":"image/png","size":20}
			]}}`)
		}))
		defer server.Close()

		svc := NewDiskServiceWithConfig(server.URL, "tok", "Photos", server.Client())
		items, err := svc.ListUploaded(context.Background())
		if err != nil {
			t.Fatalf("ListUploaded failed: %v", err)
		}
		if len(items) != 2 || items[0].Name != "a.jpg" || items[1].Name != "b.png" {
			t.Errorf("unexpected items: %+v", items)
		}
	})

	t.Run("Missing Folder Is Empty", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		svc := NewDiskServiceWithConfig(server.URL, "tok", "Photos", server.Client())
		items, err := svc.ListUploaded(context.Background())
		if err != nil {
			t.Fatalf("expected empty listing, got %v", err)
		}
		if len(items) != 0 {
			t.Errorf("expected no items, got %d", len(items))
		}
	})
}

func TestRemoveAndDownloadURL(t *testing.T) {
	var deletePath, deleteAuth string

	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	defer server.Close()

	mux.HandleFunc("/resources", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			deletePath = r.URL.Query().Get("path")
			deleteAuth = r.Header.Get("Authorization")
			if r.URL.Query().Get("permanently") != "true" {
				t.Error("expected permanently=true")
			}
			w.WriteHeader(http.StatusNoContent)
		}
	})
	mux.HandleFunc("/resources/download", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"href":"https://downloader.disk.yandex.ru/file?path=%s"}`, r.URL.Query().Get("path"))
	})

	svc := NewDiskServiceWithConfig(server.URL, "disk-token", "Photos", server.Client())

	if err := svc.Remove(context.Background(), "a.jpg"); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if deletePath != "Photos/a.jpg" {
		t.Errorf("unexpected delete path %q", deletePath)
	}
	if deleteAuth != "OAuth disk-token" {
		t.Errorf("unexpected auth header %q", deleteAuth)
	}

	href, err := svc.DownloadURL(context.Background(), "a.jpg")
	if err != nil {
		t.Fatalf("DownloadURL failed: %v", err)
	}
	if !strings.Contains(href, "downloader.disk.yandex.ru") {
		t.Errorf("unexpected href %q", href)
	}
}

func TestDiskMissingToken(t *testing.T) {
	svc := NewDiskService("", "Photos")
	if err := svc.EnsureFolder(context.Background()); !errors.Is(err, shared.ErrCredentialMissing) {
		t.Errorf("expected ErrCredentialMissing, got %v", err)
	}
}

func TestEnsureImageExtension(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		want        string
	}{
		{"photo.jpg", "image/png", "photo.jpg"},
		{"photo.JPEG", "image/png", "photo.JPEG"},
		{"photo.PNG", "", "photo.PNG"},
		{"photo_1", "image/jpeg", "photo_1.jpg"},
		{"photo_2", "image/png", "photo_2.png"},
		{"photo_3", "image/png; charset=binary", "photo_3.png"},
		{"photo_4", "application/octet-stream", "photo_4.jpg"},
		{"photo_5", "", "photo_5.jpg"},
	}

	for _, tc := range tests {
		if got := EnsureImageExtension(tc.name, tc.contentType); got != tc.want {
			t.Errorf("EnsureImageExtension(%q, %q) = %q, want %q", tc.name, tc.contentType, got, tc.want)
		}
	}
}
