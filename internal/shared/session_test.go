package shared

import (
	"errors"
	"testing"
)

func TestFileSessionStore(t *testing.T) {
	store, err := NewFileSessionStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileSessionStore failed: %v", err)
	}

	t.Run("Empty Store", func(t *testing.T) {
		if _, err := store.Token(); !errors.Is(err, ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated, got %v", err)
		}
	})

	t.Run("Save And Read", func(t *testing.T) {
		if err := store.Save("session-token"); err != nil {
			t.Fatalf("Save failed: %v", err)
		}

		token, err := store.Token()
		if err != nil {
			t.Fatalf("Token failed: %v", err)
		}
		if token != "session-token" {
			t.Errorf("unexpected token %q", token)
		}
	})

	t.Run("Clear", func(t *testing.T) {
		if err := store.Clear(); err != nil {
			t.Fatalf("Clear failed: %v", err)
		}
		if _, err := store.Token(); !errors.Is(err, ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated after clear, got %v", err)
		}

		// Clearing twice is fine.
		if err := store.Clear(); err != nil {
			t.Errorf("second Clear failed: %v", err)
		}
	})
}

func TestParseAccessTokenFromURL(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{"Fragment", "http://localhost:3000/callback#access_token=vk-token&expires_in=86400", "vk-token", false},
		{"Query", "http://localhost:3000/callback?access_token=ya-token", "ya-token", false},
		{"Fragment Wins", "http://localhost:3000/callback?access_token=q#access_token=f", "f", false},
		{"No Token", "http://localhost:3000/callback?error=denied", "", true},
		{"Empty", "", "", true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseAccessTokenFromURL(tc.raw)
			if tc.wantErr {
				if err == nil {
					t.Errorf("expected error for %q", tc.raw)
				}
				return
			}
			if err != nil || got != tc.want {
				t.Errorf("ParseAccessTokenFromURL(%q) = %q, %v; want %q", tc.raw, got, err, tc.want)
			}
		})
	}
}
