package formatter

import (
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vkdrive/vkdrive/internal/models"
	"github.com/vkdrive/vkdrive/internal/services"
	"github.com/vkdrive/vkdrive/internal/tasks"
)

func sampleResult() *tasks.TransferResult {
	return &tasks.TransferResult{
		Total:     3,
		Succeeded: 2,
		Failed:    1,
		Outcomes: []tasks.UploadOutcome{
			{Item: tasks.Item{Name: "photo_1.jpg", SourceURL: "http://img/1"}},
			{Item: tasks.Item{Name: "photo_2.jpg", SourceURL: "http://img/2"}, Err: errors.New("boom"), Reason: "name collision"},
			{Item: tasks.Item{Name: "photo_3.jpg", SourceURL: "http://img/3"}},
		},
		Pending: []tasks.Item{{Name: "photo_2.jpg", SourceURL: "http://img/2"}},
	}
}

func TestTransferToCSV(t *testing.T) {
	data, err := TransferToCSV(sampleResult())
	if err != nil {
		t.Fatalf("TransferToCSV failed: %v", err)
	}

	records, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	if err != nil {
		t.Fatalf("failed to parse CSV: %v", err)
	}

	if len(records) != 4 {
		t.Fatalf("expected header + 3 rows, got %d", len(records))
	}
	if records[0][0] != "Name" || records[0][3] != "Reason" {
		t.Errorf("unexpected header: %v", records[0])
	}
	if records[2][2] != "failed" || records[2][3] != "name collision" {
		t.Errorf("unexpected failed row: %v", records[2])
	}
	if records[1][2] != "uploaded" {
		t.Errorf("unexpected success row: %v", records[1])
	}
}

func TestTransferToMarkdown(t *testing.T) {
	out := string(TransferToMarkdown(sampleResult(), "VKDrive"))

	for _, want := range []string{
		"# Transfer to VKDrive",
		"**Uploaded**: 2",
		"✗ photo_2.jpg (name collision)",
		"## Pending",
		"- photo_2.jpg",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("markdown missing %q:\n%s", want, out)
		}
	}
}

func TestTransferToText(t *testing.T) {
	out := string(TransferToText(sampleResult()))

	if !strings.Contains(out, "Uploaded 2 of 3 photos, 1 failed") {
		t.Errorf("unexpected summary:\n%s", out)
	}
	if !strings.Contains(out, "--retry") {
		t.Errorf("expected retry hint:\n%s", out)
	}

	complete := &tasks.TransferResult{Total: 2, Succeeded: 2, Complete: true}
	out = string(TransferToText(complete))
	if strings.Contains(out, "--retry") {
		t.Errorf("unexpected retry hint for complete transfer:\n%s", out)
	}
}

func TestWriteTransferReport(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "run1")

	report, err := WriteTransferReport(sampleResult(), "VKDrive", base)
	if err != nil {
		t.Fatalf("WriteTransferReport failed: %v", err)
	}

	for _, path := range []string{report.OutcomesFile, report.SummaryFile} {
		if _, err := os.Stat(path); err != nil {
			t.Errorf("expected report file %s: %v", path, err)
		}
	}
}

func TestUsersToText(t *testing.T) {
	user := models.NewUser("ivan@example.com", "Ivan", "Petrov", models.RoleUser)
	user.Sequence = 7

	out := string(UsersToText([]*models.User{user}))
	if !strings.Contains(out, "ivan@example.com") || !strings.Contains(out, "Ivan Petrov") {
		t.Errorf("unexpected table:\n%s", out)
	}
}

func TestPhotosToText(t *testing.T) {
	photos := []services.Photo{
		{ID: 1, Sizes: []services.PhotoSize{{Type: "s", URL: "http://img/s"}, {Type: "w", URL: "http://img/w"}}},
		{ID: 2},
	}

	out := string(PhotosToText(photos))
	if !strings.Contains(out, "2 photos") || !strings.Contains(out, "http://img/w") {
		t.Errorf("unexpected listing:\n%s", out)
	}
	if !strings.Contains(out, "(no usable size)") {
		t.Errorf("expected placeholder for photo without sizes:\n%s", out)
	}
}

func TestDiskListingToText(t *testing.T) {
	if out := string(DiskListingToText(nil)); !strings.Contains(out, "folder is empty") {
		t.Errorf("unexpected empty listing: %s", out)
	}

	items := []services.DiskResource{{Name: "a.jpg", Size: 1024, MimeType: "image/jpeg"}}
	if out := string(DiskListingToText(items)); !strings.Contains(out, "a.jpg") {
		t.Errorf("unexpected listing: %s", out)
	}
}
