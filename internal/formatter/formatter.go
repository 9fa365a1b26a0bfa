// package formatter provides functions to export transfer results and
// account listings to various formats (CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/vkdrive/vkdrive/internal/models"
	"github.com/vkdrive/vkdrive/internal/services"
	"github.com/vkdrive/vkdrive/internal/tasks"
)

// TransferToCSV converts a transfer result to CSV with columns: Name, SourceURL, Status, Reason
func TransferToCSV(result *tasks.TransferResult) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Name", "SourceURL", "Status", "Reason"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, outcome := range result.Outcomes {
		status := "uploaded"
		if outcome.Err != nil {
			status = "failed"
		}
		record := []string{outcome.Item.Name, outcome.Item.SourceURL, status, outcome.Reason}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// TransferToMarkdown converts a transfer result to a Markdown report.
func TransferToMarkdown(result *tasks.TransferResult, folder string) []byte {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# Transfer to %s\n\n", folder))
	buf.WriteString(fmt.Sprintf("**Total**: %d\n", result.Total))
	buf.WriteString(fmt.Sprintf("**Uploaded**: %d\n", result.Succeeded))
	buf.WriteString(fmt.Sprintf("**Failed**: %d\n\n", result.Failed))

	if len(result.Outcomes) > 0 {
		buf.WriteString("## Items\n\n")
		for i, outcome := range result.Outcomes {
			if outcome.Err == nil {
				buf.WriteString(fmt.Sprintf("%d. ✓ %s\n", i+1, outcome.Item.Name))
			} else {
				buf.WriteString(fmt.Sprintf("%d. ✗ %s (%s)\n", i+1, outcome.Item.Name, outcome.Reason))
			}
		}
	}

	if len(result.Pending) > 0 {
		buf.WriteString("\n## Pending\n\n")
		for _, item := range result.Pending {
			buf.WriteString(fmt.Sprintf("- %s\n", item.Name))
		}
	}

	return buf.Bytes()
}

// TransferToText converts a transfer result to a plain text summary.
func TransferToText(result *tasks.TransferResult) []byte {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Uploaded %d of %d photos", result.Succeeded, result.Total))
	if result.Failed > 0 {
		buf.WriteString(fmt.Sprintf(", %d failed", result.Failed))
	}
	buf.WriteString("\n")

	for _, outcome := range result.Outcomes {
		if outcome.Err != nil {
			buf.WriteString(fmt.Sprintf("  ✗ %s: %s\n", outcome.Item.Name, outcome.Reason))
		}
	}

	if len(result.Pending) > 0 {
		buf.WriteString(fmt.Sprintf("Run again with --retry to transfer the remaining %d items.\n", len(result.Pending)))
	}

	return buf.Bytes()
}

// ReportResult contains the paths of files created by WriteTransferReport
type ReportResult struct {
	OutcomesFile string
	SummaryFile  string
}

// WriteTransferReport writes a transfer result to {base}_outcomes.csv and
// {base}_summary.md.
func WriteTransferReport(result *tasks.TransferResult, folder, basePath string) (*ReportResult, error) {
	if basePath == "" {
		basePath = "transfer"
	}

	csvData, err := TransferToCSV(result)
	if err != nil {
		return nil, fmt.Errorf("failed to generate CSV: %w", err)
	}

	outcomesFile := basePath + "_outcomes.csv"
	if err := os.WriteFile(outcomesFile, csvData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write outcomes file: %w", err)
	}

	summaryFile := basePath + "_summary.md"
	if err := os.WriteFile(summaryFile, TransferToMarkdown(result, folder), 0644); err != nil {
		return nil, fmt.Errorf("failed to write summary file: %w", err)
	}

	return &ReportResult{OutcomesFile: outcomesFile, SummaryFile: summaryFile}, nil
}

// UsersToText renders an aligned table of accounts for the admin CLI.
func UsersToText(users []*models.User) []byte {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("%-5s %-30s %-20s %-6s %-8s\n", "#", "EMAIL", "NAME", "ROLE", "ACTIVE"))
	for _, user := range users {
		buf.WriteString(fmt.Sprintf("%-5d %-30s %-20s %-6s %-8s\n",
			user.Sequence,
			user.Email,
			user.FirstName+" "+user.LastName,
			user.Role,
			strconv.FormatBool(user.Active)))
	}

	return buf.Bytes()
}

// PhotosToText renders a photo listing with the resolution picked for
// transfer.
func PhotosToText(photos []services.Photo) []byte {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("%d photos\n", len(photos)))
	for _, photo := range photos {
		url := services.LargestSize(photo)
		if url == "" {
			url = "(no usable size)"
		}
		buf.WriteString(fmt.Sprintf("  %d  %s\n", photo.ID, url))
	}

	return buf.Bytes()
}

// DiskListingToText renders the contents of the transfer folder.
func DiskListingToText(items []services.DiskResource) []byte {
	var buf bytes.Buffer

	if len(items) == 0 {
		buf.WriteString("folder is empty\n")
		return buf.Bytes()
	}

	for _, item := range items {
		buf.WriteString(fmt.Sprintf("%-40s %10d  %s\n", item.Name, item.Size, item.MimeType))
	}

	return buf.Bytes()
}
