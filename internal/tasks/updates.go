package tasks

import "fmt"

// ProgressUpdate represents a progress event during a transfer run.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	ProvisionFolder Phase = iota
	UploadItem
	BatchComplete
)

func (p Phase) String() string {
	switch p {
	case ProvisionFolder:
		return "provision_folder"
	case UploadItem:
		return "upload_item"
	case BatchComplete:
		return "batch_complete"
	default:
		return ""
	}
}

func provisionFolderUpdate(folder string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ProvisionFolder,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Preparing folder %s on Yandex.Disk...", folder),
	}
}

func uploadStartUpdate(step, total int, item Item) ProgressUpdate {
	return ProgressUpdate{
		Phase:   UploadItem,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Uploading %s...", step, total, item.Name),
		Data:    item,
	}
}

func uploadDoneUpdate(step, total int, outcome UploadOutcome) ProgressUpdate {
	message := fmt.Sprintf("[%d/%d] ✓ %s", step, total, outcome.Item.Name)
	if outcome.Err != nil {
		message = fmt.Sprintf("[%d/%d] ✗ %s: %s", step, total, outcome.Item.Name, outcome.Reason)
	}
	return ProgressUpdate{
		Phase:   UploadItem,
		Step:    step,
		Total:   total,
		Message: message,
		Data:    outcome,
	}
}

func batchCompleteUpdate(result *TransferResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   BatchComplete,
		Step:    result.Total,
		Total:   result.Total,
		Message: fmt.Sprintf("Transfer finished: %d uploaded, %d failed", result.Succeeded, result.Failed),
		Data:    result,
	}
}
