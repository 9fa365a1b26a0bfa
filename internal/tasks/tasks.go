// package tasks implements the photo transfer pipeline from VK to Yandex.Disk.
//
// The core abstraction is TransferEngine, which provisions the target folder
// and uploads a batch of photos one at a time. Operations emit progress
// updates via channels for non-blocking status reporting to CLI/UI layers.
package tasks

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/vkdrive/vkdrive/internal/services"
)

// defaultItemDelay is the pause between one upload finishing and the next
// starting. Keeps the transfer well under provider rate limits.
const defaultItemDelay = 500 * time.Millisecond

// Uploader is the slice of the Disk client the engine needs.
type Uploader interface {
	EnsureFolder(ctx context.Context) error
	UploadFromURL(ctx context.Context, name, sourceURL string) error
	Folder() string
}

// UploadOutcome records the terminal result of one item's upload attempt.
type UploadOutcome struct {
	Item   Item
	Err    error
	Reason string // classified failure description, "" on success
}

// TransferResult contains all data from a full transfer run.
type TransferResult struct {
	Total     int             // Items in the batch at the start
	Succeeded int             // Uploads that completed
	Failed    int             // Uploads that did not
	Outcomes  []UploadOutcome // Per-item results in processing order
	Pending   []Item          // Items still awaiting transfer, retry input
	Complete  bool            // True when the pending set drained
}

// TransferEngine uploads batches of photos sequentially. One upload is in
// flight at any moment and each outcome is followed by a fixed delay before
// the next item starts.
type TransferEngine struct {
	disk  Uploader
	delay time.Duration
}

// NewTransferEngine creates an engine with the default inter-item delay.
func NewTransferEngine(disk Uploader) *TransferEngine {
	return NewTransferEngineWithDelay(disk, defaultItemDelay)
}

// NewTransferEngineWithDelay creates an engine with a custom delay, used by
// tests and the server's dry-run mode.
func NewTransferEngineWithDelay(disk Uploader, delay time.Duration) *TransferEngine {
	return &TransferEngine{disk: disk, delay: delay}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *TransferEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// Run transfers every item in the batch. The target folder is provisioned
// first; if that fails no uploads are attempted. Items are removed from the
// batch only when their upload succeeds, so batch contents after Run is the
// retry set. A cancelled context stops the run between items and returns
// the partial result alongside the context error.
func (e *TransferEngine) Run(ctx context.Context, batch *Batch, progress chan<- ProgressUpdate) (*TransferResult, error) {
	if e.disk == nil {
		return nil, fmt.Errorf("disk uploader not initialized")
	}
	if batch == nil {
		batch = NewBatch(nil)
	}

	e.sendProgress(progress, provisionFolderUpdate(e.disk.Folder()))
	if err := e.disk.EnsureFolder(ctx); err != nil {
		return nil, fmt.Errorf("failed to provision folder: %w", err)
	}

	items := batch.Items()
	result := &TransferResult{Total: len(items)}

	// Items without a caller-supplied name are named before any upload
	// starts. The generated names go back into the batch so the pending
	// set stays keyed on the names that were actually uploaded, and the
	// index suffix keeps them distinct within one run.
	runStamp := time.Now().UnixMilli()
	for i := range items {
		if items[i].Name == "" {
			items[i].Name = fmt.Sprintf("photo_%d_%d", runStamp, i+1)
			batch.SetName(i, items[i].Name)
		}
	}

	for i, item := range items {
		if err := ctx.Err(); err != nil {
			result.Pending = batch.Items()
			return result, err
		}

		e.sendProgress(progress, uploadStartUpdate(i+1, result.Total, item))

		err := e.disk.UploadFromURL(ctx, item.Name, item.SourceURL)
		outcome := UploadOutcome{Item: item, Err: err, Reason: classify(err)}
		result.Outcomes = append(result.Outcomes, outcome)

		if err == nil {
			batch.Remove(item.Name)
			result.Succeeded++
		} else {
			result.Failed++
		}

		e.sendProgress(progress, uploadDoneUpdate(i+1, result.Total, outcome))

		if i < len(items)-1 {
			select {
			case <-ctx.Done():
				result.Pending = batch.Items()
				return result, ctx.Err()
			case <-time.After(e.delay):
			}
		}
	}

	result.Pending = batch.Items()
	result.Complete = batch.IsEmpty()

	e.sendProgress(progress, batchCompleteUpdate(result))
	return result, nil
}

// classify maps an upload error to a short human-readable reason.
func classify(err error) string {
	if err == nil {
		return ""
	}

	var status *services.StatusError
	if errors.As(err, &status) {
		switch status.Code {
		case http.StatusConflict:
			return "name collision"
		case http.StatusNotFound:
			return "folder missing"
		case http.StatusBadRequest:
			return "bad parameters"
		default:
			return fmt.Sprintf("status %d", status.Code)
		}
	}
	return err.Error()
}
