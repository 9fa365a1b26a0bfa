package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
	"github.com/vkdrive/vkdrive/internal/formatter"
	"github.com/vkdrive/vkdrive/internal/services"
	"github.com/vkdrive/vkdrive/internal/tasks"
)

// TransferRun runs a full VK → Yandex.Disk photo sync.
func (r *Runner) TransferRun(ctx context.Context, cmd *cli.Command) error {
	owner := cmd.String("owner")
	folder := cmd.String("folder")
	reportBase := cmd.String("report")
	retries := cmd.Int("retries")

	vkToken, err := r.vkToken(ctx)
	if err != nil {
		return err
	}

	disk, err := r.diskService(ctx, folder)
	if err != nil {
		return err
	}

	r.logger.Info("starting transfer", "owner", owner, "folder", disk.Folder())
	r.writePlain("Starting photo transfer...\n")
	r.writePlain("Destination: %s\n\n", disk.Folder())

	photos, err := r.vk.ListPhotos(ctx, owner, vkToken)
	if err != nil {
		return fmt.Errorf("failed to list photos: %w", err)
	}

	batch := photoBatch(photos)
	if batch.IsEmpty() {
		return r.writePlain("No photos with a usable size found.\n")
	}

	r.writePlain("📥 Found %d photos\n\n", batch.Len())

	engine := tasks.NewTransferEngine(disk)

	// Progress goroutine prints engine updates as they arrive
	progressCh := make(chan tasks.ProgressUpdate, 50)
	go func() {
		for update := range progressCh {
			switch update.Phase {
			case tasks.ProvisionFolder:
				r.writePlain("📁 %s\n", update.Message)
			case tasks.UploadItem:
				r.writePlain("   %s\n", update.Message)
			}
		}
	}()

	var result *tasks.TransferResult
	for attempt := 0; ; attempt++ {
		result, err = engine.Run(ctx, batch, progressCh)
		if err != nil {
			close(progressCh)
			return err
		}

		if result.Complete || attempt >= retries {
			break
		}

		r.writePlain("\n↻ Retrying %d failed photos...\n\n", len(result.Pending))
		batch = tasks.NewBatch(result.Pending)
	}
	close(progressCh)

	r.writePlain("\n")
	r.writePlainHeader("Transfer Complete!")
	r.writePlain("%s", formatter.TransferToText(result))

	if reportBase != "" {
		report, err := formatter.WriteTransferReport(result, disk.Folder(), reportBase)
		if err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		r.writePlain("\n✓ Report written to %s and %s\n", report.OutcomesFile, report.SummaryFile)
	}

	return nil
}

// photoBatch builds a transfer batch from photos that have a usable rendition.
func photoBatch(photos []services.Photo) *tasks.Batch {
	var items []tasks.Item
	for _, photo := range photos {
		url := services.LargestSize(photo)
		if url == "" {
			continue
		}
		items = append(items, tasks.Item{
			Name:      fmt.Sprintf("photo_%d", photo.ID),
			SourceURL: url,
		})
	}
	return tasks.NewBatch(items)
}
