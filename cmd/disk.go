package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
	"github.com/vkdrive/vkdrive/internal/formatter"
	"github.com/vkdrive/vkdrive/internal/shared"
)

// DiskList lists the image files already uploaded to the app folder.
func (r *Runner) DiskList(ctx context.Context, cmd *cli.Command) error {
	folder := cmd.String("folder")
	useJSON := cmd.Bool("json")

	disk, err := r.diskService(ctx, folder)
	if err != nil {
		return err
	}

	r.logger.Info("listing disk folder", "folder", disk.Folder())

	items, err := disk.ListUploaded(ctx)
	if err != nil {
		return fmt.Errorf("failed to list folder: %w", err)
	}

	if useJSON {
		return r.writeJSON(items, true)
	}

	return r.writePlain("%s", formatter.DiskListingToText(items))
}

// DiskRemove permanently deletes a file from the app folder.
func (r *Runner) DiskRemove(ctx context.Context, cmd *cli.Command) error {
	name := cmd.StringArg("name")
	if name == "" {
		return fmt.Errorf("%w: file name is required", shared.ErrMissingArgument)
	}

	disk, err := r.diskService(ctx, cmd.String("folder"))
	if err != nil {
		return err
	}

	r.logger.Info("removing file", "name", name, "folder", disk.Folder())

	if err := disk.Remove(ctx, name); err != nil {
		return fmt.Errorf("failed to remove file: %w", err)
	}

	return r.writePlain("✓ Removed %s\n", name)
}

// DiskURL prints a temporary download URL for an uploaded file.
func (r *Runner) DiskURL(ctx context.Context, cmd *cli.Command) error {
	name := cmd.StringArg("name")
	if name == "" {
		return fmt.Errorf("%w: file name is required", shared.ErrMissingArgument)
	}

	disk, err := r.diskService(ctx, cmd.String("folder"))
	if err != nil {
		return err
	}

	href, err := disk.DownloadURL(ctx, name)
	if err != nil {
		return fmt.Errorf("failed to get download URL: %w", err)
	}

	return r.writePlain("%s\n", href)
}
