package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
	"github.com/vkdrive/vkdrive/internal/formatter"
)

// VKPhotos lists the profile photos behind the stored VK token.
func (r *Runner) VKPhotos(ctx context.Context, cmd *cli.Command) error {
	owner := cmd.String("owner")
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")

	token, err := r.vkToken(ctx)
	if err != nil {
		return err
	}

	r.logger.Info("listing vk profile photos", "owner", owner)

	photos, err := r.vk.ListPhotos(ctx, owner, token)
	if err != nil {
		return fmt.Errorf("failed to list photos: %w", err)
	}

	if useJSON {
		return r.writeJSON(photos, pretty)
	}

	return r.writePlain("%s", formatter.PhotosToText(photos))
}
