package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"
	"github.com/vkdrive/vkdrive/internal/services"
	"github.com/vkdrive/vkdrive/internal/shared"
	"github.com/vkdrive/vkdrive/internal/tasks"
	"github.com/vkdrive/vkdrive/internal/ui"
)

// vkPhotoSource adapts the VK client to the TUI's photo source, binding the
// owner and access token resolved before launch.
type vkPhotoSource struct {
	vk    *services.VKService
	owner string
	token string
}

func (s *vkPhotoSource) Photos(ctx context.Context) ([]services.Photo, error) {
	return s.vk.ListPhotos(ctx, s.owner, s.token)
}

// TUI launches the interactive terminal UI for photo transfer.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	owner := cmd.String("owner")
	folder := cmd.String("folder")

	vkToken, err := r.vkToken(ctx)
	if err != nil {
		return err
	}

	disk, err := r.diskService(ctx, folder)
	if err != nil {
		return err
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	logPath := filepath.Join("tmp", "vkdrive-tui.log")
	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}
	defer logFile.Close()
	r.SetLogger(shared.NewLogger(logFile))

	source := &vkPhotoSource{vk: r.vk, owner: owner, token: vkToken}
	engine := tasks.NewTransferEngine(disk)

	model := ui.NewModel(ctx, source, engine, disk.Folder())
	p := tea.NewProgram(model)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
