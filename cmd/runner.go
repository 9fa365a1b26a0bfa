package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"
	"github.com/vkdrive/vkdrive/internal/services"
	"github.com/vkdrive/vkdrive/internal/shared"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	account    *services.AccountClient
	store      services.SessionStore
	vk         *services.VKService
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Account    *services.AccountClient
	Store      services.SessionStore
	VK         *services.VKService
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.VK == nil {
		opts.VK = services.NewVKServiceWithConfig(
			opts.Config.Providers.VK.BaseURL,
			opts.Config.Providers.VK.Version,
			opts.HTTPClient,
		)
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		account:    opts.Account,
		store:      opts.Store,
		vk:         opts.VK,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
	}
}

// SetLogger swaps the runner's logger, used by the TUI to redirect logs away from the terminal.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, serveCommand, authCommand, vkCommand, diskCommand, transferCommand, usersCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// diskService resolves the stored Yandex.Disk token and builds a client for it.
func (r *Runner) diskService(ctx context.Context, folder string) (*services.DiskService, error) {
	if r.account == nil {
		return nil, fmt.Errorf("%w: backend client not initialized", shared.ErrNotAuthenticated)
	}

	token, err := r.account.ProviderToken(ctx, services.ProviderDisk)
	if err != nil {
		return nil, err
	}

	if folder == "" {
		folder = r.config.Providers.Disk.Folder
	}

	return services.NewDiskServiceWithConfig(r.config.Providers.Disk.BaseURL, token, folder, r.httpClient), nil
}

// vkToken resolves the stored VK access token from the backend.
func (r *Runner) vkToken(ctx context.Context) (string, error) {
	if r.account == nil {
		return "", fmt.Errorf("%w: backend client not initialized", shared.ErrNotAuthenticated)
	}
	return r.account.ProviderToken(ctx, services.ProviderVK)
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
