// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// setupCommand handles setup operations for the configuration file and database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Initialize configuration and database",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
		},
		Action: r.Setup,
	}
}

// serveCommand starts the vkdrive backend HTTP server.
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the vkdrive backend server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
		},
		Action: r.Serve,
	}
}

// authCommand handles backend sessions and provider authorization.
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage authentication",
		Commands: []*cli.Command{
			{
				Name:  "login",
				Usage: "Log in to the vkdrive backend",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "email",
						Usage:    "Account email",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "password",
						Usage:    "Account password",
						Required: true,
					},
				},
				Action: r.AuthLogin,
			},
			{
				Name:   "logout",
				Usage:  "Log out and clear the local session",
				Action: r.AuthLogout,
			},
			{
				Name:   "status",
				Usage:  "Show the current account and connected providers",
				Action: r.AuthStatus,
			},
			{
				Name:    "connect",
				Usage:   "Authorize a provider (vk or yandex) and store its token",
				Aliases: []string{"link"},
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "provider"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "redirect-url",
						Usage: "Paste the full redirect URL instead of running a local callback server",
					},
				},
				Action: r.AuthConnect,
			},
		},
	}
}

// vkCommand handles VK photo operations
func vkCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "vk",
		Usage: "VK photo operations",
		Commands: []*cli.Command{
			{
				Name:  "photos",
				Usage: "List profile photos with their best resolution URL",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "owner",
						Usage: "VK owner ID (defaults to the token's account)",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
				},
				Action: r.VKPhotos,
			},
		},
	}
}

// diskCommand handles Yandex.Disk operations
func diskCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "disk",
		Usage: "Yandex.Disk operations",
		Commands: []*cli.Command{
			{
				Name:    "ls",
				Aliases: []string{"list"},
				Usage:   "List uploaded photos in the app folder",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "folder",
						Usage: "Disk folder to list",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.DiskList,
			},
			{
				Name:    "rm",
				Aliases: []string{"remove"},
				Usage:   "Permanently delete a photo from the app folder",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "name"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "folder",
						Usage: "Disk folder containing the file",
					},
				},
				Action: r.DiskRemove,
			},
			{
				Name:  "url",
				Usage: "Get a download URL for an uploaded photo",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "name"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "folder",
						Usage: "Disk folder containing the file",
					},
				},
				Action: r.DiskURL,
			},
		},
	}
}

// transferCommand handles the VK → Yandex.Disk photo transfer.
func transferCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "transfer",
		Usage: "Transfer photos between services",
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "Run full VK → Yandex.Disk photo sync",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "owner",
						Usage: "VK owner ID (defaults to the token's account)",
					},
					&cli.StringFlag{
						Name:  "folder",
						Usage: "Destination folder on Yandex.Disk",
					},
					&cli.StringFlag{
						Name:  "report",
						Usage: "Base path for CSV and markdown report files",
					},
					&cli.IntFlag{
						Name:  "retries",
						Usage: "Retry passes over photos that failed to upload",
						Value: 0,
					},
				},
				Action: r.TransferRun,
			},
		},
	}
}

// usersCommand handles admin user management against the local database.
func usersCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "users",
		Usage: "Manage backend accounts (direct database access)",
		Commands: []*cli.Command{
			{
				Name:  "create",
				Usage: "Create an account, used to bootstrap the first admin",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
					&cli.StringFlag{
						Name:     "email",
						Usage:    "Account email",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "password",
						Usage:    "Account password",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "first-name",
						Usage: "First name",
						Value: "Admin",
					},
					&cli.StringFlag{
						Name:  "last-name",
						Usage: "Last name",
						Value: "User",
					},
					&cli.BoolFlag{
						Name:  "admin",
						Usage: "Grant the admin role",
					},
				},
				Action: r.UsersCreate,
			},
			{
				Name:  "list",
				Usage: "List accounts",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
					&cli.StringFlag{
						Name:  "search",
						Usage: "Filter by email, name or sequence number",
					},
				},
				Action: r.UsersList,
			},
		},
	}
}

// tuiCommand returns the top-level TUI command for interactive photo transfer.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch interactive TUI for photo transfer",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "owner",
				Usage: "VK owner ID (defaults to the token's account)",
			},
			&cli.StringFlag{
				Name:  "folder",
				Usage: "Destination folder on Yandex.Disk",
			},
		},
		Action: r.TUI,
	}
}
