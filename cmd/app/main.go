// Package main provides the entry point for the application with CLI commands.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/empirehq/trustcore/cmd/app/commands"
)

const version = "1.0.0"

func main() {
	cmd := &cli.Command{
		Name:    "trustcore",
		Usage:   "Secret resolution and role-based access service",
		Version: version,
		Commands: []*cli.Command{
			{
				Name:  "server",
				Usage: "Start the HTTP server",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunServer(ctx, version)
				},
			},
			{
				Name:  "get-secret",
				Usage: "Resolve a secret through the configured provider chain",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "key",
						Aliases:  []string{"k"},
						Required: true,
						Usage:    "Secret key to resolve (e.g., API_KEY)",
					},
					&cli.StringFlag{
						Name:    "fallback",
						Aliases: []string{"f"},
						Usage:   "Value to return when no provider answers",
					},
					&cli.BoolFlag{
						Name:  "show-value",
						Usage: "Print the secret value instead of metadata only",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunGetSecret(
						ctx,
						commands.DefaultIO(),
						cmd.String("key"),
						cmd.String("fallback"),
						cmd.IsSet("fallback"),
						cmd.Bool("show-value"),
					)
				},
			},
			{
				Name:  "check-role",
				Usage: "Check whether a role satisfies a required role",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "role",
						Aliases:  []string{"r"},
						Required: true,
						Usage:    "Actor role (viewer, analyst, operator, admin, root)",
					},
					&cli.StringFlag{
						Name:     "required",
						Aliases:  []string{"q"},
						Required: true,
						Usage:    "Minimum role required for the operation",
					},
					&cli.StringFlag{
						Name:    "audit-action",
						Aliases: []string{"a"},
						Usage:   "Operation name for the denial message",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunCheckRole(
						commands.DefaultIO(),
						cmd.String("role"),
						cmd.String("required"),
						cmd.String("audit-action"),
					)
				},
			},
			{
				Name:  "validate-escalation",
				Usage: "Validate a temporary role escalation request",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "current",
						Aliases:  []string{"c"},
						Required: true,
						Usage:    "Current role of the user",
					},
					&cli.StringFlag{
						Name:     "requested",
						Aliases:  []string{"r"},
						Required: true,
						Usage:    "Requested role",
					},
					&cli.StringFlag{
						Name:    "reason",
						Usage:   "Reason for the escalation request",
						Value:   "manual validation",
						Aliases: []string{"m"},
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunValidateEscalation(
						commands.DefaultIO(),
						cmd.String("current"),
						cmd.String("requested"),
						cmd.String("reason"),
					)
				},
			},
			{
				Name:  "generate-key",
				Usage: "Generate a cache encryption key",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "encoding",
						Aliases: []string{"e"},
						Value:   "base64",
						Usage:   "Output encoding: 'base64' or 'hex'",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunGenerateKey(
						commands.DefaultIO(),
						cmd.String("encoding"),
					)
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.Any("error", err))
		os.Exit(1)
	}
}
