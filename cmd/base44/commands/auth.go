package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/base44-io/base44-client/pkg/base44"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"
)

// NewAuthCommand creates the auth command group.
func NewAuthCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage authentication",
		Long:  "Inspect and manage the access token used against the app backend",
	}

	cmd.AddCommand(newAuthLoginCommand())
	cmd.AddCommand(newAuthMeCommand())
	cmd.AddCommand(newAuthSetTokenCommand())
	cmd.AddCommand(newAuthStatusCommand())
	cmd.AddCommand(newAuthLogoutCommand())

	return cmd
}

func newAuthLoginCommand() *cobra.Command {
	var nextURL string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Print the hosted login URL",
		Long:  "Build the hosted login URL for the configured app; sign in there, then store the token with 'base44 auth set-token'",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			client, err := CreateClient(ctx)
			if err != nil {
				return err
			}

			// The CLI has no navigator, so Login reports ErrNoNavigator
			// while still returning the URL.
			loginURL, err := client.Auth().Login(ctx, nextURL)
			if err != nil && !errors.Is(err, base44.ErrNoNavigator) {
				return fmt.Errorf("failed to build login URL: %w", err)
			}

			fmt.Printf("Open this URL in a browser to sign in:\n%s\n", loginURL)

			return nil
		},
	}

	cmd.Flags().StringVar(&nextURL, "next-url", "", "URL to return to after login")

	return cmd
}

func newAuthMeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "me",
		Short: "Show the authenticated user",
		Long:  "Display the user record behind the configured access token",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			client, err := CreateClient(ctx)
			if err != nil {
				return err
			}

			user, err := client.Auth().Me(ctx)
			if err != nil {
				return fmt.Errorf("failed to get current user: %w", err)
			}

			output := viper.GetString("output")
			switch output {
			case OutputFormatJSON, OutputFormatYAML:
				return renderValue(user, output)
			default:
				table := tablewriter.NewWriter(os.Stdout)
				table.Header("Property", "Value")

				_ = table.Append("ID", user.ID)
				_ = table.Append("Email", user.Email)
				_ = table.Append("Full Name", user.FullName)
				_ = table.Append("Role", user.Role)
				_ = table.Append("Disabled", fmt.Sprintf("%t", user.Disabled))

				_ = table.Render()

				return nil
			}
		},
	}
}

func newAuthSetTokenCommand() *cobra.Command {
	var token string

	cmd := &cobra.Command{
		Use:   "set-token",
		Short: "Store an access token",
		Long:  "Store an access token in the CLI configuration, prompting when not given",
		RunE: func(cmd *cobra.Command, args []string) error {
			if token == "" {
				fmt.Print("Access token: ")

				byteToken, err := term.ReadPassword(int(syscall.Stdin))
				if err != nil {
					return fmt.Errorf("failed to read token: %w", err)
				}

				token = strings.TrimSpace(string(byteToken))

				fmt.Println()
			}

			if token == "" {
				return ErrTokenRequired
			}

			config := loadConfig()
			config.Token = token

			err := saveConfig(config)
			if err != nil {
				return err
			}

			_, _ = os.Stdout.WriteString("Token saved\n")

			return nil
		},
	}

	cmd.Flags().StringVar(&token, "token", "", "access token (prompted when omitted)")

	return cmd
}

func newAuthStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show authentication status",
		Long:  "Check whether the configured token is accepted by the backend",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			client, err := CreateClient(ctx)
			if err != nil {
				return err
			}

			if !client.Auth().IsAuthenticated(ctx) {
				return ErrNotAuthenticated
			}

			_, _ = os.Stdout.WriteString("Authenticated\n")

			return nil
		},
	}
}

func newAuthLogoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the stored token",
		Long:  "Remove the access token from the CLI configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()
			config.Token = ""

			err := saveConfig(config)
			if err != nil {
				return err
			}

			_, _ = os.Stdout.WriteString("Successfully logged out\n")

			return nil
		},
	}
}
