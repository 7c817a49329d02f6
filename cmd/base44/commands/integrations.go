package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// NewIntegrationsCommand creates the integrations command group.
func NewIntegrationsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "integrations",
		Aliases: []string{"integration"},
		Short:   "Invoke integration endpoints",
		Long:    "Call backend-defined integration endpoints of the app",
	}

	cmd.AddCommand(newIntegrationsInvokeCommand())

	return cmd
}

func newIntegrationsInvokeCommand() *cobra.Command {
	var payloadJSON string

	cmd := &cobra.Command{
		Use:   "invoke PACKAGE ENDPOINT",
		Short: "Invoke an integration endpoint",
		Long:  "Invoke an endpoint of an integration package with an optional JSON payload",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			packageName := args[0]
			endpointName := args[1]

			var payload interface{}

			if strings.TrimSpace(payloadJSON) != "" {
				err := json.Unmarshal([]byte(payloadJSON), &payload)
				if err != nil {
					return fmt.Errorf("parsing --payload JSON: %w", err)
				}
			}

			ctx := context.Background()

			client, err := CreateClient(ctx)
			if err != nil {
				return err
			}

			result, err := client.Integrations().Invoke(ctx, packageName, endpointName, payload)
			if err != nil {
				return fmt.Errorf("failed to invoke %s.%s: %w", packageName, endpointName, err)
			}

			if result == nil {
				return nil
			}

			return renderValue(result, OutputFormatJSON)
		},
	}

	cmd.Flags().StringVar(&payloadJSON, "payload", "", "endpoint payload as a JSON document")

	return cmd
}
