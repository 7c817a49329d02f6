package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/base44-io/base44-client/pkg/base44"
	"github.com/base44-io/base44-client/pkg/base44client"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Output formats.
const (
	OutputFormatJSON = "json"
	OutputFormatYAML = "yaml"
)

// Common static errors used throughout the commands package.
var (
	ErrAppIDNotConfigured  = errors.New("no app ID configured (use --app-id or 'base44 config set app_id <id>')")
	ErrInvalidFilterFormat = errors.New("invalid filter format, expected field=value")
	ErrInvalidFieldFormat  = errors.New("invalid field format, expected key=value")
	ErrNotAuthenticated    = errors.New("not authenticated (use 'base44 auth set-token' first)")
	ErrTokenRequired       = errors.New("token is required")
)

// CreateClient builds an SDK client from the effective CLI configuration.
func CreateClient(ctx context.Context) (base44.Client, error) {
	appID := viper.GetString("app_id")
	if appID == "" {
		return nil, ErrAppIDNotConfigured
	}

	config := &base44.Config{
		AppID:     appID,
		ServerURL: viper.GetString("server"),
		Token:     viper.GetString("token"),
	}

	client, err := base44client.New(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	return client, nil
}

// parseKeyValuePairs parses repeated key=value flag arguments.
func parseKeyValuePairs(pairs []string, formatErr error) (map[string]interface{}, error) {
	result := make(map[string]interface{}, len(pairs))

	for _, pair := range pairs {
		key, value, found := strings.Cut(pair, "=")
		if !found || key == "" {
			return nil, fmt.Errorf("%w: %s", formatErr, pair)
		}

		result[key] = value
	}

	return result, nil
}

// renderValue writes any value as JSON or YAML.
func renderValue(value interface{}, format string) error {
	switch format {
	case OutputFormatJSON:
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")

		err := encoder.Encode(value)
		if err != nil {
			return fmt.Errorf("encoding to JSON: %w", err)
		}

		return nil
	case OutputFormatYAML:
		encoder := yaml.NewEncoder(os.Stdout)

		err := encoder.Encode(value)
		if err != nil {
			return fmt.Errorf("encoding to YAML: %w", err)
		}

		return nil
	default:
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")

		err := encoder.Encode(value)
		if err != nil {
			return fmt.Errorf("encoding to JSON: %w", err)
		}

		return nil
	}
}

// entityColumns picks a stable column set for a list of schemaless records:
// id and the common audit fields first, then the remaining keys sorted.
func entityColumns(entities []base44.Entity) []string {
	seen := make(map[string]bool)
	for _, entity := range entities {
		for key := range entity {
			seen[key] = true
		}
	}

	preferred := []string{"id", "created_date", "updated_date", "created_by"}
	columns := make([]string, 0, len(seen))

	for _, key := range preferred {
		if seen[key] {
			columns = append(columns, key)
			delete(seen, key)
		}
	}

	rest := make([]string, 0, len(seen))
	for key := range seen {
		rest = append(rest, key)
	}

	sort.Strings(rest)

	return append(columns, rest...)
}

// renderEntityTable renders schemaless records as a table. Long values are
// truncated for display.
func renderEntityTable(entities []base44.Entity) error {
	if len(entities) == 0 {
		_, _ = os.Stdout.WriteString("No records found\n")

		return nil
	}

	columns := entityColumns(entities)

	table := tablewriter.NewWriter(os.Stdout)
	table.Header(columns)

	for _, entity := range entities {
		row := make([]string, 0, len(columns))

		for _, column := range columns {
			value, ok := entity[column]
			if !ok || value == nil {
				row = append(row, "")

				continue
			}

			valueStr := fmt.Sprintf("%v", value)
			if len(valueStr) > 60 {
				valueStr = valueStr[:57] + "..."
			}

			row = append(row, valueStr)
		}

		_ = table.Append(row)
	}

	_ = table.Render()

	return nil
}

// outputEntities renders records in the configured output format.
func outputEntities(entities []base44.Entity) error {
	output := viper.GetString("output")
	switch output {
	case OutputFormatJSON, OutputFormatYAML:
		return renderValue(entities, output)
	default:
		return renderEntityTable(entities)
	}
}

// outputEntity renders one record in the configured output format.
func outputEntity(entity base44.Entity) error {
	output := viper.GetString("output")
	switch output {
	case OutputFormatJSON, OutputFormatYAML:
		return renderValue(entity, output)
	default:
		table := tablewriter.NewWriter(os.Stdout)
		table.Header("Field", "Value")

		keys := entityColumns([]base44.Entity{entity})
		for _, key := range keys {
			_ = table.Append([]string{key, fmt.Sprintf("%v", entity[key])})
		}

		_ = table.Render()

		return nil
	}
}
