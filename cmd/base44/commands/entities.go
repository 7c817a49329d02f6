package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/base44-io/base44-client/pkg/base44"
	"github.com/spf13/cobra"
)

// NewEntitiesCommand creates the entities command group.
func NewEntitiesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "entities",
		Aliases: []string{"entity"},
		Short:   "Manage application entities",
		Long:    "List, inspect, and modify records of any entity declared by the app",
	}

	cmd.AddCommand(newEntitiesListCommand())
	cmd.AddCommand(newEntitiesGetCommand())
	cmd.AddCommand(newEntitiesCreateCommand())
	cmd.AddCommand(newEntitiesUpdateCommand())
	cmd.AddCommand(newEntitiesDeleteCommand())
	cmd.AddCommand(newEntitiesImportCommand())

	return cmd
}

func newEntitiesListCommand() *cobra.Command {
	var (
		sortField string
		limit     int
		skip      int
		fields    []string
		filters   []string
	)

	cmd := &cobra.Command{
		Use:   "list ENTITY_NAME",
		Short: "List entity records",
		Long:  "List records of an entity, optionally sorted, paged, and filtered",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entityName := args[0]

			ctx := context.Background()

			client, err := CreateClient(ctx)
			if err != nil {
				return err
			}

			params := base44.NewQueryParams()
			if sortField != "" {
				params.WithSort(sortField)
			}

			if limit > 0 {
				params.WithLimit(limit)
			}

			if skip > 0 {
				params.WithSkip(skip)
			}

			if len(fields) > 0 {
				params.WithFields(fields...)
			}

			var entities []base44.Entity

			if len(filters) > 0 {
				query, err := parseKeyValuePairs(filters, ErrInvalidFilterFormat)
				if err != nil {
					return err
				}

				entities, err = client.Entity(entityName).Filter(ctx, query, params)
				if err != nil {
					return fmt.Errorf("failed to filter %s records: %w", entityName, err)
				}
			} else {
				entities, err = client.Entity(entityName).List(ctx, params)
				if err != nil {
					return fmt.Errorf("failed to list %s records: %w", entityName, err)
				}
			}

			return outputEntities(entities)
		},
	}

	cmd.Flags().StringVar(&sortField, "sort", "", "sort field (prefix with - for descending)")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of records")
	cmd.Flags().IntVar(&skip, "skip", 0, "number of records to skip")
	cmd.Flags().StringSliceVar(&fields, "fields", nil, "fields to include in results")
	cmd.Flags().StringArrayVar(&filters, "filter", nil, "filter records (field=value, repeatable)")

	return cmd
}

func newEntitiesGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get ENTITY_NAME RECORD_ID",
		Short: "Get an entity record",
		Long:  "Display a single entity record by ID",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			entityName := args[0]
			recordID := args[1]

			ctx := context.Background()

			client, err := CreateClient(ctx)
			if err != nil {
				return err
			}

			entity, err := client.Entity(entityName).Get(ctx, recordID)
			if err != nil {
				return fmt.Errorf("failed to get %s record: %w", entityName, err)
			}

			return outputEntity(entity)
		},
	}
}

func newEntitiesCreateCommand() *cobra.Command {
	var (
		dataJSON string
		fields   []string
	)

	cmd := &cobra.Command{
		Use:   "create ENTITY_NAME",
		Short: "Create an entity record",
		Long:  "Create a record from a JSON document or repeated key=value fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entityName := args[0]

			record, err := buildRecord(dataJSON, fields)
			if err != nil {
				return err
			}

			ctx := context.Background()

			client, err := CreateClient(ctx)
			if err != nil {
				return err
			}

			entity, err := client.Entity(entityName).Create(ctx, record)
			if err != nil {
				return fmt.Errorf("failed to create %s record: %w", entityName, err)
			}

			return outputEntity(entity)
		},
	}

	cmd.Flags().StringVar(&dataJSON, "data", "", "record fields as a JSON object")
	cmd.Flags().StringArrayVar(&fields, "field", nil, "record field (key=value, repeatable)")

	return cmd
}

func newEntitiesUpdateCommand() *cobra.Command {
	var (
		dataJSON string
		fields   []string
	)

	cmd := &cobra.Command{
		Use:   "update ENTITY_NAME RECORD_ID",
		Short: "Update an entity record",
		Long:  "Apply a partial update to a record; unspecified fields are left untouched",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			entityName := args[0]
			recordID := args[1]

			record, err := buildRecord(dataJSON, fields)
			if err != nil {
				return err
			}

			ctx := context.Background()

			client, err := CreateClient(ctx)
			if err != nil {
				return err
			}

			entity, err := client.Entity(entityName).Update(ctx, recordID, record)
			if err != nil {
				return fmt.Errorf("failed to update %s record: %w", entityName, err)
			}

			return outputEntity(entity)
		},
	}

	cmd.Flags().StringVar(&dataJSON, "data", "", "fields to change as a JSON object")
	cmd.Flags().StringArrayVar(&fields, "field", nil, "field to change (key=value, repeatable)")

	return cmd
}

func newEntitiesDeleteCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete ENTITY_NAME RECORD_ID",
		Short: "Delete an entity record",
		Long:  "Delete a single entity record by ID",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			entityName := args[0]
			recordID := args[1]

			if !force {
				_, _ = fmt.Fprintf(os.Stdout, "Really delete %s '%s'? (y/N): ", entityName, recordID)

				var response string

				_, _ = fmt.Scanln(&response)
				if response != "y" && response != "Y" {
					_, _ = os.Stdout.WriteString("Cancelled\n")

					return nil
				}
			}

			ctx := context.Background()

			client, err := CreateClient(ctx)
			if err != nil {
				return err
			}

			err = client.Entity(entityName).Delete(ctx, recordID)
			if err != nil {
				return fmt.Errorf("failed to delete %s record: %w", entityName, err)
			}

			_, _ = fmt.Fprintf(os.Stdout, "Successfully deleted %s '%s'\n", entityName, recordID)

			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "force deletion without confirmation")

	return cmd
}

func newEntitiesImportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import ENTITY_NAME FILE",
		Short: "Import entity records from a file",
		Long:  "Upload a CSV or JSON file and create a record per row",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			entityName := args[0]
			filePath := args[1]

			file, err := os.Open(filePath)
			if err != nil {
				return fmt.Errorf("opening import file: %w", err)
			}
			defer func() { _ = file.Close() }()

			ctx := context.Background()

			client, err := CreateClient(ctx)
			if err != nil {
				return err
			}

			result, err := client.Entity(entityName).Import(ctx, filepath.Base(filePath), file)
			if err != nil {
				return fmt.Errorf("failed to import %s records: %w", entityName, err)
			}

			_, _ = fmt.Fprintf(os.Stdout, "Successfully imported %s records from %s\n", entityName, filePath)

			if len(result) > 0 {
				return renderValue(result, OutputFormatJSON)
			}

			return nil
		},
	}
}

// buildRecord merges the --data JSON document with repeated --field pairs.
// Field pairs win on key collision.
func buildRecord(dataJSON string, fields []string) (map[string]interface{}, error) {
	record := make(map[string]interface{})

	if strings.TrimSpace(dataJSON) != "" {
		err := json.Unmarshal([]byte(dataJSON), &record)
		if err != nil {
			return nil, fmt.Errorf("parsing --data JSON: %w", err)
		}
	}

	pairs, err := parseKeyValuePairs(fields, ErrInvalidFieldFormat)
	if err != nil {
		return nil, err
	}

	for key, value := range pairs {
		record[key] = value
	}

	return record, nil
}
