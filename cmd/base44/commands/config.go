package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/base44-io/base44-client/internal/constants"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config represents the CLI configuration.
type Config struct {
	AppID  string `json:"app_id,omitempty" yaml:"app_id,omitempty"`
	Server string `json:"server,omitempty" yaml:"server,omitempty"`
	Token  string `json:"token,omitempty"  yaml:"token,omitempty"`
	Output string `json:"output,omitempty" yaml:"output,omitempty"`
}

var ErrUnknownConfigKey = errors.New("unknown configuration key")

// NewConfigCommand creates the config command group.
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage CLI configuration",
		Long:  "Manage Base44 CLI configuration including the target app and token",
	}

	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigSetCommand())
	cmd.AddCommand(newConfigUnsetCommand())
	cmd.AddCommand(newConfigClearCommand())

	return cmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Long:  "Display the current CLI configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()

			output := viper.GetString("output")
			switch output {
			case OutputFormatJSON, OutputFormatYAML:
				return renderValue(config, output)
			default:
				table := tablewriter.NewWriter(os.Stdout)
				table.Header("Key", "Value")

				_ = table.Append("app_id", config.AppID)
				_ = table.Append("server", config.Server)
				_ = table.Append("token", maskToken(config.Token))
				_ = table.Append("output", config.Output)

				_ = table.Render()

				return nil
			}
		},
	}
}

func newConfigSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Set a configuration value",
		Long:  "Set a specific configuration value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			value := args[1]

			config := loadConfig()

			err := applyConfigKey(config, key, value)
			if err != nil {
				return err
			}

			err = saveConfig(config)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(os.Stdout, "Set %s\n", key)

			return nil
		},
	}
}

func newConfigUnsetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "unset KEY",
		Short: "Unset a configuration value",
		Long:  "Remove a specific configuration value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]

			config := loadConfig()

			err := applyConfigKey(config, key, "")
			if err != nil {
				return err
			}

			err = saveConfig(config)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(os.Stdout, "Unset %s\n", key)

			return nil
		},
	}
}

func newConfigClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear configuration",
		Long:  "Remove all configuration settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			err := os.Remove(configFilePath())
			if err != nil && !os.IsNotExist(err) {
				return fmt.Errorf("failed to remove config file: %w", err)
			}

			_, _ = os.Stdout.WriteString("Cleared all configuration\n")

			return nil
		},
	}
}

func loadConfig() *Config {
	return &Config{
		AppID:  viper.GetString("app_id"),
		Server: viper.GetString("server"),
		Token:  viper.GetString("token"),
		Output: viper.GetString("output"),
	}
}

func applyConfigKey(config *Config, key, value string) error {
	switch key {
	case "app_id":
		config.AppID = value
	case "server":
		config.Server = value
	case "token":
		config.Token = value
	case "output":
		config.Output = value
	default:
		return fmt.Errorf("%w: %s", ErrUnknownConfigKey, key)
	}

	return nil
}

func configFilePath() string {
	configFile := viper.ConfigFileUsed()
	if configFile == "" {
		home, _ := os.UserHomeDir()
		configFile = filepath.Join(home, ".base44", "config.yml")
	}

	return configFile
}

func saveConfig(config *Config) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("encoding configuration: %w", err)
	}

	configFile := configFilePath()

	err = os.MkdirAll(filepath.Dir(configFile), constants.ConfigDirPerm)
	if err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	err = os.WriteFile(configFile, data, constants.ConfigFilePerm)
	if err != nil {
		return fmt.Errorf("writing configuration: %w", err)
	}

	// Keep the in-process view consistent with what was just written.
	viper.Set("app_id", config.AppID)
	viper.Set("server", config.Server)
	viper.Set("token", config.Token)
	viper.Set("output", config.Output)

	return nil
}

func maskToken(token string) string {
	if token == "" {
		return ""
	}

	return "***"
}
