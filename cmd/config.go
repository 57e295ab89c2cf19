package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"tally/internal/config"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Display the effective configuration",
	Long: `Display the current effective configuration settings.

Shows the configuration file location, whether it exists, and all current
settings. Values are merged from the config file with defaults; tally works
without any configuration file.

Configuration file location:
  ~/.config/tally/config.toml        Linux/macOS
  %APPDATA%\tally\config.toml        Windows`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		showConfig()
	},
}

// configInitCmd represents the config init command
var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a commented sample config file",
	Long: `Write a commented sample configuration file to the default location.
Fails rather than overwriting an existing file.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		initConfig()
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
}

// showConfig displays the current effective configuration
func showConfig() {
	configPath, err := config.GetConfigPath()
	if err != nil {
		_, _ = fmt.Fprintln(deps.Stderr, "Error: Failed to determine config file location")
		_, _ = fmt.Fprintf(deps.Stderr, "Details: %v\n", err)
		_, _ = fmt.Fprintln(deps.Stderr, "Hint: Check that your home directory is accessible")
		deps.Exit(1)
		return
	}

	fileExists := false
	if _, err := os.Stat(configPath); err == nil {
		fileExists = true
	}

	cfg, err := config.LoadOrDefault(configPath)
	if err != nil {
		_, _ = fmt.Fprintln(deps.Stderr, "Error: Failed to load configuration")
		_, _ = fmt.Fprintf(deps.Stderr, "Details: %v\n", err)
		_, _ = fmt.Fprintf(deps.Stderr, "Hint: Check the syntax of %s\n", configPath)
		deps.Exit(1)
		return
	}

	_, _ = fmt.Fprintf(deps.Stdout, "Config file: %s", configPath)
	if fileExists {
		_, _ = fmt.Fprintln(deps.Stdout)
	} else {
		_, _ = fmt.Fprintln(deps.Stdout, " (not present, using defaults)")
	}
	_, _ = fmt.Fprintln(deps.Stdout)

	_, _ = fmt.Fprintf(deps.Stdout, "timezone:      %s\n", cfg.Timezone)
	_, _ = fmt.Fprintf(deps.Stdout, "listen_addr:   %s\n", cfg.ListenAddr)
	_, _ = fmt.Fprintf(deps.Stdout, "default_limit: %d\n", cfg.DefaultLimit)
	if cfg.DatabasePath != "" {
		_, _ = fmt.Fprintf(deps.Stdout, "database_path: %s\n", cfg.DatabasePath)
	}
	if cfg.RosterPath != "" {
		_, _ = fmt.Fprintf(deps.Stdout, "roster_path:   %s\n", cfg.RosterPath)
	}
	if cfg.ClientsPath != "" {
		_, _ = fmt.Fprintf(deps.Stdout, "clients_path:  %s\n", cfg.ClientsPath)
	}
	if cfg.APIToken != "" {
		_, _ = fmt.Fprintln(deps.Stdout, "api_token:     (set)")
	}
}

// initConfig writes the sample config file
func initConfig() {
	configPath, err := config.GetConfigPath()
	if err != nil {
		_, _ = fmt.Fprintln(deps.Stderr, "Error: Failed to determine config file location")
		_, _ = fmt.Fprintf(deps.Stderr, "Details: %v\n", err)
		deps.Exit(1)
		return
	}

	if _, err := os.Stat(configPath); err == nil {
		_, _ = fmt.Fprintf(deps.Stderr, "Error: Config file already exists: %s\n", configPath)
		_, _ = fmt.Fprintln(deps.Stderr, "Hint: Edit it directly, or remove it first to regenerate")
		deps.Exit(1)
		return
	}

	if err := os.WriteFile(configPath, []byte(config.GenerateSampleConfig()), 0644); err != nil {
		_, _ = fmt.Fprintln(deps.Stderr, "Error: Failed to write config file")
		_, _ = fmt.Fprintf(deps.Stderr, "Details: %v\n", err)
		deps.Exit(1)
		return
	}

	_, _ = fmt.Fprintf(deps.Stdout, "Wrote sample config to %s\n", configPath)
}
