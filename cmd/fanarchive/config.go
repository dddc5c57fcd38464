package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"fanarchive/pkg/config"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration files",
	Long: `Manage fanarchive configuration files.

Configuration can be loaded from:
  - Command line flags (highest priority)
  - Environment variables (FANARCHIVE_*)
  - Configuration file
  - Default values (lowest priority)`,
}

// initCmd represents the config init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create an example configuration file",
	Long: `Create an example configuration file with all available options.

The file will be created in the current directory as 'fanarchive.yaml'
unless a different path is specified with the --config flag.`,
	Run: runConfigInit,
}

// showCmd represents the config show command
var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long: `Show the effective configuration merged from all sources.

Credential values are masked.`,
	Run: runConfigShow,
}

// validateCmd represents the config validate command
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration file",
	Long: `Validate a configuration file for syntax errors and invalid values.

This command checks YAML syntax, required fields and value ranges.`,
	Run: runConfigValidate,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(initCmd)
	configCmd.AddCommand(showCmd)
	configCmd.AddCommand(validateCmd)
}

const exampleConfig = `# fanarchive configuration file
#
# Every option can also be set with an environment variable prefixed
# with FANARCHIVE_, for example FANARCHIVE_COOKIE or FANARCHIVE_SCOPE.

# Fantia session credentials. Prefer 'fanarchive auth login' over keeping
# credentials in this file.
authentication:
  # Cookie header of a logged-in fantia.jp browser session
  cookie: "Please paste your cookie value here"

  # CSRF token from the page's meta tags
  csrf_token: "Please paste your CSRF token here"

  # User-Agent string. Leave empty to use the default.
  user_agent: ""

# Crawl behavior
settings:
  # Which posts to archive: all, paid or free
  download_scope: "all"

  # Directory archived posts are written under
  root_output_dir: "fantia_novels"

  # Minimum seconds between requests
  request_delay: 1.5

# Logging
logging:
  # Log level: debug, info, warn, error
  level: "info"

  # Log file path. Leave empty to log to stderr only.
  file: ""
`

func runConfigInit(cmd *cobra.Command, args []string) {
	configPath := configFile
	if configPath == "" {
		configPath = "fanarchive.yaml"
	}

	if _, err := os.Stat(configPath); err == nil {
		fmt.Fprintf(os.Stderr, "Configuration file already exists: %s\n", configPath)
		fmt.Fprintln(os.Stderr, "\nTo overwrite, first remove the existing file:")
		fmt.Fprintf(os.Stderr, "  rm %s\n", configPath)
		os.Exit(1)
	}

	if err := os.WriteFile(configPath, []byte(exampleConfig), 0600); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create configuration file: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Configuration file created: " + configPath)
	fmt.Println("\nNext steps:")
	fmt.Println("1. Run 'fanarchive auth login' to store your Fantia credentials")
	fmt.Println("2. Put your fan club URLs into DL-links.txt, one per line")
	fmt.Println("3. Start archiving with 'fanarchive run'")
}

func runConfigShow(cmd *cobra.Command, args []string) {
	cfg := config.DefaultConfig()
	if err := cfg.LoadFromFile(configFile); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.LoadFromEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load environment variables: %v\n", err)
		os.Exit(1)
	}

	display := *cfg
	if display.Auth.Cookie != "" {
		display.Auth.Cookie = maskSecret(display.Auth.Cookie)
	}
	if display.Auth.CSRFToken != "" {
		display.Auth.CSRFToken = maskSecret(display.Auth.CSRFToken)
	}

	data, err := yaml.Marshal(&display)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to format configuration: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Current configuration:")
	fmt.Println()
	fmt.Print(string(data))

	fmt.Println("\nConfiguration sources (in order of priority):")
	fmt.Println("1. Command line flags")
	fmt.Println("2. Environment variables (FANARCHIVE_*)")
	if configFile != "" {
		fmt.Printf("3. Configuration file: %s\n", configFile)
	} else {
		fmt.Println("3. Configuration file: (searched in default locations)")
	}
	fmt.Println("4. Default values")
}

func runConfigValidate(cmd *cobra.Command, args []string) {
	cfg := config.DefaultConfig()
	if err := cfg.LoadFromFile(configFile); err != nil {
		fmt.Fprintf(os.Stderr, "Configuration validation failed: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.LoadFromEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load environment variables: %v\n", err)
		os.Exit(1)
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, "Configuration has errors:")
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	fmt.Println("Configuration is valid")
	fmt.Println("\nConfiguration summary:")
	fmt.Printf("  Download scope: %s\n", cfg.Settings.DownloadScope)
	fmt.Printf("  Output directory: %s\n", cfg.Settings.RootOutputDir)
	fmt.Printf("  Request delay: %.1fs\n", cfg.Settings.RequestDelay)
	fmt.Printf("  Request timeout: %s\n", cfg.Settings.RequestTimeout)
	fmt.Printf("  Log level: %s\n", cfg.Logging.Level)
}
