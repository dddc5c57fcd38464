package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"fanarchive/pkg/auth"
	"fanarchive/pkg/config"
	"fanarchive/pkg/logger"
	"fanarchive/pkg/scraper"
)

var (
	// Run command flags
	outputDir    string
	scopeFlag    string
	requestDelay float64
	accountName  string
)

const defaultTargetsFile = "DL-links.txt"

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run [targets-file]",
	Short: "Archive posts from the configured fan club URLs",
	Long: `Archive the text of posts from every fan club URL listed in the targets
file (one fantia.jp URL per line, '#' starts a comment). Both fan club
listing URLs and single post URLs are accepted.

Credentials come from, in order:
  - Stored credentials (use 'fanarchive auth login' to store)
  - Environment variables (FANARCHIVE_COOKIE and FANARCHIVE_CSRF_TOKEN)
  - Configuration file

Posts whose file already exists under the output directory are skipped,
so an interrupted run can simply be started again.`,
	Example: `  # Archive using the default DL-links.txt in the current directory
  fanarchive run

  # Archive only free posts into a specific directory
  fanarchive run my-links.txt --scope free --output ./archive

  # Use a specific stored account and a slower request rate
  fanarchive run --account main --delay 3`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		runArchive(cmd, args)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&outputDir, "output", "o", "", "root output directory for archived posts")
	runCmd.Flags().StringVar(&scopeFlag, "scope", "", "which posts to archive: all, paid or free")
	runCmd.Flags().Float64Var(&requestDelay, "delay", -1, "minimum seconds between requests")
	runCmd.Flags().StringVarP(&accountName, "account", "a", "", "use specific stored account")
}

func runArchive(cmd *cobra.Command, args []string) {
	targetsFile := defaultTargetsFile
	if len(args) > 0 {
		targetsFile = args[0]
	}

	cfg := loadRunConfig()

	if err := logger.Initialize(&cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	log := logger.GetLogger()
	log.WithField("version", version).Info("fanarchive starting")

	targets, err := config.LoadTargets(targetsFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load targets from %s: %v\n", targetsFile, err)
		os.Exit(1)
	}

	fmt.Printf("Archiving %d target(s) from %s (scope: %s)\n", len(targets), targetsFile, cfg.Settings.DownloadScope)

	archiver, err := scraper.New(cfg, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize archiver: %v\n", err)
		os.Exit(1)
	}

	outcome, runErr := archiver.Run(targets)
	printOutcome(outcome)

	if runErr != nil {
		log.WithError(runErr).Error("run aborted")
		fmt.Fprintf(os.Stderr, "\nRun aborted: %v\n", runErr)
		os.Exit(1)
	}

	log.Info("run completed")
}

// loadRunConfig assembles the run configuration from all sources, filling in
// stored credentials before validation so a config file without credentials
// still works.
func loadRunConfig() *config.Config {
	flags := make(map[string]interface{})
	if outputDir != "" {
		flags["output"] = outputDir
	}
	if scopeFlag != "" {
		flags["scope"] = scopeFlag
	}
	if requestDelay >= 0 {
		flags["delay"] = requestDelay
	}
	if logLevel != "info" {
		flags["log-level"] = logLevel
	}

	cfg := config.DefaultConfig()
	if err := cfg.LoadFromFile(configFile); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.LoadFromEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load environment variables: %v\n", err)
		os.Exit(1)
	}
	cfg.MergeCommandLineFlags(flags)

	fillCredentials(cfg)

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Configuration invalid: %v\n", err)
		os.Exit(1)
	}

	return cfg
}

// fillCredentials resolves the session credentials from the credential store
// when the config and environment did not provide them.
func fillCredentials(cfg *config.Config) {
	haveCreds := cfg.Auth.Cookie != "" && cfg.Auth.CSRFToken != ""
	if haveCreds && accountName == "" {
		return
	}

	manager, err := auth.NewManager()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize credential manager: %v\n", err)
		os.Exit(1)
	}

	var account *auth.Account
	if accountName != "" {
		account, err = manager.Retrieve(accountName)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Account %q not found. Use 'fanarchive auth list' to see stored accounts.\n", accountName)
			os.Exit(1)
		}
	} else {
		account, err = manager.RetrieveDefault()
		if err != nil {
			fmt.Fprintln(os.Stderr, "No Fantia credentials found.")
			fmt.Fprintln(os.Stderr, "\nTo store credentials securely, run:")
			fmt.Fprintln(os.Stderr, "  fanarchive auth login")
			fmt.Fprintln(os.Stderr, "\nOr set environment variables:")
			fmt.Fprintln(os.Stderr, "  export FANARCHIVE_COOKIE=your_cookie_header")
			fmt.Fprintln(os.Stderr, "  export FANARCHIVE_CSRF_TOKEN=your_csrf_token")
			os.Exit(1)
		}
	}

	cfg.Auth.Cookie = account.Cookie
	cfg.Auth.CSRFToken = account.CSRFToken
	if account.UserAgent != "" {
		cfg.Auth.UserAgent = account.UserAgent
	}
	fmt.Printf("Using account: %s\n", account.Name)
}

func printOutcome(outcome *scraper.RunOutcome) {
	fmt.Println()
	for _, res := range outcome.Targets {
		switch res.Status {
		case scraper.StatusDone:
			fmt.Printf("  %-60s pages=%d found=%d archived=%d skipped=%d filtered=%d errors=%d\n",
				res.URL, res.Pages, res.Found, res.Downloaded, res.Skipped, res.Filtered, res.Errors)
		case scraper.StatusFailed:
			fmt.Printf("  %-60s FAILED: %v\n", res.URL, res.Err)
		case scraper.StatusNotAttempted:
			fmt.Printf("  %-60s not attempted\n", res.URL)
		}
	}

	totals := outcome.Totals()
	fmt.Printf("\nTotal: %d found, %d archived, %d already present, %d filtered, %d errors (%d/%d targets completed)\n",
		totals.Found, totals.Downloaded, totals.Skipped, totals.Filtered, totals.Errors,
		outcome.Completed(), len(outcome.Targets))
}
