package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"fanarchive/pkg/auth"
)

// authCmd represents the auth command
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage Fantia credentials",
	Long: `Manage stored Fantia credentials securely.

Credentials are stored using:
  - System keychain (when available)
  - Encrypted file with PBKDF2 key derivation
  - Environment variables (read-only fallback)

Never share your credentials or config files!`,
}

// loginCmd represents the auth login command
var loginCmd = &cobra.Command{
	Use:   "login [name]",
	Short: "Store Fantia credentials securely",
	Long: `Store Fantia session credentials in the system keychain or an encrypted file.

You will be prompted for:
  - An account name (if not provided)
  - The Cookie header of a logged-in fantia.jp session
  - The CSRF token from the page markup
  - A User-Agent string (optional, press Enter for default)`,
	Example: `  # Interactive login
  fanarchive auth login

  # Login with an account name
  fanarchive auth login main`,
	Args: cobra.MaximumNArgs(1),
	Run:  runLogin,
}

// logoutCmd represents the auth logout command
var logoutCmd = &cobra.Command{
	Use:   "logout [name]",
	Short: "Remove stored credentials",
	Long: `Remove stored Fantia credentials.

If no account name is provided, you will be shown the stored accounts
to choose from.`,
	Args: cobra.MaximumNArgs(1),
	Run:  runLogout,
}

// listCmd represents the auth list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all stored accounts",
	Long:  `List all stored Fantia accounts with credential values masked.`,
	Run:   runList,
}

// guideCmd represents the auth guide command
var guideCmd = &cobra.Command{
	Use:   "guide",
	Short: "Show how to extract session credentials from a browser",
	Run: func(cmd *cobra.Command, args []string) {
		auth.ShowCookieExtractionGuide()
	},
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(loginCmd)
	authCmd.AddCommand(logoutCmd)
	authCmd.AddCommand(listCmd)
	authCmd.AddCommand(guideCmd)
}

func runLogin(cmd *cobra.Command, args []string) {
	manager, err := auth.NewManager()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize credential manager: %v\n", err)
		os.Exit(1)
	}

	var name string
	if len(args) > 0 {
		name = args[0]
	}

	reader := bufio.NewReader(os.Stdin)

	auth.ShowCookieExtractionGuide()

	fmt.Print("Ready to enter your session values? (Y/n): ")
	ready, _ := reader.ReadString('\n')
	if strings.ToLower(strings.TrimSpace(ready)) == "n" {
		fmt.Println("\nRun 'fanarchive auth login' when you're ready.")
		return
	}

	fmt.Println()

	if name == "" {
		fmt.Print("Account name (e.g. your Fantia login): ")
		input, err := reader.ReadString('\n')
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to read account name: %v\n", err)
			os.Exit(1)
		}
		name = strings.TrimSpace(input)
	}

	if name == "" {
		fmt.Fprintln(os.Stderr, "Account name is required")
		os.Exit(1)
	}

	if existing, _ := manager.Retrieve(name); existing != nil {
		fmt.Printf("\nAccount %q already exists. Update credentials? (y/N): ", name)
		input, _ := reader.ReadString('\n')
		if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(input)), "y") {
			return
		}
	}

	fmt.Println("\nEnter your session values (they will be hidden as you type):")
	fmt.Println()

	var cookie string
	for {
		fmt.Print("Cookie header value: ")
		cookie, err = readSecret()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to read cookie: %v\n", err)
			os.Exit(1)
		}

		if !strings.Contains(cookie, "_session_id") {
			fmt.Println("\nThat doesn't look like a Fantia session cookie.")
			fmt.Println("It should contain a _session_id=... pair.")
			fmt.Print("\nTry again? (Y/n): ")
			retry, _ := reader.ReadString('\n')
			if strings.ToLower(strings.TrimSpace(retry)) == "n" {
				os.Exit(1)
			}
			continue
		}
		break
	}

	var csrfToken string
	for {
		fmt.Print("\nCSRF token: ")
		csrfToken, err = readSecret()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to read CSRF token: %v\n", err)
			os.Exit(1)
		}

		if len(csrfToken) < 20 {
			fmt.Println("\nThat doesn't look like a valid CSRF token.")
			fmt.Println("It is a long base64-like string from the page's meta tags.")
			fmt.Print("\nTry again? (Y/n): ")
			retry, _ := reader.ReadString('\n')
			if strings.ToLower(strings.TrimSpace(retry)) == "n" {
				os.Exit(1)
			}
			continue
		}
		break
	}

	fmt.Print("\nUser-Agent (press Enter to use default): ")
	userAgent, _ := reader.ReadString('\n')
	userAgent = strings.TrimSpace(userAgent)

	account := &auth.Account{
		Name:         name,
		Cookie:       cookie,
		CSRFToken:    csrfToken,
		UserAgent:    userAgent,
		LastModified: time.Now(),
	}

	fmt.Println("\nStoring credentials securely...")
	if err := manager.Store(account); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to store credentials: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("\nAccount saved: %s\n", name)
	fmt.Println("\nArchive posts with:")
	fmt.Println("  fanarchive run DL-links.txt")
	fmt.Printf("\nOr with this account explicitly:\n")
	fmt.Printf("  fanarchive run --account %s\n", name)
}

func runLogout(cmd *cobra.Command, args []string) {
	manager, err := auth.NewManager()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize credential manager: %v\n", err)
		os.Exit(1)
	}

	if len(args) > 0 {
		if err := manager.Delete(args[0]); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to remove account: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Account removed: " + args[0])
		return
	}

	accounts, err := manager.List()
	if err != nil || len(accounts) == 0 {
		fmt.Println("No stored accounts found.")
		return
	}

	reader := bufio.NewReader(os.Stdin)

	if len(accounts) == 1 {
		account := accounts[0]
		fmt.Printf("Remove account %q? (y/N): ", account.Name)
		input, _ := reader.ReadString('\n')
		if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(input)), "y") {
			return
		}
		if err := manager.Delete(account.Name); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to remove account: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Account removed: " + account.Name)
		return
	}

	fmt.Println("Select account to remove:")
	for i, account := range accounts {
		fmt.Printf("  %d. %s\n", i+1, account.Name)
	}
	fmt.Printf("  0. Cancel\n\n")

	fmt.Print("Choice: ")
	input, _ := reader.ReadString('\n')

	var choice int
	fmt.Sscanf(strings.TrimSpace(input), "%d", &choice)

	if choice < 1 || choice > len(accounts) {
		return
	}

	account := accounts[choice-1]
	if err := manager.Delete(account.Name); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to remove account: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("Account removed: " + account.Name)
}

func runList(cmd *cobra.Command, args []string) {
	manager, err := auth.NewManager()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize credential manager: %v\n", err)
		os.Exit(1)
	}

	accounts, err := manager.List()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to list accounts: %v\n", err)
		os.Exit(1)
	}

	if len(accounts) == 0 {
		fmt.Println("No stored accounts. Use 'fanarchive auth login' to add one.")
		return
	}

	fmt.Println("Stored accounts:")
	fmt.Println()
	for i, account := range accounts {
		fmt.Printf("%d. Name: %s\n", i+1, account.Name)
		fmt.Printf("   Cookie: %s\n", maskSecret(account.Cookie))
		fmt.Printf("   CSRF Token: %s\n", maskSecret(account.CSRFToken))
		if account.UserAgent != "" {
			fmt.Printf("   User-Agent: %s\n", account.UserAgent)
		}
		fmt.Printf("   Last Modified: %s\n", account.LastModified.Format("2006-01-02 15:04:05"))
		fmt.Println()
	}
}

// maskSecret keeps just enough of a credential visible to recognize it.
func maskSecret(value string) string {
	if len(value) <= 8 {
		return "***"
	}
	return value[:4] + "..." + value[len(value)-4:]
}

// readSecret reads a value from stdin without echoing.
func readSecret() (string, error) {
	if term.IsTerminal(int(syscall.Stdin)) {
		value, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()
		if err == nil {
			return strings.TrimSpace(string(value)), nil
		}
	}

	reader := bufio.NewReader(os.Stdin)
	input, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(input), nil
}
