package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/shelfmark/shelfmark/internal/models"
)

var (
	setBaseURL string
	setExtra   string
)

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "Configure metadata providers and the Notion sync target",
	Long: `Configure metadata providers and the Notion sync target.

Credentials live in the local database, never in environment variables
or dotfiles. A provider with no stored credential stays disabled.

Examples:
  shelfmark providers list
  shelfmark providers set tmdb <api-key>
  shelfmark providers set igdb <client-id> --extra <client-secret>
  shelfmark providers set notion <integration-token> --extra <database-id>
  shelfmark providers enable tmdb
  shelfmark providers disable rawg`,
}

var providersListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show every provider and its configuration state",
	RunE:  runProvidersList,
}

var providersSetCmd = &cobra.Command{
	Use:   "set <provider> <credential>",
	Short: "Store a provider credential and enable it",
	Args:  cobra.ExactArgs(2),
	RunE:  runProvidersSet,
}

var providersEnableCmd = &cobra.Command{
	Use:   "enable <provider>",
	Short: "Enable a configured provider",
	Args:  cobra.ExactArgs(1),
	RunE:  func(cmd *cobra.Command, args []string) error { return setEnabled(args[0], true) },
}

var providersDisableCmd = &cobra.Command{
	Use:   "disable <provider>",
	Short: "Disable a provider without losing its credential",
	Args:  cobra.ExactArgs(1),
	RunE:  func(cmd *cobra.Command, args []string) error { return setEnabled(args[0], false) },
}

func init() {
	providersSetCmd.Flags().StringVar(&setBaseURL, "base-url", "", "Override the provider endpoint")
	providersSetCmd.Flags().StringVar(&setExtra, "extra", "", "Secondary credential (IGDB client secret, Notion database id)")

	providersCmd.AddCommand(providersListCmd)
	providersCmd.AddCommand(providersSetCmd)
	providersCmd.AddCommand(providersEnableCmd)
	providersCmd.AddCommand(providersDisableCmd)
}

func runProvidersList(cmd *cobra.Command, args []string) error {
	_, database, err := openDatabase()
	if err != nil {
		return trackCLIError("providers", err)
	}
	defer func() { _ = database.Close() }()

	configs, err := database.ListAPIConfigs()
	if err != nil {
		return trackCLIError("providers", err)
	}

	byName := make(map[string]models.ApiConfig, len(configs))
	for _, cfg := range configs {
		byName[cfg.Provider] = cfg
	}

	fmt.Printf("%-14s %-10s %-12s %s\n", "PROVIDER", "ENABLED", "CREDENTIAL", "UPDATED")
	for _, name := range models.KnownProviders() {
		cfg, ok := byName[name]
		if !ok {
			fmt.Printf("%-14s %-10s %-12s %s\n", name, "no", "unset", "-")
			continue
		}
		enabled := "no"
		if cfg.Enabled {
			enabled = "yes"
		}
		credential := "unset"
		if cfg.Credential != "" {
			credential = maskCredential(cfg.Credential)
		}
		updated := "-"
		if !cfg.LastUpdated.IsZero() {
			updated = cfg.LastUpdated.Local().Format(time.DateTime)
		}
		fmt.Printf("%-14s %-10s %-12s %s\n", name, enabled, credential, updated)
	}
	return nil
}

func runProvidersSet(cmd *cobra.Command, args []string) error {
	provider, err := knownProvider(args[0])
	if err != nil {
		return trackCLIError("providers", err)
	}

	_, database, err := openDatabase()
	if err != nil {
		return trackCLIError("providers", err)
	}
	defer func() { _ = database.Close() }()

	cfg, err := database.GetAPIConfig(provider)
	if err != nil {
		return trackCLIError("providers", err)
	}
	if cfg == nil {
		cfg = &models.ApiConfig{Provider: provider}
	}
	cfg.Credential = args[1]
	if setBaseURL != "" {
		cfg.BaseURL = setBaseURL
	}
	if setExtra != "" {
		cfg.Extra1 = setExtra
	}
	cfg.Enabled = true

	if err := database.SaveAPIConfig(cfg); err != nil {
		return trackCLIError("providers", err)
	}

	telemetryClient.TrackProviderConfigured(provider, true)
	fmt.Printf("%s configured and enabled.\n", provider)
	return nil
}

func setEnabled(name string, enabled bool) error {
	provider, err := knownProvider(name)
	if err != nil {
		return trackCLIError("providers", err)
	}

	_, database, err := openDatabase()
	if err != nil {
		return trackCLIError("providers", err)
	}
	defer func() { _ = database.Close() }()

	if enabled {
		cfg, err := database.GetAPIConfig(provider)
		if err != nil {
			return trackCLIError("providers", err)
		}
		// googlebooks and openlibrary work without a key.
		needsCredential := provider != models.ProviderGoogleBooks && provider != models.ProviderOpenLibrary
		if needsCredential && (cfg == nil || cfg.Credential == "") {
			return trackCLIError("providers",
				fmt.Errorf("%s has no credential; run 'shelfmark providers set %s <credential>' first", provider, provider))
		}
	}

	if err := database.SetProviderEnabled(provider, enabled); err != nil {
		return trackCLIError("providers", err)
	}

	telemetryClient.TrackProviderConfigured(provider, enabled)
	state := "disabled"
	if enabled {
		state = "enabled"
	}
	fmt.Printf("%s %s.\n", provider, state)
	return nil
}

func knownProvider(name string) (string, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, known := range models.KnownProviders() {
		if name == known {
			return known, nil
		}
	}
	return "", fmt.Errorf("unknown provider %q (known: %s)", name, strings.Join(models.KnownProviders(), ", "))
}

func maskCredential(s string) string {
	if len(s) <= 4 {
		return "****"
	}
	return "****" + s[len(s)-4:]
}
