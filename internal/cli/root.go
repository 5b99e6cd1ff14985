// Package cli defines the lynva-tui command tree.
package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/lynva/lynva-tui/internal/bootstrap"
	"github.com/lynva/lynva-tui/internal/config"
	"github.com/lynva/lynva-tui/internal/version"
)

// errSilent marks failures that were already reported to the user.
var errSilent = errors.New("")

// NewRootCmd builds the command tree with its own viper instance so flag and
// environment bindings never leak between trees.
func NewRootCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   version.ProjectName,
		Short: "A terminal dashboard for Lynva bookings, services, FAQs and calls",
		Long: `lynva-tui is a terminal user interface for the Lynva AI receptionist.

It lists the bookings, services, FAQs and call logs of your business with
search, filters, sorting and pagination, and refreshes them live when they
change on the server.`,
		Version:       version.GetVersionString(),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts := bootstrapOptions(cmd, v)

			result, err := bootstrap.Bootstrap(opts)
			if err != nil {
				return err
			}

			if err := bootstrap.StartApplication(cmd.Context(), result, cmd.OutOrStdout()); err != nil {
				return errSilent
			}

			return nil
		},
	}

	// Disable cobra's completion command for now
	cmd.CompletionOptions.DisableDefaultCmd = true
	cmd.SetVersionTemplate(version.Summary())

	addPersistentFlags(cmd, v)

	cmd.AddCommand(
		newListCmd(v),
		newStatsCmd(v),
		newTablesCmd(),
		newLoginCmd(v),
		newLogoutCmd(v),
		newConfigCmd(v),
		newVersionCmd(),
	)

	return cmd
}

// Execute runs the command tree and exits non-zero on failure.
func Execute() {
	cmd := NewRootCmd()
	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, errSilent) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

// flagKeys maps persistent flag names to viper keys. Keys double as the
// LYNVA_<KEY> environment variables.
var flagKeys = map[string]string{
	"url":       "url",
	"anon-key":  "anon_key",
	"email":     "email",
	"password":  "password",
	"insecure":  "insecure",
	"debug":     "debug",
	"cache-dir": "cache_dir",
	"page-size": "page_size",
}

// addPersistentFlags adds all the persistent flags to the root command.
func addPersistentFlags(cmd *cobra.Command, v *viper.Viper) {
	flags := cmd.PersistentFlags()

	flags.StringP("config", "c", "", "Path to YAML config file")
	flags.BoolP("no-cache", "n", false, "Keep records and the session in memory only")

	flags.String("url", "", "Project URL")
	flags.String("anon-key", "", "Public anon key")
	flags.String("email", "", "Account email")
	flags.String("password", "", "Account password")
	flags.Bool("insecure", false, "Skip TLS verification")
	flags.Bool("debug", false, "Enable debug logging")
	flags.String("cache-dir", "", "Cache directory path")
	flags.Int("page-size", 0, fmt.Sprintf("Rows per page (1-%d)", config.MaxPageSize))

	v.SetEnvPrefix(config.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	for name, key := range flagKeys {
		if err := v.BindPFlag(key, flags.Lookup(name)); err != nil {
			panic(fmt.Sprintf("failed to bind %s flag: %v", name, err))
		}
	}
}

// bootstrapOptions converts cobra flags and LYNVA_* variables to bootstrap options.
func bootstrapOptions(cmd *cobra.Command, v *viper.Viper) bootstrap.Options {
	configPath, _ := cmd.Flags().GetString("config")
	noCache, _ := cmd.Flags().GetBool("no-cache")

	return bootstrap.Options{
		ConfigPath:   configPath,
		NoCache:      noCache,
		FlagURL:      v.GetString("url"),
		FlagAnonKey:  v.GetString("anon_key"),
		FlagEmail:    v.GetString("email"),
		FlagPassword: v.GetString("password"),
		FlagInsecure: v.GetBool("insecure"),
		FlagDebug:    v.GetBool("debug"),
		FlagCacheDir: v.GetString("cache_dir"),
		FlagPageSize: v.GetInt("page_size"),
	}
}
