package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/lynva/lynva-tui/internal/app"
	"github.com/lynva/lynva-tui/internal/bootstrap"
	"github.com/lynva/lynva-tui/internal/config"
	"github.com/lynva/lynva-tui/internal/records"
	"github.com/lynva/lynva-tui/internal/version"
)

// isTerminal reports whether stdin is interactive.
var isTerminal = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// readPassword reads a password without echo from the terminal.
var readPassword = func() (string, error) {
	b, err := term.ReadPassword(int(os.Stdin.Fd()))
	return string(b), err
}

func newTablesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tables",
		Short: "Show the tables with their filter and sort keys",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "TABLE\tFILTERS\tSORT KEYS")

			for _, t := range records.Tables() {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", t.Name(), strings.Join(filterKeys(t), ", "), strings.Join(t.SortKeys(), ", "))
			}

			return tw.Flush()
		},
	}
}

func newLoginCmd(v *viper.Viper) *cobra.Command {
	var save bool

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and cache the session",
		Long: `Sign in with the configured email and cache the session so later runs
do not need the password. Without a configured password you are prompted
for one. With --save the password is stored in the config file, encrypted
with a local age key.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts := bootstrapOptions(cmd, v)

			cfg, _, err := bootstrap.LoadConfig(opts)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			in := bufio.NewReader(cmd.InOrStdin())
			out := cmd.OutOrStdout()

			if cfg.GetPassword() == "" {
				pw, err := promptPassword(in, out, cfg.Email)
				if err != nil {
					return err
				}
				cfg.Password = pw
			}

			env, err := app.Open(cfg, app.Options{NoCache: opts.NoCache})
			if err != nil {
				return err
			}
			defer func() { _ = env.Close() }()

			session, err := env.Client.Login(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Fprintf(out, "✅ Signed in as %s\n", session.User.Email)

			if biz, err := env.Client.GetBusiness(cmd.Context()); err == nil {
				fmt.Fprintf(out, "   Business: %s\n", biz.Name)
			} else {
				fmt.Fprintf(out, "⚠️  %v\n", err)
			}

			if !save && !opts.NoCache && !cfg.HasCleartextPassword() {
				return nil
			}

			path := bootstrap.ResolveConfigPathForInit(opts.ConfigPath)
			if !save {
				if !isTerminal() || !confirm(in, out, fmt.Sprintf("Save the encrypted password to %s?", path)) {
					return nil
				}
			}

			if err := cfg.Save(path); err != nil {
				return fmt.Errorf("save config: %w", err)
			}
			fmt.Fprintf(out, "✅ Password saved encrypted to %s\n", path)

			return nil
		},
	}

	cmd.Flags().BoolVar(&save, "save", false, "Store the password encrypted in the config file")

	return cmd
}

// promptPassword asks for the password, hiding input on a terminal.
func promptPassword(in *bufio.Reader, out io.Writer, email string) (string, error) {
	fmt.Fprintf(out, "Password for %s: ", email)

	var (
		pw  string
		err error
	)
	if isTerminal() {
		pw, err = readPassword()
		fmt.Fprintln(out)
	} else {
		pw, err = in.ReadString('\n')
		if errors.Is(err, io.EOF) && pw != "" {
			err = nil
		}
	}

	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}

	pw = strings.TrimRight(pw, "\r\n")
	if pw == "" {
		return "", errors.New("password must not be empty")
	}

	return pw, nil
}

func confirm(in *bufio.Reader, out io.Writer, question string) bool {
	fmt.Fprintf(out, "%s [y/N] ", question)

	answer, _ := in.ReadString('\n')
	answer = strings.ToLower(strings.TrimSpace(answer))

	return answer == "y" || answer == "yes"
}

func newLogoutCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Revoke the session and clear cached records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts := bootstrapOptions(cmd, v)

			result, err := bootstrap.Bootstrap(opts)
			if err != nil {
				return err
			}

			env, err := app.Open(result.Config, app.Options{NoCache: opts.NoCache})
			if err != nil {
				return err
			}
			defer func() { _ = env.Close() }()

			if err := env.Client.Logout(cmd.Context()); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "🚪 Signed out.")

			return nil
		},
	}
}

func newConfigCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Write a commented config file unless one exists",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			flagPath, _ := cmd.Flags().GetString("config")
			path := bootstrap.ResolveConfigPathForInit(flagPath)

			if _, err := os.Stat(path); err == nil {
				fmt.Fprintf(cmd.OutOrStdout(), "Config already exists at %s\n", path)
				return nil
			}

			if _, err := config.CreateDefaultConfigFileAt(path); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "✅ Config written to %s\n", path)
			fmt.Fprintf(cmd.OutOrStdout(), "💡 Set url, anon_key and email, then run `%s login`.\n", version.ProjectName)

			return nil
		},
	}, &cobra.Command{
		Use:   "path",
		Short: "Print the config file location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			flagPath, _ := cmd.Flags().GetString("config")
			fmt.Fprintln(cmd.OutOrStdout(), bootstrap.ResolveConfigPathForInit(flagPath))

			return nil
		},
	}, &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration with the password hidden",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, _, err := bootstrap.LoadConfig(bootstrapOptions(cmd, v))
			if err != nil {
				return err
			}

			shown := *cfg
			if shown.Password != "" {
				shown.Password = "********"
			}

			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(&shown); err != nil {
				return err
			}

			return enc.Close()
		},
	})

	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprint(cmd.OutOrStdout(), version.Summary())
		},
	}
}
