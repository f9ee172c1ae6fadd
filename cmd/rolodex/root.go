package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/rolodex"
	"github.com/spf13/cobra"
)

var (
	verbose bool
	cfg     Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "rolodex",
	Short: "A contact and meeting manager backed by a versioned snapshot",
	Long: `Rolodex keeps track of the people you know and the meetings you have with them.
Meetings are scheduled in the future and become past meetings, ready for notes,
as soon as their date goes by.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		env, err := LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load environment: %w", err)
		}
		flags := cmd.Flags()
		if flags.Changed("path") {
			env.Path = cfg.Path
		}
		if flags.Changed("adapter") {
			env.Adapter = cfg.Adapter
		}
		if flags.Changed("format") {
			env.Format = cfg.Format
		}
		if flags.Changed("versioning") {
			env.Versioning = cfg.Versioning
		}
		cfg = env

		level, err := cfg.Level()
		if err != nil {
			return err
		}
		if verbose {
			level = slog.LevelDebug
		}

		opts := &slog.HandlerOptions{
			Level: level,
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, opts))
		slog.SetDefault(logger)
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// vaultPath returns the configured path, or the enclosing vault of the working directory.
func vaultPath() (string, error) {
	if cfg.Path != "" {
		return cfg.Path, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get CWD: %w", err)
	}
	if root, err := rolodex.FindVaultRoot(cwd); err == nil {
		return root, nil
	}
	return cwd, nil
}

// openService opens the vault selected by flags and environment.
func openService(extra ...rolodex.Option) (*rolodex.Service, error) {
	path, err := vaultPath()
	if err != nil {
		return nil, err
	}

	opts := []rolodex.Option{
		rolodex.WithAdapter(cfg.Adapter),
		rolodex.WithFormat(cfg.Format),
		rolodex.WithLogger(slog.Default()),
	}
	enabled, explicit, err := cfg.VersioningMode()
	if err != nil {
		return nil, err
	}
	if explicit {
		opts = append(opts, rolodex.WithVersioning(enabled))
	}

	svc, err := rolodex.New(path, append(opts, extra...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to open vault at %s: %w", path, err)
	}
	return svc, nil
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	pf.StringVar(&cfg.Path, "path", "", "Vault directory (default: enclosing vault or CWD)")
	pf.StringVar(&cfg.Adapter, "adapter", "fs", "Storage adapter (fs, badger, memory)")
	pf.StringVar(&cfg.Format, "format", ".json", "Snapshot format for the fs adapter (.json, .yaml)")
	pf.StringVar(&cfg.Versioning, "versioning", "auto", "Git versioning (true, false, auto)")
}
