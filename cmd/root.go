package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jmllr/ytsnap/internal"
)

var (
	config *internal.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "ytsnap",
	Short: "YouTube search snapshot web app",
	Long: `ytsnap is a small web front-end over the YouTube Data API.

It serves a search form in the browser, ranks results by view count,
and can archive result snapshots to disk (text, JSON or CSV) or share
them to a Discord webhook. Archive endpoints can be gated behind a
shared app token.`,
	Example: `  # Start the web server on the configured address (default :8080)
  ytsnap

  # Start on a specific address
  ytsnap serve --addr :9090

  # Inspect the snapshot archive from the terminal
  ytsnap snapshots
  ytsnap clear`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd, args)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize configuration with Viper
	config = internal.InitConfig()

	// Ensure XDG directories exist
	if err := internal.EnsureDirs(config.ConfigDir, config.DataDir); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating XDG directories: %v\n", err)
		os.Exit(1)
	}

	// Ensure default config exists in XDG config directory
	if err := internal.EnsureDefaultConfig(config.ConfigDir); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to ensure default config: %v\n", err)
	}

	// Cancel the context on SIGINT/SIGTERM so the server shuts down cleanly
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	rootCmd.SetContext(ctx)

	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output for debugging")
	rootCmd.PersistentFlags().String("config", "", "Config file (default is $XDG_CONFIG_HOME/ytsnap/config.toml)")
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}
