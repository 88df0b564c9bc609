// Package cli implements the toppers command line.
package cli

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	siteFile string
	verbose  bool
)

var rootCmd = &cobra.Command{
	Use:   "toppers",
	Short: "SSLC Electric Current question bank",
	Long: `Toppers serves a browsable bank of Class 10 Electric Current questions
with search, filters, pagination and worked solutions. The same pipeline
can print a filtered page to the terminal.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

		if err := godotenv.Load(); err != nil {
			slog.Debug("No .env file found, using environment variables")
		}
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&siteFile, "config", "", "site config file (default $SITE_CONFIG or site.yml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// siteConfigPath returns the --config flag, falling back to fallback.
func siteConfigPath(fallback string) string {
	if siteFile != "" {
		return siteFile
	}
	return fallback
}
