package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	// Global flags
	profile string
	region  string
	verbose bool
	timeout time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "stratus",
	Short: "Stratus - GCP inventory CLI with secret-store credentials",
	Long: `Stratus lists Cloud SQL and Compute Engine inventory for a fixed set of
GCP projects and zones. The service-account credential is materialized on
first use from an AWS secret store (Secrets Manager or SSM Parameter
Store), and SQL instances are enriched with the full engine version taken
from the Cloud SQL release-notes feed.

Examples:
  stratus sql list --project prod    # Cloud SQL instances with versions
  stratus vm list --project prod     # GCE instances across configured zones
  stratus projects                   # Show the configured projects table
  stratus whoami                     # AWS caller + materialized GCP identity

Configuration lives in ~/.stratus/config.yaml.`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global persistent flags (available to all subcommands)
	rootCmd.PersistentFlags().StringVarP(&profile, "profile", "p", "", "AWS profile for the secret store")
	rootCmd.PersistentFlags().StringVarP(&region, "region", "r", "", "AWS region for the secret store")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 2*time.Minute, "Timeout for remote calls")

	// Bind flags to viper
	_ = viper.BindPFlag("profile", rootCmd.PersistentFlags().Lookup("profile"))
	_ = viper.BindPFlag("region", rootCmd.PersistentFlags().Lookup("region"))
}

func initConfig() {
	// Read from environment variables
	viper.SetEnvPrefix("STRATUS")
	viper.AutomaticEnv()

	if verbose {
		log.SetLevel(log.DebugLevel)
	}

	// Priority: --profile flag > config file (applied in newApp) > AWS_PROFILE env
	if profile == "" {
		profile = os.Getenv("AWS_PROFILE")
	}

	if region == "" {
		region = os.Getenv("AWS_REGION")
		if region == "" {
			region = os.Getenv("AWS_DEFAULT_REGION")
		}
	}
}
