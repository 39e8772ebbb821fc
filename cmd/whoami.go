package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show secret-store and service-account identity",
	Long: `Display the AWS caller identity used against the secret store, then
materialize the GCP credential and display the resulting service account.

Examples:
  stratus whoami`,
	RunE: runWhoami,
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}

func runWhoami(cmd *cobra.Command, args []string) error {
	ctx, cancel := cmdContext()
	defer cancel()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}

	identity, err := a.aws.CallerIdentity(ctx)
	if err != nil {
		return fmt.Errorf("failed to get AWS caller identity: %w", err)
	}

	fmt.Println("AWS (secret store):")
	fmt.Printf("  Account: %s\n", identity.Account)
	fmt.Printf("  ARN:     %s\n", identity.Arn)
	fmt.Printf("  UserID:  %s\n", identity.UserID)

	key, err := a.mat.Ensure(ctx)
	if err != nil {
		return err
	}

	fmt.Println("GCP (materialized service account):")
	fmt.Printf("  Email:   %s\n", key.ClientEmail)
	fmt.Printf("  Project: %s\n", key.ProjectID)
	fmt.Printf("  KeyFile: %s\n", a.mat.Path())

	return nil
}
