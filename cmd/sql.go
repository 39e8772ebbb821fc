package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/stratus-cli/stratus/internal/ui"
)

var sqlCmd = &cobra.Command{
	Use:   "sql",
	Short: "Cloud SQL inventory",
	Long: `Inspect Cloud SQL instances in the configured projects.

Instances are decorated with the engine display name and the full engine
version resolved from the Cloud SQL release-notes feed.

Examples:
  stratus sql list                   # Pick a project interactively
  stratus sql list --project prod    # List by configured project name
  stratus sql list -o json           # Machine-readable output`,
}

var sqlListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List Cloud SQL instances",
	RunE:    runSQLList,
}

var (
	sqlProjectFlag string
	sqlOutputFlag  string
)

func init() {
	rootCmd.AddCommand(sqlCmd)
	sqlCmd.AddCommand(sqlListCmd)

	sqlListCmd.Flags().StringVar(&sqlProjectFlag, "project", "", "Project name (from config) or raw project ID")
	sqlListCmd.Flags().StringVarP(&sqlOutputFlag, "output", "o", "table", "Output format (table, json)")
}

func runSQLList(cmd *cobra.Command, args []string) error {
	ctx, cancel := cmdContext()
	defer cancel()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}

	projectID, err := a.resolveProject(sqlProjectFlag)
	if err != nil {
		return err
	}

	instances, err := a.sql.List(ctx, projectID)
	if err != nil {
		return err
	}

	if sqlOutputFlag == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(instances)
	}

	if len(instances) == 0 {
		fmt.Println("No SQL instances found")
		return nil
	}

	ui.PrintSQLTable(instances)
	return nil
}
