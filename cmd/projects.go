package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stratus-cli/stratus/internal/config"
	"github.com/stratus-cli/stratus/internal/ui"
)

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "Show the configured projects and zones",
	RunE:  runProjects,
}

func init() {
	rootCmd.AddCommand(projectsCmd)
}

func runProjects(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	projects := cfg.ProjectList()
	if len(projects) == 0 {
		fmt.Printf("No projects configured. Add a 'projects' table to %s\n", config.GetConfigPath())
		return nil
	}

	ui.PrintProjectTable(projects)

	if len(cfg.Zones) > 0 {
		fmt.Println()
		fmt.Println("Zones:")
		for _, zone := range cfg.Zones {
			fmt.Printf("  %s\n", zone)
		}
	}

	return nil
}
