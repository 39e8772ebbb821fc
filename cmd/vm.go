package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/stratus-cli/stratus/internal/ui"
	"github.com/stratus-cli/stratus/pkg/types"
)

var vmCmd = &cobra.Command{
	Use:   "vm",
	Short: "Compute Engine inventory",
	Long: `Inspect Compute Engine instances in the configured projects.

Without --zone the configured zone list is walked in order; terminated
instances are excluded.

Examples:
  stratus vm list --project prod                         # All configured zones
  stratus vm list --project prod --zone asia-southeast1-a
  stratus vm list --project prod -o json`,
}

var vmListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List Compute Engine instances",
	RunE:    runVMList,
}

var (
	vmProjectFlag string
	vmZoneFlag    string
	vmOutputFlag  string
)

func init() {
	rootCmd.AddCommand(vmCmd)
	vmCmd.AddCommand(vmListCmd)

	vmListCmd.Flags().StringVar(&vmProjectFlag, "project", "", "Project name (from config) or raw project ID")
	vmListCmd.Flags().StringVar(&vmZoneFlag, "zone", "", "Zone ID (defaults to all configured zones)")
	vmListCmd.Flags().StringVarP(&vmOutputFlag, "output", "o", "table", "Output format (table, json)")
}

func runVMList(cmd *cobra.Command, args []string) error {
	ctx, cancel := cmdContext()
	defer cancel()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}

	projectID, err := a.resolveProject(vmProjectFlag)
	if err != nil {
		return err
	}

	zones := a.cfg.Zones
	if vmZoneFlag != "" {
		zones = []string{vmZoneFlag}
	}
	if len(zones) == 0 {
		return fmt.Errorf("no zones configured; set 'zones' in config or pass --zone")
	}

	var vms []types.VM
	for _, zone := range zones {
		zoneVMs, err := a.vm.List(ctx, projectID, zone)
		if err != nil {
			return fmt.Errorf("zone %s: %w", zone, err)
		}
		vms = append(vms, zoneVMs...)
	}

	if vmOutputFlag == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(vms)
	}

	if len(vms) == 0 {
		fmt.Println("No VMs found")
		return nil
	}

	ui.PrintVMTable(vms)
	return nil
}
