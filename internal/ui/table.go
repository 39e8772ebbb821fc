package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	pkgtypes "github.com/stratus-cli/stratus/pkg/types"
)

// column pairs a header with a width and a cell style.
type column struct {
	header string
	width  int
	style  lipgloss.Style
}

// renderTable builds a styled box table. Each row must have one cell per
// column; a nil style in a cell falls back to the column style.
func renderTable(cols []column, rows [][]string) string {
	var sb strings.Builder

	writeRule := func(left, mid, right string) {
		sb.WriteString(BorderStyle.Render(left))
		for i, c := range cols {
			sb.WriteString(BorderStyle.Render(strings.Repeat(Horizontal, c.width+2)))
			if i < len(cols)-1 {
				sb.WriteString(BorderStyle.Render(mid))
			}
		}
		sb.WriteString(BorderStyle.Render(right))
		sb.WriteString("\n")
	}

	// Top border
	writeRule(TopLeft, TopT, TopRight)

	// Header row
	sb.WriteString(BorderStyle.Render(Vertical))
	for _, c := range cols {
		cell := fmt.Sprintf(" %s ", padRight(c.header, c.width))
		sb.WriteString(HeaderStyle.Render(cell))
		sb.WriteString(BorderStyle.Render(Vertical))
	}
	sb.WriteString("\n")

	// Header separator
	writeRule(LeftT, Cross, RightT)

	// Data rows
	for _, row := range rows {
		sb.WriteString(BorderStyle.Render(Vertical))
		for i, c := range cols {
			cell := fmt.Sprintf(" %s ", padRight(row[i], c.width))
			sb.WriteString(c.style.Render(cell))
			sb.WriteString(BorderStyle.Render(Vertical))
		}
		sb.WriteString("\n")
	}

	// Bottom border
	writeRule(BottomLeft, BottomT, BottomRight)

	return sb.String()
}

// PrintSQLTable prints Cloud SQL instances in a styled box table
func PrintSQLTable(instances []pkgtypes.SQLInstance) {
	cols := []column{
		{"Name", 26, NameStyle},
		{"Engine", 16, ValueStyle},
		{"Version", 10, VersionStyle},
		{"State", 11, ValueStyle},
		{"Tier", 18, ValueStyle},
		{"Region", 16, ValueStyle},
	}

	rows := make([][]string, 0, len(instances))
	for _, inst := range instances {
		rows = append(rows, []string{
			inst.Name, inst.EngineName, inst.EngineVersion,
			inst.State, inst.Tier, inst.Region,
		})
	}

	fmt.Print(renderTable(cols, rows))
	fmt.Printf("%s\n", MutedStyle.Render(fmt.Sprintf("  %d instance(s)", len(instances))))
}

// PrintVMTable prints compute instances in a styled box table
func PrintVMTable(vms []pkgtypes.VM) {
	cols := []column{
		{"ID", 20, VersionStyle},
		{"Name", 26, NameStyle},
		{"Private IP", 14, ValueStyle},
		{"State", 10, ValueStyle},
		{"Type", 14, ValueStyle},
		{"Zone", 18, ValueStyle},
	}

	rows := make([][]string, 0, len(vms))
	for _, vm := range vms {
		rows = append(rows, []string{
			vm.ID, vm.Name, vm.PrivateIP,
			formatVMState(vm.State), vm.Type, vm.Zone,
		})
	}

	fmt.Print(renderTable(cols, rows))
	fmt.Printf("%s\n", MutedStyle.Render(fmt.Sprintf("  %d instance(s)", len(vms))))
}

// PrintProjectTable prints the configured projects table
func PrintProjectTable(projects []pkgtypes.Project) {
	cols := []column{
		{"Name", 20, NameStyle},
		{"Project ID", 34, ValueStyle},
	}

	rows := make([][]string, 0, len(projects))
	for _, p := range projects {
		rows = append(rows, []string{p.Name, p.ID})
	}

	fmt.Print(renderTable(cols, rows))
}

// formatVMState renders a state with its indicator dot, unstyled text.
// Styling whole cells keeps the box alignment correct.
func formatVMState(state pkgtypes.VMState) string {
	switch state {
	case pkgtypes.VMStateRunning:
		return "● running"
	case pkgtypes.VMStateStopped:
		return "○ stopped"
	case pkgtypes.VMStatePending:
		return "◐ pending"
	case pkgtypes.VMStateStopping:
		return "◑ stopping"
	default:
		return string(state)
	}
}
