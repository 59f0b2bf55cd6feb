// Package statusui renders the startup banner listing configured
// machines and monitored paths.
package statusui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/muesli/termenv"

	"toolmonitor/internal/config"
)

var (
	purple = lipgloss.Color("99")
	dim    = lipgloss.Color("243")
	faint  = lipgloss.Color("238")
)

// Init sets lipgloss's color profile from the terminal, falling back to
// plain ASCII when output is not a TTY (e.g. piped into a log
// collector).
func Init() {
	lipgloss.SetColorProfile(termenv.ColorProfile())
}

// Banner renders a table of configured machines and their monitored
// paths.
func Banner(cfg config.Config) string {
	headerStyle := lipgloss.NewStyle().Foreground(purple).Bold(true).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)
	oddStyle := cellStyle.Foreground(dim)
	evenStyle := cellStyle

	rows := make([][]string, 0, len(cfg.Machines))
	for _, m := range cfg.Machines {
		paths := make([]string, 0, len(m.MonitoredPaths))
		for _, p := range m.MonitoredPaths {
			paths = append(paths, fmt.Sprintf("%d", p.Path))
		}
		rows = append(rows, []string{
			m.MachineID,
			fmt.Sprintf("%s:%d", m.IP, m.Port),
			fmt.Sprintf("%v", paths),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(faint)).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case row%2 == 0:
				return evenStyle
			default:
				return oddStyle
			}
		}).
		Headers("Machine", "Address", "Paths").
		Rows(rows...)

	return t.String()
}
