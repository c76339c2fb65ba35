package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/penwyp/go-flight-monitor/internal/data/source"
)

var portsCmd = &cobra.Command{
	Use:   "ports",
	Short: "List serial ports that can carry telemetry",
	RunE:  runPorts,
}

// listPorts is replaced in tests.
var listPorts = source.ListPorts

func init() {
	rootCmd.AddCommand(portsCmd)
}

func runPorts(cmd *cobra.Command, args []string) error {
	ports, err := listPorts()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(ports) == 0 {
		fmt.Fprintln(out, "No serial ports found.")
		return nil
	}
	for _, p := range ports {
		fmt.Fprintln(out, p)
	}
	return nil
}
