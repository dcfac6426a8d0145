package cli

import "github.com/spf13/cobra"

// RootCmd assembles the crewpulse-admin command tree.
func RootCmd(load Loader) *cobra.Command {
	root := &cobra.Command{
		Use:           "crewpulse-admin",
		Short:         "CrewPulse maintenance commands",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(RecalculateCmd(load))
	root.AddCommand(SeedCmd(load))
	return root
}
