// Command agentctl manages agent configurations from the terminal using the
// same configuration and storage as the server.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	a := &app{}
	err := newRootCommand(a).Execute()
	a.close()
	if err != nil {
		os.Exit(1)
	}
}

// newRootCommand builds the command tree. Systems are opened before any
// subcommand runs; the caller closes a once Execute returns.
func newRootCommand(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "agentctl",
		Short: "Manage PeteRental voice agent configurations",
		Long:  "agentctl creates, inspects, and synchronizes agent configurations with VAPI.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.open(cmd)
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&a.user, "user", "u", "", "Act as this user instead of the selected one")

	rootCmd.AddCommand(newUserCommand(a))
	rootCmd.AddCommand(newListCommand(a))
	rootCmd.AddCommand(newShowCommand(a))
	rootCmd.AddCommand(newPromptCommand(a))
	rootCmd.AddCommand(newFunctionsCommand(a))
	rootCmd.AddCommand(newSyncCommand(a))
	rootCmd.AddCommand(newImportCommand(a))
	rootCmd.AddCommand(newDeleteCommand(a))
	rootCmd.AddCommand(newUnlinkCommand(a))
	rootCmd.AddCommand(newSeedCommand(a))

	return rootCmd
}
