package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newUserCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Select or show the current user",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "use <user-id>",
		Short: "Select the user subsequent commands act for",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.agents.SetCurrentUser(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Current user: %s\n", args[0])
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the selected user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := a.agents.CurrentUser(cmd.Context())
			if err != nil {
				return err
			}
			if user == "" {
				fmt.Fprintln(cmd.OutOrStdout(), "No user selected")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Current user: %s\n", user)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Clear the selected user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.agents.SetCurrentUser(cmd.Context(), ""); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Current user cleared")
			return nil
		},
	})

	return cmd
}
