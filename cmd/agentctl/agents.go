package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/docker/go-units"
	"github.com/spf13/cobra"

	"github.com/Mark0025/peterental/internal/agents"
	"github.com/Mark0025/peterental/pkg/pagination"
)

func newListCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List agent configurations for the current user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := a.session(cmd.Context())
			if err != nil {
				return err
			}

			status, _ := cmd.Flags().GetString("status")
			search, _ := cmd.Flags().GetString("search")

			page := pagination.PageRequest{
				PageSize: a.cfg.API.Pagination.MaxPageSize,
				Sort:     []pagination.SortField{{Field: "updated_at", Descending: true}},
			}
			if search != "" {
				page.Search = &search
			}

			var filters agents.Filters
			if status != "" {
				st := agents.SyncStatus(status)
				if !st.Valid() {
					return fmt.Errorf("unknown status %q", status)
				}
				filters.Status = &st
			}

			result, err := a.agents.List(ctx, page, filters)
			if err != nil {
				return err
			}

			if len(result.Data) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No agent configurations found")
				return nil
			}
			writeList(cmd.OutOrStdout(), result.Data, time.Now())
			return nil
		},
	}

	cmd.Flags().String("status", "", "Only show configs with this sync status")
	cmd.Flags().StringP("search", "s", "", "Match name or description")
	return cmd
}

func writeList(w io.Writer, configs []agents.AgentConfig, now time.Time) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tUSER\tSTATUS\tASSISTANT\tUPDATED")
	for _, c := range configs {
		assistant := c.VAPIAssistantID
		if assistant == "" {
			assistant = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s ago\n",
			c.ID, c.Name, c.UserID, c.SyncStatus, assistant,
			units.HumanDuration(now.Sub(c.UpdatedAt)),
		)
	}
	tw.Flush()
}

func newShowCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show an agent configuration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := a.session(cmd.Context())
			if err != nil {
				return err
			}

			cfg, err := a.agents.Find(ctx, args[0])
			if err != nil {
				return err
			}

			writeConfig(cmd.OutOrStdout(), cfg, time.Now())
			return nil
		},
	}
}

func writeConfig(w io.Writer, c *agents.AgentConfig, now time.Time) {
	fmt.Fprintf(w, "%s: %s\n", c.ID, c.Name)
	fmt.Fprintf(w, "User: %s\n", c.UserID)
	fmt.Fprintf(w, "Status: %s\n", c.SyncStatus)
	if c.Linked() {
		fmt.Fprintf(w, "Assistant: %s\n", c.VAPIAssistantID)
	}
	if c.LastSyncedAt != nil {
		fmt.Fprintf(w, "Last synced: %s ago\n", units.HumanDuration(now.Sub(*c.LastSyncedAt)))
	}
	if c.SyncError != "" {
		fmt.Fprintf(w, "Error: %s\n", c.SyncError)
	}

	fmt.Fprintf(w, "Variables (%d):\n", len(c.Variables))
	for _, v := range c.Variables {
		marker := ""
		if v.Required {
			marker = " *"
		}
		fmt.Fprintf(w, "  %s (%s)%s\n", v.Name, v.Type, marker)
	}

	fmt.Fprintf(w, "Functions (%d):\n", len(c.Functions))
	for i := range c.Functions {
		fn := &c.Functions[i]
		state := "enabled"
		if !fn.Enabled {
			state = "disabled"
		}
		var names []string
		for _, v := range c.ResolveVariables(fn) {
			names = append(names, v.Name)
		}
		fmt.Fprintf(w, "  %s [%s] %s\n", fn.Name, state, strings.Join(names, ", "))
	}

	for _, warning := range c.Warnings() {
		fmt.Fprintf(w, "Warning: %s\n", warning)
	}
}

func newPromptCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "prompt <id>",
		Short: "Print the generated system prompt",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := a.session(cmd.Context())
			if err != nil {
				return err
			}

			prompt, err := a.agents.Prompt(ctx, args[0])
			if err != nil {
				return err
			}

			fmt.Fprint(cmd.OutOrStdout(), prompt)
			return nil
		},
	}
}

func newFunctionsCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "functions <id>",
		Short: "Print the generated VAPI function schemas as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := a.session(cmd.Context())
			if err != nil {
				return err
			}

			fns, err := a.agents.Functions(ctx, args[0])
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(fns)
		},
	}
}

func newSyncCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "sync <id>",
		Short: "Push an agent configuration to VAPI",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := a.session(cmd.Context())
			if err != nil {
				return err
			}

			result, err := a.agents.Sync(ctx, args[0])
			if err != nil {
				return err
			}
			if !result.Success {
				return fmt.Errorf("sync failed: %s", result.Error)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Synced %s to assistant %s\n", args[0], result.AssistantID)
			return nil
		},
	}
}

func newImportCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import <assistant-id>",
		Short: "Import a VAPI assistant as a new agent configuration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := a.requireUser(cmd.Context())
			if err != nil {
				return err
			}

			result := a.agents.Import(ctx, args[0])
			if !result.Success {
				return fmt.Errorf("import failed: %s", result.Error)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Imported %s as %s (%d variables, %d functions)\n",
				args[0], result.Config.ID, len(result.Config.Variables), len(result.Config.Functions))
			return nil
		},
	}
}

func newDeleteCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an agent configuration (the VAPI assistant is kept)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := a.session(cmd.Context())
			if err != nil {
				return err
			}

			if err := a.agents.Delete(ctx, args[0]); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
			return nil
		},
	}
}

func newUnlinkCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "unlink <id>",
		Short: "Detach an agent configuration from its VAPI assistant",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := a.session(cmd.Context())
			if err != nil {
				return err
			}

			cfg, err := a.agents.Unlink(ctx, args[0])
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Unlinked %s; status is now %s\n", cfg.ID, cfg.SyncStatus)
			return nil
		},
	}
}
