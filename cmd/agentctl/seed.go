package main

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Mark0025/peterental/internal/agents"
	"github.com/Mark0025/peterental/pkg/pagination"
)

//go:embed seeds/*.json
var seedFiles embed.FS

const defaultSeedFile = "seeds/leasing_agents.json"

// SeedData is the JSON structure of an agent seed file.
type SeedData struct {
	Agents []agents.CreateCommand `json:"agents"`
}

func newSeedCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create starter agent configurations for the current user",
		Long: "Seed creates the configurations in the embedded seed file, or in --file, " +
			"for the current user. Configurations whose name already exists are skipped.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := a.requireUser(cmd.Context())
			if err != nil {
				return err
			}

			file, _ := cmd.Flags().GetString("file")
			data, err := loadSeedData(file)
			if err != nil {
				return err
			}

			created, skipped, err := seedAgents(ctx, a.agents, data, a.cfg.API.Pagination.MaxPageSize)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d agent configurations (%d already present)\n", created, skipped)
			return nil
		},
	}

	cmd.Flags().StringP("file", "f", "", "External seed file (overrides embedded)")
	return cmd
}

func loadSeedData(file string) (*SeedData, error) {
	var (
		content []byte
		err     error
	)

	if file != "" {
		content, err = os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read seed file: %w", err)
		}
	} else {
		content, err = seedFiles.ReadFile(defaultSeedFile)
		if err != nil {
			return nil, fmt.Errorf("read embedded seed file: %w", err)
		}
	}

	var data SeedData
	if err := json.Unmarshal(content, &data); err != nil {
		return nil, fmt.Errorf("parse seed data: %w", err)
	}
	return &data, nil
}

// seedAgents creates each seed config the session user does not already
// have by name.
func seedAgents(ctx context.Context, sys agents.System, data *SeedData, pageSize int) (created, skipped int, err error) {
	existing, err := sys.List(ctx, pagination.PageRequest{PageSize: pageSize}, agents.Filters{})
	if err != nil {
		return 0, 0, err
	}

	names := make(map[string]bool, len(existing.Data))
	for _, c := range existing.Data {
		names[c.Name] = true
	}

	for _, cmd := range data.Agents {
		if names[cmd.Name] {
			skipped++
			continue
		}
		if _, err := sys.Create(ctx, cmd); err != nil {
			return created, skipped, fmt.Errorf("seed %s: %w", cmd.Name, err)
		}
		names[cmd.Name] = true
		created++
	}

	return created, skipped, nil
}
