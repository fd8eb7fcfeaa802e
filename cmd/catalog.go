package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/opencommittee/scribe/pkg/catalog"
	"github.com/opencommittee/scribe/pkg/db"
)

var catalogVerbose bool

func newCatalogCommand(deps *Deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Show the committee catalog",
		Long: `Show the members, projects, and topics that transcripts are
resolved against, plus the recognized meeting types.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCatalog(cmd.Context(), deps)
		},
	}

	cmd.Flags().BoolVarP(&catalogVerbose, "verbose", "v", false, "Include descriptions and roles")

	return cmd
}

func runCatalog(ctx context.Context, deps *Deps) error {
	if deps.Config.DatabaseURL == "" {
		return fmt.Errorf("database_url is required (set DATABASE_URL or run with a config file)")
	}

	pool, err := db.Connect(ctx, deps.Config.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	cat, err := catalog.Load(ctx, pool)
	if err != nil {
		return err
	}

	members := cat.Members()
	fmt.Printf("Members (%d):\n", len(members))
	for _, m := range members {
		if catalogVerbose && (m.Role != "" || m.Subcommittee != "") {
			fmt.Printf("  - %s (%s, %s)\n", m.Name, orDefault(m.Role, "Member"), orDefault(m.Subcommittee, "N/A"))
		} else {
			fmt.Printf("  - %s\n", m.Name)
		}
	}

	projects := cat.Projects()
	fmt.Printf("\nProjects (%d):\n", len(projects))
	for _, p := range projects {
		if catalogVerbose && p.Description != "" {
			fmt.Printf("  - %s: %s\n", p.Name, p.Description)
		} else {
			fmt.Printf("  - %s\n", p.Name)
		}
	}

	topics := cat.Topics()
	fmt.Printf("\nTopics (%d):\n", len(topics))
	for _, tp := range topics {
		if catalogVerbose && tp.Description != "" {
			fmt.Printf("  - %s: %s\n", tp.Name, tp.Description)
		} else {
			fmt.Printf("  - %s\n", tp.Name)
		}
	}

	fmt.Println("\nMeeting types:")
	for _, mt := range catalog.MeetingTypes() {
		fmt.Printf("  - %s (%s)\n", mt, mt.Label())
	}

	return nil
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
