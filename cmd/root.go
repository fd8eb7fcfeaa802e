// Package cmd implements the scribe CLI commands.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/opencommittee/scribe/config"
	"github.com/opencommittee/scribe/pkg/logging"
)

// Global flags.
var (
	logLevel string
	logJSON  bool
)

// Deps holds the collaborators shared by commands, built once the root
// command's configuration is loaded.
type Deps struct {
	Config *config.Config
	Logger logging.Logger
}

// NewRootCommand creates the scribe root command.
func NewRootCommand() *cobra.Command {
	deps := &Deps{}

	root := &cobra.Command{
		Use:   "scribe",
		Short: "Turn meeting transcripts into structured committee records",
		Long: `scribe ingests free-text meeting transcripts and turns them into
structured organizational records: attendees, related projects, discussion
topics, assigned tasks, and a narrative summary, resolved against the
committee catalog and committed atomically.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("loading configuration: %w", err)
			}
			if logLevel != "" {
				cfg.LogLevel = logLevel
			}
			if logJSON {
				cfg.LogJSON = true
			}
			deps.Config = cfg
			deps.Logger = logging.NewLogger(&logging.Config{
				Level:      logging.Level(cfg.LogLevel),
				Component:  "scribe",
				JSONFormat: cfg.LogJSON,
			})
			return nil
		},
	}

	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
	root.PersistentFlags().BoolVar(&logJSON, "log-json", false, "Emit logs as JSON lines")

	root.AddCommand(newProcessCommand(deps))
	root.AddCommand(newCatalogCommand(deps))
	root.AddCommand(newAuthCommand(deps))

	return root
}
