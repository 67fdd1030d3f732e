// Package cli is the transport adapter for the task service: it calls
// the dispatcher and maps each outcome to process output and exit codes.
// The ErrorKind→exit-code mapping lives entirely here; the pipeline core
// never knows about it.
package cli

import (
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/andrescamacho/dispatch-go/pkg/mediator"
)

var (
	// Global flags
	configPath string
	actorID    string
	actorRoles []string
	verbose    bool
)

// Runtime bundles what the commands need to dispatch requests.
type Runtime struct {
	Mediator *mediator.Mediator
	DB       *gorm.DB
}

// RuntimeFactory builds the runtime lazily so flag parsing happens before
// config loading and database opening.
type RuntimeFactory func() (*Runtime, error)

// ConfigPath returns the --config flag value for the runtime factory.
func ConfigPath() string {
	return configPath
}

// NewRootCommand creates the root command for the CLI
func NewRootCommand(factory RuntimeFactory) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "tasks",
		Short: "Task service CLI - dispatch commands and queries through the pipeline",
		Long: `Task service CLI dispatches typed commands and queries through the
request pipeline (authorization, validation, logging, caching) and
renders the outcome.

Examples:
  tasks create --actor alice --roles user --title "Write report"
  tasks complete <task-id> --actor alice --roles user
  tasks get <task-id> --actor bob --roles admin
  tasks list --actor alice --roles user`,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Path to config file (default: search standard locations)")
	rootCmd.PersistentFlags().StringVar(&actorID, "actor", "",
		"Acting principal id")
	rootCmd.PersistentFlags().StringSliceVar(&actorRoles, "roles", nil,
		"Roles held by the acting principal")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Enable verbose output")

	rootCmd.AddCommand(NewCreateCommand(factory))
	rootCmd.AddCommand(NewCompleteCommand(factory))
	rootCmd.AddCommand(NewGetCommand(factory))
	rootCmd.AddCommand(NewListCommand(factory))

	return rootCmd
}
