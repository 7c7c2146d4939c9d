package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Pythonidaer/new-years-project-sub002/internal/config"
	"github.com/Pythonidaer/new-years-project-sub002/internal/log"
)

var (
	// cfg and logger are set up before every command runs.
	cfg    *config.Config
	logger log.Logger = log.Nop()
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "cxcheck",
	Short: "cxcheck - Heuristic cyclomatic complexity checker for JavaScript and TypeScript",
	Long: `cxcheck finds the decision points that make up cyclomatic complexity in
JavaScript and TypeScript source and checks the totals against ESLint.

Commands:
  extract     Show the decision points found in a file
  boundaries  Show the function boundaries of a file
  analyze     Compare heuristic totals with ESLint across a project
  doctor      Check configuration and the ESLint installation
  init        Create a configuration file interactively
  version     Print version information

Use "cxcheck [command] --help" for more information about a command.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

// Execute adds all child commands to the root command and sets flags appropriately
func Execute() error {
	return RootCmd.Execute()
}

// setup loads the layered configuration and builds the logger.
func setup(cmd *cobra.Command, args []string) error {
	loaded, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	cfg = loaded

	if cmd.Flags().Changed("verbose") {
		cfg.Verbose, _ = cmd.Flags().GetBool("verbose")
	}
	jsonLogs, _ := cmd.Flags().GetBool("log-json")

	level := log.InfoLevel
	if cfg.Verbose {
		level = log.DebugLevel
	}
	logger = log.New(log.LoggerConfig{Level: level, JSONOutput: jsonLogs, Output: os.Stderr})
	return nil
}

func init() {
	RootCmd.PersistentFlags().Bool("verbose", false, "Enable debug logging")
	RootCmd.PersistentFlags().Bool("log-json", false, "Write logs as JSON lines")
}
