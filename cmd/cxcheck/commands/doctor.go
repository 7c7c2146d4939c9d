package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Pythonidaer/new-years-project-sub002/internal/config"
	"github.com/Pythonidaer/new-years-project-sub002/internal/healthcheck"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check configuration and the ESLint installation",
	Long: `Validates the effective configuration, verifies that the ESLint command
runs and that the boundary cache location is writable.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := healthcheck.Check(cmd.Context(), cfg, effectiveConfigPath())
		if err != nil {
			return fmt.Errorf("health check failed: %w", err)
		}

		displayDoctorResult(result)

		if !result.OK() {
			return fmt.Errorf("health check failed: one or more checks reported an error")
		}
		return nil
	},
}

// effectiveConfigPath returns the highest-priority config file that exists,
// or "" when only defaults apply.
func effectiveConfigPath() string {
	for _, p := range []string{config.ProjectConfigFilePath(), config.GlobalConfigFilePath()} {
		if fileExists(p) {
			return p
		}
	}
	return ""
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

func displayDoctorResult(result *healthcheck.HealthCheckResult) {
	if result.EffectivePath == "" {
		fmt.Println("Using config: built-in defaults")
	} else {
		fmt.Printf("Using config: %s (%s)\n", result.EffectivePath, result.EffectiveScope)
	}
	fmt.Println()

	for _, c := range []healthcheck.ComponentStatus{result.Config, result.ESLint, result.ESLintConfig, result.Cache} {
		fmt.Printf("%s %s", formatStatusIcon(c.Status), c.Name)
		if c.Detail != "" {
			fmt.Printf(" (%s)", c.Detail)
		}
		fmt.Printf(": %s\n", c.Status)
		if c.Error != "" && c.Status == healthcheck.StatusError {
			fmt.Printf("  Error: %s\n", c.Error)
		}
	}
}

func formatStatusIcon(status string) string {
	switch status {
	case healthcheck.StatusReady:
		return "✓"
	case healthcheck.StatusSkipped:
		return "-"
	case healthcheck.StatusError:
		return "✗"
	default:
		return "?"
	}
}

func init() {
	RootCmd.AddCommand(doctorCmd)
}
