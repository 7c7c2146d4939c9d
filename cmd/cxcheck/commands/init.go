package commands

import (
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/Pythonidaer/new-years-project-sub002/internal/config"
	"github.com/Pythonidaer/new-years-project-sub002/internal/healthcheck"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a configuration file interactively",
	Long: `Guides you through setting up cxcheck step by step.
Creates a config file with the ESLint command, output paths and analysis settings.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInit(cmd)
	},
}

func runInit(cmd *cobra.Command) error {
	newCfg := config.DefaultConfig()

	// === SECTION 1: ESLint ===
	eslintCommand := newCfg.ESLintCommand
	eslintConfig := ""
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("ESLint command").
				Description("How cxcheck runs ESLint").
				Placeholder("npx eslint").
				Value(&eslintCommand),
			huh.NewInput().
				Title("ESLint config file (optional, press Enter to skip)").
				Placeholder("eslint.config.js").
				Value(&eslintConfig),
		),
	)
	if err := form.Run(); err != nil {
		return fmt.Errorf("interactive prompt failed: %w", err)
	}

	// === SECTION 2: Output ===
	reportPath := newCfg.ReportPath
	sarifPath := ""
	form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Mismatch report path").
				Placeholder("complexity-mismatches.json").
				Value(&reportPath),
			huh.NewInput().
				Title("SARIF output path (optional, press Enter to skip)").
				Placeholder("complexity.sarif").
				Value(&sarifPath),
		),
	)
	if err := form.Run(); err != nil {
		return fmt.Errorf("interactive prompt failed: %w", err)
	}

	// === SECTION 3: Analysis ===
	workers := strconv.Itoa(newCfg.Workers)
	crossCheck := newCfg.CrossCheck
	form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Files analyzed in parallel").
				Value(&workers).
				Validate(func(s string) error {
					n, err := strconv.Atoi(s)
					if err != nil || n < 1 {
						return fmt.Errorf("enter a whole number of at least 1")
					}
					return nil
				}),
			huh.NewConfirm().
				Title("Syntax tree cross-check").
				Description("Add an independent syntax tree count to every mismatch?").
				Affirmative("Yes").
				Negative("No").
				Value(&crossCheck),
		),
	)
	if err := form.Run(); err != nil {
		return fmt.Errorf("interactive prompt failed: %w", err)
	}

	// === SECTION 4: Config Location ===
	var saveLocationChoice string
	form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Save Configuration").
				Description("Where to save the configuration file?").
				Options(
					huh.NewOption("Project (./.cxcheck/config.yaml)", "project"),
					huh.NewOption("Global (~/.cxcheck/config.yaml)", "global"),
				).
				Value(&saveLocationChoice),
		),
	)
	if err := form.Run(); err != nil {
		return fmt.Errorf("interactive prompt failed: %w", err)
	}

	configPath := config.ProjectConfigFilePath()
	if saveLocationChoice == "global" {
		configPath = config.GlobalConfigFilePath()
	}

	if _, err := os.Stat(configPath); err == nil {
		var overwrite bool
		form = huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title("Config file exists").
					Description(fmt.Sprintf("Overwrite existing config at %s?", configPath)).
					Affirmative("Overwrite").
					Negative("Cancel").
					Value(&overwrite),
			),
		)
		if err := form.Run(); err != nil {
			return fmt.Errorf("interactive prompt failed: %w", err)
		}
		if !overwrite {
			fmt.Println("Cancelled.")
			return nil
		}
	}

	// === Build config struct ===
	newCfg.ESLintCommand = eslintCommand
	newCfg.ESLintConfig = eslintConfig
	newCfg.ReportPath = reportPath
	newCfg.SARIFPath = sarifPath
	newCfg.Workers, _ = strconv.Atoi(workers)
	newCfg.CrossCheck = crossCheck

	if err := newCfg.Validate(); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	fmt.Println("\n=== Configuration Preview ===")
	fmt.Printf("Config path: %s\n", configPath)
	fmt.Printf("ESLint command: %s\n", newCfg.ESLintCommand)
	if newCfg.ESLintConfig != "" {
		fmt.Printf("ESLint config: %s\n", newCfg.ESLintConfig)
	}
	fmt.Printf("Report: %s\n", newCfg.ReportPath)
	if newCfg.SARIFPath != "" {
		fmt.Printf("SARIF: %s\n", newCfg.SARIFPath)
	}
	fmt.Printf("Workers: %d\n", newCfg.Workers)
	fmt.Printf("Cross-check: %t\n", newCfg.CrossCheck)
	fmt.Println("================================")

	if err := newCfg.Save(configPath); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	fmt.Printf("Configuration saved to: %s\n", configPath)

	// === SECTION 5: Health Check ===
	fmt.Println("\n=== Running Health Check ===")
	loadedCfg, err := config.LoadFromFile(configPath)
	if err != nil {
		return fmt.Errorf("loading saved config: %w", err)
	}
	result, err := healthcheck.Check(cmd.Context(), loadedCfg, configPath)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	displayDoctorResult(result)

	fmt.Println("\n=== Initialization Complete ===")
	return nil
}

func init() {
	RootCmd.AddCommand(initCmd)
}
