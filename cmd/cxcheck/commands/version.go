package commands

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

var (
	appVersion   = "dev"
	appBuildTime = ""
)

// SetVersion records the values stamped into the binary at build time.
func SetVersion(version, buildTime string) {
	appVersion = version
	appBuildTime = buildTime
	RootCmd.Version = version
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "cxcheck version %s\n", appVersion)
		if appBuildTime != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "Built: %s\n", appBuildTime)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Go: %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
	},
}

func init() {
	RootCmd.SetVersionTemplate("cxcheck version {{.Version}}\n")
	RootCmd.AddCommand(versionCmd)
}
