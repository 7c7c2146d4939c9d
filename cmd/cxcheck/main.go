// Package main implements the cxcheck CLI.
// It extracts cyclomatic complexity decision points from JavaScript and
// TypeScript and compares the totals with ESLint's complexity rule.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/Pythonidaer/new-years-project-sub002/cmd/cxcheck/commands"
)

var (
	version   = "dev"
	buildTime = ""
)

func main() {
	commands.SetVersion(version, buildTime)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := commands.RootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
