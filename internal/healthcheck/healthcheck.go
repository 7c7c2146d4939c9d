package healthcheck

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/Pythonidaer/new-years-project-sub002/internal/config"
)

// Status values reported for each component.
const (
	StatusReady   = "ready"
	StatusSkipped = "skipped"
	StatusError   = "error"
)

// versionTimeout bounds the "eslint --version" check. npx may need to
// resolve the package on first use.
const versionTimeout = 30 * time.Second

// ComponentStatus represents the health of one thing cxcheck depends on.
type ComponentStatus struct {
	Name   string
	Detail string // version, path or other display value
	Status string // "ready", "skipped" or "error"
	Error  string
}

// HealthCheckResult contains the full health check output for display.
type HealthCheckResult struct {
	EffectivePath  string
	EffectiveScope string // "global", "project" or "" for defaults
	Config         ComponentStatus
	ESLint         ComponentStatus
	ESLintConfig   ComponentStatus
	Cache          ComponentStatus
}

// OK reports whether no component is in error.
func (r *HealthCheckResult) OK() bool {
	for _, c := range []ComponentStatus{r.Config, r.ESLint, r.ESLintConfig, r.Cache} {
		if c.Status == StatusError {
			return false
		}
	}
	return true
}

// Check performs a health check against the given config.
// effectivePath is the config file actually in use, empty for defaults.
func Check(ctx context.Context, cfg *config.Config, effectivePath string) (*HealthCheckResult, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}

	return &HealthCheckResult{
		EffectivePath:  effectivePath,
		EffectiveScope: scopeFromPath(effectivePath),
		Config:         checkConfig(cfg),
		ESLint:         checkESLint(ctx, cfg.ESLintCommand),
		ESLintConfig:   checkESLintConfig(cfg.ESLintConfig),
		Cache:          checkCache(cfg.CachePath),
	}, nil
}

// scopeFromPath determines "global" or "project" scope from a config file path.
// Returns empty string if path is empty.
func scopeFromPath(path string) string {
	if path == "" {
		return ""
	}

	home, err := os.UserHomeDir()
	if err == nil {
		globalDir := filepath.Join(home, ".cxcheck")
		if strings.HasPrefix(path, globalDir) {
			return "global"
		}
	}

	return "project"
}

func checkConfig(cfg *config.Config) ComponentStatus {
	status := ComponentStatus{Name: "config", Status: StatusReady}
	if err := cfg.Validate(); err != nil {
		status.Status = StatusError
		status.Error = err.Error()
	}
	return status
}

// checkESLint resolves the ESLint command on PATH and asks it for its
// version.
func checkESLint(ctx context.Context, command string) ComponentStatus {
	status := ComponentStatus{Name: "eslint", Detail: command}

	fields := strings.Fields(command)
	if len(fields) == 0 {
		status.Status = StatusError
		status.Error = "eslint command is not configured"
		return status
	}

	bin, err := exec.LookPath(fields[0])
	if err != nil {
		status.Status = StatusError
		status.Error = fmt.Sprintf("%s not found on PATH", fields[0])
		return status
	}

	ctx, cancel := context.WithTimeout(ctx, versionTimeout)
	defer cancel()

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, bin, append(fields[1:], "--version")...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		status.Status = StatusError
		status.Error = fmt.Sprintf("running %s --version: %v", command, err)
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			status.Error += ": " + msg
		}
		return status
	}

	status.Status = StatusReady
	status.Detail = strings.TrimSpace(stdout.String())
	return status
}

func checkESLintConfig(path string) ComponentStatus {
	status := ComponentStatus{Name: "eslint config", Detail: path}
	if path == "" {
		status.Status = StatusSkipped
		return status
	}
	info, err := os.Stat(path)
	switch {
	case err != nil:
		status.Status = StatusError
		status.Error = err.Error()
	case info.IsDir():
		status.Status = StatusError
		status.Error = "path is a directory"
	default:
		status.Status = StatusReady
	}
	return status
}

// checkCache verifies the cache directory can be created and written to.
func checkCache(path string) ComponentStatus {
	status := ComponentStatus{Name: "cache", Detail: path}
	if path == "" {
		status.Status = StatusSkipped
		return status
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		status.Status = StatusError
		status.Error = fmt.Sprintf("creating %s: %v", dir, err)
		return status
	}
	tmp, err := os.CreateTemp(dir, ".cxcheck-write-*")
	if err != nil {
		status.Status = StatusError
		status.Error = fmt.Sprintf("%s is not writable: %v", dir, err)
		return status
	}
	name := tmp.Name()
	_ = tmp.Close()
	_ = os.Remove(name)

	status.Status = StatusReady
	return status
}
