package linter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// maxFilesPerRun keeps ESLint command lines under OS argument limits.
const maxFilesPerRun = 200

// Runner produces ESLint results for a set of files.
type Runner interface {
	Run(ctx context.Context, files []string) ([]FileResult, error)
}

// ESLintRunner runs ESLint with the complexity rule forced on at
// threshold 0, so every function gets a message.
type ESLintRunner struct {
	Command    []string
	ConfigPath string
	Dir        string
}

// NewESLintRunner builds a runner from a command line such as "npx eslint".
func NewESLintRunner(command, configPath string) *ESLintRunner {
	return &ESLintRunner{
		Command:    strings.Fields(command),
		ConfigPath: configPath,
	}
}

// Args returns the ESLint arguments for one batch of files.
func (r *ESLintRunner) Args(files []string) []string {
	args := append([]string{}, r.Command[1:]...)
	args = append(args, "--format", "json", "--rule", `{"complexity":["warn",0]}`)
	if r.ConfigPath != "" {
		args = append(args, "--config", r.ConfigPath)
	}
	return append(args, files...)
}

// Run lints files in batches and concatenates the results.
func (r *ESLintRunner) Run(ctx context.Context, files []string) ([]FileResult, error) {
	if len(r.Command) == 0 {
		return nil, fmt.Errorf("%w: empty command", ErrLinterNotFound)
	}
	bin, err := exec.LookPath(r.Command[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrLinterNotFound, r.Command[0])
	}

	var all []FileResult
	for start := 0; start < len(files); start += maxFilesPerRun {
		end := min(start+maxFilesPerRun, len(files))
		results, err := r.runBatch(ctx, bin, files[start:end])
		if err != nil {
			return nil, err
		}
		all = append(all, results...)
	}
	return all, nil
}

func (r *ESLintRunner) runBatch(ctx context.Context, bin string, files []string) ([]FileResult, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, bin, r.Args(files)...)
	cmd.Dir = r.Dir
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	// Exit status 1 only means lint problems were found; the JSON is still
	// complete.
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) || exitErr.ExitCode() != 1 {
			return nil, fmt.Errorf("running eslint: %w: %s", err, strings.TrimSpace(stderr.String()))
		}
	}

	results, err := Decode(&stdout)
	if err != nil {
		return nil, fmt.Errorf("reading eslint output: %w", err)
	}
	return results, nil
}

// FileRunner serves results from a pre-generated ESLint JSON report and
// ignores the requested file list.
type FileRunner struct {
	Path string
}

// Run reads and decodes the report file.
func (r FileRunner) Run(_ context.Context, _ []string) ([]FileResult, error) {
	f, err := os.Open(r.Path)
	if err != nil {
		return nil, fmt.Errorf("opening eslint report %s: %w", r.Path, err)
	}
	defer f.Close()
	return Decode(f)
}
