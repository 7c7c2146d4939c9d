package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/Pythonidaer/new-years-project-sub002/pkg/boundary"
	"github.com/Pythonidaer/new-years-project-sub002/pkg/types"
)

// sourceFile is a single file read and parsed for function boundaries.
type sourceFile struct {
	Path      string
	Content   []byte
	Language  boundary.Language
	Functions []types.FunctionInfo
}

// loadSource reads path and finds its functions.
func loadSource(ctx context.Context, path string) (*sourceFile, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("path is a directory, expected a file: %s", path)
	}

	lang, err := boundary.LanguageFor(path)
	if err != nil {
		return nil, err
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}

	functions, err := boundary.Find(ctx, content, lang)
	if err != nil {
		return nil, fmt.Errorf("finding functions: %w", err)
	}

	return &sourceFile{Path: path, Content: content, Language: lang, Functions: functions}, nil
}

func writeJSON(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
