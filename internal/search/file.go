package search

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/blink-new/whats-the-going-rate-wholesale-mdlila5q/internal/filesystem"
)

// FileProvider answers every query from a JSON Response fixture on disk.
// Useful offline and for demos; the file is re-read on each call so edits apply immediately.
type FileProvider struct {
	path string
	fs   filesystem.FileSystem
}

// NewFileProvider creates a provider backed by the fixture at path
func NewFileProvider(path string) *FileProvider {
	return NewFileProviderWithFS(path, filesystem.NewOSFileSystem())
}

// NewFileProviderWithFS creates a file provider on a custom FileSystem (for testing)
func NewFileProviderWithFS(path string, fs filesystem.FileSystem) *FileProvider {
	return &FileProvider{path: path, fs: fs}
}

func (p *FileProvider) Name() string { return "file" }

func (p *FileProvider) Search(ctx context.Context, query string, opts Options) (*Response, error) {
	if p.path == "" {
		return nil, fmt.Errorf("search fixture path not set")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := p.fs.ReadFile(p.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read search fixture: %w", err)
	}

	var fixture Response
	if err := json.Unmarshal(data, &fixture); err != nil {
		return nil, fmt.Errorf("failed to parse search fixture: %w", err)
	}

	if opts.Type == TypeShopping {
		return &Response{ShoppingResults: capShopping(fixture.ShoppingResults, opts.Limit)}, nil
	}
	return &Response{OrganicResults: capOrganic(fixture.OrganicResults, opts.Limit)}, nil
}
