package ledgerexport

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// DirDestination writes snapshots under a local directory.
type DirDestination struct {
	Root string
}

func (d DirDestination) Write(_ context.Context, key string, data []byte) (string, error) {
	target := filepath.Join(d.Root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return "", fmt.Errorf("write export: %w", err)
	}
	return target, nil
}
