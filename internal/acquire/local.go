// Package acquire implements VideoAcquirer: turning a source reference
// (a local path or a remote URL) into a local file the rest of the
// pipeline can read from disk.
package acquire

import (
	"context"
	"fmt"
	"os"
)

// LocalAcquirer is a VideoAcquirer for sources that are already local
// files. It validates the path exists and is a regular file rather than
// copying it, since downstream stages only ever read it.
type LocalAcquirer struct{}

// NewLocalAcquirer returns a LocalAcquirer.
func NewLocalAcquirer() *LocalAcquirer {
	return &LocalAcquirer{}
}

// Acquire implements VideoAcquirer.
func (LocalAcquirer) Acquire(ctx context.Context, source string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	info, err := os.Stat(source)
	if err != nil {
		return "", fmt.Errorf("acquire: local source %q: %w", source, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("acquire: local source %q is a directory", source)
	}
	return source, nil
}
