// Package store provides durable backends for the serialized session blob.
//
// A [Store] holds exactly one blob — the client owns a single session, so
// there is nothing to key by. Backends: local file (default), BBolt, and
// Redis for hosts where a file path is not durable.
//
// # Architecture boundaries
//
// This package moves opaque bytes. It does NOT encode or decode sessions,
// and it never learns what the blob contains — that responsibility belongs
// to the Client and internal/session.
package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrNoSession is returned by Read when no blob has been written.
var ErrNoSession = errors.New("no stored session")

// ErrStoreUnavailable is returned when the backend cannot be reached.
var ErrStoreUnavailable = errors.New("session store unavailable")

// Store persists a single opaque session blob.
type Store interface {
	Write(ctx context.Context, blob []byte) error
	Read(ctx context.Context) ([]byte, error)
}

// File stores the blob at a fixed path with owner-only permissions.
// Writes go through a temp file and rename so a crash mid-write never
// leaves a truncated blob behind.
type File struct {
	path string
}

// NewFile returns a file-backed store at path.
func NewFile(path string) *File {
	return &File{path: path}
}

// Write replaces the stored blob, overwriting prior content.
func (f *File) Write(_ context.Context, blob []byte) error {
	dir := filepath.Dir(f.path)
	tmp, err := os.CreateTemp(dir, ".session-*")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(blob); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if err := os.Rename(tmpPath, f.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

// Read returns the stored blob, or [ErrNoSession] if none exists.
func (f *File) Read(_ context.Context) ([]byte, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNoSession
		}
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return data, nil
}
