// SPDX-FileCopyrightText:  © 2025 Siemens Healthineers AG
// SPDX-License-Identifier:   MIT

package os

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	bos "os"
	"path/filepath"
)

const (
	PrivateDirPerm  fs.FileMode = 0700
	PrivateFilePerm fs.FileMode = 0600

	tempInfix = ".tmp-"
)

type AtomicWriter struct {
	dirPerm  fs.FileMode
	filePerm fs.FileMode
	rename   func(oldPath, newPath string) error
	write    func(file *bos.File, data []byte) error
}

type AtomicWriterOption func(*AtomicWriter)

// WithRenameFunc replaces the final rename, e.g. to simulate a crash before the target is replaced.
func WithRenameFunc(rename func(oldPath, newPath string) error) AtomicWriterOption {
	return func(w *AtomicWriter) {
		w.rename = rename
	}
}

// WithWriteFunc replaces writing the data into the temp file, e.g. to simulate a full disk.
func WithWriteFunc(write func(file *bos.File, data []byte) error) AtomicWriterOption {
	return func(w *AtomicWriter) {
		w.write = write
	}
}

func NewAtomicWriter(options ...AtomicWriterOption) *AtomicWriter {
	writer := &AtomicWriter{
		dirPerm:  PrivateDirPerm,
		filePerm: PrivateFilePerm,
		rename:   bos.Rename,
		write:    writeAll,
	}
	for _, option := range options {
		option(writer)
	}

	return writer
}

// WriteFile replaces the target with the given data or leaves it untouched.
//
// The data goes to a temp file in the target's directory which gets its final
// permissions before any byte is written. The temp file is synced and renamed
// over the target; on any failure it is removed.
func (w *AtomicWriter) WriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)

	slog.Debug("Writing file atomically", "path", path, "size", len(data))

	if err := EnsureDir(dir, w.dirPerm); err != nil {
		return err
	}

	temp, err := bos.CreateTemp(dir, "."+filepath.Base(path)+tempInfix+"*")
	if err != nil {
		return fmt.Errorf("could not create temp file in '%s': %w", dir, err)
	}
	tempPath := temp.Name()

	renamed := false
	defer func() {
		if renamed {
			return
		}
		if closeErr := temp.Close(); closeErr != nil && !errors.Is(closeErr, bos.ErrClosed) {
			slog.Debug("could not close temp file", "path", tempPath, "error", closeErr)
		}
		if removeErr := bos.Remove(tempPath); removeErr != nil {
			slog.Error("could not remove temp file", "path", tempPath, "error", removeErr)
		}
	}()

	if err := temp.Chmod(w.filePerm); err != nil {
		return fmt.Errorf("could not set permissions of temp file '%s': %w", tempPath, err)
	}
	if err := w.write(temp, data); err != nil {
		return fmt.Errorf("could not write temp file '%s': %w", tempPath, err)
	}
	if err := temp.Sync(); err != nil {
		return fmt.Errorf("could not sync temp file '%s': %w", tempPath, err)
	}
	if err := temp.Close(); err != nil {
		return fmt.Errorf("could not close temp file '%s': %w", tempPath, err)
	}
	if err := w.rename(tempPath, path); err != nil {
		return fmt.Errorf("could not replace '%s': %w", path, err)
	}
	renamed = true

	syncDir(dir)

	slog.Debug("File written", "path", path)
	return nil
}

func writeAll(file *bos.File, data []byte) error {
	_, err := file.Write(data)
	return err
}

// syncDir persists the rename; not all platforms support syncing directories.
func syncDir(dir string) {
	handle, err := bos.Open(dir)
	if err != nil {
		slog.Debug("could not open dir for sync", "path", dir, "error", err)
		return
	}
	defer handle.Close()

	if err := handle.Sync(); err != nil {
		slog.Debug("could not sync dir", "path", dir, "error", err)
	}
}
