// SPDX-FileCopyrightText:  © 2024 Siemens Healthineers AG
// SPDX-License-Identifier:   MIT

package os

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	bos "os"
	"sort"
	"strings"
)

type Files []fs.FileInfo
type Paths []string

// EnsureDir creates the directory if needed and enforces the given permissions on it.
func EnsureDir(path string, perm fs.FileMode) error {
	if !PathExists(path) {
		slog.Debug("Dir not existing, creating it", "path", path)
	}

	if err := bos.MkdirAll(path, perm); err != nil {
		return fmt.Errorf("could not create directory '%s': %w", path, err)
	}
	// MkdirAll applies the umask and leaves existing dirs alone
	if err := bos.Chmod(path, perm); err != nil {
		return fmt.Errorf("could not set permissions of directory '%s': %w", path, err)
	}
	return nil
}

func PathExists(path string) bool {
	_, err := bos.Stat(path)
	if err == nil {
		slog.Debug("Path exists", "path", path)
		return true
	}

	if !errors.Is(err, fs.ErrNotExist) {
		slog.Error("could not check existence of path", "path", path, "error", err)
	}
	return false
}

func RemovePaths(paths ...string) error {
	slog.Debug("Deleting paths", "paths", paths)

	for _, path := range paths {
		if err := bos.Remove(path); err != nil {
			return fmt.Errorf("could not remove '%s': %w", path, err)
		}
		slog.Debug("Path removed", "path", path)
	}
	return nil
}

// FilesInDir returns a list of files in the given directory.
// It does not check sub-directories (no recursion).
func FilesInDir(dir string) (files Files, err error) {
	paths, err := bos.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("could not read directory '%s': %w", dir, err)
	}

	for _, path := range paths {
		if path.IsDir() {
			continue
		}

		file, err := path.Info()
		if err != nil {
			return nil, fmt.Errorf("could not get file info '%s': %w", path.Name(), err)
		}
		files = append(files, file)
	}
	return files, nil
}

func (files Files) WithSuffix(suffix string) (matching Files) {
	for _, file := range files {
		if strings.HasSuffix(file.Name(), suffix) {
			matching = append(matching, file)
		}
	}
	return
}

// SortedByNameDesc returns a copy sorted by file name, highest first.
func (files Files) SortedByNameDesc() Files {
	sorted := make(Files, len(files))
	copy(sorted, files)

	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Name() > sorted[j].Name()
	})
	return sorted
}

func (paths Paths) Remove() error {
	return RemovePaths(paths...)
}
