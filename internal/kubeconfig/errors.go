// SPDX-FileCopyrightText:  © 2025 Siemens Healthineers AG
// SPDX-License-Identifier:   MIT

package kubeconfig

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/samber/lo"
)

// ParseError signals that the kubeconfig is not well-formed.
type ParseError struct {
	Path   string
	Reason string
	Err    error
}

// CorruptConfigError signals a well-formed kubeconfig that breaks referential integrity.
type CorruptConfigError struct {
	Path       string
	Violations []IntegrityViolation
}

type NotFoundError struct {
	Path       string
	Collection string
	Name       string
}

// IOError wraps filesystem failures while reading, backing up or writing the kubeconfig.
type IOError struct {
	Path string
	Op   string
	Err  error
}

type ConflictExhaustionError struct {
	Name     string
	Attempts int
}

func (e *ParseError) Error() string {
	message := fmt.Sprintf("could not parse kubeconfig '%s': %s", displayPath(e.Path), e.Reason)
	if e.Err != nil {
		message += ": " + e.Err.Error()
	}
	return message
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func (e *ParseError) Hints() []string {
	return []string{
		"Fix the YAML syntax of the kubeconfig or restore it from a backup with 'mk8 kubeconfig backups restore'",
	}
}

func (e *CorruptConfigError) Error() string {
	violations := lo.Map(e.Violations, func(v IntegrityViolation, _ int) string {
		return v.String()
	})
	return fmt.Sprintf("kubeconfig '%s' is corrupt: %s", displayPath(e.Path), strings.Join(violations, "; "))
}

func (e *CorruptConfigError) Hints() []string {
	return []string{
		"Inspect the reported entries with 'mk8 kubeconfig status'",
		"Restore a consistent version with 'mk8 kubeconfig backups restore'",
	}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s '%s' not found in kubeconfig '%s'", singular(e.Collection), e.Name, displayPath(e.Path))
}

func (e *NotFoundError) Hints() []string {
	if e.Collection == CollectionBackups {
		return []string{"List the available backups with 'mk8 kubeconfig backups list'"}
	}
	return []string{
		fmt.Sprintf("List the available %s with 'mk8 kubeconfig list'", e.Collection),
	}
}

func (e *IOError) Error() string {
	return fmt.Sprintf("could not %s '%s': %v", e.Op, displayPath(e.Path), e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

func (e *IOError) Hints() []string {
	if errors.Is(e.Err, fs.ErrPermission) {
		return []string{
			fmt.Sprintf("Check the permissions of '%s' and its directory", e.Path),
		}
	}
	if errors.Is(e.Err, fs.ErrNotExist) {
		return []string{
			"Check the configured kubeconfig path with 'mk8 kubeconfig status'",
		}
	}
	return []string{
		"Check that the disk is writable and not full",
	}
}

func (e *ConflictExhaustionError) Error() string {
	return fmt.Sprintf("could not find a free name for '%s' after %d attempts", e.Name, e.Attempts)
}

func (e *ConflictExhaustionError) Hints() []string {
	return []string{
		"Choose a different name",
		"Remove unused clusters with 'mk8 kubeconfig remove'",
	}
}

func displayPath(path string) string {
	if path == "" {
		return "<memory>"
	}
	return path
}

func singular(collection string) string {
	switch collection {
	case CollectionClusters:
		return "cluster"
	case CollectionContexts:
		return "context"
	case CollectionUsers:
		return "user"
	case CollectionBackups:
		return "backup"
	default:
		return collection
	}
}
