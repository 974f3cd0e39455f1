// SPDX-FileCopyrightText:  © 2023 Siemens Healthcare GmbH
// SPDX-License-Identifier:   MIT

package common

import (
	"errors"
	"fmt"

	"github.com/lago-morph/ai-k8s-sub000/internal/cli"
	"github.com/lago-morph/ai-k8s-sub000/internal/config"
	"github.com/lago-morph/ai-k8s-sub000/internal/kubeconfig"
	"github.com/lago-morph/ai-k8s-sub000/internal/kubeconfig/manager"
)

type FailureSeverity uint8
type ContextKey string

type CmdFailure struct {
	Severity          FailureSeverity `json:"severity"`
	Code              string          `json:"code"`
	Message           string          `json:"message"`
	Hints             []string        `json:"hints,omitempty"`
	SuppressCliOutput bool            `json:"-"`
}

type hinter interface {
	Hints() []string
}

const (
	SeverityWarning FailureSeverity = 3
	SeverityError   FailureSeverity = 4

	ContextKeyCmdContext ContextKey = "cmd-context"

	OutputFlagName      = "output"
	OutputFlagShorthand = "o"
	OutputFlagUsage     = "Show all logs in terminal"

	CodeParseError        = "kubeconfig-parse-error"
	CodeCorrupt           = "kubeconfig-corrupt"
	CodeNotFound          = "kubeconfig-not-found"
	CodeIOError           = "kubeconfig-io-error"
	CodeNameExhausted     = "kubeconfig-name-exhausted"
	CodeLocked            = "kubeconfig-locked"
	CodeInvalidSettings   = "invalid-settings"
	CodeInvalidArgument   = "invalid-argument"
	CodeNoPreviousContext = "no-previous-context"
)

func (c *CmdFailure) Error() string {
	return fmt.Sprintf("%s: %s", c.Code, c.Message)
}

// ExitCode determines the process exit code for this failure
func (c *CmdFailure) ExitCode() cli.ExitCode {
	if c.Code == CodeInvalidSettings {
		return cli.ExitCodeConfigError
	}
	return cli.ExitCodeFailure
}

func (s FailureSeverity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

func NewInvalidArgumentFailure(message string) *CmdFailure {
	return &CmdFailure{
		Severity: SeverityWarning,
		Code:     CodeInvalidArgument,
		Message:  message,
	}
}

// ToCmdFailure converts known domain errors to a CmdFailure with a stable code.
// Unknown errors are returned unchanged.
func ToCmdFailure(err error) error {
	if err == nil {
		return nil
	}

	var cmdFailure *CmdFailure
	if errors.As(err, &cmdFailure) {
		return cmdFailure
	}

	severity, code, known := classify(err)
	if !known {
		return err
	}

	failure := &CmdFailure{
		Severity: severity,
		Code:     code,
		Message:  err.Error(),
	}

	var h hinter
	if errors.As(err, &h) {
		failure.Hints = h.Hints()
	}
	return failure
}

func classify(err error) (FailureSeverity, string, bool) {
	var (
		parseErr      *kubeconfig.ParseError
		corruptErr    *kubeconfig.CorruptConfigError
		notFoundErr   *kubeconfig.NotFoundError
		ioErr         *kubeconfig.IOError
		exhaustionErr *kubeconfig.ConflictExhaustionError
		settingsErr   *config.SettingsError
	)

	switch {
	case errors.As(err, &settingsErr):
		return SeverityError, CodeInvalidSettings, true
	case errors.Is(err, manager.ErrLockTimeout):
		return SeverityWarning, CodeLocked, true
	case errors.As(err, &notFoundErr):
		return SeverityWarning, CodeNotFound, true
	case errors.As(err, &corruptErr):
		return SeverityError, CodeCorrupt, true
	case errors.As(err, &parseErr):
		return SeverityError, CodeParseError, true
	case errors.As(err, &exhaustionErr):
		return SeverityError, CodeNameExhausted, true
	case errors.As(err, &ioErr):
		return SeverityError, CodeIOError, true
	default:
		return 0, "", false
	}
}
