// SPDX-FileCopyrightText:  © 2023 Siemens Healthcare GmbH
// SPDX-License-Identifier:   MIT

package logging

import (
	"errors"
	"io"
	"log/slog"
	"os"

	"github.com/lago-morph/ai-k8s-sub000/internal/definitions"
	bl "github.com/lago-morph/ai-k8s-sub000/internal/logging"
	"github.com/pterm/pterm"
	slogmulti "github.com/samber/slog-multi"
	"golang.org/x/term"
)

const componentAttributeName = "component"

var logFile *os.File

// Initialize routes the global slog logger to the JSON log file and, if cliWriter is not nil, to the terminal.
// It must be paired with Finalize.
func Initialize(levelVar *slog.LevelVar, logFilePath string, cliWriter io.Writer) error {
	if logFile != nil {
		return errors.New("logging already initialized")
	}

	file, err := bl.InitializeLogFile(logFilePath)
	if err != nil {
		return err
	}
	logFile = file

	options := createDefaultOptions(levelVar)
	fileHandler := createFileHandler(logFile, options)

	if cliWriter == nil {
		slog.SetDefault(slog.New(fileHandler))
		return nil
	}

	cliHandler := createCliHandler(cliWriter, levelVar, options)
	slog.SetDefault(slog.New(slogmulti.Fanout(cliHandler, fileHandler)))
	return nil
}

func Finalize() {
	if logFile == nil {
		return
	}

	if err := logFile.Sync(); err != nil {
		slog.Warn("could not sync log file", "error", err)
	}
	if err := logFile.Close(); err != nil {
		slog.Warn("could not close log file", "error", err)
	}

	logFile = nil
}

// MapLogLevel maps slog levels to the nearest pterm level
func MapLogLevel(level slog.Level) pterm.LogLevel {
	switch {
	case level > slog.LevelError:
		return pterm.LogLevelFatal
	case level == slog.LevelError:
		return pterm.LogLevelError
	case level >= slog.LevelWarn:
		return pterm.LogLevelWarn
	case level >= slog.LevelInfo:
		return pterm.LogLevelInfo
	case level >= slog.LevelDebug:
		return pterm.LogLevelDebug
	default:
		return pterm.LogLevelTrace
	}
}

func createDefaultOptions(levelVar *slog.LevelVar) *slog.HandlerOptions {
	return &slog.HandlerOptions{
		Level:       levelVar,
		AddSource:   true,
		ReplaceAttr: bl.ReplaceSourceFilePath}
}

// createCliHandler uses pterm on interactive terminals and plain text otherwise, e.g. when piped
func createCliHandler(writer io.Writer, levelVar *slog.LevelVar, options *slog.HandlerOptions) slog.Handler {
	if isTerminal(writer) {
		logger := pterm.DefaultLogger.
			WithWriter(writer).
			WithLevel(MapLogLevel(levelVar.Level())).
			WithMaxWidth(pterm.GetTerminalWidth())
		return pterm.NewSlogHandler(logger)
	}
	return slog.NewTextHandler(writer, options)
}

func createFileHandler(file *os.File, options *slog.HandlerOptions) slog.Handler {
	return slog.NewJSONHandler(file, options).WithAttrs([]slog.Attr{slog.String(componentAttributeName, definitions.CliName)})
}

func isTerminal(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	return ok && term.IsTerminal(int(file.Fd()))
}
