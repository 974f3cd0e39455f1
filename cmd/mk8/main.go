// SPDX-FileCopyrightText:  © 2024 Siemens Healthineers AG
// SPDX-License-Identifier:   MIT

package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/lago-morph/ai-k8s-sub000/cmd/mk8/cmd"
	"github.com/lago-morph/ai-k8s-sub000/cmd/mk8/cmd/common"
	"github.com/lago-morph/ai-k8s-sub000/cmd/mk8/utils/logging"
	"github.com/lago-morph/ai-k8s-sub000/internal/cli"

	"github.com/pterm/pterm"
)

func main() {
	exitCode := cli.ExitCodeSuccess

	defer func() {
		if err := recover(); err != nil {
			exitCode = cli.ExitCodeFailure
			handleUnexpectedError(err)
		}

		logging.Finalize()
		os.Exit(int(exitCode))
	}()

	levelVar := new(slog.LevelVar)

	err := cmd.CreateRootCmd(levelVar).Execute()
	if err == nil {
		return
	}

	var cmdFailure *common.CmdFailure
	if !errors.As(err, &cmdFailure) {
		exitCode = cli.ExitCodeFailure
		handleUnexpectedError(err)
		return
	}

	exitCode = cmdFailure.ExitCode()

	if !cmdFailure.SuppressCliOutput {
		switch cmdFailure.Severity {
		case common.SeverityWarning:
			pterm.Warning.Println(cmdFailure.Message)
		case common.SeverityError:
			pterm.Error.Println(cmdFailure.Message)
		default:
			slog.Warn("unknown cmd failure severity", "severity", cmdFailure.Severity)
		}

		if len(cmdFailure.Hints) > 0 {
			pterm.Println(pterm.LightCyan("Suggestions:"))
			common.NewTerminalPrinter(os.Stdout).PrintTreeListItems(cmdFailure.Hints)
		}
	}

	slog.Error("command failed",
		"severity", fmt.Sprintf("%d(%s)", cmdFailure.Severity, cmdFailure.Severity),
		"code", cmdFailure.Code,
		"message", cmdFailure.Message,
		"hints", cmdFailure.Hints,
		"suppressCliOutput", cmdFailure.SuppressCliOutput)
}

func handleUnexpectedError(err any) {
	pterm.Error.Println(fmt.Errorf("%v", err))

	slog.Error("unexpected error", "error", err)
}
