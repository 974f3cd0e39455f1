// SPDX-FileCopyrightText:  © 2024 Siemens Healthineers AG
// SPDX-License-Identifier:   MIT

package version

import (
	"fmt"

	"github.com/lago-morph/ai-k8s-sub000/cmd/mk8/cmd/common"
	"github.com/lago-morph/ai-k8s-sub000/internal/cli"
	"github.com/lago-morph/ai-k8s-sub000/internal/definitions"
	"github.com/lago-morph/ai-k8s-sub000/internal/json"
	ve "github.com/lago-morph/ai-k8s-sub000/internal/version"

	"github.com/spf13/cobra"
)

const (
	outputFlagName = "output"
	unknown        = "<unknown>"
)

func NewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   cli.VersionFlagName,
		Short: cli.NewVersionFlagHint(definitions.CliName),
		Args:  cobra.NoArgs,
		RunE:  showVersion,
	}
	cmd.Flags().StringP(outputFlagName, "o", "", "Output format modifier. Currently supported: 'json' for output as JSON structure")
	cmd.Flags().SortFlags = false
	return cmd
}

func showVersion(cmd *cobra.Command, _ []string) error {
	outputOption, err := cmd.Flags().GetString(outputFlagName)
	if err != nil {
		return err
	}

	info := ve.Get()

	switch outputOption {
	case "":
		printUserFriendlyVersion(common.NewTerminalPrinter(cmd.OutOrStdout()), info)
		return nil
	case "json":
		return json.Print(cmd.OutOrStdout(), info)
	default:
		return common.NewInvalidArgumentFailure(fmt.Sprintf("parameter '%s' not supported for flag 'o'", outputOption))
	}
}

func printUserFriendlyVersion(printer *common.TerminalPrinter, info ve.Info) {
	printer.PrintHeader(definitions.CliName, " ", info.Version)

	commit := orUnknown(info.Commit)
	if info.Modified {
		commit += " (modified)"
	}

	printer.PrintTableWithHeaders([][]string{
		{"PROPERTY", "VALUE"},
		{"commit", commit},
		{"built", orUnknown(info.BuildDate)},
		{"go", info.GoVersion},
		{"platform", info.Platform},
	})
}

func orUnknown(value string) string {
	if value == "" {
		return unknown
	}
	return value
}
