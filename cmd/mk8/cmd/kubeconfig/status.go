// SPDX-FileCopyrightText:  © 2025 Siemens Healthineers AG
// SPDX-License-Identifier:   MIT

package kubeconfig

import (
	"fmt"

	"github.com/lago-morph/ai-k8s-sub000/cmd/mk8/cmd/common"
	contracts "github.com/lago-morph/ai-k8s-sub000/internal/contracts/kubeconfig"
	"github.com/lago-morph/ai-k8s-sub000/internal/json"
	"github.com/lago-morph/ai-k8s-sub000/internal/primitives/units"
	"github.com/lago-morph/ai-k8s-sub000/internal/version"
	"github.com/spf13/cobra"
)

const statusExample = `
  # Status of the kubeconfig
  mk8 kubeconfig status

  # Status in JSON output format
  mk8 kubeconfig status -o json
`

func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "status",
		Short:   "Prints file properties, integrity problems and backups of the kubeconfig",
		Example: statusExample,
		Args:    cobra.NoArgs,
		RunE:    printStatus,
	}
	cmd.Flags().StringP(outputFlagName, "o", "", "Output format modifier. Currently supported: 'json' for output as JSON structure")
	return cmd
}

func printStatus(cmd *cobra.Command, _ []string) error {
	outputOption, err := cmd.Flags().GetString(outputFlagName)
	if err != nil {
		return err
	}
	if err := validateOutputOption(outputOption, jsonOption); err != nil {
		return err
	}

	svc, err := newServices(cmd)
	if err != nil {
		return err
	}

	status, err := svc.manager.Status()
	if err != nil {
		return common.ToCmdFailure(err)
	}

	if outputOption == jsonOption {
		status.Mk8Version = version.Get().Version
		return json.Print(svc.printer.Writer(), status)
	}

	printUserFriendlyStatus(svc.printer, status)
	return nil
}

func printUserFriendlyStatus(printer *common.TerminalPrinter, status *contracts.Status) {
	printer.PrintHeader("kubeconfig: ", status.Path)

	if !status.Exists {
		printer.PrintInfof("File does not exist yet, it will be created on the first merge")
		return
	}

	modified := ""
	if status.ModTime != nil {
		modified = formatTime(*status.ModTime)
	}

	currentContext := status.CurrentContext
	if currentContext == "" {
		currentContext = "<none>"
	}

	printer.PrintTableWithHeaders([][]string{
		{"PROPERTY", "VALUE"},
		{"mode", status.Mode},
		{"size", units.ByteSize(status.Size).String()},
		{"modified", modified},
		{"current context", currentContext},
		{"clusters", fmt.Sprint(len(status.Clusters))},
		{"contexts", fmt.Sprint(len(status.Contexts))},
		{"users", fmt.Sprint(len(status.Users))},
		{"backups", fmt.Sprintf("%d/%d", len(status.Backups), status.MaxBackups)},
	})

	if status.Mode != "" && status.Mode != "0600" {
		printer.PrintWarningf("File mode is %s, the next write sets it to 0600", status.Mode)
	}

	if len(status.Violations) == 0 {
		printer.PrintSuccessf("No integrity problems found")
		return
	}

	printer.PrintWarningf("Found %d integrity problem(s), changes are refused until they are fixed:", len(status.Violations))
	printer.PrintTreeListItems(status.Violations)
}
