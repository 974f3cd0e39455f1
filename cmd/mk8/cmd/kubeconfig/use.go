// SPDX-FileCopyrightText:  © 2025 Siemens Healthineers AG
// SPDX-License-Identifier:   MIT

package kubeconfig

import (
	"github.com/lago-morph/ai-k8s-sub000/cmd/mk8/cmd/common"
	"github.com/spf13/cobra"
)

const (
	previousContextArg = "-"

	useExample = `
  # Switch to context 'dev'
  mk8 kubeconfig use dev

  # Switch back to the context that was current before the last switch
  mk8 kubeconfig use -
`
)

func newUseCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "use CONTEXT",
		Short:   "Sets the current context of the kubeconfig",
		Example: useExample,
		Args:    cobra.ExactArgs(1),
		RunE:    useContext,
	}
}

func useContext(cmd *cobra.Command, args []string) error {
	svc, err := newServices(cmd)
	if err != nil {
		return err
	}

	name := args[0]
	if name == previousContextArg {
		name = svc.previousContext()
		if name == "" {
			return &common.CmdFailure{
				Severity: common.SeverityWarning,
				Code:     common.CodeNoPreviousContext,
				Message:  "No previous context remembered for " + svc.settings.Kubeconfig.Path,
			}
		}
	}

	result, err := svc.manager.SwitchContext(name)
	if err != nil {
		return common.ToCmdFailure(err)
	}

	if !result.Changed {
		svc.printer.PrintInfof("Context '%s' is already current", result.CurrentContext)
		return nil
	}

	if result.PreviousContext != "" {
		svc.rememberPreviousContext(result.PreviousContext)
	}

	svc.printer.PrintSuccessf("Switched to context '%s'", result.CurrentContext)
	return nil
}
