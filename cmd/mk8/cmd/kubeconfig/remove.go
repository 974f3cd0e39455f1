// SPDX-FileCopyrightText:  © 2025 Siemens Healthineers AG
// SPDX-License-Identifier:   MIT

package kubeconfig

import (
	"log/slog"
	"strings"

	"github.com/lago-morph/ai-k8s-sub000/cmd/mk8/cmd/common"
	"github.com/lago-morph/ai-k8s-sub000/internal/kubeconfig/manager"
	"github.com/spf13/cobra"
)

const removeExample = `
  # Remove cluster 'dev' together with its contexts and users no other context needs
  mk8 kubeconfig remove dev
`

func newRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "remove CLUSTER",
		Aliases: []string{"rm"},
		Short:   "Removes a cluster and all contexts and users depending on it from the kubeconfig",
		Example: removeExample,
		Args:    cobra.ExactArgs(1),
		RunE:    removeCluster,
	}
}

func removeCluster(cmd *cobra.Command, args []string) error {
	clusterName := args[0]

	svc, err := newServices(cmd)
	if err != nil {
		return err
	}

	previous := svc.previousContext()

	slog.Debug("Removing cluster", "cluster-name", clusterName, "previous-context", previous)

	result, err := svc.manager.Remove(clusterName, manager.RemoveOptions{PreviousContext: previous})
	if err != nil {
		return common.ToCmdFailure(err)
	}

	if result.ContextChanged {
		svc.rememberPreviousContext("")
	}

	svc.printer.PrintSuccessf("Removed cluster '%s' from '%s'", result.ClusterName, svc.settings.Kubeconfig.Path)

	if len(result.RemovedContexts) > 0 {
		svc.printer.PrintInfof("Removed contexts: %s", strings.Join(result.RemovedContexts, ", "))
	}
	if len(result.RemovedUsers) > 0 {
		svc.printer.PrintInfof("Removed users: %s", strings.Join(result.RemovedUsers, ", "))
	}
	if len(result.RetainedUsers) > 0 {
		svc.printer.PrintInfof("Kept users still used by other contexts: %s", strings.Join(result.RetainedUsers, ", "))
	}
	if result.ContextChanged {
		if result.CurrentContext == "" {
			svc.printer.PrintWarningf("No current context set anymore, select one with 'mk8 kubeconfig use'")
		} else {
			svc.printer.PrintInfof("Current context: '%s'", result.CurrentContext)
		}
	}
	return nil
}
