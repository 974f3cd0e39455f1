// SPDX-FileCopyrightText:  © 2025 Siemens Healthineers AG
// SPDX-License-Identifier:   MIT

package kubeconfig

import (
	"github.com/lago-morph/ai-k8s-sub000/cmd/mk8/cmd/common"
	kc "github.com/lago-morph/ai-k8s-sub000/internal/kubeconfig"
	"github.com/spf13/cobra"
)

const existsExample = `
  # Merge cluster 'dev' only if the kubeconfig does not know it yet
  mk8 kubeconfig exists dev || kind get kubeconfig --name dev | mk8 kubeconfig merge --from -
`

func newExistsCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "exists CLUSTER",
		Short:   "Checks whether the kubeconfig contains a cluster, fails if it does not",
		Example: existsExample,
		Args:    cobra.ExactArgs(1),
		RunE:    clusterExists,
	}
}

func clusterExists(cmd *cobra.Command, args []string) error {
	clusterName := args[0]

	svc, err := newServices(cmd)
	if err != nil {
		return err
	}

	found, err := svc.manager.HasCluster(clusterName)
	if err != nil {
		return common.ToCmdFailure(err)
	}
	if !found {
		return common.ToCmdFailure(&kc.NotFoundError{
			Collection: kc.CollectionClusters,
			Name:       clusterName,
			Path:       svc.settings.Kubeconfig.Path,
		})
	}

	svc.printer.PrintInfof("Cluster '%s' exists in '%s'", clusterName, svc.settings.Kubeconfig.Path)
	return nil
}
