// SPDX-FileCopyrightText:  © 2025 Siemens Healthineers AG
// SPDX-License-Identifier:   MIT

package kubeconfig

import (
	"strings"

	"github.com/lago-morph/ai-k8s-sub000/cmd/mk8/cmd/common"
	contracts "github.com/lago-morph/ai-k8s-sub000/internal/contracts/kubeconfig"
	"github.com/lago-morph/ai-k8s-sub000/internal/json"
	"github.com/spf13/cobra"
)

const listExample = `
  # List the clusters of the kubeconfig
  mk8 kubeconfig list

  # List clusters and contexts
  mk8 kubeconfig list -o wide

  # List in JSON output format
  mk8 kubeconfig list -o json
`

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "Lists the clusters and contexts of the kubeconfig",
		Example: listExample,
		Args:    cobra.NoArgs,
		RunE:    listClusters,
	}
	cmd.Flags().StringP(outputFlagName, "o", "", "Output format modifier. Currently supported: 'wide' for contexts and users and 'json' for output as JSON structure")
	return cmd
}

func listClusters(cmd *cobra.Command, _ []string) error {
	outputOption, err := cmd.Flags().GetString(outputFlagName)
	if err != nil {
		return err
	}
	if err := validateOutputOption(outputOption, wideOption, jsonOption); err != nil {
		return err
	}

	svc, err := newServices(cmd)
	if err != nil {
		return err
	}

	listing, err := svc.manager.List()
	if err != nil {
		return common.ToCmdFailure(err)
	}

	if outputOption == jsonOption {
		return json.Print(svc.printer.Writer(), listing)
	}

	printListing(svc.printer, listing, outputOption == wideOption)
	return nil
}

func printListing(printer *common.TerminalPrinter, listing *contracts.Listing, wide bool) {
	if len(listing.Clusters) == 0 {
		printer.PrintInfof("No clusters in '%s'", listing.Path)
		return
	}

	clusters := [][]string{{"CURRENT", "NAME", "SERVER", "CONTEXTS"}}
	for _, cluster := range listing.Clusters {
		clusters = append(clusters, []string{currentMarker(cluster.Current), cluster.Name, cluster.Server, strings.Join(cluster.Contexts, ",")})
	}
	printer.PrintTableWithHeaders(clusters)

	if !wide {
		return
	}

	printer.Println()

	contexts := [][]string{{"CURRENT", "CONTEXT", "CLUSTER", "USER", "NAMESPACE"}}
	for _, context := range listing.Contexts {
		contexts = append(contexts, []string{currentMarker(context.Current), context.Name, context.Cluster, context.User, context.Namespace})
	}
	printer.PrintTableWithHeaders(contexts)
	printer.Println()
	printer.PrintInfof("Users: %s", strings.Join(listing.Users, ", "))
}
