// SPDX-FileCopyrightText:  © 2025 Siemens Healthineers AG
// SPDX-License-Identifier:   MIT

package kubeconfig

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/lago-morph/ai-k8s-sub000/cmd/mk8/cmd/common"
	kc "github.com/lago-morph/ai-k8s-sub000/internal/kubeconfig"
	"github.com/lago-morph/ai-k8s-sub000/internal/kubeconfig/manager"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"k8s.io/apimachinery/pkg/util/validation"
)

type mergeParams struct {
	from                 string
	context              string
	name                 string
	server               string
	namespace            string
	makeCurrent          bool
	allowDuplicateServer *bool
}

const (
	fromFlagName                 = "from"
	contextFlagName              = "context"
	nameFlagName                 = "name"
	serverFlagName               = "server"
	namespaceFlagName            = "namespace"
	makeCurrentFlagName          = "make-current"
	allowDuplicateServerFlagName = "allow-duplicate-server"

	stdinMarker = "-"

	mergeExample = `
  # Merge the cluster of the current context of a kubeconfig file produced by a cluster tool
  mk8 kubeconfig merge --from ./kind-dev.kubeconfig

  # Merge from stdin under the name 'dev' and switch to it
  kind get kubeconfig --name dev | mk8 kubeconfig merge --from - --name dev --make-current

  # Merge a specific context and override the server URL
  mk8 kubeconfig merge --from ./eks.kubeconfig --context admin@prod --server https://127.0.0.1:6443
`
)

func newMergeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "merge",
		Short:   "Merges the connection data of a cluster into the kubeconfig",
		Long:    "Merges cluster, user and context of a cluster into the kubeconfig. Names already in use get a numeric suffix, e.g. 'dev-1'.",
		Example: mergeExample,
		Args:    cobra.NoArgs,
		RunE:    mergeCluster,
	}

	flags := cmd.Flags()
	flags.StringP(fromFlagName, "f", "", "kubeconfig file holding the cluster to merge, '-' for stdin")
	flags.String(contextFlagName, "", "Context of the --from file to take the cluster from (default: its current context)")
	flags.String(nameFlagName, "", "Desired name of cluster, context and user (default: name of the source context)")
	flags.String(serverFlagName, "", "Overrides the server URL of the cluster")
	flags.String(namespaceFlagName, "", "Overrides the default namespace of the context")
	flags.Bool(makeCurrentFlagName, false, "Switches to the merged context")
	flags.Bool(allowDuplicateServerFlagName, false, "Adds the cluster under a new name even if a cluster with the same server URL exists (default from settings)")
	flags.SortFlags = false

	if err := cmd.MarkFlagRequired(fromFlagName); err != nil {
		panic(err)
	}
	return cmd
}

func mergeCluster(cmd *cobra.Command, _ []string) error {
	params, err := readMergeParams(cmd.Flags())
	if err != nil {
		return err
	}

	svc, err := newServices(cmd)
	if err != nil {
		return err
	}

	bundle, err := loadBundle(params, cmd.InOrStdin())
	if err != nil {
		return common.ToCmdFailure(err)
	}

	options := manager.MergeOptions{
		MakeCurrent:          params.makeCurrent,
		AllowDuplicateServer: svc.settings.Kubeconfig.AllowDuplicateServer,
	}
	if params.allowDuplicateServer != nil {
		options.AllowDuplicateServer = *params.allowDuplicateServer
	}

	slog.Debug("Merging cluster", "cluster-name", bundle.Name, "server", bundle.Server, "make-current", options.MakeCurrent, "allow-duplicate-server", options.AllowDuplicateServer)

	result, err := svc.manager.Merge(bundle, options)
	if err != nil {
		return common.ToCmdFailure(err)
	}

	if result.PreviousContext != "" {
		svc.rememberPreviousContext(result.PreviousContext)
	}

	if result.Reused {
		svc.printer.PrintSuccessf("Updated cluster '%s' with server '%s' in '%s'", result.ClusterName, bundle.Server, svc.settings.Kubeconfig.Path)
	} else {
		svc.printer.PrintSuccessf("Merged cluster '%s' into '%s'", result.ClusterName, svc.settings.Kubeconfig.Path)
	}
	svc.printer.PrintInfof("context: '%s', user: '%s'", result.ContextName, result.UserName)

	if result.ClusterName != bundle.Name {
		svc.printer.PrintInfof("Name '%s' was already taken", bundle.Name)
	}
	if params.makeCurrent {
		svc.printer.PrintInfof("Current context: '%s'", result.CurrentContext)
	}
	return nil
}

func readMergeParams(flags *pflag.FlagSet) (*mergeParams, error) {
	params := &mergeParams{}
	var err error

	if params.from, err = flags.GetString(fromFlagName); err != nil {
		return nil, err
	}
	if params.context, err = flags.GetString(contextFlagName); err != nil {
		return nil, err
	}
	if params.name, err = flags.GetString(nameFlagName); err != nil {
		return nil, err
	}
	if params.server, err = flags.GetString(serverFlagName); err != nil {
		return nil, err
	}
	if params.namespace, err = flags.GetString(namespaceFlagName); err != nil {
		return nil, err
	}
	if params.makeCurrent, err = flags.GetBool(makeCurrentFlagName); err != nil {
		return nil, err
	}
	if flags.Changed(allowDuplicateServerFlagName) {
		allow, err := flags.GetBool(allowDuplicateServerFlagName)
		if err != nil {
			return nil, err
		}
		params.allowDuplicateServer = &allow
	}

	if params.name != "" {
		if errs := validation.IsDNS1123Subdomain(params.name); len(errs) > 0 {
			return nil, common.NewInvalidArgumentFailure(fmt.Sprintf("invalid name '%s': %s", params.name, strings.Join(errs, "; ")))
		}
	}
	return params, nil
}

func loadBundle(params *mergeParams, stdin io.Reader) (*kc.ClusterBundle, error) {
	doc, sourcePath, err := readSource(params.from, stdin)
	if err != nil {
		return nil, err
	}

	bundle, err := kc.BundleFromDocument(doc, params.context)
	if err != nil {
		var notFoundErr *kc.NotFoundError
		if errors.As(err, &notFoundErr) {
			notFoundErr.Path = sourcePath
			return nil, err
		}
		return nil, common.NewInvalidArgumentFailure(fmt.Sprintf("%v, use --%s to select one", err, contextFlagName))
	}

	if params.name != "" {
		bundle.Name = params.name
	}
	if params.server != "" {
		bundle.Server = params.server
	}
	if params.namespace != "" {
		bundle.Namespace = params.namespace
	}

	if err := bundle.Validate(); err != nil {
		return nil, common.NewInvalidArgumentFailure(fmt.Sprintf("source '%s' is incomplete: %v", params.from, err))
	}
	return bundle, nil
}

func readSource(from string, stdin io.Reader) (*kc.Document, string, error) {
	if from != stdinMarker {
		doc, err := kc.ReadFile(from)
		return doc, from, err
	}

	data, err := io.ReadAll(stdin)
	if err != nil {
		return nil, "", &kc.IOError{Path: "<stdin>", Op: "read", Err: err}
	}
	doc, err := kc.Parse(data)
	return doc, "", err
}
