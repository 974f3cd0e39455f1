// SPDX-FileCopyrightText:  © 2025 Siemens Healthineers AG
// SPDX-License-Identifier:   MIT

package manager

import (
	"fmt"

	contracts "github.com/lago-morph/ai-k8s-sub000/internal/contracts/kubeconfig"
	"github.com/lago-morph/ai-k8s-sub000/internal/kubeconfig"
	"github.com/samber/lo"
)

// Merge adds the cluster, user and context of the bundle and returns the names actually used.
//
// Names are resolved per collection against the loaded document. Unless
// AllowDuplicateServer is set, a bundle pointing to the server of an existing
// cluster updates that cluster instead of adding a second one.
func (m *Manager) Merge(bundle *kubeconfig.ClusterBundle, options MergeOptions) (*contracts.MergeResult, error) {
	log := m.logger("merge")

	if err := bundle.Validate(); err != nil {
		return nil, fmt.Errorf("could not merge into '%s': %w", m.path, err)
	}

	log.Debug("Merging cluster", "cluster-name", bundle.Name, "server", bundle.Server, "make-current", options.MakeCurrent)

	doc, err := m.loadValid(log)
	if err != nil {
		return nil, err
	}

	var result *contracts.MergeResult
	existing, found := doc.FindClusterByServer(bundle.Server)
	if found && !options.AllowDuplicateServer {
		log.Debug("Server already known, reusing cluster entry", "cluster-name", existing.Name)

		result, err = m.mergeIntoExisting(doc, existing, bundle)
	} else {
		result, err = m.mergeAsNew(doc, bundle)
	}
	if err != nil {
		return nil, err
	}

	previous := doc.CurrentContext
	if options.MakeCurrent {
		doc.CurrentContext = result.ContextName
	}

	record, err := m.commit(log, doc)
	if err != nil {
		return nil, err
	}

	if options.MakeCurrent && previous != result.ContextName {
		m.previousContext = previous
		result.PreviousContext = previous
	}
	result.CurrentContext = doc.CurrentContext
	result.Backup = backupName(record)

	log.Info("Cluster merged", "cluster-name", result.ClusterName, "context", result.ContextName, "user-name", result.UserName, "reused", result.Reused)
	return result, nil
}

func (m *Manager) mergeAsNew(doc *kubeconfig.Document, bundle *kubeconfig.ClusterBundle) (*contracts.MergeResult, error) {
	clusterName, err := m.resolver.Resolve(bundle.Name, doc.ClusterNames())
	if err != nil {
		return nil, err
	}
	contextName, err := m.resolver.Resolve(bundle.Name, doc.ContextNames())
	if err != nil {
		return nil, err
	}
	userName, err := m.resolver.Resolve(bundle.Name, doc.UserNames())
	if err != nil {
		return nil, err
	}

	doc.AddCluster(clusterFromBundle(clusterName, bundle))
	doc.AddUser(kubeconfig.UserEntry{Name: userName, Credentials: bundle.Credentials})
	doc.AddContext(kubeconfig.ContextEntry{
		Name:      contextName,
		Cluster:   clusterName,
		User:      userName,
		Namespace: bundle.Namespace,
	})

	return &contracts.MergeResult{
		ClusterName: clusterName,
		ContextName: contextName,
		UserName:    userName,
	}, nil
}

// mergeIntoExisting refreshes the connection data of a known cluster.
//
// The credentials of the first context bound to the cluster are replaced in
// place when its user serves this cluster only; a user shared with other
// clusters is left alone and the context gets a new user instead.
func (m *Manager) mergeIntoExisting(doc *kubeconfig.Document, cluster *kubeconfig.ClusterEntry, bundle *kubeconfig.ClusterBundle) (*contracts.MergeResult, error) {
	updated := clusterFromBundle(cluster.Name, bundle)
	updated.EntryExtra = cluster.EntryExtra
	if len(bundle.ClusterExtra) == 0 {
		updated.Extra = cluster.Extra
	}
	*cluster = updated

	result := &contracts.MergeResult{ClusterName: cluster.Name, Reused: true}

	bound := doc.ContextsReferencingCluster(cluster.Name)
	if len(bound) == 0 {
		contextName, err := m.resolver.Resolve(bundle.Name, doc.ContextNames())
		if err != nil {
			return nil, err
		}
		userName, err := m.resolver.Resolve(bundle.Name, doc.UserNames())
		if err != nil {
			return nil, err
		}

		doc.AddUser(kubeconfig.UserEntry{Name: userName, Credentials: bundle.Credentials})
		doc.AddContext(kubeconfig.ContextEntry{
			Name:      contextName,
			Cluster:   cluster.Name,
			User:      userName,
			Namespace: bundle.Namespace,
		})

		result.ContextName = contextName
		result.UserName = userName
		return result, nil
	}

	context, _ := doc.FindContext(bound[0].Name)
	if bundle.Namespace != "" {
		context.Namespace = bundle.Namespace
	}
	result.ContextName = context.Name

	user, found := doc.FindUser(context.User)
	if found && servesOnly(doc, user.Name, cluster.Name) {
		user.Credentials = bundle.Credentials
		result.UserName = user.Name
		return result, nil
	}

	userName, err := m.resolver.Resolve(bundle.Name, doc.UserNames())
	if err != nil {
		return nil, err
	}
	doc.AddUser(kubeconfig.UserEntry{Name: userName, Credentials: bundle.Credentials})

	// AddUser does not touch the contexts slice, the pointer stays valid
	context.User = userName
	result.UserName = userName
	return result, nil
}

func servesOnly(doc *kubeconfig.Document, userName, clusterName string) bool {
	return lo.EveryBy(doc.Contexts, func(c kubeconfig.ContextEntry) bool {
		return c.User != userName || c.Cluster == clusterName
	})
}

func clusterFromBundle(name string, bundle *kubeconfig.ClusterBundle) kubeconfig.ClusterEntry {
	return kubeconfig.ClusterEntry{
		Name:                     name,
		Server:                   bundle.Server,
		CertificateAuthority:     bundle.CertificateAuthority,
		CertificateAuthorityData: bundle.CertificateAuthorityData,
		InsecureSkipTLSVerify:    bundle.InsecureSkipTLSVerify,
		Extra:                    bundle.ClusterExtra,
	}
}
