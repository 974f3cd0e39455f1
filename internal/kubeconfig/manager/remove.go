// SPDX-FileCopyrightText:  © 2025 Siemens Healthineers AG
// SPDX-License-Identifier:   MIT

package manager

import (
	contracts "github.com/lago-morph/ai-k8s-sub000/internal/contracts/kubeconfig"
	"github.com/lago-morph/ai-k8s-sub000/internal/kubeconfig"
	"github.com/samber/lo"
	"k8s.io/apimachinery/pkg/util/sets"
)

// Remove deletes the cluster together with every context referencing it.
//
// The user of a removed context is deleted too unless a remaining context still
// uses it. If the current context is removed, the previously current context
// becomes current again when it still exists; otherwise no context is current.
func (m *Manager) Remove(clusterName string, options RemoveOptions) (*contracts.RemoveResult, error) {
	log := m.logger("remove")

	log.Debug("Removing cluster", "cluster-name", clusterName)

	doc, err := m.loadValid(log)
	if err != nil {
		return nil, err
	}

	if _, found := doc.FindCluster(clusterName); !found {
		return nil, &kubeconfig.NotFoundError{Path: m.path, Collection: kubeconfig.CollectionClusters, Name: clusterName}
	}

	result := &contracts.RemoveResult{ClusterName: clusterName}

	bound := doc.ContextsReferencingCluster(clusterName)
	for _, context := range bound {
		doc.RemoveContext(context.Name)
		result.RemovedContexts = append(result.RemovedContexts, context.Name)
	}

	// second pass: only now all contexts of the cluster are gone
	candidates := sets.New[string]()
	for _, context := range bound {
		if context.User == "" || candidates.Has(context.User) {
			continue
		}
		candidates.Insert(context.User)

		if doc.IsUserReferenced(context.User) {
			result.RetainedUsers = append(result.RetainedUsers, context.User)
			continue
		}
		doc.RemoveUser(context.User)
		result.RemovedUsers = append(result.RemovedUsers, context.User)
	}

	doc.RemoveCluster(clusterName)

	currentRemoved := lo.Contains(result.RemovedContexts, doc.CurrentContext)
	if currentRemoved {
		previous := options.PreviousContext
		if previous == "" {
			previous = m.previousContext
		}

		if previous != "" && doc.HasContext(previous) {
			log.Debug("Restoring previous context", "context", previous)
			doc.CurrentContext = previous
		} else {
			log.Debug("No previous context to restore, clearing current context")
			doc.CurrentContext = ""
		}
	}

	record, err := m.commit(log, doc)
	if err != nil {
		return nil, err
	}

	if currentRemoved {
		m.previousContext = ""
	}

	result.CurrentContext = doc.CurrentContext
	result.ContextChanged = currentRemoved
	result.Backup = backupName(record)

	log.Info("Cluster removed", "cluster-name", clusterName, "removed-contexts", result.RemovedContexts, "removed-users", result.RemovedUsers)
	return result, nil
}
