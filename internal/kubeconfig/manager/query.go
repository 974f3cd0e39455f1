// SPDX-FileCopyrightText:  © 2025 Siemens Healthineers AG
// SPDX-License-Identifier:   MIT

package manager

import (
	"errors"
	"fmt"
	"io/fs"
	bos "os"

	contracts "github.com/lago-morph/ai-k8s-sub000/internal/contracts/kubeconfig"
	"github.com/lago-morph/ai-k8s-sub000/internal/kubeconfig"
	"github.com/lago-morph/ai-k8s-sub000/internal/kubeconfig/backup"
	"github.com/samber/lo"
)

// List reports the entries of the file. It does not fail on broken references.
func (m *Manager) List() (*contracts.Listing, error) {
	doc, err := m.load(m.logger("list"))
	if err != nil {
		return nil, err
	}
	return m.listing(doc), nil
}

// Status reports the entries, integrity violations, file properties and backups.
func (m *Manager) Status() (*contracts.Status, error) {
	log := m.logger("status")

	status := &contracts.Status{MaxBackups: m.backups.Keep()}

	info, err := bos.Stat(m.path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		log.Debug("Kubeconfig not existing")
	case err != nil:
		return nil, &kubeconfig.IOError{Path: m.path, Op: "stat", Err: err}
	default:
		modTime := info.ModTime()
		status.Exists = true
		status.Mode = fmt.Sprintf("%04o", info.Mode().Perm())
		status.Size = info.Size()
		status.ModTime = &modTime
	}

	doc, err := m.load(log)
	if err != nil {
		return nil, err
	}
	status.Listing = *m.listing(doc)

	status.Violations = lo.Map(kubeconfig.Validate(doc), func(v kubeconfig.IntegrityViolation, _ int) string {
		return v.String()
	})

	backups, err := m.Backups()
	if err != nil {
		return nil, err
	}
	status.Backups = backups

	return status, nil
}

func (m *Manager) HasCluster(name string) (bool, error) {
	doc, err := m.load(m.logger("has-cluster"))
	if err != nil {
		return false, err
	}
	_, found := doc.FindCluster(name)
	return found, nil
}

// Backups lists the backups of the file, newest first.
func (m *Manager) Backups() ([]contracts.BackupInfo, error) {
	records, err := m.backups.List(m.path)
	if err != nil {
		return nil, err
	}
	return lo.Map(records, func(r backup.Record, _ int) contracts.BackupInfo {
		return contracts.BackupInfo{Name: r.Name, Timestamp: r.Timestamp, Size: r.Size}
	}), nil
}

func (m *Manager) listing(doc *kubeconfig.Document) *contracts.Listing {
	clusters := lo.Map(doc.Clusters, func(c kubeconfig.ClusterEntry, _ int) contracts.ClusterSummary {
		contexts := lo.Map(doc.ContextsReferencingCluster(c.Name), func(ctx kubeconfig.ContextEntry, _ int) string {
			return ctx.Name
		})
		return contracts.ClusterSummary{
			Name:     c.Name,
			Server:   c.Server,
			Contexts: contexts,
			Current:  doc.CurrentContext != "" && lo.Contains(contexts, doc.CurrentContext),
		}
	})

	contexts := lo.Map(doc.Contexts, func(c kubeconfig.ContextEntry, _ int) contracts.ContextSummary {
		return contracts.ContextSummary{
			Name:      c.Name,
			Cluster:   c.Cluster,
			User:      c.User,
			Namespace: c.Namespace,
			Current:   c.Name == doc.CurrentContext,
		}
	})

	users := lo.Map(doc.Users, func(u kubeconfig.UserEntry, _ int) string {
		return u.Name
	})

	return &contracts.Listing{
		Path:           m.path,
		CurrentContext: doc.CurrentContext,
		Clusters:       clusters,
		Contexts:       contexts,
		Users:          users,
	}
}
