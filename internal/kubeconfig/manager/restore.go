// SPDX-FileCopyrightText:  © 2025 Siemens Healthineers AG
// SPDX-License-Identifier:   MIT

package manager

import (
	"errors"

	contracts "github.com/lago-morph/ai-k8s-sub000/internal/contracts/kubeconfig"
	"github.com/lago-morph/ai-k8s-sub000/internal/kubeconfig"
)

// Restore replaces the file with the content of the named backup.
// The backup must be a consistent kubeconfig; the current file is backed up first.
func (m *Manager) Restore(name string) (*contracts.RestoreResult, error) {
	log := m.logger("restore")

	log.Debug("Restoring backup", "backup", name)

	data, record, err := m.backups.Read(m.path, name)
	if err != nil {
		return nil, err
	}

	doc, err := kubeconfig.Parse(data)
	if err != nil {
		var parseErr *kubeconfig.ParseError
		if errors.As(err, &parseErr) {
			parseErr.Path = record.Path
		}
		return nil, err
	}

	if violations := kubeconfig.Validate(doc); len(violations) > 0 {
		return nil, &kubeconfig.CorruptConfigError{Path: record.Path, Violations: violations}
	}

	// written verbatim so the restored file is byte-identical to the backup
	snapshot, err := m.replace(log, data)
	if err != nil {
		return nil, err
	}

	log.Info("Backup restored", "backup", name)

	return &contracts.RestoreResult{
		Restored:       name,
		CurrentContext: doc.CurrentContext,
		Backup:         backupName(snapshot),
	}, nil
}
