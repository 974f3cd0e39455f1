// SPDX-FileCopyrightText:  © 2025 Siemens Healthineers AG
// SPDX-License-Identifier:   MIT

package manager

import (
	contracts "github.com/lago-morph/ai-k8s-sub000/internal/contracts/kubeconfig"
	"github.com/lago-morph/ai-k8s-sub000/internal/kubeconfig"
)

// SwitchContext makes the named context current and remembers the outgoing one.
// Switching to the context that is already current does not write the file.
func (m *Manager) SwitchContext(name string) (*contracts.SwitchResult, error) {
	log := m.logger("switch-context")

	log.Debug("Switching context", "context", name)

	doc, err := m.loadValid(log)
	if err != nil {
		return nil, err
	}

	if !doc.HasContext(name) {
		return nil, &kubeconfig.NotFoundError{Path: m.path, Collection: kubeconfig.CollectionContexts, Name: name}
	}

	outgoing := doc.CurrentContext
	if outgoing == name {
		log.Debug("Context already current")
		return &contracts.SwitchResult{CurrentContext: name, PreviousContext: m.previousContext}, nil
	}

	doc.CurrentContext = name

	record, err := m.commit(log, doc)
	if err != nil {
		return nil, err
	}

	m.previousContext = outgoing

	log.Info("Context switched", "context", name, "previous-context", outgoing)

	return &contracts.SwitchResult{
		CurrentContext:  name,
		PreviousContext: outgoing,
		Changed:         true,
		Backup:          backupName(record),
	}, nil
}

// CurrentContext returns the current context of the file without validating it.
func (m *Manager) CurrentContext() (string, error) {
	doc, err := m.load(m.logger("current-context"))
	if err != nil {
		return "", err
	}
	return doc.CurrentContext, nil
}
