// SPDX-FileCopyrightText:  © 2023 Siemens Healthcare GmbH
// SPDX-License-Identifier:   MIT

package state

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/lago-morph/ai-k8s-sub000/internal/definitions"
	"github.com/lago-morph/ai-k8s-sub000/internal/yaml"
)

// State is the persisted CLI state shared by consecutive mk8 invocations
type State struct {
	// PreviousContexts maps kubeconfig paths to the context that was current before the last switch
	PreviousContexts map[string]string `yaml:"previousContexts,omitempty"`
}

type fileWriter interface {
	WriteFile(path string, data []byte) error
}

type Store struct {
	path   string
	writer fileWriter
}

func NewStore(configDir string, writer fileWriter) *Store {
	return &Store{
		path:   filepath.Join(configDir, definitions.StateFileName),
		writer: writer,
	}
}

func (s *Store) Path() string {
	return s.path
}

func (s *Store) Load() (*State, error) {
	state, err := yaml.FromFile[State](s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			slog.Debug("State file not found, starting with empty state", "path", s.path)
			return &State{PreviousContexts: map[string]string{}}, nil
		}
		return nil, fmt.Errorf("error occurred while loading state file: %w", err)
	}
	if state == nil {
		state = &State{}
	}
	if state.PreviousContexts == nil {
		state.PreviousContexts = map[string]string{}
	}
	return state, nil
}

// PreviousContext returns the remembered context of the given kubeconfig, empty if none
func (s *Store) PreviousContext(kubeconfigPath string) (string, error) {
	state, err := s.Load()
	if err != nil {
		return "", err
	}
	return state.PreviousContexts[kubeconfigPath], nil
}

// SetPreviousContext remembers the context for the given kubeconfig; an empty name forgets it
func (s *Store) SetPreviousContext(kubeconfigPath, name string) error {
	state, err := s.Load()
	if err != nil {
		return err
	}

	if state.PreviousContexts[kubeconfigPath] == name {
		return nil
	}

	if name == "" {
		delete(state.PreviousContexts, kubeconfigPath)
	} else {
		state.PreviousContexts[kubeconfigPath] = name
	}

	data, err := yaml.Marshal(state)
	if err != nil {
		return err
	}

	slog.Debug("Writing state file", "path", s.path, "kubeconfig-path", kubeconfigPath, "previous-context", name)

	if err := s.writer.WriteFile(s.path, data); err != nil {
		return fmt.Errorf("error occurred while writing state file: %w", err)
	}
	return nil
}
