// SPDX-FileCopyrightText:  © 2025 Siemens Healthineers AG
// SPDX-License-Identifier:   MIT

package manager

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	bos "os"

	"github.com/google/uuid"
	"github.com/lago-morph/ai-k8s-sub000/internal/kubeconfig"
	"github.com/lago-morph/ai-k8s-sub000/internal/kubeconfig/backup"
	"github.com/lago-morph/ai-k8s-sub000/internal/os"
	"k8s.io/apimachinery/pkg/util/sets"
	"k8s.io/client-go/tools/clientcmd"
)

// DefaultMaxFileSize bounds the kubeconfig size accepted for loading.
const DefaultMaxFileSize int64 = 16 * 1024 * 1024

type backupStore interface {
	Snapshot(path string) (*backup.Record, error)
	List(path string) ([]backup.Record, error)
	Read(path, name string) ([]byte, *backup.Record, error)
	Keep() int
}

type fileWriter interface {
	WriteFile(path string, data []byte) error
}

type nameResolver interface {
	Resolve(desired string, existing sets.Set[string]) (string, error)
}

// Manager performs load, validate, mutate and write of one kubeconfig file per operation.
//
// It keeps no document between calls. The only state is the context that was
// current before the last switch, used to restore it when its replacement is removed.
// A Manager is not safe for concurrent use; see Serialized.
type Manager struct {
	path            string
	backups         backupStore
	writer          fileWriter
	resolver        nameResolver
	checkLoadable   func(data []byte) error
	maxFileSize     int64
	previousContext string
}

type MergeOptions struct {
	MakeCurrent bool
	// AllowDuplicateServer adds the bundle under new names even if a cluster with the same server exists.
	// Otherwise the existing cluster entry is reused and updated.
	AllowDuplicateServer bool
}

type RemoveOptions struct {
	// PreviousContext overrides the remembered context to restore if the current context gets removed.
	PreviousContext string
}

func NewManager(path string, backups backupStore, writer fileWriter, resolver nameResolver) *Manager {
	return &Manager{
		path:          path,
		backups:       backups,
		writer:        writer,
		resolver:      resolver,
		checkLoadable: loadableByClientcmd,
		maxFileSize:   DefaultMaxFileSize,
	}
}

// New creates a Manager with atomic writes, rotating backups and the default name resolver.
func New(path string, maxBackups int) *Manager {
	writer := os.NewAtomicWriter()

	return NewManager(path, backup.NewManager(maxBackups, writer), writer, kubeconfig.NewResolver(kubeconfig.DefaultMaxSuffix))
}

// WithLoadabilityCheck replaces the check run on serialized content before it is written.
func (m *Manager) WithLoadabilityCheck(check func(data []byte) error) *Manager {
	m.checkLoadable = check
	return m
}

func (m *Manager) WithMaxFileSize(size int64) *Manager {
	if size > 0 {
		m.maxFileSize = size
	}
	return m
}

func (m *Manager) Path() string {
	return m.path
}

func (m *Manager) PreviousContext() string {
	return m.previousContext
}

// RememberContext seeds the context to restore, e.g. from state persisted by an earlier process.
func (m *Manager) RememberContext(name string) {
	m.previousContext = name
}

func (m *Manager) logger(operation string) *slog.Logger {
	return slog.With("operation", operation, "operation-id", uuid.NewString(), "kubeconfig-path", m.path)
}

// load reads the document; a missing file yields an empty document.
func (m *Manager) load(log *slog.Logger) (*kubeconfig.Document, error) {
	info, err := bos.Stat(m.path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Debug("Kubeconfig not existing, starting with empty document")
		return kubeconfig.NewDocument(), nil
	}
	if err != nil {
		return nil, &kubeconfig.IOError{Path: m.path, Op: "stat", Err: err}
	}
	if info.Size() > m.maxFileSize {
		return nil, &kubeconfig.ParseError{
			Path:   m.path,
			Reason: fmt.Sprintf("file size %d exceeds the limit of %d bytes", info.Size(), m.maxFileSize),
		}
	}

	doc, err := kubeconfig.ReadFile(m.path)
	if err != nil {
		return nil, err
	}

	log.Debug("Kubeconfig loaded", "clusters", len(doc.Clusters), "contexts", len(doc.Contexts), "users", len(doc.Users))
	return doc, nil
}

// loadValid loads the document and refuses to continue on broken references.
func (m *Manager) loadValid(log *slog.Logger) (*kubeconfig.Document, error) {
	doc, err := m.load(log)
	if err != nil {
		return nil, err
	}

	if violations := kubeconfig.Validate(doc); len(violations) > 0 {
		log.Debug("Kubeconfig is corrupt", "violations", len(violations))
		return nil, &kubeconfig.CorruptConfigError{Path: m.path, Violations: violations}
	}
	return doc, nil
}

// commit validates and serializes the document, backs up the current file and replaces it.
// Nothing is written if any step before the replacement fails.
func (m *Manager) commit(log *slog.Logger, doc *kubeconfig.Document) (*backup.Record, error) {
	if violations := kubeconfig.Validate(doc); len(violations) > 0 {
		return nil, &kubeconfig.CorruptConfigError{Path: m.path, Violations: violations}
	}

	data, err := kubeconfig.Serialize(doc)
	if err != nil {
		return nil, &kubeconfig.ParseError{Path: m.path, Reason: "could not serialize document", Err: err}
	}

	return m.replace(log, data)
}

func (m *Manager) replace(log *slog.Logger, data []byte) (*backup.Record, error) {
	if err := m.checkLoadable(data); err != nil {
		return nil, &kubeconfig.ParseError{Path: m.path, Reason: "content would not be loadable by kubectl", Err: err}
	}

	record, err := m.backups.Snapshot(m.path)
	if err != nil {
		return nil, err
	}
	if record != nil {
		log.Debug("Kubeconfig backed up", "backup", record.Name)
	}

	if err := m.writer.WriteFile(m.path, data); err != nil {
		return nil, &kubeconfig.IOError{Path: m.path, Op: "write", Err: err}
	}

	log.Debug("Kubeconfig written", "size", len(data))
	return record, nil
}

func loadableByClientcmd(data []byte) error {
	_, err := clientcmd.Load(data)
	return err
}

func backupName(record *backup.Record) string {
	if record == nil {
		return ""
	}
	return record.Name
}
