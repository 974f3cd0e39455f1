// SPDX-FileCopyrightText:  © 2025 Siemens Healthineers AG
// SPDX-License-Identifier:   MIT

package backup

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	bos "os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lago-morph/ai-k8s-sub000/internal/kubeconfig"
	"github.com/lago-morph/ai-k8s-sub000/internal/os"
	"github.com/samber/lo"
)

const (
	DirName     = "backups"
	DefaultKeep = 5

	// sorts lexically in chronological order
	timestampLayout = "20060102T150405.000000000Z"
	separator       = "-"
)

var ErrInvalidName = errors.New("invalid backup name")

type fileWriter interface {
	WriteFile(path string, data []byte) error
}

// Record describes one backup file.
type Record struct {
	Name      string
	Path      string
	Timestamp time.Time
	Size      int64
}

// Manager keeps a bounded number of timestamped copies of a file in a sibling 'backups' dir.
type Manager struct {
	keep   int
	writer fileWriter
	now    func() time.Time
}

func NewManager(keep int, writer fileWriter) *Manager {
	if keep < 1 {
		keep = DefaultKeep
	}
	return &Manager{
		keep:   keep,
		writer: writer,
		now:    time.Now,
	}
}

// WithClock replaces the time source used for backup names.
func (m *Manager) WithClock(now func() time.Time) *Manager {
	m.now = now
	return m
}

func (m *Manager) Keep() int {
	return m.keep
}

func Dir(path string) string {
	return filepath.Join(filepath.Dir(path), DirName)
}

// Snapshot copies the current content of the file into the backup dir and prunes old backups.
// A missing file is not backed up; the returned record is nil then.
func (m *Manager) Snapshot(path string) (*Record, error) {
	data, err := bos.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		slog.Debug("Nothing to back up, file not existing", "path", path)
		return nil, nil
	}
	if err != nil {
		return nil, &kubeconfig.IOError{Path: path, Op: "read for backup", Err: err}
	}

	dir := Dir(path)
	timestamp := m.now().UTC()
	name := backupName(timestamp, path)

	for os.PathExists(filepath.Join(dir, name)) {
		timestamp = timestamp.Add(time.Nanosecond)
		name = backupName(timestamp, path)
	}

	backupPath := filepath.Join(dir, name)

	slog.Debug("Creating backup", "path", path, "backup-path", backupPath)

	if err := m.writer.WriteFile(backupPath, data); err != nil {
		return nil, &kubeconfig.IOError{Path: backupPath, Op: "write backup", Err: err}
	}

	if err := m.Prune(path, m.keep); err != nil {
		return nil, err
	}

	slog.Debug("Backup created", "path", path, "backup-path", backupPath)

	return &Record{
		Name:      name,
		Path:      backupPath,
		Timestamp: timestamp,
		Size:      int64(len(data)),
	}, nil
}

// List returns the backups of the given file, newest first.
func (m *Manager) List(path string) ([]Record, error) {
	dir := Dir(path)
	if !os.PathExists(dir) {
		return nil, nil
	}

	files, err := os.FilesInDir(dir)
	if err != nil {
		return nil, &kubeconfig.IOError{Path: dir, Op: "list backups", Err: err}
	}

	base := filepath.Base(path)
	var records []Record

	for _, file := range files.WithSuffix(separator + base).SortedByNameDesc() {
		timestamp, ok := parseName(file.Name(), base)
		if !ok {
			continue
		}
		records = append(records, Record{
			Name:      file.Name(),
			Path:      filepath.Join(dir, file.Name()),
			Timestamp: timestamp,
			Size:      file.Size(),
		})
	}
	return records, nil
}

// Prune deletes all but the newest keep backups of the given file.
func (m *Manager) Prune(path string, keep int) error {
	records, err := m.List(path)
	if err != nil {
		return err
	}
	if len(records) <= keep {
		return nil
	}

	obsolete := os.Paths(lo.Map(records[keep:], func(r Record, _ int) string {
		return r.Path
	}))

	slog.Debug("Pruning backups", "path", path, "count", len(obsolete))

	if err := obsolete.Remove(); err != nil {
		return &kubeconfig.IOError{Path: Dir(path), Op: "prune backups", Err: err}
	}
	return nil
}

// Find looks up a backup of the given file by name. Names pointing outside the backup dir are rejected.
func (m *Manager) Find(path, name string) (*Record, error) {
	if err := validateName(name); err != nil {
		return nil, &kubeconfig.IOError{Path: filepath.Join(Dir(path), name), Op: "resolve backup", Err: err}
	}

	records, err := m.List(path)
	if err != nil {
		return nil, err
	}

	record, found := lo.Find(records, func(r Record) bool {
		return r.Name == name
	})
	if !found {
		return nil, &kubeconfig.NotFoundError{Path: Dir(path), Collection: kubeconfig.CollectionBackups, Name: name}
	}
	return &record, nil
}

// Read returns the content of the named backup.
func (m *Manager) Read(path, name string) ([]byte, *Record, error) {
	record, err := m.Find(path, name)
	if err != nil {
		return nil, nil, err
	}

	data, err := bos.ReadFile(record.Path)
	if err != nil {
		return nil, nil, &kubeconfig.IOError{Path: record.Path, Op: "read backup", Err: err}
	}
	return data, record, nil
}

func backupName(timestamp time.Time, path string) string {
	return timestamp.Format(timestampLayout) + separator + filepath.Base(path)
}

func parseName(name, base string) (time.Time, bool) {
	if len(name) != len(timestampLayout)+len(separator)+len(base) {
		return time.Time{}, false
	}
	if !strings.HasSuffix(name, separator+base) {
		return time.Time{}, false
	}

	timestamp, err := time.Parse(timestampLayout, name[:len(timestampLayout)])
	if err != nil {
		return time.Time{}, false
	}
	return timestamp, true
}

func validateName(name string) error {
	if name == "" || name == "." || name == ".." ||
		strings.ContainsAny(name, `/\`) ||
		filepath.Base(name) != name {
		return fmt.Errorf("%w: '%s'", ErrInvalidName, name)
	}
	return nil
}
