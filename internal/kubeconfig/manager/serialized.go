// SPDX-FileCopyrightText:  © 2025 Siemens Healthineers AG
// SPDX-License-Identifier:   MIT

package manager

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	bos "os"
	"path/filepath"
	"sync"
	"time"

	"github.com/failsafe-go/failsafe-go"
	"github.com/failsafe-go/failsafe-go/retrypolicy"
	"github.com/gofrs/flock"
	contracts "github.com/lago-morph/ai-k8s-sub000/internal/contracts/kubeconfig"
	"github.com/lago-morph/ai-k8s-sub000/internal/kubeconfig"
	"github.com/lago-morph/ai-k8s-sub000/internal/os"
)

const (
	DefaultLockTimeout = 10 * time.Second

	lockRetryMinDelay = 20 * time.Millisecond
	lockRetryMaxDelay = 500 * time.Millisecond
	lockSuffix        = ".mk8.lock"
)

var (
	ErrLockTimeout = errors.New("timed out waiting for kubeconfig lock")

	errLockHeld = errors.New("lock held by another process")
)

// Serialized guards a Manager against concurrent callers within this process and,
// through an advisory file lock, against other mk8 processes on this machine.
// The lock is held for the duration of one operation only.
//
// Queries never create the directory or the lock file. They share the lock with other
// queries once a writer has created the lock file.
type Serialized struct {
	manager  *Manager
	timeout  time.Duration
	mutex    sync.Mutex
	executor failsafe.Executor[any]
}

func NewSerialized(manager *Manager, timeout time.Duration) *Serialized {
	if timeout <= 0 {
		timeout = DefaultLockTimeout
	}

	// only waiting for the lock is repeated, never the operation itself
	retryPolicy := retrypolicy.Builder[any]().
		HandleErrors(errLockHeld).
		WithBackoff(lockRetryMinDelay, lockRetryMaxDelay).
		WithJitterFactor(.25).
		WithMaxRetries(-1).
		WithMaxDuration(timeout).
		OnRetry(func(e failsafe.ExecutionEvent[any]) {
			slog.Debug("Waiting for kubeconfig lock", "attempt", e.Retries(), "elapsed", e.ElapsedTime())
		}).
		Build()

	return &Serialized{
		manager:  manager,
		timeout:  timeout,
		executor: failsafe.NewExecutor[any](retryPolicy),
	}
}

// LockPath returns the lock file of the given kubeconfig. kubectl's own '<file>.lock' is not used,
// since kubectl fails when that file already exists.
func LockPath(kubeconfigPath string) string {
	return filepath.Join(filepath.Dir(kubeconfigPath), "."+filepath.Base(kubeconfigPath)+lockSuffix)
}

func (s *Serialized) Manager() *Manager {
	return s.manager
}

func (s *Serialized) Merge(bundle *kubeconfig.ClusterBundle, options MergeOptions) (result *contracts.MergeResult, err error) {
	err = s.withLock(func() error {
		result, err = s.manager.Merge(bundle, options)
		return err
	})
	return
}

func (s *Serialized) Remove(clusterName string, options RemoveOptions) (result *contracts.RemoveResult, err error) {
	err = s.withLock(func() error {
		result, err = s.manager.Remove(clusterName, options)
		return err
	})
	return
}

func (s *Serialized) SwitchContext(name string) (result *contracts.SwitchResult, err error) {
	err = s.withLock(func() error {
		result, err = s.manager.SwitchContext(name)
		return err
	})
	return
}

func (s *Serialized) Restore(name string) (result *contracts.RestoreResult, err error) {
	err = s.withLock(func() error {
		result, err = s.manager.Restore(name)
		return err
	})
	return
}

func (s *Serialized) List() (result *contracts.Listing, err error) {
	err = s.withReadLock(func() error {
		result, err = s.manager.List()
		return err
	})
	return
}

func (s *Serialized) Status() (result *contracts.Status, err error) {
	err = s.withReadLock(func() error {
		result, err = s.manager.Status()
		return err
	})
	return
}

func (s *Serialized) Backups() (result []contracts.BackupInfo, err error) {
	err = s.withReadLock(func() error {
		result, err = s.manager.Backups()
		return err
	})
	return
}

func (s *Serialized) HasCluster(name string) (found bool, err error) {
	err = s.withReadLock(func() error {
		found, err = s.manager.HasCluster(name)
		return err
	})
	return
}

func (s *Serialized) withLock(operation func() error) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	path := s.manager.Path()
	if err := os.EnsureDir(filepath.Dir(path), os.PrivateDirPerm); err != nil {
		return &kubeconfig.IOError{Path: path, Op: "prepare lock for", Err: err}
	}

	fileLock := flock.New(LockPath(path))
	if err := s.acquire(fileLock, fileLock.TryLock); err != nil {
		return err
	}
	defer fileLock.Unlock()

	return operation()
}

func (s *Serialized) withReadLock(query func() error) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	fileLock := flock.New(LockPath(s.manager.Path()), flock.SetFlag(bos.O_RDONLY))
	err := s.acquire(fileLock, fileLock.TryRLock)
	switch {
	case errors.Is(err, fs.ErrNotExist), errors.Is(err, fs.ErrPermission):
		slog.Debug("Querying kubeconfig without file lock", "lock", fileLock.Path(), "reason", err)
		return query()
	case err != nil:
		return err
	}
	defer fileLock.Unlock()

	return query()
}

func (s *Serialized) acquire(fileLock *flock.Flock, tryLock func() (bool, error)) error {
	held := false
	err := s.executor.Run(func() error {
		locked, err := tryLock()
		held = err == nil && !locked
		if held {
			return errLockHeld
		}
		return err
	})
	if err != nil && held {
		return fmt.Errorf("%w '%s' after %v", ErrLockTimeout, fileLock.Path(), s.timeout)
	}
	if err != nil {
		return &kubeconfig.IOError{Path: fileLock.Path(), Op: "lock", Err: err}
	}
	return nil
}
