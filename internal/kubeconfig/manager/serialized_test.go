// SPDX-FileCopyrightText:  © 2025 Siemens Healthineers AG
// SPDX-License-Identifier:   MIT

package manager_test

import (
	"fmt"
	"io/fs"
	bos "os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/lago-morph/ai-k8s-sub000/internal/kubeconfig"
	"github.com/lago-morph/ai-k8s-sub000/internal/kubeconfig/backup"
	"github.com/lago-morph/ai-k8s-sub000/internal/kubeconfig/manager"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Serialized", Label("integration"), func() {
	var path string

	BeforeEach(func() {
		path = filepath.Join(GinkgoT().TempDir(), "kube", "config")
	})

	Describe("LockPath", func() {
		It("uses a hidden file next to the kubeconfig distinct from kubectl's lock", func() {
			actual := manager.LockPath(filepath.Join("home", ".kube", "config"))

			Expect(actual).To(Equal(filepath.Join("home", ".kube", ".config.mk8.lock")))
		})
	})

	When("called concurrently", func() {
		It("applies every merge", func() {
			sut := manager.NewSerialized(manager.New(path, backup.DefaultKeep), time.Minute)

			var wg sync.WaitGroup
			errs := make(chan error, 8)

			for i := 0; i < 8; i++ {
				wg.Add(1)
				go func(index int) {
					defer GinkgoRecover()
					defer wg.Done()

					_, err := sut.Merge(newBundle(fmt.Sprintf("c%d", index), fmt.Sprintf("https://c%d", index)), manager.MergeOptions{})
					errs <- err
				}(i)
			}
			wg.Wait()
			close(errs)

			for err := range errs {
				Expect(err).ToNot(HaveOccurred())
			}

			listing, err := sut.List()
			Expect(err).ToNot(HaveOccurred())
			Expect(listing.Clusters).To(HaveLen(8))
			Expect(kubeconfig.Validate(readDoc(path))).To(BeEmpty())
		})
	})

	When("another process holds the lock", func() {
		var sut *manager.Serialized

		BeforeEach(func() {
			sut = manager.NewSerialized(manager.New(path, backup.DefaultKeep), 300*time.Millisecond)

			Expect(bos.MkdirAll(filepath.Dir(path), 0700)).To(Succeed())

			other := flock.New(manager.LockPath(path))
			Expect(other.Lock()).To(Succeed())
			DeferCleanup(other.Unlock)
		})

		It("gives up writing after the timeout", func() {
			_, err := sut.Merge(newBundle("dev", "https://a"), manager.MergeOptions{})

			Expect(err).To(MatchError(manager.ErrLockTimeout))
			Expect(readDocIfExists(path)).To(BeNil())
		})

		It("lets queries wait for it as well", func() {
			_, err := sut.List()

			Expect(err).To(MatchError(manager.ErrLockTimeout))
		})
	})

	Describe("queries", func() {
		var dir string
		var sut *manager.Serialized

		BeforeEach(func() {
			dir = filepath.Dir(path)
			sut = manager.NewSerialized(manager.New(path, backup.DefaultKeep), time.Second)
		})

		It("leave an existing dir as it is", func() {
			Expect(bos.MkdirAll(dir, 0755)).To(Succeed())
			Expect(bos.Chmod(dir, 0755)).To(Succeed())
			Expect(bos.WriteFile(path, []byte(corruptConfig), 0644)).To(Succeed())

			listing, err := sut.List()
			Expect(err).ToNot(HaveOccurred())
			Expect(listing.Clusters).To(HaveLen(1))

			_, err = sut.Status()
			Expect(err).ToNot(HaveOccurred())

			found, err := sut.HasCluster("dev")
			Expect(err).ToNot(HaveOccurred())
			Expect(found).To(BeTrue())

			info, err := bos.Stat(dir)
			Expect(err).ToNot(HaveOccurred())
			Expect(info.Mode().Perm()).To(Equal(fs.FileMode(0755)))

			entries, err := bos.ReadDir(dir)
			Expect(err).ToNot(HaveOccurred())
			Expect(entries).To(HaveLen(1))
			Expect(entries[0].Name()).To(Equal("config"))
		})

		It("do not create a missing dir", func() {
			status, err := sut.Status()
			Expect(err).ToNot(HaveOccurred())
			Expect(status.Exists).To(BeFalse())

			backups, err := sut.Backups()
			Expect(err).ToNot(HaveOccurred())
			Expect(backups).To(BeEmpty())

			_, err = bos.Stat(dir)
			Expect(err).To(MatchError(fs.ErrNotExist))
		})

		It("share the lock file created by a writer", func() {
			_, err := sut.Merge(newBundle("dev", "https://a"), manager.MergeOptions{})
			Expect(err).ToNot(HaveOccurred())

			reader := flock.New(manager.LockPath(path))
			Expect(reader.RLock()).To(Succeed())
			DeferCleanup(reader.Unlock)

			listing, err := sut.List()
			Expect(err).ToNot(HaveOccurred())
			Expect(listing.Clusters).To(HaveLen(1))
		})
	})

	It("releases the lock after each operation", func() {
		sut := manager.NewSerialized(manager.New(path, backup.DefaultKeep), time.Second)

		_, err := sut.Merge(newBundle("dev", "https://a"), manager.MergeOptions{MakeCurrent: true})
		Expect(err).ToNot(HaveOccurred())

		_, err = sut.Merge(newBundle("prod", "https://b"), manager.MergeOptions{MakeCurrent: true})
		Expect(err).ToNot(HaveOccurred())

		_, err = sut.SwitchContext("dev")
		Expect(err).ToNot(HaveOccurred())

		result, err := sut.Remove("dev", manager.RemoveOptions{})
		Expect(err).ToNot(HaveOccurred())
		Expect(result.CurrentContext).To(Equal("prod"))

		status, err := sut.Status()
		Expect(err).ToNot(HaveOccurred())
		Expect(status.Backups).To(HaveLen(3))

		restored, err := sut.Restore(status.Backups[0].Name)
		Expect(err).ToNot(HaveOccurred())
		Expect(restored.CurrentContext).To(Equal("dev"))
	})
})

func readDocIfExists(path string) *kubeconfig.Document {
	doc, err := kubeconfig.ReadFile(path)
	if err != nil {
		return nil
	}
	return doc
}
