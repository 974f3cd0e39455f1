// SPDX-FileCopyrightText:  © 2024 Siemens Healthineers AG
// SPDX-License-Identifier:   MIT

package os_test

import (
	"errors"
	"io/fs"
	"log/slog"
	bos "os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-logr/logr"
	"github.com/lago-morph/ai-k8s-sub000/internal/os"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/mock"
)

type fileInfoMock struct {
	mock.Mock
}

func (m *fileInfoMock) Name() string {
	return m.Called().String(0)
}

func (m *fileInfoMock) Size() int64 {
	return int64(m.Called().Int(0))
}

func (m *fileInfoMock) Mode() fs.FileMode {
	return m.Called().Get(0).(fs.FileMode)
}

func (m *fileInfoMock) ModTime() time.Time {
	return m.Called().Get(0).(time.Time)
}

func (m *fileInfoMock) IsDir() bool {
	return m.Called().Bool(0)
}

func (m *fileInfoMock) Sys() any {
	return m.Called().Get(0)
}

func newFileInfoMock(name string) *fileInfoMock {
	fileMock := &fileInfoMock{}
	fileMock.On("Name").Return(name)
	return fileMock
}

func TestOsPkg(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "os pkg Integration Tests", Label("ci", "internal", "os"))
}

var _ = BeforeSuite(func() {
	slog.SetDefault(slog.New(logr.ToSlogHandler(GinkgoLogr)))
})

func tempFilesIn(dir string) []string {
	entries, err := bos.ReadDir(dir)
	Expect(err).ToNot(HaveOccurred())

	var temps []string
	for _, entry := range entries {
		if strings.Contains(entry.Name(), ".tmp-") {
			temps = append(temps, entry.Name())
		}
	}
	return temps
}

var _ = Describe("os pkg", func() {
	Describe("EnsureDir", Label("integration"), func() {
		When("dir does not exist", func() {
			It("creates it with the given permissions", func() {
				dir := filepath.Join(GinkgoT().TempDir(), "a", "b")

				Expect(os.EnsureDir(dir, 0700)).To(Succeed())

				info, err := bos.Stat(dir)
				Expect(err).ToNot(HaveOccurred())
				Expect(info.IsDir()).To(BeTrue())
				Expect(info.Mode().Perm()).To(Equal(fs.FileMode(0700)))
			})
		})

		When("dir exists with wider permissions", func() {
			It("tightens the permissions", func() {
				dir := filepath.Join(GinkgoT().TempDir(), "wide")
				Expect(bos.Mkdir(dir, 0755)).To(Succeed())
				Expect(bos.Chmod(dir, 0755)).To(Succeed())

				Expect(os.EnsureDir(dir, 0700)).To(Succeed())

				info, err := bos.Stat(dir)
				Expect(err).ToNot(HaveOccurred())
				Expect(info.Mode().Perm()).To(Equal(fs.FileMode(0700)))
			})
		})
	})

	Describe("PathExists", Label("integration"), func() {
		When("path exists", func() {
			It("returns true", func() {
				Expect(os.PathExists(GinkgoT().TempDir())).To(BeTrue())
			})
		})

		When("path does not exist", func() {
			It("returns false", func() {
				input := filepath.Join(GinkgoT().TempDir(), "non-existent")

				Expect(os.PathExists(input)).To(BeFalse())
			})
		})
	})

	Describe("RemovePaths", Label("integration"), func() {
		When("no paths passed", func() {
			It("does nothing", func() {
				Expect(os.RemovePaths()).To(Succeed())
			})
		})

		When("non-existent path passed", func() {
			It("returns error", func() {
				Expect(os.RemovePaths("non-existent")).ToNot(Succeed())
			})
		})

		When("paths exist", func() {
			var filePath string
			var dirPath string

			BeforeEach(func() {
				temp := GinkgoT().TempDir()
				dirPath = filepath.Join(temp, "test-dir")
				filePath = filepath.Join(temp, "test.file")

				Expect(bos.MkdirAll(dirPath, bos.ModePerm)).To(Succeed())
				Expect(bos.WriteFile(filePath, []byte("test-content"), bos.ModePerm)).To(Succeed())
			})

			It("deletes files and directories", func() {
				Expect(os.RemovePaths(filePath, dirPath)).To(Succeed())
				Expect(os.PathExists(filePath)).To(BeFalse())
				Expect(os.PathExists(dirPath)).To(BeFalse())
			})
		})
	})

	Describe("FilesInDir", Label("integration"), func() {
		When("error occurs during reading dir", func() {
			It("returns error", func() {
				actual, err := os.FilesInDir("non-existent")

				Expect(actual).To(BeNil())
				Expect(err).To(MatchError(ContainSubstring("could not read directory")))
			})
		})

		When("dir tree contains files and sub-dirs with files", func() {
			var dir string

			BeforeEach(func() {
				dir = GinkgoT().TempDir()
				subDir := filepath.Join(dir, "sub-dir")

				Expect(bos.MkdirAll(subDir, bos.ModePerm)).To(Succeed())
				Expect(bos.WriteFile(filepath.Join(dir, "file-1"), []byte(""), bos.ModePerm)).To(Succeed())
				Expect(bos.WriteFile(filepath.Join(dir, "file-2"), []byte(""), bos.ModePerm)).To(Succeed())
				Expect(bos.WriteFile(filepath.Join(subDir, "file-3"), []byte(""), bos.ModePerm)).To(Succeed())
			})

			It("returns only files being direct children of dir", func() {
				actual, err := os.FilesInDir(dir)

				Expect(err).ToNot(HaveOccurred())
				Expect(actual).To(ConsistOf(
					HaveField("Name()", "file-1"),
					HaveField("Name()", "file-2"),
				))
			})
		})
	})

	Describe("Files", Label("unit"), func() {
		Describe("WithSuffix", func() {
			It("returns only matching files", func() {
				matching := newFileInfoMock("20250101T000000.000000000Z-config")
				other := newFileInfoMock("20250101T000000.000000000Z-other")

				actual := os.Files{matching, other}.WithSuffix("-config")

				Expect(actual).To(ConsistOf(matching))
			})
		})

		Describe("SortedByNameDesc", func() {
			It("sorts highest name first without changing the input", func() {
				a := newFileInfoMock("a")
				b := newFileInfoMock("b")
				c := newFileInfoMock("c")
				files := os.Files{b, c, a}

				actual := files.SortedByNameDesc()

				Expect(actual).To(Equal(os.Files{c, b, a}))
				Expect(files).To(Equal(os.Files{b, c, a}))
			})
		})
	})

	Describe("Paths", Label("integration"), func() {
		Describe("Remove", func() {
			It("removes the paths", func() {
				dir := GinkgoT().TempDir()
				paths := os.Paths{filepath.Join(dir, "file-1"), filepath.Join(dir, "file-2")}

				for _, path := range paths {
					Expect(bos.WriteFile(path, []byte(""), bos.ModePerm)).To(Succeed())
				}

				Expect(paths.Remove()).To(Succeed())

				for _, path := range paths {
					_, err := bos.Stat(path)
					Expect(err).To(MatchError(fs.ErrNotExist))
				}
			})
		})
	})

	Describe("AtomicWriter", Label("integration"), func() {
		var dir string
		var target string

		BeforeEach(func() {
			dir = filepath.Join(GinkgoT().TempDir(), "kube")
			target = filepath.Join(dir, "config")
		})

		When("target does not exist", func() {
			It("creates dir and file with private permissions", func() {
				sut := os.NewAtomicWriter()

				Expect(sut.WriteFile(target, []byte("content"))).To(Succeed())

				data, err := bos.ReadFile(target)
				Expect(err).ToNot(HaveOccurred())
				Expect(string(data)).To(Equal("content"))

				fileInfo, err := bos.Stat(target)
				Expect(err).ToNot(HaveOccurred())
				Expect(fileInfo.Mode().Perm()).To(Equal(fs.FileMode(0600)))

				dirInfo, err := bos.Stat(dir)
				Expect(err).ToNot(HaveOccurred())
				Expect(dirInfo.Mode().Perm()).To(Equal(fs.FileMode(0700)))

				Expect(tempFilesIn(dir)).To(BeEmpty())
			})
		})

		When("target exists", func() {
			BeforeEach(func() {
				Expect(bos.MkdirAll(dir, 0755)).To(Succeed())
				Expect(bos.WriteFile(target, []byte("a much longer original content"), 0644)).To(Succeed())
			})

			It("replaces the content completely and tightens permissions", func() {
				sut := os.NewAtomicWriter()

				Expect(sut.WriteFile(target, []byte("short"))).To(Succeed())

				data, err := bos.ReadFile(target)
				Expect(err).ToNot(HaveOccurred())
				Expect(string(data)).To(Equal("short"))

				info, err := bos.Stat(target)
				Expect(err).ToNot(HaveOccurred())
				Expect(info.Mode().Perm()).To(Equal(fs.FileMode(0600)))
			})

			It("leaves target and dir untouched when the rename fails", func() {
				var renamedFrom string
				sut := os.NewAtomicWriter(os.WithRenameFunc(func(oldPath, newPath string) error {
					renamedFrom = oldPath

					info, err := bos.Stat(oldPath)
					Expect(err).ToNot(HaveOccurred())
					Expect(info.Mode().Perm()).To(Equal(fs.FileMode(0600)))

					return errors.New("simulated crash")
				}))

				err := sut.WriteFile(target, []byte("new content"))

				Expect(err).To(MatchError(ContainSubstring("simulated crash")))
				Expect(filepath.Dir(renamedFrom)).To(Equal(dir))

				data, readErr := bos.ReadFile(target)
				Expect(readErr).ToNot(HaveOccurred())
				Expect(string(data)).To(Equal("a much longer original content"))

				Expect(tempFilesIn(dir)).To(BeEmpty())
			})

			It("leaves target untouched when writing fails", func() {
				sut := os.NewAtomicWriter(os.WithWriteFunc(func(file *bos.File, data []byte) error {
					if _, err := file.Write(data[:3]); err != nil {
						return err
					}
					return errors.New("no space left on device")
				}))

				err := sut.WriteFile(target, []byte("new content"))

				Expect(err).To(MatchError(ContainSubstring("no space left on device")))

				data, readErr := bos.ReadFile(target)
				Expect(readErr).ToNot(HaveOccurred())
				Expect(string(data)).To(Equal("a much longer original content"))

				Expect(tempFilesIn(dir)).To(BeEmpty())
			})
		})
	})
})
