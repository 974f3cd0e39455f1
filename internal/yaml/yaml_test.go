// SPDX-FileCopyrightText:  © 2024 Siemens Healthcare AG
// SPDX-License-Identifier:   MIT

package yaml_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	y "gopkg.in/yaml.v3"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/lago-morph/ai-k8s-sub000/internal/yaml"
)

func TestYamlPkg(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "yaml pkg Integration Tests", Label("integration", "ci", "yaml"))
}

type testData struct {
	Prop1 string            `yaml:"prop1"`
	Prop2 int               `yaml:"prop2"`
	Prop3 map[string]string `yaml:"prop3,omitempty"`
}

var _ = Describe("yaml pkg", func() {
	Describe("FromFile", func() {
		When("file read error occurrs", func() {
			It("returns the error", func() {
				nonExistentFile := filepath.Join(GinkgoT().TempDir(), "non-existent")

				actual, err := yaml.FromFile[testData](nonExistentFile)

				Expect(err).To(MatchError(os.ErrNotExist))
				Expect(actual).To(BeNil())
			})
		})

		When("unmarshal error occurrs", func() {
			var filePath string

			BeforeEach(func() {
				content := "nonsense"
				filePath = filepath.Join(GinkgoT().TempDir(), "test.yaml")

				Expect(os.WriteFile(filePath, []byte(content), 0600)).To(Succeed())
			})

			It("returns the error", func() {
				actual, err := yaml.FromFile[testData](filePath)

				var typeError *y.TypeError
				Expect(errors.As(err, &typeError)).To(BeTrue())
				Expect(actual).To(BeNil())
			})
		})

		When("successful", func() {
			var filePath string

			BeforeEach(func() {
				content := "prop1: test-prop\nprop2: 123"
				filePath = filepath.Join(GinkgoT().TempDir(), "test.yaml")

				Expect(os.WriteFile(filePath, []byte(content), 0600)).To(Succeed())
			})

			It("returns the yaml file content", func() {
				expected := testData{Prop1: "test-prop", Prop2: 123}

				actual, err := yaml.FromFile[testData](filePath)

				Expect(err).ToNot(HaveOccurred())
				Expect(*actual).To(Equal(expected))
			})
		})
	})

	Describe("Marshal", func() {
		It("uses two-space indentation", func() {
			input := testData{Prop1: "a", Prop2: 1, Prop3: map[string]string{"k": "v"}}

			actual, err := yaml.Marshal(input)

			Expect(err).ToNot(HaveOccurred())
			Expect(string(actual)).To(Equal("prop1: a\nprop2: 1\nprop3:\n  k: v\n"))
		})

		It("is readable by FromFile", func() {
			input := testData{Prop1: "a", Prop2: 7}
			filePath := filepath.Join(GinkgoT().TempDir(), "test.yaml")

			data, err := yaml.Marshal(input)
			Expect(err).ToNot(HaveOccurred())
			Expect(os.WriteFile(filePath, data, 0600)).To(Succeed())

			actual, err := yaml.FromFile[testData](filePath)

			Expect(err).ToNot(HaveOccurred())
			Expect(*actual).To(Equal(input))
		})
	})
})
