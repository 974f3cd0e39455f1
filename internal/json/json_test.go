// SPDX-FileCopyrightText:  © 2023 Siemens Healthcare GmbH
// SPDX-License-Identifier:   MIT

package json_test

import (
	"bytes"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/lago-morph/ai-k8s-sub000/internal/json"
)

func TestJsonPkg(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "json pkg Unit Tests", Label("unit", "ci", "json"))
}

type testData struct {
	Prop1 string   `json:"prop1"`
	Prop2 int      `json:"prop2"`
	Prop3 []string `json:"prop3,omitempty"`
}

var _ = Describe("json pkg", func() {
	Describe("MarshalIndent", func() {
		It("returns indented json", func() {
			input := testData{
				Prop1: "test-prop",
				Prop2: 123,
			}
			expected := "{\n  \"prop1\": \"test-prop\",\n  \"prop2\": 123\n}"

			actual, err := json.MarshalIndent(input)

			Expect(err).ToNot(HaveOccurred())
			Expect(string(actual)).To(Equal(expected))
		})
	})

	Describe("Print", func() {
		It("writes indented json with trailing line break", func() {
			var buffer bytes.Buffer

			err := json.Print(&buffer, testData{Prop1: "a", Prop3: []string{"x"}})

			Expect(err).ToNot(HaveOccurred())
			Expect(buffer.String()).To(Equal("{\n  \"prop1\": \"a\",\n  \"prop2\": 0,\n  \"prop3\": [\n    \"x\"\n  ]\n}\n"))
		})

		When("data cannot be marshalled", func() {
			It("returns error", func() {
				var buffer bytes.Buffer

				err := json.Print(&buffer, make(chan int))

				Expect(err).To(MatchError(ContainSubstring("could not marshal to json")))
				Expect(buffer.Len()).To(BeZero())
			})
		})
	})
})
