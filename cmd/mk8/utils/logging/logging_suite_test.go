// SPDX-FileCopyrightText:  © 2024 Siemens Healthineers AG
// SPDX-License-Identifier:   MIT

package logging_test

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-logr/logr"
	"github.com/lago-morph/ai-k8s-sub000/cmd/mk8/utils/logging"
	"github.com/pterm/pterm"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestLogging(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "logging package", Label("ci", "cmd", "mk8", "utils", "logging"))
}

var _ = BeforeSuite(func() {
	slog.SetDefault(slog.New(logr.ToSlogHandler(GinkgoLogr)))
})

var _ = Describe("logging pkg", func() {
	Describe("MapLogLevel", Label("unit"), func() {
		DescribeTable("maps log level correctly", func(input slog.Level, expected pterm.LogLevel) {
			actual := logging.MapLogLevel(input)

			Expect(actual).To(Equal(expected))
		},
			Entry("greater than slog's error -> fatal", slog.LevelError+2, pterm.LogLevelFatal),
			Entry("equal to slog's error -> error", slog.LevelError, pterm.LogLevelError),
			Entry("between slog's error and warn -> warn", slog.LevelWarn+2, pterm.LogLevelWarn),
			Entry("equal to slog's warn -> warn", slog.LevelWarn, pterm.LogLevelWarn),
			Entry("between slog's warn and info -> info", slog.LevelInfo+2, pterm.LogLevelInfo),
			Entry("equal to slog's info -> info", slog.LevelInfo, pterm.LogLevelInfo),
			Entry("between slog's info and debug -> debug", slog.LevelDebug+2, pterm.LogLevelDebug),
			Entry("equal to slog's debug -> debug", slog.LevelDebug, pterm.LogLevelDebug),
			Entry("less than slog's debug -> trace", slog.LevelDebug-2, pterm.LogLevelTrace),
		)
	})

	Describe("Initialize", Label("integration"), func() {
		var logFilePath string

		BeforeEach(func() {
			logFilePath = filepath.Join(GinkgoT().TempDir(), "logs", "mk8.log")

			originalLogger := slog.Default()
			DeferCleanup(func() {
				logging.Finalize()
				slog.SetDefault(originalLogger)
			})
		})

		It("logs to file as JSON", func() {
			levelVar := new(slog.LevelVar)

			Expect(logging.Initialize(levelVar, logFilePath, nil)).To(Succeed())

			slog.Info("test-1", "cluster-name", "dev")
			slog.Debug("test-2")

			logging.Finalize()

			data, err := os.ReadFile(logFilePath)
			Expect(err).ToNot(HaveOccurred())

			Expect(string(data)).To(SatisfyAll(
				ContainSubstring(`"msg":"test-1"`),
				ContainSubstring(`"cluster-name":"dev"`),
				ContainSubstring(`"component":"mk8"`),
				Not(ContainSubstring("test-2")),
			))
		})

		It("fans out to the CLI writer", func() {
			levelVar := new(slog.LevelVar)
			levelVar.Set(slog.LevelDebug)
			var cli bytes.Buffer

			Expect(logging.Initialize(levelVar, logFilePath, &cli)).To(Succeed())

			slog.Debug("test-debug")

			Expect(cli.String()).To(ContainSubstring("msg=test-debug"))

			logging.Finalize()

			data, err := os.ReadFile(logFilePath)
			Expect(err).ToNot(HaveOccurred())
			Expect(string(data)).To(ContainSubstring("test-debug"))
		})

		It("fails on second initialization", func() {
			levelVar := new(slog.LevelVar)
			Expect(logging.Initialize(levelVar, logFilePath, nil)).To(Succeed())

			err := logging.Initialize(levelVar, logFilePath, nil)

			Expect(err).To(MatchError("logging already initialized"))
		})

		It("finalizing twice does nothing", func() {
			Expect(logging.Initialize(new(slog.LevelVar), logFilePath, nil)).To(Succeed())

			logging.Finalize()
			logging.Finalize()
		})
	})
})
