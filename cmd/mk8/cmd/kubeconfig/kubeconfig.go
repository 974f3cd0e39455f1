// SPDX-FileCopyrightText:  © 2025 Siemens Healthineers AG
// SPDX-License-Identifier:   MIT

package kubeconfig

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/lago-morph/ai-k8s-sub000/cmd/mk8/cmd/common"
	"github.com/lago-morph/ai-k8s-sub000/internal/config"
	"github.com/lago-morph/ai-k8s-sub000/internal/definitions"
	"github.com/lago-morph/ai-k8s-sub000/internal/kubeconfig/manager"
	"github.com/lago-morph/ai-k8s-sub000/internal/os"
	"github.com/lago-morph/ai-k8s-sub000/internal/state"
	"github.com/spf13/cobra"
)

const (
	outputFlagName = "output"
	wideOption     = "wide"
	jsonOption     = "json"
)

type services struct {
	settings *config.Settings
	manager  *manager.Serialized
	state    *state.Store
	printer  *common.TerminalPrinter
}

func NewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "kubeconfig",
		Short: "Manages the clusters, contexts and users of the shared kubeconfig file",
	}

	flags := cmd.PersistentFlags()
	flags.String(config.KubeconfigFlagName, "", fmt.Sprintf("kubeconfig file to manage (default: first entry of $%s or ~/.kube/config)", definitions.KubeconfigEnvVar))
	flags.Int(config.MaxBackupsFlagName, definitions.DefaultMaxBackups, "Number of kubeconfig backups to keep")
	flags.Duration(config.LockTimeoutFlagName, definitions.DefaultLockTimeout, "Time to wait for other mk8 processes working on the same kubeconfig")

	cmd.AddCommand(newMergeCmd())
	cmd.AddCommand(newRemoveCmd())
	cmd.AddCommand(newExistsCmd())
	cmd.AddCommand(newUseCmd())
	cmd.AddCommand(newListCmd())
	cmd.AddCommand(newStatusCmd())
	cmd.AddCommand(newBackupsCmd())

	return cmd
}

func newServices(cmd *cobra.Command) (*services, error) {
	cmdContext, err := common.GetCmdContext(cmd)
	if err != nil {
		return nil, err
	}
	settings := cmdContext.Settings()

	m := manager.New(settings.Kubeconfig.Path, settings.Kubeconfig.MaxBackups).
		WithMaxFileSize(settings.Kubeconfig.MaxFileSizeBytes.Int64())

	return &services{
		settings: settings,
		manager:  manager.NewSerialized(m, settings.Lock.Timeout),
		state:    state.NewStore(settings.ConfigDir, os.NewAtomicWriter()),
		printer:  common.NewTerminalPrinter(cmd.OutOrStdout()),
	}, nil
}

// rememberPreviousContext persists the context for later invocations. The kubeconfig is already written,
// so failures are reported but do not fail the command.
func (s *services) rememberPreviousContext(name string) {
	if err := s.state.SetPreviousContext(s.settings.Kubeconfig.Path, name); err != nil {
		slog.Warn("could not persist previous context", "error", err, "previous-context", name)
		s.printer.PrintWarningf("Could not remember previous context '%s': %v", name, err)
	}
}

func (s *services) previousContext() string {
	name, err := s.state.PreviousContext(s.settings.Kubeconfig.Path)
	if err != nil {
		slog.Warn("could not read previous context", "error", err)
		return ""
	}
	return name
}

func validateOutputOption(option string, supported ...string) error {
	if option == "" {
		return nil
	}
	for _, s := range supported {
		if option == s {
			return nil
		}
	}
	return common.NewInvalidArgumentFailure(fmt.Sprintf("parameter '%s' not supported for flag 'o'", option))
}

func formatTime(t time.Time) string {
	return t.Local().Format(time.DateTime)
}

func currentMarker(current bool) string {
	if current {
		return "*"
	}
	return ""
}
