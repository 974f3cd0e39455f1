// SPDX-FileCopyrightText:  © 2025 Siemens Healthineers AG
// SPDX-License-Identifier:   MIT

package kubeconfig

import (
	"github.com/lago-morph/ai-k8s-sub000/cmd/mk8/cmd/common"
	"github.com/lago-morph/ai-k8s-sub000/internal/json"
	"github.com/lago-morph/ai-k8s-sub000/internal/primitives/units"
	"github.com/spf13/cobra"
)

const backupsExample = `
  # List the backups of the kubeconfig, newest first
  mk8 kubeconfig backups list

  # Restore a backup
  mk8 kubeconfig backups restore 20250301T100001.000000000Z-config
`

func newBackupsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "backups",
		Short:   "Lists and restores the kubeconfig backups taken before each change",
		Example: backupsExample,
	}

	listCmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "Lists the backups, newest first",
		Args:    cobra.NoArgs,
		RunE:    listBackups,
	}
	listCmd.Flags().StringP(outputFlagName, "o", "", "Output format modifier. Currently supported: 'json' for output as JSON structure")

	restoreCmd := &cobra.Command{
		Use:   "restore BACKUP",
		Short: "Replaces the kubeconfig with the given backup; the current file is backed up first",
		Args:  cobra.ExactArgs(1),
		RunE:  restoreBackup,
	}

	cmd.AddCommand(listCmd)
	cmd.AddCommand(restoreCmd)

	return cmd
}

func listBackups(cmd *cobra.Command, _ []string) error {
	outputOption, err := cmd.Flags().GetString(outputFlagName)
	if err != nil {
		return err
	}
	if err := validateOutputOption(outputOption, jsonOption); err != nil {
		return err
	}

	svc, err := newServices(cmd)
	if err != nil {
		return err
	}

	backups, err := svc.manager.Backups()
	if err != nil {
		return common.ToCmdFailure(err)
	}

	if outputOption == jsonOption {
		return json.Print(svc.printer.Writer(), backups)
	}

	if len(backups) == 0 {
		svc.printer.PrintInfof("No backups of '%s'", svc.settings.Kubeconfig.Path)
		return nil
	}

	table := [][]string{{"NAME", "CREATED", "SIZE"}}
	for _, backup := range backups {
		table = append(table, []string{backup.Name, formatTime(backup.Timestamp), units.ByteSize(backup.Size).String()})
	}
	svc.printer.PrintTableWithHeaders(table)
	return nil
}

func restoreBackup(cmd *cobra.Command, args []string) error {
	svc, err := newServices(cmd)
	if err != nil {
		return err
	}

	result, err := svc.manager.Restore(args[0])
	if err != nil {
		return common.ToCmdFailure(err)
	}

	svc.printer.PrintSuccessf("Restored backup '%s' to '%s'", result.Restored, svc.settings.Kubeconfig.Path)
	if result.Backup != "" {
		svc.printer.PrintInfof("Previous content saved as backup '%s'", result.Backup)
	}
	return nil
}
