// SPDX-FileCopyrightText:  © 2024 Siemens Healthineers AG
// SPDX-License-Identifier:   MIT

package cmd

import (
	"context"
	"log/slog"
	"path/filepath"

	cc "github.com/lago-morph/ai-k8s-sub000/cmd/mk8/cmd/common"
	kc "github.com/lago-morph/ai-k8s-sub000/cmd/mk8/cmd/kubeconfig"
	ve "github.com/lago-morph/ai-k8s-sub000/cmd/mk8/cmd/version"
	"github.com/lago-morph/ai-k8s-sub000/cmd/mk8/utils/logging"
	"github.com/lago-morph/ai-k8s-sub000/internal/cli"
	"github.com/lago-morph/ai-k8s-sub000/internal/config"
	"github.com/lago-morph/ai-k8s-sub000/internal/definitions"
	bl "github.com/lago-morph/ai-k8s-sub000/internal/logging"

	"github.com/spf13/cobra"
)

func CreateRootCmd(levelVar *slog.LevelVar) *cobra.Command {
	verbosity := bl.LevelToLowerString(slog.LevelInfo)
	showLog := false
	configDir := ""

	cmd := &cobra.Command{
		Use:               definitions.CliName,
		Short:             "mk8 - manages the kubeconfig of the clusters it creates",
		SilenceErrors:     true,
		SilenceUsage:      true,
		CompletionOptions: cobra.CompletionOptions{DisableDefaultCmd: true},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := bl.SetVerbosity(verbosity, levelVar); err != nil {
				return cc.NewInvalidArgumentFailure(err.Error())
			}

			resolvedConfigDir, err := config.ResolveConfigDir(configDir)
			if err != nil {
				return err
			}

			settings, err := config.NewLoader().Load(resolvedConfigDir, cmd.Flags())
			if err != nil {
				return cc.ToCmdFailure(err)
			}

			logFilePath := filepath.Join(settings.Log.Dir, definitions.LogFileName)

			cliWriter := cmd.ErrOrStderr()
			if !showLog {
				cliWriter = nil
			}
			if err := logging.Initialize(levelVar, logFilePath, cliWriter); err != nil {
				return err
			}

			slog.Debug("log level set", "level", verbosity)
			slog.Debug("settings loaded", "settings-file", settings.File, "kubeconfig-path", settings.Kubeconfig.Path)

			cmd.SetContext(context.WithValue(cmd.Context(), cc.ContextKeyCmdContext, cc.NewCmdContext(settings)))

			return nil
		},
	}

	cmd.AddCommand(kc.NewCmd())
	cmd.AddCommand(ve.NewCmd())

	persistentFlags := cmd.PersistentFlags()
	persistentFlags.BoolVarP(&showLog, cc.OutputFlagName, cc.OutputFlagShorthand, showLog, cc.OutputFlagUsage)
	persistentFlags.StringVarP(&verbosity, cli.VerbosityFlagName, cli.VerbosityFlagShorthand, verbosity, cli.VerbosityFlagHelp())
	persistentFlags.StringVar(&configDir, config.ConfigDirFlagName, "", "mk8 config dir holding settings, state and logs (default: $"+definitions.ConfigDirEnvVar+" or "+definitions.DefaultConfigDir+")")

	return cmd
}
