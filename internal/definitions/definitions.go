// SPDX-FileCopyrightText:  © 2025 Siemens Healthineers AG
// SPDX-License-Identifier:   MIT

package definitions

import "time"

const (
	CliName = "mk8"

	ConfigDirEnvVar    = "MK8_CONFIG_DIR"
	EnvPrefix          = "MK8"
	DefaultConfigDir   = "~/.config/" + CliName
	SettingsFileName   = "config.yaml"
	StateFileName      = "state.yaml"
	LogDirName         = "logs"
	LogFileName        = CliName + ".log"
	KubeconfigName     = "config"
	KubeconfigEnvVar   = "KUBECONFIG"
	DefaultMaxBackups  = 5
	MaxBackupsLimit    = 100
	DefaultLockTimeout = 10 * time.Second

	// DefaultMaxKubeconfigSize limits the kubeconfig size accepted for loading
	DefaultMaxKubeconfigSize = "16MiB"
)
