// SPDX-FileCopyrightText:  © 2024 Siemens Healthineers AG
// SPDX-License-Identifier:   MIT

package common

import (
	"errors"

	"github.com/lago-morph/ai-k8s-sub000/internal/config"
	"github.com/spf13/cobra"
)

type CmdContext struct {
	settings *config.Settings
}

func NewCmdContext(settings *config.Settings) *CmdContext {
	return &CmdContext{settings: settings}
}

func (c *CmdContext) Settings() *config.Settings {
	return c.settings
}

// GetCmdContext returns the context set up by the root command
func GetCmdContext(cmd *cobra.Command) (*CmdContext, error) {
	if cmd.Context() == nil {
		return nil, errors.New("command context not initialized")
	}
	context, ok := cmd.Context().Value(ContextKeyCmdContext).(*CmdContext)
	if !ok {
		return nil, errors.New("command context not initialized")
	}
	return context, nil
}
