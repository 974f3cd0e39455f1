// SPDX-FileCopyrightText:  © 2025 Siemens Healthineers AG
// SPDX-License-Identifier:   MIT

package kubeconfig

import "time"

// MergeResult holds the names actually used, which may differ from the requested name.
type MergeResult struct {
	ClusterName     string `json:"clusterName"`
	ContextName     string `json:"contextName"`
	UserName        string `json:"userName"`
	CurrentContext  string `json:"currentContext"`
	PreviousContext string `json:"previousContext,omitempty"`
	Reused          bool   `json:"reused"`
	Backup          string `json:"backup,omitempty"`
}

type RemoveResult struct {
	ClusterName     string   `json:"clusterName"`
	RemovedContexts []string `json:"removedContexts"`
	RemovedUsers    []string `json:"removedUsers"`
	RetainedUsers   []string `json:"retainedUsers,omitempty"`
	CurrentContext  string   `json:"currentContext"`
	ContextChanged  bool     `json:"contextChanged"`
	Backup          string   `json:"backup,omitempty"`
}

type SwitchResult struct {
	CurrentContext  string `json:"currentContext"`
	PreviousContext string `json:"previousContext"`
	Changed         bool   `json:"changed"`
	Backup          string `json:"backup,omitempty"`
}

type RestoreResult struct {
	Restored       string `json:"restored"`
	CurrentContext string `json:"currentContext"`
	Backup         string `json:"backup,omitempty"`
}

type ClusterSummary struct {
	Name     string   `json:"name"`
	Server   string   `json:"server"`
	Contexts []string `json:"contexts"`
	Current  bool     `json:"current"`
}

type ContextSummary struct {
	Name      string `json:"name"`
	Cluster   string `json:"cluster"`
	User      string `json:"user"`
	Namespace string `json:"namespace,omitempty"`
	Current   bool   `json:"current"`
}

type Listing struct {
	Path           string           `json:"path"`
	CurrentContext string           `json:"currentContext"`
	Clusters       []ClusterSummary `json:"clusters"`
	Contexts       []ContextSummary `json:"contexts"`
	Users          []string         `json:"users"`
}

type BackupInfo struct {
	Name      string    `json:"name"`
	Timestamp time.Time `json:"timestamp"`
	Size      int64     `json:"size"`
}

type Status struct {
	Listing
	Exists     bool         `json:"exists"`
	Mode       string       `json:"mode,omitempty"`
	Size       int64        `json:"size"`
	ModTime    *time.Time   `json:"modTime,omitempty"`
	Violations []string     `json:"violations,omitempty"`
	Backups    []BackupInfo `json:"backups"`
	MaxBackups int          `json:"maxBackups"`
	Mk8Version string       `json:"mk8Version,omitempty"`
}
