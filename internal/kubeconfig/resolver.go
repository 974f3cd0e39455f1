// SPDX-FileCopyrightText:  © 2025 Siemens Healthineers AG
// SPDX-License-Identifier:   MIT

package kubeconfig

import (
	"fmt"
	"log/slog"

	"k8s.io/apimachinery/pkg/util/sets"
)

const DefaultMaxSuffix = 10000

// Resolver finds collision-free names within one collection.
type Resolver struct {
	maxSuffix int
}

func NewResolver(maxSuffix int) *Resolver {
	if maxSuffix < 1 {
		maxSuffix = DefaultMaxSuffix
	}
	return &Resolver{maxSuffix: maxSuffix}
}

// Resolve returns desired if it is not taken, else the first free one of desired-1, desired-2, ...
func (r *Resolver) Resolve(desired string, existing sets.Set[string]) (string, error) {
	if !existing.Has(desired) {
		return desired, nil
	}

	for suffix := 1; suffix <= r.maxSuffix; suffix++ {
		candidate := fmt.Sprintf("%s-%d", desired, suffix)
		if !existing.Has(candidate) {
			slog.Debug("Name conflict resolved", "desired-name", desired, "resolved-name", candidate)
			return candidate, nil
		}
	}
	return "", &ConflictExhaustionError{Name: desired, Attempts: r.maxSuffix}
}
