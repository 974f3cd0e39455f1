// SPDX-FileCopyrightText:  © 2025 Siemens Healthineers AG
// SPDX-License-Identifier:   MIT

package kubeconfig

import (
	"fmt"

	"github.com/samber/lo"
	"k8s.io/apimachinery/pkg/util/sets"
)

type ViolationKind string

const (
	ViolationDuplicateName         ViolationKind = "duplicate-name"
	ViolationContextClusterMissing ViolationKind = "context-cluster-missing"
	ViolationContextUserMissing    ViolationKind = "context-user-missing"
	ViolationCurrentContextMissing ViolationKind = "current-context-missing"
)

// IntegrityViolation describes one broken reference or duplicate entry.
// Reference is the name that could not be resolved, if any.
type IntegrityViolation struct {
	Kind       ViolationKind
	Collection string
	Name       string
	Reference  string
}

func (v IntegrityViolation) String() string {
	switch v.Kind {
	case ViolationDuplicateName:
		return fmt.Sprintf("%s: name '%s' is used more than once", v.Collection, v.Name)
	case ViolationContextClusterMissing:
		return fmt.Sprintf("context '%s' references missing cluster '%s'", v.Name, v.Reference)
	case ViolationContextUserMissing:
		return fmt.Sprintf("context '%s' references missing user '%s'", v.Name, v.Reference)
	case ViolationCurrentContextMissing:
		return fmt.Sprintf("current-context '%s' does not exist", v.Reference)
	default:
		return fmt.Sprintf("%s: %s '%s'", v.Kind, v.Collection, v.Name)
	}
}

// Validate checks referential integrity of the three collections and the current context.
// The result is empty for a consistent document and ordered deterministically otherwise.
func Validate(doc *Document) []IntegrityViolation {
	var violations []IntegrityViolation

	violations = append(violations, duplicates(CollectionClusters, lo.Map(doc.Clusters, func(c ClusterEntry, _ int) string { return c.Name }))...)
	violations = append(violations, duplicates(CollectionContexts, lo.Map(doc.Contexts, func(c ContextEntry, _ int) string { return c.Name }))...)
	violations = append(violations, duplicates(CollectionUsers, lo.Map(doc.Users, func(u UserEntry, _ int) string { return u.Name }))...)

	clusters := doc.ClusterNames()
	users := doc.UserNames()

	for _, context := range doc.Contexts {
		if !clusters.Has(context.Cluster) {
			violations = append(violations, IntegrityViolation{
				Kind:       ViolationContextClusterMissing,
				Collection: CollectionContexts,
				Name:       context.Name,
				Reference:  context.Cluster,
			})
		}
		if !users.Has(context.User) {
			violations = append(violations, IntegrityViolation{
				Kind:       ViolationContextUserMissing,
				Collection: CollectionContexts,
				Name:       context.Name,
				Reference:  context.User,
			})
		}
	}

	if doc.CurrentContext != "" && !doc.HasContext(doc.CurrentContext) {
		violations = append(violations, IntegrityViolation{
			Kind:       ViolationCurrentContextMissing,
			Collection: CollectionContexts,
			Reference:  doc.CurrentContext,
		})
	}
	return violations
}

func duplicates(collection string, names []string) []IntegrityViolation {
	seen := sets.New[string]()
	reported := sets.New[string]()

	var violations []IntegrityViolation
	for _, name := range names {
		if seen.Has(name) && !reported.Has(name) {
			reported.Insert(name)
			violations = append(violations, IntegrityViolation{
				Kind:       ViolationDuplicateName,
				Collection: collection,
				Name:       name,
			})
		}
		seen.Insert(name)
	}
	return violations
}
