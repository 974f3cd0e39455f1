// SPDX-FileCopyrightText:  © 2025 Siemens Healthineers AG
// SPDX-License-Identifier:   MIT

package kubeconfig

import (
	"github.com/samber/lo"
	"go.yaml.in/yaml/v3"
	"k8s.io/apimachinery/pkg/util/sets"
)

const (
	DefaultApiVersion = "v1"
	DefaultKind       = "Config"

	CollectionClusters = "clusters"
	CollectionContexts = "contexts"
	CollectionUsers    = "users"
	CollectionBackups  = "backups"
)

// Field is a key/value pair of a YAML mapping that is carried through load and save without being interpreted.
type Field struct {
	Key   string
	Value *yaml.Node
}

type Fields []Field

// Document is the in-memory form of a kubeconfig file.
//
// Collections keep the order found on disk; new entries are appended.
// An empty CurrentContext means "no current context".
type Document struct {
	ApiVersion     string
	Kind           string
	Clusters       []ClusterEntry
	Contexts       []ContextEntry
	Users          []UserEntry
	CurrentContext string
	Extra          Fields

	// source is the parsed file, used by Serialize to write unchanged parts as they were read
	source *yaml.Node
}

type ClusterEntry struct {
	Name                     string
	Server                   string
	CertificateAuthority     string
	CertificateAuthorityData string
	InsecureSkipTLSVerify    bool
	// Extra holds unknown keys of the 'cluster' body, EntryExtra unknown keys next to 'name' and 'cluster'.
	Extra      Fields
	EntryExtra Fields
}

type ContextEntry struct {
	Name       string
	Cluster    string
	User       string
	Namespace  string
	Extra      Fields
	EntryExtra Fields
}

// UserEntry carries the credential material as an opaque list of fields.
type UserEntry struct {
	Name        string
	Credentials Fields
	EntryExtra  Fields
}

func NewDocument() *Document {
	return &Document{
		ApiVersion: DefaultApiVersion,
		Kind:       DefaultKind,
	}
}

// StringField creates a field with a plain string value.
func StringField(key, value string) Field {
	return Field{Key: key, Value: stringNode(value)}
}

func (fields Fields) Get(key string) (*yaml.Node, bool) {
	field, found := lo.Find(fields, func(f Field) bool {
		return f.Key == key
	})
	if !found {
		return nil, false
	}
	return field.Value, true
}

func (fields Fields) Keys() []string {
	return lo.Map(fields, func(f Field, _ int) string {
		return f.Key
	})
}

func (doc *Document) ClusterNames() sets.Set[string] {
	return sets.New(lo.Map(doc.Clusters, func(c ClusterEntry, _ int) string { return c.Name })...)
}

func (doc *Document) ContextNames() sets.Set[string] {
	return sets.New(lo.Map(doc.Contexts, func(c ContextEntry, _ int) string { return c.Name })...)
}

func (doc *Document) UserNames() sets.Set[string] {
	return sets.New(lo.Map(doc.Users, func(u UserEntry, _ int) string { return u.Name })...)
}

func (doc *Document) FindCluster(name string) (*ClusterEntry, bool) {
	_, index, found := lo.FindIndexOf(doc.Clusters, func(c ClusterEntry) bool {
		return c.Name == name
	})
	if !found {
		return nil, false
	}
	return &doc.Clusters[index], true
}

func (doc *Document) FindClusterByServer(server string) (*ClusterEntry, bool) {
	_, index, found := lo.FindIndexOf(doc.Clusters, func(c ClusterEntry) bool {
		return c.Server == server
	})
	if !found {
		return nil, false
	}
	return &doc.Clusters[index], true
}

func (doc *Document) FindContext(name string) (*ContextEntry, bool) {
	_, index, found := lo.FindIndexOf(doc.Contexts, func(c ContextEntry) bool {
		return c.Name == name
	})
	if !found {
		return nil, false
	}
	return &doc.Contexts[index], true
}

func (doc *Document) FindUser(name string) (*UserEntry, bool) {
	_, index, found := lo.FindIndexOf(doc.Users, func(u UserEntry) bool {
		return u.Name == name
	})
	if !found {
		return nil, false
	}
	return &doc.Users[index], true
}

func (doc *Document) HasContext(name string) bool {
	_, found := doc.FindContext(name)
	return found
}

// ContextsReferencingCluster returns all contexts bound to the given cluster, in document order.
func (doc *Document) ContextsReferencingCluster(clusterName string) []ContextEntry {
	return lo.Filter(doc.Contexts, func(c ContextEntry, _ int) bool {
		return c.Cluster == clusterName
	})
}

func (doc *Document) IsUserReferenced(userName string) bool {
	return lo.ContainsBy(doc.Contexts, func(c ContextEntry) bool {
		return c.User == userName
	})
}

func (doc *Document) AddCluster(cluster ClusterEntry) {
	doc.Clusters = append(doc.Clusters, cluster)
}

func (doc *Document) AddContext(context ContextEntry) {
	doc.Contexts = append(doc.Contexts, context)
}

func (doc *Document) AddUser(user UserEntry) {
	doc.Users = append(doc.Users, user)
}

func (doc *Document) RemoveCluster(name string) {
	doc.Clusters = lo.Reject(doc.Clusters, func(c ClusterEntry, _ int) bool {
		return c.Name == name
	})
}

func (doc *Document) RemoveContext(name string) {
	doc.Contexts = lo.Reject(doc.Contexts, func(c ContextEntry, _ int) bool {
		return c.Name == name
	})
}

func (doc *Document) RemoveUser(name string) {
	doc.Users = lo.Reject(doc.Users, func(u UserEntry, _ int) bool {
		return u.Name == name
	})
}
