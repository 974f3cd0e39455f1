// SPDX-FileCopyrightText:  © 2025 Siemens Healthineers AG
// SPDX-License-Identifier:   MIT

package kubeconfig

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"go.yaml.in/yaml/v3"
	"k8s.io/apimachinery/pkg/util/sets"
)

const (
	keyApiVersion     = "apiVersion"
	keyKind           = "kind"
	keyClusters       = "clusters"
	keyContexts       = "contexts"
	keyUsers          = "users"
	keyCurrentContext = "current-context"
	keyName           = "name"
	keyCluster        = "cluster"
	keyContext        = "context"
	keyUser           = "user"

	keyServer                   = "server"
	keyCertificateAuthority     = "certificate-authority"
	keyCertificateAuthorityData = "certificate-authority-data"
	keyInsecureSkipTLSVerify    = "insecure-skip-tls-verify"
	keyNamespace                = "namespace"

	tagNull = "!!null"
)

// ReadFile reads and parses the kubeconfig at the given path.
// A missing file is reported as IOError wrapping fs.ErrNotExist.
func ReadFile(path string) (*Document, error) {
	slog.Debug("Reading kubeconfig", "path", path)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &IOError{Path: path, Op: "read", Err: err}
	}

	doc, err := parse(data, path)
	if err != nil {
		return nil, err
	}
	if len(doc.Extra) > 0 {
		slog.Debug("Carrying unknown top-level keys", "path", path, "keys", doc.Extra.Keys())
	}
	return doc, nil
}

// Parse creates a Document from raw kubeconfig bytes. Empty input yields an empty document.
func Parse(data []byte) (*Document, error) {
	return parse(data, "")
}

func parse(data []byte, path string) (*Document, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, &ParseError{Path: path, Reason: "invalid YAML", Err: err}
	}

	if root.Kind == 0 {
		return NewDocument(), nil
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) != 1 {
		return nil, &ParseError{Path: path, Reason: "expected a single YAML document"}
	}

	top := root.Content[0]
	if isNull(top) {
		return NewDocument(), nil
	}
	if top.Kind != yaml.MappingNode {
		return nil, &ParseError{Path: path, Reason: "top level must be a mapping"}
	}

	p := parser{path: path}
	doc := &Document{source: detach(&root)}

	err := forEachPair(top, func(key string, value *yaml.Node) error {
		var err error
		switch key {
		case keyApiVersion:
			doc.ApiVersion, err = scalar(value, key)
		case keyKind:
			doc.Kind, err = scalar(value, key)
		case keyCurrentContext:
			doc.CurrentContext, err = scalar(value, key)
		case keyClusters:
			doc.Clusters, err = parseEntries(p, value, key, p.cluster)
		case keyContexts:
			doc.Contexts, err = parseEntries(p, value, key, p.context)
		case keyUsers:
			doc.Users, err = parseEntries(p, value, key, p.user)
		default:
			doc.Extra = append(doc.Extra, Field{Key: key, Value: detach(value)})
		}
		return err
	})
	if err != nil {
		return nil, p.wrap(err)
	}
	return doc, nil
}

type parser struct {
	path string
}

type entry struct {
	name  string
	body  *yaml.Node
	extra Fields
	node  *yaml.Node
}

func parseEntries[T any](p parser, node *yaml.Node, collection string, convert func(entry, string) (T, error)) ([]T, error) {
	node = resolve(node)
	if isNull(node) {
		return nil, nil
	}
	if node.Kind != yaml.SequenceNode {
		return nil, p.fail("'%s' must be a sequence", collection)
	}

	var result []T
	for index, item := range node.Content {
		item = resolve(item)
		if item.Kind != yaml.MappingNode {
			return nil, p.fail("entry %d of '%s' must be a mapping", index, collection)
		}

		e, err := readEntry(item, collection)
		if err != nil {
			return nil, p.fail("entry %d of '%s': %v", index, collection, err)
		}
		if e.name == "" {
			return nil, p.fail("entry %d of '%s' has no name", index, collection)
		}
		if e.body != nil && !isNull(e.body) && e.body.Kind != yaml.MappingNode {
			return nil, p.fail("'%s' of %s entry '%s' must be a mapping", bodyKeyOf(collection), collection, e.name)
		}

		converted, err := convert(e, collection)
		if err != nil {
			return nil, err
		}
		result = append(result, converted)
	}
	return result, nil
}

func readEntry(item *yaml.Node, collection string) (entry, error) {
	bodyKey := bodyKeyOf(collection)

	e := entry{node: item}
	err := forEachPair(item, func(key string, value *yaml.Node) error {
		switch key {
		case keyName:
			name, err := scalar(value, collection+"."+keyName)
			if err != nil {
				return err
			}
			e.name = name
		case bodyKey:
			e.body = value
		default:
			e.extra = append(e.extra, Field{Key: key, Value: detach(value)})
		}
		return nil
	})
	if err != nil {
		return entry{}, err
	}
	return e, nil
}

func (p parser) cluster(e entry, collection string) (ClusterEntry, error) {
	cluster := ClusterEntry{Name: e.name, EntryExtra: e.extra}

	err := forEachField(e.body, func(key string, value *yaml.Node) error {
		var err error
		switch key {
		case keyServer:
			cluster.Server, err = scalar(value, key)
		case keyCertificateAuthority:
			cluster.CertificateAuthority, err = scalar(value, key)
		case keyCertificateAuthorityData:
			cluster.CertificateAuthorityData, err = scalar(value, key)
		case keyInsecureSkipTLSVerify:
			cluster.InsecureSkipTLSVerify, err = boolean(value, key)
		default:
			cluster.Extra = append(cluster.Extra, Field{Key: key, Value: detach(value)})
		}
		return err
	})
	if err != nil {
		return ClusterEntry{}, p.fail("invalid %s entry '%s': %v", collection, e.name, err)
	}
	return cluster, nil
}

func (p parser) context(e entry, collection string) (ContextEntry, error) {
	context := ContextEntry{Name: e.name, EntryExtra: e.extra}

	err := forEachField(e.body, func(key string, value *yaml.Node) error {
		var err error
		switch key {
		case keyCluster:
			context.Cluster, err = scalar(value, key)
		case keyUser:
			context.User, err = scalar(value, key)
		case keyNamespace:
			context.Namespace, err = scalar(value, key)
		default:
			context.Extra = append(context.Extra, Field{Key: key, Value: detach(value)})
		}
		return err
	})
	if err != nil {
		return ContextEntry{}, p.fail("invalid %s entry '%s': %v", collection, e.name, err)
	}
	return context, nil
}

func (p parser) user(e entry, collection string) (UserEntry, error) {
	user := UserEntry{Name: e.name, EntryExtra: e.extra}

	err := forEachField(e.body, func(key string, value *yaml.Node) error {
		user.Credentials = append(user.Credentials, Field{Key: key, Value: detach(value)})
		return nil
	})
	if err != nil {
		return UserEntry{}, p.fail("invalid %s entry '%s': %v", collection, e.name, err)
	}
	return user, nil
}

func (p parser) fail(format string, args ...any) *ParseError {
	return &ParseError{Path: p.path, Reason: fmt.Sprintf(format, args...)}
}

// wrap passes ParseErrors through and turns field errors into one.
func (p parser) wrap(err error) error {
	if _, ok := err.(*ParseError); ok {
		return err
	}
	return p.fail("%v", err)
}

func scalar(node *yaml.Node, key string) (string, error) {
	node = resolve(node)
	if isNull(node) {
		return "", nil
	}
	if node.Kind != yaml.ScalarNode {
		return "", fmt.Errorf("'%s' must be a scalar value", key)
	}
	return node.Value, nil
}

func boolean(node *yaml.Node, key string) (bool, error) {
	value, err := scalar(node, key)
	if err != nil || value == "" {
		return false, err
	}
	result, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("'%s' must be a boolean, found '%s'", key, value)
	}
	return result, nil
}

func forEachField(body *yaml.Node, visit func(key string, value *yaml.Node) error) error {
	if body == nil || isNull(body) {
		return nil
	}
	return forEachPair(body, visit)
}

// forEachPair visits the pairs of a mapping in order with aliases resolved. A repeated key is an error.
func forEachPair(mapping *yaml.Node, visit func(key string, value *yaml.Node) error) error {
	seen := sets.New[string]()
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		key := mapping.Content[i].Value
		if seen.Has(key) {
			return fmt.Errorf("duplicate key '%s'", key)
		}
		seen.Insert(key)

		if err := visit(key, resolve(mapping.Content[i+1])); err != nil {
			return err
		}
	}
	return nil
}

func bodyKeyOf(collection string) string {
	switch collection {
	case keyClusters:
		return keyCluster
	case keyContexts:
		return keyContext
	default:
		return keyUser
	}
}

func isNull(node *yaml.Node) bool {
	return node.Kind == yaml.ScalarNode && node.Tag == tagNull
}

func resolve(node *yaml.Node) *yaml.Node {
	for node != nil && node.Kind == yaml.AliasNode && node.Alias != nil {
		node = node.Alias
	}
	return node
}

// detach deep-copies a node and drops its source position, so equal content compares equal regardless of where it was read from.
// Aliases are replaced by copies of their targets and anchors are dropped, so any detached node can be written on its own.
func detach(node *yaml.Node) *yaml.Node {
	node = resolve(node)
	if node == nil {
		return nil
	}
	copied := *node
	copied.Line = 0
	copied.Column = 0
	copied.Anchor = ""
	copied.Alias = nil
	if node.Content != nil {
		copied.Content = make([]*yaml.Node, len(node.Content))
		for i, child := range node.Content {
			copied.Content[i] = detach(child)
		}
	}
	return &copied
}
