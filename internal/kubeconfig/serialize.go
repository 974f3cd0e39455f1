// SPDX-FileCopyrightText:  © 2025 Siemens Healthineers AG
// SPDX-License-Identifier:   MIT

package kubeconfig

import (
	"bytes"
	"fmt"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"go.yaml.in/yaml/v3"
	"k8s.io/apimachinery/pkg/util/sets"
)

const (
	tagStr  = "!!str"
	tagBool = "!!bool"
	tagMap  = "!!map"
	tagSeq  = "!!seq"

	indent = 2
)

type pair struct {
	key   *yaml.Node
	value *yaml.Node
}

// origin indexes the parsed source of a document by collection and entry name.
type origin struct {
	document *yaml.Node
	top      *yaml.Node
	entries  map[string]map[string]entry
}

// Serialize renders the document in kubectl's layout: two spaces indent, sequence items flush with their key
// and mapping keys in alphabetical order.
//
// A document read by Parse is written with as few changes to its source as possible. Entries that did not change
// are written as they were read, comments and explicit default values included. Keys keep their source order;
// new keys go where kubectl would put them.
func Serialize(doc *Document) ([]byte, error) {
	src := newOrigin(doc.source)

	top := mappingNode()
	appendScalarIfSet(top, keyApiVersion, doc.ApiVersion)
	appendPair(top, keyClusters, sequenceNode(len(doc.Clusters), func(i int) *yaml.Node {
		return reuse(src, keyClusters, doc.Clusters[i].Name, doc.Clusters[i], parser{}.cluster, clusterNode)
	}))
	appendPair(top, keyContexts, sequenceNode(len(doc.Contexts), func(i int) *yaml.Node {
		return reuse(src, keyContexts, doc.Contexts[i].Name, doc.Contexts[i], parser{}.context, contextNode)
	}))
	appendPair(top, keyCurrentContext, stringNode(doc.CurrentContext))
	appendScalarIfSet(top, keyKind, doc.Kind)
	appendFields(top, doc.Extra)
	appendPair(top, keyUsers, sequenceNode(len(doc.Users), func(i int) *yaml.Node {
		return reuse(src, keyUsers, doc.Users[i].Name, doc.Users[i], parser{}.user, userNode)
	}))
	arrange(top, src.top)

	root := &yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{top}}
	if src.document != nil {
		root.HeadComment, root.FootComment = src.document.HeadComment, src.document.FootComment
		top.HeadComment, top.FootComment = src.top.HeadComment, src.top.FootComment
	}

	var buffer bytes.Buffer
	encoder := yaml.NewEncoder(&buffer)
	encoder.SetIndent(indent)
	encoder.CompactSeqIndent()

	if err := encoder.Encode(root); err != nil {
		return nil, fmt.Errorf("could not encode kubeconfig: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("could not finish encoding kubeconfig: %w", err)
	}
	return buffer.Bytes(), nil
}

func newOrigin(source *yaml.Node) origin {
	o := origin{entries: map[string]map[string]entry{}}
	if source == nil || len(source.Content) != 1 || source.Content[0].Kind != yaml.MappingNode {
		return o
	}
	o.document = source
	o.top = source.Content[0]

	for i := 0; i+1 < len(o.top.Content); i += 2 {
		collection, items := o.top.Content[i].Value, o.top.Content[i+1]
		if items.Kind != yaml.SequenceNode || !slices.Contains([]string{keyClusters, keyContexts, keyUsers}, collection) {
			continue
		}

		byName := map[string]entry{}
		for _, item := range items.Content {
			if item.Kind != yaml.MappingNode {
				continue
			}
			e, err := readEntry(item, collection)
			if err != nil || e.name == "" {
				continue
			}
			if _, taken := byName[e.name]; !taken {
				byName[e.name] = e
			}
		}
		o.entries[collection] = byName
	}
	return o
}

// reuse returns the source node of an entry that reads back to the current one. Otherwise the entry is built anew
// and arranged along its source, if there is one.
func reuse[T any](o origin, collection, name string, current T, read func(entry, string) (T, error), build func(T) *yaml.Node) *yaml.Node {
	e, found := o.entries[collection][name]
	if !found {
		return build(current)
	}

	if previous, err := read(e, collection); err == nil && reflect.DeepEqual(previous, current) {
		return e.node
	}

	node := build(current)
	arrange(node, e.node)
	return node
}

func clusterNode(cluster ClusterEntry) *yaml.Node {
	body := mappingNode()
	appendScalarIfSet(body, keyCertificateAuthority, cluster.CertificateAuthority)
	appendScalarIfSet(body, keyCertificateAuthorityData, cluster.CertificateAuthorityData)
	if cluster.InsecureSkipTLSVerify {
		appendPair(body, keyInsecureSkipTLSVerify, boolNode(true))
	}
	appendScalarIfSet(body, keyServer, cluster.Server)
	appendFields(body, cluster.Extra)

	return entryNode(keyCluster, cluster.Name, body, cluster.EntryExtra)
}

func contextNode(context ContextEntry) *yaml.Node {
	body := mappingNode()
	appendScalarIfSet(body, keyCluster, context.Cluster)
	appendScalarIfSet(body, keyNamespace, context.Namespace)
	appendScalarIfSet(body, keyUser, context.User)
	appendFields(body, context.Extra)

	return entryNode(keyContext, context.Name, body, context.EntryExtra)
}

func userNode(user UserEntry) *yaml.Node {
	body := mappingNode()
	appendFields(body, user.Credentials)

	return entryNode(keyUser, user.Name, body, user.EntryExtra)
}

func entryNode(bodyKey, name string, body *yaml.Node, extra Fields) *yaml.Node {
	if len(body.Content) == 0 {
		body.Style = yaml.FlowStyle
	}
	arrange(body, nil)

	node := mappingNode()
	appendPair(node, bodyKey, body)
	appendPair(node, keyName, stringNode(name))
	appendFields(node, extra)
	arrange(node, nil)
	return node
}

// arrange sorts the keys of a mapping built here alphabetically. With a source mapping, keys found there keep
// the source order and key node, and new keys go before the first key sorting after them.
func arrange(mapping, source *yaml.Node) {
	pairs := make([]pair, 0, len(mapping.Content)/2)
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		pairs = append(pairs, pair{key: mapping.Content[i], value: mapping.Content[i+1]})
	}
	slices.SortStableFunc(pairs, func(a, b pair) int {
		return strings.Compare(a.key.Value, b.key.Value)
	})

	if source != nil && source.Kind == yaml.MappingNode {
		pairs = followSource(pairs, source)
	}

	mapping.Content = mapping.Content[:0]
	for _, p := range pairs {
		mapping.Content = append(mapping.Content, p.key, p.value)
	}
}

func followSource(pairs []pair, source *yaml.Node) []pair {
	byKey := lo.KeyBy(pairs, func(p pair) string {
		return p.key.Value
	})

	placed := sets.New[string]()
	ordered := make([]pair, 0, len(pairs))
	for i := 0; i+1 < len(source.Content); i += 2 {
		sourceKey, sourceValue := source.Content[i], source.Content[i+1]
		p, found := byKey[sourceKey.Value]
		if !found || placed.Has(sourceKey.Value) {
			continue
		}
		placed.Insert(sourceKey.Value)
		ordered = append(ordered, pair{key: sourceKey, value: adopt(p.value, sourceValue)})
	}

	for _, p := range pairs {
		if placed.Has(p.key.Value) {
			continue
		}
		at := slices.IndexFunc(ordered, func(o pair) bool {
			return o.key.Value > p.key.Value
		})
		if at < 0 {
			at = len(ordered)
		}
		ordered = slices.Insert(ordered, at, p)
	}
	return ordered
}

// adopt returns the source value when its content did not change. Changed mappings are arranged along the source.
func adopt(fresh, source *yaml.Node) *yaml.Node {
	if sameContent(fresh, source) {
		return source
	}
	if fresh.Kind == yaml.MappingNode {
		arrange(fresh, source)
	}
	return fresh
}

// sameContent ignores style, comments and positions.
func sameContent(a, b *yaml.Node) bool {
	if a.Kind != b.Kind || a.Value != b.Value || a.ShortTag() != b.ShortTag() || len(a.Content) != len(b.Content) {
		return false
	}
	for i := range a.Content {
		if !sameContent(a.Content[i], b.Content[i]) {
			return false
		}
	}
	return true
}

func sequenceNode(length int, item func(int) *yaml.Node) *yaml.Node {
	node := &yaml.Node{Kind: yaml.SequenceNode, Tag: tagSeq}
	if length == 0 {
		node.Style = yaml.FlowStyle
	}
	for i := 0; i < length; i++ {
		node.Content = append(node.Content, item(i))
	}
	return node
}

func mappingNode() *yaml.Node {
	return &yaml.Node{Kind: yaml.MappingNode, Tag: tagMap}
}

func stringNode(value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tagStr, Value: value}
}

func boolNode(value bool) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tagBool, Value: strconv.FormatBool(value)}
}

func appendPair(mapping *yaml.Node, key string, value *yaml.Node) {
	mapping.Content = append(mapping.Content, stringNode(key), value)
}

func appendScalarIfSet(mapping *yaml.Node, key, value string) {
	if value == "" {
		return
	}
	appendPair(mapping, key, stringNode(value))
}

// appendFields appends copies, so arranging the mapping never touches the document.
func appendFields(mapping *yaml.Node, fields Fields) {
	for _, field := range fields {
		appendPair(mapping, field.Key, detach(field.Value))
	}
}
