// SPDX-FileCopyrightText:  © 2025 Siemens Healthineers AG
// SPDX-License-Identifier:   MIT

package kubeconfig

import (
	"errors"
	"fmt"
	"log/slog"
)

// ClusterBundle is the connection data of one cluster as handed over by the tooling that created it.
// Name is the desired name for the cluster, its context and its user.
type ClusterBundle struct {
	Name                     string
	Server                   string
	CertificateAuthority     string
	CertificateAuthorityData string
	InsecureSkipTLSVerify    bool
	Namespace                string
	Credentials              Fields
	ClusterExtra             Fields
}

func (b *ClusterBundle) Validate() error {
	if b.Name == "" {
		return errors.New("cluster bundle has no name")
	}
	if b.Server == "" {
		return fmt.Errorf("cluster bundle '%s' has no server URL", b.Name)
	}
	return nil
}

// BundleFromDocument extracts the cluster, user and namespace of the given context.
// An empty context name selects the document's current context.
func BundleFromDocument(doc *Document, contextName string) (*ClusterBundle, error) {
	if contextName == "" {
		contextName = doc.CurrentContext
	}
	if contextName == "" {
		return nil, errors.New("no context given and kubeconfig has no current context")
	}

	slog.Debug("Extracting cluster bundle", "context", contextName)

	context, found := doc.FindContext(contextName)
	if !found {
		return nil, &NotFoundError{Collection: CollectionContexts, Name: contextName}
	}
	cluster, found := doc.FindCluster(context.Cluster)
	if !found {
		return nil, &NotFoundError{Collection: CollectionClusters, Name: context.Cluster}
	}
	user, found := doc.FindUser(context.User)
	if !found {
		return nil, &NotFoundError{Collection: CollectionUsers, Name: context.User}
	}

	return &ClusterBundle{
		Name:                     contextName,
		Server:                   cluster.Server,
		CertificateAuthority:     cluster.CertificateAuthority,
		CertificateAuthorityData: cluster.CertificateAuthorityData,
		InsecureSkipTLSVerify:    cluster.InsecureSkipTLSVerify,
		Namespace:                context.Namespace,
		Credentials:              cloneFields(user.Credentials),
		ClusterExtra:             cloneFields(cluster.Extra),
	}, nil
}

func cloneFields(fields Fields) Fields {
	if fields == nil {
		return nil
	}
	cloned := make(Fields, len(fields))
	for i, field := range fields {
		cloned[i] = Field{Key: field.Key, Value: detach(field.Value)}
	}
	return cloned
}
