/*
Copyright 2021 Stefan Prodan

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package resource

import (
	"fmt"
	"strings"

	"k8s.io/apimachinery/pkg/runtime/schema"
)

// Kind is the category of a Resource inside a Group.
// For built-in objects it matches the Kubernetes kind,
// all custom resources share the CustomObject kind.
type Kind string

const (
	NamespaceKind                Kind = "Namespace"
	ServiceAccountKind           Kind = "ServiceAccount"
	ClusterRoleKind              Kind = "ClusterRole"
	ClusterRoleBindingKind       Kind = "ClusterRoleBinding"
	SecretKind                   Kind = "Secret"
	ConfigMapKind                Kind = "ConfigMap"
	StorageClassKind             Kind = "StorageClass"
	ServiceKind                  Kind = "Service"
	DeploymentKind               Kind = "Deployment"
	CustomObjectKind             Kind = "CustomObject"
	CustomResourceDefinitionKind Kind = "CustomResourceDefinition"
	PersistentVolumeKind         Kind = "PersistentVolume"
	PersistentVolumeClaimKind    Kind = "PersistentVolumeClaim"
)

// Kinds holds the supported kinds in the order
// their collections are traversed inside a Group.
var Kinds = []Kind{
	NamespaceKind,
	ServiceAccountKind,
	ClusterRoleKind,
	ClusterRoleBindingKind,
	SecretKind,
	ConfigMapKind,
	StorageClassKind,
	ServiceKind,
	DeploymentKind,
	CustomObjectKind,
	CustomResourceDefinitionKind,
	PersistentVolumeKind,
	PersistentVolumeClaimKind,
}

// builtinKinds maps the API group kinds of the supported built-in objects.
var builtinKinds = map[schema.GroupKind]Kind{
	{Group: "", Kind: "Namespace"}:                                    NamespaceKind,
	{Group: "", Kind: "ServiceAccount"}:                               ServiceAccountKind,
	{Group: "rbac.authorization.k8s.io", Kind: "ClusterRole"}:         ClusterRoleKind,
	{Group: "rbac.authorization.k8s.io", Kind: "ClusterRoleBinding"}:  ClusterRoleBindingKind,
	{Group: "", Kind: "Secret"}:                                       SecretKind,
	{Group: "", Kind: "ConfigMap"}:                                    ConfigMapKind,
	{Group: "storage.k8s.io", Kind: "StorageClass"}:                   StorageClassKind,
	{Group: "", Kind: "Service"}:                                      ServiceKind,
	{Group: "apps", Kind: "Deployment"}:                               DeploymentKind,
	{Group: "apiextensions.k8s.io", Kind: "CustomResourceDefinition"}: CustomResourceDefinitionKind,
	{Group: "", Kind: "PersistentVolume"}:                             PersistentVolumeKind,
	{Group: "", Kind: "PersistentVolumeClaim"}:                        PersistentVolumeClaimKind,
}

func (k Kind) String() string {
	return string(k)
}

// ClusterScoped returns true for kinds that never carry a namespace.
func (k Kind) ClusterScoped() bool {
	switch k {
	case NamespaceKind, ClusterRoleKind, ClusterRoleBindingKind, StorageClassKind,
		CustomResourceDefinitionKind, PersistentVolumeKind:
		return true
	}
	return false
}

// ParseKind looks up a supported kind by name, ignoring case.
func ParseKind(s string) (Kind, bool) {
	for _, k := range Kinds {
		if strings.EqualFold(string(k), s) {
			return k, true
		}
	}
	return "", false
}

// KindOf returns the Kind of the given API group kind.
// Kinds from non built-in API groups are custom objects,
// built-in kinds outside the supported set are rejected.
func KindOf(gk schema.GroupKind) (Kind, error) {
	if k, ok := builtinKinds[gk]; ok {
		return k, nil
	}
	if gk.Kind == "" {
		return "", fmt.Errorf("object kind is empty")
	}
	if isBuiltinGroup(gk.Group) {
		return "", fmt.Errorf("%s is not a supported kind", FmtGroupKind(gk))
	}
	return CustomObjectKind, nil
}

func isBuiltinGroup(group string) bool {
	return !strings.Contains(group, ".") || strings.HasSuffix(group, ".k8s.io")
}

// FmtGroupKind formats the group kind as 'kind.group', or 'kind' for the core group.
func FmtGroupKind(gk schema.GroupKind) string {
	if gk.Group == "" {
		return gk.Kind
	}
	return gk.Kind + "." + gk.Group
}
