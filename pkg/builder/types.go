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

package builder

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
)

const (
	APIVersion    = "kgroups.dev/v1"
	GroupListKind = "GroupList"
)

// GroupList is the document describing the resource groups of a project.
type GroupList struct {
	metav1.TypeMeta `json:",inline"`

	Groups []GroupSpec `json:"groups"`
}

// GroupSpec describes the resources of one application.
type GroupSpec struct {
	// Name of the group, must be unique.
	Name string `json:"name"`

	// Enabled defaults to true.
	// +optional
	Enabled *bool `json:"enabled,omitempty"`

	// Weight orders the group relative to others, defaults to 100.
	// +optional
	Weight *int `json:"weight,omitempty"`

	// Namespace is set on the namespaced objects that don't specify one.
	// +optional
	Namespace string `json:"namespace,omitempty"`

	// Resources holds inline Kubernetes objects.
	// +optional
	Resources []runtime.RawExtension `json:"resources,omitempty"`

	// Manifests holds paths to YAML files or directories,
	// directories are scanned recursively for .yaml and .yml files.
	// +optional
	Manifests []string `json:"manifests,omitempty"`

	// Kustomize is the path to a directory that contains a kustomization.yaml.
	// +optional
	Kustomize string `json:"kustomize,omitempty"`
}
