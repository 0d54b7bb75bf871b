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

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
)

// Resource is a single addressable cluster object.
//
// Desired is constructed by a builder and never changes during a pass.
// Observed is written by the worker after a successful read, create or update,
// and cleared after a successful delete. The worker runs a batch sequentially,
// so Observed is written at most once per loop turn and is never accessed
// concurrently. Running CRUD calls in parallel requires revisiting this.
type Resource struct {
	// Kind is the collection the resource belongs to, used for ordering and filtering.
	Kind Kind

	// Group is the name of the owning ResourceGroup.
	Group string

	// Desired is the payload to be applied on the cluster.
	Desired *unstructured.Unstructured

	// Observed is the in-cluster payload, nil until read, created or updated.
	Observed *unstructured.Unstructured
}

// New creates a Resource of the given kind from the desired object.
func New(kind Kind, desired *unstructured.Unstructured) *Resource {
	return &Resource{Kind: kind, Desired: desired}
}

// NewObject returns an object stub with the given type and metadata.
func NewObject(apiVersion, kind, namespace, name string) *unstructured.Unstructured {
	u := &unstructured.Unstructured{}
	u.SetAPIVersion(apiVersion)
	u.SetKind(kind)
	u.SetNamespace(namespace)
	u.SetName(name)
	return u
}

// FromObject creates a Resource, deriving its kind from the object API group and kind.
func FromObject(desired *unstructured.Unstructured) (*Resource, error) {
	kind, err := KindOf(desired.GroupVersionKind().GroupKind())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", FmtUnstructured(desired), err)
	}
	return New(kind, desired), nil
}

// Name returns the object name.
func (r *Resource) Name() string {
	if r.Desired == nil {
		return ""
	}
	return r.Desired.GetName()
}

// Namespace returns the object namespace, empty for cluster-scoped objects.
func (r *Resource) Namespace() string {
	if r.Desired == nil {
		return ""
	}
	return r.Desired.GetNamespace()
}

// Subject returns the resource ID in the format 'kind/namespace/name'.
func (r *Resource) Subject() string {
	if r.Desired == nil {
		return fmt.Sprintf("%s/<nil>", r.Kind)
	}
	return FmtUnstructured(r.Desired)
}

// IsActive returns true if the resource was observed on the cluster.
func (r *Resource) IsActive() bool {
	return r.Observed != nil
}

// Validate checks that the resource can be sent to the cluster.
func (r *Resource) Validate() error {
	if r.Desired == nil {
		return fmt.Errorf("%s has no payload", r.Kind)
	}
	if r.Name() == "" {
		return fmt.Errorf("%s has no name", r.Subject())
	}
	if r.Desired.GetKind() == "" || r.Desired.GetAPIVersion() == "" {
		return fmt.Errorf("%s has no apiVersion or kind", r.Subject())
	}
	kind, err := KindOf(r.Desired.GroupVersionKind().GroupKind())
	if err != nil {
		return err
	}
	if kind != r.Kind {
		return fmt.Errorf("%s does not match the %s collection", r.Subject(), r.Kind)
	}
	return nil
}
