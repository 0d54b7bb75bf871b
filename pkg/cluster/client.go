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

package cluster

import (
	"context"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"

	"github.com/stefanprodan/kgroups/pkg/resource"
)

// Client is the contract between the worker and the remote cluster.
// Every call blocks until the cluster has answered, retries and backoff
// are the responsibility of the implementation.
type Client interface {
	// Create creates the desired object and returns the in-cluster object.
	Create(ctx context.Context, r *resource.Resource) (*unstructured.Unstructured, error)

	// Read returns the in-cluster object, or nil if it's not found.
	Read(ctx context.Context, r *resource.Resource) (*unstructured.Unstructured, error)

	// Update replaces the in-cluster object with the desired one.
	Update(ctx context.Context, r *resource.Resource) (*unstructured.Unstructured, error)

	// Delete removes the in-cluster object, objects that don't exist are reported as deleted.
	Delete(ctx context.Context, r *resource.Resource) (bool, error)

	// IsInitialized returns true if the cluster can be reached and is supported.
	IsInitialized(ctx context.Context) (bool, error)
}
