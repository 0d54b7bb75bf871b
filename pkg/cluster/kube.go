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
	"fmt"

	"github.com/Masterminds/semver/v3"
	"github.com/go-logr/logr"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/api/meta"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/cli-runtime/pkg/genericclioptions"
	"k8s.io/client-go/discovery"
	"sigs.k8s.io/controller-runtime/pkg/client"

	"github.com/stefanprodan/kgroups/pkg/resource"
)

const (
	// DefaultFieldManager is the field owner used when none is configured.
	DefaultFieldManager = "kgroups"

	// DefaultOwnerGroup is the prefix of the owner labels.
	DefaultOwnerGroup = "kgroups.dev"
)

// Options holds the KubeClient settings.
type Options struct {
	// FieldManager is the field owner set on create and update.
	FieldManager string

	// OwnerGroup is the owner labels prefix, e.g. 'kgroups.dev/group: <group name>'.
	OwnerGroup string

	// MinVersion is a semver constraint the cluster version must satisfy, e.g. '>=1.20.0-0'.
	MinVersion string

	Log logr.Logger
}

// KubeClient implements Client for Kubernetes.
type KubeClient struct {
	client     client.Client
	discovery  discovery.ServerVersionInterface
	constraint *semver.Constraints
	opts       Options
}

var _ Client = &KubeClient{}

// NewKubeClient returns a client for the given controller-runtime client and discovery client.
func NewKubeClient(kubeClient client.Client, discovery discovery.ServerVersionInterface, opts Options) (*KubeClient, error) {
	if opts.FieldManager == "" {
		opts.FieldManager = DefaultFieldManager
	}
	if opts.OwnerGroup == "" {
		opts.OwnerGroup = DefaultOwnerGroup
	}
	if opts.Log.GetSink() == nil {
		opts.Log = logr.Discard()
	}

	kc := &KubeClient{
		client:    kubeClient,
		discovery: discovery,
		opts:      opts,
	}

	if opts.MinVersion != "" {
		constraint, err := semver.NewConstraint(opts.MinVersion)
		if err != nil {
			return nil, fmt.Errorf("invalid version constraint '%s': %w", opts.MinVersion, err)
		}
		kc.constraint = constraint
	}

	return kc, nil
}

// Connect returns a client for the cluster selected by the kubeconfig flags.
func Connect(getter genericclioptions.RESTClientGetter, opts Options) (*KubeClient, error) {
	cfg, err := getter.ToRESTConfig()
	if err != nil {
		return nil, fmt.Errorf("kubeconfig load failed: %w", err)
	}
	cfg.QPS = 50
	cfg.Burst = 100

	restMapper, err := getter.ToRESTMapper()
	if err != nil {
		return nil, fmt.Errorf("kubernetes client initialization failed: %w", err)
	}

	kubeClient, err := client.New(cfg, client.Options{
		Scheme: NewScheme(),
		Mapper: restMapper,
	})
	if err != nil {
		return nil, fmt.Errorf("kubernetes client initialization failed: %w", err)
	}

	discoveryClient, err := getter.ToDiscoveryClient()
	if err != nil {
		return nil, fmt.Errorf("discovery client initialization failed: %w", err)
	}

	return NewKubeClient(kubeClient, discoveryClient, opts)
}

// Create creates the object and returns the in-cluster version of it.
func (kc *KubeClient) Create(ctx context.Context, r *resource.Resource) (*unstructured.Unstructured, error) {
	object := kc.ownedCopy(r)
	if err := kc.client.Create(ctx, object, client.FieldOwner(kc.opts.FieldManager)); err != nil {
		return nil, err
	}
	return object, nil
}

// Read returns the in-cluster object, if the object or its kind is not found it returns nil.
func (kc *KubeClient) Read(ctx context.Context, r *resource.Resource) (*unstructured.Unstructured, error) {
	existingObject := &unstructured.Unstructured{}
	existingObject.SetGroupVersionKind(r.Desired.GroupVersionKind())
	err := kc.client.Get(ctx, client.ObjectKeyFromObject(r.Desired), existingObject)
	switch {
	case apierrors.IsNotFound(err), meta.IsNoMatchError(err):
		return nil, nil
	case err != nil:
		return nil, err
	}
	return existingObject, nil
}

// Update replaces the in-cluster object, the object must exist.
func (kc *KubeClient) Update(ctx context.Context, r *resource.Resource) (*unstructured.Unstructured, error) {
	existingObject, err := kc.Read(ctx, r)
	if err != nil {
		return nil, err
	}
	if existingObject == nil {
		return nil, fmt.Errorf("%s not found", r.Subject())
	}

	object := kc.ownedCopy(r)
	object.SetResourceVersion(existingObject.GetResourceVersion())
	if err := kc.client.Update(ctx, object, client.FieldOwner(kc.opts.FieldManager)); err != nil {
		return nil, err
	}
	return object, nil
}

// Delete removes the object with background propagation.
// Objects that are not found are considered deleted.
func (kc *KubeClient) Delete(ctx context.Context, r *resource.Resource) (bool, error) {
	err := kc.client.Delete(ctx, r.Desired.DeepCopy(), client.PropagationPolicy(metav1.DeletePropagationBackground))
	switch {
	case apierrors.IsNotFound(err), meta.IsNoMatchError(err):
		kc.opts.Log.V(1).Info("object not found", "subject", r.Subject())
		return true, nil
	case err != nil:
		return false, err
	}
	return true, nil
}

// IsInitialized returns true if the API server answers and its version matches the constraint.
// An unreachable server is not initialized, an unsupported version is an ErrUnsupportedVersion error.
func (kc *KubeClient) IsInitialized(ctx context.Context) (bool, error) {
	info, err := kc.discovery.ServerVersion()
	if err != nil {
		if apierrors.IsUnauthorized(err) {
			return false, err
		}
		kc.opts.Log.Info("cluster unreachable", "error", err.Error())
		return false, nil
	}

	if kc.constraint == nil {
		return true, nil
	}

	version, err := semver.NewVersion(info.GitVersion)
	if err != nil {
		return false, fmt.Errorf("%w: can't parse version '%s': %v", ErrUnsupportedVersion, info.GitVersion, err)
	}
	if !kc.constraint.Check(version) {
		return false, fmt.Errorf("%w: %s does not match '%s'", ErrUnsupportedVersion, info.GitVersion, kc.opts.MinVersion)
	}
	return true, nil
}

// OwnerLabels returns the labels set on every object created or updated for the given group.
func (kc *KubeClient) OwnerLabels(group string) map[string]string {
	return map[string]string{
		fmt.Sprintf("%s/group", kc.opts.OwnerGroup): group,
	}
}

func (kc *KubeClient) ownedCopy(r *resource.Resource) *unstructured.Unstructured {
	object := r.Desired.DeepCopy()
	labels := object.GetLabels()
	if labels == nil {
		labels = make(map[string]string)
	}
	for k, v := range kc.OwnerLabels(r.Group) {
		labels[k] = v
	}
	object.SetLabels(labels)
	return object
}
