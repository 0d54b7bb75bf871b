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
	"bytes"
	"fmt"
	"path/filepath"

	"github.com/go-logr/logr"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"sigs.k8s.io/kustomize/kyaml/filesys"
	"sigs.k8s.io/yaml"

	"github.com/stefanprodan/kgroups/pkg/resource"
)

// Builder turns a GroupList into resource groups.
type Builder struct {
	fs        filesys.FileSystem
	log       logr.Logger
	namespace string
}

// New returns a Builder reading from the given file system, or from disk if fs is nil.
func New(fs filesys.FileSystem, log logr.Logger) *Builder {
	if fs == nil {
		fs = filesys.MakeFsOnDisk()
	}
	return &Builder{fs: fs, log: log}
}

// WithNamespace sets the namespace of the namespaced objects
// that don't specify one and belong to a group without a namespace.
func (b *Builder) WithNamespace(namespace string) *Builder {
	b.namespace = namespace
	return b
}

// ReadFile decodes the GroupList from the given file.
func (b *Builder) ReadFile(path string) (*GroupList, error) {
	data, err := b.fs.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s failed: %w", path, err)
	}

	list := &GroupList{}
	if err := yaml.UnmarshalStrict(data, list); err != nil {
		return nil, fmt.Errorf("decoding %s failed: %w", path, err)
	}

	if list.Kind != "" && list.Kind != GroupListKind {
		return nil, fmt.Errorf("%s: expected kind %s got %s", path, GroupListKind, list.Kind)
	}
	if list.APIVersion != "" && list.APIVersion != APIVersion {
		return nil, fmt.Errorf("%s: expected apiVersion %s got %s", path, APIVersion, list.APIVersion)
	}
	return list, nil
}

// BuildFile reads the GroupList from the given file and builds its groups.
// Relative manifest and kustomize paths are resolved from the file directory.
func (b *Builder) BuildFile(path string) (resource.Groups, error) {
	list, err := b.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return b.Build(list, filepath.Dir(path))
}

// Build creates a Group for every GroupSpec.
// Groups are enabled and have the default weight unless specified.
// Objects of unsupported kinds are skipped.
func (b *Builder) Build(list *GroupList, baseDir string) (resource.Groups, error) {
	groups := resource.Groups{}
	for i, spec := range list.Groups {
		if spec.Name == "" {
			return nil, fmt.Errorf("group at index %d has no name", i)
		}
		if _, ok := groups[spec.Name]; ok {
			return nil, fmt.Errorf("group %s is defined more than once", spec.Name)
		}

		group, err := b.buildGroup(spec, baseDir)
		if err != nil {
			return nil, fmt.Errorf("group %s: %w", spec.Name, err)
		}
		groups.Add(group)
		b.log.V(1).Info("group built", "group", group.Name, "resources", group.Len())
	}
	return groups, nil
}

func (b *Builder) buildGroup(spec GroupSpec, baseDir string) (*resource.Group, error) {
	group := resource.NewGroup(spec.Name)
	if spec.Enabled != nil {
		group.Enabled = *spec.Enabled
	}
	if spec.Weight != nil {
		if *spec.Weight <= 0 {
			return nil, fmt.Errorf("weight must be greater than zero, got %d", *spec.Weight)
		}
		group.Weight = *spec.Weight
	}

	objects, err := b.objects(spec, baseDir)
	if err != nil {
		return nil, err
	}

	namespace := spec.Namespace
	if namespace == "" {
		namespace = b.namespace
	}

	for _, object := range objects {
		r, err := resource.FromObject(object)
		if err != nil {
			b.log.Info("skipping object", "warning", true, "group", spec.Name, "error", err.Error())
			continue
		}
		if namespace != "" && object.GetNamespace() == "" &&
			r.Kind != resource.CustomObjectKind && !r.Kind.ClusterScoped() {
			object.SetNamespace(namespace)
		}
		if err := group.Add(r); err != nil {
			return nil, err
		}
	}

	return group, nil
}

func (b *Builder) objects(spec GroupSpec, baseDir string) ([]*unstructured.Unstructured, error) {
	var objects []*unstructured.Unstructured

	for i, raw := range spec.Resources {
		objs, err := ReadObjects(bytes.NewReader(raw.Raw))
		if err != nil {
			return nil, fmt.Errorf("decoding resource at index %d failed: %w", i, err)
		}
		objects = append(objects, objs...)
	}

	if len(spec.Manifests) > 0 {
		paths := make([]string, 0, len(spec.Manifests))
		for _, p := range spec.Manifests {
			paths = append(paths, resolve(baseDir, p))
		}
		manifests, err := b.scan(paths)
		if err != nil {
			return nil, err
		}
		for _, manifest := range manifests {
			data, err := b.fs.ReadFile(manifest)
			if err != nil {
				return nil, err
			}
			objs, err := ReadObjects(bytes.NewReader(data))
			if err != nil {
				return nil, fmt.Errorf("decoding %s failed: %w", manifest, err)
			}
			objects = append(objects, objs...)
		}
	}

	if spec.Kustomize != "" {
		data, err := buildKustomization(b.fs, resolve(baseDir, spec.Kustomize))
		if err != nil {
			return nil, fmt.Errorf("kustomize build failed: %w", err)
		}
		objs, err := ReadObjects(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		objects = append(objects, objs...)
	}

	return objects, nil
}

func resolve(baseDir, p string) string {
	if filepath.IsAbs(p) || baseDir == "" {
		return p
	}
	return filepath.Join(baseDir, p)
}
