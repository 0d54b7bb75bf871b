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
	"errors"
	"fmt"
	"io"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	apiruntime "k8s.io/apimachinery/pkg/runtime"
	yamlutil "k8s.io/apimachinery/pkg/util/yaml"
)

const kustomizeGroup = "kustomize.config.k8s.io"

// ReadObjects decodes a YAML or JSON multi-doc into unstructured objects.
// List items are flattened into the result. Empty documents and
// Kustomization files are dropped, as are objects missing a name, kind or apiVersion.
func ReadObjects(r io.Reader) ([]*unstructured.Unstructured, error) {
	decoder := yamlutil.NewYAMLOrJSONDecoder(r, 4096)

	var result []*unstructured.Unstructured
	keep := func(u *unstructured.Unstructured) {
		if isObject(u) && !isKustomization(u) {
			result = append(result, u)
		}
	}

	for doc := 0; ; doc++ {
		u := &unstructured.Unstructured{}
		if err := decoder.Decode(u); err != nil {
			if errors.Is(err, io.EOF) {
				return result, nil
			}
			return result, fmt.Errorf("document %d: %w", doc, err)
		}

		if !u.IsList() {
			keep(u)
			continue
		}

		err := u.EachListItem(func(item apiruntime.Object) error {
			if obj, ok := item.(*unstructured.Unstructured); ok {
				keep(obj)
			}
			return nil
		})
		if err != nil {
			return result, fmt.Errorf("document %d: %w", doc, err)
		}
	}
}

func isObject(u *unstructured.Unstructured) bool {
	return u.GetName() != "" && u.GetKind() != "" && u.GetAPIVersion() != ""
}

func isKustomization(u *unstructured.Unstructured) bool {
	return u.GetKind() == "Kustomization" && u.GroupVersionKind().Group == kustomizeGroup
}
