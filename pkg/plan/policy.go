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

package plan

import (
	"fmt"

	"github.com/stefanprodan/kgroups/pkg/resource"
)

// UnknownPrecedence is assigned to kinds missing from a Policy,
// these are installed last and deleted first.
const UnknownPrecedence = 5000

// Policy maps a resource kind to its install precedence, smallest first.
type Policy map[resource.Kind]int

// DefaultPolicy returns the default install precedence:
// namespaces, service accounts and RBAC first, then config and storage,
// then CRDs and custom objects, then workloads and services.
func DefaultPolicy() Policy {
	return Policy{
		resource.NamespaceKind:                1,
		resource.ServiceAccountKind:           5,
		resource.ClusterRoleKind:              10,
		resource.ClusterRoleBindingKind:       15,
		resource.SecretKind:                   20,
		resource.ConfigMapKind:                20,
		resource.StorageClassKind:             30,
		resource.PersistentVolumeKind:         40,
		resource.PersistentVolumeClaimKind:    45,
		resource.CustomResourceDefinitionKind: 50,
		resource.CustomObjectKind:             60,
		resource.DeploymentKind:               90,
		resource.ServiceKind:                  95,
	}
}

// Precedence returns the precedence of the given kind.
func (p Policy) Precedence(kind resource.Kind) int {
	if v, ok := p[kind]; ok {
		return v
	}
	return UnknownPrecedence
}

// OrderingKey returns the group weight multiplied by the kind precedence.
func (p Policy) OrderingKey(weight int, kind resource.Kind) int {
	return weight * p.Precedence(kind)
}

// With returns a copy of the policy with the given precedence overrides.
// The override keys are matched against the supported kinds ignoring case.
func (p Policy) With(overrides map[string]int) (Policy, error) {
	result := make(Policy, len(p))
	for k, v := range p {
		result[k] = v
	}
	for name, v := range overrides {
		kind, ok := resource.ParseKind(name)
		if !ok {
			return nil, fmt.Errorf("precedence override for unknown kind %q", name)
		}
		if v <= 0 {
			return nil, fmt.Errorf("precedence for %s must be greater than zero", kind)
		}
		result[kind] = v
	}
	return result, nil
}
