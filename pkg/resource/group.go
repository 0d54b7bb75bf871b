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
	"sort"
)

// DefaultWeight is the group weight that has no effect on ordering.
// Groups with a lower weight are installed before the default groups,
// groups with a higher weight are installed after them.
const DefaultWeight = 100

// Group is a named bundle of resources belonging to one application.
// A group is built once per run and is not modified while it's being reconciled.
type Group struct {
	Name    string
	Enabled bool
	Weight  int

	Namespaces                []*Resource
	ServiceAccounts           []*Resource
	ClusterRoles              []*Resource
	ClusterRoleBindings       []*Resource
	Secrets                   []*Resource
	ConfigMaps                []*Resource
	StorageClasses            []*Resource
	Services                  []*Resource
	Deployments               []*Resource
	CustomObjects             []*Resource
	CustomResourceDefinitions []*Resource
	PersistentVolumes         []*Resource
	PersistentVolumeClaims    []*Resource
}

// NewGroup returns an enabled group with the default weight.
func NewGroup(name string) *Group {
	return &Group{
		Name:    name,
		Enabled: true,
		Weight:  DefaultWeight,
	}
}

// Add appends the resources to their kind collection and sets the owning group.
func (g *Group) Add(resources ...*Resource) error {
	for i, r := range resources {
		if r == nil {
			return fmt.Errorf("%s: resource at index %d is nil", g.Name, i)
		}
		c := g.collection(r.Kind)
		if c == nil {
			return fmt.Errorf("%s: unknown kind %q", g.Name, r.Kind)
		}
		r.Group = g.Name
		*c = append(*c, r)
	}
	return nil
}

// Collection returns the resources of the given kind.
func (g *Group) Collection(kind Kind) []*Resource {
	if c := g.collection(kind); c != nil {
		return *c
	}
	return nil
}

func (g *Group) collection(kind Kind) *[]*Resource {
	switch kind {
	case NamespaceKind:
		return &g.Namespaces
	case ServiceAccountKind:
		return &g.ServiceAccounts
	case ClusterRoleKind:
		return &g.ClusterRoles
	case ClusterRoleBindingKind:
		return &g.ClusterRoleBindings
	case SecretKind:
		return &g.Secrets
	case ConfigMapKind:
		return &g.ConfigMaps
	case StorageClassKind:
		return &g.StorageClasses
	case ServiceKind:
		return &g.Services
	case DeploymentKind:
		return &g.Deployments
	case CustomObjectKind:
		return &g.CustomObjects
	case CustomResourceDefinitionKind:
		return &g.CustomResourceDefinitions
	case PersistentVolumeKind:
		return &g.PersistentVolumes
	case PersistentVolumeClaimKind:
		return &g.PersistentVolumeClaims
	}
	return nil
}

// Resources returns all the resources of the group, collection by collection.
func (g *Group) Resources() []*Resource {
	var result []*Resource
	for _, kind := range Kinds {
		result = append(result, g.Collection(kind)...)
	}
	return result
}

// Len returns the number of resources in the group.
func (g *Group) Len() int {
	n := 0
	for _, kind := range Kinds {
		n += len(g.Collection(kind))
	}
	return n
}

// Groups holds the resource groups indexed by name.
type Groups map[string]*Group

// Add indexes the given groups by name, an existing group with the same name is replaced.
func (gs Groups) Add(groups ...*Group) {
	for _, g := range groups {
		gs[g.Name] = g
	}
}

// Names returns the group names in lexical order.
func (gs Groups) Names() []string {
	names := make([]string, 0, len(gs))
	for name := range gs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of resources in all groups.
func (gs Groups) Len() int {
	n := 0
	for _, g := range gs {
		n += g.Len()
	}
	return n
}
