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
	"sort"

	"github.com/go-logr/logr"

	"github.com/stefanprodan/kgroups/pkg/resource"
)

// Direction selects the sort order of a flattened plan.
type Direction string

const (
	// Create orders resources by ascending ordering key.
	Create Direction = "create"
	// Delete orders resources by descending ordering key.
	Delete Direction = "delete"
)

// Item is a resource paired with the weight of its group and its ordering key.
type Item struct {
	Resource *resource.Resource
	Weight   int
	Key      int
}

// Flattener turns resource groups into an ordered list of resources.
type Flattener struct {
	Policy Policy
	Log    logr.Logger
}

// NewFlattener returns a Flattener for the given policy.
func NewFlattener(policy Policy, log logr.Logger) *Flattener {
	return &Flattener{Policy: policy, Log: log}
}

// Flatten walks the enabled groups matching the filter and returns their
// resources sorted in the given direction, with duplicates removed.
//
// Groups are traversed in name order and resources in the group kind order,
// so for the same input the result is always the same.
func (f *Flattener) Flatten(groups resource.Groups, filter Filter, direction Direction) []Item {
	policy := f.Policy
	if policy == nil {
		policy = DefaultPolicy()
	}

	if !filter.IsEmpty() {
		f.Log.V(1).Info("filtering resources", "name", filter.Name, "kind", filter.Kind, "app", filter.App)
	}

	items := make([]Item, 0)
	for _, name := range groups.Names() {
		group := groups[name]
		if group == nil || !group.Enabled {
			continue
		}

		if !filter.MatchGroup(name) {
			f.Log.V(1).Info("skipping group", "group", name)
			continue
		}

		for _, kind := range resource.Kinds {
			for _, r := range group.Collection(kind) {
				if r == nil {
					f.Log.Info("skipping nil resource", "warning", true, "group", name, "kind", kind)
					continue
				}
				if err := r.Validate(); err != nil {
					f.Log.Info("skipping malformed resource", "warning", true, "group", name, "error", err.Error())
					continue
				}
				if !filter.MatchResource(r) {
					f.Log.V(1).Info("skipping resource", "subject", r.Subject())
					continue
				}
				items = append(items, Item{
					Resource: r,
					Weight:   group.Weight,
					Key:      policy.OrderingKey(group.Weight, r.Kind),
				})
			}
		}
	}

	switch direction {
	case Delete:
		sort.Stable(DeleteOrder(items))
	default:
		sort.Stable(ApplyOrder(items))
	}

	return Dedup(items)
}

// Dedup drops items that have the same kind, name and ordering key as the
// previous kept item. Only adjacent duplicates are removed, this is enough
// for the shared namespaces and service accounts of a sorted plan.
func Dedup(items []Item) []Item {
	result := make([]Item, 0, len(items))
	for _, item := range items {
		if n := len(result); n > 0 {
			prev := result[n-1]
			if item.Key == prev.Key &&
				item.Resource.Kind == prev.Resource.Kind &&
				item.Resource.Name() == prev.Resource.Name() {
				continue
			}
		}
		result = append(result, item)
	}
	return result
}

// Resources returns the resources of the given items, in order.
func Resources(items []Item) []*resource.Resource {
	result := make([]*resource.Resource, 0, len(items))
	for _, item := range items {
		result = append(result, item.Resource)
	}
	return result
}
