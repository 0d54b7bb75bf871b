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
)

// ApplyOrder sorts items by ordering key, smallest first.
type ApplyOrder []Item

var _ sort.Interface = ApplyOrder{}

func (a ApplyOrder) Len() int      { return len(a) }
func (a ApplyOrder) Swap(i, j int) { a[i], a[j] = a[j], a[i] }
func (a ApplyOrder) Less(i, j int) bool {
	return less(a[i], a[j])
}

// DeleteOrder sorts items by ordering key, largest first.
// It reverses the whole comparison, so the tie-breakers are reversed too.
type DeleteOrder []Item

var _ sort.Interface = DeleteOrder{}

func (a DeleteOrder) Len() int      { return len(a) }
func (a DeleteOrder) Swap(i, j int) { a[i], a[j] = a[j], a[i] }
func (a DeleteOrder) Less(i, j int) bool {
	return less(a[j], a[i])
}

func less(i, j Item) bool {
	if i.Key != j.Key {
		return i.Key < j.Key
	}
	// In case of tie, compare the kind and name so that copies of the
	// same resource coming from different groups end up next to each other
	if i.Resource.Kind != j.Resource.Kind {
		return i.Resource.Kind < j.Resource.Kind
	}
	if i.Resource.Name() != j.Resource.Name() {
		return i.Resource.Name() < j.Resource.Name()
	}
	return i.Resource.Namespace() < j.Resource.Namespace()
}
