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
	"strings"

	"github.com/stefanprodan/kgroups/pkg/resource"
)

// Filter selects resources by name, kind and owning group.
// Empty fields match everything, set fields are combined with a logical AND.
type Filter struct {
	// Name matches resources whose name contains the value, ignoring case.
	Name string

	// Kind matches resources whose kind equals the value, ignoring case.
	Kind string

	// App matches groups whose name contains the value, ignoring case.
	App string
}

// MatchGroup returns true if the group name passes the app filter.
func (f Filter) MatchGroup(name string) bool {
	if f.App == "" {
		return true
	}
	return strings.Contains(strings.ToLower(name), strings.ToLower(f.App))
}

// MatchResource returns true if the resource passes the name and kind filters.
func (f Filter) MatchResource(r *resource.Resource) bool {
	if f.Name != "" && !strings.Contains(strings.ToLower(r.Name()), strings.ToLower(f.Name)) {
		return false
	}
	if f.Kind != "" && !strings.EqualFold(f.Kind, string(r.Kind)) {
		return false
	}
	return true
}

// IsEmpty returns true if no filter is set.
func (f Filter) IsEmpty() bool {
	return f.Name == "" && f.Kind == "" && f.App == ""
}
