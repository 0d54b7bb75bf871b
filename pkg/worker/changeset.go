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

package worker

import (
	"fmt"

	"github.com/stefanprodan/kgroups/pkg/plan"
	"github.com/stefanprodan/kgroups/pkg/resource"
)

// Action represents the action type performed on a resource.
type Action string

const (
	CreatedAction    Action = "created"
	ConfiguredAction Action = "configured"
	DeletedAction    Action = "deleted"
	PlannedAction    Action = "planned"
	FoundAction      Action = "found"
	NotFoundAction   Action = "not found"
	FailedAction     Action = "failed"
)

// Operation is the name of a worker operation.
type Operation string

const (
	CreateOperation Operation = "create"
	PatchOperation  Operation = "patch"
	DeleteOperation Operation = "delete"
	ReadOperation   Operation = "read"
)

// ChangeSet holds the result of an operation performed on a list of resources.
type ChangeSet struct {
	// Operation is the operation that produced the change set.
	Operation Operation

	// DryRun is true if the resources were only planned.
	DryRun bool

	// Skipped is true if the operation was not confirmed.
	Skipped bool

	// Planned is the number of resources selected for the operation.
	Planned int

	Entries []ChangeSetEntry
}

func NewChangeSet(op Operation) *ChangeSet {
	return &ChangeSet{Operation: op, Entries: []ChangeSetEntry{}}
}

func (c *ChangeSet) Add(e ChangeSetEntry) {
	c.Entries = append(c.Entries, e)
}

// Succeeded returns the number of resources the operation was performed on.
func (c *ChangeSet) Succeeded() int {
	n := 0
	for _, e := range c.Entries {
		if e.Action != FailedAction && e.Action != PlannedAction {
			n++
		}
	}
	return n
}

// Failures returns the entries of the resources that failed.
func (c *ChangeSet) Failures() []ChangeSetEntry {
	var result []ChangeSetEntry
	for _, e := range c.Entries {
		if e.Action == FailedAction {
			result = append(result, e)
		}
	}
	return result
}

// Success returns true if the operation was performed on every planned resource.
// Dry runs succeed, a declined operation doesn't.
func (c *ChangeSet) Success() bool {
	if c.Skipped {
		return false
	}
	if c.DryRun {
		return true
	}
	return c.Succeeded() == c.Planned
}

// ChangeSetEntry defines the result of an action performed on a resource.
type ChangeSetEntry struct {
	// Subject represents the Object ID in the format 'kind/namespace/name'.
	Subject   string
	Kind      resource.Kind
	Name      string
	Namespace string

	// Group is the name of the owning group.
	Group string

	// Key is the resource ordering key.
	Key int

	// Action represents the action type taken by the worker for this resource.
	Action Action

	// Status is the kstatus of the in-cluster object, set by reads.
	Status string

	// Err is set for failed actions.
	Err error
}

func newEntry(item plan.Item, action Action) ChangeSetEntry {
	return ChangeSetEntry{
		Subject:   item.Resource.Subject(),
		Kind:      item.Resource.Kind,
		Name:      item.Resource.Name(),
		Namespace: item.Resource.Namespace(),
		Group:     item.Resource.Group,
		Key:       item.Key,
		Action:    action,
	}
}

func (e ChangeSetEntry) String() string {
	return fmt.Sprintf("%s %s", e.Subject, e.Action)
}
