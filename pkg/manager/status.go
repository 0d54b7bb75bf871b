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

package manager

// Status is the state of a Manager.
type Status string

const (
	// PreInit is the initial state, the cluster client has not been probed yet
	// or it's not ready.
	PreInit Status = "PreInit"

	// Ready means the cluster client is initialized.
	Ready Status = "Ready"

	// Active means the client is initialized and at least one resource exists on the cluster.
	Active Status = "Active"

	// Error means the client failed with an unrecoverable error,
	// the status must be refreshed to leave this state.
	Error Status = "Error"
)

func (s Status) String() string {
	return string(s)
}

// CanCreate returns true if resources can be created or planned for creation.
func (s Status) CanCreate() bool {
	return s == Ready || s == Active
}

// CanPatch returns true if resources can be patched or planned for patching.
func (s Status) CanPatch() bool {
	return s == Ready || s == Active
}

// CanDelete returns true if resources can be deleted or planned for deletion.
func (s Status) CanDelete() bool {
	return s == Ready || s == Active
}

// CanRead returns true if resources can be read.
func (s Status) CanRead() bool {
	return s == Ready || s == Active
}
