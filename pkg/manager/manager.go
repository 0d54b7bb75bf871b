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

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-logr/logr"

	"github.com/stefanprodan/kgroups/pkg/cluster"
	"github.com/stefanprodan/kgroups/pkg/resource"
	"github.com/stefanprodan/kgroups/pkg/worker"
)

// ErrCannotProceed is returned when an operation is not allowed in the current status.
var ErrCannotProceed = errors.New("cannot proceed")

// Manager runs the worker operations allowed by the current status.
type Manager struct {
	worker *worker.Worker
	log    logr.Logger
	status Status
	err    error
}

// New returns a Manager in the PreInit status.
func New(w *worker.Worker, log logr.Logger) *Manager {
	return &Manager{
		worker: w,
		log:    log,
		status: PreInit,
	}
}

// Status probes the cluster and returns the current status.
// With refresh set, the status is reset to PreInit before probing,
// this is the only way to leave the Error status.
func (m *Manager) Status(ctx context.Context, refresh bool) Status {
	if refresh {
		m.status = PreInit
		m.err = nil
	}

	if m.status == PreInit {
		ok, err := m.worker.IsClientInitialized(ctx)
		switch {
		case err != nil:
			m.fail(err)
		case ok:
			m.status = Ready
		}
	}

	if m.status == Ready {
		active, err := m.worker.AreResourcesActive(ctx)
		switch {
		case err != nil:
			m.fail(err)
		case active:
			m.status = Active
		}
	}

	m.log.V(1).Info("status", "status", m.status.String())
	return m.status
}

// Err returns the error that moved the Manager to the Error status.
func (m *Manager) Err() error {
	return m.err
}

func (m *Manager) PlanCreate(ctx context.Context, opts worker.Options) (*worker.ChangeSet, error) {
	if err := m.gate(ctx, worker.CreateOperation, Status.CanCreate); err != nil {
		return nil, err
	}
	return m.worker.PlanCreate(opts), nil
}

func (m *Manager) Create(ctx context.Context, opts worker.Options) (*worker.ChangeSet, error) {
	if err := m.gate(ctx, worker.CreateOperation, Status.CanCreate); err != nil {
		return nil, err
	}
	return m.observe(m.worker.Create(ctx, opts))
}

func (m *Manager) PlanPatch(ctx context.Context, opts worker.Options) (*worker.ChangeSet, error) {
	if err := m.gate(ctx, worker.PatchOperation, Status.CanPatch); err != nil {
		return nil, err
	}
	return m.worker.PlanPatch(opts), nil
}

func (m *Manager) Patch(ctx context.Context, opts worker.Options) (*worker.ChangeSet, error) {
	if err := m.gate(ctx, worker.PatchOperation, Status.CanPatch); err != nil {
		return nil, err
	}
	return m.observe(m.worker.Patch(ctx, opts))
}

func (m *Manager) PlanDelete(ctx context.Context, opts worker.Options) (*worker.ChangeSet, error) {
	if err := m.gate(ctx, worker.DeleteOperation, Status.CanDelete); err != nil {
		return nil, err
	}
	return m.worker.PlanDelete(opts), nil
}

func (m *Manager) Delete(ctx context.Context, opts worker.Options) (*worker.ChangeSet, error) {
	if err := m.gate(ctx, worker.DeleteOperation, Status.CanDelete); err != nil {
		return nil, err
	}
	return m.observe(m.worker.Delete(ctx, opts))
}

// Read returns the desired groups matching the app filter.
func (m *Manager) Read(ctx context.Context, opts worker.Options) (resource.Groups, error) {
	if err := m.gate(ctx, worker.ReadOperation, Status.CanRead); err != nil {
		return nil, err
	}
	return m.worker.Read(opts), nil
}

// ReadResources reads the selected resources from the cluster.
func (m *Manager) ReadResources(ctx context.Context, opts worker.Options) (*worker.ChangeSet, error) {
	if err := m.gate(ctx, worker.ReadOperation, Status.CanRead); err != nil {
		return nil, err
	}
	return m.observe(m.worker.ReadResources(ctx, opts))
}

func (m *Manager) gate(ctx context.Context, op worker.Operation, allowed func(Status) bool) error {
	status := m.Status(ctx, false)
	if allowed(status) {
		return nil
	}

	m.log.V(1).Info("operation not allowed", "operation", string(op), "status", status.String())
	if status == Error && m.err != nil {
		return fmt.Errorf("%w: %s not allowed in %s status: %v", ErrCannotProceed, op, status, m.err)
	}
	return fmt.Errorf("%w: %s not allowed in %s status", ErrCannotProceed, op, status)
}

// observe moves the Manager to Error if a resource failed with an unrecoverable error.
func (m *Manager) observe(changeSet *worker.ChangeSet, err error) (*worker.ChangeSet, error) {
	if err != nil {
		return changeSet, err
	}
	for _, failure := range changeSet.Failures() {
		if cluster.IsUnrecoverable(failure.Err) {
			m.fail(failure.Err)
			break
		}
	}
	return changeSet, nil
}

func (m *Manager) fail(err error) {
	m.log.Error(err, "unrecoverable error", "status", m.status.String())
	m.status = Error
	m.err = err
}
