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
	"context"
	"errors"
	"fmt"

	"github.com/stefanprodan/kgroups/pkg/plan"
	"github.com/stefanprodan/kgroups/pkg/resource"
)

// reconciler describes how an operation is performed on each resource.
type reconciler struct {
	op        Operation
	direction plan.Direction
	verb      string
	done      string
	action    Action
	apply     func(ctx context.Context, r *resource.Resource) error
}

// Create creates the resources in ascending order.
func (w *Worker) Create(ctx context.Context, opts Options) (*ChangeSet, error) {
	return w.reconcile(ctx, opts, reconciler{
		op:        CreateOperation,
		direction: plan.Create,
		verb:      "creating",
		done:      "created",
		action:    CreatedAction,
		apply: func(ctx context.Context, r *resource.Resource) error {
			observed, err := w.client.Create(ctx, r)
			if err != nil {
				return err
			}
			if observed == nil {
				return errors.New("no object returned")
			}
			r.Observed = observed
			return nil
		},
	})
}

// Patch updates the resources in ascending order,
// dependencies are updated before the resources depending on them.
func (w *Worker) Patch(ctx context.Context, opts Options) (*ChangeSet, error) {
	return w.reconcile(ctx, opts, reconciler{
		op:        PatchOperation,
		direction: plan.Create,
		verb:      "patching",
		done:      "patched",
		action:    ConfiguredAction,
		apply: func(ctx context.Context, r *resource.Resource) error {
			observed, err := w.client.Update(ctx, r)
			if err != nil {
				return err
			}
			if observed == nil {
				return errors.New("no object returned")
			}
			r.Observed = observed
			return nil
		},
	})
}

// Delete deletes the resources in descending order.
func (w *Worker) Delete(ctx context.Context, opts Options) (*ChangeSet, error) {
	return w.reconcile(ctx, opts, reconciler{
		op:        DeleteOperation,
		direction: plan.Delete,
		verb:      "deleting",
		done:      "deleted",
		action:    DeletedAction,
		apply: func(ctx context.Context, r *resource.Resource) error {
			ok, err := w.client.Delete(ctx, r)
			if err != nil {
				return err
			}
			if !ok {
				return errors.New("object not deleted")
			}
			r.Observed = nil
			return nil
		},
	})
}

// reconcile runs the operation on each resource, a failed resource
// doesn't stop the batch unless continue on failure is disabled for the operation.
// Per-resource errors are recorded in the change set and never returned.
func (w *Worker) reconcile(ctx context.Context, opts Options, rc reconciler) (*ChangeSet, error) {
	changeSet := NewChangeSet(rc.op)
	items := w.flattener.Flatten(w.groups, opts.Filter, rc.direction)
	changeSet.Planned = len(items)

	if len(items) == 0 {
		fmt.Fprintf(w.out, "no resources to %s\n", rc.op)
		return changeSet, nil
	}

	if !opts.AutoConfirm {
		w.printPlan(items)
		confirmed, err := w.prompter.Confirm(fmt.Sprintf("Confirm %s", rc.op))
		if err != nil {
			return changeSet, fmt.Errorf("confirmation failed: %w", err)
		}
		if !confirmed {
			changeSet.Skipped = true
			fmt.Fprintf(w.out, "skipping %s\n", rc.op)
			return changeSet, nil
		}
	}

	for i, item := range items {
		r := item.Resource
		fmt.Fprintf(w.out, "► %s %s\n", rc.verb, r.Subject())
		w.logPayload(rc.op, r)

		if err := rc.apply(ctx, r); err != nil {
			entry := newEntry(item, FailedAction)
			entry.Err = fmt.Errorf("%s %s failed: %w", r.Subject(), rc.op, err)
			changeSet.Add(entry)

			w.log.Error(err, "reconciliation failed",
				"operation", string(rc.op), "kind", string(r.Kind), "name", r.Name(), "namespace", r.Namespace(), "group", r.Group)
			fmt.Fprintf(w.out, "✗ %s\n", entry.Err)

			if !w.continueOnFailure[rc.op] {
				w.log.Info("stopping after failure", "operation", string(rc.op), "remaining", len(items)-i-1)
				break
			}
			continue
		}

		entry := newEntry(item, rc.action)
		changeSet.Add(entry)
		fmt.Fprintf(w.out, "✔ %s\n", entry)
	}

	fmt.Fprintf(w.out, "%d %s out of %d planned\n", changeSet.Succeeded(), rc.done, changeSet.Planned)
	if !changeSet.Success() {
		w.log.Info("not all resources were reconciled", "operation", string(rc.op),
			"succeeded", changeSet.Succeeded(), "planned", changeSet.Planned)
	}

	return changeSet, nil
}

// logPayload prints the desired object at debug level, secret values are masked.
func (w *Worker) logPayload(op Operation, r *resource.Resource) {
	if !w.log.V(1).Enabled() || op == DeleteOperation {
		return
	}
	object := r.Desired
	if r.Kind == resource.SecretKind {
		masked, err := resource.MaskSecret(object, "****")
		if err != nil {
			return
		}
		object = masked
	}
	w.log.V(1).Info("desired object", "subject", r.Subject(), "object", object.Object)
}
