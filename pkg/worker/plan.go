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
)

// PlanCreate prints the resources that would be created, in order.
func (w *Worker) PlanCreate(opts Options) *ChangeSet {
	return w.dryRun(CreateOperation, plan.Create, opts)
}

// PlanPatch prints the resources that would be patched, in order.
func (w *Worker) PlanPatch(opts Options) *ChangeSet {
	return w.dryRun(PatchOperation, plan.Create, opts)
}

// PlanDelete prints the resources that would be deleted, in order.
func (w *Worker) PlanDelete(opts Options) *ChangeSet {
	return w.dryRun(DeleteOperation, plan.Delete, opts)
}

func (w *Worker) dryRun(op Operation, direction plan.Direction, opts Options) *ChangeSet {
	changeSet := NewChangeSet(op)
	changeSet.DryRun = true

	items := w.flattener.Flatten(w.groups, opts.Filter, direction)
	changeSet.Planned = len(items)
	if len(items) == 0 {
		fmt.Fprintf(w.out, "no resources to %s\n", op)
		return changeSet
	}

	for _, item := range items {
		changeSet.Add(newEntry(item, PlannedAction))
	}
	w.printPlan(items)
	return changeSet
}

func (w *Worker) printPlan(items []plan.Item) {
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		r := item.Resource
		rows = append(rows, []string{r.Group, string(r.Kind), r.Name(), r.Namespace(), fmt.Sprintf("%d", item.Key)})
	}
	PrintTable(w.out, []string{"group", "kind", "name", "namespace", "order"}, rows)

	fmt.Fprintln(w.out)
	if w.target.Context != "" {
		fmt.Fprintf(w.out, "context: %s\n", w.target.Context)
	}
	if w.target.Namespace != "" {
		fmt.Fprintf(w.out, "namespace: %s\n", w.target.Namespace)
	}
	fmt.Fprintf(w.out, "total: %d resource(s)\n", len(items))
}
