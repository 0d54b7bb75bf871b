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
	"fmt"

	"sigs.k8s.io/cli-utils/pkg/kstatus/status"

	"github.com/stefanprodan/kgroups/pkg/plan"
)

// ReadResources reads the resources from the cluster and stores the in-cluster objects.
// Found entries carry the kstatus of the object.
func (w *Worker) ReadResources(ctx context.Context, opts Options) (*ChangeSet, error) {
	changeSet := NewChangeSet(ReadOperation)
	items := w.flattener.Flatten(w.groups, opts.Filter, plan.Create)
	changeSet.Planned = len(items)

	for _, item := range items {
		r := item.Resource
		observed, err := w.client.Read(ctx, r)
		if err != nil {
			entry := newEntry(item, FailedAction)
			entry.Err = fmt.Errorf("%s %s failed: %w", r.Subject(), ReadOperation, err)
			changeSet.Add(entry)
			w.log.Error(err, "read failed", "kind", string(r.Kind), "name", r.Name(), "namespace", r.Namespace())
			continue
		}

		r.Observed = observed
		if observed == nil {
			changeSet.Add(newEntry(item, NotFoundAction))
			continue
		}

		entry := newEntry(item, FoundAction)
		if res, err := status.Compute(observed); err == nil {
			entry.Status = string(res.Status)
		} else {
			w.log.V(1).Info("status unknown", "subject", r.Subject(), "error", err.Error())
		}
		changeSet.Add(entry)
	}

	return changeSet, nil
}
