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
	"io"
	"os"

	"github.com/go-logr/logr"

	"github.com/stefanprodan/kgroups/pkg/cluster"
	"github.com/stefanprodan/kgroups/pkg/plan"
	"github.com/stefanprodan/kgroups/pkg/resource"
)

// Target describes the cluster the resources are reconciled onto,
// it's printed along with the plans.
type Target struct {
	Context   string
	Namespace string
}

// Options holds the arguments of a worker operation.
type Options struct {
	// Filter selects the resources to reconcile.
	Filter plan.Filter

	// AutoConfirm skips the plan confirmation.
	AutoConfirm bool
}

// Worker drives resource groups through create, read, patch and delete.
// Resources are reconciled one at a time, in the order given by the flattener.
type Worker struct {
	client    cluster.Client
	groups    resource.Groups
	flattener *plan.Flattener
	log       logr.Logger
	out       io.Writer
	prompter  Prompter
	target    Target

	continueOnFailure map[Operation]bool
}

// Option configures a Worker.
type Option func(w *Worker)

// WithLogger sets the logger, the default discards all logs.
func WithLogger(log logr.Logger) Option {
	return func(w *Worker) {
		w.log = log
	}
}

// WithOutput sets the writer for plans and progress, defaults to stdout.
func WithOutput(out io.Writer) Option {
	return func(w *Worker) {
		w.out = out
	}
}

// WithPrompter sets the confirmation prompter, defaults to reading from stdin.
func WithPrompter(p Prompter) Option {
	return func(w *Worker) {
		w.prompter = p
	}
}

// WithPolicy sets the ordering policy.
func WithPolicy(policy plan.Policy) Option {
	return func(w *Worker) {
		w.flattener.Policy = policy
	}
}

// WithTarget sets the cluster description printed with the plans.
func WithTarget(target Target) Option {
	return func(w *Worker) {
		w.target = target
	}
}

// WithContinueOnFailure sets whether the operation moves on to the next resource after a failure.
func WithContinueOnFailure(op Operation, enabled bool) Option {
	return func(w *Worker) {
		w.continueOnFailure[op] = enabled
	}
}

// New returns a worker for the given groups.
func New(client cluster.Client, groups resource.Groups, opts ...Option) *Worker {
	w := &Worker{
		client:    client,
		groups:    groups,
		flattener: plan.NewFlattener(plan.DefaultPolicy(), logr.Discard()),
		log:       logr.Discard(),
		out:       os.Stdout,
		continueOnFailure: map[Operation]bool{
			CreateOperation: true,
			PatchOperation:  true,
			DeleteOperation: true,
		},
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.prompter == nil {
		w.prompter = NewPrompter(os.Stdin, w.out)
	}
	w.flattener.Log = w.log.WithName("plan")
	return w
}

// Read returns the groups matching the app filter, the resources are not read from the cluster.
func (w *Worker) Read(opts Options) resource.Groups {
	result := resource.Groups{}
	for name, group := range w.groups {
		if opts.Filter.MatchGroup(name) {
			result[name] = group
		}
	}
	return result
}

// IsClientInitialized returns true if the cluster client is ready to be used.
func (w *Worker) IsClientInitialized(ctx context.Context) (bool, error) {
	return w.client.IsInitialized(ctx)
}

// AreResourcesActive returns true as soon as one of the enabled resources is found on the cluster.
// Only unrecoverable client errors are returned.
func (w *Worker) AreResourcesActive(ctx context.Context) (bool, error) {
	for _, item := range w.flattener.Flatten(w.groups, plan.Filter{}, plan.Create) {
		r := item.Resource
		observed, err := w.client.Read(ctx, r)
		if err != nil {
			if cluster.IsUnrecoverable(err) {
				return false, err
			}
			w.log.V(1).Info("read failed", "subject", r.Subject(), "error", err.Error())
			continue
		}
		if observed != nil {
			r.Observed = observed
			return true, nil
		}
	}
	return false, nil
}
