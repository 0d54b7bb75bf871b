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

package main

import (
	"context"
	"fmt"

	"github.com/spf13/pflag"

	"github.com/stefanprodan/kgroups/pkg/manager"
	"github.com/stefanprodan/kgroups/pkg/plan"
	"github.com/stefanprodan/kgroups/pkg/worker"
)

type filterFlags struct {
	name string
	kind string
	app  string
}

func (f *filterFlags) addFlags(flags *pflag.FlagSet) {
	flags.StringVar(&f.name, "name", "", "Select the resources whose name contains the given value.")
	flags.StringVar(&f.kind, "kind", "", "Select the resources of the given kind, e.g. Deployment.")
	flags.StringVar(&f.app, "app", "", "Select the groups whose name contains the given value.")
}

func (f filterFlags) filter() plan.Filter {
	return plan.Filter{Name: f.name, Kind: f.kind, App: f.app}
}

type operationFlags struct {
	filterFlags
	dryRun bool
	yes    bool
}

func (f *operationFlags) addFlags(flags *pflag.FlagSet) {
	f.filterFlags.addFlags(flags)
	flags.BoolVar(&f.dryRun, "dry-run", false, "Print the resources in the order they would be reconciled, without making any changes.")
	flags.BoolVarP(&f.yes, "yes", "y", false, "Skip the confirmation prompt.")
}

type operation struct {
	name string
	plan func(m *manager.Manager, ctx context.Context, opts worker.Options) (*worker.ChangeSet, error)
	run  func(m *manager.Manager, ctx context.Context, opts worker.Options) (*worker.ChangeSet, error)
}

var (
	createOperation = operation{
		name: "create",
		plan: (*manager.Manager).PlanCreate,
		run:  (*manager.Manager).Create,
	}
	patchOperation = operation{
		name: "patch",
		plan: (*manager.Manager).PlanPatch,
		run:  (*manager.Manager).Patch,
	}
	deleteOperation = operation{
		name: "delete",
		plan: (*manager.Manager).PlanDelete,
		run:  (*manager.Manager).Delete,
	}
)

func runOperation(m *manager.Manager, op operation, flags operationFlags) error {
	ctx, cancel := context.WithTimeout(context.Background(), rootArgs.timeout)
	defer cancel()

	opts := worker.Options{
		Filter:      flags.filter(),
		AutoConfirm: flags.yes,
	}

	if flags.dryRun {
		_, err := op.plan(m, ctx, opts)
		return err
	}

	changeSet, err := op.run(m, ctx, opts)
	if err != nil {
		return err
	}

	switch {
	case changeSet.Skipped:
		logger.Println(`►`, fmt.Sprintf("%s skipped", op.name))
	case !changeSet.Success():
		return fmt.Errorf("%s failed for %d out of %d resources", op.name,
			changeSet.Planned-changeSet.Succeeded(), changeSet.Planned)
	case changeSet.Planned > 0:
		logger.Println(`✔`, fmt.Sprintf("%s finished", op.name))
	}
	return nil
}
