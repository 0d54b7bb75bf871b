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
	"fmt"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"

	"github.com/stefanprodan/kgroups/pkg/builder"
	"github.com/stefanprodan/kgroups/pkg/cluster"
	"github.com/stefanprodan/kgroups/pkg/manager"
	"github.com/stefanprodan/kgroups/pkg/worker"
)

// newClusterClient connects to the cluster selected by the kubeconfig flags.
var newClusterClient = func(log logr.Logger) (cluster.Client, error) {
	return cluster.Connect(kubeconfigArgs, cluster.Options{
		FieldManager: cfg.FieldManager.Name,
		OwnerGroup:   cfg.FieldManager.Group,
		MinVersion:   cfg.MinKubeVersion,
		Log:          log,
	})
}

// newManager builds the groups from the GroupList file and
// returns a manager for the cluster selected by the kubeconfig flags.
func newManager(cmd *cobra.Command) (*manager.Manager, error) {
	if rootArgs.groups == "" {
		return nil, fmt.Errorf("--groups is required")
	}

	log := newLogger()

	groups, err := builder.New(nil, log.WithName("builder")).
		WithNamespace(*kubeconfigArgs.Namespace).
		BuildFile(rootArgs.groups)
	if err != nil {
		return nil, err
	}

	policy, err := cfg.Policy()
	if err != nil {
		return nil, err
	}

	client, err := newClusterClient(log.WithName("cluster"))
	if err != nil {
		return nil, fmt.Errorf("client init failed: %w", err)
	}

	w := worker.New(client, groups,
		worker.WithLogger(log.WithName("worker")),
		worker.WithOutput(cmd.OutOrStdout()),
		worker.WithPrompter(worker.NewPrompter(cmd.InOrStdin(), cmd.OutOrStdout())),
		worker.WithPolicy(policy),
		worker.WithTarget(target()),
		worker.WithContinueOnFailure(worker.CreateOperation, cfg.ContinueOnFailure.Create),
		worker.WithContinueOnFailure(worker.PatchOperation, cfg.ContinueOnFailure.Patch),
		worker.WithContinueOnFailure(worker.DeleteOperation, cfg.ContinueOnFailure.Delete),
	)

	return manager.New(w, log.WithName("manager")), nil
}

// target returns the kubeconfig context and the default namespace.
func target() worker.Target {
	t := worker.Target{Namespace: *kubeconfigArgs.Namespace}
	if kubeconfigArgs.Context != nil && *kubeconfigArgs.Context != "" {
		t.Context = *kubeconfigArgs.Context
		return t
	}
	if raw, err := kubeconfigArgs.ToRawKubeConfigLoader().RawConfig(); err == nil {
		t.Context = raw.CurrentContext
	}
	return t
}
