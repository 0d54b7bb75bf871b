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
	"sort"

	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"

	"github.com/stefanprodan/kgroups/pkg/plan"
	"github.com/stefanprodan/kgroups/pkg/resource"
	"github.com/stefanprodan/kgroups/pkg/worker"
)

var configView = &cobra.Command{
	Use: "view",
	Short: "Display the config values from '$HOME/.kgroups/config' and the resulting kind precedence. " +
		"If no config file is found, the default in-memory values are displayed.",
	RunE: runConfigViewCmd,
}

func init() {
	configCmd.AddCommand(configView)
}

func runConfigViewCmd(cmd *cobra.Command, args []string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))

	policy, err := cfg.Policy()
	if err != nil {
		return err
	}
	worker.PrintTable(cmd.OutOrStdout(), []string{"kind", "precedence", "default"}, precedenceRows(policy))
	return nil
}

// precedenceRows lists the supported kinds in install order.
func precedenceRows(policy plan.Policy) [][]string {
	defaults := plan.DefaultPolicy()
	kinds := append([]resource.Kind(nil), resource.Kinds...)
	sort.SliceStable(kinds, func(i, j int) bool {
		return policy.Precedence(kinds[i]) < policy.Precedence(kinds[j])
	})

	rows := make([][]string, 0, len(kinds))
	for _, kind := range kinds {
		rows = append(rows, []string{
			string(kind),
			fmt.Sprintf("%d", policy.Precedence(kind)),
			fmt.Sprintf("%d", defaults.Precedence(kind)),
		})
	}
	return rows
}
