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

	"github.com/spf13/cobra"

	"github.com/stefanprodan/kgroups/pkg/worker"
)

var getResourcesCmd = &cobra.Command{
	Use:   "resources",
	Short: "Resources reads the resources from the cluster and prints their status.",
	RunE:  runGetResourcesCmd,
}

var getResourcesArgs filterFlags

func init() {
	getResourcesArgs.addFlags(getResourcesCmd.Flags())

	getCmd.AddCommand(getResourcesCmd)
}

func runGetResourcesCmd(cmd *cobra.Command, args []string) error {
	m, err := newManager(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), rootArgs.timeout)
	defer cancel()

	changeSet, err := m.ReadResources(ctx, worker.Options{Filter: getResourcesArgs.filter()})
	if err != nil {
		return err
	}

	var rows [][]string
	for _, e := range changeSet.Entries {
		rows = append(rows, []string{e.Group, string(e.Kind), e.Name, e.Namespace, string(e.Action), e.Status})
	}

	worker.PrintTable(cmd.OutOrStdout(), []string{"group", "kind", "name", "namespace", "result", "status"}, rows)

	if n := len(changeSet.Failures()); n > 0 {
		return fmt.Errorf("reading %d out of %d resources failed", n, changeSet.Planned)
	}
	return nil
}
