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

var getGroupsCmd = &cobra.Command{
	Use:   "groups",
	Short: "Groups prints the resource groups built from the GroupList file.",
	RunE:  runGetGroupsCmd,
}

var getGroupsArgs filterFlags

func init() {
	getGroupsCmd.Flags().StringVar(&getGroupsArgs.app, "app", "", "Select the groups whose name contains the given value.")

	getCmd.AddCommand(getGroupsCmd)
}

func runGetGroupsCmd(cmd *cobra.Command, args []string) error {
	m, err := newManager(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), rootArgs.timeout)
	defer cancel()

	groups, err := m.Read(ctx, worker.Options{Filter: getGroupsArgs.filter()})
	if err != nil {
		return err
	}

	var rows [][]string
	for _, name := range groups.Names() {
		group := groups[name]
		rows = append(rows, []string{
			group.Name,
			fmt.Sprintf("%t", group.Enabled),
			fmt.Sprintf("%d", group.Weight),
			fmt.Sprintf("%d", group.Len()),
		})
	}

	worker.PrintTable(cmd.OutOrStdout(), []string{"name", "enabled", "weight", "resources"}, rows)

	return nil
}
