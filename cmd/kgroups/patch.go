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
	"github.com/spf13/cobra"
)

var patchCmd = &cobra.Command{
	Use:   "patch",
	Short: "Patch builds the resource groups and updates their in-cluster resources in dependency order.",
	RunE:  runPatchCmd,
}

var patchArgs operationFlags

func init() {
	patchArgs.addFlags(patchCmd.Flags())

	rootCmd.AddCommand(patchCmd)
}

func runPatchCmd(cmd *cobra.Command, args []string) error {
	m, err := newManager(cmd)
	if err != nil {
		return err
	}

	return runOperation(m, patchOperation, patchArgs)
}
