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
	"os"
	"time"

	"github.com/spf13/cobra"
	"k8s.io/cli-runtime/pkg/genericclioptions"
	_ "k8s.io/client-go/plugin/pkg/client/auth"

	"github.com/stefanprodan/kgroups/pkg/config"
)

var VERSION = "0.1.0-dev.0"

const PROJECT = "kgroups"

var rootCmd = &cobra.Command{
	Use:           PROJECT,
	Version:       VERSION,
	SilenceUsage:  true,
	SilenceErrors: true,
	Short:         "A command line utility to create, patch and delete groups of Kubernetes resources in dependency order.",
	Long: `kgroups reconciles the resources of one or more applications, described as groups in a GroupList file,
onto a Kubernetes cluster. Namespaces, service accounts and RBAC are created first, workloads and services last,
and deleted in reverse order.

Plan and reconcile the resource groups:

- kgroups create -g <groups path> [--app <group>] [--kind <kind>] [--name <name>] [--dry-run] [--yes]
- kgroups patch -g <groups path> [--app] [--kind] [--name] [--dry-run] [--yes]
- kgroups delete -g <groups path> [--app] [--kind] [--name] [--dry-run] [--yes]

Inspect the resource groups:

- kgroups get groups -g <groups path>
- kgroups get resources -g <groups path> [--app] [--kind] [--name]
- kgroups status -g <groups path>
`,
}

type rootFlags struct {
	timeout time.Duration
	groups  string
	verbose bool
}

var (
	rootArgs = rootFlags{}
	logger   = stderrLogger{stderr: os.Stderr}
	cfg      = config.NewConfig()
)

var kubeconfigArgs = genericclioptions.NewConfigFlags(false)

func init() {
	rootCmd.PersistentFlags().DurationVar(&rootArgs.timeout, "timeout", time.Minute,
		"The length of time to wait before giving up on the current operation.")
	rootCmd.PersistentFlags().StringVarP(&rootArgs.groups, "groups", "g", "",
		"Path to the GroupList file.")
	rootCmd.PersistentFlags().BoolVar(&rootArgs.verbose, "verbose", false,
		"Print debug logs.")

	kubeconfigArgs.Timeout = nil
	kubeconfigArgs.Namespace = nil
	kubeconfigArgs.AddFlags(rootCmd.PersistentFlags())

	defaultNamespace := ""
	kubeconfigArgs.Namespace = &defaultNamespace
	rootCmd.PersistentFlags().StringVarP(kubeconfigArgs.Namespace, "namespace", "n", *kubeconfigArgs.Namespace,
		"The namespace set on namespaced objects that don't specify one and have no group namespace.")

	rootCmd.DisableAutoGenTag = true
	rootCmd.SetOut(os.Stdout)
}

func main() {
	loadConfig()
	if err := rootCmd.Execute(); err != nil {
		logger.Println(`✗`, err)
		os.Exit(1)
	}
}

func loadConfig() {
	if c, err := config.Read(""); err != nil {
		logger.Println(`✗`, fmt.Errorf("loading the config failed, error: %w", err))
	} else {
		cfg = c
	}
}
