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
	"os"
	"path/filepath"
	"testing"

	. "github.com/onsi/gomega"

	"github.com/stefanprodan/kgroups/pkg/config"
)

func TestConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	t.Run("writes the default config", func(t *testing.T) {
		g := NewWithT(t)
		output, err := executeCommand("config init")

		g.Expect(err).NotTo(HaveOccurred())
		g.Expect(output).To(ContainSubstring("config written to"))

		_, err = os.Stat(filepath.Join(home, ".kgroups", "config"))
		g.Expect(err).NotTo(HaveOccurred())

		c, err := config.Read(filepath.Join(home, ".kgroups", "config"))
		g.Expect(err).NotTo(HaveOccurred())
		g.Expect(c.FieldManager.Name).To(Equal(config.FieldManagerName))
	})

	t.Run("refuses to overwrite the config", func(t *testing.T) {
		g := NewWithT(t)
		_, err := executeCommand("config init")
		g.Expect(err).To(MatchError(ContainSubstring("use --force")))

		_, err = executeCommand("config init --force")
		g.Expect(err).NotTo(HaveOccurred())
	})

	t.Run("prints the config", func(t *testing.T) {
		g := NewWithT(t)
		output, err := executeCommand("config view")

		g.Expect(err).NotTo(HaveOccurred())
		g.Expect(output).To(ContainSubstring("apiVersion: " + config.ConfigApiVersion))
		g.Expect(output).To(ContainSubstring("minKubeVersion"))
		g.Expect(output).To(MatchRegexp(`Namespace\s+1\s+1`))
		g.Expect(output).To(MatchRegexp(`Service\s+95\s+95`))
	})
}
