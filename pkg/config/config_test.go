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

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	. "github.com/onsi/gomega"

	"github.com/stefanprodan/kgroups/pkg/resource"
)

func TestConfig_ReadWrite(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), ".kgroups", "config")

	t.Run("returns defaults when missing", func(t *testing.T) {
		g := NewWithT(t)
		cfg, err := Read(configPath)
		g.Expect(err).NotTo(HaveOccurred())
		if diff := cmp.Diff(NewConfig(), cfg); diff != "" {
			t.Errorf("Mismatch from expected value (-want +got):\n%s", diff)
		}
	})

	t.Run("reads what was written", func(t *testing.T) {
		g := NewWithT(t)
		cfg := NewConfig()
		cfg.Precedence = map[string]int{"Service": 80}
		cfg.ContinueOnFailure.Delete = false
		g.Expect(cfg.Write(configPath)).To(Succeed())

		result, err := Read(configPath)
		g.Expect(err).NotTo(HaveOccurred())
		if diff := cmp.Diff(cfg, result); diff != "" {
			t.Errorf("Mismatch from expected value (-want +got):\n%s", diff)
		}

		policy, err := result.Policy()
		g.Expect(err).NotTo(HaveOccurred())
		g.Expect(policy.Precedence(resource.ServiceKind)).To(Equal(80))
	})

	t.Run("fills omitted sections", func(t *testing.T) {
		g := NewWithT(t)
		g.Expect(os.WriteFile(configPath, []byte("apiVersion: kgroups.dev/v1\nkind: Config\n"), 0644)).To(Succeed())

		cfg, err := Read(configPath)
		g.Expect(err).NotTo(HaveOccurred())
		g.Expect(cfg.FieldManager.Name).To(Equal(FieldManagerName))
		g.Expect(cfg.ContinueOnFailure.Create).To(BeTrue())
		g.Expect(cfg.MinKubeVersion).To(BeEmpty())
	})

	t.Run("keeps defaults for omitted fields", func(t *testing.T) {
		g := NewWithT(t)
		data := "continueOnFailure:\n  delete: false\nfieldManager:\n  name: ci\n"
		g.Expect(os.WriteFile(configPath, []byte(data), 0644)).To(Succeed())

		cfg, err := Read(configPath)
		g.Expect(err).NotTo(HaveOccurred())
		g.Expect(*cfg.ContinueOnFailure).To(Equal(ContinueOnFailure{Create: true, Patch: true, Delete: false}))
		g.Expect(cfg.FieldManager.Name).To(Equal("ci"))
		g.Expect(cfg.FieldManager.Group).To(Equal(FieldManagerGroup))
	})
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		config string
		err    string
	}{
		{
			name:   "empty field manager",
			config: "fieldManager:\n  name: \"\"\n  group: kgroups.dev\n",
			err:    "field manager name",
		},
		{
			name:   "unknown kind",
			config: "precedence:\n  StatefulSet: 10\n",
			err:    "unknown kind",
		},
		{
			name:   "invalid version",
			config: "minKubeVersion: latest\n",
			err:    "invalid minKubeVersion",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewWithT(t)
			configPath := filepath.Join(t.TempDir(), "config")
			g.Expect(os.WriteFile(configPath, []byte(tt.config), 0644)).To(Succeed())

			_, err := Read(configPath)
			g.Expect(err).To(MatchError(ContainSubstring(tt.err)))
		})
	}
}
