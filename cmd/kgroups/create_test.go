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
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	. "github.com/onsi/gomega"

	"github.com/stefanprodan/kgroups/pkg/cluster/fake"
)

func TestCreate(t *testing.T) {
	g := NewWithT(t)
	id := "create-" + randStringRunes(5)
	testClient = fake.NewClient()

	dir, err := makeTestDir(id, testGroups(id))
	g.Expect(err).NotTo(HaveOccurred())
	groups := filepath.Join(dir, "groups.yaml")

	t.Run("prints the plan", func(t *testing.T) {
		g := NewWithT(t)
		output, err := executeCommand(fmt.Sprintf("create -g %s --dry-run", groups))

		g.Expect(err).NotTo(HaveOccurred())
		t.Logf("\n%s", output)
		g.Expect(output).To(ContainSubstring("total: 3 resource(s)"))
		g.Expect(output).To(ContainSubstring("context: test"))
		g.Expect(output).NotTo(ContainSubstring("legacy"))
		g.Expect(mutations()).To(BeEmpty())
	})

	t.Run("skips when not confirmed", func(t *testing.T) {
		g := NewWithT(t)
		output, err := executeCommandWithIn(fmt.Sprintf("create -g %s", groups), strings.NewReader("n\n"))

		g.Expect(err).NotTo(HaveOccurred())
		t.Logf("\n%s", output)
		g.Expect(output).To(ContainSubstring("Confirm create [y/N]"))
		g.Expect(output).To(ContainSubstring("create skipped"))
		g.Expect(testClient.Len()).To(Equal(0))
	})

	t.Run("creates objects in order", func(t *testing.T) {
		g := NewWithT(t)
		output, err := executeCommandWithIn(fmt.Sprintf("create -g %s", groups), strings.NewReader("y\n"))

		g.Expect(err).NotTo(HaveOccurred())
		t.Logf("\n%s", output)
		g.Expect(output).To(ContainSubstring("3 created out of 3 planned"))
		g.Expect(output).To(ContainSubstring("create finished"))

		g.Expect(mutations()).To(Equal([]string{
			"create Namespace/" + id,
			"create ConfigMap/" + id + "/settings",
			"create Service/" + id + "/web",
		}))
	})

	t.Run("fails for existing objects", func(t *testing.T) {
		g := NewWithT(t)
		output, err := executeCommand(fmt.Sprintf("create -g %s --kind ConfigMap --yes", groups))

		g.Expect(err).To(HaveOccurred())
		t.Logf("\n%s", output)
		g.Expect(err.Error()).To(Equal("create failed for 1 out of 1 resources"))
		g.Expect(output).To(ContainSubstring("already exists"))
	})

	t.Run("requires the groups flag", func(t *testing.T) {
		g := NewWithT(t)
		_, err := executeCommand("create --yes")
		g.Expect(err).To(MatchError(ContainSubstring("--groups is required")))
	})
}

func TestCreate_NotInitialized(t *testing.T) {
	g := NewWithT(t)
	id := "init-" + randStringRunes(5)
	testClient = fake.NewClient()
	testClient.SetInitialized(false, nil)

	dir, err := makeTestDir(id, testGroups(id))
	g.Expect(err).NotTo(HaveOccurred())

	output, err := executeCommand(fmt.Sprintf("create -g %s --yes", filepath.Join(dir, "groups.yaml")))
	t.Logf("\n%s", output)
	g.Expect(err).To(HaveOccurred())
	g.Expect(err.Error()).To(ContainSubstring("create not allowed in PreInit status"))
	g.Expect(testClient.Calls()).To(BeEmpty())

	testClient.SetInitialized(false, errors.New("connection refused"))
	_, err = executeCommand(fmt.Sprintf("create -g %s --yes", filepath.Join(dir, "groups.yaml")))
	g.Expect(err).To(MatchError(ContainSubstring("connection refused")))
}
