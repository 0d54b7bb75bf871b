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

package builder

import (
	"strings"
	"testing"

	"github.com/go-logr/logr"
	"github.com/google/go-cmp/cmp"
	. "github.com/onsi/gomega"
	"k8s.io/apimachinery/pkg/runtime"
	"sigs.k8s.io/kustomize/kyaml/filesys"

	"github.com/stefanprodan/kgroups/pkg/resource"
)

const groupList = `apiVersion: kgroups.dev/v1
kind: GroupList
groups:
  - name: frontend
    namespace: web
    resources:
      - apiVersion: v1
        kind: Namespace
        metadata:
          name: web
      - apiVersion: apps/v1
        kind: StatefulSet
        metadata:
          name: cache
    manifests:
      - manifests
  - name: backend
    enabled: false
    weight: 50
    kustomize: overlay
`

const deployment = `apiVersion: apps/v1
kind: Deployment
metadata:
  name: web
spec:
  selector:
    matchLabels:
      app: web
  template:
    metadata:
      labels:
        app: web
    spec:
      containers:
        - name: web
          image: nginx
`

const services = `apiVersion: v1
kind: Service
metadata:
  name: web
  namespace: public
spec:
  ports:
    - port: 80
---
apiVersion: rbac.authorization.k8s.io/v1
kind: ClusterRole
metadata:
  name: web-reader
---
apiVersion: kustomize.config.k8s.io/v1beta1
kind: Kustomization
resources: []
`

const kustomization = `apiVersion: kustomize.config.k8s.io/v1beta1
kind: Kustomization
namespace: api
resources:
  - config.yaml
  - widget.yaml
`

const config = `apiVersion: v1
kind: ConfigMap
metadata:
  name: api-config
data:
  level: debug
`

const widget = `apiVersion: example.com/v1
kind: Widget
metadata:
  name: api-widget
`

func newTestFs(t *testing.T) filesys.FileSystem {
	t.Helper()
	fs := filesys.MakeFsInMemory()
	files := map[string]string{
		"/work/groups.yaml":                 groupList,
		"/work/manifests/deployment.yaml":   deployment,
		"/work/manifests/rbac/services.yml": services,
		"/work/manifests/README.md":         "# not a manifest",
		"/work/overlay/kustomization.yaml":  kustomization,
		"/work/overlay/config.yaml":         config,
		"/work/overlay/widget.yaml":         widget,
	}
	for name, content := range files {
		if err := fs.WriteFile(name, []byte(content)); err != nil {
			t.Fatal(err)
		}
	}
	return fs
}

func subjects(resources []*resource.Resource) []string {
	var result []string
	for _, r := range resources {
		result = append(result, r.Subject())
	}
	return result
}

func TestBuilder_BuildFile(t *testing.T) {
	g := NewWithT(t)
	b := New(newTestFs(t), logr.Discard())

	groups, err := b.BuildFile("/work/groups.yaml")
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(groups.Names()).To(Equal([]string{"backend", "frontend"}))

	t.Run("frontend", func(t *testing.T) {
		g := NewWithT(t)
		frontend := groups["frontend"]
		g.Expect(frontend.Enabled).To(BeTrue())
		g.Expect(frontend.Weight).To(Equal(resource.DefaultWeight))

		expected := []string{
			"Namespace/web",
			"ClusterRole/web-reader",
			"Service/public/web",
			"Deployment/web/web",
		}
		if diff := cmp.Diff(expected, subjects(frontend.Resources())); diff != "" {
			t.Errorf("Mismatch from expected value (-want +got):\n%s", diff)
		}
		for _, r := range frontend.Resources() {
			g.Expect(r.Group).To(Equal("frontend"))
		}
	})

	t.Run("backend", func(t *testing.T) {
		g := NewWithT(t)
		backend := groups["backend"]
		g.Expect(backend.Enabled).To(BeFalse())
		g.Expect(backend.Weight).To(Equal(50))

		expected := []string{
			"ConfigMap/api/api-config",
			"Widget/api/api-widget",
		}
		if diff := cmp.Diff(expected, subjects(backend.Resources())); diff != "" {
			t.Errorf("Mismatch from expected value (-want +got):\n%s", diff)
		}
		g.Expect(backend.CustomObjects).To(HaveLen(1))
	})
}

func TestBuilder_DefaultNamespace(t *testing.T) {
	g := NewWithT(t)
	list := &GroupList{
		Groups: []GroupSpec{
			{
				Name: "web",
				Resources: []runtime.RawExtension{
					{Raw: []byte(`{"apiVersion":"v1","kind":"ConfigMap","metadata":{"name":"settings"}}`)},
					{Raw: []byte(`{"apiVersion":"v1","kind":"Namespace","metadata":{"name":"team"}}`)},
				},
			},
		},
	}

	groups, err := New(filesys.MakeFsInMemory(), logr.Discard()).WithNamespace("team").Build(list, "")
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(subjects(groups["web"].Resources())).To(Equal([]string{"Namespace/team", "ConfigMap/team/settings"}))
}

func TestBuilder_Errors(t *testing.T) {
	tests := []struct {
		name     string
		document string
		err      string
	}{
		{
			name:     "missing name",
			document: "kind: GroupList\ngroups:\n  - weight: 10\n",
			err:      "has no name",
		},
		{
			name:     "duplicate name",
			document: "groups:\n  - name: web\n  - name: web\n",
			err:      "more than once",
		},
		{
			name:     "invalid weight",
			document: "groups:\n  - name: web\n    weight: 0\n",
			err:      "greater than zero",
		},
		{
			name:     "missing manifest",
			document: "groups:\n  - name: web\n    manifests: [missing.yaml]\n",
			err:      "not found",
		},
		{
			name:     "missing kustomization",
			document: "groups:\n  - name: web\n    kustomize: manifests\n",
			err:      "kustomization.yaml not found",
		},
		{
			name:     "wrong kind",
			document: "kind: ConfigMap\ngroups: []\n",
			err:      "expected kind GroupList",
		},
		{
			name:     "unknown field",
			document: "groups:\n  - name: web\n    replicas: 2\n",
			err:      "unknown field",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewWithT(t)
			fs := newTestFs(t)
			g.Expect(fs.WriteFile("/work/invalid.yaml", []byte(tt.document))).To(Succeed())

			_, err := New(fs, logr.Discard()).BuildFile("/work/invalid.yaml")
			g.Expect(err).To(HaveOccurred())
			g.Expect(err.Error()).To(ContainSubstring(tt.err))
		})
	}
}

func TestReadObjects(t *testing.T) {
	g := NewWithT(t)

	list := `apiVersion: v1
kind: List
items:
  - apiVersion: v1
    kind: Secret
    metadata:
      name: token
  - apiVersion: v1
    kind: ConfigMap
    metadata:
      name: settings
---
---
apiVersion: v1
kind: ServiceAccount
metadata:
  name: runner
`
	objects, err := ReadObjects(strings.NewReader(list))
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(objects).To(HaveLen(3))
	g.Expect(objects[2].GetKind()).To(Equal("ServiceAccount"))
}
