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

package cluster

import (
	"context"
	"errors"
	"testing"

	. "github.com/onsi/gomega"
	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/apimachinery/pkg/version"
	fakediscovery "k8s.io/client-go/discovery/fake"
	clienttesting "k8s.io/client-go/testing"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/client/fake"

	"github.com/stefanprodan/kgroups/pkg/resource"
)

func newTestClient(t *testing.T, gitVersion string, opts Options) *KubeClient {
	t.Helper()
	kubeClient := fake.NewClientBuilder().WithScheme(NewScheme()).Build()
	discovery := &fakediscovery.FakeDiscovery{
		Fake:               &clienttesting.Fake{},
		FakedServerVersion: &version.Info{GitVersion: gitVersion},
	}
	kc, err := NewKubeClient(kubeClient, discovery, opts)
	if err != nil {
		t.Fatal(err)
	}
	return kc
}

// versionStub answers ServerVersion with a fixed result.
type versionStub struct {
	info *version.Info
	err  error
}

func (v versionStub) ServerVersion() (*version.Info, error) {
	return v.info, v.err
}

func newConfigMap(namespace, name string, data map[string]interface{}) *resource.Resource {
	u := resource.NewObject("v1", "ConfigMap", namespace, name)
	if data != nil {
		u.Object["data"] = data
	}
	r := resource.New(resource.ConfigMapKind, u)
	r.Group = "frontend"
	return r
}

func TestKubeClient_CRUD(t *testing.T) {
	ctx := context.Background()
	kc := newTestClient(t, "v1.30.0", Options{OwnerGroup: "test.dev"})

	cm := newConfigMap("default", "settings", map[string]interface{}{"key": "v1"})

	t.Run("read returns nil for missing objects", func(t *testing.T) {
		g := NewWithT(t)
		observed, err := kc.Read(ctx, cm)
		g.Expect(err).NotTo(HaveOccurred())
		g.Expect(observed).To(BeNil())
	})

	t.Run("creates object with owner labels", func(t *testing.T) {
		g := NewWithT(t)
		observed, err := kc.Create(ctx, cm)
		g.Expect(err).NotTo(HaveOccurred())
		g.Expect(observed.GetLabels()).To(HaveKeyWithValue("test.dev/group", "frontend"))
		g.Expect(cm.Desired.GetLabels()).To(BeEmpty())

		existing, err := kc.Read(ctx, cm)
		g.Expect(err).NotTo(HaveOccurred())
		g.Expect(existing).NotTo(BeNil())
		g.Expect(existing.GetLabels()).To(HaveKeyWithValue("test.dev/group", "frontend"))
	})

	t.Run("create fails for existing objects", func(t *testing.T) {
		g := NewWithT(t)
		_, err := kc.Create(ctx, cm)
		g.Expect(apierrors.IsAlreadyExists(err)).To(BeTrue())
	})

	t.Run("updates object", func(t *testing.T) {
		g := NewWithT(t)
		changed := newConfigMap("default", "settings", map[string]interface{}{"key": "v2"})
		_, err := kc.Update(ctx, changed)
		g.Expect(err).NotTo(HaveOccurred())

		existing, err := kc.Read(ctx, cm)
		g.Expect(err).NotTo(HaveOccurred())
		g.Expect(existing.Object["data"]).To(HaveKeyWithValue("key", "v2"))
	})

	t.Run("update fails for missing objects", func(t *testing.T) {
		g := NewWithT(t)
		_, err := kc.Update(ctx, newConfigMap("default", "missing", nil))
		g.Expect(err).To(MatchError(ContainSubstring("not found")))
	})

	t.Run("deletes object", func(t *testing.T) {
		g := NewWithT(t)
		ok, err := kc.Delete(ctx, cm)
		g.Expect(err).NotTo(HaveOccurred())
		g.Expect(ok).To(BeTrue())

		existing, err := kc.Read(ctx, cm)
		g.Expect(err).NotTo(HaveOccurred())
		g.Expect(existing).To(BeNil())
	})

	t.Run("delete ignores missing objects", func(t *testing.T) {
		g := NewWithT(t)
		ok, err := kc.Delete(ctx, cm)
		g.Expect(err).NotTo(HaveOccurred())
		g.Expect(ok).To(BeTrue())
	})
}

func TestKubeClient_ClusterScoped(t *testing.T) {
	g := NewWithT(t)
	ctx := context.Background()
	kc := newTestClient(t, "v1.30.0", Options{})

	ns := resource.New(resource.NamespaceKind, resource.NewObject("v1", "Namespace", "", "apps"))
	ns.Group = "apps"

	_, err := kc.Create(ctx, ns)
	g.Expect(err).NotTo(HaveOccurred())

	existing, err := kc.Read(ctx, ns)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(existing.GetName()).To(Equal("apps"))
	g.Expect(existing.GetLabels()).To(HaveKeyWithValue(DefaultOwnerGroup+"/group", "apps"))
}

func TestKubeClient_IsInitialized(t *testing.T) {
	ctx := context.Background()

	t.Run("supported version", func(t *testing.T) {
		g := NewWithT(t)
		kc := newTestClient(t, "v1.30.0", Options{MinVersion: ">=1.20.0-0"})
		ok, err := kc.IsInitialized(ctx)
		g.Expect(err).NotTo(HaveOccurred())
		g.Expect(ok).To(BeTrue())
	})

	t.Run("pre-release version matches", func(t *testing.T) {
		g := NewWithT(t)
		kc := newTestClient(t, "v1.29.4-gke.1043002", Options{MinVersion: ">=1.20.0-0"})
		ok, err := kc.IsInitialized(ctx)
		g.Expect(err).NotTo(HaveOccurred())
		g.Expect(ok).To(BeTrue())
	})

	t.Run("unsupported version", func(t *testing.T) {
		g := NewWithT(t)
		kc := newTestClient(t, "v1.18.2", Options{MinVersion: ">=1.20.0-0"})
		ok, err := kc.IsInitialized(ctx)
		g.Expect(ok).To(BeFalse())
		g.Expect(err).To(MatchError(ErrUnsupportedVersion))
		g.Expect(IsUnrecoverable(err)).To(BeTrue())
	})

	t.Run("unreachable server", func(t *testing.T) {
		g := NewWithT(t)
		kc, err := NewKubeClient(fake.NewClientBuilder().Build(), versionStub{err: errors.New("connection refused")}, Options{})
		g.Expect(err).NotTo(HaveOccurred())
		ok, err := kc.IsInitialized(ctx)
		g.Expect(err).NotTo(HaveOccurred())
		g.Expect(ok).To(BeFalse())
	})

	t.Run("unauthorized", func(t *testing.T) {
		g := NewWithT(t)
		kc, err := NewKubeClient(fake.NewClientBuilder().Build(), versionStub{err: apierrors.NewUnauthorized("token expired")}, Options{})
		g.Expect(err).NotTo(HaveOccurred())
		ok, err := kc.IsInitialized(ctx)
		g.Expect(ok).To(BeFalse())
		g.Expect(apierrors.IsUnauthorized(err)).To(BeTrue())
		g.Expect(IsUnrecoverable(err)).To(BeTrue())
	})

	t.Run("invalid constraint", func(t *testing.T) {
		g := NewWithT(t)
		_, err := NewKubeClient(fake.NewClientBuilder().Build(), &fakediscovery.FakeDiscovery{}, Options{MinVersion: "not a version"})
		g.Expect(err).To(HaveOccurred())
	})
}

func TestIsUnrecoverable(t *testing.T) {
	g := NewWithT(t)
	gr := schema.GroupResource{Resource: "configmaps"}

	g.Expect(IsUnrecoverable(nil)).To(BeFalse())
	g.Expect(IsUnrecoverable(apierrors.NewNotFound(gr, "settings"))).To(BeFalse())
	g.Expect(IsUnrecoverable(errors.New("timeout"))).To(BeFalse())
	g.Expect(IsUnrecoverable(ErrUnsupportedVersion)).To(BeTrue())
}

func TestKubeClient_ReadTyped(t *testing.T) {
	g := NewWithT(t)
	ctx := context.Background()

	existing := &corev1.ConfigMap{
		ObjectMeta: metav1.ObjectMeta{Name: "settings", Namespace: "default"},
		Data:       map[string]string{"key": "typed"},
	}
	kubeClient := fake.NewClientBuilder().WithScheme(NewScheme()).WithObjects(existing).Build()
	discovery := &fakediscovery.FakeDiscovery{
		Fake:               &clienttesting.Fake{},
		FakedServerVersion: &version.Info{GitVersion: "v1.24.1"},
	}
	kc, err := NewKubeClient(kubeClient, discovery, Options{})
	g.Expect(err).NotTo(HaveOccurred())

	observed, err := kc.Read(ctx, newConfigMap("default", "settings", nil))
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(observed).NotTo(BeNil())
	g.Expect(observed.GetKind()).To(Equal("ConfigMap"))
	g.Expect(observed.Object["data"]).To(HaveKeyWithValue("key", "typed"))

	ok, err := kc.Delete(ctx, newConfigMap("default", "settings", nil))
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(ok).To(BeTrue())

	cm := &corev1.ConfigMap{}
	err = kubeClient.Get(ctx, client.ObjectKeyFromObject(existing), cm)
	g.Expect(apierrors.IsNotFound(err)).To(BeTrue())
}

func TestKubeClient_WithoutLogger(t *testing.T) {
	g := NewWithT(t)
	ctx := context.Background()

	kc, err := NewKubeClient(fake.NewClientBuilder().WithScheme(NewScheme()).Build(), versionStub{err: errors.New("no route to host")}, Options{})
	g.Expect(err).NotTo(HaveOccurred())

	ok, err := kc.Delete(ctx, newConfigMap("default", "missing", nil))
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(ok).To(BeTrue())

	ok, err = kc.IsInitialized(ctx)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(ok).To(BeFalse())
}
