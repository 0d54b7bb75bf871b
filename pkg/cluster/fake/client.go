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

// Package fake implements an in-memory cluster.Client for testing.
package fake

import (
	"context"
	"fmt"
	"sync"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"

	"github.com/stefanprodan/kgroups/pkg/cluster"
	"github.com/stefanprodan/kgroups/pkg/resource"
)

// Op is a client operation.
type Op string

const (
	CreateOp Op = "create"
	ReadOp   Op = "read"
	UpdateOp Op = "update"
	DeleteOp Op = "delete"
)

// Call records a CRUD call made to the client.
type Call struct {
	Op      Op
	Subject string
}

func (c Call) String() string {
	return fmt.Sprintf("%s %s", c.Op, c.Subject)
}

type failure struct {
	err error
}

// Client stores objects in memory, indexed by subject.
type Client struct {
	mu          sync.Mutex
	objects     map[string]*unstructured.Unstructured
	failures    map[Call]failure
	calls       []Call
	probes      int
	initialized bool
	initErr     error
}

var _ cluster.Client = &Client{}

// NewClient returns an initialized client holding the given objects.
func NewClient(objects ...*unstructured.Unstructured) *Client {
	c := &Client{
		objects:     make(map[string]*unstructured.Unstructured),
		failures:    make(map[Call]failure),
		initialized: true,
	}
	for _, object := range objects {
		c.objects[resource.FmtUnstructured(object)] = object.DeepCopy()
	}
	return c
}

// SetInitialized sets the result of IsInitialized.
func (c *Client) SetInitialized(ok bool, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.initialized = ok
	c.initErr = err
}

// FailOn makes the given operation fail for the subject.
// With a nil error the call returns no object, or false for delete.
func (c *Client) FailOn(op Op, subject string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failures[Call{Op: op, Subject: subject}] = failure{err: err}
}

// Calls returns the CRUD calls in the order they were made.
func (c *Client) Calls() []Call {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Call(nil), c.calls...)
}

// Probes returns the number of IsInitialized calls.
func (c *Client) Probes() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.probes
}

// Get returns the stored object for the subject.
func (c *Client) Get(subject string) (*unstructured.Unstructured, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	object, ok := c.objects[subject]
	return object, ok
}

// Len returns the number of stored objects.
func (c *Client) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.objects)
}

func (c *Client) record(op Op, r *resource.Resource) (failure, bool) {
	call := Call{Op: op, Subject: r.Subject()}
	c.calls = append(c.calls, call)
	f, ok := c.failures[call]
	return f, ok
}

func (c *Client) Create(_ context.Context, r *resource.Resource) (*unstructured.Unstructured, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if f, ok := c.record(CreateOp, r); ok {
		return nil, f.err
	}
	subject := r.Subject()
	if _, ok := c.objects[subject]; ok {
		return nil, fmt.Errorf("%s already exists", subject)
	}
	object := r.Desired.DeepCopy()
	c.objects[subject] = object
	return object.DeepCopy(), nil
}

func (c *Client) Read(_ context.Context, r *resource.Resource) (*unstructured.Unstructured, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if f, ok := c.record(ReadOp, r); ok {
		return nil, f.err
	}
	if object, ok := c.objects[r.Subject()]; ok {
		return object.DeepCopy(), nil
	}
	return nil, nil
}

func (c *Client) Update(_ context.Context, r *resource.Resource) (*unstructured.Unstructured, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if f, ok := c.record(UpdateOp, r); ok {
		return nil, f.err
	}
	subject := r.Subject()
	if _, ok := c.objects[subject]; !ok {
		return nil, fmt.Errorf("%s not found", subject)
	}
	object := r.Desired.DeepCopy()
	c.objects[subject] = object
	return object.DeepCopy(), nil
}

func (c *Client) Delete(_ context.Context, r *resource.Resource) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if f, ok := c.record(DeleteOp, r); ok {
		return false, f.err
	}
	delete(c.objects, r.Subject())
	return true, nil
}

func (c *Client) IsInitialized(_ context.Context) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.probes++
	return c.initialized, c.initErr
}
