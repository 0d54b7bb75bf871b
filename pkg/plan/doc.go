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

// Package plan computes the order in which resources are reconciled.
//
// Each resource gets an ordering key, the weight of its group multiplied by
// the precedence of its kind:
// - the kind precedence makes namespaces and service accounts go before workloads
// - the group weight orders whole groups, 100 has no effect, lower values
// front-load a group and higher values defer it
//
// The Flattener filters the enabled groups, sorts their resources by key
// (ascending for create, descending for delete) and removes the copies of
// shared resources that several groups declare.
package plan
