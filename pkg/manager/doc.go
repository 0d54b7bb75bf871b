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

// Package manager gates the worker operations based on the state of the cluster.
//
// The Manager status moves from PreInit to Ready when the cluster client is initialized,
// and from Ready to Active when at least one resource is found on the cluster.
// An unrecoverable client error moves the Manager to Error from any status,
// operations are refused until the status is refreshed.
package manager
