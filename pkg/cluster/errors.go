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
	"errors"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
)

// ErrUnsupportedVersion is returned when the cluster version doesn't match the configured constraint.
var ErrUnsupportedVersion = errors.New("unsupported Kubernetes version")

// IsUnrecoverable returns true for errors that can't be fixed by retrying the same call.
func IsUnrecoverable(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, ErrUnsupportedVersion) || apierrors.IsUnauthorized(err)
}
