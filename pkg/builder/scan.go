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
	"fmt"
	"path/filepath"
	"sort"
	"sync"

	"sigs.k8s.io/kustomize/api/krusty"
	kustypes "sigs.k8s.io/kustomize/api/types"
	"sigs.k8s.io/kustomize/kyaml/filesys"
)

func (b *Builder) scan(paths []string) ([]string, error) {
	var manifests []string

	for _, in := range paths {
		if !b.fs.Exists(in) {
			return nil, fmt.Errorf("%s not found", in)
		}

		switch {
		case b.fs.IsDir(in):
			m, err := b.scanRec(in)
			if err != nil {
				return nil, err
			}
			manifests = append(manifests, m...)
		case matchExt(in):
			manifests = append(manifests, in)
		}
	}

	return manifests, nil
}

func (b *Builder) scanRec(dir string) ([]string, error) {
	var manifests []string
	files, err := b.fs.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	for _, file := range files {
		p := filepath.Join(dir, file)
		if b.fs.IsDir(p) {
			m, err := b.scanRec(p)
			if err != nil {
				return nil, err
			}
			manifests = append(manifests, m...)
			continue
		}
		if matchExt(file) {
			manifests = append(manifests, p)
		}
	}
	return manifests, nil
}

func matchExt(f string) bool {
	ext := filepath.Ext(f)
	return ext == ".yaml" || ext == ".yml"
}

var kustomizeBuildMutex sync.Mutex

func buildKustomization(fs filesys.FileSystem, base string) ([]byte, error) {
	kustomizeBuildMutex.Lock()
	defer kustomizeBuildMutex.Unlock()

	kfile := filepath.Join(base, "kustomization.yaml")
	if !fs.Exists(kfile) {
		return nil, fmt.Errorf("%s not found", kfile)
	}

	buildOptions := &krusty.Options{
		LoadRestrictions: kustypes.LoadRestrictionsNone,
		PluginConfig:     kustypes.DisabledPluginConfig(),
	}

	k := krusty.MakeKustomizer(buildOptions)
	m, err := k.Run(fs, base)
	if err != nil {
		return nil, err
	}

	resources, err := m.AsYaml()
	if err != nil {
		return nil, err
	}

	return resources, nil
}
