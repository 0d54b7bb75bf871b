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
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Masterminds/semver/v3"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"sigs.k8s.io/yaml"

	"github.com/stefanprodan/kgroups/pkg/plan"
)

const (
	ConfigKind            = "Config"
	ConfigApiVersion      = "kgroups.dev/v1"
	FieldManagerName      = "kgroups"
	FieldManagerGroup     = "kgroups.dev"
	DefaultMinKubeVersion = ">=1.20.0-0"
)

type Config struct {
	metav1.TypeMeta `json:",inline"`

	// Precedence overrides the ordering precedence of the given kinds,
	// e.g. 'Service: 80' creates services before deployments.
	Precedence map[string]int `json:"precedence,omitempty"`

	// FieldManager holds the manager name used for create and update, and the owner label prefix.
	FieldManager *FieldManager `json:"fieldManager,omitempty"`

	// ContinueOnFailure holds the per operation policy applied when a resource fails.
	ContinueOnFailure *ContinueOnFailure `json:"continueOnFailure,omitempty"`

	// MinKubeVersion is the semver constraint the cluster version must satisfy.
	MinKubeVersion string `json:"minKubeVersion,omitempty"`
}

type FieldManager struct {
	// Name sets the field manager for the reconciled objects.
	Name string `json:"name"`

	// Group sets the owner label key prefix.
	Group string `json:"group"`
}

// ContinueOnFailure tells, for each operation, if the remaining resources
// are reconciled after a resource fails.
type ContinueOnFailure struct {
	Create bool `json:"create"`
	Patch  bool `json:"patch"`
	Delete bool `json:"delete"`
}

// NewConfig returns a config with the default values.
func NewConfig() *Config {
	return &Config{
		TypeMeta: metav1.TypeMeta{
			Kind:       ConfigKind,
			APIVersion: ConfigApiVersion,
		},
		FieldManager:      defaultFieldManager(),
		ContinueOnFailure: defaultContinueOnFailure(),
		MinKubeVersion:    DefaultMinKubeVersion,
	}
}

func defaultFieldManager() *FieldManager {
	return &FieldManager{
		Name:  FieldManagerName,
		Group: FieldManagerGroup,
	}
}

func defaultContinueOnFailure() *ContinueOnFailure {
	return &ContinueOnFailure{
		Create: true,
		Patch:  true,
		Delete: true,
	}
}

// Policy returns the default ordering policy with the precedence overrides applied.
func (c *Config) Policy() (plan.Policy, error) {
	return plan.DefaultPolicy().With(c.Precedence)
}

// DefaultConfigPath returns '$HOME/.kgroups/config'
func DefaultConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".kgroups/config"), nil
}

// Read loads the config from the specified path,
// if the config file is not found, a default is returned.
func Read(configPath string) (*Config, error) {
	if configPath == "" {
		p, err := DefaultConfigPath()
		if err != nil {
			return nil, fmt.Errorf("$HOME dir can't be determined, error: %w", err)
		}
		configPath = p
	}

	if _, err := os.Stat(configPath); errors.Is(err, os.ErrNotExist) {
		return NewConfig(), nil
	}

	cfgData, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	// fields missing from the file keep their default values
	cfg := &Config{
		FieldManager:      defaultFieldManager(),
		ContinueOnFailure: defaultContinueOnFailure(),
	}
	if err := yaml.Unmarshal(cfgData, cfg); err != nil {
		return nil, err
	}

	if cfg.FieldManager == nil {
		cfg.FieldManager = defaultFieldManager()
	}

	if cfg.ContinueOnFailure == nil {
		cfg.ContinueOnFailure = defaultContinueOnFailure()
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", configPath, err)
	}

	return cfg, nil
}

// Validate checks the field manager, the precedence overrides and the version constraint.
func (c *Config) Validate() error {
	if c.FieldManager == nil || c.FieldManager.Name == "" {
		return fmt.Errorf("the field manager name can't be empty")
	}

	if c.FieldManager.Group == "" {
		return fmt.Errorf("the field manager group can't be empty")
	}

	if _, err := c.Policy(); err != nil {
		return err
	}

	if c.MinKubeVersion != "" {
		if _, err := semver.NewConstraint(c.MinKubeVersion); err != nil {
			return fmt.Errorf("invalid minKubeVersion '%s': %w", c.MinKubeVersion, err)
		}
	}

	return nil
}

// Write saves the config at the given path, if no path is specified
// it will create or override '$HOME/.kgroups/config'.
func (c *Config) Write(configPath string) error {
	if configPath == "" {
		p, err := DefaultConfigPath()
		if err != nil {
			return err
		}
		configPath = p
	}

	if err := os.MkdirAll(filepath.Dir(configPath), os.FileMode(0755)); err != nil {
		return err
	}

	cfgData, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	if err := os.WriteFile(configPath, cfgData, os.FileMode(0666)); err != nil {
		return err
	}

	return nil
}
