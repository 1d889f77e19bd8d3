// Package config provides YAML-based configuration for the collector server,
// including the workflow layout (sections, slots, dependencies).
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// AppConfig is the root configuration structure.
type AppConfig struct {
	Server   ServerConfig   `yaml:"server"`
	Remote   RemoteConfig   `yaml:"remote"`
	Sessions SessionConfig  `yaml:"sessions"`
	Workflow WorkflowConfig `yaml:"workflow"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port         int    `yaml:"port"`
	BindAddress  string `yaml:"bindAddress"`
	EnableCORS   bool   `yaml:"enableCors"`
	AllowOrigins string `yaml:"allowOrigins"`
	ReadTimeout  int    `yaml:"readTimeoutSeconds"`
	WriteTimeout int    `yaml:"writeTimeoutSeconds"`
	IdleTimeout  int    `yaml:"idleTimeoutSeconds"`
	BodyLimit    string `yaml:"bodyLimit"`
}

// RemoteConfig describes the remote validation/persistence service.
type RemoteConfig struct {
	Endpoint       string `yaml:"endpoint"`
	TimeoutSeconds int    `yaml:"timeoutSeconds"`
}

// SessionConfig contains workflow session lifecycle settings.
type SessionConfig struct {
	MaxWorkflows           int `yaml:"maxWorkflows"`
	TimeoutMinutes         int `yaml:"timeoutMinutes"`
	CleanupIntervalMinutes int `yaml:"cleanupIntervalMinutes"`
}

// WorkflowConfig is the static workflow layout: which sections exist, which
// slots belong to them, and how uploads unlock each other.
type WorkflowConfig struct {
	Sections []SectionConfig `yaml:"sections"`
	Edges    []EdgeConfig    `yaml:"edges"`
}

// SectionConfig defines one submittable section.
type SectionConfig struct {
	Name      string       `yaml:"name"`
	Required  bool         `yaml:"required"`
	DependsOn string       `yaml:"dependsOn,omitempty"` // upstream section, if any
	RootSlot  string       `yaml:"rootSlot,omitempty"`
	Slots     []SlotConfig `yaml:"slots"`
	// Satellite slot groups are submitted together with the section but do
	// not gate its enablement and have no submit action of their own.
	Satellites map[string][]SlotConfig `yaml:"satellites,omitempty"`
}

// SlotConfig defines one uploadable dataset.
type SlotConfig struct {
	Name     string `yaml:"name"`
	Required bool   `yaml:"required"`
}

// EdgeConfig is a directed slot dependency: Child is unlocked by Parent's
// file presence, and additionally by the parent section's confirmed upload
// when RequiresConfirmed is set.
type EdgeConfig struct {
	Parent            string `yaml:"parent"`
	Child             string `yaml:"child"`
	RequiresConfirmed bool   `yaml:"requiresConfirmed,omitempty"`
}

// DefaultConfig returns the built-in configuration, including the default
// road survey workflow layout. The server runs without a config file.
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port:         8090,
			BindAddress:  "0.0.0.0",
			EnableCORS:   true,
			AllowOrigins: "*",
			ReadTimeout:  30,
			WriteTimeout: 60,
			IdleTimeout:  120,
			BodyLimit:    "64M",
		},
		Remote: RemoteConfig{
			Endpoint:       "http://127.0.0.1:8000/api/upload-data/",
			TimeoutSeconds: 60,
		},
		Sessions: SessionConfig{
			MaxWorkflows:           20,
			TimeoutMinutes:         60,
			CleanupIntervalMinutes: 5,
		},
		Workflow: DefaultWorkflow(),
	}
}

// DefaultWorkflow returns the built-in survey layout.
func DefaultWorkflow() WorkflowConfig {
	return WorkflowConfig{
		Sections: []SectionConfig{
			{
				Name:     "map",
				Required: true,
				RootSlot: "Link",
				Slots: []SlotConfig{
					{Name: "Link", Required: true},
					{Name: "Alignment"},
					{Name: "DRP"},
				},
			},
			{
				Name:     "unitCosts",
				Required: true,
				Slots: []SlotConfig{
					{Name: "CODE_AN_UnitCostsPER", Required: true},
					{Name: "CODE_AN_UnitCostsPERUnpaved", Required: true},
					{Name: "CODE_AN_UnitCostsREH", Required: true},
					{Name: "CODE_AN_UnitCostsRIGID", Required: true},
					{Name: "CODE_AN_UnitCostsRM", Required: true},
					{Name: "CODE_AN_UnitCostsUPGUnpaved", Required: true},
					{Name: "CODE_AN_UnitCostsWidening", Required: true},
					{Name: "CODE_AN_Parameters"},
					{Name: "CODE_AN_WidthStandards"},
				},
			},
			{
				Name:      "survey",
				Required:  true,
				DependsOn: "map",
				RootSlot:  "RoadInventory",
				Slots: []SlotConfig{
					{Name: "RoadInventory", Required: true},
					{Name: "RoadCondition"},
				},
				Satellites: map[string][]SlotConfig{
					"structure": {
						{Name: "BridgeInventory"},
						{Name: "CulvertInventory"},
						{Name: "CulvertCondition"},
						{Name: "RetainingWallInventory"},
						{Name: "RetainingWallCondition"},
						{Name: "RoadHazard"},
					},
					"traffic": {
						{Name: "TrafficVolume"},
						{Name: "TrafficWeightingFactors"},
					},
				},
			},
		},
		Edges: []EdgeConfig{
			{Parent: "Link", Child: "Alignment"},
			{Parent: "Link", Child: "DRP"},
			{Parent: "RoadInventory", Child: "RoadCondition", RequiresConfirmed: true},
		},
	}
}

// LoadConfig reads configuration from a YAML file, falling back to defaults
// when the file does not exist. Values present in the file override defaults;
// a workflow block in the file replaces the built-in layout wholesale.
func LoadConfig(path string) (*AppConfig, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks structural consistency of the configuration.
func (c *AppConfig) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server port out of range: %d", c.Server.Port)
	}
	if c.Remote.Endpoint == "" {
		return fmt.Errorf("remote endpoint is required")
	}
	return c.Workflow.Validate()
}

// Validate checks the workflow layout: unique names, resolvable references,
// and edges that stay within one section.
func (w *WorkflowConfig) Validate() error {
	if len(w.Sections) == 0 {
		return fmt.Errorf("workflow has no sections")
	}

	sections := make(map[string]bool)
	slotSection := make(map[string]string)

	for _, sec := range w.Sections {
		if sec.Name == "" {
			return fmt.Errorf("section with empty name")
		}
		if sections[sec.Name] {
			return fmt.Errorf("duplicate section %q", sec.Name)
		}
		sections[sec.Name] = true

		for _, slot := range sec.Slots {
			if _, dup := slotSection[slot.Name]; dup {
				return fmt.Errorf("duplicate slot %q", slot.Name)
			}
			slotSection[slot.Name] = sec.Name
		}
		for group, slots := range sec.Satellites {
			for _, slot := range slots {
				if _, dup := slotSection[slot.Name]; dup {
					return fmt.Errorf("duplicate slot %q in satellite group %q", slot.Name, group)
				}
				slotSection[slot.Name] = sec.Name
			}
		}

		if sec.RootSlot != "" {
			if owner, ok := slotSection[sec.RootSlot]; !ok || owner != sec.Name {
				return fmt.Errorf("section %q: root slot %q is not one of its slots", sec.Name, sec.RootSlot)
			}
		}
	}

	for _, sec := range w.Sections {
		if sec.DependsOn != "" && !sections[sec.DependsOn] {
			return fmt.Errorf("section %q depends on unknown section %q", sec.Name, sec.DependsOn)
		}
		if sec.DependsOn == sec.Name {
			return fmt.Errorf("section %q depends on itself", sec.Name)
		}
	}

	for _, e := range w.Edges {
		ps, ok := slotSection[e.Parent]
		if !ok {
			return fmt.Errorf("edge references unknown parent slot %q", e.Parent)
		}
		cs, ok := slotSection[e.Child]
		if !ok {
			return fmt.Errorf("edge references unknown child slot %q", e.Child)
		}
		if ps != cs {
			return fmt.Errorf("edge %s -> %s crosses sections %q and %q", e.Parent, e.Child, ps, cs)
		}
		if e.Parent == e.Child {
			return fmt.Errorf("self-referential edge on slot %q", e.Parent)
		}
	}

	return nil
}
