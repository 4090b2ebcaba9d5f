package models

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed devices.yaml
var builtinCatalog []byte

type catalogFile struct {
	Devices []DeviceSpec `yaml:"devices"`
}

// Catalog is the read-only set of known devices
type Catalog struct {
	devices []*DeviceSpec
	byID    map[string]*DeviceSpec
}

// LoadCatalog parses the compiled-in device catalog
func LoadCatalog() (*Catalog, error) {
	return ParseCatalog(builtinCatalog)
}

// LoadCatalogFile parses a catalog document from disk
func LoadCatalogFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	return ParseCatalog(data)
}

// ParseCatalog parses and validates a catalog document
func ParseCatalog(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	if len(file.Devices) == 0 {
		return nil, fmt.Errorf("catalog has no devices")
	}

	c := &Catalog{
		devices: make([]*DeviceSpec, 0, len(file.Devices)),
		byID:    make(map[string]*DeviceSpec, len(file.Devices)),
	}
	for i := range file.Devices {
		d := &file.Devices[i]
		if err := d.Validate(); err != nil {
			return nil, fmt.Errorf("invalid catalog: %w", err)
		}
		if _, dup := c.byID[d.ID]; dup {
			return nil, fmt.Errorf("invalid catalog: duplicate device %s", d.ID)
		}
		c.devices = append(c.devices, d)
		c.byID[d.ID] = d
	}

	return c, nil
}

// Get returns a copy of the device with the given ID. Callers may modify it
// freely; the catalog itself is never changed after loading.
func (c *Catalog) Get(id string) (*DeviceSpec, error) {
	d, ok := c.byID[id]
	if !ok {
		return nil, fmt.Errorf("device %q: %w", id, ErrNotFound)
	}
	return d.Clone(), nil
}

// List returns copies of all devices in catalog order
func (c *Catalog) List() []*DeviceSpec {
	out := make([]*DeviceSpec, len(c.devices))
	for i, d := range c.devices {
		out[i] = d.Clone()
	}
	return out
}

// IDs returns the device ids in catalog order
func (c *Catalog) IDs() []string {
	ids := make([]string, len(c.devices))
	for i, d := range c.devices {
		ids[i] = d.ID
	}
	return ids
}
