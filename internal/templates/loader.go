package templates

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

type fileFormat struct {
	Templates []Template `yaml:"templates"`
}

// Decode reads templates from a YAML document of the form
//
//	templates:
//	  - key: boiler_service
//	    persona: homeowner
//	    title: Boiler service
//	    category: hvac_service
//	    recurrence: annual
//	    notify_30_days: true
func Decode(r io.Reader) ([]Template, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var doc fileFormat
	if err := dec.Decode(&doc); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("templates: decode: %w", err)
	}
	return doc.Templates, nil
}

// LoadFile reads additional templates from a YAML file.
func LoadFile(path string) ([]Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("templates: read %s: %w", path, err)
	}
	return Decode(bytes.NewReader(data))
}

// Load returns the built-in catalog extended with the templates in path.
// An empty path yields the built-in catalog.
func Load(path string) (*Catalog, error) {
	c := Default()
	if path == "" {
		return c, nil
	}
	extra, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	if err := c.Merge(extra); err != nil {
		return nil, fmt.Errorf("templates: %s: %w", path, err)
	}
	return c, nil
}
