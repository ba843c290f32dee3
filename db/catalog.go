// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Catalog is the out-of-band reference data: devices, question blocks and
// their questions. Synchronization never creates devices, so a catalog must
// be seeded before trackers can match.
type Catalog struct {
	Devices        []string       `yaml:"devices"`
	QuestionBlocks []CatalogBlock `yaml:"question_blocks"`
}

type CatalogBlock struct {
	Name        string            `yaml:"name"`
	Description string            `yaml:"description"`
	Devices     []string          `yaml:"devices"`
	Questions   []CatalogQuestion `yaml:"questions"`
}

type CatalogQuestion struct {
	Text           string `yaml:"text"`
	ExpectedResult string `yaml:"expected_result"`
	Device         string `yaml:"device"` // optional
}

// LoadCatalog reads and validates a YAML catalog file.
func LoadCatalog(path string) (Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, fmt.Errorf("read catalog: %w", err)
	}
	return ParseCatalog(data)
}

// ParseCatalog decodes a YAML catalog and checks required fields.
func ParseCatalog(data []byte) (Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Catalog{}, fmt.Errorf("parse catalog: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Catalog{}, err
	}
	return c, nil
}

// Validate checks that every named entity has a name and every question has
// text and an expected result.
func (c Catalog) Validate() error {
	for i, d := range c.Devices {
		if d == "" {
			return fmt.Errorf("catalog: device %d has no name", i)
		}
	}
	for _, b := range c.QuestionBlocks {
		if b.Name == "" {
			return errors.New("catalog: question block without name")
		}
		for j, q := range b.Questions {
			if q.Text == "" || q.ExpectedResult == "" {
				return fmt.Errorf("catalog: block %q question %d needs text and expected_result", b.Name, j)
			}
		}
	}
	return nil
}
