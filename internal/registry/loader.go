package registry

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"moleculehub/internal/domain"
)

// fileDoc is the YAML layout of a registry file.
type fileDoc struct {
	Properties []propertyDoc `yaml:"properties"`
}

type propertyDoc struct {
	Key         string   `yaml:"key"`
	DisplayName string   `yaml:"display_name"`
	Required    bool     `yaml:"required"`
	Type        string   `yaml:"type"`
	Unit        string   `yaml:"unit"`
	Min         *float64 `yaml:"min"`
	Max         *float64 `yaml:"max"`
	Aliases     []string `yaml:"aliases"`
}

// Parse reads a registry from YAML. Unknown fields are rejected so that a
// typo such as "requird" cannot silently make a property optional.
func Parse(data []byte) (*Registry, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var doc fileDoc
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, domain.ErrValidation("registry file is empty")
		}
		return nil, fmt.Errorf("parse registry: %w", err)
	}

	defs := make([]domain.PropertyDefinition, len(doc.Properties))
	for i, p := range doc.Properties {
		defs[i] = domain.PropertyDefinition{
			Key:         p.Key,
			DisplayName: p.DisplayName,
			Required:    p.Required,
			Type:        domain.PropertyType(p.Type),
			Unit:        p.Unit,
			Min:         p.Min,
			Max:         p.Max,
			Aliases:     p.Aliases,
		}
	}
	return New(defs)
}

// LoadFile reads a registry from a YAML file.
func LoadFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is operator-controlled
	if err != nil {
		return nil, fmt.Errorf("read registry %s: %w", path, err)
	}
	r, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("registry %s: %w", path, err)
	}
	return r, nil
}

// LoadOrDefault loads path, or returns the built-in registry when path is empty.
func LoadOrDefault(path string) (*Registry, error) {
	if path == "" {
		return Default(), nil
	}
	return LoadFile(path)
}

// Marshal renders r as a YAML registry document.
func Marshal(r *Registry) ([]byte, error) {
	doc := fileDoc{Properties: make([]propertyDoc, 0, len(r.defs))}
	for _, d := range r.defs {
		doc.Properties = append(doc.Properties, propertyDoc{
			Key:         d.Key,
			DisplayName: d.DisplayName,
			Required:    d.Required,
			Type:        string(d.Type),
			Unit:        d.Unit,
			Min:         d.Min,
			Max:         d.Max,
			Aliases:     d.Aliases,
		})
	}
	return yaml.Marshal(doc)
}
