package catalog

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed data/dmc.json
var defaultDMC []byte

// DefaultSource is the Source of the embedded catalog.
const DefaultSource = "embedded:dmc"

// Format is a catalog encoding.
type Format int

const (
	JSON Format = iota
	YAML
)

// FormatForPath picks the encoding from a file extension; anything that is
// not .yaml/.yml is treated as JSON.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAML
	default:
		return JSON
	}
}

// Parse decodes and validates a catalog payload.
func Parse(data []byte, format Format) (*Catalog, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmptyCatalog
	}

	// Unknown fields and anything after the record list are rejected in
	// both encodings.
	var records []Record
	switch format {
	case YAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&records); err != nil {
			return nil, fmt.Errorf("%w: decode yaml: %w", ErrDataCorrupted, err)
		}
		var extra yaml.Node
		if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: decode yaml: trailing document", ErrDataCorrupted)
		}
	default:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&records); err != nil {
			return nil, fmt.Errorf("%w: decode json: %w", ErrDataCorrupted, err)
		}
		if dec.More() {
			return nil, fmt.Errorf("%w: decode json: trailing data after offset %d", ErrDataCorrupted, dec.InputOffset())
		}
	}
	return New(records)
}

// Load reads a catalog file. A missing path is an I/O error, not data
// corruption.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %s: %w", path, err)
	}
	c, err := Parse(data, FormatForPath(path))
	if err != nil {
		return nil, fmt.Errorf("catalog: %s: %w", path, err)
	}
	c.source = filepath.Clean(path)
	return c, nil
}

// Default returns the embedded DMC catalog.
func Default() (*Catalog, error) {
	c, err := Parse(defaultDMC, JSON)
	if err != nil {
		return nil, fmt.Errorf("catalog: embedded dmc: %w", err)
	}
	c.source = DefaultSource
	return c, nil
}

// LoadOrDefault loads path, or the embedded catalog when path is empty.
func LoadOrDefault(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	return Load(path)
}
