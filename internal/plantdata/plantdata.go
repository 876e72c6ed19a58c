// Package plantdata is the static data provider for the hierarchy engine.
//
// Plant documents are YAML files holding flat record lists (locations,
// applications, modules, instrumentations, assets) that decode directly
// into hierarchy.RawData. A default plant is embedded in the binary so the
// server starts without any configuration.
package plantdata

import (
	"bytes"
	_ "embed"
	"io"
	"os"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"

	"github.com/nwater/plantmcp/internal/hierarchy"
)

// MaxDocumentSize caps plant documents read from disk (8 MiB).
const MaxDocumentSize = 8 << 20

//go:embed default_plant.yaml
var defaultPlant []byte

// Default returns the embedded default plant.
func Default() (hierarchy.RawData, error) {
	raw, err := Parse(defaultPlant)
	if err != nil {
		return hierarchy.RawData{}, errors.Wrap(err, "embedded default plant")
	}
	return raw, nil
}

// Load reads the plant document at path, or the embedded default plant
// when path is empty.
func Load(path string) (hierarchy.RawData, error) {
	if path == "" {
		return Default()
	}
	return LoadFile(path)
}

// LoadFile reads and parses a plant document from disk.
func LoadFile(path string) (hierarchy.RawData, error) {
	info, err := os.Stat(path)
	if err != nil {
		return hierarchy.RawData{}, errors.Wrapf(err, "reading plant document %s", path)
	}
	if info.Size() > MaxDocumentSize {
		return hierarchy.RawData{}, errors.Newf("plant document %s is %d bytes, limit is %d",
			path, info.Size(), MaxDocumentSize)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return hierarchy.RawData{}, errors.Wrapf(err, "reading plant document %s", path)
	}
	raw, err := Parse(data)
	if err != nil {
		return hierarchy.RawData{}, errors.Wrapf(err, "plant document %s", path)
	}
	return raw, nil
}

// Parse decodes a plant document. Unknown keys are rejected so typos in
// field names surface instead of silently dropping data. An empty
// document decodes to empty RawData, which hierarchy.Load then rejects.
func Parse(data []byte) (hierarchy.RawData, error) {
	var raw hierarchy.RawData
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return hierarchy.RawData{}, nil
		}
		return hierarchy.RawData{}, errors.Wrap(err, "decoding yaml")
	}
	return raw, nil
}
