// Package baseconfig loads the base run configuration consumed by the
// overlay resolver. The base configuration is the external modeling
// framework's YAML config; its optimization-specific semantics are not
// interpreted here beyond applying documented overrides.
package baseconfig

import (
	"os"

	"gopkg.in/yaml.v3"

	"h2sweep/core/overlay"
	"h2sweep/internal/errors"
)

// Parse decodes YAML into a config tree
func Parse(data []byte) (overlay.Value, error) {
	var raw interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return overlay.Null(), errors.Wrap(errors.TypeParsing, "invalid base configuration YAML", err)
	}
	return overlay.FromGo(raw), nil
}

// Load reads and decodes a YAML config file
func Load(path string) (overlay.Value, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return overlay.Null(), errors.Wrapf(errors.TypeInput, err, "cannot read base configuration %s", path)
	}
	return Parse(data)
}

// Encode serializes a config tree back to YAML
func Encode(v overlay.Value) ([]byte, error) {
	data, err := yaml.Marshal(v.ToGo())
	if err != nil {
		return nil, errors.Wrap(errors.TypeInternal, "cannot encode configuration", err)
	}
	return data, nil
}
