package table

import (
	"bytes"

	"gopkg.in/yaml.v3"
)

// parseYAML decodes a YAML table with strict field validation.
func parseYAML(path string, data []byte) (*File, error) {
	var f File
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&f); err != nil {
		return nil, &LoadError{Code: ErrCodeParseFailed, Message: err.Error(), Path: path}
	}
	f.Path = path
	return &f, nil
}
