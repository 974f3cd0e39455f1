// SPDX-FileCopyrightText:  © 2024 Siemens Healthineers AG
// SPDX-License-Identifier:   MIT

package yaml

import (
	"bytes"
	"fmt"
	"os"

	y "gopkg.in/yaml.v3"
)

const indent = 2

func FromFile[T any](path string) (v *T, err error) {
	binaries, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read file '%s': %w", path, err)
	}

	err = y.Unmarshal(binaries, &v)
	if err != nil {
		return nil, fmt.Errorf("could not unmarshall file '%s' to yaml: %w", path, err)
	}
	return v, nil
}

// Marshal encodes v with the indentation kubectl uses
func Marshal(v any) ([]byte, error) {
	var buffer bytes.Buffer

	encoder := y.NewEncoder(&buffer)
	encoder.SetIndent(indent)

	if err := encoder.Encode(v); err != nil {
		return nil, fmt.Errorf("could not marshal to yaml: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("could not marshal to yaml: %w", err)
	}
	return buffer.Bytes(), nil
}
