// SPDX-FileCopyrightText:  © 2023 Siemens Healthcare GmbH
// SPDX-License-Identifier:   MIT

package json

import (
	j "encoding/json"
	"fmt"
	"io"
)

func MarshalIndent(data any) ([]byte, error) {
	return j.MarshalIndent(data, "", "  ")
}

// Print writes the indented json representation of data followed by a line break
func Print(w io.Writer, data any) error {
	bytes, err := MarshalIndent(data)
	if err != nil {
		return fmt.Errorf("could not marshal to json: %w", err)
	}
	if _, err := fmt.Fprintln(w, string(bytes)); err != nil {
		return fmt.Errorf("could not print json: %w", err)
	}
	return nil
}
