// SPDX-FileCopyrightText:  © 2024 Siemens Healthineers AG
// SPDX-License-Identifier:   MIT

package units

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/alecthomas/units"
)

// ByteSize is an amount of bytes, printed with base-2 units
type ByteSize int64

const (
	maxUnit  = "EiB"
	kibibyte = 1024.0
)

var byteUnits = []string{"B", "KiB", "MiB", "GiB", "TiB", "PiB"}

// ParseByteSize accepts plain byte counts (e.g. '512') and base-2 quantities (e.g. '16Mi', '16MiB', '16MB')
func ParseByteSize(input string) (ByteSize, error) {
	input = strings.TrimSpace(input)

	if count, err := strconv.ParseInt(input, 10, 64); err == nil {
		if count < 0 {
			return 0, fmt.Errorf("byte size must not be negative: '%s'", input)
		}
		return ByteSize(count), nil
	}

	// see https://physics.nist.gov/cuu/Units/binary.html
	if strings.HasSuffix(input, "i") {
		input += "B"
	}

	bytes, err := units.ParseBase2Bytes(input)
	if err != nil {
		return 0, fmt.Errorf("could not parse byte size '%s': %w", input, err)
	}
	if bytes < 0 {
		return 0, fmt.Errorf("byte size must not be negative: '%s'", input)
	}
	return ByteSize(bytes), nil
}

func (size ByteSize) Int64() int64 {
	return int64(size)
}

func (size ByteSize) String() string {
	quantity := float64(size)
	for _, unit := range byteUnits {
		if math.Abs(quantity) < kibibyte {
			return format(quantity, unit)
		}
		quantity /= kibibyte
	}
	return format(quantity, maxUnit)
}

func format(quantity float64, unit string) string {
	if quantity == math.Trunc(quantity) {
		return fmt.Sprintf("%.0f%s", quantity, unit)
	}
	return fmt.Sprintf("%.1f%s", quantity, unit)
}
