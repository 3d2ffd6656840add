// Package formatting provides human-readable formatting and parsing utilities
// for byte sizes.
package formatting

import (
	"fmt"
	"math"
	"strings"

	"github.com/dustin/go-humanize"
)

// FormatBytes renders a byte count with IEC units ("1.5 MiB").
// Negative counts render as "0 B".
func FormatBytes(n int64) string {
	if n < 0 {
		n = 0
	}
	return humanize.IBytes(uint64(n))
}

// ParseBytes parses a human-readable byte size ("50MB", "512 KiB", "1024").
// SI units (KB, MB, GB) are powers of 1000 and IEC units (KiB, MiB, GiB)
// are powers of 1024. A bare number is a count of bytes.
func ParseBytes(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty byte size string")
	}

	n, err := humanize.ParseBytes(s)
	if err != nil {
		return 0, fmt.Errorf("invalid byte size %q: %w", s, err)
	}

	if n > math.MaxInt64 {
		return 0, fmt.Errorf("byte size %q overflows int64", s)
	}

	return int64(n), nil
}
