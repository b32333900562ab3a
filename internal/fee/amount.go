package fee

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrInvalidAmountFormat is returned by ValidateAmount. Resolution itself never
// fails on a malformed amount; it degrades to zero instead.
var ErrInvalidAmountFormat = errors.New("invalid fee amount format")

const percentMarker = "%"

var (
	hundred       = decimal.NewFromInt(100)
	leadingNumber = regexp.MustCompile(`^[+-]?(\d+(\.\d+)?|\.\d+)([eE][+-]?\d+)?`)
	strictAmount  = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)%?$`)
)

// NormalizeSeparator replaces the host's decimal separator with a dot.
func NormalizeSeparator(raw, separator string) string {
	if separator == "" || separator == "." {
		return raw
	}
	return strings.ReplaceAll(raw, separator, ".")
}

// ParseAmount reads the leading numeric part of s and ignores the rest.
// Strings without a numeric prefix parse as zero.
func ParseAmount(s string) decimal.Decimal {
	m := leadingNumber.FindString(strings.TrimLeft(s, " \t\n\r\v\f"))
	if m == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(m)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// IsPercentage reports whether raw holds a percent marker after at least one
// other character. A bare leading marker is not a percentage.
func IsPercentage(raw string) bool {
	return strings.Index(raw, percentMarker) > 0
}

// ValidateAmount applies the strict format check that resolution skips: a
// dot-separated number with an optional single trailing percent marker.
func ValidateAmount(raw string) error {
	if !strictAmount.MatchString(strings.TrimSpace(raw)) {
		return fmt.Errorf("%w: %q", ErrInvalidAmountFormat, raw)
	}
	return nil
}
