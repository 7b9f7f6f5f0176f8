package dynexport

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ParseInteger parses endpoint text the way the kernel's kstrtol does with
// base 0: an optional sign, then "0x"/"0X" for hex, a leading "0" for octal,
// decimal otherwise. A single trailing newline, as echo appends, is allowed;
// any other whitespace is invalid.
func ParseInteger(text string) (int64, error) {
	s := strings.TrimSuffix(text, "\n")

	sign := ""
	digits := s
	if len(digits) > 0 && (digits[0] == '+' || digits[0] == '-') {
		sign, digits = digits[:1], digits[1:]
	}

	base := 10
	switch {
	case len(digits) > 1 && (digits[:2] == "0x" || digits[:2] == "0X"):
		base, digits = 16, digits[2:]
	case len(digits) > 1 && digits[0] == '0':
		base, digits = 8, digits[1:]
	}

	// ParseInt would accept a second sign after a stripped prefix.
	if digits == "" || digits[0] == '+' || digits[0] == '-' {
		return 0, fmt.Errorf("%w: %q is not an integer", ErrInvalidInput, text)
	}
	v, err := strconv.ParseInt(sign+digits, base, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not an integer", ErrInvalidInput, text)
	}
	return v, nil
}

// parseField parses a field attribute value, which must fit in 32 bits.
func parseField(text string) (int64, error) {
	v, err := ParseInteger(text)
	if err != nil {
		return 0, err
	}
	if v < math.MinInt32 || v > math.MaxInt32 {
		return 0, fmt.Errorf("%w: %d out of range", ErrInvalidInput, v)
	}
	return v, nil
}
