package calculation

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

var leadingNumberRe = regexp.MustCompile(`^([+-]?)(\d+(?:\.\d*)?|\.\d+)(?:[eE]([+-]?\d+))?`)

const (
	// MaxExponent bounds the exponent ParseNumber honours. Larger positive
	// exponents are clamped to it; smaller negative ones read as zero.
	MaxExponent = 30
	// MaxFractionDigits is how many fraction digits survive parsing; the rest
	// are truncated.
	MaxFractionDigits = 12
)

// ParseNumber reads the leading decimal literal of value and returns it.
// Anything that does not start with a number parses as zero, so callers never
// have to handle a parse error: "12.5kg" is 12.5, "" and "abc" are 0.
func ParseNumber(value string) decimal.Decimal {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return decimal.Zero
	}

	m := leadingNumberRe.FindStringSubmatch(trimmed)
	if m == nil {
		return decimal.Zero
	}
	sign, mantissa, expPart := m[1], m[2], m[3]

	intPart, frac, _ := strings.Cut(mantissa, ".")
	if intPart == "" {
		intPart = "0"
	}
	if len(frac) > MaxFractionDigits {
		frac = frac[:MaxFractionDigits]
	}

	exp := 0
	if expPart != "" {
		e, err := strconv.Atoi(expPart)
		switch {
		case strings.HasPrefix(expPart, "-") && (err != nil || e < -MaxExponent):
			return decimal.Zero
		case err != nil || e > MaxExponent:
			e = MaxExponent
		}
		exp = e
	}

	literal := intPart
	if frac != "" {
		literal += "." + frac
	}
	if sign == "-" {
		literal = "-" + literal
	}
	parsed, err := decimal.NewFromString(literal)
	if err != nil {
		return decimal.Zero
	}
	return parsed.Shift(int32(exp))
}

// Number is a numeric input field decoded permissively from JSON. It accepts
// numbers, numeric strings, null and absence; the value is resolved with
// ParseNumber when read.
type Number struct {
	raw string
	set bool
}

// NumberOf wraps raw text as a Number.
func NumberOf(raw string) Number {
	return Number{raw: raw, set: strings.TrimSpace(raw) != ""}
}

// NumberFromDecimal wraps an already parsed value.
func NumberFromDecimal(d decimal.Decimal) Number {
	return NumberOf(d.String())
}

// Decimal returns the parsed value, zero when absent or malformed.
func (n Number) Decimal() decimal.Decimal {
	if !n.set {
		return decimal.Zero
	}
	return ParseNumber(n.raw)
}

// IsSet reports whether the field carried any non-empty value.
func (n Number) IsSet() bool {
	return n.set
}

// Raw returns the text the field was decoded from.
func (n Number) Raw() string {
	return n.raw
}

func (n *Number) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*n = Number{}
		return nil
	}

	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			*n = Number{}
			return nil
		}
		*n = NumberOf(s)
		return nil
	}

	*n = NumberOf(string(trimmed))
	return nil
}

func (n Number) MarshalJSON() ([]byte, error) {
	if !n.set {
		return []byte("null"), nil
	}
	return []byte(n.Decimal().String()), nil
}
