package coercer

import (
	"math"
	"strconv"
	"strings"

	"gocompare/domain/core"
)

// TypeCoercer turns raw cell text into optional numbers. It never fails:
// anything it cannot read becomes a missing value.
type TypeCoercer struct {
	config CoercionConfig
}

// CoercionConfig defines the coercion rules
type CoercionConfig struct {
	AllowThousandsSeparator bool `json:"allow_thousands_separator"` // "1,234.5" -> 1234.5
	AllowCurrencySymbols    bool `json:"allow_currency_symbols"`    // "$80" -> 80
	AllowAccountingNegative bool `json:"allow_accounting_negative"` // "(12)" -> -12
}

// DefaultCoercionConfig returns a strict plain-number parse.
func DefaultCoercionConfig() CoercionConfig {
	return CoercionConfig{}
}

// LenientCoercionConfig accepts spreadsheet-style formatting.
func LenientCoercionConfig() CoercionConfig {
	return CoercionConfig{
		AllowThousandsSeparator: true,
		AllowCurrencySymbols:    true,
		AllowAccountingNegative: true,
	}
}

// NewTypeCoercer creates a coercer with the given config
func NewTypeCoercer(config CoercionConfig) *TypeCoercer {
	return &TypeCoercer{config: config}
}

// CoerceFloat parses a finite number or returns missing.
func (c *TypeCoercer) CoerceFloat(raw string) core.OptFloat {
	v, ok := c.tryParseNumeric(raw)
	if !ok {
		return core.MissingFloat()
	}
	return core.SomeFloat(v)
}

// CoerceNonNegative parses a finite number >= 0 or returns missing.
func (c *TypeCoercer) CoerceNonNegative(raw string) core.OptFloat {
	v, ok := c.tryParseNumeric(raw)
	if !ok || v < 0 {
		return core.MissingFloat()
	}
	return core.SomeFloat(v)
}

// CoerceCount parses a non-negative integral count. "30" and "30.0" are
// both 30; "30.5" and "-1" are missing.
func (c *TypeCoercer) CoerceCount(raw string) core.OptInt {
	v, ok := c.tryParseNumeric(raw)
	if !ok || v < 0 || v != math.Trunc(v) || v > math.MaxInt64/2 {
		return core.MissingInt()
	}
	return core.SomeInt(int64(v))
}

// tryParseNumeric applies the configured cleanup and parses a finite float.
func (c *TypeCoercer) tryParseNumeric(strVal string) (float64, bool) {
	cleanVal := strings.TrimSpace(strVal)
	if cleanVal == "" {
		return 0, false
	}

	// Handle parentheses for negative numbers: (123) -> -123
	isNegative := false
	if c.config.AllowAccountingNegative && strings.HasPrefix(cleanVal, "(") && strings.HasSuffix(cleanVal, ")") {
		cleanVal = strings.TrimSuffix(strings.TrimPrefix(cleanVal, "("), ")")
		isNegative = true
	}

	if c.config.AllowCurrencySymbols {
		for _, symbol := range []string{"$", "€", "£", "¥"} {
			cleanVal = strings.ReplaceAll(cleanVal, symbol, "")
		}
		cleanVal = strings.TrimSpace(cleanVal)
	}

	if c.config.AllowThousandsSeparator {
		cleanVal = strings.ReplaceAll(cleanVal, ",", "")
	}

	if isNegative {
		cleanVal = "-" + cleanVal
	}

	val, err := strconv.ParseFloat(cleanVal, 64)
	if err != nil || math.IsInf(val, 0) || math.IsNaN(val) {
		return 0, false
	}
	return val, true
}
