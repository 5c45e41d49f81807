package core

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
)

// OptFloat is a float64 that may be missing. The zero value is missing.
// Missing is a state, never a NaN smuggled through arithmetic.
type OptFloat struct {
	value float64
	valid bool
}

// SomeFloat wraps a present value. Non-finite inputs are stored as missing.
func SomeFloat(v float64) OptFloat {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return OptFloat{}
	}
	return OptFloat{value: v, valid: true}
}

// MissingFloat returns the missing value.
func MissingFloat() OptFloat { return OptFloat{} }

// Get returns the value and whether it is present.
func (f OptFloat) Get() (float64, bool) { return f.value, f.valid }

// Valid reports whether the value is present.
func (f OptFloat) Valid() bool { return f.valid }

// IsMissing reports whether the value is missing.
func (f OptFloat) IsMissing() bool { return !f.valid }

// Or returns the value, or def when missing.
func (f OptFloat) Or(def float64) float64 {
	if !f.valid {
		return def
	}
	return f.value
}

// Float64 returns the value or NaN. For export boundaries only.
func (f OptFloat) Float64() float64 { return f.Or(math.NaN()) }

// Format renders the value with strconv 'g' formatting, or "" when missing.
func (f OptFloat) Format() string {
	if !f.valid {
		return ""
	}
	return strconv.FormatFloat(f.value, 'g', -1, 64)
}

func (f OptFloat) String() string {
	if !f.valid {
		return "<missing>"
	}
	return f.Format()
}

func (f OptFloat) MarshalJSON() ([]byte, error) {
	if !f.valid {
		return []byte("null"), nil
	}
	return json.Marshal(f.value)
}

func (f *OptFloat) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*f = OptFloat{}
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*f = SomeFloat(v)
	return nil
}

// OptInt is an int64 that may be missing. The zero value is missing.
type OptInt struct {
	value int64
	valid bool
}

// SomeInt wraps a present value.
func SomeInt(v int64) OptInt { return OptInt{value: v, valid: true} }

// MissingInt returns the missing value.
func MissingInt() OptInt { return OptInt{} }

// Get returns the value and whether it is present.
func (i OptInt) Get() (int64, bool) { return i.value, i.valid }

// Valid reports whether the value is present.
func (i OptInt) Valid() bool { return i.valid }

// IsMissing reports whether the value is missing.
func (i OptInt) IsMissing() bool { return !i.valid }

// Or returns the value, or def when missing.
func (i OptInt) Or(def int64) int64 {
	if !i.valid {
		return def
	}
	return i.value
}

// Format renders the value in base 10, or "" when missing.
func (i OptInt) Format() string {
	if !i.valid {
		return ""
	}
	return strconv.FormatInt(i.value, 10)
}

func (i OptInt) String() string {
	if !i.valid {
		return "<missing>"
	}
	return i.Format()
}

func (i OptInt) MarshalJSON() ([]byte, error) {
	if !i.valid {
		return []byte("null"), nil
	}
	return json.Marshal(i.value)
}

func (i *OptInt) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*i = OptInt{}
		return nil
	}
	var v int64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*i = SomeInt(v)
	return nil
}
