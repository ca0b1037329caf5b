package rule

import (
	"math"
	"reflect"
)

// Severity is the canonical severity of a rule.
type Severity string

const (
	SeverityOff   Severity = "off"
	SeverityWarn  Severity = "warn"
	SeverityError Severity = "error"
)

// AllSeverities lists the canonical severities in ascending order.
var AllSeverities = []string{
	string(SeverityOff),
	string(SeverityWarn),
	string(SeverityError),
}

// Level returns the numeric alias of the severity (0, 1 or 2), or -1 for an
// unknown severity.
func (s Severity) Level() int {
	switch s {
	case SeverityOff:
		return 0
	case SeverityWarn:
		return 1
	case SeverityError:
		return 2
	}

	return -1
}

// Valid reports whether s is one of the three canonical severities.
func (s Severity) Valid() bool {
	return s.Level() >= 0
}

func (s Severity) String() string {
	return string(s)
}

// ParseSeverity resolves a severity from its string or numeric encoding.
//
// Strings must be one of "off", "warn" or "error". Numbers of any Go kind are
// accepted when they hold exactly 0, 1 or 2, since decoders disagree on the
// concrete type (JSON yields float64, YAML yields uint64).
func ParseSeverity(v any) (Severity, bool) {
	switch sv := v.(type) {
	case Severity:
		return sv, sv.Valid()
	case string:
		s := Severity(sv)
		return s, s.Valid()
	case nil:
		return "", false
	}

	rv := reflect.ValueOf(v)

	var level float64

	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		level = float64(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		level = float64(rv.Uint())
	case reflect.Float32, reflect.Float64:
		level = rv.Float()
		if level != math.Trunc(level) {
			return "", false
		}
	default:
		return "", false
	}

	switch level {
	case 0:
		return SeverityOff, true
	case 1:
		return SeverityWarn, true
	case 2:
		return SeverityError, true
	}

	return "", false
}
