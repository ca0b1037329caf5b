package rule

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
)

// ErrInvalidEntry indicates a value that cannot be read as a rule entry.
var ErrInvalidEntry = errors.New("invalid rule entry")

// Entry is the canonical configuration of a single rule: a severity, plus an
// optional ordered list of rule-specific options.
//
// Options are opaque. They are never validated or merged, only carried.
type Entry struct {
	Severity Severity
	Options  []any
}

// NewEntry creates an [Entry] with the given severity and options.
func NewEntry(s Severity, options ...any) Entry {
	if len(options) == 0 {
		options = nil
	}

	return Entry{Severity: s, Options: options}
}

// ParseEntry reads an [Entry] from any of its accepted encodings:
//
//   - an [Entry] or *[Entry],
//   - a bare severity ([Severity], string, or a number 0-2),
//   - a slice or array whose first element is a severity and whose remaining
//     elements are options.
//
// It returns false when the severity cannot be resolved.
func ParseEntry(v any) (Entry, bool) {
	switch ev := v.(type) {
	case Entry:
		return ev.Clone(), ev.Severity.Valid()
	case *Entry:
		if ev == nil {
			return Entry{}, false
		}

		return ev.Clone(), ev.Severity.Valid()
	case []any:
		return parseList(ev)
	}

	if s, ok := ParseSeverity(v); ok {
		return Entry{Severity: s}, true
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return Entry{}, false
	}

	list := make([]any, rv.Len())
	for i := range rv.Len() {
		list[i] = rv.Index(i).Interface()
	}

	return parseList(list)
}

func parseList(list []any) (Entry, bool) {
	if len(list) == 0 {
		return Entry{}, false
	}

	s, ok := ParseSeverity(list[0])
	if !ok {
		return Entry{}, false
	}

	e := Entry{Severity: s}
	if len(list) > 1 {
		e.Options = make([]any, len(list)-1)
		for i, opt := range list[1:] {
			e.Options[i] = CloneValue(opt)
		}
	}

	return e, true
}

// HasOptions reports whether the entry carries options.
func (e Entry) HasOptions() bool {
	return len(e.Options) > 0
}

// WithSeverity returns a copy of the entry using severity s.
func (e Entry) WithSeverity(s Severity) Entry {
	c := e.Clone()
	c.Severity = s

	return c
}

// Clone returns a deep copy of the entry.
func (e Entry) Clone() Entry {
	c := Entry{Severity: e.Severity}
	if len(e.Options) > 0 {
		c.Options = make([]any, len(e.Options))
		for i, opt := range e.Options {
			c.Options[i] = CloneValue(opt)
		}
	}

	return c
}

// Equal reports whether two entries have the same severity and deeply equal
// options.
func (e Entry) Equal(other Entry) bool {
	if e.Severity != other.Severity || len(e.Options) != len(other.Options) {
		return false
	}

	return len(e.Options) == 0 || reflect.DeepEqual(e.Options, other.Options)
}

// Value returns the engine representation of the entry: the bare severity
// string, or a list of the severity followed by the options.
func (e Entry) Value() any {
	if len(e.Options) == 0 {
		return string(e.Severity)
	}

	list := make([]any, 0, len(e.Options)+1)
	list = append(list, string(e.Severity))
	list = append(list, e.Options...)

	return list
}

func (e Entry) String() string {
	if len(e.Options) == 0 {
		return string(e.Severity)
	}

	b, err := json.Marshal(e.Value())
	if err != nil {
		return fmt.Sprintf("%s %v", e.Severity, e.Options)
	}

	return string(b)
}

// MarshalJSON implements [json.Marshaler].
func (e Entry) MarshalJSON() ([]byte, error) {
	b, err := json.Marshal(e.Value())
	if err != nil {
		return nil, fmt.Errorf("marshal rule entry: %w", err)
	}

	return b, nil
}

// UnmarshalJSON implements [json.Unmarshaler].
func (e *Entry) UnmarshalJSON(b []byte) error {
	var v any

	err := json.Unmarshal(b, &v)
	if err != nil {
		return fmt.Errorf("unmarshal rule entry: %w", err)
	}

	return e.set(v)
}

// MarshalYAML returns the value encoded by YAML marshalers.
func (e Entry) MarshalYAML() (any, error) {
	return e.Value(), nil
}

// UnmarshalYAML reads the entry from any accepted YAML encoding.
func (e *Entry) UnmarshalYAML(unmarshal func(any) error) error {
	var v any

	err := unmarshal(&v)
	if err != nil {
		return err //nolint:wrapcheck // Return the original error.
	}

	return e.set(v)
}

func (e *Entry) set(v any) error {
	parsed, ok := ParseEntry(v)
	if !ok {
		return fmt.Errorf("%w: %v", ErrInvalidEntry, v)
	}

	*e = parsed

	return nil
}

// CloneValue deep-copies JSON-like values. Other maps and slices are copied
// one level deep; everything else is returned as is.
func CloneValue(v any) any {
	switch tv := v.(type) {
	case nil:
		return nil
	case map[string]any:
		out := make(map[string]any, len(tv))
		for k, x := range tv {
			out[k] = CloneValue(x)
		}

		return out
	case []any:
		out := make([]any, len(tv))
		for i, x := range tv {
			out[i] = CloneValue(x)
		}

		return out
	}

	rv := reflect.ValueOf(v)

	switch rv.Kind() {
	case reflect.Slice:
		if rv.IsNil() {
			return v
		}

		out := reflect.MakeSlice(rv.Type(), rv.Len(), rv.Len())
		reflect.Copy(out, rv)

		return out.Interface()

	case reflect.Map:
		if rv.IsNil() {
			return v
		}

		out := reflect.MakeMapWithSize(rv.Type(), rv.Len())

		iter := rv.MapRange()
		for iter.Next() {
			out.SetMapIndex(iter.Key(), iter.Value())
		}

		return out.Interface()
	}

	return v
}
