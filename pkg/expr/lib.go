package expr

import (
	"math"
	"reflect"
	"strings"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"
	"github.com/google/cel-go/ext"
)

type lib struct{}

func (lib) CompileOptions() []cel.EnvOption {
	return []cel.EnvOption{
		ext.Strings(),
		ext.Lists(),

		// `keyNamespace` returns the plugin namespace of a rule identifier.
		// Example: keyNamespace("typescript/array-type") == "typescript".
		cel.Function("keyNamespace",
			cel.Overload("key_namespace_string", []*cel.Type{cel.StringType}, cel.StringType,
				cel.UnaryBinding(func(key ref.Val) ref.Val {
					keyValue, ok := key.(types.String).Value().(string)
					if !ok {
						return types.NewErr("keyNamespace: invalid string value")
					}

					ns, _, found := strings.Cut(keyValue, "/")
					if !found {
						return types.String("")
					}

					return types.String(ns)
				}),
			),
		),

		// `keyName` returns a rule identifier without its namespace.
		// Example: keyName("typescript/array-type") == "array-type".
		cel.Function("keyName",
			cel.Overload("key_name_string", []*cel.Type{cel.StringType}, cel.StringType,
				cel.UnaryBinding(func(key ref.Val) ref.Val {
					keyValue, ok := key.(types.String).Value().(string)
					if !ok {
						return types.NewErr("keyName: invalid string value")
					}

					_, name, found := strings.Cut(keyValue, "/")
					if !found {
						return types.String(keyValue)
					}

					return types.String(name)
				}),
			),
		),
	}
}

func (lib) ProgramOptions() []cel.ProgramOption {
	return []cel.ProgramOption{}
}

// ConvertToCELValue converts a decoded Go value to a CEL value. Booleans,
// numbers, strings, and slices and maps of them are converted recursively,
// whatever their concrete Go type. Anything else becomes null.
//
//nolint:ireturn // Following CEL's function signature.
func ConvertToCELValue(value any) ref.Val {
	if value == nil {
		return types.NullValue
	}

	rv := reflect.ValueOf(value)

	switch rv.Kind() {
	case reflect.Bool:
		return types.Bool(rv.Bool())

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return types.Int(rv.Int())

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return types.Double(float64(u))
		}

		return types.Int(int64(u))

	case reflect.Float32, reflect.Float64:
		return types.Double(rv.Float())

	case reflect.String:
		return types.String(rv.String())

	case reflect.Slice, reflect.Array:
		items := make([]ref.Val, rv.Len())
		for i := range items {
			items[i] = ConvertToCELValue(rv.Index(i).Interface())
		}

		return types.NewDynamicList(types.DefaultTypeAdapter, items)

	case reflect.Map:
		entries := make(map[ref.Val]ref.Val, rv.Len())

		iter := rv.MapRange()
		for iter.Next() {
			entries[ConvertToCELValue(iter.Key().Interface())] = ConvertToCELValue(iter.Value().Interface())
		}

		return types.NewDynamicMap(types.DefaultTypeAdapter, entries)
	}

	return types.NullValue
}
