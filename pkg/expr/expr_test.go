package expr_test

import (
	"math"
	"testing"

	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/traits"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/lintcfg/pkg/expr"
)

func TestKeyFunctions(t *testing.T) {
	t.Parallel()

	env, err := expr.NewRuleEnvironment()
	require.NoError(t, err)

	tests := []struct {
		name       string
		expression string
		key        string
		expected   bool
	}{
		{
			name:       "keyNamespace of plugin rule",
			expression: `keyNamespace(key) == "typescript"`,
			key:        "typescript/array-type",
			expected:   true,
		},
		{
			name:       "keyNamespace of core rule",
			expression: `keyNamespace(key) == ""`,
			key:        "eqeqeq",
			expected:   true,
		},
		{
			name:       "keyName of plugin rule",
			expression: `keyName(key) == "array-type"`,
			key:        "typescript/array-type",
			expected:   true,
		},
		{
			name:       "keyName of core rule",
			expression: `keyName(key) == "eqeqeq"`,
			key:        "eqeqeq",
			expected:   true,
		},
		{
			name:       "keyName keeps nested segments",
			expression: `keyName(key) == "a/b"`,
			key:        "ns/a/b",
			expected:   true,
		},
		{
			name:       "string extension",
			expression: `key.split("/").size() == 2`,
			key:        "vue/html-indent",
			expected:   true,
		},
		{
			name:       "no match",
			expression: `keyNamespace(key) in ["vue", "vue-a11y"]`,
			key:        "yaml/indent",
			expected:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			program, err := env.Compile(tt.expression)
			require.NoError(t, err)

			got := expr.EvalBool(program, map[string]any{
				expr.VarKey:      tt.key,
				expr.VarPlugin:   "",
				expr.VarName:     "",
				expr.VarSeverity: "off",
				expr.VarLevel:    int64(0),
				expr.VarOptions:  []any{},
			})
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestCompile_Errors(t *testing.T) {
	t.Parallel()

	env := expr.MustNewEnvironment()

	_, err := env.Compile(`(`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "compile expression")

	_, err = env.Compile(`undeclared == 1`)
	require.Error(t, err)
}

func TestEvalBool_NonBoolean(t *testing.T) {
	t.Parallel()

	env := expr.MustNewEnvironment()

	program, err := env.Compile(`"text"`)
	require.NoError(t, err)
	assert.False(t, expr.EvalBool(program, map[string]any{}))
}

func TestConvertToCELValue(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		input any
		want  any
	}{
		"nil":            {input: nil, want: types.NullValue},
		"bool":           {input: true, want: types.Bool(true)},
		"int":            {input: 2, want: types.Int(2)},
		"uint64":         {input: uint64(7), want: types.Int(7)},
		"uint64 max":     {input: uint64(math.MaxUint64), want: types.Double(float64(uint64(math.MaxUint64)))},
		"float64":        {input: 1.5, want: types.Double(1.5)},
		"int8":           {input: int8(-1), want: types.Int(-1)},
		"string":         {input: "x", want: types.String("x")},
		"unsupported":    {input: struct{}{}, want: types.NullValue},
		"unsupported fn": {input: func() {}, want: types.NullValue},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.want, expr.ConvertToCELValue(tc.input))
		})
	}
}

func TestConvertToCELValue_Collections(t *testing.T) {
	t.Parallel()

	list, ok := expr.ConvertToCELValue([]any{"a", 1}).(traits.Sizer)
	require.True(t, ok)
	assert.Equal(t, types.Int(2), list.Size())

	strs, ok := expr.ConvertToCELValue([]string{"a", "b", "c"}).(traits.Sizer)
	require.True(t, ok)
	assert.Equal(t, types.Int(3), strs.Size())

	m, ok := expr.ConvertToCELValue(map[string]any{"k": "v"}).(traits.Mapper)
	require.True(t, ok)
	assert.Equal(t, types.String("v"), m.Get(types.String("k")))

	typed, ok := expr.ConvertToCELValue(map[string]bool{"jsx": true}).(traits.Mapper)
	require.True(t, ok)
	assert.Equal(t, types.Bool(true), typed.Get(types.String("jsx")))
}
