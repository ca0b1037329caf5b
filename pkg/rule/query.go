package rule

import (
	"fmt"

	"github.com/google/cel-go/cel"

	"github.com/macropower/lintcfg/pkg/expr"
)

// Query selects rules from a [Table] using a CEL expression.
//
// See [expr] for the variables and functions available to the expression.
// The expression must evaluate to a boolean; anything else is a non-match.
type Query struct {
	program    cel.Program
	Expression string
}

// NewQuery compiles a [Query] from a CEL expression.
func NewQuery(expression string) (*Query, error) {
	env, err := expr.NewRuleEnvironment()
	if err != nil {
		return nil, fmt.Errorf("query %q: %w", expression, err)
	}

	program, err := env.Compile(expression)
	if err != nil {
		return nil, fmt.Errorf("query %q: %w", expression, err)
	}

	return &Query{Expression: expression, program: program}, nil
}

// Match reports whether the rule key with entry e matches the query.
func (q *Query) Match(key string, e Entry) bool {
	options := make([]any, len(e.Options))
	copy(options, e.Options)

	return expr.EvalBool(q.program, map[string]any{
		expr.VarKey:      key,
		expr.VarPlugin:   Namespace(key),
		expr.VarName:     Name(key),
		expr.VarSeverity: string(e.Severity),
		expr.VarLevel:    int64(e.Severity.Level()),
		expr.VarOptions:  expr.ConvertToCELValue(options),
	})
}

// Filter returns a new table with the entries of t that match the query.
func (q *Query) Filter(t Table) Table {
	out := Table{}
	for k, e := range t {
		if q.Match(k, e) {
			out[k] = e.Clone()
		}
	}

	return out
}
