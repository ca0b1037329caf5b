package expr

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"
)

// Protect CEL environment creation and compilation from concurrent access.
var celMutex sync.Mutex

// Variable names available to rule expressions.
const (
	VarKey      = "key"
	VarPlugin   = "plugin"
	VarName     = "name"
	VarSeverity = "severity"
	VarLevel    = "level"
	VarOptions  = "options"
)

// Environment provides a thread-safe wrapper around a [*cel.Env].
type Environment struct {
	env *cel.Env
}

// NewEnvironment creates a new [Environment] with the rule library and any
// additional options.
func NewEnvironment(opts ...cel.EnvOption) (*Environment, error) {
	env, err := createEnvironment(opts...)
	if err != nil {
		return nil, err
	}

	return &Environment{env: env}, nil
}

// NewRuleEnvironment creates an [Environment] declaring the rule variables.
func NewRuleEnvironment() (*Environment, error) {
	return NewEnvironment(
		cel.Variable(VarKey, cel.StringType),
		cel.Variable(VarPlugin, cel.StringType),
		cel.Variable(VarName, cel.StringType),
		cel.Variable(VarSeverity, cel.StringType),
		cel.Variable(VarLevel, cel.IntType),
		cel.Variable(VarOptions, cel.ListType(cel.DynType)),
	)
}

// MustNewEnvironment creates a new [Environment] and panics on error.
func MustNewEnvironment(opts ...cel.EnvOption) *Environment {
	env, err := NewEnvironment(opts...)
	if err != nil {
		panic(err)
	}

	return env
}

// createEnvironment creates the [*cel.Env] using the global mutex.
func createEnvironment(opts ...cel.EnvOption) (*cel.Env, error) {
	celMutex.Lock()
	defer celMutex.Unlock()

	opts = append(opts, cel.Lib(&lib{}))

	celEnv, err := cel.NewEnv(opts...)
	if err != nil {
		return nil, fmt.Errorf("create CEL environment: %w", err)
	}

	return celEnv, nil
}

// Compile compiles a CEL expression and returns a program.
//
//nolint:ireturn // Following CEL's function signature.
func (e *Environment) Compile(expression string) (cel.Program, error) {
	celMutex.Lock()
	defer celMutex.Unlock()

	ast, issues := e.env.Compile(expression)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile expression: %w", issues.Err())
	}

	program, err := e.env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("create program: %w", err)
	}

	return program, nil
}

// EvalBool evaluates a program and reports its result. Evaluation errors and
// non-boolean results are reported as false.
func EvalBool(program cel.Program, vars map[string]any) bool {
	result, _, err := program.Eval(vars)
	if err != nil {
		return false
	}

	b, ok := result.Value().(bool)

	return ok && b
}
