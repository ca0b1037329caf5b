package yaml

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/goccy/go-yaml/ast"
	"github.com/goccy/go-yaml/parser"
	"github.com/goccy/go-yaml/printer"
	"github.com/goccy/go-yaml/token"
)

var (
	errNoSource = errors.New("no source")
	errNoToken  = errors.New("no token")
)

// NewPathBuilder returns an empty [yaml.PathBuilder].
func NewPathBuilder() *yaml.PathBuilder {
	return &yaml.PathBuilder{}
}

// ErrorWrapper applies a fixed set of options to every [Error] it wraps.
// Loaders use it to attach the document source to decode and validation
// errors.
type ErrorWrapper struct {
	Opts []ErrorOpt
}

func NewErrorWrapper(opts ...ErrorOpt) *ErrorWrapper {
	return &ErrorWrapper{Opts: opts}
}

// Wrap applies the wrapper's options, then opts, to the [*Error] in err's
// chain. Errors that are not an [*Error] are returned as they are.
func (ew *ErrorWrapper) Wrap(err error, opts ...ErrorOpt) error {
	var yamlErr *Error
	if !errors.As(err, &yamlErr) {
		return err
	}

	yamlErr.apply(ew.Opts...)
	yamlErr.apply(opts...)

	return yamlErr
}

// Error is a YAML decode or validation error located by a [*token.Token] or
// a [*yaml.Path]. With Source set, the message includes an excerpt of the
// offending lines.
type Error struct {
	Err    error
	Path   *yaml.Path
	Token  *token.Token
	Source []byte
	Color  bool
}

type ErrorOpt func(e *Error)

func NewError(err error, opts ...ErrorOpt) *Error {
	e := &Error{Err: err}
	e.apply(opts...)

	return e
}

func (e *Error) apply(opts ...ErrorOpt) {
	for _, opt := range opts {
		opt(e)
	}
}

func WithPath(path *yaml.Path) ErrorOpt {
	return func(e *Error) {
		e.Path = path
	}
}

func WithToken(tk *token.Token) ErrorOpt {
	return func(e *Error) {
		e.Token = tk
	}
}

func WithSource(source []byte) ErrorOpt {
	return func(e *Error) {
		e.Source = source
	}
}

// WithColor enables ANSI colors in the source excerpt.
func WithColor(color bool) ErrorOpt {
	return func(e *Error) {
		e.Color = color
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Error() string {
	switch {
	case e.Err == nil:
		return ""
	case e.Path == nil && e.Token == nil:
		return e.Err.Error()
	}

	msg, err := e.annotate()
	if err == nil {
		return msg
	}

	slog.Debug("failed to annotate config with error", slog.Any("error", err))

	if e.Path != nil {
		return fmt.Sprintf("error at %s: %v", e.Path.String(), e.Err)
	}

	return e.Err.Error()
}

// annotate renders "[line:column] message" followed by the source excerpt
// around the error token.
func (e *Error) annotate() (string, error) {
	tk, err := e.token()
	if err != nil {
		return "", err
	}

	msg := fmt.Sprintf("[%d:%d] %v", tk.Position.Line, tk.Position.Column, e.Err)
	if len(e.Source) == 0 && e.Path == nil {
		return msg, nil
	}

	var p printer.Printer

	return msg + "\n" + p.PrintErrorToken(tk, e.Color), nil
}

func (e *Error) token() (*token.Token, error) {
	if e.Token != nil {
		return e.Token, nil
	}

	if len(e.Source) == 0 {
		return nil, errNoSource
	}

	tk, err := tokenAtPath(e.Source, e.Path)
	if err != nil {
		return nil, fmt.Errorf("get token from path: %w", err)
	}

	if tk == nil {
		return nil, errNoToken
	}

	return tk, nil
}

// tokenAtPath returns the token of the mapping key addressed by path, or of
// the value node when the path ends in a sequence index or is the root.
func tokenAtPath(source []byte, path *yaml.Path) (*token.Token, error) {
	file, err := parser.ParseBytes(source, 0)
	if err != nil {
		return nil, fmt.Errorf("parse source: %w", err)
	}

	node, err := path.FilterFile(file)
	if err != nil {
		return nil, fmt.Errorf("filter source by path: %w", err)
	}

	if tk := keyToken(file, path.String()); tk != nil {
		return tk, nil
	}

	return node.GetToken(), nil
}

func keyToken(file *ast.File, path string) *token.Token {
	dot := strings.LastIndex(path, ".")
	if dot == -1 || dot <= strings.LastIndex(path, "[") {
		return nil
	}

	parent, err := yaml.PathString(path[:dot])
	if err != nil {
		return nil
	}

	node, err := parent.FilterFile(file)
	if err != nil {
		return nil
	}

	mapping, ok := node.(*ast.MappingNode)
	if !ok {
		return nil
	}

	key := path[dot+1:]
	for _, v := range mapping.Values {
		if v.Key.String() == key {
			return v.Key.GetToken()
		}
	}

	return nil
}
