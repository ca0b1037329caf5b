package config

import (
	"bytes"
	"fmt"

	"github.com/macropower/lintcfg/api"
	"github.com/macropower/lintcfg/api/v1beta1"
	"github.com/macropower/lintcfg/pkg/yaml"
)

// Validator checks a generically decoded document, typically against a JSON
// schema. See [yaml.Validator].
type Validator interface {
	Validate(data any) error
}

// Checker is implemented by kinds with semantic checks beyond their schema.
type Checker interface {
	Validate() error
}

// LoaderOpt configures a [Loader].
type LoaderOpt func(*loaderOptions)

type loaderOptions struct {
	validator Validator
	color     bool
}

// WithValidator replaces the kind's default validator. A nil validator
// disables schema validation.
func WithValidator(v Validator) LoaderOpt {
	return func(o *loaderOptions) {
		o.validator = v
	}
}

// WithColor enables colored source excerpts in errors.
func WithColor(color bool) LoaderOpt {
	return func(o *loaderOptions) {
		o.color = color
	}
}

// Loader reads one configuration document of kind T.
//
// Errors from [Loader.Validate] and [Loader.Load] are [*yaml.Error] values
// annotated with the offending part of the source.
type Loader[T v1beta1.Object] struct {
	validator Validator
	newFunc   func() T
	errs      *yaml.ErrorWrapper
	data      []byte
}

// NewLoaderFromBytes creates a [Loader] for data. The newFunc constructs an
// empty T to decode into, e.g. [compositions.New].
func NewLoaderFromBytes[T v1beta1.Object](
	data []byte,
	newFunc func() T,
	defaultValidator Validator,
	opts ...LoaderOpt,
) *Loader[T] {
	o := &loaderOptions{validator: defaultValidator}
	for _, opt := range opts {
		opt(o)
	}

	return &Loader[T]{
		data:      data,
		newFunc:   newFunc,
		validator: o.validator,
		errs:      yaml.NewErrorWrapper(yaml.WithSource(data), yaml.WithColor(o.color)),
	}
}

// NewLoaderFromFile creates a [Loader] for the file at path.
func NewLoaderFromFile[T v1beta1.Object](
	path string,
	newFunc func() T,
	defaultValidator Validator,
	opts ...LoaderOpt,
) (*Loader[T], error) {
	data, err := api.ReadFile(path)
	if err != nil {
		return nil, err //nolint:wrapcheck // Already wrapped.
	}

	return NewLoaderFromBytes(data, newFunc, defaultValidator, opts...), nil
}

func (l *Loader[T]) decode(v any) error {
	err := yaml.NewDecoder(bytes.NewReader(l.data)).Decode(v)
	if err != nil {
		return l.errs.Wrap(err)
	}

	return nil
}

// Validate checks the document with the loader's [Validator].
func (l *Loader[T]) Validate() error {
	var doc any

	err := l.decode(&doc)
	if err != nil || l.validator == nil {
		return err
	}

	err = l.validator.Validate(doc)
	if err != nil {
		return l.errs.Wrap(err)
	}

	return nil
}

// Load decodes the document into a new T and applies its defaults.
//
//nolint:ireturn // Generic type parameter return is intentional.
func (l *Loader[T]) Load() (T, error) {
	cfg := l.newFunc()

	err := l.decode(cfg)
	if err != nil {
		var zero T
		return zero, err
	}

	cfg.EnsureDefaults()

	return cfg, nil
}

// Parse validates, loads, and then runs the semantic checks of T when it
// implements [Checker].
//
//nolint:ireturn // Generic type parameter return is intentional.
func (l *Loader[T]) Parse() (T, error) {
	var zero T

	err := l.Validate()
	if err != nil {
		return zero, fmt.Errorf("validate: %w", err)
	}

	cfg, err := l.Load()
	if err != nil {
		return zero, fmt.Errorf("load: %w", err)
	}

	if c, ok := any(cfg).(Checker); ok {
		err = c.Validate()
		if err != nil {
			return zero, err //nolint:wrapcheck // Kinds return descriptive errors.
		}
	}

	return cfg, nil
}
