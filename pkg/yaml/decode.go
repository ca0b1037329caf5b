package yaml

import (
	"errors"
	"io"

	"github.com/goccy/go-yaml"
)

type Decoder struct {
	d *yaml.Decoder
}

// DecodeOpt configures a [Decoder].
type DecodeOpt func(*[]yaml.DecodeOption)

// WithStrict rejects fields that do not exist in the destination struct.
func WithStrict() DecodeOpt {
	return func(opts *[]yaml.DecodeOption) {
		*opts = append(*opts, yaml.DisallowUnknownField())
	}
}

func NewDecoder(r io.Reader, opts ...DecodeOpt) *Decoder {
	decOpts := []yaml.DecodeOption{yaml.AllowDuplicateMapKey()}
	for _, opt := range opts {
		opt(&decOpts)
	}

	return &Decoder{
		d: yaml.NewDecoder(r, decOpts...),
	}
}

func (d *Decoder) Decode(v any) error {
	err := d.d.Decode(v)
	if err == nil {
		return nil
	}

	var yamlErr yaml.Error
	if errors.As(err, &yamlErr) {
		return &Error{
			Err:   errors.New(yamlErr.GetMessage()),
			Token: yamlErr.GetToken(),
		}
	}

	//nolint:wrapcheck // Return the original error if it's not a [yaml.Error].
	return err
}
